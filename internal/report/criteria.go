// Package report filters and orders postings for staff, representative and
// student reporting.
//
// A Criteria value carries one optional predicate per dimension. Absent
// predicates impose no constraint; present ones are ANDed together.
package report

import (
	"fmt"
	"strings"

	"github.com/sakif/placement-hub/internal/model"
)

// Opt is an explicitly optional value. The zero Opt is absent.
type Opt[T any] struct {
	v  T
	ok bool
}

// Some wraps v as a present value.
func Some[T any](v T) Opt[T] {
	return Opt[T]{v: v, ok: true}
}

// Get returns the value and whether it is present.
func (o Opt[T]) Get() (T, bool) {
	return o.v, o.ok
}

// SortKey selects the ordering of a report.
type SortKey string

const (
	SortTitle     SortKey = "TITLE"
	SortCompany   SortKey = "COMPANY"
	SortOpenDate  SortKey = "OPEN_DATE"
	SortCloseDate SortKey = "CLOSE_DATE"
	SortSlotsLeft SortKey = "SLOTS_LEFT"
)

// ParseSortKey accepts the key names case-insensitively. An empty string
// means the default, SortTitle.
func ParseSortKey(s string) (SortKey, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return SortTitle, nil
	}
	switch k := SortKey(s); k {
	case SortTitle, SortCompany, SortOpenDate, SortCloseDate, SortSlotsLeft:
		return k, nil
	}
	return "", fmt.Errorf("report: unknown sort key %q", s)
}

// Criteria describes which postings a report includes and how they are
// ordered.
type Criteria struct {
	Title            Opt[string] // substring, case-insensitive
	Major            Opt[string] // exact, case-insensitive
	Level            Opt[model.Level]
	RepresentativeID Opt[string]
	CompanyName      Opt[string] // exact, case-insensitive
	Status           Opt[model.Status]
	Visible          Opt[bool]
	MinSlots         Opt[int]
	OpenFrom         Opt[model.Date] // openDate >= bound
	CloseBy          Opt[model.Date] // closeDate <= bound

	// SortBy defaults to SortTitle when empty.
	SortBy SortKey
}

func (c Criteria) sortKey() SortKey {
	if c.SortBy == "" {
		return SortTitle
	}
	return c.SortBy
}
