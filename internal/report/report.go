package report

import (
	"cmp"
	"slices"
	"strings"

	"github.com/sakif/placement-hub/internal/model"
)

// CompanyDirectory resolves a representative id to the company they post for.
type CompanyDirectory interface {
	CompanyName(repID string) (string, bool)
}

// DirectoryFunc adapts a plain function to CompanyDirectory.
type DirectoryFunc func(repID string) (string, bool)

func (f DirectoryFunc) CompanyName(repID string) (string, bool) { return f(repID) }

// Generate returns the postings matching every present predicate in c,
// sorted ascending by c.SortBy.
//
// The sort is stable, so ties keep their input order. String keys compare
// case-insensitively. Generate never mutates its input and returns a non-nil
// slice, empty when nothing matches.
//
// dir may be nil when neither the company filter nor the company sort is used.
func Generate(postings []*model.Internship, dir CompanyDirectory, c Criteria) []*model.Internship {
	companyOf := func(i *model.Internship) string {
		if dir == nil {
			return ""
		}
		name, _ := dir.CompanyName(i.RepresentativeID)
		return name
	}

	out := make([]*model.Internship, 0, len(postings))
	for _, p := range postings {
		if matches(p, c, companyOf) {
			out = append(out, p)
		}
	}

	slices.SortStableFunc(out, comparator(c.sortKey(), companyOf))
	return out
}

func matches(p *model.Internship, c Criteria, companyOf func(*model.Internship) string) bool {
	if title, ok := c.Title.Get(); ok && !strings.Contains(strings.ToLower(p.Title), strings.ToLower(title)) {
		return false
	}
	if major, ok := c.Major.Get(); ok && !strings.EqualFold(p.Major, major) {
		return false
	}
	if level, ok := c.Level.Get(); ok && p.Level != level {
		return false
	}
	if repID, ok := c.RepresentativeID.Get(); ok && p.RepresentativeID != repID {
		return false
	}
	if company, ok := c.CompanyName.Get(); ok && !strings.EqualFold(companyOf(p), company) {
		return false
	}
	if status, ok := c.Status.Get(); ok && p.Status != status {
		return false
	}
	if visible, ok := c.Visible.Get(); ok && p.Visible != visible {
		return false
	}
	if minSlots, ok := c.MinSlots.Get(); ok && p.SlotsLeft < minSlots {
		return false
	}
	if from, ok := c.OpenFrom.Get(); ok && p.OpenDate.Before(from) {
		return false
	}
	if by, ok := c.CloseBy.Get(); ok && p.CloseDate.After(by) {
		return false
	}
	return true
}

func comparator(key SortKey, companyOf func(*model.Internship) string) func(a, b *model.Internship) int {
	switch key {
	case SortCompany:
		return func(a, b *model.Internship) int {
			return compareFold(companyOf(a), companyOf(b))
		}
	case SortOpenDate:
		return func(a, b *model.Internship) int { return a.OpenDate.Compare(b.OpenDate) }
	case SortCloseDate:
		return func(a, b *model.Internship) int { return a.CloseDate.Compare(b.CloseDate) }
	case SortSlotsLeft:
		return func(a, b *model.Internship) int { return cmp.Compare(a.SlotsLeft, b.SlotsLeft) }
	default:
		return func(a, b *model.Internship) int { return compareFold(a.Title, b.Title) }
	}
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}
