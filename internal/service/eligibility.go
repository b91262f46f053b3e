package service

import (
	"context"
	"strings"

	"github.com/sakif/placement-hub/internal/model"
)

// SeniorYear is the first year of study allowed past BASIC postings.
const SeniorYear = 3

// Eligible returns the postings student may browse, in input order.
//
// Two stages, applied in this order:
//  1. global: visible, APPROVED, at least one slot left, same major
//     (case-insensitive)
//  2. year gate: students below SeniorYear only see BASIC postings
//
// Eligible is pure; it reads but never mutates its arguments.
func Eligible(student *model.Student, postings []*model.Internship) []*model.Internship {
	open := make([]*model.Internship, 0, len(postings))
	for _, p := range postings {
		if isOpenTo(student, p) {
			open = append(open, p)
		}
	}

	if student.YearOfStudy >= SeniorYear {
		return open
	}

	basic := make([]*model.Internship, 0, len(open))
	for _, p := range open {
		if p.Level == model.LevelBasic {
			basic = append(basic, p)
		}
	}
	return basic
}

func isOpenTo(student *model.Student, p *model.Internship) bool {
	return p.Visible &&
		p.Status == model.StatusApproved &&
		p.SlotsLeft > 0 &&
		strings.EqualFold(p.Major, student.Major)
}

// levelAllowed is the year-gate stage on its own.
func levelAllowed(student *model.Student, p *model.Internship) bool {
	return student.YearOfStudy >= SeniorYear || p.Level == model.LevelBasic
}

// VisibleInternshipsFor returns the postings studentID may browse.
func (e *Engine) VisibleInternshipsFor(ctx context.Context, studentID string) ([]*model.Internship, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	st, err := e.student(studentID)
	if err != nil {
		return nil, err
	}
	return cloneAll(Eligible(st, e.repo.ListInternships())), nil
}
