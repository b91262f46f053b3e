package service

import (
	"context"

	"github.com/sakif/placement-hub/internal/model"
	"github.com/sakif/placement-hub/internal/report"
)

// StaffReport runs c over every posting in the repository, whatever its
// status or visibility.
func (e *Engine) StaffReport(ctx context.Context, staffID string, c report.Criteria) ([]*model.Internship, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if _, err := e.staff(staffID); err != nil {
		return nil, err
	}
	return e.generate(e.repo.ListInternships(), c), nil
}

// RepresentativeReport restricts c to the representative's own postings.
// A RepresentativeID already present in c is overridden.
func (e *Engine) RepresentativeReport(ctx context.Context, repID string, c report.Criteria) ([]*model.Internship, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if _, err := e.rep(repID); err != nil {
		return nil, err
	}
	c.RepresentativeID = report.Some(repID)
	return e.generate(e.repo.ListInternships(), c), nil
}

// StudentReport restricts c to postings students can see at all: APPROVED
// and visible. Level and major are left to the caller's criteria; use
// VisibleInternshipsFor for the personal eligibility view.
func (e *Engine) StudentReport(ctx context.Context, studentID string, c report.Criteria) ([]*model.Internship, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if _, err := e.student(studentID); err != nil {
		return nil, err
	}
	c.Status = report.Some(model.StatusApproved)
	c.Visible = report.Some(true)
	return e.generate(e.repo.ListInternships(), c), nil
}

func (e *Engine) generate(postings []*model.Internship, c report.Criteria) []*model.Internship {
	return cloneAll(report.Generate(postings, e.directory(), c))
}

// directory resolves company names from the representatives in the
// repository. Callers hold the lock while it is used.
func (e *Engine) directory() report.CompanyDirectory {
	return report.DirectoryFunc(func(repID string) (string, bool) {
		rep, ok := e.repo.FindCompanyRep(repID)
		if !ok {
			return "", false
		}
		return rep.CompanyName, true
	})
}
