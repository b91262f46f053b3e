package service

import (
	"errors"
	"testing"

	"github.com/sakif/placement-hub/internal/apperror"
	"github.com/sakif/placement-hub/internal/model"
	"github.com/sakif/placement-hub/internal/report"
)

func ids(ps []*model.Internship) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// reportFixture: rep1 (Acme) owns an approved Backend and a pending Data
// posting; rep2 (Globex) owns an approved ADVANCED Compilers posting.
func reportFixture(t *testing.T) (*fixture, []*model.Internship) {
	t.Helper()

	f := newFixture(t)
	f.rep("rep1", "Acme")
	f.rep("rep2", "Globex")
	f.student("junior", 1, "CSC")
	f.student("senior", 4, "csc")

	backend := f.posting("rep1", postingInput("Backend"))
	data := f.pendingPosting("rep1", postingInput("Data"))
	adv := postingInput("Compilers")
	adv.Level = model.LevelAdvanced
	compilers := f.posting("rep2", adv)

	return f, []*model.Internship{backend, data, compilers}
}

// =========================================================================
// Role-scoped report TESTS
// =========================================================================

func TestStaffReport_Unrestricted(t *testing.T) {
	f, ps := reportFixture(t)

	got, err := f.engine.StaffReport(f.ctx, testStaffID, report.Criteria{})
	if err != nil {
		t.Fatalf("StaffReport() error = %v", err)
	}
	// title order: Backend, Compilers, Data
	want := []string{ps[0].ID, ps[2].ID, ps[1].ID}
	if !equalIDs(ids(got), want) {
		t.Errorf("StaffReport() = %v, want %v", ids(got), want)
	}

	got, _ = f.engine.StaffReport(f.ctx, testStaffID, report.Criteria{Status: report.Some(model.StatusPending)})
	if !equalIDs(ids(got), []string{ps[1].ID}) {
		t.Errorf("StaffReport(PENDING) = %v, want [%s]", ids(got), ps[1].ID)
	}
}

func TestRepresentativeReport_OwnPostingsOnly(t *testing.T) {
	f, ps := reportFixture(t)

	// an attempt to look at another rep's postings is overridden
	c := report.Criteria{RepresentativeID: report.Some("rep2")}
	got, err := f.engine.RepresentativeReport(f.ctx, "rep1", c)
	if err != nil {
		t.Fatalf("RepresentativeReport() error = %v", err)
	}
	want := []string{ps[0].ID, ps[1].ID}
	if !equalIDs(ids(got), want) {
		t.Errorf("RepresentativeReport() = %v, want %v", ids(got), want)
	}
}

func TestStudentReport_ApprovedAndVisibleOnly(t *testing.T) {
	f, ps := reportFixture(t)

	hidden := f.posting("rep2", postingInput("Archived"))
	if _, err := f.engine.SetVisibility(f.ctx, "rep2", hidden.ID, false); err != nil {
		t.Fatalf("SetVisibility() error = %v", err)
	}

	// asking for pending or hidden postings is overridden
	c := report.Criteria{
		Status:  report.Some(model.StatusPending),
		Visible: report.Some(false),
		SortBy:  report.SortCompany,
	}
	got, err := f.engine.StudentReport(f.ctx, "junior", c)
	if err != nil {
		t.Fatalf("StudentReport() error = %v", err)
	}
	// Acme before Globex
	want := []string{ps[0].ID, ps[2].ID}
	if !equalIDs(ids(got), want) {
		t.Errorf("StudentReport() = %v, want %v", ids(got), want)
	}

	got, _ = f.engine.StudentReport(f.ctx, "senior", report.Criteria{Level: report.Some(model.LevelAdvanced)})
	if !equalIDs(ids(got), []string{ps[2].ID}) {
		t.Errorf("StudentReport(ADVANCED) = %v, want [%s]", ids(got), ps[2].ID)
	}
}

func TestStaffReport_CompanyFilterUsesDirectory(t *testing.T) {
	f, ps := reportFixture(t)

	got, err := f.engine.StaffReport(f.ctx, testStaffID, report.Criteria{CompanyName: report.Some("globex")})
	if err != nil {
		t.Fatalf("StaffReport() error = %v", err)
	}
	if !equalIDs(ids(got), []string{ps[2].ID}) {
		t.Errorf("StaffReport(company=globex) = %v, want [%s]", ids(got), ps[2].ID)
	}
}

func TestStaffReport_NoMatchIsEmpty(t *testing.T) {
	f, _ := reportFixture(t)

	got, err := f.engine.StaffReport(f.ctx, testStaffID, report.Criteria{MinSlots: report.Some(99)})
	if err != nil {
		t.Fatalf("StaffReport() error = %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("StaffReport(minSlots=99) = %v, want empty non-nil", got)
	}
}

func TestStaffReport_RequiresStaff(t *testing.T) {
	f, _ := reportFixture(t)

	if _, err := f.engine.StaffReport(f.ctx, "junior", report.Criteria{}); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("StaffReport(by student) error = %v, want ErrNotFound", err)
	}
}
