package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/placement-hub/internal/apperror"
	"github.com/sakif/placement-hub/internal/auth"
	"github.com/sakif/placement-hub/internal/model"
	"github.com/sakif/placement-hub/internal/repository/memory"
)

// =========================================================================
// Login TESTS
// =========================================================================

func TestLogin(t *testing.T) {
	f := newFixture(t)
	f.rep("rep1", "Acme")
	f.student("s1", 2, "CSC")
	if _, err := f.engine.RegisterRepresentative(f.ctx, RepresentativeInput{
		AccountInput: AccountInput{ID: "rep-new", Password: testPassword, Name: "New Rep"},
		CompanyName:  "Initech",
	}); err != nil {
		t.Fatalf("RegisterRepresentative() error = %v", err)
	}

	tests := []struct {
		name     string
		role     model.Role
		id       string
		password string
		reason   apperror.Reason // empty means success
	}{
		{"student ok", model.RoleStudent, "s1", testPassword, ""},
		{"staff ok", model.RoleCareerStaff, testStaffID, testPassword, ""},
		{"approved rep ok", model.RoleCompanyRep, "rep1", testPassword, ""},
		{"unknown id", model.RoleStudent, "ghost", testPassword, apperror.ReasonUserNotFound},
		{"right id wrong role", model.RoleCareerStaff, "s1", testPassword, apperror.ReasonUserNotFound},
		{"wrong password", model.RoleStudent, "s1", "nope-nope", apperror.ReasonWrongPassword},
		{"pending rep", model.RoleCompanyRep, "rep-new", testPassword, apperror.ReasonUserNotApproved},
		{"pending rep wrong password", model.RoleCompanyRep, "rep-new", "nope-nope", apperror.ReasonWrongPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acct, err := f.engine.Login(f.ctx, tt.role, tt.id, tt.password)
			if tt.reason != "" {
				wantReason(t, err, apperror.ErrUnauthorized, tt.reason)
				return
			}
			if err != nil {
				t.Fatalf("Login() error = %v", err)
			}
			if acct.ID != tt.id || acct.Role != tt.role {
				t.Errorf("Login() = %s/%s, want %s/%s", acct.ID, acct.Role, tt.id, tt.role)
			}
		})
	}
}

func TestLogin_RejectedRepresentative(t *testing.T) {
	f := newFixture(t)
	if _, err := f.engine.RegisterRepresentative(f.ctx, RepresentativeInput{
		AccountInput: AccountInput{ID: "rep1", Password: testPassword, Name: "Rep"},
		CompanyName:  "Acme",
	}); err != nil {
		t.Fatalf("RegisterRepresentative() error = %v", err)
	}
	if _, err := f.engine.DecideRepresentative(f.ctx, testStaffID, "rep1", false); err != nil {
		t.Fatalf("DecideRepresentative() error = %v", err)
	}

	_, err := f.engine.Login(f.ctx, model.RoleCompanyRep, "rep1", testPassword)
	wantReason(t, err, apperror.ErrUnauthorized, apperror.ReasonUserNotApproved)

	// rejection is a flag, the account is kept
	if _, ok := f.store.FindCompanyRep("rep1"); !ok {
		t.Error("rejected representative removed from store")
	}
}

// =========================================================================
// ChangePassword TESTS
// =========================================================================

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	f.student("s1", 2, "CSC")

	err := f.engine.ChangePassword(f.ctx, model.RoleStudent, "s1", "wrong-old", "new-secret")
	wantReason(t, err, apperror.ErrUnauthorized, apperror.ReasonWrongPassword)

	err = f.engine.ChangePassword(f.ctx, model.RoleStudent, "s1", testPassword, "abc")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("ChangePassword(short) error = %v, want ErrValidation", err)
	}

	if err := f.engine.ChangePassword(f.ctx, model.RoleStudent, "s1", testPassword, "new-secret"); err != nil {
		t.Fatalf("ChangePassword() error = %v", err)
	}
	if _, err := f.engine.Login(f.ctx, model.RoleStudent, "s1", "new-secret"); err != nil {
		t.Errorf("Login(new password) error = %v", err)
	}
	_, err = f.engine.Login(f.ctx, model.RoleStudent, "s1", testPassword)
	wantReason(t, err, apperror.ErrUnauthorized, apperror.ReasonWrongPassword)
}

// unlockedChecker fails the test if bcrypt work starts while the engine
// lock is held by anyone.
type unlockedChecker struct {
	CredentialChecker
	t      *testing.T
	engine *Engine
	calls  int
}

func (c *unlockedChecker) assertUnlocked(op string) {
	c.t.Helper()
	c.calls++
	if !c.engine.mu.TryLock() {
		c.t.Errorf("%s called with the engine lock held", op)
		return
	}
	c.engine.mu.Unlock()
}

func (c *unlockedChecker) Hash(plaintext string) (string, error) {
	c.assertUnlocked("Hash")
	return c.CredentialChecker.Hash(plaintext)
}

func (c *unlockedChecker) Verify(hash, plaintext string) error {
	c.assertUnlocked("Verify")
	return c.CredentialChecker.Verify(hash, plaintext)
}

func TestPasswordWork_RunsWithoutEngineLock(t *testing.T) {
	ctx := context.Background()
	checker := &unlockedChecker{CredentialChecker: auth.NewPasswordServiceForTest(4), t: t}
	e := NewEngine(memory.New(), checker, testLogger())
	checker.engine = e

	if _, err := e.EnsureStaff(ctx, StaffInput{
		AccountInput: AccountInput{ID: testStaffID, Password: testPassword, Name: "Sam Staff"},
	}); err != nil {
		t.Fatalf("EnsureStaff() error = %v", err)
	}
	if _, err := e.EnrollStaff(ctx, testStaffID, StaffInput{
		AccountInput: AccountInput{ID: "staff2", Password: testPassword, Name: "Sue Staff"},
	}); err != nil {
		t.Fatalf("EnrollStaff() error = %v", err)
	}
	if _, err := e.EnrollStudent(ctx, testStaffID, StudentInput{
		AccountInput: AccountInput{ID: "s1", Password: testPassword, Name: "Ann"},
		YearOfStudy:  2,
		Major:        "CSC",
	}); err != nil {
		t.Fatalf("EnrollStudent() error = %v", err)
	}
	if _, err := e.RegisterRepresentative(ctx, RepresentativeInput{
		AccountInput: AccountInput{ID: "rep1", Password: testPassword, Name: "Rita"},
		CompanyName:  "Acme",
	}); err != nil {
		t.Fatalf("RegisterRepresentative() error = %v", err)
	}

	if _, err := e.Login(ctx, model.RoleStudent, "s1", testPassword); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	_, err := e.Login(ctx, model.RoleStudent, "s1", "wrong-pass")
	wantReason(t, err, apperror.ErrUnauthorized, apperror.ReasonWrongPassword)

	if err := e.ChangePassword(ctx, model.RoleStudent, "s1", testPassword, "new-secret"); err != nil {
		t.Fatalf("ChangePassword() error = %v", err)
	}
	if _, err := e.Login(ctx, model.RoleStudent, "s1", "new-secret"); err != nil {
		t.Errorf("Login(new password) error = %v", err)
	}

	// 4 hashes to enrol, 3 login verifies, then a verify and a hash to change
	if checker.calls != 9 {
		t.Errorf("checker calls = %d, want 9", checker.calls)
	}
}

// =========================================================================
// Registration / enrolment TESTS
// =========================================================================

func TestRegisterRepresentative(t *testing.T) {
	f := newFixture(t)

	rep, err := f.engine.RegisterRepresentative(f.ctx, RepresentativeInput{
		AccountInput: AccountInput{ID: "rep1", Password: testPassword, Name: "Rep", Email: "rep@acme.io"},
		CompanyName:  "Acme",
		Department:   "HR",
		Position:     "Recruiter",
	})
	if err != nil {
		t.Fatalf("RegisterRepresentative() error = %v", err)
	}
	if rep.Approval != model.StatusPending {
		t.Errorf("Approval = %s, want PENDING", rep.Approval)
	}
	if rep.Password == testPassword {
		t.Error("password stored in plaintext")
	}

	pending, err := f.engine.PendingRepresentatives(f.ctx, testStaffID)
	if err != nil {
		t.Fatalf("PendingRepresentatives() error = %v", err)
	}
	if len(pending) != 1 || pending[0].ID != "rep1" {
		t.Errorf("PendingRepresentatives() = %v, want [rep1]", pending)
	}
}

func TestRegisterRepresentative_IDsAreUniqueAcrossRoles(t *testing.T) {
	f := newFixture(t)
	f.student("s1", 2, "CSC")

	for _, id := range []string{"s1", testStaffID} {
		_, err := f.engine.RegisterRepresentative(f.ctx, RepresentativeInput{
			AccountInput: AccountInput{ID: id, Password: testPassword, Name: "Rep"},
			CompanyName:  "Acme",
		})
		if !errors.Is(err, apperror.ErrConflict) {
			t.Errorf("RegisterRepresentative(%s) error = %v, want ErrConflict", id, err)
		}
	}
}

// Ids feed composite keys: rep b_c's first posting and rep c's first
// posting would otherwise give students a and a_b the same application id.
func TestRegisterRepresentative_RejectsSeparatorInID(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.RegisterRepresentative(f.ctx, RepresentativeInput{
		AccountInput: AccountInput{ID: "b_c", Password: testPassword, Name: "Rep"},
		CompanyName:  "Acme",
	})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("RegisterRepresentative(b_c) error = %v, want ErrValidation", err)
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.Field != "id" {
		t.Errorf("Field = %q, want id", appErr.Field)
	}

	f.rep("b", "Acme")
	f.rep("c", "Globex")
	f.student("a", 2, "CSC")
	f.student("ab", 2, "CSC")
	bPosting := f.posting("b", postingInput("Backend"))
	cPosting := f.posting("c", postingInput("Backend"))

	first := f.apply("a", bPosting.ID)
	second := f.apply("ab", cPosting.ID)
	if first.ID == second.ID {
		t.Errorf("application ids collide: %s", first.ID)
	}
}

func TestDecideRepresentative_OnlyFromPending(t *testing.T) {
	f := newFixture(t)
	f.rep("rep1", "Acme")

	_, err := f.engine.DecideRepresentative(f.ctx, testStaffID, "rep1", false)
	wantReason(t, err, apperror.ErrInvalidState, apperror.ReasonRepNotPending)
}

func TestEnrollStudent_Validation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		in   StudentInput
	}{
		{"no id", StudentInput{AccountInput: AccountInput{Password: testPassword, Name: "A"}, YearOfStudy: 1, Major: "CSC"}},
		{"short password", StudentInput{AccountInput: AccountInput{ID: "a", Password: "123", Name: "A"}, YearOfStudy: 1, Major: "CSC"}},
		{"year zero", StudentInput{AccountInput: AccountInput{ID: "a", Password: testPassword, Name: "A"}, YearOfStudy: 0, Major: "CSC"}},
		{"year five", StudentInput{AccountInput: AccountInput{ID: "a", Password: testPassword, Name: "A"}, YearOfStudy: 5, Major: "CSC"}},
		{"separator in id", StudentInput{AccountInput: AccountInput{ID: "a_b", Password: testPassword, Name: "A"}, YearOfStudy: 1, Major: "CSC"}},
		{"no major", StudentInput{AccountInput: AccountInput{ID: "a", Password: testPassword, Name: "A"}, YearOfStudy: 1}},
		{"bad email", StudentInput{AccountInput: AccountInput{ID: "a", Password: testPassword, Name: "A", Email: "nope"}, YearOfStudy: 1, Major: "CSC"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.engine.EnrollStudent(f.ctx, testStaffID, tt.in)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("EnrollStudent() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestEnrollStudent_RequiresStaff(t *testing.T) {
	f := newFixture(t)
	f.student("s1", 2, "CSC")

	_, err := f.engine.EnrollStudent(f.ctx, "s1", StudentInput{
		AccountInput: AccountInput{ID: "s2", Password: testPassword, Name: "B"},
		YearOfStudy:  1,
		Major:        "CSC",
	})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("EnrollStudent(by student) error = %v, want ErrNotFound", err)
	}
}

func TestEnsureStaff_OnlyOnEmptyStore(t *testing.T) {
	f := newFixture(t)

	created, err := f.engine.EnsureStaff(f.ctx, StaffInput{
		AccountInput: AccountInput{ID: "admin2", Password: testPassword, Name: "Second"},
	})
	if err != nil {
		t.Fatalf("EnsureStaff() error = %v", err)
	}
	if created {
		t.Error("EnsureStaff() created = true with staff already present")
	}

	staff, err := f.engine.EnrollStaff(f.ctx, testStaffID, StaffInput{
		AccountInput: AccountInput{ID: "admin2", Password: testPassword, Name: "Second"},
		StaffRole:    "advisor",
	})
	if err != nil {
		t.Fatalf("EnrollStaff() error = %v", err)
	}
	if staff.Role != model.RoleCareerStaff {
		t.Errorf("Role = %s, want career_staff", staff.Role)
	}
}
