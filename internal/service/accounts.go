package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sakif/placement-hub/internal/apperror"
	"github.com/sakif/placement-hub/internal/audit"
	"github.com/sakif/placement-hub/internal/auth"
	"github.com/sakif/placement-hub/internal/model"
)

// Login checks id and password against the account of the given role.
//
// Failures are distinguishable by reason: user_not_found, wrong_password,
// and user_not_approved for representatives staff have not approved yet.
func (e *Engine) Login(ctx context.Context, role model.Role, id, password string) (model.Account, error) {
	// bcrypt is slow; verify against a copy taken under the lock
	e.mu.RLock()
	acct, approved, ok := e.account(role, id)
	var snapshot model.Account
	if ok {
		snapshot = *acct
	}
	e.mu.RUnlock()

	if !ok {
		return model.Account{}, apperror.Unauthorized(apperror.ReasonUserNotFound,
			fmt.Sprintf("no %s account with id %s", role, id))
	}

	if err := e.passwords.Verify(snapshot.Password, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			e.logger.WarnContext(ctx, "login failed",
				slog.String("id", id),
				slog.String("role", string(role)),
			)
			return model.Account{}, apperror.Unauthorized(apperror.ReasonWrongPassword, "wrong password")
		}
		return model.Account{}, fmt.Errorf("service: verifying password for %s: %w", id, err)
	}

	if !approved {
		return model.Account{}, apperror.Unauthorized(apperror.ReasonUserNotApproved,
			fmt.Sprintf("company representative %s has not been approved by career staff", id))
	}

	return snapshot, nil
}

// account resolves the shared record for id under role. approved is false
// only for representatives whose status is not APPROVED.
func (e *Engine) account(role model.Role, id string) (acct *model.Account, approved bool, ok bool) {
	switch role {
	case model.RoleStudent:
		if s, found := e.repo.FindStudent(id); found {
			return &s.Account, true, true
		}
	case model.RoleCompanyRep:
		if r, found := e.repo.FindCompanyRep(id); found {
			return &r.Account, r.IsApproved(), true
		}
	case model.RoleCareerStaff:
		if s, found := e.repo.FindStaff(id); found {
			return &s.Account, true, true
		}
	}
	return nil, false, false
}

// ChangePassword replaces the password of any account after checking the
// current one.
//
// Verify and Hash run without the engine lock. The new hash is written
// only if the stored hash is still the one that was verified.
func (e *Engine) ChangePassword(ctx context.Context, role model.Role, id, oldPassword, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	e.mu.RLock()
	acct, _, ok := e.account(role, id)
	var current string
	if ok {
		current = acct.Password
	}
	e.mu.RUnlock()

	if !ok {
		return apperror.NotFound(string(role), id)
	}
	if err := e.passwords.Verify(current, oldPassword); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return apperror.Unauthorized(apperror.ReasonWrongPassword, "current password is wrong")
		}
		return fmt.Errorf("service: verifying password for %s: %w", id, err)
	}

	hash, err := e.passwords.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("service: hashing password for %s: %w", id, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	acct, _, ok = e.account(role, id)
	if !ok {
		return apperror.NotFound(string(role), id)
	}
	if acct.Password != current {
		// changed by a concurrent request since it was verified
		return apperror.Unauthorized(apperror.ReasonWrongPassword, "current password is wrong")
	}
	acct.Password = hash

	e.commit(ctx, audit.Entry{
		Action:    audit.ActionPasswordChanged,
		ActorID:   id,
		ActorRole: role,
		SubjectID: id,
	})
	return nil
}

// RegisterRepresentative creates a company representative in PENDING
// status. They cannot log in or post until staff approve them.
func (e *Engine) RegisterRepresentative(ctx context.Context, in RepresentativeInput) (*model.CompanyRepresentative, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	hash, err := e.passwords.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("service: hashing password: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.idTaken(in.ID) {
		return nil, apperror.Conflict("user", in.ID)
	}

	rep := &model.CompanyRepresentative{
		Account: model.Account{
			ID:       in.ID,
			Password: hash,
			Name:     in.Name,
			Email:    in.Email,
			Role:     model.RoleCompanyRep,
		},
		CompanyName: in.CompanyName,
		Department:  in.Department,
		Position:    in.Position,
		Approval:    model.StatusPending,
	}
	if err := e.repo.AddCompanyRep(rep); err != nil {
		return nil, fmt.Errorf("service: registering representative: %w", err)
	}

	e.commit(ctx, audit.Entry{
		Action:    audit.ActionRepRegistered,
		ActorID:   rep.ID,
		ActorRole: model.RoleCompanyRep,
		SubjectID: rep.ID,
		To:        string(model.StatusPending),
	})
	return rep.Clone(), nil
}

// EnrollStudent adds a student account. Only staff may enrol students.
func (e *Engine) EnrollStudent(ctx context.Context, staffID string, in StudentInput) (*model.Student, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	hash, err := e.passwords.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("service: hashing password: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.staff(staffID); err != nil {
		return nil, err
	}
	if e.idTaken(in.ID) {
		return nil, apperror.Conflict("user", in.ID)
	}

	st := &model.Student{
		Account: model.Account{
			ID:       in.ID,
			Password: hash,
			Name:     in.Name,
			Email:    in.Email,
			Role:     model.RoleStudent,
		},
		YearOfStudy: in.YearOfStudy,
		Major:       in.Major,
	}
	if err := e.repo.AddStudent(st); err != nil {
		return nil, fmt.Errorf("service: enrolling student: %w", err)
	}

	e.commit(ctx, audit.Entry{
		Action:    audit.ActionStudentEnrolled,
		ActorID:   staffID,
		ActorRole: model.RoleCareerStaff,
		SubjectID: st.ID,
	})
	return st.Clone(), nil
}

// EnrollStaff adds a staff account on behalf of an existing staff member.
func (e *Engine) EnrollStaff(ctx context.Context, staffID string, in StaffInput) (*model.CareerStaff, error) {
	hash, err := in.prepare(e.passwords)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.staff(staffID); err != nil {
		return nil, err
	}
	return e.addStaff(ctx, staffID, in, hash)
}

// EnsureStaff creates the given staff account if no staff exist yet.
// It is how a fresh deployment gets its first administrator. created is
// false when staff were already present.
func (e *Engine) EnsureStaff(ctx context.Context, in StaffInput) (created bool, err error) {
	e.mu.RLock()
	staffed := len(e.repo.ListStaff()) > 0
	e.mu.RUnlock()
	if staffed {
		return false, nil
	}

	hash, err := in.prepare(e.passwords)
	if err != nil {
		return false, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.repo.ListStaff()) > 0 {
		return false, nil
	}
	if _, err := e.addStaff(ctx, "", in, hash); err != nil {
		return false, err
	}
	return true, nil
}

// prepare normalizes in and hashes its password. It needs no lock.
func (in *StaffInput) prepare(passwords CredentialChecker) (string, error) {
	if err := in.normalize(); err != nil {
		return "", err
	}
	hash, err := passwords.Hash(in.Password)
	if err != nil {
		return "", fmt.Errorf("service: hashing password: %w", err)
	}
	return hash, nil
}

// addStaff stores a normalized staff account. Callers hold the write lock.
func (e *Engine) addStaff(ctx context.Context, actorID string, in StaffInput, hash string) (*model.CareerStaff, error) {
	if e.idTaken(in.ID) {
		return nil, apperror.Conflict("user", in.ID)
	}

	st := &model.CareerStaff{
		Account: model.Account{
			ID:       in.ID,
			Password: hash,
			Name:     in.Name,
			Email:    in.Email,
			Role:     model.RoleCareerStaff,
		},
		Department: in.Department,
		StaffRole:  in.StaffRole,
	}
	if err := e.repo.AddStaff(st); err != nil {
		return nil, fmt.Errorf("service: enrolling staff: %w", err)
	}

	e.commit(ctx, audit.Entry{
		Action:    audit.ActionStaffEnrolled,
		ActorID:   actorID,
		ActorRole: model.RoleCareerStaff,
		SubjectID: st.ID,
	})
	return st.Clone(), nil
}

// PendingRepresentatives lists representatives awaiting a staff decision.
func (e *Engine) PendingRepresentatives(ctx context.Context, staffID string) ([]*model.CompanyRepresentative, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if _, err := e.staff(staffID); err != nil {
		return nil, err
	}

	var out []*model.CompanyRepresentative
	for _, r := range e.repo.ListCompanyReps() {
		if r.Approval == model.StatusPending {
			out = append(out, r.Clone())
		}
	}
	return out, nil
}

// DecideRepresentative approves or rejects a PENDING representative.
// Rejection is a status flag; the account stays in the repository.
func (e *Engine) DecideRepresentative(ctx context.Context, staffID, repID string, approve bool) (*model.CompanyRepresentative, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.staff(staffID); err != nil {
		return nil, err
	}
	rep, err := e.rep(repID)
	if err != nil {
		return nil, err
	}
	if rep.Approval != model.StatusPending {
		return nil, apperror.InvalidState(apperror.ReasonRepNotPending,
			fmt.Sprintf("company representative %s is already %s", repID, rep.Approval))
	}

	rep.Approval = model.StatusRejected
	if approve {
		rep.Approval = model.StatusApproved
	}

	e.commit(ctx, audit.Entry{
		Action:    audit.ActionRepDecided,
		ActorID:   staffID,
		ActorRole: model.RoleCareerStaff,
		SubjectID: repID,
		From:      string(model.StatusPending),
		To:        string(rep.Approval),
	})
	return rep.Clone(), nil
}

// Student returns a snapshot of the student's record.
func (e *Engine) Student(ctx context.Context, id string) (*model.Student, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	s, err := e.student(id)
	if err != nil {
		return nil, err
	}
	return s.Clone(), nil
}

// Representative returns a snapshot of the representative's record.
func (e *Engine) Representative(ctx context.Context, id string) (*model.CompanyRepresentative, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	r, err := e.rep(id)
	if err != nil {
		return nil, err
	}
	return r.Clone(), nil
}

// Staff returns a snapshot of the staff member's record.
func (e *Engine) Staff(ctx context.Context, id string) (*model.CareerStaff, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	s, err := e.staff(id)
	if err != nil {
		return nil, err
	}
	return s.Clone(), nil
}
