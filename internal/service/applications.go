package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sakif/placement-hub/internal/apperror"
	"github.com/sakif/placement-hub/internal/audit"
	"github.com/sakif/placement-hub/internal/model"
)

// Apply submits studentID's application to internshipID.
//
// GUARDS (in order, first failure wins):
//  1. the student has not accepted a placement  → already_placed
//  2. fewer than 3 pending applications         → application_limit
//  3. not already applied to this posting       → already_applied
//  4. the posting's major matches               → major_mismatch
//  5. the posting is open to this student       → posting_not_open
//
// Slots are untouched; they are only consumed when an offer is accepted.
func (e *Engine) Apply(ctx context.Context, studentID, internshipID string) (*model.Application, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, err := e.student(studentID)
	if err != nil {
		return nil, err
	}
	posting, err := e.internship(internshipID)
	if err != nil {
		return nil, err
	}

	if st.HasAccepted() {
		return nil, apperror.PreconditionFailed(apperror.ReasonAlreadyPlaced,
			fmt.Sprintf("student %s has already accepted internship %s", studentID, st.AcceptedInternshipID))
	}
	if len(st.ApplicationIDs) >= model.MaxPendingApplications {
		return nil, apperror.PreconditionFailed(apperror.ReasonApplicationLimit,
			fmt.Sprintf("student %s already has %d pending applications", studentID, model.MaxPendingApplications))
	}
	appID := model.ApplicationID(st.ID, posting.ID)
	if _, exists := e.repo.FindApplication(appID); exists || st.HasApplication(appID) {
		return nil, apperror.PreconditionFailed(apperror.ReasonAlreadyApplied,
			fmt.Sprintf("student %s has already applied to internship %s", studentID, internshipID))
	}
	if !strings.EqualFold(posting.Major, st.Major) {
		return nil, apperror.PreconditionFailed(apperror.ReasonMajorMismatch,
			fmt.Sprintf("internship %s is for %s students, not %s", internshipID, posting.Major, st.Major))
	}
	if !isOpenTo(st, posting) || !levelAllowed(st, posting) {
		return nil, apperror.PreconditionFailed(apperror.ReasonPostingNotEligible,
			fmt.Sprintf("internship %s is not open to student %s", internshipID, studentID))
	}

	app := model.NewApplication(st.ID, posting)
	if err := e.repo.AddApplication(app); err != nil {
		return nil, fmt.Errorf("service: applying: %w", err)
	}
	st.AddApplication(app.ID)

	e.commit(ctx, audit.Entry{
		Action:    audit.ActionApplied,
		ActorID:   studentID,
		ActorRole: model.RoleStudent,
		SubjectID: app.ID,
		To:        string(model.StatusPending),
	})
	return app.Clone(), nil
}

// DecideApplication records the owning representative's decision.
// Approval leaves the application in place as an offer; rejection removes
// it from the repository and from the student's list.
func (e *Engine) DecideApplication(ctx context.Context, repID, applicationID string, approve bool) (*model.Application, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.rep(repID); err != nil {
		return nil, err
	}
	app, err := e.application(applicationID)
	if err != nil {
		return nil, err
	}
	if app.RepresentativeID != repID {
		return nil, apperror.PreconditionFailed(apperror.ReasonNotOwner,
			fmt.Sprintf("application %s is not addressed to %s", applicationID, repID))
	}
	if app.CompanyDecision != model.StatusPending {
		return nil, apperror.InvalidState(apperror.ReasonDecisionFinal,
			fmt.Sprintf("application %s was already %s", applicationID, app.CompanyDecision))
	}

	if approve {
		app.CompanyDecision = model.StatusApproved
	} else {
		app.CompanyDecision = model.StatusRejected
		e.dropApplication(app)
	}

	e.commit(ctx, audit.Entry{
		Action:    audit.ActionApplicationDecided,
		ActorID:   repID,
		ActorRole: model.RoleCompanyRep,
		SubjectID: applicationID,
		From:      string(model.StatusPending),
		To:        string(app.CompanyDecision),
	})
	return app.Clone(), nil
}

// dropApplication removes app from the repository and its student's list.
func (e *Engine) dropApplication(app *model.Application) {
	e.repo.RemoveApplication(app.ID)
	if st, ok := e.repo.FindStudent(app.StudentID); ok {
		st.RemoveApplication(app.ID)
	}
}

// AcceptOffer confirms studentID into the posting behind an approved offer.
//
// GUARDS: not_owner, already_placed, offer_not_approved, no_slots_left.
// A placement record recreated for a withdrawal is APPROVED but can never
// be accepted again; already_placed covers it.
//
// In one step it sets the student's placement, removes every application
// the student holds (the accepted one included), registers the student as
// confirmed and consumes one slot.
func (e *Engine) AcceptOffer(ctx context.Context, studentID, applicationID string) (*model.Student, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, err := e.student(studentID)
	if err != nil {
		return nil, err
	}
	app, err := e.application(applicationID)
	if err != nil {
		return nil, err
	}
	if app.StudentID != st.ID {
		return nil, apperror.PreconditionFailed(apperror.ReasonNotOwner,
			fmt.Sprintf("application %s does not belong to student %s", applicationID, studentID))
	}
	if st.HasAccepted() {
		return nil, apperror.PreconditionFailed(apperror.ReasonAlreadyPlaced,
			fmt.Sprintf("student %s has already accepted internship %s", studentID, st.AcceptedInternshipID))
	}
	if app.CompanyDecision != model.StatusApproved {
		return nil, apperror.PreconditionFailed(apperror.ReasonOfferNotApproved,
			fmt.Sprintf("application %s has not been approved by the company", applicationID))
	}
	posting, err := e.internship(app.InternshipID)
	if err != nil {
		return nil, err
	}
	if posting.SlotsLeft <= 0 {
		return nil, apperror.PreconditionFailed(apperror.ReasonNoSlotsLeft,
			fmt.Sprintf("internship %s has no slots left", posting.ID))
	}
	if posting.IsConfirmed(st.ID) {
		return nil, apperror.PreconditionFailed(apperror.ReasonAlreadyPlaced,
			fmt.Sprintf("student %s is already confirmed on internship %s", studentID, posting.ID))
	}

	st.AcceptedInternshipID = posting.ID
	for _, other := range e.repo.ListApplications() {
		if other.StudentID == st.ID {
			e.repo.RemoveApplication(other.ID)
		}
	}
	st.ApplicationIDs = nil
	posting.Confirm(st.ID)

	e.commit(ctx, audit.Entry{
		Action:    audit.ActionOfferAccepted,
		ActorID:   studentID,
		ActorRole: model.RoleStudent,
		SubjectID: applicationID,
		From:      string(model.StatusPending),
		To:        string(model.StatusApproved),
	})
	return st.Clone(), nil
}

// RequestWithdrawal asks staff to let studentID out of an application or
// out of their accepted placement.
//
// The placement's application record was purged at acceptance, so a
// request against studentId_acceptedInternshipId recreates it (both
// decisions APPROVED) in the repository. It is not put back on the
// student's pending list.
func (e *Engine) RequestWithdrawal(ctx context.Context, studentID, applicationID string) (*model.Application, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, err := e.student(studentID)
	if err != nil {
		return nil, err
	}

	app, ok := e.repo.FindApplication(applicationID)
	if !ok {
		if !st.HasAccepted() || applicationID != model.ApplicationID(st.ID, st.AcceptedInternshipID) {
			return nil, apperror.NotFound("application", applicationID)
		}
		app, err = e.placementRecord(st)
		if err != nil {
			return nil, err
		}
	}

	if app.StudentID != st.ID {
		return nil, apperror.PreconditionFailed(apperror.ReasonNotOwner,
			fmt.Sprintf("application %s does not belong to student %s", applicationID, studentID))
	}
	if app.Withdrawal == model.WithdrawalPending {
		return nil, apperror.PreconditionFailed(apperror.ReasonWithdrawalPending,
			fmt.Sprintf("a withdrawal for application %s is already pending", applicationID))
	}

	from := app.Withdrawal
	app.Withdrawal = model.WithdrawalPending

	e.commit(ctx, audit.Entry{
		Action:    audit.ActionWithdrawRequested,
		ActorID:   studentID,
		ActorRole: model.RoleStudent,
		SubjectID: app.ID,
		From:      string(from),
		To:        string(model.WithdrawalPending),
	})
	return app.Clone(), nil
}

// placementRecord rebuilds the application record of st's accepted placement.
func (e *Engine) placementRecord(st *model.Student) (*model.Application, error) {
	posting, err := e.internship(st.AcceptedInternshipID)
	if err != nil {
		return nil, err
	}
	app := model.NewApplication(st.ID, posting)
	app.CompanyDecision = model.StatusApproved
	app.StudentDecision = model.StatusApproved
	if err := e.repo.AddApplication(app); err != nil {
		return nil, fmt.Errorf("service: recording placement withdrawal: %w", err)
	}
	return app, nil
}

// ResolveWithdrawal is staff's decision on a PENDING withdrawal.
//
// Approval removes the application from the repository and the student's
// list. When the application is the student's accepted placement, the
// placement is also released: AcceptedInternshipID is cleared, the student
// leaves the confirmed list and the posting gets its slot back.
//
// Rejection marks the withdrawal REJECTED and leaves the application active.
func (e *Engine) ResolveWithdrawal(ctx context.Context, staffID, applicationID string, approve bool) (*model.Application, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.staff(staffID); err != nil {
		return nil, err
	}
	app, err := e.application(applicationID)
	if err != nil {
		return nil, err
	}
	if app.Withdrawal != model.WithdrawalPending {
		return nil, apperror.InvalidState(apperror.ReasonNoPendingWithdraw,
			fmt.Sprintf("application %s has no pending withdrawal", applicationID))
	}

	if !approve {
		app.Withdrawal = model.WithdrawalRejected
	} else {
		app.Withdrawal = model.WithdrawalApproved
		e.dropApplication(app)

		if st, ok := e.repo.FindStudent(app.StudentID); ok && st.AcceptedInternshipID == app.InternshipID {
			st.AcceptedInternshipID = ""
			if posting, ok := e.repo.FindInternship(app.InternshipID); ok {
				posting.Release(st.ID)
			}
		}
	}

	e.commit(ctx, audit.Entry{
		Action:    audit.ActionWithdrawResolved,
		ActorID:   staffID,
		ActorRole: model.RoleCareerStaff,
		SubjectID: applicationID,
		From:      string(model.WithdrawalPending),
		To:        string(app.Withdrawal),
	})
	return app.Clone(), nil
}

// ApplicationsOf lists every application record that belongs to studentID,
// including a placement under withdrawal review.
func (e *Engine) ApplicationsOf(ctx context.Context, studentID string) ([]*model.Application, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if _, err := e.student(studentID); err != nil {
		return nil, err
	}
	return e.filterApplications(func(a *model.Application) bool {
		return a.StudentID == studentID
	}), nil
}

// ApplicationsFor lists applications to one of repID's postings.
func (e *Engine) ApplicationsFor(ctx context.Context, repID, internshipID string) ([]*model.Application, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if _, _, err := e.ownedPosting(repID, internshipID); err != nil {
		return nil, err
	}
	return e.filterApplications(func(a *model.Application) bool {
		return a.InternshipID == internshipID
	}), nil
}

// PendingWithdrawals lists applications whose withdrawal awaits staff.
func (e *Engine) PendingWithdrawals(ctx context.Context, staffID string) ([]*model.Application, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if _, err := e.staff(staffID); err != nil {
		return nil, err
	}
	return e.filterApplications(func(a *model.Application) bool {
		return a.Withdrawal == model.WithdrawalPending
	}), nil
}

func (e *Engine) filterApplications(keep func(*model.Application) bool) []*model.Application {
	out := []*model.Application{}
	for _, a := range e.repo.ListApplications() {
		if keep(a) {
			out = append(out, a.Clone())
		}
	}
	return out
}
