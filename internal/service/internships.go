package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/sakif/placement-hub/internal/apperror"
	"github.com/sakif/placement-hub/internal/audit"
	"github.com/sakif/placement-hub/internal/model"
)

// CreateInternship registers a new PENDING, visible posting owned by repID.
//
// GUARDS (in order):
//  1. the representative is APPROVED         → rep_not_approved
//  2. they own fewer than MaxActivePostings  → posting_cap_reached
//
// The id is repId_sequence; the sequence never reuses a number.
func (e *Engine) CreateInternship(ctx context.Context, repID string, in InternshipInput) (*model.Internship, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	rep, err := e.rep(repID)
	if err != nil {
		return nil, err
	}
	if !rep.IsApproved() {
		return nil, apperror.PreconditionFailed(apperror.ReasonRepNotApproved,
			fmt.Sprintf("company representative %s is not approved", repID))
	}
	if rep.InternshipCount >= model.MaxActivePostings {
		return nil, apperror.PreconditionFailed(apperror.ReasonPostingCapReached,
			fmt.Sprintf("company representative %s already has %d postings", repID, model.MaxActivePostings))
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}

	var id string
	for {
		rep.NextSequence++
		id = model.InternshipID(rep.ID, rep.NextSequence)
		if _, taken := e.repo.FindInternship(id); !taken {
			break
		}
	}

	posting := &model.Internship{
		ID:               id,
		Status:           model.StatusPending,
		Visible:          true,
		RepresentativeID: rep.ID,
	}
	applyInput(posting, in)

	if err := e.repo.AddInternship(posting); err != nil {
		e.logger.ErrorContext(ctx, "failed to add internship",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("service: creating internship: %w", err)
	}
	rep.AddInternship(posting.ID)

	e.commit(ctx, audit.Entry{
		Action:    audit.ActionPostingCreated,
		ActorID:   repID,
		ActorRole: model.RoleCompanyRep,
		SubjectID: posting.ID,
		To:        string(model.StatusPending),
	})
	return posting.Clone(), nil
}

// applyInput copies the descriptive fields and recomputes SlotsLeft so the
// slot invariant holds whatever was confirmed before.
func applyInput(p *model.Internship, in InternshipInput) {
	p.Title = in.Title
	p.Description = in.Description
	p.Level = in.Level
	p.Major = in.Major
	p.OpenDate = in.OpenDate
	p.CloseDate = in.CloseDate
	p.TotalSlots = in.Slots
	p.SlotsLeft = in.Slots - len(p.ConfirmedStudentIDs)
}

// ownedPosting loads internshipID and checks repID owns it.
func (e *Engine) ownedPosting(repID, internshipID string) (*model.CompanyRepresentative, *model.Internship, error) {
	rep, err := e.rep(repID)
	if err != nil {
		return nil, nil, err
	}
	posting, err := e.internship(internshipID)
	if err != nil {
		return nil, nil, err
	}
	if posting.RepresentativeID != rep.ID {
		return nil, nil, apperror.PreconditionFailed(apperror.ReasonNotOwner,
			fmt.Sprintf("internship %s is not owned by %s", internshipID, repID))
	}
	return rep, posting, nil
}

// UpdateInternship replaces every descriptive field of a posting that is
// not yet APPROVED.
func (e *Engine) UpdateInternship(ctx context.Context, repID, internshipID string, in InternshipInput) (*model.Internship, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, posting, err := e.ownedPosting(repID, internshipID)
	if err != nil {
		return nil, err
	}
	if posting.Status == model.StatusApproved {
		return nil, apperror.InvalidState(apperror.ReasonPostingApproved,
			fmt.Sprintf("internship %s is approved and can no longer be edited", internshipID))
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}
	if in.Slots < len(posting.ConfirmedStudentIDs) {
		return nil, apperror.ValidationFailed("slots", "slots cannot drop below confirmed placements")
	}

	applyInput(posting, in)

	e.commit(ctx, audit.Entry{
		Action:    audit.ActionPostingUpdated,
		ActorID:   repID,
		ActorRole: model.RoleCompanyRep,
		SubjectID: internshipID,
	})
	return posting.Clone(), nil
}

// DeleteInternship removes a posting that is not yet APPROVED, together
// with any applications to it.
func (e *Engine) DeleteInternship(ctx context.Context, repID, internshipID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	rep, posting, err := e.ownedPosting(repID, internshipID)
	if err != nil {
		return err
	}
	if posting.Status == model.StatusApproved {
		return apperror.InvalidState(apperror.ReasonPostingApproved,
			fmt.Sprintf("internship %s is approved and can no longer be deleted", internshipID))
	}

	purged := e.removePosting(rep, posting)
	e.logger.InfoContext(ctx, "internship deleted",
		slog.String("id", internshipID),
		slog.Int("purgedApplications", purged),
	)

	e.commit(ctx, audit.Entry{
		Action:    audit.ActionPostingDeleted,
		ActorID:   repID,
		ActorRole: model.RoleCompanyRep,
		SubjectID: internshipID,
		From:      string(posting.Status),
		To:        "DELETED",
	})
	return nil
}

// removePosting drops posting from the repository and its owner's list and
// purges every application to it. It returns how many were purged.
func (e *Engine) removePosting(rep *model.CompanyRepresentative, posting *model.Internship) int {
	purged := 0
	for _, app := range e.repo.ListApplications() {
		if app.InternshipID != posting.ID {
			continue
		}
		if st, ok := e.repo.FindStudent(app.StudentID); ok {
			st.RemoveApplication(app.ID)
		}
		e.repo.RemoveApplication(app.ID)
		purged++
	}
	e.repo.RemoveInternship(posting.ID)
	if rep != nil {
		rep.RemoveInternship(posting.ID)
	}
	return purged
}

// SetVisibility toggles whether students can see the posting. Allowed in
// any status.
func (e *Engine) SetVisibility(ctx context.Context, repID, internshipID string, visible bool) (*model.Internship, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, posting, err := e.ownedPosting(repID, internshipID)
	if err != nil {
		return nil, err
	}

	from := posting.Visible
	posting.Visible = visible

	e.commit(ctx, audit.Entry{
		Action:    audit.ActionPostingVisibility,
		ActorID:   repID,
		ActorRole: model.RoleCompanyRep,
		SubjectID: internshipID,
		From:      strconv.FormatBool(from),
		To:        strconv.FormatBool(visible),
	})
	return posting.Clone(), nil
}

// ApproveInternship moves a posting from PENDING to APPROVED.
func (e *Engine) ApproveInternship(ctx context.Context, staffID, internshipID string) (*model.Internship, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.staff(staffID); err != nil {
		return nil, err
	}
	posting, err := e.internship(internshipID)
	if err != nil {
		return nil, err
	}
	if posting.Status != model.StatusPending {
		return nil, apperror.InvalidState(apperror.ReasonPostingNotPending,
			fmt.Sprintf("internship %s is %s, not PENDING", internshipID, posting.Status))
	}

	posting.Status = model.StatusApproved

	e.commit(ctx, audit.Entry{
		Action:    audit.ActionPostingApproved,
		ActorID:   staffID,
		ActorRole: model.RoleCareerStaff,
		SubjectID: internshipID,
		From:      string(model.StatusPending),
		To:        string(model.StatusApproved),
	})
	return posting.Clone(), nil
}

// RejectInternship removes a PENDING posting outright rather than flagging
// it, so every posting left in the repository is pending or approved.
func (e *Engine) RejectInternship(ctx context.Context, staffID, internshipID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.staff(staffID); err != nil {
		return err
	}
	posting, err := e.internship(internshipID)
	if err != nil {
		return err
	}
	if posting.Status != model.StatusPending {
		return apperror.InvalidState(apperror.ReasonPostingNotPending,
			fmt.Sprintf("internship %s is %s, not PENDING", internshipID, posting.Status))
	}

	rep, _ := e.repo.FindCompanyRep(posting.RepresentativeID)
	e.removePosting(rep, posting)

	e.commit(ctx, audit.Entry{
		Action:    audit.ActionPostingRejected,
		ActorID:   staffID,
		ActorRole: model.RoleCareerStaff,
		SubjectID: internshipID,
		From:      string(model.StatusPending),
		To:        string(model.StatusRejected),
	})
	return nil
}

// PendingInternships lists postings awaiting staff approval.
func (e *Engine) PendingInternships(ctx context.Context, staffID string) ([]*model.Internship, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if _, err := e.staff(staffID); err != nil {
		return nil, err
	}

	var out []*model.Internship
	for _, p := range e.repo.ListInternships() {
		if p.Status == model.StatusPending {
			out = append(out, p.Clone())
		}
	}
	return out, nil
}

// InternshipsOf lists the postings repID owns, in the order they were created.
func (e *Engine) InternshipsOf(ctx context.Context, repID string) ([]*model.Internship, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	rep, err := e.rep(repID)
	if err != nil {
		return nil, err
	}

	out := make([]*model.Internship, 0, len(rep.InternshipIDs))
	for _, id := range rep.InternshipIDs {
		if p, ok := e.repo.FindInternship(id); ok {
			out = append(out, p.Clone())
		}
	}
	return out, nil
}

// Internship returns a snapshot of a single posting.
func (e *Engine) Internship(ctx context.Context, id string) (*model.Internship, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	p, err := e.internship(id)
	if err != nil {
		return nil, err
	}
	return p.Clone(), nil
}
