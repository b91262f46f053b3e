package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/placement-hub/internal/service"
)

// StaffHandler serves /api/staff: approvals, withdrawals, enrolment,
// unrestricted reports and the audit trail.
type StaffHandler struct {
	engine *service.Engine
	logger *slog.Logger
}

// NewStaffHandler creates a StaffHandler.
func NewStaffHandler(engine *service.Engine, logger *slog.Logger) *StaffHandler {
	return &StaffHandler{engine: engine, logger: logger}
}

// HandlePendingRepresentatives handles GET /api/staff/representatives/pending
func (h *StaffHandler) HandlePendingRepresentatives(w http.ResponseWriter, r *http.Request) {
	staffID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	reps, err := h.engine.PendingRepresentatives(r.Context(), staffID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reps)
}

// HandleDecideRepresentative handles POST /api/staff/representatives/{id}/decision
func (h *StaffHandler) HandleDecideRepresentative(w http.ResponseWriter, r *http.Request) {
	staffID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	approve, err := decodeDecision(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	rep, err := h.engine.DecideRepresentative(r.Context(), staffID, chi.URLParam(r, "id"), approve)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// HandlePendingInternships handles GET /api/staff/internships/pending
func (h *StaffHandler) HandlePendingInternships(w http.ResponseWriter, r *http.Request) {
	staffID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	postings, err := h.engine.PendingInternships(r.Context(), staffID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, postings)
}

// HandleGetInternship handles GET /api/staff/internships/{id}, in any status.
func (h *StaffHandler) HandleGetInternship(w http.ResponseWriter, r *http.Request) {
	if _, err := callerID(r); err != nil {
		writeError(w, err)
		return
	}

	posting, err := h.engine.Internship(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, posting)
}

// HandleDecideInternship approves a PENDING posting, or rejects it, which
// deletes it.
//
// HTTP: POST /api/staff/internships/{id}/decision
// REQUEST BODY: {"approve": true}
func (h *StaffHandler) HandleDecideInternship(w http.ResponseWriter, r *http.Request) {
	staffID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	approve, err := decodeDecision(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	id := chi.URLParam(r, "id")

	if !approve {
		if err := h.engine.RejectInternship(r.Context(), staffID, id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	posting, err := h.engine.ApproveInternship(r.Context(), staffID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, posting)
}

// HandlePendingWithdrawals handles GET /api/staff/withdrawals
func (h *StaffHandler) HandlePendingWithdrawals(w http.ResponseWriter, r *http.Request) {
	staffID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	apps, err := h.engine.PendingWithdrawals(r.Context(), staffID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, apps)
}

// HandleResolveWithdrawal handles POST /api/staff/withdrawals/{id}/decision
func (h *StaffHandler) HandleResolveWithdrawal(w http.ResponseWriter, r *http.Request) {
	staffID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	approve, err := decodeDecision(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	app, err := h.engine.ResolveWithdrawal(r.Context(), staffID, chi.URLParam(r, "id"), approve)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

// HandleEnrollStudent handles POST /api/staff/students
func (h *StaffHandler) HandleEnrollStudent(w http.ResponseWriter, r *http.Request) {
	staffID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var in service.StudentInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, err)
		return
	}

	st, err := h.engine.EnrollStudent(r.Context(), staffID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, st)
}

// HandleEnrollStaff handles POST /api/staff/staff
func (h *StaffHandler) HandleEnrollStaff(w http.ResponseWriter, r *http.Request) {
	staffID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var in service.StaffInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, err)
		return
	}

	st, err := h.engine.EnrollStaff(r.Context(), staffID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, st)
}

// HandleReport handles GET /api/staff/report, over every posting.
func (h *StaffHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	staffID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	c, err := parseCriteria(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}

	postings, err := h.engine.StaffReport(r.Context(), staffID, c)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, postings)
}

// HandleAudit returns recorded transitions, optionally for one subject.
//
// HTTP: GET /api/staff/audit?subject=rep1_1
func (h *StaffHandler) HandleAudit(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.AuditTrail(r.URL.Query().Get("subject")))
}
