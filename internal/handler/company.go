package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/placement-hub/internal/apperror"
	"github.com/sakif/placement-hub/internal/service"
)

// CompanyHandler serves /api/company for approved representatives: posting
// management and decisions on incoming applications.
type CompanyHandler struct {
	engine *service.Engine
	logger *slog.Logger
}

// NewCompanyHandler creates a CompanyHandler.
func NewCompanyHandler(engine *service.Engine, logger *slog.Logger) *CompanyHandler {
	return &CompanyHandler{engine: engine, logger: logger}
}

// HandleListInternships returns the caller's postings in creation order.
//
// HTTP: GET /api/company/internships
func (h *CompanyHandler) HandleListInternships(w http.ResponseWriter, r *http.Request) {
	repID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	postings, err := h.engine.InternshipsOf(r.Context(), repID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, postings)
}

// HandleCreate creates a PENDING posting.
//
// HTTP: POST /api/company/internships
// REQUEST BODY:
//
//	{"title": "...", "description": "...", "level": "BASIC", "major": "CSC",
//	 "openDate": "2026-01-10", "closeDate": "2026-03-01", "slots": 3}
func (h *CompanyHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	repID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var in service.InternshipInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, err)
		return
	}

	posting, err := h.engine.CreateInternship(r.Context(), repID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, posting)
}

// HandleUpdate replaces every descriptive field of a posting.
//
// HTTP: PUT /api/company/internships/{id}
func (h *CompanyHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	repID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var in service.InternshipInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, err)
		return
	}

	posting, err := h.engine.UpdateInternship(r.Context(), repID, chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, posting)
}

// HandleDelete removes a posting that is not yet approved.
//
// HTTP: DELETE /api/company/internships/{id}
func (h *CompanyHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	repID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.engine.DeleteInternship(r.Context(), repID, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type visibilityRequest struct {
	Visible *bool `json:"visible"`
}

// HandleVisibility shows or hides a posting.
//
// HTTP: PATCH /api/company/internships/{id}/visibility
// REQUEST BODY: {"visible": false}
func (h *CompanyHandler) HandleVisibility(w http.ResponseWriter, r *http.Request) {
	repID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req visibilityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Visible == nil {
		writeError(w, apperror.ValidationFailed("visible", "visible must be true or false"))
		return
	}

	posting, err := h.engine.SetVisibility(r.Context(), repID, chi.URLParam(r, "id"), *req.Visible)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, posting)
}

// HandleListApplications lists applications to one of the caller's postings.
//
// HTTP: GET /api/company/internships/{id}/applications
func (h *CompanyHandler) HandleListApplications(w http.ResponseWriter, r *http.Request) {
	repID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	apps, err := h.engine.ApplicationsFor(r.Context(), repID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, apps)
}

// HandleDecide approves or rejects an application.
//
// HTTP: POST /api/company/applications/{id}/decision
// REQUEST BODY: {"approve": true}
func (h *CompanyHandler) HandleDecide(w http.ResponseWriter, r *http.Request) {
	repID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	approve, err := decodeDecision(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	app, err := h.engine.DecideApplication(r.Context(), repID, chi.URLParam(r, "id"), approve)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

// HandleReport runs a report restricted to the caller's postings.
//
// HTTP: GET /api/company/report?status=&sort=...
func (h *CompanyHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	repID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	c, err := parseCriteria(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}

	postings, err := h.engine.RepresentativeReport(r.Context(), repID, c)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, postings)
}
