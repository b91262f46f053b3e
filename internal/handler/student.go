package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/placement-hub/internal/service"
)

// StudentHandler serves /api/student. Every route acts on the caller's own
// record; the student id always comes from the token, never the URL.
type StudentHandler struct {
	engine *service.Engine
	logger *slog.Logger
}

// NewStudentHandler creates a StudentHandler.
func NewStudentHandler(engine *service.Engine, logger *slog.Logger) *StudentHandler {
	return &StudentHandler{engine: engine, logger: logger}
}

// HandleListInternships returns the postings the caller is eligible for.
//
// HTTP: GET /api/student/internships
func (h *StudentHandler) HandleListInternships(w http.ResponseWriter, r *http.Request) {
	studentID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	postings, err := h.engine.VisibleInternshipsFor(r.Context(), studentID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, postings)
}

// HandleApply applies to a posting.
//
// HTTP: POST /api/student/internships/{id}/apply
func (h *StudentHandler) HandleApply(w http.ResponseWriter, r *http.Request) {
	studentID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	app, err := h.engine.Apply(r.Context(), studentID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, app)
}

// HandleListApplications returns the caller's applications.
//
// HTTP: GET /api/student/applications
func (h *StudentHandler) HandleListApplications(w http.ResponseWriter, r *http.Request) {
	studentID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	apps, err := h.engine.ApplicationsOf(r.Context(), studentID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, apps)
}

// HandleAccept accepts an approved offer.
//
// HTTP: POST /api/student/applications/{id}/accept
// Responds with the updated student record.
func (h *StudentHandler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	studentID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	st, err := h.engine.AcceptOffer(r.Context(), studentID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	h.logger.Info("offer accepted",
		slog.String("student", studentID),
		slog.String("internship", st.AcceptedInternshipID),
	)
	writeJSON(w, http.StatusOK, st)
}

// HandleWithdraw asks staff to withdraw an application or placement.
//
// HTTP: POST /api/student/applications/{id}/withdraw
func (h *StudentHandler) HandleWithdraw(w http.ResponseWriter, r *http.Request) {
	studentID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	app, err := h.engine.RequestWithdrawal(r.Context(), studentID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, app)
}

// HandleReport runs a filtered report over approved, visible postings.
//
// HTTP: GET /api/student/report?title=&level=&sort=...
func (h *StudentHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	studentID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	c, err := parseCriteria(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}

	postings, err := h.engine.StudentReport(r.Context(), studentID, c)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, postings)
}
