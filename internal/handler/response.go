package handler

// RESPONSE HELPERS:
// Every handler answers through writeJSON / writeError so all endpoints share
// one JSON shape. Errors always look like:
//
//	{"error": "precondition_failed", "message": "...", "reason": "application_limit"}
//
// reason is present whenever a workflow guard failed, so clients can branch
// on it without parsing messages.

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sakif/placement-hub/internal/apperror"
	"github.com/sakif/placement-hub/internal/auth"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// ErrorResponse is the standard error format returned by all API endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`            // machine-readable error type
	Message string `json:"message"`          // human-readable description
	Field   string `json:"field,omitempty"`  // offending input field, validation only
	Reason  string `json:"reason,omitempty"` // failed guard, workflow errors only
}

// writeJSON sends a JSON response with the given status code.
// Headers and status must go out before the body.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// headers are already sent, all we can do is log
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to the appropriate HTTP status code and sends it.
//
// ERROR MAPPING:
//
//	ErrValidation    → 400 validation_error
//	ErrUnauthorized  → 401 unauthorized
//	ErrForbidden     → 403 forbidden
//	ErrNotFound      → 404 not_found
//	ErrConflict      → 409 conflict
//	ErrInvalidState  → 409 invalid_state
//	ErrPrecondition  → 422 precondition_failed (403 forbidden for not_owner)
//
// Anything else is a 500 whose details never reach the client.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
			errorType = "unauthorized"
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
			errorType = "forbidden"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			errorType = "not_found"
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
			errorType = "conflict"
		case errors.Is(err, apperror.ErrInvalidState):
			status = http.StatusConflict
			errorType = "invalid_state"
		case errors.Is(err, apperror.ErrPrecondition):
			status = http.StatusUnprocessableEntity
			errorType = "precondition_failed"
			if appErr.Reason == apperror.ReasonNotOwner {
				status = http.StatusForbidden
				errorType = "forbidden"
			}
		}

		writeJSON(w, status, ErrorResponse{
			Error:   errorType,
			Message: appErr.Message,
			Field:   appErr.Field,
			Reason:  string(appErr.Reason),
		})
		return
	}

	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}

// decodeJSON reads a single JSON object from the request body into dst.
// Unknown fields are rejected so typos surface as 400s.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperror.ValidationFailed("body", fmt.Sprintf("invalid JSON body: %v", err))
	}
	return nil
}

// callerID returns the authenticated principal's id. Routes are mounted
// behind auth.RequireAuth, so a missing principal is a wiring bug reported
// as 401 rather than a panic.
func callerID(r *http.Request) (string, error) {
	p, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		return "", apperror.Unauthorized("", "valid authentication required")
	}
	return p.ID, nil
}

// decisionRequest is the body of every approve/reject endpoint.
type decisionRequest struct {
	Approve *bool `json:"approve"`
}

func decodeDecision(w http.ResponseWriter, r *http.Request) (bool, error) {
	var req decisionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return false, err
	}
	if req.Approve == nil {
		return false, apperror.ValidationFailed("approve", "approve must be true or false")
	}
	return *req.Approve, nil
}
