package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/placement-hub/internal/apperror"
	"github.com/sakif/placement-hub/internal/model"
	"github.com/sakif/placement-hub/internal/report"
)

// ============================================================
// ERROR MAPPING TESTS
// ============================================================

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		wantReason string
	}{
		{"validation", apperror.ValidationFailed("title", "required"), http.StatusBadRequest, "validation_error", ""},
		{"unauthorized", apperror.Unauthorized(apperror.ReasonWrongPassword, "no"), http.StatusUnauthorized, "unauthorized", "wrong_password"},
		{"forbidden", apperror.Forbidden("no"), http.StatusForbidden, "forbidden", ""},
		{"not found", apperror.NotFound("internship", "x"), http.StatusNotFound, "not_found", ""},
		{"conflict", apperror.Conflict("user", "x"), http.StatusConflict, "conflict", ""},
		{"invalid state", apperror.InvalidState(apperror.ReasonDecisionFinal, "no"), http.StatusConflict, "invalid_state", "decision_already_made"},
		{"precondition", apperror.PreconditionFailed(apperror.ReasonApplicationLimit, "no"), http.StatusUnprocessableEntity, "precondition_failed", "application_limit"},
		{"not owner", apperror.PreconditionFailed(apperror.ReasonNotOwner, "no"), http.StatusForbidden, "forbidden", "not_owner"},
		{"plain error", errors.New("disk on fire"), http.StatusInternalServerError, "internal_error", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			writeError(rr, tt.err)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

			var body ErrorResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
			assert.Equal(t, tt.wantType, body.Error)
			assert.Equal(t, tt.wantReason, body.Reason)
			assert.NotContains(t, body.Message, "disk on fire")
		})
	}
}

func TestWriteError_CarriesField(t *testing.T) {
	rr := httptest.NewRecorder()
	writeError(rr, apperror.ValidationFailed("closeDate", "must not be before openDate"))

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, "closeDate", body.Field)
}

// ============================================================
// CRITERIA PARSING TESTS
// ============================================================

func TestParseCriteria(t *testing.T) {
	q := url.Values{
		"title":    {" backend "},
		"major":    {"CSC"},
		"rep":      {"rep1"},
		"company":  {"Acme"},
		"level":    {"intermediate"},
		"status":   {"approved"},
		"visible":  {"true"},
		"minSlots": {"2"},
		"openFrom": {"2026-01-01"},
		"closeBy":  {"2026-06-30"},
		"sort":     {"close_date"},
	}

	c, err := parseCriteria(q)
	require.NoError(t, err)

	title, ok := c.Title.Get()
	assert.True(t, ok)
	assert.Equal(t, "backend", title)

	level, _ := c.Level.Get()
	assert.Equal(t, model.LevelIntermediate, level)

	status, _ := c.Status.Get()
	assert.Equal(t, model.StatusApproved, status)

	visible, ok := c.Visible.Get()
	assert.True(t, ok)
	assert.True(t, visible)

	minSlots, _ := c.MinSlots.Get()
	assert.Equal(t, 2, minSlots)

	closeBy, _ := c.CloseBy.Get()
	assert.Equal(t, model.NewDate(2026, 6, 30), closeBy)

	assert.Equal(t, report.SortCloseDate, c.SortBy)
}

func TestParseCriteria_EmptyLeavesEverythingUnset(t *testing.T) {
	c, err := parseCriteria(url.Values{"title": {"   "}})
	require.NoError(t, err)

	_, ok := c.Title.Get()
	assert.False(t, ok)
	_, ok = c.Visible.Get()
	assert.False(t, ok)
	assert.Equal(t, report.SortTitle, c.SortBy)
}

func TestParseCriteria_Errors(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"level", "EXPERT"},
		{"status", "MAYBE"},
		{"visible", "sometimes"},
		{"minSlots", "-1"},
		{"minSlots", "two"},
		{"openFrom", "01/02/2026"},
		{"closeBy", "2026-13-01"},
		{"sort", "PRICE"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			_, err := parseCriteria(url.Values{tt.key: {tt.value}})
			require.Error(t, err)
			assert.ErrorIs(t, err, apperror.ErrValidation)

			var appErr *apperror.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.key, appErr.Field)
		})
	}
}
