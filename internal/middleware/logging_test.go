package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantLevel string
	}{
		{"ok logs at info", http.StatusOK, "INFO"},
		{"client error logs at warn", http.StatusUnprocessableEntity, "WARN"},
		{"server error logs at error", http.StatusInternalServerError, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))

			h := chimiddleware.RequestID(Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.WriteHeader(http.StatusTeapot) // ignored, first status wins
				_, _ = w.Write([]byte("hello"))
			})))

			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/student/applications", nil))

			var line map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
			assert.Equal(t, tt.wantLevel, line["level"])
			assert.Equal(t, "request completed", line["msg"])
			assert.Equal(t, http.MethodGet, line["method"])
			assert.Equal(t, "/api/student/applications", line["path"])
			assert.EqualValues(t, tt.status, line["status"])
			assert.EqualValues(t, 5, line["bytes"])
			assert.NotEmpty(t, line["request_id"])
		})
	}
}

func TestLogger_DefaultStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	h := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.EqualValues(t, http.StatusOK, line["status"])
	assert.NotContains(t, line, "request_id")
}
