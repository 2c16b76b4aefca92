package httputil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "golfbot/pkg/domain-errors"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"validation keeps message", dErrors.New(dErrors.CodeValidation, "name is required"), http.StatusBadRequest, "name is required"},
		{"bad request without message", dErrors.New(dErrors.CodeBadRequest, ""), http.StatusBadRequest, "Bad Request"},
		{"not found without message", dErrors.New(dErrors.CodeNotFound, ""), http.StatusNotFound, "Not Found"},
		{"not found with message", dErrors.New(dErrors.CodeNotFound, "gone"), http.StatusNotFound, "gone"},
		{"malformed identifier hides detail", dErrors.New(dErrors.CodeInvalidInput, "invalid participant ID format"), http.StatusBadRequest, "Bad Request"},
		{"wrapped domain error", fmt.Errorf("handler: %w", dErrors.New(dErrors.CodeNotFound, "")), http.StatusNotFound, "Not Found"},
		{"internal domain error", dErrors.Wrap(errors.New("pq: connection refused"), dErrors.CodeInternal, "failed to list"), http.StatusInternalServerError, "Internal Server Error"},
		{"plain error", errors.New("CRITICAL ERROR"), http.StatusInternalServerError, "Internal Server Error"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, body := Translate(tc.err)
			assert.Equal(t, tc.wantStatus, status)
			assert.Equal(t, tc.wantBody, body)
		})
	}
}

func TestHandle(t *testing.T) {
	t.Run("logs and hides unexpected errors", func(t *testing.T) {
		var logs bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&logs, nil))
		h := Handle(logger, func(w http.ResponseWriter, r *http.Request) error {
			return errors.New("CRITICAL ERROR")
		})

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/participants/x", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Internal Server Error", w.Body.String())
		assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
		assert.Contains(t, logs.String(), "CRITICAL ERROR")
	})

	t.Run("logs the cause behind a wrapped internal error", func(t *testing.T) {
		var logs bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&logs, nil))
		h := Handle(logger, func(w http.ResponseWriter, r *http.Request) error {
			return dErrors.Wrap(errors.New("CRITICAL ERROR"), dErrors.CodeInternal, "failed to delete participant")
		})

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/participants/x", nil))

		assert.Equal(t, "Internal Server Error", w.Body.String())
		assert.Contains(t, logs.String(), "failed to delete participant")
		assert.Contains(t, logs.String(), "CRITICAL ERROR")
	})

	t.Run("logs the driver error behind a store outage", func(t *testing.T) {
		var logs bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&logs, nil))
		unavailable := errors.New("unavailable")
		storeErr := fmt.Errorf("delete participant: %w: %w", unavailable, errors.New("dial tcp 10.0.0.7:5432: connection refused"))
		h := Handle(logger, func(w http.ResponseWriter, r *http.Request) error {
			return dErrors.Wrap(storeErr, dErrors.CodeInternal, "failed to delete participant")
		})

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/participants/x", nil))

		var entry map[string]any
		require.NoError(t, json.Unmarshal(logs.Bytes(), &entry))
		assert.Equal(t, "dial tcp 10.0.0.7:5432: connection refused", entry["cause"])
	})

	t.Run("does not log client errors", func(t *testing.T) {
		var logs bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&logs, nil))
		h := Handle(logger, func(w http.ResponseWriter, r *http.Request) error {
			return dErrors.New(dErrors.CodeNotFound, "")
		})

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Not Found", w.Body.String())
		assert.Empty(t, logs.String())
	})

	t.Run("leaves successful responses alone", func(t *testing.T) {
		h := Handle(nil, func(w http.ResponseWriter, r *http.Request) error {
			WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
			return nil
		})

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"ok":true}`, w.Body.String())
	})
}
