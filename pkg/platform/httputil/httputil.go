package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	dErrors "golfbot/pkg/domain-errors"
	"golfbot/pkg/requestcontext"
)

// Default bodies for each status class. Internal details never reach the client.
const (
	MessageBadRequest = "Bad Request"
	MessageNotFound   = "Not Found"
	MessageInternal   = "Internal Server Error"
)

// HandlerFunc is an http.HandlerFunc that reports failures instead of writing them.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Handle adapts fn into an http.HandlerFunc. A returned error is translated
// once, here, and only the 500 class is logged.
func Handle(logger *slog.Logger, fn HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		if err == nil {
			return
		}
		status, body := Translate(err)
		if status >= http.StatusInternalServerError && logger != nil {
			ctx := r.Context()
			logger.ErrorContext(ctx, "unhandled error",
				"error", err,
				"cause", rootCause(err),
				"method", r.Method,
				"path", r.URL.Path,
				"request_id", requestcontext.RequestID(ctx),
			)
		}
		WriteText(w, status, body)
	}
}

// Translate maps an error to a status code and a plain-text body.
//
//   - bad_request / validation_failed: 400 with the error's message
//   - not_found: 404 with the error's message
//   - invalid_input (malformed identifier): 400 "Bad Request"
//   - anything else: 500 "Internal Server Error"
func Translate(err error) (int, string) {
	if err == nil {
		return http.StatusOK, ""
	}
	code := dErrors.CodeOf(err)
	switch code {
	case dErrors.CodeBadRequest, dErrors.CodeValidation:
		return http.StatusBadRequest, messageOr(err, MessageBadRequest)
	case dErrors.CodeNotFound:
		return http.StatusNotFound, messageOr(err, MessageNotFound)
	case dErrors.CodeInvalidInput:
		return http.StatusBadRequest, MessageBadRequest
	default:
		return http.StatusInternalServerError, MessageInternal
	}
}

// messageOr returns the outermost domain error's message, or fallback when it has none.
func messageOr(err error, fallback string) string {
	var e *dErrors.Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}

// rootCause returns the innermost error. For multi-wrapped errors it follows
// the last one, which is where stores put the driver error.
func rootCause(err error) error {
	for {
		var next error
		switch e := err.(type) {
		case interface{ Unwrap() []error }:
			if errs := e.Unwrap(); len(errs) > 0 {
				next = errs[len(errs)-1]
			}
		case interface{ Unwrap() error }:
			next = e.Unwrap()
		}
		if next == nil {
			return err
		}
		err = next
	}
}

// WriteError writes err using Translate. Handlers that cannot return an error use it directly.
func WriteError(w http.ResponseWriter, err error) {
	status, body := Translate(err)
	WriteText(w, status, body)
}

func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Errors after WriteHeader cannot change the status code, so we ignore encoding errors.
	_ = json.NewEncoder(w).Encode(response)
}

func WriteText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body)) //nolint:errcheck // headers already sent
}
