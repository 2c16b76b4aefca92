package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	dErrors "golfbot/pkg/domain-errors"
)

// DecodeJSON decodes a JSON request body into the target type.
// An empty body decodes to the zero value, matching a client that sent "{}".
// Unknown fields are ignored. Any syntax or type mismatch, or data after the
// first JSON value, is a bad request.
//
// Usage:
//
//	req, err := httputil.DecodeJSON[UpdateParticipantRequest](r)
//	if err != nil {
//	    return err
//	}
func DecodeJSON[T any](r *http.Request) (*T, error) {
	var req T
	if r.Body == nil {
		return &req, nil
	}
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return &req, nil
		}
		return nil, &dErrors.Error{Code: dErrors.CodeBadRequest, Err: err}
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, &dErrors.Error{Code: dErrors.CodeBadRequest, Err: errors.New("unexpected data after JSON body")}
	}
	return &req, nil
}

// Validatable is implemented by request types that support validation.
type Validatable interface {
	Validate() error
}

// Normalizable is implemented by request types that support normalization.
type Normalizable interface {
	Normalize()
}

// PrepareRequest normalizes and validates a request.
func PrepareRequest(req any) error {
	if n, ok := req.(Normalizable); ok {
		n.Normalize()
	}
	if v, ok := req.(Validatable); ok {
		return v.Validate()
	}
	return nil
}

// DecodeAndPrepare combines JSON decoding with request preparation.
// Plain validation errors are reported with CodeValidation; domain errors keep their code.
func DecodeAndPrepare[T any](r *http.Request) (*T, error) {
	req, err := DecodeJSON[T](r)
	if err != nil {
		return nil, err
	}

	if err := PrepareRequest(req); err != nil {
		var domainErr *dErrors.Error
		if errors.As(err, &domainErr) {
			return nil, err
		}
		return nil, dErrors.New(dErrors.CodeValidation, err.Error())
	}

	return req, nil
}
