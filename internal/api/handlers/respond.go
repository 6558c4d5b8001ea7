package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Togather-Foundation/venues/internal/api/problem"
	"github.com/Togather-Foundation/venues/internal/domain/venues"
)

const jsonContentType = "application/json"

// listResponse wraps collection payloads.
type listResponse[T any] struct {
	Items []T `json:"items"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", jsonContentType)
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func pathParam(r *http.Request, key string) string {
	if r == nil {
		return ""
	}
	return r.PathValue(key)
}

var errEmptyBody = errors.New("request body is empty")

// decodeJSON reads exactly one JSON object from the request body into dst.
// Unknown fields are rejected.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return err
	}
	if dec.More() {
		return fmt.Errorf("request body must contain a single JSON object")
	}
	return nil
}

// writeDecodeError reports a body that could not be decoded.
func writeDecodeError(w http.ResponseWriter, r *http.Request, err error, env string) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		problem.Write(w, r, http.StatusRequestEntityTooLarge, problem.TypeTooLarge, "Request body too large", err, env)
		return
	}
	problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request body", err, env)
}

// writeServiceError maps engine failures onto problem responses.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, env string) {
	var validationErr venues.ValidationError
	if errors.As(err, &validationErr) {
		var opts []problem.Option
		if validationErr.Field != "" {
			opts = append(opts, problem.WithErrors(map[string]any{validationErr.Field: validationErr.Message}))
		}
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, env, opts...)
		return
	}

	var code []problem.Option
	var engineErr *venues.Error
	if errors.As(err, &engineErr) {
		code = append(code, problem.WithCode(engineErr.Code))
	}

	switch {
	case errors.Is(err, venues.ErrNotFound):
		problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound, "Not found", err, env, code...)
	case errors.Is(err, venues.ErrConflict):
		problem.Write(w, r, http.StatusBadRequest, problem.TypeConflict, "Request conflicts with current state", err, env, code...)
	case errors.Is(err, venues.ErrMembershipLost):
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeInconsistent, "Inconsistent state", err, env, code...)
	default:
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeInternal, "Server error", err, env, code...)
	}
}

func resourceURL(baseURL, path string) string {
	return strings.TrimRight(baseURL, "/") + path
}
