package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/clubhouse/internal/apperr"
	"github.com/mauv0809/clubhouse/internal/metrics"
	"github.com/mauv0809/clubhouse/internal/session"
)

// ContextKey is a custom type to avoid key collisions in context.
type ContextKey string

const (
	DryRunKey ContextKey = "dryRun"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

// IsDryRunFromContext is a helper to safely retrieve the dry_run flag from the request context.
func IsDryRunFromContext(r *http.Request) bool {
	dryRun, ok := r.Context().Value(DryRunKey).(bool)
	return ok && dryRun
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
	// Committed describes what was stored before the request failed.
	Committed any `json:"committed,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

// statusFor maps the error taxonomy to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrLockedMatch):
		return http.StatusConflict
	case errors.Is(err, apperr.ErrUnbalancedTeams):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrTransientIO):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WriteError logs err, counts it and writes the matching status. User errors
// carry their message; forbidden and storage failures get a generic one.
func WriteError(w http.ResponseWriter, r *http.Request, m metrics.Metrics, err error) {
	writeError(w, r, m, err, nil)
}

func writeError(w http.ResponseWriter, r *http.Request, m metrics.Metrics, err error, committed any) {
	kind := apperr.Kind(err)
	status := statusFor(err)
	m.IncDomainErrors(kind)

	msg := err.Error()
	switch status {
	case http.StatusForbidden:
		msg = "you are not allowed to do that"
		log.Warn("Forbidden request", "method", r.Method, "path", r.URL.Path, "error", err)
	case http.StatusServiceUnavailable:
		msg = "temporary failure, please retry"
		log.Error("Transient failure", "method", r.Method, "path", r.URL.Path, "error", err)
	case http.StatusInternalServerError:
		msg = "internal error"
		log.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	default:
		log.Debug("Request rejected", "method", r.Method, "path", r.URL.Path, "kind", kind, "error", err)
	}
	writeJSON(w, status, ErrorResponse{Error: msg, Kind: kind, Committed: committed})
}

// decodeJSON reads a JSON body into v. An empty body leaves v untouched.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return apperr.Invalid("malformed request body: %s", strings.TrimPrefix(err.Error(), "json: "))
	}
	return nil
}

// sessionFrom returns the session resolved by the session middleware.
func sessionFrom(r *http.Request) (session.Session, error) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		return session.Session{}, fmt.Errorf("no session on request: %w", apperr.ErrForbidden)
	}
	return sess, nil
}
