package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/club-ladder/internal/auth"
	"github.com/mauv0809/club-ladder/internal/ladder"
	"github.com/mauv0809/club-ladder/internal/processor"
	"github.com/mauv0809/club-ladder/internal/session"
)

// ContextKey is a custom type to avoid key collisions in context.
type ContextKey string

const (
	DryRunKey ContextKey = "dryRun"
)

// SessionHeader carries the session id in both directions.
const SessionHeader = "X-Session-ID"

// IsDryRunFromContext is a helper to safely retrieve the dry_run flag from the request context.
func IsDryRunFromContext(r *http.Request) bool {
	dryRun, ok := r.Context().Value(DryRunKey).(bool)
	return ok && dryRun
}

func sessionID(r *http.Request) string {
	return r.Header.Get(SessionHeader)
}

// errorResponse is the body of every failed API call.
type errorResponse struct {
	Error string `json:"error"`
}

// sessionResponse describes the caller's authentication state.
type sessionResponse struct {
	SessionID     string              `json:"sessionId"`
	CurrentUserID string              `json:"currentUserId,omitempty"`
	Pending       *auth.PendingAction `json:"pending,omitempty"`
}

func newSessionResponse(s *session.Session) sessionResponse {
	return sessionResponse{
		SessionID:     s.ID,
		CurrentUserID: s.Gate.CurrentUserID,
		Pending:       s.Gate.Pending,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

func writeSession(w http.ResponseWriter, status int, s *session.Session) {
	w.Header().Set(SessionHeader, s.ID)
	writeJSON(w, status, newSessionResponse(s))
}

// statusFor maps ladder, auth and persistence failures to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ladder.ErrPlayerNotFound), errors.Is(err, ladder.ErrChallengeNotFound):
		return http.StatusNotFound
	case errors.Is(err, ladder.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, auth.ErrAuthFailed), errors.Is(err, auth.ErrNoPendingAction):
		return http.StatusUnauthorized
	case errors.Is(err, processor.ErrPersistence):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Error("Request failed", "error", err)
		msg = "internal error"
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		log.Warn("Failed to decode request body", "error", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return false
	}
	return true
}
