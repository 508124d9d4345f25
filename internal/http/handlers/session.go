package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/club-ladder/internal/ladder"
	"github.com/mauv0809/club-ladder/internal/processor"
)

type loginRequest struct {
	PlayerID string `json:"playerId"`
}

type authenticateRequest struct {
	Secret string `json:"secret"`
}

type authenticateResponse struct {
	sessionResponse
	Purpose   string            `json:"purpose"`
	Challenge *ladder.Challenge `json:"challenge,omitempty"`
	Match     *ladder.Match     `json:"match,omitempty"`
}

// GetSessionHandler returns the caller's session, creating one if needed.
func GetSessionHandler(processor *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := processor.Session(r.Context(), sessionID(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeSession(w, http.StatusOK, s)
	}
}

func LoginHandler(processor *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if !decodeBody(w, r, &req) {
			return
		}
		s, err := processor.Login(r.Context(), sessionID(r), req.PlayerID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeSession(w, http.StatusAccepted, s)
	}
}

// AuthenticateHandler supplies the secret for the session's pending action.
func AuthenticateHandler(processor *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req authenticateRequest
		if !decodeBody(w, r, &req) {
			return
		}
		result, err := processor.Authenticate(r.Context(), sessionID(r), req.Secret)
		if result.Session != nil {
			w.Header().Set(SessionHeader, result.Session.ID)
		}
		if err != nil {
			log.Debug("Authentication request failed", "purpose", result.Purpose, "error", err)
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, authenticateResponse{
			sessionResponse: newSessionResponse(result.Session),
			Purpose:         string(result.Purpose),
			Challenge:       result.Challenge,
			Match:           result.Match,
		})
	}
}

func CancelHandler(processor *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := processor.Cancel(r.Context(), sessionID(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeSession(w, http.StatusOK, s)
	}
}

func LogoutHandler(processor *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := processor.Logout(r.Context(), sessionID(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeSession(w, http.StatusOK, s)
	}
}
