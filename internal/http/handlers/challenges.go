package handlers

import (
	"net/http"

	"github.com/mauv0809/club-ladder/internal/processor"
)

type initiateChallengeRequest struct {
	DefenderID string `json:"defenderId"`
}

type respondRequest struct {
	Accept bool `json:"accept"`
}

type completeRequest struct {
	WinnerID string `json:"winnerId"`
	Score    string `json:"score"`
}

// InitiateChallengeHandler issues a challenge from the session's logged in player.
func InitiateChallengeHandler(processor *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req initiateChallengeRequest
		if !decodeBody(w, r, &req) {
			return
		}
		challenge, err := processor.InitiateChallenge(r.Context(), sessionID(r), req.DefenderID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, challenge)
	}
}

// RespondToChallengeHandler queues the defender's answer; it takes effect on authentication.
func RespondToChallengeHandler(processor *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req respondRequest
		if !decodeBody(w, r, &req) {
			return
		}
		s, err := processor.RespondToChallenge(r.Context(), sessionID(r), r.PathValue("id"), req.Accept)
		if err != nil {
			writeError(w, err)
			return
		}
		writeSession(w, http.StatusAccepted, s)
	}
}

// CompleteMatchHandler queues a match result; it is recorded on admin authentication.
func CompleteMatchHandler(processor *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req completeRequest
		if !decodeBody(w, r, &req) {
			return
		}
		s, err := processor.CompleteMatch(r.Context(), sessionID(r), r.PathValue("id"), req.WinnerID, req.Score)
		if err != nil {
			writeError(w, err)
			return
		}
		writeSession(w, http.StatusAccepted, s)
	}
}
