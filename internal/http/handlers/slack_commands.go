package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/club-ladder/internal/notifier"
	"github.com/mauv0809/club-ladder/internal/processor"
	"github.com/slack-go/slack"
)

// respondWithSlackMsg is a helper to format and write a Slack message as an HTTP response.
func respondWithSlackMsg(w http.ResponseWriter, msg slack.Message) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(msg); err != nil {
		log.Error("Failed to encode slack message to JSON", "error", err)
	}
}

// LadderCommandHandler answers /ladder with the standings, or /ladder <name>
// with one player's card.
func LadderCommandHandler(processor *processor.Processor, notifier notifier.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		query := strings.TrimSpace(r.FormValue("text"))
		log.Info("Received ladder command", "user", r.FormValue("user_name"), "query", query)

		var (
			msg any
			err error
		)
		if query == "" {
			msg, err = notifier.FormatStandingsResponse(processor.Players())
		} else if player, ok := processor.FindPlayer(query); ok {
			msg, err = notifier.FormatPlayerResponse(player)
		} else {
			log.Warn("Could not find player", "query", query)
			msg, err = notifier.FormatPlayerNotFoundResponse(query)
		}
		if err != nil {
			http.Error(w, "Failed to format ladder", http.StatusInternalServerError)
			log.Error("Failed to format ladder", "error", err)
			return
		}

		if slackMsg, ok := msg.(slack.Message); ok {
			respondWithSlackMsg(w, slackMsg)
			return
		}
		// Plain {"text": ...} replies are valid slash command responses too.
		writeJSON(w, http.StatusOK, msg)
	}
}
