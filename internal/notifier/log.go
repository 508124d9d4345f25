package notifier

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/club-ladder/internal/ladder"
)

// LogNotifier writes ladder events to the application log. It is used when no
// Slack workspace is configured.
type LogNotifier struct{}

var _ Notifier = LogNotifier{}

func (LogNotifier) SendLadderEvent(event ladder.Event, dryRun bool) error {
	prefix := ""
	if dryRun {
		prefix = "[Dry Run] "
	}
	log.Info(prefix+"Ladder event", "type", event.Type, "challengeID", event.ChallengeID, "message", event.Message)
	return nil
}

// TextResponse is the plain slash-command reply used without Block Kit.
type TextResponse struct {
	Text string `json:"text"`
}

func (LogNotifier) FormatStandingsResponse(players []ladder.Player) (any, error) {
	if len(players) == 0 {
		return TextResponse{Text: "The ladder is empty."}, nil
	}
	var b strings.Builder
	for _, p := range players {
		fmt.Fprintf(&b, "#%d %s (lives %d, %d-%d)\n", p.Position, p.Name, p.Lives, p.MatchesWon, p.MatchesLost)
	}
	return TextResponse{Text: strings.TrimRight(b.String(), "\n")}, nil
}

func (LogNotifier) FormatPlayerResponse(p ladder.Player) (any, error) {
	return TextResponse{Text: fmt.Sprintf("%s is #%d with %d lives (%d-%d, streak %+d)",
		p.Name, p.Position, p.Lives, p.MatchesWon, p.MatchesLost, p.CurrentStreak)}, nil
}

func (LogNotifier) FormatPlayerNotFoundResponse(query string) (any, error) {
	return TextResponse{Text: fmt.Sprintf("No player matching %q.", query)}, nil
}
