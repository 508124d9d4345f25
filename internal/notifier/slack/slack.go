package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/club-ladder/internal/ladder"
	"github.com/mauv0809/club-ladder/internal/metrics"
	"github.com/mauv0809/club-ladder/internal/notifier"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier posts ladder events to a Slack channel.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
	loc       *time.Location
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	return NewNotifierWithAPI(slack.New(token), channelID, metrics)
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	loc, err := time.LoadLocation("Europe/Copenhagen")
	if err != nil {
		loc = time.UTC
	}
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
		loc:       loc,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-channel", "dry-run-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionText(fallbackText(message), false),
	)
	if err != nil {
		s.metrics.IncNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncNotifSent()
	log.Debug("Sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

// SendLadderEvent posts a single challenge or match event.
func (s *Notifier) SendLadderEvent(event ladder.Event, dryRun bool) error {
	_, _, err := s.sendMessage(s.formatLadderEvent(event), dryRun)
	return err
}

// FormatStandingsResponse formats the ladder for a slash command response.
func (s *Notifier) FormatStandingsResponse(players []ladder.Player) (any, error) {
	return s.formatStandings(players), nil
}

// FormatPlayerResponse formats one player's ladder card for a slash command response.
func (s *Notifier) FormatPlayerResponse(player ladder.Player) (any, error) {
	return s.formatPlayer(player), nil
}

// FormatPlayerNotFoundResponse formats a player not found message for a slash command response.
func (s *Notifier) FormatPlayerNotFoundResponse(query string) (any, error) {
	text := fmt.Sprintf("Sorry, I couldn't find a player on the ladder matching '%s'.", query)
	return slack.NewBlockMessage(
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil),
	), nil
}

var eventHeaders = map[ladder.EventType]string{
	ladder.EventChallengeIssued:   ":crossed_swords: New challenge",
	ladder.EventChallengeAccepted: ":handshake: Challenge accepted",
	ladder.EventChallengeDeclined: ":no_entry_sign: Challenge declined",
	ladder.EventChallengeExpired:  ":hourglass: Challenge expired",
	ladder.EventMatchCompleted:    ":trophy: Match result",
}

func (s *Notifier) formatLadderEvent(event ladder.Event) slack.Message {
	header, ok := eventHeaders[event.Type]
	if !ok {
		header = ":tennis: Ladder update"
	}
	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", header, true, false)),
		slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", event.Message, true, false), nil, nil),
	}
	if !event.At.IsZero() {
		when := event.At.In(s.loc).Format("Monday 02 Jan, 15:04")
		blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", when, false, false)))
	}
	return slack.NewBlockMessage(blocks...)
}

// formatStandings creates a Slack message listing the ladder in position order.
func (s *Notifier) formatStandings(players []ladder.Player) slack.Message {
	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", ":trophy: Ladder Standings :trophy:", true, false)),
	}
	if len(players) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "The ladder is empty.", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	var lines []string
	for _, p := range players {
		var medal string
		switch p.Position {
		case 1:
			medal = ":first_place_medal: "
		case 2:
			medal = ":second_place_medal: "
		case 3:
			medal = ":third_place_medal: "
		}
		lines = append(lines, fmt.Sprintf("%d. %s%s  %s  W-L %d-%d", p.Position, medal, p.Name, hearts(p.Lives), p.MatchesWon, p.MatchesLost))
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", strings.Join(lines, "\n"), false, false), nil, nil))
	return slack.NewBlockMessage(blocks...)
}

func (s *Notifier) formatPlayer(p ladder.Player) slack.Message {
	header := slack.NewTextBlockObject("plain_text", fmt.Sprintf("#%d %s", p.Position, p.Name), true, false)
	fields := []*slack.TextBlockObject{
		slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("*Lives*\n%s", hearts(p.Lives)), false, false),
		slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("*Record*\n%d-%d", p.MatchesWon, p.MatchesLost), false, false),
		slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("*Streak*\n%+d", p.CurrentStreak), false, false),
		slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("*Declined*\n%d", p.ChallengesDeclined), false, false),
	}
	blocks := []slack.Block{
		slack.NewHeaderBlock(header),
		slack.NewSectionBlock(nil, fields, nil),
	}
	if p.LastMatchDate != nil {
		last := "Last match: " + p.LastMatchDate.In(s.loc).Format("Monday 02 Jan")
		blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", last, false, false)))
	}
	return slack.NewBlockMessage(blocks...)
}

func hearts(lives int) string {
	if lives <= 0 {
		return "no lives"
	}
	return strings.Repeat(":heart:", lives)
}

// fallbackText is shown in push notifications where blocks are not rendered.
func fallbackText(message slack.Message) string {
	for _, b := range message.Blocks.BlockSet {
		if section, ok := b.(*slack.SectionBlock); ok && section.Text != nil {
			return section.Text.Text
		}
	}
	return "Ladder update"
}
