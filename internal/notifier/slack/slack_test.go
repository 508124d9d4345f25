package slack

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mauv0809/club-ladder/internal/ladder"
	"github.com/mauv0809/club-ladder/internal/metrics"
	slackapi "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSlackAPI is a mock implementation of the parts of the slack.Client that we use.
type mockSlackAPI struct {
	postMessageContextFunc func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

func (m *mockSlackAPI) PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	if m.postMessageContextFunc != nil {
		return m.postMessageContextFunc(ctx, channelID, options...)
	}
	return "C12345", "123456789.12345", nil
}

func TestSendMessage_DryRun(t *testing.T) {
	metrics := metrics.NewMock()
	// Pass nil for the api, as it shouldn't be called in dry-run mode.
	notifier := NewNotifierWithAPI(nil, "C123", metrics)

	_, _, err := notifier.sendMessage(slackapi.NewBlockMessage(), true)
	require.NoError(t, err)
	assert.Equal(t, 0, metrics.NotifSent())
}

func TestSendMessage_Success(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			assert.Equal(t, "C123", channelID)
			return "C123", "ts123", nil
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	message := slackapi.NewBlockMessage(slackapi.NewSectionBlock(slackapi.NewTextBlockObject("plain_text", "hello", false, false), nil, nil))
	_, _, err := notifier.sendMessage(message, false)

	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called")
	assert.Equal(t, 1, metrics.NotifSent())
	assert.Equal(t, 0, metrics.NotifFailed())
}

func TestSendMessage_Failure(t *testing.T) {
	expectedErr := errors.New("slack API is down")
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			return "", "", expectedErr
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	_, _, err := notifier.sendMessage(slackapi.NewBlockMessage(), false)

	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	assert.Equal(t, 0, metrics.NotifSent())
	assert.Equal(t, 1, metrics.NotifFailed())
}

func TestSendLadderEvent_CallsSender(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			return "C123", "ts123", nil
		},
	}
	notifier := NewNotifierWithAPI(api, "C123", metrics.NewMock())

	err := notifier.SendLadderEvent(ladder.Event{Type: ladder.EventChallengeIssued, Message: "Bas has challenged Chris for position #13!"}, false)
	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called via SendLadderEvent")
}

func TestFormatLadderEvent(t *testing.T) {
	notifier := NewNotifierWithAPI(nil, "C123", metrics.NewMock())
	event := ladder.Event{
		Type:    ladder.EventMatchCompleted,
		Message: "Hank successfully defended position #2 against Simon! Hank gained 1 life (now has 3).",
		At:      time.Date(2025, 7, 9, 18, 0, 0, 0, time.UTC),
	}

	msg := notifier.formatLadderEvent(event)
	require.Len(t, msg.Blocks.BlockSet, 3, "Expected 3 blocks")

	header, ok := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
	require.True(t, ok, "First block should be a HeaderBlock")
	assert.Equal(t, ":trophy: Match result", header.Text.Text)

	section, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	require.True(t, ok, "Second block should be a SectionBlock")
	assert.Equal(t, event.Message, section.Text.Text)

	contextBlock, ok := msg.Blocks.BlockSet[2].(*slackapi.ContextBlock)
	require.True(t, ok, "Third block should be a ContextBlock")
	when, ok := contextBlock.ContextElements.Elements[0].(*slackapi.TextBlockObject)
	require.True(t, ok)
	assert.Equal(t, "Wednesday 09 Jul, 20:00", when.Text)

	assert.Equal(t, event.Message, fallbackText(msg))
}

func TestFormatStandings(t *testing.T) {
	notifier := NewNotifierWithAPI(nil, "C123", metrics.NewMock())

	t.Run("lists players in order", func(t *testing.T) {
		msg := notifier.formatStandings([]ladder.Player{
			{Name: "Marius", Position: 1, Lives: 2, MatchesWon: 3, MatchesLost: 1},
			{Name: "Hank", Position: 2, Lives: 0},
			{Name: "Simon", Position: 3, Lives: 1},
			{Name: "Fabian", Position: 4, Lives: 1},
		})
		require.Len(t, msg.Blocks.BlockSet, 2)
		section, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
		require.True(t, ok)
		expected := "1. :first_place_medal: Marius  :heart::heart:  W-L 3-1\n" +
			"2. :second_place_medal: Hank  no lives  W-L 0-0\n" +
			"3. :third_place_medal: Simon  :heart:  W-L 0-0\n" +
			"4. Fabian  :heart:  W-L 0-0"
		assert.Equal(t, expected, section.Text.Text)
	})

	t.Run("empty ladder", func(t *testing.T) {
		msg := notifier.formatStandings(nil)
		require.Len(t, msg.Blocks.BlockSet, 2)
		section := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
		assert.Equal(t, "The ladder is empty.", section.Text.Text)
	})
}

func TestFormatPlayer(t *testing.T) {
	notifier := NewNotifierWithAPI(nil, "C123", metrics.NewMock())
	last := time.Date(2025, 7, 9, 18, 0, 0, 0, time.UTC)

	msg := notifier.formatPlayer(ladder.Player{Name: "Pickles", Position: 9, Lives: 3, MatchesWon: 4, MatchesLost: 2, CurrentStreak: 2, LastMatchDate: &last})
	require.Len(t, msg.Blocks.BlockSet, 3)

	header := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
	assert.Equal(t, "#9 Pickles", header.Text.Text)

	section := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	require.Len(t, section.Fields, 4)
	assert.Equal(t, "*Record*\n4-2", section.Fields[1].Text)
	assert.Equal(t, "*Streak*\n+2", section.Fields[2].Text)
}
