package http

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/mauv0809/club-ladder/internal/auth"
	"github.com/mauv0809/club-ladder/internal/clock"
	"github.com/mauv0809/club-ladder/internal/club"
	"github.com/mauv0809/club-ladder/internal/config"
	"github.com/mauv0809/club-ladder/internal/database"
	"github.com/mauv0809/club-ladder/internal/ladder"
	"github.com/mauv0809/club-ladder/internal/metrics"
	"github.com/mauv0809/club-ladder/internal/notifier"
	"github.com/mauv0809/club-ladder/internal/playtomic"
	"github.com/mauv0809/club-ladder/internal/processor"
	"github.com/mauv0809/club-ladder/internal/pubsub"
	"github.com/mauv0809/club-ladder/internal/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSlackSigningSecret = "test-signing-secret"

var testStart = time.Date(2025, 7, 9, 18, 0, 0, 0, time.UTC)

type testServer struct {
	*Server
	store   club.ClubStore
	notif   *notifier.Mock
	pubsub  *pubsub.MockPubSubClient
	clock   *clock.MockClock
	session string
}

// setupTestServer initializes a server over an in-memory database seeded with a
// small ladder.
func setupTestServer(t *testing.T, playtomicClient playtomic.PlaytomicClient, cfg config.Config) *testServer {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)
	t.Cleanup(dbTeardown)

	clubStore := club.New(db)
	hankID := "pt-hank"
	seeded := testStart.Add(-time.Hour)
	require.NoError(t, clubStore.SeedPlayers(context.Background(), []ladder.Player{
		{ID: "p1", Name: "Marius", Rank: 4.0, Position: 1, Lives: 2, Password: "CAKE", UpdatedAt: seeded},
		{ID: "p2", Name: "Hank", Rank: 4.0, Position: 2, Lives: 2, Password: "BLUE", PlaytomicID: &hankID, UpdatedAt: seeded},
		{ID: "p3", Name: "Simon", Rank: 4.0, Position: 3, Lives: 2, Password: "DUCK", UpdatedAt: seeded},
		{ID: "p4", Name: "Fabian", Rank: 4.0, Position: 4, Lives: 2, Password: "JAZZ", UpdatedAt: seeded},
	}))

	reg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(reg)
	metricsHandler := metrics.NewMetricsHandler(reg)
	ts := &testServer{
		store:  clubStore,
		notif:  notifier.NewMock(),
		pubsub: pubsub.NewMock("TEST"),
		clock:  clock.NewMock(testStart),
	}
	proc := processor.New(clubStore, ts.notif, metricsSvc, ts.pubsub, session.NewMemoryStore(), processor.Options{
		Clock:  ts.clock,
		Origin: "instance-a",
	})
	require.NoError(t, proc.Load(context.Background()))

	ts.Server = NewServer(metricsHandler, cfg, playtomicClient, ts.notif, proc, ts.pubsub, nil)
	return ts
}

// do sends a JSON request carrying the current session id and remembers the
// session id from the response.
func (ts *testServer) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	if ts.session != "" {
		req.Header.Set("X-Session-ID", ts.session)
	}
	rr := httptest.NewRecorder()
	ts.Router.ServeHTTP(rr, req)
	if id := rr.Header().Get("X-Session-ID"); id != "" {
		ts.session = id
	}
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

type sessionBody struct {
	SessionID     string              `json:"sessionId"`
	CurrentUserID string              `json:"currentUserId"`
	Pending       *auth.PendingAction `json:"pending"`
	Purpose       string              `json:"purpose"`
	Challenge     *ladder.Challenge   `json:"challenge"`
	Match         *ladder.Match       `json:"match"`
}

func (ts *testServer) login(t *testing.T, playerID, secret string) {
	t.Helper()
	rr := ts.do(t, "POST", "/api/session/login", map[string]string{"playerId": playerID})
	require.Equal(t, http.StatusAccepted, rr.Code, rr.Body.String())
	rr = ts.do(t, "POST", "/api/session/authenticate", map[string]string{"secret": secret})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.Equal(t, playerID, decode[sessionBody](t, rr).CurrentUserID)
}

// createSlackCommandRequest creates an http.Request suitable for testing Slack slash commands,
// including the necessary signature and timestamp headers for verification.
func createSlackCommandRequest(t *testing.T, targetURL string, form url.Values, signingSecret string) *http.Request {
	t.Helper()

	bodyBytes := []byte(form.Encode())
	req, err := http.NewRequest("POST", targetURL, bytes.NewReader(bodyBytes))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	timestamp := time.Now().Unix()
	req.Header.Set("X-Slack-Request-Timestamp", strconv.FormatInt(timestamp, 10))

	baseString := fmt.Sprintf("v0:%d:%s", timestamp, string(bodyBytes))
	h := hmac.New(sha256.New, []byte(signingSecret))
	h.Write([]byte(baseString))
	req.Header.Set("X-Slack-Signature", "v0="+hex.EncodeToString(h.Sum(nil)))

	return req
}

func TestHealthCheckHandler(t *testing.T) {
	ts := setupTestServer(t, playtomic.NewMockClient(), config.Config{})

	rr := ts.do(t, "GET", "/health", nil)

	assert.Equal(t, http.StatusOK, rr.Code, "handler returned wrong status code")
	assert.Equal(t, "OK!", rr.Body.String(), "handler returned unexpected body")
}

func TestListPlayersHandler(t *testing.T) {
	ts := setupTestServer(t, playtomic.NewMockClient(), config.Config{})

	rr := ts.do(t, "GET", "/api/players", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	players := decode[[]ladder.Player](t, rr)
	require.Len(t, players, 4)
	assert.Equal(t, "Marius", players[0].Name)
	assert.Equal(t, 4, players[3].Position)
	assert.NotContains(t, rr.Body.String(), "CAKE", "Secrets must never be served")
}

func TestChallengeablePlayersHandler(t *testing.T) {
	ts := setupTestServer(t, playtomic.NewMockClient(), config.Config{})

	rr := ts.do(t, "GET", "/api/players/p4/challengeable", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	names := []string{}
	for _, p := range decode[[]ladder.Player](t, rr) {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Hank", "Simon"}, names, "Top tier defenders are within two places")

	rr = ts.do(t, "GET", "/api/players/nobody/challengeable", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestChallengeFlow(t *testing.T) {
	ts := setupTestServer(t, playtomic.NewMockClient(), config.Config{})

	rr := ts.do(t, "POST", "/api/challenges", map[string]string{"defenderId": "p2"})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code, "Anonymous sessions cannot challenge")

	ts.login(t, "p3", "duck")

	rr = ts.do(t, "POST", "/api/challenges", map[string]string{"defenderId": "p2"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	challenge := decode[ladder.Challenge](t, rr)
	assert.Equal(t, ladder.StatusPending, challenge.Status)
	assert.Equal(t, testStart.Add(24*time.Hour), challenge.ResponseDeadline.UTC())

	rr = ts.do(t, "GET", "/api/challenges/active", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]ladder.Challenge](t, rr), 1)

	// The defender answers; only their PIN confirms it.
	rr = ts.do(t, "POST", "/api/challenges/"+challenge.ID+"/respond", map[string]bool{"accept": true})
	require.Equal(t, http.StatusAccepted, rr.Code, rr.Body.String())
	pending := decode[sessionBody](t, rr).Pending
	require.NotNil(t, pending)
	assert.Equal(t, "p2", pending.PlayerID)

	rr = ts.do(t, "POST", "/api/session/authenticate", map[string]string{"secret": "DUCK"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = ts.do(t, "POST", "/api/session/authenticate", map[string]string{"secret": "blue"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	body := decode[sessionBody](t, rr)
	assert.Equal(t, "respond", body.Purpose)
	require.NotNil(t, body.Challenge)
	assert.Equal(t, ladder.StatusAccepted, body.Challenge.Status)

	rr = ts.do(t, "POST", "/api/challenges/"+challenge.ID+"/complete", map[string]string{"winnerId": "p2", "score": "6-1 6-2"})
	require.Equal(t, http.StatusAccepted, rr.Code, rr.Body.String())

	rr = ts.do(t, "POST", "/api/session/authenticate", map[string]string{"secret": "ADMIN"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	body = decode[sessionBody](t, rr)
	require.NotNil(t, body.Match)
	assert.Equal(t, "p2", body.Match.WinnerID)
	assert.Equal(t, "6-1 6-2", body.Match.Score)

	rr = ts.do(t, "GET", "/api/matches/recent?limit=5", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]ladder.Match](t, rr), 1)

	rr = ts.do(t, "GET", "/api/notifications", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	events := decode[[]ladder.Event](t, rr)
	require.Len(t, events, 3)
	assert.Equal(t, "Hank successfully defended position #2 against Simon! Hank gained 1 life (now has 3).", events[0].Message)
	assert.Len(t, ts.notif.Events(), 3)

	// Every change reached the database.
	stored, err := ts.store.FetchPlayers(context.Background())
	require.NoError(t, err)
	for _, p := range stored {
		switch p.ID {
		case "p2":
			assert.Equal(t, 3, p.Lives)
			assert.Equal(t, 1, p.MatchesWon)
			assert.Equal(t, 2, p.Position)
		case "p3":
			assert.Equal(t, 1, p.Lives)
			assert.Equal(t, 1, p.MatchesLost)
		}
	}
	assert.Contains(t, ts.pubsub.Topics(), string(pubsub.EventMatchesChanged))
}

func TestSessionHandlers(t *testing.T) {
	ts := setupTestServer(t, playtomic.NewMockClient(), config.Config{})

	rr := ts.do(t, "GET", "/api/session", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, ts.session)
	assert.Empty(t, decode[sessionBody](t, rr).CurrentUserID)

	rr = ts.do(t, "POST", "/api/session/authenticate", map[string]string{"secret": "CAKE"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code, "Nothing is pending")

	rr = ts.do(t, "POST", "/api/session/login", map[string]string{"playerId": "p9"})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = ts.do(t, "POST", "/api/session/login", map[string]string{"playerId": "p1"})
	require.Equal(t, http.StatusAccepted, rr.Code)
	rr = ts.do(t, "POST", "/api/session/cancel", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Nil(t, decode[sessionBody](t, rr).Pending)

	ts.login(t, "p1", "cake")
	rr = ts.do(t, "POST", "/api/session/logout", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decode[sessionBody](t, rr).CurrentUserID)

	req := httptest.NewRequest("POST", "/api/session/login", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	ts.Router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRespondToUnknownChallenge(t *testing.T) {
	ts := setupTestServer(t, playtomic.NewMockClient(), config.Config{})

	rr := ts.do(t, "POST", "/api/challenges/missing/respond", map[string]bool{"accept": false})
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "error")
}

func TestSweepHandler(t *testing.T) {
	ts := setupTestServer(t, playtomic.NewMockClient(), config.Config{})
	ts.login(t, "p4", "JAZZ")
	rr := ts.do(t, "POST", "/api/challenges", map[string]string{"defenderId": "p3"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = ts.do(t, "POST", "/tasks/sweep", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Expired 0 challenges.\n", rr.Body.String())

	ts.clock.Advance(25 * time.Hour)

	rr = ts.do(t, "POST", "/tasks/sweep?dry_run=true", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Expired 1 challenges.\n", rr.Body.String())
	assert.Len(t, ts.Processor.ActiveChallenges(), 1)

	rr = ts.do(t, "POST", "/tasks/sweep", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Expired 1 challenges.\n", rr.Body.String())
	assert.Empty(t, ts.Processor.ActiveChallenges())

	rr = ts.do(t, "GET", "/tasks/sweep", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestChangesHandler(t *testing.T) {
	ts := setupTestServer(t, playtomic.NewMockClient(), config.Config{})

	// Another instance wrote Fabian directly.
	players, err := ts.store.FetchPlayers(context.Background())
	require.NoError(t, err)
	fabian := players[3]
	require.Equal(t, "Fabian", fabian.Name)
	fabian.Lives = 5
	fabian.UpdatedAt = testStart
	require.NoError(t, ts.store.UpdatePlayer(context.Background(), fabian))

	body, err := pubsub.EncodePush("projects/test/subscriptions/players", pubsub.ChangeMessage{
		Topic:  pubsub.EventPlayersChanged,
		Origin: "instance-b",
		IDs:    []string{"p4"},
	})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/pubsub/changes", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	ts.Router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	p, err := ts.Processor.Player("p4")
	require.NoError(t, err)
	assert.Equal(t, 5, p.Lives)

	req = httptest.NewRequest("POST", "/pubsub/changes", strings.NewReader("garbage"))
	rr = httptest.NewRecorder()
	ts.Router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRefreshRanksHandler(t *testing.T) {
	client := playtomic.NewMockClient()
	client.GetMatchesFunc = func(params *playtomic.SearchMatchesParams) ([]playtomic.MatchSummary, error) {
		return []playtomic.MatchSummary{{MatchID: "m1"}}, nil
	}
	client.GetMatchPlayersFunc = func(matchID string) ([]playtomic.Player, error) {
		return []playtomic.Player{{UserID: "pt-hank", Name: "Hank", Level: 4.7}}, nil
	}

	t.Run("not configured", func(t *testing.T) {
		ts := setupTestServer(t, client, config.Config{})
		rr := ts.do(t, "POST", "/tasks/refresh-ranks", nil)
		assert.Equal(t, http.StatusNotImplemented, rr.Code)
	})

	t.Run("updates linked players", func(t *testing.T) {
		client.Reset()
		ts := setupTestServer(t, client, config.Config{TenantID: "tenant-1", Ladder: config.LadderConfig{RankLookback: 30 * 24 * time.Hour}})
		rr := ts.do(t, "POST", "/tasks/refresh-ranks?days=7", nil)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Equal(t, "Updated 1 ranks.\n", rr.Body.String())

		require.Len(t, client.GetMatchesCalls, 1)
		assert.Equal(t, []string{"tenant-1"}, client.GetMatchesCalls[0].TenantIDs)

		hank, err := ts.Processor.Player("p2")
		require.NoError(t, err)
		assert.InDelta(t, 4.7, hank.Rank, 0.001)
	})
}

func TestLadderCommandHandler(t *testing.T) {
	cfg := config.Config{Slack: config.SlackConfig{SigningSecret: testSlackSigningSecret}}

	t.Run("standings", func(t *testing.T) {
		ts := setupTestServer(t, playtomic.NewMockClient(), cfg)
		ts.notif.FormatStandingsResponseFunc = func(players []ladder.Player) (any, error) {
			return slack.Message{Msg: slack.Msg{Text: fmt.Sprintf("%d players", len(players))}}, nil
		}

		req := createSlackCommandRequest(t, "/slack/command/ladder", url.Values{"text": {""}}, testSlackSigningSecret)
		rr := httptest.NewRecorder()
		ts.Router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Contains(t, rr.Body.String(), "4 players")
	})

	t.Run("player lookup", func(t *testing.T) {
		ts := setupTestServer(t, playtomic.NewMockClient(), cfg)

		req := createSlackCommandRequest(t, "/slack/command/ladder", url.Values{"text": {"simon"}}, testSlackSigningSecret)
		rr := httptest.NewRecorder()
		ts.Router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		player, ok := ts.notif.LastPlayerResponse.(ladder.Player)
		require.True(t, ok)
		assert.Equal(t, "p3", player.ID)
	})

	t.Run("unknown player", func(t *testing.T) {
		ts := setupTestServer(t, playtomic.NewMockClient(), cfg)

		req := createSlackCommandRequest(t, "/slack/command/ladder", url.Values{"text": {"zzzzzz"}}, testSlackSigningSecret)
		rr := httptest.NewRecorder()
		ts.Router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "zzzzzz", ts.notif.LastPlayerNotFoundResponse)
	})

	t.Run("bad signature", func(t *testing.T) {
		ts := setupTestServer(t, playtomic.NewMockClient(), cfg)

		req := createSlackCommandRequest(t, "/slack/command/ladder", url.Values{"text": {""}}, "wrong-secret")
		rr := httptest.NewRecorder()
		ts.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Nil(t, ts.notif.LastStandingsResponse)
	})

	t.Run("disabled without signing secret", func(t *testing.T) {
		ts := setupTestServer(t, playtomic.NewMockClient(), config.Config{})

		req := createSlackCommandRequest(t, "/slack/command/ladder", url.Values{"text": {""}}, testSlackSigningSecret)
		rr := httptest.NewRecorder()
		ts.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	ts := setupTestServer(t, playtomic.NewMockClient(), config.Config{})
	ts.login(t, "p4", "JAZZ")
	rr := ts.do(t, "POST", "/api/challenges", map[string]string{"defenderId": "p3"})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = ts.do(t, "GET", "/metrics", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ladder_challenges_issued_total 1")
}
