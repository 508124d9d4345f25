package playtomic

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/rafa-garcia/go-playtomic-api/client"
	"github.com/rafa-garcia/go-playtomic-api/models"
)

// APIClient is a custom Playtomic API client that implements the PlaytomicClient interface.
type APIClient struct {
	httpClient *http.Client
	apiClient  *client.Client
	BaseURL    string
}

// NewClient creates a new custom Playtomic client.
func NewClient() PlaytomicClient {
	return &APIClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiClient: client.NewClient(
			client.WithTimeout(10*time.Second),
			client.WithRetries(3),
		),
		BaseURL: "https://api.playtomic.io",
	}
}

// Ensure APIClient implements the PlaytomicClient interface.
var _ PlaytomicClient = (*APIClient)(nil)

// GetMatches fetches a list of matches based on the provided search parameters.
func (c *APIClient) GetMatches(params *SearchMatchesParams) ([]MatchSummary, error) {
	const pageSize = 300
	var (
		allMatches []MatchSummary
		page       = 0
	)

	for {
		externalParams := &models.SearchMatchesParams{
			SportID:       params.SportID,
			HasPlayers:    params.HasPlayers,
			Sort:          params.Sort,
			TenantIDs:     params.TenantIDs,
			FromStartDate: params.FromStartDate,
			Size:          pageSize,
			Page:          page,
		}

		log.Debug("Fetching matches from Playtomic API", "params", externalParams)
		matches, err := c.apiClient.GetMatches(context.Background(), externalParams)
		if err != nil {
			return nil, fmt.Errorf("error fetching matches from playtomic api: %w", err)
		}

		for _, m := range matches {
			allMatches = append(allMatches, MatchSummary{
				MatchID: m.MatchID,
				OwnerID: m.OwnerID,
			})
		}
		if len(matches) < pageSize {
			break
		}
		page++
	}
	log.Info("Fetched club matches", "count", len(allMatches), "pages", page+1)
	return allMatches, nil
}

// GetMatchPlayers fetches the players booked on a match along with their levels.
func (c *APIClient) GetMatchPlayers(matchID string) ([]Player, error) {
	url := fmt.Sprintf("%s/v1/matches/%s", c.BaseURL, matchID)

	req, err := http.NewRequestWithContext(context.Background(), "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "PlaytomicGoClient/1.0")
	log.Debug("Requesting match from Playtomic API", "url", url)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Error("Received non-OK HTTP status from Playtomic API", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("received non-OK HTTP status: %d", resp.StatusCode)
	}

	var matchResponse playtomicMatchResponse
	if err := json.NewDecoder(resp.Body).Decode(&matchResponse); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	var players []Player
	for _, team := range matchResponse.Teams {
		for _, p := range team.Players {
			player := Player{UserID: p.UserID, Name: p.Name}
			if p.LevelValue != nil {
				player.Level = *p.LevelValue
			}
			players = append(players, player)
		}
	}
	return players, nil
}

// ClubLevels collects the latest known level of every member who played at
// the club since the given time. Matches that fail to load are skipped.
func ClubLevels(c PlaytomicClient, tenantID string, since time.Time) ([]Player, error) {
	matches, err := c.GetMatches(&SearchMatchesParams{
		SportID:       "PADEL",
		HasPlayers:    true,
		Sort:          "start_date,DESC",
		TenantIDs:     []string{tenantID},
		FromStartDate: since.Format("2006-01-02T15:04:05"),
	})
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var players []Player
	// Matches are sorted newest first, so the first level seen is the latest.
	for _, m := range matches {
		matchPlayers, err := c.GetMatchPlayers(m.MatchID)
		if err != nil {
			log.Warn("Skipping match with unreadable players", "matchID", m.MatchID, "error", err)
			continue
		}
		for _, p := range matchPlayers {
			if p.UserID == "" || p.Level == 0 || seen[p.UserID] {
				continue
			}
			seen[p.UserID] = true
			players = append(players, p)
		}
	}
	log.Debug("Collected club levels", "players", len(players), "matches", len(matches))
	return players, nil
}
