package playtomic

// SearchMatchesParams defines the parameters for searching for matches.
type SearchMatchesParams struct {
	SportID       string
	HasPlayers    bool
	Sort          string
	TenantIDs     []string
	FromStartDate string
}

// MatchSummary contains the essential details of a match from a search result.
type MatchSummary struct {
	MatchID string
	OwnerID *string
}

// Player is a club member as seen in a booked match. Level is the Playtomic
// skill level, zero when the member has none.
type Player struct {
	UserID string
	Name   string
	Level  float64
}

// playtomicMatchResponse is the part of the single match response we read.
type playtomicMatchResponse struct {
	StartDate string                  `json:"start_date"`
	Teams     []playtomicTeamResponse `json:"teams"`
}

type playtomicTeamResponse struct {
	TeamID  string                    `json:"team_id"`
	Players []playtomicPlayerResponse `json:"players"`
}

type playtomicPlayerResponse struct {
	UserID     string   `json:"user_id"`
	Name       string   `json:"name"`
	LevelValue *float64 `json:"level_value"`
}
