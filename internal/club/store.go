package club

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/club-ladder/internal/ladder"
)

// New creates a new ClubStore.
func New(db *sql.DB) ClubStore {
	return &store{
		db: db,
	}
}

const playerColumns = `id, name, rank, position, matches_won, matches_lost, current_streak,
	challenges_declined, lives, password, last_match_date, last_challenge_response, playtomic_id, updated_at`

const upsertPlayerSQL = `
	INSERT INTO players (` + playerColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		name = excluded.name,
		rank = excluded.rank,
		position = excluded.position,
		matches_won = excluded.matches_won,
		matches_lost = excluded.matches_lost,
		current_streak = excluded.current_streak,
		challenges_declined = excluded.challenges_declined,
		lives = excluded.lives,
		password = excluded.password,
		last_match_date = excluded.last_match_date,
		last_challenge_response = excluded.last_challenge_response,
		playtomic_id = excluded.playtomic_id,
		updated_at = excluded.updated_at;`

const challengeColumns = `id, challenger_id, defender_id, status, date, response_deadline, decline_reason, updated_at`

const matchColumns = `id, challenger_id, defender_id, date, completed, winner_id, score`

// FetchPlayers returns every player ordered by position.
func (s *store) FetchPlayers(ctx context.Context) ([]ladder.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT `+playerColumns+` FROM players ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	var players []ladder.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			log.Error("Failed to scan player row", "error", err)
			continue
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (s *store) FetchChallenges(ctx context.Context) ([]ladder.Challenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT `+challengeColumns+` FROM challenges ORDER BY date ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query challenges: %w", err)
	}
	defer rows.Close()

	var challenges []ladder.Challenge
	for rows.Next() {
		c, err := scanChallenge(rows)
		if err != nil {
			log.Error("Failed to scan challenge row", "error", err)
			continue
		}
		challenges = append(challenges, c)
	}
	return challenges, rows.Err()
}

// FetchMatches returns every match, newest first.
func (s *store) FetchMatches(ctx context.Context) ([]ladder.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT `+matchColumns+` FROM matches ORDER BY date DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	var matches []ladder.Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			log.Error("Failed to scan match row", "error", err)
			continue
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (s *store) UpdatePlayer(ctx context.Context, player ladder.Player) error {
	return s.UpdatePlayersBatch(ctx, []ladder.Player{player})
}

// UpdatePlayersBatch upserts all players in a single transaction, so a
// position swap is never observed half applied.
func (s *store) UpdatePlayersBatch(ctx context.Context, players []ladder.Player) error {
	if len(players) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := upsertPlayers(ctx, tx, players); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func upsertPlayers(ctx context.Context, tx *sql.Tx, players []ladder.Player) error {
	stmt, err := tx.PrepareContext(ctx, upsertPlayerSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare player upsert: %w", err)
	}
	defer stmt.Close()

	for _, p := range players {
		_, err := stmt.ExecContext(ctx,
			p.ID, p.Name, p.Rank, p.Position, p.MatchesWon, p.MatchesLost, p.CurrentStreak,
			p.ChallengesDeclined, p.Lives, p.Password, nullableMillis(p.LastMatchDate),
			nullableString(p.LastChallengeResponse), nullableString(p.PlaytomicID), toMillis(p.UpdatedAt),
		)
		if err != nil {
			log.Error("Failed to upsert player", "error", err, "playerID", p.ID)
			return fmt.Errorf("failed to update player %s: %w", p.ID, err)
		}
	}
	return nil
}

func (s *store) CreateChallenge(ctx context.Context, c ladder.Challenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO challenges (`+challengeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.ChallengerID, c.DefenderID, c.Status, toMillis(c.Date), toMillis(c.ResponseDeadline),
		nullableString(c.DeclineReason), toMillis(c.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create challenge %s: %w", c.ID, err)
	}
	return nil
}

// UpdateChallenge writes the mutable fields of an existing challenge.
func (s *store) UpdateChallenge(ctx context.Context, c ladder.Challenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE challenges SET status = ?, decline_reason = ?, updated_at = ?
		WHERE id = ?`,
		c.Status, nullableString(c.DeclineReason), toMillis(c.UpdatedAt), c.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update challenge %s: %w", c.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("failed to update challenge %s: %w", c.ID, sql.ErrNoRows)
	}
	return nil
}

func (s *store) CreateMatch(ctx context.Context, m ladder.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO matches (`+matchColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.ChallengerID, m.DefenderID, toMillis(m.Date), m.Completed, m.WinnerID, m.Score,
	)
	if err != nil {
		return fmt.Errorf("failed to create match %s: %w", m.ID, err)
	}
	return nil
}

// SeedPlayers starts a new season: all challenges and matches are removed and
// the roster is replaced by players.
func (s *store) SeedPlayers(ctx context.Context, players []ladder.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	for _, q := range []string{"DELETE FROM matches", "DELETE FROM challenges", "DELETE FROM players"} {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to reset season: %w", err)
		}
	}
	if err := upsertPlayers(ctx, tx, players); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	log.Info("Seeded players", "count", len(players))
	return nil
}

// UpdatePlayerRanks only touches the rank and booking-system link columns.
func (s *store) UpdatePlayerRanks(ctx context.Context, updates []RankUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `
		UPDATE players SET rank = ?, playtomic_id = COALESCE(?, playtomic_id), updated_at = ?
		WHERE id = ?`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare rank update: %w", err)
	}
	defer stmt.Close()

	for _, u := range updates {
		if _, err := stmt.ExecContext(ctx, u.Rank, nullableString(u.PlaytomicID), toMillis(u.UpdatedAt), u.PlayerID); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to update rank for %s: %w", u.PlayerID, err)
		}
	}
	return tx.Commit()
}

func scanPlayer(scanner rowScanner) (ladder.Player, error) {
	var (
		p               ladder.Player
		lastMatchDate   sql.NullInt64
		lastResponse    sql.NullString
		playtomicID     sql.NullString
		updatedAtMillis int64
	)
	err := scanner.Scan(
		&p.ID, &p.Name, &p.Rank, &p.Position, &p.MatchesWon, &p.MatchesLost, &p.CurrentStreak,
		&p.ChallengesDeclined, &p.Lives, &p.Password, &lastMatchDate, &lastResponse, &playtomicID, &updatedAtMillis,
	)
	if err != nil {
		return ladder.Player{}, err
	}
	p.LastMatchDate = timePtr(lastMatchDate)
	p.LastChallengeResponse = stringPtr(lastResponse)
	p.PlaytomicID = stringPtr(playtomicID)
	p.UpdatedAt = fromMillis(updatedAtMillis)
	return p, nil
}

func scanChallenge(scanner rowScanner) (ladder.Challenge, error) {
	var (
		c                      ladder.Challenge
		date, deadline, update int64
		reason                 sql.NullString
	)
	if err := scanner.Scan(&c.ID, &c.ChallengerID, &c.DefenderID, &c.Status, &date, &deadline, &reason, &update); err != nil {
		return ladder.Challenge{}, err
	}
	c.Date = fromMillis(date)
	c.ResponseDeadline = fromMillis(deadline)
	c.DeclineReason = stringPtr(reason)
	c.UpdatedAt = fromMillis(update)
	return c, nil
}

func scanMatch(scanner rowScanner) (ladder.Match, error) {
	var (
		m    ladder.Match
		date int64
	)
	if err := scanner.Scan(&m.ID, &m.ChallengerID, &m.DefenderID, &date, &m.Completed, &m.WinnerID, &m.Score); err != nil {
		return ladder.Match{}, err
	}
	m.Date = fromMillis(date)
	return m, nil
}
