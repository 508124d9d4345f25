package main

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/mauv0809/club-ladder/internal/club"
	"github.com/mauv0809/club-ladder/internal/database"
	"github.com/mauv0809/club-ladder/internal/ladder"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := map[string]string{
		"TURSO_PRIMARY_URL": os.Getenv("TURSO_PRIMARY_URL"),
		"TURSO_AUTH_TOKEN":  os.Getenv("TURSO_AUTH_TOKEN"),
		"DB_NAME":           os.Getenv("DB_NAME"),
	}
	if config["TURSO_PRIMARY_URL"] == "" && config["DB_NAME"] == "" {
		log.Fatal("Error: set DB_NAME for a local database or TURSO_PRIMARY_URL for Turso.")
	}
	return config
}

type seedPlayer struct {
	name string
	rank float64
	pin  string
}

// startingLadder is the opening order of the season.
var startingLadder = []seedPlayer{
	{"Marius", 4.0, "CAKE"},
	{"Hank", 4.0, "BLUE"},
	{"Simon", 4.0, "DUCK"},
	{"Fabian", 4.0, "JAZZ"},
	{"Ben", 4.5, "MINT"},
	{"Elie", 4.0, "KITE"},
	{"Maximilien", 4.5, "FROG"},
	{"Mathias", 4.0, "LIME"},
	{"Pickles", 4.5, "ROCK"},
	{"Benjamin", 4.5, "WOLF"},
	{"Jeffrey", 4.5, "SALT"},
	{"Massih", 4.5, "NEST"},
	{"Chris", 4.0, "MOON"},
	{"Igor M.", 4.5, "PEAK"},
	{"Bas", 4.0, "FISH"},
}

const startingLives = 2

func roster(now time.Time, newID func() string) []ladder.Player {
	players := make([]ladder.Player, 0, len(startingLadder))
	for i, p := range startingLadder {
		players = append(players, ladder.Player{
			ID:        newID(),
			Name:      p.name,
			Rank:      p.rank,
			Position:  i + 1,
			Lives:     startingLives,
			Password:  p.pin,
			UpdatedAt: now,
		})
	}
	return players
}

func main() {
	log.Info("Starting ladder seeder...")
	cfg := loadConfig()

	db, teardown, err := database.InitDB(cfg["DB_NAME"], cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"])
	if err != nil {
		log.Fatalf("Failed to open database: %s", err)
	}
	defer teardown()

	players := roster(time.Now().UTC(), uuid.NewString)
	if err := ladder.NewState(players, nil, nil).ValidatePositions(); err != nil {
		log.Fatalf("Starting ladder is inconsistent: %s", err)
	}

	startTime := time.Now()
	// Seeding starts a new season: challenges and matches are cleared.
	if err := club.New(db).SeedPlayers(context.Background(), players); err != nil {
		log.Fatalf("Failed to seed players: %s", err)
	}
	log.Info("Successfully seeded the ladder.", "players", len(players), "duration", time.Since(startTime))
}
