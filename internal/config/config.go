package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/mauv0809/club-ladder/internal/ladder"
)

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	// A helper function to get a required env var. It will fail if the env var is not set.
	getEnv := func(key string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		log.Fatalf("Error: Required environment variable %s is not set.", key)
		return "" // This line is never reached
	}

	ladderCfg, err := ParseLadder()
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	cfg := Config{
		DBName:      getEnv("DB_NAME"),
		Port:        getEnv("PORT"),
		AdminSecret: getEnvOr("ADMIN_SECRET", "ADMIN"),
		Slack: SlackConfig{
			Token:         os.Getenv("SLACK_BOT_TOKEN"),
			ChannelID:     os.Getenv("SLACK_CHANNEL_ID"),
			SigningSecret: os.Getenv("SLACK_SIGNING_SECRET"),
		},
		TenantID: os.Getenv("TENANT_ID"),
		Turso: TursoConfig{
			PrimaryURL: os.Getenv("TURSO_PRIMARY_URL"),
			AuthToken:  os.Getenv("TURSO_AUTH_TOKEN"),
		},
		Inngest: InngestConfig{
			AppID:      os.Getenv("INNGEST_APP_ID"),
			SigningKey: os.Getenv("INNGEST_SIGNING_KEY"),
			EventKey:   os.Getenv("INNGEST_EVENT_KEY"),
		},
		ProjectID: os.Getenv("GCP_PROJECT"),
		RedisURL:  os.Getenv("REDIS_URL"),
		Ladder:    ladderCfg,
	}
	return cfg
}

func getEnvOr(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

// ParseLadder reads the LADDER_* variables and checks the resulting rules.
func ParseLadder() (LadderConfig, error) {
	cfg, err := env.ParseAs[LadderConfig]()
	if err != nil {
		return LadderConfig{}, fmt.Errorf("parse ladder env: %w", err)
	}
	if err := cfg.Rules().Validate(); err != nil {
		return LadderConfig{}, fmt.Errorf("invalid ladder rules: %w", err)
	}
	switch {
	case cfg.SweepInterval <= 0:
		return LadderConfig{}, fmt.Errorf("sweep interval must be positive, got %s", cfg.SweepInterval)
	case cfg.FeedSize < 0:
		return LadderConfig{}, fmt.Errorf("feed size must not be negative, got %d", cfg.FeedSize)
	case cfg.SessionTTL < 0:
		return LadderConfig{}, fmt.Errorf("session ttl must not be negative, got %s", cfg.SessionTTL)
	}
	return cfg, nil
}

func (l LadderConfig) Rules() ladder.Rules {
	return ladder.Rules{
		RangeBasis:           ladder.RangeBasis(l.RangeBasis),
		AcceptanceGrantsLife: l.AcceptanceGrantsLife,
		TopTierSize:          l.TopTierSize,
		TopTierSpan:          l.TopTierSpan,
		Span:                 l.Span,
		ResponseWindow:       l.ResponseWindow,
	}
}
