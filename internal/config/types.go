package config

import "time"

// Config holds all configuration for the application.
type Config struct {
	DBName      string
	Port        string
	AdminSecret string
	Slack       SlackConfig
	TenantID    string
	Turso       TursoConfig
	Inngest     InngestConfig
	ProjectID   string
	RedisURL    string
	Ladder      LadderConfig
}
type SlackConfig struct {
	Token         string
	ChannelID     string
	SigningSecret string
}
type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}
type InngestConfig struct {
	SigningKey string
	EventKey   string
	AppID      string
}

// LadderConfig holds the rule tunables and runtime intervals.
type LadderConfig struct {
	RangeBasis           string        `env:"LADDER_RANGE_BASIS" envDefault:"defender"`
	AcceptanceGrantsLife bool          `env:"LADDER_ACCEPTANCE_GRANTS_LIFE" envDefault:"false"`
	TopTierSize          int           `env:"LADDER_TOP_TIER_SIZE" envDefault:"5"`
	TopTierSpan          int           `env:"LADDER_TOP_TIER_SPAN" envDefault:"2"`
	Span                 int           `env:"LADDER_SPAN" envDefault:"3"`
	ResponseWindow       time.Duration `env:"LADDER_RESPONSE_WINDOW" envDefault:"24h"`
	SweepInterval        time.Duration `env:"LADDER_SWEEP_INTERVAL" envDefault:"60s"`
	FeedSize             int           `env:"LADDER_FEED_SIZE" envDefault:"10"`
	SessionTTL           time.Duration `env:"LADDER_SESSION_TTL" envDefault:"720h"`
	RankLookback         time.Duration `env:"LADDER_RANK_LOOKBACK" envDefault:"720h"`
}

// Enabled reports whether Slack notifications are configured.
func (s SlackConfig) Enabled() bool {
	return s.Token != "" && s.ChannelID != ""
}

func (i InngestConfig) Enabled() bool {
	return i.AppID != ""
}
