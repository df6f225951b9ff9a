package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Bot          BotConfig          `yaml:"bot"`
	Database     DatabaseConfig     `yaml:"database"`
	Study        StudyConfig        `yaml:"study"`
	Conversation ConversationConfig `yaml:"conversation"`
	Log          LogConfig          `yaml:"log"`
}

// BotConfig holds Telegram transport settings.
type BotConfig struct {
	Token       string        `yaml:"token"        env:"BOT_TOKEN"        env-required:"true"`
	PollTimeout time.Duration `yaml:"poll_timeout" env:"BOT_POLL_TIMEOUT" env-default:"30s"`
	Debug       bool          `yaml:"debug"        env:"BOT_DEBUG"        env-default:"false"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"2"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	MigrationsDir   string        `yaml:"migrations_dir"     env:"DATABASE_MIGRATIONS_DIR"     env-default:"./migrations"`
}

// StudyConfig holds scheduler parameters.
type StudyConfig struct {
	// ChoicesPerRound is how many cards are drawn per quiz round; one is
	// the focus card, the rest provide distractor answers.
	ChoicesPerRound int `yaml:"choices_per_round" env:"STUDY_CHOICES_PER_ROUND" env-default:"4"`
	// MinDeckSize is the card count a user must exceed before studying.
	MinDeckSize int `yaml:"min_deck_size" env:"STUDY_MIN_DECK_SIZE" env-default:"4"`
}

// ConversationConfig holds the in-memory conversation store policy.
type ConversationConfig struct {
	TTL           time.Duration `yaml:"ttl"            env:"CONVERSATION_TTL"            env-default:"30m"`
	SweepInterval time.Duration `yaml:"sweep_interval" env:"CONVERSATION_SWEEP_INTERVAL" env-default:"5m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
