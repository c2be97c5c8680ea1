package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application settings read from the environment
type Config struct {
	TelegramToken string
	// DBType is "sqlite" or "postgres"
	DBType      string
	DatabaseURL string
	DataDir     string
	// VocabularyFile is the xlsx or csv file with the terms
	VocabularyFile string
	Languages      []string
	// ScoreStore is "database" or "sheet"
	ScoreStore     string
	ScoresFile     string
	ReloadInterval time.Duration
	DueLimit       int
	GuestUserIDs   map[int64]bool
	// Reminders are sent between these hours, inclusive
	RemindersEnabled  bool
	ReminderStartHour int
	ReminderEndHour   int
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		DBType:         "sqlite",
		DataDir:        "data",
		VocabularyFile: "data/vocabulary.xlsx",
		Languages:      []string{"Latein", "Englisch"},
		ScoreStore:     "database",
		ScoresFile:     "data/scores.xlsx",
		ReloadInterval: time.Hour,
		DueLimit:       10000,
		GuestUserIDs:   make(map[int64]bool),

		RemindersEnabled:  true,
		ReminderStartHour: 4,
		ReminderEndHour:   18,
	}
}

// Load reads an optional .env file and then the environment
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}
	return FromEnv()
}

// FromEnv builds the configuration from environment variables over the defaults
func FromEnv() (*Config, error) {
	cfg := DefaultConfig()

	cfg.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	if v := os.Getenv("DB_TYPE"); v != "" {
		cfg.DBType = v
	}
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("VOCABULARY_FILE"); v != "" {
		cfg.VocabularyFile = v
	}
	if v := os.Getenv("VOCABULARY_LANGUAGES"); v != "" {
		cfg.Languages = splitList(v)
	}
	if v := os.Getenv("SCORE_STORE"); v != "" {
		cfg.ScoreStore = v
	}
	if v := os.Getenv("SCORES_FILE"); v != "" {
		cfg.ScoresFile = v
	}

	if v := os.Getenv("RELOAD_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid RELOAD_INTERVAL %q: %w", v, err)
		}
		cfg.ReloadInterval = d
	}

	if v := os.Getenv("DUE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid DUE_LIMIT %q", v)
		}
		cfg.DueLimit = n
	}

	for _, idStr := range splitList(os.Getenv("GUEST_USER_IDS")) {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid guest user ID %q", idStr)
		}
		cfg.GuestUserIDs[id] = true
	}

	cfg.RemindersEnabled = os.Getenv("ENABLE_SCHEDULER") != "false"
	if v := os.Getenv("NOTIFICATION_START_HOUR"); v != "" {
		h, err := parseHour(v)
		if err != nil {
			return nil, err
		}
		cfg.ReminderStartHour = h
	}
	if v := os.Getenv("NOTIFICATION_END_HOUR"); v != "" {
		h, err := parseHour(v)
		if err != nil {
			return nil, err
		}
		cfg.ReminderEndHour = h
	}

	return cfg, cfg.Validate()
}

func parseHour(s string) (int, error) {
	h, err := strconv.Atoi(s)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour %q", s)
	}
	return h, nil
}

// Validate checks option values
func (c *Config) Validate() error {
	switch c.DBType {
	case "sqlite":
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for postgres")
		}
	default:
		return fmt.Errorf("unsupported DB_TYPE %q", c.DBType)
	}

	switch c.ScoreStore {
	case "database", "sheet":
	default:
		return fmt.Errorf("unsupported SCORE_STORE %q", c.ScoreStore)
	}

	if c.ReminderStartHour > c.ReminderEndHour {
		return fmt.Errorf("reminder start hour %d is after end hour %d", c.ReminderStartHour, c.ReminderEndHour)
	}
	if c.ReloadInterval <= 0 {
		return fmt.Errorf("RELOAD_INTERVAL must be positive")
	}

	if len(c.Languages) == 0 {
		return fmt.Errorf("no vocabulary languages configured")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
