package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

const (
	defaultMigrationsDir = "./migrations"
	defaultCourtCount    = 2
	defaultSaveTimeout   = 5 * time.Second
	defaultTimezone      = "Asia/Seoul"
)

// Load reads configuration from environment variables and .env file.
// A missing or invalid variable is fatal.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	cfg, err := parse(os.LookupEnv)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	return cfg
}

func parse(lookup func(string) (string, bool)) (Config, error) {
	var missing []string
	// A helper function to get a required env var.
	getEnv := func(key string) string {
		if value, ok := lookup(key); ok && value != "" {
			return value
		}
		missing = append(missing, key)
		return ""
	}
	getOptional := func(key, fallback string) string {
		if value, ok := lookup(key); ok && value != "" {
			return value
		}
		return fallback
	}

	cfg := Config{
		DBName:        getEnv("DB_NAME"),
		Port:          getEnv("PORT"),
		MigrationsDir: getOptional("MIGRATIONS_DIR", defaultMigrationsDir),
		LogLevel:      getOptional("LOG_LEVEL", "info"),
		Slack: SlackConfig{
			Token:         getOptional("SLACK_BOT_TOKEN", ""),
			ChannelID:     getOptional("SLACK_CHANNEL_ID", ""),
			SigningSecret: getOptional("SLACK_SIGNING_SECRET", ""),
		},
		Turso: TursoConfig{
			PrimaryURL: getOptional("TURSO_PRIMARY_URL", ""),
			AuthToken:  getOptional("TURSO_AUTH_TOKEN", ""),
		},
		ProjectID: getOptional("GCP_PROJECT", ""),
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables %v are not set", missing)
	}

	courts, err := strconv.Atoi(getOptional("DEFAULT_COURT_COUNT", strconv.Itoa(defaultCourtCount)))
	if err != nil || courts < 1 {
		return Config{}, fmt.Errorf("DEFAULT_COURT_COUNT must be a positive integer")
	}
	saveTimeout, err := time.ParseDuration(getOptional("SAVE_TIMEOUT", defaultSaveTimeout.String()))
	if err != nil || saveTimeout <= 0 {
		return Config{}, fmt.Errorf("SAVE_TIMEOUT must be a positive duration")
	}
	tz := getOptional("TIMEZONE", defaultTimezone)
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return Config{}, fmt.Errorf("invalid TIMEZONE %q: %w", tz, err)
	}

	cfg.Draw = DrawConfig{
		DefaultCourtCount: courts,
		SaveTimeout:       saveTimeout,
		Location:          loc,
	}
	return cfg, nil
}
