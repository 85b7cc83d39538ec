package config

import "time"

// Config holds all configuration for the application.
type Config struct {
	DBName        string
	MigrationsDir string
	Port          string
	LogLevel      string
	Slack         SlackConfig
	Turso         TursoConfig
	// ProjectID is the Google Cloud project for Pub/Sub. Empty means in-process delivery.
	ProjectID string
	Draw      DrawConfig
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
type DrawConfig struct {
	DefaultCourtCount int
	SaveTimeout       time.Duration
	Location          *time.Location
}
