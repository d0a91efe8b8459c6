package config

import (
	"os"
	"time"
)

// Config holds application configuration
type Config struct {
	ServerPort     string
	DatabaseType   string // sqlite (default), postgres, mysql
	DatabasePath   string // sqlite file path
	DatabaseURL    string // postgres/mysql DSN
	MigrationsPath string

	// Generation service (OpenAI-compatible chat completions endpoint)
	GenerateAPIKey  string
	GenerateAPIURL  string
	GenerateModel   string
	GenerateTimeout time.Duration

	// Audio cache for synthesized speech
	AudioPath string

	// Single-user login
	JWTSecret       string
	PasswordHash    string // bcrypt hash of the app password; empty disables auth
	SessionDuration time.Duration

	// Score report email (disabled when FromEmail is empty)
	AWSRegion       string
	SESFromEmail    string
	SESFromName     string
	ScoreReportTo   string

	// Nightly explanation backfill ("HH:MM", empty disables the job)
	BackfillAt string
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	return &Config{
		ServerPort:      getEnv("PORT", "8080"),
		DatabaseType:    getEnv("DB_TYPE", "sqlite"),
		DatabasePath:    getEnv("DB_PATH", "./hanguldrill.db"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "./migrations"),
		GenerateAPIKey:  getEnv("GENERATE_API_KEY", ""),
		GenerateAPIURL:  getEnv("GENERATE_API_URL", "https://api.groq.com/openai/v1/chat/completions"),
		GenerateModel:   getEnv("GENERATE_MODEL", "meta-llama/llama-4-scout-17b-16e-instruct"),
		GenerateTimeout: 30 * time.Second,
		AudioPath:       getEnv("AUDIO_PATH", "./audio"),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		PasswordHash:    getEnv("APP_PASSWORD_HASH", ""),
		SessionDuration: 24 * time.Hour,
		AWSRegion:       getEnv("AWS_REGION", "us-east-1"),
		SESFromEmail:    getEnv("SES_FROM_EMAIL", ""),
		SESFromName:     getEnv("SES_FROM_NAME", "Hangul Drill"),
		ScoreReportTo:   getEnv("SCORE_REPORT_EMAIL", ""),
		BackfillAt:      getEnv("BACKFILL_AT", "03:30"),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
