// Package config loads application configuration from the environment.
package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything the application reads from its environment.
type Config struct {
	// Addr is the listen address for the HTTP server.
	Addr string

	// PublicURL is the externally visible base URL of the app.
	PublicURL string

	// DatabaseURL is the PostgreSQL connection string.
	DatabaseURL string

	// SpotifyID and SpotifySecret are the catalog provider's
	// client-credentials pair.
	SpotifyID     string
	SpotifySecret string

	// Env is "dev" or "prod".
	Env string
}

// Validation errors for required settings.
var (
	ErrMissingDatabaseURL = errors.New("DATABASE_URL is required")
	ErrMissingSpotifyCred = errors.New("SPOTIFY_ID and SPOTIFY_SECRET are required")
)

// Load reads configuration from the environment. In dev, a .env file is
// loaded first so local runs don't need exported variables.
func Load() Config {
	if os.Getenv("ENV") == "dev" {
		_ = godotenv.Load()
	}

	return Config{
		Addr:          getEnv("SERVER_ADDR", "127.0.0.1:8080"),
		PublicURL:     getEnv("PUBLIC_URL", "http://127.0.0.1:8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		SpotifyID:     os.Getenv("SPOTIFY_ID"),
		SpotifySecret: os.Getenv("SPOTIFY_SECRET"),
		Env:           getEnv("ENV", "prod"),
	}
}

// ValidateServer checks the settings the `serve` command depends on.
func (c Config) ValidateServer() error {
	if c.DatabaseURL == "" {
		return ErrMissingDatabaseURL
	}
	if c.SpotifyID == "" || c.SpotifySecret == "" {
		return ErrMissingSpotifyCred
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}
