// Package config loads station configuration from the environment, with an
// optional .env file for development.
package config

import (
	"os"

	"github.com/apex/log"
	"github.com/joho/godotenv"
)

// Config holds everything the station service needs at startup.
type Config struct {
	// Port the HTTP API listens on.
	Port string

	// DatabaseURL is the station-local PostgreSQL connection string.
	DatabaseURL string

	// RemoteBaseURL is the CRM store's OData root, e.g.
	// https://org.crm.dynamics.com/api/data/v9.2
	RemoteBaseURL string

	// OAuth2 client-credentials settings for the remote store. Leaving the
	// client id/secret empty runs the station without remote access; every
	// save then stages offline until credentials arrive.
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scope        string
}

// Load reads the environment, after loading a .env file when present.
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		log.Info("loaded configuration from .env")
	}

	return &Config{
		Port:          getenv("PORT", "8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RemoteBaseURL: os.Getenv("REMOTE_BASE_URL"),
		TokenURL:      os.Getenv("REMOTE_TOKEN_URL"),
		ClientID:      os.Getenv("REMOTE_CLIENT_ID"),
		ClientSecret:  os.Getenv("REMOTE_CLIENT_SECRET"),
		Scope:         getenv("REMOTE_SCOPE", ".default"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
