package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken string // bot token from @BotFather
	APIBaseURL    string // scheduler backend, e.g. http://localhost:8000
	DBDSN         string // postgres pool DSN for the session store
	Environment   string // "development" or "production"
}

func Load() (*Config, error) {
	// A .env file is optional; plain environment variables win anyway.
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		APIBaseURL:    os.Getenv("API_BASE_URL"),
		DBDSN:         os.Getenv("DB_DSN"),
		Environment:   os.Getenv("ENV"),
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is required but not set")
	}
	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("API_BASE_URL is required but not set")
	}
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	return cfg, nil
}
