package config

import (
	"encoding/json"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	ServerAddress string   `json:"serverAddress"`
	DatabasePath  string   `json:"databasePath"`
	DatabaseURL   string   `json:"databaseUrl"`
	CatalogPath   string   `json:"catalogPath"`
	Sessions      Sessions `json:"sessions"`
	Codec         Codec    `json:"codec"`
}

// Sessions configuration for expired-session cleanup
type Sessions struct {
	CleanupIntervalHours int `json:"cleanupIntervalHours"`
}

// Codec configuration for the image compression pipeline
type Codec struct {
	MaxDimension int `json:"maxDimension"`
	Quality      int `json:"quality"`
}

// UsePostgres returns true if PostgreSQL should be used
func (c *Config) UsePostgres() bool {
	return c.DatabaseURL != ""
}

// CleanupInterval returns the session cleanup interval as a duration
func (c *Config) CleanupInterval() time.Duration {
	return time.Duration(c.Sessions.CleanupIntervalHours) * time.Hour
}

// Default configuration
func defaultConfig() *Config {
	return &Config{
		ServerAddress: ":5000",
		DatabasePath:  "ornithedex.db",
		CatalogPath:   "birds.json",
		Sessions: Sessions{
			CleanupIntervalHours: 6,
		},
		Codec: Codec{
			MaxDimension: 800,
			Quality:      85,
		},
	}
}

// Load loads configuration from file or environment
func Load() (*Config, error) {
	cfg := defaultConfig()

	// Try to load from config file
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.json"
	}

	if data, err := os.ReadFile(configPath); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	// Override from environment variables
	if addr := os.Getenv("SERVER_ADDRESS"); addr != "" {
		cfg.ServerAddress = addr
	}
	if dbPath := os.Getenv("DATABASE_PATH"); dbPath != "" {
		cfg.DatabasePath = dbPath
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.DatabaseURL = dbURL
	}
	if catalog := os.Getenv("CATALOG_PATH"); catalog != "" {
		cfg.CatalogPath = catalog
	}
	if interval := os.Getenv("SESSION_CLEANUP_INTERVAL_HOURS"); interval != "" {
		if hours, err := strconv.Atoi(interval); err == nil && hours > 0 {
			cfg.Sessions.CleanupIntervalHours = hours
		}
	}
	if dim := os.Getenv("CODEC_MAX_DIMENSION"); dim != "" {
		if v, err := strconv.Atoi(dim); err == nil && v > 0 {
			cfg.Codec.MaxDimension = v
		}
	}
	if quality := os.Getenv("CODEC_QUALITY"); quality != "" {
		if v, err := strconv.Atoi(quality); err == nil && v > 0 && v <= 100 {
			cfg.Codec.Quality = v
		}
	}

	return cfg, nil
}
