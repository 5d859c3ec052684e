// Package config loads trackmap settings from a TOML file, a .env file and
// environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Catalog configures access to the music catalog API.
type Catalog struct {
	ClientID               string  `toml:"client_id"`
	ClientSecret           string  `toml:"client_secret"`
	BaseURL                string  `toml:"base_url" validate:"required,url"`
	TokenURL               string  `toml:"token_url" validate:"required,url"`
	PageSize               int     `toml:"page_size" validate:"min=1,max=50"`
	MaxItems               int     `toml:"max_items" validate:"min=1"`
	TokenExpirySkewSeconds int     `toml:"token_expiry_skew_seconds" validate:"min=0"`
	RequestsPerSecond      float64 `toml:"requests_per_second" validate:"gt=0"`
	MaxRetries             int     `toml:"max_retries" validate:"min=1"`
	RetryBackoffMs         int     `toml:"retry_backoff_ms" validate:"min=1"`
	TimeoutSeconds         int     `toml:"timeout_seconds" validate:"min=1"`
}

// Scoring holds the match score constants.
type Scoring struct {
	Scale           float64 `toml:"scale" validate:"gt=0"`
	ThePrefixCredit float64 `toml:"the_prefix_credit" validate:"gt=0,lte=1"`
	PartialCredit   float64 `toml:"partial_credit" validate:"gt=0,lte=1"`
}

// Storage locates the database and the run lock.
type Storage struct {
	Path     string `toml:"path" validate:"required"`
	LockPath string `toml:"lock_path" validate:"required"`
}

// Playlist configures the station playlist feed.
type Playlist struct {
	URL            string `toml:"url" validate:"required,url"`
	TimeoutSeconds int    `toml:"timeout_seconds" validate:"min=1"`
}

// API configures the read-only HTTP API.
type API struct {
	Bind               string   `toml:"bind" validate:"required,hostname_port"`
	HistoryWindowHours int      `toml:"history_window_hours" validate:"min=1,max=24"`
	AllowedOrigins     []string `toml:"allowed_origins"`
}

// Matching configures matching runs.
type Matching struct {
	Workers int `toml:"workers" validate:"min=1,max=16"`
}

// Logging configures log output.
type Logging struct {
	Level      string `toml:"level" validate:"oneof=trace debug info warn error"`
	Format     string `toml:"format" validate:"oneof=console json"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb" validate:"min=1"`
	MaxBackups int    `toml:"max_backups" validate:"min=0"`
}

// Config is the complete trackmap configuration.
type Config struct {
	Catalog  Catalog  `toml:"catalog"`
	Scoring  Scoring  `toml:"scoring"`
	Storage  Storage  `toml:"storage"`
	Playlist Playlist `toml:"playlist"`
	API      API      `toml:"api"`
	Matching Matching `toml:"matching"`
	Logging  Logging  `toml:"logging"`
}

// Environment variables that override file values.
const (
	EnvClientID     = "SPOTIFY_CLIENT_ID"
	EnvClientSecret = "SPOTIFY_CLIENT_SECRET"
	EnvDBPath       = "TRACKMAP_DB_PATH"
	EnvLogLevel     = "TRACKMAP_LOG_LEVEL"
)

// Load reads the TOML file at path (defaults are used when it does not
// exist), applies .env and environment overrides and validates the result.
// It returns the resolved path and whether the file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, "", false, fmt.Errorf("load .env: %w", err)
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvClientID)); v != "" {
		c.Catalog.ClientID = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvClientSecret)); v != "" {
		c.Catalog.ClientSecret = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvDBPath)); v != "" {
		c.Storage.Path = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		path = "trackmap.toml"
	}
	expanded, err := expandPath(path)
	if err != nil {
		return "", false, err
	}
	info, err := os.Stat(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("config path %q is a directory", expanded)
	}
	return expanded, true, nil
}

func expandPath(pathValue string) (string, error) {
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}
