// Package config loads process settings from the environment. A .env file in
// the working directory is read first when present.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Panel configures the admin panel server.
type Panel struct {
	Addr        string        `env:"PANEL_ADDR"         envDefault:":8080"`
	APIBaseURL  string        `env:"PANEL_API_BASE_URL" envDefault:"http://localhost:8000"`
	APITimeout  time.Duration `env:"PANEL_API_TIMEOUT"  envDefault:"15s"`
	LogLevel    string        `env:"PANEL_LOG_LEVEL"    envDefault:"info"`
	CORSOrigins []string      `env:"PANEL_CORS_ORIGINS" envSeparator:","`
	SessionTTL  time.Duration `env:"PANEL_SESSION_TTL"  envDefault:"12h"`
}

// DevAPI configures the local attractions API.
type DevAPI struct {
	Addr        string   `env:"DEVAPI_ADDR"         envDefault:":8000"`
	DBPath      string   `env:"DEVAPI_DB_PATH"      envDefault:"./attractions.db"`
	UploadDir   string   `env:"DEVAPI_UPLOAD_DIR"   envDefault:"./uploads/attractions"`
	LogLevel    string   `env:"DEVAPI_LOG_LEVEL"    envDefault:"info"`
	CORSOrigins []string `env:"DEVAPI_CORS_ORIGINS" envSeparator:","`
}

// LoadDotEnv reads files (default ".env") into the environment without
// overriding variables that are already set. Missing files are not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadPanel reads the panel configuration.
func LoadPanel() (Panel, error) {
	var cfg Panel
	err := ParseEnv(&cfg)
	return cfg, err
}

// LoadDevAPI reads the dev API configuration.
func LoadDevAPI() (DevAPI, error) {
	var cfg DevAPI
	err := ParseEnv(&cfg)
	return cfg, err
}
