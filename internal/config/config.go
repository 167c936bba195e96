// Package config reads the server configuration from the environment.
// A .env file in the working directory is loaded first when present.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

// Storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds everything the server needs at startup.
type Config struct {
	Port int

	DBDriver    string
	DBPath      string
	DatabaseURL string

	StaticPath string
	ContentDir string

	// TripID overrides the trip ID of the content when set.
	TripID           string
	JWTSecret        string
	TokenTTL         time.Duration
	TripPasscodeHash string

	CORSOrigins []string

	ShutdownTimeout time.Duration
}

// Load reads the configuration and validates it.
func Load() (*Config, error) {
	return load(os.Getenv)
}

// FromMap builds a configuration from explicit values, for tests.
func FromMap(env map[string]string) (*Config, error) {
	return load(func(k string) string { return env[k] })
}

func load(lookup func(string) string) (*Config, error) {
	get := func(key, fallback string) string {
		if v := lookup(key); v != "" {
			return v
		}
		return fallback
	}

	var errs []error
	port, err := strconv.Atoi(get("PORT", "8080"))
	if err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Errorf("PORT: invalid port %q", get("PORT", "")))
	}
	ttl, err := time.ParseDuration(get("TOKEN_TTL", "2160h"))
	if err != nil || ttl <= 0 {
		errs = append(errs, fmt.Errorf("TOKEN_TTL: invalid duration %q", get("TOKEN_TTL", "")))
	}
	shutdown, err := time.ParseDuration(get("SHUTDOWN_TIMEOUT", "10s"))
	if err != nil || shutdown <= 0 {
		errs = append(errs, fmt.Errorf("SHUTDOWN_TIMEOUT: invalid duration %q", get("SHUTDOWN_TIMEOUT", "")))
	}

	cfg := &Config{
		Port:             port,
		DBDriver:         strings.ToLower(get("DB_DRIVER", DriverSQLite)),
		DBPath:           get("DB_PATH", "./data/trip.db"),
		DatabaseURL:      get("DATABASE_URL", ""),
		StaticPath:       get("STATIC_PATH", ""),
		ContentDir:       get("CONTENT_DIR", ""),
		TripID:           get("TRIP_ID", ""),
		JWTSecret:        get("JWT_SECRET", ""),
		TokenTTL:         ttl,
		TripPasscodeHash: get("TRIP_PASSCODE_HASH", ""),
		CORSOrigins:      splitList(get("CORS_ORIGINS", "*")),
		ShutdownTimeout:  shutdown,
	}

	switch cfg.DBDriver {
	case DriverSQLite:
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required with DB_DRIVER=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER: unknown driver %q", cfg.DBDriver))
	}
	if len(cfg.JWTSecret) < 16 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 16 characters"))
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
