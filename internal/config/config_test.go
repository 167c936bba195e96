package config

import (
	"strings"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg, err := FromMap(map[string]string{"JWT_SECRET": "0123456789abcdef"})
	if err != nil {
		t.Fatalf("FromMap failed: %v", err)
	}
	if cfg.Port != 8080 || cfg.Addr() != ":8080" {
		t.Errorf("Port = %d", cfg.Port)
	}
	if cfg.DBDriver != DriverSQLite || cfg.DBPath != "./data/trip.db" {
		t.Errorf("storage = %s %s", cfg.DBDriver, cfg.DBPath)
	}
	if cfg.TokenTTL != 90*24*time.Hour {
		t.Errorf("TokenTTL = %v", cfg.TokenTTL)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
}

func TestInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing secret", map[string]string{}, "JWT_SECRET"},
		{"bad port", map[string]string{"JWT_SECRET": "0123456789abcdef", "PORT": "http"}, "PORT"},
		{"bad ttl", map[string]string{"JWT_SECRET": "0123456789abcdef", "TOKEN_TTL": "forever"}, "TOKEN_TTL"},
		{"postgres without url", map[string]string{"JWT_SECRET": "0123456789abcdef", "DB_DRIVER": "postgres"}, "DATABASE_URL"},
		{"unknown driver", map[string]string{"JWT_SECRET": "0123456789abcdef", "DB_DRIVER": "mysql"}, "DB_DRIVER"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromMap(tt.env)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want mention of %s", err, tt.want)
			}
		})
	}
}

func TestCORSOriginsList(t *testing.T) {
	cfg, err := FromMap(map[string]string{
		"JWT_SECRET":   "0123456789abcdef",
		"CORS_ORIGINS": "https://a.example, https://b.example,",
	})
	if err != nil {
		t.Fatalf("FromMap failed: %v", err)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
}
