// Package config loads runtime configuration from the environment.
//
// A .env file in the working directory is read first when present; real
// environment variables always win over it.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App       AppConfig
	Storage   StorageConfig
	Logger    LoggerConfig
	Auth      AuthConfig
	Bootstrap BootstrapConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Port int
}

// StorageConfig locates the snapshot database.
type StorageConfig struct {
	DBPath string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret       string
	TokenTTLMinutes int
	BcryptCost      int
}

// BootstrapConfig is the first career staff account, created only when the
// store has no staff at all.
type BootstrapConfig struct {
	StaffID       string
	StaffPassword string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil || port <= 0 || port > 65535 {
		return nil, fmt.Errorf("invalid PORT %q", os.Getenv("PORT"))
	}

	cfg := &Config{
		App: AppConfig{
			Port: port,
		},
		Storage: StorageConfig{
			DBPath: getEnv("DB_PATH", "data/placement.db"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:       os.Getenv("JWT_SECRET"),
			TokenTTLMinutes: getEnvAsInt("TOKEN_TTL_MINUTES", 60),
			BcryptCost:      getEnvAsInt("BCRYPT_COST", 12),
		},
		Bootstrap: BootstrapConfig{
			StaffID:       getEnv("BOOTSTRAP_STAFF_ID", "admin"),
			StaffPassword: os.Getenv("BOOTSTRAP_STAFF_PASSWORD"),
		},
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if _, err := parseLevel(cfg.Logger.Level); err != nil {
		return nil, err
	}

	return cfg, nil
}

// TokenTTL returns the configured session lifetime.
func (a AuthConfig) TokenTTL() time.Duration {
	if a.TokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(a.TokenTTLMinutes) * time.Minute
}

// SlogLevel maps Level to a slog.Level. Load has already validated it, so
// an unknown value falls back to info.
func (l LoggerConfig) SlogLevel() slog.Level {
	level, err := parseLevel(l.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q", s)
	}
	return level, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
