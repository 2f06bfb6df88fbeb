package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the resolved runtime configuration for the service.
// It merges file defaults and environment overrides to support both local and
// deployed runs.
type Config struct {
	ServiceID string

	HTTPPort int
	GRPCPort int

	DatabaseURL string
	RedisURL    string

	SessionTTL      time.Duration
	LockoutDuration time.Duration
	FailedThreshold int

	CutoverHour        int
	ActivityWindowDays int
	MaxPageSize        int

	Argon2Time        int
	Argon2MemoryKiB   int
	Argon2Parallelism int

	MaxDBConns int32
}

// configFile mirrors the YAML schema used by configs/default.yaml.
// It is intentionally separate from Config so runtime-only fields stay
// internal.
type configFile struct {
	Service struct {
		ID       string `yaml:"id"`
		HTTPPort int    `yaml:"http_port"`
		GRPCPort int    `yaml:"grpc_port"`
	} `yaml:"service"`
	Dependencies struct {
		PostgresURL string `yaml:"postgres_url"`
		RedisURL    string `yaml:"redis_url"`
	} `yaml:"dependencies"`
	Ledger struct {
		// Pointer so an explicit midnight (0) is distinguishable from absent.
		CutoverHour        *int `yaml:"cutover_hour"`
		ActivityWindowDays int  `yaml:"activity_window_days"`
	} `yaml:"ledger"`
}

// LoadConfig resolves configuration in priority order: defaults -> file -> env.
// This order keeps local bootstrap simple while allowing environment-specific
// overrides.
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ServiceID:          "rollcall-service",
		HTTPPort:           8080,
		GRPCPort:           9090,
		SessionTTL:         14 * 24 * time.Hour,
		LockoutDuration:    15 * time.Minute,
		FailedThreshold:    5,
		CutoverHour:        22,
		ActivityWindowDays: 30,
		MaxPageSize:        100,
		Argon2Time:         1,
		Argon2MemoryKiB:    64 * 1024,
		Argon2Parallelism:  4,
		MaxDBConns:         20,
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		if f.Service.ID != "" {
			cfg.ServiceID = f.Service.ID
		}
		if f.Service.HTTPPort > 0 {
			cfg.HTTPPort = f.Service.HTTPPort
		}
		if f.Service.GRPCPort > 0 {
			cfg.GRPCPort = f.Service.GRPCPort
		}
		if f.Dependencies.PostgresURL != "" {
			cfg.DatabaseURL = f.Dependencies.PostgresURL
		}
		if f.Dependencies.RedisURL != "" {
			cfg.RedisURL = f.Dependencies.RedisURL
		}
		if f.Ledger.CutoverHour != nil {
			cfg.CutoverHour = *f.Ledger.CutoverHour
		}
		if f.Ledger.ActivityWindowDays > 0 {
			cfg.ActivityWindowDays = f.Ledger.ActivityWindowDays
		}
	}

	cfg.DatabaseURL = envOrDefault("DB_URL", envOrDefault("POSTGRES_URL", cfg.DatabaseURL))
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)

	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.GRPCPort = envInt("GRPC_PORT", cfg.GRPCPort)
	cfg.FailedThreshold = envInt("FAILED_LOGIN_THRESHOLD", cfg.FailedThreshold)
	cfg.CutoverHour = envInt("LEDGER_CUTOVER_HOUR", cfg.CutoverHour)
	cfg.ActivityWindowDays = envInt("ACTIVITY_WINDOW_DAYS", cfg.ActivityWindowDays)
	cfg.MaxPageSize = envInt("MAX_PAGE_SIZE", cfg.MaxPageSize)
	cfg.Argon2Time = envInt("ARGON2_TIME", cfg.Argon2Time)
	cfg.Argon2MemoryKiB = envInt("ARGON2_MEMORY_KIB", cfg.Argon2MemoryKiB)
	cfg.Argon2Parallelism = envInt("ARGON2_PARALLELISM", cfg.Argon2Parallelism)
	cfg.MaxDBConns = int32(envInt("DB_MAX_CONNS", int(cfg.MaxDBConns)))

	cfg.SessionTTL = time.Duration(envInt("SESSION_EXPIRY_DAYS", int(cfg.SessionTTL.Hours()/24))) * 24 * time.Hour
	cfg.LockoutDuration = time.Duration(envInt("ACCOUNT_LOCKOUT_MINUTES", int(cfg.LockoutDuration.Minutes()))) * time.Minute

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("missing DB_URL/POSTGRES_URL")
	}
	if cfg.RedisURL == "" {
		return Config{}, fmt.Errorf("missing REDIS_URL")
	}
	if cfg.CutoverHour < 0 || cfg.CutoverHour > 23 {
		return Config{}, fmt.Errorf("cutover hour must be within 0-23")
	}

	return cfg, nil
}

// envOrDefault returns an env var when present, otherwise the provided
// fallback.
func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

// envInt parses integer env vars with safe fallback on empty/invalid values.
func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
