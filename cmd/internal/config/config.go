package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	ListenAddr     string
	DatabasePath   string
	JWTSecret      string
	TierPolicyFile string
	RosterRefresh  string
	RateLimitRPS   float64
	RateLimitBurst int
	LogLevel       string
}

// FromEnv reads the configuration from the process environment. Call
// godotenv.Load first to pick up a .env file.
func FromEnv() (*Config, error) {
	cfg := &Config{
		ListenAddr:     env("LISTEN_ADDR", ":6060"),
		DatabasePath:   env("DATABASE_PATH", "./database.db"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		TierPolicyFile: os.Getenv("TIER_POLICY_FILE"),
		RosterRefresh:  env("ROSTER_REFRESH", "@every 2m"),
		LogLevel:       strings.ToLower(env("LOG_LEVEL", "info")),
		RateLimitRPS:   5,
		RateLimitBurst: 10,
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	if raw := os.Getenv("RATE_LIMIT_RPS"); raw != "" {
		rps, err := strconv.ParseFloat(raw, 64)
		if err != nil || rps <= 0 {
			return nil, errors.New("RATE_LIMIT_RPS must be a positive number")
		}
		cfg.RateLimitRPS = rps
	}
	if raw := os.Getenv("RATE_LIMIT_BURST"); raw != "" {
		burst, err := strconv.Atoi(raw)
		if err != nil || burst <= 0 {
			return nil, errors.New("RATE_LIMIT_BURST must be a positive integer")
		}
		cfg.RateLimitBurst = burst
	}
	return cfg, nil
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
