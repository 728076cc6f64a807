// Package config handles loading application configuration from environment variables.
// All settings have sensible defaults for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application settings loaded from environment variables.
type Config struct {
	Port                string
	JWTSecret           string
	AdminPortalPassword string
	AdminTokenDuration  time.Duration

	// SSE connection settings. HeartbeatInterval must leave enough margin
	// below IdleTimeout that a ping always lands before the timeout fires;
	// Validate enforces interval <= 80% of timeout.
	IdleTimeout       time.Duration
	HeartbeatInterval time.Duration

	HistoryLimit    int
	CommentCapacity int
	MaxUsernameLen  int
	MaxMessageLen   int

	RateLimitPerMinute int
	CORSAllowedOrigins []string
	TrustedProxies     []string

	SentryDSN         string
	SentryEnvironment string
}

// Load reads configuration from environment variables, using defaults where not set.
func Load() *Config {
	corsOrigins := getStringSliceEnv("CORS_ALLOWED_ORIGINS")
	if corsOrigins == nil {
		corsOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}

	return &Config{
		Port:                getEnv("PORT", "8080"),
		JWTSecret:           getEnv("JWT_SECRET", "change-me-in-production"), // #nosec G101 -- intentional dev default
		AdminPortalPassword: getEnv("ADMIN_PORTAL_PASSWORD", "admin123"),     // #nosec G101 -- intentional dev default
		AdminTokenDuration:  getDurationEnv("ADMIN_TOKEN_DURATION", 12*time.Hour),
		IdleTimeout:         getDurationEnv("SSE_IDLE_TIMEOUT", 5*time.Minute),
		HeartbeatInterval:   getDurationEnv("HEARTBEAT_INTERVAL", 3*time.Minute),
		HistoryLimit:        getIntEnv("HISTORY_LIMIT", 10),
		CommentCapacity:     getIntEnv("COMMENT_CAPACITY", 500),
		MaxUsernameLen:      getIntEnv("MAX_USERNAME_LEN", 32),
		MaxMessageLen:       getIntEnv("MAX_MESSAGE_LEN", 500),
		RateLimitPerMinute:  getIntEnv("RATE_LIMIT_PER_MINUTE", 10),
		CORSAllowedOrigins:  corsOrigins,
		TrustedProxies:      getStringSliceEnv("TRUSTED_PROXIES"),
		SentryDSN:           getEnv("SENTRY_DSN", ""),
		SentryEnvironment:   getEnv("SENTRY_ENVIRONMENT", "production"),
	}
}

// Validate rejects settings that would break the streaming contract.
// In particular the heartbeat interval must stay at or below 80% of the idle
// timeout, otherwise scheduling jitter could let a connection time out
// between pings.
func (c *Config) Validate() error {
	if c.IdleTimeout <= 0 {
		return fmt.Errorf("SSE_IDLE_TIMEOUT must be positive, got %s", c.IdleTimeout)
	}
	if c.HeartbeatInterval <= 0 {
		return fmt.Errorf("HEARTBEAT_INTERVAL must be positive, got %s", c.HeartbeatInterval)
	}
	if float64(c.HeartbeatInterval) > 0.8*float64(c.IdleTimeout) {
		return fmt.Errorf("HEARTBEAT_INTERVAL %s exceeds 80%% of SSE_IDLE_TIMEOUT %s",
			c.HeartbeatInterval, c.IdleTimeout)
	}
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("HISTORY_LIMIT must be positive, got %d", c.HistoryLimit)
	}
	if c.CommentCapacity <= 0 {
		return fmt.Errorf("COMMENT_CAPACITY must be positive, got %d", c.CommentCapacity)
	}
	if c.MaxUsernameLen <= 0 || c.MaxMessageLen <= 0 {
		return fmt.Errorf("field length limits must be positive")
	}
	return nil
}

func getStringSliceEnv(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var result []string
	for _, s := range strings.Split(value, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			result = append(result, s)
		}
	}
	return result
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
