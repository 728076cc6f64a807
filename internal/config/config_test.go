package config

import (
	"testing"
	"time"
)

func TestLoad_DefaultsAreValid(t *testing.T) {
	cfg := Load()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() on defaults = %v", err)
	}

	// The heartbeat must always land before the idle timeout can fire.
	if cfg.HeartbeatInterval >= cfg.IdleTimeout {
		t.Errorf("HeartbeatInterval %s >= IdleTimeout %s", cfg.HeartbeatInterval, cfg.IdleTimeout)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("HISTORY_LIMIT", "25")
	t.Setenv("SSE_IDLE_TIMEOUT", "10m")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 192.168.1.1")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://comments.example.com, https://staging.example.com")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("Port = %s, want 9090", cfg.Port)
	}
	if cfg.HistoryLimit != 25 {
		t.Errorf("HistoryLimit = %d, want 25", cfg.HistoryLimit)
	}
	if cfg.IdleTimeout != 10*time.Minute {
		t.Errorf("IdleTimeout = %s, want 10m", cfg.IdleTimeout)
	}
	if len(cfg.TrustedProxies) != 2 {
		t.Errorf("TrustedProxies = %v, want 2 entries", cfg.TrustedProxies)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[0] != "https://comments.example.com" {
		t.Errorf("CORSAllowedOrigins = %v, want the two configured origins", cfg.CORSAllowedOrigins)
	}
}

func TestLoad_CORSOriginsDefaultToLocalhost(t *testing.T) {
	cfg := Load()

	want := []string{"http://localhost:5173", "http://localhost:3000"}
	if len(cfg.CORSAllowedOrigins) != len(want) {
		t.Fatalf("CORSAllowedOrigins = %v, want %v", cfg.CORSAllowedOrigins, want)
	}
	for i, origin := range want {
		if cfg.CORSAllowedOrigins[i] != origin {
			t.Errorf("CORSAllowedOrigins[%d] = %s, want %s", i, cfg.CORSAllowedOrigins[i], origin)
		}
	}
}

func TestLoad_InvalidEnvFallsBackToDefaults(t *testing.T) {
	t.Setenv("HISTORY_LIMIT", "not-a-number")
	t.Setenv("SSE_IDLE_TIMEOUT", "soon")

	cfg := Load()

	if cfg.HistoryLimit != 10 {
		t.Errorf("HistoryLimit = %d, want default 10", cfg.HistoryLimit)
	}
	if cfg.IdleTimeout != 5*time.Minute {
		t.Errorf("IdleTimeout = %s, want default 5m", cfg.IdleTimeout)
	}
}

func TestValidate_HeartbeatMargin(t *testing.T) {
	tests := []struct {
		name      string
		heartbeat time.Duration
		idle      time.Duration
		wantErr   bool
	}{
		{"comfortable margin", 3 * time.Minute, 5 * time.Minute, false},
		{"exactly at 80 percent", 4 * time.Minute, 5 * time.Minute, false},
		{"too close to timeout", 270 * time.Second, 5 * time.Minute, true},
		{"interval exceeds timeout", 6 * time.Minute, 5 * time.Minute, true},
		{"zero interval", 0, 5 * time.Minute, true},
		{"zero timeout", 3 * time.Minute, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load()
			cfg.HeartbeatInterval = tt.heartbeat
			cfg.IdleTimeout = tt.idle

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_RejectsBadLimits(t *testing.T) {
	cfg := Load()
	cfg.HistoryLimit = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should reject zero HISTORY_LIMIT")
	}

	cfg = Load()
	cfg.CommentCapacity = -1
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should reject negative COMMENT_CAPACITY")
	}

	cfg = Load()
	cfg.MaxMessageLen = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should reject zero MAX_MESSAGE_LEN")
	}
}
