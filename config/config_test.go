package config

import (
	"os"
	"testing"
	"time"
)

// unsetForTest removes keys for the duration of the test. t.Setenv records the
// previous value so it is restored on cleanup.
func unsetForTest(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("failed to unset %s: %v", key, err)
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	unsetForTest(t, "JWT_EXPIRY", "APP_TIMEZONE", "DB_DRIVER", "GEMINI_MAX_OUTPUT_TOKENS", "CURRENCY_SYMBOL")

	cfg := Load()

	if cfg.JWT.Expiry != 7*24*time.Hour {
		t.Errorf("expected 7d token expiry, got %s", cfg.JWT.Expiry)
	}
	if cfg.Aggregation.Timezone != "UTC" {
		t.Errorf("expected UTC timezone, got %q", cfg.Aggregation.Timezone)
	}
	if cfg.Database.Driver != "postgres" {
		t.Errorf("expected postgres driver, got %q", cfg.Database.Driver)
	}
	if cfg.Gemini.MaxOutputTokens != 200 {
		t.Errorf("expected 200 max output tokens, got %d", cfg.Gemini.MaxOutputTokens)
	}
	if cfg.Aggregation.CurrencySymbol != "₹" {
		t.Errorf("expected rupee symbol, got %q", cfg.Aggregation.CurrencySymbol)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("REDIS_ENABLED", "false")
	t.Setenv("GEMINI_TEMPERATURE", "0.25")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")
	t.Setenv("SERVER_READ_TIMEOUT", "not-a-duration")

	cfg := Load()

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Redis.Enabled {
		t.Error("expected redis to be disabled")
	}
	if cfg.Gemini.Temperature != 0.25 {
		t.Errorf("expected temperature 0.25, got %v", cfg.Gemini.Temperature)
	}
	if cfg.RateLimit.Window != 30*time.Second {
		t.Errorf("expected 30s window, got %s", cfg.RateLimit.Window)
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("expected fallback read timeout, got %s", cfg.Server.ReadTimeout)
	}
}

func TestAggregationConfig_Location(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantName string
		wantErr  bool
	}{
		{name: "empty falls back to UTC", timezone: "", wantName: "UTC"},
		{name: "utc", timezone: "UTC", wantName: "UTC"},
		{name: "named zone", timezone: "Asia/Kolkata", wantName: "Asia/Kolkata"},
		{name: "unknown zone", timezone: "Mars/Olympus", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := AggregationConfig{Timezone: tt.timezone}.Location()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if loc.String() != tt.wantName {
				t.Errorf("expected %s, got %s", tt.wantName, loc.String())
			}
		})
	}
}
