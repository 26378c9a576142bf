package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.ServerPort == "" {
		t.Fatalf("expected default server port")
	}
	if cfg.PostgresURL == "" {
		t.Fatalf("expected default postgres url")
	}
	if cfg.TripStartDistanceM != 200 {
		t.Fatalf("expected 200m start threshold, got %v", cfg.TripStartDistanceM)
	}
	if cfg.TripEndDistanceM != 10 {
		t.Fatalf("expected 10m end threshold, got %v", cfg.TripEndDistanceM)
	}
	if cfg.TripEndDwell() != 5*time.Minute {
		t.Fatalf("expected 5 minute dwell, got %v", cfg.TripEndDwell())
	}
	if cfg.MotionWindowSize != 50 || cfg.MotionMinSamples != 10 {
		t.Fatalf("unexpected motion window defaults")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", ":9000")
	t.Setenv("POSTGRES_URL", "postgres://example")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_PASSWORD", "hunter2")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("TRIP_START_DISTANCE_M", "150")
	t.Setenv("TRIP_END_DWELL_SEC", "120")

	cfg := Load()
	if cfg.ServerPort != ":9000" {
		t.Fatalf("expected override port")
	}
	if cfg.PostgresURL != "postgres://example" {
		t.Fatalf("expected override postgres")
	}
	if cfg.RedisAddr != "redis:6379" {
		t.Fatalf("expected override redis")
	}
	if cfg.RedisPassword != "hunter2" {
		t.Fatalf("expected override redis password")
	}
	if cfg.JWTSecret != "secret" {
		t.Fatalf("expected override secret")
	}
	if cfg.TripStartDistanceM != 150 {
		t.Fatalf("expected override start threshold")
	}
	if cfg.TripEndDwell() != 2*time.Minute {
		t.Fatalf("expected override dwell")
	}
}
