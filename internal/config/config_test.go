package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"STORAGE_DRIVER", "REDIS_URL", "SESSION_TIMEOUT", "SERVER_PORT", "WHATSAPP_API_URL", "ADMIN_PASSWORD"} {
		t.Setenv(key, "")
	}
	cfg := Load()
	if cfg.StorageDriver != StoragePostgres {
		t.Errorf("StorageDriver = %q", cfg.StorageDriver)
	}
	if cfg.RedisURL != "" {
		t.Errorf("RedisURL = %q, want empty", cfg.RedisURL)
	}
	if cfg.SessionTTL() != 24*time.Hour {
		t.Errorf("SessionTTL = %v", cfg.SessionTTL())
	}
	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q", cfg.ServerPort)
	}
	if cfg.NotificationsEnabled() {
		t.Error("notifications enabled without an API URL")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "Memory")
	t.Setenv("SESSION_TIMEOUT", "90")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("WHATSAPP_API_URL", "http://wa.local")

	cfg := Load()
	if cfg.StorageDriver != StorageMemory {
		t.Errorf("StorageDriver = %q", cfg.StorageDriver)
	}
	if cfg.SessionTTL() != 90*time.Second {
		t.Errorf("SessionTTL = %v", cfg.SessionTTL())
	}
	if cfg.ServerPort != "9000" {
		t.Errorf("ServerPort = %q", cfg.ServerPort)
	}
	if !cfg.NotificationsEnabled() {
		t.Error("notifications disabled with an API URL")
	}
}

func TestGetEnvAsIntFallsBack(t *testing.T) {
	t.Setenv("CANTEEN_TEST_INT", "not-a-number")
	if got := getEnvAsInt("CANTEEN_TEST_INT", 7); got != 7 {
		t.Errorf("got %d, want 7", got)
	}
}
