package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.ImageDir != "images" {
		t.Errorf("ImageDir = %q, want images", cfg.ImageDir)
	}
	if cfg.PageSize != 2 {
		t.Errorf("PageSize = %d, want 2", cfg.PageSize)
	}
	if cfg.TokenExpiry != time.Hour {
		t.Errorf("TokenExpiry = %v, want 1h", cfg.TokenExpiry)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "9090")
	t.Setenv("PAGE_SIZE", "10")
	t.Setenv("TOKEN_EXPIRY", "30m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 9090 || cfg.PageSize != 10 || cfg.TokenExpiry != 30*time.Minute {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("Load accepted an empty JWT_SECRET")
	}
}

func TestLoadRejectsBadPort(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "eighty")

	if _, err := Load(); err == nil {
		t.Fatal("Load accepted a non-numeric PORT")
	}
}
