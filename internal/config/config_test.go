package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

var keys = []string{"PORT", "DB_PATH", "LOG_LEVEL", "JWT_SECRET", "TOKEN_TTL", "CATEGORIES_PATH", "RECORD_REPAYMENTS"}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "8080" || cfg.DBPath != "./data/dutchpay.db" || cfg.LogLevel != "info" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.TokenTTL != 24*time.Hour || !cfg.RecordRepayments || cfg.CategoriesPath != "" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if !cfg.InsecureSecret() {
		t.Error("default secret should be reported insecure")
	}
}

func TestLoadFromDotenv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	content := "PORT=9090\nTOKEN_TTL=1h\nRECORD_REPAYMENTS=false\nJWT_SECRET=s3cret\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		for _, k := range keys {
			os.Unsetenv(k)
		}
	})

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "9090" || cfg.TokenTTL != time.Hour || cfg.RecordRepayments || cfg.InsecureSecret() {
		t.Errorf("dotenv values not applied: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "bad ttl", key: "TOKEN_TTL", value: "forever"},
		{name: "negative ttl", key: "TOKEN_TTL", value: "-1h"},
		{name: "bad bool", key: "RECORD_REPAYMENTS", value: "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}
