package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("LANDING_APP_ENV", "dev")
	t.Setenv("LANDING_GA4_PROPERTY_ID", "123456789")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.App.Port != "8080" {
		t.Fatalf("unexpected port %q", cfg.App.Port)
	}
	if !cfg.App.IsDev() {
		t.Fatal("expected dev env")
	}
	if cfg.Ingest.NormalizedSource() != SourceGA4 {
		t.Fatalf("unexpected source %q", cfg.Ingest.Source)
	}
	if cfg.Ingest.CacheTTL != time.Hour {
		t.Fatalf("unexpected cache ttl %v", cfg.Ingest.CacheTTL)
	}
	if cfg.GA4.DateRangeDays != 90 {
		t.Fatalf("unexpected date range days %d", cfg.GA4.DateRangeDays)
	}
}

func TestLoadRejectsUnknownSource(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("LANDING_INGEST_SOURCE", "csv")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown ingest source")
	}
}

func TestLoadRequiresPropertyID(t *testing.T) {
	t.Setenv("LANDING_APP_ENV", "dev")
	t.Setenv("LANDING_GA4_PROPERTY_ID", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when property id missing")
	}
}
