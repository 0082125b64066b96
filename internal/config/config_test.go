package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/rides")
	t.Setenv("DISPATCH_ETA_MINUTES", "7")

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.DatabaseURL != "postgres://u:p@localhost:5432/rides" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
	if cfg.DispatchETAMinutes != 7 {
		t.Errorf("DispatchETAMinutes = %d; want 7", cfg.DispatchETAMinutes)
	}
	if cfg.CollaboratorTimeout != 10*time.Second {
		t.Errorf("CollaboratorTimeout = %v; want 10s", cfg.CollaboratorTimeout)
	}
	if cfg.ServerPort != "8000" {
		t.Errorf("ServerPort = %q; want 8000", cfg.ServerPort)
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{NominatimURL: "x", OSRMURL: "", CollaboratorTimeout: 0, DispatchETAMinutes: -1}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() = nil; want error")
	}
	for _, want := range []string{"COLLABORATOR_TIMEOUT", "DISPATCH_ETA_MINUTES", "OSRM_URL"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Validate() error %q does not mention %s", err, want)
		}
	}

	cfg = &Config{NominatimURL: "x", RouteFallback: true, CollaboratorTimeout: time.Second}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() with fallback = %v; want nil", err)
	}
	if err := cfg.RequireServer(); err == nil {
		t.Error("RequireServer() = nil; want error for missing DATABASE_URL/JWT_SECRET")
	}
}
