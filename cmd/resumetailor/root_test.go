package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig_FlagWinsOverEnv(t *testing.T) {
	flagPath := writeConfig(t, "ai:\n  model: from-flag\n")
	envPath := writeConfig(t, "ai:\n  model: from-env\n")
	t.Setenv("RESUMETAILOR_CONFIG", envPath)

	cfg, err := loadConfig(flagPath)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.AI.Model != "from-flag" {
		t.Errorf("Model = %q, want from-flag", cfg.AI.Model)
	}

	cfg, err = loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.AI.Model != "from-env" {
		t.Errorf("Model = %q, want from-env", cfg.AI.Model)
	}
}

func TestLoadConfig_ExplicitMissingFileFails(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for a missing explicit config")
	}
}

func TestLoadConfig_MissingDefaultUsesDefaults(t *testing.T) {
	t.Setenv("RESUMETAILOR_CONFIG", "")

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.AI.Provider != "openai" || cfg.Server.Addr != ":8080" {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestSnippet(t *testing.T) {
	cases := []struct {
		in   string
		n    int
		want string
	}{
		{"Senior Go Engineer\nPayments team", 40, "Senior Go Engineer"},
		{"  short  ", 10, "short"},
		{"Staff Backend Engineer", 10, "Staff Bac…"},
	}
	for _, tc := range cases {
		if got := snippet(tc.in, tc.n); got != tc.want {
			t.Errorf("snippet(%q, %d) = %q, want %q", tc.in, tc.n, got, tc.want)
		}
	}
}
