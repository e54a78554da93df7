package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadReturnsDefaultsWhenFileMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if resolved != path {
		t.Fatalf("resolved path = %q, want %q", resolved, path)
	}
	if cfg.YouTube.BaseURL != defaultYouTubeBaseURL {
		t.Fatalf("base URL = %q, want default", cfg.YouTube.BaseURL)
	}
	if cfg.Browser.CommandTimeoutSeconds != defaultBrowserCommandTimeoutSeconds {
		t.Fatalf("command timeout = %d, want default", cfg.Browser.CommandTimeoutSeconds)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
data_dir = "` + dir + `/data"

[logging]
format = "json"
level = "debug"

[youtube]
requests_per_minute = 30
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists=true")
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("logging = %+v", cfg.Logging)
	}
	if cfg.YouTube.RequestsPerMinute != 30 {
		t.Fatalf("requests_per_minute = %d, want 30", cfg.YouTube.RequestsPerMinute)
	}
	if cfg.Paths.DataDir != filepath.Join(dir, "data") {
		t.Fatalf("data dir = %q", cfg.Paths.DataDir)
	}
	// Unset sections fall back to defaults.
	if cfg.Paths.LogDir == "" || strings.HasPrefix(cfg.Paths.LogDir, "~") {
		t.Fatalf("log dir not expanded: %q", cfg.Paths.LogDir)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"bad format":   "[logging]\nformat = \"xml\"\n",
		"bad level":    "[logging]\nlevel = \"verbose\"\n",
		"bad base url": "[youtube]\nbase_url = \"ftp://example.com\"\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(name, " ", "_")+".toml")
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, _, _, err := Load(path); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestSampleConfigParses(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sample config invalid: %v", err)
	}
}

func TestDerivedPaths(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatal(err)
	}
	if got := cfg.SettingsDBPath(); filepath.Base(got) != "settings.db" {
		t.Fatalf("SettingsDBPath = %q", got)
	}
	if got := cfg.LockPath(); filepath.Base(got) != "tubelens.lock" {
		t.Fatalf("LockPath = %q", got)
	}
}
