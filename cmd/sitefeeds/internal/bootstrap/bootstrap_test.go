package bootstrap

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sitefeeds.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigOverlaysFileOnDefaults(t *testing.T) {
	path := writeConfig(t, `
site:
  base_url: https://example.com
  title: Example
cache:
  default_ttl: 10m
feeds:
  definitions:
    - name: blog
      path: /feed.xml
      title: Example Blog
      collections: [blog]
`)

	cfg, used, err := LoadConfig(Options{ConfigFile: path})
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if used != path {
		t.Fatalf("expected config file %q, got %q", path, used)
	}
	if cfg.Site.BaseURL != "https://example.com" || cfg.Site.Title != "Example" {
		t.Fatalf("unexpected site config %+v", cfg.Site)
	}
	if cfg.Site.Language != "en-us" {
		t.Fatalf("expected default language kept, got %q", cfg.Site.Language)
	}
	if cfg.Cache.DefaultTTL != 10*time.Minute {
		t.Fatalf("expected 10m ttl, got %s", cfg.Cache.DefaultTTL)
	}
	if len(cfg.Feeds.Definitions) != 1 || cfg.Feeds.Definitions[0].Path != "/feed.xml" {
		t.Fatalf("expected file definitions to replace defaults, got %+v", cfg.Feeds.Definitions)
	}
	if len(cfg.Content.Collections) != 2 {
		t.Fatalf("expected default collections kept, got %d", len(cfg.Content.Collections))
	}
}

func TestLoadConfigEnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, "site:\n  title: From File\n")
	t.Setenv("SITEFEEDS_SITE_BASE_URL", "https://env.example")
	t.Setenv("SITEFEEDS_SERVER_ADDR", ":9090")
	t.Setenv("SITEFEEDS_FEATURES_WATCH", "true")

	cfg, _, err := LoadConfig(Options{ConfigFile: path})
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Site.BaseURL != "https://env.example" {
		t.Fatalf("expected env base url, got %q", cfg.Site.BaseURL)
	}
	if cfg.Site.Title != "From File" {
		t.Fatalf("expected file title, got %q", cfg.Site.Title)
	}
	if cfg.Server.Addr != ":9090" {
		t.Fatalf("expected env addr, got %q", cfg.Server.Addr)
	}
	if !cfg.Features.Watch {
		t.Fatal("expected watch feature enabled from env")
	}
}

func TestLoadConfigContentDirFlagWins(t *testing.T) {
	path := writeConfig(t, "content:\n  dir: from-file\n")
	cfg, _, err := LoadConfig(Options{ConfigFile: path, ContentDir: "from-flag"})
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Content.Dir != "from-flag" {
		t.Fatalf("expected flag content dir, got %q", cfg.Content.Dir)
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	if _, _, err := LoadConfig(Options{ConfigFile: filepath.Join(t.TempDir(), "missing.yaml")}); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	path := writeConfig(t, "feeds:\n  invalid_date_policy: skip\n")
	if _, _, err := LoadConfig(Options{ConfigFile: path}); err == nil {
		t.Fatal("expected validation error")
	}
}
