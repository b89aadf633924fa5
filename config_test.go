package sitefeeds_test

import (
	"errors"
	"testing"

	sitefeeds "github.com/goliatone/go-site-feeds"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := sitefeeds.DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestConfigValidateFeedReferencesKnownCollections(t *testing.T) {
	cfg := sitefeeds.DefaultConfig()
	cfg.Feeds.Definitions = append(cfg.Feeds.Definitions, sitefeeds.FeedDefinition{
		Name:        "notes",
		Path:        "/notes/rss.xml",
		Collections: []string{"notes"},
	})
	if err := cfg.Validate(); !errors.Is(err, sitefeeds.ErrFeedCollectionUnknown) {
		t.Fatalf("expected ErrFeedCollectionUnknown, got %v", err)
	}
}

func TestConfigValidateRejectsDuplicateFeedPaths(t *testing.T) {
	cfg := sitefeeds.DefaultConfig()
	cfg.Feeds.Definitions[1].Path = cfg.Feeds.Definitions[0].Path
	if err := cfg.Validate(); !errors.Is(err, sitefeeds.ErrFeedDuplicate) {
		t.Fatalf("expected ErrFeedDuplicate, got %v", err)
	}
}

func TestConfigValidateInvalidDatePolicy(t *testing.T) {
	cfg := sitefeeds.DefaultConfig()
	cfg.Feeds.InvalidDatePolicy = "skip"
	if err := cfg.Validate(); !errors.Is(err, sitefeeds.ErrInvalidDatePolicy) {
		t.Fatalf("expected ErrInvalidDatePolicy, got %v", err)
	}
}

func TestConfigValidateLoggingProviderUnknown(t *testing.T) {
	cfg := sitefeeds.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "syslog"
	if err := cfg.Validate(); !errors.Is(err, sitefeeds.ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}
}

func TestConfigValidateMarkdownEngine(t *testing.T) {
	cfg := sitefeeds.DefaultConfig()
	cfg.Markdown.Engine = "blackfriday"
	if err := cfg.Validate(); !errors.Is(err, sitefeeds.ErrMarkdownEngineUnknown) {
		t.Fatalf("expected ErrMarkdownEngineUnknown, got %v", err)
	}

	cfg.Markdown.Engine = "goldmark"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("goldmark engine should validate: %v", err)
	}
}
