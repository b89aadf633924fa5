package runtimeconfig

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

var ErrSiteBaseURLRequired = errors.New("sitefeeds config: site base url is required")
var ErrContentDirRequired = errors.New("sitefeeds config: content directory is required")
var ErrCollectionNameRequired = errors.New("sitefeeds config: collection name is required")
var ErrCollectionDuplicate = errors.New("sitefeeds config: collection names must be unique")
var ErrFeedNameRequired = errors.New("sitefeeds config: feed name is required")
var ErrFeedDuplicate = errors.New("sitefeeds config: feed names and paths must be unique")
var ErrFeedCollectionUnknown = errors.New("sitefeeds config: feed references an unknown collection")
var ErrFeedLimitInvalid = errors.New("sitefeeds config: feed limit must be zero or positive")
var ErrInvalidDatePolicy = errors.New("sitefeeds config: invalid date policy must be one of now, epoch, exclude")
var ErrConcurrencyInvalid = errors.New("sitefeeds config: feed concurrency must be zero or positive")
var ErrMarkdownEngineUnknown = errors.New("sitefeeds config: markdown engine must be lite or goldmark")
var ErrGeneratorOutputDirRequired = errors.New("sitefeeds config: generator output directory is required")
var ErrServerAddrRequired = errors.New("sitefeeds config: server address is required")
var ErrLoggingProviderRequired = errors.New("sitefeeds config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("sitefeeds config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("sitefeeds config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("sitefeeds config: logging format is invalid")

// Invalid date policies understood by the aggregator.
const (
	InvalidDateNow     = "now"
	InvalidDateEpoch   = "epoch"
	InvalidDateExclude = "exclude"
)

// Markdown engines.
const (
	MarkdownEngineLite     = "lite"
	MarkdownEngineGoldmark = "goldmark"
)

// Config aggregates everything the feed pipeline needs at runtime. The
// mapstructure tags let the CLI decode YAML files and SITEFEEDS_ env vars.
type Config struct {
	Development bool            `mapstructure:"development"`
	Site        SiteConfig      `mapstructure:"site"`
	Content     ContentConfig   `mapstructure:"content"`
	Feeds       FeedsConfig     `mapstructure:"feeds"`
	Sitemap     SitemapConfig   `mapstructure:"sitemap"`
	Markdown    MarkdownConfig  `mapstructure:"markdown"`
	Cache       CacheConfig     `mapstructure:"cache"`
	Server      ServerConfig    `mapstructure:"server"`
	Generator   GeneratorConfig `mapstructure:"generator"`
	Logging     LoggingConfig   `mapstructure:"logging"`
	Features    Features        `mapstructure:"features"`
}

// SiteConfig describes the channel-level identity shared by every feed.
type SiteConfig struct {
	Title    string `mapstructure:"title"`
	BaseURL  string `mapstructure:"base_url"`
	Author   string `mapstructure:"author"`
	Email    string `mapstructure:"email"`
	Language string `mapstructure:"language"`
}

// ContentConfig locates the markdown collections on disk.
type ContentConfig struct {
	Dir         string             `mapstructure:"dir"`
	AssetsRoute string             `mapstructure:"assets_route"`
	Collections []CollectionConfig `mapstructure:"collections"`
}

// CollectionConfig describes one content collection (blog, projects).
type CollectionConfig struct {
	Name        string `mapstructure:"name"`
	Type        string `mapstructure:"type"`
	Route       string `mapstructure:"route"`
	Category    string `mapstructure:"category"`
	TitlePrefix string `mapstructure:"title_prefix"`
	ImageField  string `mapstructure:"image_field"`
}

// FeedsConfig captures the feed definitions and pipeline behaviour.
type FeedsConfig struct {
	Definitions         []FeedDefinition `mapstructure:"definitions"`
	InvalidDatePolicy   string           `mapstructure:"invalid_date_policy"`
	Concurrency         int              `mapstructure:"concurrency"`
	TTL                 int              `mapstructure:"ttl"`
	Generator           string           `mapstructure:"generator"`
	CacheControl        string           `mapstructure:"cache_control"`
	Footer              bool             `mapstructure:"footer"`
	DescriptionFromBody bool             `mapstructure:"description_from_body"`
}

// FeedDefinition binds a feed name and route to the collections it merges.
// Combined feeds prefix titles and add the collection category to every item.
type FeedDefinition struct {
	Name        string   `mapstructure:"name"`
	Path        string   `mapstructure:"path"`
	Title       string   `mapstructure:"title"`
	Description string   `mapstructure:"description"`
	Link        string   `mapstructure:"link"`
	Collections []string `mapstructure:"collections"`
	Limit       int      `mapstructure:"limit"`
	Combined    bool     `mapstructure:"combined"`
}

// SitemapConfig lists static pages and the collections whose items are
// appended to the sitemap.
type SitemapConfig struct {
	Path           string        `mapstructure:"path"`
	StaticPages    []SitemapPage `mapstructure:"static_pages"`
	Collections    []string      `mapstructure:"collections"`
	ItemChangeFreq string        `mapstructure:"item_change_freq"`
	ItemPriority   string        `mapstructure:"item_priority"`
}

// SitemapPage is a fixed sitemap entry.
type SitemapPage struct {
	Path       string `mapstructure:"path"`
	ChangeFreq string `mapstructure:"change_freq"`
	Priority   string `mapstructure:"priority"`
}

// MarkdownConfig selects the converter used for item bodies.
type MarkdownConfig struct {
	Engine string               `mapstructure:"engine"`
	Parser MarkdownParserConfig `mapstructure:"parser"`
}

// MarkdownParserConfig mirrors interfaces.ParseOptions for runtime configuration.
type MarkdownParserConfig struct {
	Extensions []string `mapstructure:"extensions"`
	Sanitize   bool     `mapstructure:"sanitize"`
	HardWraps  bool     `mapstructure:"hard_wraps"`
	SafeMode   bool     `mapstructure:"safe_mode"`
}

// CacheConfig controls rendered document memoization.
type CacheConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	DefaultTTL time.Duration `mapstructure:"default_ttl"`
	MaxEntries int           `mapstructure:"max_entries"`
}

// ServerConfig configures the HTTP listener used by `sitefeeds serve`.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// GeneratorConfig captures where `sitefeeds build` writes documents.
type GeneratorConfig struct {
	OutputDir string `mapstructure:"output_dir"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `mapstructure:"provider"`
	Level     string   `mapstructure:"level"`
	Format    string   `mapstructure:"format"`
	AddSource bool     `mapstructure:"add_source"`
	Focus     []string `mapstructure:"focus"`
}

// Features toggles optional functionality.
type Features struct {
	Watch   bool `mapstructure:"watch"`
	Sitemap bool `mapstructure:"sitemap"`
	Logger  bool `mapstructure:"logger"`
}

// DefaultConfig returns the configuration used by the techquests.dev site.
func DefaultConfig() Config {
	return Config{
		Site: SiteConfig{
			Title:    "Tech Quests",
			BaseURL:  "https://techquests.dev",
			Author:   "Andre Nogueira",
			Email:    "aanogueira@protonmail.com",
			Language: "en-us",
		},
		Content: ContentConfig{
			Dir:         "content",
			AssetsRoute: "/content",
			Collections: []CollectionConfig{
				{Name: "blog", Type: "blog", Route: "/blog", Category: "Blog", ImageField: "image"},
				{Name: "projects", Type: "project", Route: "/projects", Category: "Projects", TitlePrefix: "[Project] ", ImageField: "thumbnail"},
			},
		},
		Feeds: FeedsConfig{
			Definitions: []FeedDefinition{
				{
					Name:        "all",
					Path:        "/rss.xml",
					Title:       "Tech Quests - All Content",
					Description: "Latest blog posts and projects by Andre Nogueira",
					Collections: []string{"blog", "projects"},
					Limit:       25,
					Combined:    true,
				},
				{
					Name:        "blog",
					Path:        "/blog/rss.xml",
					Title:       "Tech Quests Blog",
					Description: "Latest blog posts and articles by Andre Nogueira",
					Link:        "/blog",
					Collections: []string{"blog"},
				},
				{
					Name:        "projects",
					Path:        "/projects/rss.xml",
					Title:       "Tech Quests Projects",
					Description: "Latest projects by Andre Nogueira",
					Link:        "/projects",
					Collections: []string{"projects"},
				},
			},
			InvalidDatePolicy: InvalidDateNow,
			Concurrency:       4,
			TTL:               1440,
			Generator:         "go-site-feeds",
			CacheControl:      "public, max-age=3600",
			Footer:            true,
		},
		Sitemap: SitemapConfig{
			Path: "/sitemap.xml",
			StaticPages: []SitemapPage{
				{Path: "", ChangeFreq: "monthly", Priority: "1.0"},
				{Path: "/about", ChangeFreq: "monthly", Priority: "0.8"},
				{Path: "/blog", ChangeFreq: "monthly", Priority: "0.8"},
				{Path: "/contact", ChangeFreq: "monthly", Priority: "0.8"},
				{Path: "/projects", ChangeFreq: "monthly", Priority: "0.8"},
			},
			Collections:    []string{"blog"},
			ItemChangeFreq: "yearly",
			ItemPriority:   "0.6",
		},
		Markdown: MarkdownConfig{
			Engine: MarkdownEngineLite,
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Hour,
			MaxEntries: 64,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Generator: GeneratorConfig{
			OutputDir: "dist",
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
		Features: Features{
			Sitemap: true,
		},
	}
}

// Collection returns the collection definition registered under name.
func (cfg Config) Collection(name string) (CollectionConfig, bool) {
	for _, collection := range cfg.Content.Collections {
		if collection.Name == name {
			return collection, true
		}
	}
	return CollectionConfig{}, false
}

// Feed returns the feed definition registered under name.
func (cfg Config) Feed(name string) (FeedDefinition, bool) {
	for _, def := range cfg.Feeds.Definitions {
		if def.Name == name {
			return def, true
		}
	}
	return FeedDefinition{}, false
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Site.BaseURL) == "" {
		return ErrSiteBaseURLRequired
	}
	if strings.TrimSpace(cfg.Content.Dir) == "" {
		return ErrContentDirRequired
	}

	collections := map[string]struct{}{}
	for _, collection := range cfg.Content.Collections {
		name := strings.TrimSpace(collection.Name)
		if name == "" {
			return ErrCollectionNameRequired
		}
		if _, exists := collections[name]; exists {
			return fmt.Errorf("%w: %s", ErrCollectionDuplicate, name)
		}
		collections[name] = struct{}{}
	}

	seen := map[string]struct{}{}
	for _, def := range cfg.Feeds.Definitions {
		name := strings.TrimSpace(def.Name)
		if name == "" {
			return ErrFeedNameRequired
		}
		for _, key := range []string{"name:" + name, "path:" + def.Path} {
			if _, exists := seen[key]; exists {
				return fmt.Errorf("%w: %s", ErrFeedDuplicate, key)
			}
			seen[key] = struct{}{}
		}
		if def.Limit < 0 {
			return fmt.Errorf("%w: %s", ErrFeedLimitInvalid, name)
		}
		for _, ref := range def.Collections {
			if _, ok := collections[ref]; !ok {
				return fmt.Errorf("%w: %s -> %s", ErrFeedCollectionUnknown, name, ref)
			}
		}
	}
	for _, ref := range cfg.Sitemap.Collections {
		if _, ok := collections[ref]; !ok {
			return fmt.Errorf("%w: sitemap -> %s", ErrFeedCollectionUnknown, ref)
		}
	}

	switch policy := strings.ToLower(strings.TrimSpace(cfg.Feeds.InvalidDatePolicy)); policy {
	case "", InvalidDateNow, InvalidDateEpoch, InvalidDateExclude:
	default:
		return fmt.Errorf("%w: %s", ErrInvalidDatePolicy, policy)
	}
	if cfg.Feeds.Concurrency < 0 {
		return ErrConcurrencyInvalid
	}

	switch engine := strings.ToLower(strings.TrimSpace(cfg.Markdown.Engine)); engine {
	case "", MarkdownEngineLite, MarkdownEngineGoldmark:
	default:
		return fmt.Errorf("%w: %s", ErrMarkdownEngineUnknown, engine)
	}

	if strings.TrimSpace(cfg.Generator.OutputDir) == "" {
		return ErrGeneratorOutputDirRequired
	}
	if strings.TrimSpace(cfg.Server.Addr) == "" {
		return ErrServerAddrRequired
	}

	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !slices.Contains(supportedProviders, provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.ToLower(strings.TrimSpace(cfg.Logging.Level)); level != "" && !slices.Contains(supportedLevels, level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.ToLower(strings.TrimSpace(cfg.Logging.Format)); format != "" && !slices.Contains(supportedFormats, format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

var (
	supportedProviders = []string{"console", "gologger"}
	supportedLevels    = []string{"trace", "debug", "info", "warn", "warning", "error", "fatal"}
	supportedFormats   = []string{"json", "console", "pretty"}
)

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}
