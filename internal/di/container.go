package di

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/goliatone/go-site-feeds/internal/adapters/noop"
	"github.com/goliatone/go-site-feeds/internal/cache"
	feedscmd "github.com/goliatone/go-site-feeds/internal/commands/feeds"
	"github.com/goliatone/go-site-feeds/internal/feeds"
	"github.com/goliatone/go-site-feeds/internal/generator"
	httpapi "github.com/goliatone/go-site-feeds/internal/http"
	"github.com/goliatone/go-site-feeds/internal/logging"
	"github.com/goliatone/go-site-feeds/internal/logging/console"
	"github.com/goliatone/go-site-feeds/internal/logging/gologger"
	"github.com/goliatone/go-site-feeds/internal/markdown"
	"github.com/goliatone/go-site-feeds/internal/runtimeconfig"
	"github.com/goliatone/go-site-feeds/internal/validation"
	"github.com/goliatone/go-site-feeds/internal/watch"
	"github.com/goliatone/go-site-feeds/pkg/interfaces"
)

const maxReportedPaths = 1000

// Container wires the feed pipeline from a runtime configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	contentFS      fs.FS
	cache          interfaces.CacheProvider
	parser         interfaces.MarkdownParser
	registry       feedscmd.CommandRegistry
	schemas        map[string]map[string]any
	now            func() time.Time

	loader    *markdown.Loader
	feedSvc   feeds.Service
	generator generator.Service
	linter    *validation.Linter
	api       *httpapi.FeedsAPI
	commands  *feedscmd.HandlerSet
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider selected from the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		if provider != nil {
			c.loggerProvider = provider
		}
	}
}

// WithContentFS serves content from filesystem instead of content.dir on disk.
func WithContentFS(filesystem fs.FS) Option {
	return func(c *Container) {
		if filesystem != nil {
			c.contentFS = filesystem
		}
	}
}

// WithCache overrides the in-memory document cache.
func WithCache(provider interfaces.CacheProvider) Option {
	return func(c *Container) {
		if provider != nil {
			c.cache = provider
		}
	}
}

// WithMarkdownParser overrides the engine selected by markdown.engine.
func WithMarkdownParser(parser interfaces.MarkdownParser) Option {
	return func(c *Container) {
		if parser != nil {
			c.parser = parser
		}
	}
}

// WithCommandRegistry registers the feed command handlers with reg.
func WithCommandRegistry(reg feedscmd.CommandRegistry) Option {
	return func(c *Container) {
		c.registry = reg
	}
}

// WithFrontMatterSchemas replaces the built-in front-matter schema for the named item types.
func WithFrontMatterSchemas(schemas map[string]map[string]any) Option {
	return func(c *Container) {
		c.schemas = schemas
	}
}

// WithClock overrides the time source used for generated documents.
func WithClock(now func() time.Time) Option {
	return func(c *Container) {
		if now != nil {
			c.now = now
		}
	}
}

// NewContainer validates cfg and builds every service.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLogging(); err != nil {
		return nil, err
	}
	c.configureCache()
	if c.contentFS == nil {
		c.contentFS = os.DirFS(cfg.Content.Dir)
	}
	if c.parser == nil {
		c.parser = markdown.NewParser(cfg.Markdown)
	}

	c.loader = markdown.NewLoader(c.contentFS, markdown.LoaderConfig{
		BasePath: cfg.Content.Dir,
		Logger:   logging.MarkdownLogger(c.loggerProvider),
	})

	c.feedSvc = feeds.NewService(cfg, feeds.Dependencies{
		Source: c.loader,
		Parser: c.parser,
		Cache:  c.cache,
		Logger: logging.FeedsLogger(c.loggerProvider),
	}, feeds.WithClock(c.now))

	c.generator = generator.NewService(generator.Config{
		OutputDir:       cfg.Generator.OutputDir,
		BaseURL:         cfg.Site.BaseURL,
		GenerateSitemap: cfg.Features.Sitemap,
		GenerateRobots:  cfg.Features.Sitemap,
		SitemapPath:     cfg.Sitemap.Path,
	}, generator.Dependencies{
		Feeds:  c.feedSvc,
		Logger: logging.ModuleLogger(c.loggerProvider, "sitefeeds.generator"),
	})

	linter, err := validation.NewLinter(c.loader, c.schemas)
	if err != nil {
		return nil, fmt.Errorf("di: front-matter schemas: %w", err)
	}
	c.linter = linter

	c.api = httpapi.NewFeedsAPI(c.feedSvc,
		httpapi.WithConfig(cfg),
		httpapi.WithLogger(logging.HTTPLogger(c.loggerProvider)),
		httpapi.WithClock(func() time.Time { return c.now().UTC() }),
	)

	handlers, err := feedscmd.RegisterFeedCommands(c.registry, feedscmd.Services{
		Builder:     c.generator,
		Invalidator: c.feedSvc,
		Linter:      c.linter,
		Collections: cfg.Content.Collections,
	}, c.loggerProvider)
	if err != nil {
		return nil, err
	}
	c.commands = handlers

	logging.ModuleLogger(c.loggerProvider, "").Debug("container.configured",
		"content_dir", cfg.Content.Dir,
		"markdown_engine", cfg.Markdown.Engine,
		"cache_enabled", cfg.Cache.Enabled,
		"feed_count", len(cfg.Feeds.Definitions),
	)
	return c, nil
}

func (c *Container) configureLogging() error {
	if c.loggerProvider != nil || !c.Config.Features.Logger {
		return nil
	}
	logCfg := c.Config.Logging
	switch strings.ToLower(strings.TrimSpace(logCfg.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     logCfg.Level,
			Format:    logCfg.Format,
			AddSource: logCfg.AddSource,
			Focus:     logCfg.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	default:
		opts := console.Options{}
		if level, ok := console.ParseLevel(logCfg.Level); ok {
			opts.MinLevel = &level
		}
		c.loggerProvider = console.NewProvider(opts)
	}
	return nil
}

func (c *Container) configureCache() {
	if c.cache != nil {
		return
	}
	if !c.Config.Cache.Enabled {
		c.cache = noop.Cache()
		return
	}
	c.cache = cache.NewMemory(c.Config.Cache.MaxEntries, c.Config.Cache.DefaultTTL, cache.WithClock(c.now))
}

// LoggerProvider returns the active provider, nil when logging is disabled.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// Loader returns the markdown content source.
func (c *Container) Loader() *markdown.Loader {
	return c.loader
}

// FeedService returns the feed pipeline.
func (c *Container) FeedService() feeds.Service {
	return c.feedSvc
}

// GeneratorService returns the static output writer.
func (c *Container) GeneratorService() generator.Service {
	return c.generator
}

// Linter returns the front-matter linter.
func (c *Container) Linter() *validation.Linter {
	return c.linter
}

// FeedsAPI returns the HTTP endpoints.
func (c *Container) FeedsAPI() *httpapi.FeedsAPI {
	return c.api
}

// Commands returns the feed command handlers.
func (c *Container) Commands() *feedscmd.HandlerSet {
	return c.commands
}

// Parser returns the configured markdown engine.
func (c *Container) Parser() interfaces.MarkdownParser {
	return c.parser
}

// NewWatcher builds a watcher over content.dir that invalidates the feed cache
// through the invalidate command.
func (c *Container) NewWatcher(debounce time.Duration) (*watch.Watcher, error) {
	handler := c.commands.Invalidate
	return watch.New(watch.Config{
		Root:     c.Config.Content.Dir,
		Debounce: debounce,
	}, func(ctx context.Context, paths []string) error {
		if len(paths) > maxReportedPaths {
			paths = paths[:maxReportedPaths]
		}
		return handler.Execute(ctx, feedscmd.InvalidateCacheCommand{Reason: "watch", Paths: paths})
	}, logging.WatchLogger(c.loggerProvider))
}
