package sitefeeds

import (
	"context"
	"errors"
	"net/http"
	"time"

	feedscmd "github.com/goliatone/go-site-feeds/internal/commands/feeds"
	"github.com/goliatone/go-site-feeds/internal/di"
	"github.com/goliatone/go-site-feeds/internal/feeds"
	"github.com/goliatone/go-site-feeds/internal/generator"
	"github.com/goliatone/go-site-feeds/internal/markdown"
	"github.com/goliatone/go-site-feeds/internal/validation"
	"github.com/goliatone/go-site-feeds/internal/watch"
	"github.com/goliatone/go-site-feeds/pkg/interfaces"
)

// FeedService exports the feed pipeline contract.
type FeedService = feeds.Service

// Document is a rendered feed or sitemap.
type Document = feeds.Document

// GeneratorService exports the static build contract.
type GeneratorService = generator.Service

// BuildOptions narrows a static build.
type BuildOptions = generator.BuildOptions

// BuildResult reports a static build.
type BuildResult = generator.BuildResult

// SourceDocument is a markdown file with its parsed front-matter.
type SourceDocument = markdown.Document

// LintReport reports front-matter problems.
type LintReport = validation.LintReport

// CommandHandlers groups the command handlers.
type CommandHandlers = feedscmd.HandlerSet

// Watcher invalidates the feed cache when content changes.
type Watcher = watch.Watcher

// ErrFeedNotFound is returned for names with no feed definition.
var ErrFeedNotFound = feeds.ErrFeedNotFound

var (
	errBuildUnavailable = errors.New("sitefeeds: build command not configured")
	errLintUnavailable  = errors.New("sitefeeds: lint command not configured")
)

// Option customises module wiring.
type Option = di.Option

var (
	WithLoggerProvider     = di.WithLoggerProvider
	WithContentFS          = di.WithContentFS
	WithCache              = di.WithCache
	WithMarkdownParser     = di.WithMarkdownParser
	WithCommandRegistry    = di.WithCommandRegistry
	WithFrontMatterSchemas = di.WithFrontMatterSchemas
	WithClock              = di.WithClock
)

// Module is the top level façade over the feed pipeline.
type Module struct {
	container *di.Container
}

// New constructs a module from cfg.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Config returns the validated configuration.
func (m *Module) Config() Config {
	return m.container.Config
}

// Feeds returns the feed service.
func (m *Module) Feeds() FeedService {
	return m.container.FeedService()
}

// Generator returns the static build service.
func (m *Module) Generator() GeneratorService {
	return m.container.GeneratorService()
}

// Commands returns the command handlers.
func (m *Module) Commands() *CommandHandlers {
	return m.container.Commands()
}

// LoggerProvider returns the active logger provider, nil when logging is off.
func (m *Module) LoggerProvider() interfaces.LoggerProvider {
	return m.container.LoggerProvider()
}

// Handler returns a mux serving every feed endpoint.
func (m *Module) Handler() http.Handler {
	mux := http.NewServeMux()
	m.Register(mux)
	return mux
}

// Register mounts the feed endpoints on mux.
func (m *Module) Register(mux *http.ServeMux) {
	m.container.FeedsAPI().Register(mux)
}

// Build writes every document to the output directory through the build
// command handler.
func (m *Module) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	handler := m.container.Commands().Build
	if handler == nil {
		return nil, errBuildUnavailable
	}
	var result *BuildResult
	err := handler.Execute(ctx, feedscmd.BuildFeedsCommand{
		Feeds:          opts.Feeds,
		DryRun:         opts.DryRun,
		Force:          opts.Force,
		ResultCallback: func(r *BuildResult) { result = r },
	})
	return result, err
}

// Lint checks front-matter in the named collections, or all when none are
// given, through the lint command handler.
func (m *Module) Lint(ctx context.Context, collections ...string) (*LintReport, error) {
	handler := m.container.Commands().Lint
	if handler == nil {
		return nil, errLintUnavailable
	}
	var report *LintReport
	err := handler.Execute(ctx, feedscmd.LintContentCommand{
		Collections: collections,
		Report:      func(r *LintReport) { report = r },
	})
	return report, err
}

// Invalidate drops every cached document.
func (m *Module) Invalidate(ctx context.Context, reason string) error {
	return m.container.Commands().Invalidate.Execute(ctx, feedscmd.InvalidateCacheCommand{Reason: reason})
}

// Render converts a markdown document with the configured engine.
func (m *Module) Render(markdown []byte) ([]byte, error) {
	return m.container.Parser().Parse(markdown)
}

// Preview loads one markdown file below content.dir and renders its body.
func (m *Module) Preview(ctx context.Context, path string) (*SourceDocument, []byte, error) {
	doc, err := m.container.Loader().LoadFile(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	html, err := m.Render(doc.Body)
	if err != nil {
		return doc, nil, err
	}
	return doc, html, nil
}

// NewWatcher returns a watcher over content.dir. Run it in its own goroutine.
func (m *Module) NewWatcher(debounce time.Duration) (*Watcher, error) {
	return m.container.NewWatcher(debounce)
}
