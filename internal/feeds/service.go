// Package feeds runs the content feed pipeline: it loads collections, merges
// and sorts their items, enriches each item with rendered markdown and image
// data, and serializes the result as RSS 2.0 or a sitemap.
package feeds

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-site-feeds/internal/adapters/noop"
	"github.com/goliatone/go-site-feeds/internal/content"
	"github.com/goliatone/go-site-feeds/internal/identity"
	"github.com/goliatone/go-site-feeds/internal/logging"
	"github.com/goliatone/go-site-feeds/internal/markdown"
	"github.com/goliatone/go-site-feeds/internal/rss"
	"github.com/goliatone/go-site-feeds/internal/runtimeconfig"
	"github.com/goliatone/go-site-feeds/pkg/interfaces"
)

var (
	// ErrFeedNotFound is returned for names missing from the feed definitions.
	ErrFeedNotFound = errors.New("feeds: feed not found")
	// ErrSitemapDisabled is returned by Sitemap when the feature is off.
	ErrSitemapDisabled = errors.New("feeds: sitemap disabled")
	errSourceRequired  = errors.New("feeds: content source is required")
)

// Service describes the feed pipeline contract.
type Service interface {
	Feed(ctx context.Context, name string) (*Document, error)
	Sitemap(ctx context.Context) (*Document, error)
	Invalidate(ctx context.Context) error
	Definitions() []runtimeconfig.FeedDefinition
}

// Document is a rendered feed or sitemap.
type Document struct {
	Name        string
	Path        string
	ContentType string
	Body        string
	Items       int
	GeneratedAt time.Time
}

// Dependencies lists the collaborators used by the service. Only Source is
// required.
type Dependencies struct {
	Source content.Source
	// Assets sizes image enclosures. When nil the source is used if it
	// implements AssetSizer.
	Assets AssetSizer
	Parser interfaces.MarkdownParser
	Cache  interfaces.CacheProvider
	Logger interfaces.Logger
}

// Option customises the service.
type Option func(*service)

// WithClock overrides the time source used for build dates and the "now"
// date policy.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService wires the pipeline with the provided configuration.
func NewService(cfg runtimeconfig.Config, deps Dependencies, opts ...Option) Service {
	s := &service{
		cfg:    cfg,
		source: deps.Source,
		assets: deps.Assets,
		parser: deps.Parser,
		cache:  deps.Cache,
		logger: deps.Logger,
		now:    time.Now,
	}
	if s.assets == nil {
		if sizer, ok := deps.Source.(AssetSizer); ok {
			s.assets = sizer
		}
	}
	if s.parser == nil {
		s.parser = markdown.NewParser(cfg.Markdown)
	}
	if s.cache == nil || !cfg.Cache.Enabled {
		s.cache = noop.Cache()
	}
	if s.logger == nil {
		s.logger = logging.NoOp()
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type service struct {
	cfg     runtimeconfig.Config
	source  content.Source
	assets  AssetSizer
	parser  interfaces.MarkdownParser
	cache   interfaces.CacheProvider
	logger  interfaces.Logger
	now     func() time.Time
	version atomic.Uint64
}

func (s *service) Definitions() []runtimeconfig.FeedDefinition {
	return append([]runtimeconfig.FeedDefinition(nil), s.cfg.Feeds.Definitions...)
}

// Invalidate drops every cached document. Keys issued before the call can no
// longer match because the version stamp moves forward.
func (s *service) Invalidate(ctx context.Context) error {
	version := s.version.Add(1)
	s.logger.Info("feeds.cache.invalidated", "version", version)
	return s.cache.Clear(ctx)
}

func (s *service) Feed(ctx context.Context, name string) (*Document, error) {
	if s.source == nil {
		return nil, errSourceRequired
	}
	def, ok := s.cfg.Feed(strings.TrimSpace(name))
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFeedNotFound, name)
	}
	logger := logging.WithItemContext(s.logger, def.Name, "", "").WithContext(ctx)

	key := s.cacheKey(ctx, logger, func(version uint64, fingerprint string) string {
		return identity.FeedKey(def.Name, version, fingerprint)
	})
	if doc := s.cached(ctx, logger, key); doc != nil {
		return doc, nil
	}

	start := s.now()
	entries, err := s.collect(ctx, logger, def.Collections, def.Limit)
	if err != nil {
		return nil, err
	}
	if err := s.enrichAll(ctx, def, entries); err != nil {
		return nil, err
	}

	fragments := make([]string, len(entries))
	for i, entry := range entries {
		fragments[i] = rss.BuildItem(s.toRSSItem(def, entry))
	}
	generated := s.now().UTC()
	body := rss.BuildDocument(channel(s.cfg, def, entries, generated), fragments)

	doc := &Document{
		Name:        def.Name,
		Path:        def.Path,
		ContentType: rss.ContentType,
		Body:        body,
		Items:       len(entries),
		GeneratedAt: generated,
	}
	s.store(ctx, logger, key, doc)
	logger.Info("feeds.feed.generated", "items", len(entries), "duration", s.now().Sub(start))
	return doc, nil
}

// collect loads the named collections, aggregates them and removes duplicate
// links before applying limit.
func (s *service) collect(ctx context.Context, logger interfaces.Logger, names []string, limit int) ([]content.Entry, error) {
	collections := make([]content.Collection, 0, len(names))
	for _, name := range names {
		collectionCfg, ok := s.cfg.Collection(name)
		if !ok {
			logger.Warn("feeds.collection.unknown", "collection", name)
			continue
		}
		modules, err := s.source.Modules(ctx, collectionCfg.Name)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			logger.Warn("feeds.collection.load_failed", "collection", collectionCfg.Name, "error", err)
			continue
		}
		items, err := content.GetPosts(ctx, modules, content.ExtractOptions{
			Development: s.cfg.Development,
			SlugFunc:    content.DirectorySlug,
			Type:        collectionCfg.Type,
			Logger:      logger,
		})
		if err != nil {
			return nil, err
		}
		collections = append(collections, content.Collection{
			Name:  collectionCfg.Name,
			Type:  collectionCfg.Type,
			Route: collectionCfg.Route,
			Items: items,
		})
	}

	entries := content.Aggregate(collections, content.AggregateOptions{
		Policy: content.ParseDatePolicy(s.cfg.Feeds.InvalidDatePolicy),
		Now:    s.now,
	})

	return dedupe(logger, entries, limit), nil
}

// dedupe keeps the first entry per URL so every GUID stays unique. A source
// listed twice is dropped quietly; two different sources resolving to the
// same URL is a content error and is logged as such.
func dedupe(logger interfaces.Logger, entries []content.Entry, limit int) []content.Entry {
	seen := make(map[string]string, len(entries))
	unique := entries[:0]
	for _, entry := range entries {
		if kept, ok := seen[entry.URL]; ok {
			if kept == entry.Path {
				logger.Debug("feeds.item.duplicate_source", "path", entry.Path)
			} else {
				logger.Error("feeds.item.link_collision",
					"url", entry.URL,
					"kept", kept,
					"dropped", entry.Path,
					"collection", entry.Collection,
				)
			}
			continue
		}
		seen[entry.URL] = entry.Path
		unique = append(unique, entry)
	}
	if limit > 0 && len(unique) > limit {
		unique = unique[:limit]
	}
	return unique
}

// enrichAll renders every entry concurrently. Results are written back by
// index so the sorted order is preserved.
func (s *service) enrichAll(ctx context.Context, def runtimeconfig.FeedDefinition, entries []content.Entry) error {
	group, groupCtx := errgroup.WithContext(ctx)
	if limit := s.cfg.Feeds.Concurrency; limit > 0 {
		group.SetLimit(limit)
	}
	for i := range entries {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			entries[i] = s.enrich(groupCtx, def, entries[i])
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// EmptyFeed renders a well-formed feed without items. HTTP handlers serve it
// when the pipeline cannot produce a document.
func EmptyFeed(cfg runtimeconfig.Config, def runtimeconfig.FeedDefinition, now time.Time) *Document {
	generated := now.UTC()
	return &Document{
		Name:        def.Name,
		Path:        def.Path,
		ContentType: rss.ContentType,
		Body:        rss.BuildDocument(channel(cfg, def, nil, generated), nil),
		GeneratedAt: generated,
	}
}

func channel(cfg runtimeconfig.Config, def runtimeconfig.FeedDefinition, entries []content.Entry, generated time.Time) rss.Channel {
	site := cfg.Site
	contact := rss.Contact(site.Email, site.Author)
	pubDate := generated
	if len(entries) > 0 {
		pubDate = entries[0].SortDate
	}
	return rss.Channel{
		Title:          def.Title,
		Description:    def.Description,
		Link:           absoluteURL(site.BaseURL, def.Link),
		FeedURL:        absoluteURL(site.BaseURL, def.Path),
		Language:       site.Language,
		ManagingEditor: contact,
		WebMaster:      contact,
		LastBuildDate:  generated,
		PubDate:        pubDate,
		TTL:            cfg.Feeds.TTL,
		Generator:      cfg.Feeds.Generator,
	}
}

// cacheKey returns "" when the content fingerprint cannot be computed, which
// bypasses the cache for this render.
func (s *service) cacheKey(ctx context.Context, logger interfaces.Logger, build func(uint64, string) string) string {
	fingerprint, err := s.source.Fingerprint(ctx)
	if err != nil {
		logger.Warn("feeds.cache.fingerprint_failed", "error", err)
		return ""
	}
	return build(s.version.Load(), fingerprint)
}

func (s *service) cached(ctx context.Context, logger interfaces.Logger, key string) *Document {
	if key == "" {
		return nil
	}
	value, err := s.cache.Get(ctx, key)
	if err != nil {
		logger.Warn("feeds.cache.get_failed", "key", key, "error", err)
		return nil
	}
	doc, ok := value.(Document)
	if !ok {
		return nil
	}
	logger.Debug("feeds.cache.hit", "key", key)
	return &doc
}

func (s *service) store(ctx context.Context, logger interfaces.Logger, key string, doc *Document) {
	if key == "" || doc == nil {
		return
	}
	if err := s.cache.Set(ctx, key, *doc, s.cfg.Cache.DefaultTTL); err != nil {
		logger.Warn("feeds.cache.set_failed", "key", key, "error", err)
	}
}

func absoluteURL(base, route string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		base = "http://localhost"
	}
	route = strings.TrimSpace(route)
	if route == "" || route == "/" {
		return base
	}
	if strings.HasPrefix(route, "http://") || strings.HasPrefix(route, "https://") {
		return route
	}
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	return base + route
}
