package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-site-feeds/internal/feeds"
	"github.com/goliatone/go-site-feeds/internal/logging"
	"github.com/goliatone/go-site-feeds/internal/runtimeconfig"
	"github.com/goliatone/go-site-feeds/pkg/interfaces"
)

const robotsContentType = "text/plain; charset=utf-8"

// FeedsAPI serves rendered feeds and the sitemap. Pipeline failures never
// surface as 5xx: the handler logs them and serves an empty, well-formed
// document instead.
type FeedsAPI struct {
	service feeds.Service
	cfg     runtimeconfig.Config
	logger  interfaces.Logger
	now     func() time.Time
}

// FeedsOption mutates the FeedsAPI configuration.
type FeedsOption func(*FeedsAPI)

// NewFeedsAPI constructs a FeedsAPI over service. The default configuration
// matches runtimeconfig.DefaultConfig.
func NewFeedsAPI(service feeds.Service, opts ...FeedsOption) *FeedsAPI {
	api := &FeedsAPI{
		service: service,
		cfg:     runtimeconfig.DefaultConfig(),
		logger:  logging.NoOp(),
		now:     nowUTC,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// WithConfig supplies the site, sitemap and cache header settings.
func WithConfig(cfg runtimeconfig.Config) FeedsOption {
	return func(api *FeedsAPI) {
		if api != nil {
			api.cfg = cfg
		}
	}
}

// WithLogger wires the request logger.
func WithLogger(logger interfaces.Logger) FeedsOption {
	return func(api *FeedsAPI) {
		if api != nil && logger != nil {
			api.logger = logger
		}
	}
}

// WithClock overrides the time used for fallback documents.
func WithClock(now func() time.Time) FeedsOption {
	return func(api *FeedsAPI) {
		if api != nil && now != nil {
			api.now = now
		}
	}
}

// Register mounts a GET route for every feed definition plus the sitemap
// routes when enabled.
func (api *FeedsAPI) Register(mux *http.ServeMux) {
	if api == nil || mux == nil || api.service == nil {
		return
	}
	for _, def := range api.service.Definitions() {
		route := routePath(def.Path)
		mux.HandleFunc("GET "+route, api.handleFeed(def))
		api.logger.Debug("http.route.registered", "route", route, "feed", def.Name)
	}
	if api.cfg.Features.Sitemap {
		mux.HandleFunc("GET "+routePath(api.cfg.Sitemap.Path), api.handleSitemap)
		mux.HandleFunc("GET /robots.txt", api.handleRobots)
	}
}

func (api *FeedsAPI) handleFeed(def runtimeconfig.FeedDefinition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := requestContext(r)
		logger := logging.WithItemContext(api.logger, def.Name, "", "").WithContext(ctx)

		doc, err := api.service.Feed(ctx, def.Name)
		if err != nil {
			if clientGone(ctx) {
				logger.Debug("http.feed.client_gone", "error", err)
				return
			}
			logger.Error("http.feed.failed", "error", err)
			doc = feeds.EmptyFeed(api.cfg, def, api.now())
		}
		writeDocument(w, r, doc, api.cfg.Feeds.CacheControl)
		logger.Info("http.feed.served", "path", r.URL.Path, "items", doc.Items, "bytes", len(doc.Body))
	}
}

func (api *FeedsAPI) handleSitemap(w http.ResponseWriter, r *http.Request) {
	ctx := requestContext(r)
	logger := api.logger.WithContext(ctx)

	doc, err := api.service.Sitemap(ctx)
	if err != nil {
		if clientGone(ctx) {
			logger.Debug("http.sitemap.client_gone", "error", err)
			return
		}
		logger.Error("http.sitemap.failed", "error", err)
		doc = feeds.EmptySitemap(api.cfg, api.now())
	}
	writeDocument(w, r, doc, api.cfg.Feeds.CacheControl)
	logger.Info("http.sitemap.served", "urls", doc.Items)
}

func (api *FeedsAPI) handleRobots(w http.ResponseWriter, r *http.Request) {
	doc := &feeds.Document{
		Name:        "robots",
		ContentType: robotsContentType,
		Body:        feeds.BuildRobots(api.cfg.Site.BaseURL, api.cfg.Sitemap.Path),
	}
	writeDocument(w, r, doc, api.cfg.Feeds.CacheControl)
}

func routePath(p string) string {
	trimmed := strings.TrimSpace(p)
	if trimmed == "" {
		return "/"
	}
	return "/" + strings.TrimLeft(trimmed, "/")
}
