package feeds

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-site-feeds/internal/identity"
	"github.com/goliatone/go-site-feeds/internal/logging"
	"github.com/goliatone/go-site-feeds/internal/rss"
	"github.com/goliatone/go-site-feeds/internal/runtimeconfig"
)

// SitemapContentType is served with sitemap documents.
const SitemapContentType = "application/xml"

type sitemapEntry struct {
	Location   string
	LastMod    time.Time
	ChangeFreq string
	Priority   string
}

// Sitemap renders the static pages followed by every item of the configured
// sitemap collections, newest first.
func (s *service) Sitemap(ctx context.Context) (*Document, error) {
	if !s.cfg.Features.Sitemap {
		return nil, ErrSitemapDisabled
	}
	if s.source == nil {
		return nil, errSourceRequired
	}
	logger := logging.WithItemContext(s.logger, "sitemap", "", "").WithContext(ctx)

	key := s.cacheKey(ctx, logger, identity.SitemapKey)
	if doc := s.cached(ctx, logger, key); doc != nil {
		return doc, nil
	}

	entries, err := s.collect(ctx, logger, s.cfg.Sitemap.Collections, 0)
	if err != nil {
		return nil, err
	}

	generated := s.now().UTC()
	urls := make([]sitemapEntry, 0, len(s.cfg.Sitemap.StaticPages)+len(entries))
	for _, page := range s.cfg.Sitemap.StaticPages {
		urls = append(urls, sitemapEntry{
			Location:   absoluteURL(s.cfg.Site.BaseURL, page.Path),
			LastMod:    generated,
			ChangeFreq: page.ChangeFreq,
			Priority:   page.Priority,
		})
	}
	for _, entry := range entries {
		urls = append(urls, sitemapEntry{
			Location:   absoluteURL(s.cfg.Site.BaseURL, entry.URL),
			LastMod:    entry.SortDate,
			ChangeFreq: s.cfg.Sitemap.ItemChangeFreq,
			Priority:   s.cfg.Sitemap.ItemPriority,
		})
	}

	doc := &Document{
		Name:        "sitemap",
		Path:        s.cfg.Sitemap.Path,
		ContentType: SitemapContentType,
		Body:        buildSitemap(urls),
		Items:       len(urls),
		GeneratedAt: generated,
	}
	s.store(ctx, logger, key, doc)
	logger.Info("feeds.sitemap.generated", "urls", len(urls))
	return doc, nil
}

// EmptySitemap renders a well-formed sitemap without URLs.
func EmptySitemap(cfg runtimeconfig.Config, now time.Time) *Document {
	return &Document{
		Name:        "sitemap",
		Path:        cfg.Sitemap.Path,
		ContentType: SitemapContentType,
		Body:        buildSitemap(nil),
		GeneratedAt: now.UTC(),
	}
}

func buildSitemap(entries []sitemapEntry) string {
	var builder strings.Builder
	builder.WriteString(rss.Declaration + "\n")
	builder.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">` + "\n")
	for _, entry := range entries {
		builder.WriteString("  <url>\n")
		builder.WriteString("    <loc>" + rss.EscapeXML(entry.Location) + "</loc>\n")
		if !entry.LastMod.IsZero() {
			builder.WriteString("    <lastmod>" + entry.LastMod.UTC().Format(time.DateOnly) + "</lastmod>\n")
		}
		if entry.ChangeFreq != "" {
			builder.WriteString("    <changefreq>" + rss.EscapeXML(entry.ChangeFreq) + "</changefreq>\n")
		}
		if entry.Priority != "" {
			builder.WriteString("    <priority>" + rss.EscapeXML(entry.Priority) + "</priority>\n")
		}
		builder.WriteString("  </url>\n")
	}
	builder.WriteString("</urlset>\n")
	return builder.String()
}

// BuildRobots renders a robots.txt allowing every crawler and, when a sitemap
// path is given, pointing at it.
func BuildRobots(baseURL, sitemapPath string) string {
	var builder strings.Builder
	builder.WriteString("User-agent: *\n")
	builder.WriteString("Allow: /\n")
	if strings.TrimSpace(sitemapPath) != "" {
		builder.WriteString("\n")
		builder.WriteString("Sitemap: " + absoluteURL(baseURL, sitemapPath) + "\n")
	}
	return builder.String()
}
