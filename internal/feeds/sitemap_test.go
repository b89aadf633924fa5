package feeds

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-site-feeds/internal/rss"
)

func TestSitemap(t *testing.T) {
	svc := newTestService(t, testConfig(), Dependencies{})
	doc, err := svc.Sitemap(context.Background())
	if err != nil {
		t.Fatalf("Sitemap: %v", err)
	}
	if doc.ContentType != SitemapContentType {
		t.Fatalf("unexpected content type %q", doc.ContentType)
	}

	for _, want := range []string{
		"<loc>https://techquests.dev</loc>\n    <lastmod>2024-06-01</lastmod>\n    <changefreq>monthly</changefreq>\n    <priority>1.0</priority>",
		"<loc>https://techquests.dev/about</loc>",
		"<loc>https://techquests.dev/blog/alpha</loc>\n    <lastmod>2024-01-01</lastmod>\n    <changefreq>yearly</changefreq>\n    <priority>0.6</priority>",
	} {
		if !strings.Contains(doc.Body, want) {
			t.Fatalf("expected %q in sitemap:\n%s", want, doc.Body)
		}
	}
	if strings.Contains(doc.Body, "/projects/beta") || strings.Contains(doc.Body, "/blog/draft") {
		t.Fatalf("unexpected entries in sitemap:\n%s", doc.Body)
	}
	if doc.Items != 6 {
		t.Fatalf("expected 6 urls, got %d", doc.Items)
	}
}

func TestSitemapDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Features.Sitemap = false
	svc := newTestService(t, cfg, Dependencies{})
	if _, err := svc.Sitemap(context.Background()); !errors.Is(err, ErrSitemapDisabled) {
		t.Fatalf("expected ErrSitemapDisabled, got %v", err)
	}
}

func TestBuildRobots(t *testing.T) {
	got := BuildRobots("https://techquests.dev/", "/sitemap.xml")
	want := "User-agent: *\nAllow: /\n\nSitemap: https://techquests.dev/sitemap.xml\n"
	if got != want {
		t.Fatalf("unexpected robots:\n%s", got)
	}
	if got := BuildRobots("https://techquests.dev", ""); strings.Contains(got, "Sitemap") {
		t.Fatalf("expected no sitemap line, got %q", got)
	}
}

func TestEmptyDocumentsAreWellFormed(t *testing.T) {
	cfg := testConfig()
	def, _ := cfg.Feed("blog")
	feed := EmptyFeed(cfg, def, fixedNow)
	if err := rss.Validate(feed.Body); err != nil {
		t.Fatalf("invalid empty feed: %v", err)
	}
	if !strings.Contains(feed.Body, "<link>https://techquests.dev/blog</link>") {
		t.Fatalf("expected channel link:\n%s", feed.Body)
	}

	sitemap := EmptySitemap(cfg, fixedNow)
	want := rss.Declaration + "\n" + `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">` + "\n</urlset>\n"
	if sitemap.Body != want {
		t.Fatalf("unexpected empty sitemap:\n%s", sitemap.Body)
	}
}
