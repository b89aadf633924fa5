package generator_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-site-feeds/internal/feeds"
	"github.com/goliatone/go-site-feeds/internal/runtimeconfig"
	"github.com/goliatone/go-site-feeds/pkg/generator"
)

type staticFeeds struct{}

func (staticFeeds) Feed(_ context.Context, name string) (*feeds.Document, error) {
	return &feeds.Document{Name: name, Path: "/" + name + ".xml", ContentType: "application/rss+xml", Body: "<rss/>", GeneratedAt: time.Unix(0, 0)}, nil
}

func (staticFeeds) Sitemap(context.Context) (*feeds.Document, error) {
	return nil, feeds.ErrSitemapDisabled
}

func (staticFeeds) Invalidate(context.Context) error { return nil }

func (staticFeeds) Definitions() []runtimeconfig.FeedDefinition {
	return []runtimeconfig.FeedDefinition{{Name: "blog", Path: "/blog.xml"}}
}

func TestPublicServiceBuildsIntoOutputDir(t *testing.T) {
	dir := t.TempDir()
	svc := generator.NewService(generator.Config{OutputDir: dir, BaseURL: "https://example.com"}, generator.Dependencies{Feeds: staticFeeds{}})

	result, err := svc.Build(context.Background(), generator.BuildOptions{Feeds: []string{"blog"}})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(result.Written) != 1 {
		t.Fatalf("expected one artifact, got %d", len(result.Written))
	}
	data, err := os.ReadFile(filepath.Join(dir, "blog.xml"))
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if string(data) != "<rss/>" {
		t.Fatalf("unexpected artifact body %q", data)
	}
}
