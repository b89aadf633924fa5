package content

import (
	"context"
	"errors"
	"testing"
	"time"
)

func staticModule(path string, meta Metadata) Module {
	return Module{Path: path, Load: func(context.Context) (Metadata, error) { return meta, nil }}
}

func TestGetPosts_DevelopmentIncludesEverything(t *testing.T) {
	modules := []Module{
		staticModule("/blog/post1.md", Metadata{"title": "Test Post 1", "date": "2023-01-01", "published": true}),
		staticModule("/blog/post2.md", Metadata{"title": "Draft", "published": false}),
		staticModule("/blog/post3.md", Metadata{"title": "No flag"}),
	}

	items, err := GetPosts(context.Background(), modules, ExtractOptions{Development: true})
	if err != nil {
		t.Fatalf("GetPosts returned error: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[0].Slug != "post1" || items[1].Slug != "post2" || items[2].Slug != "post3" {
		t.Fatalf("expected input order to be preserved, got %q %q %q", items[0].Slug, items[1].Slug, items[2].Slug)
	}
	if items[0].Title != "Test Post 1" || items[0].Date != "2023-01-01" || !items[0].Published {
		t.Fatalf("unexpected item %+v", items[0])
	}
}

func TestGetPosts_ProductionKeepsOnlyStrictlyPublished(t *testing.T) {
	modules := []Module{
		staticModule("/blog/published.md", Metadata{"published": true}),
		staticModule("/blog/unpublished.md", Metadata{"published": false}),
		staticModule("/blog/missing.md", Metadata{"title": "Post without published field"}),
		staticModule("/blog/stringy.md", Metadata{"published": "true"}),
		staticModule("/blog/numeric.md", Metadata{"published": 1}),
	}

	items, err := GetPosts(context.Background(), modules, ExtractOptions{})
	if err != nil {
		t.Fatalf("GetPosts returned error: %v", err)
	}
	if len(items) != 1 || items[0].Slug != "published" {
		t.Fatalf("expected only the published item, got %+v", items)
	}
}

func TestGetPosts_EmptyInput(t *testing.T) {
	for _, dev := range []bool{true, false} {
		items, err := GetPosts(context.Background(), nil, ExtractOptions{Development: dev})
		if err != nil {
			t.Fatalf("GetPosts returned error: %v", err)
		}
		if len(items) != 0 {
			t.Fatalf("expected no items, got %d", len(items))
		}
	}
}

func TestGetPosts_SkipsFailedLoaders(t *testing.T) {
	modules := []Module{
		{Path: "/blog/broken.md", Load: func(context.Context) (Metadata, error) { return nil, errors.New("bad yaml") }},
		staticModule("/blog/ok.md", Metadata{"published": true}),
	}

	items, err := GetPosts(context.Background(), modules, ExtractOptions{})
	if err != nil {
		t.Fatalf("GetPosts returned error: %v", err)
	}
	if len(items) != 1 || items[0].Slug != "ok" {
		t.Fatalf("expected broken module to be skipped, got %+v", items)
	}
}

func TestGetPosts_HonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := GetPosts(ctx, []Module{staticModule("/blog/a.md", Metadata{"published": true})}, ExtractOptions{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestGetPosts_UsesSlugFuncAndType(t *testing.T) {
	modules := []Module{staticModule("blog/hello/+page.md", Metadata{"published": true})}

	items, err := GetPosts(context.Background(), modules, ExtractOptions{SlugFunc: DirectorySlug, Type: TypeBlog})
	if err != nil {
		t.Fatalf("GetPosts returned error: %v", err)
	}
	if items[0].Slug != "hello" || items[0].Type != TypeBlog {
		t.Fatalf("unexpected item %+v", items[0])
	}
}

func TestFromMetadata_NormalisesValues(t *testing.T) {
	meta := Metadata{
		"name":      "Homelab",
		"date":      time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC),
		"tags":      []any{"go", " ", "rss"},
		"website":   "https://example.com",
		"github":    "https://github.com/example/homelab",
		"thumbnail": "cover.png",
		"featured":  true,
	}

	item := FromMetadata("/projects/homelab/homelab.md", "homelab", meta)
	if item.Date != "2023-02-01" {
		t.Fatalf("expected short date, got %q", item.Date)
	}
	if len(item.Tags) != 2 || item.Tags[0] != "go" || item.Tags[1] != "rss" {
		t.Fatalf("unexpected tags %v", item.Tags)
	}
	if item.GitHub == "" || item.Website == "" || item.Thumbnail != "cover.png" {
		t.Fatalf("expected project fields to be copied, got %+v", item)
	}
	if item.Extra["featured"] != true {
		t.Fatalf("expected unknown keys in Extra, got %v", item.Extra)
	}
	if item.ImageFile("thumbnail") != "cover.png" || item.ImageFile("featured") != "" {
		t.Fatal("unexpected ImageFile resolution")
	}
}

func TestItemDisplayName(t *testing.T) {
	cases := []struct {
		item Item
		want string
	}{
		{Item{Name: "Name", Title: "Title"}, "Name"},
		{Item{Title: "Title"}, "Title"},
		{Item{Slug: "homelab-chapter-1"}, "Homelab Chapter 1"},
		{Item{}, "Untitled"},
	}
	for _, tc := range cases {
		if got := tc.item.DisplayName(); got != tc.want {
			t.Fatalf("DisplayName() = %q, want %q", got, tc.want)
		}
	}
}
