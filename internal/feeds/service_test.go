package feeds

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"

	"go.uber.org/goleak"

	"github.com/goliatone/go-site-feeds/internal/cache"
	"github.com/goliatone/go-site-feeds/internal/content"
	"github.com/goliatone/go-site-feeds/internal/markdown"
	"github.com/goliatone/go-site-feeds/internal/rss"
	"github.com/goliatone/go-site-feeds/internal/runtimeconfig"
	"github.com/goliatone/go-site-feeds/pkg/interfaces"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func testConfig() runtimeconfig.Config {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Feeds.Footer = false
	cfg.Cache.Enabled = false
	return cfg
}

func post(frontMatter, body string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte("---\n" + frontMatter + "\n---\n" + body + "\n")}
}

func siteFS() fstest.MapFS {
	return fstest.MapFS{
		"blog/alpha/+page.md": post("title: Alpha\ndate: \"2024-01-01\"\ndescription: First post\npublished: true\ntags: [go, rss]", "# Alpha\n\nHello **world**."),
		"blog/draft/+page.md": post("title: Draft\ndate: \"2024-03-01\"\npublished: false", "Not yet."),
		"projects/beta/+page.md": post(
			"name: Beta\ndate: \"2024-02-01\"\ndescription: A project\npublished: true\nwebsite: https://beta.example.com\ngithub: https://github.com/example/beta\nthumbnail: cover.png",
			"Project body.",
		),
		"projects/beta/cover.png": &fstest.MapFile{Data: make([]byte, 2048)},
	}
}

func newTestService(t *testing.T, cfg runtimeconfig.Config, deps Dependencies) Service {
	t.Helper()
	if deps.Source == nil {
		deps.Source = markdown.NewLoader(siteFS(), markdown.LoaderConfig{})
	}
	return NewService(cfg, deps, WithClock(clock))
}

func TestFeedCombinedOrdersNewestFirst(t *testing.T) {
	defer goleak.VerifyNone(t)

	svc := newTestService(t, testConfig(), Dependencies{})
	doc, err := svc.Feed(context.Background(), "all")
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if doc.ContentType != rss.ContentType {
		t.Fatalf("unexpected content type %q", doc.ContentType)
	}
	if err := rss.Validate(doc.Body); err != nil {
		t.Fatalf("invalid feed: %v\n%s", err, doc.Body)
	}

	feed, err := rss.Parse(doc.Body)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(feed.Items) != 2 {
		t.Fatalf("expected 2 published items, got %d", len(feed.Items))
	}

	project, blog := feed.Items[0], feed.Items[1]
	if project.Title != "[Project] Beta" {
		t.Fatalf("expected project first with prefix, got %q", project.Title)
	}
	if project.Link != "https://techquests.dev/projects/beta" || project.GUID != project.Link {
		t.Fatalf("unexpected project link/guid %q %q", project.Link, project.GUID)
	}
	if blog.Title != "Alpha" {
		t.Fatalf("expected blog second, got %q", blog.Title)
	}
	if got := strings.Join(blog.Categories, ","); got != "Blog,go,rss" {
		t.Fatalf("unexpected blog categories %q", got)
	}
	if got := strings.Join(project.Categories, ","); got != "Projects" {
		t.Fatalf("unexpected project categories %q", got)
	}
	if !strings.Contains(blog.Content, "<strong>world</strong>") {
		t.Fatalf("expected rendered markdown, got %q", blog.Content)
	}
	if feed.Title != "Tech Quests - All Content" {
		t.Fatalf("unexpected channel title %q", feed.Title)
	}
	if !strings.Contains(doc.Body, "<pubDate>Thu, 01 Feb 2024 00:00:00 GMT</pubDate>\n    <ttl>") {
		t.Fatalf("expected channel pubDate of newest item:\n%s", doc.Body)
	}
	if !strings.Contains(doc.Body, "<comments>https://beta.example.com</comments>") {
		t.Fatal("expected project website as comments")
	}
	if !strings.Contains(doc.Body, `<source url="https://github.com/example/beta">GitHub</source>`) {
		t.Fatal("expected project source element")
	}
}

func TestFeedSingleCollection(t *testing.T) {
	svc := newTestService(t, testConfig(), Dependencies{})
	doc, err := svc.Feed(context.Background(), "projects")
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	feed, err := rss.Parse(doc.Body)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(feed.Items) != 1 || feed.Items[0].Title != "Beta" {
		t.Fatalf("expected unprefixed project item, got %+v", feed.Items)
	}
	if doc.Items != 1 || doc.Path != "/projects/rss.xml" {
		t.Fatalf("unexpected document %+v", doc)
	}
}

func TestFeedDevelopmentIncludesDrafts(t *testing.T) {
	cfg := testConfig()
	cfg.Development = true
	svc := newTestService(t, cfg, Dependencies{})

	doc, err := svc.Feed(context.Background(), "blog")
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if doc.Items != 2 {
		t.Fatalf("expected draft to be included, got %d items", doc.Items)
	}
}

func TestFeedEnclosure(t *testing.T) {
	svc := newTestService(t, testConfig(), Dependencies{})
	doc, err := svc.Feed(context.Background(), "projects")
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	feed, _ := rss.Parse(doc.Body)
	enclosures := feed.Items[0].Enclosures
	if len(enclosures) != 1 {
		t.Fatalf("expected one enclosure, got %d", len(enclosures))
	}
	enc := enclosures[0]
	if enc.URL != "https://techquests.dev/content/projects/beta/cover.png" || enc.Type != "image/png" || enc.Length != "2048" {
		t.Fatalf("unexpected enclosure %+v", enc)
	}
}

func TestFeedMissingImageOmitsEnclosure(t *testing.T) {
	files := siteFS()
	delete(files, "projects/beta/cover.png")
	svc := newTestService(t, testConfig(), Dependencies{
		Source: markdown.NewLoader(files, markdown.LoaderConfig{}),
	})

	doc, err := svc.Feed(context.Background(), "projects")
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if strings.Contains(doc.Body, "<enclosure") {
		t.Fatalf("expected no enclosure:\n%s", doc.Body)
	}
}

func TestFeedEscapesText(t *testing.T) {
	files := fstest.MapFS{
		"blog/tricky/+page.md": post(`title: "Tom & Jerry <3 \"quotes\""`+"\ndate: \"2024-01-01\"\npublished: true\ndescription: \"a < b & c > d\"", "Body."),
	}
	svc := newTestService(t, testConfig(), Dependencies{
		Source: markdown.NewLoader(files, markdown.LoaderConfig{}),
	})

	doc, err := svc.Feed(context.Background(), "blog")
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if !strings.Contains(doc.Body, "<title>Tom &amp; Jerry &lt;3 &quot;quotes&quot;</title>") {
		t.Fatalf("expected escaped title:\n%s", doc.Body)
	}
	feed, err := rss.Parse(doc.Body)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if feed.Items[0].Title != `Tom & Jerry <3 "quotes"` || feed.Items[0].Description != "a < b & c > d" {
		t.Fatalf("unexpected round-trip %q %q", feed.Items[0].Title, feed.Items[0].Description)
	}
}

func TestFeedEmptyCollection(t *testing.T) {
	svc := newTestService(t, testConfig(), Dependencies{
		Source: markdown.NewLoader(fstest.MapFS{}, markdown.LoaderConfig{}),
	})

	doc, err := svc.Feed(context.Background(), "all")
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if err := rss.Validate(doc.Body); err != nil {
		t.Fatalf("invalid empty feed: %v", err)
	}
	if doc.Items != 0 || strings.Contains(doc.Body, "<item>") {
		t.Fatalf("expected no items:\n%s", doc.Body)
	}
	if !strings.Contains(doc.Body, "<pubDate>"+rss.FormatDate(fixedNow)+"</pubDate>") {
		t.Fatalf("expected pubDate to fall back to now:\n%s", doc.Body)
	}
}

func TestFeedLimit(t *testing.T) {
	files := fstest.MapFS{}
	for i := 0; i < 30; i++ {
		files[fmt.Sprintf("blog/post-%02d/+page.md", i)] = post(
			fmt.Sprintf("title: Post %d\ndate: \"2024-01-%02d\"\npublished: true", i, i+1), "Body.")
	}
	svc := newTestService(t, testConfig(), Dependencies{
		Source: markdown.NewLoader(files, markdown.LoaderConfig{}),
	})

	doc, err := svc.Feed(context.Background(), "all")
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if doc.Items != 25 {
		t.Fatalf("expected 25 items, got %d", doc.Items)
	}
	feed, _ := rss.Parse(doc.Body)
	if feed.Items[0].Title != "Post 29" || feed.Items[24].Title != "Post 5" {
		t.Fatalf("expected the 25 newest posts, got %q .. %q", feed.Items[0].Title, feed.Items[24].Title)
	}
}

func TestFeedIndexLayoutKeepsEveryPost(t *testing.T) {
	files := fstest.MapFS{
		"blog/first-post/index.md":  post("title: First\ndate: \"2024-05-01\"\npublished: true", "One."),
		"blog/second-post/index.md": post("title: Second\ndate: \"2024-05-10\"\npublished: true", "Two."),
		"blog/hidden/index.md":      post("title: Hidden\ndate: \"2024-05-20\"\npublished: false", "Three."),
	}
	svc := newTestService(t, testConfig(), Dependencies{
		Source: markdown.NewLoader(files, markdown.LoaderConfig{}),
	})

	doc, err := svc.Feed(context.Background(), "blog")
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	feed, err := rss.Parse(doc.Body)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(feed.Items) != 2 {
		t.Fatalf("expected both published posts, got %d", len(feed.Items))
	}
	if feed.Items[0].Link != "https://techquests.dev/blog/second-post" || feed.Items[1].Link != "https://techquests.dev/blog/first-post" {
		t.Fatalf("expected links from item directories, got %q and %q", feed.Items[0].Link, feed.Items[1].Link)
	}
}

func TestFeedLogsLinkCollision(t *testing.T) {
	files := fstest.MapFS{
		"blog/shared/index.md": post("title: Index\ndate: \"2024-05-10\"\npublished: true", "One."),
		"blog/shared/notes.md": post("title: Notes\ndate: \"2024-05-01\"\npublished: true", "Two."),
	}
	logger := &recordingLogger{}
	svc := newTestService(t, testConfig(), Dependencies{
		Source: markdown.NewLoader(files, markdown.LoaderConfig{}),
		Logger: logger,
	})

	doc, err := svc.Feed(context.Background(), "blog")
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if doc.Items != 1 {
		t.Fatalf("expected colliding link emitted once, got %d items", doc.Items)
	}
	if !logger.hasError("feeds.item.link_collision") {
		t.Fatal("expected link collision to be logged as an error")
	}
}

func TestFeedUnknownName(t *testing.T) {
	svc := newTestService(t, testConfig(), Dependencies{})
	if _, err := svc.Feed(context.Background(), "missing"); !errors.Is(err, ErrFeedNotFound) {
		t.Fatalf("expected ErrFeedNotFound, got %v", err)
	}
}

func TestFeedRequiresSource(t *testing.T) {
	svc := NewService(testConfig(), Dependencies{})
	if _, err := svc.Feed(context.Background(), "all"); !errors.Is(err, errSourceRequired) {
		t.Fatalf("expected errSourceRequired, got %v", err)
	}
}

func TestFeedCancelledContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc := newTestService(t, testConfig(), Dependencies{})
	if _, err := svc.Feed(ctx, "all"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

type countingSource struct {
	content.Source
	modules atomic.Int32
}

func (c *countingSource) Modules(ctx context.Context, collection string) ([]content.Module, error) {
	c.modules.Add(1)
	return c.Source.Modules(ctx, collection)
}

func TestFeedCachesUntilInvalidated(t *testing.T) {
	cfg := testConfig()
	cfg.Cache.Enabled = true
	source := &countingSource{Source: markdown.NewLoader(siteFS(), markdown.LoaderConfig{})}
	svc := newTestService(t, cfg, Dependencies{
		Source: source,
		Cache:  cache.NewMemory(8, time.Hour),
	})
	ctx := context.Background()

	first, err := svc.Feed(ctx, "blog")
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	second, err := svc.Feed(ctx, "blog")
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if first.Body != second.Body {
		t.Fatal("expected cached body")
	}
	if got := source.modules.Load(); got != 1 {
		t.Fatalf("expected one load, got %d", got)
	}

	if err := svc.Invalidate(ctx); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if _, err := svc.Feed(ctx, "blog"); err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if got := source.modules.Load(); got != 2 {
		t.Fatalf("expected reload after invalidation, got %d", got)
	}
}

func TestFeedCacheIgnoredWhenDisabled(t *testing.T) {
	source := &countingSource{Source: markdown.NewLoader(siteFS(), markdown.LoaderConfig{})}
	svc := newTestService(t, testConfig(), Dependencies{
		Source: source,
		Cache:  cache.NewMemory(8, time.Hour),
	})
	for i := 0; i < 2; i++ {
		if _, err := svc.Feed(context.Background(), "blog"); err != nil {
			t.Fatalf("Feed: %v", err)
		}
	}
	if got := source.modules.Load(); got != 2 {
		t.Fatalf("expected every call to load, got %d", got)
	}
}

func TestDefinitionsReturnsCopy(t *testing.T) {
	svc := newTestService(t, testConfig(), Dependencies{})
	defs := svc.Definitions()
	if len(defs) != 3 {
		t.Fatalf("expected 3 definitions, got %d", len(defs))
	}
	defs[0].Name = "changed"
	if svc.Definitions()[0].Name != "all" {
		t.Fatal("expected definitions to be copied")
	}
}

var _ interfaces.MarkdownParser = failingParser{}
