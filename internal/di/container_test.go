package di_test

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	feedscmd "github.com/goliatone/go-site-feeds/internal/commands/feeds"
	"github.com/goliatone/go-site-feeds/internal/di"
	"github.com/goliatone/go-site-feeds/internal/logging/gologger"
	"github.com/goliatone/go-site-feeds/internal/runtimeconfig"
	"github.com/goliatone/go-site-feeds/pkg/interfaces"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func siteFS() fstest.MapFS {
	return fstest.MapFS{
		"blog/alpha/index.md": {Data: []byte("---\ntitle: Alpha\ndate: 2024-05-01\npublished: true\ntags: [go]\n---\n# Alpha\n\nHello **world**.\n")},
		"projects/beta/index.md": {Data: []byte("---\nname: Beta\ndate: 2024-04-01\npublished: true\n---\nBeta body.\n")},
	}
}

func testConfig() runtimeconfig.Config {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Feeds.Footer = false
	return cfg
}

func TestContainerLogsConfigurationThroughProvider(t *testing.T) {
	rec := newRecordingProvider()

	if _, err := di.NewContainer(testConfig(), di.WithLoggerProvider(rec), di.WithContentFS(siteFS())); err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	entry := rec.find("container.configured")
	if entry == nil {
		t.Fatalf("expected container.configured log entry, got %#v", rec.entries)
	}
	if got := entry.fields["module"]; got != "sitefeeds" {
		t.Fatalf("expected module field sitefeeds, got %v", got)
	}
	if got := entry.fields["feed_count"]; got != 3 {
		t.Fatalf("expected feed_count 3, got %v", got)
	}
}

func TestContainerRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Site.BaseURL = ""
	if _, err := di.NewContainer(cfg); err != runtimeconfig.ErrSiteBaseURLRequired {
		t.Fatalf("expected ErrSiteBaseURLRequired, got %v", err)
	}
}

func TestContainerSelectsGoLoggerProvider(t *testing.T) {
	cfg := testConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Format = "json"

	container, err := di.NewContainer(cfg, di.WithContentFS(siteFS()))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if _, ok := container.LoggerProvider().(*gologger.Provider); !ok {
		t.Fatalf("expected gologger provider, got %T", container.LoggerProvider())
	}
}

func TestContainerLeavesLoggingDisabledByDefault(t *testing.T) {
	container, err := di.NewContainer(testConfig(), di.WithContentFS(siteFS()))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if container.LoggerProvider() != nil {
		t.Fatalf("expected nil provider, got %T", container.LoggerProvider())
	}
}

func TestContainerRendersFeedsFromContentFS(t *testing.T) {
	container, err := di.NewContainer(testConfig(),
		di.WithContentFS(siteFS()),
		di.WithClock(func() time.Time { return fixedNow }),
	)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	doc, err := container.FeedService().Feed(context.Background(), "all")
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if doc.Items != 2 {
		t.Fatalf("expected 2 items, got %d", doc.Items)
	}
	if !strings.Contains(doc.Body, "<strong>world</strong>") {
		t.Fatalf("expected rendered markdown in body:\n%s", doc.Body)
	}
	if !strings.Contains(doc.Body, "[Project] Beta") {
		t.Fatalf("expected project title prefix in combined feed:\n%s", doc.Body)
	}
}

type recordingRegistry struct {
	handlers []any
}

func (r *recordingRegistry) RegisterCommand(handler any) error {
	r.handlers = append(r.handlers, handler)
	return nil
}

func TestContainerRegistersCommands(t *testing.T) {
	reg := &recordingRegistry{}
	container, err := di.NewContainer(testConfig(), di.WithContentFS(siteFS()), di.WithCommandRegistry(reg))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if len(reg.handlers) != 3 {
		t.Fatalf("expected three registered handlers, got %d", len(reg.handlers))
	}

	set := container.Commands()
	if err := set.Lint.Execute(context.Background(), feedscmd.LintContentCommand{}); err != nil {
		t.Fatalf("lint fixture content: %v", err)
	}
	if err := set.Invalidate.Execute(context.Background(), feedscmd.InvalidateCacheCommand{Reason: "test"}); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
}

type recordingProvider struct {
	entries []recordedEntry
}

type recordedEntry struct {
	level  string
	msg    string
	fields map[string]any
}

func newRecordingProvider() *recordingProvider {
	return &recordingProvider{entries: []recordedEntry{}}
}

func (p *recordingProvider) GetLogger(name string) interfaces.Logger {
	return &recordingLogger{
		provider: p,
		fields: map[string]any{
			"logger": name,
		},
	}
}

func (p *recordingProvider) record(entry recordedEntry) {
	p.entries = append(p.entries, entry)
}

func (p *recordingProvider) find(msg string) *recordedEntry {
	for i := range p.entries {
		if p.entries[i].msg == msg {
			return &p.entries[i]
		}
	}
	return nil
}

type recordingLogger struct {
	provider *recordingProvider
	fields   map[string]any
}

var _ interfaces.Logger = (*recordingLogger)(nil)

func (l *recordingLogger) Trace(msg string, args ...any) { l.log("TRACE", msg, args...) }
func (l *recordingLogger) Debug(msg string, args ...any) { l.log("DEBUG", msg, args...) }
func (l *recordingLogger) Info(msg string, args ...any)  { l.log("INFO", msg, args...) }
func (l *recordingLogger) Warn(msg string, args ...any)  { l.log("WARN", msg, args...) }
func (l *recordingLogger) Error(msg string, args ...any) { l.log("ERROR", msg, args...) }
func (l *recordingLogger) Fatal(msg string, args ...any) { l.log("FATAL", msg, args...) }

func (l *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return l
	}
	merged := make(map[string]any, len(l.fields)+len(fields))
	for key, value := range l.fields {
		merged[key] = value
	}
	for key, value := range fields {
		merged[key] = value
	}
	return &recordingLogger{
		provider: l.provider,
		fields:   merged,
	}
}

func (l *recordingLogger) WithContext(context.Context) interfaces.Logger {
	return &recordingLogger{
		provider: l.provider,
		fields:   cloneFields(l.fields),
	}
}

func (l *recordingLogger) log(level, msg string, args ...any) {
	fields := cloneFields(l.fields)
	for i := 0; i < len(args); i += 2 {
		if i+1 >= len(args) {
			break
		}
		key, _ := args[i].(string)
		if key == "" {
			continue
		}
		fields[key] = args[i+1]
	}
	l.provider.record(recordedEntry{
		level:  level,
		msg:    msg,
		fields: fields,
	})
}

func cloneFields(fields map[string]any) map[string]any {
	if len(fields) == 0 {
		return map[string]any{}
	}
	copied := make(map[string]any, len(fields))
	for key, value := range fields {
		copied[key] = value
	}
	return copied
}
