package commands

import (
	"context"
	"testing"

	"github.com/goliatone/go-site-feeds/internal/logging"
	"github.com/goliatone/go-site-feeds/pkg/interfaces"
)

type namedProvider struct {
	names []string
}

func (p *namedProvider) GetLogger(name string) interfaces.Logger {
	p.names = append(p.names, name)
	return logging.NoOp()
}

type buildMessage struct{}

func (buildMessage) Type() string { return "sitefeeds.feeds.build" }

type foreignMessage struct{}

func (foreignMessage) Type() string { return "other.feeds.build" }

func TestMessageModule(t *testing.T) {
	cases := []struct {
		msg  interface{ Type() string }
		want string
	}{
		{buildMessage{}, "feeds"},
		{testMessage{}, "test"},
		{foreignMessage{}, ""},
	}
	for _, tc := range cases {
		if got := MessageModule(tc.msg); got != tc.want {
			t.Fatalf("MessageModule(%s) = %q, want %q", tc.msg.Type(), got, tc.want)
		}
	}
}

func TestMessageLoggerUsesModuleNamespace(t *testing.T) {
	provider := &namedProvider{}
	MessageLogger(provider, buildMessage{})
	MessageLogger(provider, foreignMessage{})
	CommandLogger(provider, " content ")

	want := []string{"sitefeeds.commands.feeds", "sitefeeds.commands", "sitefeeds.commands.content"}
	if len(provider.names) != len(want) {
		t.Fatalf("expected %d loggers, got %v", len(want), provider.names)
	}
	for i, name := range want {
		if provider.names[i] != name {
			t.Fatalf("logger %d: expected %q, got %q", i, name, provider.names[i])
		}
	}
}

func TestCommandLoggerWithoutProvider(t *testing.T) {
	logger := CommandLogger(nil, "feeds")
	if logger == nil {
		t.Fatal("expected no-op logger")
	}
	logger.WithContext(context.Background()).Info("command.test")
}
