package feedscmd

import (
	"context"
	"errors"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-site-feeds/internal/commands"
	"github.com/goliatone/go-site-feeds/internal/runtimeconfig"
	"github.com/goliatone/go-site-feeds/pkg/interfaces"
)

// CommandRegistry is the minimal registration contract expected when wiring command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CronRegistrar matches the function signature used by go-command registries.
type CronRegistrar func(command.HandlerConfig, any) error

// Services bundles the collaborators the feed commands drive.
type Services struct {
	Builder     Builder
	Invalidator Invalidator
	Linter      Linter
	Collections []runtimeconfig.CollectionConfig
	LintReport  LintReporter
}

// HandlerSet groups the handlers produced by RegisterFeedCommands.
// Build and Lint are nil when the matching service is absent.
type HandlerSet struct {
	Build      *BuildFeedsHandler
	Invalidate *InvalidateCacheHandler
	Lint       *LintContentHandler
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	buildOpts      []commands.HandlerOption[BuildFeedsCommand]
	invalidateOpts []commands.HandlerOption[InvalidateCacheCommand]
	lintOpts       []commands.HandlerOption[LintContentCommand]
}

// WithBuildHandlerOptions forwards options to the BuildFeedsHandler constructor.
func WithBuildHandlerOptions(opts ...commands.HandlerOption[BuildFeedsCommand]) Option {
	return func(cfg *options) {
		cfg.buildOpts = append(cfg.buildOpts, opts...)
	}
}

// WithInvalidateHandlerOptions forwards options to the InvalidateCacheHandler constructor.
func WithInvalidateHandlerOptions(opts ...commands.HandlerOption[InvalidateCacheCommand]) Option {
	return func(cfg *options) {
		cfg.invalidateOpts = append(cfg.invalidateOpts, opts...)
	}
}

// WithLintHandlerOptions forwards options to the LintContentHandler constructor.
func WithLintHandlerOptions(opts ...commands.HandlerOption[LintContentCommand]) Option {
	return func(cfg *options) {
		cfg.lintOpts = append(cfg.lintOpts, opts...)
	}
}

// RegisterFeedCommands builds the feed command handlers and registers them with reg.
// reg may be nil when callers only need the handlers.
func RegisterFeedCommands(reg CommandRegistry, services Services, provider interfaces.LoggerProvider, opts ...Option) (*HandlerSet, error) {
	if services.Invalidator == nil {
		return nil, errors.New("feed command registration: invalidator is nil")
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	set := &HandlerSet{
		Invalidate: NewInvalidateCacheHandler(services.Invalidator,
			commands.MessageLogger(provider, InvalidateCacheCommand{}), cfg.invalidateOpts...),
	}
	if services.Builder != nil {
		set.Build = NewBuildFeedsHandler(services.Builder,
			commands.MessageLogger(provider, BuildFeedsCommand{}), cfg.buildOpts...)
	}
	if services.Linter != nil {
		set.Lint = NewLintContentHandler(services.Linter, services.Collections, services.LintReport,
			commands.MessageLogger(provider, LintContentCommand{}), cfg.lintOpts...)
	}

	if reg == nil {
		return set, nil
	}
	for _, handler := range set.handlers() {
		if err := reg.RegisterCommand(handler); err != nil {
			return nil, err
		}
	}
	return set, nil
}

func (s *HandlerSet) handlers() []any {
	out := []any{s.Invalidate}
	if s.Build != nil {
		out = append(out, s.Build)
	}
	if s.Lint != nil {
		out = append(out, s.Lint)
	}
	return out
}

// RegisterBuildCron schedules handler with the registrar. The handler runs with a
// background context.
func RegisterBuildCron(reg CronRegistrar, handler *BuildFeedsHandler, cfg command.HandlerConfig, msg BuildFeedsCommand) error {
	if reg == nil || handler == nil {
		return nil
	}
	return reg(cfg, func() error {
		return handler.Execute(context.Background(), msg)
	})
}
