package feedscmd

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-site-feeds/internal/commands"
	"github.com/goliatone/go-site-feeds/internal/generator"
	"github.com/goliatone/go-site-feeds/internal/logging"
	"github.com/goliatone/go-site-feeds/internal/runtimeconfig"
	"github.com/goliatone/go-site-feeds/internal/validation"
	"github.com/goliatone/go-site-feeds/pkg/interfaces"
)

const (
	buildOperation      = "feeds.build"
	invalidateOperation = "feeds.invalidate_cache"
	lintOperation       = "content.lint"
)

var (
	// ErrLintFailed is returned when the lint run reports problems.
	ErrLintFailed = errors.New("lint command: content has problems")
	// ErrUnknownCollection is returned when a lint target is not configured.
	ErrUnknownCollection = errors.New("lint command: unknown collection")
)

var (
	_ command.Commander[BuildFeedsCommand]      = (*BuildFeedsHandler)(nil)
	_ command.Commander[InvalidateCacheCommand] = (*InvalidateCacheHandler)(nil)
	_ command.Commander[LintContentCommand]     = (*LintContentHandler)(nil)
)

// Builder renders documents to the output directory.
type Builder interface {
	Build(ctx context.Context, opts generator.BuildOptions) (*generator.BuildResult, error)
}

// Invalidator drops memoized documents.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Linter validates content collections.
type Linter interface {
	Lint(ctx context.Context, collections []runtimeconfig.CollectionConfig) (*validation.LintReport, error)
}

// BuildFeedsHandler runs static builds through the shared command handler.
type BuildFeedsHandler struct {
	inner *commands.Handler[BuildFeedsCommand]
}

// NewBuildFeedsHandler creates a handler bound to builder.
func NewBuildFeedsHandler(builder Builder, logger interfaces.Logger, opts ...commands.HandlerOption[BuildFeedsCommand]) *BuildFeedsHandler {
	logger = ensureLogger(logger)
	exec := func(ctx context.Context, msg BuildFeedsCommand) error {
		result, err := builder.Build(ctx, generator.BuildOptions{
			Feeds:  msg.Feeds,
			DryRun: msg.DryRun,
			Force:  msg.Force,
		})
		if result != nil {
			if msg.ResultCallback != nil {
				msg.ResultCallback(result)
			}
			logging.WithFields(logger, map[string]any{
				"written_count": len(result.Written),
				"skipped_count": len(result.Skipped),
				"error_count":   len(result.Errors),
				"dry_run":       result.DryRun,
			}).Info("feeds.command.build.completed")
		}
		return err
	}

	handlerOpts := []commands.HandlerOption[BuildFeedsCommand]{
		commands.WithLogger[BuildFeedsCommand](logger),
		commands.WithOperation[BuildFeedsCommand](buildOperation),
		commands.WithMessageFields(func(msg BuildFeedsCommand) map[string]any {
			fields := map[string]any{}
			if len(msg.Feeds) > 0 {
				fields["feeds"] = msg.Feeds
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			if msg.Force {
				fields["force"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[BuildFeedsCommand](logger)),
	}
	return &BuildFeedsHandler{inner: commands.NewHandler(exec, append(handlerOpts, opts...)...)}
}

// Execute satisfies command.Commander[BuildFeedsCommand].
func (h *BuildFeedsHandler) Execute(ctx context.Context, msg BuildFeedsCommand) error {
	return h.inner.Execute(ctx, msg)
}

// InvalidateCacheHandler bumps the feed cache version.
type InvalidateCacheHandler struct {
	inner *commands.Handler[InvalidateCacheCommand]
}

// NewInvalidateCacheHandler creates a handler bound to invalidator.
func NewInvalidateCacheHandler(invalidator Invalidator, logger interfaces.Logger, opts ...commands.HandlerOption[InvalidateCacheCommand]) *InvalidateCacheHandler {
	logger = ensureLogger(logger)
	exec := func(ctx context.Context, _ InvalidateCacheCommand) error {
		return invalidator.Invalidate(ctx)
	}
	handlerOpts := []commands.HandlerOption[InvalidateCacheCommand]{
		commands.WithLogger[InvalidateCacheCommand](logger),
		commands.WithOperation[InvalidateCacheCommand](invalidateOperation),
		commands.WithTimeout[InvalidateCacheCommand](5 * time.Second),
		commands.WithMessageFields(func(msg InvalidateCacheCommand) map[string]any {
			fields := map[string]any{"path_count": len(msg.Paths)}
			if msg.Reason != "" {
				fields["reason"] = msg.Reason
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[InvalidateCacheCommand](logger)),
	}
	return &InvalidateCacheHandler{inner: commands.NewHandler(exec, append(handlerOpts, opts...)...)}
}

// Execute satisfies command.Commander[InvalidateCacheCommand].
func (h *InvalidateCacheHandler) Execute(ctx context.Context, msg InvalidateCacheCommand) error {
	return h.inner.Execute(ctx, msg)
}

// LintContentHandler validates content and fails when problems are found.
type LintContentHandler struct {
	inner *commands.Handler[LintContentCommand]
}

// LintReporter receives the report of every lint run.
type LintReporter func(*validation.LintReport)

// NewLintContentHandler creates a handler linting the configured collections.
func NewLintContentHandler(linter Linter, collections []runtimeconfig.CollectionConfig, report LintReporter, logger interfaces.Logger, opts ...commands.HandlerOption[LintContentCommand]) *LintContentHandler {
	logger = ensureLogger(logger)
	exec := func(ctx context.Context, msg LintContentCommand) error {
		targets, err := selectCollections(collections, msg.Collections)
		if err != nil {
			return err
		}
		result, err := linter.Lint(ctx, targets)
		if err != nil {
			return err
		}
		if report != nil {
			report(result)
		}
		if msg.Report != nil {
			msg.Report(result)
		}
		for _, problem := range result.Problems {
			logger.Warn("content.lint.problem", "path", problem.Path, "location", problem.Location, "message", problem.Message)
		}
		if !result.OK() {
			return fmt.Errorf("%w: %d problem(s) in %d file(s)", ErrLintFailed, len(result.Problems), result.Files)
		}
		return nil
	}
	handlerOpts := []commands.HandlerOption[LintContentCommand]{
		commands.WithLogger[LintContentCommand](logger),
		commands.WithOperation[LintContentCommand](lintOperation),
		commands.WithTelemetry(commands.DefaultTelemetry[LintContentCommand](logger)),
	}
	return &LintContentHandler{inner: commands.NewHandler(exec, append(handlerOpts, opts...)...)}
}

// Execute satisfies command.Commander[LintContentCommand].
func (h *LintContentHandler) Execute(ctx context.Context, msg LintContentCommand) error {
	return h.inner.Execute(ctx, msg)
}

func selectCollections(all []runtimeconfig.CollectionConfig, names []string) ([]runtimeconfig.CollectionConfig, error) {
	if len(names) == 0 {
		return all, nil
	}
	selected := make([]runtimeconfig.CollectionConfig, 0, len(names))
	for _, name := range names {
		idx := slices.IndexFunc(all, func(c runtimeconfig.CollectionConfig) bool { return c.Name == name })
		if idx < 0 {
			return nil, fmt.Errorf("%w: %s", ErrUnknownCollection, name)
		}
		selected = append(selected, all[idx])
	}
	return selected, nil
}

func ensureLogger(logger interfaces.Logger) interfaces.Logger {
	if logger == nil {
		return logging.NoOp()
	}
	return logger
}
