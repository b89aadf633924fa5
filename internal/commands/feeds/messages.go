package feedscmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-site-feeds/internal/content"
	"github.com/goliatone/go-site-feeds/internal/generator"
)

const (
	buildFeedsMessageType      = "sitefeeds.feeds.build"
	invalidateCacheMessageType = "sitefeeds.feeds.invalidate_cache"
	lintContentMessageType     = "sitefeeds.content.lint"
)

// BuildResultCallback receives the build result when the builder produced one,
// including partial results of a failed build. It runs synchronously inside
// the handler.
type BuildResultCallback func(*generator.BuildResult)

// BuildFeedsCommand renders feeds, sitemap and robots.txt into the configured
// output directory.
type BuildFeedsCommand struct {
	// Feeds limits the build to the named feeds. Empty builds everything.
	Feeds []string `json:"feeds,omitempty"`
	// DryRun renders documents without writing them.
	DryRun bool `json:"dry_run,omitempty"`
	// Force rewrites documents the build manifest reports as unchanged.
	Force bool `json:"force,omitempty"`
	// ResultCallback is optional.
	ResultCallback BuildResultCallback `json:"-"`
}

// Type implements command.Message.
func (BuildFeedsCommand) Type() string { return buildFeedsMessageType }

// Validate ensures requested feed names are slug-shaped.
func (cmd BuildFeedsCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Feeds, validation.Each(validation.Required, validation.By(slugRule("sitefeeds.feeds.build.feed_invalid")))),
	)
}

// InvalidateCacheCommand drops every memoized document.
type InvalidateCacheCommand struct {
	// Reason is recorded in the logs, e.g. "watch" or "manual".
	Reason string `json:"reason,omitempty"`
	// Paths lists the content files that triggered the invalidation.
	Paths []string `json:"paths,omitempty"`
}

// Type implements command.Message.
func (InvalidateCacheCommand) Type() string { return invalidateCacheMessageType }

// Validate bounds the free-form fields.
func (cmd InvalidateCacheCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Reason, validation.Length(0, 120)),
		validation.Field(&cmd.Paths, validation.Length(0, 1000), validation.Each(validation.Required)),
	)
}

// LintContentCommand validates the front-matter of the named collections.
type LintContentCommand struct {
	// Collections limits the run. Empty lints every configured collection.
	Collections []string `json:"collections,omitempty"`
	// Report receives this run's report in addition to the handler's reporter.
	Report LintReporter `json:"-"`
}

// Type implements command.Message.
func (LintContentCommand) Type() string { return lintContentMessageType }

// Validate ensures collection names are slug-shaped.
func (cmd LintContentCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Collections, validation.Each(validation.Required, validation.By(slugRule("sitefeeds.content.lint.collection_invalid")))),
	)
}

func slugRule(code string) validation.RuleFunc {
	return func(value any) error {
		name, _ := value.(string)
		if !content.IsValidSlug(strings.TrimSpace(name)) {
			return validation.NewError(code, "must be a lowercase slug")
		}
		return nil
	}
}
