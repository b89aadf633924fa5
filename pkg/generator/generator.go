// Package generator exposes the static feed build API for hosts that render
// feeds into an output directory as part of their own build.
// Use NewService with Config and Dependencies, then call Build.
package generator

import internal "github.com/goliatone/go-site-feeds/internal/generator"

type (
	Service      = internal.Service
	Config       = internal.Config
	BuildOptions = internal.BuildOptions
	BuildResult  = internal.BuildResult
	Artifact     = internal.Artifact
	Dependencies = internal.Dependencies
)

// NewService wires a generator with the supplied configuration and dependencies.
func NewService(cfg Config, deps Dependencies) Service {
	return internal.NewService(cfg, deps)
}
