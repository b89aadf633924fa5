// Package generator writes the rendered feeds, sitemap and robots.txt to an
// output directory so they can be served by any static host.
package generator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"
	"time"

	"github.com/goliatone/go-site-feeds/internal/feeds"
	"github.com/goliatone/go-site-feeds/internal/logging"
	"github.com/goliatone/go-site-feeds/pkg/interfaces"
)

var (
	errFeedsRequired     = errors.New("generator: feeds service is required")
	errOutputDirRequired = errors.New("generator: output directory is required")
)

// Service describes the static build contract.
type Service interface {
	Build(ctx context.Context, opts BuildOptions) (*BuildResult, error)
}

// Config captures runtime behaviour toggles for the generator.
type Config struct {
	OutputDir       string
	BaseURL         string
	GenerateSitemap bool
	GenerateRobots  bool
	SitemapPath     string
}

// BuildOptions narrows the scope of a build.
type BuildOptions struct {
	// Feeds limits the build to the named feeds. Empty builds all of them.
	Feeds []string
	// DryRun renders every document without touching the output directory.
	DryRun bool
	// Force rewrites documents even when the manifest says they are unchanged.
	Force bool
}

// Artifact describes one generated file.
type Artifact struct {
	Name        string    `json:"name"`
	Output      string    `json:"output"`
	ContentType string    `json:"content_type"`
	Checksum    string    `json:"checksum"`
	Size        int64     `json:"size"`
	Items       int       `json:"items"`
	WrittenAt   time.Time `json:"written_at"`
}

// BuildResult reports what a build produced.
type BuildResult struct {
	Written  []Artifact
	Skipped  []Artifact
	Duration time.Duration
	DryRun   bool
	Errors   []error
}

// Dependencies lists the services required by the generator.
type Dependencies struct {
	Feeds  feeds.Service
	Logger interfaces.Logger
}

// NewService wires a generator with the provided configuration.
func NewService(cfg Config, deps Dependencies) Service {
	logger := deps.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	return &service{
		cfg:       cfg,
		feeds:     deps.Feeds,
		logger:    logger,
		now:       time.Now,
		newWriter: newArtifactWriter,
	}
}

type service struct {
	cfg       Config
	feeds     feeds.Service
	logger    interfaces.Logger
	now       func() time.Time
	newWriter func(root string, dryRun bool) artifactWriter
}

func (s *service) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.feeds == nil {
		return nil, errFeedsRequired
	}
	if strings.TrimSpace(s.cfg.OutputDir) == "" {
		return nil, errOutputDirRequired
	}

	start := s.now()
	writer := s.newWriter(s.cfg.OutputDir, opts.DryRun)
	if err := writer.EnsureDir(ctx, "."); err != nil {
		return nil, fmt.Errorf("generator: prepare output: %w", err)
	}
	manifest, err := s.loadManifest(ctx, writer)
	if err != nil {
		s.logger.Warn("generator.manifest.unreadable", "error", err)
		manifest = newBuildManifest()
	}

	result := &BuildResult{DryRun: opts.DryRun}
	documents, err := s.render(ctx, opts, result)
	if err != nil {
		return nil, err
	}

	for _, doc := range documents {
		artifact, written, err := s.write(ctx, writer, manifest, doc, opts.Force)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			result.Errors = append(result.Errors, err)
			s.logger.Error("generator.artifact.write_failed", "output", artifact.Output, "error", err)
			continue
		}
		manifest.Artifacts[artifact.Output] = artifact
		if written {
			result.Written = append(result.Written, artifact)
		} else {
			result.Skipped = append(result.Skipped, artifact)
		}
	}

	if !opts.DryRun && len(result.Errors) == 0 {
		manifest.GeneratedAt = s.now().UTC()
		if err := s.saveManifest(ctx, writer, manifest); err != nil {
			result.Errors = append(result.Errors, err)
		}
	}

	result.Duration = s.now().Sub(start)
	s.logger.Info("generator.build.completed",
		"written", len(result.Written),
		"skipped", len(result.Skipped),
		"errors", len(result.Errors),
		"dry_run", opts.DryRun,
		"duration", result.Duration,
	)
	return result, errors.Join(result.Errors...)
}

// render collects every requested document. Feed failures are recorded on the
// result so the remaining documents still build.
func (s *service) render(ctx context.Context, opts BuildOptions, result *BuildResult) ([]*feeds.Document, error) {
	var documents []*feeds.Document
	for _, def := range s.feeds.Definitions() {
		if len(opts.Feeds) > 0 && !slices.Contains(opts.Feeds, def.Name) {
			continue
		}
		doc, err := s.feeds.Feed(ctx, def.Name)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			result.Errors = append(result.Errors, fmt.Errorf("generator: feed %s: %w", def.Name, err))
			continue
		}
		documents = append(documents, doc)
	}
	if len(opts.Feeds) > 0 {
		return documents, nil
	}

	if s.cfg.GenerateSitemap {
		doc, err := s.feeds.Sitemap(ctx)
		switch {
		case err == nil:
			documents = append(documents, doc)
		case errors.Is(err, feeds.ErrSitemapDisabled):
		case ctx.Err() != nil:
			return nil, ctx.Err()
		default:
			result.Errors = append(result.Errors, fmt.Errorf("generator: sitemap: %w", err))
		}
	}
	if s.cfg.GenerateRobots {
		sitemapPath := ""
		if s.cfg.GenerateSitemap {
			sitemapPath = s.cfg.SitemapPath
		}
		documents = append(documents, &feeds.Document{
			Name:        "robots",
			Path:        "/robots.txt",
			ContentType: "text/plain; charset=utf-8",
			Body:        feeds.BuildRobots(s.cfg.BaseURL, sitemapPath),
		})
	}
	return documents, nil
}

func (s *service) write(ctx context.Context, writer artifactWriter, manifest *buildManifest, doc *feeds.Document, force bool) (Artifact, bool, error) {
	sum := sha256.Sum256([]byte(doc.Body))
	artifact := Artifact{
		Name:        doc.Name,
		Output:      strings.TrimLeft(doc.Path, "/"),
		ContentType: doc.ContentType,
		Checksum:    hex.EncodeToString(sum[:]),
		Size:        int64(len(doc.Body)),
		Items:       doc.Items,
		WrittenAt:   s.now().UTC(),
	}
	if !force && manifest.unchanged(artifact.Output, artifact.Checksum) {
		artifact.WrittenAt = manifest.Artifacts[artifact.Output].WrittenAt
		return artifact, false, nil
	}
	err := writer.WriteFile(ctx, writeFileRequest{
		Path:        artifact.Output,
		Content:     strings.NewReader(doc.Body),
		Category:    categoryFor(doc.Name),
		ContentType: doc.ContentType,
		Checksum:    artifact.Checksum,
	})
	if err != nil {
		return artifact, false, fmt.Errorf("generator: write %s: %w", artifact.Output, err)
	}
	return artifact, true, nil
}

func (s *service) loadManifest(ctx context.Context, writer artifactWriter) (*buildManifest, error) {
	data, err := writer.ReadFile(ctx, manifestFileName)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return newBuildManifest(), nil
		}
		return nil, err
	}
	return parseManifest(data)
}

func (s *service) saveManifest(ctx context.Context, writer artifactWriter, manifest *buildManifest) error {
	data, err := manifest.marshal()
	if err != nil {
		return fmt.Errorf("generator: encode manifest: %w", err)
	}
	return writer.WriteFile(ctx, writeFileRequest{
		Path:        manifestFileName,
		Content:     strings.NewReader(string(data)),
		Category:    categoryManifest,
		ContentType: "application/json",
	})
}

func categoryFor(name string) writeCategory {
	switch name {
	case "sitemap":
		return categorySitemap
	case "robots":
		return categoryRobots
	default:
		return categoryFeed
	}
}
