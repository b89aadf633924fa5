package markdown

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-site-feeds/internal/content"
	"github.com/goliatone/go-site-feeds/internal/logging"
	"github.com/goliatone/go-site-feeds/pkg/interfaces"
)

// LoaderConfig configures how markdown files are discovered.
type LoaderConfig struct {
	// BasePath is the on-disk directory backing the filesystem. It is only used
	// to relativise absolute paths passed to LoadFile.
	BasePath string
	// Pattern limits discovered files (defaults to "*.md").
	Pattern string
	Logger  interfaces.Logger
}

// Loader serves content collections laid out as <collection>/<item>/<file>.md
// from an fs.FS. It implements content.Source.
type Loader struct {
	fs       fs.FS
	basePath string
	pattern  string
	logger   interfaces.Logger
}

var _ content.Source = (*Loader)(nil)

// Document is a parsed markdown file.
type Document struct {
	Path         string
	Metadata     content.Metadata
	Body         []byte
	Checksum     []byte
	LastModified time.Time
}

// NewLoader constructs a Loader over filesystem.
func NewLoader(filesystem fs.FS, cfg LoaderConfig) *Loader {
	pattern := strings.TrimSpace(cfg.Pattern)
	if pattern == "" {
		pattern = "*.md"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	basePath := ""
	if cfg.BasePath != "" {
		basePath = filepath.Clean(cfg.BasePath)
	}
	return &Loader{fs: filesystem, basePath: basePath, pattern: pattern, logger: logger}
}

// Modules lists the markdown files of a collection in lexical path order.
// A missing collection directory yields no modules.
func (l *Loader) Modules(ctx context.Context, collection string) ([]content.Module, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	matches, err := fs.Glob(l.fs, path.Join(collection, "*", l.pattern))
	if err != nil {
		return nil, fmt.Errorf("markdown loader glob %s: %w", collection, err)
	}
	sort.Strings(matches)

	modules := make([]content.Module, 0, len(matches))
	for _, match := range matches {
		modules = append(modules, content.Module{
			Path: match,
			Load: func(ctx context.Context) (content.Metadata, error) {
				doc, err := l.LoadFile(ctx, match)
				if err != nil {
					return nil, err
				}
				return doc.Metadata, nil
			},
		})
	}
	l.logger.Debug("markdown.loader.modules", "collection", collection, "count", len(modules))
	return modules, nil
}

// Body returns the markdown body of the file at p without its front-matter.
func (l *Loader) Body(ctx context.Context, p string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := fs.ReadFile(l.fs, p)
	if err != nil {
		return "", fmt.Errorf("markdown loader read %s: %w", p, err)
	}
	_, body, err := ParseFrontMatter(data)
	if err != nil {
		logging.WithMarkdownContext(l.logger, p, "body").Debug("markdown.loader.frontmatter_fallback", "error", err)
		return ExtractBody(string(data)), nil
	}
	return strings.TrimSpace(string(body)), nil
}

// AssetSize reports the size in bytes of an asset stored next to the content.
func (l *Loader) AssetSize(ctx context.Context, p string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	info, err := fs.Stat(l.fs, p)
	if err != nil {
		return 0, fmt.Errorf("markdown loader stat %s: %w", p, err)
	}
	if info.IsDir() {
		return 0, fmt.Errorf("markdown loader stat %s: is a directory", p)
	}
	return info.Size(), nil
}

// Fingerprint hashes the path, size and modification time of every file so
// any change to the content set yields a new value.
func (l *Loader) Fingerprint(ctx context.Context) (string, error) {
	hash := sha256.New()
	err := fs.WalkDir(l.fs, ".", func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		fmt.Fprintf(hash, "%s\x00%d\x00%d\n", p, info.Size(), info.ModTime().UnixNano())
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("markdown loader fingerprint: %w", err)
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}

// LoadFile reads and parses a single markdown document. Absolute paths are
// resolved against the configured base path.
func (l *Loader) LoadFile(ctx context.Context, p string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rel, err := l.makeRelative(p)
	if err != nil {
		return nil, err
	}

	data, err := fs.ReadFile(l.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("markdown loader read %s: %w", rel, err)
	}
	info, err := fs.Stat(l.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("markdown loader stat %s: %w", rel, err)
	}

	meta, body, err := ParseFrontMatter(data)
	if err != nil {
		return nil, fmt.Errorf("markdown loader %s: %w", rel, err)
	}
	sum := sha256.Sum256(data)

	return &Document{
		Path:         rel,
		Metadata:     meta,
		Body:         body,
		Checksum:     sum[:],
		LastModified: info.ModTime(),
	}, nil
}

func (l *Loader) makeRelative(p string) (string, error) {
	clean := filepath.Clean(p)
	if !filepath.IsAbs(clean) {
		return filepath.ToSlash(clean), nil
	}
	if l.basePath == "" {
		return "", fmt.Errorf("markdown loader: absolute path %s provided without base path", p)
	}
	rel, err := filepath.Rel(l.basePath, clean)
	if err != nil {
		return "", fmt.Errorf("markdown loader: make relative %s: %w", p, err)
	}
	return filepath.ToSlash(rel), nil
}
