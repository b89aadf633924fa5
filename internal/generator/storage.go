package generator

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type writeCategory string

const (
	categoryFeed     writeCategory = "feed"
	categorySitemap  writeCategory = "sitemap"
	categoryRobots   writeCategory = "robots"
	categoryManifest writeCategory = "manifest"
)

// writeFileRequest describes a file write routed through the artifact writer.
type writeFileRequest struct {
	Path        string
	Content     io.Reader
	Category    writeCategory
	ContentType string
	Checksum    string
}

// artifactWriter abstracts where generated documents land.
type artifactWriter interface {
	EnsureDir(ctx context.Context, path string) error
	WriteFile(ctx context.Context, req writeFileRequest) error
	ReadFile(ctx context.Context, path string) ([]byte, error)
}

func newArtifactWriter(root string, dryRun bool) artifactWriter {
	if dryRun {
		return noopWriter{}
	}
	return &fsWriter{root: filepath.Clean(root)}
}

// fsWriter writes artifacts below root. Files are written to a temporary
// sibling and renamed so readers never observe partial documents.
type fsWriter struct {
	root string
}

func (w *fsWriter) resolve(p string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(strings.TrimLeft(p, "/")))
	if clean == "." || strings.HasPrefix(clean, "..") {
		return "", errors.New("generator: path escapes output directory: " + p)
	}
	return filepath.Join(w.root, clean), nil
}

func (w *fsWriter) EnsureDir(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(p) == "" || p == "." {
		return os.MkdirAll(w.root, 0o755)
	}
	target, err := w.resolve(p)
	if err != nil {
		return err
	}
	return os.MkdirAll(target, 0o755)
}

func (w *fsWriter) WriteFile(ctx context.Context, req writeFileRequest) error {
	if req.Content == nil {
		return errors.New("generator: write requires content reader")
	}
	if strings.TrimSpace(req.Path) == "" {
		return errors.New("generator: write requires path")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	target, err := w.resolve(req.Path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".tmp-"+filepath.Base(target)+"-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, req.Content); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), target)
}

func (w *fsWriter) ReadFile(ctx context.Context, p string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	target, err := w.resolve(p)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(target)
}

type noopWriter struct{}

func (noopWriter) EnsureDir(context.Context, string) error { return nil }

func (noopWriter) WriteFile(context.Context, writeFileRequest) error { return nil }

func (noopWriter) ReadFile(context.Context, string) ([]byte, error) { return nil, os.ErrNotExist }
