package content

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-site-feeds/internal/logging"
	"github.com/goliatone/go-site-feeds/pkg/interfaces"
)

// ExtractOptions configures GetPosts.
type ExtractOptions struct {
	// Development includes unpublished items.
	Development bool
	// SlugFunc derives the slug from a module path. Defaults to NameFromPath.
	SlugFunc func(string) string
	// Type is stamped on every extracted item.
	Type   string
	Logger interfaces.Logger
}

// GetPosts loads every module in order and returns the items that pass the
// publish filter. Outside development only items whose published value is the
// boolean true are kept. Loader failures are logged and skipped; the only
// returned error is context cancellation.
func GetPosts(ctx context.Context, modules []Module, opts ExtractOptions) ([]Item, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	slugFn := opts.SlugFunc
	if slugFn == nil {
		slugFn = NameFromPath
	}

	items := make([]Item, 0, len(modules))
	for _, module := range modules {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if module.Load == nil {
			continue
		}

		meta, err := module.Load(ctx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			logging.WithMarkdownContext(logger, module.Path, "load").Warn("content.module.load_failed", "error", err)
			continue
		}

		item := FromMetadata(module.Path, slugFn(module.Path), meta)
		if opts.Type != "" {
			item.Type = opts.Type
		}
		if !opts.Development && !item.Published {
			logger.Debug("content.module.unpublished", "path", module.Path, "slug", item.Slug)
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// FromMetadata copies known front-matter keys onto an Item. Unknown keys are
// kept verbatim in Extra.
func FromMetadata(path, slug string, meta Metadata) Item {
	item := Item{Slug: slug, Path: path}
	for key, value := range meta {
		switch strings.ToLower(key) {
		case "title":
			item.Title = stringValue(value)
		case "name":
			item.Name = stringValue(value)
		case "date":
			item.Date = dateValue(value)
		case "description":
			item.Description = stringValue(value)
		case "published":
			published, ok := value.(bool)
			item.Published = ok && published
		case "tags":
			item.Tags = stringsValue(value)
		case "website":
			item.Website = stringValue(value)
		case "github":
			item.GitHub = stringValue(value)
		case "icon":
			item.Icon = stringValue(value)
		case "thumbnail":
			item.Thumbnail = stringValue(value)
		case "image":
			item.Image = stringValue(value)
		case "type":
			item.Type = stringValue(value)
		default:
			if item.Extra == nil {
				item.Extra = map[string]any{}
			}
			item.Extra[key] = value
		}
	}
	return item
}

func stringValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func dateValue(value any) string {
	switch v := value.(type) {
	case time.Time:
		return FormatDate(v)
	case *time.Time:
		if v == nil {
			return ""
		}
		return FormatDate(*v)
	default:
		return stringValue(value)
	}
}

func stringsValue(value any) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, entry := range v {
			if s := strings.TrimSpace(stringValue(entry)); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return []string{trimmed}
		}
	}
	return nil
}
