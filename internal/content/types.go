package content

import (
	"context"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Item types.
const (
	TypeBlog    = "blog"
	TypeProject = "project"
)

// Metadata is the parsed front-matter of a content file.
type Metadata map[string]any

// Loader resolves the metadata of a single content module on demand.
type Loader func(ctx context.Context) (Metadata, error)

// Module pairs a source path with its deferred loader. Slices of modules keep
// the discovery order of the source.
type Module struct {
	Path string
	Load Loader
}

// Source is the content-loading collaborator consumed by the feed pipeline.
type Source interface {
	Modules(ctx context.Context, collection string) ([]Module, error)
	Body(ctx context.Context, path string) (string, error)
	Fingerprint(ctx context.Context) (string, error)
}

// Item is one publishable piece of content. Slug is derived from Path once by
// the extractor.
type Item struct {
	Slug        string
	Path        string
	Type        string
	Title       string
	Name        string
	Date        string
	Description string
	Published   bool
	Tags        []string

	Website   string
	GitHub    string
	Icon      string
	Thumbnail string
	Image     string

	Extra map[string]any
}

var titleCaser = cases.Title(language.English)

// DisplayName resolves the title shown in feeds: name, then title, then the
// humanised slug.
func (i Item) DisplayName() string {
	for _, candidate := range []string{i.Name, i.Title} {
		if trimmed := strings.TrimSpace(candidate); trimmed != "" {
			return trimmed
		}
	}
	if human := strings.TrimSpace(strings.NewReplacer("-", " ", "_", " ").Replace(i.Slug)); human != "" {
		return titleCaser.String(human)
	}
	return "Untitled"
}

// ImageFile returns the asset file named by the given metadata field.
func (i Item) ImageFile(field string) string {
	switch field {
	case "thumbnail":
		return i.Thumbnail
	case "image":
		return i.Image
	case "":
		if i.Image != "" {
			return i.Image
		}
		return i.Thumbnail
	}
	if value, ok := i.Extra[field].(string); ok {
		return value
	}
	return ""
}

// ImageData describes an enclosure resolved for an item.
type ImageData struct {
	URL    string
	Type   string
	Length int64
}

// Entry is an Item prepared for serialization. SortDate is always set.
type Entry struct {
	Item

	Collection string
	SortDate   time.Time
	DateValid  bool
	URL        string
	Content    string
	Image      *ImageData
}

// Collection is a named, typed group of items merged by Aggregate.
type Collection struct {
	Name  string
	Type  string
	Route string
	Items []Item
}
