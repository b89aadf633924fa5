package content

import (
	"path"
	"regexp"
	"strings"

	"github.com/goliatone/go-slug"
)

// NameFromPath derives a slug from a content path: the last segment without
// its extension and leading '+' characters.
func NameFromPath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	base := path.Base(p)
	if base == "." || base == "/" {
		return ""
	}
	if ext := path.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return strings.TrimLeft(base, "+")
}

// DirectorySlug derives the slug for directory-per-item layouts. A path of
// the form "<collection>/<item>/<file>.md" resolves to the item directory
// whatever the file is called, so "blog/hello/index.md" and
// "blog/hello/+page.md" both become "hello". Shallower paths fall back to
// the item directory only for "index" and '+'-prefixed files, otherwise to
// NameFromPath.
func DirectorySlug(p string) string {
	segments := pathSegments(p)
	if len(segments) == 0 {
		return ""
	}
	if len(segments) >= 3 {
		return segments[len(segments)-2]
	}
	name := NameFromPath(segments[len(segments)-1])
	if len(segments) == 2 && (name == "index" || strings.HasPrefix(segments[1], "+")) {
		return segments[0]
	}
	return name
}

func pathSegments(p string) []string {
	parts := strings.Split(strings.ReplaceAll(p, "\\", "/"), "/")
	out := parts[:0]
	for _, part := range parts {
		if part != "" && part != "." {
			out = append(out, part)
		}
	}
	return out
}

var (
	slugStrip    = regexp.MustCompile(`[^\w\s-]`)
	slugSeparate = regexp.MustCompile(`[\s_-]+`)
)

// Slugify turns free text into a URL-safe slug ("Node.js & Express" becomes
// "nodejs-express").
func Slugify(text string) string {
	cleaned := strings.ToLower(strings.TrimSpace(text))
	cleaned = slugStrip.ReplaceAllString(cleaned, "")
	cleaned = slugSeparate.ReplaceAllString(cleaned, "-")
	cleaned = strings.Trim(cleaned, "-")
	if cleaned == "" {
		return ""
	}
	if normalized, err := slug.Normalize(cleaned); err == nil && normalized != "" {
		return normalized
	}
	return cleaned
}

// IsValidSlug reports whether value matches the default slug rules.
func IsValidSlug(value string) bool {
	return slug.IsValid(value)
}
