package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-site-feeds/internal/content"
)

// ParseFrontMatter extracts metadata and the markdown body from source. Files
// without front-matter yield empty metadata and the full source as body.
func ParseFrontMatter(source []byte) (content.Metadata, []byte, error) {
	raw := map[string]any{}
	body, err := frontmatter.Parse(bytes.NewReader(source), &raw)
	if err != nil {
		return nil, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	meta := make(content.Metadata, len(raw))
	for key, value := range raw {
		meta[key] = normalizeValue(value)
	}
	return meta, body, nil
}

// ExtractBody returns the text after the second "---" delimiter, or the raw
// text when there is no front-matter block.
func ExtractBody(raw string) string {
	if raw == "" {
		return ""
	}
	parts := strings.Split(raw, "---")
	if len(parts) < 3 {
		return raw
	}
	return strings.TrimSpace(strings.Join(parts[2:], "---"))
}

// normalizeValue converts YAML decoder maps keyed by interface{} into
// map[string]any so metadata can be JSON encoded.
func normalizeValue(value any) any {
	switch v := value.(type) {
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, inner := range v {
			out[fmt.Sprint(key)] = normalizeValue(inner)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, inner := range v {
			out[key] = normalizeValue(inner)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, inner := range v {
			out[i] = normalizeValue(inner)
		}
		return out
	default:
		return value
	}
}
