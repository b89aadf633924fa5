package logging

import (
	"maps"
	"strings"

	"github.com/goliatone/go-site-feeds/pkg/interfaces"
)

const (
	fieldCollection = "collection"
	fieldSlug       = "slug"
	fieldFeed       = "feed"
)

// WithFields attaches structured fields to a logger when the implementation
// supports the optional FieldsLogger extension. Callers can pass nil or an
// empty map to skip allocation.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		copied := make(map[string]any, len(fields))
		maps.Copy(copied, fields)
		return fieldsLogger.WithFields(copied)
	}

	return logger
}

// WithItemContext enriches the logger with the feed, collection and slug of
// the content item being processed. Empty values are ignored.
func WithItemContext(logger interfaces.Logger, feed, collection, slug string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(feed); trimmed != "" {
		fields[fieldFeed] = trimmed
	}
	if trimmed := strings.TrimSpace(collection); trimmed != "" {
		fields[fieldCollection] = trimmed
	}
	if trimmed := strings.TrimSpace(slug); trimmed != "" {
		fields[fieldSlug] = trimmed
	}
	return WithFields(logger, fields)
}
