package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-site-feeds/internal/feeds"
	"github.com/goliatone/go-site-feeds/internal/logging"
)

const requestIDHeader = "X-Request-ID"

// requestContext tags the request context with the caller's request id, or a
// generated one.
func requestContext(r *http.Request) context.Context {
	id := strings.TrimSpace(r.Header.Get(requestIDHeader))
	return logging.ContextWithRequestID(r.Context(), id)
}

func writeDocument(w http.ResponseWriter, r *http.Request, doc *feeds.Document, cacheControl string) {
	header := w.Header()
	header.Set("Content-Type", doc.ContentType)
	if cacheControl != "" {
		header.Set("Cache-Control", cacheControl)
	}
	if !doc.GeneratedAt.IsZero() {
		header.Set("Last-Modified", doc.GeneratedAt.UTC().Format(http.TimeFormat))
	}
	header.Set("Content-Length", strconv.Itoa(len(doc.Body)))
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write([]byte(doc.Body))
}

func clientGone(ctx context.Context) bool {
	return ctx.Err() != nil
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
