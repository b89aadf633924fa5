package identity

import (
	"strconv"
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

const namespace = "sitefeeds"

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must prefix keys by kind so different artifacts never collide.
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// FeedKey is the cache key of a rendered feed document. Any change to the
// content fingerprint or the invalidation version produces a new key.
func FeedKey(name string, version uint64, fingerprint string) string {
	return artifactKey("feed", name, version, fingerprint)
}

// SitemapKey is the cache key of the rendered sitemap.
func SitemapKey(version uint64, fingerprint string) string {
	return artifactKey("sitemap", "sitemap", version, fingerprint)
}

func artifactKey(kind, name string, version uint64, fingerprint string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	id := UUID(strings.Join([]string{namespace, kind, name, strconv.FormatUint(version, 10), fingerprint}, ":"))
	return kind + ":" + name + ":" + id.String()
}
