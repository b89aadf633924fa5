package feeds

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/goliatone/go-site-feeds/internal/content"
)

// AssetSizer reports the byte size of an asset stored with the content.
type AssetSizer interface {
	AssetSize(ctx context.Context, path string) (int64, error)
}

// ImageType maps an asset name to its enclosure MIME type. Only PNG is
// recognised; everything else is reported as JPEG.
func ImageType(name string) string {
	if strings.EqualFold(path.Ext(name), ".png") {
		return "image/png"
	}
	return "image/jpeg"
}

// resolveImage returns the enclosure for entry or nil when the item has no
// image. An error means the image was named but could not be resolved.
func (s *service) resolveImage(ctx context.Context, entry content.Entry, field string) (*content.ImageData, error) {
	file := strings.TrimSpace(entry.ImageFile(field))
	if file == "" {
		return nil, nil
	}
	if strings.HasPrefix(file, "http://") || strings.HasPrefix(file, "https://") {
		return &content.ImageData{URL: file, Type: ImageType(file)}, nil
	}

	assetPath := path.Join(path.Dir(entry.Path), file)
	var length int64
	if s.assets != nil {
		size, err := s.assets.AssetSize(ctx, assetPath)
		if err != nil {
			return nil, fmt.Errorf("resolve image %s: %w", assetPath, err)
		}
		length = size
	}

	route := path.Join("/", s.cfg.Content.AssetsRoute, assetPath)
	return &content.ImageData{
		URL:    absoluteURL(s.cfg.Site.BaseURL, route),
		Type:   ImageType(file),
		Length: length,
	}, nil
}
