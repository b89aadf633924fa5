package feeds

import (
	"strings"

	"github.com/goliatone/go-site-feeds/internal/content"
	"github.com/goliatone/go-site-feeds/internal/rss"
	"github.com/goliatone/go-site-feeds/internal/runtimeconfig"
)

func (s *service) toRSSItem(def runtimeconfig.FeedDefinition, entry content.Entry) rss.Item {
	collectionCfg, _ := s.cfg.Collection(entry.Collection)

	title := entry.DisplayName()
	if def.Combined {
		title = collectionCfg.TitlePrefix + title
	}
	description := strings.TrimSpace(entry.Description)
	if description == "" {
		description = noDescription
	}

	item := rss.Item{
		Title:       title,
		Description: description,
		Content:     entry.Content,
		Link:        absoluteURL(s.cfg.Site.BaseURL, entry.URL),
		PubDate:     entry.SortDate,
		Author:      rss.Contact(s.cfg.Site.Email, s.cfg.Site.Author),
		Categories:  categories(def, collectionCfg, entry.Tags),
		Comments:    entry.Website,
	}
	if entry.GitHub != "" {
		item.Source = &rss.Source{URL: entry.GitHub, Title: "GitHub"}
	}
	if entry.Image != nil {
		item.Enclosure = &rss.Enclosure{
			URL:    entry.Image.URL,
			Length: entry.Image.Length,
			Type:   entry.Image.Type,
		}
	}
	return item
}

// categories lists the collection category followed by the tags in combined
// feeds. Single-collection feeds use the tags, or the category when untagged.
func categories(def runtimeconfig.FeedDefinition, collection runtimeconfig.CollectionConfig, tags []string) []string {
	out := make([]string, 0, len(tags)+1)
	if def.Combined || len(tags) == 0 {
		if collection.Category != "" {
			out = append(out, collection.Category)
		}
	}
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	if len(out) == 0 {
		out = append(out, "Uncategorized")
	}
	return out
}
