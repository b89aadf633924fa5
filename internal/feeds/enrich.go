package feeds

import (
	"context"
	"strings"

	"github.com/goliatone/go-site-feeds/internal/content"
	"github.com/goliatone/go-site-feeds/internal/logging"
	"github.com/goliatone/go-site-feeds/internal/markdown"
	"github.com/goliatone/go-site-feeds/internal/rss"
	"github.com/goliatone/go-site-feeds/internal/runtimeconfig"
)

const (
	noContent     = "No content available"
	noDescription = "No description available"

	footerOpen     = `<div style="margin-top: 20px; padding: 10px; background-color: #f5f5f5; border-radius: 5px;">`
	footerDate     = "Mon Jan 02 2006"
	descriptionMax = 160
)

// enrich attaches rendered content and image data to entry. Failures are
// logged and degrade to less complete output; enrich never fails the feed.
func (s *service) enrich(ctx context.Context, def runtimeconfig.FeedDefinition, entry content.Entry) content.Entry {
	logger := logging.WithItemContext(s.logger, def.Name, entry.Collection, entry.Slug)

	body, err := s.source.Body(ctx, entry.Path)
	if err != nil {
		logger.Warn("feeds.item.body_failed", "path", entry.Path, "error", err)
	}

	var rendered string
	if strings.TrimSpace(body) != "" {
		html, err := s.parser.Parse([]byte(body))
		if err != nil {
			logger.Warn("feeds.item.markdown_failed", "path", entry.Path, "error", err)
		} else {
			rendered = strings.TrimSpace(string(html))
		}
	}

	if strings.TrimSpace(entry.Description) == "" && s.cfg.Feeds.DescriptionFromBody && rendered != "" {
		entry.Description = markdown.TruncateForDescription(rendered, descriptionMax)
	}
	entry.Content = s.composeContent(entry, rendered)

	collectionCfg, _ := s.cfg.Collection(entry.Collection)
	image, err := s.resolveImage(ctx, entry, collectionCfg.ImageField)
	if err != nil {
		logger.Warn("feeds.item.image_failed", "error", err)
	}
	entry.Image = image
	return entry
}

// composeContent builds the content:encoded HTML: the rendered body or the
// description paragraph, then the optional metadata footer.
func (s *service) composeContent(entry content.Entry, rendered string) string {
	var b strings.Builder
	switch {
	case rendered != "":
		b.WriteString(rendered)
	case strings.TrimSpace(entry.Description) != "":
		b.WriteString("<p>" + rss.EscapeXML(entry.Description) + "</p>")
	}

	if s.cfg.Feeds.Footer {
		if b.Len() > 0 {
			b.WriteString("<hr>")
		}
		writeFooter(&b, entry)
	}

	if b.Len() == 0 {
		return noContent
	}
	return b.String()
}

func writeFooter(b *strings.Builder, entry content.Entry) {
	b.WriteString(footerOpen)
	if desc := strings.TrimSpace(entry.Description); desc != "" {
		b.WriteString("<p><strong>Summary:</strong> " + rss.EscapeXML(desc) + "</p>")
	}
	if entry.DateValid {
		b.WriteString("<p><strong>Published:</strong> " + entry.SortDate.Format(footerDate) + "</p>")
	}
	if len(entry.Tags) > 0 {
		escaped := make([]string, len(entry.Tags))
		for i, tag := range entry.Tags {
			escaped[i] = rss.EscapeXML(tag)
		}
		b.WriteString("<p><strong>Tags:</strong> " + strings.Join(escaped, ", ") + "</p>")
	}
	if entry.Icon != "" {
		b.WriteString("<p><strong>Icon:</strong> " + rss.EscapeXML(entry.Icon) + "</p>")
	}
	writeFooterLink(b, "Website", entry.Website)
	writeFooterLink(b, "GitHub", entry.GitHub)
	b.WriteString("</div>")
}

func writeFooterLink(b *strings.Builder, label, href string) {
	if href == "" {
		return
	}
	escaped := rss.EscapeXML(href)
	b.WriteString("<p><strong>" + label + ":</strong> <a href=\"" + escaped + "\">" + escaped + "</a></p>")
}
