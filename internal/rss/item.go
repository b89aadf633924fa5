package rss

import (
	"strconv"
	"strings"
	"time"
)

// PubDateLayout is RFC 1123 with a literal GMT zone, as RSS readers expect.
const PubDateLayout = "Mon, 02 Jan 2006 15:04:05 GMT"

// FormatDate renders t in PubDateLayout after converting it to UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format(PubDateLayout)
}

// Item is the serializable form of one feed entry. Content is raw HTML and is
// wrapped in CDATA; every other text field is escaped.
type Item struct {
	Title       string
	Description string
	Content     string
	Link        string
	PubDate     time.Time
	Author      string
	Categories  []string
	Comments    string
	Source      *Source
	Enclosure   *Enclosure
}

// Source points at the origin of an item, e.g. its repository.
type Source struct {
	URL   string
	Title string
}

// Enclosure is a media attachment.
type Enclosure struct {
	URL    string
	Length int64
	Type   string
}

// BuildItem renders item as an <item> fragment. The GUID equals the link.
func BuildItem(item Item) string {
	var b strings.Builder
	b.Grow(256 + len(item.Content) + len(item.Description))

	b.WriteString("    <item>\n")
	element(&b, "title", EscapeXML(item.Title))
	element(&b, "description", EscapeXML(item.Description))
	element(&b, "content:encoded", CDATA(item.Content))
	link := EscapeXML(item.Link)
	element(&b, "link", link)
	b.WriteString(`      <guid isPermaLink="true">` + link + "</guid>\n")
	element(&b, "pubDate", FormatDate(item.PubDate))
	if item.Author != "" {
		element(&b, "author", EscapeXML(item.Author))
	}
	for _, category := range item.Categories {
		element(&b, "category", EscapeXML(category))
	}
	if item.Comments != "" {
		element(&b, "comments", EscapeXML(item.Comments))
	}
	if item.Source != nil && item.Source.URL != "" {
		b.WriteString(`      <source url="` + EscapeXML(item.Source.URL) + `">` + EscapeXML(item.Source.Title) + "</source>\n")
	}
	if enc := item.Enclosure; enc != nil && enc.URL != "" {
		b.WriteString(`      <enclosure url="` + EscapeXML(enc.URL) +
			`" length="` + strconv.FormatInt(enc.Length, 10) +
			`" type="` + EscapeXML(enc.Type) + `" />` + "\n")
	}
	b.WriteString("    </item>\n")
	return b.String()
}

func element(b *strings.Builder, name, escaped string) {
	b.WriteString("      <")
	b.WriteString(name)
	b.WriteByte('>')
	b.WriteString(escaped)
	b.WriteString("</")
	b.WriteString(name)
	b.WriteString(">\n")
}
