package rss

import (
	"strconv"
	"strings"
	"time"
)

const (
	// Declaration is the exact XML declaration every document starts with.
	Declaration = `<?xml version="1.0" encoding="UTF-8"?>`
	rssOpen     = `<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom" xmlns:content="http://purl.org/rss/1.0/modules/content/">`

	ContentType = "application/rss+xml; charset=utf-8"
)

// Channel carries the feed-level metadata.
type Channel struct {
	Title          string
	Description    string
	Link           string
	FeedURL        string
	Language       string
	ManagingEditor string
	WebMaster      string
	LastBuildDate  time.Time
	PubDate        time.Time
	TTL            int
	Generator      string
}

// BuildDocument wraps channel metadata and pre-rendered item fragments in an
// RSS 2.0 envelope. Items are emitted in the given order.
func BuildDocument(ch Channel, items []string) string {
	size := 1024
	for _, item := range items {
		size += len(item)
	}

	var b strings.Builder
	b.Grow(size)
	b.WriteString(Declaration + "\n")
	b.WriteString(rssOpen + "\n")
	b.WriteString("  <channel>\n")
	channelElement(&b, "title", EscapeXML(ch.Title))
	channelElement(&b, "description", EscapeXML(ch.Description))
	channelElement(&b, "link", EscapeXML(ch.Link))
	if ch.FeedURL != "" {
		b.WriteString(`    <atom:link href="` + EscapeXML(ch.FeedURL) + `" rel="self" type="application/rss+xml"/>` + "\n")
	}
	language := ch.Language
	if language == "" {
		language = "en-us"
	}
	channelElement(&b, "language", EscapeXML(language))
	if ch.ManagingEditor != "" {
		channelElement(&b, "managingEditor", EscapeXML(ch.ManagingEditor))
	}
	if ch.WebMaster != "" {
		channelElement(&b, "webMaster", EscapeXML(ch.WebMaster))
	}
	channelElement(&b, "lastBuildDate", FormatDate(ch.LastBuildDate))
	channelElement(&b, "pubDate", FormatDate(ch.PubDate))
	if ch.TTL > 0 {
		channelElement(&b, "ttl", strconv.Itoa(ch.TTL))
	}
	if ch.Generator != "" {
		channelElement(&b, "generator", EscapeXML(ch.Generator))
	}
	for _, item := range items {
		b.WriteString(item)
	}
	b.WriteString("  </channel>\n")
	b.WriteString("</rss>\n")
	return b.String()
}

// Contact formats an author as "email (name)".
func Contact(email, name string) string {
	switch {
	case email == "":
		return name
	case name == "":
		return email
	}
	return email + " (" + name + ")"
}

func channelElement(b *strings.Builder, name, escaped string) {
	b.WriteString("    <" + name + ">" + escaped + "</" + name + ">\n")
}
