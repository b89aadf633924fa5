package rss

import "strings"

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeXML escapes the five XML-reserved characters for text nodes and
// attribute values. It is not idempotent: escape once, when embedding.
func EscapeXML(text string) string {
	return xmlEscaper.Replace(text)
}

// CDATA wraps text in a CDATA section. Embedded "]]>" sequences are split
// across two sections so the wrapper cannot be terminated early.
func CDATA(text string) string {
	return "<![CDATA[" + strings.ReplaceAll(text, "]]>", "]]]]><![CDATA[>") + "]]>"
}
