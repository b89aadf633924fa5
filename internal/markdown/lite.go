package markdown

import (
	"html"
	"strings"

	"github.com/goliatone/go-site-feeds/pkg/interfaces"
)

type blockKind uint8

const (
	blockParagraph blockKind = iota
	blockHeading
	blockCode
)

type block struct {
	kind  blockKind
	level int
	lines []string
}

// ToHTML converts the supported markdown subset into an HTML fragment:
// headings (#, ##, ###), fenced code, paragraphs, and the inline spans
// **strong**, *em*, [text](url) and `code`. A blank line starts a new
// paragraph and a single newline becomes <br>. Code is HTML-escaped, all other
// text passes through unchanged.
func ToHTML(src string) string {
	if strings.TrimSpace(src) == "" {
		return ""
	}
	src = strings.ReplaceAll(src, "\r\n", "\n")
	src = strings.ReplaceAll(src, "\r", "\n")

	var b strings.Builder
	b.Grow(len(src) + len(src)/4)
	for _, blk := range scanBlocks(strings.Split(src, "\n")) {
		switch blk.kind {
		case blockHeading:
			tag := headingTags[blk.level]
			b.WriteString("<" + tag + ">")
			writeInline(&b, blk.lines[0])
			b.WriteString("</" + tag + ">")
		case blockCode:
			b.WriteString("<pre><code>")
			b.WriteString(html.EscapeString(strings.Join(blk.lines, "\n")))
			b.WriteString("</code></pre>")
		default:
			b.WriteString("<p>")
			for i, line := range blk.lines {
				if i > 0 {
					b.WriteString("<br>")
				}
				writeInline(&b, line)
			}
			b.WriteString("</p>")
		}
	}
	return b.String()
}

var headingTags = map[int]string{1: "h1", 2: "h2", 3: "h3"}

func scanBlocks(lines []string) []block {
	var (
		blocks    []block
		paragraph []string
	)
	flush := func() {
		if len(paragraph) > 0 {
			blocks = append(blocks, block{kind: blockParagraph, lines: paragraph})
			paragraph = nil
		}
	}

	for i := 0; i < len(lines); i++ {
		line := strings.TrimRight(lines[i], " \t")
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "```") {
			flush()
			var code []string
			for i++; i < len(lines); i++ {
				if strings.HasPrefix(strings.TrimSpace(lines[i]), "```") {
					break
				}
				code = append(code, lines[i])
			}
			blocks = append(blocks, block{kind: blockCode, lines: code})
			continue
		}
		if trimmed == "" {
			flush()
			continue
		}
		if level, text, ok := headingLine(trimmed); ok {
			flush()
			blocks = append(blocks, block{kind: blockHeading, level: level, lines: []string{text}})
			continue
		}
		paragraph = append(paragraph, line)
	}
	flush()
	return blocks
}

func headingLine(line string) (int, string, bool) {
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level == 0 || level > 3 || level >= len(line) || line[level] != ' ' {
		return 0, "", false
	}
	return level, strings.TrimSpace(line[level+1:]), true
}

func writeInline(b *strings.Builder, s string) {
	for i := 0; i < len(s); {
		switch s[i] {
		case '`':
			if end := strings.IndexByte(s[i+1:], '`'); end >= 0 {
				b.WriteString("<code>")
				b.WriteString(html.EscapeString(s[i+1 : i+1+end]))
				b.WriteString("</code>")
				i += end + 2
				continue
			}
		case '*':
			if strings.HasPrefix(s[i:], "**") {
				if end := strings.Index(s[i+2:], "**"); end > 0 && flanked(s[i+2:i+2+end]) {
					b.WriteString("<strong>")
					writeInline(b, s[i+2:i+2+end])
					b.WriteString("</strong>")
					i += end + 4
					continue
				}
			} else if end := strings.IndexByte(s[i+1:], '*'); end > 0 && flanked(s[i+1:i+1+end]) {
				b.WriteString("<em>")
				writeInline(b, s[i+1:i+1+end])
				b.WriteString("</em>")
				i += end + 2
				continue
			}
		case '[':
			if text, href, n, ok := linkAt(s[i:]); ok {
				b.WriteString(`<a href="`)
				b.WriteString(html.EscapeString(href))
				b.WriteString(`">`)
				writeInline(b, text)
				b.WriteString("</a>")
				i += n
				continue
			}
		}
		b.WriteByte(s[i])
		i++
	}
}

// flanked reports whether emphasis content hugs its delimiters.
func flanked(inner string) bool {
	return inner[0] != ' ' && inner[len(inner)-1] != ' '
}

// linkAt matches "[text](url)" at the start of s and reports the consumed length.
func linkAt(s string) (text, href string, n int, ok bool) {
	closeText := strings.IndexByte(s, ']')
	if closeText < 0 || closeText+1 >= len(s) || s[closeText+1] != '(' {
		return "", "", 0, false
	}
	closeURL := strings.IndexByte(s[closeText+2:], ')')
	if closeURL < 0 {
		return "", "", 0, false
	}
	text = s[1:closeText]
	href = s[closeText+2 : closeText+2+closeURL]
	return text, href, closeText + 3 + closeURL, true
}

// LiteParser exposes ToHTML through interfaces.MarkdownParser.
type LiteParser struct{}

var _ interfaces.MarkdownParser = LiteParser{}

func (LiteParser) Parse(markdown []byte) ([]byte, error) {
	return []byte(ToHTML(string(markdown))), nil
}

// ParseWithOptions ignores opts; the lite grammar has no switches.
func (p LiteParser) ParseWithOptions(markdown []byte, _ interfaces.ParseOptions) ([]byte, error) {
	return p.Parse(markdown)
}
