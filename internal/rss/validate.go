package rss

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/mmcdole/gofeed"
)

// Structure check names reported by ValidateStructure.
const (
	CheckXMLDeclaration = "xml_declaration"
	CheckRSSTag         = "rss_tag"
	CheckChannel        = "channel"
	CheckCloseTag       = "close_tag"
	CheckNamespaces     = "namespaces"
	CheckContentEncoded = "content_encoded"
	CheckCDATA          = "cdata"
)

// StructureReport lists the envelope checks run against a document.
type StructureReport struct {
	Valid  bool
	Checks map[string]bool
}

var itemPattern = regexp.MustCompile(`(?s)<item>.*?</item>`)

// ParseItems returns the raw <item> fragments of a document.
func ParseItems(doc string) []string {
	return itemPattern.FindAllString(doc, -1)
}

// ValidateStructure checks the RSS envelope. The content:encoded and CDATA
// checks only apply to documents that carry items.
func ValidateStructure(doc string) StructureReport {
	checks := map[string]bool{
		CheckXMLDeclaration: strings.HasPrefix(doc, Declaration),
		CheckRSSTag:         strings.Contains(doc, `<rss version="2.0"`),
		CheckChannel:        strings.Contains(doc, "<channel>") && strings.Contains(doc, "</channel>"),
		CheckCloseTag:       strings.Contains(doc, "</rss>"),
		CheckNamespaces:     strings.Contains(doc, "xmlns:atom=") && strings.Contains(doc, "xmlns:content="),
	}
	if len(ParseItems(doc)) > 0 {
		checks[CheckContentEncoded] = strings.Contains(doc, "<content:encoded>")
		checks[CheckCDATA] = strings.Contains(doc, "<![CDATA[") && strings.Contains(doc, "]]></content:encoded>")
	}

	report := StructureReport{Valid: true, Checks: checks}
	for _, ok := range checks {
		report.Valid = report.Valid && ok
	}
	return report
}

var cdataBoundary = regexp.MustCompile(`<!\[CDATA\[|\]\]>`)

// ValidateSyntax looks for doubled angle brackets outside CDATA sections.
func ValidateSyntax(doc string) []string {
	var problems []string
	for i, part := range cdataBoundary.Split(doc, -1) {
		if i%2 != 0 {
			continue
		}
		if strings.Contains(part, "<<") || strings.Contains(part, ">>") {
			problems = append(problems, fmt.Sprintf("xml syntax error in part %d: contains double angle brackets", i))
		}
	}
	return problems
}

var pubDatePattern = regexp.MustCompile(`^\w{3}, \d{2} \w{3} \d{4} \d{2}:\d{2}:\d{2} GMT$`)

// Parse reads a document back with gofeed.
func Parse(doc string) (*gofeed.Feed, error) {
	feed, err := gofeed.NewParser().ParseString(doc)
	if err != nil {
		return nil, fmt.Errorf("rss parse: %w", err)
	}
	return feed, nil
}

// Validate runs the structure and syntax checks, parses the document and
// verifies that GUIDs are unique and dates use PubDateLayout.
func Validate(doc string) error {
	var errs []error

	report := ValidateStructure(doc)
	for name, ok := range report.Checks {
		if !ok {
			errs = append(errs, fmt.Errorf("rss structure: %s check failed", name))
		}
	}
	for _, problem := range ValidateSyntax(doc) {
		errs = append(errs, errors.New(problem))
	}

	feed, err := Parse(doc)
	if err != nil {
		return errors.Join(append(errs, err)...)
	}
	if feed.Published != "" && !pubDatePattern.MatchString(feed.Published) {
		errs = append(errs, fmt.Errorf("rss channel pubDate %q is not RFC 822", feed.Published))
	}

	guids := make(map[string]struct{}, len(feed.Items))
	for idx, item := range feed.Items {
		if _, dup := guids[item.GUID]; dup {
			errs = append(errs, fmt.Errorf("rss item %d: duplicate guid %q", idx, item.GUID))
		}
		guids[item.GUID] = struct{}{}
		if !pubDatePattern.MatchString(item.Published) {
			errs = append(errs, fmt.Errorf("rss item %d: pubDate %q is not RFC 822", idx, item.Published))
		}
	}
	return errors.Join(errs...)
}
