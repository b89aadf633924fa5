package rss

import (
	"strings"
	"testing"
	"time"
)

func testChannel() Channel {
	at := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	return Channel{
		Title:          "Tech Quests - All Content",
		Description:    "Latest blog posts & projects",
		Link:           "https://techquests.dev",
		FeedURL:        "https://techquests.dev/rss.xml",
		ManagingEditor: Contact("me@example.com", "Me"),
		WebMaster:      Contact("me@example.com", "Me"),
		LastBuildDate:  at,
		PubDate:        at,
		TTL:            1440,
		Generator:      "go-site-feeds",
	}
}

func TestBuildDocument_Envelope(t *testing.T) {
	doc := BuildDocument(testChannel(), nil)

	if !strings.HasPrefix(doc, `<?xml version="1.0" encoding="UTF-8"?>`+"\n") {
		t.Fatalf("expected exact XML declaration, got %q", doc[:40])
	}
	for _, fragment := range []string{
		`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom" xmlns:content="http://purl.org/rss/1.0/modules/content/">`,
		"<title>Tech Quests - All Content</title>",
		"<description>Latest blog posts &amp; projects</description>",
		`<atom:link href="https://techquests.dev/rss.xml" rel="self" type="application/rss+xml"/>`,
		"<language>en-us</language>",
		"<managingEditor>me@example.com (Me)</managingEditor>",
		"<lastBuildDate>Fri, 01 Mar 2024 08:00:00 GMT</lastBuildDate>",
		"<ttl>1440</ttl>",
		"<generator>go-site-feeds</generator>",
	} {
		if !strings.Contains(doc, fragment) {
			t.Fatalf("expected %q in\n%s", fragment, doc)
		}
	}
	if strings.Contains(doc, "<item>") {
		t.Fatal("expected no items")
	}
	if err := Validate(doc); err != nil {
		t.Fatalf("expected empty document to validate: %v", err)
	}
}

func TestBuildDocument_PreservesItemOrder(t *testing.T) {
	items := []string{
		BuildItem(Item{Title: "b", Link: "https://techquests.dev/blog/b", PubDate: time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC)}),
		BuildItem(Item{Title: "a", Link: "https://techquests.dev/blog/a", PubDate: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)}),
	}
	doc := BuildDocument(testChannel(), items)

	if strings.Index(doc, "/blog/b<") > strings.Index(doc, "/blog/a<") {
		t.Fatal("expected item b before item a")
	}
	if got := len(ParseItems(doc)); got != 2 {
		t.Fatalf("expected 2 items, got %d", got)
	}
}

func TestContact(t *testing.T) {
	if Contact("a@b.c", "A") != "a@b.c (A)" || Contact("", "A") != "A" || Contact("a@b.c", "") != "a@b.c" {
		t.Fatal("unexpected contact formatting")
	}
}
