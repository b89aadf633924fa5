package markdown

import (
	"strings"
	"testing"
)

func TestPlainText(t *testing.T) {
	cases := map[string]string{
		"":                                         "",
		"<p>Hello <strong>world</strong></p>":      "Hello world",
		"<h1>A &amp; B</h1><p>x</p>":               "A & B x",
		"<p>a<br>b</p>":                            "a b",
		"<style>p{}</style><p>kept</p><script>x</script>": "kept",
	}
	for input, want := range cases {
		if got := PlainText(input); got != want {
			t.Fatalf("PlainText(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestTruncateForDescription(t *testing.T) {
	if got := TruncateForDescription("<p>short</p>", 160); got != "short" {
		t.Fatalf("expected short text untouched, got %q", got)
	}

	long := "<p>" + strings.Repeat("lorem ipsum ", 30) + "</p>"
	got := TruncateForDescription(long, 20)
	if got != "lorem ipsum lorem..." {
		t.Fatalf("unexpected truncation %q", got)
	}
}
