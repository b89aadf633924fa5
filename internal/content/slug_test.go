package content

import "testing"

func TestNameFromPath(t *testing.T) {
	cases := map[string]string{
		"/blog/my-post.md": "my-post",
		"/src/content/blog/homelab-chapter-1/+page.md": "page",
		"/a/b/+page.md":                       "page",
		"/blog/++special-post.md":             "special-post",
		"/blog/++x.md":                        "x",
		"/blog/my-post":                       "my-post",
		"/very/deep/nested/path/to/my-file.js": "my-file",
		"filename.txt":                        "filename",
		`content\blog\windows.md`:             "windows",
		"":                                    "",
	}
	for input, want := range cases {
		if got := NameFromPath(input); got != want {
			t.Fatalf("NameFromPath(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestDirectorySlug(t *testing.T) {
	cases := map[string]string{
		"blog/homelab-chapter-1/+page.md":              "homelab-chapter-1",
		"blog/hello/hello.md":                          "hello",
		"blog/first-post/index.md":                     "first-post",
		"blog/second-post/notes.md":                    "second-post",
		"/src/content/blog/homelab-chapter-1/+page.md": "homelab-chapter-1",
		`blog\windows\index.md`:                        "windows",
		"hello/index.md":                               "hello",
		"blog/my-post.md":                              "my-post",
		"+page.md":                                     "page",
		"index.md":                                     "index",
		"":                                             "",
	}
	for input, want := range cases {
		if got := DirectorySlug(input); got != want {
			t.Fatalf("DirectorySlug(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Hello World":           "hello-world",
		"  Multiple   Spaces  ": "multiple-spaces",
		"C++ Programming":       "c-programming",
		"Node.js & Express":     "nodejs-express",
		"100% JavaScript!":      "100-javascript",
		"":                      "",
		"   ":                   "",
		"---":                   "",
	}
	for input, want := range cases {
		if got := Slugify(input); got != want {
			t.Fatalf("Slugify(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestIsValidSlug(t *testing.T) {
	if !IsValidSlug("homelab-chapter-1") {
		t.Fatal("expected homelab-chapter-1 to be a valid slug")
	}
	if IsValidSlug("Not A Slug!") {
		t.Fatal("expected spaces and punctuation to be rejected")
	}
}
