package content

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

const wordsPerMinute = 200

// FormatReadingTime estimates reading time at 200 words per minute.
func FormatReadingTime(text string) string {
	words := len(strings.Fields(text))
	if words == 0 {
		return "0 min read"
	}
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	return fmt.Sprintf("%d min read", minutes)
}

// FormatExcerpt shortens text to at most max runes, cutting at the last space
// before the limit and appending "...".
func FormatExcerpt(text string, max int) string {
	if text == "" {
		return ""
	}
	if max <= 0 {
		max = 150
	}
	if utf8.RuneCountInString(text) <= max {
		return text
	}
	runes := []rune(text)
	cut := max
	for i := max; i > 0; i-- {
		if runes[i] == ' ' {
			cut = i
			break
		}
	}
	return strings.TrimRight(string(runes[:cut]), " ") + "..."
}

// SortByDate returns a copy of items ordered by date, newest first unless
// ascending. Unparseable dates sort as the zero time.
func SortByDate(items []Item, ascending bool) []Item {
	sorted := append([]Item(nil), items...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, _ := ParseDate(sorted[i].Date)
		b, _ := ParseDate(sorted[j].Date)
		if ascending {
			return a.Before(b)
		}
		return a.After(b)
	})
	return sorted
}
