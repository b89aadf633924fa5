package content

import (
	"path"
	"sort"
	"strings"
	"time"
)

// DatePolicy decides the sort position of items whose date is missing or
// malformed.
type DatePolicy string

const (
	// DatePolicyNow sorts them as the most recent items.
	DatePolicyNow DatePolicy = "now"
	// DatePolicyEpoch sorts them last.
	DatePolicyEpoch DatePolicy = "epoch"
	// DatePolicyExclude drops them.
	DatePolicyExclude DatePolicy = "exclude"
)

// ParseDatePolicy maps configuration text onto a DatePolicy, defaulting to now.
func ParseDatePolicy(value string) DatePolicy {
	switch DatePolicy(strings.ToLower(strings.TrimSpace(value))) {
	case DatePolicyEpoch:
		return DatePolicyEpoch
	case DatePolicyExclude:
		return DatePolicyExclude
	default:
		return DatePolicyNow
	}
}

// AggregateOptions configures Aggregate.
type AggregateOptions struct {
	// Limit keeps the N most recent entries when positive.
	Limit  int
	Policy DatePolicy
	Now    func() time.Time
}

// Aggregate merges collections in order, attaches a sort date and URL to every
// item and sorts newest first. Equal dates keep merge order.
func Aggregate(collections []Collection, opts AggregateOptions) []Entry {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	fallback := now().UTC()
	if opts.Policy == DatePolicyEpoch {
		fallback = time.Unix(0, 0).UTC()
	}

	var entries []Entry
	for _, collection := range collections {
		for _, item := range collection.Items {
			if collection.Type != "" {
				item.Type = collection.Type
			}
			entry := Entry{
				Item:       item,
				Collection: collection.Name,
				URL:        EntryURL(collection.Route, item.Slug),
			}
			if parsed, ok := ParseDate(item.Date); ok {
				entry.SortDate = parsed
				entry.DateValid = true
			} else if opts.Policy == DatePolicyExclude {
				continue
			} else {
				entry.SortDate = fallback
			}
			entries = append(entries, entry)
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].SortDate.After(entries[j].SortDate)
	})

	if opts.Limit > 0 && len(entries) > opts.Limit {
		entries = entries[:opts.Limit]
	}
	return entries
}

// EntryURL joins a collection route and slug into a canonical site path.
func EntryURL(route, slug string) string {
	if route == "" {
		route = "/"
	}
	return path.Join("/", route, slug)
}
