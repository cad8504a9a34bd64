package discovery

import (
	"strings"
	"time"

	"github.com/openquill/inkwell/backend/internal/models"
)

// DateRange is a relative creation-date window token
type DateRange string

const (
	DateRangeNone  DateRange = ""
	DateRangeWeek  DateRange = "week"
	DateRangeMonth DateRange = "month"
	DateRangeYear  DateRange = "year"
)

// Filter is the canonical, immutable filter predicate produced from a
// free-text query plus selected facets. The zero value matches every
// published post. Predicates commute, so application order never changes the
// result set.
type Filter struct {
	Query      string
	AuthorID   uint
	CategoryID uint
	Tags       []string
	Range      DateRange
}

// Normalize trims the free-text query; a pure-whitespace query is treated as
// empty. Facet fields pass through untouched.
func (f Filter) Normalize() Filter {
	f.Query = strings.TrimSpace(f.Query)
	return f
}

// HasQuery reports whether the text predicate is non-trivial
func (f Filter) HasQuery() bool {
	return strings.TrimSpace(f.Query) != ""
}

// IsEmpty reports whether no predicate is active at all
func (f Filter) IsEmpty() bool {
	return !f.HasQuery() && f.AuthorID == 0 && f.CategoryID == 0 && len(f.Tags) == 0 && f.Range == DateRangeNone
}

// cutoff returns the earliest acceptable creation time for the date range, or
// ok=false when no range is selected.
func (f Filter) cutoff(now time.Time) (time.Time, bool) {
	switch f.Range {
	case DateRangeWeek:
		return now.AddDate(0, 0, -7), true
	case DateRangeMonth:
		return now.AddDate(0, -1, 0), true
	case DateRangeYear:
		return now.AddDate(-1, 0, 0), true
	default:
		return time.Time{}, false
	}
}

// matchesFacets evaluates the author, tag and date predicates against a post.
// The text and category predicates need collaborator data and are handled by
// the resolver.
func (f Filter) matchesFacets(post *models.Post, now time.Time) bool {
	if f.AuthorID != 0 && post.AuthorID != f.AuthorID {
		return false
	}
	// Tag selection narrows: the post must carry every selected tag, not any.
	for _, tag := range f.Tags {
		if !post.HasTag(tag) {
			return false
		}
	}
	if cutoff, ok := f.cutoff(now); ok && post.CreatedAt.Before(cutoff) {
		return false
	}
	return true
}
