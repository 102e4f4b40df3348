package openalex

import (
	"fmt"
	"strings"

	"github.com/scholarex/openalex-explorer/internal/domain"
)

// YearRange bounds a publication-year filter. Either side may be nil for an
// open-ended range.
type YearRange struct {
	Start *int
	End   *int
}

// IsZero reports whether neither bound is set.
func (y YearRange) IsZero() bool {
	return y.Start == nil && y.End == nil
}

// Validate fails when both bounds are present and start > end. The range is
// never silently swapped or clamped.
func (y YearRange) Validate() error {
	if y.Start != nil && y.End != nil && *y.Start > *y.End {
		return domain.NewValidationError("publication_year",
			fmt.Sprintf("start year %d is after end year %d", *y.Start, *y.End))
	}
	return nil
}

// expr renders the range in the OpenAlex filter grammar: a closed range as
// "start-end", an open-ended bound as ">=start" or "<=end".
func (y YearRange) expr() string {
	switch {
	case y.Start != nil && y.End != nil:
		return fmt.Sprintf("%d-%d", *y.Start, *y.End)
	case y.Start != nil:
		return fmt.Sprintf(">=%d", *y.Start)
	case y.End != nil:
		return fmt.Sprintf("<=%d", *y.End)
	default:
		return ""
	}
}

// filterEntry is one key in a FilterSet. Multiple values are alternatives
// (logical OR).
type filterEntry struct {
	key    string
	values []string
}

// FilterSet accumulates filters for one query. It is built once per call,
// never mutated after Encode, and preserves insertion order.
type FilterSet struct {
	entries []filterEntry
}

// NewFilterSet creates an empty FilterSet.
func NewFilterSet() *FilterSet {
	return &FilterSet{}
}

// Add appends a filter key with one or more alternative values. Values for
// an already-present key are merged into its alternatives.
func (f *FilterSet) Add(key string, values ...string) *FilterSet {
	for i := range f.entries {
		if f.entries[i].key == key {
			f.entries[i].values = append(f.entries[i].values, values...)
			return f
		}
	}
	f.entries = append(f.entries, filterEntry{key: key, values: values})
	return f
}

// AddYearRange appends a publication_year filter. The range must already be
// validated; an empty range adds nothing.
func (f *FilterSet) AddYearRange(y YearRange) *FilterSet {
	if expr := y.expr(); expr != "" {
		f.Add("publication_year", expr)
	}
	return f
}

// Empty reports whether the set holds no filters.
func (f *FilterSet) Empty() bool {
	return len(f.entries) == 0
}

// Encode renders the set in the OpenAlex filter grammar: distinct keys are
// comma-separated and alternatives within a key are joined with "+".
func (f *FilterSet) Encode() string {
	parts := make([]string, 0, len(f.entries))
	for _, e := range f.entries {
		parts = append(parts, e.key+":"+strings.Join(e.values, "+"))
	}
	return strings.Join(parts, ",")
}
