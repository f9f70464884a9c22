package filter

import (
	"context"
	"fmt"
)

// DefaultRemovedColumns is the built-in removal list: the per-cylinder
// exhaust gas (E1-E6) and cylinder head (C1-C6) temperature columns of an
// engine-monitor export. It is not configurable at run time.
var DefaultRemovedColumns = []string{
	"E1", "E2", "E3", "E4", "E5", "E6",
	"C1", "C2", "C3", "C4", "C5", "C6",
}

// DefaultChain returns the chain csvprune applies to every input.
func DefaultChain() *Chain {
	return NewChain(NewNameFilter(DefaultRemovedColumns))
}

// NameFilter excludes columns whose name matches any of the specified names.
type NameFilter struct {
	names map[string]bool
}

// NewNameFilter creates a filter that excludes columns matching any of the
// given names. Matching is exact and case-sensitive.
func NewNameFilter(names []string) *NameFilter {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}

	return &NameFilter{names: m}
}

// Apply filters out columns whose name matches.
func (f *NameFilter) Apply(_ context.Context, columns []Column) (*Result, error) {
	r := NewResult()

	for _, col := range columns {
		if f.names[col.Name] {
			r.Excluded = append(r.Excluded, ExcludedColumn{
				Column: col,
				Reason: fmt.Sprintf("excluded by name: %s", col.Name),
			})
		} else {
			r.Included = append(r.Included, col)
		}
	}

	return r, nil
}
