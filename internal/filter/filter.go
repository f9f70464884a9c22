package filter

import (
	"context"
	"sort"
)

// Filter is the interface for all column filters.
// Filters are stateless: they receive a set of columns and return
// a result without modifying shared state.
type Filter interface {
	// Apply runs the filter on the given columns and returns a result.
	// The context allows cancellation of long-running filter operations.
	Apply(ctx context.Context, columns []Column) (*Result, error)
}

// Column is one header entry identified by name and input position.
type Column struct {
	// Name is the header cell text.
	Name string
	// Index is the zero-based position of the column in the input header.
	Index int
}

// ExcludedColumn records a column that was excluded by a filter.
type ExcludedColumn struct {
	// Column is the excluded column.
	Column Column
	// Reason is a human-readable explanation for the exclusion.
	Reason string
}

// Result holds the outcome of a filter application.
type Result struct {
	// Included are the columns that passed the filter, in input order.
	Included []Column
	// Excluded are the columns removed by the filter.
	Excluded []ExcludedColumn
}

// NewResult creates an empty Result.
func NewResult() *Result {
	return &Result{}
}

// IncludedNames returns the names of the included columns in order.
func (r *Result) IncludedNames() []string {
	names := make([]string, 0, len(r.Included))
	for _, c := range r.Included {
		names = append(names, c.Name)
	}

	return names
}

// ExcludedNames returns the names of the excluded columns in input order.
func (r *Result) ExcludedNames() []string {
	names := make([]string, 0, len(r.Excluded))
	for _, e := range r.Excluded {
		names = append(names, e.Column.Name)
	}

	return names
}

// Columns converts a header into positioned columns.
func Columns(header []string) []Column {
	cols := make([]Column, len(header))
	for i, name := range header {
		cols[i] = Column{Name: name, Index: i}
	}

	return cols
}

// Chain applies multiple filters sequentially, passing the included
// columns from each filter as input to the next.
type Chain struct {
	filters []Filter
}

// NewChain creates a filter chain from the given filters. An empty chain
// includes every column.
func NewChain(filters ...Filter) *Chain {
	return &Chain{filters: filters}
}

// Apply runs all filters in order, accumulating excluded columns.
// Returns the combined result.
func (c *Chain) Apply(ctx context.Context, columns []Column) (*Result, error) {
	combined := NewResult()
	current := columns

	for _, f := range c.filters {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		r, err := f.Apply(ctx, current)
		if err != nil {
			return nil, err
		}

		current = r.Included

		combined.Excluded = append(combined.Excluded, r.Excluded...)
	}

	combined.Included = current

	sortByIndex(combined.Excluded)

	return combined, nil
}

// sortByIndex restores input order across exclusions made by different
// filters.
func sortByIndex(excluded []ExcludedColumn) {
	sort.SliceStable(excluded, func(i, j int) bool {
		return excluded[i].Column.Index < excluded[j].Column.Index
	})
}
