package filter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Chain tests
// ---------------------------------------------------------------------------

func TestChain_Empty(t *testing.T) {
	cols := Columns([]string{"A", "E1"})
	result, err := NewChain().Apply(context.Background(), cols)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "E1"}, result.IncludedNames())
	assert.Empty(t, result.Excluded)
}

func TestChain_MultipleFilters(t *testing.T) {
	cols := Columns([]string{"Time", "E1", "OAT", "C1", "RPM"})

	chain := NewChain(
		NewNameFilter([]string{"C1"}),
		NewNameFilter([]string{"E1"}),
	)

	result, err := chain.Apply(context.Background(), cols)
	require.NoError(t, err)
	assert.Equal(t, []string{"Time", "OAT", "RPM"}, result.IncludedNames())

	// Exclusions come back in header order regardless of filter order.
	assert.Equal(t, []string{"E1", "C1"}, result.ExcludedNames())
	assert.Equal(t, 1, result.Excluded[0].Column.Index)
	assert.Equal(t, 3, result.Excluded[1].Column.Index)
}

func TestChain_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := DefaultChain().Apply(ctx, Columns([]string{"A"}))
	assert.ErrorIs(t, err, context.Canceled)
}

type errFilter struct{}

func (errFilter) Apply(context.Context, []Column) (*Result, error) { return nil, assert.AnError }

func TestChain_PropagatesError(t *testing.T) {
	_, err := NewChain(errFilter{}).Apply(context.Background(), Columns([]string{"A"}))
	assert.ErrorIs(t, err, assert.AnError)
}

// ---------------------------------------------------------------------------
// NameFilter tests
// ---------------------------------------------------------------------------

func TestNameFilter(t *testing.T) {
	tests := []struct {
		name     string
		remove   []string
		header   []string
		included []string
		excluded []string
	}{
		{
			name:     "mixed header",
			remove:   DefaultRemovedColumns,
			header:   []string{"A", "B", "E1", "C", "C2"},
			included: []string{"A", "B", "C"},
			excluded: []string{"E1", "C2"},
		},
		{
			name:     "nothing removable",
			remove:   DefaultRemovedColumns,
			header:   []string{"X", "Y"},
			included: []string{"X", "Y"},
			excluded: []string{},
		},
		{
			name:     "case sensitive",
			remove:   DefaultRemovedColumns,
			header:   []string{"e1", "E1"},
			included: []string{"e1"},
			excluded: []string{"E1"},
		},
		{
			name:     "everything removed",
			remove:   []string{"A", "B"},
			header:   []string{"A", "B"},
			included: []string{},
			excluded: []string{"A", "B"},
		},
		{
			name:     "empty removal list",
			remove:   nil,
			header:   []string{"E1", "C1"},
			included: []string{"E1", "C1"},
			excluded: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewNameFilter(tt.remove).Apply(context.Background(), Columns(tt.header))
			require.NoError(t, err)
			assert.Equal(t, tt.included, r.IncludedNames())
			assert.Equal(t, tt.excluded, r.ExcludedNames())
		})
	}
}

func TestNameFilter_Reason(t *testing.T) {
	r, err := NewNameFilter([]string{"E3"}).Apply(context.Background(), Columns([]string{"E3"}))
	require.NoError(t, err)
	require.Len(t, r.Excluded, 1)
	assert.Equal(t, "excluded by name: E3", r.Excluded[0].Reason)
}

func TestDefaultRemovedColumns(t *testing.T) {
	assert.Equal(t, []string{
		"E1", "E2", "E3", "E4", "E5", "E6",
		"C1", "C2", "C3", "C4", "C5", "C6",
	}, DefaultRemovedColumns)
}

func TestColumns_KeepsPositions(t *testing.T) {
	cols := Columns([]string{"A", "A"})
	assert.Equal(t, []Column{{Name: "A", Index: 0}, {Name: "A", Index: 1}}, cols)
}
