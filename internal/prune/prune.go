// Package prune implements csvprune's single transformation: read a CSV
// stream, drop the columns the filter chain excludes, and write the rest in
// their original order.
//
// The work is split into a pure part ([Plan] computes the output schema once
// from the header, [Schema.Project] maps one record onto it) and a
// streaming driver ([Run]) that holds at most one record at a time.
package prune

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/hupe1980/csvprune/internal/csvio"
	"github.com/hupe1980/csvprune/internal/filter"
	"github.com/hupe1980/csvprune/internal/logging"
)

// ContextCheckInterval is how often (in rows) Run checks for context
// cancellation.
var ContextCheckInterval = 100

// MissingColumnError reports a data record too short to supply a value for
// a column that survives filtering.
type MissingColumnError struct {
	// Line is the 1-based input line of the record.
	Line int
	// Column is the surviving column the record has no value for.
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("line %d: record has no value for column %q", e.Line, e.Column)
}

// Schema is the output schema derived from one input header.
type Schema struct {
	// Header is the input header as read.
	Header []string
	// Columns are the surviving columns in input order.
	Columns []filter.Column
	// Excluded are the dropped columns in input order.
	Excluded []filter.ExcludedColumn
}

// Plan computes the output schema for header using chain.
func Plan(ctx context.Context, header []string, chain *filter.Chain) (*Schema, error) {
	res, err := chain.Apply(ctx, filter.Columns(header))
	if err != nil {
		return nil, fmt.Errorf("applying column filters: %w", err)
	}

	return &Schema{
		Header:   header,
		Columns:  res.Included,
		Excluded: res.Excluded,
	}, nil
}

// Names returns the output header.
func (s *Schema) Names() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}

	return names
}

// DroppedNames returns the names of the excluded columns.
func (s *Schema) DroppedNames() []string {
	names := make([]string, len(s.Excluded))
	for i, e := range s.Excluded {
		names[i] = e.Column.Name
	}

	return names
}

// Project returns the cells of row that belong to the output schema, in
// schema order. Cells beyond the header are ignored. A row lacking a
// surviving column yields a *MissingColumnError.
func (s *Schema) Project(row csvio.Row) ([]string, error) {
	out := make([]string, len(s.Columns))

	for i, col := range s.Columns {
		v, ok := row.At(col.Index)
		if !ok {
			return nil, &MissingColumnError{Line: row.Line, Column: col.Name}
		}

		out[i] = v
	}

	return out, nil
}

// Options configures Run.
type Options struct {
	// Chain decides which columns are dropped. Nil means filter.DefaultChain().
	Chain *filter.Chain
}

// Stats summarizes a completed (or aborted) run.
type Stats struct {
	// Rows is the number of data records written.
	Rows int
	// Kept is the output header.
	Kept []string
	// Dropped are the header names that were removed.
	Dropped []string
}

// Run filters the CSV stream in into out. An input without any record
// produces no output. Records written before an error stay written: the
// output is flushed on every return path.
func Run(ctx context.Context, in io.Reader, out io.Writer, opts Options) (stats *Stats, err error) {
	logger := logging.FromContext(ctx)

	chain := opts.Chain
	if chain == nil {
		chain = filter.DefaultChain()
	}

	r := csvio.NewReader(in)

	header, err := r.ReadHeader()
	if errors.Is(err, io.EOF) {
		logger.Debug("input is empty, nothing to filter")
		return &Stats{}, nil
	}

	if err != nil {
		return nil, err
	}

	schema, err := Plan(ctx, header, chain)
	if err != nil {
		return nil, err
	}

	stats = &Stats{Kept: schema.Names(), Dropped: schema.DroppedNames()}

	logger.Debug("output schema computed",
		slog.Int("inputColumns", len(header)),
		slog.Any("kept", stats.Kept),
		slog.Any("dropped", stats.Dropped),
	)

	w := csvio.NewWriter(out)

	defer func() {
		if flushErr := w.Flush(); flushErr != nil && err == nil {
			err = flushErr
		}
	}()

	if err := w.Write(stats.Kept); err != nil {
		return stats, err
	}

	interval := ContextCheckInterval
	if interval <= 0 {
		interval = 1
	}

	for {
		if stats.Rows%interval == 0 {
			if err := ctx.Err(); err != nil {
				return stats, fmt.Errorf("filtering cancelled: %w", err)
			}
		}

		row, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return stats, err
		}

		record, err := schema.Project(row)
		if err != nil {
			return stats, err
		}

		if err := w.Write(record); err != nil {
			return stats, err
		}

		stats.Rows++
	}

	logger.Debug("filtering complete", slog.Int("rows", stats.Rows))

	return stats, nil
}
