package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// DiffResult holds the result of a unified diff computation.
type DiffResult struct {
	Unified        string
	HasDifferences bool
	OldLabel       string
	NewLabel       string
}

// DiffOptions configures diff computation.
type DiffOptions struct {
	OldLabel string
	NewLabel string
	Context  int
}

// DefaultDiffOptions returns the labels and context used by inspect --diff.
func DefaultDiffOptions() DiffOptions {
	return DiffOptions{
		OldLabel: "input header",
		NewLabel: "output header",
		Context:  2,
	}
}

// HeaderDiff computes a unified diff between two headers, one column name
// per line.
func HeaderDiff(before, after []string, opts DiffOptions) (*DiffResult, error) {
	diff := difflib.UnifiedDiff{
		A:        headerLines(before),
		B:        headerLines(after),
		FromFile: opts.OldLabel,
		ToFile:   opts.NewLabel,
		Context:  opts.Context,
	}

	unified, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return nil, fmt.Errorf("computing diff: %w", err)
	}

	return &DiffResult{
		Unified:        unified,
		HasDifferences: unified != "",
		OldLabel:       opts.OldLabel,
		NewLabel:       opts.NewLabel,
	}, nil
}

// WriteDiff writes a formatted diff to the given writer with optional ANSI colors.
func WriteDiff(w io.Writer, result *DiffResult, color bool) {
	if !result.HasDifferences {
		_, _ = fmt.Fprintln(w, "No columns removed.")
		return
	}

	for _, line := range strings.Split(strings.TrimSuffix(result.Unified, "\n"), "\n") {
		if color {
			writeColorLine(w, line)
		} else {
			_, _ = fmt.Fprintln(w, line)
		}
	}
}

// writeColorLine writes a single diff line with ANSI color codes.
func writeColorLine(w io.Writer, line string) {
	const (
		red   = "\033[31m"
		green = "\033[32m"
		cyan  = "\033[36m"
		bold  = "\033[1m"
		reset = "\033[0m"
	)

	switch {
	case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
		_, _ = fmt.Fprintf(w, "%s%s%s\n", bold, line, reset)
	case strings.HasPrefix(line, "@@"):
		_, _ = fmt.Fprintf(w, "%s%s%s\n", cyan, line, reset)
	case strings.HasPrefix(line, "-"):
		_, _ = fmt.Fprintf(w, "%s%s%s\n", red, line, reset)
	case strings.HasPrefix(line, "+"):
		_, _ = fmt.Fprintf(w, "%s%s%s\n", green, line, reset)
	default:
		_, _ = fmt.Fprintln(w, line)
	}
}

func headerLines(names []string) []string {
	lines := make([]string, len(names))
	for i, n := range names {
		lines[i] = n + "\n"
	}

	return lines
}
