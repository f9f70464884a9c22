// Package report describes what csvprune does to a given header without
// filtering any data: which columns survive, which are dropped and why,
// and which removal-list names the input does not carry. Reports render as
// a text table, YAML, or JSON, and the header change as a unified diff.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	sigsyaml "sigs.k8s.io/yaml"

	"github.com/hupe1980/csvprune/internal/prune"
)

// Supported report formats.
const (
	FormatText = "text"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Report is the schema summary for one input.
type Report struct {
	// Source names the input ("-" for standard input).
	Source string `json:"source"`
	// Columns is the input header.
	Columns []string `json:"columns"`
	// Kept is the output header.
	Kept []string `json:"kept"`
	// Dropped lists the removed columns in input order.
	Dropped []DroppedColumn `json:"dropped"`
	// NotPresent lists removal-list names the header does not contain.
	NotPresent []string `json:"notPresent,omitempty"`
}

// DroppedColumn is one removed header entry.
type DroppedColumn struct {
	Name   string `json:"name"`
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// Build assembles a Report from a computed schema and the removal list the
// schema was computed with. A nil schema stands for an empty input.
func Build(source string, schema *prune.Schema, removal []string) *Report {
	r := &Report{
		Source:  source,
		Columns: []string{},
		Kept:    []string{},
		Dropped: []DroppedColumn{},
	}

	present := make(map[string]bool)

	if schema != nil {
		r.Columns = append(r.Columns, schema.Header...)
		r.Kept = schema.Names()

		for _, e := range schema.Excluded {
			r.Dropped = append(r.Dropped, DroppedColumn{
				Name:   e.Column.Name,
				Index:  e.Column.Index,
				Reason: e.Reason,
			})
		}

		for _, name := range schema.Header {
			present[name] = true
		}
	}

	for _, name := range removal {
		if !present[name] {
			r.NotPresent = append(r.NotPresent, name)
		}
	}

	return r
}

// Write renders the report in the named format.
func (r *Report) Write(w io.Writer, format string) error {
	switch format {
	case FormatText, "":
		return r.WriteText(w)
	case FormatYAML:
		data, err := r.YAML()
		if err != nil {
			return err
		}

		_, err = w.Write(data)

		return err
	case FormatJSON:
		data, err := r.JSON()
		if err != nil {
			return err
		}

		_, err = w.Write(data)

		return err
	default:
		return fmt.Errorf("unknown report format %q (available: %s, %s, %s)", format, FormatText, FormatYAML, FormatJSON)
	}
}

// YAML serializes the report as YAML.
func (r *Report) YAML() ([]byte, error) {
	data, err := sigsyaml.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("serializing YAML: %w", err)
	}

	return data, nil
}

// JSON serializes the report as indented JSON with a trailing newline.
func (r *Report) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializing JSON: %w", err)
	}

	return append(data, '\n'), nil
}

// WriteText renders the report as a human-readable table.
func (r *Report) WriteText(w io.Writer) error {
	if len(r.Columns) == 0 {
		_, err := fmt.Fprintf(w, "Source: %s\n(empty input, no header)\n", r.Source)
		return err
	}

	reasons := make(map[int]string, len(r.Dropped))
	for _, d := range r.Dropped {
		reasons[d.Index] = d.Reason
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "Source:\t%s\n", r.Source)
	_, _ = fmt.Fprintf(tw, "Columns:\t%d (kept %d, dropped %d)\n\n", len(r.Columns), len(r.Kept), len(r.Dropped))
	_ = tw.Flush()

	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "INDEX\tCOLUMN\tSTATUS\tREASON")

	for i, name := range r.Columns {
		status, reason := "kept", ""
		if why, ok := reasons[i]; ok {
			status, reason = "dropped", why
		}

		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i, name, status, reason)
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	if len(r.NotPresent) > 0 {
		if _, err := fmt.Fprintf(w, "\nNot present: %s\n", strings.Join(r.NotPresent, ", ")); err != nil {
			return err
		}
	}

	return nil
}
