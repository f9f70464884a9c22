package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hupe1980/csvprune/internal/config"
	"github.com/hupe1980/csvprune/internal/csvio"
	"github.com/hupe1980/csvprune/internal/filter"
	"github.com/hupe1980/csvprune/internal/logging"
	"github.com/hupe1980/csvprune/internal/prune"
	"github.com/hupe1980/csvprune/internal/report"
)

type inspectOptions struct {
	format string
	diff   bool
}

func newInspectCommand() *cobra.Command {
	opts := &inspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Show which columns would be kept and dropped",
		Long: `Inspect reads only the header of <file> and reports the output schema:
the input columns, the columns that survive, the columns that are dropped
with the reason, and the names of the removal list the input does not have.

Like the filter itself, inspect reads standard input when <file> does not
exist. Use --diff to see the header change as a unified diff.`,
		Example: `  csvprune inspect flight.csv
  csvprune inspect flight.csv --format yaml
  csvprune inspect - --diff < flight.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.format, "format", report.FormatText, "report format: text, yaml, json")
	f.BoolVar(&opts.diff, "diff", false, "print the header change as a unified diff")

	return cmd
}

func runInspect(cmd *cobra.Command, path string, opts *inspectOptions) error {
	switch opts.format {
	case report.FormatText, report.FormatYAML, report.FormatJSON:
	default:
		return &ExitError{Code: 2, Err: fmt.Errorf("invalid --format %q: must be one of text, yaml, json", opts.format)}
	}

	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	in, err := openInput(path, cmd.InOrStdin(), logger)
	if err != nil {
		return err
	}
	defer in.Close()

	schema, err := readSchema(cmd, in)
	if err != nil {
		return fmt.Errorf("inspecting %s: %w", in.Name(), err)
	}

	if opts.diff {
		var before, after []string
		if schema != nil {
			before, after = schema.Header, schema.Names()
		}

		result, err := report.HeaderDiff(before, after, report.DefaultDiffOptions())
		if err != nil {
			return err
		}

		report.WriteDiff(cmd.OutOrStdout(), result, !config.FromContext(ctx).NoColor)

		return nil
	}

	rep := report.Build(in.Name(), schema, filter.DefaultRemovedColumns)

	logger.Debug("schema report built",
		slog.String("input", in.Name()),
		slog.Int("kept", len(rep.Kept)),
		slog.Int("dropped", len(rep.Dropped)),
	)

	return rep.Write(cmd.OutOrStdout(), opts.format)
}

// readSchema reads the header of r and plans the output schema. An empty
// input yields a nil schema.
func readSchema(cmd *cobra.Command, r io.Reader) (*prune.Schema, error) {
	header, err := csvio.NewReader(r).ReadHeader()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return prune.Plan(cmd.Context(), header, filter.DefaultChain())
}
