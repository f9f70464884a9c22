package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/csvprune/internal/filter"
	"github.com/hupe1980/csvprune/internal/logging"
	"github.com/hupe1980/csvprune/internal/output"
	"github.com/hupe1980/csvprune/internal/prune"
	"github.com/hupe1980/csvprune/internal/watch"
)

type watchOptions struct {
	output   string
	debounce time.Duration
}

func newWatchCommand() *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-filter a CSV file whenever it changes",
		Long: `Watch filters <file> into the --output destination once, then again
every time <file> is written or replaced. Changes are debounced so a
logger appending in bursts triggers one run per burst.

Each run writes the complete filtered file; the destination is replaced
atomically. Use "-o -" to write every run to standard output instead.
Status lines go to standard error. Stop with Ctrl-C.`,
		Example: `  csvprune watch flight.csv -o flight-trimmed.csv
  csvprune watch flight.csv -o flight-trimmed.csv --debounce 2s`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), cmd, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", `output file path, "-" for stdout (required)`)
	f.DurationVar(&opts.debounce, "debounce", watch.DefaultOptions().Debounce, "debounce interval for file changes")

	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, path string, opts *watchOptions) error {
	if opts.output == "" {
		return &ExitError{Code: 2, Err: errors.New("--output (-o) is required for watch mode")}
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &ExitError{Code: 2, Err: fmt.Errorf("input %s does not exist", path)}
		}

		return fmt.Errorf("checking input: %w", err)
	}

	if opts.output != "-" {
		same, err := samePath(path, opts.output)
		if err != nil {
			return err
		}

		if same {
			return &ExitError{Code: 2, Err: fmt.Errorf("output %s is the watched input", opts.output)}
		}
	}

	logger := logging.FromContext(ctx)

	var dest output.Writer
	if opts.output == "-" {
		dest = output.NewStdoutWriter(cmd.OutOrStdout())
	} else {
		dest = output.NewFileWriter(opts.output, output.WithLogger(logger))
	}

	runFn := func(fnCtx context.Context) (*watch.RunResult, error) {
		f, err := os.Open(path) //nolint:gosec // user-named input
		if err != nil {
			return nil, fmt.Errorf("opening input: %w", err)
		}
		defer f.Close()

		var buf bytes.Buffer

		stats, err := prune.Run(fnCtx, f, &buf, prune.Options{Chain: filter.DefaultChain()})
		if err != nil {
			return nil, err
		}

		if err := dest.Write(buf.Bytes()); err != nil {
			return nil, fmt.Errorf("writing output: %w", err)
		}

		return &watch.RunResult{
			Rows:    stats.Rows,
			Kept:    len(stats.Kept),
			Dropped: len(stats.Dropped),
		}, nil
	}

	watchOpts := watch.DefaultOptions()
	watchOpts.Input = path
	watchOpts.Debounce = opts.debounce
	watchOpts.Logger = logger
	watchOpts.Out = cmd.ErrOrStderr()

	return watch.Run(ctx, watchOpts, runFn)
}

// samePath reports whether a and b name the same file once made absolute.
func samePath(a, b string) (bool, error) {
	absA, err := filepath.Abs(a)
	if err != nil {
		return false, fmt.Errorf("resolving %s: %w", a, err)
	}

	absB, err := filepath.Abs(b)
	if err != nil {
		return false, fmt.Errorf("resolving %s: %w", b, err)
	}

	return absA == absB, nil
}
