// Package cli implements the cobra command tree for csvprune.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/hupe1980/csvprune/internal/config"
	"github.com/hupe1980/csvprune/internal/filter"
	"github.com/hupe1980/csvprune/internal/logging"
	"github.com/hupe1980/csvprune/internal/prune"
)

// usageLine is printed on stderr when no input is named.
const usageLine = "Usage: csvprune [file]"

// ErrUsage is returned when csvprune is invoked without an input argument.
var ErrUsage = errors.New("missing input file argument")

// ExitError wraps an error with a specific process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}

	return fmt.Sprintf("exit code %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// Execute builds the command tree, runs it against the process arguments
// and standard streams, and returns the exit code.
func Execute() int {
	return run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

// run executes the command tree and reports a failure on stderr exactly
// once.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return 0
	}

	if errors.Is(err, ErrUsage) {
		_, _ = fmt.Fprintln(stderr, usageLine)
	} else {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	return 1
}

// NewRootCommand constructs the top-level cobra.Command with all
// subcommands attached. The root command itself is the filter.
func NewRootCommand() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "csvprune <file>",
		Short: "Strip per-cylinder temperature columns from engine-monitor CSV",
		Long: `csvprune copies a CSV file to standard output without the
per-cylinder exhaust gas (E1-E6) and cylinder head (C1-C6) temperature
columns, keeping every other column in its original order.

If <file> does not exist, the CSV is read from standard input instead,
so "csvprune - < flight.csv" works as well. The removal list is fixed.

A file named like a subcommand must be given with a path prefix,
e.g. "csvprune ./watch".`,
		Args:          requireInput,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd, cfgFile)
			if err != nil {
				return &ExitError{Code: 2, Err: err}
			}

			logger := logging.Setup(cfg, cmd.ErrOrStderr())

			ctx := cmd.Context()
			ctx = config.NewContext(ctx, cfg)
			ctx = logging.NewContext(ctx, logger)
			cmd.SetContext(ctx)

			logger.Debug("configuration loaded",
				slog.String("logLevel", cfg.LogLevel),
				slog.String("logFormat", cfg.LogFormat),
				slog.String("configFile", cfg.ConfigFile),
			)

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFilter(cmd, args)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: .csvprune.yaml)")
	pf.String("log-level", config.LogLevelInfo, "log level: debug, info, warn, error")
	pf.String("log-format", config.LogFormatText, "log format: text, json")
	pf.Bool("no-color", false, "disable colored output")
	pf.BoolP("quiet", "q", false, "suppress non-essential output")

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: 2, Err: err}
	})

	cmd.AddCommand(
		newInspectCommand(),
		newWatchCommand(),
		newVersionCommand(),
		newCompletionCommand(),
	)

	return cmd
}

// requireInput accepts one input argument. Further arguments are accepted
// and ignored.
func requireInput(_ *cobra.Command, args []string) error {
	if len(args) == 0 {
		return &ExitError{Code: 1, Err: ErrUsage}
	}

	return nil
}

func runFilter(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	if len(args) > 1 {
		logger.Debug("ignoring extra arguments", slog.Any("args", args[1:]))
	}

	in, err := openInput(args[0], cmd.InOrStdin(), logger)
	if err != nil {
		return err
	}
	defer in.Close()

	stats, err := prune.Run(ctx, in, cmd.OutOrStdout(), prune.Options{Chain: filter.DefaultChain()})
	if err != nil {
		return fmt.Errorf("filtering %s: %w", in.Name(), err)
	}

	logger.Debug("done",
		slog.String("input", in.Name()),
		slog.Int("rows", stats.Rows),
		slog.Int("dropped", len(stats.Dropped)),
	)

	return nil
}
