package watch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
)

// RunFunc performs one filter pass and reports what it wrote.
type RunFunc func(ctx context.Context) (*RunResult, error)

// RunResult summarizes one filter pass.
type RunResult struct {
	Rows    int
	Kept    int
	Dropped int
}

// Options configures the watch behaviour.
type Options struct {
	// Input is the CSV file to watch.
	Input string

	// Debounce is the quiet period before re-running.
	Debounce time.Duration

	// Logger is used for structured logging.
	Logger *slog.Logger

	// Out receives one status line per run.
	Out io.Writer

	// Now stamps status lines; tests pin it.
	Now func() time.Time
}

// DefaultOptions returns the default watch options.
func DefaultOptions() Options {
	return Options{
		Debounce: 500 * time.Millisecond,
		Logger:   slog.Default(),
		Out:      io.Discard,
		Now:      time.Now,
	}
}

// Run performs an initial pass, then re-runs runFn after every change to
// opts.Input. It blocks until ctx is cancelled or SIGINT/SIGTERM arrives.
func Run(ctx context.Context, opts Options, runFn RunFunc) error {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if opts.Out == nil {
		opts.Out = io.Discard
	}

	if opts.Now == nil {
		opts.Now = time.Now
	}

	target, err := filepath.Abs(opts.Input)
	if err != nil {
		return fmt.Errorf("resolving input %q: %w", opts.Input, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(target), err)
	}

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_, _ = fmt.Fprintf(opts.Out, "watching %s (debounce=%s)\n", opts.Input, opts.Debounce)

	doRun(sigCtx, opts, runFn, "(initial)")

	debouncer := NewDebouncer(opts.Debounce, opts.Logger, func(path string) {
		doRun(sigCtx, opts, runFn, filepath.Base(path))
	})
	defer debouncer.Stop()

	for {
		select {
		case <-sigCtx.Done():
			debouncer.Stop()
			_, _ = fmt.Fprintln(opts.Out, "stopped watching")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !isRelevant(event, target) {
				continue
			}

			opts.Logger.Debug("input changed", slog.String("op", event.Op.String()))
			debouncer.Trigger(event.Name)

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			opts.Logger.Error("watcher error", slog.String("error", watchErr.Error()))
		}
	}
}

// doRun executes a single pass and prints the status line.
func doRun(ctx context.Context, opts Options, runFn RunFunc, trigger string) {
	if ctx.Err() != nil {
		return
	}

	now := opts.Now().Format("15:04:05")

	result, err := runFn(ctx)
	if err != nil {
		_, _ = fmt.Fprintf(opts.Out, "[%s] %s → ERROR: %v\n", now, trigger, err)
		return
	}

	_, _ = fmt.Fprintf(opts.Out, "[%s] %s → OK (%d rows, %d columns kept, %d dropped)\n",
		now, trigger, result.Rows, result.Kept, result.Dropped)
}

// isRelevant keeps content-changing events on the watched file. Remove is
// ignored: a replace-by-rename shows up as a Create of the target next.
func isRelevant(event fsnotify.Event, target string) bool {
	if filepath.Clean(event.Name) != target {
		return false
	}

	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}
