package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
)

// stdinName is the source label used when input comes from stdin.
const stdinName = "-"

// input is an opened CSV source.
type input struct {
	io.Reader
	name   string
	closer io.Closer
}

// Name returns the file path, or "-" for stdin.
func (i *input) Name() string { return i.name }

// Close closes the underlying file. Stdin is never closed.
func (i *input) Close() error {
	if i.closer == nil {
		return nil
	}

	return i.closer.Close()
}

// openInput opens path for reading. A path that does not exist falls back
// to stdin; any other open failure is returned.
func openInput(path string, stdin io.Reader, logger *slog.Logger) (*input, error) {
	f, err := os.Open(path) //nolint:gosec // reading a user-named file is the point
	if err == nil {
		return &input{Reader: f, name: path, closer: f}, nil
	}

	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("opening input: %w", err)
	}

	logger.Debug("input file not found, reading from stdin", slog.String("path", path))

	return &input{Reader: stdin, name: stdinName}, nil
}
