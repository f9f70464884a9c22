package output

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Writer is the interface for filtered-output destinations.
type Writer interface {
	// Write replaces the destination's content with data.
	Write(data []byte) error
}

// StdoutWriter writes each result to a stream, one after another.
type StdoutWriter struct {
	out io.Writer
}

// NewStdoutWriter creates a writer that sends output to the given writer.
// If w is nil, os.Stdout is used.
func NewStdoutWriter(w io.Writer) *StdoutWriter {
	if w == nil {
		w = os.Stdout
	}

	return &StdoutWriter{out: w}
}

// Write sends data to the stream.
func (sw *StdoutWriter) Write(data []byte) error {
	if _, err := sw.out.Write(data); err != nil {
		return fmt.Errorf("writing to stdout: %w", err)
	}

	return nil
}

// FileWriter replaces a file's content atomically: data goes to a
// temporary file in the same directory which is then renamed over the
// target, so readers never observe a half-written CSV.
type FileWriter struct {
	path   string
	perm   os.FileMode
	logger *slog.Logger
}

// FileWriterOption configures a FileWriter.
type FileWriterOption func(*FileWriter)

// WithPermissions overrides the default file permissions (0644).
func WithPermissions(perm os.FileMode) FileWriterOption {
	return func(fw *FileWriter) {
		fw.perm = perm
	}
}

// WithLogger sets a logger for the FileWriter.
func WithLogger(logger *slog.Logger) FileWriterOption {
	return func(fw *FileWriter) {
		fw.logger = logger
	}
}

// NewFileWriter creates a writer that writes to the specified file path.
func NewFileWriter(path string, opts ...FileWriterOption) *FileWriter {
	fw := &FileWriter{
		path:   path,
		perm:   0o644,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(fw)
	}

	return fw
}

// Write creates parent directories and atomically replaces the file.
func (fw *FileWriter) Write(data []byte) error {
	dir := filepath.Dir(fw.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(fw.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temporary file in %s: %w", dir, err)
	}

	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing file %s: %w", fw.path, err)
	}

	if err := tmp.Chmod(fw.perm); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("setting permissions on %s: %w", fw.path, err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing file %s: %w", fw.path, err)
	}

	if err := os.Rename(tmpName, fw.path); err != nil {
		return fmt.Errorf("replacing file %s: %w", fw.path, err)
	}

	fw.logger.Debug("output written", slog.String("path", fw.path), slog.Int("bytes", len(data)))

	return nil
}

// Path returns the output file path.
func (fw *FileWriter) Path() string {
	return fw.path
}
