package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
)

// Writer writes CSV records terminated by a single "\n" on every platform.
type Writer struct {
	w  io.Writer
	cw *csv.Writer
}

// NewWriter creates a Writer over w.
func NewWriter(w io.Writer) *Writer {
	cw := csv.NewWriter(w)
	cw.UseCRLF = false

	return &Writer{w: w, cw: cw}
}

// Write writes one record. Output is buffered until Flush.
//
// A record holding a single empty field is written as `""`: encoding/csv
// would emit a bare newline, which readers skip as a blank line.
func (w *Writer) Write(record []string) error {
	if len(record) == 1 && record[0] == "" {
		if err := w.Flush(); err != nil {
			return err
		}

		if _, err := io.WriteString(w.w, "\"\"\n"); err != nil {
			return fmt.Errorf("writing record: %w", err)
		}

		return nil
	}

	if err := w.cw.Write(record); err != nil {
		return fmt.Errorf("writing record: %w", err)
	}

	return nil
}

// Flush writes any buffered records and reports the first write error seen.
func (w *Writer) Flush() error {
	w.cw.Flush()

	if err := w.cw.Error(); err != nil {
		return fmt.Errorf("flushing output: %w", err)
	}

	return nil
}
