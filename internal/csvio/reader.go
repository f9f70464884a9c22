// Package csvio reads and writes the comma-separated streams csvprune
// filters. It wraps encoding/csv with the conventions the filter relies on:
// ragged records are passed through for the caller to judge, a leading UTF-8
// byte order mark is discarded, and output lines end in a bare "\n".
package csvio

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// utf8BOM is the byte order mark some Windows tools prepend to CSV exports.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Row is one data record aligned against the stream header.
type Row struct {
	// Line is the 1-based input line the record starts on.
	Line int
	// Fields are the record's cells in input order. A ragged record may
	// hold fewer or more fields than the header.
	Fields []string
}

// At returns the cell at column index i. The second return value is false
// when the record is too short to have that column.
func (r Row) At(i int) (string, bool) {
	if i < 0 || i >= len(r.Fields) {
		return "", false
	}

	return r.Fields[i], true
}

// Reader reads a header record followed by data records.
type Reader struct {
	br     *bufio.Reader
	cr     *csv.Reader
	header []string
}

// NewReader creates a Reader over r. No input is consumed until
// ReadHeader is called.
func NewReader(r io.Reader) *Reader {
	br := bufio.NewReader(r)

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1

	return &Reader{br: br, cr: cr}
}

// ReadHeader reads the first record of the stream. It returns io.EOF when
// the stream holds no records at all.
func (r *Reader) ReadHeader() ([]string, error) {
	if r.header != nil {
		return r.header, nil
	}

	if err := r.skipBOM(); err != nil {
		return nil, err
	}

	header, err := r.cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}

		return nil, fmt.Errorf("reading header: %w", err)
	}

	r.header = header

	return header, nil
}

// Header returns the header read by ReadHeader, or nil before it was read.
func (r *Reader) Header() []string {
	return r.header
}

// Next returns the next data record. It returns io.EOF after the last
// record. ReadHeader must have been called first.
func (r *Reader) Next() (Row, error) {
	if r.header == nil {
		return Row{}, errors.New("reading record: header not read")
	}

	fields, err := r.cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Row{}, io.EOF
		}

		return Row{}, fmt.Errorf("reading record: %w", err)
	}

	line, _ := r.cr.FieldPos(0)

	return Row{Line: line, Fields: fields}, nil
}

func (r *Reader) skipBOM() error {
	b, err := r.br.Peek(len(utf8BOM))
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return fmt.Errorf("reading header: %w", err)
	}

	if bytes.Equal(b, utf8BOM) {
		_, _ = r.br.Discard(len(utf8BOM))
	}

	return nil
}
