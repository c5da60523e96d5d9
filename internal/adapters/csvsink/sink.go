package csvsink

import (
	"encoding/csv"
	"io"
	"unicode/utf8"

	"icane/internal/domain"
	"icane/internal/errors"
	"icane/internal/ports"
)

// Sink writes flattened rows as CSV. Cells are rendered with
// domain.FormatValue, so a null becomes an empty cell.
type Sink struct {
	w      *csv.Writer
	closer io.Closer
	header bool
}

var _ ports.RowSink = (*Sink)(nil)

// New returns a sink writing to w with the given one-character delimiter.
// If w is an io.Closer it is closed by Close and Abort.
func New(w io.Writer, delimiter string) (*Sink, error) {
	writer := csv.NewWriter(w)
	if delimiter != "" && delimiter != "," {
		r, size := utf8.DecodeRuneInString(delimiter)
		if size != len(delimiter) {
			return nil, errors.NewInvalidRequestError("delimiter must be a single character, got %q", delimiter)
		}
		writer.Comma = r
	}
	s := &Sink{w: writer}
	if c, ok := w.(io.Closer); ok {
		s.closer = c
	}
	return s, nil
}

// WriteHeader writes the header line
func (s *Sink) WriteHeader(header []string) error {
	if s.header {
		return errors.New("header already written")
	}
	s.header = true
	return s.w.Write(header)
}

// WriteRow writes one record
func (s *Sink) WriteRow(row domain.Row) error {
	return s.w.Write(row.Strings())
}

// Close flushes buffered records
func (s *Sink) Close() error {
	s.w.Flush()
	err := s.w.Error()
	if s.closer != nil {
		if cerr := s.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Abort flushes what was written so far. A stream cannot be rolled back.
func (s *Sink) Abort() error {
	return s.Close()
}
