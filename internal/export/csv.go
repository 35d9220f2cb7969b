// Package export reads and writes the files the time clock exchanges with
// the outside world: BOM-prefixed CSV for rosters, punch records and the
// automation log, and xlsx attendance reports.
package export

import (
	"bufio"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Writer emits CSV with every field double-quoted and CRLF line endings,
// which is what spreadsheet tools on the office machines expect.
type Writer struct {
	tw  *transform.Writer
	w   *bufio.Writer
	err error
}

// NewWriter wraps w; the output starts with a UTF-8 byte-order mark.
// Close must be called to flush the last row.
func NewWriter(w io.Writer) *Writer {
	tw := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())
	return &Writer{tw: tw, w: bufio.NewWriter(tw)}
}

func (cw *Writer) Write(fields []string) error {
	if cw.err != nil {
		return cw.err
	}
	for i, f := range fields {
		if i > 0 {
			cw.w.WriteByte(',')
		}
		cw.w.WriteByte('"')
		cw.w.WriteString(strings.ReplaceAll(f, `"`, `""`))
		cw.w.WriteByte('"')
	}
	_, cw.err = cw.w.WriteString("\r\n")
	return cw.err
}

func (cw *Writer) WriteAll(rows [][]string) error {
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return cw.Close()
}

// Close flushes buffered rows. It does not close the destination.
func (cw *Writer) Close() error {
	if cw.err != nil {
		return cw.err
	}
	if cw.err = cw.w.Flush(); cw.err != nil {
		return cw.err
	}
	cw.err = cw.tw.Close()
	return cw.err
}

// stripBOM drops a leading UTF-8 byte-order mark if present.
func stripBOM(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.UTF8BOM.NewDecoder())
}
