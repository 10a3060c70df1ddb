package csvsplit

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

const utf8BOM = "\uFEFF"

// Header is the ordered column list of an input file.
type Header struct {
	names []string
	index map[string]int
}

func NewHeader(names []string) *Header {
	h := &Header{
		names: append([]string(nil), names...),
		index: make(map[string]int, len(names)),
	}
	for i, n := range h.names {
		// first occurrence wins
		if _, ok := h.index[n]; !ok {
			h.index[n] = i
		}
	}
	return h
}

func (h *Header) Names() []string {
	return append([]string(nil), h.names...)
}

func (h *Header) Len() int {
	return len(h.names)
}

// Index returns the position of the named column.
func (h *Header) Index(name string) (int, error) {
	if i, ok := h.index[name]; ok {
		return i, nil
	}
	return -1, fmt.Errorf("%w: column %q not found in header %q", ErrInput, name, strings.Join(h.names, ","))
}

// Row is one record of the input. It is only valid until the next call to
// RowReader.Next.
type Row struct {
	header *Header
	values []string
	line   int
}

func (r *Row) Get(name string) (string, error) {
	i, err := r.header.Index(name)
	if err != nil {
		return "", fmt.Errorf("line %d: %w", r.line, err)
	}
	return r.values[i], nil
}

func (r *Row) At(i int) string {
	return r.values[i]
}

func (r *Row) Values() []string {
	return r.values
}

// Line is the 1-based line of the record in the input.
func (r *Row) Line() int {
	return r.line
}

// RowReader reads a CSV stream with a header row, forward only.
type RowReader struct {
	cr     *csv.Reader
	header *Header
	row    Row
	count  int64
}

// NewRowReader consumes the header row from r.
func NewRowReader(r io.Reader) (*RowReader, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	hdr, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: missing header row", ErrInput)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %w", ErrInput, err)
	}
	hdr = append([]string(nil), hdr...)
	if len(hdr) > 0 {
		hdr[0] = strings.TrimPrefix(hdr[0], utf8BOM)
	}

	h := NewHeader(hdr)
	return &RowReader{
		cr:     cr,
		header: h,
		row:    Row{header: h},
	}, nil
}

func (rr *RowReader) Header() *Header {
	return rr.header
}

// Count is the number of data rows read so far.
func (rr *RowReader) Count() int64 {
	return rr.count
}

// Next returns the next row, or io.EOF after the last one.
func (rr *RowReader) Next() (*Row, error) {
	rec, err := rr.cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, io.EOF
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInput, err)
	}

	line, _ := rr.cr.FieldPos(0)
	rr.count++
	rr.row.values = rec
	rr.row.line = line
	return &rr.row, nil
}
