package csvsplit

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
)

// Projection maps input rows onto the selected, renamed columns.
type Projection struct {
	sources []int
	header  []string
}

// NewProjection resolves cols against h. A source column absent from the
// header is an input error.
func NewProjection(h *Header, cols []ColumnSpec) (*Projection, error) {
	p := &Projection{
		sources: make([]int, 0, len(cols)),
		header:  make([]string, 0, len(cols)),
	}
	for _, c := range cols {
		i, err := h.Index(c.Source)
		if err != nil {
			return nil, err
		}
		p.sources = append(p.sources, i)
		p.header = append(p.header, c.Output)
	}
	return p, nil
}

// Header returns the output column names in order.
func (p *Projection) Header() []string {
	return append([]string(nil), p.header...)
}

// Apply writes the projected values of row into dst, reusing its storage.
func (p *Projection) Apply(row *Row, dst []string) []string {
	dst = dst[:0]
	for _, i := range p.sources {
		dst = append(dst, row.At(i))
	}
	return dst
}

// Selector copies a subset of columns of one CSV file into another.
type Selector struct {
	Log *logrus.Logger
	svc service
	now func() time.Time
}

func NewSelector() *Selector {
	return &Selector{
		Log: newLogger(os.Stderr),
		svc: &serviceImpl{},
		now: time.Now,
	}
}

// Do runs the projection. A partially written output is left in place on
// failure.
func (s *Selector) Do(ctx context.Context, p SelectParam) (_ *Summary, retErr error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	summary := newSummary(s.now)

	r, cleanup, err := s.svc.createReader(p.Input)
	if err != nil {
		return nil, fmt.Errorf("%w: createReader %s: %w", ErrInput, p.Input, err)
	}
	defer cleanup()

	rr, err := NewRowReader(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Input, err)
	}
	proj, err := NewProjection(rr.Header(), p.Columns)
	if err != nil {
		return nil, err
	}

	sk, err := openSink(s.svc, p.Output, p.Compress, proj.Header())
	if err != nil {
		return nil, err
	}
	s.Log.WithField("path", p.Output).Debug("opened output")

	if err := s.project(ctx, rr, proj, sk, p, summary); err != nil {
		retErr = multierror.Append(retErr, err)
	}
	if err := sk.close(); err != nil {
		retErr = multierror.Append(retErr, err)
	}
	if retErr != nil {
		return nil, retErr
	}

	summary.stop()
	return summary, nil
}

func (s *Selector) project(ctx context.Context, rr *RowReader, proj *Projection, sk *sink, p SelectParam, summary *Summary) error {
	var rec []string
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		row, err := rr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("%s: %w", p.Input, err)
		}
		summary.Total++

		rec = proj.Apply(row, rec)
		if err := sk.write(rec); err != nil {
			return err
		}

		if summary.Total%progressEvery == 0 {
			s.Log.Debugf("%s, line=%s", p.Input, humanize.Comma(summary.Total))
		}
	}

	s.Log.Debugf("%s, total=%s", p.Input, humanize.Comma(summary.Total))
	return nil
}
