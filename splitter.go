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

const progressEvery = 10000

func newLogger(w io.Writer) *logrus.Logger {
	log := logrus.New()
	log.Out = w
	return log
}

// Splitter routes the rows of one CSV file into one output file per group
// label.
type Splitter struct {
	Log *logrus.Logger
	svc service
	now func() time.Time
}

func NewSplitter() *Splitter {
	return &Splitter{
		Log: newLogger(os.Stderr),
		svc: &serviceImpl{},
		now: time.Now,
	}
}

// Do runs the split. Output files written before a failure are left in place.
func (s *Splitter) Do(ctx context.Context, p SplitParam) (_ *Summary, retErr error) {
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
	col, err := rr.Header().Index(p.Group.Column)
	if err != nil {
		return nil, err
	}

	pool := newWriterPool(s.svc, s.Log, p, rr.Header().Names())
	if err := s.split(ctx, rr, col, pool, p, summary); err != nil {
		retErr = multierror.Append(retErr, err)
	}
	if err := pool.close(); err != nil {
		retErr = multierror.Append(retErr, err)
	}
	if retErr != nil {
		return nil, retErr
	}

	summary.stop()
	return summary, nil
}

func (s *Splitter) split(ctx context.Context, rr *RowReader, col int, pool *writerPool, p SplitParam, summary *Summary) error {
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

		for _, label := range Route(p.Group.Pattern, row.At(col), p.RowPerOutputFile) {
			sk, err := pool.getOrCreate(label)
			if err != nil {
				return err
			}
			if err := sk.write(row.Values()); err != nil {
				return err
			}
			summary.add(label)
		}

		if summary.Total%progressEvery == 0 {
			s.Log.Debugf("%s, line=%s", p.Input, humanize.Comma(summary.Total))
		}
	}

	s.Log.Debugf("%s, total=%s, groups=%d", p.Input, humanize.Comma(summary.Total), len(pool.sinks))
	return nil
}
