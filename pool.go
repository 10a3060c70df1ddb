package csvsplit

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// sink is one open output file.
type sink struct {
	path    string
	w       *csv.Writer
	cleanup cleanupFunc
	rows    int64
}

func openSink(svc service, fn string, compress string, header []string) (_ *sink, retErr error) {
	if err := svc.mkdirAll(filepath.Dir(fn), os.ModePerm); err != nil {
		return nil, fmt.Errorf("%w: mkdirAll: %w", ErrOutput, err)
	}

	w, cleanup, err := svc.createWriter(fn, compress)
	if err != nil {
		return nil, fmt.Errorf("%w: createWriter %s: %w", ErrOutput, fn, err)
	}
	defer func() {
		if retErr != nil {
			cleanup()
		}
	}()

	s := &sink{
		path:    fn,
		w:       csv.NewWriter(w),
		cleanup: cleanup,
	}
	if err := s.w.Write(header); err != nil {
		return nil, fmt.Errorf("%w: write header to %s: %w", ErrOutput, fn, err)
	}
	return s, nil
}

func (s *sink) write(rec []string) error {
	if err := s.w.Write(rec); err != nil {
		return fmt.Errorf("%w: write to %s: %w", ErrOutput, s.path, err)
	}
	s.rows++
	return nil
}

func (s *sink) close() error {
	s.w.Flush()
	err := s.w.Error()
	if cerr := s.cleanup(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("%w: close %s: %w", ErrOutput, s.path, err)
	}
	return nil
}

// writerPool keeps one sink per group label.
type writerPool struct {
	svc      service
	log      *logrus.Logger
	param    SplitParam
	header   []string
	sinks    map[string]*sink
	closeMax int
}

func newWriterPool(svc service, log *logrus.Logger, param SplitParam, header []string) *writerPool {
	return &writerPool{
		svc:      svc,
		log:      log,
		param:    param,
		header:   header,
		sinks:    map[string]*sink{},
		closeMax: 8,
	}
}

// getOrCreate returns the sink for label, opening it and writing the header
// on first use.
func (p *writerPool) getOrCreate(label string) (*sink, error) {
	if s, ok := p.sinks[label]; ok {
		return s, nil
	}

	fn := p.param.OutputPath(label)
	s, err := openSink(p.svc, fn, p.param.Compress, p.header)
	if err != nil {
		return nil, err
	}
	p.log.WithFields(logrus.Fields{"label": label, "path": fn}).Debug("opened output")
	p.sinks[label] = s
	return s, nil
}

func (p *writerPool) labels() []string {
	ret := make([]string, 0, len(p.sinks))
	for l := range p.sinks {
		ret = append(ret, l)
	}
	sort.Strings(ret)
	return ret
}

// close flushes and closes every sink. Sinks are independent files, so they
// are closed concurrently; all failures are reported.
func (p *writerPool) close() error {
	var (
		mu     sync.Mutex
		retErr error
	)

	eg := errgroup.Group{}
	eg.SetLimit(p.closeMax)
	for _, l := range p.labels() {
		s := p.sinks[l]
		eg.Go(func() error {
			if err := s.close(); err != nil {
				mu.Lock()
				retErr = multierror.Append(retErr, err)
				mu.Unlock()
			}
			return nil
		})
	}
	eg.Wait()
	p.sinks = map[string]*sink{}

	return retErr
}
