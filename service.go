package csvsplit

import (
	"bufio"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

func decorateWriter(compression string, w io.Writer) (io.Writer, cleanupFunc, error) {
	switch getCompressionType(compression) {
	case CompressionNone:
		return w, nop, nil
	case CompressionGzip:
		gzw := gzip.NewWriter(w)
		return gzw, gzw.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown compression type: %s", compression)
	}
}

func decorateReader(fn string, r io.Reader) (io.Reader, cleanupFunc, error) {
	if strings.HasSuffix(fn, ".gz") {
		if gzr, err := gzip.NewReader(r); err != nil {
			return nil, nil, err
		} else {
			return gzr, gzr.Close, nil
		}
	} else if strings.HasSuffix(fn, ".bz2") {
		return bzip2.NewReader(r), nop, nil
	}
	return r, nop, nil
}

func openInput(fn string) (io.Reader, cleanupFunc, error) {
	if fn == "-" {
		return os.Stdin, nop, nil
	}

	if r, err := os.Open(fn); err != nil {
		return nil, nil, err
	} else {
		return r, r.Close, nil
	}
}

// service is the filesystem seam used by Splitter and Selector.
type service interface {
	createWriter(fn string, compress string) (io.Writer, cleanupFunc, error)
	createReader(fn string) (io.Reader, cleanupFunc, error)
	mkdirAll(path string, perm os.FileMode) error
}

type serviceImpl struct{}

func (s *serviceImpl) createReader(fn string) (_ io.Reader, _ cleanupFunc, retErr error) {
	cleanups := &cleanups{}
	defer func() {
		if retErr != nil {
			cleanups.do()
		}
	}()

	fp, cleanup1, err := openInput(fn)
	if err != nil {
		return nil, nil, fmt.Errorf("openInput: %w", err)
	}
	cleanups.add(cleanup1)

	r, cleanup2, err := decorateReader(fn, bufio.NewReader(fp))
	if err != nil {
		return nil, nil, fmt.Errorf("decorateReader: %w", err)
	}
	cleanups.add(cleanup2)

	return r, cleanups.do, nil
}

func (s *serviceImpl) mkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// createWriter truncates fn. The returned cleanup flushes any compression
// layer before closing the file.
func (s *serviceImpl) createWriter(fn string, compress string) (_ io.Writer, _ cleanupFunc, retErr error) {
	cleanups := &cleanups{}
	defer func() {
		if retErr != nil {
			cleanups.do()
		}
	}()

	fp, err := os.Create(fn)
	if err != nil {
		return nil, nil, err
	}
	cleanups.add(fp.Close)

	w, cleanup, err := decorateWriter(compress, fp)
	if err != nil {
		return nil, nil, fmt.Errorf("decorateWriter: %w", err)
	}
	cleanups.add(cleanup)

	return w, cleanups.do, nil
}
