package csvsplit

import (
	"github.com/hashicorp/go-multierror"
)

type cleanupFunc func() error

var nop = func() error { return nil }

type cleanups struct {
	funcs []cleanupFunc
}

func (c *cleanups) add(f cleanupFunc) {
	c.funcs = append(c.funcs, f)
}

// do runs the registered funcs in reverse order and collects their errors.
func (c *cleanups) do() (retErr error) {
	for _, f := range c.funcs {
		f := f
		defer func() {
			if err := f(); err != nil {
				retErr = multierror.Append(retErr, err)
			}
		}()
	}
	return nil
}
