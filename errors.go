package csvsplit

import (
	"errors"
)

// Error categories. Every error returned from this package wraps exactly one
// of them so that callers can map failures to exit codes.
var (
	ErrConfig  = errors.New("configuration error")
	ErrInput   = errors.New("input error")
	ErrPattern = errors.New("pattern error")
	ErrOutput  = errors.New("output error")
)

const (
	ExitOK      = 0
	ExitFailure = 1
	ExitConfig  = 2
	ExitInput   = 3
	ExitPattern = 4
	ExitOutput  = 5
)

// ExitCode returns the process exit code for err.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrConfig):
		return ExitConfig
	case errors.Is(err, ErrPattern):
		return ExitPattern
	case errors.Is(err, ErrInput):
		return ExitInput
	case errors.Is(err, ErrOutput):
		return ExitOutput
	}
	return ExitFailure
}
