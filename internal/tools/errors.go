package tools

import (
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

var (
	// ErrInvalidArgs matches every argument problem found before a call is
	// sent. Errors matching it also match mcp.ErrInvalidParams.
	ErrInvalidArgs = errors.New("invalid arguments")
	// ErrUnknownTool is returned for names outside the catalogue.
	ErrUnknownTool = errors.New("unknown tool")
)

// ArgError describes one rejected argument.
type ArgError struct {
	Param  string
	Reason string
}

func (e *ArgError) Error() string {
	if e.Param == "" {
		return e.Reason
	}
	return fmt.Sprintf("argument %q %s", e.Param, e.Reason)
}

func (e *ArgError) Is(target error) bool {
	return target == ErrInvalidArgs || target == mcp.ErrInvalidParams
}

func argErrorf(param, format string, args ...any) error {
	return &ArgError{Param: param, Reason: fmt.Sprintf(format, args...)}
}

func argTypeError(param, want string, got any) error {
	return argErrorf(param, "must be %s, got %T", want, got)
}
