package tools

import (
	"errors"
	"fmt"

	"github.com/lydakis/cadmcp/internal/wire"
)

// Invocation is a validated, typed call to one command.
type Invocation interface {
	Command() Command
	Validate() error
	Args() wire.Args
}

// Spec describes one tool: its parameters and how caller arguments bind
// into a typed Invocation.
type Spec struct {
	Command     Command
	Title       string
	Description string
	Params      []Param

	// Hints surfaced as MCP tool annotations.
	ReadOnly    bool
	Destructive bool

	bind func(values) Invocation
}

// Param returns the named parameter.
func (s Spec) Param(name string) (Param, bool) {
	for _, p := range s.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// Request builds the wire request for a validated invocation.
func Request(inv Invocation) wire.Request {
	return wire.Request{Command: string(inv.Command()), Args: inv.Args()}
}

// checkArgs validates args against the declared parameters of cmd. Every
// problem is reported.
func checkArgs(cmd Command, args wire.Args) error {
	spec, ok := catalogue[cmd]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownTool, cmd)
	}

	var errs []error
	for _, p := range spec.Params {
		value, ok := args[p.Name]
		if !ok {
			if !p.Optional() {
				errs = append(errs, argErrorf(p.Name, "is required"))
			}
			continue
		}
		if err := p.check(value); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
