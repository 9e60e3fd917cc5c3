package tools

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lydakis/cadmcp/internal/response"
	"github.com/lydakis/cadmcp/internal/telemetry"
	"github.com/lydakis/cadmcp/internal/transport"
	"github.com/lydakis/cadmcp/internal/wire"
)

// Caller performs one request/response cycle with the executor.
// *transport.Client satisfies it.
type Caller interface {
	Call(ctx context.Context, req wire.Request) transport.Result
}

// Dispatcher validates tool calls and forwards them to the executor. It
// holds no per-call state; concurrent calls each get their own connection.
type Dispatcher struct {
	registry *Registry
	caller   Caller
	logger   zerolog.Logger
	observer *telemetry.CallObserver
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger for per-call records.
func WithLogger(logger zerolog.Logger) Option {
	return func(d *Dispatcher) { d.logger = logger }
}

// WithObserver records a span and metrics per forwarded call.
func WithObserver(o *telemetry.CallObserver) Option {
	return func(d *Dispatcher) { d.observer = o }
}

// NewDispatcher creates a dispatcher over reg that sends through caller.
func NewDispatcher(reg *Registry, caller Caller, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry: reg,
		caller:   caller,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Registry returns the catalogue the dispatcher validates against.
func (d *Dispatcher) Registry() *Registry { return d.registry }

// Invoke runs the named tool with raw caller arguments. Argument problems
// are reported without contacting the executor. Invoke never panics and
// never returns an error: every failure is an Outcome.
func (d *Dispatcher) Invoke(ctx context.Context, name string, raw map[string]any) (out response.Outcome) {
	defer d.recoverInto(&name, &out)

	inv, err := d.registry.Parse(name, raw)
	if err != nil {
		d.logger.Debug().Str("command", name).Err(err).Msg("rejected tool call")
		return invalid(err)
	}
	return d.run(ctx, inv)
}

// Run sends an already typed invocation. It is validated first, so records
// built in code get the same checks as parsed ones.
func (d *Dispatcher) Run(ctx context.Context, inv Invocation) (out response.Outcome) {
	if inv == nil {
		return invalid(errors.New("no command"))
	}
	command := "unknown"
	defer d.recoverInto(&command, &out)
	command = string(inv.Command())

	if err := inv.Validate(); err != nil {
		d.logger.Debug().Str("command", command).Err(err).Msg("rejected tool call")
		return invalid(err)
	}
	return d.run(ctx, inv)
}

func (d *Dispatcher) run(ctx context.Context, inv Invocation) response.Outcome {
	requestID := uuid.NewString()
	command := string(inv.Command())

	ctx, finish := d.observer.Start(ctx, telemetry.Call{Command: command, RequestID: requestID})
	res := d.caller.Call(ctx, Request(inv))
	out := response.Interpret(res)
	finish(telemetry.CallResult{Outcome: out.Class.String(), Reason: res.Reason, Bytes: res.Bytes})

	event := d.logger.Info()
	if out.Class != response.OK && out.Class != response.RemoteExecutionError {
		event = d.logger.Warn().AnErr("error", res.Err)
	}
	event.
		Str("request_id", requestID).
		Str("command", command).
		Str("outcome", out.Class.String()).
		Str("transport", res.Kind.String()).
		Int("bytes", res.Bytes).
		Dur("elapsed", res.Elapsed).
		Msg("tool call")
	if res.Reason != "" {
		d.logger.Debug().Str("request_id", requestID).Str("reason", res.Reason).Str("addr", res.Addr).Msg("executor unavailable")
	}
	return out
}

// recoverInto reads command after the panic so a name set late in the
// caller is still logged.
func (d *Dispatcher) recoverInto(command *string, out *response.Outcome) {
	if r := recover(); r != nil {
		d.logger.Error().
			Str("command", *command).
			Interface("panic", r).
			Bytes("stack", debug.Stack()).
			Msg("tool call panicked")
		*out = response.Outcome{Class: response.TransportFailure, Text: fmt.Sprintf("Connection Failed: internal error: %v", r)}
	}
}

func invalid(err error) response.Outcome {
	return response.Invalid(err)
}
