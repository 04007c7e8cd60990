package toolbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Dispatcher is the single entry point for invoking tools by name. It never
// mutates its registry and keeps no per-call state, so concurrent Invoke calls
// are safe as long as the registry is not being mutated underneath them.
type Dispatcher struct {
	reg     *Registry
	log     logrus.FieldLogger
	timeout time.Duration
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the structured logger. The default discards output.
func WithLogger(l logrus.FieldLogger) Option {
	return func(d *Dispatcher) { d.log = l }
}

// WithTimeout bounds every handler execution. Zero means no dispatcher-level
// deadline; handlers still own their own timeouts for outbound calls.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) { d.timeout = timeout }
}

// NewDispatcher creates a dispatcher over reg.
func NewDispatcher(reg *Registry, opts ...Option) *Dispatcher {
	d := &Dispatcher{reg: reg, log: discardLogger()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Invoke looks up the requested tool, validates the arguments against its
// schema, runs the handler, and wraps the outcome in a Response. It is total:
// lookup misses, validation failures, handler errors, cancellation, and panics
// all come back as a well-formed error Response.
func (d *Dispatcher) Invoke(ctx context.Context, req Request) (resp Response) {
	id := uuid.NewString()
	log := d.log.WithFields(logrus.Fields{
		"invocation_id": id,
		"tool":          req.ToolName,
	})

	defer func() {
		if rec := recover(); rec != nil {
			log.WithField("panic", rec).Error("tool invocation panicked")
			resp = d.errorResponse(id, log, &InternalError{
				ToolName: req.ToolName,
				Cause:    fmt.Errorf("panic: %v", rec),
			})
		}
	}()

	reg, err := d.reg.Get(req.ToolName)
	if err != nil {
		return d.errorResponse(id, log, err)
	}

	args := req.Arguments
	if len(args) == 0 {
		args = json.RawMessage(`{}`)
	}
	if err := reg.ValidateArgs(args); err != nil {
		return d.errorResponse(id, log, err)
	}

	ctx, cancel := applyTimeout(ctx, d.timeout)
	defer cancel()

	val, err := reg.Tool.Handler(ctx, args)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			return d.errorResponse(id, log, ve)
		}
		return d.errorResponse(id, log, &HandlerError{ToolName: req.ToolName, Cause: err})
	}

	log.Debug("tool invocation succeeded")
	return Response{InvocationID: id, Status: StatusOK, Result: val}
}

func (d *Dispatcher) errorResponse(id string, log logrus.FieldLogger, err error) Response {
	info := &ErrorInfo{Kind: KindInternal, Message: err.Error()}

	var (
		nf  *NotFoundError
		dup *DuplicateToolError
		ve  *ValidationError
		he  *HandlerError
	)
	switch {
	case errors.As(err, &nf):
		info.Kind = KindNotFound
	case errors.As(err, &dup):
		info.Kind = KindDuplicateTool
	case errors.As(err, &ve):
		info.Kind = KindValidation
		info.Field = ve.Field
	case errors.As(err, &he):
		info.Kind = KindHandler
		// The handler's own message, verbatim.
		if he.Cause != nil {
			info.Message = he.Cause.Error()
		}
	}

	log.WithFields(logrus.Fields{
		"kind":  info.Kind,
		"field": info.Field,
	}).WithError(err).Warn("tool invocation failed")

	return Response{InvocationID: id, Status: StatusError, Error: info}
}

func applyTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}
