package toolbus

import "errors"

// NotFoundError reports an invocation or lookup of a name with no
// registration.
type NotFoundError struct {
	ToolName string
}

func (e *NotFoundError) Error() string {
	if e == nil {
		return ""
	}
	return "no such tool: " + e.ToolName
}

func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

// DuplicateToolError reports a registration colliding with an existing name.
// The registry never overwrites: re-registering a name fails.
type DuplicateToolError struct {
	ToolName string
}

func (e *DuplicateToolError) Error() string {
	if e == nil {
		return ""
	}
	return "tool already registered: " + e.ToolName
}

func IsDuplicateTool(err error) bool {
	var e *DuplicateToolError
	return errors.As(err, &e)
}

// Reasons a ValidationError can carry.
const (
	ReasonMissing    = "missing"
	ReasonWrongKind  = "wrong_kind"
	ReasonUnexpected = "unexpected"
	ReasonInvalid    = "invalid"
)

// ValidationError reports arguments that fail schema validation, before the
// handler runs.
type ValidationError struct {
	ToolName string
	Field    string
	Reason   string // one of the Reason* constants
	Cause    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	msg := "invalid arguments for " + e.ToolName
	if e.Field != "" {
		msg += ": field " + e.Field + " " + e.Reason
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ValidationError) Unwrap() error { return e.Cause }

func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

// HandlerError reports a domain failure signaled by the handler itself. The
// handler's message is preserved verbatim in the response envelope.
type HandlerError struct {
	ToolName string
	Cause    error
}

func (e *HandlerError) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause != nil {
		return "tool " + e.ToolName + " failed: " + e.Cause.Error()
	}
	return "tool " + e.ToolName + " failed"
}

func (e *HandlerError) Unwrap() error { return e.Cause }

func IsHandlerError(err error) bool {
	var e *HandlerError
	return errors.As(err, &e)
}

// InternalError reports a failure not anticipated by the rest of the taxonomy,
// such as a recovered panic. Always produced at the dispatcher boundary, never
// left to propagate.
type InternalError struct {
	ToolName string
	Cause    error
}

func (e *InternalError) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause != nil {
		return "internal error invoking " + e.ToolName + ": " + e.Cause.Error()
	}
	return "internal error invoking " + e.ToolName
}

func (e *InternalError) Unwrap() error { return e.Cause }

func IsInternal(err error) bool {
	var e *InternalError
	return errors.As(err, &e)
}
