package toolbus

import (
	"context"
	"encoding/json"
)

// Schema wraps a JSON Schema document describing a tool's input.
type Schema struct {
	JSON json.RawMessage
}

// JSONSchema wraps a raw JSON Schema document.
func JSONSchema(raw json.RawMessage) Schema {
	return Schema{JSON: raw}
}

// Handler executes a tool. The dispatcher calls it with arguments that have
// already passed schema validation.
type Handler func(ctx context.Context, args json.RawMessage) (any, error)

// Tool binds a name and input schema to a handler.
type Tool struct {
	Name        string
	Description string
	InputSchema Schema
	Handler     Handler
}

// Descriptor is the advertised metadata of a registered tool: everything a
// caller needs to decide whether and how to invoke it.
type Descriptor struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	InputSchema json.RawMessage `json:"inputSchema,omitempty"`
}

// Descriptor returns the tool's advertised metadata.
func (t Tool) Descriptor() Descriptor {
	return Descriptor{
		Name:        t.Name,
		Description: t.Description,
		InputSchema: t.InputSchema.JSON,
	}
}

// Request names a tool and carries the caller-supplied arguments. Arguments
// are untrusted at this point; the dispatcher validates them before the
// handler runs. Empty arguments are treated as {}.
type Request struct {
	ToolName  string          `json:"tool_name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// Status of a Response.
type Status string

const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

// ErrorKind tags the error taxonomy in a Response envelope.
type ErrorKind string

const (
	KindNotFound      ErrorKind = "not_found"
	KindDuplicateTool ErrorKind = "duplicate_tool"
	KindValidation    ErrorKind = "validation"
	KindHandler       ErrorKind = "handler"
	KindInternal      ErrorKind = "internal"
)

// ErrorInfo is the error half of a Response envelope.
type ErrorInfo struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

// Response is the uniform invocation outcome. Result is set iff Status is
// StatusOK; Error is set iff Status is StatusError.
type Response struct {
	InvocationID string     `json:"invocation_id,omitempty"`
	Status       Status     `json:"status"`
	Result       any        `json:"result,omitempty"`
	Error        *ErrorInfo `json:"error,omitempty"`
}
