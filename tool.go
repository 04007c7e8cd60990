package toolbus

import (
	"context"
	"encoding/json"
	"fmt"
)

// Spec describes a tool with typed input and output. The handler produced by
// New unmarshals validated arguments into In before calling Execute.
type Spec[In any, Out any] struct {
	Description string
	InputSchema Schema
	Execute     func(ctx context.Context, input In) (Out, error)
}

// New creates a Tool with typed input/output.
func New[In any, Out any](name string, spec Spec[In, Out]) Tool {
	if name == "" {
		panic("tool name is required")
	}
	if spec.Execute == nil {
		panic(fmt.Sprintf("tool %q Execute is required", name))
	}
	return Tool{
		Name:        name,
		Description: spec.Description,
		InputSchema: spec.InputSchema,
		Handler: func(ctx context.Context, args json.RawMessage) (any, error) {
			var in In
			if len(args) > 0 {
				if err := json.Unmarshal(args, &in); err != nil {
					return nil, fmt.Errorf("decode arguments: %w", err)
				}
			}
			return spec.Execute(ctx, in)
		},
	}
}

// DynamicSpec describes a tool whose handler works on raw JSON arguments.
type DynamicSpec struct {
	Description string
	InputSchema Schema
	Execute     func(ctx context.Context, args json.RawMessage) (any, error)
}

// NewDynamic creates a Tool that leaves argument decoding to the handler.
func NewDynamic(name string, spec DynamicSpec) Tool {
	if name == "" {
		panic("tool name is required")
	}
	if spec.Execute == nil {
		panic(fmt.Sprintf("tool %q Execute is required", name))
	}
	return Tool{
		Name:        name,
		Description: spec.Description,
		InputSchema: spec.InputSchema,
		Handler:     spec.Execute,
	}
}

// NewStatic creates a Tool that ignores its arguments and returns a canned
// result. Useful as a mock stand-in for a live integration; the dispatcher
// treats it exactly like any other tool.
func NewStatic(name, description string, inputSchema Schema, result any) Tool {
	return Tool{
		Name:        name,
		Description: description,
		InputSchema: inputSchema,
		Handler: func(ctx context.Context, args json.RawMessage) (any, error) {
			return result, nil
		},
	}
}
