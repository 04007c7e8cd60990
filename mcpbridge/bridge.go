package mcpbridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/toolbus-dev/toolbus"
)

// Client is the subset of an MCP client the bridge needs. Satisfied by
// mark3labs/mcp-go client implementations.
type Client interface {
	ListTools(ctx context.Context, req mcp.ListToolsRequest) (*mcp.ListToolsResult, error)
	CallTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// Options filters and renames bridged tools.
type Options struct {
	// Prefix is prepended to every bridged tool name, e.g. "slack_".
	Prefix string

	// AllowedTools restricts bridging to the listed server tool names.
	// Empty means all.
	AllowedTools []string

	// DeniedTools excludes the listed server tool names.
	DeniedTools []string
}

// ToolError reports a tool call the server answered with isError set.
type ToolError struct {
	ToolName string
	Message  string
}

func (e *ToolError) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return fmt.Sprintf("mcp tool %q: %s", e.ToolName, e.Message)
	}
	return fmt.Sprintf("mcp tool %q failed", e.ToolName)
}

func IsToolError(err error) bool {
	var e *ToolError
	return errors.As(err, &e)
}

// Tools lists the server's catalog and converts every visible entry into a
// toolbus.Tool that forwards invocations to the server. The server's catalog
// order is preserved.
func Tools(ctx context.Context, cli Client, opts *Options) ([]toolbus.Tool, error) {
	infos, err := listAll(ctx, cli)
	if err != nil {
		return nil, err
	}

	allowed := map[string]bool{}
	denied := map[string]bool{}
	if opts != nil {
		for _, n := range opts.AllowedTools {
			allowed[n] = true
		}
		for _, n := range opts.DeniedTools {
			denied[n] = true
		}
	}

	out := make([]toolbus.Tool, 0, len(infos))
	for _, info := range infos {
		if len(allowed) > 0 && !allowed[info.Name] {
			continue
		}
		if denied[info.Name] {
			continue
		}

		schemaJSON, err := inputSchemaJSON(info)
		if err != nil {
			return nil, fmt.Errorf("tool %q input schema: %w", info.Name, err)
		}

		serverToolName := info.Name
		publicToolName := serverToolName
		if opts != nil && opts.Prefix != "" {
			publicToolName = opts.Prefix + serverToolName
		}
		out = append(out, toolbus.Tool{
			Name:        publicToolName,
			Description: info.Description,
			InputSchema: toolbus.JSONSchema(schemaJSON),
			Handler: func(ctx context.Context, args json.RawMessage) (any, error) {
				return call(ctx, cli, serverToolName, args)
			},
		})
	}
	return out, nil
}

// Install bridges the server's tools into reg.
func Install(ctx context.Context, reg *toolbus.Registry, cli Client, opts *Options) error {
	tools, err := Tools(ctx, cli, opts)
	if err != nil {
		return err
	}
	for _, t := range tools {
		if err := reg.Register(t); err != nil {
			return err
		}
	}
	return nil
}

func listAll(ctx context.Context, cli Client) ([]mcp.Tool, error) {
	var (
		out []mcp.Tool
		req mcp.ListToolsRequest
	)
	for {
		res, err := cli.ListTools(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("list tools: %w", err)
		}
		out = append(out, res.Tools...)
		if res.NextCursor == "" {
			return out, nil
		}
		req.Params.Cursor = res.NextCursor
	}
}

func inputSchemaJSON(t mcp.Tool) (json.RawMessage, error) {
	if len(t.RawInputSchema) > 0 {
		return t.RawInputSchema, nil
	}
	return json.Marshal(t.InputSchema)
}

func call(ctx context.Context, cli Client, name string, args json.RawMessage) (any, error) {
	var arguments map[string]any
	if len(args) > 0 {
		if err := json.Unmarshal(args, &arguments); err != nil {
			return nil, fmt.Errorf("decode arguments: %w", err)
		}
	}

	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = arguments

	res, err := cli.CallTool(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("call tool %q: %w", name, err)
	}
	text := textContent(res)
	if res.IsError {
		return nil, &ToolError{ToolName: name, Message: text}
	}
	return decodeResult(text), nil
}

// textContent joins the text parts of a call result.
func textContent(res *mcp.CallToolResult) string {
	var parts []string
	for _, c := range res.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// decodeResult surfaces structured results as decoded JSON when the payload
// parses, falling back to the raw text.
func decodeResult(text string) any {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err == nil {
		return v
	}
	return text
}
