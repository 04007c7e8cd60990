// Package toolbus provides a tool registry and dispatcher for agent tool
// calling.
//
// A Tool is a named, schema-described operation bound to a Handler. Tools are
// collected in a Registry, and a Dispatcher invokes them by name: it looks up
// the registration, validates the caller-supplied arguments against the tool's
// JSON Schema, runs the handler, and normalizes the outcome into a Response
// envelope. Invoke is total: every well-formed request yields a Response, never
// an unhandled failure.
//
// Handlers are plain functions; the dispatcher does not care whether a handler
// talks to a live service, returns canned mock data, or computes locally. The
// catalog subpackage ships mock tool sets, and mcpbridge adapts tools exposed
// by an MCP server into registrations.
package toolbus
