// Package mcpbridge adapts tools exposed by a Model Context Protocol server
// into toolbus registrations.
//
// The bridge speaks to any github.com/mark3labs/mcp-go client through the
// narrow Client interface: it lists the server's tool catalog, converts each
// entry into a toolbus.Tool whose handler forwards the call back to the
// server, and optionally installs the lot into a registry under a name
// prefix. The dispatcher treats bridged tools exactly like local ones.
package mcpbridge
