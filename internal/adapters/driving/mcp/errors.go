// Package mcp provides an MCP (Model Context Protocol) server adapter for quantscholar.
// It lets AI assistants analyse papers and ask the tutor questions about them.
package mcp

import "errors"

// ErrMissingEncoder is returned when the document encoder is not provided.
var ErrMissingEncoder = errors.New("mcp: document encoder is required")

// ErrMissingGateway is returned when the AI gateway is not provided.
var ErrMissingGateway = errors.New("mcp: AI gateway is required")
