package mcp

import (
	"github.com/custodia-labs/quantscholar/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Encoder reads papers from disk.
	Encoder driving.DocumentEncoder

	// Gateway runs extraction and tutor chats.
	Gateway driving.AIGateway
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Encoder == nil {
		return ErrMissingEncoder
	}
	if p.Gateway == nil {
		return ErrMissingGateway
	}
	return nil
}
