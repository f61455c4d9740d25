// Package tui provides an interactive terminal user interface for quantscholar.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/quantscholar/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Session runs the analysis session and the tutor chat.
	Session driving.SessionController

	// Settings manages application settings (optional, shown in help).
	Settings driving.SettingsService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(session driving.SessionController, settings driving.SettingsService) *Ports {
	return &Ports{
		Session:  session,
		Settings: settings,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Session == nil {
		return ErrMissingSessionController
	}
	return nil
}
