package tui

import "errors"

// ErrMissingSessionController is returned when the session controller is not provided.
var ErrMissingSessionController = errors.New("tui: session controller is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
