// Package domain defines the core business entities for QuantScholar.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - DocumentPayload: The encoded paper handed to the AI provider
//   - Analysis: The structured deconstruction of a paper
//   - ChatSession: A tutor conversation seeded with the paper
//   - Message: One entry of the visible conversation
//   - Snapshot: The read-only view of an analysis session
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
