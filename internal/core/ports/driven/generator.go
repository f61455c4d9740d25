package driven

import (
	"context"
	"iter"

	"github.com/custodia-labs/quantscholar/internal/core/domain"
)

// Generator is the contract with a generative AI provider.
// Implementations translate requests into their own wire format so the
// provider can be swapped without touching core services.
type Generator interface {
	// GenerateStructured performs a single non-streamed call constrained
	// to req.Schema and returns the serialised structured text.
	GenerateStructured(ctx context.Context, req StructuredRequest) (string, error)

	// StreamChat sends the history plus the next user message and yields
	// text fragments as they arrive. A failure is yielded once as a non-nil
	// error, after which the sequence ends.
	StreamChat(ctx context.Context, req ChatRequest) iter.Seq2[string, error]

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the provider is reachable and the credentials work.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// StructuredRequest is a one-shot extraction over a document.
type StructuredRequest struct {
	// Document is sent as an inline binary part.
	Document *domain.DocumentPayload

	// Instruction is the task description accompanying the document.
	Instruction string

	// Schema constrains the response shape.
	Schema *domain.Schema

	// Temperature controls sampling randomness.
	Temperature float64
}

// ChatRequest is one turn of a multi-turn conversation.
type ChatRequest struct {
	// SystemInstruction frames the assistant persona.
	SystemInstruction string

	// History holds prior turns, oldest first. Turns may carry a document.
	History []domain.ChatTurn

	// Message is the next user text.
	Message string

	// Temperature controls sampling randomness. Nil uses the provider default.
	Temperature *float64
}
