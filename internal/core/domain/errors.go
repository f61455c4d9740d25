package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotConfigured indicates no AI provider has been configured.
	ErrNotConfigured = errors.New("AI provider not configured")

	// Failure taxonomy surfaced to the user.

	// ErrRead indicates the document could not be acquired.
	ErrRead = errors.New("read failed")

	// ErrExtraction indicates the structured analysis call failed or
	// returned unparseable or incomplete content.
	ErrExtraction = errors.New("extraction failed")

	// ErrChat indicates chat session construction or a streaming send failed.
	// It is scoped to the single affected message.
	ErrChat = errors.New("chat failed")

	// Causes wrapped by the taxonomy errors.

	// ErrEmptyResponse indicates the provider returned no content.
	ErrEmptyResponse = errors.New("empty response from provider")

	// ErrInvalidAnalysis indicates the provider output does not match the analysis shape.
	ErrInvalidAnalysis = errors.New("invalid analysis")

	// ErrInvalidDocument indicates a payload without content or media type.
	ErrInvalidDocument = errors.New("invalid document payload")

	// ErrStreamConsumed indicates a response stream was iterated more than once.
	ErrStreamConsumed = errors.New("stream already consumed")

	// ErrSessionBusy indicates a document is already being analysed or displayed.
	// Reset the session before selecting another file.
	ErrSessionBusy = errors.New("analysis session already active")
)
