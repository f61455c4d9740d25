package domain

import "time"

// MediaTypePDF is the media type of the documents the analyser is built for.
const MediaTypePDF = "application/pdf"

// DocumentPayload is a paper encoded for transport to the AI provider.
// It is immutable once created and discarded when the session resets.
type DocumentPayload struct {
	// FileName is the base name of the selected file, shown in the header.
	FileName string

	// Content is the full file content.
	Content []byte

	// MediaType is the media type supplied by the source (e.g., "application/pdf").
	MediaType string

	// LoadedAt is when the document was encoded.
	LoadedAt time.Time
}

// Validate checks the payload can be sent to a provider.
func (d *DocumentPayload) Validate() error {
	if d == nil || len(d.Content) == 0 || d.MediaType == "" {
		return ErrInvalidDocument
	}
	return nil
}

// Size returns the content length in bytes.
func (d *DocumentPayload) Size() int {
	if d == nil {
		return 0
	}
	return len(d.Content)
}
