package driving

import (
	"context"
	"io"

	"github.com/custodia-labs/quantscholar/internal/core/domain"
)

// DocumentEncoder turns a selected file into a transport-ready payload.
type DocumentEncoder interface {
	// Encode reads the file at path. Read failures wrap domain.ErrRead.
	Encode(ctx context.Context, path string) (*domain.DocumentPayload, error)

	// EncodeReader reads r fully, keeping mediaType exactly as supplied.
	EncodeReader(ctx context.Context, name, mediaType string, r io.Reader) (*domain.DocumentPayload, error)
}
