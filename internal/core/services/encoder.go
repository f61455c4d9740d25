package services

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/custodia-labs/quantscholar/internal/core/domain"
	"github.com/custodia-labs/quantscholar/internal/core/ports/driving"
	"github.com/custodia-labs/quantscholar/internal/logger"
)

// Ensure DocumentEncoder implements the interface.
var _ driving.DocumentEncoder = (*DocumentEncoder)(nil)

// DocumentEncoder reads local files into document payloads.
// No size limit is applied here.
type DocumentEncoder struct {
	now func() time.Time
}

// NewDocumentEncoder creates a new document encoder.
func NewDocumentEncoder() *DocumentEncoder {
	return &DocumentEncoder{now: time.Now}
}

// Encode reads the file at path and detects its media type from the
// extension, falling back to content sniffing.
func (e *DocumentEncoder) Encode(ctx context.Context, path string) (*domain.DocumentPayload, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRead, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRead, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", domain.ErrRead, path)
	}

	doc, err := e.EncodeReader(ctx, filepath.Base(path), mediaTypeFromExt(path), f)
	if err != nil {
		return nil, err
	}
	if doc.MediaType == "" {
		doc.MediaType = sniffMediaType(doc.Content)
	}

	logger.Debug("encoded %s (%d bytes, %s)", doc.FileName, doc.Size(), doc.MediaType)
	return doc, nil
}

// EncodeReader reads r fully. The media type is kept exactly as supplied.
func (e *DocumentEncoder) EncodeReader(
	ctx context.Context,
	name, mediaType string,
	r io.Reader,
) (*domain.DocumentPayload, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRead, err)
	}

	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrRead, name, err)
	}

	return &domain.DocumentPayload{
		FileName:  name,
		Content:   content,
		MediaType: mediaType,
		LoadedAt:  e.now(),
	}, nil
}

// mediaTypeFromExt returns the registered media type for the file extension
// without parameters, or "" when the extension is unknown.
func mediaTypeFromExt(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".pdf" {
		return domain.MediaTypePDF
	}
	mediaType, _, err := mime.ParseMediaType(mime.TypeByExtension(ext))
	if err != nil {
		return ""
	}
	return mediaType
}

// sniffMediaType detects the media type from content without parameters.
func sniffMediaType(content []byte) string {
	mediaType, _, err := mime.ParseMediaType(http.DetectContentType(content))
	if err != nil {
		return "application/octet-stream"
	}
	return mediaType
}
