package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentPayload_Validate(t *testing.T) {
	tests := []struct {
		name    string
		doc     *DocumentPayload
		wantErr bool
	}{
		{
			name:    "nil payload",
			doc:     nil,
			wantErr: true,
		},
		{
			name:    "empty content",
			doc:     &DocumentPayload{MediaType: MediaTypePDF},
			wantErr: true,
		},
		{
			name:    "missing media type",
			doc:     &DocumentPayload{Content: []byte("%PDF-1.7")},
			wantErr: true,
		},
		{
			name:    "valid pdf",
			doc:     &DocumentPayload{Content: []byte("%PDF-1.7"), MediaType: MediaTypePDF},
			wantErr: false,
		},
		{
			name:    "non pdf media type is preserved and accepted",
			doc:     &DocumentPayload{Content: []byte("text"), MediaType: "text/plain"},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.doc.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDocument)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDocumentPayload_Size(t *testing.T) {
	var nilDoc *DocumentPayload
	assert.Equal(t, 0, nilDoc.Size())
	assert.Equal(t, 8, (&DocumentPayload{Content: []byte("%PDF-1.7")}).Size())
}
