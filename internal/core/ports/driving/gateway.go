package driving

import (
	"context"
	"iter"

	"github.com/custodia-labs/quantscholar/internal/core/domain"
)

// AIGateway wraps the calls made to the generative AI provider.
type AIGateway interface {
	// ExtractAnalysis requests a structured analysis of the document.
	// Failures wrap domain.ErrExtraction.
	ExtractAnalysis(ctx context.Context, doc *domain.DocumentPayload) (*domain.Analysis, error)

	// OpenChat builds a chat session seeded with the document. It performs
	// no network call. Failures wrap domain.ErrChat.
	OpenChat(doc *domain.DocumentPayload) (*domain.ChatSession, error)

	// SendMessage streams the tutor's reply as non-empty text fragments.
	// The sequence can be ranged over once; failures are yielded as errors
	// wrapping domain.ErrChat.
	SendMessage(ctx context.Context, chat *domain.ChatSession, text string) iter.Seq2[string, error]
}
