package services

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/custodia-labs/quantscholar/internal/core/domain"
	"github.com/custodia-labs/quantscholar/internal/core/ports/driven"
	"github.com/custodia-labs/quantscholar/internal/core/ports/driving"
	"github.com/custodia-labs/quantscholar/internal/logger"
)

// Ensure AIGateway implements the interface.
var _ driving.AIGateway = (*AIGateway)(nil)

// AIGateway builds prompts around a document and delegates to a driven.Generator.
type AIGateway struct {
	generator   driven.Generator
	promptStore driven.PromptStore
	settings    domain.AnalysisSettings
	newID       func() string
}

// NewAIGateway creates a new AI gateway.
// A nil generator is allowed; every call then fails with domain.ErrNotConfigured.
func NewAIGateway(generator driven.Generator, settings domain.AnalysisSettings) *AIGateway {
	return &AIGateway{
		generator: generator,
		settings:  settings,
		newID:     func() string { return uuid.New().String() },
	}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
// If not set, the gateway uses the built-in prompts.
func (g *AIGateway) SetPromptStore(store driven.PromptStore) {
	g.promptStore = store
}

// ExtractAnalysis sends the document with the analysis instruction and
// schema, then parses the response strictly. There is no retry.
func (g *AIGateway) ExtractAnalysis(ctx context.Context, doc *domain.DocumentPayload) (*domain.Analysis, error) {
	if g.generator == nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrExtraction, domain.ErrNotConfigured)
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrExtraction, err)
	}

	logger.Section("Extraction")
	logger.Debug("model=%s temperature=%.2f document=%s (%d bytes)",
		g.generator.ModelName(), g.settings.ExtractionTemperature, doc.FileName, doc.Size())

	raw, err := g.generator.GenerateStructured(ctx, driven.StructuredRequest{
		Document:    doc,
		Instruction: g.loadPrompt(driven.PromptAnalysis),
		Schema:      domain.AnalysisSchema(),
		Temperature: g.settings.ExtractionTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrExtraction, err)
	}
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("%w: %w", domain.ErrExtraction, domain.ErrEmptyResponse)
	}

	analysis, err := domain.ParseAnalysis([]byte(raw))
	if err != nil {
		logger.Warn("extraction response rejected: %v", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrExtraction, err)
	}

	logger.Info("extracted analysis %q", analysis.Title)
	return analysis, nil
}

// OpenChat builds a session seeded with the document and the two bootstrap
// turns. The provider is first contacted on SendMessage.
func (g *AIGateway) OpenChat(doc *domain.DocumentPayload) (*domain.ChatSession, error) {
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrChat, err)
	}

	seed := []domain.ChatTurn{
		{
			Role:     domain.RoleUser,
			Text:     g.loadPrompt(driven.PromptBootstrapUser),
			Document: doc,
		},
		{
			Role: domain.RoleAssistant,
			Text: g.loadPrompt(driven.PromptBootstrapModel),
		},
	}

	chat := domain.NewChatSession(g.newID(), doc, g.loadPrompt(driven.PromptTutorSystem), seed)
	logger.Debug("opened chat %s for %s", chat.ID, doc.FileName)
	return chat, nil
}

// SendMessage streams the tutor's reply to text.
//
// Empty fragments are skipped. A provider failure is yielded once, wrapped
// with domain.ErrChat, and ends the sequence. The exchange is recorded in the
// chat history only when the stream completes.
func (g *AIGateway) SendMessage(ctx context.Context, chat *domain.ChatSession, text string) iter.Seq2[string, error] {
	var consumed atomic.Bool

	return func(yield func(string, error) bool) {
		if !consumed.CompareAndSwap(false, true) {
			yield("", fmt.Errorf("%w: %w", domain.ErrChat, domain.ErrStreamConsumed))
			return
		}
		if chat == nil {
			yield("", fmt.Errorf("%w: %w: no chat session", domain.ErrChat, domain.ErrInvalidInput))
			return
		}
		if g.generator == nil {
			yield("", fmt.Errorf("%w: %w", domain.ErrChat, domain.ErrNotConfigured))
			return
		}

		req := driven.ChatRequest{
			SystemInstruction: chat.SystemInstruction,
			History:           chat.History(),
			Message:           text,
			Temperature:       g.settings.ChatTemperature,
		}

		logger.Debug("chat %s: sending message (%d prior turns)", chat.ID, len(req.History))

		var reply strings.Builder
		for fragment, err := range g.generator.StreamChat(ctx, req) {
			if err != nil {
				logger.Warn("chat %s: stream failed after %d bytes: %v", chat.ID, reply.Len(), err)
				yield("", fmt.Errorf("%w: %w", domain.ErrChat, err))
				return
			}
			if fragment == "" {
				continue
			}
			reply.WriteString(fragment)
			if !yield(fragment, nil) {
				return
			}
		}

		chat.Append(
			domain.ChatTurn{Role: domain.RoleUser, Text: text},
			domain.ChatTurn{Role: domain.RoleAssistant, Text: reply.String()},
		)
		logger.Debug("chat %s: reply complete (%d bytes)", chat.ID, reply.Len())
	}
}

// loadPrompt loads a prompt from the store, falling back to the built-in text if unavailable.
func (g *AIGateway) loadPrompt(name string) string {
	fallback, _ := driven.DefaultPrompt(name)
	if g.promptStore == nil {
		return fallback
	}
	prompt, err := g.promptStore.Load(name)
	if err != nil || strings.TrimSpace(prompt) == "" {
		return fallback
	}
	return prompt
}
