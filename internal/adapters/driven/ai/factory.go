// Package ai provides factory functions for creating AI provider adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	anthropicllm "github.com/custodia-labs/quantscholar/internal/adapters/driven/llm/anthropic"
	geminillm "github.com/custodia-labs/quantscholar/internal/adapters/driven/llm/gemini"
	"github.com/custodia-labs/quantscholar/internal/core/domain"
	"github.com/custodia-labs/quantscholar/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for provider connectivity validation.
const pingTimeout = 5 * time.Second

// CreateAndValidateGenerator creates a generator and validates connectivity.
// Returns the generator if successful, or an error with guidance.
func CreateAndValidateGenerator(ctx context.Context, settings *domain.LLMSettings) (driven.Generator, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, fmt.Errorf("%w. Run 'quantscholar settings llm' to fix", domain.ErrNotConfigured)
	}

	gen, err := CreateGenerator(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("%w. Run 'quantscholar settings llm' to fix", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := gen.Ping(pingCtx); err != nil {
		gen.Close()
		return nil, fmt.Errorf("provider unreachable (%w). Run 'quantscholar settings llm' to fix", err)
	}

	return gen, nil
}

// CreateGenerator creates the generator for the configured provider.
// Returns domain.ErrNotConfigured if the provider is not set up.
func CreateGenerator(ctx context.Context, settings *domain.LLMSettings) (driven.Generator, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, domain.ErrNotConfigured
	}

	switch settings.Provider {
	case domain.AIProviderGemini:
		gen, err := geminillm.NewGenerator(ctx, geminillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})
		if err != nil {
			return nil, err
		}
		return gen, nil

	case domain.AIProviderAnthropic:
		gen, err := anthropicllm.NewGenerator(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})
		if err != nil {
			return nil, err
		}
		return gen, nil

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}
