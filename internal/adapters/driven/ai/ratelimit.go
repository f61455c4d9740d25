package ai

import (
	"context"
	"fmt"
	"iter"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/quantscholar/internal/core/domain"
	"github.com/custodia-labs/quantscholar/internal/core/ports/driven"
)

// Ensure RateLimitedGenerator implements the interface.
var _ driven.Generator = (*RateLimitedGenerator)(nil)

// RateLimitedGenerator throttles outbound provider calls with a token bucket.
// Extraction and each chat message take one token; Ping is not limited.
type RateLimitedGenerator struct {
	next    driven.Generator
	limiter *rate.Limiter
}

// WithRateLimit wraps gen when limiting is enabled and returns gen unchanged otherwise.
func WithRateLimit(gen driven.Generator, cfg domain.RateLimitSettings) driven.Generator {
	if gen == nil || !cfg.Enabled() {
		return gen
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedGenerator{
		next:    gen,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst),
	}
}

// GenerateStructured waits for a token, then delegates.
func (g *RateLimitedGenerator) GenerateStructured(ctx context.Context, req driven.StructuredRequest) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit: %w", err)
	}
	return g.next.GenerateStructured(ctx, req)
}

// StreamChat waits for a token when the sequence is first ranged over.
func (g *RateLimitedGenerator) StreamChat(ctx context.Context, req driven.ChatRequest) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if err := g.limiter.Wait(ctx); err != nil {
			yield("", fmt.Errorf("rate limit: %w", err))
			return
		}
		for fragment, err := range g.next.StreamChat(ctx, req) {
			if !yield(fragment, err) {
				return
			}
		}
	}
}

// ModelName returns the wrapped generator's model.
func (g *RateLimitedGenerator) ModelName() string {
	return g.next.ModelName()
}

// Ping delegates without taking a token.
func (g *RateLimitedGenerator) Ping(ctx context.Context) error {
	return g.next.Ping(ctx)
}

// Close closes the wrapped generator.
func (g *RateLimitedGenerator) Close() error {
	return g.next.Close()
}
