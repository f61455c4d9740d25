package ai

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/custodia-labs/quantscholar/internal/core/domain"
	"github.com/custodia-labs/quantscholar/internal/core/ports/driven"
)

// Ensure ConfigValidator implements the interface.
var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// ConfigValidator checks that a provider configuration can analyse papers:
// the provider must accept PDF documents, a model must be named and the
// provider must answer a ping within the timeout.
type ConfigValidator struct {
	timeout time.Duration
}

// NewConfigValidator creates a validator using the default ping timeout.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{timeout: pingTimeout}
}

// WithTimeout overrides the ping timeout.
func (v *ConfigValidator) WithTimeout(d time.Duration) *ConfigValidator {
	if d > 0 {
		v.timeout = d
	}
	return v
}

// ValidateLLM validates an LLM configuration. An unconfigured provider is
// not an error here; commands that need one report it themselves.
func (v *ConfigValidator) ValidateLLM(config *domain.LLMSettings) error {
	if config == nil || !config.IsConfigured() {
		return nil
	}
	if !slices.Contains(domain.AllLLMProviders(), config.Provider) {
		return fmt.Errorf("%w: %s cannot read PDF documents", domain.ErrInvalidInput, config.Provider.Description())
	}
	if strings.TrimSpace(config.Model) == "" {
		return fmt.Errorf("%w: model name required for %s", domain.ErrInvalidInput, config.Provider)
	}

	ctx, cancel := context.WithTimeout(context.Background(), v.timeout)
	defer cancel()

	gen, err := CreateGenerator(ctx, config)
	if err != nil {
		return err
	}
	defer gen.Close()

	if err := gen.Ping(ctx); err != nil {
		return fmt.Errorf("%s did not answer: %w", gen.ModelName(), err)
	}
	return nil
}
