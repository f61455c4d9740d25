package services

import (
	"fmt"
	"os"

	"github.com/custodia-labs/quantscholar/internal/core/domain"
	"github.com/custodia-labs/quantscholar/internal/core/ports/driven"
	"github.com/custodia-labs/quantscholar/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyLLMProvider        = "llm.provider"
	keyLLMModel           = "llm.model"
	keyLLMBaseURL         = "llm.base_url"
	keyLLMAPIKey          = "llm.api_key"
	keyExtractionTemp     = "analysis.temperature"
	keyChatTemp           = "chat.temperature"
	keyRateLimitPerSecond = "ratelimit.requests_per_second"
	keyRateLimitBurst     = "ratelimit.burst"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		getenv:      os.Getenv,
	}
}

// Get retrieves current application settings.
// A missing API key is filled from the provider's environment variable.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	provider := s.getProvider(keyLLMProvider, defaults.LLM.Provider)
	model := s.configStore.GetString(keyLLMModel)
	if model == "" {
		model = domain.DefaultLLMModels()[provider]
	}
	apiKey := s.configStore.GetString(keyLLMAPIKey)
	fromEnv := false
	if apiKey == "" && provider.APIKeyEnv() != "" {
		apiKey = s.getenv(provider.APIKeyEnv())
		fromEnv = apiKey != ""
	}

	settings := &domain.AppSettings{
		LLM: domain.LLMSettings{
			Provider: provider,
			Model:    model,
			BaseURL:  s.configStore.GetString(keyLLMBaseURL), // No default - empty uses the provider endpoint
			APIKey:   apiKey,

			APIKeyFromEnv: fromEnv,
		},
		Analysis: domain.AnalysisSettings{
			ExtractionTemperature: s.getFloat(keyExtractionTemp, defaults.Analysis.ExtractionTemperature),
		},
		RateLimit: domain.RateLimitSettings{
			RequestsPerSecond: s.getFloat(keyRateLimitPerSecond, defaults.RateLimit.RequestsPerSecond),
			Burst:             s.getInt(keyRateLimitBurst, defaults.RateLimit.Burst),
		},
	}

	if t, ok := s.configStore.GetFloat(keyChatTemp); ok {
		settings.Analysis.ChatTemperature = &t
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := s.configStore.Set(keyLLMProvider, settings.LLM.Provider.String()); err != nil {
		return fmt.Errorf("save llm provider: %w", err)
	}
	if err := s.configStore.Set(keyLLMModel, settings.LLM.Model); err != nil {
		return fmt.Errorf("save llm model: %w", err)
	}
	if err := s.configStore.Set(keyLLMBaseURL, settings.LLM.BaseURL); err != nil {
		return fmt.Errorf("save llm base_url: %w", err)
	}
	if settings.LLM.APIKey != "" && !settings.LLM.APIKeyFromEnv {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
	} else if err := s.configStore.Delete(keyLLMAPIKey); err != nil {
		return fmt.Errorf("clear llm api_key: %w", err)
	}

	if err := s.configStore.Set(keyExtractionTemp, settings.Analysis.ExtractionTemperature); err != nil {
		return fmt.Errorf("save analysis temperature: %w", err)
	}
	if settings.Analysis.ChatTemperature != nil {
		if err := s.configStore.Set(keyChatTemp, *settings.Analysis.ChatTemperature); err != nil {
			return fmt.Errorf("save chat temperature: %w", err)
		}
	} else if err := s.configStore.Delete(keyChatTemp); err != nil {
		return fmt.Errorf("clear chat temperature: %w", err)
	}

	if err := s.configStore.Set(keyRateLimitPerSecond, settings.RateLimit.RequestsPerSecond); err != nil {
		return fmt.Errorf("save rate limit: %w", err)
	}
	if err := s.configStore.Set(keyRateLimitBurst, settings.RateLimit.Burst); err != nil {
		return fmt.Errorf("save rate limit burst: %w", err)
	}

	return nil
}

// SetLLMProvider configures the LLM provider.
// An empty apiKey leaves the key to the provider's environment variable,
// which must then be set; any key stored earlier is removed.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}

	if provider.RequiresAPIKey() && apiKey == "" && s.getenv(provider.APIKeyEnv()) == "" {
		return fmt.Errorf("API key required for %s (or set %s)", provider, provider.APIKeyEnv())
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.LLM.Model = model
	} else {
		settings.LLM.Model = domain.DefaultLLMModels()[provider]
	}

	settings.LLM.BaseURL = ""
	settings.LLM.APIKey = apiKey
	settings.LLM.APIKeyFromEnv = false

	return s.Save(settings)
}

// SetAnalysisSettings updates the sampling policy.
func (s *SettingsService) SetAnalysisSettings(analysis domain.AnalysisSettings) error {
	if err := analysis.Validate(); err != nil {
		return err
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Analysis = analysis

	return s.Save(settings)
}

// Validate checks if current settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.LLM.Provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", settings.LLM.Provider)
	}
	if !settings.LLM.IsConfigured() {
		return fmt.Errorf("%w: set an API key with 'quantscholar settings llm' or %s",
			domain.ErrNotConfigured, settings.LLM.Provider.APIKeyEnv())
	}
	return settings.Analysis.Validate()
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	val, ok := s.configStore.GetFloat(key)
	if !ok {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}
