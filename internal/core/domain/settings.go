package domain

import "fmt"

const unknownDescription = "Unknown"

// AIProvider identifies a generative AI service provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderGemini is the Google Gemini API.
	AIProviderGemini AIProvider = "gemini"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderGemini, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderGemini || p == AIProviderAnthropic
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderGemini:
		return "Google Gemini (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// APIKeyEnv returns the environment variable consulted when no key is configured.
func (p AIProvider) APIKeyEnv() string {
	switch p {
	case AIProviderGemini:
		return "GEMINI_API_KEY"
	case AIProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return ""
	}
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL overrides the API endpoint (empty uses the provider default).
	BaseURL string

	// APIKey is the provider API key.
	APIKey string

	// APIKeyFromEnv is true when APIKey came from the environment.
	// Such keys are never written back to the config file.
	APIKeyFromEnv bool
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// AnalysisSettings holds the sampling policy for provider calls.
type AnalysisSettings struct {
	// ExtractionTemperature is used for the structured extraction call.
	// Kept low so the analysis favours factual, repeatable output.
	ExtractionTemperature float64

	// ChatTemperature is used for tutor replies. Nil leaves the provider default.
	ChatTemperature *float64
}

// Validate checks the temperatures are in range.
func (a AnalysisSettings) Validate() error {
	if a.ExtractionTemperature < 0 || a.ExtractionTemperature > 2 {
		return fmt.Errorf("%w: extraction temperature %.2f outside [0, 2]", ErrInvalidInput, a.ExtractionTemperature)
	}
	if a.ChatTemperature != nil && (*a.ChatTemperature < 0 || *a.ChatTemperature > 2) {
		return fmt.Errorf("%w: chat temperature %.2f outside [0, 2]", ErrInvalidInput, *a.ChatTemperature)
	}
	return nil
}

// RateLimitSettings throttles outbound provider requests.
type RateLimitSettings struct {
	// RequestsPerSecond is the sustained rate limit. Zero disables limiting.
	RequestsPerSecond float64

	// Burst is the maximum burst size.
	Burst int
}

// Enabled returns true if requests should be throttled.
func (r RateLimitSettings) Enabled() bool {
	return r.RequestsPerSecond > 0
}

// AppSettings holds all application settings.
type AppSettings struct {
	// LLM holds provider settings.
	LLM LLMSettings

	// Analysis holds the sampling policy.
	Analysis AnalysisSettings

	// RateLimit holds outbound request throttling.
	RateLimit RateLimitSettings
}

// DefaultExtractionTemperature is the extraction temperature used when none is configured.
const DefaultExtractionTemperature = 0.2

// DefaultAppSettings returns settings with sensible defaults.
// The provider is preselected but has no API key, so it is not yet configured.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		LLM: LLMSettings{
			Provider: AIProviderGemini,
			Model:    DefaultLLMModels()[AIProviderGemini],
		},
		Analysis: AnalysisSettings{
			ExtractionTemperature: DefaultExtractionTemperature,
		},
		RateLimit: RateLimitSettings{
			RequestsPerSecond: 1,
			Burst:             2,
		},
	}
}

// AllLLMProviders returns providers that can read PDF documents.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderGemini,
		AIProviderAnthropic,
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderGemini:    "gemini-2.5-flash",
		AIProviderAnthropic: "claude-sonnet-4-5",
	}
}
