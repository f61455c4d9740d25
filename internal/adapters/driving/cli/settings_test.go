package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quantscholar/internal/core/domain"
)

// Test helper functions in settings.go

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Short key",
			input:    "abc123",
			expected: "****",
		},
		{
			name:     "Exactly 8 chars",
			input:    "12345678",
			expected: "****",
		},
		{
			name:     "Long key",
			input:    "sk-1234567890abcdef",
			expected: "sk-1...cdef",
		},
		{
			name:     "Very long key",
			input:    "sk-proj-1234567890abcdefghijklmnop",
			expected: "sk-p...mnop",
		},
		{
			name:     "Empty key",
			input:    "",
			expected: "****",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := maskAPIKey(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		maxVal     int
		defaultVal int
		expected   int
	}{
		{
			name:       "Empty input returns default",
			input:      "",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Valid choice within range",
			input:      "3",
			maxVal:     5,
			defaultVal: 1,
			expected:   3,
		},
		{
			name:       "Choice below minimum returns default",
			input:      "0",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Choice above maximum returns default",
			input:      "6",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Invalid input returns default",
			input:      "abc",
			maxVal:     5,
			defaultVal: 2,
			expected:   2,
		},
		{
			name:       "Negative number returns default",
			input:      "-1",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Whitespace returns default",
			input:      "   ",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Maximum value is valid",
			input:      "5",
			maxVal:     5,
			defaultVal: 1,
			expected:   5,
		},
		{
			name:       "Minimum value is valid",
			input:      "1",
			maxVal:     5,
			defaultVal: 3,
			expected:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseChoice(tt.input, tt.maxVal, tt.defaultVal)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func noTerminal(t *testing.T) {
	t.Helper()
	prev := stdinIsTerminal
	stdinIsTerminal = func() bool { return false }
	t.Cleanup(func() { stdinIsTerminal = prev })
}

func TestSettingsShow(t *testing.T) {
	chat := 0.7
	settings := &MockSettingsService{Settings: domain.AppSettings{
		LLM: domain.LLMSettings{
			Provider: domain.AIProviderGemini,
			Model:    "gemini-2.5-flash",
			APIKey:   "AIzaSyExample1234",
		},
		Analysis:  domain.AnalysisSettings{ExtractionTemperature: 0.2, ChatTemperature: &chat},
		RateLimit: domain.RateLimitSettings{RequestsPerSecond: 1, Burst: 2},
	}}
	withServices(t, nil, nil, settings)

	output, err := execute(t, "", "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, output, "Provider: Google Gemini (cloud)")
	assert.Contains(t, output, "Model: gemini-2.5-flash")
	assert.Contains(t, output, "API Key: AIza...1234")
	assert.NotContains(t, output, "AIzaSyExample1234")
	assert.Contains(t, output, "Extraction temperature: 0.20")
	assert.Contains(t, output, "Chat temperature: 0.70")
	assert.Contains(t, output, "Requests per second: 1")
	assert.Contains(t, output, "Configuration is valid.")
}

func TestSettingsShow_KeyFromEnvironment(t *testing.T) {
	settings := &MockSettingsService{Settings: domain.AppSettings{
		LLM: domain.LLMSettings{
			Provider:      domain.AIProviderAnthropic,
			Model:         "claude-sonnet-4-5",
			APIKey:        "sk-ant-0123456789",
			APIKeyFromEnv: true,
		},
	}}
	withServices(t, nil, nil, settings)

	output, err := execute(t, "", "settings")

	require.NoError(t, err)
	assert.Contains(t, output, "API Key: sk-a...6789 (from ANTHROPIC_API_KEY)")
	assert.Contains(t, output, "Chat temperature: provider default")
	assert.Contains(t, output, "Enabled: no")
}

func TestSettingsShow_Invalid(t *testing.T) {
	settings := &MockSettingsService{
		Settings:    domain.AppSettings{LLM: domain.LLMSettings{Provider: domain.AIProviderGemini}},
		ValidateErr: errors.New("API key required"),
	}
	withServices(t, nil, nil, settings)

	output, err := execute(t, "", "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, output, "API Key: (not set, or export GEMINI_API_KEY)")
	assert.Contains(t, output, "Status: not configured")
	assert.Contains(t, output, "Warning: API key required")
	assert.Contains(t, output, "quantscholar settings llm")
}

func TestSettings_NotConfigured(t *testing.T) {
	withServices(t, nil, nil, nil)

	for _, args := range [][]string{{"settings", "show"}, {"settings", "llm"}, {"settings", "analysis"}} {
		_, err := execute(t, "", args...)
		require.Error(t, err, args)
		assert.Contains(t, err.Error(), "settings service not configured")
	}
}

func TestSettingsLLM(t *testing.T) {
	noTerminal(t)
	settings := &MockSettingsService{}
	withServices(t, nil, nil, settings)

	output, err := execute(t, "2\n\nsk-ant-1234567890\n", "settings", "llm")

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderAnthropic, settings.Provider)
	assert.Equal(t, "claude-sonnet-4-5", settings.Model)
	assert.Equal(t, "sk-ant-1234567890", settings.APIKey)
	assert.Contains(t, output, "Validating configuration... OK")
	assert.Contains(t, output, "LLM provider configured: Anthropic (cloud) (claude-sonnet-4-5)")
}

func TestSettingsLLM_KeyFromEnvironment(t *testing.T) {
	noTerminal(t)
	t.Setenv("GEMINI_API_KEY", "env-key-1234567890")
	settings := &MockSettingsService{}
	withServices(t, nil, nil, settings)

	_, err := execute(t, "\ngemini-2.5-pro\n\n", "settings", "llm")

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderGemini, settings.Provider)
	assert.Equal(t, "gemini-2.5-pro", settings.Model)
	assert.Empty(t, settings.APIKey)
}

func TestSettingsLLM_MissingKey(t *testing.T) {
	noTerminal(t)
	t.Setenv("GEMINI_API_KEY", "")
	settings := &MockSettingsService{}
	withServices(t, nil, nil, settings)

	_, err := execute(t, "1\n\n\n", "settings", "llm")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
	assert.Empty(t, settings.Provider)
}

func TestSettingsLLM_ValidationFails(t *testing.T) {
	noTerminal(t)
	settings := &MockSettingsService{PingErr: errors.New("401 unauthorized")}
	withServices(t, nil, nil, settings)

	output, err := execute(t, "1\n\nbad-key-123456\n", "settings", "llm")

	require.Error(t, err)
	assert.Contains(t, output, "FAILED: 401 unauthorized")
	assert.Contains(t, err.Error(), "LLM configuration validation failed")
}

func TestSettingsAnalysis(t *testing.T) {
	settings := &MockSettingsService{Settings: domain.DefaultAppSettings()}
	withServices(t, nil, nil, settings)

	output, err := execute(t, "", "settings", "analysis", "--temperature", "0.1", "--chat-temperature", "0.9")

	require.NoError(t, err)
	assert.InDelta(t, 0.1, settings.Settings.Analysis.ExtractionTemperature, 1e-9)
	require.NotNil(t, settings.Settings.Analysis.ChatTemperature)
	assert.InDelta(t, 0.9, *settings.Settings.Analysis.ChatTemperature, 1e-9)
	assert.Contains(t, output, "Extraction temperature set to: 0.10")
	assert.Contains(t, output, "Chat temperature set to: 0.90")
}

func TestSettingsAnalysis_KeepsUnsetValues(t *testing.T) {
	settings := &MockSettingsService{Settings: domain.DefaultAppSettings()}
	withServices(t, nil, nil, settings)

	_, err := execute(t, "", "settings", "analysis", "--chat-temperature", "1.2")

	require.NoError(t, err)
	assert.InDelta(t, domain.DefaultExtractionTemperature, settings.Settings.Analysis.ExtractionTemperature, 1e-9)
	require.NotNil(t, settings.Settings.Analysis.ChatTemperature)
}

func TestSettingsAnalysis_OutOfRange(t *testing.T) {
	settings := &MockSettingsService{Settings: domain.DefaultAppSettings()}
	withServices(t, nil, nil, settings)

	_, err := execute(t, "", "settings", "analysis", "--temperature", "3")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.InDelta(t, domain.DefaultExtractionTemperature, settings.Settings.Analysis.ExtractionTemperature, 1e-9)
}
