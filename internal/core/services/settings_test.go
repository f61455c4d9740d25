package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quantscholar/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/quantscholar/internal/core/domain"
)

// newTestSettingsService returns a service that sees env instead of the process environment.
func newTestSettingsService(store *memory.ConfigStore, env map[string]string) *SettingsService {
	service := NewSettingsService(store, nil)
	service.getenv = func(key string) string { return env[key] }
	return service
}

func TestNewSettingsService(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil)

	require.NotNil(t, service)
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := newTestSettingsService(memory.NewConfigStore(), nil)

	settings, err := service.Get()

	require.NoError(t, err)
	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.LLM.Provider, settings.LLM.Provider)
	assert.Equal(t, defaults.LLM.Model, settings.LLM.Model)
	assert.Empty(t, settings.LLM.APIKey)
	assert.InDelta(t, domain.DefaultExtractionTemperature, settings.Analysis.ExtractionTemperature, 1e-9)
	assert.Nil(t, settings.Analysis.ChatTemperature)
	assert.Equal(t, defaults.RateLimit, settings.RateLimit)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("llm.provider", "anthropic")
	_ = store.Set("llm.model", "claude-opus-4-1")
	_ = store.Set("llm.base_url", "http://localhost:8080")
	_ = store.Set("llm.api_key", "sk-ant-test")
	_ = store.Set("analysis.temperature", 0.4)
	_ = store.Set("chat.temperature", 1.1)
	_ = store.Set("ratelimit.requests_per_second", 0.5)
	_ = store.Set("ratelimit.burst", 4)

	service := newTestSettingsService(store, nil)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderAnthropic, settings.LLM.Provider)
	assert.Equal(t, "claude-opus-4-1", settings.LLM.Model)
	assert.Equal(t, "http://localhost:8080", settings.LLM.BaseURL)
	assert.Equal(t, "sk-ant-test", settings.LLM.APIKey)
	assert.False(t, settings.LLM.APIKeyFromEnv)
	assert.InDelta(t, 0.4, settings.Analysis.ExtractionTemperature, 1e-9)
	require.NotNil(t, settings.Analysis.ChatTemperature)
	assert.InDelta(t, 1.1, *settings.Analysis.ChatTemperature, 1e-9)
	assert.InDelta(t, 0.5, settings.RateLimit.RequestsPerSecond, 1e-9)
	assert.Equal(t, 4, settings.RateLimit.Burst)
}

func TestSettingsService_Get_IntegerTemperature(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("analysis.temperature", 1)

	settings, err := newTestSettingsService(store, nil).Get()

	require.NoError(t, err)
	assert.InDelta(t, 1.0, settings.Analysis.ExtractionTemperature, 1e-9)
}

func TestSettingsService_Get_ZeroRateDisablesLimiting(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("ratelimit.requests_per_second", 0.0)

	settings, err := newTestSettingsService(store, nil).Get()

	require.NoError(t, err)
	assert.False(t, settings.RateLimit.Enabled())
}

func TestSettingsService_Get_InvalidProviderReturnsDefault(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("llm.provider", "ollama")

	settings, err := newTestSettingsService(store, nil).Get()

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderGemini, settings.LLM.Provider)
}

func TestSettingsService_Get_DefaultModelFollowsProvider(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("llm.provider", "anthropic")

	settings, err := newTestSettingsService(store, nil).Get()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultLLMModels()[domain.AIProviderAnthropic], settings.LLM.Model)
}

func TestSettingsService_Get_APIKeyFromEnvironment(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		env      map[string]string
		stored   string
		wantKey  string
		wantEnv  bool
	}{
		{
			name:     "gemini env",
			provider: "gemini",
			env:      map[string]string{"GEMINI_API_KEY": "env-gemini"},
			wantKey:  "env-gemini",
			wantEnv:  true,
		},
		{
			name:     "anthropic env",
			provider: "anthropic",
			env:      map[string]string{"ANTHROPIC_API_KEY": "env-anthropic"},
			wantKey:  "env-anthropic",
			wantEnv:  true,
		},
		{
			name:     "stored key wins",
			provider: "gemini",
			env:      map[string]string{"GEMINI_API_KEY": "env-gemini"},
			stored:   "file-key",
			wantKey:  "file-key",
			wantEnv:  false,
		},
		{
			name:     "other provider variable ignored",
			provider: "gemini",
			env:      map[string]string{"ANTHROPIC_API_KEY": "env-anthropic"},
			wantKey:  "",
			wantEnv:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewConfigStore()
			_ = store.Set("llm.provider", tt.provider)
			if tt.stored != "" {
				_ = store.Set("llm.api_key", tt.stored)
			}

			settings, err := newTestSettingsService(store, tt.env).Get()

			require.NoError(t, err)
			assert.Equal(t, tt.wantKey, settings.LLM.APIKey)
			assert.Equal(t, tt.wantEnv, settings.LLM.APIKeyFromEnv)
		})
	}
}

func TestSettingsService_Save_PersistsValues(t *testing.T) {
	store := memory.NewConfigStore()
	service := newTestSettingsService(store, nil)
	chatTemp := 0.8

	err := service.Save(&domain.AppSettings{
		LLM: domain.LLMSettings{
			Provider: domain.AIProviderAnthropic,
			Model:    "claude-sonnet-4-5",
			APIKey:   "sk-ant",
		},
		Analysis:  domain.AnalysisSettings{ExtractionTemperature: 0.3, ChatTemperature: &chatTemp},
		RateLimit: domain.RateLimitSettings{RequestsPerSecond: 2, Burst: 5},
	})
	require.NoError(t, err)

	assert.Equal(t, "anthropic", store.GetString("llm.provider"))
	assert.Equal(t, "claude-sonnet-4-5", store.GetString("llm.model"))
	assert.Equal(t, "sk-ant", store.GetString("llm.api_key"))

	got, err := service.Get()
	require.NoError(t, err)
	assert.InDelta(t, 0.3, got.Analysis.ExtractionTemperature, 1e-9)
	require.NotNil(t, got.Analysis.ChatTemperature)
	assert.InDelta(t, 0.8, *got.Analysis.ChatTemperature, 1e-9)
	assert.InDelta(t, 2.0, got.RateLimit.RequestsPerSecond, 1e-9)
	assert.Equal(t, 5, got.RateLimit.Burst)
}

func TestSettingsService_Save_SkipsEnvironmentKey(t *testing.T) {
	store := memory.NewConfigStore()
	service := newTestSettingsService(store, map[string]string{"GEMINI_API_KEY": "env-key"})

	settings, err := service.Get()
	require.NoError(t, err)
	require.True(t, settings.LLM.APIKeyFromEnv)

	require.NoError(t, service.Save(settings))

	_, ok := store.Get("llm.api_key")
	assert.False(t, ok, "environment keys must not be written to the config file")
}

// failingConfigStore fails Set for one key.
type failingConfigStore struct {
	*memory.ConfigStore
	failOn string
}

func (f *failingConfigStore) Set(key string, value any) error {
	if f.failOn == "" || key == f.failOn {
		return assert.AnError
	}
	return f.ConfigStore.Set(key, value)
}

func TestSettingsService_Save_Errors(t *testing.T) {
	chatTemp := 0.5
	settings := &domain.AppSettings{
		LLM:       domain.LLMSettings{Provider: domain.AIProviderGemini, Model: "gemini-2.5-flash", APIKey: "k"},
		Analysis:  domain.AnalysisSettings{ExtractionTemperature: 0.2, ChatTemperature: &chatTemp},
		RateLimit: domain.RateLimitSettings{RequestsPerSecond: 1, Burst: 2},
	}

	tests := []struct {
		key  string
		want string
	}{
		{key: "llm.provider", want: "llm provider"},
		{key: "llm.model", want: "llm model"},
		{key: "llm.base_url", want: "base_url"},
		{key: "llm.api_key", want: "api_key"},
		{key: "analysis.temperature", want: "analysis temperature"},
		{key: "chat.temperature", want: "chat temperature"},
		{key: "ratelimit.requests_per_second", want: "rate limit"},
		{key: "ratelimit.burst", want: "burst"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			store := &failingConfigStore{ConfigStore: memory.NewConfigStore(), failOn: tt.key}
			service := NewSettingsService(store, nil)

			err := service.Save(settings)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSettingsService_SetLLMProvider(t *testing.T) {
	store := memory.NewConfigStore()
	service := newTestSettingsService(store, nil)

	err := service.SetLLMProvider(domain.AIProviderAnthropic, "", "sk-ant")

	require.NoError(t, err)
	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderAnthropic, settings.LLM.Provider)
	assert.Equal(t, domain.DefaultLLMModels()[domain.AIProviderAnthropic], settings.LLM.Model)
	assert.Equal(t, "sk-ant", settings.LLM.APIKey)
}

func TestSettingsService_SetLLMProvider_CustomModel(t *testing.T) {
	service := newTestSettingsService(memory.NewConfigStore(), nil)

	require.NoError(t, service.SetLLMProvider(domain.AIProviderGemini, "gemini-2.5-pro", "key"))

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-pro", settings.LLM.Model)
}

func TestSettingsService_SetLLMProvider_Errors(t *testing.T) {
	service := newTestSettingsService(memory.NewConfigStore(), nil)

	err := service.SetLLMProvider(domain.AIProvider("openai"), "", "key")
	assert.ErrorContains(t, err, "invalid LLM provider")

	err = service.SetLLMProvider(domain.AIProviderGemini, "", "")
	assert.ErrorContains(t, err, "API key required")
}

func TestSettingsService_SetLLMProvider_KeyFromEnvironment(t *testing.T) {
	store := memory.NewConfigStore()
	require.NoError(t, store.Set("llm.api_key", "old-key"))
	service := newTestSettingsService(store, map[string]string{"ANTHROPIC_API_KEY": "env-key"})

	require.NoError(t, service.SetLLMProvider(domain.AIProviderAnthropic, "", ""))

	_, stored := store.Get("llm.api_key")
	assert.False(t, stored, "a stale key must not shadow the environment")
	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, "env-key", settings.LLM.APIKey)
	assert.True(t, settings.LLM.APIKeyFromEnv)
}

func TestSettingsService_Save_ClearsChatTemperature(t *testing.T) {
	store := memory.NewConfigStore()
	require.NoError(t, store.Set("chat.temperature", 0.9))
	service := newTestSettingsService(store, nil)

	require.NoError(t, service.SetAnalysisSettings(domain.AnalysisSettings{ExtractionTemperature: 0.3}))

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Nil(t, settings.Analysis.ChatTemperature)
}

func TestSettingsService_SetLLMProvider_SaveError(t *testing.T) {
	store := &failingConfigStore{ConfigStore: memory.NewConfigStore(), failOn: "llm.provider"}
	service := NewSettingsService(store, nil)

	err := service.SetLLMProvider(domain.AIProviderGemini, "", "key")

	assert.Error(t, err)
}

func TestSettingsService_SetAnalysisSettings(t *testing.T) {
	service := newTestSettingsService(memory.NewConfigStore(), nil)
	chatTemp := 1.2

	err := service.SetAnalysisSettings(domain.AnalysisSettings{ExtractionTemperature: 0.1, ChatTemperature: &chatTemp})

	require.NoError(t, err)
	settings, err := service.Get()
	require.NoError(t, err)
	assert.InDelta(t, 0.1, settings.Analysis.ExtractionTemperature, 1e-9)
	require.NotNil(t, settings.Analysis.ChatTemperature)
	assert.InDelta(t, 1.2, *settings.Analysis.ChatTemperature, 1e-9)
}

func TestSettingsService_SetAnalysisSettings_OutOfRange(t *testing.T) {
	store := memory.NewConfigStore()
	service := newTestSettingsService(store, nil)

	err := service.SetAnalysisSettings(domain.AnalysisSettings{ExtractionTemperature: 3})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, ok := store.Get("analysis.temperature")
	assert.False(t, ok)
}

func TestSettingsService_Validate(t *testing.T) {
	t.Run("missing key", func(t *testing.T) {
		service := newTestSettingsService(memory.NewConfigStore(), nil)

		err := service.Validate()

		assert.ErrorIs(t, err, domain.ErrNotConfigured)
		assert.Contains(t, err.Error(), "GEMINI_API_KEY")
	})

	t.Run("key from environment", func(t *testing.T) {
		service := newTestSettingsService(memory.NewConfigStore(), map[string]string{"GEMINI_API_KEY": "k"})

		assert.NoError(t, service.Validate())
	})

	t.Run("temperature out of range", func(t *testing.T) {
		store := memory.NewConfigStore()
		_ = store.Set("llm.api_key", "k")
		_ = store.Set("analysis.temperature", -1.0)
		service := newTestSettingsService(store, nil)

		assert.ErrorIs(t, service.Validate(), domain.ErrInvalidInput)
	})
}

func TestSettingsService_GetDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil)

	assert.Equal(t, domain.DefaultAppSettings(), service.GetDefaults())
}

// mockAIConfigValidator implements driven.AIConfigValidator for testing.
type mockAIConfigValidator struct {
	llmErr error
	got    *domain.LLMSettings
}

func (m *mockAIConfigValidator) ValidateLLM(config *domain.LLMSettings) error {
	m.got = config
	return m.llmErr
}

func TestSettingsService_ValidateLLMConfig(t *testing.T) {
	t.Run("nil validator", func(t *testing.T) {
		service := NewSettingsService(memory.NewConfigStore(), nil)
		assert.NoError(t, service.ValidateLLMConfig())
	})

	t.Run("success", func(t *testing.T) {
		store := memory.NewConfigStore()
		_ = store.Set("llm.api_key", "k")
		validator := &mockAIConfigValidator{}
		service := NewSettingsService(store, validator)

		require.NoError(t, service.ValidateLLMConfig())
		require.NotNil(t, validator.got)
		assert.Equal(t, "k", validator.got.APIKey)
	})

	t.Run("error", func(t *testing.T) {
		validator := &mockAIConfigValidator{llmErr: assert.AnError}
		service := NewSettingsService(memory.NewConfigStore(), validator)

		assert.ErrorIs(t, service.ValidateLLMConfig(), assert.AnError)
	})
}
