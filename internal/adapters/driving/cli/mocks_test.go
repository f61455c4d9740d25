package cli

import (
	"bytes"
	"context"
	"io"
	"iter"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"

	"github.com/custodia-labs/quantscholar/internal/core/domain"
	"github.com/custodia-labs/quantscholar/internal/core/ports/driving"
)

// MockEncoder implements driving.DocumentEncoder for CLI tests.
type MockEncoder struct {
	Err  error
	Path string
}

func (m *MockEncoder) Encode(_ context.Context, path string) (*domain.DocumentPayload, error) {
	m.Path = path
	if m.Err != nil {
		return nil, m.Err
	}
	return &domain.DocumentPayload{
		FileName:  filepath.Base(path),
		Content:   []byte("%PDF-1.7"),
		MediaType: domain.MediaTypePDF,
		LoadedAt:  time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC),
	}, nil
}

func (m *MockEncoder) EncodeReader(
	_ context.Context, name, mediaType string, r io.Reader,
) (*domain.DocumentPayload, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return &domain.DocumentPayload{FileName: name, Content: content, MediaType: mediaType}, nil
}

// MockGateway implements driving.AIGateway for CLI tests.
type MockGateway struct {
	Analysis   *domain.Analysis
	ExtractErr error
	OpenErr    error
	Fragments  []string
	StreamErr  error
	Question   string
}

func (m *MockGateway) ExtractAnalysis(_ context.Context, _ *domain.DocumentPayload) (*domain.Analysis, error) {
	return m.Analysis, m.ExtractErr
}

func (m *MockGateway) OpenChat(doc *domain.DocumentPayload) (*domain.ChatSession, error) {
	if m.OpenErr != nil {
		return nil, m.OpenErr
	}
	return domain.NewChatSession("chat-1", doc, "system", nil), nil
}

func (m *MockGateway) SendMessage(_ context.Context, _ *domain.ChatSession, text string) iter.Seq2[string, error] {
	m.Question = text
	return func(yield func(string, error) bool) {
		for _, f := range m.Fragments {
			if !yield(f, nil) {
				return
			}
		}
		if m.StreamErr != nil {
			yield("", m.StreamErr)
		}
	}
}

// MockSettingsService implements driving.SettingsService for CLI tests.
type MockSettingsService struct {
	Settings    domain.AppSettings
	ValidateErr error
	PingErr     error

	Provider domain.AIProvider
	Model    string
	APIKey   string
}

func (m *MockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.Settings
	return &s, nil
}

func (m *MockSettingsService) Save(settings *domain.AppSettings) error {
	m.Settings = *settings
	return nil
}

func (m *MockSettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	m.Provider, m.Model, m.APIKey = provider, model, apiKey
	m.Settings.LLM = domain.LLMSettings{Provider: provider, Model: model, APIKey: apiKey}
	return nil
}

func (m *MockSettingsService) SetAnalysisSettings(analysis domain.AnalysisSettings) error {
	if err := analysis.Validate(); err != nil {
		return err
	}
	m.Settings.Analysis = analysis
	return nil
}

func (m *MockSettingsService) Validate() error { return m.ValidateErr }

func (m *MockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

func (m *MockSettingsService) ValidateLLMConfig() error { return m.PingErr }

var (
	_ driving.DocumentEncoder = (*MockEncoder)(nil)
	_ driving.AIGateway       = (*MockGateway)(nil)
	_ driving.SettingsService = (*MockSettingsService)(nil)
)

func testAnalysis() *domain.Analysis {
	return &domain.Analysis{
		Title:                   "Auctions with Behavioral Bidders",
		Authors:                 []string{"A. Smith"},
		JournalFit:              "Management Science",
		ResearchQuestion:        "How does loss aversion shape reserve prices?",
		Methodology:             domain.Methodology{Type: "Analytical", ModelSetup: "Two bidders."},
		KeyFindings:             []string{"Reserve prices fall."},
		TheoreticalContribution: "Reference-dependent mechanism design.",
		Critique:                domain.Critique{ReviewerPerspective: "Thin identification."},
	}
}

// withServices installs the given services for the duration of the test.
func withServices(t *testing.T, enc driving.DocumentEncoder, gw driving.AIGateway, settings driving.SettingsService) {
	t.Helper()
	prevEnc, prevGw, prevSettings := documentEncoder, aiGateway, settingsService
	documentEncoder, aiGateway, settingsService = enc, gw, settings
	t.Cleanup(func() {
		documentEncoder, aiGateway, settingsService = prevEnc, prevGw, prevSettings
	})
}

// execute runs the root command with args and returns combined output.
func execute(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		analyzeJSON = false
		resetFlags(settingsAnalysisCmd.Flags())
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

func resetFlags(flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
}
