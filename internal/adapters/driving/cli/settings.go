package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/quantscholar/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the AI provider, sampling temperatures and rate limits.

Use subcommands to configure specific settings.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure LLM provider",
	Long: `Configure the LLM provider used to analyse papers and answer questions.

Only providers that accept PDF documents are offered.`,
	RunE: runSettingsLLM,
}

var settingsAnalysisCmd = &cobra.Command{
	Use:   "analysis",
	Short: "Set sampling temperatures",
	Long: `Set the temperatures used for extraction and tutor replies.

Extraction runs at a low temperature so the analysis stays factual.
Leave --chat-temperature unset to use the provider default.`,
	RunE: runSettingsAnalysis,
}

func init() {
	settingsAnalysisCmd.Flags().Float64("temperature", domain.DefaultExtractionTemperature, "extraction temperature")
	settingsAnalysisCmd.Flags().Float64("chat-temperature", 0, "tutor reply temperature")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	settingsCmd.AddCommand(settingsAnalysisCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.LLM.Model)
	if settings.LLM.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.LLM.BaseURL)
	}
	if settings.LLM.Provider.RequiresAPIKey() {
		switch {
		case settings.LLM.APIKey == "":
			cmd.Printf("  API Key: (not set, or export %s)\n", settings.LLM.Provider.APIKeyEnv())
		case settings.LLM.APIKeyFromEnv:
			cmd.Printf("  API Key: %s (from %s)\n", maskAPIKey(settings.LLM.APIKey), settings.LLM.Provider.APIKeyEnv())
		default:
			cmd.Printf("  API Key: %s\n", maskAPIKey(settings.LLM.APIKey))
		}
	}
	status := "configured"
	if !settings.LLM.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	cmd.Println("[Analysis]")
	cmd.Printf("  Extraction temperature: %.2f\n", settings.Analysis.ExtractionTemperature)
	if settings.Analysis.ChatTemperature != nil {
		cmd.Printf("  Chat temperature: %.2f\n", *settings.Analysis.ChatTemperature)
	} else {
		cmd.Printf("  Chat temperature: provider default\n")
	}
	cmd.Println()

	cmd.Println("[Rate Limit]")
	if settings.RateLimit.Enabled() {
		cmd.Printf("  Requests per second: %g\n", settings.RateLimit.RequestsPerSecond)
		cmd.Printf("  Burst: %d\n", settings.RateLimit.Burst)
	} else {
		cmd.Printf("  Enabled: no\n")
	}
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'quantscholar settings llm' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	return configureLLMProvider(cmd, reader)
}

func runSettingsAnalysis(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	analysis := settings.Analysis

	if cmd.Flags().Changed("temperature") {
		v, err := cmd.Flags().GetFloat64("temperature")
		if err != nil {
			return fmt.Errorf("getting temperature flag: %w", err)
		}
		analysis.ExtractionTemperature = v
	}
	if cmd.Flags().Changed("chat-temperature") {
		v, err := cmd.Flags().GetFloat64("chat-temperature")
		if err != nil {
			return fmt.Errorf("getting chat-temperature flag: %w", err)
		}
		analysis.ChatTemperature = &v
	}

	if err := settingsService.SetAnalysisSettings(analysis); err != nil {
		return fmt.Errorf("failed to set analysis settings: %w", err)
	}

	cmd.Printf("Extraction temperature set to: %.2f\n", analysis.ExtractionTemperature)
	if analysis.ChatTemperature != nil {
		cmd.Printf("Chat temperature set to: %.2f\n", *analysis.ChatTemperature)
	}
	return nil
}

func configureLLMProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select LLM Provider")
	providers := domain.AllLLMProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	selectedProvider := providers[idx-1]

	// Get model
	defaults := domain.DefaultLLMModels()
	defaultModel := defaults[selectedProvider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	// Empty keeps the environment variable in charge.
	var apiKey string
	if selectedProvider.RequiresAPIKey() {
		env := selectedProvider.APIKeyEnv()
		cmd.Printf("Enter API key (blank to use %s): ", env)
		apiKey = readPassword(reader)
		cmd.Println()
		if apiKey == "" && os.Getenv(env) == "" {
			return fmt.Errorf("API key is required for this provider: enter one or export %s", env)
		}
	}

	if err := settingsService.SetLLMProvider(selectedProvider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure LLM provider: %w", err)
	}

	// Validate the configuration by pinging the service
	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateLLMConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("LLM configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("LLM provider configured: %s (%s)\n\n", selectedProvider.Description(), model)
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// stdinIsTerminal is replaced in tests.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// readPassword reads without echo when stdin is a terminal and falls back
// to reader otherwise.
func readPassword(reader *bufio.Reader) string {
	// Try to read password without echo
	if stdinIsTerminal() {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
