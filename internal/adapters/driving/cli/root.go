// Package cli provides the cobra command tree for quantscholar.
// It is a driving adapter: commands call core services through driving ports
// injected by main before Execute.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/quantscholar/internal/core/ports/driving"
	"github.com/custodia-labs/quantscholar/internal/logger"
)

var (
	version = "dev"

	verbose  bool
	logFile  string
	closeLog func() error
)

// Services injected by main.
var (
	sessionController driving.SessionController
	aiGateway         driving.AIGateway
	documentEncoder   driving.DocumentEncoder
	settingsService   driving.SettingsService

	// providerErr is why the configured provider could not be built at start-up.
	providerErr error
)

var rootCmd = &cobra.Command{
	Use:   "quantscholar",
	Short: "Deconstruct quantitative research papers with an AI tutor",
	Long: `QuantScholar reads an academic PDF, extracts a structured analysis of its
research question, model, findings and contribution, and opens a tutor
conversation grounded in the paper.

Run without arguments to start the interactive terminal UI.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setupLogging,
	PersistentPostRunE: teardownLogging,
	RunE:               runTUI,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print pipeline details")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write verbose output to this file")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx available to every command.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetSessionController sets the session controller used by the TUI.
func SetSessionController(c driving.SessionController) {
	sessionController = c
}

// SetAIGateway sets the gateway used by analyze, ask and the MCP server.
func SetAIGateway(g driving.AIGateway) {
	aiGateway = g
}

// SetDocumentEncoder sets the encoder used to read papers.
func SetDocumentEncoder(e driving.DocumentEncoder) {
	documentEncoder = e
}

// SetSettingsService sets the settings service.
func SetSettingsService(s driving.SettingsService) {
	settingsService = s
}

// SetProviderError records why the configured AI provider is unavailable.
// Commands that need the provider report it instead of a generic error.
func SetProviderError(err error) {
	providerErr = err
}

func setupLogging(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if logFile == "" {
		return nil
	}
	restore, err := logger.SetFile(logFile)
	if err != nil {
		return err
	}
	closeLog = restore
	return nil
}

func teardownLogging(_ *cobra.Command, _ []string) error {
	if closeLog == nil {
		return nil
	}
	err := closeLog()
	closeLog = nil
	return err
}

// requireAI checks that the services needed for provider calls are wired
// and that a provider is configured.
func requireAI() error {
	if aiGateway == nil || documentEncoder == nil {
		return errors.New("analysis services not configured")
	}
	if settingsService == nil {
		return nil
	}
	if err := settingsService.Validate(); err != nil {
		return fmt.Errorf("%w\nRun 'quantscholar settings llm' to configure a provider", err)
	}
	if providerErr != nil {
		return fmt.Errorf("AI provider unavailable: %w\nRun 'quantscholar settings show' to check the configuration",
			providerErr)
	}
	return nil
}
