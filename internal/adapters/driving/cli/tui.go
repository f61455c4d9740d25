package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/quantscholar/internal/adapters/driving/tui"
)

// TUIConfig holds configuration for the TUI command.
type TUIConfig struct {
	// Directory is where the file picker starts. Empty uses the working directory.
	Directory string

	// ModelName is shown in the status bar.
	ModelName string

	// Notices carries short status lines, e.g. prompt reloads, to the status bar.
	Notices <-chan string

	// OnStart runs alongside the TUI, e.g. the prompt watcher. It stops
	// when the TUI exits.
	OnStart func(cmd *cobra.Command) (stop func())
}

// tuiConfig holds the current TUI configuration.
var tuiConfig *TUIConfig

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for QuantScholar.

Pick a PDF, wait while the paper is deconstructed, then read the analysis
and discuss the paper with the tutor.

Controls:
  Enter    - Open file / Send message
  Tab      - Switch between Analysis and Tutor
  PgUp/Dn  - Scroll
  Ctrl+R   - Analyse another paper
  ?        - Help (upload screen)
  Ctrl+C   - Quit`,
	RunE: runTUI,
}

// SetTUIConfig sets the configuration for the TUI command.
func SetTUIConfig(config *TUIConfig) {
	tuiConfig = config
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if sessionController == nil {
		return errors.New("session controller not configured")
	}
	if err := requireAI(); err != nil {
		return err
	}

	app, err := tui.NewApp(tui.NewPorts(sessionController, settingsService))
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	if tuiConfig != nil {
		if tuiConfig.Directory != "" {
			app.WithDirectory(tuiConfig.Directory)
		}
		app.WithModel(tuiConfig.ModelName)
		if tuiConfig.Notices != nil {
			app.WithNotices(tuiConfig.Notices)
		}
		if tuiConfig.OnStart != nil {
			if stop := tuiConfig.OnStart(cmd); stop != nil {
				defer stop()
			}
		}
	}

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
