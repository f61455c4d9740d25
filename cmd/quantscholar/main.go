// Command quantscholar deconstructs quantitative research papers and hosts a
// tutor conversation grounded in the paper.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/custodia-labs/quantscholar/internal/adapters/driven/ai"
	"github.com/custodia-labs/quantscholar/internal/adapters/driven/config/file"
	"github.com/custodia-labs/quantscholar/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/quantscholar/internal/adapters/driving/cli"
	"github.com/custodia-labs/quantscholar/internal/core/domain"
	"github.com/custodia-labs/quantscholar/internal/core/ports/driven"
	"github.com/custodia-labs/quantscholar/internal/core/services"
	"github.com/custodia-labs/quantscholar/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	home, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	configDir := filepath.Join(home, file.DefaultDirName)

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: opening config: %v\n", err)
		return err
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())

	settings, err := settingsService.Get()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading settings: %v\n", err)
		return err
	}

	// A missing provider is reported by the commands that need one.
	var generator driven.Generator
	if settings.LLM.IsConfigured() {
		gen, err := ai.CreateGenerator(ctx, &settings.LLM)
		if err != nil {
			logger.Warn("AI provider unavailable: %v", err)
			cli.SetProviderError(err)
		} else {
			generator = ai.WithRateLimit(gen, settings.RateLimit)
			defer generator.Close()
		}
	}

	gateway, notices := newGateway(ctx, generator, settings, configDir)
	encoder := services.NewDocumentEncoder()
	controller := services.NewController(encoder, gateway, memory.NewConversationStore())

	cli.SetVersion(version)
	cli.SetSettingsService(settingsService)
	cli.SetDocumentEncoder(encoder)
	cli.SetAIGateway(gateway)
	cli.SetSessionController(controller)
	cli.SetTUIConfig(&cli.TUIConfig{ModelName: settings.LLM.Model, Notices: notices})

	return cli.ExecuteContext(ctx)
}

// newGateway builds the gateway and keeps its prompts in sync with the
// prompt directory until ctx is done. Each reload is announced on the
// returned channel, which is nil when reloading is off.
func newGateway(
	ctx context.Context, generator driven.Generator, settings *domain.AppSettings, configDir string,
) (*services.AIGateway, <-chan string) {
	gateway := services.NewAIGateway(generator, settings.Analysis)

	promptDir := filepath.Join(configDir, "prompts")
	prompts, err := file.NewPromptStore(promptDir)
	if err != nil {
		logger.Warn("custom prompts disabled: %v", err)
		return gateway, nil
	}
	gateway.SetPromptStore(prompts)

	watcher, err := file.NewPromptWatcher(promptDir, prompts)
	if err != nil {
		logger.Warn("prompt reload disabled: %v", err)
		return gateway, nil
	}

	notices := make(chan string, 1)
	watcher.OnReload(func(name string) {
		select {
		case notices <- fmt.Sprintf("prompt %s reloaded", name):
		default:
		}
	})
	go func() {
		if err := watcher.Run(ctx); err != nil {
			logger.Warn("prompt watcher stopped: %v", err)
		}
	}()
	return gateway, notices
}
