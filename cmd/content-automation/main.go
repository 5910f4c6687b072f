// Command content-automation classifies uploaded documents against the
// knowledge base and turns reviewed results into review-queue submissions.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/drewgilbert-lab/content-automation-app/internal/adapters/driven/ai"
	"github.com/drewgilbert-lab/content-automation-app/internal/adapters/driven/config/file"
	"github.com/drewgilbert-lab/content-automation-app/internal/adapters/driven/metrics"
	"github.com/drewgilbert-lab/content-automation-app/internal/adapters/driven/storage/memory"
	"github.com/drewgilbert-lab/content-automation-app/internal/adapters/driven/tokens"
	"github.com/drewgilbert-lab/content-automation-app/internal/adapters/driving/cli"
	"github.com/drewgilbert-lab/content-automation-app/internal/core/ports/driven"
	"github.com/drewgilbert-lab/content-automation-app/internal/core/services"
	"github.com/drewgilbert-lab/content-automation-app/internal/logger"
	"github.com/drewgilbert-lab/content-automation-app/internal/normalisers"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		// cobra has already printed the error
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// .env is optional; variables already set in the environment win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error: loading .env: %v\n", err)
		return err
	}

	configDir, err := file.DefaultDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading config: %v\n", err)
		return err
	}
	for _, key := range file.ApplyEnv(configStore, os.Environ()) {
		logger.Debug("config %s set from environment", key)
	}

	settings := services.NewSettingsService(configStore, ai.NewConfigValidator())

	cli.SetVersion(version)
	cli.SetSettingsService(settings)
	cli.SetBootstrap(func(ctx context.Context) (*cli.Services, error) {
		return bootstrap(ctx, configDir, configStore, settings)
	})
	return cli.Execute(ctx)
}

// bootstrap wires stores, the LLM and the core services.
func bootstrap(
	ctx context.Context,
	configDir string,
	configStore *file.ConfigStore,
	settings *services.SettingsService,
) (*cli.Services, error) {
	pipeline := settings.Pipeline()
	m := metrics.New()

	stores, err := openStores(ctx, settings.Storage())
	if err != nil {
		return nil, err
	}

	var llm driven.LLMService
	llmSettings := settings.LLM()
	if llmSettings.IsConfigured() {
		// An unreachable provider disables classification for this run.
		llm, err = ai.CreateAndValidateLLMService(ctx, &llmSettings)
		if err != nil {
			logger.Warn("LLM unavailable: %v", err)
			llm = nil
		}
	} else {
		logger.Warn("No LLM provider configured; run 'content-automation settings llm'")
	}

	prompts, err := file.NewPromptStore(filepath.Join(configDir, "prompts"))
	if err != nil {
		stores.close()
		return nil, fmt.Errorf("prompt store: %w", err)
	}
	classifier := services.NewClassifierService(llm, pipeline.ConfidenceThreshold, m)
	classifier.SetPromptStore(prompts)
	classifier.SetTokenCounter(tokens.NewCounter(""))

	sessionStore := memory.NewSessionStore(memory.SessionStoreConfig{
		TTL:           pipeline.SessionTTL,
		SweepInterval: pipeline.SweepInterval,
	})

	watcher := file.NewWatcher(configStore, prompts, func() {
		file.ApplyEnv(configStore, os.Environ())
		logger.Info("Configuration reloaded; limits and storage changes apply after restart")
	})

	return &cli.Services{
		Parser:          services.NewParserService(normalisers.NewDefaultRegistry(), pipeline.Limits, m),
		Sessions:        services.NewSessionService(sessionStore, stores.knowledge, m),
		Streamer:        services.NewStreamService(sessionStore, stores.knowledge, classifier),
		Review:          services.NewReviewService(sessionStore, stores.knowledge, classifier, stores.submissions, m),
		Knowledge:       stores.knowledge,
		KnowledgeWriter: stores.writer,
		Submissions:     stores.lister,
		Limits:          pipeline.Limits,
		Metrics:         m.Handler(),
		Watch:           watcher.Run,
		Close: func() {
			sessionStore.Close()
			if llm != nil {
				if err := llm.Close(); err != nil {
					logger.Warn("closing LLM: %v", err)
				}
			}
			stores.close()
		},
	}, nil
}
