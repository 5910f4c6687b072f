package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/drewgilbert-lab/content-automation-app/internal/adapters/driving/api"
	"github.com/drewgilbert-lab/content-automation-app/internal/core/domain"
	"github.com/drewgilbert-lab/content-automation-app/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API for uploading, classifying and approving documents.

Endpoints:
  POST   /api/upload                                   multipart upload (field "files")
  GET    /api/upload/sessions/:id/classify             classification stream (SSE)
  GET    /api/upload/sessions/:id                      session with effective results
  PUT    /api/upload/sessions/:id/documents/:index     human edit
  POST   /api/upload/sessions/:id/documents/:index/reclassify
  POST   /api/upload/sessions/:id/approve              create submissions
  GET    /metrics                                      Prometheus metrics

The listen address defaults to server.addr from the config file.`,
	Annotations: needsServices(),
	RunE:        runServe,
}

func init() {
	serveCmd.Flags().StringP("addr", "a", "", "Listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	addr, _ := cmd.Flags().GetString("addr") //nolint:errcheck // flag is registered
	if addr == "" && settingsService != nil {
		addr = settingsService.ServerAddr()
	}
	if addr == "" {
		addr = domain.DefaultServerAddr
	}

	if settingsService != nil {
		if err := settingsService.ValidateLLMConfig(); err != nil {
			logger.Warn("LLM not reachable, classification will fail until fixed: %v", err)
		}
	}

	server, err := api.NewServer(&api.Ports{
		Parser:   services.Parser,
		Sessions: services.Sessions,
		Streamer: services.Streamer,
		Review:   services.Review,
		Limits:   services.Limits,
		Metrics:  services.Metrics,
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	ctx, stop := startWatcher(cmd.Context())
	defer stop()

	cmd.Printf("Listening on http://%s\n", addr)
	return server.Run(ctx, addr)
}

// startWatcher runs the config and prompt watcher until the returned stop
// function is called or ctx ends.
func startWatcher(parent context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)
	if services == nil || services.Watch == nil {
		return ctx, cancel
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := services.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("config watcher stopped: %v", err)
		}
	}()
	return ctx, func() {
		cancel()
		<-done
	}
}
