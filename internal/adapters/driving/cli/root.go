// Package cli provides the cobra command tree of content-automation.
// It is a driving adapter: commands call core services through driving ports.
package cli

import (
	"context"
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/drewgilbert-lab/content-automation-app/internal/core/domain"
	"github.com/drewgilbert-lab/content-automation-app/internal/core/ports/driven"
	"github.com/drewgilbert-lab/content-automation-app/internal/core/ports/driving"
	"github.com/drewgilbert-lab/content-automation-app/internal/logger"
)

// version is set at build time.
var version = "dev"

// annotationServices marks commands that need the pipeline services.
const annotationServices = "services"

// ErrServicesNotConfigured is returned when a command runs without its services.
var ErrServicesNotConfigured = errors.New("services not configured")

// Services holds everything the pipeline commands use.
type Services struct {
	Parser   driving.DocumentParser
	Sessions driving.SessionService
	Streamer driving.ClassificationStreamer
	Review   driving.ReviewService

	// Knowledge lists existing objects. KnowledgeWriter is nil for
	// stores that cannot be written locally.
	Knowledge       driven.KnowledgeStore
	KnowledgeWriter driven.KnowledgeWriter

	// Submissions is nil when the store cannot list what it holds.
	Submissions driven.SubmissionLister

	Limits domain.BatchLimits

	// Metrics serves the Prometheus registry. Optional.
	Metrics http.Handler

	// Watch hot-reloads configuration and prompts until ctx ends. Optional.
	Watch func(ctx context.Context) error

	// Close releases stores and background workers.
	Close func()
}

// Bootstrap builds the services on first use.
type Bootstrap func(ctx context.Context) (*Services, error)

var (
	services        *Services
	bootstrap       Bootstrap
	settingsService driving.SettingsService
)

var rootCmd = &cobra.Command{
	Use:   "content-automation",
	Short: "Bulk document classification for the knowledge base",
	Long: `content-automation parses uploaded documents, classifies each one against
the existing knowledge base with an LLM, and turns reviewed results into
submissions for the review queue.

Run 'content-automation serve' for the HTTP API, 'content-automation classify'
for local files, or 'content-automation mcp serve' for AI assistants.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if services != nil && services.Close != nil {
			services.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("json-logs", false, "Write logs as JSON")
}

// setup applies logging flags and builds the services for commands that need them.
func setup(cmd *cobra.Command, _ []string) error {
	if v, err := cmd.Flags().GetBool("verbose"); err == nil {
		logger.SetVerbose(v)
	}
	if j, err := cmd.Flags().GetBool("json-logs"); err == nil && j {
		logger.SetJSON(true)
	}

	if cmd.Annotations[annotationServices] == "" || services != nil {
		return nil
	}
	if bootstrap == nil {
		return ErrServicesNotConfigured
	}
	s, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	services = s
	return nil
}

// needsServices is the annotation set for pipeline commands.
func needsServices() map[string]string {
	return map[string]string{annotationServices: "true"}
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetBootstrap sets the function that builds the pipeline services.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetSettingsService sets the settings service.
func SetSettingsService(s driving.SettingsService) {
	settingsService = s
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
