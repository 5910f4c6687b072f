package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/drewgilbert-lab/content-automation-app/internal/core/domain"
)

var errSettingsNotConfigured = errors.New("settings service not configured")

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the LLM provider, pipeline limits and storage backend.

Settings are written to ~/.content-automation/config.toml. Environment
variables (CONTENT_AUTOMATION_*) override the file without changing it.`,
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
	Long:  `Configure the LLM provider used to classify documents.`,
	RunE:  runSettingsLLM,
}

var settingsPipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Set batch limits, confidence threshold and session lifetime",
	Long: `Set pipeline tunables. Only the flags given are changed.

Examples:
  content-automation settings pipeline --threshold 0.8
  content-automation settings pipeline --max-files 20 --session-ttl 2h`,
	RunE: runSettingsPipeline,
}

var settingsStorageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Select the knowledge and submission store",
	Long: `Select where knowledge objects and submissions are kept.

Drivers:
  memory    - In-process only, lost on exit
  sqlite    - Local database file (default: ~/.content-automation/data/knowledge.db)
  postgres  - PostgreSQL, --dsn is a connection string`,
	RunE: runSettingsStorage,
}

func init() {
	f := settingsPipelineCmd.Flags()
	f.String("max-file-size", "", "Per-file size limit (e.g. 10MB)")
	f.Int("max-files", 0, "Maximum files per batch")
	f.String("max-batch-size", "", "Aggregate batch size limit (e.g. 100MB)")
	f.Float64("threshold", 0, "Confidence below which results need review")
	f.Duration("session-ttl", 0, "Session lifetime")
	f.Duration("sweep-interval", 0, "Expired session sweep interval")

	settingsStorageCmd.Flags().String("driver", "", "Storage driver (memory, sqlite, postgres)")
	settingsStorageCmd.Flags().String("dsn", "", "Driver data source")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	settingsCmd.AddCommand(settingsPipelineCmd)
	settingsCmd.AddCommand(settingsStorageCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	llm := settingsService.LLM()
	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", llm.Provider.Description())
	cmd.Printf("  Model: %s\n", llm.Model)
	if llm.Provider.IsLocal() || llm.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", llm.BaseURL)
	}
	if llm.Provider.RequiresAPIKey() {
		if llm.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(llm.APIKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	if llm.RequestsPerMinute > 0 {
		cmd.Printf("  Rate limit: %d/min\n", llm.RequestsPerMinute)
	}
	status := "configured"
	if !llm.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	p := settingsService.Pipeline()
	cmd.Println("[Pipeline]")
	cmd.Printf("  Max file size: %s\n", humanize.IBytes(uint64(p.Limits.MaxFileSize)))
	cmd.Printf("  Max files: %d\n", p.Limits.MaxFiles)
	cmd.Printf("  Max batch size: %s\n", humanize.IBytes(uint64(p.Limits.MaxBatchSize)))
	cmd.Printf("  Confidence threshold: %.2f\n", p.ConfidenceThreshold)
	cmd.Printf("  Session TTL: %s\n", p.SessionTTL)
	cmd.Printf("  Sweep interval: %s\n", p.SweepInterval)
	cmd.Println()

	st := settingsService.Storage()
	cmd.Println("[Storage]")
	cmd.Printf("  Driver: %s\n", st.Driver)
	if st.DSN != "" {
		cmd.Printf("  DSN: %s\n", maskDSN(st.DSN))
	}
	cmd.Println()

	cmd.Println("[Server]")
	cmd.Printf("  Address: %s\n", settingsService.ServerAddr())

	if !llm.IsConfigured() {
		cmd.Println()
		cmd.Println("Run 'content-automation settings llm' to configure classification.")
	}
	return nil
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	return configureLLMProvider(cmd, reader)
}

func runSettingsPipeline(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}

	p := settingsService.Pipeline()
	f := cmd.Flags()
	changed := false

	for _, size := range []struct {
		flag   string
		target *int64
	}{
		{"max-file-size", &p.Limits.MaxFileSize},
		{"max-batch-size", &p.Limits.MaxBatchSize},
	} {
		if !f.Changed(size.flag) {
			continue
		}
		raw, _ := f.GetString(size.flag) //nolint:errcheck // flag is registered
		n, err := humanize.ParseBytes(raw)
		if err != nil {
			return fmt.Errorf("invalid --%s: %w", size.flag, err)
		}
		*size.target = int64(n)
		changed = true
	}
	if f.Changed("max-files") {
		p.Limits.MaxFiles, _ = f.GetInt("max-files") //nolint:errcheck // flag is registered
		changed = true
	}
	if f.Changed("threshold") {
		t, _ := f.GetFloat64("threshold") //nolint:errcheck // flag is registered
		if t <= 0 || t > 1 {
			return fmt.Errorf("invalid --threshold %v: must be in (0, 1]", t)
		}
		p.ConfidenceThreshold = t
		changed = true
	}
	if f.Changed("session-ttl") {
		p.SessionTTL, _ = f.GetDuration("session-ttl") //nolint:errcheck // flag is registered
		changed = true
	}
	if f.Changed("sweep-interval") {
		p.SweepInterval, _ = f.GetDuration("sweep-interval") //nolint:errcheck // flag is registered
		changed = true
	}
	if !changed {
		return errors.New("no settings given; see --help")
	}

	if err := settingsService.SetPipeline(p); err != nil {
		return fmt.Errorf("failed to save pipeline settings: %w", err)
	}
	p = settingsService.Pipeline()
	cmd.Printf("Pipeline settings saved: %d files, %s per file, %s per batch, threshold %.2f, TTL %s\n",
		p.Limits.MaxFiles, humanize.IBytes(uint64(p.Limits.MaxFileSize)),
		humanize.IBytes(uint64(p.Limits.MaxBatchSize)), p.ConfidenceThreshold, p.SessionTTL)
	return nil
}

func runSettingsStorage(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}

	st := settingsService.Storage()
	if cmd.Flags().Changed("driver") {
		d, _ := cmd.Flags().GetString("driver") //nolint:errcheck // flag is registered
		st.Driver = domain.StorageDriver(d)
		st.DSN = ""
	}
	if cmd.Flags().Changed("dsn") {
		st.DSN, _ = cmd.Flags().GetString("dsn") //nolint:errcheck // flag is registered
	}
	if !st.Driver.IsValid() {
		return fmt.Errorf("unknown storage driver %q", st.Driver)
	}
	if st.Driver == domain.StorageDriverPostgres && st.DSN == "" {
		return errors.New("postgres requires --dsn")
	}

	if err := settingsService.SetStorage(st); err != nil {
		return fmt.Errorf("failed to save storage settings: %w", err)
	}
	cmd.Printf("Storage set to: %s\n", st.Driver)
	return nil
}

func configureLLMProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select LLM Provider")
	providers := []domain.AIProvider{
		domain.AIProviderAnthropic,
		domain.AIProviderOpenAI,
		domain.AIProviderOllama,
	}
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	selectedProvider := providers[idx-1]

	defaultModel := domain.DefaultLLMModels()[selectedProvider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	var apiKey string
	if selectedProvider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword(reader)
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
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

	cmd.Printf("LLM provider configured: %s (%s)\n", selectedProvider.Description(), model)
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

// readPassword reads without echo from a terminal, otherwise a plain line.
func readPassword(reader *bufio.Reader) string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
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

// maskDSN hides the password of a URL-style connection string.
func maskDSN(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	scheme := strings.Index(dsn, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return dsn
	}
	userinfo := dsn[scheme+3 : at]
	if colon := strings.Index(userinfo, ":"); colon >= 0 {
		return dsn[:scheme+3] + userinfo[:colon] + ":****" + dsn[at:]
	}
	return dsn
}
