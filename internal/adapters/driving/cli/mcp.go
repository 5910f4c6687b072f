package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/drewgilbert-lab/content-automation-app/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Expose classification to MCP clients",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start a Model Context Protocol server for batch classification.

Tools cover the whole batch flow: create_session parses local paths into a new
session, classify_session runs the classifier and returns every outcome,
edit_classification, reclassify_document and approve_documents finish the review.
Sessions live in memory and expire after the configured TTL.

stdio is the default transport. Pass --port to serve streamable HTTP instead,
for the MCP Inspector or a remote client.

  content-automation mcp serve
  content-automation mcp serve --port 8765

Desktop clients launch it as {"command": "content-automation", "args": ["mcp", "serve"]}.`,
	Annotations: needsServices(),
	RunE:        runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	ports := &mcp.Ports{
		Sessions: services.Sessions,
		Parser:   services.Parser,
		Streamer: services.Streamer,
		Review:   services.Review,
		Limits:   services.Limits,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	ctx, stop := startWatcher(cmd.Context())
	defer stop()

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}
