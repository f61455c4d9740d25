package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/quantscholar/internal/adapters/driving/mcp"
	"github.com/custodia-labs/quantscholar/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

By default, the server communicates over stdio using JSON-RPC and can be
used with Claude Desktop and other MCP-compatible AI assistants.

Tools:
  analyze_paper  - structured analysis of a local PDF
  ask_paper      - one tutor answer about a local PDF

Each analysis is also published as a quantscholar://analyses/{fileName}
resource for the rest of the session.

Use --port to start an HTTP server instead, which enables:
  - Testing with MCP Inspector web UI
  - Remote access via HTTP

Examples:
  # Stdio mode (default, for Claude Desktop)
  quantscholar mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  quantscholar mcp serve --port 8080

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "quantscholar": {
        "command": "/path/to/quantscholar",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
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

	server, err := mcp.NewServer(&mcp.Ports{
		Encoder: documentEncoder,
		Gateway: aiGateway,
	})
	if err != nil {
		return err
	}

	// Tools still register without a provider; each call then reports it.
	if err := requireAI(); err != nil {
		logger.Warn("%v", err)
	}
	logger.Info("serving tools analyze_paper and ask_paper")

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
