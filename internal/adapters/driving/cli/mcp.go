package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/promptbreeder/internal/adapters/driving/mcp"
)

var mcpHTTPAddr string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can list runs,
rate prompts and evolve generations.

By default the server communicates over stdio using JSON-RPC. Use --http to
serve the streamable HTTP transport instead, for MCP Inspector or remote use.

Examples:
  # Stdio mode (default, for Claude Desktop)
  promptbreeder mcp

  # HTTP mode
  promptbreeder mcp --http :8080

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "promptbreeder": {
        "command": "/path/to/promptbreeder",
        "args": ["mcp"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpCmd.Flags().StringVar(&mcpHTTPAddr, "http", "", "serve over HTTP on this address (default stdio)")
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	if err := requireBreeder(); err != nil {
		return err
	}

	server, err := mcp.NewServer(&mcp.Ports{Breeder: breederService})
	if err != nil {
		return err
	}

	if mcpHTTPAddr != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on %s\n", mcpHTTPAddr)
		return server.RunHTTP(cmd.Context(), mcpHTTPAddr)
	}

	return server.Run(cmd.Context())
}
