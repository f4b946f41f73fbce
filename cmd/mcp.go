package cmd

import (
	"github.com/huangsam/steward/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Steward MCP server",
	Long: `Launch an MCP server on stdio that lets AI agents analyze repositories.

Tools:
  analyze_repository   - health report of one repository
  analyze_repositories - batch analysis with a risk ranking
  classify_email       - domain classification of email addresses

Flags and config values act as defaults; tools may override days and sentiment per call.`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, newDeps)
	},
}
