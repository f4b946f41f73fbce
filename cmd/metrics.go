package cmd

import (
	"github.com/huangsam/steward/core"
	"github.com/huangsam/steward/internal/contract"
	"github.com/spf13/cobra"
)

// metricsCmd displays the formal definitions of all risk factors.
var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Display risk factor formulas, weights and severity thresholds",
	Long: `Show the formal definitions, formulas and weights of every risk factor.

Provides complete transparency into how repositories are scored, including:
- Factor purpose and sub-score formula
- Factor weights, custom ones included if configured via .steward.yaml
- Severity thresholds and trend classification settings

No repository data is fetched - this is purely informational.

Examples:
  # Show default scoring formulas
  steward metrics

  # View with custom weights from config file
  steward metrics --config .steward.yaml`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteMetrics(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot display metrics", err)
		}
	},
}
