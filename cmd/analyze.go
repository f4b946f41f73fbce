package cmd

import (
	"github.com/huangsam/steward/core"
	"github.com/huangsam/steward/internal/contract"
	"github.com/spf13/cobra"
)

// analyzeCmd produces the health report of one repository.
var analyzeCmd = &cobra.Command{
	Use:   "analyze <owner/repo>",
	Short: "Analyze the maintenance health of one repository.",
	Long: `Fetch the recent activity of a repository and produce its health report.

The report contains:
- Contributors ranked by activity, with domain classification and trend
- Activity statistics (commit frequency, close rate, response latency)
- Domain distribution of the contributor base
- An overall risk score with per-factor contributions and recommendations

Examples:
  # Analyze the last year of a GitHub repository
  steward analyze golang/go

  # Repository URLs work too
  steward analyze https://github.com/golang/go.git

  # Last 90 days with comment sentiment
  steward analyze golang/go --days 90 --sentiment

  # Analyze a local clone from its git history only
  steward analyze acme/widget --source git --source-path ~/src/widget

  # Export for further processing
  steward analyze golang/go --output json --output-file report.json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		repoID := contract.NormalizeRepositoryID(args[0])
		if err := contract.ValidateRepositoryID(repoID); err != nil {
			contract.LogFatal("Invalid repository", err)
		}
		deps, err := newDeps(cfg)
		if err != nil {
			contract.LogFatal("Cannot set up analysis", err)
		}
		if err := core.ExecuteAnalyze(rootCtx, cfg, repoID, deps); err != nil {
			contract.LogFatal("Cannot run analysis", err)
		}
	},
}
