package cmd

import (
	"fmt"

	"github.com/huangsam/steward/core"
	"github.com/huangsam/steward/internal/contract"
	"github.com/spf13/cobra"
)

// compareCmd analyzes several repositories and ranks them by risk.
var compareCmd = &cobra.Command{
	Use:   "compare <owner/repo> [owner/repo...]",
	Short: "Compare the maintenance health of several repositories.",
	Long: fmt.Sprintf(`Analyze several repositories concurrently and rank them by risk.

Repositories are analyzed independently, so one failure does not abort the
others. Failed repositories are listed with their error, and duplicates are
analyzed once. Repository URLs are accepted in place of owner/repo. At most
%d repositories can be compared at a time.

Ideal for:
- Dependency audits - find the least maintained libraries you rely on
- Portfolio reviews - see which projects of an organization need help
- Vendor selection - compare candidate libraries side by side

Examples:
  # Compare three repositories over the last 180 days
  steward compare spf13/cobra urfave/cli alecthomas/kong --days 180

  # Limit concurrency and export to CSV
  steward compare a/b c/d e/f --workers 2 --output csv --output-file compare.csv`, contract.MaxBatchRepositories),
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		deps, err := newDeps(cfg)
		if err != nil {
			contract.LogFatal("Cannot set up comparison", err)
		}
		if err := core.ExecuteCompare(rootCtx, cfg, args, deps); err != nil {
			contract.LogFatal("Cannot run comparison", err)
		}
	},
}
