package cmd

import (
	"github.com/huangsam/steward/core"
	"github.com/huangsam/steward/internal/contract"
	"github.com/spf13/cobra"
)

// classifyCmd classifies email addresses without fetching any repository data.
var classifyCmd = &cobra.Command{
	Use:   "classify <email> [email...]",
	Short: "Classify email addresses as company, academic or personal.",
	Long: `Classify email addresses by their domain using the configured domain lists.

Company domains (custom ones included) are checked first, then academic
suffixes, then personal domains. Addresses that are malformed or match no
rule are reported as unknown. Custom company domains are set in
.steward.yaml under domains.custom.

Examples:
  steward classify jane@stanford.edu bob@google.com
  steward classify dev@acme.io --output json`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteClassify(rootCtx, cfg, args); err != nil {
			contract.LogFatal("Cannot classify emails", err)
		}
	},
}
