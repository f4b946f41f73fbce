package outwriter

import (
	"os"

	"github.com/huangsam/steward/internal/contract"
	"golang.org/x/term"
)

// Width bounds for the variable-width name column.
const (
	minNameWidth = 12
	maxNameWidth = 40
)

// terminalWidth returns the override width, the detected terminal width or 80.
func terminalWidth(cfg *contract.Config) int {
	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		return cfg.Width
	}
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		return 80 // Conservative default for narrow terminals and CI
	}
	return detectedWidth
}

// getMaxNameWidth calculates the maximum width for contributor or repository
// names in table output, given the width the other columns take up.
func getMaxNameWidth(cfg *contract.Config, fixedColumns int) int {
	// Reserve generous space for table borders, separators, and padding
	available := terminalWidth(cfg) - fixedColumns - 20
	return max(minNameWidth, min(maxNameWidth, available))
}
