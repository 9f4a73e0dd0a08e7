package outwriter

import (
	"os"

	"github.com/Andyyyy64/el331-commit-analysis/internal/contract"
	"golang.org/x/term"
)

// terminalWidth returns the width override, the detected terminal width, or 80.
func terminalWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		// Conservative default for narrow terminals and CI
		return 80
	}
	return detectedWidth
}

// GetMaxContextWidth calculates how many characters each side of a KWIC line may use.
func GetMaxContextWidth(cfg *contract.Config, keywordWidth int, sorted bool) int {
	// Index + commit hash columns with borders/padding
	baseWidth := 22 + keywordWidth
	if sorted {
		baseWidth += 28 // Sort metric column
	}
	// Reserve space for table borders, separators, and padding
	baseWidth += 12

	available := (terminalWidth(cfg) - baseWidth) / 2
	if available < 12 {
		return 12
	}
	if available > 60 {
		return 60
	}
	return available
}

// GetMaxListWidth calculates the width of a column holding joined n-gram lists.
func GetMaxListWidth(cfg *contract.Config, columns int) int {
	if columns < 1 {
		columns = 1
	}
	// Rank window + count columns with borders/padding
	available := (terminalWidth(cfg) - 30) / columns
	if available < 15 {
		return 15
	}
	if available > 80 {
		return 80
	}
	return available
}
