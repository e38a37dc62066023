// Package style holds the terminal color helpers shared by the UI and by the
// status formatters.
package style

import (
	"github.com/charmbracelet/lipgloss"
)

func color(text, c string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(c)).
		Render(text)
}

// ColorRed colors text red
func ColorRed(text string) string { return color(text, "1") }

// ColorGreen colors text green
func ColorGreen(text string) string { return color(text, "2") }

// ColorYellow colors text yellow
func ColorYellow(text string) string { return color(text, "3") }

// ColorBlue colors text blue
func ColorBlue(text string) string { return color(text, "4") }

// ColorMagenta colors text magenta
func ColorMagenta(text string) string { return color(text, "5") }

// ColorCyan colors text cyan
func ColorCyan(text string) string { return color(text, "6") }

// ColorDim makes text dim/gray
func ColorDim(text string) string { return color(text, "8") }

// Bold renders text bold
func Bold(text string) string {
	return lipgloss.NewStyle().Bold(true).Render(text)
}

// ColorYellowBold colors text yellow and bold
func ColorYellowBold(text string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("3")).
		Bold(true).
		Render(text)
}

// ColorBranchName colors a story branch: the current one red, others green
func ColorBranchName(branchName string, isCurrent bool) string {
	if isCurrent {
		return ColorRed(branchName)
	}
	return ColorGreen(branchName)
}

// ColorError renders an error inline in place of a result
func ColorError(err error) string {
	return ColorRed("Error: " + err.Error())
}
