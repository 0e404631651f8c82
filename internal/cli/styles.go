// Package cli provides styled terminal output using lipgloss.
package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/daquezad/CX-Licensing-Automation/internal/model"
)

var (
	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			MarginBottom(1)

	// SubtleStyle formats less prominent text.
	SubtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	// ErrorStyle formats errors or failure messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	// outcomeStyles colors each summary line with its workbook
	// highlight color.
	outcomeStyles = map[model.OutcomeColor]lipgloss.Style{
		model.ColorGreen:  lipgloss.NewStyle().Foreground(lipgloss.Color("#00CC66")),
		model.ColorRed:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4444")),
		model.ColorBlue:   lipgloss.NewStyle().Foreground(lipgloss.Color("#4488FF")),
		model.ColorYellow: lipgloss.NewStyle().Foreground(lipgloss.Color("#FFCC00")),
		model.ColorPurple: lipgloss.NewStyle().Foreground(lipgloss.Color("#AA66CC")),
	}
)

// OutcomeStyle returns the style for an outcome's highlight color.
func OutcomeStyle(o model.Outcome) lipgloss.Style {
	if style, ok := outcomeStyles[o.Color()]; ok {
		return style
	}
	return SubtleStyle
}
