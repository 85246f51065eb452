package report

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444466")).
		Padding(0, 1)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00ffff"))

	Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#ffffff")).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(lipgloss.Color("#444466"))

	Label = lipgloss.NewStyle().Foreground(lipgloss.Color("#888899"))
	Value = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ccff")).Bold(true)
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))

	Good = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
	Warn = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffcc00"))
	Bad  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444")).Bold(true)
)

// Bar draws value/limit as a fixed-width gauge, green to red as it fills.
func Bar(value, limit float64, width int) string {
	if width <= 0 || limit <= 0 {
		return ""
	}
	frac := value / limit
	frac = min(max(frac, 0), 1)
	filled := int(frac*float64(width) + 0.5)

	style := Good
	switch {
	case frac >= 0.7:
		style = Bad
	case frac >= 0.4:
		style = Warn
	}
	return style.Render(strings.Repeat("█", filled)) + Muted.Render(strings.Repeat("░", width-filled))
}

// Severity picks a style from a level keyword.
func Severity(level string) lipgloss.Style {
	switch level {
	case "critical", "high":
		return Bad
	case "warning":
		return Warn
	default:
		return Muted
	}
}
