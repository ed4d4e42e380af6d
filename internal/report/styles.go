// Package report renders sweep results: the per-buffer-size lines printed
// while a sweep runs, the closing summary table and the JSON export.
package report

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("#101F38") // Dark Blue
	colorAccent  = lipgloss.Color("#8BC34A") // Lime Green
	colorBorder  = lipgloss.Color("#2a3850")
	colorMuted   = lipgloss.Color("#6b7785")
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Padding(0, 1)
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
	bestStyle     = cellStyle.Bold(true).Foreground(colorAccent)
	borderStyle   = lipgloss.NewStyle().Foreground(colorBorder)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	footnoteStyle = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)
)
