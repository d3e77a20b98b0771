package ui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// Theme colors used throughout the UI
const (
	ColorAccent    = "86"  // titles, highlights
	ColorHighlight = "205" // selected rows, borders
	ColorDanger    = "196" // delete confirmation
	ColorMuted     = "241" // hints
	ColorText      = "252"
	ColorWarning   = "208" // validation messages
	ColorStatus    = "42"  // status pill
)

// Styles contains shared style definitions used across views and modals.
var Styles = struct {
	Title        lipgloss.Style
	TitleWarning lipgloss.Style

	Box       lipgloss.Style // modal box
	BoxDanger lipgloss.Style // destructive confirmation box
	HelpBar   lipgloss.Style // SPC hint bar

	Hint    lipgloss.Style
	Label   lipgloss.Style // field labels in dialogs
	Status  lipgloss.Style // project status pill
	Empty   lipgloss.Style
	Details lipgloss.Style // inline validation message
	Focused lipgloss.Style // focused field label
}{
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccent)),
	TitleWarning: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorDanger)),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorHighlight)).
		Padding(1, 2).
		Margin(1),
	BoxDanger: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorDanger)).
		Padding(1, 2).
		Margin(1),
	HelpBar: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccent)).
		Padding(0, 1).
		MarginTop(1),
	Hint: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	Label: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)).
		Width(14),
	Status: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorStatus)),
	Empty: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)).
		Italic(true),
	Details: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorWarning)),
	Focused: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHighlight)).
		Bold(true).
		Width(14),
}

// tableStyles returns bubbles/table styles in the theme colors.
func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(ColorMuted)).
		BorderBottom(true).
		Bold(true).
		Foreground(lipgloss.Color(ColorAccent))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color(ColorHighlight)).
		Bold(true)
	return s
}
