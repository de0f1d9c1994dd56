// Package style holds the terminal styles used for command output.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/marve/cerbero/pkg/types"
)

// Base styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(HeadingColor).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	PathStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Italic(true)
)

// Action styles
var (
	MergeStyle = lipgloss.NewStyle().
			Foreground(MergeColor).
			Bold(true)

	CopyStyle = lipgloss.NewStyle().
			Foreground(CopyColor).
			Bold(true)

	LinkStyle = lipgloss.NewStyle().
			Foreground(LinkColor).
			Bold(true)

	SkipStyle = lipgloss.NewStyle().
			Foreground(SkipColor)
)

// ActionStyle returns the style used to print an action name
func ActionStyle(a types.Action) lipgloss.Style {
	switch a {
	case types.ActionMerge:
		return MergeStyle
	case types.ActionCopy:
		return CopyStyle
	case types.ActionLink:
		return LinkStyle
	case types.ActionSkip:
		return SkipStyle
	default:
		return MutedStyle
	}
}

// Indicators
var (
	SuccessIndicator = SuccessStyle.Render("✓")
	ErrorIndicator   = ErrorStyle.Render("✗")
	WarningIndicator = WarningStyle.Render("!")
)

// Indent pads s by level*2 spaces
func Indent(s string, level int) string {
	return lipgloss.NewStyle().PaddingLeft(level * 2).Render(s)
}

// Bold renders s in bold
func Bold(s string) string {
	return lipgloss.NewStyle().Bold(true).Render(s)
}
