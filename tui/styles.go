package tui

import "github.com/charmbracelet/lipgloss"

// ANSI palette indexes.
const (
	colorGreen  = lipgloss.Color("10")
	colorRed    = lipgloss.Color("9")
	colorBlue   = lipgloss.Color("12")
	colorYellow = lipgloss.Color("11")
	colorPink   = lipgloss.Color("205")
)

var (
	pageStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
	goodStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	badStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	columnStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorBlue)
	cellStyle    = lipgloss.NewStyle().PaddingRight(1)
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	spinnerStyle = lipgloss.NewStyle().Foreground(colorPink)
)
