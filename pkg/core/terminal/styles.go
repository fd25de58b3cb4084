package terminal

import "github.com/charmbracelet/lipgloss"

var (
	colorBlue  = lipgloss.Color("33")
	colorSlate = lipgloss.Color("245")
	colorWhite = lipgloss.Color("255")
	colorRed   = lipgloss.Color("196")
)

var titleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorWhite)

var subtitleStyle = lipgloss.NewStyle().
	Foreground(colorBlue).
	Italic(true)

var sectionStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorBlue).
	MarginTop(1)

var donorStyle = lipgloss.NewStyle().
	Bold(true).
	BorderStyle(lipgloss.ThickBorder()).
	BorderLeft(true).
	BorderForeground(colorBlue).
	PaddingLeft(1)

var boldStyle = lipgloss.NewStyle().Bold(true)

var linkStyle = lipgloss.NewStyle().
	Foreground(colorBlue).
	Underline(true)

var dimStyle = lipgloss.NewStyle().Foreground(colorSlate)

var errorStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorRed)
