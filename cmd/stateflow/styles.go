package main

import "github.com/charmbracelet/lipgloss"

var (
	ColorBlue     = lipgloss.Color("39")
	ColorGreen    = lipgloss.Color("82")
	ColorYellow   = lipgloss.Color("228")
	ColorCyan     = lipgloss.Color("45")
	ColorRed      = lipgloss.Color("196")
	ColorGray     = lipgloss.Color("250")
	ColorDarkGray = lipgloss.Color("240")
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorBlue).
			Bold(true)

	StateStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	TriggerStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	InternalStyle = lipgloss.NewStyle().
			Foreground(ColorCyan)

	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorGray).
			Italic(true)

	ArrowStyle = lipgloss.NewStyle().
			Foreground(ColorDarkGray)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed)
)
