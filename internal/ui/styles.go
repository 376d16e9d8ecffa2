// internal/ui/styles.go
package ui

import "github.com/charmbracelet/lipgloss"

type theme struct {
	header      lipgloss.Style
	banner      lipgloss.Style
	status      lipgloss.Style
	errorStatus lipgloss.Style
	help        lipgloss.Style
	panel       lipgloss.Style

	cardRed    lipgloss.Style
	cardBlue   lipgloss.Style
	cardGray   lipgloss.Style
	cardBlack  lipgloss.Style
	cardHidden lipgloss.Style
	teamRed    lipgloss.Style
	teamBlue   lipgloss.Style
}

func newTheme() theme {
	red := lipgloss.Color("#ff5f5f")
	blue := lipgloss.Color("#5fafff")
	gray := lipgloss.Color("#8a8a8a")
	muted := lipgloss.Color("#6c6c6c")
	text := lipgloss.Color("#d0d0d0")

	card := lipgloss.NewStyle().Padding(0, 1).Margin(0, 1, 0, 0)
	return theme{
		header:      lipgloss.NewStyle().Bold(true).Foreground(text),
		banner:      lipgloss.NewStyle().Bold(true),
		status:      lipgloss.NewStyle().Foreground(blue),
		errorStatus: lipgloss.NewStyle().Foreground(red).Bold(true),
		help:        lipgloss.NewStyle().Foreground(muted),
		panel:       lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(muted).Padding(0, 1),

		cardRed:    card.Foreground(red).Bold(true),
		cardBlue:   card.Foreground(blue).Bold(true),
		cardGray:   card.Foreground(gray),
		cardBlack:  card.Foreground(lipgloss.Color("#ffffff")).Background(lipgloss.Color("#303030")).Bold(true),
		cardHidden: card.Foreground(text),
		teamRed:    lipgloss.NewStyle().Foreground(red).Bold(true),
		teamBlue:   lipgloss.NewStyle().Foreground(blue).Bold(true),
	}
}
