package ui

import "github.com/charmbracelet/lipgloss"

// Palette is the stylesheet for the browser, built from named
// [lipgloss.Style] fields.
type Palette struct {
	title     lipgloss.Style
	tab       lipgloss.Style
	activeTab lipgloss.Style
	dim       lipgloss.Style
	ok        lipgloss.Style
	err       lipgloss.Style
	help      lipgloss.Style
}

var styles = NewPalette("#7D56F4", "#04B575", "#FF5F5F", "#626262")

func NewPalette(accent, ok, err, muted string) *Palette {
	return &Palette{
		title:     bold(accent).MarginBottom(1),
		tab:       fg(muted),
		activeTab: bold(accent).Underline(true),
		dim:       fg(muted),
		ok:        bold(ok),
		err:       bold(err),
		help:      fg(muted).Italic(true),
	}
}

func fg(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

func bold(color string) lipgloss.Style {
	return fg(color).Bold(true)
}
