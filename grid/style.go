package grid

import "github.com/charmbracelet/lipgloss"

// Style controls the grid's rendering. Every cell is rendered with one cell
// of horizontal padding on each side regardless of the styles given here.
type Style struct {
	Border    lipgloss.Style
	Header    lipgloss.Style
	RowHeader lipgloss.Style
	Cell      lipgloss.Style
	Focused   lipgloss.Style
	Editing   lipgloss.Style
}

func DefaultStyle() Style {
	header := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)
	return Style{
		Border:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Header:    header,
		RowHeader: header.Bold(false),
		Cell:      lipgloss.NewStyle(),
		Focused:   lipgloss.NewStyle().Reverse(true),
		Editing:   lipgloss.NewStyle().Background(lipgloss.Color("237")),
	}
}
