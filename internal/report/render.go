// Package report renders analysis results for the terminal and as charts.
package report

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Palette
var (
	colorBorder = lipgloss.Color("#575653")
	colorText   = lipgloss.Color("#FFFCF0")
	colorMuted  = lipgloss.Color("#878580")
	colorAccent = lipgloss.Color("#3AA99F")
	colorWarn   = lipgloss.Color("#DA702C")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 2)

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Foreground(colorText).Padding(0, 1)
	numStyle    = cellStyle.Align(lipgloss.Right)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	warnStyle   = lipgloss.NewStyle().Foreground(colorWarn)
)

// Table is a titled grid of pre-formatted cells. Columns after the first
// are right-aligned.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Note    string
}

// Title renders a boxed heading.
func Title(s string) string {
	return titleStyle.Render(s)
}

// Render draws t with rounded borders. A table without rows renders its
// note, or a default message, in place of the grid.
func Render(t Table) string {
	var b strings.Builder
	if t.Title != "" {
		b.WriteString(headerStyle.Render(t.Title))
		b.WriteString("\n")
	}
	if len(t.Rows) == 0 {
		note := t.Note
		if note == "" {
			note = "no data for this selection"
		}
		b.WriteString(warnStyle.Render("  " + note))
		b.WriteString("\n")
		return b.String()
	}
	grid := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
		Headers(t.Headers...).
		Rows(t.Rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return cellStyle
			}
			return numStyle
		})
	b.WriteString(grid.Render())
	b.WriteString("\n")
	if t.Note != "" {
		b.WriteString(mutedStyle.Render("  " + t.Note))
		b.WriteString("\n")
	}
	return b.String()
}
