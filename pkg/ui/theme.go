package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/harrisonrobin/taskplan/pkg/model"
)

const (
	IconDone     = "✓"
	IconProgress = "‣"
	IconDelayed  = "!"
	IconWarn     = "⚠"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)

	header = lipgloss.NewStyle().Bold(true).Foreground(cPrimary).Padding(0, 1)
	cell   = lipgloss.NewStyle().Padding(0, 1)
)

func Heading(title string) string {
	return Title.Render(title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

func StatusText(s model.Status) string {
	switch s {
	case model.StatusCompleted, model.StatusDone:
		return Good.Render(IconDone + " " + string(s))
	case model.StatusInProgress:
		return H2.Render(IconProgress + " " + string(s))
	default:
		return Muted.Render(string(s))
	}
}

// Table renders rows under headers with a rounded border. highlight, when
// non-nil, marks rows to draw in the warning color.
func Table(headers []string, rows [][]string, highlight func(row int) bool) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(Muted).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return header
			case highlight != nil && highlight(row):
				return cell.Foreground(cWarn)
			default:
				return cell
			}
		})
	return t.Render()
}

// Warning formats a non-fatal import or graph problem.
func Warning(w model.Warning) string {
	return Warn.Render(IconWarn+" ") + w.String()
}

// Bullets joins items as an indented list.
func Bullets(items []string) string {
	var b strings.Builder
	for _, it := range items {
		b.WriteString("  • ")
		b.WriteString(it)
		b.WriteString("\n")
	}
	return b.String()
}
