package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// PersonDelegate renders one ranked person per row:
// [sel] [rank] [id] [role/department...] [influence] [degree]
type PersonDelegate struct{}

func (d PersonDelegate) Height() int  { return 1 }
func (d PersonDelegate) Spacing() int { return 0 }

func (d PersonDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d PersonDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(PersonItem)
	if !ok {
		return
	}

	width := m.Width()
	if width <= 0 {
		width = 80
	}
	width-- // keep off the terminal's last column

	isSelected := index == m.Index()

	// Right side: fixed-width metric columns.
	right := fmt.Sprintf("inf %.3f  deg %2d", item.Influence, item.Metrics.TotalConnections)
	rightWidth := lipgloss.Width(right)

	var left strings.Builder
	if isSelected {
		left.WriteString("▸ ")
	} else {
		left.WriteString("  ")
	}
	left.WriteString(mutedStyle.Render(fmt.Sprintf("%3d.", item.Rank)))
	left.WriteString(" ")

	id := runewidth.Truncate(item.Person.ID, 28, "…")
	if isSelected {
		left.WriteString(titleStyle.Render(id))
	} else {
		left.WriteString(lipgloss.NewStyle().Bold(true).Render(id))
	}
	left.WriteString(" ")

	detail := item.Person.DepartmentOrUnknown()
	if item.Person.Role != "" {
		detail = item.Person.Role + ", " + detail
	}
	detailWidth := width - lipgloss.Width(left.String()) - rightWidth - 2
	if detailWidth < 8 {
		detailWidth = 8
	}
	detail = runewidth.Truncate(detail, detailWidth, "…")
	left.WriteString(mutedStyle.Render(detail))

	padding := width - lipgloss.Width(left.String()) - rightWidth - 1
	if padding < 1 {
		padding = 1
	}
	row := left.String() + strings.Repeat(" ", padding) + mutedStyle.Render(right)

	rowStyle := lipgloss.NewStyle().Width(width).MaxWidth(width)
	if isSelected {
		row = rowStyle.Background(ColorHighlight).Render(row)
	} else {
		row = rowStyle.Render(row)
	}
	fmt.Fprint(w, row)
}
