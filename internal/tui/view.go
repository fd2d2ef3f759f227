package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/JonMunkholm/artviewer/internal/catalog"
	"github.com/JonMunkholm/artviewer/internal/core"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

const (
	defaultWidth = 120
	tableHeight  = catalog.PageSize + 1
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	countStyle = lipgloss.NewStyle().Bold(true)
	infoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	boxStyle   = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240"))
)

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).Bold(true)
	s.Selected = s.Selected.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	return s
}

// columns sizes the title and artist columns to the terminal width.
func columns(width int) []table.Column {
	fixed := 4 + 16 + 6 + 6 + 12
	flex := max(width-fixed, 30)
	return []table.Column{
		{Title: "", Width: 4},
		{Title: "Title", Width: flex / 2},
		{Title: "Place of Origin", Width: 16},
		{Title: "Artist", Width: flex - flex/2},
		{Title: "Start", Width: 6},
		{Title: "End", Width: 6},
	}
}

func tableRows(rows []core.Row) []table.Row {
	out := make([]table.Row, len(rows))
	for i, r := range rows {
		mark := "[ ]"
		if r.Selected {
			mark = "[x]"
		}
		out[i] = table.Row{
			mark,
			r.Title,
			r.PlaceOfOrigin,
			firstLine(r.ArtistDisplay),
			strconv.Itoa(r.DateStart),
			strconv.Itoa(r.DateEnd),
		}
	}
	return out
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// View renders the browser (Bubble Tea interface).
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Artwork Gallery"))
	b.WriteString("  ")
	b.WriteString(mutedStyle.Render(pageReport(m.view)))
	if m.inflight > 0 {
		b.WriteString("  " + m.spinner.View() + " loading")
	}
	b.WriteString("\n")

	b.WriteString(boxStyle.Render(m.table.View()))
	b.WriteString("\n")

	fmt.Fprintf(&b, "Selected on this page: %s / %d   Total selected: %s\n",
		countStyle.Render(strconv.Itoa(m.view.SelectedOnPage)),
		len(m.view.Rows),
		countStyle.Render(strconv.Itoa(m.view.TotalSelected)),
	)

	switch {
	case m.prompting:
		b.WriteString("Select first " + m.input.View() + mutedStyle.Render(fmt.Sprintf("  max %d, enter to apply, esc to cancel", m.view.MaxCustom())))
	case m.hasStatus:
		b.WriteString(renderStatus(m.status))
	}
	b.WriteString("\n")

	b.WriteString(mutedStyle.Render(helpLine(m.actions)))
	return b.String()
}

func pageReport(v core.View) string {
	if v.Page == 0 {
		return "No page loaded"
	}
	return fmt.Sprintf("Showing %d to %d of %d artworks (Page %d of %d)",
		v.First(), v.Last(), v.TotalRecords, v.Page, v.TotalPages)
}

func renderStatus(n core.Notification) string {
	text := n.Summary + ": " + n.Detail
	if n.Severity == core.SeverityError {
		return errStyle.Render(text)
	}
	return infoStyle.Render(text)
}
