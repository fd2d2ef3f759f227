// Package tui is the terminal front end for the artwork viewer. It drives the
// same core.Session the web server uses, rendered with Bubble Tea.
package tui

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/JonMunkholm/artviewer/internal/core"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// PageLoadedMsg reports the end of a navigation started by the model.
type PageLoadedMsg struct {
	Page int
	Err  error
}

// Model is the Bubble Tea model for the browser.
type Model struct {
	ctx     context.Context
	session *core.Session
	actions []Action

	view      core.View
	table     table.Model
	spinner   spinner.Model
	input     textinput.Model
	prompting bool
	inflight  int
	pending   int

	status    core.Notification
	hasStatus bool
	width     int
}

// New creates a browser over sess. Init loads the first page.
func New(ctx context.Context, sess *core.Session) Model {
	in := textinput.New()
	in.Placeholder = "rows"
	in.CharLimit = 3
	in.Width = 6

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:     ctx,
		session: sess,
		actions: buildActions(),
		spinner: sp,
		input:   in,
		table: table.New(
			table.WithColumns(columns(defaultWidth)),
			table.WithFocused(true),
			table.WithHeight(tableHeight),
		),
		width:    defaultWidth,
		inflight: 1,
		pending:  1,
	}
	m.table.SetStyles(tableStyles())
	m.refresh()
	return m
}

// Init starts the spinner and the first page load.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.navigate(1))
}

// Update handles messages (Bubble Tea interface).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.table.SetColumns(columns(msg.Width))
		return m, nil

	case PageLoadedMsg:
		if m.inflight > 0 {
			m.inflight--
		}
		if m.inflight == 0 {
			m.pending = 0
		}
		// A superseded load changes nothing; the newer one reports instead.
		if !errors.Is(msg.Err, core.ErrStaleResponse) {
			m.refresh()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.prompting {
			return m.updatePrompt(msg)
		}
		if a, ok := lookup(m.actions, msg.String()); ok {
			cmd := a.Run(&m)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closePrompt()
		return m, nil
	case tea.KeyEnter:
		raw := strings.TrimSpace(m.input.Value())
		m.closePrompt()
		n, err := strconv.Atoi(raw)
		if err != nil {
			m.setError("Enter a whole number of rows")
			return m, nil
		}
		if _, err := m.session.SelectFirstNOnPage(n); err != nil {
			m.setError(core.FormatUserError(err))
		}
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// navigate loads page in the background.
func (m *Model) navigate(page int) tea.Cmd {
	ctx, sess := m.ctx, m.session
	return func() tea.Msg {
		return PageLoadedMsg{Page: page, Err: sess.Navigate(ctx, page)}
	}
}

func (m *Model) goTo(page int) tea.Cmd {
	if page < 1 || (m.view.TotalPages > 0 && page > m.view.TotalPages) {
		return nil
	}
	m.inflight++
	m.pending = page
	return tea.Batch(m.spinner.Tick, m.navigate(page))
}

// target is the page the user is heading to: the latest requested page while
// loads are in flight, otherwise the displayed one.
func (m *Model) target() int {
	if m.inflight > 0 && m.pending > 0 {
		return m.pending
	}
	return m.view.Page
}

func (m *Model) prevPage() tea.Cmd {
	return m.goTo(m.target() - 1)
}

func (m *Model) nextPage() tea.Cmd {
	return m.goTo(m.target() + 1)
}

func (m *Model) reload() tea.Cmd {
	return m.goTo(max(m.target(), 1))
}

// toggleRow flips the row under the cursor and reports the resulting checked
// set for the page, the way a checkbox table does.
func (m *Model) toggleRow() tea.Cmd {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.view.Rows) {
		return nil
	}

	checked := make([]int, 0, len(m.view.Rows))
	for i, r := range m.view.Rows {
		if r.Selected != (i == cursor) {
			checked = append(checked, r.ID)
		}
	}

	ev := core.SelectionEvent{Page: m.view.Page, Checked: checked}
	if _, err := m.session.ApplySelection(ev); err != nil {
		m.setError(core.FormatUserError(err))
	}
	m.refresh()
	return nil
}

func (m *Model) selectAll() tea.Cmd {
	if err := m.session.SelectAllOnPage(); err != nil {
		m.setError(core.FormatUserError(err))
	}
	m.refresh()
	return nil
}

func (m *Model) deselectAll() tea.Cmd {
	if err := m.session.DeselectAllOnPage(); err != nil {
		m.setError(core.FormatUserError(err))
	}
	m.refresh()
	return nil
}

func (m *Model) clearSelection() tea.Cmd {
	m.session.ClearSelection()
	m.refresh()
	return nil
}

func (m *Model) promptCount() tea.Cmd {
	if len(m.view.Rows) == 0 {
		return nil
	}
	m.prompting = true
	m.input.SetValue("")
	m.input.Placeholder = "1-" + strconv.Itoa(m.view.MaxCustom())
	m.table.Blur()
	return m.input.Focus()
}

func (m *Model) closePrompt() {
	m.prompting = false
	m.input.Blur()
	m.table.Focus()
}

func (m *Model) setError(detail string) {
	m.status = core.Notification{Severity: core.SeverityError, Summary: "Error", Detail: detail}
	m.hasStatus = true
}

// refresh pulls a new view from the session. The last queued notification
// becomes the status line.
func (m *Model) refresh() {
	m.view = m.session.View()
	if n := len(m.view.Notifications); n > 0 {
		m.status = m.view.Notifications[n-1]
		m.hasStatus = true
	}

	cursor := m.table.Cursor()
	m.table.SetRows(tableRows(m.view.Rows))
	if cursor >= len(m.view.Rows) {
		cursor = len(m.view.Rows) - 1
	}
	if cursor >= 0 {
		m.table.SetCursor(cursor)
	}
}

// Run starts the browser and blocks until the user quits.
func Run(ctx context.Context, sess *core.Session) error {
	p := tea.NewProgram(New(ctx, sess), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
