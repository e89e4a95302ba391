// Package tui renders the session in the terminal with bubbletea and turns
// key presses into session actions.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/tejashwikalptaru/subtune/internal/service"
)

// TickInterval is how often the session housekeeping runs.
const TickInterval = 100 * time.Millisecond

const helpHint = "press ? for help"

type tickMsg time.Time

type model struct {
	ctx     context.Context
	session *service.Session
	keys    keyMap
	help    help.Model

	width  int
	height int
}

func newModel(ctx context.Context, session *service.Session) model {
	h := help.New()
	h.ShowAll = true
	return model{
		ctx:     ctx,
		session: session,
		keys:    defaultKeyMap(),
		help:    h,
		width:   80,
		height:  24,
	}
}

// Run shows the session until the user quits or ctx is cancelled.
func Run(ctx context.Context, session *service.Session) error {
	p := tea.NewProgram(newModel(ctx, session), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m model) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(TickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.session.Tick(m.ctx)
		return m, tickCmd()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}
		if m.session.Apply(m.ctx, m.actionFor(msg)) {
			return m, tea.Quit
		}
	}
	return m, nil
}

// actionFor routes a key by mode: help overlay, search input, then browsing.
func (m model) actionFor(msg tea.KeyMsg) service.Action {
	nav := m.session.Navigation()
	switch {
	case nav.HelpVisible():
		return m.keys.helpAction(msg)
	case nav.Searching():
		switch msg.Type {
		case tea.KeyEnter:
			return service.ActionSubmitSearch
		case tea.KeyEsc:
			return service.ActionCancelSearch
		case tea.KeyBackspace:
			return service.ActionSearchBackspace
		case tea.KeySpace:
			m.session.SearchInput(' ')
		case tea.KeyRunes:
			for _, r := range msg.Runes {
				m.session.SearchInput(r)
			}
		}
		return service.ActionNone
	default:
		return m.keys.action(msg)
	}
}

func (m model) View() string {
	nav := m.session.Navigation()
	switch {
	case nav.HelpVisible():
		return m.renderHelp()
	case nav.Searching():
		return m.renderSearch()
	}

	var b strings.Builder
	b.WriteString(m.renderList())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	return b.String()
}

// listHeight is the number of rows left for list items.
func (m model) listHeight() int {
	// title line and status bar
	return max(m.height-2, 1)
}

// windowStart is the first row shown so that cursor stays visible.
func windowStart(cursor, visible int) int {
	return max(cursor-visible+1, 0)
}

func (m model) renderList() string {
	nav := m.session.Navigation()
	rows := nav.Rows()
	cursor := nav.Cursor()
	visible := m.listHeight()

	var b strings.Builder
	b.WriteString(titleStyle.Render(truncate(nav.Title(), m.width)))

	if len(rows) == 0 {
		b.WriteString("\n")
		b.WriteString(emptyStyle.Render("  (empty)"))
		for i := 1; i < visible; i++ {
			b.WriteString("\n")
		}
		return b.String()
	}

	start := windowStart(cursor, visible)
	end := min(start+visible, len(rows))
	for i := start; i < end; i++ {
		b.WriteString("\n")
		line := truncate("  "+rows[i], m.width)
		if i == cursor {
			b.WriteString(selectedStyle.Render(pad(line, m.width)))
		} else {
			b.WriteString(rowStyle.Render(line))
		}
	}
	for i := end - start; i < visible; i++ {
		b.WriteString("\n")
	}
	return b.String()
}

func (m model) renderStatus() string {
	return statusLine(m.session.StatusLine(), helpHint, m.width)
}

func (m model) renderSearch() string {
	nav := m.session.Navigation()
	var b strings.Builder
	b.WriteString(titleStyle.Render("Search"))
	b.WriteString("\n\n  ")
	b.WriteString(searchStyle.Render("> " + nav.SearchBuffer() + "_"))
	b.WriteString("\n\n")
	b.WriteString(emptyStyle.Render("  enter search • esc cancel"))
	return b.String()
}

func (m model) renderHelp() string {
	return helpBoxStyle.Render(titleStyle.Render("Keys") + "\n\n" + m.help.View(m.keys))
}

// statusLine places left and right on one line of the given width,
// truncating left when both do not fit.
func statusLine(left, right string, width int) string {
	rightWidth := runewidth.StringWidth(right)
	room := width - rightWidth - 1
	if room < 1 {
		return statusStyle.Render(truncate(left, width))
	}
	left = truncate(left, room)
	gap := width - runewidth.StringWidth(left) - rightWidth
	return statusStyle.Render(left+strings.Repeat(" ", gap)) + hintStyle.Render(right)
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

func pad(s string, width int) string {
	return runewidth.FillRight(s, width)
}
