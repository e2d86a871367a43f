package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/factorydata/internal/factorydata"
	"github.com/muurk/factorydata/internal/registry"
	"github.com/muurk/factorydata/internal/ui"
)

// Getter reads one factory-data value.
type Getter interface {
	Get(ctx context.Context, id string) ([]byte, error)
}

// fieldState tracks the value of one row.
type fieldState struct {
	loaded bool
	value  string
	err    error
}

// valueLoadedMsg carries the result of reading one row.
type valueLoadedMsg struct {
	row   int
	value string
	err   error
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(ui.TextColor).
			Background(ui.PrimaryColor).
			Bold(true).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(ui.MutedColor).
			PaddingLeft(1)
)

// BrowserModel is the Bubble Tea model for the browser.
type BrowserModel struct {
	ctx     context.Context
	getter  Getter
	tool    string
	entries []registry.Entry
	fields  []fieldState

	// next row to load; len(entries) when idle
	next   int
	reveal bool

	table   table.Model
	spinner spinner.Model
	help    help.Model
	keys    browserKeyMap

	Width  int
	Height int
}

// NewBrowserModel creates a browser over entries.
func NewBrowserModel(ctx context.Context, getter Getter, tool string, entries []registry.Entry) BrowserModel {
	columns := []table.Column{
		{Title: "ID", Width: 16},
		{Title: "KEY", Width: 12},
		{Title: "ACCESS", Width: 6},
		{Title: "VALUE", Width: 40},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(len(entries)+1),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ui.PrimaryColor).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(ui.TextColor).
		Background(ui.PrimaryColor).
		Bold(false)
	t.SetStyles(styles)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ui.PrimaryColor)

	m := BrowserModel{
		ctx:     ctx,
		getter:  getter,
		tool:    tool,
		entries: entries,
		fields:  make([]fieldState, len(entries)),
		table:   t,
		spinner: s,
		help:    help.New(),
		keys:    newBrowserKeyMap(),
	}
	m.next = m.nextPending(0)
	m.table.SetRows(m.rows())
	return m
}

// Init starts the spinner and the first read.
func (m BrowserModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCmd(m.next))
}

// Update handles messages
func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.resize(msg.Width, msg.Height), nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Reveal):
			m.reveal = !m.reveal
			m.table.SetRows(m.rows())
			return m, nil
		case key.Matches(msg, m.keys.Reload):
			if m.loading() {
				return m, nil
			}
			m.fields = make([]fieldState, len(m.entries))
			m.next = m.nextPending(0)
			m.table.SetRows(m.rows())
			return m, tea.Batch(m.spinner.Tick, m.loadCmd(m.next))
		}

	case valueLoadedMsg:
		if msg.row >= 0 && msg.row < len(m.fields) {
			m.fields[msg.row] = fieldState{loaded: true, value: msg.value, err: msg.err}
		}
		m.next = m.nextPending(msg.row + 1)
		m.table.SetRows(m.rows())
		return m, m.loadCmd(m.next)

	case spinner.TickMsg:
		if !m.loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the browser
func (m BrowserModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("FACTORY DATA"))
	b.WriteString(statusStyle.Render(m.tool))
	b.WriteString("\n\n")
	b.WriteString(m.table.View())
	b.WriteString("\n\n")

	if m.loading() {
		b.WriteString(fmt.Sprintf(" %s Reading %s (%d/%d)\n",
			m.spinner.View(), m.entries[m.next].ID, m.loadedCount()+1, m.backedCount()))
	} else {
		b.WriteString(statusStyle.Render(fmt.Sprintf("%d fields read, %d failed", m.loadedCount(), m.failedCount())))
		b.WriteString("\n")
	}

	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// loadCmd reads the row at index, or returns nil when idle.
func (m BrowserModel) loadCmd(row int) tea.Cmd {
	if row >= len(m.entries) {
		return nil
	}
	ctx, getter, id := m.ctx, m.getter, m.entries[row].ID
	return func() tea.Msg {
		value, err := getter.Get(ctx, id)
		return valueLoadedMsg{row: row, value: string(value), err: err}
	}
}

// nextPending returns the first backed, unloaded row at or after from.
func (m BrowserModel) nextPending(from int) int {
	for i := from; i < len(m.entries); i++ {
		if m.entries[i].Backed() && !m.fields[i].loaded {
			return i
		}
	}
	return len(m.entries)
}

func (m BrowserModel) loading() bool {
	return m.next < len(m.entries)
}

func (m BrowserModel) rows() []table.Row {
	rows := make([]table.Row, len(m.entries))
	for i, e := range m.entries {
		access := "ro"
		if e.Writable {
			access = "rw"
		}
		k := e.Key
		if k == "" {
			k = "-"
		}
		rows[i] = table.Row{e.ID, k, access, m.cell(i)}
	}
	return rows
}

func (m BrowserModel) cell(i int) string {
	e, f := m.entries[i], m.fields[i]
	switch {
	case !e.Backed():
		return "(reserved)"
	case !f.loaded:
		return "…"
	case f.err != nil:
		return "error: " + factorydata.KindOf(f.err).String()
	default:
		return ui.Mask(f.value, e.Sensitive, m.reveal)
	}
}

func (m BrowserModel) backedCount() int {
	n := 0
	for _, e := range m.entries {
		if e.Backed() {
			n++
		}
	}
	return n
}

func (m BrowserModel) loadedCount() int {
	n := 0
	for _, f := range m.fields {
		if f.loaded {
			n++
		}
	}
	return n
}

func (m BrowserModel) failedCount() int {
	n := 0
	for _, f := range m.fields {
		if f.loaded && f.err != nil {
			n++
		}
	}
	return n
}

// resize fits the table to a width by height terminal.
func (m BrowserModel) resize(width, height int) BrowserModel {
	m.Width = width
	m.Height = height
	m.help.Width = width
	if h := height - 6; h > 3 && h < len(m.entries)+1 {
		m.table.SetHeight(h)
	}
	return m
}

// Run starts the browser and blocks until the user quits.
func Run(ctx context.Context, getter Getter, tool string, entries []registry.Entry) error {
	// Sized up front so the first frame fits before the window size arrives.
	m := NewBrowserModel(ctx, getter, tool, entries).resize(ui.GetTerminalSize())
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("browser failed: %w", err)
	}
	return nil
}
