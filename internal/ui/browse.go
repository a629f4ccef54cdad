// Package ui renders the interactive snapshot browser.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"remotetype/internal/builder"
	"remotetype/internal/inspect"
	"remotetype/internal/remote"
)

// Entry is one address to decode, with a display label.
type Entry struct {
	Label string
	Addr  remote.Address
}

type browseModel struct {
	title   string
	ctx     *inspect.ReflectionContext
	spinner spinner.Model
	items   []browseItem
	next    int
	width   int
	done    bool
}

type browseItem struct {
	label  string
	addr   remote.Address
	status string
	result string
}

type resultMsg struct {
	index int
	text  string
	ok    bool
}

// NewBrowseModel returns a Bubble Tea model that decodes each entry in
// turn and shows the outcome. Decoding runs one entry at a time; the
// reflection context is not safe for concurrent queries.
func NewBrowseModel(title string, ctx *inspect.ReflectionContext, entries []Entry) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	items := make([]browseItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, browseItem{label: e.Label, addr: e.Addr, status: "queued"})
	}
	return &browseModel{
		title:   title,
		ctx:     ctx,
		spinner: sp,
		items:   items,
		width:   80,
	}
}

func (m *browseModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.decodeNext())
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		item := &m.items[msg.index]
		item.result = msg.text
		if msg.ok {
			item.status = "ok"
		} else {
			item.status = "error"
		}
		m.next++
		if m.next >= len(m.items) {
			m.done = true
			return m, nil
		}
		return m, m.decodeNext()
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
		}
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
		return m, nil
	}
	return m, nil
}

func (m *browseModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := m.title
	if m.done {
		header = fmt.Sprintf("done: %s (q to quit)", header)
	} else {
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	statusWidth := 8
	labelWidth := 24
	resultWidth := m.width - statusWidth - labelWidth - 6
	if resultWidth < 20 {
		resultWidth = 20
	}

	for _, item := range m.items {
		statusStyled := styleStatus(item.status).Render(fmt.Sprintf("%8s", item.status))
		label := truncate(fmt.Sprintf("%s %s", item.label, item.addr), labelWidth)
		line := fmt.Sprintf("  %s %-*s %s", statusStyled, labelWidth, label, truncate(item.result, resultWidth))
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m *browseModel) decodeNext() tea.Cmd {
	if m.next >= len(m.items) {
		m.done = true
		return nil
	}
	index := m.next
	return func() tea.Msg {
		item := m.items[index]
		res := m.ctx.GetTypeForRemoteTypeMetadata(item.addr)
		if id, ok := res.Value(); ok {
			return resultMsg{index: index, text: m.ctx.Interner().Print(id), ok: true}
		}
		f := res.Failure()
		if f == nil {
			f = &builder.Failure{Kind: builder.FailureUnknown}
		}
		return resultMsg{index: index, text: f.Error(), ok: false}
	}
}

func styleStatus(status string) lipgloss.Style {
	switch status {
	case "ok":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case "error":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
