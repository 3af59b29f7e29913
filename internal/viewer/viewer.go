// Package viewer is an interactive terminal browser over comment
// blocks. The left pane lists blocks, the right pane shows the
// selected block's full text in a scrollable viewport.
package viewer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/br41nfck/findcomments/internal/editor"
	"github.com/br41nfck/findcomments/internal/model"
	"github.com/br41nfck/findcomments/internal/textutil"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("14"))
	kindStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

type mod struct {
	blocks  []model.Block
	cursor  int
	offset  int
	width   int
	height  int
	view    viewport.Model
	ready   bool
	editErr string
}

// Run starts the viewer. It returns after the user quits.
func Run(blocks []model.Block) error {
	if len(blocks) == 0 {
		return fmt.Errorf("no comment blocks to browse")
	}
	m := mod{blocks: blocks}
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (m mod) Init() tea.Cmd { return nil }

func (m mod) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		vh := m.height - m.listHeight() - 3
		if vh < 3 {
			vh = 3
		}
		if !m.ready {
			m.view = viewport.New(m.width, vh)
			m.ready = true
		} else {
			m.view.Width = m.width
			m.view.Height = vh
		}
		m.syncViewport()
	case editorDoneMsg:
		m.editErr = msg.err
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "j", "down":
			m.move(1)
		case "k", "up":
			m.move(-1)
		case "g", "home":
			m.cursor = 0
			m.clampOffset()
			m.syncViewport()
		case "G", "end":
			m.cursor = len(m.blocks) - 1
			m.clampOffset()
			m.syncViewport()
		case "pgdown", "ctrl+d":
			m.move(m.listHeight())
		case "pgup", "ctrl+u":
			m.move(-m.listHeight())
		case "J":
			m.view.LineDown(1)
		case "K":
			m.view.LineUp(1)
		case "e", "enter":
			return m, m.openEditor()
		}
	}
	return m, nil
}

type editorDoneMsg struct{ err string }

func (m mod) openEditor() tea.Cmd {
	b := m.blocks[m.cursor]
	t := editor.Target{File: b.File, Line: b.StartLine}
	name, args := editor.Command(t, editor.Environ())
	c := editor.Exec(name, args)
	return tea.ExecProcess(c, func(err error) tea.Msg {
		if err != nil {
			return editorDoneMsg{err: err.Error()}
		}
		return editorDoneMsg{}
	})
}

func (m *mod) move(delta int) {
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.blocks) {
		m.cursor = len(m.blocks) - 1
	}
	m.clampOffset()
	m.syncViewport()
}

func (m *mod) clampOffset() {
	h := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m *mod) syncViewport() {
	if !m.ready {
		return
	}
	b := m.blocks[m.cursor]
	m.view.SetContent(strings.Join(b.Lines, "\n"))
	m.view.GotoTop()
}

func (m mod) listHeight() int {
	h := m.height / 2
	if h < 5 {
		h = 5
	}
	return h
}

func (m mod) View() string {
	if !m.ready {
		return "loading..."
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Comments (%d blocks)", len(m.blocks))))
	b.WriteByte('\n')
	h := m.listHeight()
	for i := m.offset; i < len(m.blocks) && i < m.offset+h; i++ {
		b.WriteString(m.renderRow(i))
		b.WriteByte('\n')
	}
	b.WriteString(strings.Repeat("─", max(1, m.width)))
	b.WriteByte('\n')
	b.WriteString(m.view.View())
	b.WriteByte('\n')
	help := "j/k move  J/K scroll  e edit  q quit"
	if m.editErr != "" {
		help = warnStyle.Render(m.editErr)
	}
	b.WriteString(helpStyle.Render(help))
	return b.String()
}

func (m mod) renderRow(i int) string {
	blk := m.blocks[i]
	first := ""
	if len(blk.Lines) > 0 {
		first = textutil.FirstLine(blk.Lines[0])
	}
	kind := string(blk.Kind)
	if blk.Kind == model.KindWarning {
		kind = warnStyle.Render(kind)
	} else {
		kind = kindStyle.Render(kind)
	}
	row := fmt.Sprintf("%s:%d [%s] %s", blk.File, blk.StartLine, kind, first)
	row = textutil.Truncate(row, max(10, m.width), "…")
	if i == m.cursor {
		return selectedStyle.Render("> " + textutil.StripANSI(row))
	}
	return "  " + row
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
