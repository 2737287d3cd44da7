// Package viewer is a fullscreen pager for terminal-rendered documents.
package viewer

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/marktree/marktree/internal/clipboard"
	"github.com/marktree/marktree/internal/termsink"
)

// RenderFunc renders the document at the given width. The pager calls it
// again whenever the window resizes.
type RenderFunc func(width int) string

// Model is the pager model.
type Model struct {
	title  string
	render RenderFunc
	source string

	viewport viewport.Model
	styles   *termsink.Styles
	keys     KeyMap

	// flash replaces the footer help until the next keypress.
	flash string

	width  int
	height int
}

// New builds a pager showing the rendered document.
func New(title string, styles *termsink.Styles, render RenderFunc, width, height int) Model {
	vp := viewport.New(width, contentHeight(height))
	vp.SetContent(render(width))

	return Model{
		title:    title,
		render:   render,
		viewport: vp,
		styles:   styles,
		keys:     DefaultKeyMap(),
		width:    width,
		height:   height,
	}
}

// WithSource attaches the document source text backing the copy binding.
func (m Model) WithSource(source string) Model {
	m.source = source
	return m
}

// contentHeight reserves one line each for the header and the footer.
func contentHeight(height int) int {
	if height <= 2 {
		return 1
	}
	return height - 2
}

type copyResultMsg struct{ err error }

func copySource(source string) tea.Cmd {
	return func() tea.Msg {
		return copyResultMsg{err: clipboard.Copy(source)}
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.flash = ""
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.GoToTop):
			m.viewport.GotoTop()
			return m, nil
		case key.Matches(msg, m.keys.GoToBottom):
			m.viewport.GotoBottom()
			return m, nil
		case key.Matches(msg, m.keys.Copy):
			if m.source == "" {
				return m, nil
			}
			return m, copySource(m.source)
		}

	case copyResultMsg:
		if msg.err != nil {
			m.flash = "copy failed: " + msg.err.Error()
		} else {
			m.flash = "copied source"
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = contentHeight(msg.Height)
		m.viewport.SetContent(m.render(msg.Width))
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	header := m.styles.Heading.Render(m.title)
	footer := m.footer()
	return header + "\n" + m.viewport.View() + "\n" + footer
}

// footer shows the scroll position left and the key help right, padded
// apart to the window width.
func (m Model) footer() string {
	scroll := fmt.Sprintf("%3.0f%%", m.viewport.ScrollPercent()*100)
	help := "q:quit  j/k:scroll  g/G:top/bottom  c:copy"
	if m.flash != "" {
		help = m.flash
	}

	padding := m.width - len(scroll) - len(help)
	if padding < 1 {
		padding = 1
	}
	return m.styles.Muted.Render(scroll + strings.Repeat(" ", padding) + help)
}

// Show runs the pager fullscreen until the user quits. source backs the
// copy binding and may be empty to disable it.
func Show(title string, styles *termsink.Styles, render RenderFunc, source string) error {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}

	m := New(title, styles, render, width, height).WithSource(source)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
