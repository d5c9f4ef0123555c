// Package tui is a keyboard-driven terminal front end for one exercise
// session. Arrow keys move focus, enter or space activates the focused card.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/katrinawoods/rsc2/internal/model"
	"github.com/katrinawoods/rsc2/internal/session"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	cardStyle     = lipgloss.NewStyle().PaddingLeft(1).PaddingRight(1)
	focusStyle    = cardStyle.Underline(true)
	selectedStyle = cardStyle.Reverse(true)
	matchStyle    = cardStyle.Foreground(lipgloss.Color("2"))
	mismatchStyle = cardStyle.Foreground(lipgloss.Color("1"))
	successStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	failureStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	helpStyle     = lipgloss.NewStyle().Faint(true).MarginTop(1)
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// Reseed discards the current attempt and returns a freshly seeded session.
type Reseed func() (*session.Session, error)

// Model is the bubbletea model for a session.
type Model struct {
	title  string
	sess   *session.Session
	reseed Reseed
	cursor int
	err    error
}

// New returns a model driving sess. reseed may be nil, which disables reset.
func New(title string, sess *session.Session, reseed Reseed) Model {
	return Model{title: title, sess: sess, reseed: reseed}
}

// Session returns the session currently on screen.
func (m Model) Session() *session.Session { return m.sess }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "up", "k", "shift+tab":
		if !m.sess.FeedbackMode() && m.cursor > 0 {
			m.cursor--
		}
	case "down", "j", "tab":
		if !m.sess.FeedbackMode() && m.cursor < m.sess.Len()-1 {
			m.cursor++
		}
	case "enter", " ":
		m.sess.ActivateAt(m.cursor)
	case "c":
		_, m.err = m.sess.Check()
	case "r":
		if m.reseed == nil {
			break
		}
		sess, err := m.reseed()
		if err != nil {
			m.err = err
			break
		}
		m.sess, m.cursor, m.err = sess, 0, nil
	}
	return m, nil
}

func (m Model) View() string {
	v := m.sess.View()
	var b strings.Builder

	if m.title != "" {
		b.WriteString(titleStyle.Render(m.title))
		b.WriteString("\n")
	}

	for i, c := range v.Cards {
		pointer := "  "
		if c.Focusable && i == m.cursor {
			pointer = "> "
		}
		fmt.Fprintf(&b, "%s%2d. %s%s\n", pointer, i+1, styleFor(c, c.Focusable && i == m.cursor).Render(c.Text), markerText(c.Marker))
	}

	if v.Message != "" {
		b.WriteString("\n")
		if v.AllMatch {
			b.WriteString(successStyle.Render(v.Message))
		} else {
			b.WriteString(failureStyle.Render(v.Message))
		}
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(errStyle.Render("error: " + m.err.Error()))
		b.WriteString("\n")
	}

	help := "↑/↓ move • enter pick/swap • c check • r reset • q quit"
	if v.FeedbackMode {
		help = "r reset • q quit"
	}
	b.WriteString(helpStyle.Render(help))
	b.WriteString("\n")
	return b.String()
}

func styleFor(c session.CardView, focused bool) lipgloss.Style {
	switch {
	case c.Marker == model.MarkerMatch:
		return matchStyle
	case c.Marker == model.MarkerMismatch:
		return mismatchStyle
	case c.Selected:
		return selectedStyle
	case focused:
		return focusStyle
	default:
		return cardStyle
	}
}

func markerText(m model.Marker) string {
	switch m {
	case model.MarkerMatch:
		return "  ✓ correct"
	case model.MarkerMismatch:
		return "  ✗ incorrect"
	}
	return ""
}

// Run drives m until the user quits or ctx is cancelled.
func Run(ctx context.Context, m Model, in io.Reader, out io.Writer) (Model, error) {
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		m = fm
	}
	return m, err
}
