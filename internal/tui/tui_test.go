package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katrinawoods/rsc2/internal/model"
	"github.com/katrinawoods/rsc2/internal/session"
)

func seed() model.Seed {
	return model.Seed{
		InitialOrder: []model.SeedCard{{ID: "1", Content: "B"}, {ID: "2", Content: "A"}, {ID: "3", Content: "C"}},
		CorrectOrder: []string{"A", "B", "C"},
	}
}

func newModel(t *testing.T) Model {
	t.Helper()
	sess, err := session.New(seed())
	require.NoError(t, err)
	return New("Order", sess, func() (*session.Session, error) { return session.New(seed()) })
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(Model)
	}
	return m
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	down  = tea.KeyMsg{Type: tea.KeyDown}
	up    = tea.KeyMsg{Type: tea.KeyUp}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func contents(m Model) []string {
	var out []string
	for _, c := range m.Session().Cards() {
		out = append(out, c.Content)
	}
	return out
}

func TestSwapWithKeyboard(t *testing.T) {
	m := newModel(t)
	m = press(t, m, enter, down, enter)

	assert.Equal(t, []string{"A", "B", "C"}, contents(m))
	_, holding := m.Session().Holding()
	assert.False(t, holding)
}

func TestCheckShowsFeedbackAndLocksFocus(t *testing.T) {
	m := newModel(t)
	m = press(t, m, enter, down, enter, runes("c"))

	assert.True(t, m.Session().FeedbackMode())
	view := m.View()
	assert.Contains(t, view, session.MessageSuccess)
	assert.Contains(t, view, "✓ correct")
	assert.NotContains(t, view, "> ")

	cursor := m.cursor
	m = press(t, m, down, enter, up, enter)
	assert.Equal(t, cursor, m.cursor)
	assert.Equal(t, []string{"A", "B", "C"}, contents(m))
}

func TestFailureMessage(t *testing.T) {
	m := press(t, newModel(t), runes("c"))
	view := m.View()
	assert.Contains(t, view, session.MessageFailure)
	assert.Contains(t, view, "✗ incorrect")
}

func TestResetReseeds(t *testing.T) {
	m := newModel(t)
	m = press(t, m, down, enter, down, enter, runes("c"), runes("r"))

	assert.False(t, m.Session().FeedbackMode())
	assert.Equal(t, 0, m.cursor)
	assert.Equal(t, []string{"B", "A", "C"}, contents(m))
}

func TestResetError(t *testing.T) {
	sess, err := session.New(seed())
	require.NoError(t, err)
	m := New("", sess, func() (*session.Session, error) { return nil, errors.New("gone") })

	m = press(t, m, runes("r"))
	assert.Same(t, sess, m.Session())
	assert.Contains(t, m.View(), "error: gone")
}

func TestCursorClamps(t *testing.T) {
	m := press(t, newModel(t), up, down, down, down, down)
	assert.Equal(t, 2, m.cursor)
}

func TestQuit(t *testing.T) {
	_, cmd := newModel(t).Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
