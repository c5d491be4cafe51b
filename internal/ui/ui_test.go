package ui

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nissyi-gh/tally/internal/command"
	"github.com/nissyi-gh/tally/internal/manager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T) (Model, *manager.Manager) {
	t.Helper()
	mgr := manager.New(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewModel(mgr, command.New(mgr)), mgr
}

// submit types line into the command input and presses enter, then feeds the
// resulting reload message back through Update.
func submit(t *testing.T, m Model, line string) (Model, tea.Cmd) {
	t.Helper()
	m.input.SetValue(line)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	require.NotNil(t, cmd)
	if loaded, ok := cmd().(tasksLoadedMsg); ok {
		next, _ = m.Update(loaded)
		m = next.(Model)
	}
	return m, cmd
}

func TestEnterRunsCommandAndReloadsList(t *testing.T) {
	m, mgr := newTestModel(t)

	m, _ = submit(t, m, "todo Read book")
	assert.Contains(t, m.output, "[T][ ] Read book")
	assert.Equal(t, "", m.input.Value())
	assert.Equal(t, 1, mgr.Len())
	require.Len(t, m.list.Items(), 1)
	assert.Equal(t, "1. [T][ ] Read book", m.list.Items()[0].(TaskItem).Title())
}

func TestListStateTogglesAndDeletes(t *testing.T) {
	m, mgr := newTestModel(t)
	m, _ = submit(t, m, "todo Read book")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(Model)
	assert.Equal(t, stateList, m.state)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	m = next.(Model)
	next, _ = m.Update(cmd())
	m = next.(Model)
	task, err := mgr.Get(1)
	require.NoError(t, err)
	assert.True(t, task.Done)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	m = next.(Model)
	assert.Equal(t, stateConfirm, m.state)
	assert.Contains(t, m.View(), "Delete Task?")

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	m = next.(Model)
	assert.Equal(t, stateList, m.state)
	assert.Equal(t, 0, mgr.Len())

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("u")})
	m = next.(Model)
	assert.Equal(t, 1, mgr.Len())
}

func TestByeQuits(t *testing.T) {
	m, _ := newTestModel(t)
	m.input.SetValue("bye")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestRunPlain(t *testing.T) {
	mgr := manager.New(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	in := strings.NewReader("todo Read book\n\nmark 1\nlist\nbye\ntodo never read\n")
	var out bytes.Buffer

	require.NoError(t, RunPlain(in, &out, command.New(mgr)))
	assert.Contains(t, out.String(), "1. [T][X] Read book")
	assert.Contains(t, out.String(), "Bye!")
	assert.Equal(t, 1, mgr.Len(), "input after bye is ignored")
}

func TestRunPlainStopsAtEOF(t *testing.T) {
	mgr := manager.New(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	var out bytes.Buffer
	require.NoError(t, RunPlain(strings.NewReader("todo a"), &out, command.New(mgr)))
	assert.Equal(t, 1, mgr.Len())
}
