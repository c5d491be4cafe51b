package command

import (
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nissyi-gh/tally/internal/manager"
	"github.com/nissyi-gh/tally/internal/model"
	"github.com/nissyi-gh/tally/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInterpreter(t *testing.T) (*Interpreter, string) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	path := filepath.Join(t.TempDir(), "data", "tasks.txt")
	return New(manager.New(store.NewFileStore(path, logger), logger)), path
}

func TestScenarioTodoDeadlineMarkUndo(t *testing.T) {
	in, _ := newInterpreter(t)

	assert.Equal(t, "You have no tasks in your list!", in.Execute("list").Text)

	resp := in.Execute("todo Read book")
	require.NoError(t, resp.Err)
	assert.Contains(t, resp.Text, "[T][ ] Read book")
	assert.Contains(t, resp.Text, "Now you have 1 task in the list.")

	resp = in.Execute("deadline Submit report /by 2025-01-30 1800")
	require.NoError(t, resp.Err)
	assert.Contains(t, resp.Text, "[D][ ] Submit report (by: Jan 30 2025, 06:00PM)")

	assert.Equal(t,
		"Here are the tasks in your list:\n"+
			"1. [T][ ] Read book\n"+
			"2. [D][ ] Submit report (by: Jan 30 2025, 06:00PM)",
		in.Execute("list").Text)

	resp = in.Execute("mark 1")
	require.NoError(t, resp.Err)
	assert.Contains(t, in.Execute("list").Text, "1. [T][X] Read book")

	resp = in.Execute("undo")
	require.NoError(t, resp.Err)
	list := in.Execute("list").Text
	assert.Contains(t, list, "1. [T][ ] Read book")
	assert.Contains(t, list, "2. [D][ ] Submit report")
}

func TestEventCommand(t *testing.T) {
	in, _ := newInterpreter(t)

	resp := in.Execute("event Team sync /on 2025-02-03 /from 0930 /to 1045")
	require.NoError(t, resp.Err)
	assert.Contains(t, resp.Text, "[E][ ] Team sync (on: Feb 3 2025 from: 9:30 AM to: 10:45 AM)")

	resp = in.Execute("event Team sync /on 2025-02-03 /from 1045 /to 0930")
	assert.ErrorIs(t, resp.Err, model.ErrValidation)
	assert.True(t, strings.HasPrefix(resp.Text, "OOPS!"))
}

func TestCommandErrorsLeaveListUnchanged(t *testing.T) {
	in, _ := newInterpreter(t)
	require.NoError(t, in.Execute("todo Read book").Err)

	tests := []struct {
		line string
		kind error
	}{
		{"todo", model.ErrValidation},
		{"todo    ", model.ErrValidation},
		{"deadline Submit report", model.ErrValidation},
		{"deadline Submit report /by friday", model.ErrValidation},
		{"deadline /by 2025-01-30 1800", model.ErrValidation},
		{"event party /on 2025-01-30", model.ErrValidation},
		{"event party /on 2025-01-30 /from 1400 /to", model.ErrValidation},
		{"mark", model.ErrValidation},
		{"mark one", model.ErrValidation},
		{"unmark 2", model.ErrRange},
		{"delete 0", model.ErrRange},
		{"delete 5", model.ErrRange},
		{"find", model.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			resp := in.Execute(tt.line)
			require.Error(t, resp.Err)
			assert.ErrorIs(t, resp.Err, tt.kind)
			assert.False(t, resp.Exit)
			assert.Equal(t, "Here are the tasks in your list:\n1. [T][ ] Read book", in.Execute("list").Text)
		})
	}
}

func TestMarkersMustStandAlone(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"deadline Review /bylaws /by 2025-01-30 1800", "[D][ ] Review /bylaws (by: Jan 30 2025, 06:00PM)"},
		{"event Read /online docs /on 2025-01-30 /from 1400 /to 1600", "[E][ ] Read /online docs (on: Jan 30 2025 from: 2:00 PM to: 4:00 PM)"},
		{"event Go /onboarding /fromage /tour /on 2025-01-30 /from 1400 /to 1600", "[E][ ] Go /onboarding /fromage /tour (on: Jan 30 2025"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			in, _ := newInterpreter(t)
			resp := in.Execute(tt.line)
			require.NoError(t, resp.Err)
			assert.Contains(t, resp.Text, tt.want)
		})
	}

	in, _ := newInterpreter(t)
	for _, line := range []string{
		"deadline report/by 2025-01-30 1800",
		"deadline report /by2025-01-30 1800",
		"event party/on 2025-01-30 /from 1400 /to 1600",
		"event party /on 2025-01-30 /from 1400/to 1600",
		"event party /on /from 1400 /to 1600",
	} {
		resp := in.Execute(line)
		assert.ErrorIs(t, resp.Err, model.ErrValidation, line)
	}
	assert.Equal(t, "You have no tasks in your list!", in.Execute("list").Text)
}

func TestHelpMentionsDescriptionLimits(t *testing.T) {
	in, _ := newInterpreter(t)
	help := in.Execute("help").Text
	assert.Contains(t, help, usageTodo)
	assert.Contains(t, help, `cannot contain "|"`)

	resp := in.Execute("todo cats|dogs")
	assert.ErrorIs(t, resp.Err, model.ErrValidation)
	assert.Contains(t, resp.Text, `"|"`)
}

func TestUnknownAndCaseSensitiveVerbs(t *testing.T) {
	in, _ := newInterpreter(t)

	for _, line := range []string{"blah", "LIST", "Todo read"} {
		resp := in.Execute(line)
		assert.Error(t, resp.Err, line)
		assert.Contains(t, resp.Text, "don't know")
	}
}

func TestDeleteAndUndo(t *testing.T) {
	in, _ := newInterpreter(t)
	require.NoError(t, in.Execute("todo a").Err)
	require.NoError(t, in.Execute("todo b").Err)

	resp := in.Execute("delete 1")
	require.NoError(t, resp.Err)
	assert.Contains(t, resp.Text, "[T][ ] a")
	assert.Contains(t, resp.Text, "Now you have 1 task in the list.")

	resp = in.Execute("undo")
	require.NoError(t, resp.Err)
	assert.Contains(t, resp.Text, "reverted")
	assert.Equal(t, "Here are the tasks in your list:\n1. [T][ ] a\n2. [T][ ] b", in.Execute("list").Text)
}

func TestUndoNothing(t *testing.T) {
	in, _ := newInterpreter(t)
	resp := in.Execute("undo")
	require.NoError(t, resp.Err)
	assert.Equal(t, "There is nothing to undo!", resp.Text)
}

func TestFindCommand(t *testing.T) {
	in, _ := newInterpreter(t)
	require.NoError(t, in.Execute("todo Read book").Err)
	require.NoError(t, in.Execute("todo Buy milk").Err)
	require.NoError(t, in.Execute("todo Return BOOK").Err)

	assert.Equal(t,
		"Here are the matching tasks in your list:\n1. [T][ ] Read book\n3. [T][ ] Return BOOK",
		in.Execute("find book").Text)
	assert.Equal(t, "There aren't any matching tasks!", in.Execute("find bread").Text)
}

func TestByeExits(t *testing.T) {
	in, _ := newInterpreter(t)
	resp := in.Execute("bye")
	assert.True(t, resp.Exit)
	assert.NoError(t, resp.Err)
}

func TestPersistsAcrossSessions(t *testing.T) {
	in, path := newInterpreter(t)
	require.NoError(t, in.Execute("todo Read book").Err)
	require.NoError(t, in.Execute("event Team sync /on 2025-02-03 /from 0930 /to 1045").Err)
	require.NoError(t, in.Execute("mark 2").Err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	again := New(manager.New(store.NewFileStore(path, logger), logger))
	assert.Equal(t, in.Execute("list").Text, again.Execute("list").Text)
}

func TestParseIndex(t *testing.T) {
	i, err := ParseIndex(" 3 ")
	require.NoError(t, err)
	assert.Equal(t, 3, i)

	_, err = ParseIndex("3a")
	assert.ErrorIs(t, err, model.ErrValidation)
}
