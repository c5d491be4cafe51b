package importer

import (
	"io"
	"log/slog"
	"testing"

	"github.com/nissyi-gh/tally/internal/manager"
	"github.com/nissyi-gh/tally/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager() *manager.Manager {
	return manager.New(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestImport(t *testing.T) {
	m := newManager()
	n, err := Import(m, `
tasks:
  - title: Read book
    done: true
  - title: Submit report
    by: "2025-01-30 1800"
  - title: Team sync
    on: "2025-02-03"
    from: "0930"
    to: "10:45"
  - title: Plain todo
    kind: todo
`)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	tasks := m.List()
	require.Len(t, tasks, 4)
	assert.Equal(t, "[T][X] Read book", tasks[0].Render())
	assert.Equal(t, model.KindDeadline, tasks[1].Kind)
	assert.Equal(t, model.KindEvent, tasks[2].Kind)
	assert.Equal(t, model.KindTodo, tasks[3].Kind)
}

func TestImportStopsAtFirstBadTask(t *testing.T) {
	m := newManager()
	n, err := Import(m, `
tasks:
  - title: ok
  - title: broken
    by: someday
  - title: never reached
`)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrValidation)
	assert.Contains(t, err.Error(), `task 2 ("broken")`)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, m.Len())
}

func TestImportRejectsBadDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not yaml", "tasks: [unclosed"},
		{"no tasks", "tasks: []"},
		{"missing title", "tasks:\n  - by: \"2025-01-30 1800\""},
		{"unknown kind", "tasks:\n  - title: x\n    kind: chore"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newManager()
			_, err := Import(m, tt.doc)
			assert.Error(t, err)
			assert.Equal(t, 0, m.Len())
		})
	}
}

func TestImportIsUndoable(t *testing.T) {
	m := newManager()
	_, err := Import(m, "tasks:\n  - title: a\n  - title: b\n")
	require.NoError(t, err)

	_, err = m.Undo()
	require.NoError(t, err)
	assert.Equal(t, 1, m.Len())
}
