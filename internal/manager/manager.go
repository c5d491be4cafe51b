// Package manager owns the live task collection and its undo history.
package manager

import (
	"log/slog"
	"slices"

	"github.com/nissyi-gh/tally/internal/model"
	"github.com/nissyi-gh/tally/internal/store"
)

// markRecord remembers a task's done flag before a mark or unmark.
type markRecord struct {
	index   int // 0-based
	wasDone bool
}

// Manager is the single owner of the task collection. It is not safe for
// concurrent use; commands run one at a time.
type Manager struct {
	tasks     []model.Task
	snapshots [][]model.Task
	marks     []markRecord
	store     store.Store
	logger    *slog.Logger
	// loadErr is set when the store could not be read in full. Saving is
	// refused while it is set so the unread tasks are never overwritten.
	loadErr error
}

// Change describes the outcome of a successful mutation.
type Change struct {
	Task  model.Task
	Count int
	// SaveErr is set when the mutation applied in memory but could not be persisted.
	SaveErr error
}

// Match is one find result; Index is the 1-based position in the full list.
type Match struct {
	Index int
	Task  model.Task
}

// UndoKind says which history channel an Undo call reverted.
type UndoKind int

const (
	UndoNothing UndoKind = iota
	UndoMark
	UndoSnapshot
)

// UndoResult describes what Undo restored.
type UndoResult struct {
	Kind UndoKind
	// Task is the restored task for UndoMark.
	Task    model.Task
	Index   int
	Count   int
	SaveErr error
}

// New loads the collection from s. A load failure is logged and the manager
// keeps whatever tasks were read before it rather than failing. Saves are then
// refused for the rest of the session. s may be nil for a memory-only manager.
func New(s store.Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{store: s, logger: logger}
	if s == nil {
		return m
	}
	tasks, err := s.Load()
	m.tasks = tasks
	if err != nil {
		m.loadErr = err
		logger.Error("Failed to load tasks, changes will not be saved",
			slog.String("path", s.Path()),
			slog.Int("recovered", len(tasks)),
			slog.String("error", err.Error()))
		return m
	}
	logger.Info("Loaded tasks", slog.String("path", s.Path()), slog.Int("count", len(tasks)))
	return m
}

// Len returns the number of tasks.
func (m *Manager) Len() int { return len(m.tasks) }

// List returns a copy of the collection in display order.
func (m *Manager) List() []model.Task {
	return slices.Clone(m.tasks)
}

// Get returns the task at 1-based index i.
func (m *Manager) Get(i int) (model.Task, error) {
	idx, err := m.index(i)
	if err != nil {
		return model.Task{}, err
	}
	return m.tasks[idx], nil
}

// AddTodo appends a todo task.
func (m *Manager) AddTodo(description string) (Change, error) {
	t, err := model.NewTodo(description)
	if err != nil {
		return Change{}, err
	}
	return m.add(t), nil
}

// AddDeadline appends a deadline task; due uses model.DueLayout.
func (m *Manager) AddDeadline(description, due string) (Change, error) {
	t, err := model.NewDeadline(description, due)
	if err != nil {
		return Change{}, err
	}
	return m.add(t), nil
}

// AddEvent appends an event task on date between from and to.
func (m *Manager) AddEvent(description, date, from, to string) (Change, error) {
	t, err := model.NewEvent(description, date, from, to)
	if err != nil {
		return Change{}, err
	}
	return m.add(t), nil
}

func (m *Manager) add(t model.Task) Change {
	m.pushSnapshot()
	m.tasks = append(m.tasks, t)
	return Change{Task: t, Count: len(m.tasks), SaveErr: m.persist()}
}

// Delete removes the task at 1-based index i.
func (m *Manager) Delete(i int) (Change, error) {
	idx, err := m.index(i)
	if err != nil {
		return Change{}, err
	}
	m.pushSnapshot()
	removed := m.tasks[idx]
	m.tasks = slices.Delete(m.tasks, idx, idx+1)
	return Change{Task: removed, Count: len(m.tasks), SaveErr: m.persist()}, nil
}

// Mark sets the done flag of the task at 1-based index i.
func (m *Manager) Mark(i int, done bool) (Change, error) {
	idx, err := m.index(i)
	if err != nil {
		return Change{}, err
	}
	m.marks = append(m.marks, markRecord{index: idx, wasDone: m.tasks[idx].Done})
	m.tasks[idx].Done = done
	return Change{Task: m.tasks[idx], Count: len(m.tasks), SaveErr: m.persist()}, nil
}

// Find returns tasks whose description contains keyword, ignoring case.
func (m *Manager) Find(keyword string) []Match {
	var matches []Match
	for i, t := range m.tasks {
		if t.Matches(keyword) {
			matches = append(matches, Match{Index: i + 1, Task: t})
		}
	}
	return matches
}

// Undo reverts one recorded change. Mark records always take priority over
// snapshots, regardless of which happened last.
func (m *Manager) Undo() (UndoResult, error) {
	if n := len(m.marks); n > 0 {
		rec := m.marks[n-1]
		m.marks = m.marks[:n-1]
		if rec.index >= len(m.tasks) {
			return UndoResult{}, model.Validationf("undo target task %d no longer exists", rec.index+1)
		}
		m.tasks[rec.index].Done = rec.wasDone
		return UndoResult{
			Kind:    UndoMark,
			Task:    m.tasks[rec.index],
			Index:   rec.index + 1,
			Count:   len(m.tasks),
			SaveErr: m.persist(),
		}, nil
	}
	if n := len(m.snapshots); n > 0 {
		m.tasks = m.snapshots[n-1]
		m.snapshots = m.snapshots[:n-1]
		return UndoResult{Kind: UndoSnapshot, Count: len(m.tasks), SaveErr: m.persist()}, nil
	}
	return UndoResult{Kind: UndoNothing, Count: len(m.tasks)}, nil
}

func (m *Manager) pushSnapshot() {
	m.snapshots = append(m.snapshots, slices.Clone(m.tasks))
}

func (m *Manager) index(i int) (int, error) {
	if i < 1 || i > len(m.tasks) {
		if len(m.tasks) == 0 {
			return 0, model.Rangef("task %d does not exist, the list is empty", i)
		}
		return 0, model.Rangef("task %d does not exist, pick a number from 1 to %d", i, len(m.tasks))
	}
	return i - 1, nil
}

func (m *Manager) persist() error {
	if m.store == nil {
		return nil
	}
	if m.loadErr != nil {
		return model.IOError("task file was not fully loaded, refusing to overwrite it", m.loadErr)
	}
	if err := m.store.Save(m.tasks); err != nil {
		m.logger.Error("Failed to save tasks",
			slog.String("path", m.store.Path()),
			slog.String("error", err.Error()))
		return err
	}
	return nil
}
