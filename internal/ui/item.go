package ui

import (
	"fmt"

	"github.com/nissyi-gh/tally/internal/model"
)

// TaskItem wraps model.Task to satisfy the list.DefaultItem interface.
type TaskItem struct {
	Task model.Task
	// Index is the 1-based position used by mark/unmark/delete.
	Index int
}

func (i TaskItem) Title() string {
	return fmt.Sprintf("%d. %s", i.Index, i.Task.Render())
}

func (i TaskItem) Description() string {
	return ""
}

func (i TaskItem) FilterValue() string {
	return i.Task.Description
}

func toItems(tasks []model.Task) []TaskItem {
	items := make([]TaskItem, len(tasks))
	for i, t := range tasks {
		items[i] = TaskItem{Task: t, Index: i + 1}
	}
	return items
}
