package importer

import (
	"fmt"

	"github.com/nissyi-gh/tally/internal/manager"
	"github.com/nissyi-gh/tally/internal/model"
	"gopkg.in/yaml.v3"
)

// YAMLTask represents a single task in the YAML input.
type YAMLTask struct {
	Title string `yaml:"title"`
	// Kind is todo, deadline or event. When empty it is inferred from the
	// schedule fields present.
	Kind string `yaml:"kind,omitempty"`
	By   string `yaml:"by,omitempty"`
	On   string `yaml:"on,omitempty"`
	From string `yaml:"from,omitempty"`
	To   string `yaml:"to,omitempty"`
	Done bool   `yaml:"done,omitempty"`
}

// YAMLInput represents the root structure of the YAML input.
type YAMLInput struct {
	Tasks []YAMLTask `yaml:"tasks"`
}

// Import parses a YAML string and adds its tasks through the manager, so each
// one is persisted and can be undone like a typed command.
// Returns the number of tasks created.
func Import(m *manager.Manager, yamlStr string) (int, error) {
	var input YAMLInput
	if err := yaml.Unmarshal([]byte(yamlStr), &input); err != nil {
		return 0, fmt.Errorf("YAML parse error: %w", err)
	}

	if len(input.Tasks) == 0 {
		return 0, fmt.Errorf("no tasks found in YAML")
	}

	count := 0
	for i, yt := range input.Tasks {
		if err := importTask(m, yt); err != nil {
			return count, fmt.Errorf("task %d (%q): %w", i+1, yt.Title, err)
		}
		count++
	}
	return count, nil
}

func importTask(m *manager.Manager, yt YAMLTask) error {
	if yt.Title == "" {
		return model.Validationf("task title is required")
	}

	kind := yt.Kind
	if kind == "" {
		switch {
		case yt.By != "":
			kind = model.KindDeadline.String()
		case yt.On != "":
			kind = model.KindEvent.String()
		default:
			kind = model.KindTodo.String()
		}
	}

	var (
		change manager.Change
		err    error
	)
	switch kind {
	case model.KindTodo.String():
		change, err = m.AddTodo(yt.Title)
	case model.KindDeadline.String():
		change, err = m.AddDeadline(yt.Title, yt.By)
	case model.KindEvent.String():
		change, err = m.AddEvent(yt.Title, yt.On, yt.From, yt.To)
	default:
		return model.Validationf("unknown kind %q", kind)
	}
	if err != nil {
		return err
	}
	if change.SaveErr != nil {
		return change.SaveErr
	}

	if yt.Done {
		change, err = m.Mark(change.Count, true)
		if err != nil {
			return err
		}
		if change.SaveErr != nil {
			return change.SaveErr
		}
	}
	return nil
}
