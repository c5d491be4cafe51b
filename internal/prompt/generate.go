package prompt

import (
	"fmt"
	"strings"

	"github.com/nissyi-gh/tally/internal/model"
)

const yamlFormat = `Reply with a single YAML code block in the format below and nothing else.

` + "```yaml" + `
tasks:
  - title: "Task name"
  - title: "Something with a deadline"
    by: "YYYY-MM-DD HHmm"
  - title: "Something that happens at a set time"
    on: "YYYY-MM-DD"
    from: "HHmm"
    to: "HHmm"
` + "```" + `

Fields:
- title: (required) one line, must not contain "|"
- by: (optional) deadline, makes the task a deadline
- on, from, to: (optional, together) makes the task an event; from must be before to
- done: (optional) true if the task is already finished`

// GenerateNew returns a prompt for planning tasks from scratch.
func GenerateNew() string {
	return fmt.Sprintf(`You are a task planning assistant.
Break the user's request down into concrete tasks of a sensible size.

%s
`, yamlFormat)
}

// GenerateFromTasks returns a prompt that lists the current tasks so the
// assistant only proposes what is missing.
func GenerateFromTasks(tasks []model.Task) string {
	if len(tasks) == 0 {
		return GenerateNew()
	}

	var sb strings.Builder

	sb.WriteString("You are a task planning assistant.\n")
	sb.WriteString("Break the user's request down into concrete tasks of a sensible size.\n\n")

	sb.WriteString("## Existing tasks\n")
	for _, t := range tasks {
		status := "open"
		if t.Done {
			status = "done"
		}
		sb.WriteString(fmt.Sprintf("- %s (%s, %s)\n", t.Description, t.Kind, status))
	}
	sb.WriteString("\nDo not repeat the existing tasks; only add what is missing.\n")

	sb.WriteString("\n")
	sb.WriteString(yamlFormat)
	sb.WriteString("\n")

	return sb.String()
}
