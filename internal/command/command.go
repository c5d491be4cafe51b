// Package command turns raw input lines into manager operations and renders
// their outcome as display text.
package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/nissyi-gh/tally/internal/manager"
	"github.com/nissyi-gh/tally/internal/model"
)

const (
	usageTodo     = "todo <description>"
	usageDeadline = "deadline <description> /by <yyyy-MM-dd HHmm>"
	usageEvent    = "event <description> /on <yyyy-MM-dd> /from <HHmm> /to <HHmm>"

	helpText = `Commands:
  ` + usageTodo + `
  ` + usageDeadline + `
  ` + usageEvent + `
  list
  mark <n> | unmark <n> | delete <n>
  find <keyword>
  undo
  bye
Descriptions cannot contain "|" or line breaks. Markers such as /by need a
space on both sides.`
)

// Response is what the front end shows after a command.
type Response struct {
	Text string
	// Exit is set by "bye".
	Exit bool
	Err  error
}

// Interpreter dispatches one command line at a time to a Manager.
type Interpreter struct {
	m *manager.Manager
}

// New returns an Interpreter that applies commands to m.
func New(m *manager.Manager) *Interpreter {
	return &Interpreter{m: m}
}

// Execute runs a single line. Errors are folded into the response text.
func (in *Interpreter) Execute(line string) Response {
	line = strings.TrimSpace(line)
	if line == "" {
		return Response{Text: "Type a command, or \"help\" to see them all."}
	}
	verb, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	text, err := in.dispatch(verb, rest)
	if err != nil {
		return Response{Text: errorText(err), Err: err}
	}
	return Response{Text: text, Exit: verb == "bye"}
}

func (in *Interpreter) dispatch(verb, rest string) (string, error) {
	switch verb {
	case "bye":
		return "Bye! Your tasks are saved.", nil
	case "help":
		return helpText, nil
	case "list":
		return formatList(in.m.List()), nil
	case "todo":
		if rest == "" {
			return "", model.Validationf("the description of a todo cannot be empty, use: %s", usageTodo)
		}
		return added(in.m.AddTodo(rest))
	case "deadline":
		desc, due, ok := cutMarker(rest, "/by")
		if !ok || strings.TrimSpace(due) == "" {
			return "", model.Validationf("use: %s", usageDeadline)
		}
		return added(in.m.AddDeadline(desc, due))
	case "event":
		desc, date, from, to, err := splitEvent(rest)
		if err != nil {
			return "", err
		}
		return added(in.m.AddEvent(desc, date, from, to))
	case "mark", "unmark":
		i, err := ParseIndex(rest)
		if err != nil {
			return "", err
		}
		change, err := in.m.Mark(i, verb == "mark")
		if err != nil {
			return "", err
		}
		head := "Nice! I've marked this task as done:"
		if verb == "unmark" {
			head = "OK, I've marked this task as not done yet:"
		}
		return withSaveWarning(head+"\n  "+change.Task.Render(), change.SaveErr), nil
	case "delete":
		i, err := ParseIndex(rest)
		if err != nil {
			return "", err
		}
		change, err := in.m.Delete(i)
		if err != nil {
			return "", err
		}
		text := fmt.Sprintf("Removed this task:\n  %s\n%s", change.Task.Render(), countLine(change.Count))
		return withSaveWarning(text, change.SaveErr), nil
	case "find":
		if rest == "" {
			return "", model.Validationf("give me a keyword to search for")
		}
		return formatMatches(in.m.Find(rest)), nil
	case "undo":
		res, err := in.m.Undo()
		if err != nil {
			return "", err
		}
		return formatUndo(res), nil
	}
	return "", fmt.Errorf("I don't know the command %q, type \"help\" to see them all", verb)
}

// ParseIndex reads a 1-based task number. Range checks are left to the manager.
func ParseIndex(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, model.Validationf("this command needs a task number")
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, model.Validationf("%q is not a task number", s)
	}
	return i, nil
}

// cutMarker splits rest around the first marker that stands alone as a word,
// so "/bylaws" or "report/by" never count. rest may start with the marker
// when the description is missing.
func cutMarker(rest, marker string) (before, after string, ok bool) {
	before, after, ok = strings.Cut(" "+rest+" ", " "+marker+" ")
	if !ok {
		return "", "", false
	}
	return strings.TrimSpace(before), strings.TrimSpace(after), true
}

func splitEvent(rest string) (desc, date, from, to string, err error) {
	bad := model.Validationf("use: %s", usageEvent)
	desc, tail, ok := cutMarker(rest, "/on")
	if !ok {
		return "", "", "", "", bad
	}
	date, tail, ok = cutMarker(tail, "/from")
	if !ok {
		return "", "", "", "", bad
	}
	from, to, ok = cutMarker(tail, "/to")
	if !ok {
		return "", "", "", "", bad
	}
	for _, part := range []string{date, from, to} {
		if strings.TrimSpace(part) == "" {
			return "", "", "", "", bad
		}
	}
	return desc, date, from, to, nil
}

func added(change manager.Change, err error) (string, error) {
	if err != nil {
		return "", err
	}
	text := fmt.Sprintf("Got it. I've added this task:\n  %s\n%s", change.Task.Render(), countLine(change.Count))
	return withSaveWarning(text, change.SaveErr), nil
}

func countLine(n int) string {
	if n == 1 {
		return "Now you have 1 task in the list."
	}
	return fmt.Sprintf("Now you have %d tasks in the list.", n)
}

func formatList(tasks []model.Task) string {
	if len(tasks) == 0 {
		return "You have no tasks in your list!"
	}
	var sb strings.Builder
	sb.WriteString("Here are the tasks in your list:")
	for i, t := range tasks {
		fmt.Fprintf(&sb, "\n%d. %s", i+1, t.Render())
	}
	return sb.String()
}

func formatMatches(matches []manager.Match) string {
	if len(matches) == 0 {
		return "There aren't any matching tasks!"
	}
	var sb strings.Builder
	sb.WriteString("Here are the matching tasks in your list:")
	for _, mt := range matches {
		fmt.Fprintf(&sb, "\n%d. %s", mt.Index, mt.Task.Render())
	}
	return sb.String()
}

func formatUndo(res manager.UndoResult) string {
	switch res.Kind {
	case manager.UndoMark:
		text := fmt.Sprintf("Undone! Task %d is back to:\n  %s", res.Index, res.Task.Render())
		return withSaveWarning(text, res.SaveErr)
	case manager.UndoSnapshot:
		text := "Undone! Your last change to the list has been reverted.\n" + countLine(res.Count)
		return withSaveWarning(text, res.SaveErr)
	}
	return "There is nothing to undo!"
}

func withSaveWarning(text string, err error) string {
	if err == nil {
		return text
	}
	return text + "\nWarning: the change could not be saved: " + err.Error()
}

func errorText(err error) string {
	if errors.Is(err, model.ErrIO) {
		return "OOPS! Something went wrong with your task file: " + err.Error()
	}
	return "OOPS! " + err.Error()
}
