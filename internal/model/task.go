package model

import (
	"fmt"
	"strings"
	"time"
)

// Kind distinguishes the schedule shape of a task.
type Kind int

const (
	KindTodo Kind = iota
	KindDeadline
	KindEvent
)

const (
	// DueLayout is the input and storage layout of a deadline.
	DueLayout = "2006-01-02 1504"
	// DateLayout is the input and storage layout of an event date.
	DateLayout = "2006-01-02"
	// TimeLayout is how event times are written to storage.
	TimeLayout = "15:04"

	compactTimeLayout = "1504"
	dueDisplayLayout  = "Jan 02 2006, 03:04PM"
	dateDisplayLayout = "Jan 2 2006"
	timeDisplayLayout = "3:04 PM"

	fieldSep = " | "
)

// Tag returns the one-letter code used in the task file.
func (k Kind) Tag() string {
	switch k {
	case KindTodo:
		return "T"
	case KindDeadline:
		return "D"
	case KindEvent:
		return "E"
	}
	return "?"
}

func (k Kind) String() string {
	switch k {
	case KindTodo:
		return "todo"
	case KindDeadline:
		return "deadline"
	case KindEvent:
		return "event"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Task represents a single task in the collection. Only the payload fields
// belonging to Kind are meaningful: Due for deadlines, Date/From/To for events.
type Task struct {
	Kind        Kind
	Description string
	Done        bool

	Due  time.Time
	Date time.Time
	From time.Time
	To   time.Time
}

// NewTodo builds a todo with a validated description.
func NewTodo(description string) (Task, error) {
	desc, err := cleanDescription(description)
	if err != nil {
		return Task{}, err
	}
	return Task{Kind: KindTodo, Description: desc}, nil
}

// NewDeadline builds a deadline due at a "yyyy-MM-dd HHmm" date-time.
func NewDeadline(description, due string) (Task, error) {
	desc, err := cleanDescription(description)
	if err != nil {
		return Task{}, err
	}
	at, err := time.Parse(DueLayout, strings.TrimSpace(due))
	if err != nil {
		return Task{}, Validationf("due date %q must look like yyyy-MM-dd HHmm", strings.TrimSpace(due))
	}
	return Task{Kind: KindDeadline, Description: desc, Due: at}, nil
}

// NewEvent builds an event on date between from and to. Times accept both
// HHmm and HH:mm, and from must be strictly before to.
func NewEvent(description, date, from, to string) (Task, error) {
	desc, err := cleanDescription(description)
	if err != nil {
		return Task{}, err
	}
	day, err := time.Parse(DateLayout, strings.TrimSpace(date))
	if err != nil {
		return Task{}, Validationf("event date %q must look like yyyy-MM-dd", strings.TrimSpace(date))
	}
	start, err := parseClock("start", from)
	if err != nil {
		return Task{}, err
	}
	end, err := parseClock("end", to)
	if err != nil {
		return Task{}, err
	}
	if !start.Before(end) {
		return Task{}, Validationf("start time %s must be before end time %s",
			start.Format(TimeLayout), end.Format(TimeLayout))
	}
	return Task{Kind: KindEvent, Description: desc, Date: day, From: start, To: end}, nil
}

func parseClock(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	layout := compactTimeLayout
	if strings.Contains(s, ":") {
		layout = TimeLayout
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, Validationf("%s time %q must look like HHmm", field, s)
	}
	return t, nil
}

func cleanDescription(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", Validationf("description cannot be empty")
	}
	if strings.ContainsAny(s, "\r\n") {
		return "", Validationf("description must fit on one line")
	}
	if strings.Contains(s, strings.TrimSpace(fieldSep)) {
		return "", Validationf("description cannot contain %q, it separates fields in the task file", strings.TrimSpace(fieldSep))
	}
	return s, nil
}

// Matches reports whether keyword occurs in the description, ignoring case.
func (t Task) Matches(keyword string) bool {
	return strings.Contains(strings.ToLower(t.Description), strings.ToLower(keyword))
}

func (t Task) statusGlyph() string {
	if t.Done {
		return "X"
	}
	return " "
}

// Render returns the single-line display form, e.g. "[D][X] report (by: ...)".
func (t Task) Render() string {
	head := fmt.Sprintf("[%s][%s] %s", t.Kind.Tag(), t.statusGlyph(), t.Description)
	switch t.Kind {
	case KindDeadline:
		return fmt.Sprintf("%s (by: %s)", head, t.Due.Format(dueDisplayLayout))
	case KindEvent:
		return fmt.Sprintf("%s (on: %s from: %s to: %s)", head,
			t.Date.Format(dateDisplayLayout),
			t.From.Format(timeDisplayLayout),
			t.To.Format(timeDisplayLayout))
	}
	return head
}

func (t Task) String() string {
	return t.Render()
}

// Encode returns the pipe-delimited storage line.
func (t Task) Encode() string {
	done := "0"
	if t.Done {
		done = "1"
	}
	fields := []string{t.Kind.Tag(), done, t.Description}
	switch t.Kind {
	case KindDeadline:
		fields = append(fields, t.Due.Format(DueLayout))
	case KindEvent:
		fields = append(fields,
			t.Date.Format(DateLayout),
			t.From.Format(TimeLayout),
			t.To.Format(TimeLayout))
	}
	return strings.Join(fields, fieldSep)
}

// Decode parses a line produced by Encode. Every failure wraps ErrFormat.
func Decode(line string) (Task, error) {
	line = strings.TrimRight(line, "\r\n")
	parts := strings.Split(line, fieldSep)
	if len(parts) < 3 {
		return Task{}, formatf("expected at least 3 fields, got %d in %q", len(parts), line)
	}

	var done bool
	switch parts[1] {
	case "0":
	case "1":
		done = true
	default:
		return Task{}, formatf("done flag must be 0 or 1, got %q", parts[1])
	}

	var (
		t   Task
		err error
	)
	switch parts[0] {
	case "T":
		t, err = NewTodo(parts[2])
	case "D":
		if len(parts) < 4 {
			return Task{}, formatf("deadline needs 4 fields, got %d", len(parts))
		}
		t, err = NewDeadline(parts[2], parts[3])
	case "E":
		if len(parts) < 6 {
			return Task{}, formatf("event needs 6 fields, got %d", len(parts))
		}
		t, err = NewEvent(parts[2], parts[3], parts[4], parts[5])
	default:
		return Task{}, formatf("unknown task type %q", parts[0])
	}
	if err != nil {
		return Task{}, &Error{Kind: ErrFormat, Msg: fmt.Sprintf("bad %s fields", parts[0]), Err: err}
	}
	t.Done = done
	return t, nil
}
