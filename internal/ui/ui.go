package ui

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nissyi-gh/tally/internal/command"
	"github.com/nissyi-gh/tally/internal/manager"
	"github.com/nissyi-gh/tally/internal/model"
)

type appState int

const (
	stateCommand appState = iota
	stateList
	stateConfirm
)

var (
	appStyle     = lipgloss.NewStyle().Padding(1, 2)
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("170")).Bold(true)
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	confirmStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	outputStyle  = lipgloss.NewStyle().
			Padding(1, 2).
			BorderLeft(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("241"))
)

type extraKeyMap struct {
	Toggle key.Binding
	Delete key.Binding
	Undo   key.Binding
	Focus  key.Binding
	Copy   key.Binding
}

func newExtraKeyMap() extraKeyMap {
	return extraKeyMap{
		Toggle: key.NewBinding(
			key.WithKeys("enter", "x"),
			key.WithHelp("enter/x", "toggle done"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Undo: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "undo"),
		),
		Focus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "command line"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "copy output"),
		),
	}
}

// Model is the top-level BubbleTea model for the tally TUI.
type Model struct {
	state   appState
	list    list.Model
	input   textinput.Model
	interp  *command.Interpreter
	manager *manager.Manager
	keys    extraKeyMap
	output  string
	err     error
	width   int
	height  int
}

type tasksLoadedMsg []model.Task

// NewModel creates a new TUI model. interp must wrap the same manager.
func NewModel(m *manager.Manager, interp *command.Interpreter) Model {
	ti := textinput.New()
	ti.Placeholder = "todo Read book"
	ti.Prompt = "> "
	ti.CharLimit = 512
	ti.Focus()

	keys := newExtraKeyMap()

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetHeight(1)
	delegate.SetSpacing(0)
	l := list.New(nil, delegate, 0, 0)
	l.Title = "tally"
	l.Styles.Title = titleStyle
	l.SetShowHelp(true)
	l.SetFilteringEnabled(true)
	l.SetStatusBarItemName("task", "tasks")
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Toggle, keys.Delete, keys.Undo, keys.Focus}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Toggle, keys.Delete, keys.Undo, keys.Focus, keys.Copy}
	}

	return Model{
		state:   stateCommand,
		list:    l,
		input:   ti,
		interp:  interp,
		manager: m,
		keys:    keys,
		output:  "Type a command, or \"help\" to see them all.",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadTasks)
}

func (m Model) loadTasks() tea.Msg {
	return tasksLoadedMsg(m.manager.List())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h, v := appStyle.GetFrameSize()
		contentWidth := msg.Width - h
		m.list.SetSize(contentWidth*60/100, msg.Height-v-2)
		m.input.Width = contentWidth - 4
		return m, nil

	case tasksLoadedMsg:
		taskItems := toItems([]model.Task(msg))
		items := make([]list.Item, len(taskItems))
		for i, ti := range taskItems {
			items[i] = ti
		}
		cmd := m.list.SetItems(items)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+y":
			if err := clipboard.WriteAll(m.output); err != nil {
				m.err = fmt.Errorf("copy to clipboard: %w", err)
			} else {
				m.err = nil
			}
			return m, nil
		}
	}

	switch m.state {
	case stateCommand:
		return m.updateCommand(msg)
	case stateList:
		return m.updateList(msg)
	case stateConfirm:
		return m.updateConfirm(msg)
	}

	return m, nil
}

// run executes one command line and refreshes the task list.
func (m Model) run(line string) (tea.Model, tea.Cmd) {
	resp := m.interp.Execute(line)
	m.output = resp.Text
	m.err = nil
	if resp.Exit {
		return m, tea.Quit
	}
	return m, m.loadTasks
}

func (m Model) updateCommand(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			line := m.input.Value()
			m.input.Reset()
			return m.run(line)
		case "tab":
			if len(m.list.Items()) > 0 {
				m.state = stateList
				m.input.Blur()
			}
			return m, nil
		case "esc":
			m.input.Reset()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && !m.list.SettingFilter() {
		switch keyMsg.String() {
		case "tab", "esc":
			m.state = stateCommand
			cmd := m.input.Focus()
			return m, cmd
		case "enter", "x":
			if item, ok := m.list.SelectedItem().(TaskItem); ok {
				verb := "mark"
				if item.Task.Done {
					verb = "unmark"
				}
				return m.run(fmt.Sprintf("%s %d", verb, item.Index))
			}
		case "u":
			return m.run("undo")
		case "d":
			if m.list.SelectedItem() != nil {
				m.state = stateConfirm
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "y":
			m.state = stateList
			if item, ok := m.list.SelectedItem().(TaskItem); ok {
				return m.run(fmt.Sprintf("delete %d", item.Index))
			}
			return m, nil
		case "n", "esc":
			m.state = stateList
			return m, nil
		}
	}
	return m, nil
}

func (m Model) View() string {
	var errView string
	if m.err != nil {
		errView = "\n" + errorStyle.Render("Error: "+m.err.Error())
	}

	if m.state == stateConfirm {
		item, _ := m.list.SelectedItem().(TaskItem)
		return appStyle.Render(
			confirmStyle.Render("Delete Task?") + "\n\n" +
				"  " + item.Task.Render() + "\n\n" +
				statusStyle.Render("y: delete • n/esc: cancel"),
		)
	}

	h, v := appStyle.GetFrameSize()
	contentWidth := m.width - h
	contentHeight := m.height - v - 2
	rightWidth := contentWidth - contentWidth*60/100

	rightPane := outputStyle.
		Width(rightWidth).
		Height(contentHeight).
		Render(m.output + errView)
	panes := lipgloss.JoinHorizontal(lipgloss.Top, m.list.View(), rightPane)

	hint := "enter: run • tab: browse tasks • ctrl+y: copy output • ctrl+c: quit"
	if m.state == stateList {
		hint = "tab/esc: back to command line"
	}
	return appStyle.Render(panes + "\n" + m.input.View() + "\n" + statusStyle.Render(hint))
}
