package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/devanathsugavasi/sjf-visualizer-lab/internal/sjf"
)

// editField is the column currently being edited.
type editField int

const (
	fieldNone editField = iota
	fieldName
	fieldArrival
	fieldBurst
)

func (f editField) label() string {
	switch f {
	case fieldName:
		return "Name"
	case fieldArrival:
		return "Arrival time"
	case fieldBurst:
		return "Burst time"
	default:
		return ""
	}
}

var editorErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)

// applyEditsMsg asks the app to reschedule with the edited process set.
type applyEditsMsg struct {
	processes []sjf.Process
}

// discardEditsMsg closes the editor and keeps the current schedule.
type discardEditsMsg struct{}

// processEditor is the form for changing the process set. It only checks
// that fields are whole numbers; range checks belong to the scheduler so the
// user sees exactly why a set was refused.
type processEditor struct {
	processes []sjf.Process
	table     table.Model
	input     textinput.Model
	field     editField
	keys      editorKeyMap
	help      help.Model
	err       error
	newID     func() string
}

func newProcessEditor(processes []sjf.Process) *processEditor {
	columns := []table.Column{
		{Title: "Name", Width: 10},
		{Title: "Arrival", Width: 8},
		{Title: "Burst", Width: 8},
		{Title: "ID", Width: 14},
	}
	t := table.New(table.WithColumns(columns), table.WithFocused(true), table.WithHeight(10))
	input := textinput.New()
	input.CharLimit = 12
	input.Prompt = "› "
	e := &processEditor{
		table: t,
		input: input,
		keys:  defaultEditorKeyMap(),
		help:  help.New(),
		newID: uuid.NewString,
	}
	e.load(processes)
	return e
}

func (e *processEditor) load(processes []sjf.Process) {
	e.processes = append([]sjf.Process(nil), processes...)
	e.field = fieldNone
	e.err = nil
	e.refreshRows()
}

func (e *processEditor) refreshRows() {
	rows := make([]table.Row, len(e.processes))
	for i, p := range e.processes {
		id := p.ID
		if len(id) > 12 {
			id = id[:12] + "…"
		}
		rows[i] = table.Row{p.Label(), strconv.Itoa(p.Arrival), strconv.Itoa(p.Burst), id}
	}
	e.table.SetRows(rows)
	if cursor := e.table.Cursor(); cursor >= len(rows) && len(rows) > 0 {
		e.table.SetCursor(len(rows) - 1)
	}
}

func (e *processEditor) editing() bool {
	return e.field != fieldNone
}

func (e *processEditor) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if e.editing() {
		return e.updateField(keyMsg)
	}
	switch {
	case key.Matches(keyMsg, e.keys.Add):
		e.addProcess()
		return nil
	case key.Matches(keyMsg, e.keys.Delete):
		e.removeSelected()
		return nil
	case key.Matches(keyMsg, e.keys.Edit):
		if len(e.processes) == 0 {
			return nil
		}
		return e.beginEdit(fieldName)
	case key.Matches(keyMsg, e.keys.Cancel):
		return func() tea.Msg { return discardEditsMsg{} }
	case key.Matches(keyMsg, e.keys.Apply):
		processes := append([]sjf.Process(nil), e.processes...)
		return func() tea.Msg { return applyEditsMsg{processes: processes} }
	}
	var cmd tea.Cmd
	e.table, cmd = e.table.Update(msg)
	return cmd
}

func (e *processEditor) updateField(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, e.keys.Cancel):
		e.endEdit()
		return nil
	case key.Matches(msg, e.keys.Edit):
		if err := e.commitField(); err != nil {
			e.err = err
			return nil
		}
		e.err = nil
		if e.field == fieldBurst {
			e.endEdit()
			return nil
		}
		return e.beginEdit(e.field + 1)
	}
	var cmd tea.Cmd
	e.input, cmd = e.input.Update(msg)
	return cmd
}

func (e *processEditor) beginEdit(field editField) tea.Cmd {
	e.field = field
	p := e.processes[e.table.Cursor()]
	switch field {
	case fieldName:
		e.input.SetValue(p.Name)
	case fieldArrival:
		e.input.SetValue(strconv.Itoa(p.Arrival))
	case fieldBurst:
		e.input.SetValue(strconv.Itoa(p.Burst))
	}
	e.input.Placeholder = field.label()
	e.input.CursorEnd()
	e.table.Blur()
	return e.input.Focus()
}

func (e *processEditor) endEdit() {
	e.field = fieldNone
	e.input.Blur()
	e.table.Focus()
	e.refreshRows()
}

func (e *processEditor) commitField() error {
	idx := e.table.Cursor()
	value := strings.TrimSpace(e.input.Value())
	p := &e.processes[idx]
	switch e.field {
	case fieldName:
		if value == "" {
			return fmt.Errorf("name is required")
		}
		p.Name = value
	case fieldArrival, fieldBurst:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s must be a whole number, got %q", strings.ToLower(e.field.label()), value)
		}
		if e.field == fieldArrival {
			p.Arrival = n
		} else {
			p.Burst = n
		}
	}
	e.refreshRows()
	return nil
}

func (e *processEditor) addProcess() {
	name := e.nextName()
	e.processes = append(e.processes, sjf.Process{ID: e.newID(), Name: name, Arrival: 0, Burst: 1})
	e.refreshRows()
	e.table.SetCursor(len(e.processes) - 1)
}

// removeSelected drops the highlighted row. The last process cannot be
// removed so the set always has something to schedule.
func (e *processEditor) removeSelected() {
	if len(e.processes) <= 1 {
		e.err = fmt.Errorf("at least one process is required")
		return
	}
	idx := e.table.Cursor()
	e.processes = append(e.processes[:idx], e.processes[idx+1:]...)
	e.err = nil
	e.refreshRows()
}

func (e *processEditor) nextName() string {
	used := make(map[string]struct{}, len(e.processes))
	for _, p := range e.processes {
		used[strings.ToUpper(p.Name)] = struct{}{}
	}
	for n := len(e.processes) + 1; ; n++ {
		name := fmt.Sprintf("P%d", n)
		if _, taken := used[name]; !taken {
			return name
		}
	}
}

func (e *processEditor) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Edit processes"))
	b.WriteString("\n\n")
	b.WriteString(e.table.View())
	b.WriteString("\n\n")
	if e.editing() {
		fmt.Fprintf(&b, "%s for %s\n%s\n", e.field.label(), e.processes[e.table.Cursor()].Label(), e.input.View())
	}
	if e.err != nil {
		b.WriteString(editorErrorStyle.Render(e.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(e.help.View(e.keys))
	return b.String()
}
