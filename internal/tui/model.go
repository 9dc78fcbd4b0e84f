// Package tui is the interactive terminal view of the task collections.
//
// The model shows one collection at a time. Every view switch goes through
// a view.Controller: the list is replaced by a spinner until the delayed
// reload resolves, and results belonging to an older switch are dropped.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"taskmgr/internal/form"
	"taskmgr/internal/logging"
	"taskmgr/internal/output"
	"taskmgr/internal/service"
	"taskmgr/internal/view"
)

const (
	fieldTitle = iota
	fieldDescription
	fieldCount
)

// reloadedMsg carries the outcome of a view.Controller.Resolve.
type reloadedMsg view.Result

// Model is the bubbletea model.
type Model struct {
	ctx      context.Context
	svc      service.Service
	ctl      *view.Controller
	log      logrus.FieldLogger
	keys     KeyMap
	formKeys FormKeyMap

	spinner spinner.Model
	pending view.Request

	tasks  []service.Task
	cursor int

	adding bool
	inputs [fieldCount]textinput.Model
	focus  int

	status string
	width  int
}

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(m *Model) { m.log = l }
}

// New creates a model showing the active collection, read from memory
// without waiting for a reload.
func New(ctx context.Context, svc service.Service, ctl *view.Controller, opts ...Option) Model {
	m := Model{
		ctx:      ctx,
		svc:      svc,
		ctl:      ctl,
		log:      logging.Discard(),
		keys:     DefaultKeyMap,
		formKeys: DefaultFormKeyMap,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(cursorStyle)),
	}
	for _, opt := range opts {
		opt(&m)
	}

	title := textinput.New()
	title.Placeholder = "Title"
	title.Prompt = "Title:       "
	desc := textinput.New()
	desc.Placeholder = "Description"
	desc.Prompt = "Description: "
	m.inputs = [fieldCount]textinput.Model{title, desc}

	m.tasks = svc.Tasks(service.Active)
	return m
}

// Run starts the program on the given terminal streams and blocks until the
// user quits or ctx is cancelled.
func Run(ctx context.Context, m Model, in io.Reader, out io.Writer) error {
	program := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case reloadedMsg:
		if msg.Stale || msg.Generation != m.pending.Generation {
			m.log.WithField("generation", msg.Generation).Debug("ignoring superseded reload")
			return m, nil
		}
		m.tasks = msg.Tasks
		m.clampCursor()
		return m, nil

	case spinner.TickMsg:
		if !m.ctl.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.adding {
			return m.updateForm(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.NextView):
		return m.selectView(m.ctl.Current().Other())
	case key.Matches(msg, m.keys.ViewActive):
		return m.selectView(service.Active)
	case key.Matches(msg, m.keys.ViewCompleted):
		return m.selectView(service.Completed)
	case key.Matches(msg, m.keys.Add):
		// New tasks land in the active collection.
		if m.ctl.Current() != service.Active {
			return m, nil
		}
		return m.openForm()
	}

	if m.ctl.Loading() {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Toggle):
		if task, ok := m.selected(); ok {
			_, _, err := m.svc.ToggleCompletion(m.ctx, task.ID)
			m.afterMutation(err)
		}
	case key.Matches(msg, m.keys.Delete):
		if task, ok := m.selected(); ok {
			_, err := m.svc.DeleteTask(m.ctx, task.ID)
			m.afterMutation(err)
		}
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.formKeys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.formKeys.Cancel):
		m.adding = false
		return m, nil
	case key.Matches(msg, m.formKeys.NextField):
		return m.focusField((m.focus + 1) % fieldCount)
	case key.Matches(msg, m.formKeys.PrevField):
		return m.focusField((m.focus + fieldCount - 1) % fieldCount)
	case key.Matches(msg, m.formKeys.Submit):
		draft := m.draft()
		if !form.Valid(draft) {
			return m, nil
		}
		_, err := m.svc.AddTask(m.ctx, draft.Title, draft.Description)
		m.adding = false
		m.afterMutation(err)
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// selectView switches the controller to v and starts the delayed reload.
func (m Model) selectView(v service.Collection) (tea.Model, tea.Cmd) {
	m.pending = m.ctl.Select(v)
	m.tasks = nil
	m.cursor = 0
	return m, tea.Batch(m.spinner.Tick, m.resolve(m.pending))
}

func (m Model) resolve(req view.Request) tea.Cmd {
	ctx, ctl := m.ctx, m.ctl
	return func() tea.Msg {
		res, err := ctl.Resolve(ctx, req)
		if err != nil {
			return nil
		}
		return reloadedMsg(res)
	}
}

func (m Model) openForm() (tea.Model, tea.Cmd) {
	m.adding = true
	m.status = ""
	for i := range m.inputs {
		m.inputs[i].Reset()
	}
	return m.focusField(fieldTitle)
}

func (m Model) focusField(i int) (tea.Model, tea.Cmd) {
	m.focus = i
	var cmd tea.Cmd
	for j := range m.inputs {
		if j == i {
			cmd = m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
	return m, cmd
}

func (m Model) draft() form.Draft {
	return form.Draft{
		Title:       m.inputs[fieldTitle].Value(),
		Description: m.inputs[fieldDescription].Value(),
	}
}

// afterMutation refreshes the shown collection from memory and reports a
// failed write in the status line.
func (m *Model) afterMutation(err error) {
	m.tasks = m.svc.Tasks(m.ctl.Current())
	m.clampCursor()
	if err != nil {
		m.status = "warning: " + err.Error()
		return
	}
	m.status = ""
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.tasks) {
		m.cursor = len(m.tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) selected() (service.Task, bool) {
	if len(m.tasks) == 0 {
		return service.Task{}, false
	}
	return m.tasks[m.cursor], true
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.renderTabs())
	b.WriteString("\n")

	switch {
	case m.adding:
		b.WriteString(bodyStyle.Render(m.renderForm()))
	case m.ctl.Loading():
		b.WriteString(bodyStyle.Render(m.spinner.View() + " Loading..."))
	case len(m.tasks) == 0:
		b.WriteString(emptyStyle.Render("No Tasks!"))
	default:
		b.WriteString(bodyStyle.Render(m.renderTasks()))
	}
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}
	if m.adding {
		b.WriteString(renderHelp(m.formKeys.ShortHelp()))
	} else {
		b.WriteString(renderHelp(m.keys.ShortHelp()))
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderTabs() string {
	current := m.ctl.Current()
	tabs := make([]string, 0, len(service.Collections))
	for i, c := range service.Collections {
		label := fmt.Sprintf("%d %s", i+1, output.CollectionTitle(c))
		if c == current {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)
}

func (m Model) renderTasks() string {
	lines := make([]string, 0, 2*len(m.tasks))
	for i, t := range m.tasks {
		marker := "  "
		if i == m.cursor {
			marker = cursorStyle.Render("> ")
		}
		check := "[ ]"
		style := titleStyle
		if t.Completed {
			check = "[x]"
			style = doneTitleStyle
		}
		lines = append(lines, marker+check+" "+style.Render(t.Title))
		if t.Description != "" {
			lines = append(lines, descriptionStyle.Render(t.Description))
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderForm() string {
	lines := []string{formHeaderStyle.Render("New task"), ""}
	for i := range m.inputs {
		lines = append(lines, m.inputs[i].View())
	}
	if err := form.Validate(m.draft()); err != nil {
		lines = append(lines, "", helpStyle.Render(err.Error()))
	}
	return strings.Join(lines, "\n")
}
