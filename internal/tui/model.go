package tui

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"todolist/internal/models"
	"todolist/internal/ui"
	"todolist/pkg/logger"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// API is the subset of the todos client the TUI drives.
type API interface {
	List(ctx context.Context) ([]models.Todo, error)
	Create(ctx context.Context, title string) (*models.Todo, error)
	Update(ctx context.Context, id string, patch models.TodoPatch) (*models.Todo, error)
	Delete(ctx context.Context, id string) error
}

// Banner texts shown when a request fails.
const (
	errFetch  = "Failed to fetch todos"
	errAdd    = "Failed to add todo"
	errUpdate = "Failed to update todo"
	errDelete = "Failed to delete todo"
)

const emptyText = "No tasks found. Add a new task!"

type status int

const (
	statusIdle status = iota
	statusLoading
	statusError
)

type focus int

const (
	focusInput focus = iota
	focusList
)

// Responses carry the token of the request that produced them.
type (
	listedMsg struct {
		token uint64
		todos []models.Todo
		err   error
	}
	createdMsg struct {
		token uint64
		todo  *models.Todo
		err   error
	}
	updatedMsg struct {
		token uint64
		todo  *models.Todo
		err   error
	}
	deletedMsg struct {
		token uint64
		id    string
		err   error
	}
)

type keyMap struct {
	Quit, Focus, Up, Down, Toggle, Delete, Reload key.Binding
}

var keys = keyMap{
	Quit:   key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "quit")),
	Focus:  key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "switch focus")),
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Toggle: key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
	Delete: key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
	Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
}

// Model is the Bubble Tea model for the todo list.
// At most one request is in flight; its token is held in inflight.
type Model struct {
	api    API
	ctx    context.Context
	cancel context.CancelFunc

	todos  []models.Todo
	status status
	errMsg string

	inflight uint64
	lastTok  uint64

	input   textinput.Model
	spinner spinner.Model
	cursor  int
	focus   focus
}

// New builds a model whose requests run under a child of ctx. The initial
// list request is already marked in flight; Init issues it.
func New(ctx context.Context, api API) Model {
	ctx, cancel := context.WithCancel(ctx)

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Add a new task"
	ti.CharLimit = 200
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = ui.AccentStyle

	m := Model{
		api:     api,
		ctx:     ctx,
		cancel:  cancel,
		todos:   []models.Todo{},
		input:   ti,
		spinner: sp,
		focus:   focusInput,
	}
	m.begin()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetch(m.inflight), m.spinner.Tick, textinput.Blink)
}

// Close cancels every outstanding request.
func (m Model) Close() { m.cancel() }

// begin marks a new request in flight and returns its token.
func (m *Model) begin() uint64 {
	m.lastTok++
	m.inflight = m.lastTok
	m.status = statusLoading
	m.errMsg = ""
	return m.inflight
}

// settle accepts a response only if it belongs to the in-flight request.
func (m *Model) settle(token uint64) bool {
	if token != m.inflight || m.ctx.Err() != nil {
		return false
	}
	m.inflight = 0
	m.status = statusIdle
	return true
}

func (m *Model) fail(text string, err error) {
	m.status = statusError
	m.errMsg = text
	logger.Warn(m.ctx, text, "error", err)
}

func (m Model) loading() bool { return m.status == statusLoading }

func (m Model) fetch(token uint64) tea.Cmd {
	api, ctx := m.api, m.ctx
	return func() tea.Msg {
		todos, err := api.List(ctx)
		return listedMsg{token: token, todos: todos, err: err}
	}
}

func (m Model) create(token uint64, title string) tea.Cmd {
	api, ctx := m.api, m.ctx
	return func() tea.Msg {
		todo, err := api.Create(ctx, title)
		return createdMsg{token: token, todo: todo, err: err}
	}
}

func (m Model) update(token uint64, id string, patch models.TodoPatch) tea.Cmd {
	api, ctx := m.api, m.ctx
	return func() tea.Msg {
		todo, err := api.Update(ctx, id, patch)
		return updatedMsg{token: token, todo: todo, err: err}
	}
}

func (m Model) remove(token uint64, id string) tea.Cmd {
	api, ctx := m.api, m.ctx
	return func() tea.Msg {
		return deletedMsg{token: token, id: id, err: api.Delete(ctx, id)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case listedMsg:
		if !m.settle(msg.token) {
			return m, nil
		}
		if msg.err != nil {
			m.fail(errFetch, msg.err)
			return m, nil
		}
		m.todos = msg.todos
		m.clampCursor()
		return m, nil

	case createdMsg:
		if !m.settle(msg.token) {
			return m, nil
		}
		if msg.err != nil {
			m.fail(errAdd, msg.err)
			return m, nil
		}
		m.todos = append([]models.Todo{*msg.todo}, m.todos...)
		m.input.SetValue("")
		return m, nil

	case updatedMsg:
		if !m.settle(msg.token) {
			return m, nil
		}
		if msg.err != nil {
			m.fail(errUpdate, msg.err)
			return m, nil
		}
		todos := slices.Clone(m.todos)
		for i := range todos {
			if todos[i].ID == msg.todo.ID {
				todos[i] = *msg.todo
				break
			}
		}
		m.todos = todos
		return m, nil

	case deletedMsg:
		if !m.settle(msg.token) {
			return m, nil
		}
		if msg.err != nil {
			m.fail(errDelete, msg.err)
			return m, nil
		}
		m.todos = slices.DeleteFunc(slices.Clone(m.todos), func(t models.Todo) bool { return t.ID == msg.id })
		m.clampCursor()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.cancel()
		return m, tea.Quit
	}
	if key.Matches(msg, keys.Focus) {
		if m.focus == focusInput {
			m.focus = focusList
			m.input.Blur()
			return m, nil
		}
		m.focus = focusInput
		return m, m.input.Focus()
	}

	if m.focus == focusInput {
		if msg.Type == tea.KeyEsc {
			m.cancel()
			return m, tea.Quit
		}
		if m.loading() {
			return m, nil
		}
		if msg.Type == tea.KeyEnter {
			return m.submit()
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, keys.Quit):
		m.cancel()
		return m, tea.Quit
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.todos)-1 {
			m.cursor++
		}
		return m, nil
	}

	if m.loading() {
		return m, nil
	}
	switch {
	case key.Matches(msg, keys.Toggle):
		if todo, ok := m.selected(); ok {
			return m.toggle(todo.ID)
		}
	case key.Matches(msg, keys.Delete):
		if todo, ok := m.selected(); ok {
			tok := m.begin()
			return m, m.remove(tok, todo.ID)
		}
	case key.Matches(msg, keys.Reload):
		tok := m.begin()
		return m, m.fetch(tok)
	}
	return m, nil
}

// submit sends the trimmed input as a new todo; blank input sends nothing.
func (m Model) submit() (tea.Model, tea.Cmd) {
	title := strings.TrimSpace(m.input.Value())
	if title == "" {
		return m, nil
	}
	tok := m.begin()
	return m, m.create(tok, title)
}

// toggle flips completed on the cached todo, resending its current title.
func (m Model) toggle(id string) (tea.Model, tea.Cmd) {
	for _, t := range m.todos {
		if t.ID != id {
			continue
		}
		title, completed := t.Title, !t.Completed
		tok := m.begin()
		return m, m.update(tok, id, models.TodoPatch{Title: &title, Completed: &completed})
	}
	return m, nil
}

func (m Model) selected() (models.Todo, bool) {
	if m.cursor < 0 || m.cursor >= len(m.todos) {
		return models.Todo{}, false
	}
	return m.todos[m.cursor], true
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.todos) {
		m.cursor = len(m.todos) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) View() string {
	var b strings.Builder

	done := 0
	for _, t := range m.todos {
		if t.Completed {
			done++
		}
	}
	fmt.Fprintf(&b, "%s   %s %d  %s %d  %s %d\n\n",
		ui.TitleStyle.Render("TODO List"),
		ui.SuccessStyle.Render("✔"), done,
		ui.PendingStyle.Render("•"), len(m.todos)-done,
		ui.AccentStyle.Render("Total"), len(m.todos),
	)

	if m.loading() {
		b.WriteString(ui.MutedStyle.Render(m.input.Value()) + "\n\n")
	} else {
		b.WriteString(m.input.View() + "\n\n")
	}

	if m.errMsg != "" {
		b.WriteString(ui.ErrorStyle.Render(m.errMsg) + "\n\n")
	}
	if m.loading() {
		b.WriteString(m.spinner.View() + " Loading...\n\n")
	} else if len(m.todos) == 0 {
		b.WriteString(ui.MutedStyle.Render(emptyText) + "\n")
	}

	for i, t := range m.todos {
		prefix := "  "
		if m.focus == focusList && i == m.cursor {
			prefix = ui.SelectedStyle.Render(">") + " "
		}
		fmt.Fprintf(&b, "%s%s %s  %s\n", prefix, ui.Checkbox(t.Completed), ui.Title(t.Title, t.Completed), ui.MutedStyle.Render("×"))
	}

	b.WriteString("\n" + ui.HelpStyle.Render(m.help()))
	return ui.PanelStyle.Render(b.String())
}

func (m Model) help() string {
	if m.focus == focusInput {
		return "enter add • tab list • esc quit"
	}
	bindings := []key.Binding{keys.Up, keys.Down, keys.Toggle, keys.Delete, keys.Reload, keys.Focus, keys.Quit}
	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}

// Run starts the program and blocks until the user quits or ctx is done.
func Run(ctx context.Context, api API) error {
	m := New(ctx, api)
	defer m.Close()
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
