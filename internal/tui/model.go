// Package tui はTodo RPC API を操作するターミナルクライアントです。
//
// リモート呼び出しは常に1件ずつ行い、その応答でローカルのリストを更新します。
// 呼び出しが失敗した場合はログに記録し、ローカルの状態は呼び出し前のまま残します。
package tui

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pffigueiredo/simple-todo-app-cdf7/internal/models"
)

// API はビューが使用するリモートプロシージャです。*client.Client が実装します。
type API interface {
	GetTodos(ctx context.Context) ([]models.Todo, error)
	CreateTodo(ctx context.Context, description string) (models.Todo, error)
	UpdateTodo(ctx context.Context, id int, completed bool) (models.Todo, error)
	DeleteTodo(ctx context.Context, id int) (models.DeleteTodoResult, error)
}

type (
	todosLoadedMsg struct{ todos []models.Todo }
	todoCreatedMsg struct{ todo models.Todo }
	todoUpdatedMsg struct{ todo models.Todo }
	todoDeletedMsg struct {
		id      int
		success bool
	}
	callFailedMsg struct {
		op  string
		err error
	}
)

var (
	toggleKey = key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle"))
	addKey    = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	deleteKey = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	reloadKey = key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload"))
	quitKey   = key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit"))
)

// todoItem は bubbles/list で表示するための Todo です。
type todoItem struct{ todo models.Todo }

func (i todoItem) FilterValue() string { return i.todo.Description }

type itemDelegate struct{}

func (d itemDelegate) Height() int                             { return 1 }
func (d itemDelegate) Spacing() int                            { return 0 }
func (d itemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(todoItem)
	if !ok {
		return
	}
	box := mutedStyle.Render(boxUnchecked)
	text := it.todo.Description
	if it.todo.Completed {
		box = successStyle.Render(boxChecked)
		text = doneStyle.Render(text)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	created := mutedStyle.Render(it.todo.CreatedAt.Local().Format("2006-01-02 15:04"))
	fmt.Fprintf(w, "%s%s %s  %s\n", prefix, box, text, created)
}

// Model は Bubble Tea のモデルです。
type Model struct {
	api   API
	todos []models.Todo

	list  list.Model
	input textinput.Model

	adding  bool
	pending bool // リモート呼び出し中
	err     error
	notice  string

	width, height int
}

// New は api を使う Model を作成します。Init で一覧の読み込みを開始します。
func New(api API) Model {
	l := list.New(nil, itemDelegate{}, 80, 20)
	l.Title = "Todos"
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.SetShowHelp(true)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	// d は削除に使うためページ送りから外す
	l.KeyMap.NextPage = key.NewBinding(
		key.WithKeys("right", "l", "pgdown", "f"),
		key.WithHelp("→/l/pgdn", "next page"),
	)
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{toggleKey, addKey, deleteKey, reloadKey, quitKey}
	}
	l.AdditionalFullHelpKeys = l.AdditionalShortHelpKeys

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "What needs to be done?"
	ti.CharLimit = models.MaxDescriptionLength

	return Model{
		api:     api,
		todos:   []models.Todo{},
		list:    l,
		input:   ti,
		pending: true,
		width:   80,
		height:  24,
	}
}

// Todos はローカルに保持しているTodoのコピーを返します。
func (m Model) Todos() []models.Todo {
	return replaceAll(m.todos)
}

// Err は直前に失敗したリモート呼び出しのエラーを返します。
func (m Model) Err() error { return m.err }

func (m Model) Init() tea.Cmd {
	return m.loadTodos()
}

func (m Model) loadTodos() tea.Cmd {
	api := m.api
	return func() tea.Msg {
		todos, err := api.GetTodos(context.Background())
		if err != nil {
			return callFailedMsg{op: "load todos", err: err}
		}
		return todosLoadedMsg{todos: todos}
	}
}

func (m Model) createTodo(description string) tea.Cmd {
	api := m.api
	return func() tea.Msg {
		todo, err := api.CreateTodo(context.Background(), description)
		if err != nil {
			return callFailedMsg{op: "create todo", err: err}
		}
		return todoCreatedMsg{todo: todo}
	}
}

func (m Model) toggleTodo(todo models.Todo) tea.Cmd {
	api := m.api
	return func() tea.Msg {
		updated, err := api.UpdateTodo(context.Background(), todo.ID, !todo.Completed)
		if err != nil {
			return callFailedMsg{op: "update todo", err: err}
		}
		return todoUpdatedMsg{todo: updated}
	}
}

func (m Model) deleteTodo(id int) tea.Cmd {
	api := m.api
	return func() tea.Msg {
		result, err := api.DeleteTodo(context.Background(), id)
		if err != nil {
			return callFailedMsg{op: "delete todo", err: err}
		}
		return todoDeletedMsg{id: id, success: result.Success}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case todosLoadedMsg:
		m.pending, m.err = false, nil
		m.setTodos(replaceAll(msg.todos))
		return m, nil

	case todoCreatedMsg:
		m.pending, m.err = false, nil
		m.setTodos(appendTodo(m.todos, msg.todo))
		m.list.Select(len(m.todos) - 1)
		m.input.SetValue("")
		m.input.Blur()
		m.adding = false
		m.resize()
		return m, nil

	case todoUpdatedMsg:
		m.pending, m.err = false, nil
		m.setTodos(patchTodo(m.todos, msg.todo))
		return m, nil

	case todoDeletedMsg:
		m.pending, m.err = false, nil
		if msg.success {
			m.setTodos(removeTodo(m.todos, msg.id))
		} else {
			m.notice = fmt.Sprintf("todo %d was already deleted", msg.id)
		}
		return m, nil

	case callFailedMsg:
		log.Printf("Failed to %s: %v", msg.op, msg.err)
		m.pending = false
		m.err = fmt.Errorf("failed to %s: %w", msg.op, msg.err)
		return m, nil

	case tea.KeyMsg:
		if m.adding {
			return m.updateAdding(msg)
		}
		return m.updateBrowsing(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.adding = false
		m.input.SetValue("")
		m.input.Blur()
		m.resize()
		return m, nil
	case "enter":
		description := strings.TrimSpace(m.input.Value())
		if description == "" || m.pending {
			return m, nil
		}
		m.pending, m.notice = true, ""
		return m, m.createTodo(description)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, quitKey) {
		return m, tea.Quit
	}

	// 呼び出し中は他の変更操作を受け付けない
	mutating := key.Matches(msg, toggleKey, addKey, deleteKey, reloadKey)
	if mutating && m.pending {
		return m, nil
	}

	switch {
	case key.Matches(msg, toggleKey):
		todo, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.pending, m.notice = true, ""
		return m, m.toggleTodo(todo)
	case key.Matches(msg, deleteKey):
		todo, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.pending, m.notice = true, ""
		return m, m.deleteTodo(todo.ID)
	case key.Matches(msg, addKey):
		m.adding = true
		m.input.SetValue("")
		m.resize()
		return m, m.input.Focus()
	case key.Matches(msg, reloadKey):
		m.pending, m.notice = true, ""
		return m, m.loadTodos()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) selected() (models.Todo, bool) {
	i := m.list.Index()
	if i < 0 || i >= len(m.todos) {
		return models.Todo{}, false
	}
	return m.todos[i], true
}

func (m *Model) setTodos(todos []models.Todo) {
	m.todos = todos
	items := make([]list.Item, len(todos))
	for i, t := range todos {
		items[i] = todoItem{todo: t}
	}
	m.list.SetItems(items)
}

func (m *Model) resize() {
	h := m.height - 8
	if m.adding {
		h -= 3
	}
	if h < 3 {
		h = 3
	}
	m.list.SetSize(m.width-4, h)
}

func (m Model) View() string {
	done, total, percent := progress(m.todos)
	header := fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		titleStyle.Render("✅ Todo App"),
		successStyle.Render("✔"), done,
		pendingStyle.Render("•"), total-done,
		accentStyle.Render("Total"), total,
	)
	var b strings.Builder
	b.WriteString(header + "\n")
	if total > 0 {
		fmt.Fprintf(&b, "%d of %d completed (%d%%) %s\n", done, total, percent, progressBar(done, total, 20))
	} else {
		b.WriteString(mutedStyle.Render("No todos yet. Press a to add one.") + "\n")
	}
	b.WriteString("\n" + m.list.View())

	if m.adding {
		b.WriteString("\n" + panelStyle.Render("Add new todo\n"+m.input.View()))
	}

	switch {
	case m.err != nil:
		b.WriteString("\n" + errorStyle.Render("✖ "+m.err.Error()))
	case m.pending:
		b.WriteString("\n" + mutedStyle.Render("working..."))
	case m.notice != "":
		b.WriteString("\n" + mutedStyle.Render(m.notice))
	}
	return panelStyle.Render(b.String())
}

// Run はターミナルクライアントを起動し、終了するまでブロックします。
func Run(api API) error {
	p := tea.NewProgram(New(api), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
