// Package tui is the interactive terminal shell: it renders the current
// portal page with its menu, breadcrumbs and toasts, and reads paths and
// commands from a prompt line.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/courtdesk/internal/portal"
	"github.com/felixgeelhaar/courtdesk/internal/session"
	"github.com/felixgeelhaar/courtdesk/internal/toast"
)

// Model represents the TUI application state
type Model struct {
	portal *portal.Portal
	ctx    context.Context

	sessions    *mailbox[session.Snapshot]
	toasts      *mailbox[[]toast.Toast]
	unsubscribe []func()

	view   portal.View
	input  textinput.Model
	status string
	err    string

	width    int
	height   int
	quitting bool

	styles Styles
}

// Styles contains lipgloss styles for the TUI
type Styles struct {
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Crumb     lipgloss.Style
	Active    lipgloss.Style
	Muted     lipgloss.Style
	Border    lipgloss.Style
	Error     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Info      lipgloss.Style
	Help      lipgloss.Style
	Key       lipgloss.Style
	KeyDesc   lipgloss.Style
	Highlight lipgloss.Style
}

// DefaultStyles returns the default lipgloss styles
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")),
		Subtitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		Crumb: lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")),
		Active: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("63")).
			Padding(0, 1),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1),
		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")),
		Success: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("46")),
		Warning: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("226")),
		Info: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1),
		Key: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")),
		KeyDesc: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		Highlight: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")),
	}
}

// NewModel creates a shell over p showing its current page. The shell follows
// session and toast changes until Close is called.
func NewModel(ctx context.Context, p *portal.Portal) Model {
	in := textinput.New()
	in.Prompt = "› "
	in.Placeholder = "path, menu number or :help"
	in.CharLimit = 256
	in.Focus()

	m := Model{
		portal:   p,
		ctx:      ctx,
		sessions: newMailbox[session.Snapshot](),
		toasts:   newMailbox[[]toast.Toast](),
		input:    in,
		styles:   DefaultStyles(),
	}
	m.unsubscribe = []func(){
		p.Store().Subscribe(m.sessions.put),
		p.Toasts().Subscribe(m.toasts.put),
	}
	m.view = p.Current()
	return m
}

// Close stops following the session and toasts.
func (m Model) Close() {
	for _, cancel := range m.unsubscribe {
		cancel()
	}
	m.sessions.close()
	m.toasts.close()
}

// Page returns the page the shell is showing.
func (m Model) Page() portal.View {
	return m.view
}

// sessionMsg reports that the session changed.
type sessionMsg session.Snapshot

// toastsMsg carries the toasts now on screen.
type toastsMsg []toast.Toast

// viewMsg carries the result of a portal call made off the update loop.
type viewMsg struct {
	view   portal.View
	status string
	err    error
}

// mailbox holds the newest unread value of a subscription. put never blocks;
// it replaces a value nobody has read yet.
type mailbox[T any] struct {
	mu   sync.Mutex
	ch   chan T
	done chan struct{}
	once sync.Once
}

func newMailbox[T any]() *mailbox[T] {
	return &mailbox[T]{ch: make(chan T, 1), done: make(chan struct{})}
}

func (b *mailbox[T]) put(v T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	select {
	case <-b.ch:
	default:
	}
	b.ch <- v
}

func (b *mailbox[T]) close() {
	b.once.Do(func() { close(b.done) })
}

// receive waits for the next value. It yields nil once the box is closed.
func receive[T any](b *mailbox[T], wrap func(T) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		select {
		case v := <-b.ch:
			return wrap(v)
		case <-b.done:
			return nil
		}
	}
}

func (m Model) nextSession() tea.Cmd {
	return receive(m.sessions, func(s session.Snapshot) tea.Msg { return sessionMsg(s) })
}

func (m Model) nextToasts() tea.Cmd {
	return receive(m.toasts, func(list []toast.Toast) tea.Msg { return toastsMsg(list) })
}

// Init initializes the TUI model (required by Bubble Tea)
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.nextSession(), m.nextToasts())
}

// Update handles messages and updates the model state (required by Bubble Tea)
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyEnter:
			line := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			return m.execute(line)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case sessionMsg:
		// Re-run the guard: a session ended elsewhere, such as by a 401,
		// must leave protected pages.
		m.view = m.portal.Current()
		return m, m.nextSession()

	case toastsMsg:
		m.view.Toasts = msg
		return m, m.nextToasts()

	case viewMsg:
		m.view = msg.view
		m.status = msg.status
		m.err = ""
		if msg.err != nil {
			m.err = msg.err.Error()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) execute(line string) (tea.Model, tea.Cmd) {
	m.status, m.err = "", ""

	switch {
	case line == "":
		m.view = m.portal.Current()
		return m, nil

	case strings.HasPrefix(line, ":"):
		return m.command(strings.Fields(line[1:]))

	case strings.HasPrefix(line, "/"):
		m.view = m.portal.Navigate(line)
		return m, nil
	}

	n, err := strconv.Atoi(line)
	if err != nil || n < 1 || n > len(m.view.Menu) {
		m.err = fmt.Sprintf("no menu entry %q", line)
		return m, nil
	}
	m.view = m.portal.Navigate(m.view.Menu[n-1].Path)
	return m, nil
}

func (m Model) command(args []string) (tea.Model, tea.Cmd) {
	if len(args) == 0 {
		m.err = "empty command"
		return m, nil
	}

	switch args[0] {
	case "q", "quit":
		m.quitting = true
		return m, tea.Quit

	case "logout":
		p, ctx := m.portal, m.ctx
		return m, func() tea.Msg {
			v, err := p.Logout(ctx)
			return viewMsg{view: v, status: "signed out", err: err}
		}

	case "dismiss":
		if len(args) != 2 {
			m.err = "usage: :dismiss <id>"
			return m, nil
		}
		id, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			m.err = fmt.Sprintf("invalid toast id %q", args[1])
			return m, nil
		}
		if !m.portal.Toasts().Dismiss(id) {
			m.err = fmt.Sprintf("no toast %d", id)
			return m, nil
		}
		m.view.Toasts = m.portal.Toasts().List()
		m.status = fmt.Sprintf("dismissed toast %d", id)
		return m, nil

	case "help":
		m.status = helpText
		return m, nil
	}

	m.err = fmt.Sprintf("unknown command :%s", args[0])
	return m, nil
}

const helpText = "/path navigate · N open menu entry · :dismiss <id> · :logout · :quit"
