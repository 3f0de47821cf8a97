package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"threadscope/internal/app"
)

const loadTimeout = 4 * time.Second

// Controller defines the subset of app.App behaviour the TUI needs.
type Controller interface {
	Status() (app.DaemonStatus, error)
	StartDaemon() (*app.DaemonHandle, error)
	Threads(context.Context, app.ThreadsParams) ([]app.Thread, error)
	Groups(context.Context, app.GroupsParams) ([]app.Group, error)
}

type view int

const (
	threadsView view = iota
	groupsView
)

func (v view) title() string {
	if v == groupsView {
		return "Groups"
	}
	return "Threads"
}

// Model represents the Bubble Tea state.
type Model struct {
	controller Controller

	list    list.Model
	view    view
	threads []app.Thread
	groups  []app.Group

	daemonStatus app.DaemonStatus
	daemon       *app.DaemonHandle
	statusMsg    string

	err     error
	loading bool

	width  int
	height int

	lastUpdated time.Time
}

// New constructs a TUI model with default styles.
func New(ctrl Controller) *Model {
	delegate := list.NewDefaultDelegate()
	lst := list.New([]list.Item{}, delegate, 0, 0)
	lst.Title = threadsView.title()
	lst.SetShowHelp(false)
	lst.SetFilteringEnabled(false)
	lst.DisableQuitKeybindings()

	return &Model{
		controller: ctrl,
		list:       lst,
		statusMsg:  "Checking daemon status…",
		loading:    true,
	}
}

// Run spins up the Bubble Tea program with sensible defaults. A daemon started
// from inside the TUI is stopped when the program exits.
func Run(ctrl Controller) error {
	m := New(ctrl)
	prog := tea.NewProgram(m, tea.WithAltScreen())
	_, err := prog.Run()
	if cerr := m.daemon.Close(); err == nil {
		err = cerr
	}
	return err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(checkDaemonStatusCmd(m.controller), m.load())
}

func (m *Model) load() tea.Cmd {
	if m.view == groupsView {
		return loadGroupsCmd(m.controller)
	}
	return loadThreadsCmd(m.controller)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.height > 4 {
			m.list.SetSize(msg.Width, msg.Height-4)
		}

	case daemonStatusMsg:
		m.daemonStatus = msg.status
		if msg.status.Running {
			if msg.status.PID > 0 {
				m.statusMsg = fmt.Sprintf("Daemon running (pid %d). Press r to refresh, q to quit.", msg.status.PID)
			} else {
				m.statusMsg = "Daemon running. Press r to refresh, q to quit."
			}
		} else {
			m.statusMsg = "Daemon is not running. Press s to start it."
			m.threads = nil
			m.groups = nil
			m.list.SetItems(nil)
		}

	case threadsLoadedMsg:
		m.loading = false
		m.err = nil
		m.threads = msg.threads
		if m.view == threadsView {
			items := make([]list.Item, 0, len(msg.threads))
			for _, t := range msg.threads {
				items = append(items, threadItem{t})
			}
			m.list.SetItems(items)
		}
		m.lastUpdated = time.Now()

	case groupsLoadedMsg:
		m.loading = false
		m.err = nil
		m.groups = msg.groups
		if m.view == groupsView {
			items := make([]list.Item, 0, len(msg.groups))
			for _, g := range msg.groups {
				items = append(items, groupItem{g})
			}
			m.list.SetItems(items)
		}
		m.lastUpdated = time.Now()

	case daemonStartedMsg:
		m.daemon = msg.handle
		m.statusMsg = "Daemon started."
		return m, tea.Batch(checkDaemonStatusCmd(m.controller), m.load())

	case errMsg:
		m.loading = false
		m.err = msg.err

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			m.loading = true
			return m, m.load()
		case "tab":
			if m.view == threadsView {
				m.view = groupsView
			} else {
				m.view = threadsView
			}
			m.list.Title = m.view.title()
			m.list.SetItems(nil)
			m.loading = true
			return m, m.load()
		case "s":
			if !m.daemonStatus.Running {
				m.statusMsg = "Starting daemon…"
				return m, startDaemonCmd(m.controller)
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	statusStyle := lipgloss.NewStyle().Bold(true)
	if !m.daemonStatus.Running {
		statusStyle = statusStyle.Foreground(lipgloss.Color("203"))
	} else {
		statusStyle = statusStyle.Foreground(lipgloss.Color("42"))
	}
	b.WriteString(statusStyle.Render(m.statusMsg))
	b.WriteByte('\n')

	if m.loading {
		fmt.Fprintf(&b, "Loading %s…\n", strings.ToLower(m.view.title()))
	} else if m.err != nil {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
		b.WriteString(errStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteByte('\n')
	}

	if len(m.list.Items()) == 0 && !m.loading && m.err == nil && m.daemonStatus.Running {
		fmt.Fprintf(&b, "No %s found.\n", strings.ToLower(m.view.title()))
	} else {
		b.WriteString(m.list.View())
		b.WriteByte('\n')
	}

	if detail := m.currentDetail(); detail != "" {
		detailStyle := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).MarginBottom(1)
		b.WriteString(detailStyle.Render(detail))
		b.WriteByte('\n')
	}

	help := "Commands: q quit • r reload • tab threads/groups • s start daemon"
	if !m.lastUpdated.IsZero() {
		help += fmt.Sprintf(" • last update %s", m.lastUpdated.Format(time.Kitchen))
	}
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	b.WriteString(helpStyle.Render(help))

	return b.String()
}

func (m *Model) currentDetail() string {
	idx := m.list.Index()
	switch m.view {
	case groupsView:
		if idx < 0 || idx >= len(m.groups) || len(m.list.Items()) == 0 {
			return ""
		}
		g := m.groups[idx]
		return fmt.Sprintf("group=%s\nparent=%s\ndestroyed=%t", g.Name, valueOrDash(g.Parent), g.Destroyed)
	default:
		if idx < 0 || idx >= len(m.threads) || len(m.list.Items()) == 0 {
			return ""
		}
		t := m.threads[idx]
		return fmt.Sprintf("id=%d\nname=%s\ngroup=%s", t.ID, valueOrDash(t.Name), valueOrDash(t.Group))
	}
}

// threadItem adapts app.Thread to the bubbles list item interface.
type threadItem struct{ app.Thread }

func (t threadItem) Title() string {
	return fmt.Sprintf("[id=%d] %s", t.ID, valueOrDash(t.Name))
}

func (t threadItem) Description() string {
	return "group=" + valueOrDash(t.Group)
}

func (t threadItem) FilterValue() string {
	return fmt.Sprintf("%d %s %s", t.ID, t.Name, t.Group)
}

type groupItem struct{ app.Group }

func (g groupItem) Title() string {
	if g.Destroyed {
		return g.Name + " (destroyed)"
	}
	return g.Name
}

func (g groupItem) Description() string {
	return "parent=" + valueOrDash(g.Parent)
}

func (g groupItem) FilterValue() string {
	return g.Name + " " + g.Parent
}

func valueOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

type daemonStatusMsg struct {
	status app.DaemonStatus
}

type threadsLoadedMsg struct {
	threads []app.Thread
}

type groupsLoadedMsg struct {
	groups []app.Group
}

type daemonStartedMsg struct {
	handle *app.DaemonHandle
}

type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

func checkDaemonStatusCmd(ctrl Controller) tea.Cmd {
	return func() tea.Msg {
		status, err := ctrl.Status()
		if err != nil {
			return errMsg{err}
		}
		return daemonStatusMsg{status: status}
	}
}

func loadThreadsCmd(ctrl Controller) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		threads, err := ctrl.Threads(ctx, app.ThreadsParams{Timeout: loadTimeout})
		if err != nil {
			return errMsg{err}
		}
		return threadsLoadedMsg{threads: threads}
	}
}

func loadGroupsCmd(ctrl Controller) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		groups, err := ctrl.Groups(ctx, app.GroupsParams{Timeout: loadTimeout})
		if err != nil {
			return errMsg{err}
		}
		return groupsLoadedMsg{groups: groups}
	}
}

func startDaemonCmd(ctrl Controller) tea.Cmd {
	return func() tea.Msg {
		handle, err := ctrl.StartDaemon()
		if err != nil {
			return errMsg{err}
		}
		return daemonStartedMsg{handle: handle}
	}
}
