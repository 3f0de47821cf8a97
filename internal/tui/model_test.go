package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"threadscope/internal/app"
)

type fakeController struct {
	status  app.DaemonStatus
	threads []app.Thread
	groups  []app.Group
	err     error
	started int
}

func (f *fakeController) Status() (app.DaemonStatus, error) { return f.status, nil }

func (f *fakeController) StartDaemon() (*app.DaemonHandle, error) {
	f.started++
	f.status.Running = true
	return nil, f.err
}

func (f *fakeController) Threads(context.Context, app.ThreadsParams) ([]app.Thread, error) {
	return f.threads, f.err
}

func (f *fakeController) Groups(context.Context, app.GroupsParams) ([]app.Group, error) {
	return f.groups, f.err
}

func TestThreadsLoaded(t *testing.T) {
	ctrl := &fakeController{
		status:  app.DaemonStatus{Running: true, PID: 42},
		threads: []app.Thread{{ID: 1, Name: "grpc-serve", Group: "daemon"}},
	}
	m := New(ctrl)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m.Update(checkDaemonStatusCmd(ctrl)())
	m.Update(loadThreadsCmd(ctrl)())

	if m.loading {
		t.Fatal("expected loading to finish")
	}
	if len(m.list.Items()) != 1 {
		t.Fatalf("expected one item, got %d", len(m.list.Items()))
	}
	out := m.View()
	if !strings.Contains(out, "pid 42") || !strings.Contains(out, "group=daemon") {
		t.Fatalf("unexpected view:\n%s", out)
	}
}

func TestTabSwitchesToGroups(t *testing.T) {
	ctrl := &fakeController{
		status: app.DaemonStatus{Running: true},
		groups: []app.Group{{Name: "main", Parent: "system"}, {Name: "daemon", Parent: "main"}},
	}
	m := New(ctrl)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m.Update(checkDaemonStatusCmd(ctrl)())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.view != groupsView || m.list.Title != "Groups" {
		t.Fatalf("expected groups view, got %v %q", m.view, m.list.Title)
	}
	if cmd == nil {
		t.Fatal("expected a load command")
	}
	m.Update(loadGroupsCmd(ctrl)())
	if len(m.list.Items()) != 2 {
		t.Fatalf("expected two groups, got %d", len(m.list.Items()))
	}
	if !strings.Contains(m.View(), "parent=system") {
		t.Fatalf("expected group detail in view:\n%s", m.View())
	}

	// threads arriving late must not replace the groups list
	m.Update(threadsLoadedMsg{threads: []app.Thread{{ID: 1}}})
	if len(m.list.Items()) != 2 {
		t.Fatalf("expected groups to stay, got %d items", len(m.list.Items()))
	}
}

func TestStartDaemonKey(t *testing.T) {
	ctrl := &fakeController{}
	m := New(ctrl)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m.Update(checkDaemonStatusCmd(ctrl)())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	if cmd == nil {
		t.Fatal("expected start command")
	}
	if _, ok := cmd().(daemonStartedMsg); !ok {
		t.Fatal("expected daemonStartedMsg")
	}
	if ctrl.started != 1 {
		t.Fatalf("expected one start, got %d", ctrl.started)
	}
}

func TestLoadErrorShown(t *testing.T) {
	ctrl := &fakeController{status: app.DaemonStatus{Running: true}, err: errors.New("daemon is not running")}
	m := New(ctrl)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m.Update(loadThreadsCmd(ctrl)())
	if !strings.Contains(m.View(), "Error: daemon is not running") {
		t.Fatalf("expected error in view:\n%s", m.View())
	}
}
