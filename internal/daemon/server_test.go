package daemon

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "threadscope/api/introspect/v1"
	"threadscope/internal/config"
)

// shortSocket keeps the path below the sun_path limit.
func shortSocket(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "ts")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	return filepath.Join(dir, SocketBaseName)
}

func TestSocketPathPrecedence(t *testing.T) {
	t.Setenv("THREADSCOPE_SOCKET", "/tmp/env.sock")
	t.Setenv("THREADSCOPE_RUNTIME_DIR", "/tmp/rt")
	assert.Equal(t, "/tmp/cfg.sock", SocketPath("/tmp/cfg.sock"))
	assert.Equal(t, "/tmp/env.sock", SocketPath(""))

	t.Setenv("THREADSCOPE_SOCKET", "")
	assert.Equal(t, filepath.Join("/tmp/rt", SocketBaseName), SocketPath(""))
	assert.Equal(t, filepath.Join("/tmp/rt", pidFileName), PIDPath(SocketPath("")))
	assert.Equal(t, filepath.Join("/tmp/rt", dumpFileName), DefaultDumpPath(SocketPath("")))
}

func TestPIDFile(t *testing.T) {
	socket := shortSocket(t)

	_, err := RunningPID(socket)
	assert.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, WritePID(socket, 4242))
	pid, err := RunningPID(socket)
	require.NoError(t, err)
	assert.Equal(t, 4242, pid)

	require.NoError(t, RemovePID(socket))
	require.NoError(t, RemovePID(socket), "removing twice is fine")
}

func TestStartDaemonServesItself(t *testing.T) {
	socket := shortSocket(t)
	cfg := config.Default()
	cfg.SocketPath = socket
	cfg.Workload = []config.Workload{
		{Group: "pool", Threads: 2},
		{Group: "io", Parent: "pool", Threads: 1},
	}

	srv, err := StartDaemon(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })

	assert.True(t, IsRunning(socket))
	pid, err := RunningPID(socket)
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), pid)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client, conn, err := Dial(ctx, socket)
	require.NoError(t, err)
	defer conn.Close()

	serving, err := client.ListThreads(ctx, &v1.ListThreadsRequest{Name: "grpc-serve"})
	require.NoError(t, err)
	require.Len(t, serving.Threads, 1)
	assert.Equal(t, DaemonGroupName, serving.Threads[0].Group)

	pool, err := client.ListThreads(ctx, &v1.ListThreadsRequest{Group: "pool"})
	require.NoError(t, err)
	assert.Len(t, pool.Threads, 3)

	groups, err := client.ListGroups(ctx, &v1.ListGroupsRequest{Name: "io"})
	require.NoError(t, err)
	assert.Equal(t, []v1.Group{{Name: "io", Parent: "pool"}}, groups.Groups)

	_, err = StartDaemon(cfg, nil)
	assert.Error(t, err, "second daemon on the same socket")

	require.NoError(t, srv.Close())
	_, err = os.Stat(socket)
	assert.ErrorIs(t, err, os.ErrNotExist)
	_, err = os.Stat(PIDPath(socket))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.False(t, IsRunning(socket))
}

func TestStartDaemonRejectsUnknownParent(t *testing.T) {
	cfg := config.Default()
	cfg.SocketPath = shortSocket(t)
	cfg.Workload = []config.Workload{{Group: "orphans", Parent: "nowhere", Threads: 1}}

	_, err := StartDaemon(cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nowhere")
	_, statErr := os.Stat(cfg.SocketPath)
	assert.ErrorIs(t, statErr, os.ErrNotExist)
}
