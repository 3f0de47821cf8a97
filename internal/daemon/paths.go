package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	v1 "threadscope/api/introspect/v1"
)

// SocketBaseName is the UNIX socket filename
const SocketBaseName = "threadscope.sock"

const (
	pidFileName  = "threadscope.pid"
	dumpFileName = "threadscope-tree.json"
)

// SocketPath returns the full path to the UNIX socket
// Order of precedence (first wins):
// 0) override, usually the socket_path config key
// 1) THREADSCOPE_SOCKET (absolute path to socket)
// 2) if runtime=linux:
//   - THREADSCOPE_RUNTIME_DIR or $XDG_RUNTIME_DIR or /run/user/<UID>
//     else (darwin, *bsd, etc):
//   - THREADSCOPE_RUNTIME_DIR or /tmp
func SocketPath(override string) string {
	if override != "" {
		return override
	}
	if explicit := os.Getenv("THREADSCOPE_SOCKET"); explicit != "" {
		return explicit
	}

	uid := currentUID()

	if rd := os.Getenv("THREADSCOPE_RUNTIME_DIR"); rd != "" {
		return filepath.Join(rd, SocketBaseName)
	}

	if runtime.GOOS == "linux" {
		if v := os.Getenv("XDG_RUNTIME_DIR"); v != "" {
			return filepath.Join(v, SocketBaseName)
		}
		return filepath.Join("/run/user", uid, SocketBaseName)
	}

	// keep it short to avoid the sun_path length limit
	return filepath.Join("/tmp", "threadscope-"+uid+".sock")
}

// EnsureRuntimeDir creates the directory holding the socket if it doesn't exist
func EnsureRuntimeDir(socket string) error {
	return os.MkdirAll(filepath.Dir(socket), 0o700)
}

// PIDPath returns the full path to the PID file next to socket
func PIDPath(socket string) string {
	return filepath.Join(filepath.Dir(socket), pidFileName)
}

// DefaultDumpPath is where Dump writes when neither request nor config names a file.
func DefaultDumpPath(socket string) string {
	return filepath.Join(filepath.Dir(socket), dumpFileName)
}

// WritePID stores the provided pid into the pid file
func WritePID(socket string, pid int) error {
	if err := EnsureRuntimeDir(socket); err != nil {
		return err
	}
	return os.WriteFile(PIDPath(socket), []byte(fmt.Sprintf("%d\n", pid)), 0o600)
}

// RemovePID removes the pid file if it exists
func RemovePID(socket string) error {
	if err := os.Remove(PIDPath(socket)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// RunningPID returns the pid stored in the pid file if any
func RunningPID(socket string) (int, error) {
	data, err := os.ReadFile(PIDPath(socket))
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}

// IsRunning pings the daemon over gRPC and reports whether it answered.
func IsRunning(socket string) bool {
	if _, err := os.Stat(socket); err != nil {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	client, conn, err := Dial(ctx, socket)
	if err != nil {
		return false
	}
	defer conn.Close()

	_, err = client.Ping(ctx, &v1.PingRequest{})
	return err == nil
}

func currentUID() string {
	u, err := user.Current()
	if err == nil && u != nil && u.Uid != "" {
		return u.Uid
	}
	return "0"
}
