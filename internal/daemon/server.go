package daemon

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	v1 "threadscope/api/introspect/v1"
	"threadscope/internal/config"
	"threadscope/internal/metrics"
	"threadscope/internal/registry"
	"threadscope/internal/threads"
)

// DaemonGroupName is the group holding the daemon's own serving goroutines.
const DaemonGroupName = "daemon"

const shutdownTimeout = 3 * time.Second

// Server is a running introspection daemon. Its serving goroutines live in the
// registry it exposes, so clients see the daemon itself.
type Server struct {
	socket string
	log    *zap.Logger

	reg    *registry.Registry
	insp   *threads.Inspector
	ln     net.Listener
	grpc   *grpc.Server
	http   *http.Server
	cancel context.CancelFunc

	closeOnce sync.Once
	closeErr  error
}

// StartDaemon binds the UNIX socket, writes the pid file and starts serving.
func StartDaemon(cfg config.Config, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}
	socket := SocketPath(cfg.SocketPath)
	if err := EnsureRuntimeDir(socket); err != nil {
		return nil, fmt.Errorf("create runtime dir: %w", err)
	}

	// If stale socket file exists but daemon is not running, remove it
	if _, err := os.Stat(socket); err == nil {
		if IsRunning(socket) {
			return nil, fmt.Errorf("daemon already running on %s", socket)
		}
		if err := os.Remove(socket); err != nil {
			return nil, err
		}
	}

	ln, err := net.Listen("unix", socket)
	if err != nil {
		return nil, err
	}
	if err := os.Chmod(socket, 0o600); err != nil {
		ln.Close()
		return nil, err
	}

	promReg := prometheus.NewRegistry()
	m := metrics.New(promReg)
	reg := registry.New(registry.WithLogger(log.Named("registry")))
	insp := threads.New(reg, threads.WithLogger(log.Named("threads")), threads.WithMetrics(m))

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		socket: socket,
		log:    log,
		reg:    reg,
		insp:   insp,
		ln:     ln,
		cancel: cancel,
	}

	dumpPath := cfg.Dump.Path
	if dumpPath == "" {
		dumpPath = DefaultDumpPath(socket)
	}
	s.grpc = grpc.NewServer(grpc.UnaryInterceptor(observeRPC(m, log)))
	v1.RegisterIntrospectionServer(s.grpc, newService(insp, dumpPath, log.Named("service")))

	if err := s.start(ctx, cfg, promReg); err != nil {
		_ = s.Close()
		return nil, err
	}
	if err := WritePID(socket, os.Getpid()); err != nil {
		_ = s.Close()
		return nil, err
	}
	log.Info("daemon started", zap.String("socket", socket), zap.Int("pid", os.Getpid()))
	return s, nil
}

func (s *Server) start(ctx context.Context, cfg config.Config, gatherer prometheus.Gatherer) error {
	group, err := s.reg.NewGroup(nil, DaemonGroupName)
	if err != nil {
		return err
	}

	if _, err := s.reg.Go(ctx, group, "grpc-serve", func(context.Context) {
		if err := s.grpc.Serve(s.ln); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			s.log.Error("grpc serve failed", zap.Error(err))
		}
	}); err != nil {
		return err
	}

	if cfg.Metrics.Addr != "" {
		mln, err := net.Listen("tcp", cfg.Metrics.Addr)
		if err != nil {
			return fmt.Errorf("listen metrics %s: %w", cfg.Metrics.Addr, err)
		}
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
		s.http = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		if _, err := s.reg.Go(ctx, group, "metrics-http", func(context.Context) {
			if err := s.http.Serve(mln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.log.Error("metrics serve failed", zap.Error(err))
			}
		}); err != nil {
			mln.Close()
			return err
		}
		s.log.Info("metrics listening", zap.String("addr", mln.Addr().String()))
	}

	return s.startWorkload(ctx, cfg.Workload)
}

// startWorkload parks idle goroutines in the configured groups until ctx ends.
func (s *Server) startWorkload(ctx context.Context, workload []config.Workload) error {
	for _, w := range workload {
		parent := s.reg.Main()
		if w.Parent != "" {
			groups, err := s.insp.GroupsByName(ctx, w.Parent)
			if err != nil {
				return err
			}
			if len(groups) == 0 {
				return fmt.Errorf("workload %q: parent group %q not found", w.Group, w.Parent)
			}
			parent = groups[0].(*registry.Group)
		}
		group, err := s.reg.NewGroup(parent, w.Group)
		if err != nil {
			return fmt.Errorf("workload %q: %w", w.Group, err)
		}
		for i := 0; i < w.Threads; i++ {
			name := fmt.Sprintf("%s-%d", w.Group, i+1)
			if _, err := s.reg.Go(ctx, group, name, func(ctx context.Context) { <-ctx.Done() }); err != nil {
				return fmt.Errorf("workload %q: %w", w.Group, err)
			}
		}
		s.log.Debug("workload started", zap.String("group", w.Group), zap.Int("threads", w.Threads))
	}
	return nil
}

// Socket returns the path the daemon listens on.
func (s *Server) Socket() string { return s.socket }

// Registry returns the registry the daemon serves.
func (s *Server) Registry() *registry.Registry { return s.reg }

// Close stops serving, waits for the daemon's goroutines and unlinks the socket and pid file.
func (s *Server) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()
		s.grpc.GracefulStop()
		if s.http != nil {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			if err := s.http.Shutdown(ctx); err != nil {
				s.log.Warn("metrics shutdown", zap.Error(err))
			}
			cancel()
		}
		s.reg.Wait()

		if err := os.Remove(s.socket); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.closeErr = err
			return
		}
		s.closeErr = RemovePID(s.socket)
		s.log.Info("daemon stopped", zap.String("socket", s.socket))
	})
	return s.closeErr
}

func observeRPC(m *metrics.Metrics, log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		code := status.Code(err)
		m.ObserveRPC(path.Base(info.FullMethod), code.String())
		log.Debug("rpc",
			zap.String("method", info.FullMethod),
			zap.Stringer("code", code),
			zap.Duration("elapsed", time.Since(start)),
		)
		return resp, err
	}
}

// StopRunningDaemon sends a termination signal to the daemon listening on socket, if any.
func StopRunningDaemon(socket string, force bool) error {
	pid, err := RunningPID(socket)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if IsRunning(socket) {
				return fmt.Errorf("daemon is running but PID file %q is missing; stop it manually", PIDPath(socket))
			}
			return nil
		}
		return fmt.Errorf("unable to read daemon PID: %w", err)
	}
	if pid == os.Getpid() {
		return errors.New("refusing to stop current process")
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	if err := sendSignal(socket, proc, syscall.SIGTERM); err != nil {
		return err
	}
	if waitForShutdown(socket, 3*time.Second) {
		return nil
	}
	if !force {
		return fmt.Errorf("daemon process %d did not exit after SIGTERM", pid)
	}
	if err := sendSignal(socket, proc, syscall.SIGKILL); err != nil {
		return err
	}
	if waitForShutdown(socket, 2*time.Second) {
		return nil
	}
	return fmt.Errorf("daemon process %d did not exit after SIGKILL", pid)
}

func sendSignal(socket string, proc *os.Process, sig syscall.Signal) error {
	if err := proc.Signal(sig); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			_ = RemovePID(socket)
			return nil
		}
		return err
	}
	return nil
}

func waitForShutdown(socket string, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		if !IsRunning(socket) {
			_ = RemovePID(socket)
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(100 * time.Millisecond)
	}
}
