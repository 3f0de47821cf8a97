package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	v1 "threadscope/api/introspect/v1"
	"threadscope/internal/daemon"
)

var (
	daemonIsRunning  = daemon.IsRunning
	dialDaemonClient = dialSocket
)

func dialSocket(ctx context.Context, socket string) (v1.IntrospectionClient, io.Closer, error) {
	client, conn, err := daemon.Dial(ctx, socket)
	if err != nil {
		return nil, nil, err
	}
	return client, conn, nil
}

func resetDaemonDeps() {
	daemonIsRunning = daemon.IsRunning
	dialDaemonClient = dialSocket
}

func (a *App) withClient(ctx context.Context, timeout time.Duration, fn func(context.Context, v1.IntrospectionClient) error) error {
	if timeout <= 0 {
		return errors.New("timeout must be greater than 0")
	}
	socket := a.SocketPath()
	if !daemonIsRunning(socket) {
		return errors.New("daemon is not running")
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, conn, err := dialDaemonClient(ctx, socket)
	if err != nil {
		return fmt.Errorf("connect to daemon: %w", err)
	}
	if conn != nil {
		defer conn.Close()
	}

	return fn(ctx, client)
}
