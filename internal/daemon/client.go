package daemon

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	v1 "threadscope/api/introspect/v1"

	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials/insecure"
)

// Dial opens a gRPC connection to the daemon listening on socket.
func Dial(ctx context.Context, socket string) (v1.IntrospectionClient, *grpc.ClientConn, error) {
	target := socketTarget(socket)
	conn, err := grpc.NewClient(
		target,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithContextDialer(unixDialer(socket)),
	)
	if err != nil {
		return nil, nil, err
	}
	conn.Connect()
	if err := waitForReady(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	return v1.NewIntrospectionClient(conn), conn, nil
}

func socketTarget(path string) string {
	if trimmed, ok := strings.CutPrefix(path, "/"); ok {
		return "unix:///" + trimmed
	}
	return "unix://" + path
}

func unixDialer(socket string) func(context.Context, string) (net.Conn, error) {
	return func(ctx context.Context, _ string) (net.Conn, error) {
		var d net.Dialer
		return d.DialContext(ctx, "unix", socket)
	}
}

func waitForReady(ctx context.Context, conn *grpc.ClientConn) error {
	for {
		switch state := conn.GetState(); state {
		case connectivity.Ready:
			return nil
		case connectivity.Shutdown:
			return errors.New("grpc connection is shut down")
		default:
			if !conn.WaitForStateChange(ctx, state) {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return fmt.Errorf("grpc connection stuck in state %s", state.String())
			}
		}
	}
}
