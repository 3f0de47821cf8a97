package app

import (
	"context"
	"fmt"
	"time"

	v1 "threadscope/api/introspect/v1"
)

// Ping contacts the daemon and returns its health response.
func (a *App) Ping(ctx context.Context, timeout time.Duration) (string, error) {
	var ok string
	err := a.withClient(ctx, timeout, func(ctx context.Context, client v1.IntrospectionClient) error {
		resp, err := client.Ping(ctx, &v1.PingRequest{})
		if err != nil {
			return fmt.Errorf("daemon ping RPC failed: %w", err)
		}
		ok = resp.Ok
		return nil
	})
	return ok, err
}
