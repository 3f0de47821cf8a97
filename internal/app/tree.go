package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	v1 "threadscope/api/introspect/v1"
	"threadscope/internal/threads"
)

// Tree fetches the daemon's full group tree.
func (a *App) Tree(ctx context.Context, timeout time.Duration) (threads.Node, error) {
	var root threads.Node
	err := a.withClient(ctx, timeout, func(ctx context.Context, client v1.IntrospectionClient) error {
		resp, err := client.Tree(ctx, &v1.TreeRequest{})
		if err != nil {
			return fmt.Errorf("daemon tree RPC failed: %w", err)
		}
		root = resp.Root
		return nil
	})
	return root, err
}

// Dump asks the daemon to write its tree to path, or to its default location
// when path is empty, and returns the file written.
func (a *App) Dump(ctx context.Context, path string, timeout time.Duration) (string, error) {
	if path != "" && strings.TrimSpace(path) == "" {
		return "", errDumpPathBlank
	}

	var written string
	err := a.withClient(ctx, timeout, func(ctx context.Context, client v1.IntrospectionClient) error {
		resp, err := client.Dump(ctx, &v1.DumpRequest{Path: path})
		if err != nil {
			return fmt.Errorf("daemon dump RPC failed: %w", err)
		}
		written = resp.Path
		return nil
	})
	return written, err
}
