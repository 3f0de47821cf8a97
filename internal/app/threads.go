package app

import (
	"context"
	"fmt"
	"time"

	v1 "threadscope/api/introspect/v1"
)

// ThreadsParams selects threads by name and/or group name. Empty fields match everything.
type ThreadsParams struct {
	Name    string
	Group   string
	Timeout time.Duration
}

// Threads lists live threads in the daemon matching params.
func (a *App) Threads(ctx context.Context, params ThreadsParams) ([]Thread, error) {
	name, err := cleanFilter("name", params.Name)
	if err != nil {
		return nil, err
	}
	group, err := cleanFilter("group", params.Group)
	if err != nil {
		return nil, err
	}

	var out []Thread
	err = a.withClient(ctx, params.Timeout, func(ctx context.Context, client v1.IntrospectionClient) error {
		resp, err := client.ListThreads(ctx, &v1.ListThreadsRequest{Name: name, Group: group})
		if err != nil {
			return fmt.Errorf("daemon threads RPC failed: %w", err)
		}
		out = make([]Thread, 0, len(resp.Threads))
		for _, t := range resp.Threads {
			out = append(out, threadFromWire(t))
		}
		return nil
	})
	return out, err
}

// FindParams looks a thread up by id, optionally restricted to groups named Group.
type FindParams struct {
	ID      int64
	Group   string
	Timeout time.Duration
}

// FindThread returns the thread with params.ID, and false when none matched.
func (a *App) FindThread(ctx context.Context, params FindParams) (Thread, bool, error) {
	if err := validateThreadID(params.ID); err != nil {
		return Thread{}, false, err
	}
	group, err := cleanFilter("group", params.Group)
	if err != nil {
		return Thread{}, false, err
	}

	var (
		out   Thread
		found bool
	)
	err = a.withClient(ctx, params.Timeout, func(ctx context.Context, client v1.IntrospectionClient) error {
		resp, err := client.FindThread(ctx, &v1.FindThreadRequest{ID: params.ID, Group: group})
		if err != nil {
			return fmt.Errorf("daemon find RPC failed: %w", err)
		}
		if resp.Found && resp.Thread != nil {
			out, found = threadFromWire(*resp.Thread), true
		}
		return nil
	})
	return out, found, err
}
