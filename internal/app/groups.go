package app

import (
	"context"
	"fmt"
	"time"

	v1 "threadscope/api/introspect/v1"
)

// GroupsParams filters groups by name when Name is set.
type GroupsParams struct {
	Name    string
	Timeout time.Duration
}

// Groups lists the daemon's groups below the system group.
func (a *App) Groups(ctx context.Context, params GroupsParams) ([]Group, error) {
	name, err := cleanFilter("name", params.Name)
	if err != nil {
		return nil, err
	}

	var out []Group
	err = a.withClient(ctx, params.Timeout, func(ctx context.Context, client v1.IntrospectionClient) error {
		resp, err := client.ListGroups(ctx, &v1.ListGroupsRequest{Name: name})
		if err != nil {
			return fmt.Errorf("daemon groups RPC failed: %w", err)
		}
		out = make([]Group, 0, len(resp.Groups))
		for _, g := range resp.Groups {
			out = append(out, groupFromWire(g))
		}
		return nil
	})
	return out, err
}
