package app

import (
	"errors"
	"fmt"
	"strings"

	v1 "threadscope/api/introspect/v1"
)

// Thread mirrors a live thread reported by the daemon.
type Thread struct {
	ID    int64
	Name  string
	Group string
}

func threadFromWire(t v1.Thread) Thread {
	return Thread{ID: t.ID, Name: t.Name, Group: t.Group}
}

// Group mirrors a thread group reported by the daemon.
type Group struct {
	Name      string
	Parent    string
	Destroyed bool
}

func groupFromWire(g v1.Group) Group {
	return Group{Name: g.Name, Parent: g.Parent, Destroyed: g.Destroyed}
}

// cleanFilter trims a name filter. Empty means unset; blank is rejected.
func cleanFilter(kind, raw string) (string, error) {
	if raw == "" {
		return "", nil
	}
	clean := strings.TrimSpace(raw)
	if clean == "" {
		return "", fmt.Errorf("%s filter must not be blank", kind)
	}
	return clean, nil
}

func validateThreadID(id int64) error {
	if id <= 0 {
		return fmt.Errorf("thread id must be positive, got %d", id)
	}
	return nil
}

var errDumpPathBlank = errors.New("dump path must not be blank")
