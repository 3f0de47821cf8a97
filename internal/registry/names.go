package registry

import (
	"fmt"
	"strings"
	"unicode"
)

const maxNameLen = 64

// nameKind says what a name labels, for error messages.
type nameKind string

const (
	groupName  nameKind = "group"
	threadName nameKind = "thread"
)

// normalizeName trims raw and checks it is usable as a thread or group label.
// Errors wrap ErrInvalidName.
func normalizeName(kind nameKind, raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", fmt.Errorf("%w: %s name must not be empty", ErrInvalidName, kind)
	}
	if n := len([]rune(name)); n > maxNameLen {
		return "", fmt.Errorf("%w: %s name %q has %d characters, limit is %d", ErrInvalidName, kind, name, n, maxNameLen)
	}
	for _, r := range name {
		if !isAllowedNameRune(r) {
			return "", fmt.Errorf("%w: %s name %q contains %q (use letters, digits, '.', '-' or '_')", ErrInvalidName, kind, name, r)
		}
	}
	return name, nil
}

func isAllowedNameRune(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return true
	}
	switch r {
	case '-', '_', '.':
		return true
	default:
		return false
	}
}
