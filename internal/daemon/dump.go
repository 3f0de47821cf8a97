package daemon

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"threadscope/internal/threads"
)

const dumpVersion = 1

var now = time.Now

// treeDump is the on-disk layout written by Dump.
type treeDump struct {
	Version int          `json:"version"`
	Created int64        `json:"created"`
	PID     int          `json:"pid"`
	Root    threads.Node `json:"root"`
}

// writeDump stores root at path, replacing any previous file atomically.
func writeDump(path string, root threads.Node) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(treeDump{
		Version: dumpVersion,
		Created: now().Unix(),
		PID:     os.Getpid(),
		Root:    root,
	}, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
