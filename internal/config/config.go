// Package config loads daemon and CLI settings from defaults, an optional YAML
// file and THREADSCOPE_* environment variables, in increasing precedence.
package config

import (
	"fmt"
	"io"
	"net"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"threadscope/internal/logging"
)

const (
	// EnvPrefix is stripped from environment variables before mapping them to keys.
	EnvPrefix = "THREADSCOPE_"

	maxConfigFileSize = 1024 * 1024
)

// Config aggregates daemon and CLI settings.
type Config struct {
	SocketPath string     `koanf:"socket_path"`
	Log        Log        `koanf:"log"`
	Metrics    Metrics    `koanf:"metrics"`
	Dump       Dump       `koanf:"dump"`
	Workload   []Workload `koanf:"workload"`
}

type Log struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Metrics enables the Prometheus endpoint when Addr is set.
type Metrics struct {
	Addr string `koanf:"addr"`
}

// Dump holds the default target of tree dumps.
type Dump struct {
	Path string `koanf:"path"`
}

// Workload asks the daemon to park Threads idle goroutines in a group named
// Group, created under the first group named Parent (main when empty).
type Workload struct {
	Group   string `koanf:"group"`
	Parent  string `koanf:"parent"`
	Threads int    `koanf:"threads"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Log: Log{Level: "info", Format: "console"},
	}
}

// LoggingOptions adapts the log section for the logging package.
func (c Config) LoggingOptions() logging.Options {
	return logging.Options{Level: c.Log.Level, Format: c.Log.Format}
}

// Load builds a Config from defaults, the YAML file at path (skipped when path
// is empty) and environment overrides.
func Load(path string) (Config, error) {
	k := koanf.New(".")

	if path != "" {
		content, err := readFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("load config %s: %w", path, err)
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}
	return io.ReadAll(f)
}

// envKey maps THREADSCOPE_LOG_LEVEL to log.level. Variables outside the known
// sections are ignored.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if key == "socket_path" {
		return key
	}
	section, field, ok := strings.Cut(key, "_")
	if !ok {
		return ""
	}
	switch section {
	case "log", "metrics", "dump":
		return section + "." + field
	default:
		return ""
	}
}

// Validate rejects settings the daemon cannot run with.
func (c Config) Validate() error {
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "json", "console":
	default:
		return fmt.Errorf("invalid log format %q (allowed: json, console)", c.Log.Format)
	}
	if c.Metrics.Addr != "" {
		if _, _, err := net.SplitHostPort(c.Metrics.Addr); err != nil {
			return fmt.Errorf("invalid metrics addr %q: %w", c.Metrics.Addr, err)
		}
	}
	for i, w := range c.Workload {
		if strings.TrimSpace(w.Group) == "" {
			return fmt.Errorf("workload[%d]: group is required", i)
		}
		if w.Threads < 0 {
			return fmt.Errorf("workload[%d]: threads must not be negative", i)
		}
	}
	return nil
}
