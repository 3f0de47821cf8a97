package app

import (
	"go.uber.org/zap"

	"threadscope/internal/config"
	"threadscope/internal/daemon"
)

// Options configures the top-level controller.
type Options struct {
	// ConfigPath points to the optional config file Config was loaded from.
	ConfigPath string
	Config     config.Config
	Logger     *zap.Logger
}

// App exposes high-level operations that the CLI/TUI can reuse.
type App struct {
	cfgPath string
	cfg     config.Config
	log     *zap.Logger
}

// New constructs the shared controller facade.
func New(opts Options) *App {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &App{
		cfgPath: opts.ConfigPath,
		cfg:     opts.Config,
		log:     log,
	}
}

// ConfigPath returns the configured config file path (if any).
func (a *App) ConfigPath() string {
	return a.cfgPath
}

// SocketPath returns the daemon socket this controller talks to.
func (a *App) SocketPath() string {
	return daemon.SocketPath(a.cfg.SocketPath)
}
