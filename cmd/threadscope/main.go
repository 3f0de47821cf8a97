package main

import (
	"context"
	"log"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"threadscope/internal/app"
	"threadscope/internal/config"
	"threadscope/internal/logging"
	"threadscope/internal/threads"
)

var (
	configPath string
	cfg        = config.Default()
	logger     = zap.NewNop()
)

// controllerAPI is the part of app.App the commands use.
type controllerAPI interface {
	Ping(ctx context.Context, timeout time.Duration) (string, error)
	Threads(ctx context.Context, params app.ThreadsParams) ([]app.Thread, error)
	Groups(ctx context.Context, params app.GroupsParams) ([]app.Group, error)
	FindThread(ctx context.Context, params app.FindParams) (app.Thread, bool, error)
	Tree(ctx context.Context, timeout time.Duration) (threads.Node, error)
	Dump(ctx context.Context, path string, timeout time.Duration) (string, error)
	Status() (app.DaemonStatus, error)
	StopDaemon(force bool) error
	StartDaemon() (*app.DaemonHandle, error)
}

var controllerFactory = func() controllerAPI {
	return app.New(app.Options{ConfigPath: configPath, Config: cfg, Logger: logger})
}

func controller() controllerAPI {
	return controllerFactory()
}

var rootCmd = &cobra.Command{
	Use:           "threadscope [command]",
	Short:         "threadscope: goroutine group inspector",
	Long:          `threadscope runs a daemon whose goroutines are tracked in named groups and lets you list, find and dump them.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		l, err := logging.New(cfg.LoggingOptions())
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to YAML config file")
}

func main() {
	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		log.Fatal(err)
	}
}
