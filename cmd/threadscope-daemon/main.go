package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"threadscope/internal/config"
	"threadscope/internal/daemon"
	"threadscope/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	force := flag.Bool("force", false, "Stop an existing daemon before starting")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger, err := logging.New(cfg.LoggingOptions())
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	socket := daemon.SocketPath(cfg.SocketPath)
	if daemon.IsRunning(socket) {
		if !*force {
			pid, err := daemon.RunningPID(socket)
			if err != nil {
				logger.Fatal("daemon appears running but pid check failed", zap.Error(err))
			}
			logger.Info("daemon is already running, use --force to restart", zap.Int("pid", pid))
			return
		}
		logger.Info("stopping existing daemon")
		if err := daemon.StopRunningDaemon(socket, true); err != nil {
			logger.Fatal("failed to stop running daemon", zap.Error(err))
		}
	}

	srv, err := daemon.StartDaemon(cfg, logger)
	if err != nil {
		logger.Fatal("failed to start daemon", zap.Error(err))
	}
	logger.Info("press Ctrl+C to stop", zap.Int("pid", os.Getpid()))

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info("stopping daemon")
	if err := srv.Close(); err != nil {
		logger.Fatal("error shutting down daemon", zap.Error(err))
	}
}
