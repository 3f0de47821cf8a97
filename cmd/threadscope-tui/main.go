package main

import (
	"flag"
	"log"

	"threadscope/internal/app"
	"threadscope/internal/config"
	"threadscope/internal/tui"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	controller := app.New(app.Options{ConfigPath: *configPath, Config: cfg})
	if err := tui.Run(controller); err != nil {
		log.Fatalf("tui exited with error: %v", err)
	}
}
