package main

import (
	"flag"
	"fmt"
	"os"

	"pointerkit/internal/app"
	"pointerkit/internal/config"
	"pointerkit/internal/logging"
)

func main() {
	configPath := flag.String("config", "pointerkit.yaml", "path to the YAML config (missing file uses defaults)")
	flag.Parse()

	log := logging.New(os.Stderr, logging.PriorityInfo)
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pointerdemo: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.ApplyLogging(log); err != nil {
		log.Msgf(logging.CategorySystem, logging.PriorityWarn, "log config: %v", err)
	}

	application := app.New(cfg, *configPath, log)
	if err := application.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "pointerdemo failed: %v\n", err)
		os.Exit(1)
	}
}
