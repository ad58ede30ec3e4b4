// ====================================
// File: cmd/gaiad/main.go
// ====================================
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Ibxdevgh/gaia-main/internal/app"
	"github.com/Ibxdevgh/gaia-main/internal/config"
	"github.com/Ibxdevgh/gaia-main/internal/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.DebugLogging, cfg.LogFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting dashboard backend", zap.String("listen", cfg.Listen))

	runner := app.NewRunner(cfg, log)
	if err := runner.Run(context.Background()); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
