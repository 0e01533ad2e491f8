package main

import (
	"os"

	"github.com/ln64-git/edgelight/src/cli"
	"github.com/ln64-git/edgelight/src/config"
	desktopmonitor "github.com/ln64-git/edgelight/src/features/desktop-monitor"
	globalhotkey "github.com/ln64-git/edgelight/src/features/global-hotkey"
	"github.com/ln64-git/edgelight/src/features/hotkey"
	"github.com/ln64-git/edgelight/src/utility"
)

func main() {
	logger := utility.NewLogger("cli", utility.INFO)

	cfg, err := config.Load()
	if err != nil {
		logger.Warn("Failed to load config: %v, using defaults", err)
		cfg = config.Default()
	}
	if cfg.LogMode != "cli" {
		logger.Close()
		logger = utility.NewLogger(cfg.LogMode, utility.INFO)
	}
	logger.SetLevel(utility.ParseLevel(string(cfg.LogLevel)))
	defer logger.Close()

	enumerator, err := desktopmonitor.NewEnumerator(desktopmonitor.Backend(cfg.DisplayBackend), logger)
	if err != nil {
		logger.Warn("Display backend %s unavailable: %v, using auto", cfg.DisplayBackend, err)
		enumerator, _ = desktopmonitor.NewEnumerator(desktopmonitor.BackendAuto, logger)
	}

	platforms := func(fire func(int)) hotkey.Platform {
		return globalhotkey.New(fire)
	}

	if err := cli.NewCLI(logger, cfg, enumerator, platforms).CreateCommands().Execute(); err != nil {
		logger.Error("Error: %v", err)
		logger.Close()
		os.Exit(1)
	}
}
