package cmd

import (
	"github.com/berrythewa/clipbridge/internal/config"
	"go.uber.org/zap"
)

// Shared variables across all commands
var (
	cfg    *config.Config
	logger *zap.Logger

	// Global flags
	cfgFile    string
	socketPath string
	verbose    bool
	quiet      bool
)

// Version information - set by main
var (
	version   = "dev"
	buildTime = "unknown"
	commit    = "none"
)

// SetVersionInfo allows setting version info from outside
func SetVersionInfo(v, bt, c string) {
	version = v
	buildTime = bt
	commit = c
}
