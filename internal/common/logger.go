package common

import (
	"github.com/berrythewa/clipbridge/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerOverrides adjusts the configured level from command-line switches.
type LoggerOverrides struct {
	Verbose bool // force debug level and development-style output
	Quiet   bool // raise the level to warn
}

// NewLogger creates a new logger instance
func NewLogger(cfg config.LogConfig, overrides LoggerOverrides) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	switch {
	case overrides.Verbose:
		level = zapcore.DebugLevel
	case overrides.Quiet && level < zapcore.WarnLevel:
		level = zapcore.WarnLevel
	}

	encoding := cfg.Format
	if encoding == "" || overrides.Verbose {
		encoding = "console"
	}

	outputs := cfg.OutputPaths
	if len(outputs) == 0 {
		outputs = []string{"stderr"}
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if encoding == "console" {
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	zcfg := zap.Config{
		Level:       zap.NewAtomicLevelAt(level),
		Development: overrides.Verbose,
		Sampling: &zap.SamplingConfig{
			Initial:    100,
			Thereafter: 100,
		},
		Encoding:         encoding,
		EncoderConfig:    encoderConfig,
		OutputPaths:      outputs,
		ErrorOutputPaths: []string{"stderr"},
	}

	return zcfg.Build()
}
