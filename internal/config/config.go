// File: internal/config/config.go

package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/berrythewa/clipbridge/internal/bridge"
	"github.com/berrythewa/clipbridge/internal/ipc"
	"github.com/natefinch/atomic"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// ConfigPaths holds all relevant paths for the application
type ConfigPaths struct {
	BaseDir      string // Base directory for all config files
	ActiveConfig string // Path to active config file
}

// Config holds all application configuration
type Config struct {
	// Logging configuration
	Log LogConfig `json:"log" yaml:"log"`

	// Method-call server configuration
	Server ServerConfig `json:"server" yaml:"server"`
}

// LogConfig holds logging-related configuration
type LogConfig struct {
	Level       string   `json:"level" yaml:"level"`   // debug, info, warn, error
	Format      string   `json:"format" yaml:"format"` // "json" or "console"
	OutputPaths []string `json:"output_paths" yaml:"output_paths"`
}

// ServerConfig holds configuration for the method-call server
type ServerConfig struct {
	SocketPath      string `json:"socket_path" yaml:"socket_path"`
	Channel         string `json:"channel" yaml:"channel"`
	MaxRequestBytes int64  `json:"max_request_bytes" yaml:"max_request_bytes"`
}

// getConfigDir is a variable so tests can redirect it.
var getConfigDir = defaultConfigDir

func defaultConfigDir() (string, error) {
	// First check environment variable for base directory
	if dir := os.Getenv("CLIPBRIDGE_CONFIG_DIR"); dir != "" {
		return dir, nil
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}

	// Use different paths for different OSes
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(configDir, "ClipBridge"), nil
	case "darwin":
		return filepath.Join(configDir, "com.berrythewa.clipbridge"), nil
	default: // Linux and others
		return filepath.Join(configDir, "clipbridge"), nil
	}
}

// GetConfigPaths returns the platform-specific configuration paths
func GetConfigPaths() (*ConfigPaths, error) {
	baseDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config directory: %w", err)
	}
	return &ConfigPaths{
		BaseDir:      baseDir,
		ActiveConfig: filepath.Join(baseDir, "config.yaml"),
	}, nil
}

// GetActiveConfigPath returns the path to the currently active config
func GetActiveConfigPath() (string, error) {
	paths, err := GetConfigPaths()
	if err != nil {
		return "", err
	}
	return paths.ActiveConfig, nil
}

// DefaultConfig returns a new Config with default values
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:       "info",
			Format:      "json",
			OutputPaths: []string{"stderr"},
		},
		Server: ServerConfig{
			SocketPath:      ipc.DefaultSocketPath(),
			Channel:         bridge.DefaultChannel,
			MaxRequestBytes: ipc.DefaultMaxRequestBytes,
		},
	}
}

// Load loads the configuration from the specified file or creates default if not exists
func Load(configPath string) (*Config, error) {
	// If no config path provided, use default
	if configPath == "" {
		var err error
		configPath, err = GetActiveConfigPath()
		if err != nil {
			return nil, err
		}
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// Create default config if it doesn't exist
		if err := cfg.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		// Unset keys keep their defaults
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Override with environment variables
	if err := overrideFromEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configPath, err)
	}
	return cfg, nil
}

// Save writes the configuration to the specified file atomically
func (c *Config) Save(configPath string) error {
	// Ensure the directory exists
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := atomic.WriteFile(configPath, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format: unknown format %q (want json or console)", c.Log.Format)
	}
	if strings.TrimSpace(c.Server.SocketPath) == "" {
		return errors.New("server.socket_path must not be empty")
	}
	if strings.TrimSpace(c.Server.Channel) == "" {
		return errors.New("server.channel must not be empty")
	}
	if c.Server.MaxRequestBytes <= 0 {
		return fmt.Errorf("server.max_request_bytes must be positive, got %d", c.Server.MaxRequestBytes)
	}
	return nil
}

// overrideFromEnv overrides configuration values from environment variables
func overrideFromEnv(config *Config) error {
	if val := os.Getenv("CLIPBRIDGE_LOG_LEVEL"); val != "" {
		config.Log.Level = val
	}
	if val := os.Getenv("CLIPBRIDGE_LOG_FORMAT"); val != "" {
		config.Log.Format = val
	}
	if val := os.Getenv("CLIPBRIDGE_SOCKET"); val != "" {
		config.Server.SocketPath = val
	}
	if val := os.Getenv("CLIPBRIDGE_CHANNEL"); val != "" {
		config.Server.Channel = val
	}
	if val := os.Getenv("CLIPBRIDGE_MAX_REQUEST_BYTES"); val != "" {
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return fmt.Errorf("CLIPBRIDGE_MAX_REQUEST_BYTES: %w", err)
		}
		config.Server.MaxRequestBytes = n
	}
	return nil
}
