package cmd

import (
	"fmt"

	"github.com/berrythewa/clipbridge/internal/common"
	"github.com/berrythewa/clipbridge/internal/config"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the clipbridge command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "clipbridge",
		Short: "Copies Rich Text Format documents onto the system clipboard",
		Long: `clipbridge is a small clipboard bridge for desktop host applications:
  • serves the setRtfClipboard method on a local method-call channel
  • places RTF text on the Windows clipboard under the "Rich Text Format" format
  • can be driven directly from the command line for scripting and debugging`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				logger.Sync()
			}
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is <user config dir>/clipbridge/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&socketPath, "socket", "", "method-call socket path (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "minimize output")

	// Add commands
	rootCmd.AddCommand(
		newServeCmd(),
		newSetRTFCmd(),
		newCallCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

// setup loads the configuration and builds the logger for a command run.
func setup() error {
	var err error

	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Override config with flags
	if socketPath != "" {
		cfg.Server.SocketPath = socketPath
	}

	logger, err = common.NewLogger(cfg.Log, common.LoggerOverrides{
		Verbose: verbose,
		Quiet:   quiet,
	})
	if err != nil {
		return fmt.Errorf("failed to setup logger: %w", err)
	}
	return nil
}
