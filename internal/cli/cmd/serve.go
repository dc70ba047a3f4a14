package cmd

import (
	"github.com/berrythewa/clipbridge/internal/daemon"
	"github.com/berrythewa/clipbridge/internal/platform"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the clipboard channel",
		Long: `Serve the clipboard method-call channel on the local socket until
interrupted. The host application connects to the socket and calls
setRtfClipboard with {"rtf": "<document>"}.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return daemon.Run(cmd.Context(), cfg, platform.NewRTFClipboard(logger), logger)
		},
	}
}
