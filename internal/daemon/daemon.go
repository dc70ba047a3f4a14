package daemon

import (
	"context"
	"fmt"

	"github.com/berrythewa/clipbridge/internal/bridge"
	"github.com/berrythewa/clipbridge/internal/config"
	"github.com/berrythewa/clipbridge/internal/ipc"
	"go.uber.org/zap"
)

// NewHandler builds the method-call router: the bridge registered on the
// configured channel.
func NewHandler(cfg *config.Config, clipboard bridge.RTFWriter, logger *zap.Logger) *ipc.Mux {
	b := bridge.New(cfg.Server.Channel, clipboard, logger)
	mux := ipc.NewMux(b.Channel())
	mux.Handle(b.Channel(), b)
	return mux
}

// Run serves method calls for the bridge until ctx is cancelled.
func Run(ctx context.Context, cfg *config.Config, clipboard bridge.RTFWriter, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	server := ipc.NewServer(NewHandler(cfg, clipboard, logger), ipc.ServerOptions{
		SocketPath:      cfg.Server.SocketPath,
		MaxRequestBytes: cfg.Server.MaxRequestBytes,
		Logger:          logger,
	})

	logger.Info("Starting clipboard bridge",
		zap.String("channel", cfg.Server.Channel),
		zap.String("socket", server.SocketPath()))

	if err := server.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("method-call server: %w", err)
	}

	logger.Info("Clipboard bridge stopped")
	return nil
}
