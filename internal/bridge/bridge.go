// Package bridge answers method calls from the host application on the
// clipboard channel. It recognizes a single method, setRtfClipboard, which
// replaces the system clipboard with an RTF payload.
package bridge

import (
	"errors"
	"fmt"

	"github.com/berrythewa/clipbridge/internal/ipc"
	"go.uber.org/zap"
)

const (
	// DefaultChannel is the channel name the host application calls.
	DefaultChannel = "beyond_horizon_calc/clipboard"

	MethodSetRTFClipboard = "setRtfClipboard"

	// ArgRTF is the required argument of setRtfClipboard.
	ArgRTF = "rtf"

	ErrorCodeClipboard    = "CLIPBOARD_ERROR"
	ErrorMessageClipboard = "Failed to set RTF clipboard data"
)

var (
	errMissingRTF = errors.New("missing required argument \"rtf\"")
	errRTFType    = errors.New("argument \"rtf\" is not a string")
)

// RTFWriter places an RTF document on the system clipboard.
type RTFWriter interface {
	SetRTF(rtf string) error
}

type methodHandler func(req *ipc.Request) error

// Bridge dispatches method calls by name. Every failure of a known method is
// reported to the caller as CLIPBOARD_ERROR; the cause is only logged.
type Bridge struct {
	channel   string
	clipboard RTFWriter
	logger    *zap.Logger
	methods   map[string]methodHandler
}

// New creates a Bridge serving channel. An empty channel means DefaultChannel.
func New(channel string, clipboard RTFWriter, logger *zap.Logger) *Bridge {
	if channel == "" {
		channel = DefaultChannel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &Bridge{
		channel:   channel,
		clipboard: clipboard,
		logger:    logger.Named("bridge"),
	}
	b.methods = map[string]methodHandler{
		MethodSetRTFClipboard: b.setRTFClipboard,
	}
	return b
}

// Channel returns the channel name the bridge is registered under.
func (b *Bridge) Channel() string {
	return b.channel
}

// HandleMethodCall implements ipc.Handler.
func (b *Bridge) HandleMethodCall(req *ipc.Request) *ipc.Response {
	handler, ok := b.methods[req.Method]
	if !ok {
		b.logger.Debug("Method not implemented",
			zap.String("id", req.ID),
			zap.String("method", req.Method))
		return ipc.NotImplemented()
	}

	if err := handler(req); err != nil {
		b.logger.Warn("Method call failed",
			zap.String("id", req.ID),
			zap.String("method", req.Method),
			zap.Error(err))
		return ipc.Error(ErrorCodeClipboard, ErrorMessageClipboard)
	}

	b.logger.Info("Method call succeeded",
		zap.String("id", req.ID),
		zap.String("method", req.Method))
	return ipc.Success(nil)
}

func (b *Bridge) setRTFClipboard(req *ipc.Request) error {
	rtf, err := rtfArgument(req.Args)
	if err != nil {
		return err
	}
	if err := b.clipboard.SetRTF(rtf); err != nil {
		return fmt.Errorf("failed to write %d bytes of RTF: %w", len(rtf), err)
	}
	return nil
}

// rtfArgument extracts the "rtf" string from a setRtfClipboard request.
func rtfArgument(args map[string]interface{}) (string, error) {
	v, ok := args[ArgRTF]
	if !ok {
		return "", errMissingRTF
	}
	rtf, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w (got %T)", errRTFType, v)
	}
	return rtf, nil
}
