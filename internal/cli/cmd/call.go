package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/berrythewa/clipbridge/internal/bridge"
	"github.com/berrythewa/clipbridge/internal/daemon"
	"github.com/berrythewa/clipbridge/internal/ipc"
	"github.com/berrythewa/clipbridge/internal/platform"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const callTimeout = 10 * time.Second

// callOptions are shared by commands that issue a method call.
type callOptions struct {
	direct  bool
	channel string
}

func (o *callOptions) bind(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.direct, "direct", false, "handle the call in-process instead of sending it to the server")
	cmd.Flags().StringVar(&o.channel, "channel", "", "channel to address (default from config)")
}

// invoke sends req to the server, or dispatches it in-process with --direct.
func (o *callOptions) invoke(ctx context.Context, req *ipc.Request) (*ipc.Response, error) {
	req.Channel = o.channel
	if req.Channel == "" {
		req.Channel = cfg.Server.Channel
	}

	if o.direct {
		handler := daemon.NewHandler(cfg, platform.NewRTFClipboard(logger), logger)
		return handler.HandleMethodCall(req), nil
	}

	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	logger.Debug("Sending method call",
		zap.String("socket", cfg.Server.SocketPath),
		zap.String("channel", req.Channel),
		zap.String("method", req.Method))
	return ipc.SendRequest(ctx, cfg.Server.SocketPath, req)
}

func newCallCmd() *cobra.Command {
	var opts callOptions

	cmd := &cobra.Command{
		Use:   "call <method> [key=value ...]",
		Short: "Send an arbitrary method call",
		Long: `Send a method call to the clipboard channel and print the reply.
Values are parsed as JSON when possible (42, true, null, "x") and taken as
plain strings otherwise.

Examples:
  clipbridge call setRtfClipboard 'rtf={\rtf1 Hello}'
  clipbridge call getClipboard`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			callArgs, err := parseCallArgs(args[1:])
			if err != nil {
				return err
			}

			req := &ipc.Request{Method: args[0], Args: callArgs}
			resp, err := opts.invoke(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("failed to call %s: %w", args[0], err)
			}
			return printResponse(cmd.OutOrStdout(), args[0], resp)
		},
	}

	opts.bind(cmd)
	return cmd
}

// parseCallArgs turns key=value pairs into a named-parameter map.
func parseCallArgs(pairs []string) (map[string]interface{}, error) {
	args := make(map[string]interface{}, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid argument %q, want key=value", pair)
		}
		var value interface{}
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			value = raw
		}
		args[key] = value
	}
	return args, nil
}

func newSetRTFCmd() *cobra.Command {
	var (
		opts callOptions
		text string
	)

	cmd := &cobra.Command{
		Use:   "set-rtf [file]",
		Short: "Copy an RTF document onto the clipboard",
		Long: `Copy an RTF document onto the clipboard through the clipboard channel.
The document is read from the file argument, from --text, or from stdin
when neither is given ("-" also means stdin).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rtf, err := readRTF(cmd.InOrStdin(), args, text, cmd.Flags().Changed("text"))
			if err != nil {
				return err
			}

			req := &ipc.Request{
				Method: bridge.MethodSetRTFClipboard,
				Args:   map[string]interface{}{bridge.ArgRTF: rtf},
			}
			resp, err := opts.invoke(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("failed to set clipboard: %w", err)
			}
			return printResponse(cmd.OutOrStdout(), req.Method, resp)
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "RTF document given inline")
	opts.bind(cmd)
	return cmd
}

// errInvalidUTF8 rejects documents the JSON wire encoding would alter.
var errInvalidUTF8 = errors.New("RTF document is not valid UTF-8 (escape 8-bit characters as \\'hh)")

func readRTF(stdin io.Reader, args []string, text string, textSet bool) (string, error) {
	var rtf string
	switch {
	case textSet && len(args) > 0:
		return "", fmt.Errorf("use either a file argument or --text, not both")
	case textSet:
		rtf = text
	case len(args) == 1 && args[0] != "-":
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("failed to read RTF file: %w", err)
		}
		rtf = string(data)
	default:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read from stdin: %w", err)
		}
		rtf = string(data)
	}

	if !utf8.ValidString(rtf) {
		return "", errInvalidUTF8
	}
	return rtf, nil
}
