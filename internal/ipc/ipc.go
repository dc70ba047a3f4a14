package ipc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// DefaultMaxRequestBytes bounds a single encoded request.
	DefaultMaxRequestBytes int64 = 16 << 20

	connTimeout = 30 * time.Second

	minAcceptDelay = 5 * time.Millisecond
	maxAcceptDelay = time.Second
)

// DefaultSocketPath returns the socket the server listens on when none is configured.
func DefaultSocketPath() string {
	return filepath.Join(os.TempDir(), "clipbridge.sock")
}

// SendRequest connects to the server, sends a request, and returns the response.
func SendRequest(ctx context.Context, socketPath string, req *Request) (*Response, error) {
	if socketPath == "" {
		socketPath = DefaultSocketPath()
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", socketPath, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	if err := json.NewEncoder(conn).Encode(req); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	var resp Response
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &resp, nil
}

// ServerOptions configures a Server.
type ServerOptions struct {
	SocketPath      string
	MaxRequestBytes int64
	Logger          *zap.Logger
}

// Server accepts one request per connection and answers it with Handler.
type Server struct {
	socketPath      string
	maxRequestBytes int64
	handler         Handler
	logger          *zap.Logger

	wg sync.WaitGroup
}

// NewServer creates a Server that dispatches to handler.
func NewServer(handler Handler, opts ServerOptions) *Server {
	if opts.SocketPath == "" {
		opts.SocketPath = DefaultSocketPath()
	}
	if opts.MaxRequestBytes <= 0 {
		opts.MaxRequestBytes = DefaultMaxRequestBytes
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Server{
		socketPath:      opts.SocketPath,
		maxRequestBytes: opts.MaxRequestBytes,
		handler:         handler,
		logger:          opts.Logger.Named("ipc"),
	}
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// ListenAndServe listens on the server's socket and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	// Remove any stale socket
	if err := os.Remove(s.socketPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove stale socket: %w", err)
	}
	ln, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to listen on socket: %w", err)
	}
	defer os.Remove(s.socketPath)

	s.logger.Info("Listening for method calls", zap.String("socket", s.socketPath))
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then waits for
// in-flight calls to finish. ln is closed on return.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
		case <-stop:
		}
		ln.Close()
	}()
	defer s.wg.Wait()

	var delay time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			// Back off on repeated failures (e.g. EMFILE) instead of spinning.
			if delay == 0 {
				delay = minAcceptDelay
			} else if delay *= 2; delay > maxAcceptDelay {
				delay = maxAcceptDelay
			}
			s.logger.Warn("Accept failed", zap.Error(err), zap.Duration("retry_in", delay))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(delay):
			}
			continue
		}
		delay = 0
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(conn)
		}()
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(connTimeout))

	dec := json.NewDecoder(io.LimitReader(conn, s.maxRequestBytes))
	enc := json.NewEncoder(conn)

	var req Request
	if err := dec.Decode(&req); err != nil {
		s.logger.Warn("Invalid request", zap.Error(err))
		enc.Encode(Error(CodeInvalidRequest, "invalid request: "+err.Error()))
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	start := time.Now()
	resp := s.handler.HandleMethodCall(&req)
	if resp == nil {
		resp = Success(nil)
	}
	resp.ID = req.ID

	s.logger.Debug("Method call handled",
		zap.String("id", req.ID),
		zap.String("channel", req.Channel),
		zap.String("method", req.Method),
		zap.String("status", resp.Status),
		zap.Duration("took", time.Since(start)))

	if err := enc.Encode(resp); err != nil {
		s.logger.Warn("Failed to write response", zap.String("id", req.ID), zap.Error(err))
	}
}
