package cmd

import (
	"bytes"
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/berrythewa/clipbridge/internal/config"
	"github.com/berrythewa/clipbridge/internal/daemon"
	"github.com/berrythewa/clipbridge/internal/ipc"
	"github.com/fatih/color"
	"go.uber.org/zap/zaptest"
)

func init() {
	color.NoColor = true
}

type fakeClipboard struct {
	mu  sync.Mutex
	got []string
}

func (f *fakeClipboard) SetRTF(rtf string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.got = append(f.got, rtf)
	return nil
}

func (f *fakeClipboard) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.got...)
}

// startBridge serves the bridge handler with a fake clipboard and returns the socket path.
func startBridge(t *testing.T) (string, *fakeClipboard) {
	t.Helper()
	dir, err := os.MkdirTemp("", "cbc")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	socket := filepath.Join(dir, "c.sock")

	cb := &fakeClipboard{}
	handler := daemon.NewHandler(config.DefaultConfig(), cb, zaptest.NewLogger(t))
	srv := ipc.NewServer(handler, ipc.ServerOptions{SocketPath: socket})

	ln, err := net.Listen("unix", socket)
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		srv.Serve(ctx, ln)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return socket, cb
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(""))
	root.SetArgs(append([]string{"--config", configPath, "--quiet"}, args...))

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSetRTFCommand(t *testing.T) {
	socket, cb := startBridge(t)

	out, err := runCLI(t, "--socket", socket, "set-rtf", "--text", `{\rtf1 Hello}`)
	if err != nil {
		t.Fatalf("set-rtf failed: %v (output %q)", err, out)
	}
	if !strings.Contains(out, "OK") {
		t.Errorf("output = %q, want OK", out)
	}
	if got := cb.calls(); len(got) != 1 || got[0] != `{\rtf1 Hello}` {
		t.Errorf("clipboard received %q", got)
	}
}

func TestSetRTFCommand_FromFile(t *testing.T) {
	socket, cb := startBridge(t)

	rtfFile := filepath.Join(t.TempDir(), "doc.rtf")
	if err := os.WriteFile(rtfFile, []byte(`{\rtf1 From file}`), 0644); err != nil {
		t.Fatalf("Failed to write RTF file: %v", err)
	}

	if out, err := runCLI(t, "--socket", socket, "set-rtf", rtfFile); err != nil {
		t.Fatalf("set-rtf failed: %v (output %q)", err, out)
	}
	if got := cb.calls(); len(got) != 1 || got[0] != `{\rtf1 From file}` {
		t.Errorf("clipboard received %q", got)
	}
}

func TestSetRTFCommand_RejectsInvalidUTF8(t *testing.T) {
	socket, cb := startBridge(t)

	rtfFile := filepath.Join(t.TempDir(), "latin1.rtf")
	if err := os.WriteFile(rtfFile, []byte("{\\rtf1 caf\xe9}"), 0644); err != nil {
		t.Fatalf("Failed to write RTF file: %v", err)
	}

	_, err := runCLI(t, "--socket", socket, "set-rtf", rtfFile)
	if !errors.Is(err, errInvalidUTF8) {
		t.Fatalf("error = %v, want %v", err, errInvalidUTF8)
	}
	if got := cb.calls(); len(got) != 0 {
		t.Errorf("clipboard received %q", got)
	}
}

func TestCallCommand(t *testing.T) {
	socket, cb := startBridge(t)

	t.Run("not implemented", func(t *testing.T) {
		out, err := runCLI(t, "--socket", socket, "call", "getClipboard")
		if !errors.Is(err, ipc.ErrNotImplemented) {
			t.Fatalf("error = %v, want %v", err, ipc.ErrNotImplemented)
		}
		if !strings.Contains(out, "Not implemented: getClipboard") {
			t.Errorf("output = %q", out)
		}
	})

	t.Run("non-string rtf", func(t *testing.T) {
		out, err := runCLI(t, "--socket", socket, "call", "setRtfClipboard", "rtf=42")
		var respErr *ipc.ResponseError
		if !errors.As(err, &respErr) || respErr.Code != "CLIPBOARD_ERROR" {
			t.Fatalf("error = %v, want a CLIPBOARD_ERROR response", err)
		}
		if !strings.Contains(out, "Failed to set RTF clipboard data (CLIPBOARD_ERROR)") {
			t.Errorf("output = %q", out)
		}
	})

	if got := cb.calls(); len(got) != 0 {
		t.Errorf("clipboard touched: %q", got)
	}
}

func TestCallCommand_NoServer(t *testing.T) {
	_, err := runCLI(t, "--socket", filepath.Join(t.TempDir(), "none.sock"), "call", "setRtfClipboard", "rtf=x")
	if err == nil {
		t.Fatal("call should fail without a server")
	}
}

func TestParseCallArgs(t *testing.T) {
	got, err := parseCallArgs([]string{`rtf={\rtf1 Hi}`, "n=42", "flag=true", "empty=", "quoted=\"7\""})
	if err != nil {
		t.Fatalf("parseCallArgs() failed: %v", err)
	}
	want := map[string]interface{}{
		"rtf":    `{\rtf1 Hi}`,
		"n":      42.0,
		"flag":   true,
		"empty":  "",
		"quoted": "7",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("parseCallArgs() = %#v, want %#v", got, want)
	}

	for _, bad := range []string{"noequals", "=value"} {
		if _, err := parseCallArgs([]string{bad}); err == nil {
			t.Errorf("parseCallArgs(%q) should fail", bad)
		}
	}
}

func TestReadRTF(t *testing.T) {
	stdin := strings.NewReader(`{\rtf1 stdin}`)

	if got, err := readRTF(stdin, nil, "", false); err != nil || got != `{\rtf1 stdin}` {
		t.Errorf("readRTF(stdin) = %q, %v", got, err)
	}
	if got, err := readRTF(nil, nil, "inline", true); err != nil || got != "inline" {
		t.Errorf("readRTF(--text) = %q, %v", got, err)
	}
	if _, err := readRTF(nil, []string{"file.rtf"}, "inline", true); err == nil {
		t.Error("readRTF should reject a file argument combined with --text")
	}
	if _, err := readRTF(nil, []string{filepath.Join(t.TempDir(), "missing.rtf")}, "", false); err == nil {
		t.Error("readRTF should fail for a missing file")
	}

	// Raw cp1252 bytes would be replaced with U+FFFD on the wire.
	latin1 := filepath.Join(t.TempDir(), "latin1.rtf")
	if err := os.WriteFile(latin1, []byte("{\\rtf1 caf\xe9}"), 0644); err != nil {
		t.Fatalf("Failed to write RTF file: %v", err)
	}
	if _, err := readRTF(nil, []string{latin1}, "", false); !errors.Is(err, errInvalidUTF8) {
		t.Errorf("readRTF(non-UTF-8 file) error = %v, want %v", err, errInvalidUTF8)
	}
	if _, err := readRTF(strings.NewReader("{\\rtf1 caf\xe9}"), nil, "", false); !errors.Is(err, errInvalidUTF8) {
		t.Errorf("readRTF(non-UTF-8 stdin) error = %v, want %v", err, errInvalidUTF8)
	}
	if got, err := readRTF(strings.NewReader("{\\rtf1 caf\u00e9}"), nil, "", false); err != nil || got != "{\\rtf1 caf\u00e9}" {
		t.Errorf("readRTF(UTF-8 stdin) = %q, %v", got, err)
	}
}

func TestVersionCommand(t *testing.T) {
	SetVersionInfo("1.2.3", "2026-01-01", "abc123")
	defer SetVersionInfo("dev", "unknown", "none")

	out, err := runCLI(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	for _, want := range []string{"1.2.3", "2026-01-01", "abc123"} {
		if !strings.Contains(out, want) {
			t.Errorf("version output %q missing %q", out, want)
		}
	}
}

func TestConfigCommands(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--config", configPath, "config", "init"})
	if err := root.Execute(); err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if _, err := os.Stat(configPath); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	root = NewRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"--config", configPath, "config", "init"})
	if err := root.Execute(); err == nil {
		t.Error("config init should refuse to overwrite without --force")
	}

	out.Reset()
	root = NewRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"--config", configPath, "--quiet", "config", "show"})
	if err := root.Execute(); err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	if !strings.Contains(out.String(), "channel: beyond_horizon_calc/clipboard") {
		t.Errorf("config show output = %q", out.String())
	}
}
