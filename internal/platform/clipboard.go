package platform

import (
	"fmt"
	"runtime"

	"go.uber.org/zap"
)

// RTFClipboard replaces the system clipboard contents with an RTF payload.
// Each call to SetRTF is a complete open/allocate/set/close transaction.
type RTFClipboard struct {
	api    nativeAPI
	logger *zap.Logger
}

// NewRTFClipboard returns an RTFClipboard bound to the native clipboard of
// the current platform.
func NewRTFClipboard(logger *zap.Logger) *RTFClipboard {
	return newRTFClipboard(newNativeAPI(), logger)
}

func newRTFClipboard(api nativeAPI, logger *zap.Logger) *RTFClipboard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RTFClipboard{
		api:    api,
		logger: logger.Named("platform"),
	}
}

// SetRTF places rtf on the clipboard under the "Rich Text Format" format,
// NUL-terminated. It does not wait for the clipboard if another process
// holds it.
func (c *RTFClipboard) SetRTF(rtf string) error {
	// Clipboard ownership belongs to the OS thread that opened it.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	session, err := c.openSession()
	if err != nil {
		return err
	}
	defer session.close()

	if err := c.api.EmptyClipboard(); err != nil {
		c.logger.Debug("Failed to empty clipboard", zap.Error(err))
	}

	block, err := c.allocate(rtfBytes(rtf))
	if err != nil {
		return err
	}
	defer block.release()

	format, err := c.api.RegisterClipboardFormat(RTFFormatName)
	if err != nil {
		return fmt.Errorf("%w %q: %w", ErrRegisterFormat, RTFFormatName, err)
	}

	if err := c.api.SetClipboardData(format, block.handle); err != nil {
		return fmt.Errorf("%w: %w", ErrSetData, err)
	}
	block.handOff()

	c.logger.Debug("RTF written to clipboard",
		zap.Int("bytes", block.size),
		zap.Uint32("format", uint32(format)))
	return nil
}

// rtfBytes returns the payload copied onto the clipboard: the text plus a
// terminating NUL.
func rtfBytes(rtf string) []byte {
	data := make([]byte, len(rtf)+1)
	copy(data, rtf)
	return data
}

// clipboardSession is a scoped hold on the system clipboard.
type clipboardSession struct {
	api    nativeAPI
	logger *zap.Logger
}

func (c *RTFClipboard) openSession() (*clipboardSession, error) {
	if err := c.api.OpenClipboard(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenClipboard, err)
	}
	return &clipboardSession{api: c.api, logger: c.logger}, nil
}

func (s *clipboardSession) close() {
	if err := s.api.CloseClipboard(); err != nil {
		s.logger.Warn("Failed to close clipboard", zap.Error(err))
	}
}

// globalBlock owns a native memory block until it is handed to the OS.
type globalBlock struct {
	api    nativeAPI
	logger *zap.Logger
	handle Handle
	size   int
	done   bool
}

func (c *RTFClipboard) allocate(data []byte) (*globalBlock, error) {
	h, err := c.api.GlobalAlloc(len(data))
	if err != nil {
		return nil, fmt.Errorf("%w (%d bytes): %w", ErrAlloc, len(data), err)
	}
	block := &globalBlock{api: c.api, logger: c.logger, handle: h, size: len(data)}

	if err := c.api.GlobalWrite(h, data); err != nil {
		block.release()
		return nil, fmt.Errorf("%w: %w", ErrAlloc, err)
	}
	return block, nil
}

// handOff records that the OS now owns the block.
func (b *globalBlock) handOff() {
	b.done = true
}

// release frees the block unless it was handed off. Safe to call more than once.
func (b *globalBlock) release() {
	if b.done {
		return
	}
	b.done = true
	if err := b.api.GlobalFree(b.handle); err != nil {
		b.logger.Warn("Failed to free clipboard memory", zap.Error(err))
	}
}
