package platform

import (
	"errors"
)

// RTFFormatName is the registered clipboard format name rich-text consumers
// (Word, WordPad, Outlook) look up.
const RTFFormatName = "Rich Text Format"

// Handle is an opaque native memory handle (HGLOBAL on Windows).
type Handle uintptr

// Format is an OS-assigned clipboard format identifier.
type Format uint32

var (
	ErrUnsupported    = errors.New("rtf clipboard is not supported on this platform")
	ErrOpenClipboard  = errors.New("failed to open clipboard")
	ErrAlloc          = errors.New("failed to allocate clipboard memory")
	ErrRegisterFormat = errors.New("failed to register clipboard format")
	ErrSetData        = errors.New("failed to set clipboard data")
)

// nativeAPI is the set of OS clipboard primitives the RTF transaction is
// built from. The Windows build binds it to user32/kernel32; tests bind it
// to a recording fake.
type nativeAPI interface {
	OpenClipboard() error
	CloseClipboard() error
	EmptyClipboard() error

	// GlobalAlloc allocates a movable block of size bytes.
	GlobalAlloc(size int) (Handle, error)
	// GlobalWrite locks h, copies data to the start of the block and unlocks it.
	GlobalWrite(h Handle, data []byte) error
	GlobalFree(h Handle) error

	RegisterClipboardFormat(name string) (Format, error)
	// SetClipboardData hands h to the OS. On success the caller no longer owns h.
	SetClipboardData(format Format, h Handle) error
}
