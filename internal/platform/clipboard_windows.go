//go:build windows
// +build windows

package platform

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

const gmemMoveable = 0x0002

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procOpenClipboard            = user32.NewProc("OpenClipboard")
	procCloseClipboard           = user32.NewProc("CloseClipboard")
	procEmptyClipboard           = user32.NewProc("EmptyClipboard")
	procSetClipboardData         = user32.NewProc("SetClipboardData")
	procRegisterClipboardFormatW = user32.NewProc("RegisterClipboardFormatW")

	procGlobalAlloc  = kernel32.NewProc("GlobalAlloc")
	procGlobalFree   = kernel32.NewProc("GlobalFree")
	procGlobalLock   = kernel32.NewProc("GlobalLock")
	procGlobalUnlock = kernel32.NewProc("GlobalUnlock")
)

// win32API binds nativeAPI to user32 and kernel32.
type win32API struct{}

func newNativeAPI() nativeAPI {
	return win32API{}
}

func (win32API) OpenClipboard() error {
	if r, _, err := procOpenClipboard.Call(0); r == 0 {
		return callError("OpenClipboard", err)
	}
	return nil
}

func (win32API) CloseClipboard() error {
	if r, _, err := procCloseClipboard.Call(); r == 0 {
		return callError("CloseClipboard", err)
	}
	return nil
}

func (win32API) EmptyClipboard() error {
	if r, _, err := procEmptyClipboard.Call(); r == 0 {
		return callError("EmptyClipboard", err)
	}
	return nil
}

func (win32API) GlobalAlloc(size int) (Handle, error) {
	h, _, err := procGlobalAlloc.Call(gmemMoveable, uintptr(size))
	if h == 0 {
		return 0, callError("GlobalAlloc", err)
	}
	return Handle(h), nil
}

func (win32API) GlobalWrite(h Handle, data []byte) error {
	ptr, _, err := procGlobalLock.Call(uintptr(h))
	if ptr == 0 {
		return callError("GlobalLock", err)
	}
	copy(lockedBytes(ptr, len(data)), data)
	// GlobalUnlock reports 0 both on error and when the lock count drops to
	// zero, and the block stays valid either way.
	procGlobalUnlock.Call(uintptr(h))
	return nil
}

func (win32API) GlobalFree(h Handle) error {
	if r, _, err := procGlobalFree.Call(uintptr(h)); r != 0 {
		return callError("GlobalFree", err)
	}
	return nil
}

func (win32API) RegisterClipboardFormat(name string) (Format, error) {
	p, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return 0, err
	}
	r, _, err := procRegisterClipboardFormatW.Call(uintptr(unsafe.Pointer(p)))
	if r == 0 {
		return 0, callError("RegisterClipboardFormatW", err)
	}
	return Format(r), nil
}

func (win32API) SetClipboardData(format Format, h Handle) error {
	if r, _, err := procSetClipboardData.Call(uintptr(format), uintptr(h)); r == 0 {
		return callError("SetClipboardData", err)
	}
	return nil
}

// lockedBytes views n bytes at the address GlobalLock returned. The memory
// is outside the Go heap and stays valid until the matching GlobalUnlock.
func lockedBytes(addr uintptr, n int) []byte {
	p := *(*unsafe.Pointer)(unsafe.Pointer(&addr))
	return unsafe.Slice((*byte)(p), n)
}

// callError turns the last-error value of a failed proc call into an error.
// Some calls fail without setting a last error.
func callError(name string, err error) error {
	if errno, ok := err.(windows.Errno); ok && errno == 0 {
		return fmt.Errorf("%s failed", name)
	}
	return fmt.Errorf("%s: %w", name, err)
}
