//go:build !windows
// +build !windows

package platform

// unsupportedAPI fails at the first step so SetRTF reports ErrUnsupported
// without touching anything else.
type unsupportedAPI struct{}

func newNativeAPI() nativeAPI {
	return unsupportedAPI{}
}

func (unsupportedAPI) OpenClipboard() error {
	return ErrUnsupported
}

func (unsupportedAPI) CloseClipboard() error {
	return ErrUnsupported
}

func (unsupportedAPI) EmptyClipboard() error {
	return ErrUnsupported
}

func (unsupportedAPI) GlobalAlloc(int) (Handle, error) {
	return 0, ErrUnsupported
}

func (unsupportedAPI) GlobalWrite(Handle, []byte) error {
	return ErrUnsupported
}

func (unsupportedAPI) GlobalFree(Handle) error {
	return ErrUnsupported
}

func (unsupportedAPI) RegisterClipboardFormat(string) (Format, error) {
	return 0, ErrUnsupported
}

func (unsupportedAPI) SetClipboardData(Format, Handle) error {
	return ErrUnsupported
}
