//go:build !windows
// +build !windows

package platform

import (
	"errors"
	"testing"
)

func TestSetRTF_Unsupported(t *testing.T) {
	err := NewRTFClipboard(nil).SetRTF(`{\rtf1 Hello}`)
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("SetRTF() error = %v, want %v", err, ErrUnsupported)
	}
	if !errors.Is(err, ErrOpenClipboard) {
		t.Errorf("SetRTF() error = %v, want it to wrap %v", err, ErrOpenClipboard)
	}
}
