//go:build windows

package platform

import (
	"golang.org/x/sys/windows"
)

var (
	user32      = windows.NewLazySystemDLL("user32.dll")
	getKeyState = user32.NewProc("GetKeyState")
)

// WindowsKeyState implements KeyStateReader using GetKeyState
type WindowsKeyState struct{}

// NewKeyStateReader returns the native key state reader
func NewKeyStateReader() KeyStateReader {
	return &WindowsKeyState{}
}

// KeyState returns the SHORT reported by GetKeyState for vk
func (k *WindowsKeyState) KeyState(vk int) int16 {
	ret, _, _ := getKeyState.Call(uintptr(vk))
	return int16(ret)
}
