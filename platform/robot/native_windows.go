//go:build windows

package robot

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"

	"markestedt/autom/platform"
)

var (
	user32         = windows.NewLazySystemDLL("user32.dll")
	sendInput      = user32.NewProc("SendInput")
	mapVirtualKeyW = user32.NewProc("MapVirtualKeyW")
)

const (
	inputKeyboard  = 1
	keyeventfKeyup = 0x0002
	mapvkVkToVsc   = 0
)

type keyboardInput struct {
	wVk         uint16
	wScan       uint16
	dwFlags     uint32
	time        uint32
	dwExtraInfo uintptr
}

type input struct {
	inputType uint32
	ki        keyboardInput
	padding   [8]byte // Padding to match C struct size
}

func nativeKeys(platform.Runner) map[platform.Key]injector {
	return map[platform.Key]injector{
		platform.KeyScrollLock: func(down bool) error {
			return sendVirtualKey(platform.VKScroll, down)
		},
	}
}

// sendVirtualKey injects one key event for vk with SendInput
func sendVirtualKey(vk uint16, down bool) error {
	scan, _, _ := mapVirtualKeyW.Call(uintptr(vk), mapvkVkToVsc)

	var flags uint32
	if !down {
		flags = keyeventfKeyup
	}
	inputs := []input{{
		inputType: inputKeyboard,
		ki: keyboardInput{
			wVk:     vk,
			wScan:   uint16(scan),
			dwFlags: flags,
		},
	}}

	ret, _, err := sendInput.Call(
		uintptr(len(inputs)),
		uintptr(unsafe.Pointer(&inputs[0])),
		unsafe.Sizeof(inputs[0]),
	)
	if ret == 0 {
		return fmt.Errorf("SendInput failed: %w", err)
	}
	return nil
}
