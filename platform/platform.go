package platform

// Key is a keyboard key identity as understood by the injection backend.
// Values are produced by the keyboard package's alias table; callers outside
// this module never construct them.
type Key string

// Key identities of the named keys. Letters and digits use their lower-case
// character as identity.
const (
	KeyCtrl  Key = "ctrl"
	KeyAlt   Key = "alt"
	KeyShift Key = "shift"
	KeySuper Key = "cmd" // Windows key, Super on X11

	KeyEnter       Key = "enter"
	KeyTab         Key = "tab"
	KeyBackspace   Key = "backspace"
	KeyDelete      Key = "delete"
	KeyEscape      Key = "esc"
	KeyPrintScreen Key = "printscreen"

	KeyLeft     Key = "left"
	KeyRight    Key = "right"
	KeyUp       Key = "up"
	KeyDown     Key = "down"
	KeyHome     Key = "home"
	KeyEnd      Key = "end"
	KeyPageUp   Key = "pageup"
	KeyPageDown Key = "pagedown"

	KeyCapsLock   Key = "capslock"
	KeyNumLock    Key = "num_lock"
	KeyScrollLock Key = "scroll_lock"
)

// Mouse button codes, X11 numbering.
const (
	ButtonLeft        = 1
	ButtonMiddle      = 2
	ButtonRight       = 3
	ButtonScrollUp    = 4
	ButtonScrollDown  = 5
	ButtonScrollLeft  = 6
	ButtonScrollRight = 7
)

// Virtual key codes of the toggle keys, as passed to KeyStateReader.
const (
	VKCapital = 0x14
	VKNumLock = 0x90
	VKScroll  = 0x91
)

// Keyboard injects single raw key events
type Keyboard interface {
	PressKey(k Key) error
	ReleaseKey(k Key) error
}

// Mouse injects raw pointer events
type Mouse interface {
	Position() (x, y int)
	Move(x, y int)
	Press(x, y, button int) error
	Release(x, y, button int) error
}

// KeyStateReader queries the OS for the state of a virtual key.
// A nonzero result means the key is active.
type KeyStateReader interface {
	KeyState(vk int) int16
}

// Runner locates and executes external commands. Run reports the exit code
// of a command that ran; err is only set when it could not be started.
type Runner interface {
	LookPath(file string) (string, error)
	Output(name string, args ...string) ([]byte, error)
	Run(name string, args ...string) (exitCode int, err error)
}
