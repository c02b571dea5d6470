package systray

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"

	"github.com/getlantern/systray"
)

//go:embed icon/icon.ico
var iconICO []byte

//go:embed icon/icon.png
var iconPNG []byte

// Actions are the quick actions offered in the tray menu
type Actions interface {
	// ShowToggles displays the lock key state
	ShowToggles() error
	// ToggleMute flips the mute state of the system volume
	ToggleMute() error
}

// Manager manages the system tray icon and menu
type Manager struct {
	webURL  string
	actions Actions
	quit    chan struct{}
}

// NewManager creates a tray manager. An empty webURL hides "Open Web UI".
func NewManager(webURL string, actions Actions) *Manager {
	return &Manager{
		webURL:  webURL,
		actions: actions,
		quit:    make(chan struct{}),
	}
}

// Run starts the system tray (blocking call, main goroutine only)
func (m *Manager) Run() {
	systray.Run(m.onReady, m.onExit)
}

// Stop stops the system tray
func (m *Manager) Stop() {
	systray.Quit()
}

// WaitForQuit returns a channel that will be closed when user clicks Quit
func (m *Manager) WaitForQuit() <-chan struct{} {
	return m.quit
}

// onReady is called when the systray is ready
func (m *Manager) onReady() {
	systray.SetIcon(iconFor(runtime.GOOS))
	systray.SetTitle("autom")
	systray.SetTooltip("autom - desktop automation")

	mToggles := systray.AddMenuItem("Lock keys…", "Show CapsLock, NumLock and ScrollLock state")
	mMute := systray.AddMenuItem("Mute/Unmute", "Toggle the system volume mute")
	systray.AddSeparator()
	mOpenWebUI := systray.AddMenuItem("Open Web UI", "Open the autom dashboard")
	if m.webURL == "" {
		mOpenWebUI.Hide()
	}
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Exit autom")

	// Handle menu clicks
	go func() {
		for {
			select {
			case <-mToggles.ClickedCh:
				if err := m.actions.ShowToggles(); err != nil {
					slog.Error("Failed to show toggle state", "error", err)
				}
			case <-mMute.ClickedCh:
				if err := m.actions.ToggleMute(); err != nil {
					slog.Error("Failed to toggle mute", "error", err)
				}
			case <-mOpenWebUI.ClickedCh:
				m.openWebUI()
			case <-mQuit.ClickedCh:
				slog.Info("User requested quit from system tray")
				close(m.quit)
				systray.Quit()
				return
			}
		}
	}()
}

// onExit is called when the systray is exiting
func (m *Manager) onExit() {
	slog.Info("System tray exited")
}

// openWebUI opens the web UI in the default browser
func (m *Manager) openWebUI() {
	slog.Info("Opening web UI", "url", m.webURL)

	name, args, err := browserCommand(runtime.GOOS, m.webURL)
	if err != nil {
		slog.Error("Failed to open web UI", "error", err)
		return
	}
	if err := exec.Command(name, args...).Start(); err != nil {
		slog.Error("Failed to open web UI", "error", err)
	}
}

// Windows trays need ICO data, everything else takes PNG
func iconFor(goos string) []byte {
	if goos == "windows" {
		return iconICO
	}
	return iconPNG
}

func browserCommand(goos, url string) (string, []string, error) {
	switch goos {
	case "windows":
		return "cmd", []string{"/c", "start", url}, nil
	case "darwin":
		return "open", []string{url}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{url}, nil
	default:
		return "", nil, fmt.Errorf("unsupported platform for opening browser: %s", goos)
	}
}
