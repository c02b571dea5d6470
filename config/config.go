package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"markestedt/autom/keyboard"
)

type Config struct {
	Log      LogConfig      `toml:"log"`
	Keyboard KeyboardConfig `toml:"keyboard"`
	Mouse    MouseConfig    `toml:"mouse"`
	Toggles  TogglesConfig  `toml:"toggles"`
	Sound    SoundConfig    `toml:"sound"`
	Web      WebConfig      `toml:"web"`
	Storage  StorageConfig  `toml:"storage"`
	Tray     TrayConfig     `toml:"tray"`

	path string
}

type LogConfig struct {
	Level string `toml:"level"`
}

type KeyboardConfig struct {
	DelayMs    int `toml:"delay_ms"`
	DurationMs int `toml:"duration_ms"`
}

type MouseConfig struct {
	ClickMs int `toml:"click_ms"`
}

type TogglesConfig struct {
	Tool string `toml:"tool"`
}

type SoundConfig struct {
	Tool    string `toml:"tool"`
	Device  string `toml:"device"`
	Control string `toml:"control"`
}

type WebConfig struct {
	Enabled bool   `toml:"enabled"`
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
}

type StorageConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type TrayConfig struct {
	Enabled bool `toml:"enabled"`
}

// Default configuration
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level: "info",
		},
		Keyboard: KeyboardConfig{
			DelayMs:    10,
			DurationMs: 10,
		},
		Mouse: MouseConfig{
			ClickMs: 50,
		},
		Toggles: TogglesConfig{
			Tool: "xset",
		},
		Sound: SoundConfig{
			Tool:    "amixer",
			Device:  "pulse",
			Control: "Master",
		},
		Web: WebConfig{
			Enabled: true,
			Host:    "127.0.0.1",
			Port:    7341,
		},
		Storage: StorageConfig{
			Enabled: true,
		},
		Tray: TrayConfig{
			Enabled: false,
		},
	}
}

// Dir returns the configuration directory, creating it if needed
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}

	dir := filepath.Join(base, "autom")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return dir, nil
}

// ConfigPath returns the path to the configuration file
func ConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load loads the configuration from the default location
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom loads the configuration from the TOML file at path.
// If the file doesn't exist, it creates it with default values
func LoadFrom(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		cfg.path = path
		if err := cfg.Save(); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		slog.Info("Created default config", "path", path)
		return cfg, nil
	}

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.path = path

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Path returns the file the configuration was loaded from
func (c *Config) Path() string {
	return c.path
}

// Save writes the configuration back to its file
func (c *Config) Save() error {
	if c.path == "" {
		return fmt.Errorf("config has no file path")
	}

	f, err := os.Create(c.path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(c)
}

// Validate rejects negative durations and unusable settings
func (c *Config) Validate() error {
	if c.Keyboard.DelayMs < 0 {
		return fmt.Errorf("keyboard.delay_ms must not be negative")
	}
	if c.Keyboard.DurationMs < 0 {
		return fmt.Errorf("keyboard.duration_ms must not be negative")
	}
	if c.Mouse.ClickMs < 0 {
		return fmt.Errorf("mouse.click_ms must not be negative")
	}
	if c.Web.Enabled && (c.Web.Port <= 0 || c.Web.Port > 65535) {
		return fmt.Errorf("web.port out of range: %d", c.Web.Port)
	}
	if c.Sound.Tool == "" {
		return fmt.Errorf("sound.tool must be set")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log.level: %q", c.Log.Level)
	}
	return nil
}

// SlogLevel returns the configured log level
func (c LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Delay is the pause between consecutive key events
func (c KeyboardConfig) Delay() time.Duration {
	return time.Duration(c.DelayMs) * time.Millisecond
}

// Duration is how long keys are held
func (c KeyboardConfig) Duration() time.Duration {
	return time.Duration(c.DurationMs) * time.Millisecond
}

// Click is how long a click holds the button
func (c MouseConfig) Click() time.Duration {
	return time.Duration(c.ClickMs) * time.Millisecond
}

// Addr returns the listen address of the web API
func (c WebConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

var comboNames = map[string]string{
	"control": "Ctrl",
	"super":   "Win",
	"windows": "Win",
	"cmd":     "Win",
	"enter":   "\n",
	"return":  "\n",
	"tab":     "\t",
	"esc":     "Escape",
	"del":     "Delete",
	"pgup":    "PageUp",
	"pgdn":    "PageDown",
}

// ParseCombo parses a key combination like "ctrl+shift+v" or "Win+Left"
// into symbolic key names in press order. Names are matched
// case-insensitively against the alias table; single characters are kept.
func ParseCombo(combo string) ([]string, error) {
	if strings.TrimSpace(combo) == "" {
		return nil, fmt.Errorf("empty key combo")
	}

	canonical := make(map[string]string)
	for _, name := range keyboard.DefaultTable().Names() {
		canonical[strings.ToLower(name)] = name
	}

	var keys []string
	for _, part := range strings.Split(combo, "+") {
		part = strings.TrimSpace(part)
		lower := strings.ToLower(part)

		switch {
		case part == "":
			return nil, fmt.Errorf("empty key in combo %q", combo)
		case comboNames[lower] != "":
			keys = append(keys, comboNames[lower])
		case canonical[lower] != "":
			keys = append(keys, canonical[lower])
		case len(part) == 1:
			keys = append(keys, part)
		default:
			return nil, fmt.Errorf("%w: %q in combo %q", keyboard.ErrInvalidKey, part, combo)
		}
	}
	return keys, nil
}
