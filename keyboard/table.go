// Package keyboard resolves symbolic key names and drives timed key sequences
// through a platform keyboard.
package keyboard

import (
	"fmt"
	"sort"

	"markestedt/autom/platform"
)

// Table maps symbolic key names to key identities. It cannot be modified
// after construction.
type Table struct {
	aliases map[string]platform.Key
}

var defaultTable = NewTable(map[string]platform.Key{
	// modifiers
	"Ctrl":  platform.KeyCtrl,
	"Alt":   platform.KeyAlt,
	"Shift": platform.KeyShift,
	"Win":   platform.KeySuper,

	// special keys
	"\n":          platform.KeyEnter,
	"\t":          platform.KeyTab,
	"Backspace":   platform.KeyBackspace,
	"Delete":      platform.KeyDelete,
	"Escape":      platform.KeyEscape,
	"PrintScreen": platform.KeyPrintScreen,

	// navigation
	"Left":     platform.KeyLeft,
	"Right":    platform.KeyRight,
	"Up":       platform.KeyUp,
	"Down":     platform.KeyDown,
	"Home":     platform.KeyHome,
	"End":      platform.KeyEnd,
	"PageUp":   platform.KeyPageUp,
	"PageDown": platform.KeyPageDown,

	// toggles
	"CapsLock":   platform.KeyCapsLock,
	"NumLock":    platform.KeyNumLock,
	"ScrollLock": platform.KeyScrollLock,
})

// DefaultTable returns the built-in alias table
func DefaultTable() *Table {
	return defaultTable
}

// NewTable creates a table from a copy of aliases
func NewTable(aliases map[string]platform.Key) *Table {
	t := &Table{aliases: make(map[string]platform.Key, len(aliases))}
	for name, key := range aliases {
		t.aliases[name] = key
	}
	return t
}

// Resolve maps a symbolic key name to its key identity. Names are matched
// exactly against the table; a single ASCII letter or digit that is not in
// the table resolves case-insensitively to itself.
func (t *Table) Resolve(name string) (platform.Key, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty key name", ErrInvalidKey)
	}
	if key, ok := t.aliases[name]; ok {
		return key, nil
	}
	if len(name) == 1 {
		c := name[0]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			return platform.Key(string(c)), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidKey, name)
}

// ResolveAll resolves every name, failing on the first invalid one
func (t *Table) ResolveAll(names []string) ([]platform.Key, error) {
	keys := make([]platform.Key, 0, len(names))
	for _, name := range names {
		key, err := t.Resolve(name)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// Names returns the table's symbolic names in sorted order
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.aliases))
	for name := range t.aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Keys returns the distinct key identities the table resolves to, sorted
func (t *Table) Keys() []platform.Key {
	seen := make(map[platform.Key]bool, len(t.aliases))
	keys := make([]platform.Key, 0, len(t.aliases))
	for _, key := range t.aliases {
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
