//go:build !windows

package platform

// NewKeyStateReader returns nil: only Windows exposes a native toggle key
// query. Callers fall back to the display server.
func NewKeyStateReader() KeyStateReader {
	return nil
}
