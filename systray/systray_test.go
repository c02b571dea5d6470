package systray

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowserCommand(t *testing.T) {
	url := "http://127.0.0.1:7341"

	name, args, err := browserCommand("windows", url)
	require.NoError(t, err)
	assert.Equal(t, "cmd", name)
	assert.Equal(t, []string{"/c", "start", url}, args)

	name, args, err = browserCommand("darwin", url)
	require.NoError(t, err)
	assert.Equal(t, "open", name)
	assert.Equal(t, []string{url}, args)

	name, _, err = browserCommand("linux", url)
	require.NoError(t, err)
	assert.Equal(t, "xdg-open", name)

	_, _, err = browserCommand("plan9", url)
	assert.Error(t, err)
}

func TestIconFor(t *testing.T) {
	assert.True(t, bytes.HasPrefix(iconFor("linux"), []byte("\x89PNG")))
	// ICO header: reserved 0, type 1
	assert.True(t, bytes.HasPrefix(iconFor("windows"), []byte{0, 0, 1, 0}))
}
