package dialog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ncruces/zenity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitPattern(t *testing.T) {
	cases := []struct {
		in, dir, glob string
	}{
		{"./*", ".", "*"},
		{"docs/*.txt", "docs", "*.txt"},
		{"/tmp/report?.csv", "/tmp", "report?.csv"},
		{"/home/user", "/home/user", ""},
		{"", "", ""},
	}
	for _, c := range cases {
		dir, glob := splitPattern(c.in)
		assert.Equal(t, c.dir, dir, c.in)
		assert.Equal(t, c.glob, glob, c.in)
	}
}

func TestCancelledIsNotAnError(t *testing.T) {
	assert.NoError(t, cancelled(zenity.ErrCanceled))
	assert.NoError(t, cancelled(nil))

	other := errors.New("no display")
	assert.Equal(t, other, cancelled(other))
	assert.False(t, ok(zenity.ErrCanceled))
}

func TestExistingFilesDropsDirectoriesAndMissing(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(file, []byte("a"), 0644))

	got := existingFiles([]string{file, dir, filepath.Join(dir, "missing.txt"), ""})
	assert.Equal(t, []string{file}, got)
}
