package keyboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"markestedt/autom/platform"
)

func TestResolveAliases(t *testing.T) {
	table := DefaultTable()
	for _, name := range table.Names() {
		key, err := table.Resolve(name)
		require.NoError(t, err, name)
		assert.Equal(t, table.aliases[name], key, name)
	}

	key, err := table.Resolve("\n")
	require.NoError(t, err)
	assert.Equal(t, platform.KeyEnter, key)

	key, err = table.Resolve("Ctrl")
	require.NoError(t, err)
	assert.Equal(t, platform.KeyCtrl, key)
}

func TestResolveSingleCharacterIsCaseInsensitive(t *testing.T) {
	table := DefaultTable()
	for c := 'a'; c <= 'z'; c++ {
		lower, err := table.Resolve(string(c))
		require.NoError(t, err)
		upper, err := table.Resolve(string(c - 'a' + 'A'))
		require.NoError(t, err)
		assert.Equal(t, lower, upper)
		assert.Equal(t, platform.Key(string(c)), lower)
	}
	for c := '0'; c <= '9'; c++ {
		key, err := table.Resolve(string(c))
		require.NoError(t, err)
		assert.Equal(t, platform.Key(string(c)), key)
	}
}

func TestResolveRejectsUnknownNames(t *testing.T) {
	table := DefaultTable()
	for _, name := range []string{"", " ", "!", "ctrl", "CTRL", "F13", "é", "ab", "Enter"} {
		_, err := table.Resolve(name)
		assert.ErrorIs(t, err, ErrInvalidKey, "%q", name)
	}
}

func TestNewTableCopiesAliases(t *testing.T) {
	aliases := map[string]platform.Key{"Hyper": "hyper"}
	table := NewTable(aliases)
	aliases["Hyper"] = "changed"
	aliases["Extra"] = "extra"

	key, err := table.Resolve("Hyper")
	require.NoError(t, err)
	assert.Equal(t, platform.Key("hyper"), key)

	_, err = table.Resolve("Extra")
	assert.ErrorIs(t, err, ErrInvalidKey)
	assert.Equal(t, []string{"Hyper"}, table.Names())
}

func TestResolveAllFailsOnFirstInvalid(t *testing.T) {
	keys, err := DefaultTable().ResolveAll([]string{"Ctrl", "nope", "a"})
	assert.ErrorIs(t, err, ErrInvalidKey)
	assert.Nil(t, keys)
}

func TestKeysAreDistinctIdentities(t *testing.T) {
	table := NewTable(map[string]platform.Key{"Esc": "esc", "Escape": "esc", "Tab": "tab"})
	assert.Equal(t, []platform.Key{"esc", "tab"}, table.Keys())
	assert.Len(t, DefaultTable().Keys(), len(DefaultTable().Names()))
}
