package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenCreatesDatabase(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	db, err := Open(dir)
	require.NoError(t, err)
	defer db.Close()

	_, err = os.Stat(filepath.Join(dir, "autom.db"))
	require.NoError(t, err)
}

func TestSaveAndGetActions(t *testing.T) {
	db := openTestDB(t)

	first := &Action{Ref: "a", Kind: "keyboard.press", Detail: `{"keys":["Ctrl","c"]}`, DurationMs: 30, Success: true}
	second := &Action{Ref: "b", Kind: "mouse.click", Detail: `{"button":"left"}`, DurationMs: 50, ErrorMessage: "boom"}
	require.NoError(t, db.SaveAction(first))
	require.NoError(t, db.SaveAction(second))

	assert.NotZero(t, first.ID)
	assert.False(t, first.Timestamp.IsZero())

	actions, err := db.GetActions("", 10, 0)
	require.NoError(t, err)
	require.Len(t, actions, 2)

	// newest first
	assert.Equal(t, "b", actions[0].Ref)
	assert.False(t, actions[0].Success)
	assert.Equal(t, "boom", actions[0].ErrorMessage)
	assert.Equal(t, "a", actions[1].Ref)
	assert.Empty(t, actions[1].ErrorMessage)

	clicks, err := db.GetActions("mouse.click", 10, 0)
	require.NoError(t, err)
	require.Len(t, clicks, 1)
	assert.Equal(t, "b", clicks[0].Ref)

	page, err := db.GetActions("", 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "a", page[0].Ref)
}

func TestSaveActionRejectsDuplicateRef(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.SaveAction(&Action{Ref: "same", Kind: "mouse.up"}))
	require.Error(t, db.SaveAction(&Action{Ref: "same", Kind: "mouse.up"}))
}

func TestDeleteActions(t *testing.T) {
	db := openTestDB(t)

	for _, ref := range []string{"a", "b", "c"} {
		require.NoError(t, db.SaveAction(&Action{Ref: ref, Kind: "keyboard.type", Success: true}))
	}

	count, err := db.GetActionCount("")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	n, err := db.DeleteActions()
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	count, err = db.GetActionCount("")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestGetActionCountByKind(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.SaveAction(&Action{Ref: "a", Kind: "mouse.click", Success: true}))
	require.NoError(t, db.SaveAction(&Action{Ref: "b", Kind: "keyboard.press", Success: true}))
	require.NoError(t, db.SaveAction(&Action{Ref: "c", Kind: "keyboard.press"}))

	for kind, want := range map[string]int{"": 3, "keyboard.press": 2, "mouse.click": 1, "sound.mute": 0} {
		count, err := db.GetActionCount(kind)
		require.NoError(t, err)
		assert.Equal(t, want, count, "kind %q", kind)
	}
}

func TestStats(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.SaveAction(&Action{Ref: "1", Kind: "keyboard.press", DurationMs: 20, Success: true}))
	require.NoError(t, db.SaveAction(&Action{Ref: "2", Kind: "keyboard.press", DurationMs: 40, Success: true}))
	require.NoError(t, db.SaveAction(&Action{Ref: "3", Kind: "sound.volume", DurationMs: 60, ErrorMessage: "no mixer"}))

	overall, err := db.GetOverallStats(7)
	require.NoError(t, err)
	assert.Equal(t, 3, overall.TotalActions)
	assert.Equal(t, 2, overall.SuccessCount)
	assert.Equal(t, 1, overall.FailureCount)
	assert.InDelta(t, 40.0, overall.AvgDurationMs, 0.001)
	assert.EqualValues(t, 120, overall.TotalDurationMs)

	kinds, err := db.GetKindStats(7)
	require.NoError(t, err)
	require.Len(t, kinds, 2)
	assert.Equal(t, "keyboard.press", kinds[0].Kind)
	assert.Equal(t, 2, kinds[0].TotalActions)
	assert.InDelta(t, 30.0, kinds[0].AvgDurationMs, 0.001)
	assert.Equal(t, "sound.volume", kinds[1].Kind)
	assert.Equal(t, 1, kinds[1].FailureCount)

	daily, err := db.GetDailyStats(7)
	require.NoError(t, err)
	require.Len(t, daily, 1)
	assert.Equal(t, 3, daily[0].TotalActions)
}

func TestStatsEmpty(t *testing.T) {
	db := openTestDB(t)

	overall, err := db.GetOverallStats(7)
	require.NoError(t, err)
	assert.Zero(t, overall.TotalActions)
	assert.Zero(t, overall.AvgDurationMs)

	daily, err := db.GetDailyStats(7)
	require.NoError(t, err)
	assert.Empty(t, daily)
}
