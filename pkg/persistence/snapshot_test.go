package persistence

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mash-protocol/mash-regs/pkg/codec"
	"github.com/mash-protocol/mash-regs/pkg/regmap"
)

func TestSnapshotStoreSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "snap.json")
	store := NewSnapshotStore(path)

	snap := NewSnapshot("sensor-a", "session-1")
	snap.Record("energy", regmap.Value{Type: regmap.TypeU32, Uint: 1000, Unit: "Wh"})
	snap.Record("temperature", regmap.Value{Type: regmap.TypeQ, Float: 21.5, Unit: "C"})
	snap.Record("current", regmap.Value{Type: regmap.TypeStats, Stats: codec.Stats{Minimum: 1, Maximum: 3, Average: 2}})

	require.NoError(t, store.Save(snap))
	assert.False(t, snap.SavedAt.IsZero())

	loaded, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, SnapshotVersion, loaded.Version)
	assert.Equal(t, "sensor-a", loaded.Device)
	assert.Equal(t, "session-1", loaded.SessionID)
	assert.WithinDuration(t, snap.SavedAt, loaded.SavedAt, time.Second)
	require.Len(t, loaded.Values, 3)

	energy := loaded.Values["energy"]
	require.NotNil(t, energy.Uint)
	assert.Equal(t, uint64(1000), *energy.Uint)
	assert.Equal(t, "Wh", energy.Unit)
	assert.Nil(t, energy.Float)

	temp := loaded.Values["temperature"]
	require.NotNil(t, temp.Float)
	assert.Equal(t, 21.5, *temp.Float)

	current := loaded.Values["current"]
	require.NotNil(t, current.Stats)
	assert.Equal(t, 2.0, current.Stats.Average)
}

func TestSnapshotStoreLoadMissing(t *testing.T) {
	store := NewSnapshotStore(filepath.Join(t.TempDir(), "missing.json"))
	snap, err := store.Load()
	assert.NoError(t, err)
	assert.Nil(t, snap)
}

func TestSnapshotStoreLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := NewSnapshotStore(path).Load()
	assert.Error(t, err)
}

func TestSnapshotStoreClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.json")
	store := NewSnapshotStore(path)
	require.NoError(t, store.Save(NewSnapshot("", "")))

	require.NoError(t, store.Clear())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Clearing twice is fine.
	assert.NoError(t, store.Clear())
}

func TestSnapshotText(t *testing.T) {
	snap := NewSnapshot("", "")
	snap.Record("u", regmap.Value{Type: regmap.TypeU8, Uint: 200})
	snap.Record("q", regmap.Value{Type: regmap.TypeQ, Float: 0.25})
	snap.Record("s", regmap.Value{Type: regmap.TypeStats})

	text, ok := snap.Text("u")
	assert.True(t, ok)
	assert.Equal(t, "200", text)

	text, ok = snap.Text("q")
	assert.True(t, ok)
	assert.Equal(t, "0.25", text)

	_, ok = snap.Text("s")
	assert.False(t, ok)
	_, ok = snap.Text("missing")
	assert.False(t, ok)
}
