package memdev

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mash-protocol/mash-regs/pkg/transport"
)

func TestReadWriteBlock(t *testing.T) {
	img := New(16)
	ctx := context.Background()

	require.NoError(t, img.WriteBlock(ctx, 4, []byte{1, 2, 3}))
	got, err := img.ReadBlock(ctx, 3, 5)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 1, 2, 3, 0}, got)

	assert.Equal(t, 1, img.Reads())
	assert.Equal(t, 1, img.Writes())

	img.ResetCounters()
	assert.Zero(t, img.Reads())
	assert.Zero(t, img.Writes())
}

func TestReadBlockReturnsCopy(t *testing.T) {
	img := FromBytes([]byte{9, 9, 9})
	got, err := img.ReadBlock(context.Background(), 0, 3)
	require.NoError(t, err)

	got[0] = 0
	assert.Equal(t, []byte{9, 9, 9}, img.Bytes())
}

func TestOutOfRange(t *testing.T) {
	img := New(8)
	ctx := context.Background()

	tests := []struct {
		name    string
		address int
		length  int
	}{
		{"past end", 6, 4},
		{"negative address", -1, 2},
		{"starts at end", 8, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := img.ReadBlock(ctx, tt.address, tt.length)
			assert.ErrorIs(t, err, transport.ErrOutOfRange)

			err = img.WriteBlock(ctx, tt.address, make([]byte, tt.length))
			assert.ErrorIs(t, err, transport.ErrOutOfRange)
		})
	}
	assert.Zero(t, img.Reads())
	assert.Zero(t, img.Writes())
}

func TestOutOfRangeHugeAddress(t *testing.T) {
	img := New(8)
	ctx := context.Background()

	_, err := img.ReadBlock(ctx, math.MaxInt, 1)
	assert.ErrorIs(t, err, transport.ErrOutOfRange)

	_, err = img.ReadBlock(ctx, 4, math.MaxInt)
	assert.ErrorIs(t, err, transport.ErrOutOfRange)

	err = img.WriteBlock(ctx, math.MaxInt, []byte{1})
	assert.ErrorIs(t, err, transport.ErrOutOfRange)

	assert.Zero(t, img.Reads())
	assert.Zero(t, img.Writes())
}

func TestCancelledContext(t *testing.T) {
	img := New(8)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := img.ReadBlock(ctx, 0, 1)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, img.WriteBlock(ctx, 0, []byte{1}), context.Canceled)
}

func TestSaveAndOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dev.bin")

	img := FromBytes([]byte{1, 2, 3, 4})
	require.NoError(t, img.Save(path))

	loaded, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, loaded.Bytes())
	assert.Equal(t, 4, loaded.Size())
}

func TestOpenOrCreate(t *testing.T) {
	dir := t.TempDir()

	img, err := OpenOrCreate(filepath.Join(dir, "missing.bin"), 32)
	require.NoError(t, err)
	assert.Equal(t, 32, img.Size())

	path := filepath.Join(dir, "small.bin")
	require.NoError(t, os.WriteFile(path, []byte{0xAA}, 0644))
	img, err = OpenOrCreate(path, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xAA, 0, 0, 0}, img.Bytes())
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.bin"))
	assert.Error(t, err)
}
