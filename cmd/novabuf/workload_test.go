package main

import (
	"encoding/binary"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuannm99/novabuf/internal/bufferpool"
	"github.com/tuannm99/novabuf/internal/storage"
)

func TestRun_SurvivesEvictionAndPersists(t *testing.T) {
	fs := storage.LocalFileSet{Dir: filepath.Join(t.TempDir(), "data"), Base: "pages"}
	disk, err := storage.OpenFileDiskManager(fs)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bpm := bufferpool.NewManager(disk, 8, bufferpool.WithLogger(logger))

	require.NoError(t, run(bpm, 32, 3, logger))
	require.NoError(t, bpm.Close())

	s := bpm.Stats()
	require.Positive(t, s.Evictions)
	require.Equal(t, 0, s.Pinned)

	reopened, err := storage.OpenFileDiskManager(fs)
	require.NoError(t, err)
	require.Equal(t, storage.PageID(32), reopened.NextPageID())

	// Page 0 is in the hot set, so it was bumped once per round.
	var p storage.Page
	require.NoError(t, reopened.ReadPage(0, &p))
	require.Equal(t, uint64(0), binary.LittleEndian.Uint64(p[offPageID:]))
	require.Equal(t, uint64(3), binary.LittleEndian.Uint64(p[offCounter:]))

	// Page 5 is cold and never picked by (r*7)%32 for r < 3.
	require.NoError(t, reopened.ReadPage(5, &p))
	require.Equal(t, uint64(5), binary.LittleEndian.Uint64(p[offPageID:]))
	require.Equal(t, uint64(0), binary.LittleEndian.Uint64(p[offCounter:]))
}

func TestRun_PoolTooSmallForPinnedSet(t *testing.T) {
	bpm := bufferpool.NewManager(storage.NewMemDiskManager(), 1)

	held, err := bpm.FetchPage(0)
	require.NoError(t, err)
	defer held.Release()

	err = run(bpm, 1, 1, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.ErrorIs(t, err, bufferpool.ErrNoFreeBuffer)
}
