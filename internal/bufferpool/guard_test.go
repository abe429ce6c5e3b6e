package bufferpool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPageGuard_ReleaseIsIdempotent(t *testing.T) {
	m, _ := newTestManager(t, 2)

	g1, err := m.FetchPage(1)
	require.NoError(t, err)
	g2, err := m.FetchPage(1)
	require.NoError(t, err)
	f := m.pool.Frame(m.pageTable[1])

	g1.Release()
	g1.Release()
	require.Equal(t, int32(1), f.PinCount())
	require.True(t, g1.Released())
	require.False(t, g2.Released())

	g2.Release()
	require.Equal(t, int32(0), f.PinCount())
}

func TestPageGuard_NilRelease(t *testing.T) {
	var g *PageGuard
	require.NotPanics(t, g.Release)
	require.True(t, g.Released())
}

func TestPageGuard_AccessAfterRelease(t *testing.T) {
	m, _ := newTestManager(t, 1)

	g, err := m.FetchPage(1)
	require.NoError(t, err)
	require.NotNil(t, g.Page())
	g.Release()

	require.Nil(t, g.Data())
	require.Nil(t, g.Page())
	require.ErrorIs(t, g.MarkDirty(), ErrGuardReleased)
	require.False(t, g.IsDirty())
}

func TestPageGuard_PageAndDataShareMemory(t *testing.T) {
	m, _ := newTestManager(t, 1)

	g, err := m.FetchPage(1)
	require.NoError(t, err)
	defer g.Release()

	g.Page()[10] = 7
	require.Equal(t, byte(7), g.Data()[10])

	require.NoError(t, g.MarkDirty())
	require.True(t, g.IsDirty())
	require.True(t, g.Buffer().IsDirty())
	require.Equal(t, g.PageID(), g.Buffer().PageID())
}

func TestPageGuard_StaleGuardDoesNotSeeNextPage(t *testing.T) {
	m, disk := newTestManager(t, 1)
	disk.seed(t, 2, 0x22)

	g1, err := m.FetchPage(1)
	require.NoError(t, err)
	old := g1.Buffer()
	g1.Release()

	g2, err := m.FetchPage(2)
	require.NoError(t, err)
	defer g2.Release()

	require.NotSame(t, old, g2.Buffer())
	require.Equal(t, byte(0), old.page[0])
	require.Equal(t, byte(0x22), g2.Data()[0])
}
