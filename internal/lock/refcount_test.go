package locking

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPinCount(t *testing.T) {
	var p PinCount
	require.False(t, p.Pinned())
	require.Equal(t, int32(0), p.Get())

	p.Pin()
	p.Pin()
	require.True(t, p.Pinned())
	require.Equal(t, "PinCount: 2", p.String())

	require.False(t, p.Unpin())
	require.True(t, p.Unpin())
	require.False(t, p.Pinned())
}

func TestPinCount_UnderflowPanics(t *testing.T) {
	var p PinCount
	require.Panics(t, func() { p.Unpin() })
}
