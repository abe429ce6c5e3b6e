package bufferpool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFrameSlots_ReflectsFrames(t *testing.T) {
	frames := make([]Frame, 3)
	for i := range frames {
		frames[i].reset()
	}
	frames[1].usageCount = 2
	frames[2].pins.Pin()

	s := frameSlots(frames)
	require.Equal(t, 3, s.Len())
	require.False(t, s.Pinned(0))
	require.True(t, s.Pinned(2))
	require.Equal(t, uint32(2), s.UsageCount(1))
}

func TestFrameSlots_DecayWritesThroughAndStopsAtZero(t *testing.T) {
	frames := make([]Frame, 1)
	frames[0].reset()
	frames[0].usageCount = 1

	s := frameSlots(frames)
	s.Decay(0)
	require.Equal(t, uint32(0), frames[0].usageCount)

	s.Decay(0)
	require.Equal(t, uint32(0), frames[0].usageCount)
}
