package bufferpool

import "github.com/tuannm99/novabuf/pkg/clockx"

// frameSlots exposes the frames array to the clock hand.
type frameSlots []Frame

var _ clockx.Slots = frameSlots(nil)

func (s frameSlots) Len() int { return len(s) }

func (s frameSlots) Pinned(id int) bool { return s[id].Pinned() }

func (s frameSlots) UsageCount(id int) uint32 { return s[id].usageCount }

func (s frameSlots) Decay(id int) {
	if s[id].usageCount > 0 {
		s[id].usageCount--
	}
}
