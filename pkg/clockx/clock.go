package clockx

// Slots is the view of a fixed set of slots [0..Len()) that a Clock sweeps over.
type Slots interface {
	Len() int
	Pinned(id int) bool
	UsageCount(id int) uint32
	// Decay lowers the usage count of an unpinned slot by one.
	Decay(id int)
}

// Clock implements clock-sweep (second-chance with usage counts) victim selection.
// It owns only the hand; per-slot state lives in the Slots it sweeps.
type Clock struct {
	hand int
}

func New() *Clock {
	return &Clock{}
}

// Hand is the slot the next sweep starts from.
func (c *Clock) Hand() int { return c.hand }

// Sweep advances the hand until it finds an unpinned slot with usage count zero,
// decaying unpinned slots along the way. The hand is left just past the victim.
//
// It gives up once it has seen Len() pinned slots in a row, so a fully pinned set
// terminates after one revolution.
func (c *Clock) Sweep(s Slots) (id int, ok bool) {
	n := s.Len()
	if n == 0 {
		return -1, false
	}
	if c.hand >= n {
		c.hand = 0
	}

	consecutivePinned := 0
	for {
		idx := c.hand
		c.hand = (c.hand + 1) % n

		if s.Pinned(idx) {
			consecutivePinned++
			if consecutivePinned >= n {
				return -1, false
			}
			continue
		}

		if s.UsageCount(idx) == 0 {
			return idx, true
		}
		// Second chance.
		s.Decay(idx)
		consecutivePinned = 0
	}
}
