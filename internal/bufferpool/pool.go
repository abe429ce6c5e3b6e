package bufferpool

import (
	"fmt"

	"github.com/tuannm99/novabuf/pkg/clockx"
)

// DefaultCapacity is the pool size used when none is configured.
const DefaultCapacity = 128

// BufferPool is the fixed array of frames plus the clock hand used to pick victims.
type BufferPool struct {
	frames []Frame
	clock  *clockx.Clock
}

// NewBufferPool creates size empty frames. It panics if size is not positive.
func NewBufferPool(size int) *BufferPool {
	if size <= 0 {
		panic(fmt.Sprintf("bufferpool: pool size must be positive, got %d", size))
	}
	frames := make([]Frame, size)
	for i := range frames {
		frames[i].reset()
	}
	return &BufferPool{
		frames: frames,
		clock:  clockx.New(),
	}
}

func (p *BufferPool) Size() int { return len(p.frames) }

// Frame returns the slot at id. The pointer stays valid for the life of the pool.
func (p *BufferPool) Frame(id BufferID) *Frame {
	return &p.frames[id]
}

// NextVictimID is where the next eviction scan starts.
func (p *BufferPool) NextVictimID() BufferID {
	return BufferID(p.clock.Hand())
}

// Evict picks a victim with clock-sweep. ok is false when every frame stayed pinned for a
// whole revolution. The victim is not modified; the caller flushes and repopulates it.
func (p *BufferPool) Evict() (id BufferID, ok bool) {
	idx, ok := p.clock.Sweep(frameSlots(p.frames))
	if !ok {
		return -1, false
	}
	return BufferID(idx), true
}
