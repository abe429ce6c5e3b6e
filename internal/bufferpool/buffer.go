package bufferpool

import (
	locking "github.com/tuannm99/novabuf/internal/lock"
	"github.com/tuannm99/novabuf/internal/storage"
)

// BufferID is the index of a Frame in the pool, in [0, poolSize).
type BufferID int

// Buffer is the in-memory copy of one page plus its dirty flag.
// While a page is resident exactly one Buffer holds it.
type Buffer struct {
	pageID storage.PageID
	page   storage.Page
	dirty  bool
}

func newBuffer(pageID storage.PageID) *Buffer {
	return &Buffer{pageID: pageID}
}

func (b *Buffer) PageID() storage.PageID { return b.pageID }

func (b *Buffer) IsDirty() bool { return b.dirty }

// Frame is a pool slot. It lives as long as the pool and is reused across pages.
type Frame struct {
	usageCount uint32
	pins       locking.PinCount
	buffer     *Buffer
}

func (f *Frame) PageID() storage.PageID { return f.buffer.pageID }

func (f *Frame) UsageCount() uint32 { return f.usageCount }

func (f *Frame) PinCount() int32 { return f.pins.Get() }

func (f *Frame) Pinned() bool { return f.pins.Pinned() }

func (f *Frame) Empty() bool { return !f.buffer.pageID.Valid() }

// touch records a hit. maxUsage == 0 means uncapped.
func (f *Frame) touch(maxUsage uint32) {
	if maxUsage == 0 || f.usageCount < maxUsage {
		f.usageCount++
	}
}

// reset returns the frame to the Empty state.
func (f *Frame) reset() {
	f.usageCount = 0
	f.buffer = newBuffer(storage.InvalidPageID)
}
