package bufferpool

import "github.com/tuannm99/novabuf/internal/storage"

// PageGuard is a pin on one resident page. The page cannot be evicted until every
// guard on it has been released. Release is idempotent, so `defer g.Release()` is safe
// alongside an explicit early release.
type PageGuard struct {
	mgr      *Manager
	frame    *Frame
	buf      *Buffer
	released bool
}

func (g *PageGuard) PageID() storage.PageID { return g.buf.pageID }

// Buffer is the shared in-memory copy this guard pins. Guards on the same resident
// page return the same pointer.
func (g *PageGuard) Buffer() *Buffer { return g.buf }

// Data is a mutable view of the page bytes, valid until Release. Call MarkDirty after
// writing through it. It returns nil once the guard is released.
func (g *PageGuard) Data() []byte {
	if g.released {
		return nil
	}
	return g.buf.page[:]
}

// Page is Data as a fixed-size array.
func (g *PageGuard) Page() *storage.Page {
	if g.released {
		return nil
	}
	return &g.buf.page
}

// MarkDirty records that the page differs from its durable copy. Writes are not detected.
func (g *PageGuard) MarkDirty() error {
	if g.released {
		return ErrGuardReleased
	}
	g.buf.dirty = true
	return nil
}

func (g *PageGuard) IsDirty() bool { return g.buf.dirty }

func (g *PageGuard) Released() bool { return g == nil || g.released }

// Release drops the pin.
func (g *PageGuard) Release() {
	if g == nil || g.released {
		return
	}
	g.released = true
	g.mgr.unpin(g.frame)
}
