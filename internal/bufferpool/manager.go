package bufferpool

import (
	"io"
	"log/slog"
	"maps"
	"slices"

	"go.uber.org/multierr"

	"github.com/tuannm99/novabuf/internal/storage"
)

// Manager mediates all page access for a storage engine. It owns the BufferPool and the
// page table and delegates durable I/O to a storage.DiskManager.
//
// A Manager is not safe for concurrent use.
type Manager struct {
	disk      storage.DiskManager
	pool      *BufferPool
	pageTable map[storage.PageID]BufferID // PageID -> frame index

	maxUsage uint32
	logger   *slog.Logger
	metrics  *Metrics
	stats    Stats
}

// Stats are running counters of a Manager plus a snapshot of frame occupancy.
type Stats struct {
	Hits        uint64
	Misses      uint64
	Evictions   uint64
	Writebacks  uint64
	Flushes     uint64
	Exhaustions uint64
	Resident    int
	Pinned      int
}

// NewManager builds a Manager over disk with poolSize frames. It panics if poolSize is
// not positive.
func NewManager(disk storage.DiskManager, poolSize int, opts ...Option) *Manager {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	pool := NewBufferPool(poolSize)
	return &Manager{
		disk:      disk,
		pool:      pool,
		pageTable: make(map[storage.PageID]BufferID, pool.Size()),
		maxUsage:  o.maxUsageCount,
		logger:    o.logger,
		metrics:   o.metrics,
	}
}

func (m *Manager) PoolSize() int { return m.pool.Size() }

// FetchPage pins pageID and returns a guard on it, reading it from disk on a miss.
func (m *Manager) FetchPage(pageID storage.PageID) (*PageGuard, error) {
	if !pageID.Valid() {
		return nil, storage.ErrInvalidPageID
	}

	// 1) HIT
	if idx, ok := m.pageTable[pageID]; ok {
		f := m.pool.Frame(idx)
		f.touch(m.maxUsage)
		m.stats.Hits++
		m.metrics.hit()
		return m.pin(f), nil
	}

	// 2) MISS
	m.stats.Misses++
	m.metrics.miss()

	idx, f, err := m.victim()
	if err != nil {
		return nil, err
	}

	// Read into a fresh buffer so a failed read leaves the victim resident.
	buf := newBuffer(pageID)
	if err := m.disk.ReadPage(pageID, &buf.page); err != nil {
		m.metrics.ioError("read")
		return nil, storage.WrapIO("read", pageID, err)
	}

	m.install(idx, f, buf)
	return m.pin(f), nil
}

// NewPage allocates a page id from the disk manager and pins a zeroed frame for it.
// The frame is secured before allocating, so an exhausted pool does not consume ids.
func (m *Manager) NewPage() (storage.PageID, *PageGuard, error) {
	idx, f, err := m.victim()
	if err != nil {
		return storage.InvalidPageID, nil, err
	}

	pageID, err := m.disk.AllocatePage()
	if err != nil {
		m.metrics.ioError("allocate")
		return storage.InvalidPageID, nil, storage.WrapIO("allocate", storage.InvalidPageID, err)
	}
	if _, ok := m.pageTable[pageID]; ok {
		// The disk manager reused an id that is still resident.
		return storage.InvalidPageID, nil, storage.WrapIO("allocate", pageID, storage.ErrInvalidPageID)
	}

	m.install(idx, f, newBuffer(pageID))
	return pageID, m.pin(f), nil
}

// FlushPage writes the resident copy of pageID regardless of its dirty flag.
func (m *Manager) FlushPage(pageID storage.PageID) error {
	idx, ok := m.pageTable[pageID]
	if !ok {
		return ErrPageNotResident
	}
	buf := m.pool.Frame(idx).buffer

	if err := m.disk.WritePage(pageID, &buf.page); err != nil {
		m.metrics.ioError("write")
		return storage.WrapIO("write", pageID, err)
	}
	buf.dirty = false
	m.stats.Flushes++
	m.metrics.flush()
	return nil
}

// FlushAll flushes every resident page in page id order. Failures do not stop the sweep;
// each one is returned as a *FlushError combined with multierr.
func (m *Manager) FlushAll() error {
	var errs error
	for _, pageID := range slices.Sorted(maps.Keys(m.pageTable)) {
		if err := m.FlushPage(pageID); err != nil {
			m.logger.Warn("bufferpool.flush failed", "page_id", pageID, "err", err)
			errs = multierr.Append(errs, &FlushError{PageID: pageID, Err: err})
		}
	}
	return errs
}

// DeletePage drops pageID from the pool without writing it and, when the disk manager
// supports it, gives the id back for reuse. If the disk manager refuses the id (for
// example it is already free) the pool is left unchanged.
func (m *Manager) DeletePage(pageID storage.PageID) error {
	idx, resident := m.pageTable[pageID]
	if resident && m.pool.Frame(idx).Pinned() {
		return ErrPagePinned
	}

	if d, ok := m.disk.(storage.Deallocator); ok {
		if err := d.DeallocatePage(pageID); err != nil {
			m.metrics.ioError("deallocate")
			return storage.WrapIO("deallocate", pageID, err)
		}
	}

	if resident {
		delete(m.pageTable, pageID)
		m.pool.Frame(idx).reset()
		m.metrics.setResident(len(m.pageTable))
	}
	return nil
}

// Resident reports whether pageID currently occupies a frame.
func (m *Manager) Resident(pageID storage.PageID) bool {
	_, ok := m.pageTable[pageID]
	return ok
}

func (m *Manager) Stats() Stats {
	s := m.stats
	s.Resident = len(m.pageTable)
	for i := range m.pool.frames {
		if m.pool.frames[i].Pinned() {
			s.Pinned++
		}
	}
	return s
}

// Close flushes all resident pages and closes the disk manager if it is an io.Closer.
// Outstanding guards must be released first.
func (m *Manager) Close() error {
	err := m.FlushAll()
	if c, ok := m.disk.(io.Closer); ok {
		err = multierr.Append(err, c.Close())
	}
	return err
}

// victim finds a frame to reuse and writes it back if dirty. On error nothing has changed
// except the clock hand and usage counts.
func (m *Manager) victim() (BufferID, *Frame, error) {
	idx, ok := m.pool.Evict()
	if !ok {
		m.stats.Exhaustions++
		m.metrics.exhausted()
		m.logger.Debug("bufferpool.evict no victim", "pool_size", m.pool.Size())
		return -1, nil, ErrNoFreeBuffer
	}

	f := m.pool.Frame(idx)
	if f.Empty() {
		return idx, f, nil
	}

	old := f.buffer
	if old.dirty {
		if err := m.disk.WritePage(old.pageID, &old.page); err != nil {
			m.metrics.ioError("write")
			m.logger.Warn("bufferpool.writeback failed", "page_id", old.pageID, "buffer_id", idx, "err", err)
			return -1, nil, storage.WrapIO("write", old.pageID, err)
		}
		old.dirty = false
		m.stats.Writebacks++
		m.metrics.writeback()
	}
	return idx, f, nil
}

// install makes buf the content of frame idx, replacing whatever page it held.
func (m *Manager) install(idx BufferID, f *Frame, buf *Buffer) {
	if old := f.buffer.pageID; old.Valid() {
		delete(m.pageTable, old)
		m.stats.Evictions++
		m.metrics.eviction()
		m.logger.Debug("bufferpool.evict", "page_id", old, "buffer_id", idx, "new_page_id", buf.pageID)
	}

	f.buffer = buf
	f.usageCount = 1
	m.pageTable[buf.pageID] = idx
	m.metrics.setResident(len(m.pageTable))
}

func (m *Manager) pin(f *Frame) *PageGuard {
	if !f.Pinned() {
		m.metrics.addPinned(1)
	}
	f.pins.Pin()
	return &PageGuard{mgr: m, frame: f, buf: f.buffer}
}

func (m *Manager) unpin(f *Frame) {
	if f.pins.Unpin() {
		m.metrics.addPinned(-1)
	}
}
