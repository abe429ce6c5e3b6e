package storage

// MemDiskManager keeps pages in memory. Reads and writes copy, so callers never
// share memory with the "disk".
type MemDiskManager struct {
	pages  map[PageID]*Page
	free   []PageID
	freed  map[PageID]struct{}
	nextID PageID
}

func NewMemDiskManager() *MemDiskManager {
	return &MemDiskManager{
		pages: make(map[PageID]*Page),
		freed: make(map[PageID]struct{}),
	}
}

// ReadPage copies the stored page into dst. Pages that were never written read as zeros.
func (m *MemDiskManager) ReadPage(pageID PageID, dst *Page) error {
	if !pageID.Valid() {
		return WrapIO("read", pageID, ErrInvalidPageID)
	}
	if p, ok := m.pages[pageID]; ok {
		*dst = *p
		return nil
	}
	*dst = Page{}
	return nil
}

func (m *MemDiskManager) WritePage(pageID PageID, src *Page) error {
	if !pageID.Valid() {
		return WrapIO("write", pageID, ErrInvalidPageID)
	}
	p := new(Page)
	*p = *src
	m.pages[pageID] = p
	return nil
}

func (m *MemDiskManager) AllocatePage() (PageID, error) {
	if n := len(m.free); n > 0 {
		id := m.free[n-1]
		m.free = m.free[:n-1]
		delete(m.freed, id)
		return id, nil
	}
	if m.nextID == InvalidPageID {
		return InvalidPageID, WrapIO("allocate", InvalidPageID, ErrInvalidPageID)
	}
	id := m.nextID
	m.nextID++
	return id, nil
}

// DeallocatePage frees an allocated id. Ids past the allocation mark or already free
// fail with ErrPageNotAllocated.
func (m *MemDiskManager) DeallocatePage(pageID PageID) error {
	if !pageID.Valid() {
		return WrapIO("deallocate", pageID, ErrInvalidPageID)
	}
	if _, free := m.freed[pageID]; free || pageID >= m.nextID {
		return WrapIO("deallocate", pageID, ErrPageNotAllocated)
	}
	delete(m.pages, pageID)
	m.free = append(m.free, pageID)
	m.freed[pageID] = struct{}{}
	return nil
}

// Written reports whether pageID has been written at least once.
func (m *MemDiskManager) Written(pageID PageID) bool {
	_, ok := m.pages[pageID]
	return ok
}
