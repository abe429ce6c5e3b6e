package bufferpool

import "github.com/tuannm99/novabuf/internal/storage"

// Pager is what access methods built on top of the pool consume.
type Pager interface {
	FetchPage(pageID storage.PageID) (*PageGuard, error)
	NewPage() (storage.PageID, *PageGuard, error)
	FlushPage(pageID storage.PageID) error
	FlushAll() error
}

var _ Pager = (*Manager)(nil)
