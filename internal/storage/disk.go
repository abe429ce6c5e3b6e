package storage

// DiskManager performs durable page I/O and hands out page ids.
// Calls are synchronous and block until the operation completes.
type DiskManager interface {
	ReadPage(pageID PageID, dst *Page) error
	WritePage(pageID PageID, src *Page) error
	AllocatePage() (PageID, error)
}

// Deallocator is implemented by disk managers that can recycle page ids.
type Deallocator interface {
	DeallocatePage(pageID PageID) error
}

var (
	_ DiskManager = (*FileDiskManager)(nil)
	_ Deallocator = (*FileDiskManager)(nil)
	_ DiskManager = (*MemDiskManager)(nil)
	_ Deallocator = (*MemDiskManager)(nil)
)
