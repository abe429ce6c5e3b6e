package storage

import (
	"errors"
	"fmt"
	"math"
)

const (
	OneB  = 1 << 0  // 1
	OneKB = 1 << 10 // 1,024
	OneMB = 1 << 20 // 1,048,576
	OneGB = 1 << 30 // 1,073,741,824

	SegmentSize       = 1 << 30                // 1,073,741,824 (1 GiB)
	PageSize          = 1 << 13                // 8,192 (8 KiB)
	MaxPagePerSegment = SegmentSize / PageSize // 131,072 pages/segment
)

const (
	FileMode0644 = 0o644
	FileMode0755 = 0o755
)

// PageID identifies a durable page. IDs are handed out by a DiskManager.
type PageID uint32

// InvalidPageID marks an empty frame or an unset reference.
const InvalidPageID PageID = math.MaxUint32

func (id PageID) Valid() bool { return id != InvalidPageID }

// Page is the unit of durable storage. Its content is opaque to this package.
type Page [PageSize]byte

var (
	ErrStorageIO       = errors.New("storage: I/O error")
	ErrInvalidPageID   = errors.New("storage: invalid page id")
	ErrDiskClosed      = errors.New("storage: disk manager is closed")
	ErrCorruptMetadata = errors.New("storage: corrupt allocation metadata")

	// ErrPageNotAllocated also matches ErrInvalidPageID.
	ErrPageNotAllocated = fmt.Errorf("%w: page is not allocated", ErrInvalidPageID)
)

// IOError is a failed disk manager operation. It matches ErrStorageIO with errors.Is.
type IOError struct {
	Op     string
	PageID PageID
	Err    error
}

func (e *IOError) Error() string {
	if e.PageID.Valid() {
		return fmt.Sprintf("storage: %s page %d: %v", e.Op, e.PageID, e.Err)
	}
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func (e *IOError) Is(target error) bool { return target == ErrStorageIO }

// WrapIO turns err into an *IOError. Errors that already are one pass through unchanged.
func WrapIO(op string, pageID PageID, err error) error {
	if err == nil {
		return nil
	}
	var ioErr *IOError
	if errors.As(err, &ioErr) {
		return err
	}
	return &IOError{Op: op, PageID: pageID, Err: err}
}
