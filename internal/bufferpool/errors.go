package bufferpool

import (
	"errors"
	"fmt"

	"github.com/tuannm99/novabuf/internal/storage"
)

var (
	ErrNoFreeBuffer    = errors.New("bufferpool: no free buffer available (all pinned)")
	ErrPagePinned      = errors.New("bufferpool: page is pinned")
	ErrPageNotResident = errors.New("bufferpool: page is not resident")
	ErrGuardReleased   = errors.New("bufferpool: page guard already released")
)

// FlushError reports one page that FlushAll could not write.
type FlushError struct {
	PageID storage.PageID
	Err    error
}

func (e *FlushError) Error() string {
	return fmt.Sprintf("bufferpool: flush page %d: %v", e.PageID, e.Err)
}

func (e *FlushError) Unwrap() error { return e.Err }
