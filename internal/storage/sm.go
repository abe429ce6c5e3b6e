package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tuannm99/novabuf/internal/alias/util"
)

// LocalFileSet represents a local directory + base file name.
// Segments are stored as: Base, Base.1, Base.2, ...
type LocalFileSet struct {
	Dir  string
	Base string
}

// SegFileName returns segment file name:
//   - seg 0: base
//   - seg N>0: base.N
func SegFileName(base string, segNo int32) string {
	if segNo <= 0 {
		return base
	}
	return fmt.Sprintf("%s.%d", base, segNo)
}

func (lfs LocalFileSet) OpenSegment(segNo int32) (*os.File, error) {
	path := filepath.Join(lfs.Dir, SegFileName(lfs.Base, segNo))
	if err := os.MkdirAll(lfs.Dir, FileMode0755); err != nil {
		return nil, err
	}
	// RDWR | CREATE (no truncate)
	return os.OpenFile(path, os.O_RDWR|os.O_CREATE, FileMode0644)
}

func (lfs LocalFileSet) metaPath() string {
	return filepath.Join(lfs.Dir, lfs.Base+".meta")
}

// parseSegNo is the inverse of SegFileName. Other files in the directory, such as the
// meta file, are rejected.
func parseSegNo(base, name string) (int32, bool) {
	if name == base {
		return 0, true
	}
	suffix, ok := strings.CutPrefix(name, base+".")
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(suffix, 10, 32)
	if err != nil || n <= 0 || SegFileName(base, int32(n)) != name {
		return 0, false
	}
	return int32(n), true
}

// FileDiskManager maps a PageID -> (segment, offset) inside a LocalFileSet and keeps
// allocation state in a sidecar meta file.
type FileDiskManager struct {
	fs     LocalFileSet
	meta   diskMeta
	free   map[PageID]struct{} // mirrors meta.FreePages
	closed bool
}

// OpenFileDiskManager opens (or creates) the file set. Without a meta file the next
// page id is derived from the highest numbered segment on disk.
func OpenFileDiskManager(fs LocalFileSet) (*FileDiskManager, error) {
	if err := os.MkdirAll(fs.Dir, FileMode0755); err != nil {
		return nil, WrapIO("open", InvalidPageID, err)
	}
	dm := &FileDiskManager{fs: fs}

	meta, err := loadMeta(fs.metaPath())
	switch {
	case err == nil:
		dm.meta = meta
	case errors.Is(err, os.ErrNotExist):
		next, err := dm.scanNextPageID()
		if err != nil {
			return nil, err
		}
		dm.meta = diskMeta{NextPageID: next}
	default:
		return nil, err
	}

	if dm.free, err = dm.meta.freeSet(); err != nil {
		return nil, err
	}
	return dm, nil
}

func locate(pageID PageID) (segNo int32, offset int64) {
	segNo = int32(pageID / MaxPagePerSegment)
	offset = int64(pageID%MaxPagePerSegment) * PageSize
	return segNo, offset
}

// ReadPage reads exactly one page into dst.
// If the underlying file is smaller than the requested offset+PageSize,
// the remainder is zero-filled. Allocated pages that were never written read as zeros.
func (dm *FileDiskManager) ReadPage(pageID PageID, dst *Page) error {
	if err := dm.check(pageID); err != nil {
		return WrapIO("read", pageID, err)
	}
	segNo, off := locate(pageID)
	f, err := dm.fs.OpenSegment(segNo)
	if err != nil {
		return WrapIO("read", pageID, err)
	}
	defer util.CloseFileFunc(f)

	n, err := f.ReadAt(dst[:], off)
	if err != nil && err != io.EOF {
		return WrapIO("read", pageID, err)
	}
	clear(dst[n:])
	return nil
}

// WritePage writes exactly one page from src at the location computed from pageID.
func (dm *FileDiskManager) WritePage(pageID PageID, src *Page) error {
	if err := dm.check(pageID); err != nil {
		return WrapIO("write", pageID, err)
	}
	segNo, off := locate(pageID)
	f, err := dm.fs.OpenSegment(segNo)
	if err != nil {
		return WrapIO("write", pageID, err)
	}
	defer util.CloseFileFunc(f)

	n, err := f.WriteAt(src[:], off)
	if err != nil {
		return WrapIO("write", pageID, err)
	}
	if n != PageSize {
		return WrapIO("write", pageID, io.ErrShortWrite)
	}
	return nil
}

// AllocatePage reuses a deallocated id when one exists, otherwise extends the file set.
// The allocation state is persisted before the id is returned.
func (dm *FileDiskManager) AllocatePage() (PageID, error) {
	if dm.closed {
		return InvalidPageID, WrapIO("allocate", InvalidPageID, ErrDiskClosed)
	}
	next := dm.meta
	var id PageID
	if n := len(next.FreePages); n > 0 {
		id = next.FreePages[n-1]
		next.FreePages = next.FreePages[:n-1:n-1]
	} else {
		if next.NextPageID == InvalidPageID {
			return InvalidPageID, WrapIO("allocate", InvalidPageID, ErrInvalidPageID)
		}
		id = next.NextPageID
		next.NextPageID++
	}
	if err := saveMeta(dm.fs.metaPath(), next); err != nil {
		return InvalidPageID, WrapIO("allocate", id, err)
	}
	dm.meta = next
	delete(dm.free, id)
	return id, nil
}

// DeallocatePage returns pageID to the free list. The page bytes are left as is.
// Ids that were never handed out, or are already free, fail with ErrPageNotAllocated.
func (dm *FileDiskManager) DeallocatePage(pageID PageID) error {
	if err := dm.check(pageID); err != nil {
		return WrapIO("deallocate", pageID, err)
	}
	if _, free := dm.free[pageID]; free || pageID >= dm.meta.NextPageID {
		return WrapIO("deallocate", pageID, ErrPageNotAllocated)
	}
	next := dm.meta
	next.FreePages = append(next.FreePages[:len(next.FreePages):len(next.FreePages)], pageID)
	if err := saveMeta(dm.fs.metaPath(), next); err != nil {
		return WrapIO("deallocate", pageID, err)
	}
	dm.meta = next
	dm.free[pageID] = struct{}{}
	return nil
}

// scanNextPageID finds the highest numbered segment and returns the id just past its
// last page. Gaps in lower segments are not counted as free.
func (dm *FileDiskManager) scanNextPageID() (PageID, error) {
	entries, err := os.ReadDir(dm.fs.Dir)
	if err != nil {
		return InvalidPageID, WrapIO("scan", InvalidPageID, err)
	}

	last := int32(-1)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if segNo, ok := parseSegNo(dm.fs.Base, e.Name()); ok && segNo > last {
			last = segNo
		}
	}
	if last < 0 {
		return 0, nil
	}

	info, err := os.Stat(filepath.Join(dm.fs.Dir, SegFileName(dm.fs.Base, last)))
	if err != nil {
		return InvalidPageID, WrapIO("scan", InvalidPageID, err)
	}
	next := int64(last)*MaxPagePerSegment + (info.Size()+PageSize-1)/PageSize
	if next >= int64(InvalidPageID) {
		return InvalidPageID, WrapIO("scan", InvalidPageID, ErrInvalidPageID)
	}
	return PageID(next), nil
}

// NextPageID is the id the next extending allocation will return.
func (dm *FileDiskManager) NextPageID() PageID { return dm.meta.NextPageID }

// Close persists the allocation state. Further calls fail with ErrDiskClosed.
func (dm *FileDiskManager) Close() error {
	if dm.closed {
		return nil
	}
	dm.closed = true
	return WrapIO("close", InvalidPageID, saveMeta(dm.fs.metaPath(), dm.meta))
}

func (dm *FileDiskManager) check(pageID PageID) error {
	if dm.closed {
		return ErrDiskClosed
	}
	if !pageID.Valid() {
		return ErrInvalidPageID
	}
	return nil
}
