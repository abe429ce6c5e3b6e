package bufferpool

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuannm99/novabuf/internal/storage"
)

var errDiskFault = errors.New("injected disk fault")

type diskCall struct {
	Op     string
	PageID storage.PageID
	First  byte // first byte of the page written or read
}

// recordingDisk wraps a MemDiskManager, logs every call in order and can fail chosen calls.
type recordingDisk struct {
	*storage.MemDiskManager
	calls []diskCall
	fail  map[string]map[storage.PageID]bool // op -> page -> fail
}

func newRecordingDisk() *recordingDisk {
	return &recordingDisk{
		MemDiskManager: storage.NewMemDiskManager(),
		fail:           map[string]map[storage.PageID]bool{},
	}
}

func (d *recordingDisk) failOn(op string, pageID storage.PageID) {
	if d.fail[op] == nil {
		d.fail[op] = map[storage.PageID]bool{}
	}
	d.fail[op][pageID] = true
}

func (d *recordingDisk) heal() { d.fail = map[string]map[storage.PageID]bool{} }

func (d *recordingDisk) ReadPage(pageID storage.PageID, dst *storage.Page) error {
	if d.fail["read"][pageID] {
		d.calls = append(d.calls, diskCall{Op: "read", PageID: pageID})
		return errDiskFault
	}
	err := d.MemDiskManager.ReadPage(pageID, dst)
	d.calls = append(d.calls, diskCall{Op: "read", PageID: pageID, First: dst[0]})
	return err
}

func (d *recordingDisk) WritePage(pageID storage.PageID, src *storage.Page) error {
	d.calls = append(d.calls, diskCall{Op: "write", PageID: pageID, First: src[0]})
	if d.fail["write"][pageID] {
		return errDiskFault
	}
	return d.MemDiskManager.WritePage(pageID, src)
}

func (d *recordingDisk) AllocatePage() (storage.PageID, error) {
	if d.fail["allocate"][storage.InvalidPageID] {
		return storage.InvalidPageID, errDiskFault
	}
	id, err := d.MemDiskManager.AllocatePage()
	d.calls = append(d.calls, diskCall{Op: "allocate", PageID: id})
	return id, err
}

func (d *recordingDisk) ops() []string {
	res := make([]string, 0, len(d.calls))
	for _, c := range d.calls {
		res = append(res, c.Op)
	}
	return res
}

func (d *recordingDisk) reset() { d.calls = nil }

// seed writes a page whose first byte is v directly to the disk.
func (d *recordingDisk) seed(t *testing.T, pageID storage.PageID, v byte) {
	t.Helper()
	var p storage.Page
	p[0] = v
	require.NoError(t, d.MemDiskManager.WritePage(pageID, &p))
}

func newTestManager(t *testing.T, poolSize int, opts ...Option) (*Manager, *recordingDisk) {
	t.Helper()
	disk := newRecordingDisk()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	opts = append([]Option{WithLogger(logger)}, opts...)
	return NewManager(disk, poolSize, opts...), disk
}

// checkResidency verifies the page table and the frames describe the same set of pages.
func checkResidency(t *testing.T, m *Manager) {
	t.Helper()
	seen := map[storage.PageID]BufferID{}
	for i := range m.pool.frames {
		f := &m.pool.frames[i]
		if f.Empty() {
			continue
		}
		_, dup := seen[f.PageID()]
		require.False(t, dup, "page %d resident in two frames", f.PageID())
		seen[f.PageID()] = BufferID(i)
	}
	require.Equal(t, seen, m.pageTable)
}
