package storage

import (
	"fmt"
	"os"

	"github.com/vmihailenco/msgpack"
)

// diskMeta is the allocation state of a FileDiskManager, stored msgpack-encoded
// next to the segment files.
type diskMeta struct {
	NextPageID PageID   `msgpack:"next_page_id"`
	FreePages  []PageID `msgpack:"free_pages"`
}

// freeSet indexes FreePages. A free id at or past NextPageID, or listed twice, means the
// file is corrupt.
func (m diskMeta) freeSet() (map[PageID]struct{}, error) {
	set := make(map[PageID]struct{}, len(m.FreePages))
	for _, id := range m.FreePages {
		if id >= m.NextPageID {
			return nil, fmt.Errorf("%w: free page %d is past next page %d", ErrCorruptMetadata, id, m.NextPageID)
		}
		if _, dup := set[id]; dup {
			return nil, fmt.Errorf("%w: page %d is free twice", ErrCorruptMetadata, id)
		}
		set[id] = struct{}{}
	}
	return set, nil
}

func loadMeta(path string) (diskMeta, error) {
	var meta diskMeta

	data, err := os.ReadFile(path)
	if err != nil {
		return meta, err
	}
	if err := msgpack.Unmarshal(data, &meta); err != nil {
		return meta, fmt.Errorf("%w: %v", ErrCorruptMetadata, err)
	}
	return meta, nil
}

// saveMeta writes to a temp file and renames it over path.
func saveMeta(path string, meta diskMeta) error {
	data, err := msgpack.Marshal(&meta)
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, FileMode0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
