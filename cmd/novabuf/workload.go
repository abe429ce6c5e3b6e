package main

import (
	"encoding/binary"
	"fmt"
	"log/slog"

	"github.com/tuannm99/novabuf/internal/bufferpool"
	"github.com/tuannm99/novabuf/internal/storage"
)

// Every page carries its own id at offset 0 and a write counter at offset 8.
const (
	offPageID  = 0
	offCounter = 8
)

// run creates pages, then repeatedly read-modify-writes a hot set (every fourth page)
// plus one cold page per step, checking each page still carries its own id.
func run(bpm bufferpool.Pager, pages, rounds int, logger *slog.Logger) error {
	ids := make([]storage.PageID, 0, pages)
	for range pages {
		id, g, err := bpm.NewPage()
		if err != nil {
			return fmt.Errorf("new page: %w", err)
		}
		binary.LittleEndian.PutUint64(g.Data()[offPageID:], uint64(id))
		if err := g.MarkDirty(); err != nil {
			g.Release()
			return err
		}
		g.Release()
		ids = append(ids, id)
	}
	logger.Debug("workload.created", "pages", len(ids))

	for r := range rounds {
		for i, id := range ids {
			if i%4 != 0 && i != (r*7)%len(ids) {
				continue
			}
			if err := bump(bpm, id); err != nil {
				return err
			}
		}
		if err := bpm.FlushAll(); err != nil {
			return fmt.Errorf("flush round %d: %w", r, err)
		}
		logger.Debug("workload.round", "round", r)
	}
	return nil
}

func bump(bpm bufferpool.Pager, id storage.PageID) error {
	g, err := bpm.FetchPage(id)
	if err != nil {
		return fmt.Errorf("fetch page %d: %w", id, err)
	}
	defer g.Release()

	data := g.Data()
	if got := binary.LittleEndian.Uint64(data[offPageID:]); got != uint64(id) {
		return fmt.Errorf("page %d carries id %d", id, got)
	}
	n := binary.LittleEndian.Uint64(data[offCounter:])
	binary.LittleEndian.PutUint64(data[offCounter:], n+1)
	return g.MarkDirty()
}
