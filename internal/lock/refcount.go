package locking

// pin counts for buffer frames
// a frame with a non-zero count must not be chosen as an eviction victim

import "fmt"

// PinCount is a non-atomic reference count. The buffer pool is single-threaded,
// so plain arithmetic is enough.
type PinCount struct {
	count int32
}

func (r *PinCount) Pin() {
	r.count++
}

// Unpin drops one reference and reports whether the count reached zero.
func (r *PinCount) Unpin() bool {
	r.count--
	if r.count < 0 {
		panic("pin count dropped below zero")
	}
	return r.count == 0
}

func (r *PinCount) Pinned() bool { return r.count > 0 }

func (r *PinCount) Get() int32 { return r.count }

func (r *PinCount) String() string {
	return fmt.Sprintf("PinCount: %d", r.count)
}
