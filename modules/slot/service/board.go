package service

import (
	"sync/atomic"
	"time"

	"pairtime-api/modules/slot/entity"
)

// Result is one published recomputation.
type Result struct {
	Version     uint64
	ComputedAt  time.Time
	Suggestions []entity.Suggestion
}

// Board holds the latest suggestion result for one owner. Readers always see
// a complete result; a recomputation started from an older snapshot than the
// one already published is dropped.
type Board struct {
	current atomic.Pointer[Result]
	seq     atomic.Uint64
}

// NextVersion reserves the version for a recomputation about to start.
func (b *Board) NextVersion() uint64 {
	return b.seq.Add(1)
}

// Publish swaps r in unless a result with the same or newer version is
// already published. It reports whether r was installed.
func (b *Board) Publish(r *Result) bool {
	for {
		cur := b.current.Load()
		if cur != nil && cur.Version >= r.Version {
			return false
		}
		if b.current.CompareAndSwap(cur, r) {
			return true
		}
	}
}

// Current returns the latest published result, or nil before the first one.
func (b *Board) Current() *Result {
	return b.current.Load()
}
