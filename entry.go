package tickshard

import (
	"github.com/PuoChen-SA/tickshard/types"
)

// partitionEntry binds one partition to its owning worker and carries the
// units ticked alongside that partition. Identity is the bound partition:
// the scheduler's maps are keyed by partition value, so two entries are the
// same entry exactly when their partitions are equal.
type partitionEntry struct {
	partition types.Partition
	workerID  int
	units     map[string]types.MobileUnit
}

func newPartitionEntry(p types.Partition, workerID int) *partitionEntry {
	return &partitionEntry{
		partition: p,
		workerID:  workerID,
		units:     make(map[string]types.MobileUnit),
	}
}

// entrySlot is one arena cell. The generation is bumped when the cell is
// released, which invalidates every ref handed out for the previous tenant.
type entrySlot struct {
	entry      *partitionEntry
	generation uint32
}

// entryArena owns every live partitionEntry and hands out generation-tagged
// refs instead of pointers. A ref outliving its entry resolves to nil rather
// than to whatever reused the slot.
//
// Not safe for concurrent use; every method is called with the scheduler's
// structural lock held.
type entryArena struct {
	slots []entrySlot
	free  []uint32
}

// alloc stores e in a free slot and returns the ref for it.
func (a *entryArena) alloc(e *partitionEntry) types.EntryRef {
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		a.slots[idx].entry = e

		return types.NewEntryRef(idx, a.slots[idx].generation)
	}

	// Generations start at 1 so a freshly allocated ref is never the zero
	// value types.NoEntry.
	idx := uint32(len(a.slots)) //nolint:gosec // slot count stays far below 2^32
	a.slots = append(a.slots, entrySlot{entry: e, generation: 1})

	return types.NewEntryRef(idx, 1)
}

// resolve returns the entry a ref points at, or nil when the ref is zero,
// out of range, or stale (the slot was released or recycled since).
func (a *entryArena) resolve(ref types.EntryRef) *partitionEntry {
	if ref.IsZero() {
		return nil
	}

	idx := ref.Index()
	if int(idx) >= len(a.slots) {
		return nil
	}

	slot := &a.slots[idx]
	if slot.generation != ref.Generation() || slot.entry == nil {
		return nil
	}

	return slot.entry
}

// release frees the slot behind ref and bumps its generation. Stale or zero
// refs are ignored, so releasing twice is harmless.
func (a *entryArena) release(ref types.EntryRef) {
	if a.resolve(ref) == nil {
		return
	}

	idx := ref.Index()
	slot := &a.slots[idx]
	slot.entry = nil
	slot.generation++
	if slot.generation == 0 {
		// Generation wrapped; skip 0 so the slot can never produce a ref
		// equal to types.NoEntry.
		slot.generation = 1
	}
	a.free = append(a.free, idx)
}

// live returns the number of occupied slots. Test helper.
func (a *entryArena) live() int {
	return len(a.slots) - len(a.free)
}
