package types

// EntryRef is a compact reference to a scheduler partition entry.
//
// The low 32 bits hold an arena slot index and the high 32 bits hold the
// slot's generation at the time the reference was issued. A reference stays
// valid only while the generation matches the slot: once the entry is torn
// down the slot's generation advances and every outstanding reference to it
// resolves to nothing. Generations start at 1, so the zero value (NoEntry)
// never resolves and doubles as the "not registered" marker.
type EntryRef uint64

// NoEntry is the zero reference. A unit whose registration is NoEntry is not
// bound to any partition entry.
const NoEntry EntryRef = 0

// NewEntryRef packs an arena slot index and generation into a reference.
func NewEntryRef(index, generation uint32) EntryRef {
	return EntryRef(uint64(generation)<<32 | uint64(index))
}

// Index returns the arena slot index encoded in the reference.
func (r EntryRef) Index() uint32 {
	return uint32(r) //nolint:gosec // intentional truncation to the low 32 bits
}

// Generation returns the slot generation encoded in the reference.
func (r EntryRef) Generation() uint32 {
	return uint32(r >> 32) //nolint:gosec // high 32 bits fit after the shift
}

// IsZero reports whether the reference is NoEntry.
func (r EntryRef) IsZero() bool {
	return r == NoEntry
}
