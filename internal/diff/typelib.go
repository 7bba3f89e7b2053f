// Package diff minimizes transmitted volume for the two bulk state
// families: the local type library and the per-function decompiler
// caches. It owns the last-observed snapshots; callers only trigger
// comparisons and forward the returned events.
package diff

import (
	"bytes"

	"github.com/hotwinter/IDArl1ng/wire"
)

// SlotChange is one differing index between two type library snapshots.
type SlotChange struct {
	// Index is the snapshot index (the library ordinal).
	Index int
	// Old is the previous slot value; nil when the index was empty or
	// beyond the previous snapshot.
	Old *wire.TypeSlot
	// New is the current slot value; nil when the index became empty or
	// is beyond the current snapshot.
	New *wire.TypeSlot
}

// CompareTypeLibs diffs two snapshots index-by-index over the longer of
// the two; a missing index on either side counts as an empty slot.
func CompareTypeLibs(prev, cur []*wire.TypeSlot) []SlotChange {
	var changes []SlotChange
	for i := 0; i < max(len(prev), len(cur)); i++ {
		var oldSlot, newSlot *wire.TypeSlot
		if i < len(prev) {
			oldSlot = prev[i]
		}
		if i < len(cur) {
			newSlot = cur[i]
		}
		if !slotsEqual(oldSlot, newSlot) {
			changes = append(changes, SlotChange{Index: i, Old: oldSlot, New: newSlot})
		}
	}
	return changes
}

func slotsEqual(a, b *wire.TypeSlot) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Name == b.Name &&
		bytes.Equal(a.Type, b.Type) &&
		bytes.Equal(a.Fields, b.Fields)
}

// TypeLibrary tracks the last observed snapshot of the local type library.
type TypeLibrary struct {
	prev   []*wire.TypeSlot
	primed bool
}

// Update compares cur against the previous snapshot and returns the event
// to transmit, if any. The very first comparison transmits every occupied
// slot; later ones transmit only the new values at changed indices. The
// previous snapshot is replaced by cur regardless of the outcome.
//
// A change set holding exactly one emptied slot is not transmitted.
// Replicas rely on a trailing deletion being swallowed here, so the
// asymmetry is preserved.
func (t *TypeLibrary) Update(cur []*wire.TypeSlot) (wire.TypeLibraryChangedEvent, bool) {
	if !t.primed {
		t.prev, t.primed = cur, true
		return changedEvent(allOccupied(cur))
	}

	changes := CompareTypeLibs(t.prev, cur)
	t.prev = cur
	if len(changes) == 0 {
		return wire.TypeLibraryChangedEvent{}, false
	}
	if len(changes) == 1 && changes[0].New == nil {
		return wire.TypeLibraryChangedEvent{}, false
	}

	updates := make([]wire.TypeUpdate, 0, len(changes))
	for _, c := range changes {
		updates = append(updates, wire.TypeUpdate{Ordinal: c.Index, Slot: c.New})
	}
	return changedEvent(updates)
}

func allOccupied(slots []*wire.TypeSlot) []wire.TypeUpdate {
	var updates []wire.TypeUpdate
	for i, slot := range slots {
		if slot != nil {
			updates = append(updates, wire.TypeUpdate{Ordinal: i, Slot: slot})
		}
	}
	return updates
}

func changedEvent(updates []wire.TypeUpdate) (wire.TypeLibraryChangedEvent, bool) {
	if len(updates) == 0 {
		return wire.TypeLibraryChangedEvent{}, false
	}
	return wire.TypeLibraryChangedEvent{Updates: updates}, true
}
