package diff

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hotwinter/IDArl1ng/wire"
)

func slot(name string) *wire.TypeSlot {
	return &wire.TypeSlot{Type: []byte{0x0d}, Name: name}
}

func TestCompareTypeLibsNoChange(t *testing.T) {
	snap := []*wire.TypeSlot{nil, slot("a"), slot("b")}
	require.Empty(t, CompareTypeLibs(snap, snap))
}

func TestCompareTypeLibsSingleInsertion(t *testing.T) {
	prev := []*wire.TypeSlot{nil, slot("a"), slot("b")}
	cur := append(append([]*wire.TypeSlot{}, prev...), slot("c"))

	changes := CompareTypeLibs(prev, cur)
	require.Len(t, changes, 1)
	require.Equal(t, 3, changes[0].Index)
	require.Nil(t, changes[0].Old)
	require.Equal(t, slot("c"), changes[0].New)
}

func TestCompareTypeLibsShrunkSnapshot(t *testing.T) {
	prev := []*wire.TypeSlot{slot("a"), slot("b")}
	cur := []*wire.TypeSlot{slot("a")}

	// The missing trailing index counts as an emptied slot.
	changes := CompareTypeLibs(prev, cur)
	require.Len(t, changes, 1)
	require.Equal(t, 1, changes[0].Index)
	require.Equal(t, slot("b"), changes[0].Old)
	require.Nil(t, changes[0].New)
}

func TestTypeLibraryFirstComparisonTransmitsAll(t *testing.T) {
	var lib TypeLibrary
	cur := []*wire.TypeSlot{nil, slot("a"), nil, slot("b")}

	ev, ok := lib.Update(cur)
	require.True(t, ok)
	require.Equal(t, []wire.TypeUpdate{
		{Ordinal: 1, Slot: slot("a")},
		{Ordinal: 3, Slot: slot("b")},
	}, ev.Updates)
}

func TestTypeLibraryNoChangeEmitsNothing(t *testing.T) {
	var lib TypeLibrary
	cur := []*wire.TypeSlot{nil, slot("a")}

	_, ok := lib.Update(cur)
	require.True(t, ok)
	_, ok = lib.Update(cur)
	require.False(t, ok)
}

func TestTypeLibraryChangedOrdinalsOnly(t *testing.T) {
	var lib TypeLibrary
	_, ok := lib.Update([]*wire.TypeSlot{nil, slot("a"), slot("b")})
	require.True(t, ok)

	ev, ok := lib.Update([]*wire.TypeSlot{nil, slot("a"), slot("b2"), slot("c")})
	require.True(t, ok)
	require.Equal(t, []wire.TypeUpdate{
		{Ordinal: 2, Slot: slot("b2")},
		{Ordinal: 3, Slot: slot("c")},
	}, ev.Updates)
}

func TestTypeLibraryLoneDeletionSwallowed(t *testing.T) {
	var lib TypeLibrary
	_, ok := lib.Update([]*wire.TypeSlot{nil, slot("a"), slot("b")})
	require.True(t, ok)

	// A change set of exactly one emptied slot is suppressed.
	_, ok = lib.Update([]*wire.TypeSlot{nil, slot("a")})
	require.False(t, ok)

	// The snapshot was still replaced: re-adding the slot is one insertion.
	ev, ok := lib.Update([]*wire.TypeSlot{nil, slot("a"), slot("b")})
	require.True(t, ok)
	require.Equal(t, []wire.TypeUpdate{{Ordinal: 2, Slot: slot("b")}}, ev.Updates)
}

func TestTypeLibraryDeletionAmongOtherChangesKept(t *testing.T) {
	var lib TypeLibrary
	_, ok := lib.Update([]*wire.TypeSlot{slot("a"), slot("b")})
	require.True(t, ok)

	ev, ok := lib.Update([]*wire.TypeSlot{slot("a2"), nil})
	require.True(t, ok)
	require.Equal(t, []wire.TypeUpdate{
		{Ordinal: 0, Slot: slot("a2")},
		{Ordinal: 1, Slot: nil},
	}, ev.Updates)
}
