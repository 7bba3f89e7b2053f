package adapter

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hotwinter/IDArl1ng/internal/host"
	"github.com/hotwinter/IDArl1ng/wire"
)

// recordSink collects forwarded events.
type recordSink struct {
	events []wire.Event
}

func (s *recordSink) SendEvent(ev wire.Event) { s.events = append(s.events, ev) }

// fakeHost serves canned answers for the query surface.
type fakeHost struct {
	comments map[uint64]string
	extras   map[int]string
	bytes    map[uint64]uint32
	flags    map[uint64]uint32
	enumRefs map[uint64]host.EnumRef
	spaths   map[uint64]host.StructPath
	typeRaw  map[uint64]host.TypeEncoding

	typeSlots []*wire.TypeSlot
	typeNames map[uint64]string
	enums     map[uint64]host.EnumInfo
	enumCmts  map[uint64]string
	enumMbrs  map[uint64]host.EnumMemberInfo
	structs   map[uint64]host.StructInfo
	strucCmts map[uint64]string
	members   map[uint64]host.MemberInfo
	segments  map[uint64]host.SegmentInfo
}

func (h *fakeHost) Comment(ea uint64, repeatable bool) string { return h.comments[ea] }
func (h *fakeHost) ExtraComment(ea uint64, line int) string   { return h.extras[line] }
func (h *fakeHost) ByteAt(ea uint64) uint32                   { return h.bytes[ea] }
func (h *fakeHost) FullFlags(ea uint64) uint32                { return h.flags[ea] }

func (h *fakeHost) OperandEnum(ea uint64, n int) (host.EnumRef, bool) {
	ref, ok := h.enumRefs[ea]
	return ref, ok
}

func (h *fakeHost) OperandStructPath(ea uint64, n int) (host.StructPath, bool) {
	sp, ok := h.spaths[ea]
	return sp, ok
}

func (h *fakeHost) TypeRaw(ea uint64) (host.TypeEncoding, bool) {
	enc, ok := h.typeRaw[ea]
	return enc, ok
}

func (h *fakeHost) TypeCount() int { return len(h.typeSlots) }

func (h *fakeHost) TypeAt(ordinal int) *wire.TypeSlot {
	if ordinal < 0 || ordinal >= len(h.typeSlots) {
		return nil
	}
	return h.typeSlots[ordinal]
}

func (h *fakeHost) TypeNameByID(tid uint64) (string, bool) {
	name, ok := h.typeNames[tid]
	return name, ok
}

func (h *fakeHost) Enum(id uint64) (host.EnumInfo, bool) {
	en, ok := h.enums[id]
	return en, ok
}

func (h *fakeHost) EnumComment(id uint64, repeatable bool) string { return h.enumCmts[id] }

func (h *fakeHost) EnumMember(cid uint64) (host.EnumMemberInfo, bool) {
	m, ok := h.enumMbrs[cid]
	return m, ok
}

func (h *fakeHost) Struct(id uint64) (host.StructInfo, bool) {
	st, ok := h.structs[id]
	return st, ok
}

func (h *fakeHost) StructComment(id uint64, repeatable bool) string { return h.strucCmts[id] }

func (h *fakeHost) Member(mid uint64) (host.MemberInfo, bool) {
	m, ok := h.members[mid]
	return m, ok
}

func (h *fakeHost) Segment(start uint64) (host.SegmentInfo, bool) {
	seg, ok := h.segments[start]
	return seg, ok
}

type noDecompiler struct{}

func (noDecompiler) CurrentFunction() (uint64, bool)        { return 0, false }
func (noDecompiler) UserLabels(uint64) []wire.Label         { return nil }
func (noDecompiler) UserComments(uint64) []wire.TreeComment { return nil }
func (noDecompiler) UserIflags(uint64) []wire.Iflag         { return nil }
func (noDecompiler) LvarSettings(uint64) wire.LvarSettings  { return wire.LvarSettings{} }
func (noDecompiler) UserNumforms(uint64) []wire.Numform     { return nil }

func newTestAdapter(h *fakeHost) (*Adapter, *recordSink) {
	sink := &recordSink{}
	a := New(h, noDecompiler{}, sink)
	a.Attach()
	return a, sink
}

func TestDetachedAdapterForwardsNothing(t *testing.T) {
	sink := &recordSink{}
	a := New(&fakeHost{}, noDecompiler{}, sink)

	a.Renamed(0x1000, "main", false)
	require.Empty(t, sink.events)

	a.Attach()
	a.Renamed(0x1000, "main", false)
	require.Len(t, sink.events, 1)

	a.Detach()
	a.Renamed(0x1000, "other", false)
	require.Len(t, sink.events, 1)
}

func TestCommentChangedReadsBackText(t *testing.T) {
	a, sink := newTestAdapter(&fakeHost{
		comments: map[uint64]string{0x2000: "decrypts config"},
	})

	a.CommentChanged(0x2000, true)
	require.Equal(t, []wire.Event{
		wire.CommentChangedEvent{EA: 0x2000, Comment: "decrypts config", Repeatable: true},
	}, sink.events)
}

func TestDataDefinedResolvesTypeName(t *testing.T) {
	h := &fakeHost{typeNames: map[uint64]string{77: "config_t"}}
	a, sink := newTestAdapter(h)

	a.DataDefined(0x3000, 0x60000400, 24, 77)
	require.Equal(t, []wire.Event{
		wire.DataDefinedEvent{EA: 0x3000, Flags: 0x60000400, Size: 24, TypeName: "config_t"},
	}, sink.events)

	// Unresolvable type record: skip the event, do not fail the host.
	a.DataDefined(0x3008, 0x60000400, 24, 99)
	require.Len(t, sink.events, 1)
}

func TestOperandClassifier(t *testing.T) {
	tests := []struct {
		name  string
		flags uint32
		n     int
		op    string
		ok    bool
	}{
		{"hex first operand", host.FlagHex, 0, "hex", true},
		{"dec second operand", host.FlagDec, 1, "dec", true},
		{"char", host.FlagChar, 0, "chr", true},
		{"binary", host.FlagBin, 0, "bin", true},
		{"octal", host.FlagOct, 1, "oct", true},
		{"enum", host.FlagEnum, 0, "enum", true},
		{"struct offset", host.FlagStroff, 1, "struct", true},
		{"stack variable", host.FlagStkVar, 0, "stkvar", true},
		{"plain offset unrecognized", host.FlagOff, 0, "", false},
		{"segment unrecognized", host.FlagSegm, 1, "", false},
		{"third operand has no nibble", host.FlagHex, 2, "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			op, ok := classifyOperand(tc.flags, tc.n)
			require.Equal(t, tc.ok, ok)
			require.Equal(t, tc.op, op)
		})
	}
}

func TestOperandTypeChangedEnumExtra(t *testing.T) {
	a, sink := newTestAdapter(&fakeHost{
		flags:    map[uint64]uint32{0x4000: host.FlagEnum},
		enumRefs: map[uint64]host.EnumRef{0x4000: {Name: "ERRORS", Serial: 2}},
	})

	a.OperandTypeChanged(0x4000, 0)
	require.Equal(t, []wire.Event{
		wire.OperandTypeChangedEvent{
			EA: 0x4000, N: 0, Op: "enum",
			Extra: wire.OperandExtra{EnumName: "ERRORS", Serial: 2},
		},
	}, sink.events)
}

func TestOperandTypeChangedStructExtra(t *testing.T) {
	a, sink := newTestAdapter(&fakeHost{
		flags:  map[uint64]uint32{0x4010: host.FlagStroff},
		spaths: map[uint64]host.StructPath{0x4010: {Delta: 4, Names: []string{"pkt", "hdr"}}},
	})

	a.OperandTypeChanged(0x4010, 1)
	require.Equal(t, []wire.Event{
		wire.OperandTypeChangedEvent{
			EA: 0x4010, N: 1, Op: "struct",
			Extra: wire.OperandExtra{Delta: 4, StructPath: []string{"pkt", "hdr"}},
		},
	}, sink.events)
}

func TestOperandTypeChangedUnknownRepresentationDropped(t *testing.T) {
	a, sink := newTestAdapter(&fakeHost{
		flags: map[uint64]uint32{0x4020: host.FlagSegm},
	})

	a.OperandTypeChanged(0x4020, 0)
	require.Empty(t, sink.events)
}

func TestTypeLibraryChangedDiffs(t *testing.T) {
	h := &fakeHost{
		typeSlots: []*wire.TypeSlot{nil, {Type: []byte{0x0d}, Name: "a"}},
	}
	a, sink := newTestAdapter(h)

	// First pass transmits every occupied ordinal.
	a.TypeLibraryChanged()
	require.Len(t, sink.events, 1)
	require.Equal(t, wire.TypeLibraryChangedEvent{
		Updates: []wire.TypeUpdate{{Ordinal: 1, Slot: &wire.TypeSlot{Type: []byte{0x0d}, Name: "a"}}},
	}, sink.events[0])

	// No change: nothing transmitted.
	a.TypeLibraryChanged()
	require.Len(t, sink.events, 1)

	// One appended ordinal: exactly that ordinal.
	h.typeSlots = append(h.typeSlots, &wire.TypeSlot{Type: []byte{0x0d}, Name: "b"})
	a.TypeLibraryChanged()
	require.Len(t, sink.events, 2)
	require.Equal(t, wire.TypeLibraryChangedEvent{
		Updates: []wire.TypeUpdate{{Ordinal: 2, Slot: &wire.TypeSlot{Type: []byte{0x0d}, Name: "b"}}},
	}, sink.events[1])
}

func TestTypeLibraryChangedWhileDetachedFreezesSnapshot(t *testing.T) {
	h := &fakeHost{
		typeSlots: []*wire.TypeSlot{nil, {Type: []byte{0x0d}, Name: "a"}},
	}
	a, sink := newTestAdapter(h)

	a.TypeLibraryChanged()
	require.Len(t, sink.events, 1)

	// A library mutation notified while detached must not advance the
	// snapshot, or the change would never reach the other replicas.
	a.Detach()
	h.typeSlots = append(h.typeSlots, &wire.TypeSlot{Type: []byte{0x0d}, Name: "b"})
	a.TypeLibraryChanged()
	require.Len(t, sink.events, 1)

	// The first notification after re-attach diffs against the pre-detach
	// observation and transmits the missed addition.
	a.Attach()
	a.TypeLibraryChanged()
	require.Len(t, sink.events, 2)
	require.Equal(t, wire.TypeLibraryChangedEvent{
		Updates: []wire.TypeUpdate{{Ordinal: 2, Slot: &wire.TypeSlot{Type: []byte{0x0d}, Name: "b"}}},
	}, sink.events[1])
}

// labelDecompiler serves a single function with a mutable label list.
type labelDecompiler struct {
	fn     uint64
	labels []wire.Label
}

func (d *labelDecompiler) CurrentFunction() (uint64, bool)        { return d.fn, true }
func (d *labelDecompiler) UserLabels(uint64) []wire.Label         { return d.labels }
func (d *labelDecompiler) UserComments(uint64) []wire.TreeComment { return nil }
func (d *labelDecompiler) UserIflags(uint64) []wire.Iflag         { return nil }
func (d *labelDecompiler) LvarSettings(uint64) wire.LvarSettings  { return wire.LvarSettings{} }
func (d *labelDecompiler) UserNumforms(uint64) []wire.Numform     { return nil }

func TestFunctionViewRefreshedWhileDetachedFreezesCaches(t *testing.T) {
	dec := &labelDecompiler{fn: 0x6000}
	sink := &recordSink{}
	a := New(&fakeHost{}, dec, sink)
	a.Attach()

	// First refresh binds the function and primes the caches.
	a.FunctionViewRefreshed()
	require.Empty(t, sink.events)

	// A detached refresh must leave the caches on the pre-detach state.
	a.Detach()
	dec.labels = []wire.Label{{Num: 1, Name: "retry"}}
	a.FunctionViewRefreshed()
	require.Empty(t, sink.events)

	a.Attach()
	a.FunctionViewRefreshed()
	require.Equal(t, []wire.Event{
		wire.UserLabelsEvent{EA: 0x6000, Labels: []wire.Label{{Num: 1, Name: "retry"}}},
	}, sink.events)
}

func TestEnumMemberCreatedResolvesBothRecords(t *testing.T) {
	a, sink := newTestAdapter(&fakeHost{
		enums:    map[uint64]host.EnumInfo{10: {Name: "ERRORS"}},
		enumMbrs: map[uint64]host.EnumMemberInfo{21: {Name: "E_FAIL", Value: 5, Bitmask: 0xff}},
	})

	a.EnumMemberCreated(10, 21)
	require.Equal(t, []wire.Event{
		wire.EnumMemberCreatedEvent{Enum: "ERRORS", Name: "E_FAIL", Value: 5, Bitmask: 0xff},
	}, sink.events)

	// Vanished member record: no event.
	a.EnumMemberCreated(10, 99)
	require.Len(t, sink.events, 1)
}

func TestStructMemberCreatedUnionOffsets(t *testing.T) {
	a, sink := newTestAdapter(&fakeHost{
		structs: map[uint64]host.StructInfo{30: {Name: "value_u", Union: true}},
		members: map[uint64]host.MemberInfo{
			41: {Name: "as_int", SOff: 2, EOff: 8, Flag: 0, Union: true},
		},
	})

	a.StructMemberCreated(30, 41)
	require.Equal(t, []wire.Event{
		wire.StructMemberCreatedEvent{Struct: "value_u", Name: "as_int", Offset: 0, Size: 8},
	}, sink.events)
}

func TestStructMemberChangedNestedStructExtra(t *testing.T) {
	a, sink := newTestAdapter(&fakeHost{
		structs:   map[uint64]host.StructInfo{30: {Name: "packet"}},
		typeNames: map[uint64]string{55: "header"},
		members: map[uint64]host.MemberInfo{
			42: {
				Name: "hdr", SOff: 0, EOff: 16, Flag: host.FlagStruct,
				Info: &host.MemberTypeInfo{TypeID: 55},
			},
		},
	})

	a.StructMemberChanged(30, 42)
	require.Equal(t, []wire.Event{
		wire.StructMemberChangedEvent{
			Struct: "packet", Offset: 0, EndOffset: 16, Flag: host.FlagStruct,
			Extra: wire.MemberExtra{Struct: "header"},
		},
	}, sink.events)
}

func TestStructCommentChangedSplitsDottedName(t *testing.T) {
	a, sink := newTestAdapter(&fakeHost{
		structs:   map[uint64]host.StructInfo{31: {Name: "packet.len"}},
		strucCmts: map[uint64]string{31: "wire length"},
	})

	a.StructCommentChanged(31, false)
	require.Equal(t, []wire.Event{
		wire.StructCommentChangedEvent{Struct: "packet", Member: "len", Comment: "wire length"},
	}, sink.events)
}

func TestSegmentAddedReadsRecord(t *testing.T) {
	a, sink := newTestAdapter(&fakeHost{
		segments: map[uint64]host.SegmentInfo{
			0x1000: {
				Name: ".text", Class: "CODE", Start: 0x1000, End: 0x2000,
				Align: 3, Comb: 2, Perm: 5, Bitness: 2, Flags: 0x10,
			},
		},
	})

	a.SegmentAdded(0x1000)
	require.Equal(t, []wire.Event{
		wire.SegmentCreatedEvent{
			Name: ".text", Class: "CODE", Start: 0x1000, End: 0x2000,
			Align: 3, Comb: 2, Perm: 5, Bitness: 2, Flags: 0x10,
		},
	}, sink.events)

	// Missing segment record: skip the event.
	a.SegmentAdded(0x9000)
	require.Len(t, sink.events, 1)
}

func TestBytePatchedReadsValue(t *testing.T) {
	a, sink := newTestAdapter(&fakeHost{
		bytes: map[uint64]uint32{0x5000: 0x90},
	})

	a.BytePatched(0x5000)
	require.Equal(t, []wire.Event{wire.BytePatchedEvent{EA: 0x5000, Value: 0x90}}, sink.events)
}
