// Package host declares the query surface the sync core consumes from the
// hosting disassembler. Every method is a synchronous, side-effect-free
// read; implementations live in the host integration layer, fakes in
// tests. Record handles (ids) are only ever valid for the duration of the
// notification callback that supplied them.
package host

import "github.com/hotwinter/IDArl1ng/wire"

// Bytes reads facts about individual addresses.
type Bytes interface {
	// Comment returns the comment text at ea; empty when absent.
	Comment(ea uint64, repeatable bool) string
	// ExtraComment returns the extra comment line at ea; empty when absent.
	ExtraComment(ea uint64, line int) string
	// ByteAt returns the byte value stored at ea.
	ByteAt(ea uint64) uint32
	// FullFlags returns the full item flag bitfield at ea.
	FullFlags(ea uint64) uint32
	// OperandEnum returns the enum referenced by operand n at ea.
	OperandEnum(ea uint64, n int) (EnumRef, bool)
	// OperandStructPath returns the structure offset path of operand n
	// at ea.
	OperandStructPath(ea uint64, n int) (StructPath, bool)
	// TypeRaw returns the raw serialized type applied at ea.
	TypeRaw(ea uint64) (TypeEncoding, bool)
}

// Types reads enum, structure, and type library records.
type Types interface {
	// TypeCount returns the number of type library ordinals, including
	// the unused ordinal zero.
	TypeCount() int
	// TypeAt returns the type at a library ordinal; nil when the ordinal
	// is empty.
	TypeAt(ordinal int) *wire.TypeSlot
	// TypeNameByID resolves a type record id to its name.
	TypeNameByID(tid uint64) (string, bool)
	// Enum returns the enum record for an id.
	Enum(id uint64) (EnumInfo, bool)
	// EnumComment returns the comment of an enum.
	EnumComment(id uint64, repeatable bool) string
	// EnumMember returns the member record for a member id.
	EnumMember(cid uint64) (EnumMemberInfo, bool)
	// Struct returns the structure record for an id.
	Struct(id uint64) (StructInfo, bool)
	// StructComment returns the comment of a structure or member id.
	StructComment(id uint64, repeatable bool) string
	// Member returns the member record for a member id.
	Member(mid uint64) (MemberInfo, bool)
}

// Segments reads segment records.
type Segments interface {
	// Segment returns the segment starting at start.
	Segment(start uint64) (SegmentInfo, bool)
}

// API is the full database read surface consumed by the notification
// adapter.
type API interface {
	Bytes
	Types
	Segments
}

// Decompiler reads the per-function annotation caches maintained by the
// decompiler subsystem. The returned slices are in the decompiler's own
// iteration order, which is significant for replay.
type Decompiler interface {
	// CurrentFunction returns the entry address of the function shown in
	// the active pseudocode view.
	CurrentFunction() (uint64, bool)
	// UserLabels returns the label cache for a function.
	UserLabels(fn uint64) []wire.Label
	// UserComments returns the comment cache for a function.
	UserComments(fn uint64) []wire.TreeComment
	// UserIflags returns the item flag cache for a function.
	UserIflags(fn uint64) []wire.Iflag
	// LvarSettings returns the variable layout for a function; the zero
	// value when none exists.
	LvarSettings(fn uint64) wire.LvarSettings
	// UserNumforms returns the numeric format cache for a function.
	UserNumforms(fn uint64) []wire.Numform
}

// EnumRef is an enum reference resolved from an operand.
type EnumRef struct {
	// Name is the enum name.
	Name string
	// Serial is the enum serial.
	Serial int
}

// StructPath is a structure offset path resolved from an operand.
type StructPath struct {
	// Delta is the offset delta.
	Delta int64
	// Names lists the structure names along the path.
	Names []string
}

// TypeEncoding is a raw serialized type pair.
type TypeEncoding struct {
	// Type is the raw serialized type encoding.
	Type []byte
	// Fields is the raw serialized field name encoding.
	Fields []byte
}

// EnumInfo is an enum record.
type EnumInfo struct {
	// Name is the enum name.
	Name string
	// Bitfield is true when the enum is a bitfield.
	Bitfield bool
}

// EnumMemberInfo is an enum member record.
type EnumMemberInfo struct {
	// Name is the member name.
	Name string
	// Value is the member value.
	Value uint64
	// Bitmask is the member bitmask.
	Bitmask uint64
	// Serial disambiguates members sharing a value.
	Serial int
}

// StructInfo is a structure record.
type StructInfo struct {
	// Name is the structure name. For member comment notifications the
	// host reports "struct.member" as one dotted name.
	Name string
	// Union is true for unions.
	Union bool
}

// MemberInfo is a structure member record.
type MemberInfo struct {
	// Name is the member field name.
	Name string
	// SOff is the member start offset; the member index for unions.
	SOff uint64
	// EOff is the member exclusive end offset; the size for unions.
	EOff uint64
	// Flag is the member flag bitfield.
	Flag uint32
	// Union is true when the owning structure is a union.
	Union bool
	// Info carries type reference details; nil for plain data members.
	Info *MemberTypeInfo
}

// MemberTypeInfo is the operand type information attached to a typed
// structure member. Which fields are meaningful depends on the member's
// flag bits.
type MemberTypeInfo struct {
	// Target is the reference target for offset members.
	Target uint64
	// Base is the reference base for offset members.
	Base uint64
	// TDelta is the reference target delta for offset members.
	TDelta int64
	// RefFlags is the reference info flag bitfield for offset members.
	RefFlags uint32
	// Serial is the enum serial for enum members.
	Serial int
	// TypeID is the nested record id for structure members.
	TypeID uint64
	// StrLitType is the literal type for string members.
	StrLitType int32
}

// SegmentInfo is a segment record.
type SegmentInfo struct {
	// Name is the segment name.
	Name string
	// Class is the segment class.
	Class string
	// Start is the first address of the segment.
	Start uint64
	// End is the exclusive end address of the segment.
	End uint64
	// OrgBase is the segment origin base.
	OrgBase uint64
	// Align is the alignment code.
	Align int
	// Comb is the combination code.
	Comb int
	// Perm is the permission bits.
	Perm int
	// Bitness is the addressing mode.
	Bitness int
	// Flags is the segment flag bitfield.
	Flags uint32
}

// Netnode is the small key-value store embedded in the host database
// file. Values written here travel with the database across copies and
// reopens.
type Netnode interface {
	// Get returns the value stored under key.
	Get(key string) (string, bool)
	// Set stores value under key.
	Set(key, value string) error
}
