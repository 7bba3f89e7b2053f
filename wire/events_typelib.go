package wire

// EnumCreatedEvent records a new enum type.
type EnumCreatedEvent struct {
	// Name is the enum name.
	Name string `json:"name"`
}

func (EnumCreatedEvent) isEvent() {}

// Kind implements Event.
func (EnumCreatedEvent) Kind() string { return "enum-created" }

// EnumDeletedEvent records an enum being removed.
type EnumDeletedEvent struct {
	// Name is the name of the removed enum.
	Name string `json:"name"`
}

func (EnumDeletedEvent) isEvent() {}

// Kind implements Event.
func (EnumDeletedEvent) Kind() string { return "enum-deleted" }

// EnumRenamedEvent records an enum or enum member rename.
type EnumRenamedEvent struct {
	// OldName is the name before the rename.
	OldName string `json:"oldName"`
	// NewName is the name after the rename.
	NewName string `json:"newName"`
	// Member indicates a member rename rather than the enum itself.
	Member bool `json:"member"`
}

func (EnumRenamedEvent) isEvent() {}

// Kind implements Event.
func (EnumRenamedEvent) Kind() string { return "enum-renamed" }

// EnumBitfieldChangedEvent records an enum bitfield flag toggle.
type EnumBitfieldChangedEvent struct {
	// Name is the enum name.
	Name string `json:"name"`
	// Bitfield is true when the enum is now a bitfield.
	Bitfield bool `json:"bitfield"`
}

func (EnumBitfieldChangedEvent) isEvent() {}

// Kind implements Event.
func (EnumBitfieldChangedEvent) Kind() string { return "enum-bitfield-changed" }

// EnumCommentChangedEvent records an enum comment edit.
type EnumCommentChangedEvent struct {
	// Name is the enum name.
	Name string `json:"name"`
	// Comment is the full new comment text.
	Comment string `json:"comment"`
	// Repeatable distinguishes repeatable from regular comments.
	Repeatable bool `json:"repeatable"`
}

func (EnumCommentChangedEvent) isEvent() {}

// Kind implements Event.
func (EnumCommentChangedEvent) Kind() string { return "enum-comment-changed" }

// EnumMemberCreatedEvent records a new enum member.
type EnumMemberCreatedEvent struct {
	// Enum names the owning enum.
	Enum string `json:"enum"`
	// Name is the member name.
	Name string `json:"name"`
	// Value is the member value.
	Value uint64 `json:"value"`
	// Bitmask is the member bitmask for bitfield enums.
	Bitmask uint64 `json:"bitmask"`
}

func (EnumMemberCreatedEvent) isEvent() {}

// Kind implements Event.
func (EnumMemberCreatedEvent) Kind() string { return "enum-member-created" }

// EnumMemberDeletedEvent records an enum member being removed.
type EnumMemberDeletedEvent struct {
	// Enum names the owning enum.
	Enum string `json:"enum"`
	// Value is the removed member value.
	Value uint64 `json:"value"`
	// Serial disambiguates members sharing a value.
	Serial int `json:"serial"`
	// Bitmask is the member bitmask for bitfield enums.
	Bitmask uint64 `json:"bitmask"`
}

func (EnumMemberDeletedEvent) isEvent() {}

// Kind implements Event.
func (EnumMemberDeletedEvent) Kind() string { return "enum-member-deleted" }

// StructCreatedEvent records a new structure type.
type StructCreatedEvent struct {
	// Name is the structure name.
	Name string `json:"name"`
	// Union is true for a union rather than a struct.
	Union bool `json:"union"`
}

func (StructCreatedEvent) isEvent() {}

// Kind implements Event.
func (StructCreatedEvent) Kind() string { return "struct-created" }

// StructDeletedEvent records a structure being removed.
type StructDeletedEvent struct {
	// Name is the name of the removed structure.
	Name string `json:"name"`
}

func (StructDeletedEvent) isEvent() {}

// Kind implements Event.
func (StructDeletedEvent) Kind() string { return "struct-deleted" }

// StructRenamedEvent records a structure rename.
type StructRenamedEvent struct {
	// OldName is the name before the rename.
	OldName string `json:"oldName"`
	// NewName is the name after the rename.
	NewName string `json:"newName"`
}

func (StructRenamedEvent) isEvent() {}

// Kind implements Event.
func (StructRenamedEvent) Kind() string { return "struct-renamed" }

// MemberExtra carries type-specific details for structure members whose
// type references another record (offsets, enums, nested structures).
type MemberExtra struct {
	// Target is the reference target for offset-typed members.
	Target uint64 `json:"target,omitempty"`
	// Base is the reference base for offset-typed members.
	Base uint64 `json:"base,omitempty"`
	// TDelta is the reference target delta for offset-typed members.
	TDelta int64 `json:"tdelta,omitempty"`
	// RefFlags is the reference info flag bitfield for offset-typed members.
	RefFlags uint32 `json:"refFlags,omitempty"`
	// Serial is the enum serial for enum-typed members.
	Serial int `json:"serial,omitempty"`
	// Struct names the nested structure for structure-typed members.
	Struct string `json:"struct,omitempty"`
	// StrLitType is the string literal type for string members.
	StrLitType int32 `json:"strType,omitempty"`
}

// StructMemberCreatedEvent records a new structure member.
type StructMemberCreatedEvent struct {
	// Struct names the owning structure.
	Struct string `json:"struct"`
	// Name is the member field name.
	Name string `json:"name"`
	// Offset is the member offset; zero for union members.
	Offset uint64 `json:"offset"`
	// Flag is the member flag bitfield describing the data kind.
	Flag uint32 `json:"flag"`
	// Size is the member size in bytes.
	Size uint64 `json:"size"`
	// Extra carries reference details for typed members.
	Extra MemberExtra `json:"extra"`
}

func (StructMemberCreatedEvent) isEvent() {}

// Kind implements Event.
func (StructMemberCreatedEvent) Kind() string { return "struct-member-created" }

// StructMemberDeletedEvent records a structure member being removed.
type StructMemberDeletedEvent struct {
	// Struct names the owning structure.
	Struct string `json:"struct"`
	// Offset is the end offset of the removed member range.
	Offset uint64 `json:"offset"`
}

func (StructMemberDeletedEvent) isEvent() {}

// Kind implements Event.
func (StructMemberDeletedEvent) Kind() string { return "struct-member-deleted" }

// StructMemberRenamedEvent records a structure member rename.
type StructMemberRenamedEvent struct {
	// Struct names the owning structure.
	Struct string `json:"struct"`
	// Offset is the member offset.
	Offset uint64 `json:"offset"`
	// NewName is the member name after the rename.
	NewName string `json:"newName"`
}

func (StructMemberRenamedEvent) isEvent() {}

// Kind implements Event.
func (StructMemberRenamedEvent) Kind() string { return "struct-member-renamed" }

// StructCommentChangedEvent records a structure or member comment edit.
type StructCommentChangedEvent struct {
	// Struct names the structure.
	Struct string `json:"struct"`
	// Member names the member; empty for the structure's own comment.
	Member string `json:"member"`
	// Comment is the full new comment text.
	Comment string `json:"comment"`
	// Repeatable distinguishes repeatable from regular comments.
	Repeatable bool `json:"repeatable"`
}

func (StructCommentChangedEvent) isEvent() {}

// Kind implements Event.
func (StructCommentChangedEvent) Kind() string { return "struct-comment-changed" }

// StructMemberChangedEvent records a structure member type change.
type StructMemberChangedEvent struct {
	// Struct names the owning structure.
	Struct string `json:"struct"`
	// Offset is the member offset; zero for union members.
	Offset uint64 `json:"offset"`
	// EndOffset is the exclusive end offset of the member.
	EndOffset uint64 `json:"endOffset"`
	// Flag is the member flag bitfield describing the data kind.
	Flag uint32 `json:"flag"`
	// Extra carries reference details for typed members.
	Extra MemberExtra `json:"extra"`
}

func (StructMemberChangedEvent) isEvent() {}

// Kind implements Event.
func (StructMemberChangedEvent) Kind() string { return "struct-member-changed" }

// StructExpandedEvent records a structure being grown or shrunk in place.
type StructExpandedEvent struct {
	// Struct names the structure.
	Struct string `json:"struct"`
	// Offset is the offset at which space was inserted or removed.
	Offset uint64 `json:"offset"`
	// Delta is the signed size change in bytes.
	Delta int64 `json:"delta"`
}

func (StructExpandedEvent) isEvent() {}

// Kind implements Event.
func (StructExpandedEvent) Kind() string { return "struct-expanded" }

// TypeSlot is one occupied ordinal in the local type library.
type TypeSlot struct {
	// Type is the raw serialized type encoding.
	Type []byte `json:"type"`
	// Fields is the raw serialized field name encoding.
	Fields []byte `json:"fields,omitempty"`
	// Name is the type name at this ordinal.
	Name string `json:"name"`
}

// TypeUpdate is one changed ordinal in the local type library.
type TypeUpdate struct {
	// Ordinal is the library ordinal, i.e. the index into the snapshot.
	// Index zero is the library's unused ordinal and is never occupied.
	Ordinal int `json:"ordinal"`
	// Slot is the new value at the ordinal; null when the ordinal
	// became empty.
	Slot *TypeSlot `json:"slot"`
}

// TypeLibraryChangedEvent records the changed ordinals of the local type
// library. Updates are positionally meaningful and must be applied in
// transmission order.
type TypeLibraryChangedEvent struct {
	// Updates lists the changed ordinals in ascending order.
	Updates []TypeUpdate `json:"updates"`
}

func (TypeLibraryChangedEvent) isEvent() {}

// Kind implements Event.
func (TypeLibraryChangedEvent) Kind() string { return "type-library-changed" }
