// Package wire defines the canonical event and command model exchanged
// between agents and the relay, plus the JSON envelope codec.
//
// Events describe one database mutation each, carry only primitive,
// host-independent fields (addresses, decoded names, flag bitfields), and
// are immutable once constructed. They carry no sequence number; ordering
// is stamped onto the envelope by the transport layer.
package wire

// Event is one canonical database mutation.
type Event interface {
	// Kind returns the wire discriminator for the event.
	Kind() string

	isEvent()
}

// CodeDefinedEvent records bytes at an address being defined as code.
type CodeDefinedEvent struct {
	// EA is the effective address of the new instruction.
	EA uint64 `json:"ea"`
}

func (CodeDefinedEvent) isEvent() {}

// Kind implements Event.
func (CodeDefinedEvent) Kind() string { return "code-defined" }

// DataDefinedEvent records bytes at an address being defined as data.
type DataDefinedEvent struct {
	// EA is the effective address of the new item.
	EA uint64 `json:"ea"`
	// Flags is the item flag bitfield describing the data kind.
	Flags uint32 `json:"flags"`
	// Size is the item size in bytes.
	Size uint64 `json:"size"`
	// TypeName names the applied structure type; empty for plain data.
	TypeName string `json:"typeName,omitempty"`
}

func (DataDefinedEvent) isEvent() {}

// Kind implements Event.
func (DataDefinedEvent) Kind() string { return "data-defined" }

// RenamedEvent records an address receiving a new name.
type RenamedEvent struct {
	// EA is the renamed address.
	EA uint64 `json:"ea"`
	// NewName is the decoded new name; empty when the name was removed.
	NewName string `json:"newName"`
	// Local is true for a local (function-scoped) name.
	Local bool `json:"local"`
}

func (RenamedEvent) isEvent() {}

// Kind implements Event.
func (RenamedEvent) Kind() string { return "renamed" }

// FuncCreatedEvent records a new function definition.
type FuncCreatedEvent struct {
	// Start is the function entry address.
	Start uint64 `json:"start"`
	// End is the exclusive end address of the function body.
	End uint64 `json:"end"`
}

func (FuncCreatedEvent) isEvent() {}

// Kind implements Event.
func (FuncCreatedEvent) Kind() string { return "func-created" }

// FuncDeletedEvent records a function being deleted.
type FuncDeletedEvent struct {
	// Start is the entry address of the deleted function.
	Start uint64 `json:"start"`
}

func (FuncDeletedEvent) isEvent() {}

// Kind implements Event.
func (FuncDeletedEvent) Kind() string { return "func-deleted" }

// FuncStartChangedEvent records a function entry being moved.
type FuncStartChangedEvent struct {
	// Start is the entry address before the move.
	Start uint64 `json:"start"`
	// NewStart is the entry address after the move.
	NewStart uint64 `json:"newStart"`
}

func (FuncStartChangedEvent) isEvent() {}

// Kind implements Event.
func (FuncStartChangedEvent) Kind() string { return "func-start-changed" }

// FuncEndChangedEvent records a function end being moved.
type FuncEndChangedEvent struct {
	// Start is the function entry address.
	Start uint64 `json:"start"`
	// NewEnd is the exclusive end address after the move.
	NewEnd uint64 `json:"newEnd"`
}

func (FuncEndChangedEvent) isEvent() {}

// Kind implements Event.
func (FuncEndChangedEvent) Kind() string { return "func-end-changed" }

// FuncTailAppendedEvent records a tail chunk being attached to a function.
type FuncTailAppendedEvent struct {
	// Start is the owning function entry address.
	Start uint64 `json:"start"`
	// TailStart is the first address of the tail chunk.
	TailStart uint64 `json:"tailStart"`
	// TailEnd is the exclusive end address of the tail chunk.
	TailEnd uint64 `json:"tailEnd"`
}

func (FuncTailAppendedEvent) isEvent() {}

// Kind implements Event.
func (FuncTailAppendedEvent) Kind() string { return "func-tail-appended" }

// FuncTailDeletedEvent records a tail chunk being detached from a function.
type FuncTailDeletedEvent struct {
	// Start is the owning function entry address.
	Start uint64 `json:"start"`
	// TailEA is an address inside the removed tail chunk.
	TailEA uint64 `json:"tailEa"`
}

func (FuncTailDeletedEvent) isEvent() {}

// Kind implements Event.
func (FuncTailDeletedEvent) Kind() string { return "func-tail-deleted" }

// FuncTailOwnerChangedEvent records a tail chunk changing its owning function.
type FuncTailOwnerChangedEvent struct {
	// TailStart is the first address of the tail chunk.
	TailStart uint64 `json:"tailStart"`
	// NewOwner is the entry address of the new owning function.
	NewOwner uint64 `json:"newOwner"`
}

func (FuncTailOwnerChangedEvent) isEvent() {}

// Kind implements Event.
func (FuncTailOwnerChangedEvent) Kind() string { return "func-tail-owner-changed" }

// CommentChangedEvent records a comment edit at an address.
type CommentChangedEvent struct {
	// EA is the commented address.
	EA uint64 `json:"ea"`
	// Comment is the full new comment text; empty when removed.
	Comment string `json:"comment"`
	// Repeatable distinguishes repeatable from regular comments.
	Repeatable bool `json:"repeatable"`
}

func (CommentChangedEvent) isEvent() {}

// Kind implements Event.
func (CommentChangedEvent) Kind() string { return "comment-changed" }

// RangeCommentChangedEvent records a comment edit on an address range
// (e.g. a function comment).
type RangeCommentChangedEvent struct {
	// RangeKind identifies the kind of range the comment belongs to.
	RangeKind int `json:"rangeKind"`
	// Start is the first address of the range.
	Start uint64 `json:"start"`
	// End is the exclusive end address of the range.
	End uint64 `json:"end"`
	// Comment is the full new comment text.
	Comment string `json:"comment"`
	// Repeatable distinguishes repeatable from regular comments.
	Repeatable bool `json:"repeatable"`
}

func (RangeCommentChangedEvent) isEvent() {}

// Kind implements Event.
func (RangeCommentChangedEvent) Kind() string { return "range-comment-changed" }

// ExtraCommentChangedEvent records an anterior/posterior comment line edit.
type ExtraCommentChangedEvent struct {
	// EA is the commented address.
	EA uint64 `json:"ea"`
	// Line is the extra comment line index.
	Line int `json:"line"`
	// Comment is the new text of the line; empty when removed.
	Comment string `json:"comment"`
}

func (ExtraCommentChangedEvent) isEvent() {}

// Kind implements Event.
func (ExtraCommentChangedEvent) Kind() string { return "extra-comment-changed" }

// TypeAppliedEvent records a type being applied to an address.
type TypeAppliedEvent struct {
	// EA is the typed address.
	EA uint64 `json:"ea"`
	// Type is the raw serialized type encoding.
	Type []byte `json:"type"`
	// Fields is the raw serialized field name encoding.
	Fields []byte `json:"fields,omitempty"`
}

func (TypeAppliedEvent) isEvent() {}

// Kind implements Event.
func (TypeAppliedEvent) Kind() string { return "type-applied" }

// OperandExtra carries representation-specific details for an operand
// representation change.
type OperandExtra struct {
	// EnumName names the referenced enum when Op is "enum".
	EnumName string `json:"ename,omitempty"`
	// Serial is the referenced enum serial when Op is "enum".
	Serial int `json:"serial,omitempty"`
	// Delta is the structure offset delta when Op is "struct".
	Delta int64 `json:"delta,omitempty"`
	// StructPath is the structure path names when Op is "struct".
	StructPath []string `json:"spath,omitempty"`
}

// OperandTypeChangedEvent records an operand representation change.
type OperandTypeChangedEvent struct {
	// EA is the instruction address.
	EA uint64 `json:"ea"`
	// N is the zero-based operand number.
	N int `json:"n"`
	// Op is the new representation, one of "hex", "dec", "chr", "bin",
	// "oct", "enum", "struct", or "stkvar".
	Op string `json:"op"`
	// Extra carries enum/struct reference details when applicable.
	Extra OperandExtra `json:"extra"`
}

func (OperandTypeChangedEvent) isEvent() {}

// Kind implements Event.
func (OperandTypeChangedEvent) Kind() string { return "operand-type-changed" }

// BytePatchedEvent records a byte patch.
type BytePatchedEvent struct {
	// EA is the patched address.
	EA uint64 `json:"ea"`
	// Value is the byte value now stored at EA.
	Value uint32 `json:"value"`
}

func (BytePatchedEvent) isEvent() {}

// Kind implements Event.
func (BytePatchedEvent) Kind() string { return "byte-patched" }

// UndefinedEvent records an item being undefined back to raw bytes.
type UndefinedEvent struct {
	// EA is the undefined address.
	EA uint64 `json:"ea"`
}

func (UndefinedEvent) isEvent() {}

// Kind implements Event.
func (UndefinedEvent) Kind() string { return "undefined" }

// SegmentCreatedEvent records a new segment.
type SegmentCreatedEvent struct {
	// Name is the segment name.
	Name string `json:"name"`
	// Class is the segment class (e.g. "CODE", "DATA").
	Class string `json:"class"`
	// Start is the first address of the segment.
	Start uint64 `json:"start"`
	// End is the exclusive end address of the segment.
	End uint64 `json:"end"`
	// OrgBase is the segment origin base.
	OrgBase uint64 `json:"orgBase"`
	// Align is the segment alignment code.
	Align int `json:"align"`
	// Comb is the segment combination code.
	Comb int `json:"comb"`
	// Perm is the segment permission bits.
	Perm int `json:"perm"`
	// Bitness is the segment addressing mode (0=16, 1=32, 2=64 bit).
	Bitness int `json:"bitness"`
	// Flags is the segment flag bitfield.
	Flags uint32 `json:"flags"`
}

func (SegmentCreatedEvent) isEvent() {}

// Kind implements Event.
func (SegmentCreatedEvent) Kind() string { return "segment-created" }

// SegmentDeletedEvent records a segment being removed.
type SegmentDeletedEvent struct {
	// Start is the first address of the removed segment.
	Start uint64 `json:"start"`
}

func (SegmentDeletedEvent) isEvent() {}

// Kind implements Event.
func (SegmentDeletedEvent) Kind() string { return "segment-deleted" }

// SegmentStartChangedEvent records a segment start being moved.
type SegmentStartChangedEvent struct {
	// NewStart is the segment start after the move.
	NewStart uint64 `json:"newStart"`
	// OldStart is the segment start before the move.
	OldStart uint64 `json:"oldStart"`
}

func (SegmentStartChangedEvent) isEvent() {}

// Kind implements Event.
func (SegmentStartChangedEvent) Kind() string { return "segment-start-changed" }

// SegmentEndChangedEvent records a segment end being moved.
type SegmentEndChangedEvent struct {
	// NewEnd is the segment end after the move.
	NewEnd uint64 `json:"newEnd"`
	// Start is the segment start address identifying the segment.
	Start uint64 `json:"start"`
}

func (SegmentEndChangedEvent) isEvent() {}

// Kind implements Event.
func (SegmentEndChangedEvent) Kind() string { return "segment-end-changed" }

// SegmentNameChangedEvent records a segment rename.
type SegmentNameChangedEvent struct {
	// Start is the segment start address.
	Start uint64 `json:"start"`
	// Name is the new segment name.
	Name string `json:"name"`
}

func (SegmentNameChangedEvent) isEvent() {}

// Kind implements Event.
func (SegmentNameChangedEvent) Kind() string { return "segment-name-changed" }

// SegmentClassChangedEvent records a segment class change.
type SegmentClassChangedEvent struct {
	// Start is the segment start address.
	Start uint64 `json:"start"`
	// Class is the new segment class.
	Class string `json:"class"`
}

func (SegmentClassChangedEvent) isEvent() {}

// Kind implements Event.
func (SegmentClassChangedEvent) Kind() string { return "segment-class-changed" }

// SegmentAttrsChangedEvent records segment attribute updates.
type SegmentAttrsChangedEvent struct {
	// Start is the segment start address.
	Start uint64 `json:"start"`
	// Perm is the new permission bits.
	Perm int `json:"perm"`
	// Bitness is the new addressing mode.
	Bitness int `json:"bitness"`
}

func (SegmentAttrsChangedEvent) isEvent() {}

// Kind implements Event.
func (SegmentAttrsChangedEvent) Kind() string { return "segment-attrs-changed" }
