package wire

import (
	"encoding/json"
	"fmt"
)

// Envelope is the transport wrapper for one event.
//
// T selects the variant, Data is the variant's JSON body, and Tick is the
// position assigned by the sending agent (and re-assigned by the relay when
// it detects a de-synchronized sender).
type Envelope struct {
	// T is the event kind discriminator.
	T string `json:"t"`
	// Tick is the event position in the session history; zero before
	// stamping.
	Tick uint64 `json:"tick,omitempty"`
	// Data is the JSON body of the event variant.
	Data json.RawMessage `json:"data"`
}

// NewEnvelope wraps an event for transport with the given tick.
func NewEnvelope(ev Event, tick uint64) (Envelope, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode %s event: %w", ev.Kind(), err)
	}
	return Envelope{T: ev.Kind(), Tick: tick, Data: data}, nil
}

// ParseEnvelope parses a transport payload into an Envelope.
//
// Socket.IO hands payloads over as decoded `any` values; raw JSON bytes are
// accepted too.
func ParseEnvelope(v any) (Envelope, error) {
	var raw []byte
	switch t := v.(type) {
	case json.RawMessage:
		raw = t
	case []byte:
		raw = t
	default:
		var err error
		raw, err = json.Marshal(v)
		if err != nil {
			return Envelope{}, err
		}
	}
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, fmt.Errorf("parse event envelope: %w", err)
	}
	if env.T == "" {
		return Envelope{}, fmt.Errorf("event envelope missing kind")
	}
	return env, nil
}

// Event decodes the envelope body into its typed variant.
func (e Envelope) Event() (Event, error) {
	decode, ok := eventKinds[e.T]
	if !ok {
		return nil, fmt.Errorf("unknown event kind %q", e.T)
	}
	ev, err := decode(e.Data)
	if err != nil {
		return nil, fmt.Errorf("decode %s event: %w", e.T, err)
	}
	return ev, nil
}

func decodeInto[E Event](data json.RawMessage) (Event, error) {
	var ev E
	if len(data) > 0 {
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, err
		}
	}
	return ev, nil
}

// eventKinds maps every event kind to its decoder. Keys must match the
// variants' Kind() values exactly.
var eventKinds = map[string]func(json.RawMessage) (Event, error){
	CodeDefinedEvent{}.Kind():          decodeInto[CodeDefinedEvent],
	DataDefinedEvent{}.Kind():          decodeInto[DataDefinedEvent],
	RenamedEvent{}.Kind():              decodeInto[RenamedEvent],
	FuncCreatedEvent{}.Kind():          decodeInto[FuncCreatedEvent],
	FuncDeletedEvent{}.Kind():          decodeInto[FuncDeletedEvent],
	FuncStartChangedEvent{}.Kind():     decodeInto[FuncStartChangedEvent],
	FuncEndChangedEvent{}.Kind():       decodeInto[FuncEndChangedEvent],
	FuncTailAppendedEvent{}.Kind():     decodeInto[FuncTailAppendedEvent],
	FuncTailDeletedEvent{}.Kind():      decodeInto[FuncTailDeletedEvent],
	FuncTailOwnerChangedEvent{}.Kind(): decodeInto[FuncTailOwnerChangedEvent],
	CommentChangedEvent{}.Kind():       decodeInto[CommentChangedEvent],
	RangeCommentChangedEvent{}.Kind():  decodeInto[RangeCommentChangedEvent],
	ExtraCommentChangedEvent{}.Kind():  decodeInto[ExtraCommentChangedEvent],
	TypeAppliedEvent{}.Kind():          decodeInto[TypeAppliedEvent],
	TypeLibraryChangedEvent{}.Kind():   decodeInto[TypeLibraryChangedEvent],
	OperandTypeChangedEvent{}.Kind():   decodeInto[OperandTypeChangedEvent],
	EnumCreatedEvent{}.Kind():          decodeInto[EnumCreatedEvent],
	EnumDeletedEvent{}.Kind():          decodeInto[EnumDeletedEvent],
	EnumRenamedEvent{}.Kind():          decodeInto[EnumRenamedEvent],
	EnumBitfieldChangedEvent{}.Kind():  decodeInto[EnumBitfieldChangedEvent],
	EnumCommentChangedEvent{}.Kind():   decodeInto[EnumCommentChangedEvent],
	EnumMemberCreatedEvent{}.Kind():    decodeInto[EnumMemberCreatedEvent],
	EnumMemberDeletedEvent{}.Kind():    decodeInto[EnumMemberDeletedEvent],
	StructCreatedEvent{}.Kind():        decodeInto[StructCreatedEvent],
	StructDeletedEvent{}.Kind():        decodeInto[StructDeletedEvent],
	StructRenamedEvent{}.Kind():        decodeInto[StructRenamedEvent],
	StructMemberCreatedEvent{}.Kind():  decodeInto[StructMemberCreatedEvent],
	StructMemberDeletedEvent{}.Kind():  decodeInto[StructMemberDeletedEvent],
	StructMemberRenamedEvent{}.Kind():  decodeInto[StructMemberRenamedEvent],
	StructCommentChangedEvent{}.Kind(): decodeInto[StructCommentChangedEvent],
	StructMemberChangedEvent{}.Kind():  decodeInto[StructMemberChangedEvent],
	StructExpandedEvent{}.Kind():       decodeInto[StructExpandedEvent],
	SegmentCreatedEvent{}.Kind():       decodeInto[SegmentCreatedEvent],
	SegmentDeletedEvent{}.Kind():       decodeInto[SegmentDeletedEvent],
	SegmentStartChangedEvent{}.Kind():  decodeInto[SegmentStartChangedEvent],
	SegmentEndChangedEvent{}.Kind():    decodeInto[SegmentEndChangedEvent],
	SegmentNameChangedEvent{}.Kind():   decodeInto[SegmentNameChangedEvent],
	SegmentClassChangedEvent{}.Kind():  decodeInto[SegmentClassChangedEvent],
	SegmentAttrsChangedEvent{}.Kind():  decodeInto[SegmentAttrsChangedEvent],
	BytePatchedEvent{}.Kind():          decodeInto[BytePatchedEvent],
	UndefinedEvent{}.Kind():            decodeInto[UndefinedEvent],
	UserLabelsEvent{}.Kind():           decodeInto[UserLabelsEvent],
	UserCommentsEvent{}.Kind():         decodeInto[UserCommentsEvent],
	UserIflagsEvent{}.Kind():           decodeInto[UserIflagsEvent],
	UserLvarSettingsEvent{}.Kind():     decodeInto[UserLvarSettingsEvent],
	UserNumformsEvent{}.Kind():         decodeInto[UserNumformsEvent],
}
