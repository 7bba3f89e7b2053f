// Package adapter translates host mutation notifications into canonical
// wire events. One entry point exists per notification kind; each resolves
// whatever facts it needs through the host query surface at call time and
// hands at most one event to the sink. Handlers never mutate host state
// and never propagate a translation failure back to the host: a failed
// lookup means that one event is skipped, nothing more.
package adapter

import (
	"github.com/hotwinter/IDArl1ng/internal/diff"
	"github.com/hotwinter/IDArl1ng/internal/host"
	"github.com/hotwinter/IDArl1ng/pkg/logger"
	"github.com/hotwinter/IDArl1ng/wire"
)

// Sink accepts finished events for transmission. Implementations are
// expected to be fire-and-forget; the adapter never blocks on them.
type Sink interface {
	SendEvent(ev wire.Event)
}

// Adapter converts host notifications into events. All methods run on the
// host's single notification thread, so no locking is needed.
type Adapter struct {
	api  host.API
	dec  host.Decompiler
	sink Sink

	typeLib    diff.TypeLibrary
	funcCaches diff.FunctionCaches

	attached bool
}

// New returns an adapter reading through api and dec and forwarding to
// sink. The adapter starts detached; nothing is forwarded until Attach.
func New(api host.API, dec host.Decompiler, sink Sink) *Adapter {
	return &Adapter{api: api, dec: dec, sink: sink}
}

// Attach starts forwarding events to the sink.
func (a *Adapter) Attach() { a.attached = true }

// Detach stops forwarding events to the sink. Notifications arriving while
// detached are dropped without side effects.
func (a *Adapter) Detach() { a.attached = false }

// Attached reports whether events are being forwarded.
func (a *Adapter) Attached() bool { return a.attached }

func (a *Adapter) forward(ev wire.Event) {
	if !a.attached {
		return
	}
	logger.Tracef("event %s", ev.Kind())
	a.sink.SendEvent(ev)
}

// CodeDefined handles bytes at ea being turned into an instruction.
func (a *Adapter) CodeDefined(ea uint64) {
	a.forward(wire.CodeDefinedEvent{EA: ea})
}

// DataDefined handles bytes at ea being turned into a data item. tid is
// the applied structure type record; zero for plain data.
func (a *Adapter) DataDefined(ea uint64, flags uint32, size uint64, tid uint64) {
	ev := wire.DataDefinedEvent{EA: ea, Flags: flags, Size: size}
	if tid != 0 {
		name, ok := a.api.TypeNameByID(tid)
		if !ok {
			return
		}
		ev.TypeName = name
	}
	a.forward(ev)
}

// Renamed handles an address receiving a new name.
func (a *Adapter) Renamed(ea uint64, newName string, local bool) {
	a.forward(wire.RenamedEvent{EA: ea, NewName: newName, Local: local})
}

// FuncAdded handles a new function definition.
func (a *Adapter) FuncAdded(start, end uint64) {
	a.forward(wire.FuncCreatedEvent{Start: start, End: end})
}

// FuncDeleted handles a function being removed.
func (a *Adapter) FuncDeleted(start uint64) {
	a.forward(wire.FuncDeletedEvent{Start: start})
}

// FuncStartChanged handles a function entry move.
func (a *Adapter) FuncStartChanged(start, newStart uint64) {
	a.forward(wire.FuncStartChangedEvent{Start: start, NewStart: newStart})
}

// FuncEndChanged handles a function end move.
func (a *Adapter) FuncEndChanged(start, newEnd uint64) {
	a.forward(wire.FuncEndChangedEvent{Start: start, NewEnd: newEnd})
}

// FuncTailAppended handles a tail chunk attaching to a function.
func (a *Adapter) FuncTailAppended(start, tailStart, tailEnd uint64) {
	a.forward(wire.FuncTailAppendedEvent{Start: start, TailStart: tailStart, TailEnd: tailEnd})
}

// FuncTailDeleted handles a tail chunk detaching from a function.
func (a *Adapter) FuncTailDeleted(start, tailEA uint64) {
	a.forward(wire.FuncTailDeletedEvent{Start: start, TailEA: tailEA})
}

// FuncTailOwnerChanged handles a tail chunk changing owner.
func (a *Adapter) FuncTailOwnerChanged(tailStart, newOwner uint64) {
	a.forward(wire.FuncTailOwnerChangedEvent{TailStart: tailStart, NewOwner: newOwner})
}

// CommentChanged handles a comment edit at ea. The new text is read back
// from the host because the notification does not carry it.
func (a *Adapter) CommentChanged(ea uint64, repeatable bool) {
	cmt := a.api.Comment(ea, repeatable)
	a.forward(wire.CommentChangedEvent{EA: ea, Comment: cmt, Repeatable: repeatable})
}

// RangeCommentChanged handles a comment edit on an address range.
func (a *Adapter) RangeCommentChanged(rangeKind int, start, end uint64, comment string, repeatable bool) {
	a.forward(wire.RangeCommentChangedEvent{
		RangeKind:  rangeKind,
		Start:      start,
		End:        end,
		Comment:    comment,
		Repeatable: repeatable,
	})
}

// ExtraCommentChanged handles an anterior/posterior comment line edit.
func (a *Adapter) ExtraCommentChanged(ea uint64, line int) {
	cmt := a.api.ExtraComment(ea, line)
	a.forward(wire.ExtraCommentChangedEvent{EA: ea, Line: line, Comment: cmt})
}

// TypeApplied handles a type being applied at ea.
func (a *Adapter) TypeApplied(ea uint64) {
	enc, ok := a.api.TypeRaw(ea)
	if !ok {
		return
	}
	a.forward(wire.TypeAppliedEvent{EA: ea, Type: enc.Type, Fields: enc.Fields})
}

// TypeLibraryChanged handles any local type library mutation. The host
// only says "something changed", so the current library is snapshotted and
// diffed against the previous observation; an empty delta emits nothing.
func (a *Adapter) TypeLibraryChanged() {
	// The snapshot must not advance while detached, or changes made during
	// the gap would never be transmitted. Frozen, the first notification
	// after Attach diffs against the pre-detach observation and catches up.
	if !a.attached {
		return
	}
	count := a.api.TypeCount()
	cur := make([]*wire.TypeSlot, 0, count)
	for ordinal := 0; ordinal < count; ordinal++ {
		cur = append(cur, a.api.TypeAt(ordinal))
	}
	if ev, ok := a.typeLib.Update(cur); ok {
		a.forward(ev)
	}
}

// BytePatched handles a byte patch at ea.
func (a *Adapter) BytePatched(ea uint64) {
	a.forward(wire.BytePatchedEvent{EA: ea, Value: a.api.ByteAt(ea)})
}

// Undefined handles an item at ea being undefined back to raw bytes.
func (a *Adapter) Undefined(ea uint64) {
	a.forward(wire.UndefinedEvent{EA: ea})
}

// SegmentAdded handles a new segment starting at start.
func (a *Adapter) SegmentAdded(start uint64) {
	seg, ok := a.api.Segment(start)
	if !ok {
		return
	}
	a.forward(wire.SegmentCreatedEvent{
		Name:    seg.Name,
		Class:   seg.Class,
		Start:   seg.Start,
		End:     seg.End,
		OrgBase: seg.OrgBase,
		Align:   seg.Align,
		Comb:    seg.Comb,
		Perm:    seg.Perm,
		Bitness: seg.Bitness,
		Flags:   seg.Flags,
	})
}

// SegmentDeleted handles a segment being removed.
func (a *Adapter) SegmentDeleted(start uint64) {
	a.forward(wire.SegmentDeletedEvent{Start: start})
}

// SegmentStartChanged handles a segment start move.
func (a *Adapter) SegmentStartChanged(newStart, oldStart uint64) {
	a.forward(wire.SegmentStartChangedEvent{NewStart: newStart, OldStart: oldStart})
}

// SegmentEndChanged handles a segment end move.
func (a *Adapter) SegmentEndChanged(start, newEnd uint64) {
	a.forward(wire.SegmentEndChangedEvent{Start: start, NewEnd: newEnd})
}

// SegmentNameChanged handles a segment rename.
func (a *Adapter) SegmentNameChanged(start uint64) {
	seg, ok := a.api.Segment(start)
	if !ok {
		return
	}
	a.forward(wire.SegmentNameChangedEvent{Start: start, Name: seg.Name})
}

// SegmentClassChanged handles a segment class change.
func (a *Adapter) SegmentClassChanged(start uint64) {
	seg, ok := a.api.Segment(start)
	if !ok {
		return
	}
	a.forward(wire.SegmentClassChangedEvent{Start: start, Class: seg.Class})
}

// SegmentAttrsChanged handles segment attribute updates.
func (a *Adapter) SegmentAttrsChanged(start uint64) {
	seg, ok := a.api.Segment(start)
	if !ok {
		return
	}
	a.forward(wire.SegmentAttrsChangedEvent{Start: start, Perm: seg.Perm, Bitness: seg.Bitness})
}

// FunctionViewRefreshed handles the pseudocode view of a function being
// redrawn. The five annotation caches are compared against the previous
// observation; each changed cache is sent in full.
func (a *Adapter) FunctionViewRefreshed() {
	// Same snapshot discipline as TypeLibraryChanged: a detached refresh
	// must leave the caches untouched.
	if !a.attached {
		return
	}
	for _, ev := range a.funcCaches.Refresh(a.dec) {
		a.forward(ev)
	}
}
