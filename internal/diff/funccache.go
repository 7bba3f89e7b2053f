package diff

import (
	"reflect"

	"github.com/hotwinter/IDArl1ng/internal/host"
	"github.com/hotwinter/IDArl1ng/wire"
)

// FunctionCaches tracks the five decompiler annotation caches of the
// function shown in the active pseudocode view. The five sub-caches are
// compared independently but always belong to the same function; switching
// functions swaps all of them together before any comparison happens.
type FunctionCaches struct {
	fn    uint64
	bound bool

	labels   []wire.Label
	comments []wire.TreeComment
	iflags   []wire.Iflag
	lvars    wire.LvarSettings
	numforms []wire.Numform
}

// Refresh re-reads the caches of the currently displayed function and
// returns one event per sub-cache that changed since the previous refresh,
// in a fixed order: labels, comments, instruction flags, variable layout,
// numeric formats.
//
// When the displayed function differs from the bound one, the whole
// snapshot is rebound to the new function first and nothing is emitted;
// deltas only ever relate two observations of the same function.
//
// Comparisons are order- and value-sensitive. The receiving side replays
// these caches positionally, so a reordering is a real change.
func (f *FunctionCaches) Refresh(dec host.Decompiler) []wire.Event {
	fn, ok := dec.CurrentFunction()
	if !ok {
		return nil
	}
	if !f.bound || fn != f.fn {
		f.rebind(fn, dec)
		return nil
	}

	var events []wire.Event
	if labels := dec.UserLabels(fn); !reflect.DeepEqual(labels, f.labels) {
		f.labels = labels
		events = append(events, wire.UserLabelsEvent{EA: fn, Labels: labels})
	}
	if comments := dec.UserComments(fn); !reflect.DeepEqual(comments, f.comments) {
		f.comments = comments
		events = append(events, wire.UserCommentsEvent{EA: fn, Comments: comments})
	}
	if iflags := dec.UserIflags(fn); !reflect.DeepEqual(iflags, f.iflags) {
		f.iflags = iflags
		events = append(events, wire.UserIflagsEvent{EA: fn, Iflags: iflags})
	}
	if lvars := dec.LvarSettings(fn); !reflect.DeepEqual(lvars, f.lvars) {
		f.lvars = lvars
		events = append(events, wire.UserLvarSettingsEvent{EA: fn, Settings: lvars})
	}
	if numforms := dec.UserNumforms(fn); !reflect.DeepEqual(numforms, f.numforms) {
		f.numforms = numforms
		events = append(events, wire.UserNumformsEvent{EA: fn, Numforms: numforms})
	}
	return events
}

// rebind swaps the snapshot to a new function, reading all five sub-caches
// in one pass.
func (f *FunctionCaches) rebind(fn uint64, dec host.Decompiler) {
	f.fn = fn
	f.bound = true
	f.labels = dec.UserLabels(fn)
	f.comments = dec.UserComments(fn)
	f.iflags = dec.UserIflags(fn)
	f.lvars = dec.LvarSettings(fn)
	f.numforms = dec.UserNumforms(fn)
}

// Function returns the entry address of the bound function; ok is false
// before the first refresh.
func (f *FunctionCaches) Function() (uint64, bool) {
	return f.fn, f.bound
}
