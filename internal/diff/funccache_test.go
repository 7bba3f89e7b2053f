package diff

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hotwinter/IDArl1ng/wire"
)

// fakeDecompiler serves canned per-function caches.
type fakeDecompiler struct {
	fn    uint64
	hasFn bool

	labels   []wire.Label
	comments []wire.TreeComment
	iflags   []wire.Iflag
	lvars    wire.LvarSettings
	numforms []wire.Numform
}

func (d *fakeDecompiler) CurrentFunction() (uint64, bool)         { return d.fn, d.hasFn }
func (d *fakeDecompiler) UserLabels(uint64) []wire.Label          { return d.labels }
func (d *fakeDecompiler) UserComments(uint64) []wire.TreeComment  { return d.comments }
func (d *fakeDecompiler) UserIflags(uint64) []wire.Iflag          { return d.iflags }
func (d *fakeDecompiler) LvarSettings(uint64) wire.LvarSettings   { return d.lvars }
func (d *fakeDecompiler) UserNumforms(uint64) []wire.Numform      { return d.numforms }

func TestFunctionCachesRebindEmitsNothing(t *testing.T) {
	dec := &fakeDecompiler{
		fn: 0x401000, hasFn: true,
		labels:   []wire.Label{{Num: 0, Name: "retry"}},
		comments: []wire.TreeComment{{EA: 0x401004, ITP: 64, Text: "loop"}},
	}

	var caches FunctionCaches
	require.Empty(t, caches.Refresh(dec))

	fn, bound := caches.Function()
	require.True(t, bound)
	require.Equal(t, uint64(0x401000), fn)

	// Same function, same caches: still nothing.
	require.Empty(t, caches.Refresh(dec))
}

func TestFunctionCachesSubCacheIndependence(t *testing.T) {
	dec := &fakeDecompiler{
		fn: 0x401000, hasFn: true,
		labels:   []wire.Label{{Num: 0, Name: "retry"}},
		comments: []wire.TreeComment{{EA: 0x401004, ITP: 64, Text: "loop"}},
	}

	var caches FunctionCaches
	caches.Refresh(dec)

	dec.comments = []wire.TreeComment{{EA: 0x401004, ITP: 64, Text: "loop counter"}}
	events := caches.Refresh(dec)
	require.Len(t, events, 1)
	require.Equal(t, wire.UserCommentsEvent{
		EA:       0x401000,
		Comments: dec.comments,
	}, events[0])

	// The other four previous values were untouched.
	require.Empty(t, caches.Refresh(dec))
}

func TestFunctionCachesOrderSensitive(t *testing.T) {
	dec := &fakeDecompiler{
		fn: 0x401000, hasFn: true,
		labels: []wire.Label{{Num: 0, Name: "a"}, {Num: 1, Name: "b"}},
	}

	var caches FunctionCaches
	caches.Refresh(dec)

	// Same pairs, different order: a real change on the wire.
	dec.labels = []wire.Label{{Num: 1, Name: "b"}, {Num: 0, Name: "a"}}
	events := caches.Refresh(dec)
	require.Len(t, events, 1)
	require.IsType(t, wire.UserLabelsEvent{}, events[0])
}

func TestFunctionCachesFixedEmissionOrder(t *testing.T) {
	dec := &fakeDecompiler{fn: 0x401000, hasFn: true}

	var caches FunctionCaches
	caches.Refresh(dec)

	dec.labels = []wire.Label{{Num: 0, Name: "x"}}
	dec.iflags = []wire.Iflag{{EA: 0x401008, Op: 0, Flags: 1}}
	dec.numforms = []wire.Numform{{EA: 0x40100c, OpNum: 1}}

	events := caches.Refresh(dec)
	require.Len(t, events, 3)
	require.IsType(t, wire.UserLabelsEvent{}, events[0])
	require.IsType(t, wire.UserIflagsEvent{}, events[1])
	require.IsType(t, wire.UserNumformsEvent{}, events[2])
}

func TestFunctionCachesSwitchRebindsBeforeDiffing(t *testing.T) {
	dec := &fakeDecompiler{
		fn: 0x401000, hasFn: true,
		labels: []wire.Label{{Num: 0, Name: "a"}},
	}

	var caches FunctionCaches
	caches.Refresh(dec)

	// New function with different caches: the switch swaps the snapshot
	// without emitting stale cross-function deltas.
	dec.fn = 0x402000
	dec.labels = []wire.Label{{Num: 0, Name: "other"}}
	require.Empty(t, caches.Refresh(dec))

	fn, _ := caches.Function()
	require.Equal(t, uint64(0x402000), fn)
}

func TestFunctionCachesNoViewNoWork(t *testing.T) {
	dec := &fakeDecompiler{hasFn: false}

	var caches FunctionCaches
	require.Empty(t, caches.Refresh(dec))
	_, bound := caches.Function()
	require.False(t, bound)
}
