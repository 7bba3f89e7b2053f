package wire

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnvelopeRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		event Event
	}{
		{
			name:  "renamed",
			event: RenamedEvent{EA: 0x401000, NewName: "main", Local: false},
		},
		{
			name: "operand type changed with enum extra",
			event: OperandTypeChangedEvent{
				EA: 0x401010, N: 1, Op: "enum",
				Extra: OperandExtra{EnumName: "ERRORS", Serial: 2},
			},
		},
		{
			name: "type library changed",
			event: TypeLibraryChangedEvent{
				Updates: []TypeUpdate{
					{Ordinal: 1, Slot: &TypeSlot{Type: []byte{0x0d}, Name: "my_struct"}},
					{Ordinal: 2, Slot: nil},
				},
			},
		},
		{
			name: "user comments",
			event: UserCommentsEvent{
				EA: 0x402000,
				Comments: []TreeComment{
					{EA: 0x402004, ITP: 64, Text: "loop counter"},
				},
			},
		},
		{
			name: "struct member created with offset extra",
			event: StructMemberCreatedEvent{
				Struct: "header", Name: "next", Offset: 8, Flag: 0x25500400, Size: 8,
				Extra: MemberExtra{Target: 0x403000, RefFlags: 0x9},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env, err := NewEnvelope(tc.event, 7)
			require.NoError(t, err)
			require.Equal(t, tc.event.Kind(), env.T)
			require.Equal(t, uint64(7), env.Tick)

			raw, err := json.Marshal(env)
			require.NoError(t, err)

			parsed, err := ParseEnvelope(raw)
			require.NoError(t, err)

			got, err := parsed.Event()
			require.NoError(t, err)
			require.Equal(t, tc.event, got)
		})
	}
}

func TestParseEnvelopeFromDecodedValue(t *testing.T) {
	// Socket.IO delivers payloads as map[string]any.
	payload := map[string]any{
		"t":    "byte-patched",
		"tick": 42,
		"data": map[string]any{"ea": 0x1000, "value": 0x90},
	}

	env, err := ParseEnvelope(payload)
	require.NoError(t, err)
	require.Equal(t, uint64(42), env.Tick)

	ev, err := env.Event()
	require.NoError(t, err)
	require.Equal(t, BytePatchedEvent{EA: 0x1000, Value: 0x90}, ev)
}

func TestParseEnvelopeErrors(t *testing.T) {
	_, err := ParseEnvelope([]byte(`{"tick":1,"data":{}}`))
	require.ErrorContains(t, err, "missing kind")

	env, err := ParseEnvelope([]byte(`{"t":"no-such-kind","data":{}}`))
	require.NoError(t, err)
	_, err = env.Event()
	require.ErrorContains(t, err, `unknown event kind "no-such-kind"`)
}

func TestEventKindsMatchRegistry(t *testing.T) {
	// Every registered decoder must produce an event that reports the kind
	// it was registered under.
	for kind, decode := range eventKinds {
		ev, err := decode(nil)
		require.NoError(t, err)
		require.Equal(t, kind, ev.Kind())
	}
}

func TestMemberExtraOmitsZeroFields(t *testing.T) {
	raw, err := json.Marshal(MemberExtra{})
	require.NoError(t, err)
	require.JSONEq(t, `{}`, string(raw))

	raw, err = json.Marshal(MemberExtra{Serial: 3})
	require.NoError(t, err)
	require.JSONEq(t, `{"serial":3}`, string(raw))
}
