package wlclient

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// idObj is a bare Object for feeding object references to marshal.
type idObj uint32

func (o idObj) ID() uint32 { return uint32(o) }

func TestHeaderPacking(t *testing.T) {
	var buf [headerSize]byte
	packHeader(buf[:], 5, 2, 12)
	assert.Equal(t, []byte{0x05, 0x00, 0x00, 0x00, 0x02, 0x00, 0x0C, 0x00}, buf[:])

	object, opcode, size := demarshalHeader(buf[:])
	assert.Equal(t, uint32(5), object)
	assert.Equal(t, uint16(2), opcode)
	assert.Equal(t, uint16(12), size)
}

func TestDemarshalHeaderLargeValues(t *testing.T) {
	var buf [headerSize]byte
	packHeader(buf[:], 0xFFFF, 255, 4096)
	object, opcode, size := demarshalHeader(buf[:])
	assert.Equal(t, uint32(0xFFFF), object)
	assert.Equal(t, uint16(255), opcode)
	assert.Equal(t, uint16(4096), size)
}

// decodeArgs walks payload with the same signature the message was marshaled
// with and returns the recovered arguments.
func decodeArgs(t *testing.T, signature string, payload []byte) []interface{} {
	t.Helper()
	p := NewPayload(payload)
	var out []interface{}
	for i := 0; i < len(signature); i++ {
		switch signature[i] {
		case 'u':
			v, err := p.Uint32()
			require.NoError(t, err)
			out = append(out, v)
		case 'i':
			v, err := p.Int32()
			require.NoError(t, err)
			out = append(out, v)
		case 's':
			v, err := p.String()
			require.NoError(t, err)
			out = append(out, v)
		case 'o', 'n':
			v, err := p.ObjectID()
			require.NoError(t, err)
			out = append(out, v)
		default:
			t.Fatalf("unknown signature char %q", signature[i])
		}
	}
	require.Equal(t, 0, p.Remaining(), "decoder must consume padding, not leak it into the next field")
	return out
}

func TestMarshalRoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		signature string
		args      []interface{}
		want      []interface{}
	}{
		{
			name:      "no arguments",
			signature: "",
		},
		{
			name:      "words",
			signature: "ui",
			args:      []interface{}{uint32(7), int32(-3)},
			want:      []interface{}{uint32(7), int32(-3)},
		},
		{
			name:      "string length 1",
			signature: "su",
			args:      []interface{}{"a", uint32(0xDEADBEEF)},
			want:      []interface{}{"a", uint32(0xDEADBEEF)},
		},
		{
			name:      "string length 3",
			signature: "su",
			args:      []interface{}{"abc", uint32(9)},
			want:      []interface{}{"abc", uint32(9)},
		},
		{
			name:      "string on word boundary",
			signature: "su",
			args:      []interface{}{"abcd", uint32(9)},
			want:      []interface{}{"abcd", uint32(9)},
		},
		{
			name:      "object references",
			signature: "on",
			args:      []interface{}{idObj(3), idObj(17)},
			want:      []interface{}{uint32(3), uint32(17)},
		},
		{
			name:      "global announcement shape",
			signature: "osu",
			args:      []interface{}{idObj(42), "visual", uint32(1)},
			want:      []interface{}{uint32(42), "visual", uint32(1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf [maxMessageSize]byte
			n, err := marshal(buf[:], 6, 1, tt.signature, tt.args...)
			require.NoError(t, err)
			require.Zero(t, n%4, "messages are word aligned")

			object, opcode, size := demarshalHeader(buf[:])
			assert.Equal(t, uint32(6), object)
			assert.Equal(t, uint16(1), opcode)
			assert.Equal(t, n, int(size))

			got := decodeArgs(t, tt.signature, buf[headerSize:n])
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMarshalSignedUnsignedIdenticalOnWire(t *testing.T) {
	var a, b [maxMessageSize]byte
	n1, err := marshal(a[:], 1, 0, "u", int32(-1))
	require.NoError(t, err)
	n2, err := marshal(b[:], 1, 0, "u", uint32(0xFFFFFFFF))
	require.NoError(t, err)
	assert.Equal(t, a[:n1], b[:n2])
}

func TestMarshalStringPaddingZeroed(t *testing.T) {
	var buf [maxMessageSize]byte
	for i := range buf {
		buf[i] = 0xAA
	}
	n, err := marshal(buf[:], 1, 0, "s", "ab")
	require.NoError(t, err)
	// length word + "ab" + two pad bytes
	assert.Equal(t, 16, n)
	assert.Equal(t, []byte{'a', 'b', 0, 0}, buf[12:16])
}

func TestMarshalTooLarge(t *testing.T) {
	var buf [maxMessageSize]byte
	_, err := marshal(buf[:], 1, 0, "s", strings.Repeat("x", 150))
	assert.ErrorIs(t, err, ErrMessageTooLarge)
}

func TestMarshalSignatureMismatch(t *testing.T) {
	var buf [maxMessageSize]byte

	_, err := marshal(buf[:], 1, 0, "u", "not a word")
	assert.Error(t, err)

	_, err = marshal(buf[:], 1, 0, "uu", uint32(1))
	assert.Error(t, err)

	_, err = marshal(buf[:], 1, 0, "o", uint32(1))
	assert.Error(t, err)
}

func TestPayloadShortReads(t *testing.T) {
	p := NewPayload([]byte{1, 2})
	_, err := p.Uint32()
	assert.ErrorIs(t, err, ErrShortPayload)

	// String whose claimed length runs past the buffer.
	p = NewPayload([]byte{10, 0, 0, 0, 'x', 'y'})
	_, err = p.String()
	assert.ErrorIs(t, err, ErrShortPayload)
}
