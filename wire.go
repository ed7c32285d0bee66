package wlclient

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

const (
	headerSize = 8

	// Messages are capped at 32 words including the header. A request that
	// would encode larger is a caller bug; an event that claims to be larger
	// is a protocol violation.
	maxMessageWords = 32
	maxMessageSize  = maxMessageWords * 4
)

var (
	// ErrMessageTooLarge is returned when a request's encoded form would
	// exceed the 32-word message limit. Nothing is written to the transport.
	ErrMessageTooLarge = errors.New("wlclient: message exceeds the 32-word limit")

	// ErrShortPayload is returned by Payload readers when the remaining
	// bytes cannot hold the requested argument.
	ErrShortPayload = errors.New("wlclient: truncated event payload")
)

// TerminalError wraps a transport read failure or a framing violation the
// session cannot recover from. The display is closed before one is returned,
// so the embedder may reconnect rather than exit.
type TerminalError struct {
	Op  string
	Err error
}

func (e *TerminalError) Error() string {
	return fmt.Sprintf("wlclient: %s: %v", e.Op, e.Err)
}

func (e *TerminalError) Unwrap() error { return e.Err }

// wordAlign rounds n up to the next 4-byte boundary.
func wordAlign(n int) int {
	return (n + 3) &^ 3
}

// packHeader writes the two header words: the object id, then the opcode in
// the low 16 bits and the total message size in the high 16 bits.
func packHeader(dst []byte, object uint32, opcode uint16, size uint16) {
	binary.LittleEndian.PutUint32(dst[0:4], object)
	binary.LittleEndian.PutUint32(dst[4:8], uint32(size)<<16|uint32(opcode))
}

// demarshalHeader unpacks the two header words. Pure; no allocation.
func demarshalHeader(p []byte) (object uint32, opcode uint16, size uint16) {
	object = binary.LittleEndian.Uint32(p[0:4])
	word := binary.LittleEndian.Uint32(p[4:8])
	opcode = uint16(word & 0xffff)
	size = uint16(word >> 16)
	return object, opcode, size
}

// marshal encodes one complete message into dst and returns its size. The
// signature string selects how each argument is encoded: 'u' and 'i' take a
// uint32 or int32 (identical on the wire), 's' a string (length word, bytes,
// zero padding to a word boundary), 'o' and 'n' an Object whose id is written.
// Arguments are checked against the signature before any byte is encoded into
// the transport, so a failed marshal never causes a partial write.
func marshal(dst []byte, object uint32, opcode uint16, signature string, args ...interface{}) (int, error) {
	if len(args) != len(signature) {
		return 0, fmt.Errorf("wlclient: signature %q takes %d arguments, got %d",
			signature, len(signature), len(args))
	}
	if len(dst) < maxMessageSize {
		return 0, fmt.Errorf("wlclient: marshal buffer too small: %d bytes", len(dst))
	}

	n := headerSize
	for i := 0; i < len(signature); i++ {
		arg := args[i]
		switch signature[i] {
		case 'u', 'i':
			var word uint32
			switch v := arg.(type) {
			case uint32:
				word = v
			case int32:
				word = uint32(v)
			default:
				return 0, fmt.Errorf("wlclient: argument %d: have %T, want uint32 or int32", i, arg)
			}
			if n+4 > maxMessageSize {
				return 0, ErrMessageTooLarge
			}
			binary.LittleEndian.PutUint32(dst[n:], word)
			n += 4
		case 's':
			v, ok := arg.(string)
			if !ok {
				return 0, fmt.Errorf("wlclient: argument %d: have %T, want string", i, arg)
			}
			padded := wordAlign(len(v))
			if n+4+padded > maxMessageSize {
				return 0, ErrMessageTooLarge
			}
			binary.LittleEndian.PutUint32(dst[n:], uint32(len(v)))
			n += 4
			copy(dst[n:], v)
			for j := n + len(v); j < n+padded; j++ {
				dst[j] = 0
			}
			n += padded
		case 'o', 'n':
			v, ok := arg.(Object)
			if !ok || v == nil {
				return 0, fmt.Errorf("wlclient: argument %d: have %T, want Object", i, arg)
			}
			if n+4 > maxMessageSize {
				return 0, ErrMessageTooLarge
			}
			binary.LittleEndian.PutUint32(dst[n:], v.ID())
			n += 4
		default:
			return 0, fmt.Errorf("wlclient: signature %q: unknown argument kind %q", signature, signature[i])
		}
	}

	packHeader(dst, object, opcode, uint16(n))
	return n, nil
}

// Payload reads arguments sequentially out of an event's argument bytes,
// consuming each field's padding so the next read starts on a word boundary.
type Payload struct {
	data   []byte
	offset int
}

// NewPayload wraps the argument bytes handed to an event handler.
func NewPayload(p []byte) *Payload {
	return &Payload{data: p}
}

// Remaining reports how many bytes have not been consumed yet.
func (p *Payload) Remaining() int {
	return len(p.data) - p.offset
}

// Uint32 reads one 32-bit value.
func (p *Payload) Uint32() (uint32, error) {
	if p.offset+4 > len(p.data) {
		return 0, ErrShortPayload
	}
	v := binary.LittleEndian.Uint32(p.data[p.offset:])
	p.offset += 4
	return v, nil
}

// Int32 reads one 32-bit value as signed.
func (p *Payload) Int32() (int32, error) {
	v, err := p.Uint32()
	return int32(v), err
}

// ObjectID reads an object reference.
func (p *Payload) ObjectID() (uint32, error) {
	return p.Uint32()
}

// String reads a length-prefixed string and skips its word padding. Trailing
// NUL bytes are stripped; servers differ on whether the terminator is counted.
func (p *Payload) String() (string, error) {
	length, err := p.Uint32()
	if err != nil {
		return "", err
	}
	padded := wordAlign(int(length))
	if p.offset+padded > len(p.data) {
		return "", ErrShortPayload
	}
	s := string(p.data[p.offset : p.offset+int(length)])
	p.offset += padded
	return strings.TrimRight(s, "\x00"), nil
}
