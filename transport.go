package wlclient

import (
	"errors"
	"fmt"
	"io"

	"golang.org/x/sys/unix"
)

// Poll interest bits reported through UpdateHandler.
const (
	MaskReadable uint32 = 0x01
	MaskWritable uint32 = 0x02
)

// UpdateHandler is invoked whenever the transport's poll interest changes,
// and once when it is installed, so the embedder can keep its own poll set in
// sync.
type UpdateHandler func(mask uint32) error

// Transport is the buffered byte layer between the session and the socket.
// Data buffers socket bytes and reports how much input is pending, Copy peeks
// at the front of the input buffer without consuming, Consume advances past
// handled bytes, and Write queues output for the next writable pass.
type Transport interface {
	Data(mask uint32) (int, error)
	Copy(dst []byte) error
	Consume(n int) error
	Write(p []byte) error
	Close() error
}

// streamTransport implements Transport over a connected stream socket fd.
// Output is buffered and only flushed when the caller reports writability,
// which keeps every syscall inside a Data call; the desired poll mask is
// pushed out through the update callback whenever it changes.
type streamTransport struct {
	fd      int
	in      []byte
	out     []byte
	mask    uint32
	update  UpdateHandler
	readBuf [4096]byte
}

func newStreamTransport(fd int, update UpdateHandler) *streamTransport {
	t := &streamTransport{fd: fd, update: update, mask: MaskReadable}
	if update != nil {
		_ = update(t.mask)
	}
	return t
}

func (t *streamTransport) setMask(mask uint32) error {
	if mask == t.mask {
		return nil
	}
	t.mask = mask
	if t.update != nil {
		return t.update(mask)
	}
	return nil
}

func (t *streamTransport) flush() error {
	for len(t.out) > 0 {
		n, err := unix.Write(t.fd, t.out)
		if err == unix.EINTR {
			continue
		}
		if err == unix.EAGAIN {
			return nil
		}
		if err != nil {
			return err
		}
		t.out = t.out[n:]
	}
	t.out = nil
	return t.setMask(MaskReadable)
}

func (t *streamTransport) Data(mask uint32) (int, error) {
	if mask&MaskWritable != 0 {
		if err := t.flush(); err != nil {
			return len(t.in), fmt.Errorf("wlclient: write: %w", err)
		}
	}
	if mask&MaskReadable != 0 {
		for {
			n, err := unix.Read(t.fd, t.readBuf[:])
			if err == unix.EINTR {
				continue
			}
			if err != nil {
				return len(t.in), fmt.Errorf("wlclient: read: %w", err)
			}
			if n == 0 {
				return len(t.in), io.EOF
			}
			t.in = append(t.in, t.readBuf[:n]...)
			break
		}
	}
	return len(t.in), nil
}

func (t *streamTransport) Copy(dst []byte) error {
	if len(dst) > len(t.in) {
		return errors.New("wlclient: copy past end of input buffer")
	}
	copy(dst, t.in)
	return nil
}

func (t *streamTransport) Consume(n int) error {
	if n > len(t.in) {
		return errors.New("wlclient: consume past end of input buffer")
	}
	t.in = t.in[n:]
	return nil
}

func (t *streamTransport) Write(p []byte) error {
	t.out = append(t.out, p...)
	return t.setMask(MaskReadable | MaskWritable)
}

func (t *streamTransport) Close() error {
	t.in = nil
	t.out = nil
	return unix.Close(t.fd)
}

// DefaultSocketName is the server's rendezvous address. The leading '@'
// places it in the abstract socket namespace.
const DefaultSocketName = "@wayland"

// dialSocket connects a stream socket to the named address and returns its
// fd. A leading '@' selects the abstract namespace; anything else is taken as
// a filesystem path.
func dialSocket(name string) (int, error) {
	if name == "" {
		name = DefaultSocketName
	}
	fd, err := unix.Socket(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return -1, err
	}
	if err := unix.Connect(fd, &unix.SockaddrUnix{Name: name}); err != nil {
		_ = unix.Close(fd)
		return -1, fmt.Errorf("connect %s: %w", name, err)
	}
	return fd, nil
}

// readFull reads exactly len(p) bytes from fd, retrying on EINTR.
func readFull(fd int, p []byte) error {
	off := 0
	for off < len(p) {
		n, err := unix.Read(fd, p[off:])
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return err
		}
		if n == 0 {
			return io.ErrUnexpectedEOF
		}
		off += n
	}
	return nil
}
