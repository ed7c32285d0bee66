// Package wlclient implements the client side of a display-server wire
// protocol over a local stream socket.
//
// Every remote object is represented by a typed proxy carrying a numeric id;
// requests are marshaled into a compact word-aligned binary format and queued
// on a buffered transport, and incoming events are framed out of the stream
// and dispatched synchronously from Iterate. The package is single-threaded
// by design: all work happens inside whichever call the embedding application
// makes, and the application drives dispatch from its own poll loop using the
// descriptor and readiness mask exposed by FD.
package wlclient

import (
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// ErrClosed is returned by operations on a display that has been closed or
// torn down after a terminal error.
var ErrClosed = errors.New("wlclient: display is closed")

// ErrGlobalNotFound is returned by typed accessors when the server never
// advertised a global for the requested interface.
var ErrGlobalNotFound = errors.New("wlclient: no such global")

// EventHandler receives every event not consumed by the display itself:
// the sender's object id, the event opcode, the total message size, and the
// argument bytes (header excluded). The payload slice is only valid for the
// duration of the call.
type EventHandler func(d *Display, object uint32, opcode uint16, size uint16, payload []byte)

type displayState int

const (
	stateConnecting displayState = iota
	stateHandshaking
	stateReady
	stateClosed
)

// Display is one session with the server. It owns the transport, the id
// allocator, and the global registry, and drives event dispatch. A Display
// must not be shared between goroutines without external locking.
type Display struct {
	transport Transport
	fd        int
	state     displayState

	// nextID is seeded by the server during the handshake and only ever
	// increments; ids are never reused while the session lives.
	nextID uint32

	registry registry

	mask    uint32
	update  UpdateHandler
	handler EventHandler
}

// Connect establishes a session: dial the socket, read the 4-byte id seed the
// server assigns this client, attach the buffered transport, and run one
// dispatch pass to drain the globals the server advertises on connect. On any
// failure no partial session is left behind.
func Connect(name string) (*Display, error) {
	fd, err := dialSocket(name)
	if err != nil {
		return nil, fmt.Errorf("wlclient: %w", err)
	}

	d := &Display{fd: fd, state: stateHandshaking}

	var seed [4]byte
	if err := readFull(fd, seed[:]); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("wlclient: handshake: %w", err)
	}
	d.nextID = binary.LittleEndian.Uint32(seed[:])

	d.transport = newStreamTransport(fd, d.connectionUpdate)
	d.state = stateReady
	log.Debugf("connected, id range starts at %d", d.nextID)

	if err := d.Iterate(MaskReadable); err != nil {
		// Iterate already tore the session down.
		return nil, err
	}
	return d, nil
}

// Close releases the transport and the socket. Any further operation on the
// display returns ErrClosed.
func (d *Display) Close() error {
	if d.state == stateClosed {
		return ErrClosed
	}
	d.state = stateClosed
	d.registry = registry{}
	return d.transport.Close()
}

// ID returns the display's own object id, which is always 1.
func (d *Display) ID() uint32 { return displayID }

// Interface returns the display's interface descriptor.
func (d *Display) Interface() *Interface { return DisplayInterface }

// connectionUpdate tracks the transport's desired poll mask and forwards it
// to the embedder's I/O integration.
func (d *Display) connectionUpdate(mask uint32) error {
	d.mask = mask
	if d.update != nil {
		return d.update(mask)
	}
	return nil
}

// FD installs the readiness callback and returns the connection's file
// descriptor for the embedder to poll. The callback is invoked once
// immediately with the current mask.
func (d *Display) FD(update UpdateHandler) int {
	d.update = update
	if update != nil {
		_ = update(d.mask)
	}
	return d.fd
}

// Mask returns the transport's current poll interest.
func (d *Display) Mask() uint32 { return d.mask }

// AllocateID returns the next object id. Allocation is monotonic from the
// server-assigned seed; ids are never reused, so destroying a proxy cannot
// invalidate another proxy's id.
func (d *Display) AllocateID() uint32 {
	id := d.nextID
	d.nextID++
	return id
}

// SetEventHandler registers the application's event handler. There is one
// slot: a later registration replaces the earlier one. Events arriving with
// no handler registered are dropped.
func (d *Display) SetEventHandler(handler EventHandler) {
	d.handler = handler
}

// ObjectID resolves an interface name against the global registry and returns
// the first matching global's id, or 0 when none matches. With multiple
// globals of one interface the first advertised wins; binding "the
// compositor" assumes exactly one exists.
func (d *Display) ObjectID(interfaceName string) uint32 {
	return d.registry.lookup(interfaceName)
}

// Globals returns a copy of the registry in advertisement order.
func (d *Display) Globals() []Global {
	return d.registry.snapshot()
}

// Write queues an already-marshaled message on the transport. Most callers
// want Proxy.Call instead; this is the escape hatch for externally marshaled
// messages.
func (d *Display) Write(p []byte) error {
	if d.state != stateReady {
		return ErrClosed
	}
	return d.transport.Write(p)
}

// Iterate runs one dispatch pass: it asks the transport to buffer whatever is
// ready under mask, then decodes and routes every complete message. A partial
// trailing message is left in the transport for the next pass. Transport read
// failures and framing violations close the display and are reported as a
// *TerminalError.
func (d *Display) Iterate(mask uint32) error {
	if d.state != stateReady {
		return ErrClosed
	}

	remaining, err := d.transport.Data(mask)
	if err != nil {
		return d.terminate("transport", err)
	}

	var header [headerSize]byte
	for remaining >= headerSize {
		if err := d.transport.Copy(header[:]); err != nil {
			return d.terminate("peek header", err)
		}
		object, opcode, size := demarshalHeader(header[:])
		if int(size) < headerSize || int(size) > maxMessageSize {
			return d.terminate("frame", fmt.Errorf("message size %d out of range", size))
		}
		if remaining < int(size) {
			// Not yet enough bytes for the whole message; the next pass
			// picks it up from the same cursor.
			break
		}
		if err := d.dispatch(object, opcode, size); err != nil {
			return err
		}
		remaining -= int(size)
	}
	return nil
}

// dispatch copies one complete message out of the transport, routes it, and
// consumes it. GLOBAL events on the display object feed the registry; all
// other events go to the application handler.
func (d *Display) dispatch(object uint32, opcode uint16, size uint16) error {
	var scratch [maxMessageSize]byte
	msg := scratch[:size]
	if err := d.transport.Copy(msg); err != nil {
		return d.terminate("copy message", err)
	}
	payload := msg[headerSize:]

	if object == displayID && opcode == displayEventGlobal {
		d.handleGlobal(payload)
	} else if d.handler != nil {
		d.handler(d, object, opcode, size, payload)
	}

	if err := d.transport.Consume(int(size)); err != nil {
		return d.terminate("consume", err)
	}
	return nil
}

// handleGlobal decodes a GLOBAL event's (id, interface, version) arguments
// and records them. A malformed announcement is logged and skipped rather
// than tearing the session down.
func (d *Display) handleGlobal(payload []byte) {
	p := NewPayload(payload)
	id, err := p.ObjectID()
	if err == nil {
		var name string
		var version uint32
		if name, err = p.String(); err == nil {
			if version, err = p.Uint32(); err == nil {
				d.registry.record(Global{ID: id, Interface: name, Version: version})
				log.Debugf("global: %s v%d (id %d)", name, version, id)
				return
			}
		}
	}
	log.Warningf("malformed global announcement: %v", err)
}

// terminate tears the session down after an unrecoverable failure and wraps
// the cause so embedders can distinguish it from request-level errors.
func (d *Display) terminate(op string, err error) error {
	_ = d.Close()
	return &TerminalError{Op: op, Err: err}
}

// Compositor binds a proxy to the server's compositor global.
func (d *Display) Compositor() (*Compositor, error) {
	id := d.ObjectID(CompositorInterface.Name)
	if id == invalidID {
		return nil, fmt.Errorf("%s: %w", CompositorInterface.Name, ErrGlobalNotFound)
	}
	return &Compositor{Proxy{iface: CompositorInterface, id: id, display: d}}, nil
}

// InputDevice binds a proxy to the server's input device global. Its events
// arrive through the display's event handler.
func (d *Display) InputDevice() (*InputDevice, error) {
	id := d.ObjectID(InputDeviceInterface.Name)
	if id == invalidID {
		return nil, fmt.Errorf("%s: %w", InputDeviceInterface.Name, ErrGlobalNotFound)
	}
	return &InputDevice{Proxy{iface: InputDeviceInterface, id: id, display: d}}, nil
}

// Visual returns the visual at the given position in the server's
// advertisement order. Requesting a kind the server has not (yet) advertised
// returns ErrInsufficientVisuals; run a dispatch pass first if the initial
// burst of globals may still be in flight.
func (d *Display) Visual(kind VisualKind) (*Visual, error) {
	id, ok := d.registry.visual(kind)
	if !ok {
		return nil, fmt.Errorf("%s: %w", kind, ErrInsufficientVisuals)
	}
	return &Visual{Proxy{iface: VisualInterface, id: id, display: d}}, nil
}

// ARGBVisual returns the first advertised visual.
func (d *Display) ARGBVisual() (*Visual, error) {
	return d.Visual(VisualARGB)
}

// PremultipliedARGBVisual returns the second advertised visual.
func (d *Display) PremultipliedARGBVisual() (*Visual, error) {
	return d.Visual(VisualPremultipliedARGB)
}

// RGBVisual returns the third advertised visual.
func (d *Display) RGBVisual() (*Visual, error) {
	return d.Visual(VisualRGB)
}
