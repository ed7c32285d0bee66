package wlclient

import "fmt"

// Object is anything addressable on the wire by a numeric id.
type Object interface {
	ID() uint32
}

// Proxy is the local stand-in for one remote object: an interface descriptor,
// a 32-bit id, and the owning display. Constructing one performs no I/O.
type Proxy struct {
	iface   *Interface
	id      uint32
	display *Display
}

// NewProxy binds an interface descriptor to an object id on d. The id is
// either looked up from the registry (for well-known singletons) or freshly
// taken from AllocateID for objects the client is about to create.
func NewProxy(iface *Interface, id uint32, d *Display) *Proxy {
	return &Proxy{iface: iface, id: id, display: d}
}

// ID returns the proxy's object id.
func (p *Proxy) ID() uint32 { return p.id }

// Interface returns the proxy's interface descriptor.
func (p *Proxy) Interface() *Interface { return p.iface }

// Display returns the owning session.
func (p *Proxy) Display() *Display { return p.display }

// Call marshals one request against the method's signature and queues it on
// the transport. This is the only way a proxy talks to the server; no reply
// is read. A signature mismatch or an over-long message fails before any
// bytes reach the transport.
func (p *Proxy) Call(opcode uint16, args ...interface{}) error {
	if int(opcode) >= len(p.iface.Methods) {
		return fmt.Errorf("wlclient: %s has no method %d", p.iface.Name, opcode)
	}
	method := p.iface.Methods[opcode]

	var buf [maxMessageSize]byte
	n, err := marshal(buf[:], p.id, opcode, method.Signature, args...)
	if err != nil {
		return fmt.Errorf("%s.%s: %w", p.iface.Name, method.Name, err)
	}

	log.Debugf("-> %s@%d.%s (%d bytes)", p.iface.Name, p.id, method.Name, n)
	return p.display.Write(buf[:n])
}
