package wlclient

import "errors"

// Global describes a server-advertised capability: an object id, the
// interface it speaks, and its version.
type Global struct {
	ID        uint32
	Interface string
	Version   uint32
}

// ErrInsufficientVisuals is returned when a visual kind is requested before
// the server has advertised enough visuals to reach its position.
var ErrInsufficientVisuals = errors.New("wlclient: server advertised too few visuals")

// VisualKind names a position in the server's visual advertisement order.
// The protocol carries no format tag; which visual is which is defined purely
// by the order the server announces them in.
type VisualKind int

const (
	VisualARGB VisualKind = iota
	VisualPremultipliedARGB
	VisualRGB
)

func (k VisualKind) String() string {
	switch k {
	case VisualARGB:
		return "argb"
	case VisualPremultipliedARGB:
		return "premultiplied_argb"
	case VisualRGB:
		return "rgb"
	}
	return "unknown"
}

const visualInterfaceName = "visual"

// registry holds the globals the server has advertised, in arrival order.
// Globals are only ever appended; the protocol generation modeled here has no
// removal event. Visuals are additionally indexed by advertisement order
// because their position is their meaning.
type registry struct {
	globals []Global
	visuals []uint32
}

func (r *registry) record(g Global) {
	r.globals = append(r.globals, g)
	if g.Interface == visualInterfaceName {
		r.visuals = append(r.visuals, g.ID)
	}
}

// lookup returns the id of the first global advertised for name, or 0 when
// none matches. First match wins: multiple globals of one interface cannot be
// told apart here.
func (r *registry) lookup(name string) uint32 {
	for _, g := range r.globals {
		if g.Interface == name {
			return g.ID
		}
	}
	return invalidID
}

// visual returns the id of the kind-th advertised visual.
func (r *registry) visual(kind VisualKind) (uint32, bool) {
	if kind < 0 || int(kind) >= len(r.visuals) {
		return invalidID, false
	}
	return r.visuals[kind], true
}

// snapshot copies the global list so callers cannot observe later appends.
func (r *registry) snapshot() []Global {
	out := make([]Global, len(r.globals))
	copy(out, r.globals)
	return out
}
