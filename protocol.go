package wlclient

// Typed wrappers over the core protocol objects. Each method is one Call with
// a fixed opcode and argument list; none reads a synchronous reply. Object
// ids for created objects are chosen client-side via AllocateID before the
// request is sent.

// Compositor is the proxy for the server's compositor global.
type Compositor struct {
	Proxy
}

// CreateSurface allocates a surface id, announces it to the server, and
// returns the proxy. The surface exists as soon as the request is queued.
func (c *Compositor) CreateSurface() (*Surface, error) {
	s := &Surface{Proxy{iface: SurfaceInterface, id: c.display.AllocateID(), display: c.display}}
	if err := c.Call(compositorRequestCreateSurface, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Commit asks the compositor to apply all state changes tagged with key. The
// compositor answers with an acknowledge event carrying the same key.
func (c *Compositor) Commit(key uint32) error {
	return c.Call(compositorRequestCommit, key)
}

// Surface is the proxy for one compositor surface.
type Surface struct {
	Proxy
}

// Destroy tells the server to drop the surface. The local id is not reused.
func (s *Surface) Destroy() error {
	return s.Call(surfaceRequestDestroy)
}

// Attach associates the named buffer with the surface.
func (s *Surface) Attach(name uint32, width, height int32, stride uint32, visual *Visual) error {
	return s.Call(surfaceRequestAttach, name, width, height, stride, visual)
}

// Map places the surface on screen at the given position and size.
func (s *Surface) Map(x, y, width, height int32) error {
	return s.Call(surfaceRequestMap, x, y, width, height)
}

// Copy blits a rectangle from the named buffer into the surface at (dstX, dstY).
func (s *Surface) Copy(dstX, dstY int32, name, stride uint32, x, y, width, height int32) error {
	return s.Call(surfaceRequestCopy, dstX, dstY, name, stride, x, y, width, height)
}

// Damage marks a region of the surface as needing repaint.
func (s *Surface) Damage(x, y, width, height int32) error {
	return s.Call(surfaceRequestDamage, x, y, width, height)
}

// Visual is the proxy for one of the server's pixel-format visuals. It has no
// requests; it exists to be referenced from Surface.Attach.
type Visual struct {
	Proxy
}

// InputDevice is the proxy for the server's input device. It has no requests;
// motion, button and key events arrive through the display's event handler.
type InputDevice struct {
	Proxy
}
