package main

// Window is a client toplevel surface managed by us.
type Window struct {
	// ID is the surface this window wraps.
	ID SurfaceID
	// Client owns the surface.
	Client ClientID
	// Loc is the topleft corner of the window in logical coordinates.
	Loc Pos
	// Size is the geometry the client last committed. It is zero until
	// the first commit, so an unmapped-looking window takes no input.
	Size Size
	// Activated mirrors the activated state last sent to the client.
	Activated bool

	// pending is the state the next configure will carry.
	pending Configure
}

// Rect returns the window's input region in logical coordinates.
func (w *Window) Rect() Rect {
	return Rect{w.Loc, w.Size}
}

// Configure sends the window's pending state to its client, tagged with a
// fresh serial, and returns that serial.
func (w *Window) Configure(p Protocol, serials *SerialCounter) Serial {
	w.pending.Serial = serials.Next()
	w.Activated = w.pending.Activated
	p.Configure(w.ID, w.pending)
	return w.pending.Serial
}

// SetActivated updates the pending activated flag.
func (w *Window) SetActivated(on bool) {
	w.pending.Activated = on
}

// SetResizing updates the pending resizing flag and suggested size.
func (w *Window) SetResizing(on bool, size Size) {
	w.pending.Resizing = on
	w.pending.Size = size
}

// SetPendingSize updates the suggested size without touching the flags.
func (w *Window) SetPendingSize(size Size) {
	w.pending.Size = size
}

// Pending returns the state the next configure will carry.
func (w *Window) Pending() Configure {
	return w.pending
}

// CloseGracefully asks the client to close the window. The window stays
// managed until the client destroys it.
func (w *Window) CloseGracefully(p Protocol) {
	p.CloseRequest(w.ID)
}
