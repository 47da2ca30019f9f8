package main

import (
	"github.com/sirupsen/logrus"
)

// PointerGrab takes over a pointer's event stream for the duration of an
// interactive operation. Events it does not care about are handed back to
// the pointer's default dispatch.
type PointerGrab interface {
	Motion(c *Compositor, ev MotionEvent)
	Button(c *Compositor, ev ButtonEvent)
	Axis(c *Compositor, frame AxisFrame)
	Gesture(c *Compositor, ev GestureEvent)

	// StartData is the click that started the grab.
	StartData() GrabStartData
	// Window is the surface the grab operates on.
	Window() SurfaceID
}

// MoveGrab drags a window with the pointer.
type MoveGrab struct {
	start   GrabStartData
	window  SurfaceID
	initial Pos
}

func (g *MoveGrab) String() string { return "move" }

// StartData implements PointerGrab.
func (g *MoveGrab) StartData() GrabStartData { return g.start }

// Window implements PointerGrab.
func (g *MoveGrab) Window() SurfaceID { return g.window }

// Motion places the window at its initial position plus the pointer
// displacement. No client has pointer focus while dragging.
func (g *MoveGrab) Motion(c *Compositor, ev MotionEvent) {
	c.pointer.motion(nil, ev)

	w := c.stack.Find(g.window)
	if w == nil {
		c.dropGrab(g)
		return
	}
	delta := ev.Location.Sub(g.start.Location)
	c.placeWindow(w, g.initial.Float().Add(delta).Round())
}

// Button forwards the event and ends the grab once every button is up.
func (g *MoveGrab) Button(c *Compositor, ev ButtonEvent) {
	c.pointer.button(ev)
	if !c.pointer.AnyPressed() {
		c.releaseGrab(g, ev)
	}
}

// Axis implements PointerGrab.
func (g *MoveGrab) Axis(c *Compositor, frame AxisFrame) { c.pointer.axis(frame) }

// Gesture implements PointerGrab.
func (g *MoveGrab) Gesture(c *Compositor, ev GestureEvent) { c.pointer.gesture(ev) }

// ResizeGrab resizes a window from one or two of its edges. The window
// position is only corrected once the client commits the new size; see
// Compositor.Commit.
type ResizeGrab struct {
	start       GrabStartData
	window      SurfaceID
	edges       Edges
	initialLoc  Pos
	initialSize Size
	lastSize    Size
}

func (g *ResizeGrab) String() string { return "resize" }

// StartData implements PointerGrab.
func (g *ResizeGrab) StartData() GrabStartData { return g.start }

// Window implements PointerGrab.
func (g *ResizeGrab) Window() SurfaceID { return g.window }

// Edges returns the edges being dragged.
func (g *ResizeGrab) Edges() Edges { return g.edges }

// LastSize returns the size most recently proposed to the client.
func (g *ResizeGrab) LastSize() Size { return g.lastSize }

// resizedSize computes the size for a pointer displacement. Dragging a
// left or top edge away from the window grows it. The result is never
// smaller than 1x1.
func resizedSize(edges Edges, initial Size, delta Point) Size {
	w, h := initial.W, initial.H
	switch {
	case edges&EdgeLeft != 0:
		w = int(float64(initial.W) - delta.X)
	case edges&EdgeRight != 0:
		w = int(float64(initial.W) + delta.X)
	}
	switch {
	case edges&EdgeTop != 0:
		h = int(float64(initial.H) - delta.Y)
	case edges&EdgeBottom != 0:
		h = int(float64(initial.H) + delta.Y)
	}
	return Size{max(w, 1), max(h, 1)}
}

// Motion proposes a new size to the client and records the live resize
// in the ledger.
func (g *ResizeGrab) Motion(c *Compositor, ev MotionEvent) {
	c.pointer.motion(nil, ev)
	c.pointer.SetCursor(cursorIconForEdges(g.edges))

	w := c.stack.Find(g.window)
	if w == nil {
		c.dropGrab(g)
		return
	}

	g.lastSize = resizedSize(g.edges, g.initialSize, ev.Location.Sub(g.start.Location))
	c.markResizing(w.ID, ResizeData{
		Edges:           g.edges,
		InitialLocation: g.initialLoc,
		InitialSize:     g.initialSize,
	})
	w.SetResizing(true, g.lastSize)
	w.Configure(c.proto, &c.serials)
}

// Button forwards the event. Once every button is up, the grab ends and
// the final size is sent without the resizing flag; the ledger then waits
// for the client to ack exactly that configure.
func (g *ResizeGrab) Button(c *Compositor, ev ButtonEvent) {
	c.pointer.button(ev)
	if c.pointer.AnyPressed() {
		return
	}
	c.releaseGrab(g, ev)

	w := c.stack.Find(g.window)
	if w == nil {
		return
	}
	w.SetResizing(false, g.lastSize)
	serial := w.Configure(c.proto, &c.serials)
	if c.ledger.FinishResizing(w.ID, serial) {
		logrus.WithFields(logrus.Fields{
			"surface": w.ID,
			"size":    g.lastSize,
			"serial":  serial,
		}).Debugln("resize released, waiting for final ack")
		c.publishResizeState(w.ID)
	}
}

// Axis implements PointerGrab.
func (g *ResizeGrab) Axis(c *Compositor, frame AxisFrame) { c.pointer.axis(frame) }

// Gesture implements PointerGrab.
func (g *ResizeGrab) Gesture(c *Compositor, ev GestureEvent) { c.pointer.gesture(ev) }
