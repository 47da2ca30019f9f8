package main

import (
	"github.com/sirupsen/logrus"
)

// OnPointerMoveAbsolute handles an absolute pointer motion in logical
// coordinates.
func (c *Compositor) OnPointerMoveAbsolute(loc Point, time uint32) {
	ev := MotionEvent{Location: loc, Serial: c.serials.Next(), Time: time}
	if g := c.pointer.Grab(); g != nil {
		g.Motion(c, ev)
		return
	}
	c.pointer.motion(c.focusUnder(loc), ev)
}

// OnPointerButton handles a button transition. The first press of a
// click raises and activates the window under the pointer.
func (c *Compositor) OnPointerButton(button uint32, state ButtonState, time uint32) {
	ev := ButtonEvent{Button: button, State: state, Serial: c.serials.Next(), Time: time}
	if state == ButtonPressed && !c.pointer.AnyPressed() && c.pointer.Grab() == nil {
		c.updateKeyboardFocus(ev.Serial)
	}
	if !c.pointer.updateButton(ev) {
		logrus.WithFields(logrus.Fields{
			"button": button,
			"state":  state,
		}).Debugln("ignoring repeated button transition")
		return
	}
	if g := c.pointer.Grab(); g != nil {
		g.Button(c, ev)
		return
	}
	c.pointer.button(ev)
}

// OnPointerAxis handles a scroll frame.
func (c *Compositor) OnPointerAxis(frame AxisFrame) {
	if g := c.pointer.Grab(); g != nil {
		g.Axis(c, frame)
		return
	}
	c.pointer.axis(frame)
}

// OnPointerGesture handles a touchpad gesture sub-event.
func (c *Compositor) OnPointerGesture(ev GestureEvent) {
	ev.Serial = c.serials.Next()
	if g := c.pointer.Grab(); g != nil {
		g.Gesture(c, ev)
		return
	}
	c.pointer.gesture(ev)
}

// OnKeyboardKey handles a key transition. Presses matching a binding are
// consumed along with their release.
func (c *Compositor) OnKeyboardKey(key uint32, state KeyState, time uint32) {
	serial := c.serials.Next()
	c.keyboard.update(key, state)
	switch state {
	case KeyPressed:
		if b, ok := c.matchBinding(c.keyboard.Modifiers(), key); ok {
			c.keyboard.intercepted[key] = struct{}{}
			logrus.WithField("binding", b.Name).Debugln("binding triggered")
			b.Action(c)
			return
		}
	case KeyReleased:
		if _, ok := c.keyboard.intercepted[key]; ok {
			delete(c.keyboard.intercepted, key)
			return
		}
	}
	c.keyboard.key(serial, time, key, state)
}

// NewToplevel maps a fresh toplevel where the placement policy says,
// activates it and fades it in.
func (c *Compositor) NewToplevel(id SurfaceID, client ClientID) (*Window, error) {
	if id == 0 || c.stack.Find(id) != nil {
		return nil, ErrUnknownSurface
	}
	c.forgetClosing(id)
	w := &Window{
		ID:     id,
		Client: client,
		Loc:    c.placement.Place(c.stack.GetWindows(), c.cfg.Output),
	}
	c.ledger.Seed(id)
	c.stack.AddWindow(w)
	c.anim.StartFadeIn(id)
	c.publish(EventWindowCreated, id, map[string]interface{}{
		"client": client,
		"x":      w.Loc.X,
		"y":      w.Loc.Y,
	})
	c.activate(w, c.serials.Next())
	logrus.WithFields(logrus.Fields{
		"surface": id,
		"client":  client,
	}).Infoln("new toplevel")
	return w, nil
}

// checkGrabRequest validates a move or resize request against the click
// in progress. A surface still waiting on its client for a previous
// resize cannot be grabbed: the pending commit re-anchors it.
func (c *Compositor) checkGrabRequest(id SurfaceID, serial Serial) (*Window, GrabStartData, error) {
	w := c.stack.Find(id)
	if w == nil {
		return nil, GrabStartData{}, ErrUnknownSurface
	}
	start, ok := c.pointer.GrabStartData()
	if !ok || start.Serial != serial || start.Focus != id {
		return nil, GrabStartData{}, ErrNoGrabStart
	}
	if c.pointer.Grab() != nil {
		return nil, GrabStartData{}, ErrGrabActive
	}
	if c.ledger.Pending(id) {
		return nil, GrabStartData{}, ErrResizePending
	}
	return w, start, nil
}

// MoveRequest starts an interactive move of id. serial must be the
// serial of the press that is still held.
func (c *Compositor) MoveRequest(id SurfaceID, serial Serial) error {
	w, start, err := c.checkGrabRequest(id, serial)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"surface": id,
			"serial":  serial,
		}).WithError(err).Debugln("move request rejected")
		return err
	}
	g := &MoveGrab{start: start, window: id, initial: w.Loc}
	if err := c.pointer.setGrab(g, c.serials.Next()); err != nil {
		return err
	}
	c.pointer.SetCursor(CursorGrabbing)
	c.publish(EventGrabStarted, id, map[string]interface{}{"kind": "move"})
	return nil
}

// ResizeRequest starts an interactive resize of id from edges. No edges
// means a move.
func (c *Compositor) ResizeRequest(id SurfaceID, serial Serial, edges Edges) error {
	if edges == EdgeNone {
		return c.MoveRequest(id, serial)
	}
	w, start, err := c.checkGrabRequest(id, serial)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"surface": id,
			"serial":  serial,
			"edges":   edges,
		}).WithError(err).Debugln("resize request rejected")
		return err
	}
	g := &ResizeGrab{
		start:       start,
		window:      id,
		edges:       edges,
		initialLoc:  w.Loc,
		initialSize: w.Size,
		lastSize:    w.Size,
	}
	if err := c.pointer.setGrab(g, c.serials.Next()); err != nil {
		return err
	}
	c.pointer.SetCursor(cursorIconForEdges(edges))
	c.publish(EventGrabStarted, id, map[string]interface{}{
		"kind":  "resize",
		"edges": edges.String(),
	})
	return nil
}

// AckConfigure records a client's acknowledgement of a configure.
func (c *Compositor) AckConfigure(id SurfaceID, serial Serial) {
	if c.ledger.Ack(id, serial) {
		c.publishResizeState(id)
		return
	}
	logrus.WithFields(logrus.Fields{
		"surface": id,
		"serial":  serial,
		"phase":   c.ledger.Phase(id),
	}).Debugln("ack does not advance resize")
}

// Commit applies a client commit with the given window geometry. After a
// resize from the left or top, the window is moved so that the opposite
// edges stay where they were.
func (c *Compositor) Commit(id SurfaceID, size Size) {
	w := c.stack.Find(id)
	if w == nil {
		logrus.WithField("surface", id).Debugln("commit for unmapped surface")
		return
	}
	if w.Size != size {
		w.Size = size
		c.publish(EventWindowResized, id, map[string]interface{}{
			"w": size.W,
			"h": size.H,
		})
	}
	before := c.ledger.Phase(id)
	data, ok := c.ledger.Commit(id)
	if !ok {
		return
	}
	c.placeWindow(w, data.Anchor(w.Loc, size))
	if c.ledger.Phase(id) != before {
		c.publishResizeState(id)
	}
}

// Destroy unmaps a toplevel. It fades out from the closing list.
func (c *Compositor) Destroy(id SurfaceID) {
	w := c.stack.Find(id)
	if w == nil {
		logrus.WithField("surface", id).Debugln("destroy of unmapped surface")
		return
	}
	refocus := c.pointer.Focus() == id
	if g := c.pointer.Grab(); g != nil && g.Window() == id {
		c.dropGrab(g)
		refocus = true
	}
	c.stack.RemoveWindow(w)
	c.pointer.forgetSurface(id)
	if refocus && c.pointer.Grab() == nil {
		loc := c.pointer.Location()
		c.pointer.motion(c.focusUnder(loc), MotionEvent{Location: loc, Serial: c.serials.Next()})
	}
	if c.keyboard.Focus() == id {
		c.keyboard.SetFocus(0, c.serials.Next())
	}
	w.Activated = false
	c.ledger.Forget(id)
	c.anim.StartFadeOut(id)
	c.closing = append(c.closing, w)
	c.publish(EventWindowDestroyed, id, nil)
	logrus.WithField("surface", id).Infoln("toplevel destroyed")
}

// RequestActivation raises and activates id on behalf of another client.
func (c *Compositor) RequestActivation(id SurfaceID) error {
	w := c.stack.Find(id)
	if w == nil {
		return ErrUnknownSurface
	}
	c.raise(w)
	c.activate(w, c.serials.Next())
	return nil
}

// ClientGone destroys every window of a disconnected client. A grab on
// one of them is dropped and pointer focus moves to whatever is left
// under the pointer.
func (c *Compositor) ClientGone(client ClientID) {
	for _, w := range c.stack.GetWindows() {
		if w.Client == client {
			c.Destroy(w.ID)
		}
	}
	logrus.WithField("client", client).Infoln("client gone")
}

func (c *Compositor) forgetClosing(id SurfaceID) {
	for i, w := range c.closing {
		if w.ID == id {
			c.closing = append(c.closing[:i:i], c.closing[i+1:]...)
			c.anim.Forget(id)
			return
		}
	}
}
