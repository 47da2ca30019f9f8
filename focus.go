package main

import (
	"github.com/sirupsen/logrus"
)

// updateKeyboardFocus raises and activates the window under the pointer.
// A click on empty space changes nothing.
func (c *Compositor) updateKeyboardFocus(serial Serial) {
	w, _, ok := c.stack.Under(c.pointer.Location())
	if !ok {
		return
	}
	c.raise(w)
	if w.Activated && c.keyboard.Focus() == w.ID {
		return
	}
	c.activate(w, serial)
}

// activate makes w the only activated window and gives it keyboard focus.
func (c *Compositor) activate(w *Window, serial Serial) {
	for _, other := range c.stack.windows {
		if other == w || !other.Activated {
			continue
		}
		other.SetActivated(false)
		other.Configure(c.proto, &c.serials)
		c.publish(EventWindowDeactivated, other.ID, nil)
	}
	if !w.Activated || w.Pending().Serial == 0 {
		w.SetActivated(true)
		w.Configure(c.proto, &c.serials)
		c.publish(EventWindowActivated, w.ID, nil)
	}
	c.keyboard.SetFocus(w.ID, serial)
}

// raise puts w on top of the stack.
func (c *Compositor) raise(w *Window) {
	if c.stack.Top() == w {
		return
	}
	c.stack.Raise(w)
	logrus.WithFields(logrus.Fields{
		"surface": w.ID,
		"stack":   c.stack.Len(),
	}).Debugln("raise")
	c.publish(EventWindowRaised, w.ID, nil)
}

// cycleFocus activates the bottom-most window, raising it, so repeated
// calls walk through the whole stack.
func (c *Compositor) cycleFocus() {
	w := c.stack.Bottom()
	if w == nil || w == c.stack.Top() {
		return
	}
	c.raise(w)
	c.activate(w, c.serials.Next())
}
