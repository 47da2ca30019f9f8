package main

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// RenderElement is one window as the renderer should draw it.
type RenderElement struct {
	ID        SurfaceID
	Rect      Rect
	Alpha     float64
	Activated bool
}

// Damage lists the output regions a frame changed.
type Damage []Rect

// Renderer draws a frame, bottom element first.
type Renderer interface {
	Render(elements []RenderElement, cursor Point, icon CursorIcon) (Damage, error)
}

// Tick advances animations, reaps fully faded windows and expires resize
// handshakes the client never finished. Call it once per frame.
func (c *Compositor) Tick() {
	c.anim.Tick()

	alive := c.closing[:0]
	for _, w := range c.closing {
		if c.anim.Animating(w.ID) {
			alive = append(alive, w)
			continue
		}
		c.anim.Forget(w.ID)
	}
	for i := len(alive); i < len(c.closing); i++ {
		c.closing[i] = nil
	}
	c.closing = alive

	if c.cfg.ResizeAckTimeout > 0 {
		for _, id := range c.ledger.Expire(c.cfg.ResizeAckTimeout) {
			logrus.WithField("surface", id).Warnln("client never finished resize, giving up")
			c.publishResizeState(id)
		}
	}
}

// RenderElements returns what the current frame shows: closing windows
// below mapped ones, both bottom first. Fully transparent windows are
// skipped.
func (c *Compositor) RenderElements() []RenderElement {
	var elems []RenderElement
	add := func(w *Window) {
		a := c.anim.Alpha(w.ID)
		if a <= 0 || w.Size.Empty() {
			return
		}
		elems = append(elems, RenderElement{
			ID:        w.ID,
			Rect:      w.Rect(),
			Alpha:     a,
			Activated: w.Activated,
		})
	}
	for _, w := range c.closing {
		add(w)
	}
	for _, w := range c.stack.windows {
		add(w)
	}
	return elems
}

// Frame runs one frame: tick, render, then tell every mapped window its
// frame was presented.
func (c *Compositor) Frame(r Renderer) (Damage, error) {
	c.Tick()
	damage, err := r.Render(c.RenderElements(), c.pointer.Location(), c.pointer.Cursor())
	if err != nil {
		return nil, errors.Wrap(err, "render failed")
	}
	ms := uint32(c.now().UnixNano() / 1e6)
	for _, w := range c.stack.windows {
		c.proto.FrameDone(w.ID, ms)
	}
	return damage, nil
}

// nopRenderer draws nothing; the headless daemon uses it when no
// preview display is configured.
type nopRenderer struct{}

func (nopRenderer) Render(elements []RenderElement, _ Point, _ CursorIcon) (Damage, error) {
	var d Damage
	for _, e := range elements {
		d = append(d, e.Rect)
	}
	return d, nil
}
