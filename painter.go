package main

import (
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/pkg/errors"
)

// Painter wraps calls to the low-level drawing API, exposing a
// slightly more abstract interface. It draws into an off-screen pixmap
// that Present copies to the target window.
type Painter struct {
	xc     *xgb.Conn
	gc     xproto.Gcontext
	target xproto.Window
	buf    xproto.Pixmap
	w, h   uint16
}

// NewPainter allocates a new Painter.
func NewPainter(xc *xgb.Conn) *Painter {
	return &Painter{xc: xc}
}

// Init creates the graphics context and back buffer for target.
func (p *Painter) Init(screen *xproto.ScreenInfo, target xproto.Window, w, h uint16) error {
	tFont, err := xproto.NewFontId(p.xc)
	if err != nil {
		return err
	}
	err = xproto.OpenFontChecked(p.xc, tFont, uint16(len("6x13")), "6x13").Check()
	if err != nil {
		return errors.Wrap(err, "failed to open font")
	}
	defer xproto.CloseFont(p.xc, tFont)

	buf, err := xproto.NewPixmapId(p.xc)
	if err != nil {
		return err
	}
	if err := xproto.CreatePixmapChecked(
		p.xc,
		screen.RootDepth,
		buf,
		xproto.Drawable(target),
		w,
		h,
	).Check(); err != nil {
		return errors.Wrap(err, "failed to create back buffer")
	}

	gc, err := xproto.NewGcontextId(p.xc)
	if err != nil {
		return err
	}
	if err := xproto.CreateGCChecked(
		p.xc,
		gc,
		xproto.Drawable(target),
		xproto.GcFont|xproto.GcGraphicsExposures,
		[]uint32{
			uint32(tFont),
			0,
		},
	).Check(); err != nil {
		return errors.Wrap(err, "failed to create graphics context")
	}

	p.gc = gc
	p.target = target
	p.buf = buf
	p.w, p.h = w, h
	return nil
}

// SetColorFG sets the foreground color.
func (p *Painter) SetColorFG(c uint32) error {
	return xproto.ChangeGCChecked(
		p.xc,                // conn
		p.gc,                // context
		xproto.GcForeground, // mask
		[]uint32{c},         // values
	).Check()
}

// Clear fills the whole back buffer.
func (p *Painter) Clear(color uint32) error {
	return p.FillRect(Rect{Size: Size{int(p.w), int(p.h)}}, color)
}

// FillRect fills r with color.
func (p *Painter) FillRect(r Rect, color uint32) error {
	if err := p.SetColorFG(color); err != nil {
		return err
	}
	return xproto.PolyFillRectangleChecked(
		p.xc,
		xproto.Drawable(p.buf),
		p.gc,
		[]xproto.Rectangle{xRect(r)},
	).Check()
}

// StrokeRect outlines r with color.
func (p *Painter) StrokeRect(r Rect, color uint32) error {
	if err := p.SetColorFG(color); err != nil {
		return err
	}
	box := xRect(r)
	if box.Width > 0 {
		box.Width--
	}
	if box.Height > 0 {
		box.Height--
	}
	return xproto.PolyRectangleChecked(
		p.xc,
		xproto.Drawable(p.buf),
		p.gc,
		[]xproto.Rectangle{box},
	).Check()
}

// DrawText draws given text at an x, y offset using the given color.
func (p *Painter) DrawText(x, y int16, color uint32, text string) error {
	if err := p.SetColorFG(color); err != nil {
		return err
	}
	if len(text) > 255 {
		text = text[:255]
	}
	return xproto.ImageText8Checked(
		p.xc,
		uint8(len(text)),
		xproto.Drawable(p.buf),
		p.gc,
		x,
		y,
		text,
	).Check()
}

// Present copies the back buffer to the window.
func (p *Painter) Present() error {
	return xproto.CopyAreaChecked(
		p.xc,
		xproto.Drawable(p.buf),
		xproto.Drawable(p.target),
		p.gc,
		0, 0,
		0, 0,
		p.w, p.h,
	).Check()
}

// xRect converts r to an X rectangle, clipped to the protocol's 16-bit
// coordinate space.
func xRect(r Rect) xproto.Rectangle {
	clamp16 := func(v int) int16 {
		return int16(min(max(v, -1<<15), 1<<15-1))
	}
	clampU16 := func(v int) uint16 {
		return uint16(min(max(v, 0), 1<<16-1))
	}
	return xproto.Rectangle{
		X:      clamp16(r.X),
		Y:      clamp16(r.Y),
		Width:  clampU16(r.W),
		Height: clampU16(r.H),
	}
}

// blend mixes fg over bg with opacity alpha, per 8-bit channel.
func blend(fg, bg uint32, alpha float64) uint32 {
	alpha = min(max(alpha, 0), 1)
	var out uint32
	for shift := uint(0); shift < 24; shift += 8 {
		f := float64((fg >> shift) & 0xff)
		b := float64((bg >> shift) & 0xff)
		out |= uint32(b+(f-b)*alpha+0.5) << shift
	}
	return out
}
