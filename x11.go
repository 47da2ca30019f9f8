package main

import (
	"context"
	"fmt"
	"time"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	colorBackground = 0x202428
	colorWindow     = 0x5c6773
	colorActive     = 0x3d7ab8
	colorBorder     = 0xd8dee9
	colorText       = 0xffffff
	colorCursor     = 0xff5555
)

// Glyphs from cursorfont.h.
var cursorGlyphs = map[CursorIcon]uint16{
	CursorDefault:  68,  // XC_left_ptr
	CursorGrabbing: 52,  // XC_fleur
	CursorNResize:  138, // XC_top_side
	CursorSResize:  16,  // XC_bottom_side
	CursorWResize:  70,  // XC_left_side
	CursorEResize:  96,  // XC_right_side
	CursorNWResize: 134, // XC_top_left_corner
	CursorNEResize: 136, // XC_top_right_corner
	CursorSWResize: 12,  // XC_bottom_left_corner
	CursorSEResize: 14,  // XC_bottom_right_corner
}

// X11Backend shows the output in a window on an X server and feeds the
// window's pointer and keyboard events to the compositor.
type X11Backend struct {
	display string
	out     OutputConfig
	loop    *Loop

	xc      *xgb.Conn
	screen  *xproto.ScreenInfo
	win     xproto.Window
	painter *Painter

	cursorFont xproto.Font
	cursors    map[CursorIcon]xproto.Cursor
	icon       CursorIcon
}

// NewX11Backend creates a backend for the given display ("" for
// $DISPLAY).
func NewX11Backend(display string, out OutputConfig, loop *Loop) *X11Backend {
	return &X11Backend{display: display, out: out, loop: loop}
}

func (b *X11Backend) String() string { return "x11 backend" }

// Serve implements suture.Service.
func (b *X11Backend) Serve(ctx context.Context) error {
	if err := b.init(); err != nil {
		if b.xc != nil {
			b.xc.Close()
		}
		return err
	}
	if err := b.loop.Post(ctx, func(*Compositor) { b.loop.SetRenderer(b) }); err != nil {
		b.xc.Close()
		return err
	}
	defer func() {
		// ctx is already done here; give the loop a moment to detach us.
		dctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := b.loop.Post(dctx, func(*Compositor) { b.loop.SetRenderer(nil) }); err != nil {
			logrus.WithError(err).Warnln("could not detach x11 renderer")
		}
	}()

	go func() {
		<-ctx.Done()
		b.xc.Close()
	}()

	for {
		ev, xerr := b.xc.WaitForEvent()
		if ev == nil && xerr == nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return errors.New("x11 connection closed")
		}
		if xerr != nil {
			logrus.WithField("error", xerr).Warnln("x11 error")
			continue
		}
		b.handleEvent(ctx, ev)
	}
}

func (b *X11Backend) init() error {
	xc, err := xgb.NewConnDisplay(b.display)
	if err != nil {
		return errors.Wrapf(err, "failed to connect to display %q", b.display)
	}
	b.xc = xc
	b.screen = xproto.Setup(xc).DefaultScreen(xc)
	if err := initAtoms(xc); err != nil {
		return err
	}
	if err := b.initCursors(); err != nil {
		return err
	}

	win, err := xproto.NewWindowId(xc)
	if err != nil {
		return err
	}
	w, h := uint16(b.out.Width), uint16(b.out.Height)
	if err := xproto.CreateWindowChecked(
		xc,
		b.screen.RootDepth,
		win,
		b.screen.Root,
		0,
		0,
		w,
		h,
		0,
		xproto.WindowClassInputOutput,
		b.screen.RootVisual,
		xproto.CwBackPixel|xproto.CwEventMask|xproto.CwCursor,
		[]uint32{
			colorBackground,
			xproto.EventMaskExposure |
				xproto.EventMaskStructureNotify |
				xproto.EventMaskPointerMotion |
				xproto.EventMaskButtonPress |
				xproto.EventMaskButtonRelease |
				xproto.EventMaskKeyPress |
				xproto.EventMaskKeyRelease,
			uint32(b.cursors[CursorDefault]),
		},
	).Check(); err != nil {
		return errors.Wrap(err, "failed to create preview window")
	}
	b.win = win
	b.icon = CursorDefault

	title := "headless-compositor"
	xproto.ChangeProperty(xc, xproto.PropModeReplace, win, xproto.AtomWmName,
		xproto.AtomString, 8, uint32(len(title)), []byte(title))
	xproto.ChangeProperty(xc, xproto.PropModeReplace, win, atomNetWMName,
		atomUTF8String, 8, uint32(len(title)), []byte(title))
	xproto.ChangeProperty(xc, xproto.PropModeReplace, win, atomWMProtocols,
		xproto.AtomAtom, 32, 1, encodeAtoms(atomWMDeleteWindow))

	b.painter = NewPainter(xc)
	if err := b.painter.Init(b.screen, win, w, h); err != nil {
		return err
	}
	if err := xproto.MapWindowChecked(xc, win).Check(); err != nil {
		return errors.Wrap(err, "failed to map preview window")
	}
	logrus.WithFields(logrus.Fields{
		"display": b.display,
		"size":    fmt.Sprintf("%dx%d", w, h),
	}).Infoln("x11 preview window mapped")
	return nil
}

func (b *X11Backend) initCursors() error {
	font, err := xproto.NewFontId(b.xc)
	if err != nil {
		return err
	}
	err = xproto.OpenFontChecked(b.xc, font, uint16(len("cursor")), "cursor").Check()
	if err != nil {
		return errors.Wrap(err, "failed to open cursor font")
	}
	b.cursorFont = font
	b.cursors = map[CursorIcon]xproto.Cursor{}
	for icon, glyph := range cursorGlyphs {
		cursor, err := xproto.NewCursorId(b.xc)
		if err != nil {
			return err
		}
		err = xproto.CreateGlyphCursorChecked(
			b.xc,
			cursor,
			font,
			font,
			glyph,
			glyph+1,
			0xffff,
			0xffff,
			0xffff,
			0,
			0,
			0,
		).Check()
		if err != nil {
			return errors.Wrapf(err, "failed to create cursor %s", icon)
		}
		b.cursors[icon] = cursor
	}
	return nil
}

// xButtons maps core protocol buttons to input event codes.
var xButtons = map[xproto.Button]uint32{
	1: BtnLeft,
	2: BtnMiddle,
	3: BtnRight,
}

// scrollStep is the logical distance of one wheel detent.
const scrollStep = 15

// post hands an input event to the loop. Events arriving during shutdown
// are dropped.
func (b *X11Backend) post(ctx context.Context, f func(*Compositor)) {
	if err := b.loop.Post(ctx, f); err != nil {
		logrus.WithError(err).Debugln("x11 event dropped")
	}
}

func (b *X11Backend) handleEvent(ctx context.Context, xev interface{}) {
	switch e := xev.(type) {
	case xproto.MotionNotifyEvent:
		loc := Point{float64(e.EventX), float64(e.EventY)}
		t := uint32(e.Time)
		b.post(ctx, func(c *Compositor) { c.OnPointerMoveAbsolute(loc, t) })
	case xproto.ButtonPressEvent:
		b.handleButton(ctx, e.Detail, ButtonPressed, uint32(e.Time))
	case xproto.ButtonReleaseEvent:
		b.handleButton(ctx, e.Detail, ButtonReleased, uint32(e.Time))
	case xproto.KeyPressEvent:
		// X keycodes are evdev codes offset by 8.
		key, t := uint32(e.Detail)-8, uint32(e.Time)
		b.post(ctx, func(c *Compositor) { c.OnKeyboardKey(key, KeyPressed, t) })
	case xproto.KeyReleaseEvent:
		key, t := uint32(e.Detail)-8, uint32(e.Time)
		b.post(ctx, func(c *Compositor) { c.OnKeyboardKey(key, KeyReleased, t) })
	case xproto.ClientMessageEvent:
		if e.Type == atomWMProtocols && e.Format == 32 &&
			xproto.Atom(e.Data.Data32[0]) == atomWMDeleteWindow {
			logrus.Infoln("preview window closed")
			b.post(ctx, (*Compositor).Quit)
		}
	case xproto.ExposeEvent:
		// The next frame repaints everything.
	}
}

func (b *X11Backend) handleButton(ctx context.Context, detail xproto.Button, state ButtonState, t uint32) {
	if btn, ok := xButtons[detail]; ok {
		b.post(ctx, func(c *Compositor) { c.OnPointerButton(btn, state, t) })
		return
	}
	if state != ButtonPressed {
		return
	}
	frame := AxisFrame{Time: t, Source: AxisSourceWheel}
	switch detail {
	case 4:
		frame.Vertical, frame.V120 = -scrollStep, -120
	case 5:
		frame.Vertical, frame.V120 = scrollStep, 120
	case 6:
		frame.Horizontal, frame.H120 = -scrollStep, -120
	case 7:
		frame.Horizontal, frame.H120 = scrollStep, 120
	default:
		return
	}
	b.post(ctx, func(c *Compositor) { c.OnPointerAxis(frame) })
}

// Render implements Renderer.
func (b *X11Backend) Render(elements []RenderElement, cursor Point, icon CursorIcon) (Damage, error) {
	p := b.painter
	if err := p.Clear(colorBackground); err != nil {
		return nil, err
	}
	var damage Damage
	for _, e := range elements {
		fill := colorWindow
		if e.Activated {
			fill = colorActive
		}
		if err := p.FillRect(e.Rect, blend(uint32(fill), colorBackground, e.Alpha)); err != nil {
			return nil, err
		}
		if err := p.StrokeRect(e.Rect, blend(colorBorder, colorBackground, e.Alpha)); err != nil {
			return nil, err
		}
		label := fmt.Sprintf("%s %s", e.ID, e.Rect.Size)
		if err := p.DrawText(int16(e.Rect.X+6), int16(e.Rect.Y+16), blend(colorText, colorBackground, e.Alpha), label); err != nil {
			return nil, err
		}
		damage = append(damage, e.Rect)
	}
	pos := cursor.Round()
	if err := p.FillRect(Rect{Pos{pos.X - 1, pos.Y - 1}, Size{3, 3}}, colorCursor); err != nil {
		return nil, err
	}
	if err := p.Present(); err != nil {
		return nil, err
	}
	b.setCursor(icon)
	return damage, nil
}

func (b *X11Backend) setCursor(icon CursorIcon) {
	if icon == b.icon {
		return
	}
	cursor, ok := b.cursors[icon]
	if !ok {
		cursor = b.cursors[CursorDefault]
	}
	xproto.ChangeWindowAttributes(b.xc, b.win, xproto.CwCursor, []uint32{uint32(cursor)})
	b.icon = icon
}
