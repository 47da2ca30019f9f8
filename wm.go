package main

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	// ErrGrabActive rejects a move or resize while another grab is live.
	ErrGrabActive = errors.New("pointer grab already active")
	// ErrNoGrabStart rejects a move or resize whose serial does not
	// match the click in progress.
	ErrNoGrabStart = errors.New("no matching button press")
	// ErrUnknownSurface is returned for requests on surfaces we do not
	// manage.
	ErrUnknownSurface = errors.New("unknown surface")
	// ErrResizePending rejects a resize while the previous one still
	// waits on its client.
	ErrResizePending = errors.New("previous resize not yet committed")
)

// Compositor holds the global compositor state. It is owned by a single
// goroutine; see Loop.
type Compositor struct {
	cfg   *Config
	proto Protocol
	now   func() time.Time

	serials SerialCounter
	stack   Stack
	// closing holds destroyed windows that are still fading out.
	closing []*Window

	ledger    *ResizeLedger
	anim      *Animator
	pointer   *Pointer
	keyboard  *Keyboard
	bindings  []Binding
	placement Placement
	events    *EventHub

	quit bool
}

// NewCompositor creates a compositor talking to clients through proto.
// A nil clock means time.Now.
func NewCompositor(cfg *Config, proto Protocol, clock func() time.Time) *Compositor {
	if clock == nil {
		clock = time.Now
	}
	c := &Compositor{
		cfg:      cfg,
		proto:    proto,
		now:      clock,
		ledger:   NewResizeLedger(clock),
		anim:     NewAnimator(clock, cfg.FadeDuration),
		pointer:  newPointer(proto),
		keyboard: newKeyboard(proto),
		events:   NewEventHub(),
	}
	c.bindings = defaultBindings(c.modifier())
	c.placement = c.newPlacement()
	return c
}

func (c *Compositor) newPlacement() Placement {
	p, err := newPlacement(c.cfg)
	if err != nil {
		return FixedPlacement{At: c.cfg.NewWindowPosition}
	}
	return p
}

func (c *Compositor) modifier() Modifiers {
	m, err := parseModifier(c.cfg.Modifier)
	if err != nil {
		return ModAlt
	}
	return m
}

// Events returns the hub compositor events are published on.
func (c *Compositor) Events() *EventHub { return c.events }

// Pointer returns the seat pointer.
func (c *Compositor) Pointer() *Pointer { return c.pointer }

// Keyboard returns the seat keyboard.
func (c *Compositor) Keyboard() *Keyboard { return c.keyboard }

// Ledger returns the resize ledger.
func (c *Compositor) Ledger() *ResizeLedger { return c.ledger }

// Window returns the mapped window wrapping id, or nil.
func (c *Compositor) Window(id SurfaceID) *Window { return c.stack.Find(id) }

// Windows returns the mapped windows bottom to top.
func (c *Compositor) Windows() []*Window { return c.stack.GetWindows() }

// Alpha returns the current opacity of a window.
func (c *Compositor) Alpha(id SurfaceID) float64 { return c.anim.Alpha(id) }

// Quit asks the event loop to stop.
func (c *Compositor) Quit() { c.quit = true }

// Quitting reports whether Quit was called.
func (c *Compositor) Quitting() bool { return c.quit }

// Reconfigure applies the settings that can change at runtime.
func (c *Compositor) Reconfigure(cfg *Config) {
	c.cfg = cfg
	c.anim.fade = cfg.FadeDuration
	c.bindings = defaultBindings(c.modifier())
	c.placement = c.newPlacement()
	logrus.WithFields(logrus.Fields{
		"fade":     cfg.FadeDuration,
		"modifier": cfg.Modifier,
	}).Infoln("configuration reloaded")
}

// ActiveWindow returns the activated window, or nil.
func (c *Compositor) ActiveWindow() *Window {
	for _, w := range c.stack.windows {
		if w.Activated {
			return w
		}
	}
	return nil
}

func (c *Compositor) publish(t EventType, id SurfaceID, data map[string]interface{}) {
	c.events.Publish(Event{Type: t, Surface: id, Time: c.now(), Data: data})
}

// focusUnder returns the pointer focus for the surface under p, or nil.
func (c *Compositor) focusUnder(p Point) *PointerFocus {
	w, _, ok := c.stack.Under(p)
	if !ok {
		return nil
	}
	return &PointerFocus{ID: w.ID, Origin: w.Loc.Float()}
}

// placeWindow moves w, publishing the change.
func (c *Compositor) placeWindow(w *Window, loc Pos) {
	if w.Loc == loc {
		return
	}
	w.Loc = loc
	c.publish(EventWindowMoved, w.ID, map[string]interface{}{
		"x": loc.X,
		"y": loc.Y,
	})
}

// markResizing records a live resize step for id.
func (c *Compositor) markResizing(id SurfaceID, data ResizeData) {
	before := c.ledger.Phase(id)
	if !c.ledger.MarkResizing(id, data) {
		logrus.WithField("surface", id).Debugln("resize step ignored, surface waits on its client")
		return
	}
	if before != Resizing {
		c.publishResizeState(id)
	}
}

func (c *Compositor) publishResizeState(id SurfaceID) {
	st, ok := c.ledger.Get(id)
	if !ok {
		return
	}
	data := map[string]interface{}{"phase": st.Phase.String()}
	if st.Phase == WaitingForFinalAck {
		data["serial"] = st.AckSerial
	}
	c.publish(EventResizeState, id, data)
}

// releaseGrab ends g after its last button went up and gives pointer
// focus back to whatever is under the pointer.
func (c *Compositor) releaseGrab(g PointerGrab, ev ButtonEvent) {
	if !c.pointer.unsetGrab(g) {
		return
	}
	c.publish(EventGrabEnded, g.Window(), map[string]interface{}{"kind": grabKind(g)})
	loc := c.pointer.Location()
	c.pointer.motion(c.focusUnder(loc), MotionEvent{Location: loc, Serial: ev.Serial, Time: ev.Time})
}

// dropGrab ends g without a release, because its window went away.
func (c *Compositor) dropGrab(g PointerGrab) {
	if !c.pointer.unsetGrab(g) {
		return
	}
	logrus.WithField("surface", g.Window()).Debugln("grab dropped")
	c.publish(EventGrabEnded, g.Window(), map[string]interface{}{
		"kind":   grabKind(g),
		"reason": "window gone",
	})
}

func grabKind(g PointerGrab) string {
	if s, ok := g.(interface{ String() string }); ok {
		return s.String()
	}
	return "unknown"
}
