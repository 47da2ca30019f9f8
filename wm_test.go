package main

import (
	"math"
	"testing"
	"time"
)

func activatedWindows(c *Compositor) []SurfaceID {
	var ids []SurfaceID
	for _, w := range c.Windows() {
		if w.Activated {
			ids = append(ids, w.ID)
		}
	}
	return ids
}

func checkFocusInvariant(t *testing.T, c *Compositor) {
	t.Helper()
	active := activatedWindows(c)
	if len(active) > 1 {
		t.Fatalf("%d windows activated: %v", len(active), active)
	}
	if len(active) == 1 && c.keyboard.Focus() != active[0] {
		t.Fatalf("activated %v but keyboard focus is %v", active[0], c.keyboard.Focus())
	}
}

func TestNewToplevel(t *testing.T) {
	c, proto, _ := newTestCompositor(t)
	events, unsubscribe := c.Events().Subscribe(16)
	defer unsubscribe()

	w, err := c.NewToplevel(1, 7)
	if err != nil {
		t.Fatal(err)
	}
	if w.Loc != (Pos{}) {
		t.Errorf("Loc = %v, want origin", w.Loc)
	}
	cfg := proto.lastConfigure(t, 1)
	if !cfg.Activated || cfg.Serial == 0 {
		t.Errorf("initial configure = %+v", cfg)
	}
	if c.keyboard.Focus() != 1 || proto.selection != 1 {
		t.Errorf("keyboard focus %v, selection %v", c.keyboard.Focus(), proto.selection)
	}
	if got := c.Alpha(1); got != 0 {
		t.Errorf("alpha before first frame = %v, want 0", got)
	}
	if got := c.ledger.Phase(1); got != NotResizing {
		t.Errorf("phase = %s", got)
	}
	if ev := <-events; ev.Type != EventWindowCreated || ev.Surface != 1 {
		t.Errorf("first event = %+v", ev)
	}

	if _, err := c.NewToplevel(1, 7); err == nil {
		t.Error("duplicate surface accepted")
	}
	if _, err := c.NewToplevel(0, 7); err == nil {
		t.Error("zero surface accepted")
	}
}

func TestNewToplevelDeactivatesPrevious(t *testing.T) {
	c, proto, _ := newTestCompositor(t)
	mapWindow(t, c, 1, Pos{0, 0}, Size{100, 100})
	mapWindow(t, c, 2, Pos{50, 50}, Size{100, 100})

	if got := proto.lastConfigure(t, 1); got.Activated {
		t.Error("window 1 was not told it lost activation")
	}
	if c.ActiveWindow().ID != 2 {
		t.Errorf("active = %v", c.ActiveWindow().ID)
	}
	checkFocusInvariant(t, c)
}

func TestFadeInScenario(t *testing.T) {
	c, _, clock := newTestCompositor(t)
	mapWindow(t, c, 1, Pos{0, 0}, Size{100, 100})

	c.Tick()
	if got := c.Alpha(1); got != 0 {
		t.Errorf("alpha at t=0: %v", got)
	}
	clock.Advance(125 * time.Millisecond)
	c.Tick()
	if got := c.Alpha(1); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("alpha at t=125ms: %v", got)
	}
	clock.Advance(125 * time.Millisecond)
	c.Tick()
	if got := c.Alpha(1); got != 1 {
		t.Errorf("alpha at t=250ms: %v", got)
	}
	if c.anim.Animating(1) {
		t.Error("fade entry not pruned")
	}
}

func TestClickActivatesAndRaises(t *testing.T) {
	c, proto, _ := newTestCompositor(t)
	mapWindow(t, c, 1, Pos{0, 0}, Size{200, 200})
	mapWindow(t, c, 2, Pos{100, 100}, Size{200, 200})

	// Visible part of window 1 only.
	press(t, c, proto, Point{50, 50}, BtnLeft)
	if c.stack.Top().ID != 1 {
		t.Errorf("top = %v, want 1", c.stack.Top().ID)
	}
	if c.ActiveWindow().ID != 1 {
		t.Errorf("active = %v, want 1", c.ActiveWindow().ID)
	}
	if got := proto.lastConfigure(t, 2); got.Activated {
		t.Error("window 2 still activated")
	}
	checkFocusInvariant(t, c)
	c.OnPointerButton(BtnLeft, ButtonReleased, 0)

	// Overlap: window 1 is now on top.
	c.OnPointerMoveAbsolute(Point{150, 150}, 0)
	if c.pointer.Focus() != 1 {
		t.Errorf("pointer focus = %v, want 1", c.pointer.Focus())
	}
	ms := proto.motions[1]
	if got := ms[len(ms)-1]; got != (Point{150, 150}) {
		t.Errorf("local motion = %v", got)
	}
}

func TestSecondButtonDoesNotRefocus(t *testing.T) {
	c, proto, _ := newTestCompositor(t)
	mapWindow(t, c, 1, Pos{0, 0}, Size{100, 100})
	mapWindow(t, c, 2, Pos{200, 0}, Size{100, 100})

	press(t, c, proto, Point{10, 10}, BtnLeft)
	if c.ActiveWindow().ID != 1 {
		t.Fatal("first press did not activate window 1")
	}
	c.OnPointerMoveAbsolute(Point{210, 10}, 0)
	c.OnPointerButton(BtnRight, ButtonPressed, 0)
	if c.ActiveWindow().ID != 1 {
		t.Error("press with a button already held changed activation")
	}
}

func TestClickOnEmptySpace(t *testing.T) {
	c, proto, _ := newTestCompositor(t)
	mapWindow(t, c, 1, Pos{0, 0}, Size{100, 100})
	before := len(proto.configures[1])
	kbEnters := len(proto.kbEnters)

	c.OnPointerMoveAbsolute(Point{500, 500}, 0)
	c.OnPointerButton(BtnLeft, ButtonPressed, 0)
	c.OnPointerButton(BtnLeft, ButtonReleased, 0)

	if len(proto.configures[1]) != before {
		t.Error("click on empty space configured a window")
	}
	if len(proto.kbEnters) != kbEnters || c.keyboard.Focus() != 1 {
		t.Error("click on empty space moved keyboard focus")
	}
	if !c.Window(1).Activated {
		t.Error("click on empty space deactivated the window")
	}
}

func TestRequestActivation(t *testing.T) {
	c, _, _ := newTestCompositor(t)
	mapWindow(t, c, 1, Pos{0, 0}, Size{100, 100})
	mapWindow(t, c, 2, Pos{0, 0}, Size{100, 100})

	if err := c.RequestActivation(1); err != nil {
		t.Fatal(err)
	}
	if c.stack.Top().ID != 1 || c.ActiveWindow().ID != 1 {
		t.Error("window 1 not raised and activated")
	}
	checkFocusInvariant(t, c)
	if err := c.RequestActivation(9); err != ErrUnknownSurface {
		t.Errorf("unknown surface: %v", err)
	}
}

func TestDestroyFadesOut(t *testing.T) {
	c, _, clock := newTestCompositor(t)
	mapWindow(t, c, 1, Pos{0, 0}, Size{100, 100})
	mapWindow(t, c, 2, Pos{0, 0}, Size{100, 100})
	clock.Advance(time.Second)
	c.Tick()

	c.Destroy(2)
	if c.Window(2) != nil {
		t.Fatal("destroyed window still mapped")
	}
	if c.keyboard.Focus() != 0 {
		t.Errorf("keyboard focus = %v, want none", c.keyboard.Focus())
	}
	checkFocusInvariant(t, c)

	c.Tick()
	elems := c.RenderElements()
	if len(elems) != 2 || elems[0].ID != 2 || elems[0].Alpha != 1 {
		t.Fatalf("elements right after destroy = %+v", elems)
	}

	clock.Advance(DefaultFadeDuration / 2)
	c.Tick()
	if elems := c.RenderElements(); len(elems) != 2 || math.Abs(elems[0].Alpha-0.5) > 1e-9 {
		t.Fatalf("elements halfway = %+v", elems)
	}

	clock.Advance(DefaultFadeDuration / 2)
	c.Tick()
	if elems := c.RenderElements(); len(elems) != 1 || elems[0].ID != 1 {
		t.Fatalf("elements after fade = %+v", elems)
	}
	if len(c.closing) != 0 {
		t.Errorf("closing list not reaped: %d", len(c.closing))
	}

	c.Destroy(2)
	c.Commit(2, Size{10, 10})
	c.AckConfigure(2, 1)
}

func TestClientGone(t *testing.T) {
	c, proto, _ := newTestCompositor(t)
	if _, err := c.NewToplevel(1, 5); err != nil {
		t.Fatal(err)
	}
	c.Commit(1, Size{100, 100})
	if _, err := c.NewToplevel(2, 5); err != nil {
		t.Fatal(err)
	}
	c.Commit(2, Size{100, 100})
	mapWindow(t, c, 3, Pos{200, 0}, Size{100, 100})

	serial := press(t, c, proto, Point{10, 10}, BtnLeft)
	if err := c.MoveRequest(2, serial); err != nil {
		t.Fatal(err)
	}

	c.ClientGone(5)
	if c.pointer.Grab() != nil {
		t.Error("grab survived client disconnect")
	}
	if c.Window(1) != nil || c.Window(2) != nil {
		t.Error("windows of the gone client still mapped")
	}
	if c.Window(3) == nil {
		t.Error("other client's window destroyed")
	}
	c.OnPointerButton(BtnLeft, ButtonReleased, 0)
	if c.pointer.AnyPressed() {
		t.Error("button still held")
	}
}

func TestDestroyRefocusesPointer(t *testing.T) {
	for _, tc := range []struct {
		name    string
		prepare func(*testing.T, *Compositor, *recordingProto)
		destroy func(*Compositor)
	}{
		{
			name: "hovered",
			prepare: func(t *testing.T, c *Compositor, _ *recordingProto) {
				c.OnPointerMoveAbsolute(Point{100, 100}, 0)
			},
			destroy: func(c *Compositor) { c.Destroy(2) },
		},
		{
			name: "grabbed",
			prepare: func(t *testing.T, c *Compositor, proto *recordingProto) {
				serial := press(t, c, proto, Point{100, 100}, BtnLeft)
				if err := c.MoveRequest(2, serial); err != nil {
					t.Fatal(err)
				}
			},
			destroy: func(c *Compositor) { c.ClientGone(2) },
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c, proto, _ := newTestCompositor(t)
			mapWindow(t, c, 1, Pos{0, 0}, Size{200, 150})
			mapWindow(t, c, 2, Pos{50, 50}, Size{200, 150})
			tc.prepare(t, c, proto)
			leaves := len(proto.leaves)

			tc.destroy(c)
			if c.pointer.Grab() != nil {
				t.Fatal("grab survived its window")
			}
			if c.pointer.Focus() != 1 {
				t.Errorf("pointer focus = %v, want the window below", c.pointer.Focus())
			}
			if n := len(proto.enters); n == 0 || proto.enters[n-1] != (enterCall{1, Point{100, 100}}) {
				t.Errorf("enters = %+v", proto.enters)
			}
			for _, id := range proto.leaves[leaves:] {
				if id == 2 {
					t.Error("leave sent to the destroyed surface")
				}
			}
		})
	}
}

func TestFrameSendsFrameDone(t *testing.T) {
	c, proto, clock := newTestCompositor(t)
	mapWindow(t, c, 1, Pos{0, 0}, Size{100, 100})
	mapWindow(t, c, 2, Pos{0, 0}, Size{0, 0})
	clock.Advance(time.Second)

	damage, err := c.Frame(nopRenderer{})
	if err != nil {
		t.Fatal(err)
	}
	if len(damage) != 1 {
		t.Errorf("damage = %v, want the one sized window", damage)
	}
	if proto.frames[1] != 1 || proto.frames[2] != 1 {
		t.Errorf("frame callbacks = %v", proto.frames)
	}
}

func TestTickExpiresParkedResize(t *testing.T) {
	c, proto, clock := newTestCompositor(t)
	mapWindow(t, c, 1, Pos{100, 100}, Size{200, 150})

	serial := press(t, c, proto, Point{299, 200}, BtnLeft)
	if err := c.ResizeRequest(1, serial, EdgeRight); err != nil {
		t.Fatal(err)
	}
	c.OnPointerMoveAbsolute(Point{320, 200}, 1)
	c.OnPointerButton(BtnLeft, ButtonReleased, 2)

	clock.Advance(c.cfg.ResizeAckTimeout - time.Millisecond)
	c.Tick()
	if !c.ledger.Pending(1) {
		t.Fatal("expired too early")
	}
	clock.Advance(time.Millisecond)
	c.Tick()
	if got := c.ledger.Phase(1); got != NotResizing {
		t.Errorf("phase after timeout = %s", got)
	}
}

func TestAxisAndGestureDispatch(t *testing.T) {
	c, proto, _ := newTestCompositor(t)
	mapWindow(t, c, 1, Pos{0, 0}, Size{100, 100})
	c.OnPointerMoveAbsolute(Point{10, 10}, 0)

	c.OnPointerAxis(AxisFrame{Source: AxisSourceWheel, Vertical: 15, V120: 120})
	c.OnPointerGesture(GestureEvent{Kind: GestureSwipeBegin, Fingers: 3})
	if len(proto.axes[1]) != 1 || len(proto.gestures[1]) != 1 {
		t.Errorf("axes %d, gestures %d", len(proto.axes[1]), len(proto.gestures[1]))
	}

	c.OnPointerMoveAbsolute(Point{500, 500}, 0)
	c.OnPointerAxis(AxisFrame{Vertical: 15})
	if len(proto.axes[1]) != 1 {
		t.Error("scroll delivered without pointer focus")
	}
}
