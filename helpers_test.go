package main

import (
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type enterCall struct {
	ID    SurfaceID
	Local Point
}

// recordingProto is a Protocol that remembers what it was told.
type recordingProto struct {
	configures map[SurfaceID][]Configure
	closes     []SurfaceID
	frames     map[SurfaceID]int

	enters   []enterCall
	leaves   []SurfaceID
	motions  map[SurfaceID][]Point
	buttons  map[SurfaceID][]ButtonEvent
	axes     map[SurfaceID][]AxisFrame
	gestures map[SurfaceID][]GestureEvent

	kbEnters  []SurfaceID
	kbLeaves  []SurfaceID
	keys      map[SurfaceID][]uint32
	selection SurfaceID
}

func newRecordingProto() *recordingProto {
	return &recordingProto{
		configures: map[SurfaceID][]Configure{},
		frames:     map[SurfaceID]int{},
		motions:    map[SurfaceID][]Point{},
		buttons:    map[SurfaceID][]ButtonEvent{},
		axes:       map[SurfaceID][]AxisFrame{},
		gestures:   map[SurfaceID][]GestureEvent{},
		keys:       map[SurfaceID][]uint32{},
	}
}

func (p *recordingProto) Configure(id SurfaceID, c Configure) {
	p.configures[id] = append(p.configures[id], c)
}

func (p *recordingProto) CloseRequest(id SurfaceID) { p.closes = append(p.closes, id) }

func (p *recordingProto) FrameDone(id SurfaceID, _ uint32) { p.frames[id]++ }

func (p *recordingProto) PointerEnter(id SurfaceID, _ Serial, local Point) {
	p.enters = append(p.enters, enterCall{id, local})
}

func (p *recordingProto) PointerLeave(id SurfaceID, _ Serial) { p.leaves = append(p.leaves, id) }

func (p *recordingProto) PointerMotion(id SurfaceID, _ uint32, local Point) {
	p.motions[id] = append(p.motions[id], local)
}

func (p *recordingProto) PointerButton(id SurfaceID, ev ButtonEvent) {
	p.buttons[id] = append(p.buttons[id], ev)
}

func (p *recordingProto) PointerAxis(id SurfaceID, frame AxisFrame) {
	p.axes[id] = append(p.axes[id], frame)
}

func (p *recordingProto) PointerGesture(id SurfaceID, ev GestureEvent) {
	p.gestures[id] = append(p.gestures[id], ev)
}

func (p *recordingProto) KeyboardEnter(id SurfaceID, _ Serial) { p.kbEnters = append(p.kbEnters, id) }

func (p *recordingProto) KeyboardLeave(id SurfaceID, _ Serial) { p.kbLeaves = append(p.kbLeaves, id) }

func (p *recordingProto) KeyboardKey(id SurfaceID, _ Serial, _ uint32, key uint32, _ KeyState) {
	p.keys[id] = append(p.keys[id], key)
}

func (p *recordingProto) SelectionFocus(id SurfaceID) { p.selection = id }

// lastConfigure returns the most recent configure sent to id.
func (p *recordingProto) lastConfigure(t *testing.T, id SurfaceID) Configure {
	t.Helper()
	cs := p.configures[id]
	if len(cs) == 0 {
		t.Fatalf("no configure sent to %s", id)
	}
	return cs[len(cs)-1]
}

// lastPress returns the most recent button event delivered to id.
func (p *recordingProto) lastPress(t *testing.T, id SurfaceID) ButtonEvent {
	t.Helper()
	bs := p.buttons[id]
	for i := len(bs) - 1; i >= 0; i-- {
		if bs[i].State == ButtonPressed {
			return bs[i]
		}
	}
	t.Fatalf("no button press delivered to %s", id)
	return ButtonEvent{}
}

func newTestCompositor(t *testing.T) (*Compositor, *recordingProto, *fakeClock) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.NewWindowPosition = Pos{}
	proto := newRecordingProto()
	clock := newFakeClock()
	return NewCompositor(cfg, proto, clock.Now), proto, clock
}

// mapWindow creates a toplevel and commits it at loc with size.
func mapWindow(t *testing.T, c *Compositor, id SurfaceID, loc Pos, size Size) *Window {
	t.Helper()
	w, err := c.NewToplevel(id, ClientID(id))
	if err != nil {
		t.Fatalf("NewToplevel(%s): %v", id, err)
	}
	c.Commit(id, size)
	c.placeWindow(w, loc)
	return w
}

// press moves the pointer to at and presses button, returning the serial
// the focused client saw.
func press(t *testing.T, c *Compositor, proto *recordingProto, at Point, button uint32) Serial {
	t.Helper()
	c.OnPointerMoveAbsolute(at, 0)
	c.OnPointerButton(button, ButtonPressed, 0)
	id := c.pointer.Focus()
	if id == 0 {
		t.Fatalf("nothing under %v", at)
	}
	return proto.lastPress(t, id).Serial
}
