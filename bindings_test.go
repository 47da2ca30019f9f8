package main

import (
	"testing"
)

func tap(c *Compositor, keys ...uint32) {
	for _, k := range keys {
		c.OnKeyboardKey(k, KeyPressed, 0)
	}
	for i := len(keys) - 1; i >= 0; i-- {
		c.OnKeyboardKey(keys[i], KeyReleased, 0)
	}
}

func TestBindingClose(t *testing.T) {
	c, proto, _ := newTestCompositor(t)
	mapWindow(t, c, 1, Pos{0, 0}, Size{100, 100})

	tap(c, KeyLeftAlt, KeyQ)
	if len(proto.closes) != 1 || proto.closes[0] != 1 {
		t.Errorf("close requests = %v", proto.closes)
	}
	for _, k := range proto.keys[1] {
		if k == KeyQ {
			t.Error("bound key leaked to the client")
		}
	}
	if len(proto.keys[1]) != 2 {
		t.Errorf("client saw %d key events, want alt press and release", len(proto.keys[1]))
	}
	if c.Window(1) == nil {
		t.Error("graceful close destroyed the window")
	}
}

func TestBindingKill(t *testing.T) {
	c, _, _ := newTestCompositor(t)
	mapWindow(t, c, 1, Pos{0, 0}, Size{100, 100})

	tap(c, KeyLeftAlt, KeyLeftShift, KeyQ)
	if c.Window(1) != nil {
		t.Error("kill binding left the window mapped")
	}
}

func TestBindingQuit(t *testing.T) {
	c, _, _ := newTestCompositor(t)
	tap(c, KeyLeftCtrl, KeyLeftAlt, KeyRightShift, KeyQ)
	if !c.Quitting() {
		t.Error("quit binding ignored")
	}
}

func TestBindingNudge(t *testing.T) {
	c, _, _ := newTestCompositor(t)
	w := mapWindow(t, c, 1, Pos{100, 100}, Size{100, 100})
	step := c.cfg.NudgeStep

	for _, tc := range []struct {
		key  uint32
		want Pos
	}{
		{KeyL, Pos{100 + step, 100}},
		{KeyJ, Pos{100 + step, 100 + step}},
		{KeyH, Pos{100, 100 + step}},
		{KeyK, Pos{100, 100}},
	} {
		tap(c, KeyLeftAlt, tc.key)
		if w.Loc != tc.want {
			t.Errorf("after key %d Loc = %v, want %v", tc.key, w.Loc, tc.want)
		}
	}
}

func TestBindingCycle(t *testing.T) {
	c, _, _ := newTestCompositor(t)
	for id := SurfaceID(1); id <= 3; id++ {
		mapWindow(t, c, id, Pos{0, 0}, Size{100, 100})
	}
	for _, want := range []SurfaceID{1, 2, 3, 1} {
		tap(c, KeyLeftAlt, KeyTab)
		if got := c.ActiveWindow().ID; got != want {
			t.Fatalf("active = %v, want %v", got, want)
		}
		if c.stack.Top().ID != want {
			t.Fatalf("top = %v, want %v", c.stack.Top().ID, want)
		}
		checkFocusInvariant(t, c)
	}
}

func TestUnboundKeysReachClient(t *testing.T) {
	c, proto, _ := newTestCompositor(t)
	mapWindow(t, c, 1, Pos{0, 0}, Size{100, 100})

	tap(c, KeyQ)
	tap(c, KeyLeftCtrl, KeyQ)
	if got := len(proto.keys[1]); got != 6 {
		t.Errorf("client saw %d key events, want 6", got)
	}
	if len(proto.closes) != 0 {
		t.Error("unbound combination closed a window")
	}
}

func TestBindingModifierFromConfig(t *testing.T) {
	c, proto, _ := newTestCompositor(t)
	cfg := *c.cfg
	cfg.Modifier = "super"
	c.Reconfigure(&cfg)
	mapWindow(t, c, 1, Pos{0, 0}, Size{100, 100})

	tap(c, KeyLeftAlt, KeyQ)
	if len(proto.closes) != 0 {
		t.Error("alt binding still active")
	}
	tap(c, KeyLeftMeta, KeyQ)
	if len(proto.closes) != 1 {
		t.Error("super binding not active")
	}
}

func TestBindingsDistinct(t *testing.T) {
	for _, mod := range []Modifiers{ModAlt, ModSuper, ModCtrl} {
		seen := map[[2]uint32]string{}
		for _, b := range defaultBindings(mod) {
			k := [2]uint32{b.Key, uint32(b.Mods)}
			if other, ok := seen[k]; ok {
				t.Errorf("modifier %d: %s and %s share a key combination", mod, other, b.Name)
			}
			seen[k] = b.Name
		}
	}
}
