package main

import (
	"github.com/sirupsen/logrus"
)

// Binding is a compositor shortcut and its callback. The modifier set
// must match exactly.
type Binding struct {
	Name   string
	Key    uint32
	Mods   Modifiers
	Action func(c *Compositor)
}

func defaultBindings(mod Modifiers) []Binding {
	quit := mod | ModCtrl | ModShift
	if mod == ModCtrl {
		// Ctrl+Shift+Q is already kill.
		quit |= ModAlt
	}
	return []Binding{
		{
			Name:   "quit",
			Key:    KeyQ,
			Mods:   quit,
			Action: (*Compositor).Quit,
		},
		{
			Name:   "close",
			Key:    KeyQ,
			Mods:   mod,
			Action: (*Compositor).closeActiveGracefully,
		},
		{
			Name:   "kill",
			Key:    KeyQ,
			Mods:   mod | ModShift,
			Action: (*Compositor).closeActiveForcefully,
		},
		{
			Name:   "nudge-left",
			Key:    KeyH,
			Mods:   mod,
			Action: nudgeActive(Left),
		},
		{
			Name:   "nudge-down",
			Key:    KeyJ,
			Mods:   mod,
			Action: nudgeActive(Down),
		},
		{
			Name:   "nudge-up",
			Key:    KeyK,
			Mods:   mod,
			Action: nudgeActive(Up),
		},
		{
			Name:   "nudge-right",
			Key:    KeyL,
			Mods:   mod,
			Action: nudgeActive(Right),
		},
		{
			Name:   "cycle",
			Key:    KeyTab,
			Mods:   mod,
			Action: (*Compositor).cycleFocus,
		},
	}
}

func (c *Compositor) matchBinding(mods Modifiers, key uint32) (Binding, bool) {
	for _, b := range c.bindings {
		if b.Key == key && b.Mods == mods {
			return b, true
		}
	}
	return Binding{}, false
}

func (c *Compositor) closeActiveGracefully() {
	w := c.ActiveWindow()
	if w == nil {
		logrus.Debugln("tried to close window, but no active window")
		return
	}
	w.CloseGracefully(c.proto)
}

// closeActiveForcefully disconnects the client owning the active window.
func (c *Compositor) closeActiveForcefully() {
	w := c.ActiveWindow()
	if w == nil {
		logrus.Debugln("tried to kill client, but no active window")
		return
	}
	c.ClientGone(w.Client)
}

func nudgeActive(d Direction) func(c *Compositor) {
	return func(c *Compositor) {
		w := c.ActiveWindow()
		if w == nil {
			return
		}
		if c.ledger.Pending(w.ID) || c.pointer.Grab() != nil {
			return
		}
		c.placeWindow(w, d.Offset(w.Loc, c.cfg.NudgeStep))
	}
}
