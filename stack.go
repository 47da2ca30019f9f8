package main

// Stack holds the mapped windows in z-order, bottom first.
type Stack struct {
	windows []*Window
}

// GetWindows returns the windows bottom to top.
func (s *Stack) GetWindows() []*Window {
	return append([]*Window{}, s.windows...)
}

// Len returns the number of mapped windows.
func (s *Stack) Len() int { return len(s.windows) }

// AddWindow maps a window on top of the stack.
func (s *Stack) AddWindow(w *Window) {
	s.windows = append(s.windows, w)
}

// RemoveWindow unmaps a window. It reports whether w was in the stack.
func (s *Stack) RemoveWindow(w *Window) bool {
	for i, ww := range s.windows {
		if w == ww {
			s.windows = append(s.windows[:i:i], s.windows[i+1:]...)
			return true
		}
	}
	return false
}

// Find returns the window wrapping the surface, or nil.
func (s *Stack) Find(id SurfaceID) *Window {
	for _, w := range s.windows {
		if w.ID == id {
			return w
		}
	}
	return nil
}

// Top returns the top-most window, or nil.
func (s *Stack) Top() *Window {
	if len(s.windows) == 0 {
		return nil
	}
	return s.windows[len(s.windows)-1]
}

// Raise moves w to the top of the stack.
func (s *Stack) Raise(w *Window) {
	if s.RemoveWindow(w) {
		s.windows = append(s.windows, w)
	}
}

// Index returns w's z-order slot (0 is the bottom), or -1.
func (s *Stack) Index(w *Window) int {
	for i, ww := range s.windows {
		if w == ww {
			return i
		}
	}
	return -1
}

// Under returns the top-most window whose input region contains p, and p
// mapped into that window's local coordinates.
func (s *Stack) Under(p Point) (*Window, Point, bool) {
	for i := len(s.windows) - 1; i >= 0; i-- {
		w := s.windows[i]
		if w.Rect().Contains(p) {
			return w, p.Sub(w.Loc.Float()), true
		}
	}
	return nil, Point{}, false
}

// Bottom returns the bottom-most window, or nil.
func (s *Stack) Bottom() *Window {
	if len(s.windows) == 0 {
		return nil
	}
	return s.windows[0]
}
