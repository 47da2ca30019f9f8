package main

import (
	"fmt"
	"math"
)

// Point is a location in logical (output) coordinates. Pointer positions
// are fractional, so this is float64.
type Point struct {
	X, Y float64
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Add returns p + q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Round returns the nearest integer position.
func (p Point) Round() Pos {
	return Pos{int(math.Round(p.X)), int(math.Round(p.Y))}
}

// Pos is an integer logical position, e.g. the topleft corner of a window.
type Pos struct {
	X, Y int
}

// Float converts to a Point.
func (p Pos) Float() Point { return Point{float64(p.X), float64(p.Y)} }

func (p Pos) String() string { return fmt.Sprintf("%d,%d", p.X, p.Y) }

// Size is a logical width and height.
type Size struct {
	W, H int
}

func (s Size) String() string { return fmt.Sprintf("%dx%d", s.W, s.H) }

// Empty reports whether the size covers no area.
func (s Size) Empty() bool { return s.W <= 0 || s.H <= 0 }

// Rect is a positioned Size.
type Rect struct {
	Pos
	Size
}

// Contains reports whether the point lies inside r. The right and bottom
// edges are exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= float64(r.X) && p.Y >= float64(r.Y) &&
		p.X < float64(r.X+r.W) && p.Y < float64(r.Y+r.H)
}

// Union returns the smallest Rect containing both r and o. An empty
// rectangle does not contribute.
func (r Rect) Union(o Rect) Rect {
	if r.Size.Empty() {
		return o
	}
	if o.Size.Empty() {
		return r
	}
	x0, y0 := min(r.X, o.X), min(r.Y, o.Y)
	x1, y1 := max(r.X+r.W, o.X+o.W), max(r.Y+r.H, o.Y+o.H)
	return Rect{Pos{x0, y0}, Size{x1 - x0, y1 - y0}}
}

// Edges is the set of window sides a resize pulls from. The values match
// xdg_toplevel.resize_edge, so corners are plain bit unions.
type Edges uint32

const (
	EdgeNone   Edges = 0
	EdgeTop    Edges = 1
	EdgeBottom Edges = 2
	EdgeLeft   Edges = 4
	EdgeRight  Edges = 8

	EdgeTopLeft     = EdgeTop | EdgeLeft
	EdgeBottomLeft  = EdgeBottom | EdgeLeft
	EdgeTopRight    = EdgeTop | EdgeRight
	EdgeBottomRight = EdgeBottom | EdgeRight
)

// Has reports whether all edges in o are set in e.
func (e Edges) Has(o Edges) bool { return o != 0 && e&o == o }

func (e Edges) String() string {
	switch e {
	case EdgeNone:
		return "none"
	case EdgeTop:
		return "top"
	case EdgeBottom:
		return "bottom"
	case EdgeLeft:
		return "left"
	case EdgeRight:
		return "right"
	case EdgeTopLeft:
		return "top-left"
	case EdgeBottomLeft:
		return "bottom-left"
	case EdgeTopRight:
		return "top-right"
	case EdgeBottomRight:
		return "bottom-right"
	}
	return fmt.Sprintf("edges(%d)", uint32(e))
}

// CursorIcon names a cursor image from the standard cursor theme.
type CursorIcon string

const (
	CursorDefault  CursorIcon = "default"
	CursorGrabbing CursorIcon = "grabbing"
	CursorNResize  CursorIcon = "n-resize"
	CursorSResize  CursorIcon = "s-resize"
	CursorWResize  CursorIcon = "w-resize"
	CursorEResize  CursorIcon = "e-resize"
	CursorNWResize CursorIcon = "nw-resize"
	CursorNEResize CursorIcon = "ne-resize"
	CursorSWResize CursorIcon = "sw-resize"
	CursorSEResize CursorIcon = "se-resize"
)

func cursorIconForEdges(e Edges) CursorIcon {
	switch e {
	case EdgeTop:
		return CursorNResize
	case EdgeBottom:
		return CursorSResize
	case EdgeLeft:
		return CursorWResize
	case EdgeRight:
		return CursorEResize
	case EdgeTopLeft:
		return CursorNWResize
	case EdgeTopRight:
		return CursorNEResize
	case EdgeBottomLeft:
		return CursorSWResize
	case EdgeBottomRight:
		return CursorSEResize
	}
	return CursorDefault
}
