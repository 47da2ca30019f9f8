package main

import (
	"strings"

	"github.com/pkg/errors"
)

// Placement picks where a new toplevel is mapped.
type Placement interface {
	Place(existing []*Window, out OutputConfig) Pos
}

// FixedPlacement maps every window at the same position.
type FixedPlacement struct {
	At Pos
}

// Place implements Placement.
func (p FixedPlacement) Place([]*Window, OutputConfig) Pos { return p.At }

// CascadePlacement offsets each new window from the top-most one, so
// windows opened in a row do not hide each other. It wraps back to the
// origin when the next position would leave the output.
type CascadePlacement struct {
	Origin Pos
	Step   int
}

// Place implements Placement.
func (p CascadePlacement) Place(existing []*Window, out OutputConfig) Pos {
	if len(existing) == 0 {
		return p.Origin
	}
	top := existing[len(existing)-1].Loc
	next := Pos{top.X + p.Step, top.Y + p.Step}
	if next.X >= out.Width-p.Step || next.Y >= out.Height-p.Step {
		return p.Origin
	}
	return next
}

func newPlacement(cfg *Config) (Placement, error) {
	switch strings.ToLower(cfg.Placement) {
	case "", "fixed":
		return FixedPlacement{At: cfg.NewWindowPosition}, nil
	case "cascade":
		return CascadePlacement{Origin: cfg.NewWindowPosition, Step: cfg.NudgeStep}, nil
	}
	return nil, errors.Errorf("unknown placement %q (want fixed or cascade)", cfg.Placement)
}
