package main

// Direction is a unit vector on a 2D plane along a single (horizontal
// or vertical) axis. Or in plain words: left or right; up or down.
type Direction struct{ V, H int }

var (
	NoDirection = Direction{}
	Up          = Direction{V: -1}
	Down        = Direction{V: +1}
	Left        = Direction{H: -1}
	Right       = Direction{H: +1}
)

// Offset moves p by step units along d.
func (d Direction) Offset(p Pos, step int) Pos {
	return Pos{X: p.X + d.H*step, Y: p.Y + d.V*step}
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "none"
}
