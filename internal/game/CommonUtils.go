package game

// Position is a board cell. Y grows upwards, so row Rows-1 is the top.
type Position struct {
	X, Y int
}

func (p Position) Add(d Direction) Position {
	return Position{X: p.X + d.Dx, Y: p.Y + d.Dy}
}

type Direction struct {
	Dx, Dy int
}

var (
	Up    = Direction{Dx: 0, Dy: 1}
	Down  = Direction{Dx: 0, Dy: -1}
	Left  = Direction{Dx: -1, Dy: 0}
	Right = Direction{Dx: 1, Dy: 0}
)

var Directions = []Direction{Up, Right, Down, Left}

// IsStep reports whether d moves exactly one cell along one axis.
func (d Direction) IsStep() bool {
	return abs(d.Dx)+abs(d.Dy) == 1
}

// normalizeInput turns raw axis input into a single step. Horizontal input
// wins when both axes are set, which rules out diagonal moves.
func normalizeInput(d Direction) Direction {
	horizontal, vertical := sign(d.Dx), sign(d.Dy)
	if horizontal != 0 {
		vertical = 0
	}
	return Direction{Dx: horizontal, Dy: vertical}
}

func GetManhattanDistance(a, b Position) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
