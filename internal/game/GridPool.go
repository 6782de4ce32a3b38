package game

import (
	"errors"
	"math/rand/v2"
)

var ErrPoolExhausted = errors.New("no free grid positions left")

// GridPool holds the interior cells that are still free during one layout
// pass. Cells next to the outer wall are never handed out so there is always
// a walkable ring around the board.
type GridPool struct {
	cells []Position
}

func NewGridPool(columns, rows int) *GridPool {
	p := &GridPool{}
	p.Reset(columns, rows)
	return p
}

func (p *GridPool) Reset(columns, rows int) {
	p.cells = p.cells[:0]
	for x := 1; x < columns-1; x++ {
		for y := 1; y < rows-1; y++ {
			p.cells = append(p.cells, Position{X: x, Y: y})
		}
	}
}

func (p *GridPool) Len() int {
	return len(p.cells)
}

// Take removes and returns a uniformly random cell.
func (p *GridPool) Take(rng *rand.Rand) (Position, error) {
	if len(p.cells) == 0 {
		return Position{}, ErrPoolExhausted
	}
	i := rng.IntN(len(p.cells))
	pos := p.cells[i]
	last := len(p.cells) - 1
	p.cells[i] = p.cells[last]
	p.cells = p.cells[:last]
	return pos, nil
}
