package game

type Wall struct {
	Position
	Variant   int
	HitPoints int
}

// Board is the static part of a level: terrain, breakable walls, pickups and
// the exit. Moving actors live on the GameManager.
type Board struct {
	Columns int
	Rows    int

	terrain map[Position]Placement
	walls   map[Position]*Wall
	items   map[Position]Kind
	exit    Position
}

// NewBoard builds the board from a layout. Enemy placements are returned
// separately so the caller can spawn them.
func NewBoard(layout Layout, wallHitPoints int) (*Board, []Placement) {
	b := &Board{
		Columns: layout.Columns,
		Rows:    layout.Rows,
		terrain: make(map[Position]Placement, (layout.Columns+2)*(layout.Rows+2)),
		walls:   make(map[Position]*Wall),
		items:   make(map[Position]Kind),
	}

	var enemies []Placement
	for _, tile := range layout.Tiles {
		switch tile.Kind {
		case KindFloor, KindOuterWall:
			b.terrain[tile.Position] = tile
		case KindWall:
			b.walls[tile.Position] = &Wall{Position: tile.Position, Variant: tile.Variant, HitPoints: wallHitPoints}
		case KindFood, KindSoda:
			b.items[tile.Position] = tile.Kind
		case KindEnemy:
			enemies = append(enemies, tile)
		case KindExit:
			b.exit = tile.Position
		}
	}
	return b, enemies
}

func (b *Board) InBounds(p Position) bool {
	return p.X >= 0 && p.X < b.Columns && p.Y >= 0 && p.Y < b.Rows
}

// IsOuterWall is true for the border ring and anything beyond it.
func (b *Board) IsOuterWall(p Position) bool {
	return !b.InBounds(p)
}

func (b *Board) WallAt(p Position) *Wall {
	return b.walls[p]
}

// DamageWall chips a wall and removes it once its hit points run out.
func (b *Board) DamageWall(p Position, loss int) (destroyed bool) {
	wall, ok := b.walls[p]
	if !ok {
		return false
	}
	wall.HitPoints -= loss
	if wall.HitPoints <= 0 {
		delete(b.walls, p)
		return true
	}
	return false
}

func (b *Board) ItemAt(p Position) (Kind, bool) {
	kind, ok := b.items[p]
	return kind, ok
}

func (b *Board) RemoveItem(p Position) {
	delete(b.items, p)
}

func (b *Board) Exit() Position {
	return b.exit
}

// Cell is the rendered content of one board position, ignoring actors.
type Cell struct {
	Kind      Kind
	Variant   int
	HitPoints int
}

// cells flattens the board for a snapshot. Later layers win: terrain, then
// exit, items and walls.
func (b *Board) cells() map[Position]Cell {
	out := make(map[Position]Cell, len(b.terrain))
	for pos, tile := range b.terrain {
		out[pos] = Cell{Kind: tile.Kind, Variant: tile.Variant}
	}
	out[b.exit] = Cell{Kind: KindExit}
	for pos, kind := range b.items {
		out[pos] = Cell{Kind: kind}
	}
	for pos, wall := range b.walls {
		out[pos] = Cell{Kind: KindWall, Variant: wall.Variant, HitPoints: wall.HitPoints}
	}
	return out
}
