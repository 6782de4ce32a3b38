package game

import (
	"errors"
	"fmt"
	"math/bits"
	"math/rand/v2"

	"github.com/Mshel/sshrogue/internal/config"
)

var (
	ErrInvalidBoard = errors.New("invalid board dimensions")
	ErrInvalidRange = errors.New("invalid count range")
	ErrInvalidLevel = errors.New("level must be at least 1")
)

type Count = config.Count

type Kind int

const (
	KindFloor Kind = iota
	KindOuterWall
	KindWall
	KindFood
	KindSoda
	KindEnemy
	KindExit
)

func (k Kind) String() string {
	switch k {
	case KindFloor:
		return "floor"
	case KindOuterWall:
		return "outer_wall"
	case KindWall:
		return "wall"
	case KindFood:
		return "food"
	case KindSoda:
		return "soda"
	case KindEnemy:
		return "enemy"
	case KindExit:
		return "exit"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Placement is one tile the caller should create. Variant selects which of
// the interchangeable sprites (or enemy types) to use.
type Placement struct {
	Position
	Kind    Kind
	Variant int
}

type Layout struct {
	Columns int
	Rows    int
	Level   int
	Tiles   []Placement
}

type tileChoice struct {
	kind    Kind
	variant int
}

type BoardManager struct {
	Columns           int
	Rows              int
	WallCount         Count
	FoodCount         Count
	FloorVariants     int
	WallVariants      int
	OuterWallVariants int
	EnemyVariants     int

	gridPositions *GridPool
}

func NewBoardManager(cfg config.BoardConfig, enemyVariants int) *BoardManager {
	return &BoardManager{
		Columns:           cfg.Columns,
		Rows:              cfg.Rows,
		WallCount:         cfg.WallCount,
		FoodCount:         cfg.FoodCount,
		FloorVariants:     cfg.FloorVariants,
		WallVariants:      cfg.WallVariants,
		OuterWallVariants: cfg.OuterWallVariants,
		EnemyVariants:     enemyVariants,
	}
}

// EnemyCountForLevel is floor(log2(level)).
func EnemyCountForLevel(level int) int {
	if level < 1 {
		return 0
	}
	return bits.Len(uint(level)) - 1
}

// SetupScene lays out one level. The returned layout holds a floor or outer
// wall for every cell of the bordered board, followed by walls, food,
// enemies and the exit. No two objects share an interior cell.
func (bm *BoardManager) SetupScene(level int, rng *rand.Rand) (Layout, error) {
	if level < 1 {
		return Layout{}, fmt.Errorf("%w: got %d", ErrInvalidLevel, level)
	}
	if err := bm.validate(); err != nil {
		return Layout{}, err
	}

	layout := Layout{Columns: bm.Columns, Rows: bm.Rows, Level: level}
	layout.Tiles = bm.boardSetup(rng, make([]Placement, 0, (bm.Columns+2)*(bm.Rows+2)+16))
	bm.initializeList()

	var err error
	layout.Tiles, err = bm.layoutObjectAtRandom(rng, layout.Tiles, variantsOf(KindWall, bm.WallVariants), bm.WallCount)
	if err != nil {
		return Layout{}, fmt.Errorf("placing walls: %w", err)
	}

	foodChoices := []tileChoice{{kind: KindFood}, {kind: KindSoda}}
	layout.Tiles, err = bm.layoutObjectAtRandom(rng, layout.Tiles, foodChoices, bm.FoodCount)
	if err != nil {
		return Layout{}, fmt.Errorf("placing food: %w", err)
	}

	enemyCount := EnemyCountForLevel(level)
	layout.Tiles, err = bm.layoutObjectAtRandom(rng, layout.Tiles, variantsOf(KindEnemy, bm.EnemyVariants), Count{Minimum: enemyCount, Maximum: enemyCount})
	if err != nil {
		return Layout{}, fmt.Errorf("placing enemies: %w", err)
	}

	layout.Tiles = append(layout.Tiles, Placement{
		Position: Position{X: bm.Columns - 1, Y: bm.Rows - 1},
		Kind:     KindExit,
	})

	return layout, nil
}

func (bm *BoardManager) validate() error {
	if bm.Columns < 3 || bm.Rows < 3 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidBoard, bm.Columns, bm.Rows)
	}
	if bm.FloorVariants < 1 || bm.WallVariants < 1 || bm.OuterWallVariants < 1 || bm.EnemyVariants < 1 {
		return fmt.Errorf("%w: every tile set needs at least one variant", ErrInvalidBoard)
	}
	for _, c := range []Count{bm.WallCount, bm.FoodCount} {
		if c.Minimum < 0 || c.Maximum < c.Minimum {
			return fmt.Errorf("%w: [%d, %d]", ErrInvalidRange, c.Minimum, c.Maximum)
		}
	}
	return nil
}

func (bm *BoardManager) initializeList() {
	if bm.gridPositions == nil {
		bm.gridPositions = NewGridPool(bm.Columns, bm.Rows)
		return
	}
	bm.gridPositions.Reset(bm.Columns, bm.Rows)
}

// boardSetup covers [-1, Columns] x [-1, Rows], border cells become outer
// walls.
func (bm *BoardManager) boardSetup(rng *rand.Rand, tiles []Placement) []Placement {
	for x := -1; x < bm.Columns+1; x++ {
		for y := -1; y < bm.Rows+1; y++ {
			tile := Placement{
				Position: Position{X: x, Y: y},
				Kind:     KindFloor,
				Variant:  rng.IntN(bm.FloorVariants),
			}
			if x == -1 || x == bm.Columns || y == -1 || y == bm.Rows {
				tile.Kind = KindOuterWall
				tile.Variant = rng.IntN(bm.OuterWallVariants)
			}
			tiles = append(tiles, tile)
		}
	}
	return tiles
}

func (bm *BoardManager) layoutObjectAtRandom(rng *rand.Rand, tiles []Placement, choices []tileChoice, count Count) ([]Placement, error) {
	objectCount := count.Minimum + rng.IntN(count.Maximum-count.Minimum+1)
	for i := 0; i < objectCount; i++ {
		pos, err := bm.gridPositions.Take(rng)
		if err != nil {
			return tiles, err
		}
		choice := choices[rng.IntN(len(choices))]
		tiles = append(tiles, Placement{Position: pos, Kind: choice.kind, Variant: choice.variant})
	}
	return tiles, nil
}

func variantsOf(kind Kind, n int) []tileChoice {
	choices := make([]tileChoice, n)
	for i := range choices {
		choices[i] = tileChoice{kind: kind, variant: i}
	}
	return choices
}
