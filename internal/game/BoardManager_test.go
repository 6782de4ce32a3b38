package game

import (
	"errors"
	"math/rand/v2"
	"reflect"
	"testing"

	"github.com/Mshel/sshrogue/internal/config"
)

func defaultBoardManager() *BoardManager {
	return NewBoardManager(config.Default().Board, 2)
}

func TestEnemyCountForLevel(t *testing.T) {
	tests := []struct {
		level, want int
	}{
		{1, 0}, {2, 1}, {3, 1}, {4, 2}, {7, 2}, {8, 3}, {1023, 9}, {1024, 10},
	}
	for _, tt := range tests {
		if got := EnemyCountForLevel(tt.level); got != tt.want {
			t.Errorf("EnemyCountForLevel(%d) = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestSetupSceneLayout(t *testing.T) {
	bm := defaultBoardManager()

	for seed := uint64(1); seed <= 50; seed++ {
		level := int(seed%9) + 1
		layout, err := bm.SetupScene(level, rand.New(rand.NewPCG(seed, 7)))
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}

		terrain := map[Position]Kind{}
		objects := map[Position]Kind{}
		counts := map[Kind]int{}

		for _, tile := range layout.Tiles {
			counts[tile.Kind]++
			switch tile.Kind {
			case KindFloor, KindOuterWall:
				if _, dup := terrain[tile.Position]; dup {
					t.Fatalf("seed %d: terrain placed twice at %+v", seed, tile.Position)
				}
				terrain[tile.Position] = tile.Kind
				border := tile.X == -1 || tile.Y == -1 || tile.X == bm.Columns || tile.Y == bm.Rows
				if border != (tile.Kind == KindOuterWall) {
					t.Fatalf("seed %d: %s at %+v", seed, tile.Kind, tile.Position)
				}
			default:
				if prev, dup := objects[tile.Position]; dup {
					t.Fatalf("seed %d: %s and %s share %+v", seed, prev, tile.Kind, tile.Position)
				}
				objects[tile.Position] = tile.Kind
				if tile.Kind == KindExit {
					continue
				}
				if tile.X < 1 || tile.X > bm.Columns-2 || tile.Y < 1 || tile.Y > bm.Rows-2 {
					t.Fatalf("seed %d: %s outside interior at %+v", seed, tile.Kind, tile.Position)
				}
			}
		}

		if len(terrain) != (bm.Columns+2)*(bm.Rows+2) {
			t.Errorf("seed %d: %d terrain tiles", seed, len(terrain))
		}
		if n := counts[KindWall]; n < bm.WallCount.Minimum || n > bm.WallCount.Maximum {
			t.Errorf("seed %d: %d walls", seed, n)
		}
		if n := counts[KindFood] + counts[KindSoda]; n < bm.FoodCount.Minimum || n > bm.FoodCount.Maximum {
			t.Errorf("seed %d: %d food", seed, n)
		}
		if n := counts[KindEnemy]; n != EnemyCountForLevel(level) {
			t.Errorf("seed %d level %d: %d enemies", seed, level, n)
		}
		if counts[KindExit] != 1 || objects[Position{X: bm.Columns - 1, Y: bm.Rows - 1}] != KindExit {
			t.Errorf("seed %d: exit missing from top right corner", seed)
		}
	}
}

func TestSetupSceneDeterministic(t *testing.T) {
	bm := defaultBoardManager()
	a, err := bm.SetupScene(5, rand.New(rand.NewPCG(99, 1)))
	if err != nil {
		t.Fatal(err)
	}
	b, err := bm.SetupScene(5, rand.New(rand.NewPCG(99, 1)))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed produced different layouts")
	}
}

func TestSetupSceneVariantsInRange(t *testing.T) {
	bm := defaultBoardManager()
	layout, err := bm.SetupScene(16, rand.New(rand.NewPCG(3, 3)))
	if err != nil {
		t.Fatal(err)
	}
	limits := map[Kind]int{
		KindFloor:     bm.FloorVariants,
		KindOuterWall: bm.OuterWallVariants,
		KindWall:      bm.WallVariants,
		KindEnemy:     bm.EnemyVariants,
		KindFood:      1,
		KindSoda:      1,
		KindExit:      1,
	}
	for _, tile := range layout.Tiles {
		if tile.Variant < 0 || tile.Variant >= limits[tile.Kind] {
			t.Fatalf("%s variant %d out of range", tile.Kind, tile.Variant)
		}
	}
}

func TestSetupSceneErrors(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))

	bm := defaultBoardManager()
	if _, err := bm.SetupScene(0, rng); !errors.Is(err, ErrInvalidLevel) {
		t.Errorf("level 0: err = %v", err)
	}

	small := defaultBoardManager()
	small.Columns, small.Rows = 2, 8
	if _, err := small.SetupScene(1, rng); !errors.Is(err, ErrInvalidBoard) {
		t.Errorf("2x8 board: err = %v", err)
	}

	inverted := defaultBoardManager()
	inverted.FoodCount = Count{Minimum: 3, Maximum: 1}
	if _, err := inverted.SetupScene(1, rng); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("inverted range: err = %v", err)
	}

	// 3x3 has a single interior cell
	crowded := defaultBoardManager()
	crowded.Columns, crowded.Rows = 3, 3
	crowded.WallCount = Count{Minimum: 2, Maximum: 2}
	if _, err := crowded.SetupScene(1, rng); !errors.Is(err, ErrPoolExhausted) {
		t.Errorf("crowded board: err = %v", err)
	}
}

func TestGridPoolTakesEveryCellOnce(t *testing.T) {
	pool := NewGridPool(6, 5)
	if pool.Len() != 4*3 {
		t.Fatalf("pool has %d cells, want 12", pool.Len())
	}

	rng := rand.New(rand.NewPCG(5, 5))
	seen := map[Position]bool{}
	for pool.Len() > 0 {
		pos, err := pool.Take(rng)
		if err != nil {
			t.Fatal(err)
		}
		if seen[pos] {
			t.Fatalf("%+v handed out twice", pos)
		}
		seen[pos] = true
	}
	if len(seen) != 12 {
		t.Errorf("took %d cells, want 12", len(seen))
	}
	if _, err := pool.Take(rng); !errors.Is(err, ErrPoolExhausted) {
		t.Errorf("empty pool: err = %v", err)
	}

	pool.Reset(6, 5)
	if pool.Len() != 12 {
		t.Errorf("after reset pool has %d cells", pool.Len())
	}
}
