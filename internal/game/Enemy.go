package game

import (
	"github.com/Mshel/sshrogue/internal/audio"
	"github.com/Mshel/sshrogue/internal/config"
	"github.com/charmbracelet/log"
)

type Enemy struct {
	MovingObject
	ID       int
	Type     config.EnemyType
	Variant  int
	Attacked bool

	// enemies only act every other turn
	skipMove bool
	gm       *GameManager
}

func newEnemy(gm *GameManager, id int, placement Placement) *Enemy {
	types := gm.cfg.Enemies
	return &Enemy{
		MovingObject: MovingObject{Position: placement.Position, world: gm},
		ID:           id,
		Type:         types[placement.Variant%len(types)],
		Variant:      placement.Variant,
		gm:           gm,
	}
}

func (e *Enemy) AttemptMove(dir Direction) {
	if e.skipMove {
		e.skipMove = false
		return
	}

	e.attemptMove(dir, HitPlayer, e.onCantMove)
	e.skipMove = true
}

// MoveEnemy steps toward the player using the configured strategy. A failing
// strategy falls back to the greedy chase.
func (e *Enemy) MoveEnemy(target Position) {
	e.Attacked = false

	dir, err := e.gm.strategy.NextDirection(e.Position, target)
	if err == nil && !dir.IsStep() {
		err = errNotAStep
	}
	if err != nil {
		log.Warn("Enemy strategy failed, falling back to greedy chase", "session", e.gm.SessionID, "enemy", e.ID, "error", err)
		dir, _ = GreedyChase{}.NextDirection(e.Position, target)
	}

	e.AttemptMove(dir)
}

func (e *Enemy) onCantMove(hit Hit) {
	e.Attacked = true
	e.gm.sound.RandomizeSfx(audio.ClipEnemyAttack1, audio.ClipEnemyAttack2)
	hit.Player.LoseFood(e.Type.Damage)
}
