package game

import (
	"fmt"

	"github.com/Mshel/sshrogue/internal/audio"
	"github.com/Mshel/sshrogue/internal/config"
)

type Action int

const (
	ActionIdle Action = iota
	ActionMove
	ActionChop
	ActionBlocked
	ActionHit
)

func (a Action) String() string {
	switch a {
	case ActionMove:
		return "move"
	case ActionChop:
		return "chop"
	case ActionBlocked:
		return "blocked"
	case ActionHit:
		return "hit"
	}
	return "idle"
}

type Player struct {
	MovingObject
	Name       string
	FoodText   string
	LastAction Action

	food        int
	reachedExit bool
	rules       config.PlayerConfig
	gm          *GameManager
}

func newPlayer(gm *GameManager, name string, food int) *Player {
	p := &Player{
		MovingObject: MovingObject{world: gm},
		Name:         name,
		rules:        gm.cfg.Player,
		gm:           gm,
	}
	p.start(food)
	return p
}

// start places the player at the level entrance with the carried over food.
func (p *Player) start(food int) {
	p.Position = Position{}
	p.food = food
	p.reachedExit = false
	p.LastAction = ActionIdle
	p.FoodText = fmt.Sprintf("Food: %d", p.food)
}

func (p *Player) Food() int {
	return p.food
}

// AttemptMove spends one food on the attempt, moves or chops, collects
// whatever is on the entered cell and checks for starvation.
func (p *Player) AttemptMove(dir Direction) {
	p.food--
	p.FoodText = fmt.Sprintf("Food: %d", p.food)

	p.LastAction = ActionBlocked
	if _, moved := p.attemptMove(dir, HitWall, p.onCantMove); moved {
		p.LastAction = ActionMove
		p.gm.sound.RandomizeSfx(audio.ClipMove1, audio.ClipMove2)
		p.onTriggerEnter(p.Position)
	}

	p.checkIfGameOver()
}

func (p *Player) onCantMove(hit Hit) {
	p.LastAction = ActionChop
	p.gm.sound.RandomizeSfx(audio.ClipChop1, audio.ClipChop2)
	if p.gm.board.DamageWall(hit.Position, p.rules.WallDamage) {
		p.gm.publishEvent(EventWallDestroyed)
	}
}

func (p *Player) onTriggerEnter(pos Position) {
	board := p.gm.board
	if pos == board.Exit() {
		p.reachedExit = true
		return
	}

	kind, ok := board.ItemAt(pos)
	if !ok {
		return
	}
	switch kind {
	case KindFood:
		p.food += p.rules.PointsPerFood
		p.FoodText = fmt.Sprintf("+%d Food: %d", p.rules.PointsPerFood, p.food)
		p.gm.sound.RandomizeSfx(audio.ClipEat1, audio.ClipEat2)
	case KindSoda:
		p.food += p.rules.PointsPerSoda
		p.FoodText = fmt.Sprintf("+%d Food: %d", p.rules.PointsPerSoda, p.food)
		p.gm.sound.RandomizeSfx(audio.ClipDrink1, audio.ClipDrink2)
	default:
		return
	}
	board.RemoveItem(pos)
}

// LoseFood is how enemies hurt the player.
func (p *Player) LoseFood(loss int) {
	p.LastAction = ActionHit
	p.food -= loss
	p.FoodText = fmt.Sprintf("-%d Food: %d", loss, p.food)
	p.checkIfGameOver()
}

func (p *Player) checkIfGameOver() {
	if p.food > 0 {
		return
	}
	p.gm.sound.PlaySingle(audio.ClipGameOver)
	p.gm.sound.StopMusic()
	p.gm.gameOver()
}
