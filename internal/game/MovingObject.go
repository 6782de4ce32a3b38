package game

type HitKind int

const (
	HitNone HitKind = iota
	HitOuterWall
	HitWall
	HitEnemy
	HitPlayer
)

// Hit describes what blocked a step, if anything.
type Hit struct {
	Kind     HitKind
	Position Position
	Wall     *Wall
	Enemy    *Enemy
	Player   *Player
}

// Collider answers what occupies the destination of a step. Pickups and the
// exit never block.
type Collider interface {
	Linecast(from, to Position) Hit
}

// MovingObject is the shared grid stepping used by the player and enemies.
type MovingObject struct {
	Position Position
	world    Collider
}

// Move steps by dir when nothing blocks and reports the hit either way.
func (mo *MovingObject) Move(dir Direction) (Hit, bool) {
	end := mo.Position.Add(dir)
	hit := mo.world.Linecast(mo.Position, end)
	if hit.Kind == HitNone {
		mo.Position = end
		return hit, true
	}
	return hit, false
}

// attemptMove moves and calls onCantMove only when the blocker is the kind
// this mover interacts with.
func (mo *MovingObject) attemptMove(dir Direction, target HitKind, onCantMove func(Hit)) (Hit, bool) {
	hit, moved := mo.Move(dir)
	if !moved && hit.Kind == target {
		onCantMove(hit)
	}
	return hit, moved
}
