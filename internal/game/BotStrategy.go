package game

// Strategy decides which way an enemy steps toward its target.
type Strategy interface {
	NextDirection(enemy, target Position) (Direction, error)
}

// GreedyChase closes the horizontal gap first and only moves vertically once
// the enemy shares the target's column.
type GreedyChase struct{}

func (GreedyChase) NextDirection(enemy, target Position) (Direction, error) {
	if enemy.X == target.X {
		if target.Y > enemy.Y {
			return Up, nil
		}
		return Down, nil
	}
	if target.X > enemy.X {
		return Right, nil
	}
	return Left, nil
}
