package game

const (
	directionChannelSize = 10
	updateChannelSize    = 64

	LevelTextFormat       = "Day %d"
	GameOverTextFormat    = "After %d days, you starved."
	SetupFailedTextFormat = "Day %d could not be built. The dungeon is closed."
)
