package game

import "time"

type EventType string

const (
	EventLevelStart    EventType = "level_start"
	EventTurn          EventType = "turn"
	EventWallDestroyed EventType = "wall_destroyed"
	EventLevelComplete EventType = "level_complete"
	EventGameOver      EventType = "game_over"
)

// Event is what spectators see of a running game.
type Event struct {
	Type    EventType `json:"type"`
	Session string    `json:"session"`
	Player  string    `json:"player"`
	Day     int       `json:"day"`
	Food    int       `json:"food"`
	Turn    int       `json:"turn"`
	Enemies int       `json:"enemies"`
	At      time.Time `json:"at"`
}

// EventSink receives game events. Publish is called from the game loop and
// must not block.
type EventSink interface {
	Publish(Event)
}

// ScoreRecorder stores the result of a finished game.
type ScoreRecorder interface {
	SaveHighScore(playerName string, days int, food int) error
}

// StateUpdateMsg is sent to the session's UI after every state change.
type StateUpdateMsg struct {
	Snapshot Snapshot
}

type EnemyView struct {
	ID       int
	Name     string
	Variant  int
	Position Position
	Attacked bool
}

// Snapshot is a copy of the game state that can be rendered without locks.
type Snapshot struct {
	SessionID  string
	PlayerName string
	Columns    int
	Rows       int
	Level      int
	Turn       int
	State      State
	Food       int
	FoodText   string
	LevelText  string
	Player     Position
	LastAction Action
	Enemies    []EnemyView
	Cells      map[Position]Cell
}

func (s Snapshot) CellAt(p Position) Cell {
	if c, ok := s.Cells[p]; ok {
		return c
	}
	return Cell{Kind: KindOuterWall}
}

func (s Snapshot) EnemyAt(p Position) (EnemyView, bool) {
	for _, e := range s.Enemies {
		if e.Position == p {
			return e, true
		}
	}
	return EnemyView{}, false
}
