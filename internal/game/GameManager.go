package game

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/Mshel/sshrogue/internal/audio"
	"github.com/Mshel/sshrogue/internal/config"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

type State int

const (
	StateLevelIntro State = iota
	StatePlayerTurn
	StateEnemyTurn
	StateLevelComplete
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StateLevelIntro:
		return "level_intro"
	case StatePlayerTurn:
		return "player_turn"
	case StateEnemyTurn:
		return "enemy_turn"
	case StateLevelComplete:
		return "level_complete"
	case StateGameOver:
		return "game_over"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Options carries the collaborators of a GameManager. Nil fields get
// working defaults.
type Options struct {
	Sound    audio.SoundPlayer
	Strategy Strategy
	Scores   ScoreRecorder
	Events   EventSink
	Rand     *rand.Rand
}

// GameManager runs one player's game: level setup, turn order, the enemy
// registry and game over.
type GameManager struct {
	SessionID        string
	PlayerName       string
	DirectionChannel chan Direction
	UpdateChannel    chan tea.Msg

	mu               sync.Mutex
	cfg              *config.Config
	rng              *rand.Rand
	boardManager     *BoardManager
	board            *Board
	player           *Player
	enemies          []*Enemy
	nextEnemyID      int
	level            int
	turn             int
	playerFoodPoints int
	playersTurn      bool
	state            State
	levelText        string
	startedAt        time.Time

	// set by gameOver, written once gm.mu is released
	pendingScore *savedResult

	sound    audio.SoundPlayer
	strategy Strategy
	scores   ScoreRecorder
	events   EventSink
}

type savedResult struct {
	playerName string
	days       int
	food       int
}

func NewGameManager(sessionID, playerName string, cfg *config.Config, opts Options) *GameManager {
	if opts.Sound == nil {
		opts.Sound = audio.NopPlayer{}
	}
	if opts.Strategy == nil {
		opts.Strategy = GreedyChase{}
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64()))
	}

	return &GameManager{
		SessionID:        sessionID,
		PlayerName:       playerName,
		DirectionChannel: make(chan Direction, directionChannelSize),
		UpdateChannel:    make(chan tea.Msg, updateChannelSize),
		cfg:              cfg,
		rng:              opts.Rand,
		boardManager:     NewBoardManager(cfg.Board, len(cfg.Enemies)),
		level:            1,
		playerFoodPoints: cfg.Player.StartingFood,
		state:            StateLevelIntro,
		startedAt:        time.Now(),
		sound:            opts.Sound,
		strategy:         opts.Strategy,
		scores:           opts.Scores,
		events:           opts.Events,
	}
}

// InitGame lays out the current day and puts the player at the entrance.
// The game stays in StateLevelIntro until BeginPlay.
func (gm *GameManager) InitGame() error {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	return gm.initGame()
}

func (gm *GameManager) initGame() error {
	layout, err := gm.boardManager.SetupScene(gm.level, gm.rng)
	if err != nil {
		return fmt.Errorf("setting up day %d: %w", gm.level, err)
	}
	gm.loadLayout(layout)

	gm.state = StateLevelIntro
	gm.playersTurn = false
	gm.levelText = fmt.Sprintf(LevelTextFormat, gm.level)

	log.Info("Day started", "session", gm.SessionID, "player", gm.PlayerName, "day", gm.level, "enemies", len(gm.enemies), "food", gm.playerFoodPoints)
	gm.publishEvent(EventLevelStart)
	gm.publishUpdate()
	return nil
}

// loadLayout turns a layout into the live board, spawns its enemies and
// resets the player to the entrance.
func (gm *GameManager) loadLayout(layout Layout) {
	board, enemyTiles := NewBoard(layout, gm.cfg.WallHitPoints)
	gm.board = board
	gm.enemies = gm.enemies[:0]
	for _, tile := range enemyTiles {
		gm.addEnemyToList(newEnemy(gm, gm.nextEnemyID, tile))
		gm.nextEnemyID++
	}

	if gm.player == nil {
		gm.player = newPlayer(gm, gm.PlayerName, gm.playerFoodPoints)
	} else {
		gm.player.start(gm.playerFoodPoints)
	}
}

func (gm *GameManager) addEnemyToList(e *Enemy) {
	gm.enemies = append(gm.enemies, e)
}

// BeginPlay hides the day splash and hands the turn to the player.
func (gm *GameManager) BeginPlay() {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if gm.state != StateLevelIntro {
		return
	}
	gm.state = StatePlayerTurn
	gm.playersTurn = true
	gm.levelText = ""
	gm.publishUpdate()
}

// PlayerTurn applies one player input. It reports false when the input was
// ignored, either because it is not the player's turn or the input is empty.
func (gm *GameManager) PlayerTurn(dir Direction) bool {
	gm.mu.Lock()
	defer gm.unlockAndRecord()

	if gm.state != StatePlayerTurn || !gm.playersTurn {
		return false
	}
	dir = normalizeInput(dir)
	if dir == (Direction{}) {
		return false
	}

	gm.turn++
	for _, e := range gm.enemies {
		e.Attacked = false
	}
	gm.player.AttemptMove(dir)
	gm.playersTurn = false

	switch {
	case gm.state == StateGameOver:
	case gm.player.reachedExit:
		// food carries over to the next day
		gm.playerFoodPoints = gm.player.food
		gm.state = StateLevelComplete
		gm.publishEvent(EventLevelComplete)
	default:
		gm.state = StateEnemyTurn
		gm.publishEvent(EventTurn)
	}

	gm.publishUpdate()
	return true
}

// EnemyTurn moves every enemy once, without pauses.
func (gm *GameManager) EnemyTurn() {
	gm.moveEnemies(nil)
}

// moveEnemies moves enemies one by one, calling pause between them. It
// reports false if pause asked to stop.
func (gm *GameManager) moveEnemies(pause func() bool) bool {
	gm.mu.Lock()
	count := len(gm.enemies)
	active := gm.state == StateEnemyTurn
	gm.mu.Unlock()

	if !active {
		return true
	}

	for i := 0; i < count; i++ {
		if !gm.moveEnemy(i) {
			return true
		}
		if pause != nil && !pause() {
			return false
		}
	}
	gm.endEnemyTurn()
	return true
}

func (gm *GameManager) moveEnemy(i int) bool {
	gm.mu.Lock()
	defer gm.unlockAndRecord()

	if gm.state != StateEnemyTurn || i >= len(gm.enemies) {
		return false
	}
	gm.enemies[i].MoveEnemy(gm.player.Position)
	gm.publishUpdate()
	return gm.state == StateEnemyTurn
}

func (gm *GameManager) endEnemyTurn() {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if gm.state != StateEnemyTurn {
		return
	}
	gm.state = StatePlayerTurn
	gm.playersTurn = true
	gm.publishUpdate()
}

// NextLevel advances to the next day after the exit was reached.
func (gm *GameManager) NextLevel() error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if gm.state != StateLevelComplete {
		return fmt.Errorf("cannot advance from state %s", gm.state)
	}
	gm.level++
	return gm.initGame()
}

func (gm *GameManager) GameOver() {
	gm.mu.Lock()
	defer gm.unlockAndRecord()

	gm.gameOver()
	gm.publishUpdate()
}

// gameOver must be called with gm.mu held.
func (gm *GameManager) gameOver() {
	if gm.state == StateGameOver {
		return
	}
	gm.state = StateGameOver
	gm.playersTurn = false
	gm.levelText = fmt.Sprintf(GameOverTextFormat, gm.level)

	log.Info("Game over", "session", gm.SessionID, "player", gm.PlayerName, "days", gm.level, "turns", gm.turn, "played_for", time.Since(gm.startedAt).Round(time.Second))

	food := gm.playerFoodPoints
	if gm.player != nil {
		food = gm.player.food
	}
	if gm.scores != nil {
		gm.pendingScore = &savedResult{playerName: gm.PlayerName, days: gm.level, food: food}
	}
	gm.publishEvent(EventGameOver)
}

// unlockAndRecord releases gm.mu and then stores a pending high score, so
// readers of the game state never wait on the database.
func (gm *GameManager) unlockAndRecord() {
	result := gm.pendingScore
	gm.pendingScore = nil
	gm.mu.Unlock()

	if result == nil {
		return
	}
	if err := gm.scores.SaveHighScore(result.playerName, result.days, result.food); err != nil {
		log.Error("High score persist failed", "session", gm.SessionID, "error", err)
	}
}

// abort ends a game whose dungeon could not be built, leaving a state the
// UI can show instead of a loading screen.
func (gm *GameManager) abort(err error) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	log.Error("Could not build the dungeon", "session", gm.SessionID, "day", gm.level, "error", err)
	gm.state = StateGameOver
	gm.playersTurn = false
	gm.levelText = fmt.Sprintf(SetupFailedTextFormat, gm.level)
	gm.publishEvent(EventGameOver)
	gm.publishUpdate()
}

// Linecast reports the blocker at the destination cell.
func (gm *GameManager) Linecast(from, to Position) Hit {
	hit := Hit{Position: to}
	switch {
	case gm.board.IsOuterWall(to):
		hit.Kind = HitOuterWall
	case gm.board.WallAt(to) != nil:
		hit.Kind = HitWall
		hit.Wall = gm.board.WallAt(to)
	case gm.player != nil && gm.player.Position == to:
		hit.Kind = HitPlayer
		hit.Player = gm.player
	default:
		for _, e := range gm.enemies {
			if e.Position == to {
				hit.Kind = HitEnemy
				hit.Enemy = e
				break
			}
		}
	}
	return hit
}

// SendDirection queues player input without blocking the UI. Input is only
// taken while it is the player's turn.
func (gm *GameManager) SendDirection(dir Direction) bool {
	if gm.State() != StatePlayerTurn {
		return false
	}
	select {
	case gm.DirectionChannel <- dir:
		return true
	default:
		return false
	}
}

func (gm *GameManager) State() State {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	return gm.state
}

func (gm *GameManager) Level() int {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	return gm.level
}

func (gm *GameManager) Snapshot() Snapshot {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	return gm.snapshot()
}

func (gm *GameManager) snapshot() Snapshot {
	s := Snapshot{
		SessionID:  gm.SessionID,
		PlayerName: gm.PlayerName,
		Level:      gm.level,
		Turn:       gm.turn,
		State:      gm.state,
		LevelText:  gm.levelText,
	}
	if gm.board != nil {
		s.Columns = gm.board.Columns
		s.Rows = gm.board.Rows
		s.Cells = gm.board.cells()
	}
	if gm.player != nil {
		s.Food = gm.player.food
		s.FoodText = gm.player.FoodText
		s.Player = gm.player.Position
		s.LastAction = gm.player.LastAction
	}
	s.Enemies = make([]EnemyView, 0, len(gm.enemies))
	for _, e := range gm.enemies {
		s.Enemies = append(s.Enemies, EnemyView{
			ID:       e.ID,
			Name:     e.Type.Name,
			Variant:  e.Variant,
			Position: e.Position,
			Attacked: e.Attacked,
		})
	}
	return s
}

// publishUpdate replaces the oldest pending update when the UI falls behind.
func (gm *GameManager) publishUpdate() {
	msg := StateUpdateMsg{Snapshot: gm.snapshot()}
	for {
		select {
		case gm.UpdateChannel <- msg:
			return
		default:
			select {
			case <-gm.UpdateChannel:
			default:
			}
		}
	}
}

func (gm *GameManager) publishEvent(t EventType) {
	if gm.events == nil {
		return
	}
	food := gm.playerFoodPoints
	if gm.player != nil {
		food = gm.player.food
	}
	gm.events.Publish(Event{
		Type:    t,
		Session: gm.SessionID,
		Player:  gm.PlayerName,
		Day:     gm.level,
		Food:    food,
		Turn:    gm.turn,
		Enemies: len(gm.enemies),
		At:      time.Now().UTC(),
	})
}

// StartGameLoop drives the game until it ends or ctx is cancelled. Input
// that arrives while enemies move or a day is loading is dropped.
func (gm *GameManager) StartGameLoop(ctx context.Context) {
	log.Info("Game loop started.", "session", gm.SessionID)
	defer log.Info("Game loop stopped.", "session", gm.SessionID)

	if err := gm.InitGame(); err != nil {
		gm.abort(err)
		return
	}
	gm.sound.PlayMusic()

	timing := gm.cfg.Timing
	for {
		if !wait(ctx, timing.LevelStartDelay.Duration) {
			return
		}
		gm.drainInput()
		gm.BeginPlay()

		if !gm.playLevel(ctx) {
			return
		}

		if !wait(ctx, timing.RestartLevelDelay.Duration) {
			return
		}
		if err := gm.NextLevel(); err != nil {
			gm.abort(err)
			return
		}
	}
}

// playLevel reports true once the exit is reached.
func (gm *GameManager) playLevel(ctx context.Context) bool {
	for {
		select {
		case <-ctx.Done():
			return false
		case dir := <-gm.DirectionChannel:
			if !gm.PlayerTurn(dir) {
				continue
			}
			switch gm.State() {
			case StateGameOver:
				return false
			case StateLevelComplete:
				return true
			}

			gm.drainInput()
			if !gm.runEnemyTurn(ctx) || gm.State() == StateGameOver {
				return false
			}
		}
	}
}

func (gm *GameManager) runEnemyTurn(ctx context.Context) bool {
	timing := gm.cfg.Timing
	if !wait(ctx, timing.TurnDelay.Duration) {
		return false
	}

	gm.mu.Lock()
	noEnemies := len(gm.enemies) == 0
	gm.mu.Unlock()
	if noEnemies && !wait(ctx, timing.TurnDelay.Duration) {
		return false
	}

	return gm.moveEnemies(func() bool { return wait(ctx, timing.MoveTime.Duration) })
}

func (gm *GameManager) drainInput() {
	for {
		select {
		case <-gm.DirectionChannel:
		default:
			return
		}
	}
}

func wait(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
