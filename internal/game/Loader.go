package game

import (
	"context"
	"hash/fnv"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/Mshel/sshrogue/internal/audio"
	"github.com/Mshel/sshrogue/internal/config"
	"github.com/charmbracelet/log"
)

type LoaderOptions struct {
	Scores   ScoreRecorder
	Events   EventSink
	Strategy Strategy
	// NewSound builds the sound player for a session. Nil means silent.
	NewSound func(sessionID string) audio.SoundPlayer
}

type loadedGame struct {
	gm     *GameManager
	cancel context.CancelFunc
}

// Loader makes sure every session has exactly one running GameManager.
type Loader struct {
	cfg   *config.Config
	opts  LoaderOptions
	mu    sync.Mutex
	games map[string]*loadedGame
}

// GameSummary is a cheap view of a running game for listings.
type GameSummary struct {
	SessionID string `json:"session"`
	Player    string `json:"player"`
	Day       int    `json:"day"`
	Food      int    `json:"food"`
	State     string `json:"state"`
}

func NewLoader(cfg *config.Config, opts LoaderOptions) *Loader {
	return &Loader{
		cfg:   cfg,
		opts:  opts,
		games: make(map[string]*loadedGame),
	}
}

// Load returns the session's game, creating and starting one if absent.
func (l *Loader) Load(sessionID, playerName string) *GameManager {
	l.mu.Lock()
	defer l.mu.Unlock()

	if existing, ok := l.games[sessionID]; ok {
		return existing.gm
	}

	sound := audio.SoundPlayer(audio.NopPlayer{})
	if l.opts.NewSound != nil {
		sound = l.opts.NewSound(sessionID)
	}

	gm := NewGameManager(sessionID, playerName, l.cfg, Options{
		Sound:    sound,
		Strategy: l.opts.Strategy,
		Scores:   l.opts.Scores,
		Events:   l.opts.Events,
		Rand:     l.newRand(sessionID),
	})

	ctx, cancel := context.WithCancel(context.Background())
	l.games[sessionID] = &loadedGame{gm: gm, cancel: cancel}
	go gm.StartGameLoop(ctx)

	log.Info("Game loaded", "session", sessionID, "player", playerName)
	return gm
}

func (l *Loader) Get(sessionID string) (*GameManager, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	g, ok := l.games[sessionID]
	if !ok {
		return nil, false
	}
	return g.gm, true
}

// Unload stops the session's game loop and forgets it.
func (l *Loader) Unload(sessionID string) {
	l.mu.Lock()
	g, ok := l.games[sessionID]
	delete(l.games, sessionID)
	l.mu.Unlock()

	if ok {
		g.cancel()
		log.Info("Game unloaded", "session", sessionID)
	}
}

func (l *Loader) Active() []GameSummary {
	l.mu.Lock()
	games := make([]*GameManager, 0, len(l.games))
	for _, g := range l.games {
		games = append(games, g.gm)
	}
	l.mu.Unlock()

	out := make([]GameSummary, 0, len(games))
	for _, gm := range games {
		s := gm.Snapshot()
		out = append(out, GameSummary{
			SessionID: s.SessionID,
			Player:    s.PlayerName,
			Day:       s.Level,
			Food:      s.Food,
			State:     s.State.String(),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Day != out[j].Day {
			return out[i].Day > out[j].Day
		}
		return out[i].SessionID < out[j].SessionID
	})
	return out
}

// newRand seeds from the config when set so every session plays the same
// dungeon sequence, otherwise from the clock and session.
func (l *Loader) newRand(sessionID string) *rand.Rand {
	if l.cfg.Seed != 0 {
		return rand.New(rand.NewPCG(l.cfg.Seed, l.cfg.Seed))
	}
	h := fnv.New64a()
	h.Write([]byte(sessionID))
	return rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), h.Sum64()))
}
