package ui

import (
	"testing"

	"github.com/Mshel/sshrogue/internal/config"
	"github.com/Mshel/sshrogue/internal/game"
	tea "github.com/charmbracelet/bubbletea"
)

func glyphs(rows [][]tile) []string {
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		var line string
		for _, t := range row {
			line += t.glyph
		}
		out = append(out, line)
	}
	return out
}

func smallSnapshot() game.Snapshot {
	cells := map[game.Position]game.Cell{}
	for x := 0; x < 3; x++ {
		for y := 0; y < 2; y++ {
			cells[game.Position{X: x, Y: y}] = game.Cell{Kind: game.KindFloor}
		}
	}
	cells[game.Position{X: 2, Y: 1}] = game.Cell{Kind: game.KindExit}
	cells[game.Position{X: 1, Y: 1}] = game.Cell{Kind: game.KindWall, HitPoints: 3}
	cells[game.Position{X: 2, Y: 0}] = game.Cell{Kind: game.KindFood}

	return game.Snapshot{
		Columns: 3,
		Rows:    2,
		State:   game.StatePlayerTurn,
		Player:  game.Position{X: 0, Y: 0},
		Enemies: []game.EnemyView{{Name: "Vampire", Position: game.Position{X: 0, Y: 1}}},
		Cells:   cells,
	}
}

func TestBoardTilesTopRowFirst(t *testing.T) {
	got := glyphs(boardTiles(smallSnapshot()))
	want := []string{
		"█████",
		"█V▓>█",
		"█@·%█",
		"█████",
	}
	if len(got) != len(want) {
		t.Fatalf("rows = %q", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestWallGlyphThinsWithDamage(t *testing.T) {
	s := smallSnapshot()
	pos := game.Position{X: 1, Y: 1}
	seen := map[string]bool{}
	for hp := 3; hp >= 1; hp-- {
		s.Cells[pos] = game.Cell{Kind: game.KindWall, HitPoints: hp}
		seen[tileAt(s, pos).glyph] = true
	}
	if len(seen) != 3 {
		t.Errorf("wall glyphs = %v", seen)
	}
}

func TestDirectionForKey(t *testing.T) {
	tests := map[string]game.Direction{
		"w": game.Up, "up": game.Up,
		"s": game.Down, "down": game.Down,
		"a": game.Left, "left": game.Left,
		"d": game.Right, "right": game.Right,
	}
	for key, want := range tests {
		if got, ok := directionForKey(key); !ok || got != want {
			t.Errorf("%s -> %+v, %v", key, got, ok)
		}
	}
	if _, ok := directionForKey("x"); ok {
		t.Error("x mapped to a direction")
	}
}

func TestGameOverUpdateSwitchesScreen(t *testing.T) {
	m := NewGameModel(nil, nil, 80, 24)
	s := smallSnapshot()
	s.State = game.StateGameOver
	s.Level = 7
	s.LevelText = "Day 7 could not be built. The dungeon is closed."

	next, _ := m.Update(game.StateUpdateMsg{Snapshot: s})
	gv := next.(GameViewModel)
	if gv.gameState != StateGameOver || gv.gameOverState.Days != 7 {
		t.Errorf("state = %v, days = %d", gv.gameState, gv.gameOverState.Days)
	}
	if gv.gameOverState.Message != s.LevelText {
		t.Errorf("message = %q", gv.gameOverState.Message)
	}
}

type fakeLeaderboard struct{ scores []game.Score }

func (f fakeLeaderboard) GetHighScores(limit, offset int) ([]game.Score, error) {
	return f.scores, nil
}

func TestLeaderboardFromIntroReturnsToIntro(t *testing.T) {
	loader := game.NewLoader(config.Default(), game.LoaderOptions{})
	c := NewControllerModel(loader, fakeLeaderboard{scores: []game.Score{{PlayerName: "ana", Days: 4}}}, "s1", 80, 24)

	next, _ := c.Update(IntroSubmitMsg(1))
	c = next.(ControllerModel)
	next, _ = c.Update(ShowLeaderboardMsg{})
	c = next.(ControllerModel)
	gv := c.GameModel.(GameViewModel)
	if gv.gameState != StateLeaderboard || len(gv.gameOverState.entries) != 1 {
		t.Fatalf("leaderboard not shown: %+v", gv.gameOverState)
	}

	_, cmd := c.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter on the leaderboard did nothing")
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok && len(batch) == 1 {
		msg = batch[0]()
	}
	if _, ok := msg.(QuitGameMsg); !ok {
		t.Error("expected QuitGameMsg")
	}
	if _, ok := loader.Get("s1"); ok {
		t.Error("browsing the leaderboard started a game")
	}
}

func TestControllerStartsAndUnloadsGame(t *testing.T) {
	loader := game.NewLoader(config.Default(), game.LoaderOptions{})
	c := NewControllerModel(loader, nil, "s1", 80, 24)

	next, _ := c.Update(SetupSubmitMsg{Name: "ana"})
	c = next.(ControllerModel)
	if c.CurrentScreen != GameScreen {
		t.Fatalf("screen = %v", c.CurrentScreen)
	}
	if gm, ok := loader.Get("s1"); !ok || gm.PlayerName != "ana" {
		t.Fatal("game not loaded for the session")
	}

	c.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if _, ok := loader.Get("s1"); ok {
		t.Error("quitting left the game running")
	}
}

func TestSetupNameDefaults(t *testing.T) {
	m := NewInitialSetupModel(80, 24)
	if m.PlayerName() != defaultPlayerName {
		t.Errorf("blank name = %q", m.PlayerName())
	}
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("  bo ")})
	if got := next.(SetupModel).PlayerName(); got != "bo" {
		t.Errorf("name = %q", got)
	}
}
