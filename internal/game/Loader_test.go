package game

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Mshel/sshrogue/internal/audio"
)

func TestLoaderBootstrapsOncePerSession(t *testing.T) {
	cfg := testConfig()
	cfg.Seed = 11
	sounds := 0
	loader := NewLoader(cfg, LoaderOptions{
		NewSound: func(string) audio.SoundPlayer {
			sounds++
			return audio.NopPlayer{}
		},
	})

	a := loader.Load("one", "alice")
	defer loader.Unload("one")
	if again := loader.Load("one", "someone else"); again != a {
		t.Fatal("second Load created a new game for the same session")
	}
	b := loader.Load("two", "bob")
	defer loader.Unload("two")
	if a == b {
		t.Fatal("sessions share a game")
	}
	if sounds != 2 {
		t.Errorf("sound players built = %d, want 2", sounds)
	}

	if got, ok := loader.Get("one"); !ok || got != a {
		t.Error("Get did not return the loaded game")
	}

	active := loader.Active()
	if len(active) != 2 {
		t.Fatalf("active = %+v", active)
	}
	names := map[string]bool{active[0].Player: true, active[1].Player: true}
	if !names["alice"] || !names["bob"] {
		t.Errorf("active players = %v", names)
	}
}

func TestLoaderUnloadStopsGame(t *testing.T) {
	loader := NewLoader(testConfig(), LoaderOptions{})
	loader.Load("gone", "carol")
	loader.Unload("gone")
	loader.Unload("gone")

	if _, ok := loader.Get("gone"); ok {
		t.Error("game still registered after Unload")
	}
	if len(loader.Active()) != 0 {
		t.Error("Active lists an unloaded game")
	}
}

func TestLoaderSeedMakesSessionsIdentical(t *testing.T) {
	cfg := testConfig()
	cfg.Seed = 1234
	cfg.Timing.LevelStartDelay.Duration = time.Hour
	loader := NewLoader(cfg, LoaderOptions{})
	defer loader.Unload("a")
	defer loader.Unload("b")

	a := loader.Load("a", "a")
	b := loader.Load("b", "b")

	deadline := time.Now().Add(2 * time.Second)
	for a.Snapshot().Cells == nil || b.Snapshot().Cells == nil {
		if time.Now().After(deadline) {
			t.Fatal("games never initialised")
		}
		time.Sleep(5 * time.Millisecond)
	}

	sa, sb := a.Snapshot(), b.Snapshot()
	for pos, cell := range sa.Cells {
		if sb.Cells[pos] != cell {
			t.Fatalf("seeded sessions differ at %+v: %+v vs %+v", pos, cell, sb.Cells[pos])
		}
	}
}

func TestLuaStrategy(t *testing.T) {
	s, err := NewLuaStrategy("flee", `
		function getNextDirection(enemy, target)
			if target.X > enemy.X then
				return {Dx=-1, Dy=0}
			end
			return {Dx=1, Dy=0}
		end
	`)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	got, err := s.NextDirection(Position{X: 2, Y: 2}, Position{X: 5, Y: 2})
	if err != nil {
		t.Fatal(err)
	}
	if got != Left {
		t.Errorf("got %+v, want left", got)
	}
}

func TestLuaStrategyErrors(t *testing.T) {
	if _, err := NewLuaStrategy("syntax", "function ("); err == nil {
		t.Error("expected parse error")
	}
	if _, err := NewLuaStrategy("missing", "x = 1"); err == nil {
		t.Error("expected error for missing getNextDirection")
	}

	tests := map[string]string{
		"not a table": `function getNextDirection(e, t) return 3 end`,
		"diagonal":    `function getNextDirection(e, t) return {Dx=1, Dy=1} end`,
		"runtime":     `function getNextDirection(e, t) error("boom") end`,
	}
	for name, script := range tests {
		t.Run(name, func(t *testing.T) {
			s, err := NewLuaStrategy(name, script)
			if err != nil {
				t.Fatal(err)
			}
			defer s.Close()
			if _, err := s.NextDirection(Position{}, Position{X: 1}); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadLuaStrategyFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chase.lua")
	script := `function getNextDirection(e, t) return {Dx=0, Dy=1} end`
	if err := os.WriteFile(path, []byte(script), 0o600); err != nil {
		t.Fatal(err)
	}
	s, err := LoadLuaStrategy(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if got, _ := s.NextDirection(Position{}, Position{}); got != Up {
		t.Errorf("got %+v", got)
	}

	if _, err := LoadLuaStrategy(filepath.Join(t.TempDir(), "nope.lua")); err == nil {
		t.Error("expected error for missing file")
	}
}
