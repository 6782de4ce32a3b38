package main

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/Mshel/sshrogue/internal/audio"
	"github.com/Mshel/sshrogue/internal/config"
	"github.com/Mshel/sshrogue/internal/game"
	"github.com/Mshel/sshrogue/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

const localSession = "local"

func main() {
	configPath := flag.String("config", "", "path to a JSON config file")
	logPath := flag.String("log", "sshrogue.log", "file to write logs to")
	mute := flag.Bool("mute", false, "disable sound")
	flag.Parse()

	// the terminal belongs to the game, logs go to a file
	logFile, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Printf("error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	log.SetOutput(logFile)

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("error loading config: %v\n", err)
		os.Exit(1)
	}
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	var sound audio.SoundPlayer = audio.NopPlayer{}
	if !*mute {
		sm := audio.NewSoundManager(rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)))
		if err := sm.Initialize(); err != nil {
			log.Warn("No audio device, playing silently", "error", err)
		} else {
			defer sm.Cleanup()
			sound = sm
		}
	}

	opts := game.LoaderOptions{
		NewSound: func(string) audio.SoundPlayer { return sound },
	}
	var scores ui.LeaderboardSource
	if hs, err := game.NewHighScoreService(cfg.HighScoreDB); err != nil {
		log.Warn("High scores disabled", "path", cfg.HighScoreDB, "error", err)
	} else {
		defer hs.Close()
		opts.Scores = hs
		scores = hs
	}
	if cfg.EnemyScript != "" {
		strategy, err := game.LoadLuaStrategy(cfg.EnemyScript)
		if err != nil {
			log.Warn("Enemy script not loaded, using the default chase", "path", cfg.EnemyScript, "error", err)
		} else {
			defer strategy.Close()
			opts.Strategy = strategy
		}
	}

	loader := game.NewLoader(cfg, opts)
	defer loader.Unload(localSession)

	p := tea.NewProgram(ui.NewControllerModel(loader, scores, localSession, 0, 0), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error %v", err)
		os.Exit(1)
	}
}
