package main

import (
	"context"
	"errors"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Mshel/sshrogue/internal/api"
	"github.com/Mshel/sshrogue/internal/config"
	"github.com/Mshel/sshrogue/internal/game"
	"github.com/Mshel/sshrogue/internal/network"
	"github.com/Mshel/sshrogue/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 30 * time.Second

func main() {
	configPath := flag.String("config", "", "path to a JSON config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal("Failed to load config", "path", *configPath, "error", err)
	}
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn("Unknown log level, using info", "level", cfg.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)

	scores, err := game.NewHighScoreService(cfg.HighScoreDB)
	if err != nil {
		log.Fatal("Failed to open high score database", "path", cfg.HighScoreDB, "error", err)
	}
	defer scores.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts := game.LoaderOptions{Scores: scores}

	if cfg.EnemyScript != "" {
		strategy, err := game.LoadLuaStrategy(cfg.EnemyScript)
		if err != nil {
			log.Fatal("Failed to load enemy script", "path", cfg.EnemyScript, "error", err)
		}
		defer strategy.Close()
		opts.Strategy = strategy
		log.Info("Enemies follow script", "path", cfg.EnemyScript)
	}

	var httpServer *http.Server
	var hub *network.Hub
	if cfg.Server.HTTPAddress != "" {
		hub = network.NewHub()
		go hub.Run(ctx)
		opts.Events = hub
	}

	loader := game.NewLoader(cfg, opts)

	if hub != nil {
		gin.SetMode(gin.ReleaseMode)
		httpServer = &http.Server{
			Addr:              cfg.Server.HTTPAddress,
			Handler:           api.NewRouter(scores, loader, hub.ServeWS),
			ReadHeaderTimeout: 10 * time.Second,
		}
	}

	limiter := newConnectionLimiter(cfg.Server.MaxConnectionsPerIP)
	sshServer, err := wish.NewServer(
		wish.WithAddress(net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)),
		wish.WithHostKeyPath(cfg.Server.HostKeyPath),
		wish.WithMiddleware(
			bubbletea.Middleware(viewHandler(loader, scores)),
			logging.Middleware(),
			activeterm.Middleware(),
			limiter.Middleware,
		),
	)
	if err != nil {
		log.Fatal("Failed to create ssh server", "error", err)
	}

	serverDoneChannel := make(chan os.Signal, 1)
	signal.Notify(serverDoneChannel, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	log.Info("Starting SSH server", "host", cfg.Server.Host, "port", cfg.Server.Port)
	go func() {
		if err := sshServer.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			log.Error("Could not start server", "error", err)
			serverDoneChannel <- nil
		}
	}()

	if httpServer != nil {
		log.Info("Starting HTTP API", "addr", httpServer.Addr)
		go func() {
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("HTTP API stopped", "error", err)
				serverDoneChannel <- nil
			}
		}()
	}

	<-serverDoneChannel

	log.Info("Stopping servers")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := sshServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		log.Error("Could not stop ssh server", "error", err)
	}
	if httpServer != nil {
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("Could not stop HTTP API", "error", err)
		}
	}
}

func viewHandler(loader *game.Loader, scores ui.LeaderboardSource) bubbletea.Handler {
	return func(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
		pty, _, _ := sshSession.Pty()
		sessionID := sshSession.Context().SessionID()

		// the program may end without the player quitting
		go func() {
			<-sshSession.Context().Done()
			loader.Unload(sessionID)
		}()

		controllerModel := ui.NewControllerModel(loader, scores, sessionID, pty.Window.Width, pty.Window.Height)
		return controllerModel, []tea.ProgramOption{tea.WithAltScreen()}
	}
}
