package ui

import (
	"github.com/Mshel/sshrogue/internal/game"
	tea "github.com/charmbracelet/bubbletea"
)

type Screen int

const (
	IntroScreen Screen = iota
	SetupScreen
	GameScreen
)

// Messages for state transitions
type IntroSubmitMsg int // 0 for Start Game, 1 for Leaderboard
type SetupSubmitMsg struct {
	Name string
}

type ShowLeaderboardMsg struct{}

// ExitGameMsg ends the session from inside the game view.
type ExitGameMsg struct{}

// LeaderboardSource is the read side of the high score table.
type LeaderboardSource interface {
	GetHighScores(limit, offset int) ([]game.Score, error)
}

type ControllerModel struct {
	CurrentScreen Screen
	Loader        *game.Loader
	Scores        LeaderboardSource
	SessionID     string

	IntroModel tea.Model
	SetupModel tea.Model
	GameModel  tea.Model

	ScreenWidth  int
	ScreenHeight int
}

func NewControllerModel(loader *game.Loader, scores LeaderboardSource, sessionID string, screenWidth int, screenHeight int) ControllerModel {
	return ControllerModel{
		Loader:        loader,
		Scores:        scores,
		SessionID:     sessionID,
		CurrentScreen: IntroScreen,

		IntroModel: NewIntroModel(screenWidth, screenHeight),
		SetupModel: NewInitialSetupModel(screenWidth, screenHeight),

		ScreenWidth:  screenWidth,
		ScreenHeight: screenHeight,
	}
}

func (m ControllerModel) Init() tea.Cmd {
	return m.IntroModel.Init()
}

func (m ControllerModel) View() string {
	switch m.CurrentScreen {
	case IntroScreen:
		return m.IntroModel.View()
	case SetupScreen:
		return m.SetupModel.View()
	case GameScreen:
		if m.GameModel != nil {
			return m.GameModel.View()
		}
		return "Game Loading..."
	default:
		return "Unknown Screen"
	}
}

func (m ControllerModel) quit() (tea.Model, tea.Cmd) {
	m.Loader.Unload(m.SessionID)
	return m, tea.Quit
}

func (m ControllerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	// "q" is a letter while the name field has focus
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "ctrl+c" || (msg.String() == "q" && m.CurrentScreen != SetupScreen) {
			return m.quit()
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ScreenWidth, m.ScreenHeight = msg.Width, msg.Height
		m.IntroModel, _ = m.IntroModel.Update(msg)
		m.SetupModel, _ = m.SetupModel.Update(msg)
		if m.GameModel != nil {
			m.GameModel, _ = m.GameModel.Update(msg)
		}
		return m, nil

	case IntroSubmitMsg:
		switch msg {
		case 0:
			m.CurrentScreen = SetupScreen
			return m, m.SetupModel.Init()
		case 1:
			m.CurrentScreen = GameScreen
			m.GameModel = NewGameModel(nil, m.Scores, m.ScreenWidth, m.ScreenHeight)
			return m, tea.Sequence(m.GameModel.Init(), func() tea.Msg { return ShowLeaderboardMsg{} })
		}

	case SetupSubmitMsg:
		m.CurrentScreen = GameScreen
		gm := m.Loader.Load(m.SessionID, msg.Name)
		m.GameModel = NewGameModel(gm, m.Scores, m.ScreenWidth, m.ScreenHeight)
		return m, m.GameModel.Init()

	case QuitGameMsg:
		// back from the leaderboard opened on the intro screen
		m.CurrentScreen = IntroScreen
		m.GameModel = nil
		return m, m.IntroModel.Init()

	case ExitGameMsg:
		return m.quit()

	default:
		switch m.CurrentScreen {
		case IntroScreen:
			m.IntroModel, cmd = m.IntroModel.Update(msg)
			cmds = append(cmds, cmd)
		case SetupScreen:
			m.SetupModel, cmd = m.SetupModel.Update(msg)
			cmds = append(cmds, cmd)
		case GameScreen:
			if m.GameModel != nil {
				m.GameModel, cmd = m.GameModel.Update(msg)
				cmds = append(cmds, cmd)
			}
		}
	}

	return m, tea.Batch(cmds...)
}
