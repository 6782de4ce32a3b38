package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/Mshel/sshrogue/internal/game"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

type GameState int

const (
	StatePlaying GameState = iota
	StateGameOver
	StateLeaderboard
)

const updatePollInterval = 50 * time.Millisecond

var (
	mapViewStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	statusPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("8")).
				Padding(1, 2)

	splashStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("0")).
			Padding(2, 8)

	floorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("236"))
	outerWallStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("94"))
	wallStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("137"))
	foodStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("166")).Bold(true)
	sodaStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	exitStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
	playerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	enemyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("70")).Bold(true)

	// player colour per last action
	actionStyles = map[game.Action]lipgloss.Style{
		game.ActionChop: playerStyle.Foreground(lipgloss.Color("214")),
		game.ActionHit:  playerStyle.Foreground(lipgloss.Color("196")),
	}

	// weaker walls look thinner
	wallRunes = []string{"░", "░", "▒", "▓"}
)

// tile is one rendered board position.
type tile struct {
	glyph string
	style lipgloss.Style
}

func (t tile) render() string {
	// two columns per tile keeps the board roughly square
	return t.style.Render(t.glyph + " ")
}

type GameViewModel struct {
	ScreenWidth  int
	ScreenHeight int

	gameManager *game.GameManager // nil when the leaderboard is opened from the intro
	snapshot    game.Snapshot
	hasSnapshot bool

	gameState     GameState
	gameOverState GameOverState
}

func NewGameModel(gm *game.GameManager, scores LeaderboardSource, screenWidth int, screenHeight int) GameViewModel {
	m := GameViewModel{
		gameManager:  gm,
		ScreenWidth:  screenWidth,
		ScreenHeight: screenHeight,
		gameState:    StatePlaying,
		gameOverState: GameOverState{
			Scores:       scores,
			ScreenWidth:  screenWidth,
			ScreenHeight: screenHeight,
		},
	}
	if gm != nil {
		m.snapshot = gm.Snapshot()
		m.hasSnapshot = m.snapshot.Cells != nil
	}
	return m
}

func (m GameViewModel) Init() tea.Cmd {
	return m.listenForGameUpdates()
}

// QuitGameMsg is sent to the controller to switch back to the intro screen
// when the leaderboard was opened without a game.
type QuitGameMsg struct{}

type gameTickMsg struct{}

// directionForKey maps movement keys to board directions. Up is +Y.
func directionForKey(key string) (game.Direction, bool) {
	switch key {
	case "w", "up", "k":
		return game.Up, true
	case "s", "down", "j":
		return game.Down, true
	case "a", "left", "h":
		return game.Left, true
	case "d", "right", "l":
		return game.Right, true
	}
	return game.Direction{}, false
}

func (m GameViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ScreenWidth, m.ScreenHeight = msg.Width, msg.Height
		m.gameOverState.ScreenWidth, m.gameOverState.ScreenHeight = msg.Width, msg.Height
		return m, nil

	case ShowLeaderboardMsg:
		m.gameState = StateLeaderboard
		m.gameOverState.Refresh()
		return m, nil

	case tea.KeyMsg:
		if m.gameState == StateGameOver || m.gameState == StateLeaderboard {
			return m.updateMenus(msg)
		}

		if m.gameManager == nil {
			return m, nil
		}
		dir, ok := directionForKey(msg.String())
		if !ok {
			return m, nil
		}
		if !m.gameManager.SendDirection(dir) {
			log.Debug("Input dropped outside the player's turn", "session", m.gameManager.SessionID)
		}
		return m, nil

	case gameTickMsg:
		return m, m.listenForGameUpdates()

	case game.StateUpdateMsg:
		m.snapshot = msg.Snapshot
		m.hasSnapshot = true
		if msg.Snapshot.State == game.StateGameOver && m.gameState == StatePlaying {
			log.Info("Game ended, showing Game Over screen.", "player", msg.Snapshot.PlayerName, "days", msg.Snapshot.Level)
			m.gameState = StateGameOver
			m.gameOverState.Days = msg.Snapshot.Level
			m.gameOverState.Message = msg.Snapshot.LevelText
			m.gameOverState.SelectedButton = 0
		}
		return m, m.listenForGameUpdates()
	}

	return m, nil
}

func (m GameViewModel) updateMenus(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	back := func() (tea.Model, tea.Cmd) {
		if m.gameManager != nil {
			m.gameState = StateGameOver
			return m, nil
		}
		return m, func() tea.Msg { return QuitGameMsg{} }
	}

	switch msg.String() {
	case "esc":
		if m.gameState == StateLeaderboard {
			return back()
		}
	case "left", "h":
		if m.gameState == StateGameOver {
			m.gameOverState.SelectedButton = max(0, m.gameOverState.SelectedButton-1)
		}
	case "right", "l":
		if m.gameState == StateGameOver {
			m.gameOverState.SelectedButton = min(1, m.gameOverState.SelectedButton+1)
		}
	case "enter":
		switch m.gameState {
		case StateGameOver:
			// 0: Exit, 1: Leaderboard
			if m.gameOverState.SelectedButton == 0 {
				return m, func() tea.Msg { return ExitGameMsg{} }
			}
			m.gameState = StateLeaderboard
			m.gameOverState.Refresh()
		case StateLeaderboard:
			return back()
		}
	}
	return m, nil
}

func (m GameViewModel) View() string {
	switch m.gameState {
	case StateGameOver:
		return m.gameOverState.RenderGameOverScreen()
	case StateLeaderboard:
		return m.gameOverState.RenderLeaderboardScreen()
	}

	if !m.hasSnapshot {
		return lipgloss.Place(m.ScreenWidth, m.ScreenHeight, lipgloss.Center, lipgloss.Center, "Waiting for the dungeon...")
	}

	if m.snapshot.State == game.StateLevelIntro {
		return lipgloss.Place(m.ScreenWidth, m.ScreenHeight, lipgloss.Center, lipgloss.Center,
			splashStyle.Render(m.snapshot.LevelText))
	}

	board := mapViewStyle.Render(renderBoard(m.snapshot))
	status := statusPanelStyle.Render(m.renderStatusPanel())

	return lipgloss.Place(m.ScreenWidth, m.ScreenHeight, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinHorizontal(lipgloss.Top, board, status))
}

// boardTiles lays out the snapshot top row first, including the outer wall
// ring at -1 and Columns/Rows.
func boardTiles(s game.Snapshot) [][]tile {
	rows := make([][]tile, 0, s.Rows+2)
	for y := s.Rows; y >= -1; y-- {
		row := make([]tile, 0, s.Columns+2)
		for x := -1; x <= s.Columns; x++ {
			row = append(row, tileAt(s, game.Position{X: x, Y: y}))
		}
		rows = append(rows, row)
	}
	return rows
}

func tileAt(s game.Snapshot, pos game.Position) tile {
	if pos == s.Player {
		style, ok := actionStyles[s.LastAction]
		if !ok {
			style = playerStyle
		}
		return tile{glyph: "@", style: style}
	}
	if e, ok := s.EnemyAt(pos); ok {
		glyph := "E"
		if e.Name != "" {
			glyph = strings.ToUpper(e.Name[:1])
		}
		return tile{glyph: glyph, style: enemyStyle}
	}

	cell := s.CellAt(pos)
	switch cell.Kind {
	case game.KindOuterWall:
		return tile{glyph: "█", style: outerWallStyle}
	case game.KindWall:
		hp := min(max(cell.HitPoints, 0), len(wallRunes)-1)
		return tile{glyph: wallRunes[hp], style: wallStyle}
	case game.KindFood:
		return tile{glyph: "%", style: foodStyle}
	case game.KindSoda:
		return tile{glyph: "!", style: sodaStyle}
	case game.KindExit:
		return tile{glyph: ">", style: exitStyle}
	}
	return tile{glyph: "·", style: floorStyle}
}

func renderBoard(s game.Snapshot) string {
	var sb strings.Builder
	for i, row := range boardTiles(s) {
		if i > 0 {
			sb.WriteString("\n")
		}
		for _, t := range row {
			sb.WriteString(t.render())
		}
	}
	return sb.String()
}

func (m GameViewModel) renderStatusPanel() string {
	s := m.snapshot
	var statusContent strings.Builder

	statusContent.WriteString(lipgloss.NewStyle().Bold(true).Render("--- Scavenger ---") + "\n")
	statusContent.WriteString(s.PlayerName + "\n")
	statusContent.WriteString(s.LevelText + "\n")
	statusContent.WriteString(foodStyle.Render(s.FoodText) + "\n")
	turn := "Enemies"
	if s.State == game.StatePlayerTurn {
		turn = "Yours"
	}
	statusContent.WriteString(fmt.Sprintf("Turn: %s\n", turn))
	statusContent.WriteString(fmt.Sprintf("Enemies: %d\n", len(s.Enemies)))

	statusContent.WriteString("\n" + lipgloss.NewStyle().Bold(true).Render("--- Legend ---") + "\n")
	statusContent.WriteString(playerStyle.Render("@") + " you   " + enemyStyle.Render("Z V") + " enemies\n")
	statusContent.WriteString(foodStyle.Render("%") + " food  " + sodaStyle.Render("!") + " soda\n")
	statusContent.WriteString(wallStyle.Render("▓") + " wall  " + exitStyle.Render(">") + " exit\n")

	statusContent.WriteString("\n" + lipgloss.NewStyle().Bold(true).Render("--- Controls ---") + "\n")
	statusContent.WriteString("WASD / Arrows: Move\n")
	statusContent.WriteString("Q / Ctrl+C: Quit Game\n")

	return statusContent.String()
}

// listenForGameUpdates polls the game's update channel so the program never
// blocks on a session that has gone away.
func (m GameViewModel) listenForGameUpdates() tea.Cmd {
	if m.gameManager == nil {
		return nil
	}
	updates := m.gameManager.UpdateChannel
	return tea.Tick(updatePollInterval, func(t time.Time) tea.Msg {
		select {
		case msg := <-updates:
			return msg
		default:
			return gameTickMsg{}
		}
	})
}
