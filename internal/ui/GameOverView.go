package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Mshel/sshrogue/internal/game"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
)

const leaderboardSize = 10

// GameOverState holds the data and local state for rendering the game over screens.
type GameOverState struct {
	Scores         LeaderboardSource
	Days           int
	Message        string
	SelectedButton int
	ScreenWidth    int
	ScreenHeight   int

	entries []game.Score
	loadErr error
}

var (
	GameOverbuttonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("250")).
				Padding(0, 3).
				Margin(1, 1).
				Bold(true)

	selectedButtonStyle = GameOverbuttonStyle.
				Background(lipgloss.Color("130")).
				Foreground(lipgloss.Color("15"))

	leaderboardHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("236")).
				Padding(0, 1).
				Align(lipgloss.Center)

	leaderboardRowStyle = lipgloss.NewStyle().
				Padding(0, 1)

	leaderboardBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder(), false, false, true, false).
				BorderForeground(lipgloss.Color("8"))
)

// Refresh reloads the top scores.
func (g *GameOverState) Refresh() {
	if g.Scores == nil {
		g.entries, g.loadErr = nil, nil
		return
	}
	g.entries, g.loadErr = g.Scores.GetHighScores(leaderboardSize, 0)
	if g.loadErr != nil {
		log.Error("Failed to load leaderboard", "error", g.loadErr)
	}
}

// RenderGameOverScreen draws the starvation message and buttons.
func (g *GameOverState) RenderGameOverScreen() string {
	messageStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("9")).
		Padding(2, 5).
		Align(lipgloss.Center)

	message := g.Message
	if message == "" {
		message = fmt.Sprintf(game.GameOverTextFormat, g.Days)
	}
	title := messageStyle.Render(message)

	exitButton := GameOverbuttonStyle.Render("EXIT")
	leaderboardButton := GameOverbuttonStyle.Render("LEADERBOARD")

	if g.SelectedButton == 0 {
		exitButton = selectedButtonStyle.Render("EXIT")
	} else {
		leaderboardButton = selectedButtonStyle.Render("LEADERBOARD")
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Center, exitButton, leaderboardButton)
	content := lipgloss.JoinVertical(lipgloss.Center, title, buttons)

	return lipgloss.Place(g.ScreenWidth, g.ScreenHeight,
		lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Border(lipgloss.ThickBorder()).Render(content),
	)
}

// RenderLeaderboardScreen draws the longest survivals.
func (g *GameOverState) RenderLeaderboardScreen() string {
	var tableContent strings.Builder

	nameWidth := 20
	daysWidth := 6
	foodWidth := 6
	whenWidth := 16

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		leaderboardHeaderStyle.Width(4).Render("#"),
		leaderboardHeaderStyle.Width(nameWidth).Render("Scavenger"),
		leaderboardHeaderStyle.Width(daysWidth).Render("Days"),
		leaderboardHeaderStyle.Width(foodWidth).Render("Food"),
		leaderboardHeaderStyle.Width(whenWidth).Render("When"),
	)
	tableContent.WriteString(header + "\n")

	switch {
	case g.Scores == nil:
		tableContent.WriteString(leaderboardRowStyle.Render("High scores are not recorded on this server.") + "\n")
	case g.loadErr != nil:
		tableContent.WriteString(leaderboardRowStyle.Render("Could not load high scores.") + "\n")
	case len(g.entries) == 0:
		tableContent.WriteString(leaderboardRowStyle.Render("Nobody has starved yet.") + "\n")
	}

	for i, score := range g.entries {
		row := lipgloss.JoinHorizontal(lipgloss.Top,
			leaderboardRowStyle.Width(4).Render(strconv.Itoa(i+1)),
			leaderboardRowStyle.Width(nameWidth).Render(score.PlayerName),
			leaderboardRowStyle.Width(daysWidth).Render(strconv.Itoa(score.Days)),
			leaderboardRowStyle.Width(foodWidth).Render(strconv.Itoa(score.Food)),
			leaderboardRowStyle.Width(whenWidth).Render(humanize.Time(score.CreatedAt)),
		)
		tableContent.WriteString(leaderboardBorderStyle.Render(row) + "\n")
	}

	title := lipgloss.NewStyle().Bold(true).Padding(1, 0).Render("LONGEST SURVIVALS")
	instruction := lipgloss.NewStyle().Faint(true).Margin(1, 0).Render("Press ESC or ENTER to go back.")

	finalContent := lipgloss.JoinVertical(lipgloss.Center,
		title,
		tableContent.String(),
		instruction,
	)

	return lipgloss.Place(g.ScreenWidth, g.ScreenHeight,
		lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Border(lipgloss.ThickBorder()).Render(finalContent),
	)
}
