package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Mshel/sshrogue/internal/game"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
)

const (
	defaultScoreLimit = 10
	maxScoreLimit     = 100
)

// ScoreReader is the read side of the leaderboard.
type ScoreReader interface {
	GetHighScores(limit, offset int) ([]game.Score, error)
	GetTotalScoreCount() (int, error)
}

// GameLister reports the sessions currently in play.
type GameLister interface {
	Active() []game.GameSummary
}

type rankedScore struct {
	Rank       int       `json:"rank"`
	PlayerName string    `json:"player_name"`
	Days       int       `json:"days"`
	Food       int       `json:"food"`
	CreatedAt  time.Time `json:"created_at"`
	Age        string    `json:"age"`
}

type handler struct {
	scores ScoreReader
	games  GameLister
}

// NewRouter wires the public read-only API. live may be nil, in which case
// the live feed route is not registered.
func NewRouter(scores ScoreReader, games GameLister, live http.HandlerFunc) *gin.Engine {
	h := &handler{scores: scores, games: games}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	api := router.Group("/api")
	{
		api.GET("/highscores", h.listHighScores)
		api.GET("/highscores/count", h.countHighScores)
		api.GET("/games", h.listGames)
		if live != nil {
			api.GET("/live", gin.WrapF(live))
		}
	}
	return router
}

func (h *handler) listHighScores(c *gin.Context) {
	limit := defaultScoreLimit
	if s := c.Query("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= maxScoreLimit {
			limit = n
		}
	}
	offset := 0
	if s := c.Query("offset"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 0 {
			offset = n
		}
	}

	scores, err := h.scores.GetHighScores(limit, offset)
	if err != nil {
		log.Error("Failed to fetch high scores", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch high scores"})
		return
	}
	total, err := h.scores.GetTotalScoreCount()
	if err != nil {
		log.Error("Failed to count high scores", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count high scores"})
		return
	}

	out := make([]rankedScore, 0, len(scores))
	for i, s := range scores {
		out = append(out, rankedScore{
			Rank:       offset + i + 1,
			PlayerName: s.PlayerName,
			Days:       s.Days,
			Food:       s.Food,
			CreatedAt:  s.CreatedAt,
			Age:        humanize.Time(s.CreatedAt),
		})
	}
	c.JSON(http.StatusOK, gin.H{"scores": out, "total": total})
}

func (h *handler) countHighScores(c *gin.Context) {
	total, err := h.scores.GetTotalScoreCount()
	if err != nil {
		log.Error("Failed to count high scores", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count high scores"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": total})
}

func (h *handler) listGames(c *gin.Context) {
	c.JSON(http.StatusOK, h.games.Active())
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("HTTP request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"took", time.Since(start))
	}
}
