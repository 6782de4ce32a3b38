package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Mshel/sshrogue/internal/game"
	"github.com/gin-gonic/gin"
)

type fakeScores struct {
	scores    []game.Score
	err       error
	gotLimit  int
	gotOffset int
}

func (f *fakeScores) GetHighScores(limit, offset int) ([]game.Score, error) {
	f.gotLimit, f.gotOffset = limit, offset
	if f.err != nil {
		return nil, f.err
	}
	end := min(offset+limit, len(f.scores))
	if offset >= end {
		return nil, nil
	}
	return f.scores[offset:end], nil
}

func (f *fakeScores) GetTotalScoreCount() (int, error) {
	return len(f.scores), f.err
}

type fakeGames []game.GameSummary

func (f fakeGames) Active() []game.GameSummary { return f }

func init() {
	gin.SetMode(gin.TestMode)
}

func get(t *testing.T, router http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(rec, req)
	return rec
}

func TestListHighScores(t *testing.T) {
	now := time.Now().UTC()
	scores := &fakeScores{scores: []game.Score{
		{ID: 1, PlayerName: "ana", Days: 9, Food: 4, CreatedAt: now.Add(-2 * time.Hour)},
		{ID: 2, PlayerName: "bo", Days: 5, Food: 0, CreatedAt: now},
		{ID: 3, PlayerName: "cy", Days: 1, Food: 0, CreatedAt: now},
	}}
	router := NewRouter(scores, fakeGames{}, nil)

	rec := get(t, router, "/api/highscores?limit=2&offset=1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var body struct {
		Scores []rankedScore `json:"scores"`
		Total  int           `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if scores.gotLimit != 2 || scores.gotOffset != 1 {
		t.Errorf("limit/offset = %d/%d", scores.gotLimit, scores.gotOffset)
	}
	if body.Total != 3 || len(body.Scores) != 2 {
		t.Fatalf("body = %+v", body)
	}
	if body.Scores[0].Rank != 2 || body.Scores[0].PlayerName != "bo" {
		t.Errorf("first row = %+v", body.Scores[0])
	}
	if body.Scores[0].Age == "" {
		t.Error("age not filled in")
	}
}

func TestListHighScoresClampsLimit(t *testing.T) {
	tests := map[string]int{
		"/api/highscores":           defaultScoreLimit,
		"/api/highscores?limit=0":   defaultScoreLimit,
		"/api/highscores?limit=500": defaultScoreLimit,
		"/api/highscores?limit=abc": defaultScoreLimit,
		"/api/highscores?limit=100": maxScoreLimit,
	}
	for path, want := range tests {
		scores := &fakeScores{}
		get(t, NewRouter(scores, fakeGames{}, nil), path)
		if scores.gotLimit != want {
			t.Errorf("%s: limit = %d, want %d", path, scores.gotLimit, want)
		}
	}
}

func TestHighScoreErrors(t *testing.T) {
	router := NewRouter(&fakeScores{err: errors.New("disk gone")}, fakeGames{}, nil)
	for _, path := range []string{"/api/highscores", "/api/highscores/count"} {
		if rec := get(t, router, path); rec.Code != http.StatusInternalServerError {
			t.Errorf("%s: status = %d", path, rec.Code)
		}
	}
}

func TestCountAndGames(t *testing.T) {
	scores := &fakeScores{scores: make([]game.Score, 7)}
	games := fakeGames{{SessionID: "s1", Player: "ana", Day: 4, Food: 30, State: "PlayerTurn"}}
	router := NewRouter(scores, games, nil)

	rec := get(t, router, "/api/highscores/count")
	var count struct {
		Total int `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &count); err != nil || count.Total != 7 {
		t.Errorf("count = %s (%v)", rec.Body, err)
	}

	rec = get(t, router, "/api/games")
	var got []game.GameSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != games[0] {
		t.Errorf("games = %+v", got)
	}
}

func TestLiveRouteOnlyWhenProvided(t *testing.T) {
	if rec := get(t, NewRouter(&fakeScores{}, fakeGames{}, nil), "/api/live"); rec.Code != http.StatusNotFound {
		t.Errorf("status without live feed = %d", rec.Code)
	}

	called := false
	live := func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusTeapot)
	}
	rec := get(t, NewRouter(&fakeScores{}, fakeGames{}, live), "/api/live")
	if !called || rec.Code != http.StatusTeapot {
		t.Errorf("live handler not reached, status = %d", rec.Code)
	}
}
