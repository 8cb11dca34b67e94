// internal/httpserver/routes_daily.go
//
// HTTP routes for the daily practice mode.
// Exposes three endpoints under /daily:
//   - GET  /daily/list        → today's practice list (same for everyone)
//   - POST /daily/score       → record today's score (once per game per day)
//   - GET  /daily/leaderboard → fetch top 20 scores for today (or a given date)
//
// The day's list is picked deterministically from the built-in vocabulary
// lists via HMAC(salt, date), so all players practice the same words.
// Scores persist in SQLite; the first accepted score per (user, game, day)
// wins and later submissions are ignored.

package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/talbenari/wordgarden/internal/daily"
	"github.com/talbenari/wordgarden/internal/games"
	"github.com/talbenari/wordgarden/internal/vocab"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv   *Server
	store *daily.Store
	salt  string
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{
		srv:   s,
		store: daily.NewStore(s.db),
		salt:  getEnv("DAILY_SALT", "local_dev_salt"),
	}
	r.Route("/daily", func(r chi.Router) {
		r.Get("/list", dd.handleList)
		r.Post("/score", dd.handleScore)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// todayList returns today's date key, list index, and the list itself.
func (d *dailyServer) todayList() (date string, idx int, list vocab.List) {
	now := time.Now().UTC()
	date = daily.DateKey(now)
	lists := vocab.Lists()
	if len(lists) == 0 {
		return date, 0, vocab.List{}
	}
	idx = daily.ListIndex(now, d.salt, len(lists))
	return date, idx, lists[idx]
}

// -----------------------------------------------------------------------------
// /daily/list

// dailyListRes is returned by GET /daily/list.
type dailyListRes struct {
	Date      string     `json:"date"`
	ListIndex int        `json:"listIndex"`
	List      vocab.List `json:"list"`
	Played    bool       `json:"played"`
}

// handleList returns today's practice list and whether the caller has
// already recorded a word-match score for it.
func (d *dailyServer) handleList(w http.ResponseWriter, r *http.Request) {
	uid := d.srv.ownerID(w, r)
	date, idx, list := d.todayList()
	played, err := d.store.AlreadyPlayed(r.Context(), uid, date, games.KindWordMatch)
	if err != nil {
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(dailyListRes{Date: date, ListIndex: idx, List: list, Played: played})
}

// -----------------------------------------------------------------------------
// /daily/score

// dailyScoreReq is the payload for POST /daily/score.
type dailyScoreReq struct {
	Game      string `json:"game"`
	Score     int    `json:"score"`
	ElapsedMs int    `json:"elapsedMs"`
}

// dailyScoreRes is returned by POST /daily/score.
type dailyScoreRes struct {
	Date     string `json:"date"`
	Recorded bool   `json:"recorded"`
}

// handleScore records today's score for one game. A second submission for
// the same (user, game, day) is silently ignored.
func (d *dailyServer) handleScore(w http.ResponseWriter, r *http.Request) {
	uid := d.srv.ownerID(w, r)

	var p dailyScoreReq
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	if p.Game == "" || p.Score < 0 || p.ElapsedMs < 0 {
		http.Error(w, `{"error":"invalid"}`, http.StatusBadRequest)
		return
	}

	date, idx, _ := d.todayList()
	if played, err := d.store.AlreadyPlayed(r.Context(), uid, date, p.Game); err == nil && played {
		_ = json.NewEncoder(w).Encode(dailyScoreRes{Date: date, Recorded: false})
		return
	}
	if err := d.store.InsertScore(r.Context(), daily.Score{
		UserID: uid, Date: date, Game: p.Game,
		ListIndex: idx, Score: p.Score, ElapsedMs: p.ElapsedMs,
	}); err != nil {
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(dailyScoreRes{Date: date, Recorded: true})
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date, _, _ = d.todayList()
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	if rows == nil {
		rows = []daily.LBRow{}
	}
	_ = json.NewEncoder(w).Encode(lbRes{Date: date, Top: rows})
}
