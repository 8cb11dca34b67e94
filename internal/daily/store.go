package daily

import (
	"context"
	"database/sql"
)

type Score struct {
	UserID    string `json:"userId"`
	Date      string `json:"date"`
	Game      string `json:"game"`
	ListIndex int    `json:"listIndex"`
	Score     int    `json:"score"`
	ElapsedMs int    `json:"elapsedMs"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// AlreadyPlayed reports whether the user has a score recorded for the
// given game on the given date. One scored attempt per game per day.
func (s *Store) AlreadyPlayed(ctx context.Context, userID, date, game string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM daily_scores WHERE user_id=? AND date=? AND game=?",
		userID, date, game,
	).Scan(&cnt)
	return cnt > 0, err
}

func (s *Store) InsertScore(ctx context.Context, sc Score) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_scores(user_id, date, game, list_index, score, elapsed_ms)
		VALUES(?,?,?,?,?,?)`, sc.UserID, sc.Date, sc.Game, sc.ListIndex, sc.Score, sc.ElapsedMs,
	)
	return err
}

type LBRow struct {
	UserID    string `json:"userId"`
	Game      string `json:"game"`
	Score     int    `json:"score"`
	ElapsedMs int    `json:"elapsedMs"`
}

// Leaderboard lists the day's best scores, highest score first with
// elapsed time breaking ties.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, game, score, elapsed_ms
		FROM daily_scores
		WHERE date=?
		ORDER BY score DESC, elapsed_ms ASC, created_at ASC
		LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []LBRow
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.UserID, &r.Game, &r.Score, &r.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
