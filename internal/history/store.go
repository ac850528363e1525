package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/warehouse-sim/warehouse-sim/sim"
)

var ErrNotFound = errors.New("not found")

// Store reads and writes finished sessions.
type Store struct {
	DB *sql.DB
}

const selectColumns = `id,session_id,user_id,date,mode,play_style,time_seconds,moves,cost,rounds,items_completed,layout_json`

// Save inserts rec. A record without an id gets a fresh UUID.
func (s Store) Save(ctx context.Context, rec sim.FinishedSession) (sim.FinishedSession, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Layout == nil {
		return rec, fmt.Errorf("saving session %s: missing layout", rec.ID)
	}
	layout, err := json.Marshal(rec.Layout)
	if err != nil {
		return rec, fmt.Errorf("encoding layout: %w", err)
	}
	_, err = s.DB.ExecContext(ctx, `INSERT INTO finished_sessions(`+selectColumns+`) VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		rec.ID, rec.SessionID, rec.UserID, rec.Date.UTC().Format(time.RFC3339Nano), string(rec.Mode), string(rec.PlayStyle),
		rec.TimeSeconds, rec.Moves, rec.Cost, rec.Rounds, rec.ItemsCompleted, string(layout))
	if err != nil {
		return rec, fmt.Errorf("saving session %s: %w", rec.ID, err)
	}
	return rec, nil
}

// Get returns one record by id.
func (s Store) Get(ctx context.Context, id string) (sim.FinishedSession, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM finished_sessions WHERE id=?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, ErrNotFound
	}
	return rec, err
}

// List returns a user's records, newest first. An empty userID lists everyone.
// limit <= 0 means no limit.
func (s Store) List(ctx context.Context, userID string, limit int) ([]sim.FinishedSession, error) {
	q := `SELECT ` + selectColumns + ` FROM finished_sessions`
	var args []any
	if userID != "" {
		q += ` WHERE user_id=?`
		args = append(args, userID)
	}
	q += ` ORDER BY date DESC, id`
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []sim.FinishedSession
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, rec)
	}
	return res, rows.Err()
}

// Stats summarises a user's played sessions.
type Stats struct {
	Sessions    int
	AverageCost float64
	BestTime    int64 // fewest seconds of any session; 0 when none
	TotalMoves  int
}

// Stats aggregates every record of userID (everyone when empty).
func (s Store) Stats(ctx context.Context, userID string) (Stats, error) {
	q := `SELECT COUNT(*), COALESCE(AVG(cost),0), COALESCE(MIN(time_seconds),0), COALESCE(SUM(moves),0) FROM finished_sessions`
	var args []any
	if userID != "" {
		q += ` WHERE user_id=?`
		args = append(args, userID)
	}
	var st Stats
	err := s.DB.QueryRowContext(ctx, q, args...).Scan(&st.Sessions, &st.AverageCost, &st.BestTime, &st.TotalMoves)
	return st, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (sim.FinishedSession, error) {
	var rec sim.FinishedSession
	var date, mode, style, layout string
	err := row.Scan(&rec.ID, &rec.SessionID, &rec.UserID, &date, &mode, &style,
		&rec.TimeSeconds, &rec.Moves, &rec.Cost, &rec.Rounds, &rec.ItemsCompleted, &layout)
	if err != nil {
		return rec, err
	}
	rec.Mode = sim.TaskMode(mode)
	rec.PlayStyle = sim.PlayStyle(style)
	if rec.Date, err = time.Parse(time.RFC3339Nano, date); err != nil {
		return rec, fmt.Errorf("record %s: bad date %q: %w", rec.ID, date, err)
	}
	rec.Layout = &sim.Layout{}
	if err := json.Unmarshal([]byte(layout), rec.Layout); err != nil {
		return rec, fmt.Errorf("record %s: decoding layout: %w", rec.ID, err)
	}
	return rec, nil
}
