package sim

import (
	"time"

	"github.com/google/uuid"
)

// FinishedSession is the immutable summary of one run, handed to a history store.
type FinishedSession struct {
	ID             string    `json:"id"`
	SessionID      string    `json:"session_id"`
	UserID         string    `json:"user_id"`
	Date           time.Time `json:"date"`
	Mode           TaskMode  `json:"mode"`
	PlayStyle      PlayStyle `json:"play_style"`
	TimeSeconds    int64     `json:"time"`
	Moves          int       `json:"moves"`
	Cost           float64   `json:"cost"`
	Rounds         int       `json:"rounds"`
	ItemsCompleted int       `json:"items_completed"`
	Layout         *Layout   `json:"layout"`
}

// Recorder turns a terminated session into a FinishedSession.
// Now and NewID are injectable so records are reproducible in tests.
type Recorder struct {
	Now   func() time.Time
	NewID func() string
	Costs CostModel
}

// NewRecorder returns a recorder stamping wall-clock time and random UUIDs.
func NewRecorder() Recorder {
	return Recorder{Now: time.Now, NewID: uuid.NewString, Costs: DefaultCostModel()}
}

func (r Recorder) newID() string {
	if r.NewID == nil {
		return uuid.NewString()
	}
	return r.NewID()
}

func (r Recorder) now() time.Time {
	if r.Now == nil {
		return time.Now().UTC()
	}
	return r.Now().UTC()
}

// Finish snapshots s. The layout is deep-copied so the record owns it.
func (r Recorder) Finish(s *Session) FinishedSession {
	return FinishedSession{
		ID:             r.newID(),
		SessionID:      s.ID,
		UserID:         s.UserID,
		Date:           r.now(),
		Mode:           s.Mode,
		PlayStyle:      s.Style,
		TimeSeconds:    s.Elapsed,
		Moves:          s.Moves,
		Cost:           r.Costs.Cost(s.Moves, s.Elapsed),
		Rounds:         s.RoundsCompleted,
		ItemsCompleted: s.ItemsCompleted,
		Layout:         s.Layout.Clone(),
	}
}
