// Package host drives one forklift session in real time.
//
// The engine in package sim is a pure reducer with a simulated clock. Runner
// owns a session on a single goroutine and feeds it two streams: player
// commands and a wall-clock ticker translated into AdvanceClock. Commands are
// accepted while items sit in processing because both streams share one loop.
package host

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/warehouse-sim/warehouse-sim/sim"
	"github.com/warehouse-sim/warehouse-sim/sim/trace"
)

// DefaultStep is how far simulated time advances per wall-clock tick.
const DefaultStep = 100 * time.Millisecond

// Sink observes every applied command. Observe runs on the runner goroutine
// and must not block for long.
type Sink interface {
	Observe(cmd sim.Command, res sim.Result, s *sim.Session)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(cmd sim.Command, res sim.Result, s *sim.Session)

func (f SinkFunc) Observe(cmd sim.Command, res sim.Result, s *sim.Session) { f(cmd, res, s) }

// Runner hosts one session.
type Runner struct {
	Engine *sim.Engine
	Trace  *trace.SessionTrace // optional
	Sinks  []Sink

	// Step is the simulated time added per tick. Zero means DefaultStep.
	Step time.Duration
	// Ticks overrides the wall-clock ticker; tests drive it by hand.
	Ticks <-chan time.Time

	session *sim.Session
}

// NewRunner returns a runner for s.
func NewRunner(engine *sim.Engine, s *sim.Session, sinks ...Sink) *Runner {
	return &Runner{Engine: engine, Sinks: sinks, session: s}
}

// Session returns the latest session snapshot. Safe only from the runner
// goroutine or after Run returns.
func (r *Runner) Session() *sim.Session { return r.session }

// Run applies commands until Finish is accepted, cmds is closed, or ctx is
// done. The last two finish the session on the player's behalf. The returned
// error is ctx.Err() when the context ended the run.
func (r *Runner) Run(ctx context.Context, cmds <-chan sim.Command) (*sim.FinishedSession, error) {
	if r.session == nil {
		return nil, fmt.Errorf("runner has no session")
	}
	step := r.Step
	if step <= 0 {
		step = DefaultStep
	}
	ticks := r.Ticks
	if ticks == nil {
		ticker := time.NewTicker(step)
		defer ticker.Stop()
		ticks = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			logrus.Infof("Session %s: context done, finishing", r.session.ID)
			rec, err := r.finish()
			if err != nil {
				return nil, err
			}
			return rec, ctx.Err()

		case <-ticks:
			r.apply(sim.AdvanceClock(step.Milliseconds()), false)

		case cmd, ok := <-cmds:
			if !ok {
				logrus.Infof("Session %s: command stream closed, finishing", r.session.ID)
				return r.finish()
			}
			if res := r.apply(cmd, true); res.Record != nil {
				return res.Record, nil
			}
		}
	}
}

// apply runs one command. Clock advances are only traced and observed when
// they produced notices.
func (r *Runner) apply(cmd sim.Command, fromPlayer bool) sim.Result {
	next, res := r.Engine.Apply(r.session, cmd)
	r.session = next
	if !fromPlayer && len(res.Notices) == 0 {
		return res
	}
	if fromPlayer {
		r.Trace.RecordCommand(commandRecord(cmd, res, next))
	}
	for _, n := range res.Notices {
		r.Trace.RecordNotice(trace.NoticeRecord{ClockMs: n.ClockMs, Kind: string(n.Kind), ProductID: n.ProductID, Round: n.Round})
	}
	for _, sink := range r.Sinks {
		sink.Observe(cmd, res, next)
	}
	return res
}

func (r *Runner) finish() (*sim.FinishedSession, error) {
	res := r.apply(sim.Finish(), true)
	if res.Record == nil {
		return nil, fmt.Errorf("finishing session %s: %s %s", r.session.ID, res.Reason, res.Detail)
	}
	return res.Record, nil
}

func commandRecord(cmd sim.Command, res sim.Result, s *sim.Session) trace.CommandRecord {
	rec := trace.CommandRecord{
		ClockMs:  s.Clock,
		Command:  string(cmd.Kind),
		Accepted: res.OK,
		Reason:   string(res.Reason),
		Detail:   res.Detail,
		Position: s.Position.String(),
		Moves:    s.Moves,
	}
	switch cmd.Kind {
	case sim.CommandTurnOrMove:
		rec.Argument = string(cmd.Direction)
	case sim.CommandAdvanceClock:
		rec.Argument = fmt.Sprintf("%dms", cmd.DeltaMs)
	}
	return rec
}
