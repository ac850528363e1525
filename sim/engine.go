// sim/engine.go
package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Engine applies commands to sessions. It owns the configuration and the
// seeded randomness; sessions own their own clocks and timers.
//
// Thread-safety: NOT thread-safe (PartitionedRNG is shared by all sessions).
type Engine struct {
	cfg      Config
	rng      *PartitionedRNG
	recorder Recorder
}

// NewEngine validates cfg and returns an engine seeded by key.
// The recorder's cost model is replaced by cfg.Costs.
func NewEngine(cfg Config, key SimulationKey, recorder Recorder) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation config: %w", err)
	}
	recorder.Costs = cfg.Costs
	return &Engine{
		cfg:      cfg,
		rng:      NewPartitionedRNG(key),
		recorder: recorder,
	}, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

// SessionSpec describes a run to start. Start defaults to Layout.StartPosition.
type SessionSpec struct {
	UserID string
	Mode   TaskMode
	Style  PlayStyle
	Start  *Coord
}

// NewSession generates the first order for layout and starts the clock.
// An error wrapping ErrNoOrderPossible means the layout lacks what the mode needs.
func (e *Engine) NewSession(layout *Layout, spec SessionSpec) (*Session, error) {
	if !validTaskModes[spec.Mode] {
		return nil, fmt.Errorf("unknown task mode %q; valid: picking, stocking", spec.Mode)
	}
	if !validPlayStyles[spec.Style] {
		return nil, fmt.Errorf("unknown play style %q; valid: guided, free", spec.Style)
	}
	if err := e.checkStations(layout, spec.Mode); err != nil {
		return nil, err
	}
	start := layout.StartPosition()
	if spec.Start != nil {
		if !layout.InBounds(*spec.Start) {
			return nil, fmt.Errorf("start %s outside %dx%d layout", *spec.Start, layout.Width(), layout.Height())
		}
		start = *spec.Start
	}

	order, err := GenerateOrder(e.rng.ForSubsystem(SubsystemOrders), layout, spec.Mode, e.cfg.RoundSize)
	if err != nil {
		return nil, err
	}
	order.Round = 1

	s := &Session{
		ID:       e.recorder.newID(),
		UserID:   spec.UserID,
		Mode:     spec.Mode,
		Style:    spec.Style,
		Layout:   layout,
		Position: start,
		Facing:   DirRight,
		Order:    order,
		timers:   NewEventHeap(),
	}
	e.scheduleTick(s, 0)
	logrus.Infof("Session %s started: mode=%s style=%s tasks=%d start=%s", s.ID, s.Mode, s.Style, len(order.Items), start)
	return s, nil
}

// checkStations rejects layouts that could hand out tasks nobody can finish.
func (e *Engine) checkStations(layout *Layout, mode TaskMode) error {
	if mode != ModePicking {
		return nil
	}
	if layout.Count(KindProcessing) == 0 {
		return fmt.Errorf("%w: picking needs a processing cell", ErrNoOrderPossible)
	}
	if e.cfg.Pipeline == PipelineFull && layout.Count(KindBayOut) == 0 {
		return fmt.Errorf("%w: picking needs an outbound bay", ErrNoOrderPossible)
	}
	return nil
}

// Apply runs one command against s. On success it returns a new session and
// leaves s untouched; on rejection it returns s itself and a reason.
func (e *Engine) Apply(s *Session, cmd Command) (*Session, Result) {
	if s.Finished {
		return s, rejected(cmd.Kind, ReasonSessionFinished, "session already finished")
	}

	next := s.clone()
	var res Result
	switch cmd.Kind {
	case CommandTurnOrMove:
		res = e.turnOrMove(next, cmd.Direction)
	case CommandInteract:
		res = e.interact(next)
	case CommandDispatch:
		res = e.dispatch(next)
	case CommandContinue:
		res = e.continueWithNewOrder(next)
	case CommandFinish:
		res = e.finish(next)
	case CommandAdvanceClock:
		res = e.advanceClock(next, cmd.DeltaMs)
	default:
		res = rejected(cmd.Kind, ReasonInvalidCommand, fmt.Sprintf("unknown command %q", cmd.Kind))
	}

	if !res.OK {
		logrus.Debugf("[%07dms] %s rejected: %s %s", s.Clock, cmd, res.Reason, res.Detail)
		return s, res
	}
	next.Cost = e.cfg.Costs.Cost(next.Moves, next.Elapsed)
	logrus.Debugf("[%07dms] %s accepted: pos=%s facing=%s moves=%d", next.Clock, cmd, next.Position, next.Facing, next.Moves)
	return next, res
}

func (e *Engine) turnOrMove(s *Session, d Direction) Result {
	if !validDirections[d] {
		return rejected(CommandTurnOrMove, ReasonInvalidCommand, fmt.Sprintf("unknown direction %q", d))
	}
	if s.OrderComplete {
		return rejected(CommandTurnOrMove, ReasonOrderComplete, "order complete: continue or finish")
	}
	if s.Facing != d {
		s.Facing = d
		return accepted(CommandTurnOrMove, newCountNotice(NoticeTurned, s, 0))
	}

	dest := s.Position.Step(d)
	cell, ok := s.Layout.Cell(dest)
	if !ok {
		return rejected(CommandTurnOrMove, ReasonOutOfBounds, dest.String())
	}
	if cell.Kind.BlocksMovement() {
		return rejected(CommandTurnOrMove, ReasonBlockedByLayout, fmt.Sprintf("%s is %s", dest, cell.Kind))
	}
	if idx := s.obstruction(dest); idx >= 0 {
		return rejected(CommandTurnOrMove, ReasonBlockedByTask, fmt.Sprintf("%s holds %s", dest, s.Order.Items[idx].ProductName))
	}

	s.Position = dest
	s.Moves++
	return accepted(CommandTurnOrMove, newCountNotice(NoticeMoved, s, s.Moves))
}

func (e *Engine) interact(s *Session) Result {
	if s.OrderComplete {
		return rejected(CommandInteract, ReasonOrderComplete, "order complete: continue or finish")
	}
	ahead := s.Ahead()
	cell, ok := s.Layout.Cell(ahead)
	if !ok {
		return rejected(CommandInteract, ReasonNoAdjacentTarget, "nothing in front of the forklift")
	}
	if s.Carried != "" {
		return e.drop(s, cell)
	}
	return e.pickUp(s, cell)
}

func (e *Engine) pickUp(s *Session, cell Cell) Result {
	switch {
	case s.Mode == ModePicking && cell.Kind == KindShelf:
		return e.pickPending(s, func(it TaskItem) bool { return it.Target == cell.At })
	case s.Mode == ModePicking && cell.Kind == KindProcessing:
		for i := range s.Order.Items {
			item := &s.Order.Items[i]
			if item.Location == cell.At && item.Status == StatusProcessed {
				// status stays processed; Carried marks it as on the forks
				s.Carried = item.ProductID
				return accepted(CommandInteract, newNotice(NoticePickedUp, s, *item))
			}
		}
	case s.Mode == ModeStocking && cell.Kind == KindBayIn:
		return e.pickPending(s, func(it TaskItem) bool { return it.Origin != nil && *it.Origin == cell.At })
	}
	return rejected(CommandInteract, ReasonNoAdjacentTarget, fmt.Sprintf("nothing to pick up at %s", cell.At))
}

// pickPending lifts the first pending item matching the cell in front.
// Guided play only allows the first pending item of the whole order.
func (e *Engine) pickPending(s *Session, matches func(TaskItem) bool) Result {
	idx := -1
	for i, it := range s.Order.Items {
		if it.Status == StatusPending && matches(it) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return rejected(CommandInteract, ReasonNoAdjacentTarget, "no pending task here")
	}
	if s.Style == StyleGuided {
		if first := s.Order.FirstPending(); first != idx {
			want := s.Order.Items[first]
			return rejected(CommandInteract, ReasonGuidedOrderViolation,
				fmt.Sprintf("handle %s (%s) first", want.ProductName, want.ProductID))
		}
	}

	item := &s.Order.Items[idx]
	item.Status = StatusCarrying
	s.Carried = item.ProductID
	logrus.Infof("<< Picked up: %s at %dms", item.ProductID, s.Clock)
	return accepted(CommandInteract, newNotice(NoticePickedUp, s, *item))
}

func (e *Engine) drop(s *Session, cell Cell) Result {
	idx := s.Order.Find(s.Carried)
	if idx < 0 {
		return rejected(CommandInteract, ReasonInvalidCommand, fmt.Sprintf("carried item %s not in order", s.Carried))
	}
	item := &s.Order.Items[idx]

	switch {
	case s.Mode == ModePicking && cell.Kind == KindProcessing && item.Status == StatusCarrying:
		item.Status = StatusProcessing
		item.Location = cell.At
		s.Carried = ""
		due := s.Clock + e.processingDelayMs()
		s.schedule(&ProcessingDoneEvent{time: due, id: s.newEventID(), round: s.Order.Round, ProductID: item.ProductID})
		logrus.Infof("<< Processing: %s until %dms", item.ProductID, due)
		return accepted(CommandInteract, newNotice(NoticeProcessingStarted, s, *item))

	case s.Mode == ModePicking && cell.Kind == KindBayOut && item.Status == StatusProcessed:
		item.Status = StatusReadyForDispatch
		item.Location = cell.At
		s.Carried = ""
		return accepted(CommandInteract, newNotice(NoticeStagedForDispatch, s, *item))

	case s.Mode == ModeStocking && cell.Kind == KindShelf && cell.At == item.Target:
		item.Status = StatusCompleted
		item.Location = cell.At
		s.Carried = ""
		s.ItemsCompleted++
		notices := []Notice{newNotice(NoticeStocked, s, *item)}
		return accepted(CommandInteract, append(notices, e.checkOrderComplete(s)...)...)
	}
	return rejected(CommandInteract, ReasonWrongLocation,
		fmt.Sprintf("%s cannot be dropped on %s at %s", item.ProductName, cell.Kind, cell.At))
}

// processingDelayMs draws a whole number of seconds in [min, max].
func (e *Engine) processingDelayMs() int64 {
	span := e.cfg.ProcessingDelayMax - e.cfg.ProcessingDelayMin + 1
	secs := e.rng.ForSubsystem(SubsystemProcessing).Intn(span) + e.cfg.ProcessingDelayMin
	return int64(secs) * 1000
}

func (e *Engine) dispatch(s *Session) Result {
	if s.Mode != ModePicking {
		return rejected(CommandDispatch, ReasonInvalidForMode, "dispatch is only used when picking")
	}
	if s.OrderComplete {
		return rejected(CommandDispatch, ReasonOrderComplete, "order complete: continue or finish")
	}
	n := 0
	for i := range s.Order.Items {
		if s.Order.Items[i].Status == StatusReadyForDispatch {
			s.Order.Items[i].Status = StatusCompleted
			n++
		}
	}
	if n == 0 {
		return rejected(CommandDispatch, ReasonNothingToDispatch, "no items at the outbound bays")
	}
	s.ItemsCompleted += n
	logrus.Infof("<< Dispatched %d item(s) at %dms", n, s.Clock)
	notices := []Notice{newCountNotice(NoticeDispatched, s, n)}
	return accepted(CommandDispatch, append(notices, e.checkOrderComplete(s)...)...)
}

// checkOrderComplete pauses the session once every item is completed and the
// forks are empty.
func (e *Engine) checkOrderComplete(s *Session) []Notice {
	if s.OrderComplete || s.Carried != "" || !s.Order.AllCompleted() {
		return nil
	}
	s.OrderComplete = true
	s.RoundsCompleted++
	logrus.Infof("Session %s: round %d complete at %ds, %d moves", s.ID, s.Order.Round, s.Elapsed, s.Moves)
	return []Notice{newCountNotice(NoticeOrderComplete, s, len(s.Order.Items))}
}

func (e *Engine) continueWithNewOrder(s *Session) Result {
	if !s.OrderComplete {
		return rejected(CommandContinue, ReasonOrderInProgress, "current order is not complete")
	}
	order, err := GenerateOrder(e.rng.ForSubsystem(SubsystemOrders), s.Layout, s.Mode, e.cfg.RoundSize)
	if err != nil {
		return rejected(CommandContinue, ReasonNoOrderPossible, err.Error())
	}
	order.Round = s.Order.Round + 1
	s.Order = order
	s.OrderComplete = false
	e.scheduleTick(s, s.Clock)
	logrus.Infof("Session %s: round %d started with %d tasks", s.ID, order.Round, len(order.Items))
	return accepted(CommandContinue, newCountNotice(NoticeNewOrder, s, len(order.Items)))
}

func (e *Engine) finish(s *Session) Result {
	s.Finished = true
	rec := e.recorder.Finish(s)
	logrus.Infof("Session %s finished: time=%ds moves=%d cost=%.2f", s.ID, rec.TimeSeconds, rec.Moves, rec.Cost)
	res := accepted(CommandFinish, newCountNotice(NoticeFinished, s, s.RoundsCompleted))
	res.Record = &rec
	return res
}

// advanceClock fires every timer due within deltaMs, in heap order.
func (e *Engine) advanceClock(s *Session, deltaMs int64) Result {
	if deltaMs < 0 {
		return rejected(CommandAdvanceClock, ReasonInvalidCommand, fmt.Sprintf("negative clock delta %d", deltaMs))
	}
	target := s.Clock + deltaMs
	var notices []Notice
	for {
		ev := s.timers.Peek()
		if ev == nil || ev.Timestamp() > target {
			break
		}
		s.timers.PopNext()
		s.Clock = ev.Timestamp()
		notices = append(notices, ev.Execute(e, s)...)
	}
	s.Clock = target
	return accepted(CommandAdvanceClock, notices...)
}

// scheduleTick arms the next elapsed-seconds tick one interval after from.
func (e *Engine) scheduleTick(s *Session, from int64) {
	s.schedule(&TickEvent{time: from + e.cfg.TickIntervalMs, id: s.newEventID(), round: s.Order.Round})
}
