package sim

import "github.com/sirupsen/logrus"

// EventType names a kind of scheduled session event.
type EventType string

const (
	EventProcessingDone EventType = "processing-done"
	EventTick           EventType = "tick"
)

// EventTypePriority breaks timestamp ties: a processing completion due on the
// same millisecond as a tick is applied first.
var EventTypePriority = map[EventType]int{
	EventProcessingDone: 0,
	EventTick:           1,
}

// Event is a timer owned by one session. Execute mutates the session it is
// popped from and returns the notices it produced.
//
// Every event remembers the order round it was scheduled in; an event whose
// round is no longer current is discarded without effect.
type Event interface {
	Timestamp() int64
	Type() EventType
	EventID() int64
	Execute(*Engine, *Session) []Notice
}

// TickEvent adds one second to the session's elapsed time and re-arms itself.
type TickEvent struct {
	time  int64 // Simulation time (ms) the tick fires at
	id    int64
	round int
}

func (e *TickEvent) Timestamp() int64 { return e.time }
func (e *TickEvent) Type() EventType  { return EventTick }
func (e *TickEvent) EventID() int64   { return e.id }

// Execute accrues a second unless the order is complete or the round changed.
// A dropped tick is not re-armed; ContinueWithNewOrder arms a fresh one.
func (e *TickEvent) Execute(eng *Engine, s *Session) []Notice {
	if s.Finished || s.OrderComplete || s.Order.Round != e.round {
		logrus.Debugf("[%07dms] tick for round %d dropped", e.time, e.round)
		return nil
	}
	s.Elapsed++
	eng.scheduleTick(s, e.time)
	return nil
}

// ProcessingDoneEvent moves an item from processing to its next status.
type ProcessingDoneEvent struct {
	time      int64
	id        int64
	round     int
	ProductID string
}

func (e *ProcessingDoneEvent) Timestamp() int64 { return e.time }
func (e *ProcessingDoneEvent) Type() EventType  { return EventProcessingDone }
func (e *ProcessingDoneEvent) EventID() int64   { return e.id }

// Execute flips the item to processed (full pipeline) or completed (reduced),
// but only if it is still the same item in the same round and still processing.
func (e *ProcessingDoneEvent) Execute(eng *Engine, s *Session) []Notice {
	if s.Finished || s.Order.Round != e.round {
		logrus.Debugf("[%07dms] processing of %s from round %d discarded", e.time, e.ProductID, e.round)
		return nil
	}
	idx := s.Order.Find(e.ProductID)
	if idx < 0 || s.Order.Items[idx].Status != StatusProcessing {
		logrus.Debugf("[%07dms] processing of %s no longer expected", e.time, e.ProductID)
		return nil
	}

	item := &s.Order.Items[idx]
	if eng.cfg.Pipeline == PipelineReduced {
		item.Status = StatusCompleted
		s.ItemsCompleted++
	} else {
		item.Status = StatusProcessed
	}
	logrus.Infof("<< Processing done: %s at %dms", item.ProductID, e.time)

	notices := []Notice{newNotice(NoticeProcessed, s, *item)}
	return append(notices, eng.checkOrderComplete(s)...)
}
