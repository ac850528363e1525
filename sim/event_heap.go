package sim

import "container/heap"

// timerQueue is the heap.Interface backing of EventHeap.
type timerQueue []Event

func (q timerQueue) Len() int           { return len(q) }
func (q timerQueue) Less(i, j int) bool { return firesBefore(q[i], q[j]) }
func (q timerQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }

func (q *timerQueue) Push(x any) { *q = append(*q, x.(Event)) }

func (q *timerQueue) Pop() any {
	old := *q
	last := old[len(old)-1]
	old[len(old)-1] = nil
	*q = old[:len(old)-1]
	return last
}

// firesBefore orders timers by due time, then EventTypePriority, then id,
// so two sessions fed the same commands pop timers in the same order.
func firesBefore(a, b Event) bool {
	if a.Timestamp() != b.Timestamp() {
		return a.Timestamp() < b.Timestamp()
	}
	if pa, pb := EventTypePriority[a.Type()], EventTypePriority[b.Type()]; pa != pb {
		return pa < pb
	}
	return a.EventID() < b.EventID()
}

// EventHeap holds a session's pending timers.
type EventHeap struct {
	q timerQueue
}

func NewEventHeap() *EventHeap {
	return &EventHeap{}
}

func (h *EventHeap) Len() int { return h.q.Len() }

func (h *EventHeap) Schedule(e Event) {
	heap.Push(&h.q, e)
}

// PopNext removes the earliest timer; nil when empty.
func (h *EventHeap) PopNext() Event {
	if h.q.Len() == 0 {
		return nil
	}
	return heap.Pop(&h.q).(Event)
}

// Peek returns the earliest timer without removing it; nil when empty.
func (h *EventHeap) Peek() Event {
	if h.q.Len() == 0 {
		return nil
	}
	return h.q[0]
}

// Clone copies the queue. Events are never mutated after scheduling, so they are shared.
func (h *EventHeap) Clone() *EventHeap {
	return &EventHeap{q: append(timerQueue(nil), h.q...)}
}
