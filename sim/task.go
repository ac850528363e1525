// Defines the TaskItem struct that models one unit of work in an order.
// Tracks the product, where it must go, where its cargo rests right now, and its status.

package sim

import (
	"fmt"
)

// TaskStatus represents the lifecycle state of a task item.
type TaskStatus string

const (
	StatusPending          TaskStatus = "pending"
	StatusCarrying         TaskStatus = "carrying"
	StatusProcessing       TaskStatus = "processing"
	StatusProcessed        TaskStatus = "processed"
	StatusReadyForDispatch TaskStatus = "ready-for-dispatch"
	StatusCompleted        TaskStatus = "completed"
)

// statusRank orders statuses along the picking lifecycle; a task never moves to a lower rank.
var statusRank = map[TaskStatus]int{
	StatusPending:          0,
	StatusCarrying:         1,
	StatusProcessing:       2,
	StatusProcessed:        3,
	StatusReadyForDispatch: 4,
	StatusCompleted:        5,
}

// Obstructs reports whether cargo in this status blocks the forklift from its cell.
// Carried cargo travels with the forklift and is excluded by the caller.
func (s TaskStatus) Obstructs() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusProcessed, StatusReadyForDispatch:
		return true
	}
	return false
}

// TaskItem is one pick or putaway in an order.
type TaskItem struct {
	ProductID   string     `json:"product_id"` // unique within the order
	ProductName string     `json:"product_name"`
	Quantity    int        `json:"quantity"`
	Target      Coord      `json:"target"`           // shelf to pick from or stock onto
	Origin      *Coord     `json:"origin,omitempty"` // stocking only: bay-in to fetch from
	Location    Coord      `json:"location"`         // where the cargo rests while not carried
	Status      TaskStatus `json:"status"`
}

// This method returns a human-readable string representation of a TaskItem.
func (t TaskItem) String() string {
	return fmt.Sprintf("TaskItem: (ID: %s, Qty: %d, Target: %s, Status: %s)", t.ProductID, t.Quantity, t.Target, t.Status)
}

// Order is the task list for one round of play.
type Order struct {
	Round int        `json:"round"`
	Items []TaskItem `json:"items"`
}

// Clone returns a deep copy; Origin pointers are not shared.
func (o Order) Clone() Order {
	items := make([]TaskItem, len(o.Items))
	for i, it := range o.Items {
		if it.Origin != nil {
			origin := *it.Origin
			it.Origin = &origin
		}
		items[i] = it
	}
	return Order{Round: o.Round, Items: items}
}

// Find returns the index of the item with productID, or -1.
func (o Order) Find(productID string) int {
	for i, it := range o.Items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}

// FirstPending returns the index of the first pending item in order sequence, or -1.
func (o Order) FirstPending() int {
	for i, it := range o.Items {
		if it.Status == StatusPending {
			return i
		}
	}
	return -1
}

// CountStatus returns the number of items in the given status.
func (o Order) CountStatus(status TaskStatus) int {
	n := 0
	for _, it := range o.Items {
		if it.Status == status {
			n++
		}
	}
	return n
}

// AllCompleted is true for a non-empty order whose every item is completed.
func (o Order) AllCompleted() bool {
	return len(o.Items) > 0 && o.CountStatus(StatusCompleted) == len(o.Items)
}
