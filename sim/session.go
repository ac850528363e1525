package sim

// Direction is where the forklift faces.
type Direction string

const (
	DirUp    Direction = "up"
	DirDown  Direction = "down"
	DirLeft  Direction = "left"
	DirRight Direction = "right"
)

var validDirections = map[Direction]bool{DirUp: true, DirDown: true, DirLeft: true, DirRight: true}

// IsValidDirection returns true for up, down, left and right.
func IsValidDirection(name string) bool {
	return validDirections[Direction(name)]
}

// Step returns the neighbouring coordinate in direction d.
func (c Coord) Step(d Direction) Coord {
	switch d {
	case DirUp:
		return Coord{X: c.X, Y: c.Y - 1}
	case DirDown:
		return Coord{X: c.X, Y: c.Y + 1}
	case DirLeft:
		return Coord{X: c.X - 1, Y: c.Y}
	case DirRight:
		return Coord{X: c.X + 1, Y: c.Y}
	}
	return c
}

// Session is the live state of one forklift run. Engine.Apply never mutates
// the Session it is given; it returns a successor.
type Session struct {
	ID     string
	UserID string
	Mode   TaskMode
	Style  PlayStyle
	Layout *Layout // read-only

	Position Coord
	Facing   Direction
	Carried  string // product id of the carried item, "" when empty-handed

	Order Order

	Clock   int64 // simulation time in ms, advanced only by AdvanceClock
	Elapsed int64 // seconds accrued while an order was in progress
	Moves   int   // committed steps
	Cost    float64

	OrderComplete   bool // paused until ContinueWithNewOrder or Finish
	Finished        bool
	RoundsCompleted int
	ItemsCompleted  int

	timers      *EventHeap
	nextEventID int64
}

func (s *Session) clone() *Session {
	c := *s
	c.Order = s.Order.Clone()
	c.timers = s.timers.Clone()
	return &c
}

// Ahead returns the coordinate directly in front of the forklift.
func (s *Session) Ahead() Coord {
	return s.Position.Step(s.Facing)
}

// CarriedItem returns the item on the forks, if any.
func (s *Session) CarriedItem() (TaskItem, bool) {
	if s.Carried == "" {
		return TaskItem{}, false
	}
	idx := s.Order.Find(s.Carried)
	if idx < 0 {
		return TaskItem{}, false
	}
	return s.Order.Items[idx], true
}

// PendingTimers returns the number of scheduled events (ticks and processing).
func (s *Session) PendingTimers() int {
	return s.timers.Len()
}

// obstruction returns the item whose resting cargo blocks c, or -1.
func (s *Session) obstruction(c Coord) int {
	for i, it := range s.Order.Items {
		if it.ProductID == s.Carried {
			continue
		}
		if it.Location == c && it.Status.Obstructs() {
			return i
		}
	}
	return -1
}

func (s *Session) schedule(ev Event) {
	s.timers.Schedule(ev)
}

func (s *Session) newEventID() int64 {
	s.nextEventID++
	return s.nextEventID
}
