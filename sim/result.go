package sim

// Reason explains why a command was rejected. A rejected command changes nothing.
type Reason string

const (
	ReasonNone                 Reason = ""
	ReasonOutOfBounds          Reason = "out-of-bounds"
	ReasonBlockedByLayout      Reason = "blocked-by-layout"
	ReasonBlockedByTask        Reason = "blocked-by-task"
	ReasonWrongLocation        Reason = "wrong-location"
	ReasonGuidedOrderViolation Reason = "guided-order-violation"
	ReasonNothingToDispatch    Reason = "nothing-to-dispatch"
	ReasonNoAdjacentTarget     Reason = "no-adjacent-target"
	ReasonInvalidForMode       Reason = "invalid-for-mode"
	ReasonOrderComplete        Reason = "order-complete"
	ReasonOrderInProgress      Reason = "order-in-progress"
	ReasonNoOrderPossible      Reason = "no-order-possible"
	ReasonSessionFinished      Reason = "session-finished"
	ReasonInvalidCommand       Reason = "invalid-command"
)

// NoticeKind is an advisory event for the presentation layer.
type NoticeKind string

const (
	NoticeTurned            NoticeKind = "turned"
	NoticeMoved             NoticeKind = "moved"
	NoticePickedUp          NoticeKind = "picked-up"
	NoticeProcessingStarted NoticeKind = "processing-started"
	NoticeProcessed         NoticeKind = "processed"
	NoticeStagedForDispatch NoticeKind = "staged-for-dispatch"
	NoticeStocked           NoticeKind = "stocked"
	NoticeDispatched        NoticeKind = "dispatched"
	NoticeOrderComplete     NoticeKind = "order-complete"
	NoticeNewOrder          NoticeKind = "new-order"
	NoticeFinished          NoticeKind = "finished"
)

// Notice describes something that happened. ProductID is empty for notices
// that are not about a single item; Count carries batch sizes.
type Notice struct {
	Kind        NoticeKind `json:"kind"`
	SessionID   string     `json:"session_id"`
	Round       int        `json:"round"`
	ClockMs     int64      `json:"clock_ms"`
	ProductID   string     `json:"product_id,omitempty"`
	ProductName string     `json:"product_name,omitempty"`
	Status      TaskStatus `json:"status,omitempty"`
	Count       int        `json:"count,omitempty"`
}

func newNotice(kind NoticeKind, s *Session, item TaskItem) Notice {
	return Notice{
		Kind:        kind,
		SessionID:   s.ID,
		Round:       s.Order.Round,
		ClockMs:     s.Clock,
		ProductID:   item.ProductID,
		ProductName: item.ProductName,
		Status:      item.Status,
	}
}

func newCountNotice(kind NoticeKind, s *Session, count int) Notice {
	return Notice{Kind: kind, SessionID: s.ID, Round: s.Order.Round, ClockMs: s.Clock, Count: count}
}

// Result is the outcome of one command.
type Result struct {
	Command CommandKind `json:"command"`
	OK      bool        `json:"ok"`
	Reason  Reason      `json:"reason,omitempty"`
	Detail  string      `json:"detail,omitempty"`
	Notices []Notice    `json:"notices,omitempty"`

	// Record is set only by a successful Finish.
	Record *FinishedSession `json:"-"`
}

func accepted(cmd CommandKind, notices ...Notice) Result {
	return Result{Command: cmd, OK: true, Notices: notices}
}

func rejected(cmd CommandKind, reason Reason, detail string) Result {
	return Result{Command: cmd, Reason: reason, Detail: detail}
}
