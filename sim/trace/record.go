// Package trace records the commands a forklift session received and what came of them.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// CommandRecord captures one command and the engine's verdict.
type CommandRecord struct {
	Seq      int
	ClockMs  int64
	Command  string // command kind, e.g. "turn-or-move"
	Argument string // direction or clock delta; empty for bare verbs
	Accepted bool
	Reason   string // rejection reason; empty when accepted
	Detail   string
	Position string // forklift position after the command
	Moves    int    // committed moves after the command
}

// NoticeRecord captures one advisory notice.
type NoticeRecord struct {
	ClockMs   int64
	Kind      string
	ProductID string
	Round     int
}
