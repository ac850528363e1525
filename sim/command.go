package sim

import "fmt"

// CommandKind enumerates the verbs the state machine accepts.
type CommandKind string

const (
	CommandTurnOrMove   CommandKind = "turn-or-move"
	CommandInteract     CommandKind = "interact"
	CommandDispatch     CommandKind = "dispatch"
	CommandContinue     CommandKind = "continue"
	CommandFinish       CommandKind = "finish"
	CommandAdvanceClock CommandKind = "advance-clock"
)

// Command is one input to Engine.Apply. Direction is set only for
// CommandTurnOrMove and DeltaMs only for CommandAdvanceClock.
type Command struct {
	Kind      CommandKind `json:"kind"`
	Direction Direction   `json:"direction,omitempty"`
	DeltaMs   int64       `json:"delta_ms,omitempty"`
}

func TurnOrMove(d Direction) Command { return Command{Kind: CommandTurnOrMove, Direction: d} }
func Interact() Command              { return Command{Kind: CommandInteract} }
func Dispatch() Command              { return Command{Kind: CommandDispatch} }
func ContinueWithNewOrder() Command  { return Command{Kind: CommandContinue} }
func Finish() Command                { return Command{Kind: CommandFinish} }

// AdvanceClock moves simulation time forward by deltaMs, firing due timers.
func AdvanceClock(deltaMs int64) Command {
	return Command{Kind: CommandAdvanceClock, DeltaMs: deltaMs}
}

func (c Command) String() string {
	switch c.Kind {
	case CommandTurnOrMove:
		return fmt.Sprintf("%s(%s)", c.Kind, c.Direction)
	case CommandAdvanceClock:
		return fmt.Sprintf("%s(%dms)", c.Kind, c.DeltaMs)
	}
	return string(c.Kind)
}
