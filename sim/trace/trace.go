package trace

// TraceLevel controls the verbosity of command tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing.
	TraceLevelNone TraceLevel = "none"
	// TraceLevelCommands captures every command the engine was given and its outcome.
	TraceLevelCommands TraceLevel = "commands"
)

var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:     true,
	TraceLevelCommands: true,
	"":                 true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// SessionTrace collects command and notice records during one forklift session.
type SessionTrace struct {
	Level     TraceLevel
	SessionID string
	Commands  []CommandRecord
	Notices   []NoticeRecord
}

// NewSessionTrace creates a SessionTrace ready for recording.
func NewSessionTrace(level TraceLevel, sessionID string) *SessionTrace {
	return &SessionTrace{
		Level:     level,
		SessionID: sessionID,
		Commands:  make([]CommandRecord, 0),
		Notices:   make([]NoticeRecord, 0),
	}
}

// Enabled reports whether records should be collected.
func (st *SessionTrace) Enabled() bool {
	return st != nil && st.Level == TraceLevelCommands
}

// RecordCommand appends a command record, numbering it in arrival order.
func (st *SessionTrace) RecordCommand(record CommandRecord) {
	if !st.Enabled() {
		return
	}
	record.Seq = len(st.Commands) + 1
	st.Commands = append(st.Commands, record)
}

// RecordNotice appends a notice record.
func (st *SessionTrace) RecordNotice(record NoticeRecord) {
	if !st.Enabled() {
		return
	}
	st.Notices = append(st.Notices, record)
}
