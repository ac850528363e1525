package trace

// TraceSummary aggregates statistics from a SessionTrace.
type TraceSummary struct {
	TotalCommands       int
	AcceptedCount       int
	RejectedCount       int
	RejectionRate       float64
	RejectionReasons    map[string]int // reason → count
	CommandDistribution map[string]int // command kind → count
	NoticeCounts        map[string]int // notice kind → count
	FinalMoves          int
}

// Summarize computes aggregate statistics from a SessionTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SessionTrace) *TraceSummary {
	summary := &TraceSummary{
		RejectionReasons:    make(map[string]int),
		CommandDistribution: make(map[string]int),
		NoticeCounts:        make(map[string]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalCommands = len(st.Commands)
	for _, c := range st.Commands {
		summary.CommandDistribution[c.Command]++
		if c.Accepted {
			summary.AcceptedCount++
			summary.FinalMoves = c.Moves
		} else {
			summary.RejectedCount++
			summary.RejectionReasons[c.Reason]++
		}
	}
	if summary.TotalCommands > 0 {
		summary.RejectionRate = float64(summary.RejectedCount) / float64(summary.TotalCommands)
	}

	for _, n := range st.Notices {
		summary.NoticeCounts[n.Kind]++
	}

	return summary
}
