package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalSlices   int
	Truncations   int
	Promotions    int
	BusyTime      int64
	IdleTime      int64
	Span          int64         // end of the last recorded slice or idle; the timeline starts at 0
	Utilization   float64       // BusyTime / Span, so context-switch ticks count as not busy; 0 when Span is 0
	Dispatches    map[int]int   // process ID → number of slices granted
	TimeByProcess map[int]int64 // process ID → total CPU time granted
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		Dispatches:    make(map[int]int),
		TimeByProcess: make(map[int]int64),
	}
	if st == nil {
		return summary
	}

	summary.TotalSlices = len(st.Slices)
	for _, s := range st.Slices {
		if s.Kind == SliceKindTruncated {
			summary.Truncations++
		}
		summary.Dispatches[s.ProcessID]++
		summary.TimeByProcess[s.ProcessID] += s.Duration()
		summary.BusyTime += s.Duration()
		summary.Span = max(summary.Span, s.End)
	}
	for _, idle := range st.Idles {
		summary.IdleTime += idle.End - idle.Start
		summary.Span = max(summary.Span, idle.End)
	}
	summary.Promotions = len(st.Promotions)

	if summary.Span > 0 {
		summary.Utilization = float64(summary.BusyTime) / float64(summary.Span)
	}
	return summary
}
