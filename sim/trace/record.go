// Package trace provides decision-trace recording for scheduling analysis.
// It has no dependencies on sim/ and stores pure data types only.
package trace

// SliceKind classifies why a slice of CPU time was granted and how it ended.
type SliceKind string

const (
	// SliceKindPlatinum is a PLATINUM process run to completion.
	SliceKindPlatinum SliceKind = "platinum"
	// SliceKindQuantum is a full quantum that left work remaining.
	SliceKindQuantum SliceKind = "quantum"
	// SliceKindCompletion is a slice that finished the process within its quantum.
	SliceKindCompletion SliceKind = "completion"
	// SliceKindTruncated is a slice cut short by a PLATINUM arrival.
	SliceKindTruncated SliceKind = "truncated"
	// SliceKindSurvivor is the last unfinished process run to completion.
	SliceKindSurvivor SliceKind = "survivor"
)

// SliceRecord captures one grant of the CPU to a process.
type SliceRecord struct {
	ProcessID int
	Tier      string // tier at dispatch time
	Start     int64
	End       int64
	Kind      SliceKind
	Remaining int64 // remaining time after the slice
}

// Duration returns End - Start.
func (r SliceRecord) Duration() int64 {
	return r.End - r.Start
}

// IdleRecord captures a contiguous interval with no ready process.
type IdleRecord struct {
	Start int64
	End   int64
}

// PromotionRecord captures a tier upgrade triggered by cumulative executed time.
type PromotionRecord struct {
	ProcessID int
	Clock     int64
	From      string
	To        string
	Executed  int64 // cumulative executed time when the threshold was met
}
