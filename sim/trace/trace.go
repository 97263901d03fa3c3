package trace

// TraceLevel controls the verbosity of decision tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelDecisions captures every slice, idle interval and promotion.
	TraceLevelDecisions TraceLevel = "decisions"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:      true,
	TraceLevelDecisions: true,
	"":                  true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// SimulationTrace collects decision records during a simulation run.
type SimulationTrace struct {
	Config     TraceConfig
	Slices     []SliceRecord
	Idles      []IdleRecord
	Promotions []PromotionRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config:     config,
		Slices:     make([]SliceRecord, 0),
		Idles:      make([]IdleRecord, 0),
		Promotions: make([]PromotionRecord, 0),
	}
}

// Enabled reports whether records should be collected. Safe on a nil trace.
func (st *SimulationTrace) Enabled() bool {
	return st != nil && st.Config.Level == TraceLevelDecisions
}

// RecordSlice appends a slice record.
func (st *SimulationTrace) RecordSlice(record SliceRecord) {
	st.Slices = append(st.Slices, record)
}

// RecordIdle appends an idle interval, merging it into the previous one when contiguous.
func (st *SimulationTrace) RecordIdle(record IdleRecord) {
	if n := len(st.Idles); n > 0 && st.Idles[n-1].End == record.Start {
		st.Idles[n-1].End = record.End
		return
	}
	st.Idles = append(st.Idles, record)
}

// RecordPromotion appends a promotion record.
func (st *SimulationTrace) RecordPromotion(record PromotionRecord) {
	st.Promotions = append(st.Promotions, record)
}
