package cmd

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/basak-tepe/scheduler/sim"
	"github.com/basak-tepe/scheduler/sim/trace"
)

// Exit codes by error kind.
const (
	exitOther               = 1
	exitResourceUnavailable = 2
	exitMalformedInput      = 3
	exitInvariantViolation  = 4
)

// exitCodeFor maps an error to the process exit code of its kind.
func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, sim.ErrResourceUnavailable):
		return exitResourceUnavailable
	case errors.Is(err, sim.ErrMalformedInput):
		return exitMalformedInput
	case errors.Is(err, sim.ErrInvariantViolation):
		return exitInvariantViolation
	default:
		return exitOther
	}
}

// ganttSegment is one labelled interval of the CPU timeline.
type ganttSegment struct {
	Label       string
	Start, Stop int64
}

// ganttSegments merges slices and idle intervals into one timeline starting at 0.
// Gaps between them are context switches.
func ganttSegments(tr *trace.SimulationTrace) []ganttSegment {
	var segs []ganttSegment
	for _, s := range tr.Slices {
		segs = append(segs, ganttSegment{Label: fmt.Sprintf("P%d", s.ProcessID), Start: s.Start, Stop: s.End})
	}
	for _, idle := range tr.Idles {
		segs = append(segs, ganttSegment{Label: "idle", Start: idle.Start, Stop: idle.End})
	}
	sort.SliceStable(segs, func(i, j int) bool { return segs[i].Start < segs[j].Start })

	timeline := make([]ganttSegment, 0, 2*len(segs))
	var clock int64
	for _, seg := range segs {
		if seg.Start > clock {
			timeline = append(timeline, ganttSegment{Label: "cs", Start: clock, Stop: seg.Start})
		}
		timeline = append(timeline, seg)
		clock = seg.Stop
	}
	return timeline
}

// printGantt writes the timeline as a text Gantt chart: labels on one row, start
// times below.
func printGantt(w io.Writer, tr *trace.SimulationTrace) {
	gantt := ganttSegments(tr)
	if len(gantt) == 0 {
		return
	}
	_, _ = fmt.Fprintln(w, "Gantt schedule")
	_, _ = fmt.Fprint(w, "|")
	for i := range gantt {
		label := gantt[i].Label
		padding := strings.Repeat(" ", max(8-len(label), 0)/2)
		_, _ = fmt.Fprint(w, padding, label, padding, "|")
	}
	_, _ = fmt.Fprintln(w)
	for i := range gantt {
		_, _ = fmt.Fprint(w, fmt.Sprint(gantt[i].Start), "\t")
		if len(gantt)-1 == i {
			_, _ = fmt.Fprint(w, fmt.Sprint(gantt[i].Stop))
		}
	}
	_, _ = fmt.Fprintf(w, "\n\n")
}

// printTraceSummary writes the aggregate view of a decision trace.
func printTraceSummary(w io.Writer, summary *trace.TraceSummary) {
	_, _ = fmt.Fprintln(w, "=== Trace Summary ===")
	_, _ = fmt.Fprintf(w, "Slices               : %d (%d truncated)\n", summary.TotalSlices, summary.Truncations)
	_, _ = fmt.Fprintf(w, "Promotions           : %d\n", summary.Promotions)
	_, _ = fmt.Fprintf(w, "CPU Utilization      : %.2f%%\n", summary.Utilization*100)
}
