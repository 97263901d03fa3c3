// Tracks simulation-wide and per-process scheduling metrics such as
// turnaround, waiting, busy and idle time.

package sim

import (
	"fmt"
	"io"
	"sort"

	"github.com/olekukonko/tablewriter"
)

// ProcessStats is the read-only outcome of one completed process.
type ProcessStats struct {
	ID             int
	InitialTier    Tier
	FinalTier      Tier
	Priority       int
	ArrivalTime    int64
	BurstTime      int64
	CompletionTime int64
	TurnaroundTime int64
	WaitingTime    int64
	Dispatches     int
	QuantaInTier   int // full quanta run in the final tier
}

// Metrics aggregates statistics about the simulation for final reporting.
type Metrics struct {
	CompletedProcesses int
	TotalTurnaround    int64 // sum of completion - arrival
	TotalWaiting       int64 // sum of turnaround - burst

	BusyTime          int64 // ticks spent executing processes
	IdleTime          int64 // ticks with no ready process
	ContextSwitches   int   // switches charged after platinum runs
	ContextSwitchTime int64
	Dispatches        int // slices granted
	Truncations       int // slices cut short by a platinum arrival
	Promotions        int
	SimEndedTime      int64

	Processes map[int]*ProcessStats // process ID -> stats
}

// NewMetrics creates an empty Metrics.
func NewMetrics() *Metrics {
	return &Metrics{Processes: make(map[int]*ProcessStats)}
}

// RecordCompletion stores the final statistics of a completed process.
func (m *Metrics) RecordCompletion(p *Process) {
	m.CompletedProcesses++
	m.TotalTurnaround += p.TurnaroundTime
	m.TotalWaiting += p.WaitingTime
	m.Processes[p.ID] = &ProcessStats{
		ID:             p.ID,
		InitialTier:    p.InitialTier,
		FinalTier:      p.Tier,
		Priority:       p.Priority,
		ArrivalTime:    p.ArrivalTime,
		BurstTime:      p.BurstTime,
		CompletionTime: p.CompletionTime,
		TurnaroundTime: p.TurnaroundTime,
		WaitingTime:    p.WaitingTime,
		Dispatches:     p.dispatches,
		QuantaInTier:   p.ExecutedQuantaInTier,
	}
}

// AverageTurnaround returns the mean turnaround time over completed processes.
func (m *Metrics) AverageTurnaround() float64 {
	if m.CompletedProcesses == 0 {
		return 0
	}
	return float64(m.TotalTurnaround) / float64(m.CompletedProcesses)
}

// AverageWaiting returns the mean waiting time over completed processes.
func (m *Metrics) AverageWaiting() float64 {
	if m.CompletedProcesses == 0 {
		return 0
	}
	return float64(m.TotalWaiting) / float64(m.CompletedProcesses)
}

// SortedStats returns the per-process statistics ordered by process ID.
func (m *Metrics) SortedStats() []*ProcessStats {
	stats := make([]*ProcessStats, 0, len(m.Processes))
	for _, s := range m.Processes {
		stats = append(stats, s)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].ID < stats[j].ID })
	return stats
}

// Print displays the schedule table and aggregated metrics at the end of the simulation.
func (m *Metrics) Print(w io.Writer) {
	_, _ = fmt.Fprintln(w, "=== Simulation Metrics ===")
	_, _ = fmt.Fprintf(w, "Completed Processes  : %d\n", m.CompletedProcesses)
	_, _ = fmt.Fprintf(w, "Simulation Ended At  : %d\n", m.SimEndedTime)
	_, _ = fmt.Fprintf(w, "Busy / Idle Time     : %d / %d\n", m.BusyTime, m.IdleTime)
	_, _ = fmt.Fprintf(w, "Context Switches     : %d (%d ticks)\n", m.ContextSwitches, m.ContextSwitchTime)
	_, _ = fmt.Fprintf(w, "Truncated Slices     : %d\n", m.Truncations)
	_, _ = fmt.Fprintf(w, "Promotions           : %d\n", m.Promotions)
	if m.CompletedProcesses == 0 {
		return
	}

	rows := make([][]string, 0, len(m.Processes))
	for _, s := range m.SortedStats() {
		tier := string(s.InitialTier)
		if s.FinalTier != s.InitialTier {
			tier = fmt.Sprintf("%s -> %s", s.InitialTier, s.FinalTier)
		}
		rows = append(rows, []string{
			fmt.Sprintf("P%d", s.ID),
			tier,
			fmt.Sprint(s.Priority),
			fmt.Sprint(s.BurstTime),
			fmt.Sprint(s.ArrivalTime),
			fmt.Sprint(s.Dispatches),
			fmt.Sprint(s.QuantaInTier),
			fmt.Sprint(s.CompletionTime),
			fmt.Sprint(s.WaitingTime),
			fmt.Sprint(s.TurnaroundTime),
		})
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Tier", "Priority", "Burst", "Arrival", "Slices", "Quanta", "Exit", "Wait", "Turnaround"})
	table.AppendBulk(rows)
	table.SetFooter([]string{"", "", "", "", "", "", "", "",
		"Average\n" + FormatAverage(m.AverageWaiting()),
		"Average\n" + FormatAverage(m.AverageTurnaround())})
	table.Render()
}
