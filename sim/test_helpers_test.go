package sim

import (
	"testing"

	"github.com/basak-tepe/scheduler/sim/internal/testutil"
	"github.com/basak-tepe/scheduler/sim/trace"
)

// newTestProcess builds a schedulable process directly, bypassing the builder.
func newTestProcess(id int, tier Tier, priority int, arrival, burst int64) *Process {
	return NewProcess(
		&ProcessDefinition{ID: id, BurstTime: burst},
		ProcessEntry{ID: id, Priority: priority, ArrivalTime: arrival, Tier: tier},
	)
}

// goldenProcesses converts a golden scenario into schedulable processes.
func goldenProcesses(tc testutil.GoldenTestCase) []*Process {
	procs := make([]*Process, 0, len(tc.Processes))
	for _, gp := range tc.Processes {
		procs = append(procs, newTestProcess(gp.ID, Tier(gp.Tier), gp.Priority, gp.Arrival, gp.Burst))
	}
	return procs
}

// mustRun creates a simulator with the default engine config and runs it to completion.
func mustRun(t *testing.T, procs []*Process) *Simulator {
	t.Helper()
	sim, err := NewSimulator(DefaultEngineConfig(), procs, trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevelDecisions}))
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}
	if err := sim.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return sim
}

// processByID finds a process in the simulator's table.
func processByID(t *testing.T, sim *Simulator, id int) *Process {
	t.Helper()
	for _, p := range sim.Processes {
		if p.ID == id {
			return p
		}
	}
	t.Fatalf("P%d not in process table", id)
	return nil
}
