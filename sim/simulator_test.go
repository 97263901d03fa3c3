package sim

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basak-tepe/scheduler/sim/internal/testutil"
	"github.com/basak-tepe/scheduler/sim/trace"
)

// TestSimulator_GoldenDataset replays every hand-verified scenario and checks
// per-process outcomes and run-level averages.
func TestSimulator_GoldenDataset(t *testing.T) {
	dataset := testutil.LoadGoldenDataset(t)

	for _, tc := range dataset.Tests {
		t.Run(tc.Name, func(t *testing.T) {
			sim := mustRun(t, goldenProcesses(tc))

			for _, gp := range tc.Processes {
				p := processByID(t, sim, gp.ID)
				assert.Equal(t, gp.Completion, p.CompletionTime, "P%d completion", gp.ID)
				assert.Equal(t, gp.Turnaround, p.TurnaroundTime, "P%d turnaround", gp.ID)
				assert.Equal(t, gp.Waiting, p.WaitingTime, "P%d waiting", gp.ID)
				assert.Equal(t, Tier(gp.FinalTier), p.Tier, "P%d final tier", gp.ID)
			}

			testutil.AssertFloat64Equal(t, "avg_turnaround", tc.Metrics.AvgTurnaround, sim.Metrics.AverageTurnaround(), 1e-9)
			testutil.AssertFloat64Equal(t, "avg_waiting", tc.Metrics.AvgWaiting, sim.Metrics.AverageWaiting(), 1e-9)
			assert.Equal(t, tc.Metrics.Promotions, sim.Metrics.Promotions, "promotions")
			assert.Equal(t, tc.Metrics.Truncations, sim.Metrics.Truncations, "truncations")
			assert.Equal(t, tc.Metrics.IdleTime, sim.Metrics.IdleTime, "idle time")
		})
	}
}

func TestSimulator_SingleSilverProcess_CompletesAfterInitialSwitch(t *testing.T) {
	// GIVEN one SILVER process with burst 50 arriving at 0
	procs := []*Process{newTestProcess(1, TierSilver, 1, 0, 50)}

	// WHEN the simulation runs
	sim := mustRun(t, procs)

	// THEN it runs once for its whole burst, starting after the 10-tick initial switch
	p := processByID(t, sim, 1)
	assert.Equal(t, int64(60), p.CompletionTime)
	assert.Equal(t, int64(60), p.TurnaroundTime)
	assert.Equal(t, int64(10), p.WaitingTime)
	require.Len(t, sim.Trace.Slices, 1)
	assert.Equal(t, trace.SliceKindCompletion, sim.Trace.Slices[0].Kind)
}

func TestSimulator_CompletionIdentities_HoldForAllProcesses(t *testing.T) {
	dataset := testutil.LoadGoldenDataset(t)
	for _, tc := range dataset.Tests {
		sim := mustRun(t, goldenProcesses(tc))
		for _, p := range sim.Processes {
			// turnaround = completion - arrival, waiting = turnaround - burst
			if p.TurnaroundTime != p.CompletionTime-p.ArrivalTime {
				t.Errorf("%s: P%d turnaround %d != completion %d - arrival %d",
					tc.Name, p.ID, p.TurnaroundTime, p.CompletionTime, p.ArrivalTime)
			}
			if p.WaitingTime != p.TurnaroundTime-p.BurstTime {
				t.Errorf("%s: P%d waiting %d != turnaround %d - burst %d",
					tc.Name, p.ID, p.WaitingTime, p.TurnaroundTime, p.BurstTime)
			}
			if !p.Completed || p.RemainingTime != 0 {
				t.Errorf("%s: P%d not completed (remaining %d)", tc.Name, p.ID, p.RemainingTime)
			}
		}
	}
}

func TestSimulator_RemainingTime_NeverIncreasesAndReachesZero(t *testing.T) {
	// GIVEN a mix of tiers with promotions, truncation and round robin
	procs := []*Process{
		newTestProcess(1, TierSilver, 2, 0, 500),
		newTestProcess(2, TierSilver, 2, 0, 260),
		newTestProcess(3, TierGold, 1, 30, 700),
		newTestProcess(4, TierPlatinum, 1, 95, 40),
		newTestProcess(5, TierPlatinum, 4, 400, 15),
	}
	sim, err := NewSimulator(DefaultEngineConfig(), procs, nil)
	require.NoError(t, err)

	// WHEN stepping cycle by cycle
	last := make(map[int]int64)
	for _, p := range sim.Processes {
		last[p.ID] = p.RemainingTime
	}
	for {
		done, err := sim.Step()
		require.NoError(t, err)
		for _, p := range sim.Processes {
			// THEN remaining time is non-increasing and never negative
			if p.RemainingTime > last[p.ID] {
				t.Fatalf("P%d remaining time increased from %d to %d", p.ID, last[p.ID], p.RemainingTime)
			}
			if p.RemainingTime < 0 {
				t.Fatalf("P%d remaining time negative: %d", p.ID, p.RemainingTime)
			}
			// AND completed is set iff remaining reached zero
			if p.Completed != (p.RemainingTime == 0) {
				t.Fatalf("P%d completed=%v with remaining %d", p.ID, p.Completed, p.RemainingTime)
			}
			last[p.ID] = p.RemainingTime
		}
		if done {
			break
		}
	}
	for id, remaining := range last {
		assert.Zero(t, remaining, "P%d remaining", id)
	}
}

func TestSimulator_PlatinumProcess_CompletesInSingleSlice(t *testing.T) {
	// GIVEN a GOLD process running and PLATINUM arrivals before and during its slices
	procs := []*Process{
		newTestProcess(1, TierGold, 1, 0, 200),
		newTestProcess(2, TierPlatinum, 1, 5, 50),
		newTestProcess(3, TierPlatinum, 1, 100, 70),
	}

	// WHEN the simulation runs
	sim := mustRun(t, procs)

	// THEN every platinum-tier slice finishes its process, and each platinum process
	// is dispatched exactly once
	counts := map[int]int{}
	for _, s := range sim.Trace.Slices {
		if s.Tier == string(TierPlatinum) {
			assert.Equal(t, trace.SliceKindPlatinum, s.Kind)
			assert.Zero(t, s.Remaining, "P%d platinum slice left work", s.ProcessID)
			counts[s.ProcessID]++
		}
	}
	assert.Equal(t, map[int]int{2: 1, 3: 1}, counts)
}

func TestSimulator_PlatinumArrivalMidSlice_TruncatesAtArrival(t *testing.T) {
	// GIVEN a SILVER process whose first quantum [10,90) contains a platinum arrival at 50
	procs := []*Process{
		newTestProcess(1, TierSilver, 1, 0, 200),
		newTestProcess(2, TierPlatinum, 1, 50, 30),
	}

	// WHEN the simulation runs
	sim := mustRun(t, procs)

	// THEN the silver slice stops at 50, keeps its 40 ticks of progress, and the
	// platinum process takes over immediately
	want := []trace.SliceRecord{
		{ProcessID: 1, Tier: "SILVER", Start: 10, End: 50, Kind: trace.SliceKindTruncated, Remaining: 160},
		{ProcessID: 2, Tier: "PLATINUM", Start: 50, End: 80, Kind: trace.SliceKindPlatinum, Remaining: 0},
		{ProcessID: 1, Tier: "SILVER", Start: 90, End: 170, Kind: trace.SliceKindQuantum, Remaining: 80},
		{ProcessID: 1, Tier: "SILVER", Start: 170, End: 250, Kind: trace.SliceKindSurvivor, Remaining: 0},
	}
	assert.Equal(t, want, sim.Trace.Slices)
	assert.Equal(t, 1, sim.Metrics.Truncations)
	assert.Equal(t, 1, sim.Metrics.ContextSwitches)
}

func TestSimulator_PlatinumArrivingAtSliceEnd_DoesNotTruncate(t *testing.T) {
	// GIVEN a platinum arrival exactly at the end of the running quantum (10 + 80)
	procs := []*Process{
		newTestProcess(1, TierSilver, 1, 0, 200),
		newTestProcess(2, TierPlatinum, 1, 90, 30),
	}

	// WHEN the simulation runs
	sim := mustRun(t, procs)

	// THEN the quantum is not cut (the window is open at its end)
	assert.Zero(t, sim.Metrics.Truncations)
	require.NotEmpty(t, sim.Trace.Slices)
	assert.Equal(t, trace.SliceKindQuantum, sim.Trace.Slices[0].Kind)
	assert.Equal(t, int64(90), sim.Trace.Slices[0].End)
	assert.Equal(t, int64(120), processByID(t, sim, 2).CompletionTime)
}

func TestSimulator_SilverPromotion_UsesGoldQuantumAfterward(t *testing.T) {
	// GIVEN two SILVER processes long enough to both reach 240 executed ticks
	procs := []*Process{
		newTestProcess(1, TierSilver, 5, 0, 400),
		newTestProcess(2, TierSilver, 1, 0, 300),
	}

	// WHEN the simulation runs
	sim := mustRun(t, procs)

	// THEN P1 is promoted to GOLD first, after three full quanta
	require.Len(t, sim.Trace.Promotions, 2)
	promo := sim.Trace.Promotions[0]
	assert.Equal(t, trace.PromotionRecord{ProcessID: 1, Clock: 410, From: "SILVER", To: "GOLD", Executed: 240}, promo)
	assert.Equal(t, trace.PromotionRecord{ProcessID: 2, Clock: 490, From: "SILVER", To: "GOLD", Executed: 240}, sim.Trace.Promotions[1])

	// AND its next slice is a 120-tick GOLD quantum
	var after []trace.SliceRecord
	for _, s := range sim.Trace.Slices {
		if s.ProcessID == 1 && s.Start >= promo.Clock {
			after = append(after, s)
		}
	}
	require.NotEmpty(t, after)
	assert.Equal(t, "GOLD", after[0].Tier)
	assert.Equal(t, int64(490), after[0].Start)
	assert.Equal(t, int64(120), after[0].Duration())
	assert.Equal(t, trace.SliceKindQuantum, after[0].Kind)
}

func TestSimulator_JustRunProcess_GoesBehindLowerPriorityPeer(t *testing.T) {
	// GIVEN a high-priority and a low-priority SILVER process ready together
	procs := []*Process{
		newTestProcess(1, TierSilver, 5, 0, 400),
		newTestProcess(2, TierSilver, 1, 0, 100),
	}

	// WHEN the simulation runs
	sim := mustRun(t, procs)

	// THEN the CPU alternates instead of staying with the higher priority
	require.GreaterOrEqual(t, len(sim.Trace.Slices), 3)
	var order []int
	for _, s := range sim.Trace.Slices[:3] {
		order = append(order, s.ProcessID)
	}
	assert.Equal(t, []int{1, 2, 1}, order)
	assert.Equal(t, int64(90), sim.Trace.Slices[1].Start)

	// AND the static priorities are untouched
	assert.Equal(t, 5, processByID(t, sim, 1).Priority)
	assert.Equal(t, 1, processByID(t, sim, 2).Priority)
	assert.Equal(t, int64(270), processByID(t, sim, 2).CompletionTime)
	assert.Equal(t, int64(510), processByID(t, sim, 1).CompletionTime)
}

func TestSimulator_Promotion_IsMonotonic(t *testing.T) {
	rank := map[string]int{"SILVER": 0, "GOLD": 1, "PLATINUM": 2}
	dataset := testutil.LoadGoldenDataset(t)
	for _, tc := range dataset.Tests {
		sim := mustRun(t, goldenProcesses(tc))
		for _, promo := range sim.Trace.Promotions {
			// THEN every promotion moves exactly one tier up
			if rank[promo.To] != rank[promo.From]+1 {
				t.Errorf("%s: P%d promoted %s -> %s", tc.Name, promo.ProcessID, promo.From, promo.To)
			}
		}
		for _, p := range sim.Processes {
			if rank[string(p.Tier)] < rank[string(p.InitialTier)] {
				t.Errorf("%s: P%d demoted from %s to %s", tc.Name, p.ID, p.InitialTier, p.Tier)
			}
		}
	}
}

func TestSimulator_SingleSurvivor_FinishesInOneCycle(t *testing.T) {
	// GIVEN exactly one process whose burst exceeds its quantum
	sim, err := NewSimulator(DefaultEngineConfig(), []*Process{newTestProcess(1, TierSilver, 1, 0, 300)}, nil)
	require.NoError(t, err)

	// WHEN a single cycle executes
	done, err := sim.Step()

	// THEN the process has run to completion regardless of the 80-tick quantum
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, int64(1), sim.CycleCount)
	assert.Equal(t, int64(310), sim.Processes[0].CompletionTime)
}

func TestSimulator_Rerun_IsDeterministic(t *testing.T) {
	dataset := testutil.LoadGoldenDataset(t)
	for _, tc := range dataset.Tests {
		t.Run(tc.Name, func(t *testing.T) {
			// GIVEN one input table
			procs := goldenProcesses(tc)

			// WHEN it is simulated twice
			first := mustRun(t, procs)
			second := mustRun(t, procs)

			// THEN timelines and statistics are identical
			assert.Equal(t, first.Metrics, second.Metrics)
			assert.Equal(t, first.Trace, second.Trace)
			assert.Equal(t, first.Clock, second.Clock)

			// AND the caller's records were never mutated
			for _, p := range procs {
				assert.Equal(t, p.BurstTime, p.RemainingTime, "P%d input mutated", p.ID)
				assert.False(t, p.Completed)
			}
		})
	}
}

func TestSimulator_CycleCapExceeded_ReturnsInvariantViolation(t *testing.T) {
	// GIVEN two processes arriving far beyond a tiny cycle cap
	cfg := DefaultEngineConfig()
	cfg.MaxCycles = 50
	procs := []*Process{
		newTestProcess(1, TierSilver, 1, 1000, 30),
		newTestProcess(2, TierGold, 1, 1000, 30),
	}
	sim, err := NewSimulator(cfg, procs, nil)
	require.NoError(t, err)

	// WHEN the simulation runs
	err = sim.Run()

	// THEN the failure is an invariant violation, distinct from malformed input
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvariantViolation))
	assert.False(t, errors.Is(err, ErrMalformedInput))
	assert.Equal(t, int64(51), sim.CycleCount)
	assert.False(t, sim.Done())
}

func TestSimulator_IdleCycles_AdvanceOneTickEach(t *testing.T) {
	// GIVEN two processes arriving at tick 15
	sim, err := NewSimulator(DefaultEngineConfig(), []*Process{
		newTestProcess(1, TierSilver, 1, 15, 30),
		newTestProcess(2, TierSilver, 1, 15, 30),
	}, trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevelDecisions}))
	require.NoError(t, err)

	// WHEN five cycles execute
	for i := 0; i < 5; i++ {
		_, err := sim.Step()
		require.NoError(t, err)
	}

	// THEN the clock moved from 10 to 15 one tick at a time, recorded as one idle interval
	assert.Equal(t, int64(15), sim.Clock)
	assert.Equal(t, int64(5), sim.Metrics.IdleTime)
	assert.Equal(t, []trace.IdleRecord{{Start: 10, End: 15}}, sim.Trace.Idles)
}

func TestNewSimulator_InvalidInput_ReturnsMalformedInput(t *testing.T) {
	badQuantum := DefaultEngineConfig()
	badQuantum.Quantum.Silver = 0

	started := newTestProcess(1, TierSilver, 1, 0, 50)
	started.RemainingTime = 20

	tests := []struct {
		name  string
		cfg   EngineConfig
		procs []*Process
	}{
		{"no processes", DefaultEngineConfig(), nil},
		{"duplicate ids", DefaultEngineConfig(), []*Process{newTestProcess(1, TierGold, 1, 0, 10), newTestProcess(1, TierGold, 1, 0, 10)}},
		{"unknown tier", DefaultEngineConfig(), []*Process{newTestProcess(1, Tier("BRONZE"), 1, 0, 10)}},
		{"zero burst", DefaultEngineConfig(), []*Process{newTestProcess(1, TierGold, 1, 0, 0)}},
		{"negative arrival", DefaultEngineConfig(), []*Process{newTestProcess(1, TierGold, 1, -5, 10)}},
		{"already scheduled", DefaultEngineConfig(), []*Process{started}},
		{"invalid quantum", badQuantum, []*Process{newTestProcess(1, TierGold, 1, 0, 10)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSimulator(tt.cfg, tt.procs, nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedInput), "got %v", err)
		})
	}
}

func TestNewSimulator_ZeroAgingThresholds_FollowQuanta(t *testing.T) {
	// GIVEN custom quanta and no explicit thresholds
	cfg := DefaultEngineConfig()
	cfg.Quantum = NewQuantumConfig(50, 100)
	cfg.Aging = AgingConfig{}

	// WHEN a simulator is created
	sim, err := NewSimulator(cfg, []*Process{newTestProcess(1, TierSilver, 1, 0, 10)}, nil)

	// THEN thresholds are 3 silver quanta and 5 gold quanta
	require.NoError(t, err)
	assert.Equal(t, NewAgingConfig(150, 500), sim.Config.Aging)
}

func TestSimulator_TraceSpan_MatchesEndTimeAndCountsSwitches(t *testing.T) {
	// GIVEN a PLATINUM run followed by a context switch and a SILVER completion
	sim := mustRun(t, []*Process{
		newTestProcess(1, TierPlatinum, 1, 0, 50),
		newTestProcess(2, TierSilver, 1, 0, 30),
	})

	// WHEN the trace is summarized
	summary := trace.Summarize(sim.Trace)

	// THEN the span reaches the end of the run
	assert.Equal(t, sim.Metrics.SimEndedTime, summary.Span)
	assert.Equal(t, int64(100), summary.Span)

	// AND the initial and post-platinum switches count against utilization
	testutil.AssertFloat64Equal(t, "utilization", 80.0/100.0, summary.Utilization, 1e-9)
}
