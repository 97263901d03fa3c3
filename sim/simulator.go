// sim/simulator.go
package sim

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/basak-tepe/scheduler/sim/trace"
)

// Simulator is the core object that holds simulation time, process state, and the cycle loop.
// It owns its processes exclusively for the duration of a run.
type Simulator struct {
	Clock  int64
	Config EngineConfig
	// Processes is the process table sorted by ID; copies of the caller's records.
	Processes []*Process
	// ReadyQ is rebuilt every cycle from the arrived, unfinished processes.
	ReadyQ *ReadyQueue
	Order  ReadyOrder
	// Metrics is populated as processes complete.
	Metrics *Metrics
	// Trace is optional; nil or level "none" records nothing.
	Trace      *trace.SimulationTrace
	CycleCount int64

	unfinished int
}

// NewSimulator validates the configuration and the process table and returns a
// Simulator holding independent copies of the processes.
// Zero-valued aging thresholds and cycle cap take their defaults.
func NewSimulator(cfg EngineConfig, processes []*Process, tr *trace.SimulationTrace) (*Simulator, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(processes) == 0 {
		return nil, fmt.Errorf("%w: no processes to schedule", ErrMalformedInput)
	}

	seen := make(map[int]bool, len(processes))
	owned := make([]*Process, 0, len(processes))
	for _, p := range processes {
		if err := validateProcess(p); err != nil {
			return nil, err
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("%w: duplicate process id P%d", ErrMalformedInput, p.ID)
		}
		seen[p.ID] = true
		owned = append(owned, p.clone())
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].ID < owned[j].ID })

	return &Simulator{
		Clock:      cfg.InitialClock,
		Config:     cfg,
		Processes:  owned,
		ReadyQ:     &ReadyQueue{},
		Order:      &PriorityRoundRobinOrder{},
		Metrics:    NewMetrics(),
		Trace:      tr,
		unfinished: len(owned),
	}, nil
}

func validateProcess(p *Process) error {
	switch {
	case p == nil:
		return fmt.Errorf("%w: nil process", ErrMalformedInput)
	case !p.Tier.IsValid():
		return fmt.Errorf("%w: P%d has unknown tier %q", ErrMalformedInput, p.ID, p.Tier)
	case p.BurstTime <= 0:
		return fmt.Errorf("%w: P%d has non-positive burst time %d", ErrMalformedInput, p.ID, p.BurstTime)
	case p.RemainingTime != p.BurstTime || p.Completed:
		return fmt.Errorf("%w: P%d has already been scheduled", ErrMalformedInput, p.ID)
	case p.ArrivalTime < 0:
		return fmt.Errorf("%w: P%d has negative arrival time %d", ErrMalformedInput, p.ID, p.ArrivalTime)
	}
	return nil
}

// Run executes cycles until every process has completed.
// Exceeding the cycle cap returns an error wrapping ErrInvariantViolation.
func (sim *Simulator) Run() error {
	logrus.Infof("[tick %07d] Starting simulation of %d processes", sim.Clock, len(sim.Processes))
	for {
		done, err := sim.Step()
		if err != nil {
			return err
		}
		if done {
			break
		}
	}
	sim.Metrics.SimEndedTime = sim.Clock
	if err := sim.verify(); err != nil {
		return err
	}
	logrus.Infof("[tick %07d] Simulation ended after %d cycles", sim.Clock, sim.CycleCount)
	return nil
}

// Done reports whether every process has completed.
func (sim *Simulator) Done() bool {
	return sim.unfinished == 0
}

// Step executes one decision cycle: platinum check or candidate slice (or idle),
// then aging and the single-survivor shortcut. It returns true once all processes
// have completed.
func (sim *Simulator) Step() (bool, error) {
	if sim.Done() {
		return true, nil
	}
	sim.CycleCount++
	if sim.CycleCount > sim.Config.MaxCycles {
		return false, fmt.Errorf("%w: cycle cap %d exceeded at tick %d with %d unfinished processes",
			ErrInvariantViolation, sim.Config.MaxCycles, sim.Clock, sim.unfinished)
	}

	ev := sim.nextDecision()
	logrus.Debugf("[tick %07d] Executing %T, ready=%v", ev.Timestamp(), ev, sim.ReadyQ)
	if err := ev.Execute(sim); err != nil {
		return false, err
	}

	// A platinum run restarts the cycle: aging and the survivor check wait for the next one.
	if _, platinum := ev.(*PlatinumRunEvent); !platinum {
		sim.age()
		if ev := sim.survivorDecision(); ev != nil {
			if err := ev.Execute(sim); err != nil {
				return false, err
			}
		}
	}
	return sim.Done(), nil
}

// nextDecision rebuilds the ready queue and picks this cycle's event.
func (sim *Simulator) nextDecision() Event {
	sim.ReadyQ.Reset()
	for _, p := range sim.Processes {
		if !p.Completed && p.ArrivalTime <= sim.Clock {
			sim.ReadyQ.Enqueue(p)
		}
	}
	sim.ReadyQ.Reorder(sim.Order.OrderQueue)

	if p := sim.ReadyQ.FirstOfTier(TierPlatinum); p != nil {
		return &PlatinumRunEvent{time: sim.Clock, Process: p}
	}
	if p := sim.ReadyQ.Peek(); p != nil {
		return &SliceEvent{time: sim.Clock, Process: p}
	}
	return &IdleEvent{time: sim.Clock, Duration: 1}
}

// survivorDecision returns a SurvivorEvent when exactly one process has work left.
func (sim *Simulator) survivorDecision() Event {
	if sim.unfinished != 1 {
		return nil
	}
	for _, p := range sim.Processes {
		if !p.Completed {
			return &SurvivorEvent{time: sim.Clock, Process: p}
		}
	}
	return nil
}

// runSlice grants one quantum (or the whole remainder if shorter). A PLATINUM arrival
// strictly inside the slice window truncates it at the arrival instant; the
// interrupted process keeps the partial progress.
func (sim *Simulator) runSlice(p *Process) error {
	slice := p.RemainingTime
	quantum, sliced := sim.Config.Quantum.quantumFor(p.Tier)
	if sliced && quantum < slice {
		slice = quantum
	}
	kind := trace.SliceKindQuantum
	if slice == p.RemainingTime {
		kind = trace.SliceKindCompletion
	}

	if at, ok := sim.platinumArrivalWithin(sim.Clock, sim.Clock+slice); ok {
		logrus.Infof("[tick %07d] P%d slice truncated at tick %d by a platinum arrival", sim.Clock, p.ID, at)
		slice = at - sim.Clock
		kind = trace.SliceKindTruncated
		sim.Metrics.Truncations++
	}
	if kind == trace.SliceKindQuantum {
		p.ExecutedQuantaInTier++
	}
	return sim.grant(p, slice, kind)
}

// platinumArrivalWithin returns the earliest arrival of an unfinished PLATINUM
// process in the open interval (start, end).
func (sim *Simulator) platinumArrivalWithin(start, end int64) (int64, bool) {
	earliest, found := int64(0), false
	for _, p := range sim.Processes {
		if p.Completed || p.Tier != TierPlatinum {
			continue
		}
		if p.ArrivalTime > start && p.ArrivalTime < end && (!found || p.ArrivalTime < earliest) {
			earliest, found = p.ArrivalTime, true
		}
	}
	return earliest, found
}

// grant gives p the CPU for d ticks starting now.
func (sim *Simulator) grant(p *Process, d int64, kind trace.SliceKind) error {
	if d <= 0 || d > p.RemainingTime {
		return fmt.Errorf("%w: P%d granted %d ticks with %d remaining", ErrInvariantViolation, p.ID, d, p.RemainingTime)
	}
	start, tier := sim.Clock, p.Tier
	sim.Clock += d
	p.RemainingTime -= d
	sim.rotate(p)
	p.dispatches++
	sim.Metrics.BusyTime += d
	sim.Metrics.Dispatches++

	if p.RemainingTime == 0 {
		sim.complete(p)
	}
	if sim.Trace.Enabled() {
		sim.Trace.RecordSlice(trace.SliceRecord{
			ProcessID: p.ID,
			Tier:      string(tier),
			Start:     start,
			End:       sim.Clock,
			Kind:      kind,
			Remaining: p.RemainingTime,
		})
	}
	logrus.Debugf("[tick %07d] P%d ran %d ticks (%s), remaining %d", sim.Clock, p.ID, d, kind, p.RemainingTime)
	return nil
}

// rotate drops p's effective rank below every process ready this cycle, so that
// another ready process is selected next.
func (sim *Simulator) rotate(p *Process) {
	lowest := p.rank
	for _, q := range sim.ReadyQ.Items() {
		if q.rank < lowest {
			lowest = q.rank
		}
	}
	p.rank = lowest - 1
}

// complete marks p finished at the current clock and records its statistics.
func (sim *Simulator) complete(p *Process) {
	p.Completed = true
	p.CompletionTime = sim.Clock
	p.TurnaroundTime = p.CompletionTime - p.ArrivalTime
	p.WaitingTime = p.TurnaroundTime - p.BurstTime
	sim.unfinished--
	sim.Metrics.RecordCompletion(p)
	logrus.Infof("[tick %07d] P%d completed: turnaround %d, waiting %d", sim.Clock, p.ID, p.TurnaroundTime, p.WaitingTime)
}

func (sim *Simulator) idle(d int64) {
	if sim.Trace.Enabled() {
		sim.Trace.RecordIdle(trace.IdleRecord{Start: sim.Clock, End: sim.Clock + d})
	}
	sim.Clock += d
	sim.Metrics.IdleTime += d
}

func (sim *Simulator) chargeContextSwitch() {
	sim.Clock += sim.Config.ContextSwitchCost
	sim.Metrics.ContextSwitches++
	sim.Metrics.ContextSwitchTime += sim.Config.ContextSwitchCost
}

// age promotes unfinished processes whose cumulative executed time has met a threshold.
// Both checks run in order, so the upgrade path is always SILVER -> GOLD -> PLATINUM.
func (sim *Simulator) age() {
	for _, p := range sim.Processes {
		if p.Completed {
			continue
		}
		if p.Tier == TierSilver && p.ExecutedTime() >= sim.Config.Aging.SilverToGold {
			sim.promote(p, TierGold)
		}
		if p.Tier == TierGold && p.ExecutedTime() >= sim.Config.Aging.GoldToPlatinum {
			sim.promote(p, TierPlatinum)
		}
	}
}

func (sim *Simulator) promote(p *Process, to Tier) {
	from := p.Tier
	p.Tier = to
	p.ExecutedQuantaInTier = 0
	sim.Metrics.Promotions++
	if sim.Trace.Enabled() {
		sim.Trace.RecordPromotion(trace.PromotionRecord{
			ProcessID: p.ID,
			Clock:     sim.Clock,
			From:      string(from),
			To:        string(to),
			Executed:  p.ExecutedTime(),
		})
	}
	logrus.Infof("[tick %07d] P%d promoted %s -> %s after %d executed ticks", sim.Clock, p.ID, from, to, p.ExecutedTime())
}

// verify checks the completion identities of every process after a run.
func (sim *Simulator) verify() error {
	for _, p := range sim.Processes {
		if !p.Completed || p.RemainingTime != 0 {
			return fmt.Errorf("%w: P%d finished the run with %d ticks remaining", ErrInvariantViolation, p.ID, p.RemainingTime)
		}
		if p.TurnaroundTime != p.CompletionTime-p.ArrivalTime || p.WaitingTime != p.TurnaroundTime-p.BurstTime {
			return fmt.Errorf("%w: P%d statistics are inconsistent", ErrInvariantViolation, p.ID)
		}
	}
	return nil
}
