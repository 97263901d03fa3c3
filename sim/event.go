package sim

import (
	"github.com/sirupsen/logrus"

	"github.com/basak-tepe/scheduler/sim/trace"
)

// Event defines the interface for the decisions a cycle can take.
// Each event has a Timestamp (the clock when it was decided) and an Execute method
// that advances simulation state when invoked.
type Event interface {
	Timestamp() int64
	Execute(*Simulator) error
}

// PlatinumRunEvent runs an arrived PLATINUM process to completion without slicing,
// then charges one context switch.
type PlatinumRunEvent struct {
	time    int64
	Process *Process
}

// Timestamp returns the decision time of the PlatinumRunEvent.
func (e *PlatinumRunEvent) Timestamp() int64 {
	return e.time
}

// Execute grants the whole remaining time, then charges the context switch.
func (e *PlatinumRunEvent) Execute(sim *Simulator) error {
	logrus.Infof("[tick %07d] Executing platinum P%d for %d ticks", e.time, e.Process.ID, e.Process.RemainingTime)
	if err := sim.grant(e.Process, e.Process.RemainingTime, trace.SliceKindPlatinum); err != nil {
		return err
	}
	sim.chargeContextSwitch()
	return nil
}

// SliceEvent gives the selected GOLD or SILVER process at most one quantum.
type SliceEvent struct {
	time    int64
	Process *Process
}

// Timestamp returns the decision time of the SliceEvent.
func (e *SliceEvent) Timestamp() int64 {
	return e.time
}

// Execute runs the quantum-bounded slice, truncated at any platinum arrival inside it.
func (e *SliceEvent) Execute(sim *Simulator) error {
	logrus.Debugf("[tick %07d] Executing P%d (%s, priority %d), remaining %d",
		e.time, e.Process.ID, e.Process.Tier, e.Process.Priority, e.Process.RemainingTime)
	return sim.runSlice(e.Process)
}

// IdleEvent advances the clock while no process is ready.
type IdleEvent struct {
	time     int64
	Duration int64
}

// Timestamp returns the decision time of the IdleEvent.
func (e *IdleEvent) Timestamp() int64 {
	return e.time
}

// Execute idles the CPU.
func (e *IdleEvent) Execute(sim *Simulator) error {
	logrus.Debugf("[tick %07d] CPU idle for %d ticks", e.time, e.Duration)
	sim.idle(e.Duration)
	return nil
}

// SurvivorEvent runs the last unfinished process to completion, waiting for its
// arrival first if needed.
type SurvivorEvent struct {
	time    int64
	Process *Process
}

// Timestamp returns the decision time of the SurvivorEvent.
func (e *SurvivorEvent) Timestamp() int64 {
	return e.time
}

// Execute runs the survivor without further slicing.
func (e *SurvivorEvent) Execute(sim *Simulator) error {
	if wait := e.Process.ArrivalTime - sim.Clock; wait > 0 {
		sim.idle(wait)
	}
	logrus.Infof("[tick %07d] Executing last process P%d to completion (%d ticks)", sim.Clock, e.Process.ID, e.Process.RemainingTime)
	return sim.grant(e.Process, e.Process.RemainingTime, trace.SliceKindSurvivor)
}
