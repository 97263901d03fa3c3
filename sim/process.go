// Defines the process records that flow from the builder into the engine.
// Tracks tier, static priority, remaining time and the completion-derived statistics.

package sim

import (
	"fmt"
)

// Tier determines a process's quantum size and preemption privilege.
type Tier string

const (
	TierPlatinum Tier = "PLATINUM"
	TierGold     Tier = "GOLD"
	TierSilver   Tier = "SILVER"
)

// validTiers maps accepted tier names.
var validTiers = map[Tier]bool{
	TierPlatinum: true,
	TierGold:     true,
	TierSilver:   true,
}

// ParseTier converts a tier name from an input source. Matching is case-sensitive.
func ParseTier(name string) (Tier, error) {
	t := Tier(name)
	if !validTiers[t] {
		return "", fmt.Errorf("%w: unknown tier %q; valid: PLATINUM, GOLD, SILVER", ErrMalformedInput, name)
	}
	return t, nil
}

// IsValid reports whether t is one of the three tiers.
func (t Tier) IsValid() bool {
	return validTiers[t]
}

// ExitInstructionID is the sentinel id that terminates every program.
const ExitInstructionID = -1

// Instruction is one immutable catalog entry.
type Instruction struct {
	ID   int
	Cost int64
}

// Program is the ordered instruction id sequence of one process slot,
// terminated by ExitInstructionID.
type Program struct {
	ProcessID      int
	InstructionIDs []int
}

// ProcessDefinition is the ground-truth record derived from a Program.
type ProcessDefinition struct {
	ID             int
	InstructionIDs []int
	BurstTime      int64
}

// ProcessEntry is one row of the definition source: who runs, when, and how urgently.
type ProcessEntry struct {
	ID          int
	Priority    int
	ArrivalTime int64
	Tier        Tier
}

// Process is the mutable simulation record. It is created once per run from a
// ProcessDefinition and a ProcessEntry, and mutated only by the Simulator.
type Process struct {
	ID          int
	Tier        Tier // current tier; only ever promoted
	InitialTier Tier // tier read from the definition source
	Priority    int  // static, as read from the definition source
	ArrivalTime int64
	BurstTime   int64

	RemainingTime        int64 // non-increasing, reaches 0 exactly at completion
	Completed            bool
	ExecutedQuantaInTier int // full quanta consumed since the last promotion

	CompletionTime int64
	TurnaroundTime int64 // CompletionTime - ArrivalTime
	WaitingTime    int64 // TurnaroundTime - BurstTime

	// rank is the effective scheduling priority. It starts at Priority and drops
	// below every ready peer each time the process is granted the CPU.
	// dispatches counts the slices granted.
	rank       int
	dispatches int
}

// NewProcess creates a schedulable process with remaining time equal to the burst.
func NewProcess(def *ProcessDefinition, entry ProcessEntry) *Process {
	return &Process{
		ID:            entry.ID,
		Tier:          entry.Tier,
		InitialTier:   entry.Tier,
		Priority:      entry.Priority,
		ArrivalTime:   entry.ArrivalTime,
		BurstTime:     def.BurstTime,
		RemainingTime: def.BurstTime,
		rank:          entry.Priority,
	}
}

// ExecutedTime is the cumulative CPU time granted so far; it drives promotion.
func (p *Process) ExecutedTime() int64 {
	return p.BurstTime - p.RemainingTime
}

// clone returns an independent copy, so that a Simulator owns its state exclusively.
func (p *Process) clone() *Process {
	c := *p
	return &c
}

// This method returns a human-readable string representation of a Process.
func (p Process) String() string {
	return fmt.Sprintf("Process: (ID: P%d, Tier: %s, Priority: %d, ArrivalTime: %d, Remaining: %d/%d)",
		p.ID, p.Tier, p.Priority, p.ArrivalTime, p.RemainingTime, p.BurstTime)
}
