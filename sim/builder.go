// Implements the Process Model Builder: derives each process's burst time from its
// program and the instruction catalog, then joins definitions with the definition
// source into the initial process table.

package sim

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
)

// InstructionCatalog is the read-only instruction id -> cost lookup shared by all programs.
type InstructionCatalog struct {
	costs    map[int]int64
	ExitCost int64 // cost of the catalog's exit entry
}

// NewInstructionCatalog indexes instructions by id.
// Duplicate ids, the exit sentinel used as a regular id, and negative costs are malformed.
func NewInstructionCatalog(instructions []Instruction, exitCost int64) (*InstructionCatalog, error) {
	if exitCost < 0 {
		return nil, fmt.Errorf("%w: exit cost must be non-negative, got %d", ErrMalformedInput, exitCost)
	}
	c := &InstructionCatalog{costs: make(map[int]int64, len(instructions)), ExitCost: exitCost}
	for _, in := range instructions {
		if in.ID == ExitInstructionID {
			return nil, fmt.Errorf("%w: instruction id %d is reserved for exit", ErrMalformedInput, in.ID)
		}
		if in.Cost < 0 {
			return nil, fmt.Errorf("%w: instruction %d has negative cost %d", ErrMalformedInput, in.ID, in.Cost)
		}
		if _, dup := c.costs[in.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate instruction id %d", ErrMalformedInput, in.ID)
		}
		c.costs[in.ID] = in.Cost
	}
	return c, nil
}

// Cost returns the cost of instruction id, and whether the catalog defines it.
func (c *InstructionCatalog) Cost(id int) (int64, bool) {
	cost, ok := c.costs[id]
	return cost, ok
}

// Len returns the number of regular (non-exit) instructions.
func (c *InstructionCatalog) Len() int {
	return len(c.costs)
}

// Instructions returns the catalog entries sorted by id.
func (c *InstructionCatalog) Instructions() []Instruction {
	out := make([]Instruction, 0, len(c.costs))
	for id, cost := range c.costs {
		out = append(out, Instruction{ID: id, Cost: cost})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Validate checks the builder parameters. Errors wrap ErrMalformedInput.
func (c BuilderConfig) Validate() error {
	if c.ExitCost < 0 {
		return fmt.Errorf("%w: exit cost must be non-negative, got %d", ErrMalformedInput, c.ExitCost)
	}
	if c.MaxInstructionID < 1 {
		return fmt.Errorf("%w: max instruction id must be at least 1, got %d", ErrMalformedInput, c.MaxInstructionID)
	}
	return nil
}

// BurstTime sums the costs of the in-range instructions of a program and adds the
// fixed exit overhead. Out-of-range ids (the exit sentinel included) are skipped.
func BurstTime(catalog *InstructionCatalog, prog Program, cfg BuilderConfig) (int64, error) {
	n := len(prog.InstructionIDs)
	if n == 0 || prog.InstructionIDs[n-1] != ExitInstructionID {
		return 0, fmt.Errorf("%w: program of P%d is not terminated by exit", ErrMalformedInput, prog.ProcessID)
	}
	burst := cfg.ExitCost
	for _, id := range prog.InstructionIDs {
		if id < 1 || id > cfg.MaxInstructionID {
			continue
		}
		cost, ok := catalog.Cost(id)
		if !ok {
			return 0, fmt.Errorf("%w: P%d references instr%d which is not in the catalog", ErrMalformedInput, prog.ProcessID, id)
		}
		burst += cost
	}
	return burst, nil
}

// BuildProcessDefinitions derives a ProcessDefinition for every program, keyed by process id.
func BuildProcessDefinitions(catalog *InstructionCatalog, programs []Program, cfg BuilderConfig) (map[int]*ProcessDefinition, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if catalog == nil {
		return nil, fmt.Errorf("%w: no instruction catalog", ErrResourceUnavailable)
	}
	if catalog.ExitCost != cfg.ExitCost {
		logrus.Warnf("catalog exit cost %d differs from the fixed exit overhead %d; using %d",
			catalog.ExitCost, cfg.ExitCost, cfg.ExitCost)
	}
	defs := make(map[int]*ProcessDefinition, len(programs))
	for _, prog := range programs {
		if _, dup := defs[prog.ProcessID]; dup {
			return nil, fmt.Errorf("%w: duplicate program for P%d", ErrMalformedInput, prog.ProcessID)
		}
		burst, err := BurstTime(catalog, prog, cfg)
		if err != nil {
			return nil, err
		}
		logrus.Debugf("P%d: %d instructions, burst time %d", prog.ProcessID, len(prog.InstructionIDs), burst)
		defs[prog.ProcessID] = &ProcessDefinition{
			ID:             prog.ProcessID,
			InstructionIDs: append([]int(nil), prog.InstructionIDs...),
			BurstTime:      burst,
		}
	}
	return defs, nil
}

// NewProcessTable joins definition-source entries with their process definitions.
// The result is sorted by process id. An entry without a definition, a duplicate
// entry id, a negative arrival time or an unknown tier is malformed.
func NewProcessTable(defs map[int]*ProcessDefinition, entries []ProcessEntry) ([]*Process, error) {
	seen := make(map[int]bool, len(entries))
	processes := make([]*Process, 0, len(entries))
	for _, e := range entries {
		if seen[e.ID] {
			return nil, fmt.Errorf("%w: P%d is defined more than once", ErrMalformedInput, e.ID)
		}
		seen[e.ID] = true
		if !e.Tier.IsValid() {
			return nil, fmt.Errorf("%w: P%d has unknown tier %q", ErrMalformedInput, e.ID, e.Tier)
		}
		if e.ArrivalTime < 0 {
			return nil, fmt.Errorf("%w: P%d has negative arrival time %d", ErrMalformedInput, e.ID, e.ArrivalTime)
		}
		def, ok := defs[e.ID]
		if !ok {
			return nil, fmt.Errorf("%w: P%d has no program", ErrMalformedInput, e.ID)
		}
		processes = append(processes, NewProcess(def, e))
	}
	sort.Slice(processes, func(i, j int) bool { return processes[i].ID < processes[j].ID })
	return processes, nil
}

// BuildProcesses runs the whole builder: programs -> definitions -> process table.
func BuildProcesses(catalog *InstructionCatalog, programs []Program, entries []ProcessEntry, cfg BuilderConfig) ([]*Process, error) {
	defs, err := BuildProcessDefinitions(catalog, programs, cfg)
	if err != nil {
		return nil, err
	}
	return NewProcessTable(defs, entries)
}
