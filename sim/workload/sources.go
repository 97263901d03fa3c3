package workload

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/basak-tepe/scheduler/sim"
)

// TextSources locates the plain-text inputs of one run: the instruction catalog,
// the definition file and a directory of P<id>.txt programs.
type TextSources struct {
	InstructionsPath string
	DefinitionPath   string
	ProcessDir       string
	// ProcessCount > 0 loads programs P1..PN and requires every definition to
	// reference one of them. 0 loads exactly the referenced programs.
	ProcessCount int
}

// Validate checks that every path is set.
func (s TextSources) Validate() error {
	switch {
	case s.InstructionsPath == "":
		return fmt.Errorf("%w: instruction catalog path is required", sim.ErrMalformedInput)
	case s.DefinitionPath == "":
		return fmt.Errorf("%w: definition file path is required", sim.ErrMalformedInput)
	case s.ProcessDir == "":
		return fmt.Errorf("%w: process directory is required", sim.ErrMalformedInput)
	case s.ProcessCount < 0:
		return fmt.Errorf("%w: process count must be non-negative, got %d", sim.ErrMalformedInput, s.ProcessCount)
	}
	return nil
}

// Load reads all sources and runs the process model builder.
func (s TextSources) Load(cfg sim.BuilderConfig) ([]*sim.Process, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	catalog, err := LoadInstructionCatalog(s.InstructionsPath)
	if err != nil {
		return nil, err
	}
	entries, err := LoadDefinitions(s.DefinitionPath)
	if err != nil {
		return nil, err
	}
	slots, err := s.programSlots(entries)
	if err != nil {
		return nil, err
	}
	programs, err := LoadPrograms(s.ProcessDir, slots)
	if err != nil {
		return nil, err
	}
	processes, err := sim.BuildProcesses(catalog, programs, entries, cfg)
	if err != nil {
		return nil, err
	}
	logrus.Infof("Built %d processes from %d program slots", len(processes), len(slots))
	return processes, nil
}

// programSlots returns the process ids whose programs must be read, ascending.
func (s TextSources) programSlots(entries []sim.ProcessEntry) ([]int, error) {
	if s.ProcessCount > 0 {
		for _, e := range entries {
			if e.ID < 1 || e.ID > s.ProcessCount {
				return nil, fmt.Errorf("%w: P%d is outside the process slots 1..%d", sim.ErrMalformedInput, e.ID, s.ProcessCount)
			}
		}
		slots := make([]int, s.ProcessCount)
		for i := range slots {
			slots[i] = i + 1
		}
		return slots, nil
	}

	seen := make(map[int]bool, len(entries))
	slots := make([]int, 0, len(entries))
	for _, e := range entries {
		if !seen[e.ID] {
			seen[e.ID] = true
			slots = append(slots, e.ID)
		}
	}
	sort.Ints(slots)
	return slots, nil
}
