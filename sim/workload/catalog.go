package workload

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/basak-tepe/scheduler/sim"
)

// ParseInstructionCatalog reads "instr<N> <cost>" lines followed by a single
// "exit <cost>" line. Nothing may follow the exit line.
func ParseInstructionCatalog(r io.Reader, source string) (*sim.InstructionCatalog, error) {
	lines, err := readLines(r, source)
	if err != nil {
		return nil, err
	}

	var instructions []sim.Instruction
	exitCost, sawExit := int64(0), false
	for _, l := range lines {
		if sawExit {
			return nil, malformed(source, l, "content after exit")
		}
		if len(l.fields) != 2 {
			return nil, malformed(source, l, "expected 2 fields, got %d", len(l.fields))
		}
		cost, err := strconv.ParseInt(l.fields[1], 10, 64)
		if err != nil || cost < 0 {
			return nil, malformed(source, l, "invalid cost %q", l.fields[1])
		}
		if l.fields[0] == "exit" {
			exitCost, sawExit = cost, true
			continue
		}
		id, err := parseTagged(l.fields[0], "instr")
		if err != nil {
			return nil, malformed(source, l, "%v", err)
		}
		instructions = append(instructions, sim.Instruction{ID: id, Cost: cost})
	}
	if !sawExit {
		return nil, fmt.Errorf("%w: %s has no exit entry", sim.ErrMalformedInput, source)
	}

	catalog, err := sim.NewInstructionCatalog(instructions, exitCost)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	return catalog, nil
}

// LoadInstructionCatalog reads the instruction catalog file at path.
func LoadInstructionCatalog(path string) (*sim.InstructionCatalog, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening instruction catalog: %w", sim.ErrResourceUnavailable, err)
	}
	defer func() { _ = file.Close() }()

	catalog, err := ParseInstructionCatalog(file, path)
	if err != nil {
		return nil, err
	}
	logrus.Infof("Loaded %d instructions from %s (exit cost %d)", catalog.Len(), path, catalog.ExitCost)
	return catalog, nil
}
