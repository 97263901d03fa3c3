package workload

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/basak-tepe/scheduler/sim"
)

// ProgramFileName returns the file name of the program for process slot id.
func ProgramFileName(id int) string {
	return fmt.Sprintf("P%d.txt", id)
}

// ParseProgram reads one "instr<N>" per line followed by an "exit" line.
// Ids are not range-checked here; the builder skips out-of-range ones.
func ParseProgram(r io.Reader, processID int, source string) (sim.Program, error) {
	lines, err := readLines(r, source)
	if err != nil {
		return sim.Program{}, err
	}

	prog := sim.Program{ProcessID: processID}
	sawExit := false
	for _, l := range lines {
		if sawExit {
			return sim.Program{}, malformed(source, l, "content after exit")
		}
		if len(l.fields) != 1 {
			return sim.Program{}, malformed(source, l, "expected 1 field, got %d", len(l.fields))
		}
		if l.fields[0] == "exit" {
			prog.InstructionIDs = append(prog.InstructionIDs, sim.ExitInstructionID)
			sawExit = true
			continue
		}
		id, err := parseTagged(l.fields[0], "instr")
		if err != nil {
			return sim.Program{}, malformed(source, l, "%v", err)
		}
		prog.InstructionIDs = append(prog.InstructionIDs, id)
	}
	if !sawExit {
		return sim.Program{}, fmt.Errorf("%w: %s is not terminated by exit", sim.ErrMalformedInput, source)
	}
	return prog, nil
}

// LoadProgram reads the program of process slot id from dir.
func LoadProgram(dir string, id int) (sim.Program, error) {
	path := filepath.Join(dir, ProgramFileName(id))
	file, err := os.Open(path)
	if err != nil {
		return sim.Program{}, fmt.Errorf("%w: opening program of P%d: %w", sim.ErrResourceUnavailable, id, err)
	}
	defer func() { _ = file.Close() }()
	return ParseProgram(file, id, path)
}

// LoadPrograms reads the programs of the given process slots, in order.
func LoadPrograms(dir string, ids []int) ([]sim.Program, error) {
	programs := make([]sim.Program, 0, len(ids))
	for _, id := range ids {
		prog, err := LoadProgram(dir, id)
		if err != nil {
			return nil, err
		}
		programs = append(programs, prog)
	}
	logrus.Infof("Loaded %d programs from %s", len(programs), dir)
	return programs, nil
}
