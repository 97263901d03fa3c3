package workload

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/basak-tepe/scheduler/sim"
)

// ParseDefinitions reads "P<id> <priority> <arrival> <TIER>" lines.
// Duplicate ids are left to the builder.
func ParseDefinitions(r io.Reader, source string) ([]sim.ProcessEntry, error) {
	lines, err := readLines(r, source)
	if err != nil {
		return nil, err
	}

	entries := make([]sim.ProcessEntry, 0, len(lines))
	for _, l := range lines {
		if len(l.fields) != 4 {
			return nil, malformed(source, l, "expected 4 fields, got %d", len(l.fields))
		}
		id, err := parseTagged(l.fields[0], "P")
		if err != nil {
			return nil, malformed(source, l, "%v", err)
		}
		priority, err := strconv.Atoi(l.fields[1])
		if err != nil {
			return nil, malformed(source, l, "invalid priority %q", l.fields[1])
		}
		arrival, err := strconv.ParseInt(l.fields[2], 10, 64)
		if err != nil || arrival < 0 {
			return nil, malformed(source, l, "invalid arrival time %q", l.fields[2])
		}
		tier, err := sim.ParseTier(l.fields[3])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", source, l.num, err)
		}
		entries = append(entries, sim.ProcessEntry{ID: id, Priority: priority, ArrivalTime: arrival, Tier: tier})
	}
	return entries, nil
}

// LoadDefinitions reads the definition file at path.
func LoadDefinitions(path string) ([]sim.ProcessEntry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening definition file: %w", sim.ErrResourceUnavailable, err)
	}
	defer func() { _ = file.Close() }()

	entries, err := ParseDefinitions(file, path)
	if err != nil {
		return nil, err
	}
	logrus.Infof("Loaded %d process definitions from %s", len(entries), path)
	return entries, nil
}
