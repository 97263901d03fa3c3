package workload

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/basak-tepe/scheduler/sim"
)

// ScenarioVersion is the only scenario format version understood by LoadScenario.
const ScenarioVersion = "1"

// Scenario is the single-file equivalent of the text sources: each process carries
// its already-derived burst time. Loaded from YAML via LoadScenario(path).
type Scenario struct {
	Version   string        `yaml:"version"`
	Name      string        `yaml:"name,omitempty"`
	Processes []ProcessSpec `yaml:"processes"`
}

// ProcessSpec is one process of a Scenario.
type ProcessSpec struct {
	ID       int    `yaml:"id"`
	Tier     string `yaml:"tier"`
	Priority int    `yaml:"priority"`
	Arrival  int64  `yaml:"arrival"`
	Burst    int64  `yaml:"burst"`
}

// DecodeScenario decodes a scenario, rejecting unknown keys.
func DecodeScenario(data []byte) (*Scenario, error) {
	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: parsing scenario: %w", sim.ErrMalformedInput, err)
	}
	if s.Version == "" {
		s.Version = ScenarioVersion
	}
	return &s, nil
}

// LoadScenario reads and decodes the scenario file at path.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading scenario: %w", sim.ErrResourceUnavailable, err)
	}
	s, err := DecodeScenario(data)
	if err != nil {
		return nil, err
	}
	logrus.Infof("Loaded scenario %q with %d processes from %s", s.Name, len(s.Processes), path)
	return s, nil
}

// Validate checks that all fields in the scenario are valid.
func (s *Scenario) Validate() error {
	if s.Version != ScenarioVersion {
		return fmt.Errorf("%w: unsupported scenario version %q; valid: %s", sim.ErrMalformedInput, s.Version, ScenarioVersion)
	}
	if len(s.Processes) == 0 {
		return fmt.Errorf("%w: scenario has no processes", sim.ErrMalformedInput)
	}
	seen := make(map[int]bool, len(s.Processes))
	for i, p := range s.Processes {
		prefix := fmt.Sprintf("processes[%d]", i)
		if p.ID < 1 {
			return fmt.Errorf("%w: %s: id must be positive, got %d", sim.ErrMalformedInput, prefix, p.ID)
		}
		if seen[p.ID] {
			return fmt.Errorf("%w: %s: duplicate id %d", sim.ErrMalformedInput, prefix, p.ID)
		}
		seen[p.ID] = true
		if _, err := sim.ParseTier(p.Tier); err != nil {
			return fmt.Errorf("%s: %w", prefix, err)
		}
		if p.Arrival < 0 {
			return fmt.Errorf("%w: %s: arrival must be non-negative, got %d", sim.ErrMalformedInput, prefix, p.Arrival)
		}
		if p.Burst <= 0 {
			return fmt.Errorf("%w: %s: burst must be positive, got %d", sim.ErrMalformedInput, prefix, p.Burst)
		}
	}
	return nil
}

// ProcessTable validates the scenario and returns its process table.
func (s *Scenario) ProcessTable() ([]*sim.Process, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	defs := make(map[int]*sim.ProcessDefinition, len(s.Processes))
	entries := make([]sim.ProcessEntry, 0, len(s.Processes))
	for _, p := range s.Processes {
		defs[p.ID] = &sim.ProcessDefinition{ID: p.ID, BurstTime: p.Burst}
		entries = append(entries, sim.ProcessEntry{
			ID:          p.ID,
			Priority:    p.Priority,
			ArrivalTime: p.Arrival,
			Tier:        sim.Tier(p.Tier),
		})
	}
	return sim.NewProcessTable(defs, entries)
}

// WriteScenario encodes s as YAML.
func WriteScenario(w io.Writer, s *Scenario) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(s); err != nil {
		return fmt.Errorf("encoding scenario: %w", err)
	}
	return encoder.Close()
}

// ConvertTextSources reads the text inputs and returns the equivalent Scenario.
func ConvertTextSources(src TextSources, cfg sim.BuilderConfig) (*Scenario, error) {
	processes, err := src.Load(cfg)
	if err != nil {
		return nil, err
	}
	s := &Scenario{Version: ScenarioVersion, Processes: make([]ProcessSpec, 0, len(processes))}
	for _, p := range processes {
		s.Processes = append(s.Processes, ProcessSpec{
			ID:       p.ID,
			Tier:     string(p.Tier),
			Priority: p.Priority,
			Arrival:  p.ArrivalTime,
			Burst:    p.BurstTime,
		})
	}
	return s, nil
}
