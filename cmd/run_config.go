package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/basak-tepe/scheduler/sim"
	"github.com/basak-tepe/scheduler/sim/trace"
	"github.com/basak-tepe/scheduler/sim/workload"
)

// RunConfig is the full run.yaml structure. Every key is optional; missing keys
// keep the DefaultRunConfig values.
type RunConfig struct {
	Instructions string        `yaml:"instructions"`
	Definition   string        `yaml:"definition"`
	ProcessDir   string        `yaml:"process_dir"`
	ProcessCount int           `yaml:"process_count"`
	Scenario     string        `yaml:"scenario"`
	Output       string        `yaml:"output"`
	Trace        string        `yaml:"trace"`
	Engine       EngineSection `yaml:"engine"`
}

// EngineSection holds the scheduling policy and builder parameters.
type EngineSection struct {
	SilverQuantum    int64 `yaml:"silver_quantum"`
	GoldQuantum      int64 `yaml:"gold_quantum"`
	ContextSwitch    int64 `yaml:"context_switch"`
	SilverToGold     int64 `yaml:"silver_to_gold"`   // 0 = 3x silver quantum
	GoldToPlatinum   int64 `yaml:"gold_to_platinum"` // 0 = 5x gold quantum
	MaxCycles        int64 `yaml:"max_cycles"`
	ExitCost         int64 `yaml:"exit_cost"`
	MaxInstructionID int   `yaml:"max_instruction_id"`
}

// DefaultRunConfig returns the reference inputs and policy.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Instructions: "instructions.txt",
		Definition:   "definition.txt",
		ProcessDir:   ".",
		Output:       "result.txt",
		Trace:        string(trace.TraceLevelNone),
		Engine: EngineSection{
			SilverQuantum:    sim.DefaultSilverQuantum,
			GoldQuantum:      sim.DefaultGoldQuantum,
			ContextSwitch:    sim.DefaultContextSwitchCost,
			MaxCycles:        sim.DefaultMaxCycles,
			ExitCost:         sim.DefaultExitCost,
			MaxInstructionID: sim.DefaultMaxInstructionID,
		},
	}
}

// LoadRunConfig parses a run config file over the defaults.
// Uses strict field checking: unknown keys are errors.
func LoadRunConfig(path string) (RunConfig, error) {
	cfg := DefaultRunConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("%w: reading run config: %w", sim.ErrResourceUnavailable, err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("%w: parsing run config: %w", sim.ErrMalformedInput, err)
	}
	return cfg, nil
}

// Validate checks the settings the engine and loaders do not check themselves.
func (c RunConfig) Validate() error {
	if !trace.IsValidTraceLevel(c.Trace) {
		return fmt.Errorf("%w: unknown trace level %q; valid: none, decisions", sim.ErrMalformedInput, c.Trace)
	}
	if c.Output == "" {
		return fmt.Errorf("%w: output path is required", sim.ErrMalformedInput)
	}
	return nil
}

// EngineConfig converts the engine section for sim.NewSimulator.
func (c RunConfig) EngineConfig() sim.EngineConfig {
	return sim.EngineConfig{
		Quantum:           sim.NewQuantumConfig(c.Engine.SilverQuantum, c.Engine.GoldQuantum),
		Aging:             sim.NewAgingConfig(c.Engine.SilverToGold, c.Engine.GoldToPlatinum),
		ContextSwitchCost: c.Engine.ContextSwitch,
		InitialClock:      c.Engine.ContextSwitch,
		MaxCycles:         c.Engine.MaxCycles,
	}
}

// BuilderConfig converts the builder parameters.
func (c RunConfig) BuilderConfig() sim.BuilderConfig {
	return sim.BuilderConfig{ExitCost: c.Engine.ExitCost, MaxInstructionID: c.Engine.MaxInstructionID}
}

// Sources returns the text input locations.
func (c RunConfig) Sources() workload.TextSources {
	return workload.TextSources{
		InstructionsPath: c.Instructions,
		DefinitionPath:   c.Definition,
		ProcessDir:       c.ProcessDir,
		ProcessCount:     c.ProcessCount,
	}
}

// resolveRunConfig loads the --config file, or the defaults when none is given,
// and applies the flags explicitly set on cmd.
func resolveRunConfig(cmd *cobra.Command) (RunConfig, error) {
	cfg := DefaultRunConfig()
	if configPath != "" {
		loaded, err := LoadRunConfig(configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	applyFlagOverrides(cmd, &cfg)
	return cfg, nil
}

// applyFlagOverrides copies the flags explicitly set on cmd over cfg. Flags cmd
// does not define are never reported as changed.
func applyFlagOverrides(cmd *cobra.Command, cfg *RunConfig) {
	flags := cmd.Flags()
	if flags.Changed("instructions") {
		cfg.Instructions = instructionsPath
	}
	if flags.Changed("definition") {
		cfg.Definition = definitionPath
	}
	if flags.Changed("process-dir") {
		cfg.ProcessDir = processDir
	}
	if flags.Changed("process-count") {
		cfg.ProcessCount = processCount
	}
	if flags.Changed("scenario") {
		cfg.Scenario = scenarioPath
	}
	if flags.Changed("output") {
		cfg.Output = outputPath
	}
	if flags.Changed("trace") {
		cfg.Trace = traceLevel
	}
	if flags.Changed("silver-quantum") {
		cfg.Engine.SilverQuantum = silverQuantum
	}
	if flags.Changed("gold-quantum") {
		cfg.Engine.GoldQuantum = goldQuantum
	}
	if flags.Changed("context-switch") {
		cfg.Engine.ContextSwitch = contextSwitch
	}
	if flags.Changed("silver-to-gold") {
		cfg.Engine.SilverToGold = silverToGold
	}
	if flags.Changed("gold-to-platinum") {
		cfg.Engine.GoldToPlatinum = goldToPlatinum
	}
	if flags.Changed("max-cycles") {
		cfg.Engine.MaxCycles = maxCycles
	}
	if flags.Changed("exit-cost") {
		cfg.Engine.ExitCost = exitCost
	}
	if flags.Changed("max-instruction-id") {
		cfg.Engine.MaxInstructionID = maxInstructionID
	}
}
