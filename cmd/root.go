package cmd

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/basak-tepe/scheduler/sim"
	"github.com/basak-tepe/scheduler/sim/trace"
	"github.com/basak-tepe/scheduler/sim/workload"
)

var (
	// CLI flags for the run inputs
	configPath       string // Optional YAML run config; explicit flags override it
	instructionsPath string // Instruction catalog file
	definitionPath   string // Definition file (P<id> <priority> <arrival> <TIER>)
	processDir       string // Directory holding P<id>.txt programs
	processCount     int    // Number of program slots (0 = only referenced ones)
	scenarioPath     string // YAML scenario, used instead of the text inputs when set
	outputPath       string // Result file (average waiting, then average turnaround)
	logLevel         string // Log verbosity level
	traceLevel       string // Decision trace level (none, decisions)

	// CLI flags for the scheduling policy
	silverQuantum  int64 // SILVER time slice
	goldQuantum    int64 // GOLD time slice
	contextSwitch  int64 // Cost of the context switch after a platinum run
	silverToGold   int64 // Executed time that promotes SILVER to GOLD
	goldToPlatinum int64 // Executed time that promotes GOLD to PLATINUM
	maxCycles      int64 // Cycle cap guarding against non-termination

	// CLI flags for burst derivation
	exitCost         int64 // Fixed exit overhead added to every burst
	maxInstructionID int   // Highest instruction id counted towards a burst
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Discrete-event simulator for a tiered preemptive priority CPU scheduler",
}

// runCmd executes the simulation using parameters from the run config and CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the scheduling simulation",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg, err := resolveRunConfig(cmd)
		if err != nil {
			fail(err)
		}

		s, err := runSimulation(cfg, os.Stdout)
		if err != nil {
			fail(err)
		}
		logrus.Infof("Simulation complete: %d processes, results written to %s", len(s.Processes), cfg.Output)
	},
}

// runSimulation loads the processes, runs the engine, prints the report and
// writes the result file.
func runSimulation(cfg RunConfig, w io.Writer) (*sim.Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	processes, err := loadProcesses(cfg)
	if err != nil {
		return nil, err
	}

	tr := trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevel(cfg.Trace)})
	s, err := sim.NewSimulator(cfg.EngineConfig(), processes, tr)
	if err != nil {
		return nil, err
	}
	logrus.Infof("Starting simulation: %d processes, quanta %d/%d, context switch %d",
		len(processes), s.Config.Quantum.Silver, s.Config.Quantum.Gold, s.Config.ContextSwitchCost)
	if err := s.Run(); err != nil {
		return s, err
	}

	s.Metrics.Print(w)
	if tr.Enabled() {
		printGantt(w, tr)
		printTraceSummary(w, trace.Summarize(tr))
	}

	if err := s.Metrics.SaveResults(cfg.Output); err != nil {
		return s, err
	}
	return s, nil
}

// loadProcesses reads the scenario file when one is configured, the text inputs otherwise.
func loadProcesses(cfg RunConfig) ([]*sim.Process, error) {
	if cfg.Scenario != "" {
		scenario, err := workload.LoadScenario(cfg.Scenario)
		if err != nil {
			return nil, err
		}
		return scenario.ProcessTable()
	}
	return cfg.Sources().Load(cfg.BuilderConfig())
}

// fail logs err and exits with the code of its error kind.
func fail(err error) {
	logrus.Error(err)
	os.Exit(exitCodeFor(err))
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	defaults := DefaultRunConfig()

	runCmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML run config")
	runCmd.Flags().StringVar(&instructionsPath, "instructions", defaults.Instructions, "Instruction catalog file")
	runCmd.Flags().StringVar(&definitionPath, "definition", defaults.Definition, "Definition file")
	runCmd.Flags().StringVar(&processDir, "process-dir", defaults.ProcessDir, "Directory holding the P<id>.txt programs")
	runCmd.Flags().IntVar(&processCount, "process-count", defaults.ProcessCount, "Number of program slots to load (0 = only those referenced by the definition file)")
	runCmd.Flags().StringVar(&scenarioPath, "scenario", "", "YAML scenario file (replaces the text inputs)")
	runCmd.Flags().StringVar(&outputPath, "output", defaults.Output, "Result file")
	runCmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().StringVar(&traceLevel, "trace", defaults.Trace, "Decision trace level (none, decisions)")

	// Scheduling policy
	runCmd.Flags().Int64Var(&silverQuantum, "silver-quantum", defaults.Engine.SilverQuantum, "SILVER quantum in ticks")
	runCmd.Flags().Int64Var(&goldQuantum, "gold-quantum", defaults.Engine.GoldQuantum, "GOLD quantum in ticks")
	runCmd.Flags().Int64Var(&contextSwitch, "context-switch", defaults.Engine.ContextSwitch, "Context switch cost in ticks")
	runCmd.Flags().Int64Var(&silverToGold, "silver-to-gold", defaults.Engine.SilverToGold, "Executed ticks promoting SILVER to GOLD (0 = 3x SILVER quantum)")
	runCmd.Flags().Int64Var(&goldToPlatinum, "gold-to-platinum", defaults.Engine.GoldToPlatinum, "Executed ticks promoting GOLD to PLATINUM (0 = 5x GOLD quantum)")
	runCmd.Flags().Int64Var(&maxCycles, "max-cycles", defaults.Engine.MaxCycles, "Cycle cap before the run is aborted")

	// Burst derivation
	runCmd.Flags().Int64Var(&exitCost, "exit-cost", defaults.Engine.ExitCost, "Fixed exit overhead added to every burst")
	runCmd.Flags().IntVar(&maxInstructionID, "max-instruction-id", defaults.Engine.MaxInstructionID, "Highest instruction id counted towards a burst")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
