package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/basak-tepe/scheduler/sim/workload"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert text inputs to a YAML scenario",
	Long:  "Read the instruction catalog, definition file and programs, derive each burst time, and write the equivalent YAML scenario to stdout for piping.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := resolveRunConfig(cmd)
		if err != nil {
			fail(err)
		}
		scenario, err := convertScenario(cfg)
		if err != nil {
			fail(err)
		}
		if err := workload.WriteScenario(os.Stdout, scenario); err != nil {
			fail(err)
		}
	},
}

// convertScenario derives the scenario of cfg's text inputs using cfg's exit
// cost and instruction id range, the same way a run would load them.
func convertScenario(cfg RunConfig) (*workload.Scenario, error) {
	return workload.ConvertTextSources(cfg.Sources(), cfg.BuilderConfig())
}

func init() {
	defaults := DefaultRunConfig()
	convertCmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML run config")
	convertCmd.Flags().StringVar(&instructionsPath, "instructions", defaults.Instructions, "Instruction catalog file")
	convertCmd.Flags().StringVar(&definitionPath, "definition", defaults.Definition, "Definition file")
	convertCmd.Flags().StringVar(&processDir, "process-dir", defaults.ProcessDir, "Directory holding the P<id>.txt programs")
	convertCmd.Flags().IntVar(&processCount, "process-count", defaults.ProcessCount, "Number of program slots to load (0 = only those referenced)")
	convertCmd.Flags().Int64Var(&exitCost, "exit-cost", defaults.Engine.ExitCost, "Fixed exit overhead added to every burst")
	convertCmd.Flags().IntVar(&maxInstructionID, "max-instruction-id", defaults.Engine.MaxInstructionID, "Highest instruction id counted towards a burst")

	rootCmd.AddCommand(convertCmd)
}
