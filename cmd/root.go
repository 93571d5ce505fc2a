// cmd/root.go
package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	scenarioPath string
	logLevel string
	seed int64
	reportPath string
	decisionTraceLevel string
	counterfactualK int
	useAssignmentMode bool
	gridKind string
)

var rootCmd = &cobra.Command{
	Use: "hive",
	Short: "Discrete-event simulator for electrified ride-hail fleets",
}

var runCmd = &cobra.Command{
	Use: "run",
	Short: "Run a fleet simulation from a scenario file",
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		return runSimulation(runOptions{
			ScenarioPath: scenarioPath,
			SeedOverride: seed,
			HasSeedOverride: cmd.Flags().Changed("seed"),
			ReportPath: reportPath,
			DecisionTraceLevel: decisionTraceLevel,
			CounterfactualK: counterfactualK,
			UseAssignmentMode: useAssignmentMode,
			GridOverride: gridKind,
			HasGridOverride: cmd.Flags().Changed("grid"),
		})
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

func init() {
	runCmd.Flags().StringVar(&scenarioPath, "scenario", "", "Path to the scenario YAML file (required)")
	runCmd.Flags().StringVar(&logLevel, "log", "info", "Log level (debug, info, warn, error)")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "Override the scenario's RNG seed")
	runCmd.Flags().StringVar(&reportPath, "report", "", "Path to write NDJSON tick/event reports; empty disables reporting")
	runCmd.Flags().StringVar(&decisionTraceLevel, "decision-trace", "none", "Decision trace level (none, decisions)")
	runCmd.Flags().IntVar(&counterfactualK, "counterfactual-k", 0, "Number of counterfactual candidates per dispatch decision, stored on the decision-trace config (no candidates are recorded)")
	runCmd.Flags().BoolVar(&useAssignmentMode, "assignment-mode", false, "Force minimum-cost bipartite assignment on, overriding the scenario config")
	runCmd.Flags().StringVar(&gridKind, "grid", "", "Override the scenario's hex grid (axial, h3)")

	runCmd.MarkFlagRequired("scenario")

	rootCmd.AddCommand(runCmd)
}
