package cmd

import (
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/hive-sim/hive-sim/sim"
	"github.com/hive-sim/hive-sim/sim/policy"
)

// runOptions carries every run knob the CLI exposes, gathered here so
// runSimulation itself takes one argument instead of a long parameter list.
type runOptions struct {
	ScenarioPath string
	SeedOverride int64
	HasSeedOverride bool
	ReportPath string
	DecisionTraceLevel string
	CounterfactualK int
	UseAssignmentMode bool
	GridOverride string
	HasGridOverride bool
}

// runSimulation loads the scenario, builds the policy stack, drives the
// tick loop to completion, and prints final metrics. It is the body of
// `hive run`, split out so it is testable independent of cobra wiring.
func runSimulation(opts runOptions) error {
	dir := filepath.Dir(opts.ScenarioPath)
	scenario, err := LoadScenario(opts.ScenarioPath)
	if err != nil {
		return err
	}
	if opts.HasGridOverride {
		scenario.Grid = opts.GridOverride
	}

	state, env, cellWeights, err := LoadSimulation(scenario, dir)
	if err != nil {
		return err
	}

	if opts.HasSeedOverride {
		env.Config.Seed = opts.SeedOverride
		env.RNG = sim.NewPartitionedRNG(sim.NewSimulationKey(opts.SeedOverride))
	}
	if opts.UseAssignmentMode {
		env.Config.Dispatcher.UseAssignmentMode = true
	}

	handler, err := BuildReportHandler(opts.ReportPath)
	if err != nil {
		return err
	}
	defer handler.Close()
	env.Reports = handler

	decisions, err := BuildDecisionTrace(opts.DecisionTraceLevel, opts.CounterfactualK)
	if err != nil {
		return err
	}
	env.Decisions = decisions

	generators := []sim.Generator{
		policy.NewDispatcher(),
		policy.ChargingFleetManager{},
		policy.BaseManagement{},
		policy.Repositioning{CellWeights: cellWeights},
	}

	startTime := env.Config.StartSimTime()
	endTime := env.Config.EndSimTime()
	state.SimTime = startTime

	logrus.Infof("starting run: %d vehicles, %d requests, %d bases, %d stations, sim_time %d..%d",
		len(state.VehicleIDs()), len(state.RequestIDs()), len(state.BaseIDs()), len(state.StationIDs()),
		startTime, endTime)

	final, err := sim.Run(state, env, generators, endTime)
	if err != nil {
		return err
	}

	ticksRun := int64(0)
	if env.Config.TimestepDurationSeconds > 0 {
		ticksRun = (int64(final.SimTime) - int64(startTime)) / env.Config.TimestepDurationSeconds
	}
	env.Metrics.Print(ticksRun)
	return nil
}
