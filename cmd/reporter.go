package cmd

import (
	"fmt"

	"github.com/hive-sim/hive-sim/sim/trace"
)

// BuildReportHandler returns the trace.Handler a run should emit
// per-tick/per-event reports to: an NDJSON file handler if path is set,
// otherwise trace.NullHandler{}.
func BuildReportHandler(path string) (trace.Handler, error) {
	if path == "" {
		return trace.NullHandler{}, nil
	}
	return trace.NewNDJSONFileHandler(path)
}

// BuildDecisionTrace validates level and builds the run's DecisionTrace.
func BuildDecisionTrace(level string, counterfactualK int) (*trace.DecisionTrace, error) {
	if !trace.IsValidDecisionTraceLevel(level) {
		return nil, fmt.Errorf("invalid decision trace level %q", level)
	}
	return trace.NewDecisionTrace(trace.DecisionTraceConfig{
		Level: trace.DecisionTraceLevel(level),
		CounterfactualK: counterfactualK,
	}), nil
}
