package trace

import "testing"

func TestSummarize_EmptyTrace_ZeroValues(t *testing.T) {
	// GIVEN an empty trace
	dt := NewDecisionTrace(DecisionTraceConfig{Level: DecisionTraceDecisions})

	// WHEN summarized
	summary := Summarize(dt)

	// THEN all counts are zero
	if summary.TotalRequests != 0 {
		t.Errorf("expected 0 total requests, got %d", summary.TotalRequests)
	}
	if summary.AssignedCount != 0 || summary.UnassignedCount != 0 {
		t.Error("expected 0 assigned and unassigned")
	}
	if summary.UniqueVehiclesUsed != 0 {
		t.Errorf("expected 0 unique vehicles, got %d", summary.UniqueVehiclesUsed)
	}
	if summary.MeanRegret != 0 || summary.MaxRegret != 0 {
		t.Error("expected 0 regret values")
	}
	if len(summary.VehicleDistribution) != 0 {
		t.Error("expected empty vehicle distribution")
	}
}

func TestSummarize_NilTrace_ZeroValues(t *testing.T) {
	summary := Summarize(nil)
	if summary.TotalRequests != 0 || summary.VehicleDistribution == nil {
		t.Error("expected zero-value summary with initialized map for nil trace")
	}
}

func TestSummarize_PopulatedTrace_CorrectCounts(t *testing.T) {
	// GIVEN a trace with mixed assignment and dispatch records
	dt := NewDecisionTrace(DecisionTraceConfig{Level: DecisionTraceDecisions})
	dt.RecordAssignment(AssignmentRecord{RequestID: "r1", Assigned: true, Reason: "ok"})
	dt.RecordAssignment(AssignmentRecord{RequestID: "r2", Assigned: false, Reason: "no-eligible-vehicle"})
	dt.RecordAssignment(AssignmentRecord{RequestID: "r3", Assigned: true, Reason: "ok"})
	dt.RecordDispatch(DispatchRecord{RequestID: "r1", ChosenVehicle: "v_0", Regret: 0.1})
	dt.RecordDispatch(DispatchRecord{RequestID: "r3", ChosenVehicle: "v_1", Regret: 0.3})

	// WHEN summarized
	summary := Summarize(dt)

	// THEN counts match
	if summary.TotalRequests != 3 {
		t.Errorf("expected 3 total requests, got %d", summary.TotalRequests)
	}
	if summary.AssignedCount != 2 {
		t.Errorf("expected 2 assigned, got %d", summary.AssignedCount)
	}
	if summary.UnassignedCount != 1 {
		t.Errorf("expected 1 unassigned, got %d", summary.UnassignedCount)
	}
	if summary.UniqueVehiclesUsed != 2 {
		t.Errorf("expected 2 unique vehicles, got %d", summary.UniqueVehiclesUsed)
	}
}

func TestSummarize_RegretStatistics_CorrectMeanAndMax(t *testing.T) {
	// GIVEN dispatch records with known regrets
	dt := NewDecisionTrace(DecisionTraceConfig{Level: DecisionTraceDecisions})
	dt.RecordDispatch(DispatchRecord{RequestID: "r1", ChosenVehicle: "v_0", Regret: 0.1})
	dt.RecordDispatch(DispatchRecord{RequestID: "r2", ChosenVehicle: "v_0", Regret: 0.5})
	dt.RecordDispatch(DispatchRecord{RequestID: "r3", ChosenVehicle: "v_1", Regret: 0.2})

	// WHEN summarized
	summary := Summarize(dt)

	// THEN mean regret = (0.1 + 0.5 + 0.2) / 3
	expectedMean := (0.1 + 0.5 + 0.2) / 3.0
	if summary.MeanRegret < expectedMean-0.001 || summary.MeanRegret > expectedMean+0.001 {
		t.Errorf("expected mean regret ~%.4f, got %.4f", expectedMean, summary.MeanRegret)
	}

	// THEN max regret = 0.5
	if summary.MaxRegret != 0.5 {
		t.Errorf("expected max regret 0.5, got %.4f", summary.MaxRegret)
	}
}

func TestSummarize_VehicleDistribution_CountsPerVehicle(t *testing.T) {
	// GIVEN dispatch to same vehicle multiple times
	dt := NewDecisionTrace(DecisionTraceConfig{Level: DecisionTraceDecisions})
	dt.RecordDispatch(DispatchRecord{RequestID: "r1", ChosenVehicle: "v_0"})
	dt.RecordDispatch(DispatchRecord{RequestID: "r2", ChosenVehicle: "v_0"})
	dt.RecordDispatch(DispatchRecord{RequestID: "r3", ChosenVehicle: "v_1"})

	// WHEN summarized
	summary := Summarize(dt)

	// THEN vehicle distribution reflects counts
	if summary.VehicleDistribution["v_0"] != 2 {
		t.Errorf("expected v_0 count 2, got %d", summary.VehicleDistribution["v_0"])
	}
	if summary.VehicleDistribution["v_1"] != 1 {
		t.Errorf("expected v_1 count 1, got %d", summary.VehicleDistribution["v_1"])
	}
}
