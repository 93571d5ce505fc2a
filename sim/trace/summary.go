package trace

// DecisionTraceSummary aggregates statistics from a DecisionTrace.
type DecisionTraceSummary struct {
	TotalRequests int
	AssignedCount int
	UnassignedCount int
	MeanRegret float64
	MaxRegret float64
	UniqueVehiclesUsed int
	VehicleDistribution map[string]int // vehicle ID -> count of requests it was dispatched to
}

// Summarize computes aggregate statistics from a DecisionTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(dt *DecisionTrace) *DecisionTraceSummary {
	summary := &DecisionTraceSummary{
		VehicleDistribution: make(map[string]int),
	}
	if dt == nil {
		return summary
	}

	summary.TotalRequests = len(dt.Assignments)
	for _, a := range dt.Assignments {
		if a.Assigned {
			summary.AssignedCount++
		} else {
			summary.UnassignedCount++
		}
	}

	if len(dt.Dispatches) > 0 {
		totalRegret := 0.0
		for _, d := range dt.Dispatches {
			summary.VehicleDistribution[d.ChosenVehicle]++
			totalRegret += d.Regret
			if d.Regret > summary.MaxRegret {
				summary.MaxRegret = d.Regret
			}
		}
		summary.MeanRegret = totalRegret / float64(len(dt.Dispatches))
	}

	summary.UniqueVehiclesUsed = len(summary.VehicleDistribution)

	return summary
}
