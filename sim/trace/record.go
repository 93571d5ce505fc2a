// Package trace provides decision-trace recording for dispatcher policy
// analysis, plus the append-only event log (report.go, emitter.go) that is
// the simulator's primary output. This package has no
// dependency on sim/ or sim/policy/ — it stores pure data types.
package trace

// AssignmentRecord captures whether a single request was matched to a
// vehicle by a Dispatcher pass.
type AssignmentRecord struct {
	RequestID string
	SimTime int64
	Assigned bool
	Reason string
}

// CandidateScore captures one vehicle considered (and not chosen) for a
// dispatch decision, for counterfactual regret analysis.
type CandidateScore struct {
	VehicleID string
	Cost float64
	DistanceKm float64
	SoC float64
}

// DispatchRecord captures a single vehicle-to-request assignment decision
// made by the minimum-cost assignment in sim/assignment, with optional
// counterfactual candidates.
type DispatchRecord struct {
	RequestID string
	SimTime int64
	ChosenVehicle string
	Reason string
	Costs map[string]float64 // vehicle_id -> cost, as scored by the cost function
	Candidates []CandidateScore // top-k alternatives sorted by cost ascending (nil if k=0)
	Regret float64 // cost(chosen) - min(alternative costs); 0 if chosen is best
}
