package policy

import (
	"fmt"

	"github.com/hive-sim/hive-sim/sim/assignment"
)

// AssignmentPolicy matches vehicles to requests for one tick of the
// Dispatcher generator.
type AssignmentPolicy interface {
	Assign(vehicleIDs, requestIDs []string, cost assignment.CostFunc) []assignment.Pair
}

// GreedyAssignment wraps assignment.Greedy: fast, deterministic,
// lexicographic tie-break, but can commit early to a suboptimal pairing.
type GreedyAssignment struct{}

func (GreedyAssignment) Assign(vehicleIDs, requestIDs []string, cost assignment.CostFunc) []assignment.Pair {
	return assignment.Greedy(vehicleIDs, requestIDs, cost)
}

// MinCostAssignment wraps assignment.MinCost: globally optimal at a higher
// per-tick computational cost, intended for smaller fleets or offline
// evaluation runs (DispatcherConfig.UseAssignmentMode).
type MinCostAssignment struct{}

func (MinCostAssignment) Assign(vehicleIDs, requestIDs []string, cost assignment.CostFunc) []assignment.Pair {
	return assignment.MinCost(vehicleIDs, requestIDs, cost)
}

// NewAssignmentPolicy creates an assignment policy by name.
// Valid names: "greedy", "min-cost".
func NewAssignmentPolicy(name string) AssignmentPolicy {
	switch name {
	case "greedy":
		return GreedyAssignment{}
	case "min-cost":
		return MinCostAssignment{}
	default:
		panic(fmt.Sprintf("unknown assignment policy %q; valid policies: [greedy, min-cost]", name))
	}
}
