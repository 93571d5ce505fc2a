package policy

import (
	"math"

	"github.com/hive-sim/hive-sim/sim"
	"github.com/hive-sim/hive-sim/sim/assignment"
	"github.com/hive-sim/hive-sim/sim/geo"
	"github.com/hive-sim/hive-sim/sim/trace"
)

// maxDispatchSearchRadiusKm bounds the greedy-mode nearest-vehicle ring
// search. names no dispatch-specific search radius (unlike
// ChargingFleetManager's charging_max_search_radius_km), so greedy mode
// searches as wide as the grid allows before giving up on a request this
// tick.
const maxDispatchSearchRadiusKm = 1000

// Dispatcher matches unassigned requests to eligible vehicles, independently
// per membership, by either a greedy nearest-vehicle search or a
// minimum-cost bipartite assignment.
type Dispatcher struct {
	Assignment AssignmentPolicy
}

// NewDispatcher builds a Dispatcher whose AssignmentPolicy is
// MinCostAssignment. Run consults that policy only when
// DispatcherConfig.UseAssignmentMode is set; otherwise it matches by the
// greedy nearest-vehicle search.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{Assignment: MinCostAssignment{}}
}

func (d *Dispatcher) Run(s *sim.SimulationState, env *sim.Env) (sim.Generator, []sim.Instruction, error) {
	var instructions []sim.Instruction

	for _, membership := range s.Memberships() {
		vehicles := eligibleDispatchVehicles(s, env, membership)
		if len(vehicles) == 0 {
			continue
		}
		requests := s.GetRequests(sim.RequestQuery{
			MembershipID: membership,
			Filter: func(r sim.Request) bool {
				return !r.IsDispatched() && s.SimTime.AtOrAfter(r.DepartureTime)
			},
			Less: func(a, b sim.Request) bool { return a.Value > b.Value },
		})
		if len(requests) == 0 {
			continue
		}

		if env.Config.Dispatcher.UseAssignmentMode {
			instructions = append(instructions, d.assignmentMode(s, env, vehicles, requests)...)
		} else {
			instructions = append(instructions, d.greedyMode(s, env, vehicles, requests)...)
		}
	}
	return d, instructions, nil
}

// eligibleDispatchVehicles selects the membership's vehicles whose state is
// in the configured valid-dispatch set, whose remaining range clears the
// matching threshold, and — if currently parked at a base — whose range
// additionally clears the stricter base-leave threshold.
func eligibleDispatchVehicles(s *sim.SimulationState, env *sim.Env, membership string) []sim.Vehicle {
	cfg := env.Config.Dispatcher
	valid := make(map[sim.VehicleStateKind]bool, len(cfg.ValidDispatchStates))
	for _, kind := range cfg.ValidDispatchStates {
		valid[kind] = true
	}
	return s.GetVehicles(sim.VehicleQuery{
		MembershipID: membership,
		Filter: func(v sim.Vehicle) bool {
			if !valid[v.State.Kind()] {
				return false
			}
			remaining := rangeRemainingKm(v, env.Config)
			if remaining < cfg.MatchingRangeKmThreshold {
				return false
			}
			if isAtBase(v) && remaining < cfg.BaseChargingRangeKmThreshold {
				return false
			}
			return true
		},
	})
}

func isAtBase(v sim.Vehicle) bool {
	switch v.State.Kind() {
	case sim.StateReserveBase, sim.StateChargingBase:
		return true
	}
	return false
}

// rangeRemainingKm estimates how far a vehicle can still drive on its
// current charge, using the core's flat DriveEnergyKWhPerKm rate (the
// mechatronics-model stand-in config.go documents).
func rangeRemainingKm(v sim.Vehicle, cfg sim.SimConfig) float64 {
	if cfg.DriveEnergyKWhPerKm <= 0 {
		return math.Inf(1)
	}
	return v.EnergySource.EnergyKWh() / cfg.DriveEnergyKWhPerKm
}

// greedyMode matches each request, highest value first, to its nearest
// still-available eligible vehicle via the vehicle geo index.
func (d *Dispatcher) greedyMode(s *sim.SimulationState, env *sim.Env, vehicles []sim.Vehicle, requests []sim.Request) []sim.Instruction {
	eligible := make(map[string]bool, len(vehicles))
	for _, v := range vehicles {
		eligible[v.ID] = true
	}
	taken := make(map[string]bool, len(requests))

	var instructions []sim.Instruction
	for _, r := range requests {
		vehicleID, found := s.VehicleIndex.NearestEntity(r.Origin, maxDispatchSearchRadiusKm, func(id string) bool {
			return eligible[id] && !taken[id]
		})
		if !found {
			recordAssignment(s, env, r, false, "no eligible vehicle in range")
			continue
		}
		taken[vehicleID] = true
		instr, ok := d.buildDispatchInstruction(s, vehicleID, r)
		recordAssignment(s, env, r, ok, "greedy nearest")
		if ok {
			instructions = append(instructions, instr)
		}
	}
	return instructions
}

// assignmentMode hands the whole eligible-vehicle/sorted-request set to the
// configured AssignmentPolicy with a cost function equal to the great-circle
// distance (geo.HaversineKm) between vehicle position and request origin;
// no hex-cell distance is used.
func (d *Dispatcher) assignmentMode(s *sim.SimulationState, env *sim.Env, vehicles []sim.Vehicle, requests []sim.Request) []sim.Instruction {
	vehicleByID := make(map[string]sim.Vehicle, len(vehicles))
	vehicleIDs := make([]string, len(vehicles))
	for i, v := range vehicles {
		vehicleByID[v.ID] = v
		vehicleIDs[i] = v.ID
	}
	requestByID := make(map[string]sim.Request, len(requests))
	requestIDs := make([]string, len(requests))
	for i, r := range requests {
		requestByID[r.ID] = r
		requestIDs[i] = r.ID
	}

	// its default cost is "h3 hex-distance between vehicle
	// position and request origin"; the grid abstraction (sim/geo.HexGrid)
	// exposes cell adjacency rings but no cross-cell distance metric, so
	// the cost function uses the same great-circle distance the road
	// network itself routes on (sim/geo.HaversineKm) — monotonic with hex
	// count and, unlike a grid-specific metric, stays meaningful however
	// the grid is configured.
	costs := make(map[string]float64)
	cost := assignment.CostFunc(func(vehicleID, requestID string) float64 {
		distance := geo.HaversineKm(vehicleByID[vehicleID].Position, requestByID[requestID].Origin)
		costs[vehicleID+"|"+requestID] = distance
		return distance
	})

	policy := d.Assignment
	if policy == nil {
		policy = GreedyAssignment{}
	}
	pairs := policy.Assign(vehicleIDs, requestIDs, cost)

	matched := make(map[string]bool, len(pairs))
	var instructions []sim.Instruction
	for _, pair := range pairs {
		matched[pair.RequestID] = true
		instr, ok := d.buildDispatchInstruction(s, pair.VehicleID, requestByID[pair.RequestID])
		if env.Decisions != nil {
			env.Decisions.RecordDispatch(trace.DispatchRecord{
				RequestID: pair.RequestID,
				SimTime: int64(s.SimTime),
				ChosenVehicle: pair.VehicleID,
				Reason: "minimum-cost assignment",
				Costs: costsForRequest(costs, pair.RequestID, vehicleIDs),
			})
		}
		if ok {
			instructions = append(instructions, instr)
		}
	}
	for _, r := range requests {
		if !matched[r.ID] {
			recordAssignment(s, env, r, false, "unmatched by assignment")
		}
	}
	return instructions
}

// costsForRequest reads the vehicle->cost map computed by the assignment
// cost function back out keyed by vehicle id, for a single request, so
// DispatchRecord.Costs can carry the alternatives actually considered.
func costsForRequest(costs map[string]float64, requestID string, vehicleIDs []string) map[string]float64 {
	out := make(map[string]float64, len(vehicleIDs))
	for _, vehicleID := range vehicleIDs {
		if c, ok := costs[vehicleID+"|"+requestID]; ok {
			out[vehicleID] = c
		}
	}
	return out
}

// buildDispatchInstruction routes the vehicle to the request's origin. A
// nil route with no error means the vehicle is already there (Route's
// already-arrived case) and is still a valid dispatch, not a dropped match.
func (d *Dispatcher) buildDispatchInstruction(s *sim.SimulationState, vehicleID string, r sim.Request) (sim.Instruction, bool) {
	v, ok := s.Vehicle(vehicleID)
	if !ok {
		return sim.Instruction{}, false
	}
	route, err := s.RoadNetwork.Route(v.Position, r.Origin)
	if err != nil {
		return sim.Instruction{}, false
	}
	return sim.Instruction{
		VehicleID: vehicleID,
		Next: sim.DispatchTrip{RequestID: r.ID, Route: route},
		Source: "Dispatcher",
	}, true
}

func recordAssignment(s *sim.SimulationState, env *sim.Env, r sim.Request, assigned bool, reason string) {
	if env.Decisions == nil {
		return
	}
	env.Decisions.RecordAssignment(trace.AssignmentRecord{
		RequestID: r.ID,
		SimTime: int64(s.SimTime),
		Assigned: assigned,
		Reason: reason,
	})
}
