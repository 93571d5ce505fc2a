package sim

import "github.com/hive-sim/hive-sim/sim/roadnetwork"

// movementResult is the outcome of consuming one tick's time budget against
// a route, already folded into vehicle position/energy updates.
type movementResult struct {
	RemainingRoute []roadnetwork.PropertyLink
	RouteExhausted bool
}

// advanceAlongRoute consumes s.TimestepDurationSeconds of route against the
// current road network, moves the vehicle to the point reached, debits
// drive energy for the distance covered, and returns the updated
// SimulationState plus the remaining route. Movement states (Repositioning,
// DispatchTrip, ServicingTrip, DispatchStation, DispatchBase) share this
// logic: each delegates its per-tick update to RouteTraversal.
func advanceAlongRoute(s *SimulationState, env *Env, vehicleID string, route []roadnetwork.PropertyLink) (*SimulationState, movementResult, error) {
	result, err := roadnetwork.Traverse(s.RoadNetwork, route, s.TimestepDurationSeconds)
	if err != nil {
		return s, movementResult{}, &RouteError{VehicleID: vehicleID, Reason: err.Error()}
	}
	if result == nil {
		// Empty or already-arrived route: nothing to consume.
		return s, movementResult{RemainingRoute: nil, RouteExhausted: true}, nil
	}

	vehicle, ok := s.Vehicle(vehicleID)
	if !ok {
		return s, movementResult{}, nil
	}

	newPosition := vehicle.Position
	if len(result.ExperiencedRoute) > 0 {
		newPosition = result.ExperiencedRoute[len(result.ExperiencedRoute)-1].End
	}
	newGeoID := s.Grid.CellAt(newPosition, s.H3LocationResolution)

	energyDebit := result.TraversalDistanceKm * env.Config.DriveEnergyKWhPerKm
	updated := vehicle.WithPosition(newPosition, newGeoID).WithEnergySource(vehicle.EnergySource.DebitKWh(energyDebit))

	next, opErr := ModifyVehicle(s, updated)
	if opErr != nil {
		return s, movementResult{}, opErr
	}
	if env.Metrics != nil {
		env.Metrics.RecordDriveEnergy(energyDebit)
	}

	return next, movementResult{
		RemainingRoute: result.RemainingRoute,
		RouteExhausted: len(result.RemainingRoute) == 0,
	}, nil
}
