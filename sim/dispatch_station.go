package sim

import "github.com/hive-sim/hive-sim/sim/roadnetwork"

// DispatchStation carries a vehicle toward a charging station chosen by the
// ChargingFleetManager generator. It holds the target
// StationID, an optional preferred ChargerID, and the route.
type DispatchStation struct {
	StationID string
	ChargerID string
	Route []roadnetwork.PropertyLink
}

func (DispatchStation) Kind() VehicleStateKind { return StateDispatchStation }

// Enter validates the station still exists and binds the route. No stall
// is reserved yet -- that happens on entry to ChargingStation, so multiple
// vehicles may be en route to the same station concurrently.
func (s DispatchStation) Enter(state *SimulationState, env *Env, vehicleID string) (*SimulationState, error) {
	vehicle, ok := state.Vehicle(vehicleID)
	if !ok {
		return nil, newStateError("DispatchStation.Enter", "no such vehicle "+vehicleID)
	}
	if _, ok := state.Station(s.StationID); !ok {
		return nil, nil // silent abort: station no longer exists
	}
	// An empty Route is valid here: it means the vehicle is already at the
	// station, so HasReachedTerminalCondition is true from the start.
	return ModifyVehicle(state, vehicle.WithState(s))
}

// Exit releases no resource.
func (DispatchStation) Exit(state *SimulationState, env *Env, vehicleID string) (*SimulationState, error) {
	return state, nil
}

// PerformUpdate advances the vehicle toward the station.
func (s DispatchStation) PerformUpdate(state *SimulationState, env *Env, vehicleID string) (*SimulationState, error) {
	next, movement, err := advanceAlongRoute(state, env, vehicleID, s.Route)
	if err != nil {
		return state, nil
	}
	s.Route = movement.RemainingRoute
	vehicle, ok := next.Vehicle(vehicleID)
	if !ok {
		return next, nil
	}
	return ModifyVehicle(next, vehicle.WithState(s))
}

// HasReachedTerminalCondition is true once the route to the station has
// been fully consumed.
func (s DispatchStation) HasReachedTerminalCondition(state *SimulationState, env *Env, vehicleID string) bool {
	return len(s.Route) == 0
}

// DefaultTerminalState enters ChargingStation if a stall can still be
// obtained at arrival, otherwise falls back to Idle (the station filled up
// while this vehicle was en route).
func (s DispatchStation) DefaultTerminalState(state *SimulationState, env *Env, vehicleID string) (VehicleState, error) {
	station, ok := state.Station(s.StationID)
	if !ok {
		return Idle{}, nil
	}
	if station.AvailableStalls() <= 0 {
		return Idle{}, nil
	}
	return ChargingStation{StationID: s.StationID, ChargerID: s.ChargerID}, nil
}
