package sim

import "github.com/hive-sim/hive-sim/sim/roadnetwork"

// DispatchBase carries a vehicle toward a home or overflow base chosen by
// the BaseManagement generator. It holds the target BaseID
// and the route.
type DispatchBase struct {
	BaseID string
	Route []roadnetwork.PropertyLink
}

func (DispatchBase) Kind() VehicleStateKind { return StateDispatchBase }

// Enter validates the base still exists and binds the route. No stall is
// reserved yet -- that happens on entry to ReserveBase.
func (s DispatchBase) Enter(state *SimulationState, env *Env, vehicleID string) (*SimulationState, error) {
	vehicle, ok := state.Vehicle(vehicleID)
	if !ok {
		return nil, newStateError("DispatchBase.Enter", "no such vehicle "+vehicleID)
	}
	if _, ok := state.Base(s.BaseID); !ok {
		return nil, nil // silent abort: base no longer exists
	}
	// An empty Route is valid here: it means the vehicle is already at the
	// base, so HasReachedTerminalCondition is true from the start.
	return ModifyVehicle(state, vehicle.WithState(s))
}

// Exit releases no resource.
func (DispatchBase) Exit(state *SimulationState, env *Env, vehicleID string) (*SimulationState, error) {
	return state, nil
}

// PerformUpdate advances the vehicle toward the base.
func (s DispatchBase) PerformUpdate(state *SimulationState, env *Env, vehicleID string) (*SimulationState, error) {
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

// HasReachedTerminalCondition is true once the route to the base has been
// fully consumed.
func (s DispatchBase) HasReachedTerminalCondition(state *SimulationState, env *Env, vehicleID string) bool {
	return len(s.Route) == 0
}

// DefaultTerminalState enters ReserveBase if a stall can still be obtained
// at arrival, otherwise falls back to Idle (the base filled up while this
// vehicle was en route).
func (s DispatchBase) DefaultTerminalState(state *SimulationState, env *Env, vehicleID string) (VehicleState, error) {
	base, ok := state.Base(s.BaseID)
	if !ok {
		return Idle{}, nil
	}
	if base.AvailableStalls <= 0 {
		return Idle{}, nil
	}
	return ReserveBase{BaseID: s.BaseID}, nil
}
