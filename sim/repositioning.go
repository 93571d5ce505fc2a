package sim

import "github.com/hive-sim/hive-sim/sim/roadnetwork"

// Repositioning carries an idle vehicle toward a predicted-demand cell
// chosen by the Repositioning generator. It holds the route
// to travel.
type Repositioning struct {
	Route []roadnetwork.PropertyLink
}

func (Repositioning) Kind() VehicleStateKind { return StateRepositioning }

// Enter always succeeds: no resource reservation, just binds the route.
func (s Repositioning) Enter(state *SimulationState, env *Env, vehicleID string) (*SimulationState, error) {
	vehicle, ok := state.Vehicle(vehicleID)
	if !ok {
		return nil, newStateError("Repositioning.Enter", "no such vehicle "+vehicleID)
	}
	return ModifyVehicle(state, vehicle.WithState(s))
}

// Exit releases no resource.
func (Repositioning) Exit(state *SimulationState, env *Env, vehicleID string) (*SimulationState, error) {
	return state, nil
}

// PerformUpdate advances the vehicle along its route for one timestep.
func (s Repositioning) PerformUpdate(state *SimulationState, env *Env, vehicleID string) (*SimulationState, error) {
	next, movement, err := advanceAlongRoute(state, env, vehicleID, s.Route)
	if err != nil {
		// a RouteError is demoted to "no movement this tick".
		return state, nil
	}
	s.Route = movement.RemainingRoute
	vehicle, ok := next.Vehicle(vehicleID)
	if !ok {
		return next, nil
	}
	return ModifyVehicle(next, vehicle.WithState(s))
}

// HasReachedTerminalCondition is true once the route has been fully
// consumed.
func (s Repositioning) HasReachedTerminalCondition(state *SimulationState, env *Env, vehicleID string) bool {
	return len(s.Route) == 0
}

// DefaultTerminalState returns Idle.
func (Repositioning) DefaultTerminalState(state *SimulationState, env *Env, vehicleID string) (VehicleState, error) {
	return Idle{}, nil
}
