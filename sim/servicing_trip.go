package sim

import "github.com/hive-sim/hive-sim/sim/roadnetwork"

// ServicingTrip carries a boarded passenger from a request's origin to its
// destination. It holds the matched RequestID, the route to the
// destination, and the passenger count boarded at Enter.
type ServicingTrip struct {
	RequestID string
	Route []roadnetwork.PropertyLink
	Passengers int
}

func (ServicingTrip) Kind() VehicleStateKind { return StateServicingTrip }

// Enter re-validates that the request is still present and dispatched to
// this vehicle (it may have been cancelled in the same tick DispatchTrip
// computed its DefaultTerminalState), then binds the route and passenger
// count. Fare settlement happens on trip completion, not here.
func (s ServicingTrip) Enter(state *SimulationState, env *Env, vehicleID string) (*SimulationState, error) {
	vehicle, ok := state.Vehicle(vehicleID)
	if !ok {
		return nil, newStateError("ServicingTrip.Enter", "no such vehicle "+vehicleID)
	}
	request, ok := state.Request(s.RequestID)
	if !ok {
		return nil, nil // silent abort: request cancelled before boarding
	}
	if request.DispatchedVehicle != vehicleID {
		return nil, nil // silent abort: request claimed elsewhere
	}
	// An empty Route is valid here: it means the vehicle is already at the
	// destination, so HasReachedTerminalCondition is true from the start.
	return ModifyVehicle(state, vehicle.WithState(s))
}

// Exit retires the completed request from the active set (the fare has
// already been realized in Request.Value; nothing further references it).
// A missing request is not an error here -- it may have already been
// removed by whatever path got the vehicle to its terminal condition.
func (s ServicingTrip) Exit(state *SimulationState, env *Env, vehicleID string) (*SimulationState, error) {
	request, ok := state.Request(s.RequestID)
	if !ok {
		return state, nil
	}
	next, err := RemoveRequest(state, s.RequestID)
	if err != nil {
		return state, nil
	}
	if env.Metrics != nil {
		env.Metrics.RecordTripCompleted(request.Value)
	}
	return next, nil
}

// PerformUpdate advances the vehicle toward the destination.
func (s ServicingTrip) PerformUpdate(state *SimulationState, env *Env, vehicleID string) (*SimulationState, error) {
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

// HasReachedTerminalCondition is true once the route to the destination has
// been fully consumed.
func (s ServicingTrip) HasReachedTerminalCondition(state *SimulationState, env *Env, vehicleID string) bool {
	return len(s.Route) == 0
}

// DefaultTerminalState returns the vehicle to Idle once the trip (and its
// Exit-time request retirement) has completed.
func (s ServicingTrip) DefaultTerminalState(state *SimulationState, env *Env, vehicleID string) (VehicleState, error) {
	return Idle{}, nil
}
