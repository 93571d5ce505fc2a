package sim

import "github.com/hive-sim/hive-sim/sim/roadnetwork"

// DispatchTrip carries a vehicle to a request's origin after the Dispatcher
// generator has matched them. It holds the matched RequestID and the route
// to the pickup point.
type DispatchTrip struct {
	RequestID string
	Route []roadnetwork.PropertyLink
}

func (DispatchTrip) Kind() VehicleStateKind { return StateDispatchTrip }

// Enter validates that the request still exists and is not already
// dispatched to a different vehicle: a request that was cancelled or
// claimed between instruction generation and application causes a silent
// abort, not a hard failure. It then marks the request dispatched to this
// vehicle and binds the route.
func (s DispatchTrip) Enter(state *SimulationState, env *Env, vehicleID string) (*SimulationState, error) {
	vehicle, ok := state.Vehicle(vehicleID)
	if !ok {
		return nil, newStateError("DispatchTrip.Enter", "no such vehicle "+vehicleID)
	}
	request, ok := state.Request(s.RequestID)
	if !ok {
		return nil, nil // silent abort: request vanished (cancelled) before dispatch landed
	}
	if request.IsDispatched() && request.DispatchedVehicle != vehicleID {
		return nil, nil // silent abort: already claimed by another vehicle
	}
	// An empty Route is valid here: it means the vehicle is already at the
	// pickup point, so HasReachedTerminalCondition is true from the start.

	next, err := Compose(state,
		func(st *SimulationState) (*SimulationState, error) {
			return ModifyRequest(st, request.WithDispatchedVehicle(vehicleID, st.SimTime))
		},
		func(st *SimulationState) (*SimulationState, error) {
			return ModifyVehicle(st, vehicle.WithState(s))
		},
	)
	if err != nil {
		return nil, err
	}
	return next, nil
}

// Exit releases no resource: the dispatched-vehicle relation on the request
// persists into ServicingTrip (or is cleared explicitly by whichever state
// ultimately drops the trip).
func (DispatchTrip) Exit(state *SimulationState, env *Env, vehicleID string) (*SimulationState, error) {
	return state, nil
}

// PerformUpdate advances the vehicle toward the pickup point.
func (s DispatchTrip) PerformUpdate(state *SimulationState, env *Env, vehicleID string) (*SimulationState, error) {
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

// HasReachedTerminalCondition is true once the route to the pickup point
// has been fully consumed.
func (s DispatchTrip) HasReachedTerminalCondition(state *SimulationState, env *Env, vehicleID string) bool {
	return len(s.Route) == 0
}

// DefaultTerminalState enters ServicingTrip if the request is still present
// and the vehicle is co-located with its origin. A missing request is a
// silent abort (it was cancelled en route). A vehicle that reached its
// terminal condition NOT co-located with the request's origin is a real
// bug -- route traversal should never leave DispatchTrip anywhere but the
// origin -- so it is reported as a hard failure instead of silently
// falling back to Idle.
func (s DispatchTrip) DefaultTerminalState(state *SimulationState, env *Env, vehicleID string) (VehicleState, error) {
	vehicle, ok := state.Vehicle(vehicleID)
	if !ok {
		return Idle{}, nil
	}
	request, ok := state.Request(s.RequestID)
	if !ok {
		return Idle{}, nil
	}
	if vehicle.GeoID != request.OriginGeoID {
		return nil, newStateError("DispatchTrip.DefaultTerminalState",
			"vehicle "+vehicleID+" reached terminal condition not co-located with request "+s.RequestID+"'s origin")
	}

	route, err := state.RoadNetwork.Route(vehicle.Position, request.Destination)
	if err != nil {
		return Idle{}, nil
	}
	return ServicingTrip{RequestID: s.RequestID, Route: route, Passengers: request.Passengers}, nil
}
