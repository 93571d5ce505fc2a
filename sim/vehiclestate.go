package sim

// VehicleStateKind is an explicit enum of the vehicle state machine's
// variants, used everywhere state identity is compared instead of
// comparing against a lowercased class-name string.
type VehicleStateKind string

const (
	StateIdle VehicleStateKind = "Idle"
	StateRepositioning VehicleStateKind = "Repositioning"
	StateDispatchTrip VehicleStateKind = "DispatchTrip"
	StateServicingTrip VehicleStateKind = "ServicingTrip"
	StateDispatchStation VehicleStateKind = "DispatchStation"
	StateChargingStation VehicleStateKind = "ChargingStation"
	StateDispatchBase VehicleStateKind = "DispatchBase"
	StateReserveBase VehicleStateKind = "ReserveBase"
	StateChargingBase VehicleStateKind = "ChargingBase"
	StateOutOfService VehicleStateKind = "OutOfService"
)

// VehicleState is the common capability set every state variant
// implements:
//
// - Enter validates preconditions and reserves resources. A (nil, nil)
// return is a *silent abort*: the transition into this state should be
// skipped without error, and the caller falls back to Idle. A (nil,
// err) return is a hard failure.
// - Exit releases resources held by this state. Same silent-abort /
// hard-failure convention as Enter.
// - PerformUpdate runs one tick's variant-specific work.
// - HasReachedTerminalCondition is a pure predicate.
// - DefaultTerminalState computes the next state to Enter once the
// terminal condition holds; it may itself branch on sim state (e.g.
// DispatchTrip enters ServicingTrip if the request is still present and
// co-located, else Idle). A non-nil error is a hard failure -- reserved
// for states reached that should be impossible (e.g. DispatchTrip landing
// somewhere inconsistent with the request it was sent to fetch).
type VehicleState interface {
	Kind() VehicleStateKind
	Enter(s *SimulationState, env *Env, vehicleID string) (*SimulationState, error)
	Exit(s *SimulationState, env *Env, vehicleID string) (*SimulationState, error)
	PerformUpdate(s *SimulationState, env *Env, vehicleID string) (*SimulationState, error)
	HasReachedTerminalCondition(s *SimulationState, env *Env, vehicleID string) bool
	DefaultTerminalState(s *SimulationState, env *Env, vehicleID string) (VehicleState, error)
}

// UpdateVehicleState runs the default per-state update algorithm:
// if the current state has reached its terminal condition,
// exit it and enter its default terminal state (chaining to Idle if that
// enter silently aborts); otherwise perform one tick of variant-specific
// work. A vehicle that has vanished from the state (e.g. removed mid-tick
// by another op) is a no-op, not an error.
func UpdateVehicleState(s *SimulationState, env *Env, vehicleID string) (*SimulationState, error) {
	vehicle, ok := s.Vehicle(vehicleID)
	if !ok {
		return s, nil
	}
	current := vehicle.State

	if !current.HasReachedTerminalCondition(s, env, vehicleID) {
		next, err := current.PerformUpdate(s, env, vehicleID)
		if err != nil {
			return s, err
		}
		if next == nil {
			return s, nil
		}
		return next, nil
	}

	afterExit, err := current.Exit(s, env, vehicleID)
	if err != nil {
		return s, err
	}
	if afterExit == nil {
		afterExit = s
	}

	defaultNext, err := current.DefaultTerminalState(afterExit, env, vehicleID)
	if err != nil {
		return afterExit, err
	}
	if defaultNext == nil {
		return afterExit, nil
	}

	entered, err := defaultNext.Enter(afterExit, env, vehicleID)
	if err != nil {
		return afterExit, err
	}
	if entered != nil {
		return entered, nil
	}

	// Silent abort entering the computed default: fall back to Idle. The
	// caller falls through to the default terminal or to Idle.
	if defaultNext.Kind() == StateIdle {
		return afterExit, nil
	}
	fallback := Idle{}
	entered, err = fallback.Enter(afterExit, env, vehicleID)
	if err != nil {
		return afterExit, err
	}
	if entered == nil {
		return afterExit, nil
	}
	return entered, nil
}

// ApplyInstruction runs the full transition for a vehicle named by the
// instruction: exit the vehicle's current state, then enter the target
// state. A silent abort from either step leaves the vehicle in its
// pre-instruction state ("Applying an instruction is: run
// exit on the current state, run enter on the next state, atomically
// replace the state on success"). The returned bool is true only when the
// transition actually took effect -- false means either a silent abort (err
// is nil) or a hard failure (err is non-nil); either way the returned state
// equals s.
func ApplyInstruction(s *SimulationState, env *Env, vehicleID string, next VehicleState) (*SimulationState, bool, error) {
	vehicle, ok := s.Vehicle(vehicleID)
	if !ok {
		return s, false, nil
	}

	afterExit, err := vehicle.State.Exit(s, env, vehicleID)
	if err != nil {
		return s, false, err
	}
	if afterExit == nil {
		return s, false, nil
	}

	entered, err := next.Enter(afterExit, env, vehicleID)
	if err != nil {
		return s, false, err
	}
	if entered == nil {
		return s, false, nil
	}
	return entered, true, nil
}
