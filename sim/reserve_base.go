package sim

// ReserveBase holds a vehicle parked at a base with no charging in
// progress -- a plain parking reservation. It has no automatic terminal
// condition: leaving is always driven by an external Instruction (e.g.
// Dispatcher pulling it out to serve a request).
type ReserveBase struct {
	BaseID string
}

func (ReserveBase) Kind() VehicleStateKind { return StateReserveBase }

// Enter claims a parking stall at the base. A silent abort occurs if none
// remains.
func (s ReserveBase) Enter(state *SimulationState, env *Env, vehicleID string) (*SimulationState, error) {
	vehicle, ok := state.Vehicle(vehicleID)
	if !ok {
		return nil, newStateError("ReserveBase.Enter", "no such vehicle "+vehicleID)
	}
	base, ok := state.Base(s.BaseID)
	if !ok {
		return nil, nil // silent abort: base vanished
	}
	updatedBase, claimed := base.CheckoutStall()
	if !claimed {
		return nil, nil // silent abort: no stall available
	}

	return Compose(state,
		func(st *SimulationState) (*SimulationState, error) {
			return ModifyBase(st, updatedBase)
		},
		func(st *SimulationState) (*SimulationState, error) {
			return ModifyVehicle(st, vehicle.WithState(s))
		},
	)
}

// Exit returns the claimed parking stall to the base.
func (s ReserveBase) Exit(state *SimulationState, env *Env, vehicleID string) (*SimulationState, error) {
	base, ok := state.Base(s.BaseID)
	if !ok {
		return state, nil
	}
	return ModifyBase(state, base.ReturnStall())
}

// PerformUpdate is a no-op: a reserved vehicle neither moves nor charges.
func (ReserveBase) PerformUpdate(state *SimulationState, env *Env, vehicleID string) (*SimulationState, error) {
	return state, nil
}

// HasReachedTerminalCondition is always false: transitions out of
// ReserveBase happen only via an external Instruction.
func (ReserveBase) HasReachedTerminalCondition(state *SimulationState, env *Env, vehicleID string) bool {
	return false
}

// DefaultTerminalState is never consulted.
func (ReserveBase) DefaultTerminalState(state *SimulationState, env *Env, vehicleID string) (VehicleState, error) {
	return nil, nil
}
