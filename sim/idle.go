package sim

// Idle is the vehicle state entered whenever a vehicle has nothing else to
// do: waiting for a dispatch, a charging assignment, or a base reservation.
// It holds IdleDurationSeconds, the running count of ticks spent idle since
// the last entry, reset on every Enter.
type Idle struct {
	IdleDurationSeconds int64
}

func (Idle) Kind() VehicleStateKind { return StateIdle }

// Enter always succeeds: Idle reserves no resource. The idle-duration
// counter resets to zero.
func (s Idle) Enter(state *SimulationState, env *Env, vehicleID string) (*SimulationState, error) {
	vehicle, ok := state.Vehicle(vehicleID)
	if !ok {
		return nil, newStateError("Idle.Enter", "no such vehicle "+vehicleID)
	}
	s.IdleDurationSeconds = 0
	return ModifyVehicle(state, vehicle.WithState(s))
}

// Exit releases no resource.
func (Idle) Exit(state *SimulationState, env *Env, vehicleID string) (*SimulationState, error) {
	return state, nil
}

// PerformUpdate accumulates idle time and debits the ambient idle energy
// draw (climate control, electronics) for one timestep.
func (s Idle) PerformUpdate(state *SimulationState, env *Env, vehicleID string) (*SimulationState, error) {
	vehicle, ok := state.Vehicle(vehicleID)
	if !ok {
		return state, nil
	}
	s.IdleDurationSeconds += state.TimestepDurationSeconds

	idleHours := float64(state.TimestepDurationSeconds) / 3600.0
	idleDebitKWh := env.Config.IdleEnergyRateKWhPerHour * idleHours
	energy := vehicle.EnergySource.DebitKWh(idleDebitKWh)

	return ModifyVehicle(state, vehicle.WithState(s).WithEnergySource(energy))
}

// HasReachedTerminalCondition is true once the vehicle's battery is fully
// depleted -- the Idle state's own terminal condition is distinct from (and
// lower than) the Dispatcher's charging_low_soc_threshold, which is what
// normally pulls a vehicle out of Idle into DispatchStation before it gets
// this low: a literal reading of the "low SOC" row as a hard floor, not the
// configurable charging threshold.
func (Idle) HasReachedTerminalCondition(state *SimulationState, env *Env, vehicleID string) bool {
	vehicle, ok := state.Vehicle(vehicleID)
	if !ok {
		return false
	}
	return vehicle.EnergySource.SoC <= 0
}

// DefaultTerminalState sends a depleted vehicle OutOfService.
func (Idle) DefaultTerminalState(state *SimulationState, env *Env, vehicleID string) (VehicleState, error) {
	return OutOfService{}, nil
}
