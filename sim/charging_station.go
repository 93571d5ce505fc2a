package sim

// ChargingStation holds a vehicle parked at a public charging stall. It
// holds the StationID and the ChargerID of the stall actually claimed at
// Enter.
type ChargingStation struct {
	StationID string
	ChargerID string
}

func (ChargingStation) Kind() VehicleStateKind { return StateChargingStation }

// Enter claims a stall at the station, preferring the ChargerID carried
// over from DispatchStation if it is still available. A silent abort
// occurs if no stall remains -- the caller (UpdateVehicleState) then falls
// back to Idle.
func (s ChargingStation) Enter(state *SimulationState, env *Env, vehicleID string) (*SimulationState, error) {
	vehicle, ok := state.Vehicle(vehicleID)
	if !ok {
		return nil, newStateError("ChargingStation.Enter", "no such vehicle "+vehicleID)
	}
	station, ok := state.Station(s.StationID)
	if !ok {
		return nil, nil // silent abort: station vanished
	}

	updatedStation, chargerID, claimed := station.CheckoutStall(s.ChargerID)
	if !claimed {
		return nil, nil // silent abort: no stall available
	}
	s.ChargerID = chargerID

	return Compose(state,
		func(st *SimulationState) (*SimulationState, error) {
			return ModifyStation(st, updatedStation)
		},
		func(st *SimulationState) (*SimulationState, error) {
			return ModifyVehicle(st, vehicle.WithState(s))
		},
	)
}

// Exit returns the claimed stall to the station.
func (s ChargingStation) Exit(state *SimulationState, env *Env, vehicleID string) (*SimulationState, error) {
	station, ok := state.Station(s.StationID)
	if !ok {
		return state, nil
	}
	return ModifyStation(state, station.ReturnStall(s.ChargerID))
}

// PerformUpdate credits energy for one timestep at the claimed charger's
// rated power, or at the vehicle's MaxChargeAcceptanceKW when that is set
// and lower.
func (s ChargingStation) PerformUpdate(state *SimulationState, env *Env, vehicleID string) (*SimulationState, error) {
	vehicle, ok := state.Vehicle(vehicleID)
	if !ok {
		return state, nil
	}
	station, ok := state.Station(s.StationID)
	if !ok {
		return state, nil
	}
	charger, ok := station.Chargers[s.ChargerID]
	if !ok {
		return state, nil
	}

	rateKW := charger.PowerKW
	if vehicle.EnergySource.MaxChargeAcceptanceKW > 0 && vehicle.EnergySource.MaxChargeAcceptanceKW < rateKW {
		rateKW = vehicle.EnergySource.MaxChargeAcceptanceKW
	}
	creditKWh := rateKW * float64(state.TimestepDurationSeconds) / 3600.0

	next, err := ModifyVehicle(state, vehicle.WithEnergySource(vehicle.EnergySource.CreditKWh(creditKWh)))
	if err != nil {
		return state, err
	}
	if env.Metrics != nil {
		env.Metrics.RecordChargeEnergy(creditKWh)
	}
	return next, nil
}

// HasReachedTerminalCondition is true once the vehicle reaches its ideal
// charge limit.
func (s ChargingStation) HasReachedTerminalCondition(state *SimulationState, env *Env, vehicleID string) bool {
	vehicle, ok := state.Vehicle(vehicleID)
	if !ok {
		return false
	}
	return vehicle.EnergySource.SoC >= vehicle.EnergySource.IdealLimitSoC()
}

// DefaultTerminalState returns the vehicle to Idle once charged.
func (ChargingStation) DefaultTerminalState(state *SimulationState, env *Env, vehicleID string) (VehicleState, error) {
	return Idle{}, nil
}
