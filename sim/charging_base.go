package sim

// ChargingBase holds a vehicle parked at its home (or overflow) base and
// charging from the base's co-located station, subject to
// DispatcherConfig.BaseVehiclesChargingLimit -- the number of vehicles
// simultaneously drawing power at one base.
type ChargingBase struct {
	BaseID string
	StationID string
	ChargerID string
}

func (ChargingBase) Kind() VehicleStateKind { return StateChargingBase }

// Enter claims a stall at the base's co-located station, but only if doing
// so would not exceed BaseVehiclesChargingLimit concurrently-charging
// vehicles at this base. A zero or negative limit means unlimited.
func (s ChargingBase) Enter(state *SimulationState, env *Env, vehicleID string) (*SimulationState, error) {
	vehicle, ok := state.Vehicle(vehicleID)
	if !ok {
		return nil, newStateError("ChargingBase.Enter", "no such vehicle "+vehicleID)
	}
	base, ok := state.Base(s.BaseID)
	if !ok {
		return nil, nil // silent abort: base vanished
	}
	if base.StationID == "" {
		return nil, nil // silent abort: base has no co-located station
	}
	station, ok := state.Station(base.StationID)
	if !ok {
		return nil, nil // silent abort: co-located station vanished
	}

	limit := env.Config.Dispatcher.BaseVehiclesChargingLimit
	if limit > 0 {
		charging := state.GetVehicles(VehicleQuery{Filter: func(v Vehicle) bool {
			cb, ok := v.State.(ChargingBase)
			return ok && cb.BaseID == s.BaseID
		}})
		if len(charging) >= limit {
			return nil, nil // silent abort: base charging limit reached
		}
	}

	updatedBase, baseClaimed := base.CheckoutStall()
	if !baseClaimed {
		return nil, nil // silent abort: no parking stall available
	}
	updatedStation, chargerID, claimed := station.CheckoutStall(s.ChargerID)
	if !claimed {
		return nil, nil // silent abort: no charger stall available
	}
	s.StationID = base.StationID
	s.ChargerID = chargerID

	return Compose(state,
		func(st *SimulationState) (*SimulationState, error) {
			return ModifyBase(st, updatedBase)
		},
		func(st *SimulationState) (*SimulationState, error) {
			return ModifyStation(st, updatedStation)
		},
		func(st *SimulationState) (*SimulationState, error) {
			return ModifyVehicle(st, vehicle.WithState(s))
		},
	)
}

// Exit returns both the claimed charger stall and the base parking stall.
func (s ChargingBase) Exit(state *SimulationState, env *Env, vehicleID string) (*SimulationState, error) {
	next := state
	if station, ok := state.Station(s.StationID); ok {
		updated, err := ModifyStation(next, station.ReturnStall(s.ChargerID))
		if err == nil {
			next = updated
		}
	}
	if base, ok := next.Base(s.BaseID); ok {
		updated, err := ModifyBase(next, base.ReturnStall())
		if err == nil {
			next = updated
		}
	}
	return next, nil
}

// PerformUpdate credits energy for one timestep at the claimed charger's
// rated power, or at the vehicle's MaxChargeAcceptanceKW when that is set
// and lower.
func (s ChargingBase) PerformUpdate(state *SimulationState, env *Env, vehicleID string) (*SimulationState, error) {
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
func (s ChargingBase) HasReachedTerminalCondition(state *SimulationState, env *Env, vehicleID string) bool {
	vehicle, ok := state.Vehicle(vehicleID)
	if !ok {
		return false
	}
	return vehicle.EnergySource.SoC >= vehicle.EnergySource.IdealLimitSoC()
}

// DefaultTerminalState demotes the vehicle to a plain ReserveBase once
// charged.
func (s ChargingBase) DefaultTerminalState(state *SimulationState, env *Env, vehicleID string) (VehicleState, error) {
	return ReserveBase{BaseID: s.BaseID}, nil
}
