package policy

import "github.com/hive-sim/hive-sim/sim"

// BaseManagement routes vehicles that have been Idle beyond
// DispatcherConfig.BaseReturnIdleSeconds back to their home base. The
// simultaneous-base-charging cap (base_vehicles_charging_limit) is enforced
// where the vehicle actually
// claims a charging stall, in ChargingBase.Enter, not here: BaseManagement
// only decides who should head toward a base, not who gets to charge once
// there.
type BaseManagement struct{}

func (b BaseManagement) Run(s *sim.SimulationState, env *sim.Env) (sim.Generator, []sim.Instruction, error) {
	threshold := env.Config.Dispatcher.BaseReturnIdleSeconds
	if threshold <= 0 {
		return b, nil, nil
	}

	overdue := s.GetVehicles(sim.VehicleQuery{
		Filter: func(v sim.Vehicle) bool {
			if v.HomeBaseID == "" {
				return false
			}
			idle, ok := v.State.(sim.Idle)
			if !ok {
				return false
			}
			return idle.IdleDurationSeconds >= threshold
		},
	})
	if len(overdue) == 0 {
		return b, nil, nil
	}

	var instructions []sim.Instruction
	for _, v := range overdue {
		base, ok := s.Base(v.HomeBaseID)
		if !ok {
			continue
		}
		// A nil route with no error means v is already at the base -- still
		// a valid dispatch, not a routing failure.
		route, err := s.RoadNetwork.Route(v.Position, base.Position)
		if err != nil {
			continue
		}
		instructions = append(instructions, sim.Instruction{
			VehicleID: v.ID,
			Next: sim.DispatchBase{BaseID: v.HomeBaseID, Route: route},
			Source: "BaseManagement",
		})
	}
	return b, instructions, nil
}
