package policy

import "github.com/hive-sim/hive-sim/sim"

// ChargingFleetManager routes low-SoC vehicles to the nearest station with
// a free stall, within a configured search radius. It is
// stateless across ticks: Run always returns itself unchanged.
type ChargingFleetManager struct{}

func (c ChargingFleetManager) Run(s *sim.SimulationState, env *sim.Env) (sim.Generator, []sim.Instruction, error) {
	cfg := env.Config.Dispatcher

	lowSoC := s.GetVehicles(sim.VehicleQuery{
		Filter: func(v sim.Vehicle) bool {
			if v.State.Kind() != sim.StateIdle {
				return false
			}
			return v.EnergySource.SoC < cfg.ChargingLowSoCThreshold
		},
	})
	if len(lowSoC) == 0 {
		return c, nil, nil
	}

	var instructions []sim.Instruction
	for _, v := range lowSoC {
		stationID, found := s.StationIndex.NearestEntity(v.Position, cfg.ChargingMaxSearchRadiusKm, func(id string) bool {
			station, ok := s.Station(id)
			return ok && station.AvailableStalls() > 0
		})
		if !found {
			continue
		}
		station, ok := s.Station(stationID)
		if !ok {
			continue
		}
		// A nil route with no error means v is already at the station --
		// still a valid dispatch, not a routing failure.
		route, err := s.RoadNetwork.Route(v.Position, station.Position)
		if err != nil {
			continue
		}
		instructions = append(instructions, sim.Instruction{
			VehicleID: v.ID,
			Next: sim.DispatchStation{StationID: stationID, Route: route},
			Source: "ChargingFleetManager",
		})
	}
	return c, instructions, nil
}
