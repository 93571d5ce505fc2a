package policy

import (
	"sort"

	"github.com/hive-sim/hive-sim/sim"
	"github.com/hive-sim/hive-sim/sim/geo"
)

// Repositioning optionally sends long-idle vehicles toward predicted-demand
// cells. CellWeights carries the demand forecast -- loaded by the
// scenario loader from the "demand forecast" CSV fixture and handed to the
// generator at construction -- as a relative weight per geo cell; a nil or
// empty forecast makes Run a no-op, since repositioning is explicitly
// optional.
type Repositioning struct {
	CellWeights map[geo.GeoId]float64
}

func (r Repositioning) Run(s *sim.SimulationState, env *sim.Env) (sim.Generator, []sim.Instruction, error) {
	if len(r.CellWeights) == 0 {
		return r, nil, nil
	}
	threshold := env.Config.Dispatcher.RepositionIdleSeconds
	if threshold <= 0 {
		return r, nil, nil
	}

	candidates := s.GetVehicles(sim.VehicleQuery{
		Filter: func(v sim.Vehicle) bool {
			idle, ok := v.State.(sim.Idle)
			return ok && idle.IdleDurationSeconds >= threshold
		},
	})
	if len(candidates) == 0 {
		return r, nil, nil
	}

	rng := env.RNG.ForSubsystem("repositioning")
	var instructions []sim.Instruction
	for _, v := range candidates {
		target, ok := r.sampleCell(rng.Float64())
		if !ok {
			continue
		}
		destination, err := s.Grid.Centroid(target)
		if err != nil {
			continue
		}
		// A nil route with no error means v is already in the target cell --
		// still a valid dispatch, not a routing failure.
		route, err := s.RoadNetwork.Route(v.Position, destination)
		if err != nil {
			continue
		}
		instructions = append(instructions, sim.Instruction{
			VehicleID: v.ID,
			Next: sim.Repositioning{Route: route},
			Source: "Repositioning",
		})
	}
	return r, instructions, nil
}

// sampleCell picks a cell by weight using draw in [0,1), iterating cells in
// a fixed (sorted) order so the same draw always picks the same cell.
func (r Repositioning) sampleCell(draw float64) (geo.GeoId, bool) {
	cells := make([]geo.GeoId, 0, len(r.CellWeights))
	total := 0.0
	for id, w := range r.CellWeights {
		if w <= 0 {
			continue
		}
		cells = append(cells, id)
		total += w
	}
	if total <= 0 {
		return "", false
	}
	sort.Slice(cells, func(i, j int) bool { return cells[i] < cells[j] })

	target := draw * total
	cumulative := 0.0
	for _, id := range cells {
		cumulative += r.CellWeights[id]
		if target < cumulative {
			return id, true
		}
	}
	return cells[len(cells)-1], true
}
