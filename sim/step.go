package sim

import "github.com/sirupsen/logrus"

// Generator is the contract every InstructionGenerator satisfies: a pure
// function of the current state that returns an updated copy
// of itself (generators may be stateful, e.g. running counters) plus the
// instructions it emits this tick. sim/policy implements this interface
// against concrete dispatch/charging/repositioning/base-management
// generators; this package only depends on the interface, avoiding an
// import cycle with sim/policy (which imports sim).
type Generator interface {
	Run(s *SimulationState, env *Env) (Generator, []Instruction, error)
}

// UpdateRequests is tick phase 1:
// cancel requests whose cancel_time has elapsed and that have not yet been
// dispatched. Requests whose departure_time has not yet arrived remain in
// the entity map untouched -- generators are responsible for excluding them
// from dispatch by checking DepartureTime against sim_time.
func UpdateRequests(s *SimulationState, env *Env) (*SimulationState, error) {
	expired := s.GetRequests(RequestQuery{Filter: func(r Request) bool {
		return !r.IsDispatched() && s.SimTime.AtOrAfter(r.CancelTime)
	}})

	next := s
	for _, r := range expired {
		removed, err := RemoveRequest(next, r.ID)
		if err != nil {
			logrus.Warnf("[step] update_requests: failed to cancel request %s: %v", r.ID, err)
			continue
		}
		next = removed
		if env.Metrics != nil {
			env.Metrics.RecordRequestCancelled()
		}
	}
	return next, nil
}

// RunGenerators is tick phases 2-3: run every
// generator in priority order against the (unmodified) state, collecting
// each generator's instructions and its updated copy.
func RunGenerators(s *SimulationState, env *Env, gens []Generator) ([]Generator, []Instruction, error) {
	updated := make([]Generator, len(gens))
	var instructions []Instruction
	for i, g := range gens {
		nextGen, emitted, err := g.Run(s, env)
		if err != nil {
			return gens, nil, err
		}
		if nextGen == nil {
			nextGen = g
		}
		updated[i] = nextGen
		instructions = append(instructions, emitted...)
	}
	return updated, instructions, nil
}

// StepVehicle advances a single vehicle's state for one tick (exposed for
// tests). A hard failure is logged and isolated to this vehicle -- it
// never corrupts any other vehicle's state within the tick.
func StepVehicle(s *SimulationState, env *Env, vehicleID string) (*SimulationState, error) {
	next, err := UpdateVehicleState(s, env, vehicleID)
	if err != nil {
		logrus.Warnf("[step] vehicle %s: %v", vehicleID, err)
		return s, nil
	}
	return next, nil
}

// StepVehicles is tick phase 4:
// walk the vehicle iterator in insertion order and advance each vehicle's
// state by one tick.
func StepVehicles(s *SimulationState, env *Env) (*SimulationState, error) {
	next := s
	for _, id := range s.VehicleIDs() {
		stepped, err := StepVehicle(next, env, id)
		if err != nil {
			return next, err
		}
		next = stepped
	}
	return next, nil
}

// Step runs the full five-phase tick:
//
//	sim = update_requests(sim, env)
//	sim, gens = run_generators(sim, env, gens)
//	sim = apply_instructions(sim, env, instructions)
//	sim = step_vehicles(sim, env)
//	sim = sim.advance_time()
//
// It returns the new state, the generators' updated copies, and the
// instruction-application results (useful for reporting/tracing).
func Step(s *SimulationState, env *Env, gens []Generator) (*SimulationState, []Generator, []InstructionResult, error) {
	next, err := UpdateRequests(s, env)
	if err != nil {
		return s, gens, nil, err
	}

	updatedGens, instructions, err := RunGenerators(next, env, gens)
	if err != nil {
		return s, gens, nil, err
	}

	next, results := ApplyInstructions(next, env, instructions)

	next, err = StepVehicles(next, env)
	if err != nil {
		return next, updatedGens, results, err
	}

	next = next.AdvanceTime()

	if env.Metrics != nil {
		env.Metrics.RecordTick(next)
	}

	logrus.Debugf("[step] sim_time=%d vehicles=%d requests=%d instructions=%d",
		next.SimTime, len(next.VehicleIDs()), len(next.RequestIDs()), len(instructions))

	return next, updatedGens, results, nil
}

// Run drives Step from the state's current sim_time up to (but not
// including) endTime: the simulation terminates when
// sim_time >= end_time_seconds.
func Run(s *SimulationState, env *Env, gens []Generator, endTime SimTime) (*SimulationState, error) {
	next := s
	for next.SimTime.Before(endTime) {
		stepped, updatedGens, _, err := Step(next, env, gens)
		if err != nil {
			logrus.Warnf("[step] tick at sim_time=%d returned error: %v", next.SimTime, err)
			return next, err
		}
		next = stepped
		gens = updatedGens
	}
	logrus.Infof("[step] run complete: sim_time=%d", next.SimTime)
	return next, nil
}
