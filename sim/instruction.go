package sim

// Instruction is a declarative request to transition one vehicle into one
// next state, with its parameters already bound: route precomputed against
// the current road network, target id(s) bound. Generators
// emit these; ApplyInstructions turns them into state-machine transitions.
type Instruction struct {
	VehicleID string
	Next VehicleState
	Source string // name of the generator that emitted this instruction, for tracing
}

// InstructionResult records the outcome of applying one Instruction.
type InstructionResult struct {
	VehicleID string
	Applied bool
	Err error
}

// ApplyInstructions resolves conflicting instructions for the same vehicle
// within one tick (last one wins, per generator ordering), then applies each
// surviving instruction in the order its vehicle first appeared. A hard
// error on one vehicle is isolated to that vehicle and does not block or
// corrupt any other.
func ApplyInstructions(s *SimulationState, env *Env, instructions []Instruction) (*SimulationState, []InstructionResult) {
	winner := make(map[string]Instruction, len(instructions))
	order := make([]string, 0, len(instructions))
	for _, instr := range instructions {
		if _, exists := winner[instr.VehicleID]; !exists {
			order = append(order, instr.VehicleID)
		}
		winner[instr.VehicleID] = instr
	}

	results := make([]InstructionResult, 0, len(order))
	current := s
	for _, vehicleID := range order {
		instr := winner[vehicleID]
		next, applied, err := ApplyInstruction(current, env, vehicleID, instr.Next)
		current = next
		results = append(results, InstructionResult{VehicleID: vehicleID, Applied: applied, Err: err})
	}
	return current, results
}
