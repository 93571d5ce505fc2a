// Package sim provides the core discrete-event simulation engine for HIVE,
// an agent-based simulator of electrified ride-hail fleets.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
// - entities.go: Vehicle, Request, Base, Station and their value-type fields
// - vehiclestate.go: the VehicleState interface and its terminal-condition contract
// - state.go: SimulationState, the immutable container of entity maps,
// spatial indices and the clock
// - ops.go: the Add/Modify/Remove transactional state transformers
// - step.go: the per-tick loop — refresh requests, run generators, apply
// instructions, advance every vehicle's state
//
// # Architecture
//
// The sim package defines the kernel: entities, state, ops, the tick loop, and
// the VehicleState/Generator interfaces. Implementations that plug into those
// interfaces live in sub-packages:
// - sim/geo/: positions and hex grids (a self-contained axial grid by
// default, an optional h3-backed one)
// - sim/geoindex/: the spatial index each entity kind is kept in for
// radius-bounded nearest-neighbor queries
// - sim/roadnetwork/: the RoadNetwork interface, its haversine
// implementation, and PropertyLink route traversal
// - sim/assignment/: greedy and minimum-cost bipartite vehicle-request assignment
// - sim/policy/: the InstructionGenerators (Dispatcher, ChargingFleetManager,
// BaseManagement, Repositioning)
// - sim/trace/: decision trace and NDJSON report recording
//
// # Key Interfaces
//
// The extension points are single-method or small interfaces:
// - VehicleState: Kind/Enter/Exit/PerformUpdate/HasReachedTerminalCondition/
// DefaultTerminalState for each vehicle-state variant (idle, dispatch,
// servicing a trip, charging, repositioning, out of service, ...)
// - Generator: Run(state, env) selects instructions for a class of vehicles
// and returns the next Generator to run in its place
// - RoadNetwork: Route(origin, destination) for any transport provider
// - trace.Handler: consumes Reports as the simulation produces them
package sim
