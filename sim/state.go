package sim

import (
	"github.com/hive-sim/hive-sim/sim/geo"
	"github.com/hive-sim/hive-sim/sim/geoindex"
	"github.com/hive-sim/hive-sim/sim/roadnetwork"
)

// SimulationState is the immutable container holding the simulation's
// entire world: a road network, the clock, the two h3 resolutions, four
// entity maps, four deterministic id iterators, and the spatial indices
// (one geoindex.Index per entity kind; each Index already holds both the
// fine "locations" map and the coarse "search" map internally, so four
// Index values carry eight location/search indices in total).
//
// Every field is read-only from the outside: all mutation goes through
// ops.go, which returns a new *SimulationState rather than editing this
// one. Containers are implemented as clone-on-write plain maps, since no
// persistent-map library was found among the example repos searched for
// this port.
type SimulationState struct {
	RoadNetwork roadnetwork.RoadNetwork
	Grid geo.HexGrid
	SimTime SimTime
	TimestepDurationSeconds int64
	H3LocationResolution int
	H3SearchResolution int

	vehicles map[string]Vehicle
	requests map[string]Request
	stations map[string]Station
	bases map[string]Base

	vehicleIDs []string
	requestIDs []string
	stationIDs []string
	baseIDs []string

	VehicleIndex *geoindex.Index
	RequestIndex *geoindex.Index
	StationIndex *geoindex.Index
	BaseIndex *geoindex.Index
}

// NewSimulationState builds an empty SimulationState with the given road
// network, hex grid, and h3 resolutions. Entities are added via ops.go's
// Add* ops.
func NewSimulationState(network roadnetwork.RoadNetwork, grid geo.HexGrid, timestepDurationSeconds int64, locationRes, searchRes int) *SimulationState {
	if grid == nil {
		grid = geo.DefaultGrid
	}
	return &SimulationState{
		RoadNetwork: network,
		Grid: grid,
		TimestepDurationSeconds: timestepDurationSeconds,
		H3LocationResolution: locationRes,
		H3SearchResolution: searchRes,
		vehicles: map[string]Vehicle{},
		requests: map[string]Request{},
		stations: map[string]Station{},
		bases: map[string]Base{},
		VehicleIndex: geoindex.New(grid, locationRes, searchRes),
		RequestIndex: geoindex.New(grid, locationRes, searchRes),
		StationIndex: geoindex.New(grid, locationRes, searchRes),
		BaseIndex: geoindex.New(grid, locationRes, searchRes),
	}
}

// clone performs a shallow copy of s, sharing entity maps and id slices
// with the original (callers that mutate must replace, not edit, those
// fields via the clone*Map helpers in ops.go -- this is the clone-on-write
// convention used throughout ops.go).
func (s *SimulationState) clone() *SimulationState {
	next := *s
	return &next
}

// Vehicle looks up a vehicle by id.
func (s *SimulationState) Vehicle(id string) (Vehicle, bool) {
	v, ok := s.vehicles[id]
	return v, ok
}

// Request looks up a request by id.
func (s *SimulationState) Request(id string) (Request, bool) {
	r, ok := s.requests[id]
	return r, ok
}

// Station looks up a station by id.
func (s *SimulationState) Station(id string) (Station, bool) {
	st, ok := s.stations[id]
	return st, ok
}

// Base looks up a base by id.
func (s *SimulationState) Base(id string) (Base, bool) {
	b, ok := s.bases[id]
	return b, ok
}

// VehicleIDs returns the deterministic vehicle iterator (insertion order).
func (s *SimulationState) VehicleIDs() []string { return s.vehicleIDs }

// RequestIDs returns the deterministic request iterator (insertion order).
func (s *SimulationState) RequestIDs() []string { return s.requestIDs }

// StationIDs returns the deterministic station iterator (insertion order).
func (s *SimulationState) StationIDs() []string { return s.stationIDs }

// BaseIDs returns the deterministic base iterator (insertion order).
func (s *SimulationState) BaseIDs() []string { return s.baseIDs }

// AdvanceTime returns a copy of s with SimTime advanced by one timestep.
func (s *SimulationState) AdvanceTime() *SimulationState {
	next := s.clone()
	next.SimTime = s.SimTime.Add(s.TimestepDurationSeconds)
	return next
}
