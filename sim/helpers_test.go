package sim

import (
	"github.com/hive-sim/hive-sim/sim/geo"
	"github.com/hive-sim/hive-sim/sim/roadnetwork"
)

// newTestState builds an empty SimulationState over a 60km/h Haversine
// network at HIVE's default resolutions, for use by this package's
// VehicleState/ops/step unit tests.
func newTestState() *SimulationState {
	network := roadnetwork.NewHaversineNetwork(60)
	return NewSimulationState(network, geo.DefaultGrid, 60, 9, 6)
}

// newTestEnv builds an Env with defaulted config, a fresh RNG and no
// report/decision sinks -- enough for unit tests that don't exercise
// tracing.
func newTestEnv() *Env {
	cfg := Defaults()
	return &Env{
		Config: cfg,
		RNG: NewPartitionedRNG(NewSimulationKey(42)),
	}
}

// mustAddVehicle adds v to s and fails the calling test on error.
func mustAddVehicle(t testingT, s *SimulationState, v Vehicle) *SimulationState {
	t.Helper()
	next, err := AddVehicle(s, v)
	if err != nil {
		t.Fatalf("AddVehicle(%s): %v", v.ID, err)
	}
	return next
}

func mustAddRequest(t testingT, s *SimulationState, r Request) *SimulationState {
	t.Helper()
	next, err := AddRequest(s, r)
	if err != nil {
		t.Fatalf("AddRequest(%s): %v", r.ID, err)
	}
	return next
}

func mustAddStation(t testingT, s *SimulationState, st Station) *SimulationState {
	t.Helper()
	next, err := AddStation(s, st)
	if err != nil {
		t.Fatalf("AddStation(%s): %v", st.ID, err)
	}
	return next
}

func mustAddBase(t testingT, s *SimulationState, b Base) *SimulationState {
	t.Helper()
	next, err := AddBase(s, b)
	if err != nil {
		t.Fatalf("AddBase(%s): %v", b.ID, err)
	}
	return next
}

// testingT is the subset of *testing.T these helpers need, so they can be
// shared without importing "testing" directly into every call site's
// signature churn.
type testingT interface {
	Helper()
	Fatalf(format string, args...any)
}
