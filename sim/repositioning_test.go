package sim

import (
	"testing"

	"github.com/hive-sim/hive-sim/sim/geo"
	"github.com/hive-sim/hive-sim/sim/roadnetwork"
)

func TestRepositioning_PerformUpdate_AdvancesAndDebitsEnergy(t *testing.T) {
	network := roadnetwork.NewHaversineNetwork(60) // 60 km/h == 1km per 60s
	s := NewSimulationState(network, geo.DefaultGrid, 60, 9, 6)
	origin := geo.Position{Lat: 0, Lon: 0}
	dest := geo.Position{Lat: 0, Lon: 0.02} // roughly 2.2km away

	route, err := network.Route(origin, dest)
	if err != nil {
		t.Fatalf("Route: %v", err)
	}

	v := Vehicle{
		ID: "v1",
		Position: origin,
		EnergySource: EnergySource{CapacityKWh: 50, SoC: 1.0},
		State: Repositioning{Route: route},
	}
	s = mustAddVehicle(t, s, v)
	env := newTestEnv()
	env.Config.DriveEnergyKWhPerKm = 0.2

	next, err := (Repositioning{Route: route}).PerformUpdate(s, env, "v1")
	if err != nil {
		t.Fatalf("PerformUpdate: %v", err)
	}
	updated, _ := next.Vehicle("v1")
	if updated.Position == origin {
		t.Error("vehicle did not move")
	}
	if updated.EnergySource.SoC >= 1.0 {
		t.Error("energy was not debited for movement")
	}
	repositioning := updated.State.(Repositioning)
	if len(repositioning.Route) == 0 {
		t.Error("expected a 2.2km route to still have remaining segments after one 1km tick")
	}
}

func TestRepositioning_TerminatesToIdleWhenRouteExhausted(t *testing.T) {
	s := newTestState()
	v := Vehicle{ID: "v1", State: Repositioning{Route: nil}}
	s = mustAddVehicle(t, s, v)
	env := newTestEnv()

	next, err := UpdateVehicleState(s, env, "v1")
	if err != nil {
		t.Fatalf("UpdateVehicleState: %v", err)
	}
	updated, _ := next.Vehicle("v1")
	if updated.State.Kind() != StateIdle {
		t.Errorf("state = %v, want Idle", updated.State.Kind())
	}
}

func TestRepositioning_RouteErrorDemotesToNoMovement(t *testing.T) {
	network := roadnetwork.NewHaversineNetwork(60)
	s := NewSimulationState(network, geo.DefaultGrid, 60, 9, 6)
	badRoute := []roadnetwork.PropertyLink{{
		ID: "missing-link", // never registered with network, so Traverse reports it not found
		Start: geo.Position{Lat: 0, Lon: 0},
		End: geo.Position{Lat: 1, Lon: 1},
		DistanceKm: 100,
		SpeedKmh: 60,
		TravelTimeSeconds: 6000,
	}}
	v := Vehicle{ID: "v1", State: Repositioning{Route: badRoute}}
	s = mustAddVehicle(t, s, v)
	env := newTestEnv()

	next, err := (Repositioning{Route: badRoute}).PerformUpdate(s, env, "v1")
	if err != nil {
		t.Fatalf("PerformUpdate should demote RouteError to nil, got: %v", err)
	}
	updated, _ := next.Vehicle("v1")
	if updated.State.Kind() != StateRepositioning {
		t.Errorf("vehicle state changed on a demoted route error: %v", updated.State.Kind())
	}
}
