package sim

import (
	"testing"

	"github.com/hive-sim/hive-sim/sim/geo"
)

func testStation(id string, availableStalls int) Station {
	return Station{
		ID: id,
		Chargers: map[string]Charger{
			"c1": {ChargerID: "c1", TotalStalls: 2, AvailableStalls: availableStalls, PowerKW: 50},
		},
	}
}

func TestDispatchStation_Enter_SilentAbortWhenStationVanished(t *testing.T) {
	s := newTestState()
	s = mustAddVehicle(t, s, Vehicle{ID: "v1"})
	route := singleLinkRoute(geo.Position{}, geo.Position{Lat: 1, Lon: 1})

	next, err := (DispatchStation{StationID: "missing", Route: route}).Enter(s, newTestEnv(), "v1")
	if err != nil {
		t.Fatalf("expected silent abort, got error: %v", err)
	}
	if next != nil {
		t.Error("expected nil state on silent abort")
	}
}

func TestDispatchStation_Enter_SucceedsWhenAlreadyAtStation(t *testing.T) {
	s := newTestState()
	s = mustAddVehicle(t, s, Vehicle{ID: "v1"})
	s = mustAddStation(t, s, testStation("st1", 1))

	next, err := (DispatchStation{StationID: "st1"}).Enter(s, newTestEnv(), "v1")
	if err != nil {
		t.Fatalf("Enter: %v", err)
	}
	if next == nil {
		t.Fatal("expected Enter to succeed for a co-located (empty-route) dispatch")
	}
	vehicle, ok := next.Vehicle("v1")
	if !ok || vehicle.State.Kind() != StateDispatchStation {
		t.Errorf("vehicle state = %v, want DispatchStation", vehicle.State.Kind())
	}
	if !(DispatchStation{StationID: "st1"}).HasReachedTerminalCondition(next, newTestEnv(), "v1") {
		t.Error("expected terminal condition true immediately for an empty route")
	}
}

func TestDispatchStation_DefaultTerminalState_EntersChargingStationWhenStallAvailable(t *testing.T) {
	s := newTestState()
	s = mustAddStation(t, s, testStation("st1", 1))

	next, err := (DispatchStation{StationID: "st1"}).DefaultTerminalState(s, newTestEnv(), "v1")
	if err != nil {
		t.Fatalf("DefaultTerminalState: %v", err)
	}
	charging, ok := next.(ChargingStation)
	if !ok {
		t.Fatalf("DefaultTerminalState = %T, want ChargingStation", next)
	}
	if charging.StationID != "st1" {
		t.Errorf("StationID = %q, want st1", charging.StationID)
	}
}

func TestDispatchStation_DefaultTerminalState_FallsBackToIdleWhenStationFull(t *testing.T) {
	s := newTestState()
	s = mustAddStation(t, s, testStation("st1", 0))

	next, err := (DispatchStation{StationID: "st1"}).DefaultTerminalState(s, newTestEnv(), "v1")
	if err != nil {
		t.Fatalf("DefaultTerminalState: %v", err)
	}
	if next.Kind() != StateIdle {
		t.Errorf("DefaultTerminalState = %v, want Idle", next.Kind())
	}
}

func TestDispatchStation_DefaultTerminalState_FallsBackToIdleWhenStationGone(t *testing.T) {
	s := newTestState()
	next, err := (DispatchStation{StationID: "missing"}).DefaultTerminalState(s, newTestEnv(), "v1")
	if err != nil {
		t.Fatalf("DefaultTerminalState: %v", err)
	}
	if next.Kind() != StateIdle {
		t.Errorf("DefaultTerminalState = %v, want Idle", next.Kind())
	}
}
