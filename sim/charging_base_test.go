package sim

import "testing"

func testBaseWithStation(id, stationID string, availableStalls int) Base {
	return Base{ID: id, TotalStalls: 2, AvailableStalls: availableStalls, StationID: stationID}
}

func TestChargingBase_Enter_ClaimsBothBaseAndChargerStalls(t *testing.T) {
	s := newTestState()
	s = mustAddVehicle(t, s, Vehicle{ID: "v1"})
	s = mustAddBase(t, s, testBaseWithStation("b1", "st1", 2))
	s = mustAddStation(t, s, testStation("st1", 2))

	next, err := (ChargingBase{BaseID: "b1", ChargerID: "c1"}).Enter(s, newTestEnv(), "v1")
	if err != nil {
		t.Fatalf("Enter: %v", err)
	}
	base, _ := next.Base("b1")
	if base.AvailableStalls != 1 {
		t.Errorf("base AvailableStalls = %d, want 1", base.AvailableStalls)
	}
	station, _ := next.Station("st1")
	if station.Chargers["c1"].AvailableStalls != 1 {
		t.Errorf("charger AvailableStalls = %d, want 1", station.Chargers["c1"].AvailableStalls)
	}
	vehicle, _ := next.Vehicle("v1")
	charging := vehicle.State.(ChargingBase)
	if charging.StationID != "st1" || charging.ChargerID != "c1" {
		t.Errorf("unexpected ChargingBase: %+v", charging)
	}
}

func TestChargingBase_Enter_SilentAbortWhenNoCoLocatedStation(t *testing.T) {
	s := newTestState()
	s = mustAddVehicle(t, s, Vehicle{ID: "v1"})
	s = mustAddBase(t, s, testBase("b1", 2))

	next, err := (ChargingBase{BaseID: "b1"}).Enter(s, newTestEnv(), "v1")
	if err != nil {
		t.Fatalf("expected silent abort, got error: %v", err)
	}
	if next != nil {
		t.Error("expected nil state on silent abort")
	}
}

func TestChargingBase_Enter_SilentAbortWhenBaseChargingLimitReached(t *testing.T) {
	s := newTestState()
	s = mustAddVehicle(t, s, Vehicle{ID: "already-charging", State: ChargingBase{BaseID: "b1"}})
	s = mustAddVehicle(t, s, Vehicle{ID: "v1"})
	s = mustAddBase(t, s, testBaseWithStation("b1", "st1", 2))
	s = mustAddStation(t, s, testStation("st1", 2))

	env := newTestEnv()
	env.Config.Dispatcher.BaseVehiclesChargingLimit = 1

	next, err := (ChargingBase{BaseID: "b1"}).Enter(s, env, "v1")
	if err != nil {
		t.Fatalf("expected silent abort, got error: %v", err)
	}
	if next != nil {
		t.Error("expected nil state on silent abort when the base charging limit is reached")
	}
}

func TestChargingBase_Exit_ReturnsBothStalls(t *testing.T) {
	s := newTestState()
	s = mustAddBase(t, s, testBaseWithStation("b1", "st1", 1))
	s = mustAddStation(t, s, testStation("st1", 1))

	next, err := (ChargingBase{BaseID: "b1", StationID: "st1", ChargerID: "c1"}).Exit(s, newTestEnv(), "v1")
	if err != nil {
		t.Fatalf("Exit: %v", err)
	}
	base, _ := next.Base("b1")
	if base.AvailableStalls != 2 {
		t.Errorf("base AvailableStalls = %d, want 2", base.AvailableStalls)
	}
	station, _ := next.Station("st1")
	if station.Chargers["c1"].AvailableStalls != 2 {
		t.Errorf("charger AvailableStalls = %d, want 2", station.Chargers["c1"].AvailableStalls)
	}
}

func TestChargingBase_DefaultTerminalState_DemotesToReserveBase(t *testing.T) {
	next, err := (ChargingBase{BaseID: "b1"}).DefaultTerminalState(newTestState(), newTestEnv(), "v1")
	if err != nil {
		t.Fatalf("DefaultTerminalState: %v", err)
	}
	reserve, ok := next.(ReserveBase)
	if !ok {
		t.Fatalf("DefaultTerminalState = %T, want ReserveBase", next)
	}
	if reserve.BaseID != "b1" {
		t.Errorf("BaseID = %q, want b1", reserve.BaseID)
	}
}
