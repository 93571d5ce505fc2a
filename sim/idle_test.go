package sim

import (
	"testing"

	"github.com/hive-sim/hive-sim/sim/geo"
)

func TestIdle_Enter_ResetsDurationCounter(t *testing.T) {
	s := newTestState()
	v := Vehicle{ID: "v1", EnergySource: EnergySource{CapacityKWh: 50, SoC: 0.5}, State: Idle{IdleDurationSeconds: 120}}
	s = mustAddVehicle(t, s, v)

	next, err := (Idle{IdleDurationSeconds: 120}).Enter(s, newTestEnv(), "v1")
	if err != nil {
		t.Fatalf("Enter: %v", err)
	}
	updated, _ := next.Vehicle("v1")
	idle, ok := updated.State.(Idle)
	if !ok {
		t.Fatalf("state is %T, want Idle", updated.State)
	}
	if idle.IdleDurationSeconds != 0 {
		t.Errorf("IdleDurationSeconds = %d, want 0", idle.IdleDurationSeconds)
	}
}

func TestIdle_PerformUpdate_AccumulatesDurationAndDebitsEnergy(t *testing.T) {
	s := newTestState()
	v := Vehicle{ID: "v1", EnergySource: EnergySource{CapacityKWh: 40, SoC: 1.0}, State: Idle{}}
	s = mustAddVehicle(t, s, v)
	env := newTestEnv()
	env.Config.IdleEnergyRateKWhPerHour = 0.8
	s.TimestepDurationSeconds = 3600 // one hour, for easy arithmetic

	next, err := (Idle{}).PerformUpdate(s, env, "v1")
	if err != nil {
		t.Fatalf("PerformUpdate: %v", err)
	}
	updated, _ := next.Vehicle("v1")
	idle := updated.State.(Idle)
	if idle.IdleDurationSeconds != 3600 {
		t.Errorf("IdleDurationSeconds = %d, want 3600", idle.IdleDurationSeconds)
	}
	wantSoC := 1.0 - 0.8/40
	if diff := updated.EnergySource.SoC - wantSoC; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("SoC = %v, want %v", updated.EnergySource.SoC, wantSoC)
	}
}

func TestIdle_HasReachedTerminalCondition_TrueOnlyWhenDepleted(t *testing.T) {
	s := newTestState()
	s = mustAddVehicle(t, s, Vehicle{ID: "full", EnergySource: EnergySource{CapacityKWh: 40, SoC: 0.2}, State: Idle{}})
	s = mustAddVehicle(t, s, Vehicle{ID: "empty", EnergySource: EnergySource{CapacityKWh: 40, SoC: 0}, State: Idle{}})

	if (Idle{}).HasReachedTerminalCondition(s, newTestEnv(), "full") {
		t.Error("expected false for a vehicle with remaining charge")
	}
	if !(Idle{}).HasReachedTerminalCondition(s, newTestEnv(), "empty") {
		t.Error("expected true for a fully depleted vehicle")
	}
}

func TestIdle_DefaultTerminalState_IsOutOfService(t *testing.T) {
	next, err := (Idle{}).DefaultTerminalState(newTestState(), newTestEnv(), "v1")
	if err != nil {
		t.Fatalf("DefaultTerminalState: %v", err)
	}
	if next.Kind() != StateOutOfService {
		t.Errorf("DefaultTerminalState = %v, want OutOfService", next.Kind())
	}
}

func TestUpdateVehicleState_DepletedIdleVehicleFallsToOutOfService(t *testing.T) {
	s := newTestState()
	v := Vehicle{
		ID: "v1",
		EnergySource: EnergySource{CapacityKWh: 40, SoC: 0},
		State: Idle{},
		Position: geo.Position{Lat: 1, Lon: 1},
	}
	s = mustAddVehicle(t, s, v)
	env := newTestEnv()

	next, err := UpdateVehicleState(s, env, "v1")
	if err != nil {
		t.Fatalf("UpdateVehicleState: %v", err)
	}
	updated, _ := next.Vehicle("v1")
	if updated.State.Kind() != StateOutOfService {
		t.Errorf("state = %v, want OutOfService", updated.State.Kind())
	}
}
