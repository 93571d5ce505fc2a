package sim

import (
	"testing"

	"github.com/hive-sim/hive-sim/sim/geo"
)

func TestServicingTrip_Enter_SilentAbortWhenRequestVanished(t *testing.T) {
	s := newTestState()
	s = mustAddVehicle(t, s, Vehicle{ID: "v1"})

	route := singleLinkRoute(geo.Position{}, geo.Position{Lat: 1, Lon: 1})
	next, err := (ServicingTrip{RequestID: "missing", Route: route}).Enter(s, newTestEnv(), "v1")
	if err != nil {
		t.Fatalf("expected silent abort, got error: %v", err)
	}
	if next != nil {
		t.Error("expected nil state on silent abort")
	}
}

func TestServicingTrip_Enter_SilentAbortWhenNotDispatchedToThisVehicle(t *testing.T) {
	s := newTestState()
	s = mustAddVehicle(t, s, Vehicle{ID: "v1"})
	s = mustAddRequest(t, s, Request{ID: "r1", DispatchedVehicle: "other"})

	route := singleLinkRoute(geo.Position{}, geo.Position{Lat: 1, Lon: 1})
	next, err := (ServicingTrip{RequestID: "r1", Route: route}).Enter(s, newTestEnv(), "v1")
	if err != nil {
		t.Fatalf("expected silent abort, got error: %v", err)
	}
	if next != nil {
		t.Error("expected nil state on silent abort")
	}
}

func TestServicingTrip_Exit_RetiresRequestAndCreditsFare(t *testing.T) {
	s := newTestState()
	s = mustAddVehicle(t, s, Vehicle{ID: "v1"})
	s = mustAddRequest(t, s, Request{ID: "r1", DispatchedVehicle: "v1", Value: 12.5})
	env := newTestEnv()
	metrics := &Metrics{}
	env.Metrics = metrics

	next, err := (ServicingTrip{RequestID: "r1"}).Exit(s, env, "v1")
	if err != nil {
		t.Fatalf("Exit: %v", err)
	}
	if _, ok := next.Request("r1"); ok {
		t.Error("expected request r1 to be retired")
	}
	if metrics.RequestsServiced != 1 {
		t.Errorf("RequestsServiced = %d, want 1", metrics.RequestsServiced)
	}
	if metrics.TotalFareValue != 12.5 {
		t.Errorf("TotalFareValue = %v, want 12.5", metrics.TotalFareValue)
	}
}

func TestServicingTrip_HasReachedTerminalCondition_WhenRouteEmpty(t *testing.T) {
	if !(ServicingTrip{Route: nil}).HasReachedTerminalCondition(newTestState(), newTestEnv(), "v1") {
		t.Error("expected terminal condition true for an empty route")
	}
	route := singleLinkRoute(geo.Position{}, geo.Position{Lat: 1, Lon: 1})
	if (ServicingTrip{Route: route}).HasReachedTerminalCondition(newTestState(), newTestEnv(), "v1") {
		t.Error("expected terminal condition false for a non-empty route")
	}
}

func TestServicingTrip_DefaultTerminalState_IsIdle(t *testing.T) {
	next, err := (ServicingTrip{}).DefaultTerminalState(newTestState(), newTestEnv(), "v1")
	if err != nil {
		t.Fatalf("DefaultTerminalState: %v", err)
	}
	if next.Kind() != StateIdle {
		t.Errorf("DefaultTerminalState = %v, want Idle", next.Kind())
	}
}
