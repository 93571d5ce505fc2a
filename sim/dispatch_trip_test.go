package sim

import (
	"testing"

	"github.com/hive-sim/hive-sim/sim/geo"
	"github.com/hive-sim/hive-sim/sim/roadnetwork"
)

func singleLinkRoute(start, end geo.Position) []roadnetwork.PropertyLink {
	return []roadnetwork.PropertyLink{{
		ID: roadnetwork.LinkID("test-link"),
		Start: start,
		End: end,
		DistanceKm: geo.HaversineKm(start, end),
		SpeedKmh: 60,
		TravelTimeSeconds: 60,
	}}
}

func TestDispatchTrip_Enter_MarksRequestDispatched(t *testing.T) {
	s := newTestState()
	origin := geo.Position{Lat: 0, Lon: 0}
	s = mustAddVehicle(t, s, Vehicle{ID: "v1", Position: origin})
	s = mustAddRequest(t, s, Request{ID: "r1", Origin: origin, Destination: geo.Position{Lat: 1, Lon: 1}, Value: 10})

	route := singleLinkRoute(origin, geo.Position{Lat: 0.01, Lon: 0.01})
	next, err := (DispatchTrip{RequestID: "r1", Route: route}).Enter(s, newTestEnv(), "v1")
	if err != nil {
		t.Fatalf("Enter: %v", err)
	}
	request, _ := next.Request("r1")
	if request.DispatchedVehicle != "v1" {
		t.Errorf("DispatchedVehicle = %q, want v1", request.DispatchedVehicle)
	}
	vehicle, _ := next.Vehicle("v1")
	if vehicle.State.Kind() != StateDispatchTrip {
		t.Errorf("vehicle state = %v, want DispatchTrip", vehicle.State.Kind())
	}
}

func TestDispatchTrip_Enter_SilentAbortWhenRequestAlreadyClaimed(t *testing.T) {
	s := newTestState()
	s = mustAddVehicle(t, s, Vehicle{ID: "v1"})
	s = mustAddRequest(t, s, Request{ID: "r1", DispatchedVehicle: "other"})

	route := singleLinkRoute(geo.Position{}, geo.Position{Lat: 1, Lon: 1})
	next, err := (DispatchTrip{RequestID: "r1", Route: route}).Enter(s, newTestEnv(), "v1")
	if err != nil {
		t.Fatalf("expected silent abort, got error: %v", err)
	}
	if next != nil {
		t.Error("expected nil state on silent abort")
	}
}

func TestDispatchTrip_Enter_SilentAbortWhenRequestVanished(t *testing.T) {
	s := newTestState()
	s = mustAddVehicle(t, s, Vehicle{ID: "v1"})

	route := singleLinkRoute(geo.Position{}, geo.Position{Lat: 1, Lon: 1})
	next, err := (DispatchTrip{RequestID: "missing", Route: route}).Enter(s, newTestEnv(), "v1")
	if err != nil {
		t.Fatalf("expected silent abort, got error: %v", err)
	}
	if next != nil {
		t.Error("expected nil state on silent abort")
	}
}

func TestDispatchTrip_Enter_SucceedsWhenAlreadyAtPickup(t *testing.T) {
	s := newTestState()
	s = mustAddVehicle(t, s, Vehicle{ID: "v1"})
	s = mustAddRequest(t, s, Request{ID: "r1"})

	next, err := (DispatchTrip{RequestID: "r1"}).Enter(s, newTestEnv(), "v1")
	if err != nil {
		t.Fatalf("Enter: %v", err)
	}
	if next == nil {
		t.Fatal("expected Enter to succeed for a co-located (empty-route) dispatch")
	}
	vehicle, ok := next.Vehicle("v1")
	if !ok || vehicle.State.Kind() != StateDispatchTrip {
		t.Errorf("vehicle state = %v, want DispatchTrip", vehicle.State.Kind())
	}
	if !(DispatchTrip{RequestID: "r1"}).HasReachedTerminalCondition(next, newTestEnv(), "v1") {
		t.Error("expected terminal condition true immediately for an empty route")
	}
}

func TestDispatchTrip_DefaultTerminalState_EntersServicingTripWhenCoLocated(t *testing.T) {
	s := newTestState()
	origin := geo.Position{Lat: 0, Lon: 0}
	dest := geo.Position{Lat: 1, Lon: 1}
	originGeoID := s.Grid.CellAt(origin, s.H3LocationResolution)

	s = mustAddVehicle(t, s, Vehicle{ID: "v1", Position: origin, GeoID: originGeoID})
	s = mustAddRequest(t, s, Request{ID: "r1", Origin: origin, Destination: dest, OriginGeoID: originGeoID, Passengers: 2})

	next, err := (DispatchTrip{RequestID: "r1"}).DefaultTerminalState(s, newTestEnv(), "v1")
	if err != nil {
		t.Fatalf("DefaultTerminalState: %v", err)
	}
	servicing, ok := next.(ServicingTrip)
	if !ok {
		t.Fatalf("DefaultTerminalState = %T, want ServicingTrip", next)
	}
	if servicing.RequestID != "r1" || servicing.Passengers != 2 {
		t.Errorf("unexpected ServicingTrip: %+v", servicing)
	}
}

func TestDispatchTrip_DefaultTerminalState_ErrorsWhenNotCoLocated(t *testing.T) {
	s := newTestState()
	origin := geo.Position{Lat: 0, Lon: 0}
	far := geo.Position{Lat: 40, Lon: 40}
	s = mustAddVehicle(t, s, Vehicle{ID: "v1", Position: origin, GeoID: s.Grid.CellAt(origin, s.H3LocationResolution)})
	s = mustAddRequest(t, s, Request{ID: "r1", Origin: far, OriginGeoID: s.Grid.CellAt(far, s.H3LocationResolution)})

	next, err := (DispatchTrip{RequestID: "r1"}).DefaultTerminalState(s, newTestEnv(), "v1")
	if err == nil {
		t.Fatalf("DefaultTerminalState = %v, <nil>, want a hard failure for a non-co-located vehicle", next)
	}
	if next != nil {
		t.Errorf("DefaultTerminalState returned %v alongside an error, want nil", next)
	}
}

func TestDispatchTrip_DefaultTerminalState_FallsBackToIdleWhenRequestGone(t *testing.T) {
	s := newTestState()
	s = mustAddVehicle(t, s, Vehicle{ID: "v1"})

	next, err := (DispatchTrip{RequestID: "missing"}).DefaultTerminalState(s, newTestEnv(), "v1")
	if err != nil {
		t.Fatalf("DefaultTerminalState: %v", err)
	}
	if next.Kind() != StateIdle {
		t.Errorf("DefaultTerminalState = %v, want Idle", next.Kind())
	}
}
