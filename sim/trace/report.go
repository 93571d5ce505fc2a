// Package trace defines the append-only event-log records HIVE emits
// and the Handler contract reporters implement. This package has no
// dependency on the simulation kernel — it stores and serializes pure data.
package trace

// ReportType tags the payload shape of a Report.
type ReportType string

const (
	ReportVehicleStateTransition ReportType = "vehicle_state_transition"
	ReportRequestCreated ReportType = "request_created"
	ReportRequestCancelled ReportType = "request_cancelled"
	ReportRequestServiced ReportType = "request_serviced"
	ReportStationLoad ReportType = "station_load"
	ReportTickStats ReportType = "tick_stats"
)

// Report is one record in the append-only event log. Payload is
// type-specific and always JSON-serializable.
type Report struct {
	Type ReportType `json:"report_type"`
	SimTime int64 `json:"sim_time"`
	Payload interface{} `json:"payload"`
}

// VehicleStateTransitionPayload records a vehicle moving from one
// VehicleState to another.
type VehicleStateTransitionPayload struct {
	VehicleID string `json:"vehicle_id"`
	FromState string `json:"from_state"`
	ToState string `json:"to_state"`
}

// RequestLifecyclePayload records request creation, cancellation or
// completion.
type RequestLifecyclePayload struct {
	RequestID string `json:"request_id"`
	VehicleID string `json:"vehicle_id,omitempty"`
	Value float64 `json:"value,omitempty"`
}

// StationLoadPayload is a per-tick aggregate of a station's charger
// occupancy.
type StationLoadPayload struct {
	StationID string `json:"station_id"`
	AvailableStalls int `json:"available_stalls"`
	TotalStalls int `json:"total_stalls"`
}

// TickStatsPayload is a per-tick scalar summary of fleet state.
type TickStatsPayload struct {
	ActiveVehicles int `json:"active_vehicles"`
	UnassignedRequests int `json:"unassigned_requests"`
	VehiclesCharging int `json:"vehicles_charging"`
}

// Handler consumes Reports as the simulation produces them. Concrete
// implementations (e.g. NDJSONHandler) are external collaborators; the
// kernel only depends on this interface.
type Handler interface {
	Handle(r Report) error
	Close() error
}
