package sim

import (
	"time"

	"github.com/hive-sim/hive-sim/sim/trace"
)

// DispatcherConfig groups the dispatch, charging and base-management
// thresholds recognized by the core. ChargingLowSoCThreshold
// is the single source of truth for "low enough to seek a charger" across
// both the dispatcher and ChargingFleetManager, which reads it from this
// same struct rather than carrying its own copy.
type DispatcherConfig struct {
	MatchingLowSoCThreshold float64 `yaml:"matching_low_soc_threshold"`
	BaseChargingRangeKmThreshold float64 `yaml:"base_charging_range_km_threshold"`
	MatchingRangeKmThreshold float64 `yaml:"matching_range_km_threshold"`
	ValidDispatchStates []VehicleStateKind `yaml:"valid_dispatch_states"`
	ChargingLowSoCThreshold float64 `yaml:"charging_low_soc_threshold"`
	ChargingMaxSearchRadiusKm float64 `yaml:"charging_max_search_radius_km"`
	BaseVehiclesChargingLimit int `yaml:"base_vehicles_charging_limit"`
	UseAssignmentMode bool `yaml:"use_assignment_mode"`

	// BaseReturnIdleSeconds is the "idle beyond a threshold" trigger for
	// BaseManagement: an Idle vehicle whose
	// IdleDurationSeconds exceeds this is routed to its home base.
	BaseReturnIdleSeconds int64 `yaml:"base_return_idle_seconds"`

	// RepositionIdleSeconds gates the Repositioning generator: an Idle
	// vehicle is only a repositioning candidate once it has sat idle at
	// least this long; the behavior is optional -- "may
	// send" -- without a concrete threshold, so zero disables it.
	RepositionIdleSeconds int64 `yaml:"reposition_idle_seconds"`
}

// SimConfig is the single flat configuration record the core recognizes.
// Unspecified keys default via Defaults().
type SimConfig struct {
	TimestepDurationSeconds int64 `yaml:"timestep_duration_seconds"`
	StartTime string `yaml:"start_time"`
	EndTime string `yaml:"end_time"`
	SimH3Resolution int `yaml:"sim_h3_resolution"`
	SimH3SearchResolution int `yaml:"sim_h3_search_resolution"`
	RequestCancelTimeSeconds int64 `yaml:"request_cancel_time_seconds"`
	IdleEnergyRateKWhPerHour float64 `yaml:"idle_energy_rate"`

	// DriveEnergyKWhPerKm is a simplified stand-in for the full mechatronics
	// model that movement states delegate energy debiting to. The
	// mechatronics model itself is loaded from the CSV/YAML fixtures by the
	// (out-of-core) loader, keyed by Vehicle.MechatronicsID; this constant
	// rate is what the core falls back to until a per-mechatronics curve is
	// wired in. It is not a required input -- it defaults sensibly and
	// scenarios may override it.
	DriveEnergyKWhPerKm float64 `yaml:"drive_energy_kwh_per_km"`

	Dispatcher DispatcherConfig `yaml:"dispatcher"`

	Seed int64 `yaml:"seed"`

	// startTimeResolved/endTimeResolved are resolved at load time from
	// StartTime/EndTime: the string-parsed shape is authoritative; a bare
	// integer-seconds string is also accepted.
	startTimeResolved SimTime
	endTimeResolved SimTime
}

// Defaults returns a SimConfig with every default applied.
func Defaults() SimConfig {
	return SimConfig{
		TimestepDurationSeconds: 60,
		StartTime: "0",
		EndTime: "86400",
		SimH3Resolution: 15,
		SimH3SearchResolution: 7,
		RequestCancelTimeSeconds: 600,
		IdleEnergyRateKWhPerHour: 0.8,
		DriveEnergyKWhPerKm: 0.2,
		Dispatcher: DispatcherConfig{
			MatchingLowSoCThreshold: 0.2,
			ChargingLowSoCThreshold: 0.2,
			ChargingMaxSearchRadiusKm: 100,
			ValidDispatchStates: []VehicleStateKind{StateIdle},
			BaseReturnIdleSeconds: 1800,
		},
	}
}

// ResolveTimes parses StartTime/EndTime into SimTime values, accepting
// either a plain integer-seconds string or an RFC3339 timestamp relative to
// its own midnight. Must be called once after loading,
// before the config is used to build an Env.
func (c SimConfig) ResolveTimes() (SimConfig, error) {
	start, err := parseSimTime(c.StartTime)
	if err != nil {
		return c, newStateError("ResolveTimes", "start_time: "+err.Error())
	}
	end, err := parseSimTime(c.EndTime)
	if err != nil {
		return c, newStateError("ResolveTimes", "end_time: "+err.Error())
	}
	c.startTimeResolved = start
	c.endTimeResolved = end
	return c, nil
}

// StartSimTime returns the resolved start time. ResolveTimes must have run.
func (c SimConfig) StartSimTime() SimTime { return c.startTimeResolved }

// EndSimTime returns the resolved end time. ResolveTimes must have run.
func (c SimConfig) EndSimTime() SimTime { return c.endTimeResolved }

func parseSimTime(raw string) (SimTime, error) {
	if raw == "" {
		return 0, nil
	}
	if seconds, ok := parseInt64(raw); ok {
		return SimTime(seconds), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return 0, err
	}
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return SimTime(int64(t.Sub(midnight).Seconds())), nil
}

func parseInt64(raw string) (int64, bool) {
	var n int64
	neg := false
	i := 0
	if len(raw) > 0 && raw[0] == '-' {
		neg = true
		i = 1
	}
	if i == len(raw) {
		return 0, false
	}
	for ; i < len(raw); i++ {
		c := raw[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int64(c-'0')
	}
	if neg {
		n = -n
	}
	return n, true
}

// Env bundles the run's non-state collaborators: the resolved config, the
// partitioned RNG, and the report/decision-trace sinks. It is passed
// alongside *SimulationState to every op, generator, and VehicleState
// method, matching the `(sim, env)` pairing used throughout the core.
// The road network and spatial indices are not here -- SimulationState
// holds them instead (state.go).
type Env struct {
	Config SimConfig
	RNG *PartitionedRNG
	Reports trace.Handler
	Decisions *trace.DecisionTrace
	Metrics *Metrics
}
