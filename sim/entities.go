package sim

import (
	"sort"

	"github.com/hive-sim/hive-sim/sim/geo"
)

// EnergyType distinguishes how an EnergySource is refilled.
type EnergyType string

const (
	EnergyTypeBattery EnergyType = "battery"
	EnergyTypeGasoline EnergyType = "gasoline"
)

// EnergySource is a vehicle's fuel tank or battery pack. Value type: every
// mutation returns a new EnergySource.
type EnergySource struct {
	EnergyType EnergyType
	CapacityKWh float64
	SoC float64 // state of charge, in [0,1]
	IdealEnergyLimitKWh float64
	MaxChargeAcceptanceKW float64
}

// WithSoC returns a copy of e with SoC replaced, clamped to [0,1].
func (e EnergySource) WithSoC(soc float64) EnergySource {
	if soc < 0 {
		soc = 0
	}
	if soc > 1 {
		soc = 1
	}
	e.SoC = soc
	return e
}

// EnergyKWh returns the energy currently stored.
func (e EnergySource) EnergyKWh() float64 {
	return e.SoC * e.CapacityKWh
}

// IdealLimitSoC returns the SoC corresponding to IdealEnergyLimitKWh.
func (e EnergySource) IdealLimitSoC() float64 {
	if e.CapacityKWh <= 0 {
		return 1
	}
	return e.IdealEnergyLimitKWh / e.CapacityKWh
}

// DebitKWh returns a copy of e with kWh of energy consumed (SoC reduced),
// floored at 0.
func (e EnergySource) DebitKWh(kWh float64) EnergySource {
	if e.CapacityKWh <= 0 {
		return e
	}
	return e.WithSoC(e.SoC - kWh/e.CapacityKWh)
}

// CreditKWh returns a copy of e with kWh of energy added (SoC increased),
// capped at 1.
func (e EnergySource) CreditKWh(kWh float64) EnergySource {
	if e.CapacityKWh <= 0 {
		return e
	}
	return e.WithSoC(e.SoC + kWh/e.CapacityKWh)
}

// Vehicle is an agent in the fleet. Value type with a current VehicleState
// sum-type variant (see vehiclestate.go) and a derived GeoId.
type Vehicle struct {
	ID string
	EnergySource EnergySource
	State VehicleState
	Membership Membership
	HomeBaseID string // optional; empty if this vehicle has no home base
	MechatronicsID string
	Position geo.Position
	GeoID geo.GeoId
}

// WithState returns a copy of v with its state replaced.
func (v Vehicle) WithState(s VehicleState) Vehicle {
	v.State = s
	return v
}

// WithPosition returns a copy of v with its position (and derived geoid)
// replaced.
func (v Vehicle) WithPosition(pos geo.Position, id geo.GeoId) Vehicle {
	v.Position = pos
	v.GeoID = id
	return v
}

// WithEnergySource returns a copy of v with its energy source replaced.
func (v Vehicle) WithEnergySource(e EnergySource) Vehicle {
	v.EnergySource = e
	return v
}

// Request is a trip request. Value type; `DispatchedVehicle` is a
// relation (an id), never an owning pointer.
type Request struct {
	ID string
	Origin geo.Position
	Destination geo.Position
	OriginGeoID geo.GeoId
	DepartureTime SimTime
	CancelTime SimTime
	Passengers int
	Value float64
	Membership Membership
	DispatchedVehicle string // empty if unassigned
	DispatchedVehicleTime SimTime
}

// IsDispatched reports whether this request has a vehicle assigned.
func (r Request) IsDispatched() bool {
	return r.DispatchedVehicle != ""
}

// WithDispatchedVehicle returns a copy of r recording vehicleID as the
// assigned vehicle at simTime.
func (r Request) WithDispatchedVehicle(vehicleID string, simTime SimTime) Request {
	r.DispatchedVehicle = vehicleID
	r.DispatchedVehicleTime = simTime
	return r
}

// Charger is one group of same-type stalls at a Station. The loader builds
// one Charger per stations CSV row; rows sharing a station_id become the
// Chargers of one Station.
type Charger struct {
	ChargerID string
	TotalStalls int
	AvailableStalls int
	PowerKW float64
}

// CheckoutStall returns a copy of c with one stall claimed, or (c, false)
// if none are available.
func (c Charger) CheckoutStall() (Charger, bool) {
	if c.AvailableStalls <= 0 {
		return c, false
	}
	c.AvailableStalls--
	return c, true
}

// ReturnStall returns a copy of c with one stall released, capped at
// TotalStalls.
func (c Charger) ReturnStall() Charger {
	if c.AvailableStalls < c.TotalStalls {
		c.AvailableStalls++
	}
	return c
}

// Station is a fixed charging location with one or more Chargers.
type Station struct {
	ID string
	Position geo.Position
	GeoID geo.GeoId
	Chargers map[string]Charger
	Membership Membership
}

// TotalStalls sums stall counts across all chargers.
func (s Station) TotalStalls() int {
	total := 0
	for _, c := range s.Chargers {
		total += c.TotalStalls
	}
	return total
}

// AvailableStalls sums available-stall counts across all chargers.
func (s Station) AvailableStalls() int {
	total := 0
	for _, c := range s.Chargers {
		total += c.AvailableStalls
	}
	return total
}

// CheckoutStall claims a stall on preferredChargerID if it is non-empty and
// that charger has one available; otherwise it finds the first charger (by
// ChargerID, lexicographic) with an available stall and claims it. Returns
// the updated Station, the
// claimed charger id, and true; or (s, "", false) if none is available.
func (s Station) CheckoutStall(preferredChargerID string) (Station, string, bool) {
	if preferredChargerID != "" {
		if c, ok := s.Chargers[preferredChargerID]; ok {
			if updated, claimed := c.CheckoutStall(); claimed {
				s = s.withCharger(updated)
				return s, preferredChargerID, true
			}
		}
	}
	ids := make([]string, 0, len(s.Chargers))
	for id := range s.Chargers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		c := s.Chargers[id]
		if updated, claimed := c.CheckoutStall(); claimed {
			s = s.withCharger(updated)
			return s, id, true
		}
	}
	return s, "", false
}

// ReturnStall releases a previously claimed stall back to chargerID.
func (s Station) ReturnStall(chargerID string) Station {
	c, ok := s.Chargers[chargerID]
	if !ok {
		return s
	}
	return s.withCharger(c.ReturnStall())
}

func (s Station) withCharger(c Charger) Station {
	next := make(map[string]Charger, len(s.Chargers))
	for id, existing := range s.Chargers {
		next[id] = existing
	}
	next[c.ChargerID] = c
	s.Chargers = next
	return s
}

// Base is a depot where vehicles reserve a stall between trips, optionally
// co-located with a Station for charging.
type Base struct {
	ID string
	Position geo.Position
	GeoID geo.GeoId
	TotalStalls int
	AvailableStalls int
	StationID string // empty if this base has no co-located station
	Membership Membership
}

// CheckoutStall returns a copy of b with one stall claimed, or (b, false)
// if none are available.
func (b Base) CheckoutStall() (Base, bool) {
	if b.AvailableStalls <= 0 {
		return b, false
	}
	b.AvailableStalls--
	return b, true
}

// ReturnStall returns a copy of b with one stall released, capped at
// TotalStalls.
func (b Base) ReturnStall() Base {
	if b.AvailableStalls < b.TotalStalls {
		b.AvailableStalls++
	}
	return b
}
