package sim

import "sort"

// VehicleQuery narrows and orders a GetVehicles call. Filter and Less are
// optional (nil means "no filter" / "iterator order"); MembershipID, if
// non-empty, intersects the result with that fleet's membership.
type VehicleQuery struct {
	Filter func(Vehicle) bool
	Less func(a, b Vehicle) bool
	MembershipID string
}

// GetVehicles walks the deterministic vehicle iterator, optionally
// filtering, sorting, and intersecting with a membership id.
func (s *SimulationState) GetVehicles(q VehicleQuery) []Vehicle {
	out := make([]Vehicle, 0, len(s.vehicleIDs))
	for _, id := range s.vehicleIDs {
		v := s.vehicles[id]
		if q.MembershipID != "" && !v.Membership.Has(q.MembershipID) {
			continue
		}
		if q.Filter != nil && !q.Filter(v) {
			continue
		}
		out = append(out, v)
	}
	if q.Less != nil {
		sort.SliceStable(out, func(i, j int) bool { return q.Less(out[i], out[j]) })
	}
	return out
}

// RequestQuery narrows and orders a GetRequests call.
type RequestQuery struct {
	Filter func(Request) bool
	Less func(a, b Request) bool
	MembershipID string
}

// GetRequests walks the deterministic request iterator, optionally
// filtering, sorting, and intersecting with a membership id.
func (s *SimulationState) GetRequests(q RequestQuery) []Request {
	out := make([]Request, 0, len(s.requestIDs))
	for _, id := range s.requestIDs {
		r := s.requests[id]
		if q.MembershipID != "" && !r.Membership.Has(q.MembershipID) {
			continue
		}
		if q.Filter != nil && !q.Filter(r) {
			continue
		}
		out = append(out, r)
	}
	if q.Less != nil {
		sort.SliceStable(out, func(i, j int) bool { return q.Less(out[i], out[j]) })
	}
	return out
}

// StationQuery narrows and orders a GetStations call.
type StationQuery struct {
	Filter func(Station) bool
	MembershipID string
}

// GetStations walks the deterministic station iterator, optionally
// filtering and intersecting with a membership id.
func (s *SimulationState) GetStations(q StationQuery) []Station {
	out := make([]Station, 0, len(s.stationIDs))
	for _, id := range s.stationIDs {
		st := s.stations[id]
		if q.MembershipID != "" && !st.Membership.Has(q.MembershipID) {
			continue
		}
		if q.Filter != nil && !q.Filter(st) {
			continue
		}
		out = append(out, st)
	}
	return out
}

// BaseQuery narrows and orders a GetBases call.
type BaseQuery struct {
	Filter func(Base) bool
	MembershipID string
}

// GetBases walks the deterministic base iterator, optionally filtering and
// intersecting with a membership id.
func (s *SimulationState) GetBases(q BaseQuery) []Base {
	out := make([]Base, 0, len(s.baseIDs))
	for _, id := range s.baseIDs {
		b := s.bases[id]
		if q.MembershipID != "" && !b.Membership.Has(q.MembershipID) {
			continue
		}
		if q.Filter != nil && !q.Filter(b) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// Memberships returns the union of every fleet id appearing on any vehicle
// or request, used by generators to enumerate the memberships they must
// process independently, for each membership with both vehicles and
// requests.
func (s *SimulationState) Memberships() []string {
	seen := map[string]struct{}{}
	for _, id := range s.vehicleIDs {
		for m := range s.vehicles[id].Membership {
			seen[m] = struct{}{}
		}
	}
	for _, id := range s.requestIDs {
		for m := range s.requests[id].Membership {
			seen[m] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for m := range seen {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}
