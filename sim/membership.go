package sim

import "fmt"

// Membership is the set of fleet ids an entity belongs to, used to
// partition dispatch per membership.
type Membership map[string]struct{}

// NewMembership builds a Membership from a list of fleet ids, deduplicating.
func NewMembership(fleetIDs...string) Membership {
	m := make(Membership, len(fleetIDs))
	for _, id := range fleetIDs {
		m[id] = struct{}{}
	}
	return m
}

// Has reports whether fleetID is a member.
func (m Membership) Has(fleetID string) bool {
	_, ok := m[fleetID]
	return ok
}

// With returns a new Membership with fleetID added, leaving m unmodified.
func (m Membership) With(fleetID string) Membership {
	out := make(Membership, len(m)+1)
	for id := range m {
		out[id] = struct{}{}
	}
	out[fleetID] = struct{}{}
	return out
}

// IDs returns the member fleet ids. Order is not guaranteed.
func (m Membership) IDs() []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	return ids
}

// HomeBaseMembershipID synthesizes the private membership token shared by a
// human-driven vehicle, its home base, and (optionally) the base's station:
// `"<vehicle_id>_private_<base_id>"`.
func HomeBaseMembershipID(vehicleID, baseID string) string {
	return fmt.Sprintf("%s_private_%s", vehicleID, baseID)
}
