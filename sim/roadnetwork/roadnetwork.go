// Package roadnetwork defines the RoadNetwork contract
// and the property-link route representation it produces. A Haversine
// straight-line implementation lives in haversine.go; an external-graph
// implementation (e.g. backed by a routing service) is expected to satisfy
// the same interface without this package knowing about it.
package roadnetwork

import (
	"fmt"

	"github.com/hive-sim/hive-sim/sim/geo"
)

// LinkID identifies one traversable segment of a route within a particular
// RoadNetwork implementation.
type LinkID string

// PropertyLink is one ordered segment of a route: its endpoints, length,
// nominal speed and travel time. Routes are sequences of PropertyLinks.
type PropertyLink struct {
	ID LinkID
	Start geo.Position
	End geo.Position
	DistanceKm float64
	SpeedKmh float64
	TravelTimeSeconds int64
}

// RoadNetwork produces routes and distances between positions, and can
// answer whether a previously-computed link is still part of the live
// network (used by RouteTraversal to detect stale routes).
type RoadNetwork interface {
	// Route returns the ordered property-links connecting origin to
	// destination.
	Route(origin, destination geo.Position) ([]PropertyLink, error)
	// DistanceKm returns the network distance (not necessarily great-circle)
	// between origin and destination.
	DistanceKm(origin, destination geo.Position) float64
	// Link looks up a previously-issued link by ID. ok is false if the link
	// is no longer part of the network (e.g. the network was rebuilt).
	Link(id LinkID) (PropertyLink, bool)
}

// ErrLinkNotFound is wrapped into the error RouteTraversal returns when a
// route references a link the current RoadNetwork no longer knows about.
type ErrLinkNotFound struct {
	ID LinkID
}

func (e *ErrLinkNotFound) Error() string {
	return fmt.Sprintf("roadnetwork: link %q not found in current network", e.ID)
}
