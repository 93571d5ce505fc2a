package roadnetwork

import (
	"fmt"
	"sync"

	"github.com/hive-sim/hive-sim/sim/geo"
)

// HaversineNetwork is the default RoadNetwork: every route is a single
// great-circle link at a configured nominal speed, a straight-line
// provider; an external-graph provider is expected to satisfy RoadNetwork
// the same way.
type HaversineNetwork struct {
	speedKmh float64

	mu sync.Mutex
	links map[LinkID]PropertyLink
}

// NewHaversineNetwork creates a HaversineNetwork where every traversal moves
// at speedKmh.
func NewHaversineNetwork(speedKmh float64) *HaversineNetwork {
	return &HaversineNetwork{
		speedKmh: speedKmh,
		links: map[LinkID]PropertyLink{},
	}
}

func linkID(origin, destination geo.Position) LinkID {
	return LinkID(fmt.Sprintf("%.6f,%.6f->%.6f,%.6f", origin.Lat, origin.Lon, destination.Lat, destination.Lon))
}

// Route returns a single-link straight-line route from origin to
// destination. A degenerate request (origin == destination) returns an
// empty route, which RouteTraversal treats as "already arrived".
func (n *HaversineNetwork) Route(origin, destination geo.Position) ([]PropertyLink, error) {
	if origin == destination {
		return nil, nil
	}
	distanceKm := geo.HaversineKm(origin, destination)
	if n.speedKmh <= 0 {
		return nil, fmt.Errorf("roadnetwork: HaversineNetwork configured with non-positive speed %.2f km/h", n.speedKmh)
	}
	link := PropertyLink{
		ID: linkID(origin, destination),
		Start: origin,
		End: destination,
		DistanceKm: distanceKm,
		SpeedKmh: n.speedKmh,
		TravelTimeSeconds: int64(distanceKm / n.speedKmh * 3600),
	}
	n.mu.Lock()
	n.links[link.ID] = link
	n.mu.Unlock()
	return []PropertyLink{link}, nil
}

// DistanceKm returns the great-circle distance between origin and
// destination.
func (n *HaversineNetwork) DistanceKm(origin, destination geo.Position) float64 {
	return geo.HaversineKm(origin, destination)
}

// Link looks up a link previously produced by Route.
func (n *HaversineNetwork) Link(id LinkID) (PropertyLink, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	link, ok := n.links[id]
	return link, ok
}
