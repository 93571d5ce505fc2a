package roadnetwork

import "github.com/hive-sim/hive-sim/sim/geo"

// TraversalResult is the output of consuming a route under a time budget.
type TraversalResult struct {
	RemainingTimeSeconds int64
	TraversalDistanceKm float64
	ExperiencedRoute []PropertyLink
	RemainingRoute []PropertyLink
}

// Traverse consumes links in order under budgetSeconds. For each link it
// computes how far the budget carries the vehicle: if the budget spans the
// whole link, the link is appended to the experienced route in full; if it
// cuts partway through, the link is split at the point the budget is
// exhausted — the traversed fraction joins the experienced route, the
// untouched remainder (plus any unconsumed links) becomes the remaining
// route.
//
// Returns (nil, nil) for an empty route or a degenerate route whose first
// link starts where its last link ends (already arrived, nothing to do).
// Returns a non-nil error, not a result, if any link in route is no longer
// present in network — this is the link-traversal-fails case, classified
// as a RouteError by callers.
func Traverse(network RoadNetwork, route []PropertyLink, budgetSeconds int64) (*TraversalResult, error) {
	if len(route) == 0 {
		return nil, nil
	}
	if route[0].Start == route[len(route)-1].End {
		return nil, nil
	}

	remaining := budgetSeconds
	var traversedKm float64
	experienced := make([]PropertyLink, 0, len(route))

	for i, link := range route {
		if network != nil {
			if _, ok := network.Link(link.ID); !ok {
				return nil, &ErrLinkNotFound{ID: link.ID}
			}
		}

		if remaining <= 0 {
			return &TraversalResult{
				RemainingTimeSeconds: 0,
				TraversalDistanceKm: traversedKm,
				ExperiencedRoute: experienced,
				RemainingRoute: route[i:],
			}, nil
		}

		if link.TravelTimeSeconds <= remaining {
			experienced = append(experienced, link)
			traversedKm += link.DistanceKm
			remaining -= link.TravelTimeSeconds
			continue
		}

		// Budget is exhausted partway through this link: split it.
		fraction := float64(remaining) / float64(link.TravelTimeSeconds)
		mid := lerp(link.Start, link.End, fraction)
		experienced = append(experienced, PropertyLink{
			ID: link.ID,
			Start: link.Start,
			End: mid,
			DistanceKm: link.DistanceKm * fraction,
			SpeedKmh: link.SpeedKmh,
			TravelTimeSeconds: remaining,
		})
		traversedKm += link.DistanceKm * fraction

		remainingRoute := make([]PropertyLink, 0, len(route)-i)
		remainingRoute = append(remainingRoute, PropertyLink{
			ID: link.ID,
			Start: mid,
			End: link.End,
			DistanceKm: link.DistanceKm * (1 - fraction),
			SpeedKmh: link.SpeedKmh,
			TravelTimeSeconds: link.TravelTimeSeconds - remaining,
		})
		remainingRoute = append(remainingRoute, route[i+1:]...)

		return &TraversalResult{
			RemainingTimeSeconds: 0,
			TraversalDistanceKm: traversedKm,
			ExperiencedRoute: experienced,
			RemainingRoute: remainingRoute,
		}, nil
	}

	return &TraversalResult{
		RemainingTimeSeconds: remaining,
		TraversalDistanceKm: traversedKm,
		ExperiencedRoute: experienced,
		RemainingRoute: nil,
	}, nil
}

// lerp linearly interpolates between a and b; used only to synthesize the
// split point of a link whose traversal is cut short by the time budget.
func lerp(a, b geo.Position, fraction float64) geo.Position {
	return geo.Position{
		Lat: a.Lat + (b.Lat-a.Lat)*fraction,
		Lon: a.Lon + (b.Lon-a.Lon)*fraction,
	}
}
