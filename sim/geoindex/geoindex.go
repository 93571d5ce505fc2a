// Package geoindex implements the hex-cell spatial index each entity kind
// is kept in: a fine-grained "locations" map for exact positioning and a
// coarse-grained "search" map used for ring-expansion nearest-entity
// queries. One Index instance backs one entity kind (vehicles, requests,
// stations or bases); SimulationState owns four of them.
package geoindex

import (
	"fmt"
	"math"
	"sort"

	"github.com/hive-sim/hive-sim/sim/geo"
)

// Index is an immutable, clone-on-write spatial index. Every mutating
// method returns a new *Index and leaves the receiver untouched, matching
// the copy-on-write discipline requires of SimulationState.
type Index struct {
	grid geo.HexGrid
	locationRes int
	searchRes int
	locations map[geo.GeoId][]string
	search map[geo.GeoId][]string
	cellOf map[string]geo.GeoId
	positionOf map[string]geo.Position
}

// New creates an empty Index over the given HexGrid at the given fine
// (location) and coarse (search) resolutions.
func New(grid geo.HexGrid, locationResolution, searchResolution int) *Index {
	return &Index{
		grid: grid,
		locationRes: locationResolution,
		searchRes: searchResolution,
		locations: map[geo.GeoId][]string{},
		search: map[geo.GeoId][]string{},
		cellOf: map[string]geo.GeoId{},
		positionOf: map[string]geo.Position{},
	}
}

func (idx *Index) clone() *Index {
	n := &Index{
		grid: idx.grid,
		locationRes: idx.locationRes,
		searchRes: idx.searchRes,
		locations: make(map[geo.GeoId][]string, len(idx.locations)),
		search: make(map[geo.GeoId][]string, len(idx.search)),
		cellOf: make(map[string]geo.GeoId, len(idx.cellOf)),
		positionOf: make(map[string]geo.Position, len(idx.positionOf)),
	}
	for k, v := range idx.locations {
		cp := make([]string, len(v))
		copy(cp, v)
		n.locations[k] = cp
	}
	for k, v := range idx.search {
		cp := make([]string, len(v))
		copy(cp, v)
		n.search[k] = cp
	}
	for k, v := range idx.cellOf {
		n.cellOf[k] = v
	}
	for k, v := range idx.positionOf {
		n.positionOf[k] = v
	}
	return n
}

// Add inserts id at pos into both the location and search maps. Returns an
// error if id is already present (matching the "fails on duplicate id"
// contract of the higher-level entity ops).
func (idx *Index) Add(id string, pos geo.Position) (*Index, error) {
	if _, exists := idx.cellOf[id]; exists {
		return nil, fmt.Errorf("geoindex: id %q already indexed", id)
	}
	n := idx.clone()
	fine := n.grid.CellAt(pos, n.locationRes)
	coarse := n.grid.CellAt(pos, n.searchRes)
	n.locations[fine] = append(n.locations[fine], id)
	n.search[coarse] = append(n.search[coarse], id)
	n.cellOf[id] = fine
	n.positionOf[id] = pos
	return n, nil
}

// Remove deletes id from both maps, dropping any cell key left with no ids.
// Returns an error if id is not present.
func (idx *Index) Remove(id string) (*Index, error) {
	if _, exists := idx.cellOf[id]; !exists {
		return nil, fmt.Errorf("geoindex: id %q not indexed", id)
	}
	n := idx.clone()
	pos := n.positionOf[id]
	fine := n.grid.CellAt(pos, n.locationRes)
	coarse := n.grid.CellAt(pos, n.searchRes)
	if ids := removeID(n.locations[fine], id); len(ids) > 0 {
		n.locations[fine] = ids
	} else {
		delete(n.locations, fine)
	}
	if ids := removeID(n.search[coarse], id); len(ids) > 0 {
		n.search[coarse] = ids
	} else {
		delete(n.search, coarse)
	}
	delete(n.cellOf, id)
	delete(n.positionOf, id)
	return n, nil
}

// Move relocates id to newPos in a single step (remove-old, add-new),
// keeping the index consistent at every intermediate point 
// requires ("if geoid changed, the indices are updated in one step").
func (idx *Index) Move(id string, newPos geo.Position) (*Index, error) {
	removed, err := idx.Remove(id)
	if err != nil {
		return nil, err
	}
	return removed.Add(id, newPos)
}

// Position returns the last-indexed position of id.
func (idx *Index) Position(id string) (geo.Position, bool) {
	p, ok := idx.positionOf[id]
	return p, ok
}

// ringCount converts a search radius in kilometers to a ring count at the
// index's search resolution.
func (idx *Index) ringCount(maxRadiusKm float64) int {
	edge := idx.grid.EdgeKm(idx.searchRes)
	if edge <= 0 {
		return 0
	}
	return int(math.Ceil(maxRadiusKm/edge)) + 1
}

// NearestEntity performs a ring-expansion search: starting
// at ring 0 around origin's coarse cell, gather candidates passing isValid,
// and return the one minimizing great-circle distance from origin. If none
// pass, expand to the next ring, up to the ring count implied by
// maxRadiusKm. Returns ("", false) if the search is exhausted with no match.
func (idx *Index) NearestEntity(origin geo.Position, maxRadiusKm float64, isValid func(id string) bool) (string, bool) {
	center := idx.grid.CellAt(origin, idx.searchRes)
	maxRing := idx.ringCount(maxRadiusKm)
	for k := 0; k <= maxRing; k++ {
		ringCells, err := idx.grid.Ring(center, k)
		if err != nil {
			break
		}
		bestID := ""
		bestDist := math.Inf(1)
		found := false
		// Sort cells for deterministic candidate-scan order; ties in
		// distance break on lowest id.
		sort.Slice(ringCells, func(i, j int) bool { return ringCells[i] < ringCells[j] })
		for _, cell := range ringCells {
			ids := append([]string(nil), idx.search[cell]...)
			sort.Strings(ids)
			for _, id := range ids {
				if !isValid(id) {
					continue
				}
				pos, ok := idx.positionOf[id]
				if !ok {
					continue
				}
				d := geo.HaversineKm(origin, pos)
				if d < bestDist || (d == bestDist && id < bestID) {
					bestDist = d
					bestID = id
					found = true
				}
			}
		}
		if found {
			return bestID, true
		}
	}
	return "", false
}

func removeID(ids []string, target string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}
