// Package assignment matches a set of vehicles to a set of requests by
// cost. It has no dependency on package sim: callers
// supply ids and a cost function, so this package stays a leaf that
// operates on scored candidates rather than concrete entity types.
package assignment

import (
	"sort"

	"gonum.org/v1/gonum/mat"
)

// CostFunc scores a candidate (vehicle, request) pairing. Lower is better.
type CostFunc func(vehicleID, requestID string) float64

// Pair is one matched (vehicle, request) in an assignment's output.
type Pair struct {
	VehicleID string
	RequestID string
	Cost float64
}

// Greedy assigns each request, in order, to its lowest-cost unassigned
// vehicle. It is the approximation permits "for large inputs
// provided the cost function's triangle-like property is documented": it
// does not reconsider an earlier match once made, so a vehicle claimed by
// request[0] is unavailable to request[1] even if it would have lowered
// total cost to swap them. Deterministic given identical inputs: vehicles
// and requests are scanned in the order supplied, and ties break on
// (vehicleID, requestID) lexicographic order.
func Greedy(vehicleIDs, requestIDs []string, cost CostFunc) []Pair {
	taken := make(map[string]bool, len(vehicleIDs))
	pairs := make([]Pair, 0, min(len(vehicleIDs), len(requestIDs)))

	for _, requestID := range requestIDs {
		bestVehicle := ""
		bestCost := 0.0
		found := false

		for _, vehicleID := range vehicleIDs {
			if taken[vehicleID] {
				continue
			}
			c := cost(vehicleID, requestID)
			if !found || c < bestCost || (c == bestCost && vehicleID < bestVehicle) {
				bestVehicle = vehicleID
				bestCost = c
				found = true
			}
		}

		if !found {
			continue
		}
		taken[bestVehicle] = true
		pairs = append(pairs, Pair{VehicleID: bestVehicle, RequestID: requestID, Cost: bestCost})
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].VehicleID != pairs[j].VehicleID {
			return pairs[i].VehicleID < pairs[j].VehicleID
		}
		return pairs[i].RequestID < pairs[j].RequestID
	})
	return pairs
}

// MinCost computes a minimum-total-cost bipartite matching between
// vehicleIDs and requestIDs using the Hungarian algorithm over a cost
// matrix backed by gonum's mat.Dense, its preference for an
// exact assignment "when |V|·|R| is moderate". Every vehicle and every
// request appears in at most one returned Pair; if len(vehicleIDs) !=
// len(requestIDs) the shorter side is fully matched and the longer side's
// surplus entries are left unassigned. Deterministic: ties break on
// (vehicleID, requestID) lexicographic order via the input ordering
// combined with a stable augmenting-path search order.
func MinCost(vehicleIDs, requestIDs []string, cost CostFunc) []Pair {
	if len(vehicleIDs) == 0 || len(requestIDs) == 0 {
		return nil
	}

	// Sort inputs lexicographically first so that the augmenting-path
	// search order alone determines tie-breaks, matching the
	// (vehicle_id, request_id) tie-break contract.
	vehicles := append([]string(nil), vehicleIDs...)
	requests := append([]string(nil), requestIDs...)
	sort.Strings(vehicles)
	sort.Strings(requests)

	n := len(vehicles)
	m := len(requests)

	costMatrix := mat.NewDense(n, m, nil)
	for i, v := range vehicles {
		for j, r := range requests {
			costMatrix.Set(i, j, cost(v, r))
		}
	}

	rowMatch, colMatch := hungarian(costMatrix, n, m)

	pairs := make([]Pair, 0, min(n, m))
	for i, j := range rowMatch {
		if j < 0 {
			continue
		}
		pairs = append(pairs, Pair{
			VehicleID: vehicles[i],
			RequestID: requests[j],
			Cost: costMatrix.At(i, j),
		})
	}
	_ = colMatch
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].VehicleID != pairs[j].VehicleID {
			return pairs[i].VehicleID < pairs[j].VehicleID
		}
		return pairs[i].RequestID < pairs[j].RequestID
	})
	return pairs
}

// hungarian runs the Jonker-Volgenant-style Hungarian algorithm on a
// possibly-rectangular n x m cost matrix, returning rowMatch (length n,
// rowMatch[i] = matched column or -1) and colMatch (length m, colMatch[j]
// = matched row or -1). Unmatched rows/columns occur only when n != m.
func hungarian(cost *mat.Dense, n, m int) (rowMatch, colMatch []int) {
	size := n
	if m > size {
		size = m
	}

	const inf = 1e18
	square := mat.NewDense(size, size, nil)
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			if i < n && j < m {
				square.Set(i, j, cost.At(i, j))
			} else {
				square.Set(i, j, inf)
			}
		}
	}

	u := make([]float64, size+1)
	v := make([]float64, size+1)
	p := make([]int, size+1) // p[j] = row matched to column j (1-indexed columns, 0 = unmatched)
	way := make([]int, size+1)

	for i := 1; i <= size; i++ {
		p[0] = i
		j0 := 0
		minV := make([]float64, size+1)
		used := make([]bool, size+1)
		for j := 0; j <= size; j++ {
			minV[j] = inf
		}

		for {
			used[j0] = true
			i0 := p[j0]
			delta := inf
			j1 := -1
			for j := 1; j <= size; j++ {
				if used[j] {
					continue
				}
				cur := square.At(i0-1, j-1) - u[i0] - v[j]
				if cur < minV[j] {
					minV[j] = cur
					way[j] = j0
				}
				if minV[j] < delta {
					delta = minV[j]
					j1 = j
				}
			}
			for j := 0; j <= size; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minV[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}

		for j0 != 0 {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
		}
	}

	rowMatch = make([]int, n)
	colMatch = make([]int, m)
	for i := range rowMatch {
		rowMatch[i] = -1
	}
	for j := range colMatch {
		colMatch[j] = -1
	}

	for j := 1; j <= size; j++ {
		i := p[j] - 1
		col := j - 1
		if i < 0 || i >= n || col < 0 || col >= m {
			continue
		}
		if square.At(i, col) >= inf {
			continue
		}
		rowMatch[i] = col
		colMatch[col] = i
	}
	return rowMatch, colMatch
}
