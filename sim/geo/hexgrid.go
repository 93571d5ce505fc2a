package geo

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// HexGrid abstracts the hierarchical hexagonal grid: position-to-cell
// conversion, parent lookup and ring neighborhoods. Kept as an interface so
// the kernel can be pointed at a different grid library (e.g. H3, see
// h3grid.go) without touching the spatial index or instruction generators —
// mirroring how roadnetwork.RoadNetwork lets a Haversine provider and an
// external-graph provider share one contract.
type HexGrid interface {
	// CellAt returns the GeoId of the cell containing pos at resolution.
	CellAt(pos Position, resolution int) GeoId
	// Parent returns the ancestor of id at a coarser (or equal) resolution.
	Parent(id GeoId, parentResolution int) (GeoId, error)
	// Centroid returns the representative position of a cell.
	Centroid(id GeoId) (Position, error)
	// Ring returns the cells at exactly hex-distance k from center's
	// resolution, at that same resolution. Ring(center, 0) == [center].
	Ring(center GeoId, k int) ([]GeoId, error)
	// EdgeKm returns the approximate edge length, in kilometers, of a cell
	// at resolution. Used to convert a search radius in kilometers to a
	// ring count.
	EdgeKm(resolution int) float64
}

// axialGrid is the default, self-contained HexGrid: an axial hex tiling
// derived from an equirectangular projection of lat/lon. It is not
// bit-compatible with any external H3 library — it exists so the kernel has
// a dependency-free grid that always works, matching the sanctioned
// fallback of treating the real grid library as swappable. Parent/child
// aggregation is defined as "re-bin the cell's centroid at the coarser
// resolution" rather than true aperture-7 nesting; this keeps the mapping
// consistent and cheap without requiring an Eisenstein-integer aggregation
// scheme.
type axialGrid struct{}

// DefaultGrid is the package-level HexGrid used when no external grid is
// configured.
var DefaultGrid HexGrid = axialGrid{}

const baseEdgeKm = 1107.0 // approximate edge length, in km, of a resolution-0 cell
const kmPerDegLat = 111.32

func edgeKm(resolution int) float64 {
	return baseEdgeKm / math.Pow(math.Sqrt(7), float64(resolution))
}

func planarXY(pos Position) (x, y float64) {
	y = pos.Lat * kmPerDegLat
	kmPerDegLon := kmPerDegLat * math.Cos(pos.Lat*math.Pi/180)
	x = pos.Lon * kmPerDegLon
	return x, y
}

// axialFromXY converts planar km coordinates to fractional axial hex
// coordinates (pointy-top orientation) at the given cell size.
func axialFromXY(x, y, size float64) (qf, rf float64) {
	qf = (math.Sqrt(3)/3*x - 1.0/3*y) / size
	rf = (2.0 / 3 * y) / size
	return qf, rf
}

// axialToXY is the inverse of axialFromXY, used to compute a cell's centroid.
func axialToXY(q, r int, size float64) (x, y float64) {
	x = size * (math.Sqrt(3)*float64(q) + math.Sqrt(3)/2*float64(r))
	y = size * (3.0 / 2 * float64(r))
	return x, y
}

// roundAxial snaps fractional axial coordinates to the nearest hex cell
// using the standard cube-coordinate rounding algorithm.
func roundAxial(qf, rf float64) (q, r int) {
	xf := qf
	zf := rf
	yf := -xf - zf

	rx := math.Round(xf)
	ry := math.Round(yf)
	rz := math.Round(zf)

	dx := math.Abs(rx - xf)
	dy := math.Abs(ry - yf)
	dz := math.Abs(rz - zf)

	if dx > dy && dx > dz {
		rx = -ry - rz
	} else if dy > dz {
		ry = -rx - rz
	} else {
		rz = -rx - ry
	}
	return int(rx), int(rz)
}

func (axialGrid) CellAt(pos Position, resolution int) GeoId {
	x, y := planarXY(pos)
	qf, rf := axialFromXY(x, y, edgeKm(resolution))
	q, r := roundAxial(qf, rf)
	return encodeCell(resolution, q, r)
}

func (g axialGrid) Parent(id GeoId, parentResolution int) (GeoId, error) {
	res, _, _, err := decodeCell(id)
	if err != nil {
		return "", err
	}
	if parentResolution > res {
		return "", fmt.Errorf("geo: parent resolution %d is finer than cell resolution %d", parentResolution, res)
	}
	if parentResolution == res {
		return id, nil
	}
	centroid, err := g.Centroid(id)
	if err != nil {
		return "", err
	}
	return g.CellAt(centroid, parentResolution), nil
}

func (axialGrid) Centroid(id GeoId) (Position, error) {
	res, q, r, err := decodeCell(id)
	if err != nil {
		return Position{}, err
	}
	x, y := axialToXY(q, r, edgeKm(res))
	lat := y / kmPerDegLat
	kmPerDegLon := kmPerDegLat * math.Cos(lat*math.Pi/180)
	if kmPerDegLon == 0 {
		return Position{Lat: lat, Lon: 0}, nil
	}
	lon := x / kmPerDegLon
	return Position{Lat: lat, Lon: lon}, nil
}

// axialDirections are the six unit steps between adjacent hex cells in
// axial coordinates, ordered for the standard ring-walk algorithm.
var axialDirections = [6][2]int{
	{1, 0}, {1, -1}, {0, -1}, {-1, 0}, {-1, 1}, {0, 1},
}

func (axialGrid) Ring(center GeoId, k int) ([]GeoId, error) {
	res, q, r, err := decodeCell(center)
	if err != nil {
		return nil, err
	}
	if k < 0 {
		return nil, fmt.Errorf("geo: negative ring radius %d", k)
	}
	if k == 0 {
		return []GeoId{center}, nil
	}
	// Start k steps out along direction 4, then walk the hexagon's six
	// edges, k steps each. See redblobgames.com/grids/hexagons/#rings.
	cq := q + axialDirections[4][0]*k
	cr := r + axialDirections[4][1]*k
	results := make([]GeoId, 0, 6*k)
	for side := 0; side < 6; side++ {
		for step := 0; step < k; step++ {
			results = append(results, encodeCell(res, cq, cr))
			cq += axialDirections[side][0]
			cr += axialDirections[side][1]
		}
	}
	return results, nil
}

func (axialGrid) EdgeKm(resolution int) float64 {
	return edgeKm(resolution)
}

func encodeCell(resolution, q, r int) GeoId {
	return GeoId(fmt.Sprintf("%d:%d:%d", resolution, q, r))
}

func decodeCell(id GeoId) (resolution, q, r int, err error) {
	parts := strings.Split(string(id), ":")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("geo: malformed GeoId %q", id)
	}
	resolution, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("geo: malformed GeoId %q: %w", id, err)
	}
	q, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("geo: malformed GeoId %q: %w", id, err)
	}
	r, err = strconv.Atoi(parts[2])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("geo: malformed GeoId %q: %w", id, err)
	}
	return resolution, q, r, nil
}
