package cmd

import (
	"crypto/md5"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/hive-sim/hive-sim/sim"
	"github.com/hive-sim/hive-sim/sim/geo"
	"github.com/hive-sim/hive-sim/sim/roadnetwork"
)

// LoadSimulation builds the initial *sim.SimulationState and *sim.Env from a
// Scenario, plus the demand-forecast weight per geo cell (nil when no
// forecast file is named), folding each configured CSV fixture into the
// in-memory model before the run loop starts. Every fixture path in
// Scenario resolves relative to dir.
func LoadSimulation(sc Scenario, dir string) (*sim.SimulationState, *sim.Env, map[geo.GeoId]float64, error) {
	cfg, err := LoadSimConfig(resolve(dir, sc.ConfigFile))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading config: %w", err)
	}

	if sc.RoadNetworkFile != "" {
		logrus.Warnf("road_network_file %q named but no external-graph provider is wired; falling back to the Haversine network", sc.RoadNetworkFile)
	}
	for _, unapplied := range []struct{ name, path string }{
		{"geofence_file", sc.GeofenceFile},
		{"rate_structure_file", sc.RateStructureFile},
		{"charging_price_file", sc.ChargingPriceFile},
	} {
		if unapplied.path != "" {
			logrus.Warnf("%s %q accepted for scenario-schema completeness but not yet applied by the core", unapplied.name, unapplied.path)
		}
	}

	grid, err := resolveGrid(sc.Grid)
	if err != nil {
		return nil, nil, nil, err
	}

	network := roadnetwork.NewHaversineNetwork(60)
	s := sim.NewSimulationState(network, grid, cfg.TimestepDurationSeconds, cfg.SimH3Resolution, cfg.SimH3SearchResolution)

	mechatronics := map[string]mechatronicsProfile{}
	if sc.MechatronicsFile != "" {
		mechatronics, err = loadMechatronics(resolve(dir, sc.MechatronicsFile))
		if err != nil {
			return nil, nil, nil, fmt.Errorf("loading mechatronics: %w", err)
		}
	}

	fleets := map[string][]string{}
	if sc.FleetsFile != "" {
		fleets, err = loadFleets(resolve(dir, sc.FleetsFile))
		if err != nil {
			return nil, nil, nil, fmt.Errorf("loading fleets: %w", err)
		}
	}

	s, baseByStation, err := loadBases(s, resolve(dir, sc.BasesFile), fleets)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading bases: %w", err)
	}
	s, err = loadStations(s, resolve(dir, sc.StationsFile), fleets)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading stations: %w", err)
	}
	s, err = loadVehicles(s, resolve(dir, sc.VehiclesFile), fleets, mechatronics)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading vehicles: %w", err)
	}
	s, err = assignPrivateMemberships(s, baseByStation)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("assigning private memberships: %w", err)
	}
	s, err = loadRequests(s, resolve(dir, sc.RequestsFile), fleets)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading requests: %w", err)
	}

	var cellWeights map[geo.GeoId]float64
	if sc.DemandForecastFile != "" {
		cellWeights, err = loadDemandForecast(resolve(dir, sc.DemandForecastFile), s)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("loading demand forecast: %w", err)
		}
	}

	if sc.ManifestFile != "" {
		verifyManifest(resolve(dir, sc.ManifestFile), dir)
	}

	env := &sim.Env{
		Config: cfg,
		RNG: sim.NewPartitionedRNG(sim.NewSimulationKey(cfg.Seed)),
		Metrics: &sim.Metrics{},
	}
	return s, env, cellWeights, nil
}

// assignPrivateMemberships gives every vehicle with a home base a private
// membership id (sim.HomeBaseMembershipID(vehicle, base)) shared with that
// base and, if present, the base's co-located station. Each base/station
// can end up holding several such ids, one per vehicle assigned to it.
func assignPrivateMemberships(s *sim.SimulationState, baseByStation map[string]string) (*sim.SimulationState, error) {
	stationByBase := make(map[string]string, len(baseByStation))
	for stationID, baseID := range baseByStation {
		stationByBase[baseID] = stationID
	}

	for _, vehicleID := range s.VehicleIDs() {
		v, ok := s.Vehicle(vehicleID)
		if !ok || v.HomeBaseID == "" {
			continue
		}
		membershipID := sim.HomeBaseMembershipID(v.ID, v.HomeBaseID)

		base, ok := s.Base(v.HomeBaseID)
		if !ok {
			return nil, fmt.Errorf("vehicle %s: home base %s not found", v.ID, v.HomeBaseID)
		}
		base.Membership = base.Membership.With(membershipID)
		var err error
		s, err = sim.ModifyBase(s, base)
		if err != nil {
			return nil, err
		}

		stationID, ok := stationByBase[v.HomeBaseID]
		if !ok {
			continue
		}
		station, ok := s.Station(stationID)
		if !ok {
			continue
		}
		station.Membership = station.Membership.With(membershipID)
		s, err = sim.ModifyStation(s, station)
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}

// resolveGrid maps a Scenario.Grid name to the HexGrid it selects. An empty
// name is the axial default; any other unrecognized name is a load error
// rather than a silent fallback, since a scenario that asked for an H3 grid
// and silently got axial cell ids would produce coordinates callers can't
// round-trip through H3 tooling.
func resolveGrid(name string) (geo.HexGrid, error) {
	switch name {
	case "", "axial":
		return geo.DefaultGrid, nil
	case "h3":
		return geo.H3Grid, nil
	default:
		return nil, fmt.Errorf("loading config: unknown grid %q (want \"axial\" or \"h3\")", name)
	}
}

func resolve(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// === fleets.yaml: membership assignments ===

// fleetMembers is one fleet's entry in the fleet membership file:
// `{fleet_id: {vehicles: [...], bases: [...], stations: [...]}, ...}`.
type fleetMembers struct {
	Vehicles []string `yaml:"vehicles"`
	Bases []string `yaml:"bases"`
	Stations []string `yaml:"stations"`
}

// loadFleets reads the fleet membership file and inverts it into a
// per-entity-id list of fleet ids, since that's what loadVehicles/
// loadBases/loadStations need at the point they build each entity's
// Membership: the loader collects all fleet ids per entity into the
// membership set. An entity may appear under multiple fleets.
func loadFleets(path string) (map[string][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var fleets map[string]fleetMembers
	if err := yaml.Unmarshal(data, &fleets); err != nil {
		return nil, err
	}

	perEntity := map[string][]string{}
	for fleetID, members := range fleets {
		for _, id := range members.Vehicles {
			perEntity[id] = append(perEntity[id], fleetID)
		}
		for _, id := range members.Bases {
			perEntity[id] = append(perEntity[id], fleetID)
		}
		for _, id := range members.Stations {
			perEntity[id] = append(perEntity[id], fleetID)
		}
	}
	return perEntity, nil
}

// === mechatronics.csv: vehicle energy profile overrides ===

// mechatronicsProfile carries the one field the core can currently act on
// (battery capacity); the core's per-tick drive-energy debit still uses
// SimConfig.DriveEnergyKWhPerKm as a single fleet-wide rate (config.go),
// so a per-mechatronics consumption curve has no consumer yet and is not
// parsed here.
type mechatronicsProfile struct {
	CapacityKWh float64
}

func loadMechatronics(path string) (map[string]mechatronicsProfile, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	profiles := make(map[string]mechatronicsProfile, len(rows))
	for _, row := range rows {
		profiles[row["mechatronics_id"]] = mechatronicsProfile{
			CapacityKWh: parseFloatOr(row["capacity_kwh"], 0),
		}
	}
	return profiles, nil
}

// === bases.csv ===

// loadBases returns the updated state and a station_id -> base_id index,
// used by assignPrivateMemberships to wire a vehicle's private membership
// onto its home base's co-located station.
func loadBases(s *sim.SimulationState, path string, fleets map[string][]string) (*sim.SimulationState, map[string]string, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, nil, err
	}
	baseByStation := make(map[string]string)
	for _, row := range rows {
		pos := geo.Position{Lat: parseFloatOr(row["lat"], 0), Lon: parseFloatOr(row["lon"], 0)}
		stalls := int(parseFloatOr(row["stall_count"], 0))
		b := sim.Base{
			ID: row["base_id"],
			Position: pos,
			GeoID: s.Grid.CellAt(pos, s.H3LocationResolution),
			TotalStalls: stalls,
			AvailableStalls: stalls,
			StationID: nonePlaceholder(row["station_id"]),
			Membership: sim.NewMembership(fleets[row["base_id"]]...),
		}
		s, err = sim.AddBase(s, b)
		if err != nil {
			return nil, nil, fmt.Errorf("base %s: %w", b.ID, err)
		}
		if b.StationID != "" {
			baseByStation[b.StationID] = b.ID
		}
	}
	return s, baseByStation, nil
}

// === stations.csv: one or more rows per station_id, one charger each ===

func loadStations(s *sim.SimulationState, path string, fleets map[string][]string) (*sim.SimulationState, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	type pending struct {
		position geo.Position
		chargers map[string]sim.Charger
	}
	byID := make(map[string]*pending)
	order := make([]string, 0)
	for _, row := range rows {
		id := row["station_id"]
		p, ok := byID[id]
		if !ok {
			p = &pending{
				position: geo.Position{Lat: parseFloatOr(row["lat"], 0), Lon: parseFloatOr(row["lon"], 0)},
				chargers: map[string]sim.Charger{},
			}
			byID[id] = p
			order = append(order, id)
		}
		stalls := int(parseFloatOr(row["stall_count"], 0))
		chargerID := row["charger_id"]
		if chargerID == "" {
			chargerID = fmt.Sprintf("%s_c%d", id, len(p.chargers))
		}
		p.chargers[chargerID] = sim.Charger{
			ChargerID: chargerID,
			TotalStalls: stalls,
			AvailableStalls: stalls,
			PowerKW: parseFloatOr(row["power_kw"], 0),
		}
	}

	for _, id := range order {
		p := byID[id]
		st := sim.Station{
			ID: id,
			Position: p.position,
			GeoID: s.Grid.CellAt(p.position, s.H3LocationResolution),
			Chargers: p.chargers,
			Membership: sim.NewMembership(fleets[id]...),
		}
		s, err = sim.AddStation(s, st)
		if err != nil {
			return nil, fmt.Errorf("station %s: %w", id, err)
		}
	}
	return s, nil
}

// === vehicles.csv ===

func loadVehicles(s *sim.SimulationState, path string, fleets map[string][]string, mechatronics map[string]mechatronicsProfile) (*sim.SimulationState, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		pos := geo.Position{Lat: parseFloatOr(row["lat"], 0), Lon: parseFloatOr(row["lon"], 0)}
		capacity := parseFloatOr(row["capacity_kwh"], 0)
		if profile, ok := mechatronics[row["mechatronics_id"]]; ok && profile.CapacityKWh > 0 {
			capacity = profile.CapacityKWh
		}
		homeBaseID := row["home_base_id"]
		membership := sim.NewMembership(fleets[row["vehicle_id"]]...)
		if homeBaseID != "" {
			// The matching base/station side of this private membership is
			// wired by assignPrivateMemberships once every vehicle is loaded.
			membership = membership.With(sim.HomeBaseMembershipID(row["vehicle_id"], homeBaseID))
		}
		v := sim.Vehicle{
			ID: row["vehicle_id"],
			EnergySource: sim.EnergySource{
				EnergyType: sim.EnergyTypeBattery,
				CapacityKWh: capacity,
			}.WithSoC(parseFloatOr(row["initial_soc"], 1)),
			State: sim.Idle{},
			Membership: membership,
			HomeBaseID: homeBaseID,
			MechatronicsID: row["mechatronics_id"],
			Position: pos,
			GeoID: s.Grid.CellAt(pos, s.H3LocationResolution),
		}
		s, err = sim.AddVehicle(s, v)
		if err != nil {
			return nil, fmt.Errorf("vehicle %s: %w", v.ID, err)
		}
	}
	return s, nil
}

// === requests.csv ===

func loadRequests(s *sim.SimulationState, path string, fleets map[string][]string) (*sim.SimulationState, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		origin := geo.Position{Lat: parseFloatOr(row["origin_lat"], 0), Lon: parseFloatOr(row["origin_lon"], 0)}
		destination := geo.Position{Lat: parseFloatOr(row["destination_lat"], 0), Lon: parseFloatOr(row["destination_lon"], 0)}
		// The fleet membership file only names vehicles, bases
		// and stations; a request's fleet comes from its own CSV row (the
		// single fleet the ordering app belongs to). The fleets lookup by
		// request_id below only finds fleet ids when a request shares its id
		// with a vehicle, base or station listed in that file.
		membership := sim.NewMembership(fleets[row["request_id"]]...)
		if fleetID := row["fleet_id"]; fleetID != "" {
			membership = membership.With(fleetID)
		}
		r := sim.Request{
			ID: row["request_id"],
			Origin: origin,
			Destination: destination,
			OriginGeoID: s.Grid.CellAt(origin, s.H3LocationResolution),
			DepartureTime: sim.SimTime(int64(parseFloatOr(row["departure_time"], 0))),
			CancelTime: sim.SimTime(int64(parseFloatOr(row["cancel_time"], 0))),
			Passengers: int(parseFloatOr(row["passengers"], 1)),
			Value: parseFloatOr(row["value"], 0),
			Membership: membership,
		}
		s, err = sim.AddRequest(s, r)
		if err != nil {
			return nil, fmt.Errorf("request %s: %w", r.ID, err)
		}
	}
	return s, nil
}

// === demand forecast CSV: lat,lon,weight rows folded into geo cells ===

func loadDemandForecast(path string, s *sim.SimulationState) (map[geo.GeoId]float64, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	weights := make(map[geo.GeoId]float64, len(rows))
	for _, row := range rows {
		pos := geo.Position{Lat: parseFloatOr(row["lat"], 0), Lon: parseFloatOr(row["lon"], 0)}
		cell := s.Grid.CellAt(pos, s.H3LocationResolution)
		weights[cell] += parseFloatOr(row["weight"], 0)
	}
	return weights, nil
}

// === manifest.csv: "path,md5" rows, mismatches logged not fatal ===

func verifyManifest(manifestPath, dir string) {
	rows, err := readCSV(manifestPath)
	if err != nil {
		logrus.Warnf("manifest %q unreadable, skipping checksum verification: %v", manifestPath, err)
		return
	}
	for _, row := range rows {
		path := resolve(dir, row["path"])
		sum, err := md5File(path)
		if err != nil {
			logrus.Warnf("manifest: could not checksum %q: %v", path, err)
			continue
		}
		if sum != row["md5"] {
			logrus.Warnf("manifest: %q checksum mismatch (got %s, want %s) -- continuing with the fixture as found", path, sum, row["md5"])
		}
	}
}

// === shared CSV helpers ===

// readCSV reads path as a header-keyed CSV, mirroring Python's
// csv.DictReader: the first row is the header, every subsequent row
// becomes a map[header]value. Blank trailing lines are skipped.
func readCSV(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	header, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, err
	}

	var rows []map[string]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseFloatOr(raw string, fallback float64) float64 {
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}

func md5File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// nonePlaceholder normalizes the original source's "none"/empty station_id
// convention (confirmed against its own Base.from_row test fixtures) to Go's
// empty-string "no co-located station" sentinel.
func nonePlaceholder(raw string) string {
	if raw == "none" {
		return ""
	}
	return raw
}
