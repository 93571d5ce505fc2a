package sim

// Op is a transactional state transformer: on success it returns a new
// state; on failure it returns (nil, err) and the caller must treat s as
// unchanged.
type Op func(s *SimulationState) (*SimulationState, error)

// Compose runs ops in sequence against s. If any op fails, Compose returns
// the ORIGINAL s (not any intermediate state) alongside the error: if any
// sub-op fails, the state returned is the one before the composite op, with
// no partial mutation.
func Compose(s *SimulationState, ops...Op) (*SimulationState, error) {
	current := s
	for _, op := range ops {
		next, err := op(current)
		if err != nil {
			return s, err
		}
		current = next
	}
	return current, nil
}

// === Vehicle ops ===

// AddVehicle inserts v into the entity map and both its indices. Fails on
// duplicate id.
func AddVehicle(s *SimulationState, v Vehicle) (*SimulationState, error) {
	if _, exists := s.vehicles[v.ID]; exists {
		return nil, newStateError("AddVehicle", "duplicate id "+v.ID)
	}

	vehicleIdx, err := s.VehicleIndex.Add(v.ID, v.Position)
	if err != nil {
		return nil, newStateError("AddVehicle", err.Error())
	}

	next := s.clone()
	next.vehicles = cloneVehicleMap(s.vehicles)
	next.vehicles[v.ID] = v
	next.vehicleIDs = append(append([]string{}, s.vehicleIDs...), v.ID)
	next.VehicleIndex = vehicleIdx
	return next, nil
}

// ModifyVehicle replaces the vehicle with the same id as v. Must preserve
// id; if v's geoid differs from the stored entity's, the index is updated
// in one step (remove-old, add-new).
func ModifyVehicle(s *SimulationState, v Vehicle) (*SimulationState, error) {
	existing, ok := s.vehicles[v.ID]
	if !ok {
		return nil, newStateError("ModifyVehicle", "no such id "+v.ID)
	}

	idx := s.VehicleIndex
	if existing.Position != v.Position {
		moved, err := idx.Move(v.ID, v.Position)
		if err != nil {
			return nil, newStateError("ModifyVehicle", err.Error())
		}
		idx = moved
	}

	next := s.clone()
	next.vehicles = cloneVehicleMap(s.vehicles)
	next.vehicles[v.ID] = v
	next.VehicleIndex = idx
	return next, nil
}

// RemoveVehicle deletes the vehicle by id from the entity map and both
// indices. Fails if the id is not present.
func RemoveVehicle(s *SimulationState, id string) (*SimulationState, error) {
	if _, ok := s.vehicles[id]; !ok {
		return nil, newStateError("RemoveVehicle", "no such id "+id)
	}

	idx, err := s.VehicleIndex.Remove(id)
	if err != nil {
		return nil, newStateError("RemoveVehicle", err.Error())
	}

	next := s.clone()
	next.vehicles = cloneVehicleMap(s.vehicles)
	delete(next.vehicles, id)
	next.vehicleIDs = removeID(s.vehicleIDs, id)
	next.VehicleIndex = idx
	return next, nil
}

// === Request ops ===

// AddRequest inserts r into the entity map and its index. Fails on
// duplicate id.
func AddRequest(s *SimulationState, r Request) (*SimulationState, error) {
	if _, exists := s.requests[r.ID]; exists {
		return nil, newStateError("AddRequest", "duplicate id "+r.ID)
	}

	idx, err := s.RequestIndex.Add(r.ID, r.Origin)
	if err != nil {
		return nil, newStateError("AddRequest", err.Error())
	}

	next := s.clone()
	next.requests = cloneRequestMap(s.requests)
	next.requests[r.ID] = r
	next.requestIDs = append(append([]string{}, s.requestIDs...), r.ID)
	next.RequestIndex = idx
	return next, nil
}

// ModifyRequest replaces the request with the same id as r.
func ModifyRequest(s *SimulationState, r Request) (*SimulationState, error) {
	existing, ok := s.requests[r.ID]
	if !ok {
		return nil, newStateError("ModifyRequest", "no such id "+r.ID)
	}

	idx := s.RequestIndex
	if existing.Origin != r.Origin {
		moved, err := idx.Move(r.ID, r.Origin)
		if err != nil {
			return nil, newStateError("ModifyRequest", err.Error())
		}
		idx = moved
	}

	next := s.clone()
	next.requests = cloneRequestMap(s.requests)
	next.requests[r.ID] = r
	next.RequestIndex = idx
	return next, nil
}

// RemoveRequest deletes the request by id.
func RemoveRequest(s *SimulationState, id string) (*SimulationState, error) {
	if _, ok := s.requests[id]; !ok {
		return nil, newStateError("RemoveRequest", "no such id "+id)
	}

	idx, err := s.RequestIndex.Remove(id)
	if err != nil {
		return nil, newStateError("RemoveRequest", err.Error())
	}

	next := s.clone()
	next.requests = cloneRequestMap(s.requests)
	delete(next.requests, id)
	next.requestIDs = removeID(s.requestIDs, id)
	next.RequestIndex = idx
	return next, nil
}

// === Station ops ===

// AddStation inserts st into the entity map and its index.
func AddStation(s *SimulationState, st Station) (*SimulationState, error) {
	if _, exists := s.stations[st.ID]; exists {
		return nil, newStateError("AddStation", "duplicate id "+st.ID)
	}

	idx, err := s.StationIndex.Add(st.ID, st.Position)
	if err != nil {
		return nil, newStateError("AddStation", err.Error())
	}

	next := s.clone()
	next.stations = cloneStationMap(s.stations)
	next.stations[st.ID] = st
	next.stationIDs = append(append([]string{}, s.stationIDs...), st.ID)
	next.StationIndex = idx
	return next, nil
}

// ModifyStation replaces the station with the same id as st. Station
// position never changes in practice, but the geoid-consistency discipline
// is kept symmetric with the other entity kinds.
func ModifyStation(s *SimulationState, st Station) (*SimulationState, error) {
	existing, ok := s.stations[st.ID]
	if !ok {
		return nil, newStateError("ModifyStation", "no such id "+st.ID)
	}

	idx := s.StationIndex
	if existing.Position != st.Position {
		moved, err := idx.Move(st.ID, st.Position)
		if err != nil {
			return nil, newStateError("ModifyStation", err.Error())
		}
		idx = moved
	}

	next := s.clone()
	next.stations = cloneStationMap(s.stations)
	next.stations[st.ID] = st
	next.StationIndex = idx
	return next, nil
}

// RemoveStation deletes the station by id.
func RemoveStation(s *SimulationState, id string) (*SimulationState, error) {
	if _, ok := s.stations[id]; !ok {
		return nil, newStateError("RemoveStation", "no such id "+id)
	}

	idx, err := s.StationIndex.Remove(id)
	if err != nil {
		return nil, newStateError("RemoveStation", err.Error())
	}

	next := s.clone()
	next.stations = cloneStationMap(s.stations)
	delete(next.stations, id)
	next.stationIDs = removeID(s.stationIDs, id)
	next.StationIndex = idx
	return next, nil
}

// === Base ops ===

// AddBase inserts b into the entity map and its index.
func AddBase(s *SimulationState, b Base) (*SimulationState, error) {
	if _, exists := s.bases[b.ID]; exists {
		return nil, newStateError("AddBase", "duplicate id "+b.ID)
	}

	idx, err := s.BaseIndex.Add(b.ID, b.Position)
	if err != nil {
		return nil, newStateError("AddBase", err.Error())
	}

	next := s.clone()
	next.bases = cloneBaseMap(s.bases)
	next.bases[b.ID] = b
	next.baseIDs = append(append([]string{}, s.baseIDs...), b.ID)
	next.BaseIndex = idx
	return next, nil
}

// ModifyBase replaces the base with the same id as b.
func ModifyBase(s *SimulationState, b Base) (*SimulationState, error) {
	existing, ok := s.bases[b.ID]
	if !ok {
		return nil, newStateError("ModifyBase", "no such id "+b.ID)
	}

	idx := s.BaseIndex
	if existing.Position != b.Position {
		moved, err := idx.Move(b.ID, b.Position)
		if err != nil {
			return nil, newStateError("ModifyBase", err.Error())
		}
		idx = moved
	}

	next := s.clone()
	next.bases = cloneBaseMap(s.bases)
	next.bases[b.ID] = b
	next.BaseIndex = idx
	return next, nil
}

// RemoveBase deletes the base by id.
func RemoveBase(s *SimulationState, id string) (*SimulationState, error) {
	if _, ok := s.bases[id]; !ok {
		return nil, newStateError("RemoveBase", "no such id "+id)
	}

	idx, err := s.BaseIndex.Remove(id)
	if err != nil {
		return nil, newStateError("RemoveBase", err.Error())
	}

	next := s.clone()
	next.bases = cloneBaseMap(s.bases)
	delete(next.bases, id)
	next.baseIDs = removeID(s.baseIDs, id)
	next.BaseIndex = idx
	return next, nil
}

// === map clone helpers (clone-on-write, stdlib fallback) ===

func cloneVehicleMap(m map[string]Vehicle) map[string]Vehicle {
	next := make(map[string]Vehicle, len(m)+1)
	for k, v := range m {
		next[k] = v
	}
	return next
}

func cloneRequestMap(m map[string]Request) map[string]Request {
	next := make(map[string]Request, len(m)+1)
	for k, v := range m {
		next[k] = v
	}
	return next
}

func cloneStationMap(m map[string]Station) map[string]Station {
	next := make(map[string]Station, len(m)+1)
	for k, v := range m {
		next[k] = v
	}
	return next
}

func cloneBaseMap(m map[string]Base) map[string]Base {
	next := make(map[string]Base, len(m)+1)
	for k, v := range m {
		next[k] = v
	}
	return next
}

func removeID(ids []string, target string) []string {
	next := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != target {
			next = append(next, id)
		}
	}
	return next
}
