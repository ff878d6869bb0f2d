package model

// Trip is a timetabled passenger trip.
type Trip struct {
	Index         int
	ID            string
	StartTime     int64
	EndTime       int64
	StartLocation int
	EndLocation   int
	LineID        string
}

// Maintenance is a scheduled maintenance slot, optionally pre-assigned
// to a specific vehicle.
type Maintenance struct {
	Index            int
	ID               string
	StartTime        int64
	EndTime          int64
	Location         int
	AssignedVehicle  int // -1 if free (not pre-assigned)
}

// Trips owns the closed universe of Trip records, held in the order
// they were added (not sorted); time-ordered lookup goes through the
// schedule graph's trip sequence.
type Trips struct {
	items []Trip
	byID  map[string]int
}

// NewTrips builds an empty Trips registry.
func NewTrips() *Trips { return &Trips{byID: make(map[string]int)} }

// Add registers a new Trip at the next dense index.
func (t *Trips) Add(tr Trip) (int, error) {
	if _, ok := t.byID[tr.ID]; ok {
		return 0, NewDataError("trips", "duplicate trip id "+tr.ID)
	}
	idx := len(t.items)
	tr.Index = idx
	t.items = append(t.items, tr)
	t.byID[tr.ID] = idx
	return idx, nil
}

// IndexOf resolves a trip id to its dense index; a miss is a LogicError.
func (t *Trips) IndexOf(id string) (int, error) {
	idx, ok := t.byID[id]
	if !ok {
		return 0, NewLogicError("Trips.IndexOf", "unknown trip id "+id)
	}
	return idx, nil
}

// Get returns the Trip at the given dense index.
func (t *Trips) Get(idx int) Trip { return t.items[idx] }

// Len returns the number of registered trips.
func (t *Trips) Len() int { return len(t.items) }

// All returns the full slice of trips (read-only use expected).
func (t *Trips) All() []Trip { return t.items }

// Maintenances owns the closed universe of Maintenance records.
type Maintenances struct {
	items []Maintenance
	byID  map[string]int
}

// NewMaintenances builds an empty Maintenances registry.
func NewMaintenances() *Maintenances { return &Maintenances{byID: make(map[string]int)} }

// Add registers a new Maintenance at the next dense index.
func (m *Maintenances) Add(mt Maintenance) (int, error) {
	if _, ok := m.byID[mt.ID]; ok {
		return 0, NewDataError("maintenances", "duplicate maintenance id "+mt.ID)
	}
	idx := len(m.items)
	mt.Index = idx
	m.items = append(m.items, mt)
	m.byID[mt.ID] = idx
	return idx, nil
}

// IndexOf resolves a maintenance id to its dense index; a miss is a LogicError.
func (m *Maintenances) IndexOf(id string) (int, error) {
	idx, ok := m.byID[id]
	if !ok {
		return 0, NewLogicError("Maintenances.IndexOf", "unknown maintenance id "+id)
	}
	return idx, nil
}

// Get returns the Maintenance at the given dense index.
func (m *Maintenances) Get(idx int) Maintenance { return m.items[idx] }

// Len returns the number of registered maintenances.
func (m *Maintenances) Len() int { return len(m.items) }

// All returns the full slice of maintenances (read-only use expected).
func (m *Maintenances) All() []Maintenance { return m.items }

// PreAssigned returns the indices of maintenances with a fixed vehicle.
func (m *Maintenances) PreAssigned() []int {
	var out []int
	for i, mt := range m.items {
		if mt.AssignedVehicle >= 0 {
			out = append(out, i)
		}
	}
	return out
}
