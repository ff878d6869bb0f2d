package model

// Fleet bundles the closed-universe registries loaded once per run:
// locations/travel matrix, chargers, vehicles, trips, maintenances,
// plus the persistent schedule graph they all feed into.
type Fleet struct {
	Network      *Network
	Chargers     *Chargers
	Vehicles     *Vehicles
	Trips        *Trips
	Maintenances *Maintenances
	Graph        *ScheduleGraph
}

// NewFleet builds an empty Fleet with a schedule graph sized for
// nVehicles. Call Network.Finalize() once loading is complete.
func NewFleet(nVehicles int) *Fleet {
	return &Fleet{
		Network:      NewNetwork(),
		Chargers:     NewChargers(),
		Vehicles:     NewVehicles(),
		Trips:        NewTrips(),
		Maintenances: NewMaintenances(),
		Graph:        NewScheduleGraph(nVehicles),
	}
}

// SeedTripAndMaintenanceVertices creates one schedule-graph vertex per
// trip and per maintenance slot in the closed universe, ready for
// horizon.NewWindow's time-ranged lookups to find. Trips and
// maintenances are known for the whole run up front (spec §6's input
// schemas are loaded once), so this runs once before the rolling
// planning-horizon loop begins, not per horizon.
func (f *Fleet) SeedTripAndMaintenanceVertices() {
	for _, t := range f.Trips.All() {
		act := NewTripActivity(t)
		act.DistanceM = f.Network.DistanceMetres(t.StartLocation, t.EndLocation)
		act.DurationSec = f.Network.DurationSeconds(t.StartLocation, t.EndLocation)
		f.Graph.AddVertex(act)
	}
	for _, m := range f.Maintenances.All() {
		f.Graph.AddVertex(NewMaintenanceActivity(m))
	}
}

// SeedChargerLattice creates, for every charger, one PUT_ON_CHARGE/
// TAKE_OFF_CHARGE vertex pair at every spacingSec instant in
// [start, end], giving the pricing problem a fixed, evenly-spaced set
// of candidate charging-session boundaries to choose from (spec §3:
// "put-on/take-off lattices... exactly aligned in time"). Run once,
// up front, spanning the whole run rather than per horizon, for the
// same reason as SeedTripAndMaintenanceVertices.
func (f *Fleet) SeedChargerLattice(start, end, spacingSec int64) {
	if spacingSec <= 0 {
		spacingSec = 1
	}
	for _, ch := range f.Chargers.All() {
		for t := start; t <= end; t += spacingSec {
			f.Graph.AddVertex(NewChargeBoundaryActivity(ActivityPutOnCharge, ch.Location, t, ch.Index))
			f.Graph.AddVertex(NewChargeBoundaryActivity(ActivityTakeOffCharge, ch.Location, t, ch.Index))
		}
	}
}

// SeedInitialVertices creates one START_SCHEDULE vertex per vehicle at
// its initial time/location (derived from its initial charger), ready
// to be the first node of the vehicle's committed path.
func (f *Fleet) SeedInitialVertices() error {
	for _, v := range f.Vehicles.All() {
		loc := -1
		if v.InitialCharger >= 0 {
			loc = f.Chargers.Get(v.InitialCharger).Location
		} else {
			return NewDataError("vehicles", "vehicle "+v.ID+" has no initial charger")
		}
		act := NewStartScheduleActivity(v.Index, loc, v.InitialTime)
		vertexIdx := f.Graph.AddVertex(act)
		// A zero-wait self-arc seeds the path so LastVertex/ReplayPath
		// have a well-defined starting point without a dangling arc.
		arcIdx := f.Graph.AddArc(vertexIdx, vertexIdx, 0)
		if err := f.Graph.CommitPath(v.Index, []int{arcIdx}); err != nil {
			return err
		}
	}
	return nil
}
