package pricing

// LegKind tags one leg of a priced schedule.
type LegKind uint8

const (
	LegTrip LegKind = iota
	LegMaintenance
	LegDeadleg
	LegCharging
)

// Leg is one activity a priced schedule passes through, carrying
// enough information for colgen to materialise it as schedule-graph
// vertices/arcs and for master to build the column's row coverage.
type Leg struct {
	Kind LegKind

	// TripIndex/MaintenanceIndex are set for LegTrip/LegMaintenance,
	// -1 otherwise.
	TripIndex        int
	MaintenanceIndex int

	// Charger/PutOnTime/TakeOffTime/DeltaSOCKWh are set for LegCharging.
	Charger     int
	PutOnTime   int64
	TakeOffTime int64
	DeltaSOCKWh int

	StartTime int64
	EndTime   int64
}

// Schedule is one negative-reduced-cost vehicle rotation found by a
// pricing network (the Go analogue of the original's
// SubVehicleSchedule): the sequence of legs the vehicle would run,
// plus its direct cost and reduced cost at the duals it was priced
// against.
type Schedule struct {
	Vehicle     int
	Legs        []Leg
	Cost        float64
	ReducedCost float64
}

// Result is the outcome of pricing one vehicle: zero or more negative-
// reduced-cost schedules, plus whether this vehicle was priced to
// exhaustion (no label was dropped by the max-labels cap and the time
// budget did not expire) — feeds the solved-to-optimality flag that
// gates the Lagrangian lower bound (spec §4.3.5).
type Result struct {
	Vehicle       int
	Schedules     []Schedule
	SolvedOptimal bool
}
