// Package branch implements the branch-and-price tree's branching
// state (spec §4 C4): tagged branch decisions, per-vehicle fixing
// windows, and the branch-and-bound node that accumulates them.
package branch

import "fmt"

// Kind tags the shape of a single branching decision. Per spec §4.4,
// branching happens on three fractional structures: which vehicle
// covers which trip, whether a charger-capacity row is violated, and
// whether a vehicle attends a given maintenance slot.
type Kind uint8

const (
	// KindVehicleTrip forces (Allow=true) or forbids (Allow=false) a
	// specific vehicle from covering a specific trip.
	KindVehicleTrip Kind = iota
	// KindVehicleMaintenance forces or forbids a vehicle/maintenance pairing.
	KindVehicleMaintenance
	// KindChargerCapacity splits a fractional charger-capacity row into
	// a tighter upper bound (Allow=true branch raises the floor,
	// Allow=false branch lowers the ceiling) over [WindowStart,WindowEnd).
	KindChargerCapacity
)

// String renders a human-readable tag.
func (k Kind) String() string {
	switch k {
	case KindVehicleTrip:
		return "VEHICLE_TRIP"
	case KindVehicleMaintenance:
		return "VEHICLE_MAINTENANCE"
	case KindChargerCapacity:
		return "CHARGER_CAPACITY"
	default:
		return "UNKNOWN"
	}
}

// Branch is one tagged decision in a branch-and-bound node's path from
// the root. Fields not relevant to Kind are left zero.
type Branch struct {
	Kind Kind

	Vehicle     int // KindVehicleTrip, KindVehicleMaintenance
	Trip        int // KindVehicleTrip
	Maintenance int // KindVehicleMaintenance
	Allow       bool

	Charger     int // KindChargerCapacity
	WindowStart int64
	WindowEnd   int64
	Bound       int // tightened capacity bound

	// FractionalValue is the LP relaxation value this branch was split
	// from, used for priority ordering (spec §4.4: "branch on the most
	// fractional structure first").
	FractionalValue float64
}

// String renders a branch for logging/debugging.
func (b Branch) String() string {
	switch b.Kind {
	case KindVehicleTrip:
		return fmt.Sprintf("VEHICLE_TRIP(v=%d,t=%d,allow=%v)", b.Vehicle, b.Trip, b.Allow)
	case KindVehicleMaintenance:
		return fmt.Sprintf("VEHICLE_MAINTENANCE(v=%d,m=%d,allow=%v)", b.Vehicle, b.Maintenance, b.Allow)
	case KindChargerCapacity:
		return fmt.Sprintf("CHARGER_CAPACITY(c=%d,[%d,%d),bound=%d)", b.Charger, b.WindowStart, b.WindowEnd, b.Bound)
	default:
		return "UNKNOWN_BRANCH"
	}
}

// FractionalDistance measures how far a fractional value sits from the
// nearest integer, the standard "most fractional" branching score
// (closer to 0.5 is more fractional, hence a higher score).
func FractionalDistance(value float64) float64 {
	frac := value - float64(int(value))
	if frac < 0 {
		frac += 1
	}
	if frac > 0.5 {
		return 1 - frac
	}
	return frac
}
