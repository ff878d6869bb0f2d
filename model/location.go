package model

import "math"

// LocationType tags what a Location is used for.
type LocationType uint8

const (
	LocationUndefined LocationType = iota
	LocationStop
	LocationCharger
	LocationMaintenance
)

// String renders the CSV token for a LocationType.
func (t LocationType) String() string {
	switch t {
	case LocationStop:
		return "Stop"
	case LocationCharger:
		return "Charger"
	case LocationMaintenance:
		return "Maintenance"
	default:
		return "Undefined"
	}
}

// ParseLocationType parses the CSV token for a LocationType.
func ParseLocationType(s string) (LocationType, error) {
	switch s {
	case "Stop":
		return LocationStop, nil
	case "Charger":
		return LocationCharger, nil
	case "Maintenance":
		return LocationMaintenance, nil
	case "Undefined":
		return LocationUndefined, nil
	default:
		return LocationUndefined, NewDataError("locations", "unknown location type "+s)
	}
}

// InfDistance is the sentinel used for an unknown travel-matrix pair.
const InfDistance = math.MaxUint32

// Location is an immutable point of interest: a stop, a charger site or
// a maintenance depot. Distances/durations to other locations are kept
// out-of-line in a Network so that Location stays small and copyable.
type Location struct {
	Index int
	ID    string
	Name  string
	Type  LocationType
}

// Network owns the closed universe of Locations plus the dense
// distance/duration matrix between them. Unknown pairs read as
// InfDistance / InfDistance. The matrix is not assumed symmetric.
type Network struct {
	locations []Location
	byID      map[string]int

	// row-major, size n*n; durSec[i*n+j] / distM[i*n+j].
	n       int
	durSec  []uint32
	distM   []uint32
}

// NewNetwork builds an empty Network ready for AddLocation calls.
func NewNetwork() *Network {
	return &Network{byID: make(map[string]int)}
}

// AddLocation appends a new Location, assigning it the next dense index.
// Returns a DataError if the id was already registered.
func (n *Network) AddLocation(id, name string, typ LocationType) (int, error) {
	if _, ok := n.byID[id]; ok {
		return 0, NewDataError("locations", "duplicate location id "+id)
	}
	idx := len(n.locations)
	n.locations = append(n.locations, Location{Index: idx, ID: id, Name: name, Type: typ})
	n.byID[id] = idx
	return idx, nil
}

// Finalize closes the id universe and allocates the dense travel
// matrix, pre-filled with InfDistance. Must be called once after all
// AddLocation calls and before any SetTravel/DistanceMetres/
// DurationSeconds call.
func (n *Network) Finalize() {
	n.n = len(n.locations)
	n.durSec = make([]uint32, n.n*n.n)
	n.distM = make([]uint32, n.n*n.n)
	for i := range n.durSec {
		n.durSec[i] = InfDistance
		n.distM[i] = InfDistance
	}
	for i := 0; i < n.n; i++ {
		n.durSec[i*n.n+i] = 0
		n.distM[i*n.n+i] = 0
	}
}

// SetTravel records the duration/distance for the ordered pair (from,to).
func (n *Network) SetTravel(from, to int, durationSec, distanceM uint32) {
	n.durSec[from*n.n+to] = durationSec
	n.distM[from*n.n+to] = distanceM
}

// IndexOf resolves a location id to its dense index. A miss is a
// LogicError: the id universe is closed after Finalize.
func (n *Network) IndexOf(id string) (int, error) {
	idx, ok := n.byID[id]
	if !ok {
		return 0, NewLogicError("Network.IndexOf", "unknown location id "+id)
	}
	return idx, nil
}

// Location returns the Location at the given dense index.
func (n *Network) Location(idx int) Location { return n.locations[idx] }

// Len returns the number of registered locations.
func (n *Network) Len() int { return len(n.locations) }

// DurationSeconds returns the travel duration from-&gt;to, or InfDistance
// if unknown.
func (n *Network) DurationSeconds(from, to int) uint32 {
	if from == to {
		return 0
	}
	return n.durSec[from*n.n+to]
}

// DistanceMetres returns the travel distance from-&gt;to, or InfDistance
// if unknown.
func (n *Network) DistanceMetres(from, to int) uint32 {
	if from == to {
		return 0
	}
	return n.distM[from*n.n+to]
}

// Reachable reports whether the travel duration from->to is known,
// i.e. not the infinity sentinel.
func (n *Network) Reachable(from, to int) bool {
	return n.DurationSeconds(from, to) != InfDistance
}
