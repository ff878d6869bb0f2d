package branch

import (
	"sort"

	"github.com/google/uuid"
)

// FixingWindow is a time window [Start, End]. No code in this module
// constructs or reads a FixingWindow; pricing prunes its network
// through Node's derived lookup maps.
type FixingWindow struct {
	Start, End int64
}

// Node is one branch-and-bound tree node: the accumulated branch list
// from the root, the derived per-vehicle/per-trip/per-maintenance
// lookup maps used by pricing to prune its network, and the LP lower
// bound computed for this node. A dedicated struct (rather than
// recomputing from the branch list on every access) keeps the hot path
// of repeated pricing calls O(1) per lookup.
type Node struct {
	ID     uuid.UUID
	Parent *Node
	Depth  int

	Branches []Branch

	// Derived lookup maps, rebuilt by Derive() whenever Branches changes.
	forcedVehicleTrip    map[[2]int]bool // [vehicle,trip] -> allowed
	forbiddenVehicleTrip map[[2]int]bool
	forcedVehicleMaint   map[[2]int]bool
	forbiddenVehicleMaint map[[2]int]bool
	chargerBounds        map[int][]Branch // charger -> capacity branches, time order

	LowerBound float64
	Pruned     bool

	// preferredOptions holds the ranked candidate list last stored by
	// SetPreferredOptions and returned by PreferredOptions. bnp's strong
	// branching neither fills nor reads it, so each evaluation of a node
	// scores its candidates afresh.
	preferredOptions []Candidate
}

// Candidate is a scored branching option considered by strong
// branching before committing to a split.
type Candidate struct {
	Branch Branch
	Score  float64
}

// NewRoot builds the tree's root node with no branches and a lower
// bound of zero.
func NewRoot() *Node {
	n := &Node{ID: uuid.New(), LowerBound: 0}
	n.Derive()
	return n
}

// Child builds a new node extending this one with one additional
// branch decision.
func (n *Node) Child(b Branch) *Node {
	branches := make([]Branch, len(n.Branches)+1)
	copy(branches, n.Branches)
	branches[len(n.Branches)] = b

	child := &Node{
		ID:       uuid.New(),
		Parent:   n,
		Depth:    n.Depth + 1,
		Branches: branches,
	}
	child.Derive()
	return child
}

// Derive rebuilds the lookup maps from Branches. Called by Child and
// NewRoot; exported so a node deserialized from a checkpoint can
// rebuild its maps without replaying Child calls.
func (n *Node) Derive() {
	n.forcedVehicleTrip = make(map[[2]int]bool)
	n.forbiddenVehicleTrip = make(map[[2]int]bool)
	n.forcedVehicleMaint = make(map[[2]int]bool)
	n.forbiddenVehicleMaint = make(map[[2]int]bool)
	n.chargerBounds = make(map[int][]Branch)

	for _, b := range n.Branches {
		switch b.Kind {
		case KindVehicleTrip:
			key := [2]int{b.Vehicle, b.Trip}
			if b.Allow {
				n.forcedVehicleTrip[key] = true
			} else {
				n.forbiddenVehicleTrip[key] = true
			}
		case KindVehicleMaintenance:
			key := [2]int{b.Vehicle, b.Maintenance}
			if b.Allow {
				n.forcedVehicleMaint[key] = true
			} else {
				n.forbiddenVehicleMaint[key] = true
			}
		case KindChargerCapacity:
			n.chargerBounds[b.Charger] = append(n.chargerBounds[b.Charger], b)
		}
	}
	for _, list := range n.chargerBounds {
		sort.Slice(list, func(i, j int) bool { return list[i].WindowStart < list[j].WindowStart })
	}
}

// VehicleMayCoverTrip reports whether, under this node's branches, the
// given vehicle is still permitted to cover the given trip.
func (n *Node) VehicleMayCoverTrip(vehicle, trip int) bool {
	key := [2]int{vehicle, trip}
	if n.forbiddenVehicleTrip[key] {
		return false
	}
	return true
}

// VehicleForcedOnTrip reports whether this node forces vehicle onto trip.
func (n *Node) VehicleForcedOnTrip(vehicle, trip int) bool {
	return n.forcedVehicleTrip[[2]int{vehicle, trip}]
}

// VehicleMayAttendMaintenance reports whether, under this node's
// branches, the vehicle is still permitted to attend the maintenance.
func (n *Node) VehicleMayAttendMaintenance(vehicle, maintenance int) bool {
	key := [2]int{vehicle, maintenance}
	if n.forbiddenVehicleMaint[key] {
		return false
	}
	return true
}

// VehicleForcedOnMaintenance reports whether this node forces vehicle
// onto the given maintenance slot.
func (n *Node) VehicleForcedOnMaintenance(vehicle, maintenance int) bool {
	return n.forcedVehicleMaint[[2]int{vehicle, maintenance}]
}

// ChargerCapacityBound returns the tightest applicable capacity bound
// for a charger at time t, and whether any branch constrains it.
func (n *Node) ChargerCapacityBound(charger int, t int64) (int, bool) {
	branches, ok := n.chargerBounds[charger]
	if !ok {
		return 0, false
	}
	best := -1
	found := false
	for _, b := range branches {
		if b.WindowStart <= t && t < b.WindowEnd {
			if !found || b.Bound < best {
				best = b.Bound
				found = true
			}
		}
	}
	return best, found
}

// SetPreferredOptions caches the strong-branching candidate ranking
// computed for this node.
func (n *Node) SetPreferredOptions(opts []Candidate) { n.preferredOptions = opts }

// PreferredOptions returns the cached strong-branching candidate
// ranking, if one was computed, along with whether the cache was hit.
func (n *Node) PreferredOptions() ([]Candidate, bool) {
	if n.preferredOptions == nil {
		return nil, false
	}
	return n.preferredOptions, true
}

// InjectPreAssignedMaintenance adds one forced KindVehicleMaintenance
// branch per pre-assigned maintenance slot directly to the root node,
// so the pricing problem never has to discover these assignments
// (spec §4.4: "pre-assigned maintenance is injected as root branches,
// not left to column generation").
func InjectPreAssignedMaintenance(root *Node, assignments map[int]int) *Node {
	node := root
	for maintenance, vehicle := range assignments {
		node = node.Child(Branch{
			Kind:        KindVehicleMaintenance,
			Vehicle:     vehicle,
			Maintenance: maintenance,
			Allow:       true,
		})
	}
	return node
}
