package segmentconn

import (
	"github.com/evfleet/rotor/branch"
	"github.com/evfleet/rotor/charging"
	"github.com/evfleet/rotor/model"
	"github.com/evfleet/rotor/pricing"
	"github.com/evfleet/rotor/pricing/segment"
	"github.com/evfleet/rotor/rcsp"
)

// State is the connection-based resource container (spec §4.3.2):
// reduced cost is tracked by rcsp.Label.Cost directly, so State only
// carries the dimensions dominance and extension actually need. No soc
// dimension: the Fix-at-end oracle leaves no soc freedom once an
// inter-piece charging session is fixed.
type State struct {
	Timestamp             int64
	DistanceSinceMaint    int64
	MaxStartTime          int64 // +Inf sentinel: MaxTimestamp
	IsExemptFromDominance bool

	// Cost is the real (non-reduced) objective contribution accumulated
	// so far; rcsp.Label.Cost carries the duals-adjusted reduced cost
	// this network's Extend drives dominance with (spec §4.3.1's
	// separate cost/reduced_cost resource dimensions).
	Cost float64
}

// MaxTimestamp is the sentinel meaning "no pending fixed vertex ahead".
const MaxTimestamp = int64(1) << 62

type pieceVertex struct {
	startLoc, endLoc int
	startTime        int64
	startCharger     int
	endCharger       int
	hasMaintenance   bool
	piece            segment.Piece
	activities       []segment.Node
}

type arcKind uint8

const (
	arcEntry arcKind = iota
	arcInterPiece
	arcToSink
)

type arcData struct {
	to   int
	kind arcKind
}

// Network is the connection graph for one vehicle: one vertex per non-
// dominated piece of every segment, a vehicle-start vertex, and a
// sink, decorating rcsp.Network[State] (spec §4.3.2).
type Network struct {
	fleet     *model.Fleet
	vehicle   model.Vehicle
	duals     *pricing.Duals
	access    *pricing.Access
	costModel pricing.CostModel

	hasUnassignedMaintenance bool

	pieces       []pieceVertex
	sourceVertex int
	sinkVertex   int
	out          map[int][]int
	arcList      []arcData
	arcFrom      []int
}

// chargerLocations maps a location index to the charger index sitting
// there, or -1 if the location has no charger.
func chargerLocations(fleet *model.Fleet) map[int]int {
	m := make(map[int]int)
	for c := 0; c < fleet.Chargers.Len(); c++ {
		m[fleet.Chargers.Get(c).Location] = c
	}
	return m
}

// Build constructs the connection graph for one vehicle over the given
// segments. Callers apply branch-derived access restrictions via
// Access() before running the label-setting engine.
func Build(fleet *model.Fleet, vehicle model.Vehicle, duals *pricing.Duals, segments []Segment, hasUnassignedMaintenance bool, costModel pricing.CostModel) *Network {
	n := &Network{
		fleet: fleet, vehicle: vehicle, duals: duals, costModel: costModel,
		hasUnassignedMaintenance: hasUnassignedMaintenance,
		out:                      make(map[int][]int),
	}

	chargers := chargerLocations(fleet)

	n.sourceVertex = n.addVertex(pieceVertex{})
	n.sinkVertex = n.addVertex(pieceVertex{})

	for _, seg := range segments {
		for _, p := range seg.Graph.NonDominatedPieces() {
			if len(p.NodeIDs) == 0 {
				continue
			}
			first := seg.Graph.Node(p.NodeIDs[0])
			last := seg.Graph.Node(p.NodeIDs[len(p.NodeIDs)-1])
			startCh, hasStartCh := chargers[first.Location]
			endCh, hasEndCh := chargers[last.Location]
			if !hasStartCh {
				startCh = -1
			}
			if !hasEndCh {
				endCh = -1
			}
			hasMaint := false
			for _, id := range p.NodeIDs {
				if seg.Graph.Node(id).MaintenanceIndex >= 0 {
					hasMaint = true
					break
				}
			}
			acts := make([]segment.Node, len(p.NodeIDs))
			for i, id := range p.NodeIDs {
				acts[i] = seg.Graph.Node(id)
			}
			n.addVertex(pieceVertex{
				startLoc: first.Location, endLoc: last.Location,
				startTime: first.StartTime, startCharger: startCh, endCharger: endCh,
				hasMaintenance: hasMaint, piece: p, activities: acts,
			})
		}
	}

	n.connectAll()
	n.access = pricing.NewAccess(len(n.pieces), len(n.arcList), fleet.Vehicles.Len())
	return n
}

// Access exposes the vertex/arc access table for branch projection.
func (n *Network) Access() *pricing.Access { return n.access }

func (n *Network) addVertex(v pieceVertex) int {
	idx := len(n.pieces)
	n.pieces = append(n.pieces, v)
	return idx
}

func (n *Network) addArc(from, to int, kind arcKind) {
	idx := len(n.arcList)
	n.arcList = append(n.arcList, arcData{to: to, kind: kind})
	n.arcFrom = append(n.arcFrom, from)
	n.out[from] = append(n.out[from], idx)
}

// connectAll wires the vehicle start to every piece it can enter, every
// feasible inter-piece connection, and every piece to the sink.
func (n *Network) connectAll() {
	for i := 2; i < len(n.pieces); i++ { // 0 = source, 1 = sink
		n.addArc(n.sourceVertex, i, arcEntry)
		n.addArc(i, n.sinkVertex, arcToSink)
	}

	for i := 2; i < len(n.pieces); i++ {
		from := n.pieces[i]
		if from.endCharger < 0 {
			continue
		}
		for j := 2; j < len(n.pieces); j++ {
			if i == j {
				continue
			}
			to := n.pieces[j]
			if to.startCharger < 0 || from.endCharger != to.startCharger {
				continue
			}
			if to.startTime <= from.piece.EndTime {
				continue
			}
			n.addArc(i, j, arcInterPiece)
		}
	}
}

// Successors implements rcsp.Network.
func (n *Network) Successors(vertex int) []int { return n.out[vertex] }

// ArcHead implements rcsp.Network.
func (n *Network) ArcHead(arc int) int { return n.arcList[arc].to }

// IsSink implements rcsp.Network.
func (n *Network) IsSink(vertex int) bool { return vertex == n.sinkVertex }

// SourceVertex is the vehicle's start vertex, the label-setting entry point.
func (n *Network) SourceVertex() int { return n.sourceVertex }

// InitialState builds the seed label state for this vehicle.
func (n *Network) InitialState(clock int64, distanceSinceMaint int64) State {
	return State{Timestamp: clock, DistanceSinceMaint: distanceSinceMaint, MaxStartTime: MaxTimestamp}
}

// Extend implements rcsp.Network: dispatches on the arc's kind.
func (n *Network) Extend(label *rcsp.Label[State], arc int) (State, float64, bool) {
	from := n.arcFrom[arc]
	a := n.arcList[arc]
	if !n.access.ArcAllowed(arc, n.vehicle.Index) || !n.access.VertexAllowed(a.to, n.vehicle.Index) {
		return State{}, 0, false
	}

	switch a.kind {
	case arcToSink:
		return n.extendSink(label)
	case arcEntry:
		return n.extendIntoPiece(label, n.pieces[a.to])
	default:
		return n.extendInterPiece(label, n.pieces[from], n.pieces[a.to])
	}
}

func (n *Network) extendIntoPiece(label *rcsp.Label[State], to pieceVertex) (State, float64, bool) {
	s := label.State
	if s.MaxStartTime != MaxTimestamp && to.startTime > s.MaxStartTime {
		return State{}, 0, false
	}

	distSinceMaint := s.DistanceSinceMaint + to.piece.DistanceM
	if n.isMaintenancePiece(to) {
		distSinceMaint = 0
	}
	cost, penalty := n.maintenancePenalty(s.DistanceSinceMaint, distSinceMaint, to)

	next := State{
		Timestamp:          to.piece.EndTime,
		DistanceSinceMaint: distSinceMaint,
		MaxStartTime:       s.MaxStartTime,
		Cost:               s.Cost + cost,
	}
	return next, -to.piece.AccumulatedDual + penalty, true
}

// maintenancePenalty returns the real-cost and reduced-cost contribution
// of the convex maintenance-overdue penalty (spec §4.3.1/§6's
// cost_maintenance_penalty_lambda), identical for both arc kinds: this
// variant carries no per-arc deadleg distance of its own (pieces only
// track each activity's own travel distance, spec/segment.Node's
// DistanceM doc comment), so unlike pricing/timespace no DeadlegCost
// term applies here.
func (n *Network) maintenancePenalty(before, after int64, to pieceVertex) (cost, reducedDelta float64) {
	if !n.hasUnassignedMaintenance || n.isMaintenancePiece(to) {
		return 0, 0
	}
	dOld := float64(before)
	dNew := float64(after)
	penalty := 0.5 * n.costModel.MaintenancePenaltyLambda * (dNew*dNew - dOld*dOld)
	return penalty, penalty
}

func (n *Network) extendInterPiece(label *rcsp.Label[State], from, to pieceVertex) (State, float64, bool) {
	s := label.State
	if s.MaxStartTime != MaxTimestamp && to.startTime > s.MaxStartTime {
		return State{}, 0, false
	}

	charger := n.fleet.Chargers.Get(from.endCharger)
	// fixed_discharge: the oracle is evaluated against exactly the next
	// piece's own travel discharge, since no soc dimension survives
	// between pieces to carry a real arrival SOC (spec §4.3.2).
	needed := int(n.vehicle.DischargeForMetres(uint32(to.piece.DistanceM)))
	targetSOC := n.vehicle.BatteryMinKWh + needed
	if targetSOC > n.vehicle.BatteryMaxKWh {
		targetSOC = n.vehicle.BatteryMaxKWh
	}
	plan := charging.Evaluate(charging.FixAtEnd, n.vehicle, charger, n.vehicle.BatteryMinKWh, targetSOC, from.piece.EndTime, to.startTime, n.costModel.PutOnTechSec, n.costModel.TakeOffTechSec)
	if !plan.Feasible {
		return State{}, 0, false
	}

	capacityCharge := n.duals.ChargerIntervalDual(from.endCharger, plan.PutOnTime, plan.TakeOffTime)

	distSinceMaint := s.DistanceSinceMaint + to.piece.DistanceM
	if n.isMaintenancePiece(to) {
		distSinceMaint = 0
	}
	cost, penalty := n.maintenancePenalty(s.DistanceSinceMaint, distSinceMaint, to)

	next := State{
		Timestamp:          to.piece.EndTime,
		DistanceSinceMaint: distSinceMaint,
		MaxStartTime:       s.MaxStartTime,
		Cost:               s.Cost + cost,
	}
	return next, -to.piece.AccumulatedDual - capacityCharge + penalty, true
}

func (n *Network) extendSink(label *rcsp.Label[State]) (State, float64, bool) {
	s := label.State
	if s.MaxStartTime != MaxTimestamp {
		return State{}, 0, false
	}
	s.IsExemptFromDominance = true
	return s, 0, true
}

func (n *Network) isMaintenancePiece(p pieceVertex) bool {
	return p.hasMaintenance
}

// Dominates implements rcsp.Network (spec §4.3.2's dominance rule: no
// soc dimension, since the Fix-at-end oracle leaves no soc freedom).
func (n *Network) Dominates(a, b State) bool {
	if b.IsExemptFromDominance {
		return false
	}
	if n.hasUnassignedMaintenance && a.DistanceSinceMaint > b.DistanceSinceMaint {
		return false
	}
	return true
}

// ApplyBranch revokes this vehicle's access to every piece covering a
// trip/maintenance activity a branch-and-bound node has forbidden it
// from, so pricing never regenerates a column FilterVars would just
// clamp back out of the master LP (spec §4.3.4).
func (n *Network) ApplyBranch(node *branch.Node) {
	for i, v := range n.pieces {
		for _, act := range v.activities {
			if act.TripIndex >= 0 && !node.VehicleMayCoverTrip(n.vehicle.Index, act.TripIndex) {
				n.access.RevokeVertex(i, n.vehicle.Index)
			}
			if act.MaintenanceIndex >= 0 && !node.VehicleMayAttendMaintenance(n.vehicle.Index, act.MaintenanceIndex) {
				n.access.RevokeVertex(i, n.vehicle.Index)
			}
		}
	}
}

// BuildSchedule reconstructs a pricing.Schedule from a sink label's
// parent chain, expanding each traversed piece into its underlying
// trip/maintenance activities and each inter-piece arc into the
// charging session the Fix-at-end oracle committed it to.
func (n *Network) BuildSchedule(sink *rcsp.Label[State]) pricing.Schedule {
	type step struct {
		arc int
		lbl *rcsp.Label[State]
	}
	var steps []step
	for cur := sink; cur.Parent != nil; cur = cur.Parent {
		steps = append(steps, step{arc: cur.ParentArc, lbl: cur})
	}
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}

	var legs []pricing.Leg
	for _, st := range steps {
		a := n.arcList[st.arc]
		if a.kind == arcToSink {
			continue
		}
		to := n.pieces[a.to]

		if a.kind == arcInterPiece {
			from := n.pieces[n.arcFrom[st.arc]]
			charger := n.fleet.Chargers.Get(from.endCharger)
			needed := int(n.vehicle.DischargeForMetres(uint32(to.piece.DistanceM)))
			targetSOC := n.vehicle.BatteryMinKWh + needed
			if targetSOC > n.vehicle.BatteryMaxKWh {
				targetSOC = n.vehicle.BatteryMaxKWh
			}
			plan := charging.Evaluate(charging.FixAtEnd, n.vehicle, charger, n.vehicle.BatteryMinKWh, targetSOC, from.piece.EndTime, to.startTime, n.costModel.PutOnTechSec, n.costModel.TakeOffTechSec)
			legs = append(legs, pricing.Leg{
				Kind: pricing.LegCharging, TripIndex: -1, MaintenanceIndex: -1,
				Charger: from.endCharger, PutOnTime: plan.PutOnTime, TakeOffTime: plan.TakeOffTime,
				DeltaSOCKWh: plan.DeltaSOCKWh,
				StartTime:   plan.PutOnTime, EndTime: plan.TakeOffTime,
			})
		}

		for _, act := range to.activities {
			kind := pricing.LegTrip
			if act.MaintenanceIndex >= 0 {
				kind = pricing.LegMaintenance
			}
			legs = append(legs, pricing.Leg{
				Kind: kind, TripIndex: act.TripIndex, MaintenanceIndex: act.MaintenanceIndex,
				StartTime: act.StartTime, EndTime: act.EndTime,
			})
		}
	}

	return pricing.Schedule{
		Vehicle:     n.vehicle.Index,
		Legs:        legs,
		Cost:        sink.State.Cost,
		ReducedCost: sink.Cost,
	}
}
