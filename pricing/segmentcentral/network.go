// Package segmentcentral implements pricing's segment network,
// centralised variant (spec §4.3.3, variant C): the same segment
// pieces as pricing/segmentconn, but routed through one central
// charging vertex per charger instead of one arc per feasible piece
// pair, trading arc count for an extra dominance dimension.
package segmentcentral

import (
	"github.com/evfleet/rotor/branch"
	"github.com/evfleet/rotor/charging"
	"github.com/evfleet/rotor/model"
	"github.com/evfleet/rotor/pricing"
	"github.com/evfleet/rotor/pricing/segment"
	"github.com/evfleet/rotor/pricing/segmentconn"
	"github.com/evfleet/rotor/rcsp"
)

// State is the centralised resource container (spec §4.3.3): the same
// shape as segmentconn's, but Timestamp and MaxStartTime both become
// dominance-relevant dimensions here since a label's last-piece end
// time now governs which central vertex it can usefully reach next.
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

type vertexKind uint8

const (
	vertexStart vertexKind = iota
	vertexCentral
	vertexPiece
	vertexSink
)

type pieceData struct {
	startCharger, endCharger int
	startTime                int64
	hasMaintenance           bool
	piece                    segment.Piece
	activities               []segment.Node
}

type vertexData struct {
	kind    vertexKind
	charger int // set for vertexCentral and vertexStart (the vehicle's starting charger)
	p       pieceData
}

type arcKind uint8

const (
	arcStartToCentral arcKind = iota
	arcCentralToPiece
	arcPieceToCentral
	arcPieceToSink
)

type arcData struct {
	to   int
	kind arcKind
}

// Network is the centralised connection graph for one vehicle,
// decorating rcsp.Network[State] (spec §4.3.3).
type Network struct {
	fleet     *model.Fleet
	vehicle   model.Vehicle
	duals     *pricing.Duals
	access    *pricing.Access
	costModel pricing.CostModel

	hasUnassignedMaintenance bool

	vertices     []vertexData
	arcList      []arcData
	arcFrom      []int
	out          map[int][]int
	sourceVertex int
	sinkVertex   int
	centralOf    map[int]int // charger index -> its central vertex
}

// Build constructs the centralised connection graph for one vehicle
// starting at startCharger, over the given segments. Callers apply
// branch-derived access restrictions via Access() before running the
// label-setting engine.
func Build(fleet *model.Fleet, vehicle model.Vehicle, startCharger int, duals *pricing.Duals, segments []segmentconn.Segment, hasUnassignedMaintenance bool, costModel pricing.CostModel) *Network {
	n := &Network{
		fleet: fleet, vehicle: vehicle, duals: duals, costModel: costModel,
		hasUnassignedMaintenance: hasUnassignedMaintenance,
		out:                      make(map[int][]int),
		centralOf:                make(map[int]int),
	}

	n.sourceVertex = n.addVertex(vertexData{kind: vertexStart, charger: startCharger})
	n.sinkVertex = n.addVertex(vertexData{kind: vertexSink})

	for c := 0; c < fleet.Chargers.Len(); c++ {
		n.centralOf[c] = n.addVertex(vertexData{kind: vertexCentral, charger: c})
	}

	chargers := chargerLocations(fleet)
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
			n.addVertex(vertexData{kind: vertexPiece, p: pieceData{
				startCharger: startCh, endCharger: endCh, startTime: first.StartTime,
				hasMaintenance: hasMaint, piece: p, activities: acts,
			}})
		}
	}

	n.connectAll(startCharger)
	n.access = pricing.NewAccess(len(n.vertices), len(n.arcList), fleet.Vehicles.Len())
	return n
}

func chargerLocations(fleet *model.Fleet) map[int]int {
	m := make(map[int]int)
	for c := 0; c < fleet.Chargers.Len(); c++ {
		m[fleet.Chargers.Get(c).Location] = c
	}
	return m
}

// Access exposes the vertex/arc access table for branch projection.
func (n *Network) Access() *pricing.Access { return n.access }

func (n *Network) addVertex(v vertexData) int {
	idx := len(n.vertices)
	n.vertices = append(n.vertices, v)
	return idx
}

func (n *Network) addArc(from, to int, kind arcKind) {
	idx := len(n.arcList)
	n.arcList = append(n.arcList, arcData{to: to, kind: kind})
	n.arcFrom = append(n.arcFrom, from)
	n.out[from] = append(n.out[from], idx)
}

// connectAll wires vehicle-start to its charger's central vertex,
// every central vertex to every piece starting at its charger, every
// piece to its end charger's central vertex, and every piece to the
// sink.
func (n *Network) connectAll(startCharger int) {
	if central, ok := n.centralOf[startCharger]; ok {
		n.addArc(n.sourceVertex, central, arcStartToCentral)
	}

	for i, v := range n.vertices {
		if v.kind != vertexPiece {
			continue
		}
		n.addArc(i, n.sinkVertex, arcPieceToSink)
		if v.p.endCharger >= 0 {
			if central, ok := n.centralOf[v.p.endCharger]; ok {
				n.addArc(i, central, arcPieceToCentral)
			}
		}
		if v.p.startCharger >= 0 {
			if central, ok := n.centralOf[v.p.startCharger]; ok {
				n.addArc(central, i, arcCentralToPiece)
			}
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
	case arcStartToCentral:
		return label.State, 0, true
	case arcPieceToCentral:
		return n.extendPieceToCentral(label, n.vertices[from].p)
	case arcCentralToPiece:
		return n.extendCentralToPiece(label, n.vertices[from].charger, n.vertices[a.to].p)
	default:
		return n.extendToSink(label)
	}
}

func (n *Network) extendPieceToCentral(label *rcsp.Label[State], p pieceData) (State, float64, bool) {
	s := label.State
	distSinceMaint := s.DistanceSinceMaint + p.piece.DistanceM
	if p.hasMaintenance {
		distSinceMaint = 0
	}
	cost, penalty := n.maintenancePenalty(s.DistanceSinceMaint, distSinceMaint, p)
	next := State{
		Timestamp:          p.piece.EndTime,
		DistanceSinceMaint: distSinceMaint,
		MaxStartTime:       s.MaxStartTime,
		Cost:               s.Cost + cost,
	}
	return next, penalty, true
}

// maintenancePenalty returns the real-cost and reduced-cost contribution
// of the convex maintenance-overdue penalty (spec §4.3.1/§6's
// cost_maintenance_penalty_lambda); this variant, like segmentconn,
// carries no per-arc deadleg distance of its own, so no DeadlegCost
// term applies here.
func (n *Network) maintenancePenalty(before, after int64, p pieceData) (cost, reducedDelta float64) {
	if !n.hasUnassignedMaintenance || p.hasMaintenance {
		return 0, 0
	}
	dOld := float64(before)
	dNew := float64(after)
	penalty := 0.5 * n.costModel.MaintenancePenaltyLambda * (dNew*dNew - dOld*dOld)
	return penalty, penalty
}

func (n *Network) extendCentralToPiece(label *rcsp.Label[State], charger int, p pieceData) (State, float64, bool) {
	s := label.State
	if s.MaxStartTime != MaxTimestamp && p.startTime > s.MaxStartTime {
		return State{}, 0, false
	}
	if p.startTime < s.Timestamp {
		return State{}, 0, false
	}

	ch := n.fleet.Chargers.Get(charger)
	needed := int(n.vehicle.DischargeForMetres(uint32(p.piece.DistanceM)))
	targetSOC := n.vehicle.BatteryMinKWh + needed
	if targetSOC > n.vehicle.BatteryMaxKWh {
		targetSOC = n.vehicle.BatteryMaxKWh
	}
	plan := charging.Evaluate(charging.FixAtEnd, n.vehicle, ch, n.vehicle.BatteryMinKWh, targetSOC, s.Timestamp, p.startTime, n.costModel.PutOnTechSec, n.costModel.TakeOffTechSec)
	if !plan.Feasible {
		return State{}, 0, false
	}

	capacityCharge := n.duals.ChargerIntervalDual(charger, plan.PutOnTime, plan.TakeOffTime)

	next := State{
		Timestamp:          s.Timestamp, // unchanged here; extendPieceToCentral advances it to the piece's own end time on the way out
		DistanceSinceMaint: s.DistanceSinceMaint,
		MaxStartTime:       s.MaxStartTime,
		Cost:               s.Cost,
	}
	return next, -p.piece.AccumulatedDual - capacityCharge, true
}

func (n *Network) extendToSink(label *rcsp.Label[State]) (State, float64, bool) {
	s := label.State
	if s.MaxStartTime != MaxTimestamp {
		return State{}, 0, false
	}
	s.IsExemptFromDominance = true
	return s, 0, true
}

// Dominates implements rcsp.Network (spec §4.3.3's dominance rule:
// reduced cost — tracked by rcsp.Label.Cost — plus the timestamp and
// max_rc_start_time dimensions this variant adds over segmentconn,
// plus distance-since-maintenance when a maintenance is unassigned).
func (n *Network) Dominates(a, b State) bool {
	if b.IsExemptFromDominance {
		return false
	}
	if a.Timestamp > b.Timestamp {
		return false
	}
	if a.MaxStartTime < b.MaxStartTime {
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
	for i, v := range n.vertices {
		if v.kind != vertexPiece {
			continue
		}
		for _, act := range v.p.activities {
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
// parent chain: a piece->central arc emits the piece's own
// trip/maintenance activities, and a central->piece arc emits the
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
		switch a.kind {
		case arcPieceToCentral:
			from := n.vertices[n.arcFrom[st.arc]].p
			for _, act := range from.activities {
				kind := pricing.LegTrip
				if act.MaintenanceIndex >= 0 {
					kind = pricing.LegMaintenance
				}
				legs = append(legs, pricing.Leg{
					Kind: kind, TripIndex: act.TripIndex, MaintenanceIndex: act.MaintenanceIndex,
					StartTime: act.StartTime, EndTime: act.EndTime,
				})
			}
		case arcCentralToPiece:
			charger := n.vertices[n.arcFrom[st.arc]].charger
			p := n.vertices[a.to].p
			ch := n.fleet.Chargers.Get(charger)
			before := st.lbl.Parent.State
			needed := int(n.vehicle.DischargeForMetres(uint32(p.piece.DistanceM)))
			targetSOC := n.vehicle.BatteryMinKWh + needed
			if targetSOC > n.vehicle.BatteryMaxKWh {
				targetSOC = n.vehicle.BatteryMaxKWh
			}
			plan := charging.Evaluate(charging.FixAtEnd, n.vehicle, ch, n.vehicle.BatteryMinKWh, targetSOC, before.Timestamp, p.startTime, n.costModel.PutOnTechSec, n.costModel.TakeOffTechSec)
			legs = append(legs, pricing.Leg{
				Kind: pricing.LegCharging, TripIndex: -1, MaintenanceIndex: -1,
				Charger: charger, PutOnTime: plan.PutOnTime, TakeOffTime: plan.TakeOffTime,
				DeltaSOCKWh: plan.DeltaSOCKWh,
				StartTime:   plan.PutOnTime, EndTime: plan.TakeOffTime,
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
