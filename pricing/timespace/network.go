// Package timespace implements pricing's time-space network (spec
// §4.3.1, variant A): one vertex per trip/maintenance/charging window/
// vehicle start plus a collective sink, decorating the generic
// rcsp.Network so it can be solved by the shared label-setting engine.
// Grounded on original_source's timeSpaceNetwork.h/.cpp: the resource
// container (cost, reduced cost, clock, distance-since-maintenance,
// soc, max_rc_start_time) and its dominance/extension rules are kept
// verbatim in spirit, re-expressed as a Go State type plus Extend/
// Dominates methods.
package timespace

import (
	"github.com/evfleet/rotor/branch"
	"github.com/evfleet/rotor/charging"
	"github.com/evfleet/rotor/horizon"
	"github.com/evfleet/rotor/model"
	"github.com/evfleet/rotor/pricing"
	"github.com/evfleet/rotor/rcsp"
)

// vertexKind tags one of the network's vertex classes.
type vertexKind uint8

const (
	vertexStart vertexKind = iota
	vertexTrip
	vertexMaintenance
	vertexChargeWindow
	vertexSink
)

type vertexData struct {
	kind      vertexKind
	index     int // dense trip/maintenance index, or charger index for charge windows
	putOnTime int64
	location  int
	startTime int64
	endTime   int64
}

type arcData struct {
	from, to int
	// for LegDeadleg-shaped arcs, set distanceM/durationSec directly;
	// charging arcs instead route through a vertexChargeWindow vertex,
	// so an arc never needs both.
	distanceM   uint32
	durationSec uint32
}

// State is the time-space resource container extended along a label
// (spec §4.3.1). Cost is the schedule's real (non-reduced) objective
// contribution, carried alongside rcsp.Label.Cost (which this
// network's Extend return value drives as the *reduced* cost).
type State struct {
	Clock                int64
	DistanceSinceMaint    int64
	SOCKWh                int
	MaxStartTime          int64 // +Inf sentinel: MaxTimestamp
	IsExemptFromDominance bool
	Cost                  float64
}

// MaxTimestamp is the sentinel meaning "no pending fixed vertex ahead".
const MaxTimestamp = int64(1) << 62

// Network decorates rcsp.Network[State] over one vehicle's time-space
// graph for one pricing call.
type Network struct {
	fleet   *model.Fleet
	win     *horizon.Window
	vehicle model.Vehicle
	duals   *pricing.Duals
	access  *pricing.Access

	hasUnassignedMaintenance bool
	costModel                pricing.CostModel

	vertices []vertexData
	arcs     []arcData
	out      map[int][]int

	// chargerTakeOffTimes holds each charger's take-off lattice, aligned
	// in time with its put-on lattice (horizon.Window.ChargerLattice),
	// so extendCharging can pick the latest feasible take-off instead of
	// an arbitrary session length.
	chargerTakeOffTimes map[int][]int64

	sourceVertex int
	sinkVertex   int
}

// Build constructs the time-space network for one vehicle over one
// planning window: trip/maintenance vertices come from the window's
// dense arrays, charging-window vertices from the charger lattice
// (horizon.Window.ChargerLattice), and deadleg arcs connect any two
// vertices reachable in time via the fleet's travel matrix. The
// returned network's Access table starts fully open; callers apply
// branch-derived restrictions (pricing.Access.RevokeVertex etc.)
// before running the label-setting engine.
func Build(fleet *model.Fleet, win *horizon.Window, vehicle model.Vehicle, duals *pricing.Duals, hasUnassignedMaintenance bool, costModel pricing.CostModel) *Network {
	n := &Network{
		fleet:                    fleet,
		win:                      win,
		vehicle:                  vehicle,
		duals:                    duals,
		hasUnassignedMaintenance: hasUnassignedMaintenance,
		costModel:                costModel,
		out:                      make(map[int][]int),
		chargerTakeOffTimes:      make(map[int][]int64),
	}

	entry := win.Entries[vehicle.Index]
	n.sourceVertex = n.addVertex(vertexData{
		kind: vertexStart, location: n.locationOfNode(entry.LastNode),
		startTime: entry.LastNodeEndTime, endTime: entry.LastNodeEndTime,
	})
	n.sinkVertex = n.addVertex(vertexData{kind: vertexSink})

	for _, graphIdx := range win.Trips {
		act := fleet.Graph.Vertex(graphIdx)
		n.addVertex(vertexData{
			kind: vertexTrip, index: act.TripIndex, location: act.StartLocation,
			startTime: act.StartTime, endTime: act.EndTime,
		})
	}

	for _, graphIdx := range win.Maintenances {
		act := fleet.Graph.Vertex(graphIdx)
		n.addVertex(vertexData{
			kind: vertexMaintenance, index: act.MaintenanceIndex, location: act.StartLocation,
			startTime: act.StartTime, endTime: act.EndTime,
		})
	}

	for c := 0; c < fleet.Chargers.Len(); c++ {
		putOns, takeOffs := win.ChargerLattice(c)
		loc := fleet.Chargers.Get(c).Location
		for _, graphIdx := range putOns {
			act := fleet.Graph.Vertex(graphIdx)
			n.addVertex(vertexData{
				kind: vertexChargeWindow, index: c, location: loc,
				putOnTime: act.StartTime, startTime: act.StartTime,
			})
		}
		times := make([]int64, 0, len(takeOffs))
		for _, graphIdx := range takeOffs {
			times = append(times, fleet.Graph.Vertex(graphIdx).StartTime)
		}
		n.chargerTakeOffTimes[c] = times
	}

	n.connectAll()
	n.access = pricing.NewAccess(len(n.vertices), len(n.arcs), fleet.Vehicles.Len())
	return n
}

// Access exposes the vertex/arc access table for branch projection to
// mutate before the engine runs.
func (n *Network) Access() *pricing.Access { return n.access }

func (n *Network) locationOfNode(node int) int {
	if node < 0 {
		return -1
	}
	return n.fleet.Graph.Vertex(node).EndLocation
}

func (n *Network) addVertex(v vertexData) int {
	idx := len(n.vertices)
	n.vertices = append(n.vertices, v)
	return idx
}

func (n *Network) addArc(from, to int, distanceM, durationSec uint32) {
	idx := len(n.arcs)
	n.arcs = append(n.arcs, arcData{from: from, to: to, distanceM: distanceM, durationSec: durationSec})
	n.out[from] = append(n.out[from], idx)
}

// connectAll wires every pair of vertices reachable in time, plus the
// universal sink arcs. O(V^2) in the window's vertex count, which is
// acceptable for a single planning-horizon window (spec's size budget
// keeps this in the low thousands).
func (n *Network) connectAll() {
	for i, from := range n.vertices {
		if from.kind == vertexSink {
			continue
		}
		for j, to := range n.vertices {
			if i == j || to.kind == vertexStart {
				continue
			}
			if to.kind == vertexSink {
				n.addArc(i, n.sinkVertex, 0, 0)
				continue
			}
			dur := n.fleet.Network.DurationSeconds(from.location, to.location)
			dist := n.fleet.Network.DistanceMetres(from.location, to.location)
			if dur == model.InfDistance {
				continue
			}
			fromReady := from.endTime
			if from.kind == vertexChargeWindow {
				fromReady = from.putOnTime
			}
			if fromReady+int64(dur) > to.startTime {
				continue
			}
			n.addArc(i, j, dist, dur)
		}
	}
}

// Successors implements rcsp.Network.
func (n *Network) Successors(vertex int) []int { return n.out[vertex] }

// ArcHead implements rcsp.Network.
func (n *Network) ArcHead(arc int) int { return n.arcs[arc].to }

// IsSink implements rcsp.Network.
func (n *Network) IsSink(vertex int) bool { return vertex == n.sinkVertex }

// SourceVertex is the vehicle's start vertex, the label-setting entry point.
func (n *Network) SourceVertex() int { return n.sourceVertex }

// NumVertices and NumArcs size a pricing.Access table for this network.
func (n *Network) NumVertices() int { return len(n.vertices) }
func (n *Network) NumArcs() int     { return len(n.arcs) }

// InitialState builds the seed label state for this vehicle.
func (n *Network) InitialState() State {
	entry := n.win.Entries[n.vehicle.Index]
	return State{
		Clock:              entry.LastNodeEndTime,
		DistanceSinceMaint: entry.Odometer - entry.OdometerLastMaint,
		SOCKWh:             int(entry.SOCKWh),
		MaxStartTime:       MaxTimestamp,
	}
}

// Extend implements rcsp.Network: dispatches on the target vertex kind.
func (n *Network) Extend(label *rcsp.Label[State], arc int) (State, float64, bool) {
	a := n.arcs[arc]
	if !n.access.ArcAllowed(arc, n.vehicle.Index) || !n.access.VertexAllowed(a.to, n.vehicle.Index) {
		return State{}, 0, false
	}

	to := n.vertices[a.to]
	switch to.kind {
	case vertexSink:
		return n.extendSink(label)
	case vertexChargeWindow:
		return n.extendCharging(label, a, to)
	default:
		return n.extendActivity(label, a, to)
	}
}

func (n *Network) extendActivity(label *rcsp.Label[State], a arcData, to vertexData) (State, float64, bool) {
	s := label.State

	discharge := n.vehicle.DischargeForMetres(a.distanceM)
	newSOC := s.SOCKWh - int(discharge)
	if newSOC < n.vehicle.BatteryMinKWh {
		return State{}, 0, false
	}
	if to.startTime < s.Clock+int64(a.durationSec) {
		return State{}, 0, false
	}
	if s.MaxStartTime != MaxTimestamp && to.startTime > s.MaxStartTime {
		return State{}, 0, false
	}

	cost := n.costModel.DeadlegCost(a.distanceM)
	dual := 0.0
	distSinceMaint := s.DistanceSinceMaint + int64(a.distanceM)

	switch to.kind {
	case vertexTrip:
		dual = n.duals.Trip(to.index)
	case vertexMaintenance:
		dual = n.duals.Maintenance(to.index)
		distSinceMaint = 0
	}

	reducedDelta := cost - dual
	if n.hasUnassignedMaintenance && to.kind != vertexMaintenance {
		dOld := float64(s.DistanceSinceMaint)
		dNew := float64(distSinceMaint)
		penalty := 0.5 * n.costModel.MaintenancePenaltyLambda * (dNew*dNew - dOld*dOld)
		cost += penalty
		reducedDelta += penalty
	}

	next := State{
		Clock:              to.endTime,
		DistanceSinceMaint: distSinceMaint,
		SOCKWh:             newSOC,
		MaxStartTime:       s.MaxStartTime,
		Cost:               s.Cost + cost,
	}
	return next, reducedDelta, true
}

func (n *Network) extendCharging(label *rcsp.Label[State], a arcData, to vertexData) (State, float64, bool) {
	s := label.State
	if to.putOnTime < s.Clock+int64(a.durationSec) {
		return State{}, 0, false
	}

	discharge := n.vehicle.DischargeForMetres(a.distanceM)
	socAtPutOn := s.SOCKWh - int(discharge)
	if socAtPutOn < n.vehicle.BatteryMinKWh {
		return State{}, 0, false
	}

	charger := n.fleet.Chargers.Get(to.index)
	bound := s.MaxStartTime
	if bound == MaxTimestamp {
		bound = n.latestChargerTakeOff(to.index)
	}
	windowEnd := n.latestFeasibleTakeOff(to.index, to.putOnTime, bound)
	if windowEnd <= to.putOnTime {
		return State{}, 0, false
	}
	plan := charging.Evaluate(charging.VariableAtEnd, n.vehicle, charger, socAtPutOn, 0, to.putOnTime, windowEnd, n.costModel.PutOnTechSec, n.costModel.TakeOffTechSec)
	if !plan.Feasible {
		return State{}, 0, false
	}

	newSOC := socAtPutOn + plan.DeltaSOCKWh
	if newSOC > n.vehicle.BatteryMaxKWh {
		newSOC = n.vehicle.BatteryMaxKWh
	}
	capacityCharge := n.duals.ChargerIntervalDual(to.index, to.putOnTime, plan.TakeOffTime)

	next := State{
		Clock:              plan.TakeOffTime,
		DistanceSinceMaint: s.DistanceSinceMaint,
		SOCKWh:             newSOC,
		MaxStartTime:       s.MaxStartTime,
		Cost:               s.Cost,
	}
	return next, -capacityCharge, true
}

// latestFeasibleTakeOff picks the latest take-off lattice time for
// charger c that is both >= putOnTime and <= bound (spec §4.1's
// variable-at-end policy: "picks the latest feasible take-off"), rather
// than an arbitrary fixed session length.
func (n *Network) latestFeasibleTakeOff(c int, putOnTime, bound int64) int64 {
	best := int64(-1)
	for _, t := range n.chargerTakeOffTimes[c] {
		if t < putOnTime || t > bound {
			continue
		}
		if t > best {
			best = t
		}
	}
	return best
}

// latestChargerTakeOff is the bound used when the label carries no
// downstream fixed-node deadline (MaxStartTime is the sentinel): the
// charger's own lattice already bounds how late a session can run.
func (n *Network) latestChargerTakeOff(c int) int64 {
	times := n.chargerTakeOffTimes[c]
	if len(times) == 0 {
		return -1
	}
	return times[len(times)-1]
}

func (n *Network) extendSink(label *rcsp.Label[State]) (State, float64, bool) {
	s := label.State
	if s.MaxStartTime != MaxTimestamp {
		return State{}, 0, false
	}
	s.IsExemptFromDominance = true
	return s, 0, true
}

// Dominates implements rcsp.Network (spec §4.3.1's dominance rule).
func (n *Network) Dominates(a, b State) bool {
	if b.IsExemptFromDominance {
		return false
	}
	if a.SOCKWh < b.SOCKWh {
		return false
	}
	if n.hasUnassignedMaintenance && a.DistanceSinceMaint > b.DistanceSinceMaint {
		return false
	}
	return true
}

// ApplyBranch revokes this vehicle's access to every trip/maintenance
// vertex a branch-and-bound node has forbidden it from covering, so
// pricing never regenerates a column FilterVars would just clamp back
// out of the master LP (spec §4.3.4).
func (n *Network) ApplyBranch(node *branch.Node) {
	for i, v := range n.vertices {
		switch v.kind {
		case vertexTrip:
			if !node.VehicleMayCoverTrip(n.vehicle.Index, v.index) {
				n.access.RevokeVertex(i, n.vehicle.Index)
			}
		case vertexMaintenance:
			if !node.VehicleMayAttendMaintenance(n.vehicle.Index, v.index) {
				n.access.RevokeVertex(i, n.vehicle.Index)
			}
		}
	}
}

// BuildSchedule reconstructs a pricing.Schedule from a sink label's
// parent chain: each intermediate label already carries the resource
// state after its own arc extended, so no re-simulation is needed.
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
		a := n.arcs[st.arc]
		to := n.vertices[a.to]
		before := st.lbl.Parent.State
		after := st.lbl.State

		switch to.kind {
		case vertexSink:
			continue
		case vertexChargeWindow:
			legs = append(legs, pricing.Leg{
				Kind: pricing.LegCharging, TripIndex: -1, MaintenanceIndex: -1,
				Charger: to.index, PutOnTime: to.putOnTime, TakeOffTime: after.Clock,
				DeltaSOCKWh: after.SOCKWh - before.SOCKWh,
				StartTime:   to.putOnTime, EndTime: after.Clock,
			})
		case vertexTrip:
			if a.distanceM > 0 {
				legs = append(legs, pricing.Leg{
					Kind: pricing.LegDeadleg, TripIndex: -1, MaintenanceIndex: -1,
					StartTime: before.Clock, EndTime: to.startTime,
				})
			}
			legs = append(legs, pricing.Leg{
				Kind: pricing.LegTrip, TripIndex: to.index, MaintenanceIndex: -1,
				StartTime: to.startTime, EndTime: to.endTime,
			})
		case vertexMaintenance:
			if a.distanceM > 0 {
				legs = append(legs, pricing.Leg{
					Kind: pricing.LegDeadleg, TripIndex: -1, MaintenanceIndex: -1,
					StartTime: before.Clock, EndTime: to.startTime,
				})
			}
			legs = append(legs, pricing.Leg{
				Kind: pricing.LegMaintenance, TripIndex: -1, MaintenanceIndex: to.index,
				StartTime: to.startTime, EndTime: to.endTime,
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
