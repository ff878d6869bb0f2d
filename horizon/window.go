// Package horizon implements the planning-horizon view (spec §4 C2):
// a dense, zero-based re-indexing of the schedule graph's vertices that
// fall inside the current rolling window, plus the per-vehicle entry
// state carried over from the previous horizon.
package horizon

import (
	"sort"

	"github.com/evfleet/rotor/model"
)

// PutOnTakeOffSpacing is the default spacing, in seconds, between
// consecutive put-on/take-off lattice slots for a charger, overridden
// by config's const_charger_capacity_check.
const PutOnTakeOffSpacing = 300

// EarlyRechargeWindow is how far before the earliest vehicle time the
// put-on/take-off lattice additionally extends, to allow an initial
// recharge (spec §3, "Planning-window view").
const EarlyRechargeWindow = 6 * 60 * 60

// VehicleEntryState is the per-vehicle state handed from one horizon to
// the next: the last committed schedule node and the resource state at
// that node. This is the supplemented feature noted in SPEC_FULL §10,
// grounded on original_source's OptimisationInput.h/SubScheduleNodes.h.
type VehicleEntryState struct {
	Vehicle         int
	LastNode        int
	LastNodeEndTime int64
	SOCKWh          int
	Odometer        int64
	OdometerLastMaint int64
}

// Window is the dense view over one planning horizon
// [Start, End+Overlap).
type Window struct {
	Start   int64
	End     int64
	Overlap int64

	fleet *model.Fleet

	// Dense zero-based arrays per kind, re-indexed from schedule-graph
	// vertex arena indices.
	Trips        []int // schedule-graph vertex indices, time order
	Maintenances []int
	PutOns       []int
	TakeOffs     []int

	// graphToDense maps a schedule-graph vertex index to its position
	// in the relevant dense array above, or -1 if not present.
	graphToDense map[int]int

	Entries []VehicleEntryState
}

// NewWindow builds the dense planning-window view for [start, end+overlap)
// over the given fleet, using the current committed position of each
// vehicle as its entry state.
func NewWindow(fleet *model.Fleet, start, end, overlap int64) *Window {
	w := &Window{
		Start:        start,
		End:          end,
		Overlap:      overlap,
		fleet:        fleet,
		graphToDense: make(map[int]int),
	}

	hi := end + overlap
	g := fleet.Graph

	g.TripRangeAsc(start, hi, func(_ int64, idx int) bool {
		w.graphToDense[idx] = len(w.Trips)
		w.Trips = append(w.Trips, idx)
		return true
	})
	g.MaintenanceRangeAsc(start, hi, func(_ int64, idx int) bool {
		w.graphToDense[idx] = len(w.Maintenances)
		w.Maintenances = append(w.Maintenances, idx)
		return true
	})

	earliestVehicleTime := start
	vehicles := fleet.Vehicles.All()
	entries := make([]VehicleEntryState, len(vehicles))
	for _, v := range vehicles {
		rc, err := model.ReplayPath(g, fleet.Chargers, v)
		lastTime := rc.LastNodeEndTime
		if err != nil || rc.LastNode < 0 {
			lastTime = v.InitialTime
		}
		if lastTime < earliestVehicleTime {
			earliestVehicleTime = lastTime
		}
		entries[v.Index] = VehicleEntryState{
			Vehicle:           v.Index,
			LastNode:          rc.LastNode,
			LastNodeEndTime:   lastTime,
			SOCKWh:            rc.SOCKWh,
			Odometer:          rc.Odometer,
			OdometerLastMaint: rc.OdometerLastMaint,
		}
	}
	w.Entries = entries

	putOnLo := earliestVehicleTime - EarlyRechargeWindow
	g.PutOnRangeAsc(putOnLo, hi, func(_ int64, idx int) bool {
		w.graphToDense[idx] = len(w.PutOns)
		w.PutOns = append(w.PutOns, idx)
		return true
	})
	g.TakeOffRangeAsc(putOnLo, hi, func(_ int64, idx int) bool {
		w.graphToDense[idx] = len(w.TakeOffs)
		w.TakeOffs = append(w.TakeOffs, idx)
		return true
	})

	return w
}

// DenseIndexOf returns the dense index of a schedule-graph vertex
// inside this window, or -1 if it falls outside the window.
func (w *Window) DenseIndexOf(graphVertex int) int {
	if idx, ok := w.graphToDense[graphVertex]; ok {
		return idx
	}
	return -1
}

// Fleet exposes the underlying fleet for components that need the full
// domain model alongside the dense window arrays.
func (w *Window) Fleet() *model.Fleet { return w.fleet }

// ChargerLattice returns, for a given charger, the schedule-graph
// vertex indices of the window's put-on and take-off vertices at that
// charger, each sorted by start time and both time-aligned
// (spec §3: "Put-on/take-off lattices for one charger are exactly
// aligned in time: same count and same start times").
func (w *Window) ChargerLattice(charger int) (putOns, takeOffs []int) {
	for _, idx := range w.PutOns {
		if w.fleet.Graph.Vertex(idx).ChargerIndex == charger {
			putOns = append(putOns, idx)
		}
	}
	for _, idx := range w.TakeOffs {
		if w.fleet.Graph.Vertex(idx).ChargerIndex == charger {
			takeOffs = append(takeOffs, idx)
		}
	}
	sort.Slice(putOns, func(i, j int) bool {
		return w.fleet.Graph.Vertex(putOns[i]).StartTime < w.fleet.Graph.Vertex(putOns[j]).StartTime
	})
	sort.Slice(takeOffs, func(i, j int) bool {
		return w.fleet.Graph.Vertex(takeOffs[i]).StartTime < w.fleet.Graph.Vertex(takeOffs[j]).StartTime
	})
	return putOns, takeOffs
}
