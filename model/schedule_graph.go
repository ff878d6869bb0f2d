package model

import (
	"fmt"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
)

// Arc connects two schedule-graph vertices. Per spec §3, arcs carry an
// index and a wait duration only — cost is always derived from nodes.
type Arc struct {
	Index int
	From  int // vertex arena index
	To    int // vertex arena index
	Wait  uint32
}

// ScheduleGraph is the persistent, append-only record of committed
// activity. Vertices and arcs live in flat arenas (spec §9: "arena of
// arcs + vector of indices per vehicle"); cross-references are always
// indices, never pointers, so the graph stays acyclic-by-construction
// and trivially cloneable.
//
// Four parallel time-sorted sequences (trip, maintenance, put-on,
// take-off vertices) support the fast windowed lookup the
// planning-horizon view needs; separate github.com/RoaringBitmap/
// roaring/v2 bitmaps track, per vertex, which vehicles currently have
// branch-fixed access to it (spec §4.3.4).
type ScheduleGraph struct {
	mu sync.RWMutex

	vertices []Activity
	arcs     []Arc

	// per-vehicle ordered arc-index path, insertion order == time order.
	vehiclePaths [][]int

	tripSeq    *timeIndex
	maintSeq   *timeIndex
	putOnSeq   *timeIndex
	takeOffSeq *timeIndex

	// vehicleAccess[vertexIdx] is nil (unrestricted) until a branch
	// decision narrows it to a specific bitmap of allowed vehicles.
	vehicleAccess map[int]*roaring.Bitmap
}

// NewScheduleGraph builds an empty graph sized for nVehicles.
func NewScheduleGraph(nVehicles int) *ScheduleGraph {
	return &ScheduleGraph{
		vehiclePaths:  make([][]int, nVehicles),
		tripSeq:       newTimeIndex(),
		maintSeq:      newTimeIndex(),
		putOnSeq:      newTimeIndex(),
		takeOffSeq:    newTimeIndex(),
		vehicleAccess: make(map[int]*roaring.Bitmap),
	}
}

// AddVertex appends a new Activity vertex to the arena and indexes it
// into the appropriate time-sorted sequence, if applicable.
func (g *ScheduleGraph) AddVertex(a Activity) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	idx := len(g.vertices)
	g.vertices = append(g.vertices, a)
	switch a.Kind {
	case ActivityTrip:
		g.tripSeq.insert(a.StartTime, idx)
	case ActivityMaintenance:
		g.maintSeq.insert(a.StartTime, idx)
	case ActivityPutOnCharge:
		g.putOnSeq.insert(a.StartTime, idx)
	case ActivityTakeOffCharge:
		g.takeOffSeq.insert(a.StartTime, idx)
	}
	return idx
}

// AddArc appends a new Arc to the arena, returning its index.
func (g *ScheduleGraph) AddArc(from, to int, wait uint32) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	idx := len(g.arcs)
	g.arcs = append(g.arcs, Arc{Index: idx, From: from, To: to, Wait: wait})
	return idx
}

// Vertex returns the Activity at the given arena index.
func (g *ScheduleGraph) Vertex(idx int) Activity {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.vertices[idx]
}

// Arc returns the Arc at the given arena index.
func (g *ScheduleGraph) Arc(idx int) Arc {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.arcs[idx]
}

// NumVertices returns the number of vertices in the arena.
func (g *ScheduleGraph) NumVertices() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.vertices)
}

// VehiclePath returns the committed arc-index path of a vehicle.
func (g *ScheduleGraph) VehiclePath(vehicle int) []int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]int, len(g.vehiclePaths[vehicle]))
	copy(out, g.vehiclePaths[vehicle])
	return out
}

// TripRangeAsc, MaintenanceRangeAsc, PutOnRangeAsc, TakeOffRangeAsc
// range-query the four parallel time-sorted sequences for lo <= start <
// hi in ascending start-time order, letting the planning-horizon view
// build its dense windows without reaching into unexported internals.
func (g *ScheduleGraph) TripRangeAsc(lo, hi int64, fn func(start int64, idx int) bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	g.tripSeq.rangeAsc(lo, hi, fn)
}

func (g *ScheduleGraph) MaintenanceRangeAsc(lo, hi int64, fn func(start int64, idx int) bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	g.maintSeq.rangeAsc(lo, hi, fn)
}

func (g *ScheduleGraph) PutOnRangeAsc(lo, hi int64, fn func(start int64, idx int) bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	g.putOnSeq.rangeAsc(lo, hi, fn)
}

func (g *ScheduleGraph) TakeOffRangeAsc(lo, hi int64, fn func(start int64, idx int) bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	g.takeOffSeq.rangeAsc(lo, hi, fn)
}

// SetVehicleAccess restricts a vertex to only the vehicles present in
// bm (nil clears the restriction back to "any vehicle").
func (g *ScheduleGraph) SetVehicleAccess(vertexIdx int, bm *roaring.Bitmap) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if bm == nil {
		delete(g.vehicleAccess, vertexIdx)
		return
	}
	g.vehicleAccess[vertexIdx] = bm
}

// VehicleHasAccess reports whether the given vehicle may traverse the
// given vertex (true when unrestricted).
func (g *ScheduleGraph) VehicleHasAccess(vertexIdx, vehicle int) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	bm, ok := g.vehicleAccess[vertexIdx]
	if !ok {
		return true
	}
	return bm.Contains(uint32(vehicle))
}

// CommitPath appends a contiguous arc-index path to a vehicle's
// committed history, verifying the time-space continuity invariant of
// spec §3 for every newly-added adjacent pair (including the join with
// whatever the vehicle's path already ends in). A violation is a fatal
// LogicError; the graph is left unmodified in that case.
func (g *ScheduleGraph) CommitPath(vehicle int, arcIdxs []int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(arcIdxs) == 0 {
		return nil
	}

	existing := g.vehiclePaths[vehicle]
	full := make([]int, 0, len(existing)+len(arcIdxs))
	full = append(full, existing...)
	full = append(full, arcIdxs...)

	for i := 1; i < len(full); i++ {
		prev := g.arcs[full[i-1]]
		next := g.arcs[full[i]]
		if prev.To != next.From {
			return NewLogicError("ScheduleGraph.CommitPath",
				fmt.Sprintf("vehicle %d: arc %d target vertex %d != arc %d source vertex %d",
					vehicle, prev.Index, prev.To, next.Index, next.From))
		}
		prevEnd := g.vertices[prev.To].EndTime
		nextStart := g.vertices[next.To].StartTime
		if prevEnd > nextStart {
			return NewLogicError("ScheduleGraph.CommitPath",
				fmt.Sprintf("vehicle %d: end_time(prev)=%d > start_time(next)=%d", vehicle, prevEnd, nextStart))
		}
	}

	g.vehiclePaths[vehicle] = full
	return nil
}

// LastVertex returns the last vertex index in a vehicle's committed
// path, or -1 if the vehicle has no committed history yet.
func (g *ScheduleGraph) LastVertex(vehicle int) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	path := g.vehiclePaths[vehicle]
	if len(path) == 0 {
		return -1
	}
	return g.arcs[path[len(path)-1]].To
}
