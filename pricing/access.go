package pricing

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// Access tracks, per pricing vertex and per pricing arc, which
// vehicles may use it (spec §4.3.4: "vertex and arc access bitmaps").
// One bitmap per vertex/arc keeps a membership test at O(1) and a
// branch-driven revocation at O(1) amortised, instead of a
// map[int]map[int]bool that would dominate pricing's per-call
// allocation cost on large fleets.
type Access struct {
	vertex []*roaring.Bitmap // indexed by vertex id
	arc    []*roaring.Bitmap // indexed by arc id
}

// NewAccess builds an Access table with every vertex/arc open to every
// vehicle in [0,numVehicles).
func NewAccess(numVertices, numArcs, numVehicles int) *Access {
	a := &Access{
		vertex: make([]*roaring.Bitmap, numVertices),
		arc:    make([]*roaring.Bitmap, numArcs),
	}
	full := roaring.New()
	for v := 0; v < numVehicles; v++ {
		full.Add(uint32(v))
	}
	for i := range a.vertex {
		a.vertex[i] = full.Clone()
	}
	for i := range a.arc {
		a.arc[i] = full.Clone()
	}
	return a
}

// VertexAllowed reports whether vehicle may occupy vertex.
func (a *Access) VertexAllowed(vertex, vehicle int) bool {
	return a.vertex[vertex].Contains(uint32(vehicle))
}

// ArcAllowed reports whether vehicle may traverse arc.
func (a *Access) ArcAllowed(arc, vehicle int) bool {
	return a.arc[arc].Contains(uint32(vehicle))
}

// RevokeVertex removes vehicle's access to vertex (spec §4.3.4's
// VehicleRotation=0 / forbidding branches).
func (a *Access) RevokeVertex(vertex, vehicle int) {
	a.vertex[vertex].Remove(uint32(vehicle))
}

// FixVertexToVehicle restricts vertex to exactly one vehicle, revoking
// every other vehicle's access (spec §4.3.4's "fix to a vehicle" branches).
func (a *Access) FixVertexToVehicle(vertex, vehicle int) {
	bm := roaring.New()
	bm.Add(uint32(vehicle))
	a.vertex[vertex] = bm
}

// RevokeArc removes vehicle's access to arc.
func (a *Access) RevokeArc(arc, vehicle int) {
	a.arc[arc].Remove(uint32(vehicle))
}
