// Package master implements the set-partitioning master problem
// (spec §4 C5): one row per trip/maintenance slot requiring coverage,
// lazily-materialised charger-capacity rows, and a pool of generated
// columns (vehicle rotations) each priced against those rows.
package master

import "github.com/google/uuid"

// Column is one generated vehicle rotation: a sequence of schedule-
// graph arc indices, the vehicle it was priced for, its direct cost,
// and which rows (trips/maintenances/charger-capacity windows) it
// covers with what coefficient. Grounded on original_source's
// masterProblem.h column record (schedule id, cost, coverage map).
type Column struct {
	ID      uuid.UUID
	Vehicle int
	ArcPath []int
	Cost    float64

	// Coverage maps a row index (as registered with the Master) to the
	// column's coefficient in that row — almost always 1, but charger-
	// capacity rows can take fractional-looking integer loads when a
	// column occupies more than one lattice slot in the window.
	Coverage map[int]float64

	lpColumn int // index into the underlying lp.Problem, -1 if evicted
}

// NewColumn builds a column with an empty coverage map.
func NewColumn(vehicle int, arcPath []int, cost float64) *Column {
	return &Column{
		ID:       uuid.New(),
		Vehicle:  vehicle,
		ArcPath:  arcPath,
		Cost:     cost,
		Coverage: make(map[int]float64),
		lpColumn: -1,
	}
}
