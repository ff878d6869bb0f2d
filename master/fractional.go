package master

import "github.com/evfleet/rotor/lp"

// FractionalTripAssignments sums, for every (vehicle, trip) pair any
// pooled column assigns a non-zero LP value to, that summed value —
// the quantity branch-and-price branches on when it sits strictly
// between 0 and 1 (spec §4.5's VEHICLE_TRIP branch candidates).
func (m *Master) FractionalTripAssignments(sol *lp.Solution) map[[2]int]float64 {
	primal := sol.GetPrimal()
	out := make(map[[2]int]float64)
	for vehicle, cols := range m.byVehicle {
		for _, col := range cols {
			if col.lpColumn < 0 || col.lpColumn >= len(primal) {
				continue
			}
			val := primal[col.lpColumn]
			if val <= 0 {
				continue
			}
			for row, coeff := range col.Coverage {
				if trip, ok := m.rowTrip[row]; ok {
					out[[2]int{vehicle, trip}] += val * coeff
				}
			}
		}
	}
	return out
}

// FractionalMaintenanceAssignments is FractionalTripAssignments' twin
// for (vehicle, maintenance) pairs.
func (m *Master) FractionalMaintenanceAssignments(sol *lp.Solution) map[[2]int]float64 {
	primal := sol.GetPrimal()
	out := make(map[[2]int]float64)
	for vehicle, cols := range m.byVehicle {
		for _, col := range cols {
			if col.lpColumn < 0 || col.lpColumn >= len(primal) {
				continue
			}
			val := primal[col.lpColumn]
			if val <= 0 {
				continue
			}
			for row, coeff := range col.Coverage {
				if maint, ok := m.rowMaint[row]; ok {
					out[[2]int{vehicle, maint}] += val * coeff
				}
			}
		}
	}
	return out
}

// SelectedColumns returns, for every vehicle with at least one pooled
// column carrying positive LP value, the column with the largest
// value — at an integer-feasible node (bnp.Result.Optimal or a
// diving-heuristic incumbent) that value is 1 and the column is the
// vehicle's committed path; callers that commit a Result's solution to
// the schedule graph use this rather than re-deriving it from
// AllColumns themselves.
func (m *Master) SelectedColumns(sol *lp.Solution) map[int]*Column {
	primal := sol.GetPrimal()
	out := make(map[int]*Column)
	best := make(map[int]float64)
	for vehicle, cols := range m.byVehicle {
		for _, col := range cols {
			if col.lpColumn < 0 || col.lpColumn >= len(primal) {
				continue
			}
			val := primal[col.lpColumn]
			if val <= 0 {
				continue
			}
			if val > best[vehicle] {
				out[vehicle] = col
				best[vehicle] = val
			}
		}
	}
	return out
}
