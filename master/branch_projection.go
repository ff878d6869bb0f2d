package master

import "github.com/evfleet/rotor/branch"

// FilterVars projects a branch-and-bound node's decisions onto the
// master LP by clamping forbidden columns' upper bound to 0, so the
// relaxation solved at this node can never select them (spec §4.5:
// "branching never touches rows — only the column upper bounds").
// Columns are re-admitted (upper bound restored to 1) for nodes where
// they're no longer forbidden, so a single Master can be reused across
// sibling nodes without rebuilding the LP from scratch.
func (m *Master) FilterVars(node *branch.Node) {
	for _, col := range m.AllColumns() {
		if col.lpColumn < 0 {
			continue
		}
		allowed := true
		for row := range col.Coverage {
			if tripIdx, ok := m.rowTrip[row]; ok {
				if !node.VehicleMayCoverTrip(col.Vehicle, tripIdx) {
					allowed = false
					break
				}
			}
			if maintIdx, ok := m.rowMaint[row]; ok {
				if !node.VehicleMayAttendMaintenance(col.Vehicle, maintIdx) {
					allowed = false
					break
				}
			}
		}

		if allowed {
			m.problem.ChangeColBounds(col.lpColumn, 0, 1)
		} else {
			m.problem.ChangeColBounds(col.lpColumn, 0, 0)
		}
	}
}
