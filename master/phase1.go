package master

import "github.com/evfleet/rotor/lp"

// Phase1State captures what BeginPhase1 changed, so EndPhase1 can put
// the LP back exactly as it found it (spec §4.4's aux_column_generation:
// "function must be self-contained and must restore the mp... to its
// previous state").
type Phase1State struct {
	savedCost map[int]float64 // lp column -> original objective coefficient
	auxVar    map[int]int     // maintenance index -> aux slack lp column
}

// BeginPhase1 swaps the master's objective for a pure feasibility-
// violation objective: every existing column's cost is zeroed (pricing
// during phase-1 is duals-only, spec §4.4), and every maintenance row —
// the only row with no pre-existing slack — gets an unbounded-above
// auxiliary slack variable costed at 1, so the LP can always satisfy
// the row and the phase-1 objective reports the total coverage gap.
func (m *Master) BeginPhase1() *Phase1State {
	state := &Phase1State{
		savedCost: make(map[int]float64),
		auxVar:    make(map[int]int, len(m.maintRow)),
	}

	for _, col := range m.AllColumns() {
		if col.lpColumn < 0 {
			continue
		}
		state.savedCost[col.lpColumn] = col.Cost
		m.problem.ChangeColCost(col.lpColumn, 0)
	}

	for maint, row := range m.maintRow {
		aux := m.problem.AddVar(0, lp.Inf, 1)
		m.problem.ChangeCoeff(row, aux, 1)
		state.auxVar[maint] = aux
	}

	return state
}

// EndPhase1 restores every column's original objective coefficient and
// disables the auxiliary slacks (clamped to 0 rather than deleted, so
// column indices already cached on *Column stay valid).
func (m *Master) EndPhase1(state *Phase1State) {
	for col, cost := range state.savedCost {
		m.problem.ChangeColCost(col, cost)
	}
	for _, aux := range state.auxVar {
		m.problem.ChangeColBounds(aux, 0, 0)
	}
}

// Phase1Feasible reports whether the last solved phase-1 LP found zero
// total coverage gap — every auxiliary slack settled at 0, meaning the
// node is genuinely feasible once phase-1 ends (spec §4.4: "checks
// whether all auxiliary variables returned to their fixed bounds").
func Phase1Feasible(state *Phase1State, primal []float64) bool {
	for _, aux := range state.auxVar {
		if aux < len(primal) && primal[aux] > 1e-6 {
			return false
		}
	}
	return true
}
