// Package lp implements a bounded-variable primal simplex LP solver
// (spec §4 C5's external collaborator): the master problem's set-
// partitioning relaxation and the branch-and-price node LPs are solved
// against this package's Problem/Solution API.
//
// Every row is modelled the way GLPK's internal representation does
// it: a row has its own auxiliary variable carrying the row's value,
// bounded by [Lo,Hi], tied to the structural variables by the
// equation sum_j a_ij x_j - y_i = 0. This turns every row, whatever
// its sense (<=, >=, =, or a genuine range), into the same bounded
// homogeneous equation, so one simplex loop handles all of them.
package lp

import "math"

// Inf is the sentinel for an unbounded side of a variable or row range.
var Inf = math.Inf(1)

// Problem is a mutable bounded-variable LP in row/column form. Column
// (variable) and row indices are stable for the lifetime of the
// Problem except across a DeleteCols call, which returns a remap.
type Problem struct {
	nVars int
	lb    []float64
	ub    []float64
	cost  []float64

	rowLo []float64
	rowHi []float64
	rows  []map[int]float64 // sparse row -> (col -> coeff)

	warmBasis []int // set by SetBasis, consumed by next Solve
}

// NewProblem returns an empty problem with no variables or rows.
func NewProblem() *Problem {
	return &Problem{}
}

// AddVar appends a new structural variable with bounds [lb,ub] and
// objective coefficient cost, returning its column index.
func (p *Problem) AddVar(lb, ub, cost float64) int {
	idx := p.nVars
	p.nVars++
	p.lb = append(p.lb, lb)
	p.ub = append(p.ub, ub)
	p.cost = append(p.cost, cost)
	return idx
}

// AddRow appends a new row with range [lo,hi] and no coefficients set,
// returning its row index. Use ChangeCoeff to populate it.
func (p *Problem) AddRow(lo, hi float64) int {
	idx := len(p.rows)
	p.rowLo = append(p.rowLo, lo)
	p.rowHi = append(p.rowHi, hi)
	p.rows = append(p.rows, make(map[int]float64))
	return idx
}

// ChangeCoeff sets the coefficient of column col in row row to v,
// overwriting any previous value. A zero value deletes the entry.
func (p *Problem) ChangeCoeff(row, col int, v float64) {
	if v == 0 {
		delete(p.rows[row], col)
		return
	}
	p.rows[row][col] = v
}

// ChangeColBounds updates a structural variable's bounds.
func (p *Problem) ChangeColBounds(col int, lb, ub float64) {
	p.lb[col] = lb
	p.ub[col] = ub
}

// ChangeRowBounds updates a row's range.
func (p *Problem) ChangeRowBounds(row int, lo, hi float64) {
	p.rowLo[row] = lo
	p.rowHi[row] = hi
}

// ChangeColCost updates a structural variable's objective coefficient.
func (p *Problem) ChangeColCost(col int, cost float64) {
	p.cost[col] = cost
}

// NumVars and NumRows report the current problem size.
func (p *Problem) NumVars() int { return p.nVars }
func (p *Problem) NumRows() int { return len(p.rows) }

// DeleteCols removes the given structural variable columns, compacting
// the remaining ones. It returns a remap of length equal to the
// variable count before deletion: remap[old] is the new index, or -1
// if that column was deleted. Used by the master problem to prune
// columns that left the pool (spec §4.5's lazy-row / column-pool
// cleanup, SPEC_FULL §4).
func (p *Problem) DeleteCols(cols []int) []int {
	doomed := make(map[int]bool, len(cols))
	for _, c := range cols {
		doomed[c] = true
	}

	remap := make([]int, p.nVars)
	newLB := make([]float64, 0, p.nVars)
	newUB := make([]float64, 0, p.nVars)
	newCost := make([]float64, 0, p.nVars)
	next := 0
	for old := 0; old < p.nVars; old++ {
		if doomed[old] {
			remap[old] = -1
			continue
		}
		remap[old] = next
		next++
		newLB = append(newLB, p.lb[old])
		newUB = append(newUB, p.ub[old])
		newCost = append(newCost, p.cost[old])
	}

	for _, row := range p.rows {
		for col, v := range row {
			delete(row, col)
			if nc := remap[col]; nc >= 0 {
				row[nc] = v
			}
		}
	}

	p.lb, p.ub, p.cost = newLB, newUB, newCost
	p.nVars = next
	p.warmBasis = nil // stale after a structural change
	return remap
}

// SetBasis seeds the next Solve call's starting basis for a warm
// start (spec §4.7's column-generation loop re-solves the master LP
// every iteration; reusing the prior optimal basis avoids restarting
// phase 1 from scratch). basis[i] names, for row i, the variable index
// that should start basic in that row (structural column, or
// NumVars()+i for that row's own auxiliary variable).
func (p *Problem) SetBasis(basis []int) {
	cp := make([]int, len(basis))
	copy(cp, basis)
	p.warmBasis = cp
}
