package lp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSolve_SimpleMaximizationViaNegatedCost: maximize x+y s.t. x+2y<=14,
// 3x-y>=0, x-y<=2, x,y>=0. Classic textbook LP with optimum x=6,y=4, obj=10.
func TestSolve_SimpleMaximizationViaNegatedCost(t *testing.T) {
	p := NewProblem()
	x := p.AddVar(0, Inf, -1) // minimize -x-y == maximize x+y
	y := p.AddVar(0, Inf, -1)

	r1 := p.AddRow(-Inf, 14)
	p.ChangeCoeff(r1, x, 1)
	p.ChangeCoeff(r1, y, 2)

	r2 := p.AddRow(0, Inf)
	p.ChangeCoeff(r2, x, 3)
	p.ChangeCoeff(r2, y, -1)

	r3 := p.AddRow(-Inf, 2)
	p.ChangeCoeff(r3, x, 1)
	p.ChangeCoeff(r3, y, -1)

	sol := p.Solve()
	require.Equal(t, StatusOptimal, sol.Status)
	assert.InDelta(t, -10, sol.Objective, 1e-4)
	assert.InDelta(t, 6, sol.GetPrimal()[x], 1e-4)
	assert.InDelta(t, 4, sol.GetPrimal()[y], 1e-4)
}

func TestSolve_InfeasibleWhenRowsContradict(t *testing.T) {
	p := NewProblem()
	x := p.AddVar(0, 10, 1)

	r1 := p.AddRow(5, Inf)
	p.ChangeCoeff(r1, x, 1)
	r2 := p.AddRow(-Inf, 2)
	p.ChangeCoeff(r2, x, 1)

	sol := p.Solve()
	assert.Equal(t, StatusInfeasible, sol.Status)
}

func TestSolve_UnboundedWhenObjectiveImproves(t *testing.T) {
	p := NewProblem()
	x := p.AddVar(0, Inf, -1) // minimize -x: improves without bound

	sol := p.Solve()
	assert.Equal(t, StatusUnbounded, sol.Status)
}

func TestSolve_DualIsZeroForNonBindingRow(t *testing.T) {
	p := NewProblem()
	x := p.AddVar(0, Inf, 1)

	r1 := p.AddRow(-Inf, 1000) // slack row, never binding at the optimum x=0
	p.ChangeCoeff(r1, x, 1)

	sol := p.Solve()
	require.Equal(t, StatusOptimal, sol.Status)
	assert.InDelta(t, 0, sol.GetDual()[r1], 1e-6)
}

func TestDeleteCols_RemapsRemainingColumns(t *testing.T) {
	p := NewProblem()
	a := p.AddVar(0, 1, 1)
	b := p.AddVar(0, 1, 2)
	c := p.AddVar(0, 1, 3)
	r := p.AddRow(0, 1)
	p.ChangeCoeff(r, a, 1)
	p.ChangeCoeff(r, b, 1)
	p.ChangeCoeff(r, c, 1)

	remap := p.DeleteCols([]int{b})
	assert.Equal(t, -1, remap[b])
	assert.GreaterOrEqual(t, remap[a], 0)
	assert.GreaterOrEqual(t, remap[c], 0)
	assert.Equal(t, 2, p.NumVars())
}

func TestSolve_RangedRowBothBoundsActive(t *testing.T) {
	p := NewProblem()
	x := p.AddVar(0, Inf, 1)
	r := p.AddRow(3, 5)
	p.ChangeCoeff(r, x, 1)

	sol := p.Solve()
	require.Equal(t, StatusOptimal, sol.Status)
	assert.InDelta(t, 3, sol.GetPrimal()[x], 1e-4)
}

func TestSolve_WarmStartReachesSameObjective(t *testing.T) {
	build := func() *Problem {
		p := NewProblem()
		x := p.AddVar(0, Inf, -1)
		y := p.AddVar(0, Inf, -1)
		r1 := p.AddRow(-Inf, 14)
		p.ChangeCoeff(r1, x, 1)
		p.ChangeCoeff(r1, y, 2)
		r2 := p.AddRow(0, Inf)
		p.ChangeCoeff(r2, x, 3)
		p.ChangeCoeff(r2, y, -1)
		r3 := p.AddRow(-Inf, 2)
		p.ChangeCoeff(r3, x, 1)
		p.ChangeCoeff(r3, y, -1)
		return p
	}

	p1 := build()
	sol1 := p1.Solve()
	require.Equal(t, StatusOptimal, sol1.Status)

	p2 := build()
	p2.SetBasis(sol1.GetBasis())
	sol2 := p2.Solve()
	require.Equal(t, StatusOptimal, sol2.Status)
	assert.InDelta(t, sol1.Objective, sol2.Objective, math.Abs(sol1.Objective)*1e-6+1e-6)
}
