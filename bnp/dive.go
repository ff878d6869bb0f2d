package bnp

import (
	"context"
	"math"
	"math/rand"
	"sort"

	"github.com/evfleet/rotor/branch"
	"github.com/evfleet/rotor/colgen"
	"github.com/evfleet/rotor/horizon"
	"github.com/evfleet/rotor/lp"
	"github.com/evfleet/rotor/master"
	"github.com/evfleet/rotor/model"
)

// DiveConfig tunes the truncated-column-generation diving heuristic
// (spec §4.5).
type DiveConfig struct {
	// FractionalThreshold is the minimum fractional part ( value -
	// floor(value) ) an assignment needs to be swept into the dive's
	// fat ceil child.
	FractionalThreshold float64
	// MaxRollbacks bounds how many forced branches the dive will flip
	// back to floor before giving up on this node as infeasible.
	MaxRollbacks int
}

// DefaultDiveConfig mirrors original_source's evaConstants.h diving
// defaults.
func DefaultDiveConfig() DiveConfig {
	return DiveConfig{FractionalThreshold: 0.9, MaxRollbacks: 8}
}

// Dive runs the truncated-column-generation diving heuristic from
// node: each round, collect every fractional (vehicle, trip) /
// (vehicle, maintenance) assignment whose fractional part is at least
// the threshold, force all of them to their ceil (Allow=true) in one
// fat child, and if that child is infeasible roll branches back to
// floor one at a time — starting from the most recently added — until
// a feasible node turns up. Repeats until the node has no qualifying
// branch (as integer as this dive will make it), or its relaxation no
// longer beats incumbent. Returns the final node reached, its solved
// LP, and true only when the dive ends on a feasible node with no
// qualifying fractional assignment whose objective is below incumbent
// (false when the final node is infeasible, does not beat incumbent,
// or the rollbacks are exhausted).
func Dive(ctx context.Context, m *master.Master, node *branch.Node, fleet *model.Fleet, win *horizon.Window, numTrips, numMaintenances int, hasUnassignedMaintenance bool, incumbent float64, cfg DiveConfig, cgCfg colgen.Config, rng *rand.Rand) (*branch.Node, *lp.Solution, bool) {
	current := node

	for {
		out := colgen.Run(ctx, m, current, fleet, win, numTrips, numMaintenances, hasUnassignedMaintenance, cgCfg, rng)
		if !out.Feasible || out.Solution.Status != lp.StatusOptimal {
			return current, out.Solution, false
		}
		if out.Solution.Objective >= incumbent {
			return current, out.Solution, false
		}

		fat := fatCandidates(m, out.Solution, cfg.FractionalThreshold)
		if len(fat) == 0 {
			return current, out.Solution, true
		}

		child, sol, feasible := forceWithRollback(ctx, m, current, fat, cfg.MaxRollbacks)
		if !feasible {
			return current, out.Solution, false
		}
		_ = sol
		current = child
	}
}

// fatCandidates collects every fractional assignment whose fractional
// part clears threshold, sorted deterministically.
func fatCandidates(m *master.Master, sol *lp.Solution, threshold float64) []branch.Branch {
	var fat []branch.Branch
	for key, val := range m.FractionalTripAssignments(sol) {
		if frac := val - math.Floor(val); frac >= threshold {
			fat = append(fat, branch.Branch{Kind: branch.KindVehicleTrip, Vehicle: key[0], Trip: key[1], Allow: true, FractionalValue: val})
		}
	}
	for key, val := range m.FractionalMaintenanceAssignments(sol) {
		if frac := val - math.Floor(val); frac >= threshold {
			fat = append(fat, branch.Branch{Kind: branch.KindVehicleMaintenance, Vehicle: key[0], Maintenance: key[1], Allow: true, FractionalValue: val})
		}
	}
	sort.Slice(fat, func(i, j int) bool {
		a, b := fat[i], fat[j]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.Vehicle != b.Vehicle {
			return a.Vehicle < b.Vehicle
		}
		if a.Trip != b.Trip {
			return a.Trip < b.Trip
		}
		return a.Maintenance < b.Maintenance
	})
	return fat
}

// forceWithRollback chains base.Child for every branch in fat (all at
// ceil), and if the resulting node is infeasible, flips the last
// branch to floor, retries, flips the next-to-last, and so on.
func forceWithRollback(ctx context.Context, m *master.Master, base *branch.Node, fat []branch.Branch, maxRollbacks int) (*branch.Node, *lp.Solution, bool) {
	flipped := make(map[int]bool, len(fat))

	limit := maxRollbacks
	if limit > len(fat) {
		limit = len(fat)
	}

	for rollback := 0; rollback <= limit; rollback++ {
		if rollback > 0 {
			flipped[len(fat)-rollback] = true
		}

		child := base
		for i, br := range fat {
			if flipped[i] {
				br.Allow = false
			}
			child = child.Child(br)
		}

		m.FilterVars(child)
		sol := m.Solve()
		if sol.Status == lp.StatusOptimal {
			return child, sol, true
		}
	}
	return base, nil, false
}
