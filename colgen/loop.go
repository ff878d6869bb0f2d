package colgen

import (
	"context"
	"math/rand"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/evfleet/rotor/branch"
	"github.com/evfleet/rotor/horizon"
	"github.com/evfleet/rotor/lp"
	"github.com/evfleet/rotor/master"
	"github.com/evfleet/rotor/model"
	"github.com/evfleet/rotor/pricing"
	"github.com/evfleet/rotor/pricing/segmentconn"
)

// Config tunes one Run call (spec §4.4/§4.3.5/§6's column-generation
// configuration keys).
type Config struct {
	Variant   NetworkVariant
	CostModel pricing.CostModel

	NrThreads          int
	MaxLabelsPerVertex int
	MaxIterations      int

	// SolveAllEvery, if positive, forces pricing.Run to price every
	// candidate vehicle to exhaustion every Nth iteration rather than
	// stopping at the first negative-reduced-cost find — periodic full
	// pricing, spec §4.4's "solve_all_pp_vehicles" cadence.
	SolveAllEvery int
}

// DefaultConfig mirrors original_source's evaConstants.h defaults.
func DefaultConfig() Config {
	return Config{
		Variant:            VariantTimeSpace,
		CostModel:          pricing.DefaultCostModel(),
		NrThreads:          4,
		MaxLabelsPerVertex: 64,
		MaxIterations:      200,
		SolveAllEvery:      10,
	}
}

// Outcome is one node's fully-converged (or budget-exhausted) LP
// relaxation: the solved master, how many iterations it took, and
// whether the master problem is even feasible under this node's
// branches (spec §4.4's phase-1 feasibility check).
type Outcome struct {
	Solution   *lp.Solution
	Iterations int
	Feasible   bool

	// Optimal is false if any iteration's pricing batch was cut off by
	// the context deadline — the Lagrangian lower bound this node's
	// solution reports is then not a valid bound (spec §4.3.5/§4.4).
	Optimal bool
}

// Run solves one branch-and-bound node's LP relaxation by column
// generation: filter the master's columns to this node's branches,
// restore feasibility via phase-1 if the maintenance rows can't all be
// covered, then alternate pricing and re-solving until no candidate
// vehicle yields a negative-reduced-cost schedule (spec §4.4).
func Run(ctx context.Context, m *master.Master, node *branch.Node, fleet *model.Fleet, win *horizon.Window, numTrips, numMaintenances int, hasUnassignedMaintenance bool, cfg Config, rng *rand.Rand) Outcome {
	m.FilterVars(node)
	sol := m.Solve()

	if sol.Status != lp.StatusOptimal {
		state := m.BeginPhase1()
		phase1Sol := m.Solve()
		feasible := master.Phase1Feasible(state, phase1Sol.GetPrimal())
		m.EndPhase1(state)
		if !feasible {
			return Outcome{Solution: phase1Sol, Feasible: false}
		}
		sol = m.Solve()
	}

	// Vehicles this node has forced onto a trip or maintenance slot are
	// re-priced first: a forced vehicle that hasn't yet generated the
	// covering column is the one most likely to move the relaxation,
	// so it shouldn't wait behind an unrelated shuffle order.
	priority := priorityVehicles(node, fleet.Vehicles.Len(), numTrips, numMaintenances)
	candidates := make([]int, 0, fleet.Vehicles.Len())
	prioritySlice := priority.ToSlice()
	sort.Ints(prioritySlice)
	candidates = append(candidates, prioritySlice...)
	for v := 0; v < fleet.Vehicles.Len(); v++ {
		if !priority.Contains(v) {
			candidates = append(candidates, v)
		}
	}

	var segments []segmentconn.Segment
	optimal := true
	iterations := 0

	for ; iterations < cfg.MaxIterations; iterations++ {
		if ctx.Err() != nil {
			optimal = false
			break
		}

		duals := pricing.BuildDuals(m, numTrips, numMaintenances, sol)
		if cfg.Variant != VariantTimeSpace {
			segments = segmentconn.BuildSegments(fleet, win, duals)
		}

		solveAll := cfg.SolveAllEvery > 0 && iterations%cfg.SolveAllEvery == 0
		price := buildPriceFunc(fleet, win, node, duals, hasUnassignedMaintenance, segments, cfg)
		batch := pricing.Run(ctx, candidates, cfg.NrThreads, solveAll, rng, price)
		if !batch.Optimal {
			optimal = false
		}

		added := 0
		for _, r := range batch.Results {
			for _, sched := range r.Schedules {
				m.AddColumn(columnFromSchedule(m, fleet, sched))
				added++
			}
		}
		if added == 0 {
			break
		}

		m.FilterVars(node)
		sol = m.Solve()
	}

	return Outcome{Solution: sol, Iterations: iterations, Feasible: true, Optimal: optimal}
}

// priorityVehicles collects every vehicle this node's branches force
// onto some trip or maintenance slot, deduplicated across both lists.
func priorityVehicles(node *branch.Node, numVehicles, numTrips, numMaintenances int) mapset.Set[int] {
	priority := mapset.NewThreadUnsafeSet[int]()
	for v := 0; v < numVehicles; v++ {
		for trip := 0; trip < numTrips; trip++ {
			if node.VehicleForcedOnTrip(v, trip) {
				priority.Add(v)
			}
		}
		for maint := 0; maint < numMaintenances; maint++ {
			if node.VehicleForcedOnMaintenance(v, maint) {
				priority.Add(v)
			}
		}
	}
	return priority
}
