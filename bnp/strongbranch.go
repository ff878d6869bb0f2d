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

// StrongBranchConfig tunes the two-tier strong-branching evaluation
// (spec §4.5).
type StrongBranchConfig struct {
	// FirstTierCount caps how many pre-ranked candidates get the cheap
	// LP-only (no pricing) evaluation.
	FirstTierCount int
	// SecondTierCount caps how many first-tier survivors get the more
	// expensive heuristic-column-generation evaluation.
	SecondTierCount int
	// HeuristicMaxIterations bounds the column-generation passes run
	// during second-tier evaluation — standing in for the spec's
	// "linear-gap-tolerance" early stop, since colgen.Run doesn't track
	// an incumbent gap of its own (that bookkeeping lives here in bnp).
	HeuristicMaxIterations int
}

// DefaultStrongBranchConfig mirrors original_source's evaConstants.h
// strong-branching tier sizes.
func DefaultStrongBranchConfig() StrongBranchConfig {
	return StrongBranchConfig{
		FirstTierCount:         50,
		SecondTierCount:        25,
		HeuristicMaxIterations: 5,
	}
}

// Choose runs the two-tier strong-branching evaluation: candidates are
// pre-sorted by historical score (top half) filled out by most-
// fractional (the remainder), the top FirstTierCount of those get a
// cheap LP-only evaluation (re-filter + solve, no pricing), the top
// SecondTierCount of THOSE get a short heuristic column-generation
// pass, and the branch maximising min(Δleft, Δright) wins — ties
// broken by Kind (spec §4.5's declared branch priority order matches
// branch.Kind's iota order: VehicleTrip > VehicleMaintenance >
// ChargerCapacity). The winning branch's score feeds back into ev for
// future nodes.
func Choose(ctx context.Context, ev *Evaluator, candidates []branch.Candidate, m *master.Master, node *branch.Node, fleet *model.Fleet, win *horizon.Window, numTrips, numMaintenances int, hasUnassignedMaintenance bool, parentObjective float64, cfg StrongBranchConfig, cgCfg colgen.Config, rng *rand.Rand) (branch.Branch, bool) {
	if len(candidates) == 0 {
		return branch.Branch{}, false
	}

	firstTier := preRank(ev, candidates)
	if len(firstTier) > cfg.FirstTierCount {
		firstTier = firstTier[:cfg.FirstTierCount]
	}

	type scored struct {
		branch branch.Branch
		delta  float64
	}
	lpScored := make([]scored, 0, len(firstTier))
	for _, c := range firstTier {
		lpScored = append(lpScored, scored{branch: c.Branch, delta: lpOnlyDelta(m, node, c.Branch, parentObjective)})
	}
	sort.SliceStable(lpScored, func(i, j int) bool { return lpScored[i].delta > lpScored[j].delta })

	secondTier := lpScored
	if len(secondTier) > cfg.SecondTierCount {
		secondTier = secondTier[:cfg.SecondTierCount]
	}

	var best scored
	haveBest := false
	for _, c := range secondTier {
		delta := heuristicCGDelta(ctx, m, node, c.branch, fleet, win, numTrips, numMaintenances, hasUnassignedMaintenance, parentObjective, cfg, cgCfg, rng)
		if !haveBest || delta > best.delta || (delta == best.delta && c.branch.Kind < best.branch.Kind) {
			best = scored{branch: c.branch, delta: delta}
			haveBest = true
		}
	}
	if !haveBest {
		return branch.Branch{}, false
	}

	ev.Update(best.branch, best.delta)
	return best.branch, true
}

// preRank orders candidates by the spec's pre-sort: the top half by
// historical score, filled out with the most-fractional remainder.
func preRank(ev *Evaluator, candidates []branch.Candidate) []branch.Candidate {
	byHistory := make([]branch.Candidate, len(candidates))
	copy(byHistory, candidates)
	sort.SliceStable(byHistory, func(i, j int) bool {
		return ev.Score(byHistory[i].Branch) > ev.Score(byHistory[j].Branch)
	})

	top := byHistory[:len(byHistory)/2]
	seen := make(map[branch.Branch]bool, len(top))
	for _, c := range top {
		seen[c.Branch] = true
	}

	rest := make([]branch.Candidate, 0, len(candidates)-len(top))
	for _, c := range candidates {
		if !seen[c.Branch] {
			rest = append(rest, c)
		}
	}

	ranked := make([]branch.Candidate, 0, len(candidates))
	ranked = append(ranked, top...)
	ranked = append(ranked, branch.RankByFractionality(rest)...)
	return ranked
}

func withAllow(br branch.Branch, allow bool) branch.Branch {
	br.Allow = allow
	return br
}

// lpOnlyDelta evaluates a candidate branch by re-filtering the master
// (no pricing) for its two children and solving each LP relaxation,
// returning the minimum of the two objective improvements over the
// parent (spec §4.5's first-tier evaluation).
func lpOnlyDelta(m *master.Master, node *branch.Node, br branch.Branch, parentObjective float64) float64 {
	left := node.Child(withAllow(br, true))
	right := node.Child(withAllow(br, false))

	deltaLeft := lpOnlyObjective(m, left) - parentObjective
	deltaRight := lpOnlyObjective(m, right) - parentObjective
	if deltaLeft < deltaRight {
		return deltaLeft
	}
	return deltaRight
}

func lpOnlyObjective(m *master.Master, node *branch.Node) float64 {
	m.FilterVars(node)
	sol := m.Solve()
	if sol.Status != lp.StatusOptimal {
		return math.Inf(1)
	}
	return sol.Objective
}

// heuristicCGDelta is lpOnlyDelta's second-tier counterpart: each
// child gets a short column-generation pass (bounded by
// cfg.HeuristicMaxIterations) instead of a pure LP re-solve.
func heuristicCGDelta(ctx context.Context, m *master.Master, node *branch.Node, br branch.Branch, fleet *model.Fleet, win *horizon.Window, numTrips, numMaintenances int, hasUnassignedMaintenance bool, parentObjective float64, cfg StrongBranchConfig, cgCfg colgen.Config, rng *rand.Rand) float64 {
	heuristic := cgCfg
	heuristic.MaxIterations = cfg.HeuristicMaxIterations

	left := node.Child(withAllow(br, true))
	right := node.Child(withAllow(br, false))

	deltaLeft := cgObjective(ctx, m, left, fleet, win, numTrips, numMaintenances, hasUnassignedMaintenance, heuristic, rng) - parentObjective
	deltaRight := cgObjective(ctx, m, right, fleet, win, numTrips, numMaintenances, hasUnassignedMaintenance, heuristic, rng) - parentObjective
	if deltaLeft < deltaRight {
		return deltaLeft
	}
	return deltaRight
}

func cgObjective(ctx context.Context, m *master.Master, node *branch.Node, fleet *model.Fleet, win *horizon.Window, numTrips, numMaintenances int, hasUnassignedMaintenance bool, cgCfg colgen.Config, rng *rand.Rand) float64 {
	out := colgen.Run(ctx, m, node, fleet, win, numTrips, numMaintenances, hasUnassignedMaintenance, cgCfg, rng)
	if !out.Feasible || out.Solution.Status != lp.StatusOptimal {
		return math.Inf(1)
	}
	return out.Solution.Objective
}
