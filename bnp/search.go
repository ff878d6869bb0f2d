package bnp

import (
	"container/heap"
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/evfleet/rotor/branch"
	"github.com/evfleet/rotor/colgen"
	"github.com/evfleet/rotor/horizon"
	"github.com/evfleet/rotor/lp"
	"github.com/evfleet/rotor/master"
	"github.com/evfleet/rotor/model"
)

// Strategy selects one of spec §4.5's three tree-search modes.
type Strategy uint8

const (
	StrategyBestFirst Strategy = iota
	StrategyDepthFirst
	StrategyPriceAndBranch
)

func (s Strategy) String() string {
	switch s {
	case StrategyDepthFirst:
		return "depth_first"
	case StrategyPriceAndBranch:
		return "price_and_branch"
	default:
		return "best_first"
	}
}

// Options configures one Run call.
type Options struct {
	Strategy     Strategy
	Colgen       colgen.Config
	StrongBranch StrongBranchConfig
	Dive         DiveConfig

	// DiveEvery triggers a diving pass from the just-expanded node
	// every Nth node expanded, whether popped by best-first or visited
	// by depth-first (0 disables diving).
	DiveEvery int
	// MaxNodes bounds how many nodes best-first/depth-first will
	// explore before giving up and returning the best incumbent found
	// so far with Optimal=false.
	MaxNodes int
	// EvaluatorCacheSize bounds the strong-branching history table.
	EvaluatorCacheSize int
	// Deadline, if non-zero, is a wall-clock cutoff mirroring spec §5's
	// branch_and_price_timelimit.
	Deadline time.Time
}

// DefaultOptions mirrors original_source's evaConstants.h defaults.
func DefaultOptions() Options {
	return Options{
		Strategy:           StrategyBestFirst,
		Colgen:             colgen.DefaultConfig(),
		StrongBranch:       DefaultStrongBranchConfig(),
		Dive:               DefaultDiveConfig(),
		DiveEvery:          10,
		MaxNodes:           500,
		EvaluatorCacheSize: 4096,
	}
}

// Result is the tree search's outcome: the best integer-feasible node
// found, its master LP solution, and whether the search actually
// proved optimality (as opposed to stopping on a node or time budget).
type Result struct {
	Best          *branch.Node
	Solution      *lp.Solution
	NodesExplored int
	Optimal       bool
}

// Run searches the branch-and-price tree rooted at root for the
// cheapest integer-feasible assignment of vehicles to trips and
// maintenance slots, dispatching to the configured Strategy (spec
// §4.5). Every node's relaxation is solved via colgen.Run; this
// function owns the resulting lower-bound/incumbent bookkeeping
// colgen.Run deliberately leaves to its caller.
func Run(ctx context.Context, m *master.Master, root *branch.Node, fleet *model.Fleet, win *horizon.Window, numTrips, numMaintenances int, hasUnassignedMaintenance bool, opts Options, rng *rand.Rand) Result {
	switch opts.Strategy {
	case StrategyDepthFirst:
		return depthFirst(ctx, NewEvaluator(opts.EvaluatorCacheSize), m, root, fleet, win, numTrips, numMaintenances, hasUnassignedMaintenance, opts, rng)
	case StrategyPriceAndBranch:
		return priceAndBranch(ctx, m, root, fleet, win, numTrips, numMaintenances, hasUnassignedMaintenance, opts, rng)
	default:
		return bestFirst(ctx, NewEvaluator(opts.EvaluatorCacheSize), m, root, fleet, win, numTrips, numMaintenances, hasUnassignedMaintenance, opts, rng)
	}
}

func deadlinePassed(ctx context.Context, deadline time.Time) bool {
	if ctx.Err() != nil {
		return true
	}
	return !deadline.IsZero() && time.Now().After(deadline)
}

func solveNode(ctx context.Context, m *master.Master, node *branch.Node, fleet *model.Fleet, win *horizon.Window, numTrips, numMaintenances int, hasUnassignedMaintenance bool, cgCfg colgen.Config, rng *rand.Rand) (*lp.Solution, bool) {
	out := colgen.Run(ctx, m, node, fleet, win, numTrips, numMaintenances, hasUnassignedMaintenance, cgCfg, rng)
	if !out.Feasible || out.Solution.Status != lp.StatusOptimal {
		return out.Solution, false
	}
	return out.Solution, true
}

// bestFirst implements spec §4.5's best-first strategy: a min-heap on
// node lb (equivalently, the spec's max-priority queue on −lb), with a
// truncated dive every DiveEvery nodes popped.
func bestFirst(ctx context.Context, ev *Evaluator, m *master.Master, root *branch.Node, fleet *model.Fleet, win *horizon.Window, numTrips, numMaintenances int, hasUnassignedMaintenance bool, opts Options, rng *rand.Rand) Result {
	rootSol, feasible := solveNode(ctx, m, root, fleet, win, numTrips, numMaintenances, hasUnassignedMaintenance, opts.Colgen, rng)
	if !feasible {
		return Result{Solution: rootSol, Optimal: true}
	}

	q := &nodeQueue{}
	heap.Init(q)
	heap.Push(q, &queueItem{node: root, sol: rootSol, lb: rootSol.Objective})

	var incumbentNode *branch.Node
	var incumbentSol *lp.Solution
	incumbent := math.Inf(1)
	nodesExplored := 0

	for q.Len() > 0 {
		if deadlinePassed(ctx, opts.Deadline) || nodesExplored >= opts.MaxNodes {
			return Result{Best: incumbentNode, Solution: incumbentSol, NodesExplored: nodesExplored, Optimal: false}
		}

		item := heap.Pop(q).(*queueItem)
		nodesExplored++

		if item.lb >= incumbent {
			continue // pruned by bound
		}

		candidates := GenerateCandidates(m, item.sol)
		if len(candidates) == 0 {
			if item.lb < incumbent {
				incumbent = item.lb
				incumbentNode = item.node
				incumbentSol = item.sol
			}
			continue
		}

		chosen, ok := Choose(ctx, ev, candidates, m, item.node, fleet, win, numTrips, numMaintenances, hasUnassignedMaintenance, item.lb, opts.StrongBranch, opts.Colgen, rng)
		if !ok {
			continue
		}

		for _, allow := range [2]bool{true, false} {
			child := item.node.Child(withAllow(chosen, allow))
			sol, ok := solveNode(ctx, m, child, fleet, win, numTrips, numMaintenances, hasUnassignedMaintenance, opts.Colgen, rng)
			if !ok || sol.Objective >= incumbent {
				continue
			}
			heap.Push(q, &queueItem{node: child, sol: sol, lb: sol.Objective})
		}

		if opts.DiveEvery > 0 && nodesExplored%opts.DiveEvery == 0 {
			diveNode, diveSol, diveFeasible := Dive(ctx, m, item.node, fleet, win, numTrips, numMaintenances, hasUnassignedMaintenance, incumbent, opts.Dive, opts.Colgen, rng)
			if diveFeasible && diveSol.Objective < incumbent {
				incumbent = diveSol.Objective
				incumbentNode = diveNode
				incumbentSol = diveSol
			}
		}
	}

	return Result{Best: incumbentNode, Solution: incumbentSol, NodesExplored: nodesExplored, Optimal: true}
}

// depthFirst implements spec §4.5's left-then-right recursion: for
// the activity branches this tree produces, "left" is the ceil
// (Allow=true, force the assignment).
func depthFirst(ctx context.Context, ev *Evaluator, m *master.Master, root *branch.Node, fleet *model.Fleet, win *horizon.Window, numTrips, numMaintenances int, hasUnassignedMaintenance bool, opts Options, rng *rand.Rand) Result {
	var incumbentNode *branch.Node
	var incumbentSol *lp.Solution
	incumbent := math.Inf(1)
	nodesExplored := 0
	stopped := false

	var visit func(node *branch.Node)
	visit = func(node *branch.Node) {
		if stopped || deadlinePassed(ctx, opts.Deadline) || nodesExplored >= opts.MaxNodes {
			stopped = true
			return
		}
		nodesExplored++

		sol, ok := solveNode(ctx, m, node, fleet, win, numTrips, numMaintenances, hasUnassignedMaintenance, opts.Colgen, rng)
		if !ok || sol.Objective >= incumbent {
			return
		}

		candidates := GenerateCandidates(m, sol)
		if len(candidates) == 0 {
			incumbent = sol.Objective
			incumbentNode = node
			incumbentSol = sol
			return
		}

		chosen, ok := Choose(ctx, ev, candidates, m, node, fleet, win, numTrips, numMaintenances, hasUnassignedMaintenance, sol.Objective, opts.StrongBranch, opts.Colgen, rng)
		if !ok {
			return
		}

		if opts.DiveEvery > 0 && nodesExplored%opts.DiveEvery == 0 {
			diveNode, diveSol, diveFeasible := Dive(ctx, m, node, fleet, win, numTrips, numMaintenances, hasUnassignedMaintenance, incumbent, opts.Dive, opts.Colgen, rng)
			if diveFeasible && diveSol.Objective < incumbent {
				incumbent = diveSol.Objective
				incumbentNode = diveNode
				incumbentSol = diveSol
			}
		}

		visit(node.Child(withAllow(chosen, true)))
		visit(node.Child(withAllow(chosen, false)))
	}

	visit(root)
	return Result{Best: incumbentNode, Solution: incumbentSol, NodesExplored: nodesExplored, Optimal: !stopped}
}

// priceAndBranch implements spec §4.5's Price-and-Branch: one column-
// generation pass at the root populates the master's column pool,
// then the tree is searched over that frozen pool (MaxIterations: 0
// disables any further pricing) rather than re-pricing at every node.
func priceAndBranch(ctx context.Context, m *master.Master, root *branch.Node, fleet *model.Fleet, win *horizon.Window, numTrips, numMaintenances int, hasUnassignedMaintenance bool, opts Options, rng *rand.Rand) Result {
	out := colgen.Run(ctx, m, root, fleet, win, numTrips, numMaintenances, hasUnassignedMaintenance, opts.Colgen, rng)
	if !out.Feasible {
		return Result{Solution: out.Solution, Optimal: false}
	}

	frozen := opts
	frozen.Strategy = StrategyBestFirst
	frozen.Colgen.MaxIterations = 0

	return bestFirst(ctx, NewEvaluator(opts.EvaluatorCacheSize), m, root, fleet, win, numTrips, numMaintenances, hasUnassignedMaintenance, frozen, rng)
}
