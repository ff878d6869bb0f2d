// Package bnp implements the branch-and-price tree driver (spec §4.5
// C8): strong branching with a historical running-mean score cache,
// best-first and depth-first tree search, the truncated-column-
// generation diving heuristic, and price-and-branch. Each tree node's
// LP relaxation is solved by calling colgen.Run once; bnp owns the
// lower-bound/incumbent bookkeeping colgen.Run deliberately leaves to
// its caller.
package bnp

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/evfleet/rotor/branch"
)

// scoreKey identifies "this kind of branch" the way
// original_source's BranchEvaluator keys its moving-average tables:
// by branch kind and payload, not by tree position, so history
// carries across sibling and cousin nodes that split the same
// structure.
type scoreKey struct {
	kind  branch.Kind
	a, b  int
	start int64
}

func keyFor(br branch.Branch) scoreKey {
	switch br.Kind {
	case branch.KindVehicleTrip:
		return scoreKey{kind: br.Kind, a: br.Vehicle, b: br.Trip}
	case branch.KindVehicleMaintenance:
		return scoreKey{kind: br.Kind, a: br.Vehicle, b: br.Maintenance}
	case branch.KindChargerCapacity:
		return scoreKey{kind: br.Kind, a: br.Charger, start: br.WindowStart}
	default:
		return scoreKey{kind: br.Kind}
	}
}

// runningMean is a cumulative (not exponentially-decayed) mean of
// every score observed for one scoreKey, matching
// BranchEvaluator::_update_moving_average's
// `((n-1)*mean + x) / n` update exactly.
type runningMean struct {
	mean  float64
	count uint32
}

// Evaluator tracks the historical strong-branching score of every
// branch kind/payload seen so far, bounded by an LRU so a long-running
// search doesn't grow this table without bound.
type Evaluator struct {
	cache *lru.Cache[scoreKey, *runningMean]
}

// NewEvaluator builds an empty history cache with the given capacity.
func NewEvaluator(capacity int) *Evaluator {
	if capacity < 1 {
		capacity = 1
	}
	cache, err := lru.New[scoreKey, *runningMean](capacity)
	if err != nil {
		panic(err)
	}
	return &Evaluator{cache: cache}
}

// Update folds a newly observed strong-branching score into this
// branch's running mean.
func (e *Evaluator) Update(br branch.Branch, score float64) {
	key := keyFor(br)
	cur, ok := e.cache.Get(key)
	if !ok {
		cur = &runningMean{}
	}
	cur.count++
	cur.mean = (float64(cur.count-1)*cur.mean + score) / float64(cur.count)
	e.cache.Add(key, cur)
}

// Score returns the historical mean score for this branch's kind and
// payload, or 0 if it has never been evaluated.
func (e *Evaluator) Score(br branch.Branch) float64 {
	if cur, ok := e.cache.Get(keyFor(br)); ok {
		return cur.mean
	}
	return 0
}
