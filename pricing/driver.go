package pricing

import (
	"context"
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"
)

// PriceFunc prices a single vehicle against the current duals/branch
// state, honouring ctx's deadline. Each of the three network variants
// (pricing/timespace, pricing/segmentconn, pricing/segmentcentral)
// supplies its own closure; this package only shuffles, batches, and
// parallelises candidates across whichever one the caller is running
// (spec §4.3.5).
type PriceFunc func(ctx context.Context, vehicle int) Result

// BatchResult is the outcome of one driver call across every candidate
// vehicle: the results actually obtained, and whether the batch as a
// whole was priced to exhaustion (gates the Lagrangian lower-bound
// update in the column-generation loop, spec §4.3.5/§4.4).
type BatchResult struct {
	Results []Result
	Optimal bool
}

// Run shuffles candidates, dispatches them min(nrThreads, len(candidates))
// at a time through price, and — unless solveAll is set — stops as soon
// as some batch yields a negative-reduced-cost schedule, leaving the
// remaining candidates unpriced for this call. With solveAll set, every
// candidate is priced regardless (periodic full pricing, or whenever
// the RMP objective has drifted above the incumbent — spec §4.4's
// solve_all_pp_vehicles condition is the caller's to evaluate).
func Run(ctx context.Context, candidates []int, nrThreads int, solveAll bool, rng *rand.Rand, price PriceFunc) BatchResult {
	if nrThreads <= 0 {
		nrThreads = 1
	}

	shuffled := make([]int, len(candidates))
	copy(shuffled, candidates)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	batch := BatchResult{Optimal: true}
	foundNegative := false

	for start := 0; start < len(shuffled); start += nrThreads {
		end := start + nrThreads
		if end > len(shuffled) {
			end = len(shuffled)
		}
		chunk := shuffled[start:end]

		results := priceChunk(ctx, chunk, price)
		for _, r := range results {
			batch.Results = append(batch.Results, r)
			if !r.SolvedOptimal {
				batch.Optimal = false
			}
			if hasNegativeReducedCost(r) {
				foundNegative = true
			}
		}

		if ctx.Err() != nil {
			batch.Optimal = false
			break
		}
		if foundNegative && !solveAll {
			break
		}
	}

	return batch
}

func priceChunk(ctx context.Context, vehicles []int, price PriceFunc) []Result {
	results := make([]Result, len(vehicles))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(len(vehicles))

	for i, v := range vehicles {
		i, v := i, v
		g.Go(func() error {
			results[i] = price(gctx, v)
			return nil
		})
	}
	// Worker closures never return an error: a pricing job that fails
	// to find a column simply returns an empty Result, it does not
	// abort its siblings.
	_ = g.Wait()
	return results
}

func hasNegativeReducedCost(r Result) bool {
	for _, s := range r.Schedules {
		if s.ReducedCost < 0 {
			return true
		}
	}
	return false
}

// DefaultDeadline builds the wall-clock deadline for one column-
// generation iteration, capped by the enclosing planning-horizon
// deadline (spec §4.3.5/§5: "per-phase wall-clock deadline").
func DefaultDeadline(now time.Time, columnGenTimelimit time.Duration, horizonDeadline time.Time) time.Time {
	d := now.Add(columnGenTimelimit)
	if d.After(horizonDeadline) {
		return horizonDeadline
	}
	return d
}
