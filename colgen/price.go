package colgen

import (
	"context"

	"github.com/evfleet/rotor/branch"
	"github.com/evfleet/rotor/horizon"
	"github.com/evfleet/rotor/model"
	"github.com/evfleet/rotor/pricing"
	"github.com/evfleet/rotor/pricing/segmentcentral"
	"github.com/evfleet/rotor/pricing/segmentconn"
	"github.com/evfleet/rotor/pricing/timespace"
	"github.com/evfleet/rotor/rcsp"
)

// buildPriceFunc closes over the current duals/node/segments and
// returns the pricing.PriceFunc pricing.Run dispatches across
// candidate vehicles (spec §4.3.5). Which network variant it builds is
// fixed by cfg.Variant for the whole column-generation run.
func buildPriceFunc(fleet *model.Fleet, win *horizon.Window, node *branch.Node, duals *pricing.Duals, hasUnassignedMaintenance bool, segments []segmentconn.Segment, cfg Config) pricing.PriceFunc {
	return func(ctx context.Context, vehicle int) pricing.Result {
		v := fleet.Vehicles.Get(vehicle)
		switch cfg.Variant {
		case VariantSegmentConn:
			return priceSegmentConn(ctx, fleet, win, node, v, duals, hasUnassignedMaintenance, segments, cfg)
		case VariantSegmentCentral:
			return priceSegmentCentral(ctx, fleet, win, node, v, duals, hasUnassignedMaintenance, segments, cfg)
		default:
			return priceTimeSpace(ctx, fleet, win, node, v, duals, hasUnassignedMaintenance, cfg)
		}
	}
}

func priceTimeSpace(ctx context.Context, fleet *model.Fleet, win *horizon.Window, node *branch.Node, v model.Vehicle, duals *pricing.Duals, hasUnassignedMaintenance bool, cfg Config) pricing.Result {
	net := timespace.Build(fleet, win, v, duals, hasUnassignedMaintenance, cfg.CostModel)
	net.ApplyBranch(node)

	engine := rcsp.New[timespace.State](net, budgetHooks[timespace.State](ctx), cfg.MaxLabelsPerVertex)
	sinks := engine.Run(net.SourceVertex(), net.InitialState(), 0)

	result := pricing.Result{Vehicle: v.Index, SolvedOptimal: ctx.Err() == nil}
	for _, sink := range sinks {
		sched := net.BuildSchedule(sink)
		if sched.ReducedCost < -negativeReducedCostTolerance {
			result.Schedules = append(result.Schedules, sched)
		}
	}
	return result
}

func priceSegmentConn(ctx context.Context, fleet *model.Fleet, win *horizon.Window, node *branch.Node, v model.Vehicle, duals *pricing.Duals, hasUnassignedMaintenance bool, segments []segmentconn.Segment, cfg Config) pricing.Result {
	net := segmentconn.Build(fleet, v, duals, segments, hasUnassignedMaintenance, cfg.CostModel)
	net.ApplyBranch(node)

	entry := win.Entries[v.Index]
	engine := rcsp.New[segmentconn.State](net, budgetHooks[segmentconn.State](ctx), cfg.MaxLabelsPerVertex)
	sinks := engine.Run(net.SourceVertex(), net.InitialState(entry.LastNodeEndTime, entry.Odometer-entry.OdometerLastMaint), 0)

	result := pricing.Result{Vehicle: v.Index, SolvedOptimal: ctx.Err() == nil}
	for _, sink := range sinks {
		sched := net.BuildSchedule(sink)
		if sched.ReducedCost < -negativeReducedCostTolerance {
			result.Schedules = append(result.Schedules, sched)
		}
	}
	return result
}

func priceSegmentCentral(ctx context.Context, fleet *model.Fleet, win *horizon.Window, node *branch.Node, v model.Vehicle, duals *pricing.Duals, hasUnassignedMaintenance bool, segments []segmentconn.Segment, cfg Config) pricing.Result {
	// The vehicle's current charger is only tracked precisely across a
	// rolling-horizon handoff once cmd/rotord's entry-state threading
	// exists; until then InitialCharger (the vehicle's seeded starting
	// charger) stands in for "current charger at window start".
	net := segmentcentral.Build(fleet, v, v.InitialCharger, duals, segments, hasUnassignedMaintenance, cfg.CostModel)
	net.ApplyBranch(node)

	entry := win.Entries[v.Index]
	engine := rcsp.New[segmentcentral.State](net, budgetHooks[segmentcentral.State](ctx), cfg.MaxLabelsPerVertex)
	sinks := engine.Run(net.SourceVertex(), net.InitialState(entry.LastNodeEndTime, entry.Odometer-entry.OdometerLastMaint), 0)

	result := pricing.Result{Vehicle: v.Index, SolvedOptimal: ctx.Err() == nil}
	for _, sink := range sinks {
		sched := net.BuildSchedule(sink)
		if sched.ReducedCost < -negativeReducedCostTolerance {
			result.Schedules = append(result.Schedules, sched)
		}
	}
	return result
}

// budgetHooks vetoes further label expansion once ctx's deadline has
// passed, so a slow pricing call degrades to "best schedules found so
// far" instead of running unbounded.
func budgetHooks[S any](ctx context.Context) rcsp.Hooks[S] {
	return rcsp.Hooks[S]{
		OnEnterLoop: func(*rcsp.Label[S]) bool { return ctx.Err() == nil },
	}
}

// negativeReducedCostTolerance absorbs floating-point noise around the
// zero boundary when deciding whether a schedule is worth adding back
// to the master (spec §4.4: "any schedule with reduced_cost < 0").
const negativeReducedCostTolerance = 1e-6
