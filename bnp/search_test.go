package bnp

import (
	"context"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/evfleet/rotor/branch"
	"github.com/evfleet/rotor/colgen"
	"github.com/evfleet/rotor/horizon"
	"github.com/evfleet/rotor/master"
	"github.com/evfleet/rotor/model"
)

func buildOneTripFleet(t *testing.T) (*model.Fleet, int) {
	t.Helper()
	f := model.NewFleet(1)

	_, err := f.Network.AddLocation("L1", "Depot", model.LocationCharger)
	require.NoError(t, err)
	_, err = f.Network.AddLocation("L2", "Stop", model.LocationStop)
	require.NoError(t, err)
	f.Network.Finalize()
	f.Network.SetTravel(0, 1, 60, 100)
	f.Network.SetTravel(1, 0, 60, 100)

	chIdx, err := f.Chargers.Add(model.Charger{ID: "C1", Location: 0, Capacity: 1, VoltsV: 400, AmpsA: 100})
	require.NoError(t, err)

	_, err = f.Vehicles.Add(model.Vehicle{
		ID: "V1", BatteryMinKWh: 20, BatteryMaxKWh: 200,
		InitialCharger: chIdx, InitialTime: 0, InitialSOCKWh: 200,
		VoltsV: 400, AmpsA: 100, ConsumptionPerKm: decimal.NewFromFloat(1.0),
		InRotation: true,
	})
	require.NoError(t, err)
	require.NoError(t, f.SeedInitialVertices())

	tripIdx, err := f.Trips.Add(model.Trip{ID: "T1", StartTime: 1000, EndTime: 1100, StartLocation: 0, EndLocation: 1})
	require.NoError(t, err)
	act := model.NewTripActivity(f.Trips.Get(tripIdx))
	act.DistanceM = 100
	act.DurationSec = 60
	f.Graph.AddVertex(act)

	return f, tripIdx
}

func TestRun_BestFirstCoversTripWithoutPenalty(t *testing.T) {
	f, tripIdx := buildOneTripFleet(t)
	win := horizon.NewWindow(f, 0, 2000, 0)

	m := master.New(1, 0, master.DefaultOptions())
	root := branch.NewRoot()
	rng := rand.New(rand.NewSource(1))

	opts := DefaultOptions()
	opts.Colgen.Variant = colgen.VariantTimeSpace
	opts.Colgen.NrThreads = 1
	opts.Colgen.MaxIterations = 20
	opts.Strategy = StrategyBestFirst
	opts.MaxNodes = 50

	res := Run(context.Background(), m, root, f, win, 1, 0, false, opts, rng)

	require.True(t, res.Optimal)
	require.NotNil(t, res.Solution)
	require.Less(t, res.Solution.Objective, master.DefaultOptions().UncoveredTripPenalty)

	row, ok := m.TripRow(tripIdx)
	require.True(t, ok)

	covered := false
	for _, col := range m.AllColumns() {
		if v, ok := col.Coverage[row]; ok && v > 0 {
			covered = true
		}
	}
	require.True(t, covered, "expected the incumbent's column pool to cover the trip row")
}

func TestRun_PriceAndBranchCoversTripWithoutPenalty(t *testing.T) {
	f, tripIdx := buildOneTripFleet(t)
	win := horizon.NewWindow(f, 0, 2000, 0)

	m := master.New(1, 0, master.DefaultOptions())
	root := branch.NewRoot()
	rng := rand.New(rand.NewSource(1))

	opts := DefaultOptions()
	opts.Colgen.Variant = colgen.VariantTimeSpace
	opts.Colgen.NrThreads = 1
	opts.Colgen.MaxIterations = 20
	opts.Strategy = StrategyPriceAndBranch
	opts.MaxNodes = 50

	res := Run(context.Background(), m, root, f, win, 1, 0, false, opts, rng)

	require.True(t, res.Optimal)
	require.NotNil(t, res.Solution)
	require.Less(t, res.Solution.Objective, master.DefaultOptions().UncoveredTripPenalty)

	row, ok := m.TripRow(tripIdx)
	require.True(t, ok)

	covered := false
	for _, col := range m.AllColumns() {
		if v, ok := col.Coverage[row]; ok && v > 0 {
			covered = true
		}
	}
	require.True(t, covered, "expected the frozen column pool to cover the trip row")
}

func TestRun_ReturnsNoIncumbentWhenMaintenanceRowUncoverable(t *testing.T) {
	f, _ := buildOneTripFleet(t)
	win := horizon.NewWindow(f, 0, 2000, 0)

	// No maintenance activity exists for this fleet, so the unmet
	// maintenance row can never be priced away: the root relaxation
	// itself must report infeasible rather than spin through nodes.
	m := master.New(1, 1, master.DefaultOptions())
	root := branch.NewRoot()
	rng := rand.New(rand.NewSource(1))

	opts := DefaultOptions()
	opts.Colgen.Variant = colgen.VariantTimeSpace
	opts.Colgen.NrThreads = 1
	opts.Colgen.MaxIterations = 5
	opts.Strategy = StrategyBestFirst
	opts.MaxNodes = 10

	res := Run(context.Background(), m, root, f, win, 1, 1, true, opts, rng)
	require.Nil(t, res.Best)
}
