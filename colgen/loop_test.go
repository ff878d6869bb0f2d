package colgen

import (
	"context"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/evfleet/rotor/branch"
	"github.com/evfleet/rotor/horizon"
	"github.com/evfleet/rotor/master"
	"github.com/evfleet/rotor/model"
)

func buildFleetWithOneUncoveredTrip(t *testing.T) (*model.Fleet, int) {
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

func TestRun_GeneratesColumnCoveringTripInsteadOfPenalty(t *testing.T) {
	f, tripIdx := buildFleetWithOneUncoveredTrip(t)
	win := horizon.NewWindow(f, 0, 2000, 0)

	m := master.New(1, 0, master.DefaultOptions())
	node := branch.NewRoot()
	rng := rand.New(rand.NewSource(1))

	cfg := DefaultConfig()
	cfg.Variant = VariantTimeSpace
	cfg.NrThreads = 1
	cfg.MaxIterations = 20

	out := Run(context.Background(), m, node, f, win, 1, 0, false, cfg, rng)

	require.True(t, out.Feasible)
	require.Equal(t, "OPTIMAL", out.Solution.Status.String())
	require.Less(t, out.Solution.Objective, master.DefaultOptions().UncoveredTripPenalty)

	row, ok := m.TripRow(tripIdx)
	require.True(t, ok)

	covered := false
	for _, col := range m.AllColumns() {
		if v, ok := col.Coverage[row]; ok && v > 0 {
			covered = true
		}
	}
	require.True(t, covered, "expected a generated column to cover the trip row")
}

func TestRun_ReturnsInfeasibleWhenMaintenanceRowUncoverable(t *testing.T) {
	f, _ := buildFleetWithOneUncoveredTrip(t)
	win := horizon.NewWindow(f, 0, 2000, 0)

	// A maintenance row with no corresponding activity in the fleet can
	// never be covered by any priced column, so phase-1 must report
	// this node infeasible rather than loop until the iteration budget.
	m := master.New(1, 1, master.DefaultOptions())
	node := branch.NewRoot()
	rng := rand.New(rand.NewSource(1))

	cfg := DefaultConfig()
	cfg.Variant = VariantTimeSpace
	cfg.NrThreads = 1
	cfg.MaxIterations = 5

	out := Run(context.Background(), m, node, f, win, 1, 1, true, cfg, rng)

	require.False(t, out.Feasible)
}
