package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func buildSimpleFleet(t *testing.T) (*Fleet, Vehicle) {
	t.Helper()
	f := NewFleet(1)
	_, err := f.Network.AddLocation("L1", "Depot", LocationCharger)
	require.NoError(t, err)
	_, err = f.Network.AddLocation("L2", "Stop", LocationStop)
	require.NoError(t, err)
	f.Network.Finalize()
	f.Network.SetTravel(0, 1, 600, 10000)
	f.Network.SetTravel(1, 0, 600, 10000)

	chIdx, err := f.Chargers.Add(Charger{ID: "C1", Location: 0, Capacity: 1, VoltsV: 400, AmpsA: 100})
	require.NoError(t, err)

	vIdx, err := f.Vehicles.Add(Vehicle{
		ID: "V1", BatteryMinKWh: 20, BatteryMaxKWh: 200,
		InitialCharger: chIdx, InitialTime: 0, InitialSOCKWh: 200,
		VoltsV: 400, AmpsA: 100, ConsumptionPerKm: decimal.NewFromFloat(1.0),
		InRotation: true,
	})
	require.NoError(t, err)

	require.NoError(t, f.SeedInitialVertices())
	return f, f.Vehicles.Get(vIdx)
}

func TestReplayPath_TracksSOCAndRejectsExcursion(t *testing.T) {
	f, v := buildSimpleFleet(t)

	trip := addSyntheticTrip(f, 0, 600, 0, 1, 10000, 600)
	require.NoError(t, f.Graph.CommitPath(v.Index, []int{f.Graph.AddArc(f.Graph.LastVertex(v.Index), trip, 0)}))

	rc, err := ReplayPath(f.Graph, f.Chargers, v)
	require.NoError(t, err)
	require.Less(t, rc.SOCKWh, v.InitialSOCKWh)
	require.GreaterOrEqual(t, rc.SOCKWh, v.BatteryMinKWh)
}

// addSyntheticTrip injects a synthetic trip activity vertex directly
// into the graph (bypassing the Trips registry, which is not needed
// for this unit-level resource test).
func addSyntheticTrip(f *Fleet, start, end int64, fromLoc, toLoc int, distM, durSec uint32) int {
	act := Activity{
		Kind: ActivityTrip, StartTime: start, EndTime: end,
		StartLocation: fromLoc, EndLocation: toLoc,
		DistanceM: distM, DurationSec: durSec,
		TripIndex: 0, MaintenanceIndex: -1, ChargerIndex: -1, VehicleIndex: -1,
	}
	return f.Graph.AddVertex(act)
}
