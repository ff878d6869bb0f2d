package horizon

import (
	"testing"

	"github.com/evfleet/rotor/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func buildSimpleFleet(t *testing.T) *model.Fleet {
	t.Helper()
	f := model.NewFleet(1)

	_, err := f.Network.AddLocation("L1", "Depot", model.LocationCharger)
	require.NoError(t, err)
	_, err = f.Network.AddLocation("L2", "Stop", model.LocationStop)
	require.NoError(t, err)
	f.Network.Finalize()
	f.Network.SetTravel(0, 1, 600, 10000)
	f.Network.SetTravel(1, 0, 600, 10000)

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

	trip, err := f.Trips.Add(model.Trip{ID: "T1", StartTime: 1000, EndTime: 1600, StartLocation: 0, EndLocation: 1})
	require.NoError(t, err)
	act := model.NewTripActivity(f.Trips.Get(trip))
	act.DistanceM = 10000
	act.DurationSec = 600
	tripVertex := f.Graph.AddVertex(act)

	arc := f.Graph.AddArc(f.Graph.LastVertex(0), tripVertex, 0)
	require.NoError(t, f.Graph.CommitPath(0, []int{arc}))

	return f
}

func TestNewWindow_DensifiesTripsInRange(t *testing.T) {
	f := buildSimpleFleet(t)

	w := NewWindow(f, 0, 2000, 0)
	require.Len(t, w.Trips, 1)
	require.GreaterOrEqual(t, w.DenseIndexOf(w.Trips[0]), 0)
}

func TestNewWindow_ExcludesTripsOutsideRange(t *testing.T) {
	f := buildSimpleFleet(t)

	w := NewWindow(f, 2000, 3000, 0)
	require.Len(t, w.Trips, 0)
}

func TestNewWindow_EntryStateTracksReplay(t *testing.T) {
	f := buildSimpleFleet(t)

	w := NewWindow(f, 0, 2000, 0)
	require.Len(t, w.Entries, 1)
	entry := w.Entries[0]
	require.Less(t, entry.SOCKWh, 200)
	require.Equal(t, int64(10000), entry.Odometer)
}
