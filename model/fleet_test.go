package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func buildTwoLocationFleet(t *testing.T) *Fleet {
	t.Helper()
	f := NewFleet(1)

	_, err := f.Network.AddLocation("L1", "Depot", LocationCharger)
	require.NoError(t, err)
	_, err = f.Network.AddLocation("L2", "Stop", LocationStop)
	require.NoError(t, err)
	f.Network.Finalize()
	f.Network.SetTravel(0, 1, 60, 1000)
	f.Network.SetTravel(1, 0, 60, 1000)

	chIdx, err := f.Chargers.Add(Charger{ID: "C1", Location: 0, Capacity: 1, VoltsV: 400, AmpsA: 100})
	require.NoError(t, err)

	_, err = f.Vehicles.Add(Vehicle{
		ID: "V1", BatteryMinKWh: 20, BatteryMaxKWh: 200,
		InitialCharger: chIdx, InitialTime: 0, InitialSOCKWh: 200,
		VoltsV: 400, AmpsA: 100, ConsumptionPerKm: decimal.NewFromFloat(1.0),
		InRotation: true,
	})
	require.NoError(t, err)
	return f
}

func TestSeedTripAndMaintenanceVertices_DerivesDistanceAndDurationFromNetwork(t *testing.T) {
	f := buildTwoLocationFleet(t)
	_, err := f.Trips.Add(Trip{ID: "T1", StartTime: 1000, EndTime: 1060, StartLocation: 0, EndLocation: 1})
	require.NoError(t, err)
	_, err = f.Maintenances.Add(Maintenance{ID: "M1", StartTime: 2000, EndTime: 2500, Location: 0, AssignedVehicle: -1})
	require.NoError(t, err)

	f.SeedTripAndMaintenanceVertices()

	require.Equal(t, 2, f.Graph.NumVertices())
	trip := f.Graph.Vertex(0)
	require.Equal(t, ActivityTrip, trip.Kind)
	require.Equal(t, uint32(1000), trip.DistanceM)
	require.Equal(t, uint32(60), trip.DurationSec)

	maint := f.Graph.Vertex(1)
	require.Equal(t, ActivityMaintenance, maint.Kind)
}

func TestSeedChargerLattice_OnePutOnTakeOffPairPerSpacing(t *testing.T) {
	f := buildTwoLocationFleet(t)
	f.SeedChargerLattice(0, 600, 300)

	require.Equal(t, 6, f.Graph.NumVertices()) // 3 instants (0,300,600) x 2 vertices each

	putOns := 0
	takeOffs := 0
	for i := 0; i < f.Graph.NumVertices(); i++ {
		switch f.Graph.Vertex(i).Kind {
		case ActivityPutOnCharge:
			putOns++
		case ActivityTakeOffCharge:
			takeOffs++
		}
	}
	require.Equal(t, 3, putOns)
	require.Equal(t, 3, takeOffs)
}
