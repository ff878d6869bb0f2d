package stats

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/evfleet/rotor/model"
)

func buildOneVehicleFleet(t *testing.T) *model.Fleet {
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

	vIdx, err := f.Vehicles.Add(model.Vehicle{
		ID: "V1", BatteryMinKWh: 20, BatteryMaxKWh: 200,
		InitialCharger: chIdx, InitialTime: 0, InitialSOCKWh: 200,
		VoltsV: 400, AmpsA: 100, ConsumptionPerKm: decimal.NewFromFloat(1.0),
		InRotation: true,
	})
	require.NoError(t, err)
	require.NoError(t, f.SeedInitialVertices())

	tripIdx, err := f.Trips.Add(model.Trip{ID: "T1", StartTime: 1000, EndTime: 1100, StartLocation: 0, EndLocation: 1})
	require.NoError(t, err)
	tripAct := model.NewTripActivity(f.Trips.Get(tripIdx))
	tripAct.DistanceM = 100
	tripAct.DurationSec = 100
	tripVertex := f.Graph.AddVertex(tripAct)
	tripArc := f.Graph.AddArc(f.Graph.LastVertex(vIdx), tripVertex, 1000)

	chargeAct := model.NewChargingActivity(1, 1200, 1500, chIdx)
	chargeVertex := f.Graph.AddVertex(chargeAct)
	chargeArc := f.Graph.AddArc(tripVertex, chargeVertex, 0)

	require.NoError(t, f.Graph.CommitPath(vIdx, []int{tripArc, chargeArc}))
	return f
}

func TestComputeVehicleStats_AccumulatesEachActivityKind(t *testing.T) {
	f := buildOneVehicleFleet(t)

	s := ComputeVehicleStats(f, 0, nil, 42.5)

	require.Equal(t, "V1", s.VehicleID)
	require.Equal(t, 42.5, s.CostTotal)
	require.Equal(t, int64(100), s.ProductiveSec)
	require.Equal(t, int64(300), s.ChargingSec)
	require.Equal(t, uint32(100), s.DistanceM)
	// idle: 1000 s between START_SCHEDULE (t=0) and the trip (t=1000),
	// plus 100 s between the trip's end (t=1100) and charging (t=1200).
	require.Equal(t, int64(1100), s.IdleSec)
}

func TestComputeVehicleStats_SOCBoundsFromSamples(t *testing.T) {
	f := buildOneVehicleFleet(t)
	path := f.Graph.VehiclePath(0)

	socByVertex := map[int]int{}
	for _, arcIdx := range path {
		arc := f.Graph.Arc(arcIdx)
		socByVertex[arc.To] = 150
	}
	socByVertex[path[0]] = 80

	s := ComputeVehicleStats(f, 0, socByVertex, 0)
	require.Equal(t, 80, s.SOCMinKWh)
	require.Equal(t, 150, s.SOCMaxKWh)
}

func TestComputeVehicleStats_NoSOCSamplesCollapsesToInitial(t *testing.T) {
	f := buildOneVehicleFleet(t)
	s := ComputeVehicleStats(f, 0, nil, 0)
	require.Equal(t, 200, s.SOCMinKWh)
	require.Equal(t, 200, s.SOCMaxKWh)
}
