package timespace

import (
	"testing"

	"github.com/evfleet/rotor/horizon"
	"github.com/evfleet/rotor/master"
	"github.com/evfleet/rotor/model"
	"github.com/evfleet/rotor/pricing"
	"github.com/evfleet/rotor/rcsp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
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

func TestNetwork_FindsScheduleCoveringUncoveredTrip(t *testing.T) {
	f, tripIdx := buildFleetWithOneUncoveredTrip(t)
	win := horizon.NewWindow(f, 0, 2000, 0)
	require.Len(t, win.Trips, 1)

	m := master.New(1, 0, master.DefaultOptions())
	sol := m.Solve()
	require.Equal(t, "OPTIMAL", sol.Status.String())

	duals := pricing.BuildDuals(m, 1, 0, sol)

	vehicle := f.Vehicles.Get(0)
	net := Build(f, win, vehicle, duals, false, pricing.DefaultCostModel())

	engine := rcsp.New[State](net, rcsp.Hooks[State]{}, 32)
	sinks := engine.Run(net.SourceVertex(), net.InitialState(), 0)
	require.NotEmpty(t, sinks)

	foundTrip := false
	for _, arc := range sinks[0].Path() {
		head := net.ArcHead(arc)
		if net.vertices[head].kind == vertexTrip && net.vertices[head].index == tripIdx {
			foundTrip = true
		}
	}
	require.True(t, foundTrip, "expected the priced path to pass through the uncovered trip")
}

func TestNetwork_RespectsAccessRevocation(t *testing.T) {
	f, _ := buildFleetWithOneUncoveredTrip(t)
	win := horizon.NewWindow(f, 0, 2000, 0)

	m := master.New(1, 0, master.DefaultOptions())
	sol := m.Solve()
	duals := pricing.BuildDuals(m, 1, 0, sol)

	vehicle := f.Vehicles.Get(0)
	net := Build(f, win, vehicle, duals, false, pricing.DefaultCostModel())

	// revoke every arc leading into the trip vertex for this vehicle
	for i, v := range net.vertices {
		if v.kind == vertexTrip {
			net.Access().RevokeVertex(i, vehicle.Index)
		}
	}

	engine := rcsp.New[State](net, rcsp.Hooks[State]{}, 32)
	sinks := engine.Run(net.SourceVertex(), net.InitialState(), 0)
	for _, sink := range sinks {
		for _, arc := range sink.Path() {
			head := net.ArcHead(arc)
			require.NotEqual(t, vertexTrip, net.vertices[head].kind)
		}
	}
}
