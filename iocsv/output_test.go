package iocsv

import (
	"bytes"
	"strings"
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
	f.Network.Finalize()

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
	return f
}

func TestWriteSchedule_EmitsOneRowPerCommittedArc(t *testing.T) {
	f := buildOneVehicleFleet(t)

	var buf bytes.Buffer
	require.NoError(t, WriteSchedule(&buf, f))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2) // header + the seeded self-arc
	require.Contains(t, lines[0], "vehicle_id")
	require.Contains(t, lines[1], "V1")
	require.Contains(t, lines[1], "START_SCHEDULE")
}

func TestWriteUnassignedTrips_OmitsCoveredTrip(t *testing.T) {
	f := buildOneVehicleFleet(t)
	_, err := f.Network.AddLocation("L2", "Stop", model.LocationStop)
	require.NoError(t, err)

	t1, err := f.Trips.Add(model.Trip{ID: "T1", StartTime: 100, EndTime: 200, StartLocation: 0, EndLocation: 0})
	require.NoError(t, err)
	_, err = f.Trips.Add(model.Trip{ID: "T2", StartTime: 300, EndTime: 400, StartLocation: 0, EndLocation: 0})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteUnassignedTrips(&buf, f, map[int]bool{t1: true}))

	require.NotContains(t, buf.String(), "T1")
	require.Contains(t, buf.String(), "T2")
}
