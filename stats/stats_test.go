package stats

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHandler_RecordAndReadBackEachBuffer(t *testing.T) {
	h := New()

	h.RecordVehicle(VehicleStats{VehicleID: "V1", CostTotal: 10})
	h.RecordChargerSample(ChargerOccupancySample{ChargerID: "C1", VehicleCount: 2})
	h.RecordHorizon(HorizonStats{HorizonStart: 0, HorizonEnd: 100, Optimal: true})
	h.RecordNodeIteration(NodeIterationStats{NodeID: 1, Iteration: 1, ColumnsAdded: 3})

	require.Len(t, h.Vehicles(), 1)
	require.Len(t, h.Chargers(), 1)
	require.Len(t, h.Horizons(), 1)
	require.Len(t, h.NodeIterations(), 1)

	require.Equal(t, "V1", h.Vehicles()[0].VehicleID)
	require.True(t, h.Horizons()[0].Optimal)
}

func TestHandler_SnapshotsAreIndependentOfFutureWrites(t *testing.T) {
	h := New()
	h.RecordVehicle(VehicleStats{VehicleID: "V1"})

	snap := h.Vehicles()
	h.RecordVehicle(VehicleStats{VehicleID: "V2"})

	require.Len(t, snap, 1)
	require.Len(t, h.Vehicles(), 2)
}

func TestHandler_ConcurrentRecordIsRaceFree(t *testing.T) {
	h := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h.RecordNodeIteration(NodeIterationStats{NodeID: i})
		}(i)
	}
	wg.Wait()
	require.Len(t, h.NodeIterations(), 50)
}
