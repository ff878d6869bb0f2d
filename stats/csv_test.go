package stats

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteVehicleStats_EmitsHeaderAndOneRowPerVehicle(t *testing.T) {
	h := New()
	h.RecordVehicle(VehicleStats{
		VehicleID: "V1", CostTotal: 12.5, IdleSec: 60, ProductiveSec: 300,
		ChargingSec: 900, MaintenanceSec: 0, SOCMinKWh: 40, SOCMaxKWh: 180, DistanceM: 5000,
	})

	var buf bytes.Buffer
	require.NoError(t, h.WriteVehicleStats(&buf))

	out := buf.String()
	require.Contains(t, out, "vehicle_id,cost_total,idle_sec")
	require.Contains(t, out, "V1,12.5000,60,300,900,0,40,180,5000")
}

func TestWriteChargerOccupancy_FormatsWindowAsTimestamps(t *testing.T) {
	h := New()
	h.RecordChargerSample(ChargerOccupancySample{ChargerID: "C1", WindowStart: 0, WindowEnd: 3600, VehicleCount: 2})

	var buf bytes.Buffer
	require.NoError(t, h.WriteChargerOccupancy(&buf))
	require.Contains(t, buf.String(), "C1,1970-01-01 00:00:00,1970-01-01 01:00:00,2")
}

func TestWriteHorizonStats_EncodesOptimalAsOneOrZero(t *testing.T) {
	h := New()
	h.RecordHorizon(HorizonStats{
		HorizonStart: 0, HorizonEnd: 100, LowerBound: 1.0, UpperBound: 1.0,
		Algorithm: "BfBnP", PricingType: "TimeSpace", NumVehicles: 2, NumColumns: 5, Optimal: true,
	})

	var buf bytes.Buffer
	require.NoError(t, h.WriteHorizonStats(&buf))
	require.Contains(t, buf.String(), "BfBnP,TimeSpace,2,5,1")
}

func TestWritePerformanceDetail_OneRowPerNodeIteration(t *testing.T) {
	h := New()
	h.RecordNodeIteration(NodeIterationStats{
		HorizonStart: 0, NodeID: 3, Iteration: 2, DurationMs: 15,
		NetworkConstructionMs: 4, LowerBound: 2.0, UpperBound: 3.0, ColumnsAdded: 7,
	})

	var buf bytes.Buffer
	require.NoError(t, h.WritePerformanceDetail(&buf))
	require.Contains(t, buf.String(), "3,2,15,4,2.0000,3.0000,7")
}
