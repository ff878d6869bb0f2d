package charging

import (
	"testing"

	"github.com/evfleet/rotor/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testVehicleAndCharger() (model.Vehicle, model.Charger) {
	v := model.Vehicle{
		Index: 0, BatteryMinKWh: 20, BatteryMaxKWh: 200,
		VoltsV: 400, AmpsA: 100,
	}
	ch := model.Charger{Index: 0, VoltsV: 400, AmpsA: 100, Capacity: 1}
	return v, ch
}

func TestEvaluate_FixAtEnd_ReachesTargetWithinWindow(t *testing.T) {
	v, ch := testVehicleAndCharger()
	plan := Evaluate(FixAtEnd, v, ch, 100, 150, 0, 10000, 300, 300)
	require.True(t, plan.Feasible)
	assert.Equal(t, 50, plan.DeltaSOCKWh)
	assert.LessOrEqual(t, plan.PutOnTime, plan.TakeOffTime)
}

func TestEvaluate_FixAtEnd_InfeasibleWhenWindowTooShort(t *testing.T) {
	v, ch := testVehicleAndCharger()
	plan := Evaluate(FixAtEnd, v, ch, 100, 199, 0, 1, 300, 300)
	require.False(t, plan.Feasible)
}

func TestEvaluate_FixAtEnd_NoChargingWhenNothingOwed(t *testing.T) {
	v, ch := testVehicleAndCharger()
	plan := Evaluate(FixAtEnd, v, ch, 150, 150, 0, 1, 300, 300)
	require.True(t, plan.Feasible)
	assert.Equal(t, 0, plan.DeltaSOCKWh)
}

func TestEvaluate_VariableAtEnd_NoChargingWhenWindowShorterThanTechTime(t *testing.T) {
	v, ch := testVehicleAndCharger()
	plan := Evaluate(VariableAtEnd, v, ch, 100, 0, 0, 100, 300, 300)
	require.True(t, plan.Feasible)
	assert.Equal(t, 0, plan.DeltaSOCKWh)
	assert.NotEmpty(t, plan.Reason)
}

func TestEvaluate_VariableAtEnd_CapsAtBatteryMax(t *testing.T) {
	v, ch := testVehicleAndCharger()
	plan := Evaluate(VariableAtEnd, v, ch, 190, 0, 0, 1_000_000, 300, 300)
	require.True(t, plan.Feasible)
	assert.Equal(t, 10, plan.DeltaSOCKWh)
}

func TestReachableSOC_CapsAtBatteryMax(t *testing.T) {
	v, ch := testVehicleAndCharger()
	soc := ReachableSOC(v, ch, 195, 1_000_000)
	assert.Equal(t, v.BatteryMaxKWh, soc)
}
