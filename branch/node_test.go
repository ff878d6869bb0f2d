package branch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNode_ChildAccumulatesBranches(t *testing.T) {
	root := NewRoot()
	child := root.Child(Branch{Kind: KindVehicleTrip, Vehicle: 1, Trip: 2, Allow: false})

	assert.Equal(t, 0, root.Depth)
	assert.Equal(t, 1, child.Depth)
	assert.False(t, child.VehicleMayCoverTrip(1, 2))
	assert.True(t, root.VehicleMayCoverTrip(1, 2))
}

func TestNode_ForcedVehicleMaintenance(t *testing.T) {
	root := NewRoot()
	child := root.Child(Branch{Kind: KindVehicleMaintenance, Vehicle: 3, Maintenance: 4, Allow: true})

	assert.True(t, child.VehicleForcedOnMaintenance(3, 4))
	assert.True(t, child.VehicleMayAttendMaintenance(3, 4))
}

func TestNode_ChargerCapacityBoundLookup(t *testing.T) {
	root := NewRoot()
	child := root.Child(Branch{Kind: KindChargerCapacity, Charger: 0, WindowStart: 100, WindowEnd: 200, Bound: 2})

	bound, ok := child.ChargerCapacityBound(0, 150)
	require.True(t, ok)
	assert.Equal(t, 2, bound)

	_, ok = child.ChargerCapacityBound(0, 500)
	assert.False(t, ok)
}

func TestInjectPreAssignedMaintenance(t *testing.T) {
	root := NewRoot()
	node := InjectPreAssignedMaintenance(root, map[int]int{4: 3, 5: 1})

	assert.True(t, node.VehicleForcedOnMaintenance(3, 4))
	assert.True(t, node.VehicleForcedOnMaintenance(1, 5))
	assert.Equal(t, 2, node.Depth)
}

func TestRankByFractionality_OrdersByClosenessToHalf(t *testing.T) {
	candidates := []Candidate{
		{Branch: Branch{Kind: KindVehicleTrip, FractionalValue: 0.9}},
		{Branch: Branch{Kind: KindVehicleTrip, FractionalValue: 0.5}},
		{Branch: Branch{Kind: KindVehicleTrip, FractionalValue: 0.1}},
	}
	ranked := RankByFractionality(candidates)
	assert.Equal(t, 0.5, ranked[0].Branch.FractionalValue)
}

func TestNode_PreferredOptionsCache(t *testing.T) {
	root := NewRoot()
	_, ok := root.PreferredOptions()
	assert.False(t, ok)

	root.SetPreferredOptions([]Candidate{{Branch: Branch{Kind: KindVehicleTrip}, Score: 1.0}})
	opts, ok := root.PreferredOptions()
	require.True(t, ok)
	assert.Len(t, opts, 1)
}
