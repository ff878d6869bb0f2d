package bnp

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/evfleet/rotor/branch"
)

func TestEvaluator_ScoreIsZeroUntilUpdated(t *testing.T) {
	ev := NewEvaluator(16)
	br := branch.Branch{Kind: branch.KindVehicleTrip, Vehicle: 0, Trip: 1}
	assert.Equal(t, 0.0, ev.Score(br))
}

func TestEvaluator_UpdateTracksCumulativeMean(t *testing.T) {
	ev := NewEvaluator(16)
	br := branch.Branch{Kind: branch.KindVehicleMaintenance, Vehicle: 2, Maintenance: 3}

	ev.Update(br, 10)
	assert.InDelta(t, 10, ev.Score(br), 1e-9)

	ev.Update(br, 20)
	assert.InDelta(t, 15, ev.Score(br), 1e-9)

	ev.Update(br, 0)
	assert.InDelta(t, 10, ev.Score(br), 1e-9)
}

func TestEvaluator_DistinctPayloadsTrackedSeparately(t *testing.T) {
	ev := NewEvaluator(16)
	a := branch.Branch{Kind: branch.KindVehicleTrip, Vehicle: 0, Trip: 1}
	b := branch.Branch{Kind: branch.KindVehicleTrip, Vehicle: 0, Trip: 2}

	ev.Update(a, 100)
	assert.Equal(t, 0.0, ev.Score(b))
	assert.InDelta(t, 100, ev.Score(a), 1e-9)
}

func TestPreRank_HistoryFavouredCandidateLeadsFirstHalf(t *testing.T) {
	ev := NewEvaluator(16)
	favoured := branch.Branch{Kind: branch.KindVehicleTrip, Vehicle: 0, Trip: 0}
	ev.Update(favoured, 50)

	candidates := []branch.Candidate{
		{Branch: branch.Branch{Kind: branch.KindVehicleTrip, Vehicle: 1, Trip: 1}, Score: 0.1},
		{Branch: favoured, Score: 0.01},
		{Branch: branch.Branch{Kind: branch.KindVehicleTrip, Vehicle: 2, Trip: 2}, Score: 0.2},
		{Branch: branch.Branch{Kind: branch.KindVehicleTrip, Vehicle: 3, Trip: 3}, Score: 0.3},
	}

	ranked := preRank(ev, candidates)
	assert.Equal(t, favoured, ranked[0].Branch)
}
