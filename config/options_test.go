package config

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/evfleet/rotor/bnp"
	"github.com/evfleet/rotor/colgen"
	"github.com/evfleet/rotor/iocsv"
)

func TestLoad_MissingMandatoryKeyIsDataError(t *testing.T) {
	_, err := Load([]iocsv.ConfigRow{
		{Key: "date_end", Datatype: "datetime", Value: "2026-01-02 00:00:00"},
		{Key: "const_planning_horizon_length", Datatype: "uint", Value: "86400"},
	})
	require.Error(t, err)
}

func TestLoad_AppliesDefaultsAndOverrides(t *testing.T) {
	rows := []iocsv.ConfigRow{
		{Key: "date_start", Datatype: "datetime", Value: "2026-01-01 00:00:00"},
		{Key: "date_end", Datatype: "datetime", Value: "2026-01-02 00:00:00"},
		{Key: "const_planning_horizon_length", Datatype: "uint", Value: "43200"},
		{Key: "const_nr_threads", Datatype: "uint", Value: "8"},
		{Key: "cost_uncovered_trip", Datatype: "double", Value: "12345"},
		{Key: "flag_allow_deadlegs", Datatype: "bool", Value: "false"},
		{Key: "const_code_pricing_problem_type", Datatype: "uint", Value: "TimeSpace"},
	}

	opts, err := Load(rows)
	require.NoError(t, err)

	require.Equal(t, int64(43200), opts.PlanningHorizonLength)
	require.Equal(t, 8, opts.NrThreads)
	require.Equal(t, 12345.0, opts.CostUncoveredTrip)
	require.False(t, opts.AllowDeadlegs)
	require.Equal(t, colgen.VariantTimeSpace, opts.PricingProblemType)

	// An untouched key keeps its evaDataHandler-matching default.
	require.Equal(t, 0.9, opts.FracThresholdTruncCG)
}

func TestDefault_MatchesOriginalSourceDefaults(t *testing.T) {
	d := Default()
	require.Equal(t, int64(24*60*60), d.PlanningHorizonLength)
	require.Equal(t, 4, d.NrThreads)
	require.Equal(t, 2000.0, d.CostUncoveredTrip)
	require.Equal(t, AlgorithmDiveThenBfBnP, d.AlgorithmType)
	require.Equal(t, colgen.VariantSegmentCentral, d.PricingProblemType)
}

func TestToBnPOptions_DiveAlgorithmForcesDiveEveryNode(t *testing.T) {
	opts := Default()
	opts.AlgorithmType = AlgorithmDive
	bnpOpts := opts.ToBnPOptions()
	require.Equal(t, 1, bnpOpts.DiveEvery)
}

func TestToBnPOptions_PriceAndBranchStrategy(t *testing.T) {
	opts := Default()
	opts.AlgorithmType = AlgorithmPriceAndBranch
	bnpOpts := opts.ToBnPOptions()
	require.Equal(t, bnp.StrategyPriceAndBranch, bnpOpts.Strategy)
}
