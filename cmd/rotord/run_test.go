package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFixtureFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func writeOneTripFixture(t *testing.T, dir string) {
	t.Helper()
	writeFixtureFile(t, dir, "locations.csv", "id,type,name\nL1,Charger,Depot\nL2,Stop,StopA\n")
	writeFixtureFile(t, dir, "travel.csv", "from,to,duration_sec,distance_m\nL1,L2,600,5000\nL2,L1,600,5000\n")
	writeFixtureFile(t, dir, "chargers.csv", "id,location_id,capacity,volts,amps\nC1,L1,1,400,100\n")
	writeFixtureFile(t, dir, "vehicles.csv",
		"id,battery_min,battery_max,initial_charger,initial_time,initial_soc,volts,amps,plate,odometer,odo_last_maint,in_rotation,cost,kwh_per_km\n"+
			"V1,20,200,C1,0,200,400,100,PLATE1,0,0,true,100,1.0\n")
	writeFixtureFile(t, dir, "trips.csv",
		"id,start_time,end_time,start_location_id,end_location_id,line_id\n"+
			"T1,1970-01-01 00:10:00,1970-01-01 00:20:00,L1,L2,LINE1\n")
	writeFixtureFile(t, dir, "maintenances.csv", "id,start_time,end_time,location_id\n")
	writeFixtureFile(t, dir, "config.csv",
		"parameter-key,datatype,value\n"+
			"date_start,datetime,1970-01-01 00:00:00\n"+
			"date_end,datetime,1970-01-01 02:00:00\n"+
			"const_planning_horizon_length,int,7200\n"+
			"const_code_algorithm_type,int,1\n"+
			"const_code_pricing_problem_type,int,0\n")
}

func TestLoadFleet_ParsesAllSevenInputSchemas(t *testing.T) {
	dir := t.TempDir()
	writeOneTripFixture(t, dir)

	fleet, opts, err := loadFleet(dir)
	require.NoError(t, err)
	require.Equal(t, 2, fleet.Network.Len())
	require.Equal(t, 1, fleet.Chargers.Len())
	require.Equal(t, 1, fleet.Vehicles.Len())
	require.Equal(t, 1, fleet.Trips.Len())
	require.Equal(t, 0, fleet.Maintenances.Len())
	require.Equal(t, int64(0), opts.DateStart)
	require.Equal(t, int64(7200), opts.DateEnd)
}

func TestRunRotor_EndToEndProducesScheduleAndStatsOutputs(t *testing.T) {
	dataDir := t.TempDir()
	writeOneTripFixture(t, dataDir)
	outDir := filepath.Join(t.TempDir(), "out")

	flags := &runFlags{dataDir: dataDir, outDir: outDir, debug: true, seed: 1}
	require.NoError(t, runRotor(flags))

	for _, name := range []string{
		"schedule.csv", "unassigned_trips.csv", "unassigned_maintenances.csv",
		"vehicle_stats.csv", "charger_occupancy.csv", "horizon_stats.csv", "performance_detail.csv",
	} {
		info, err := os.Stat(filepath.Join(outDir, name))
		require.NoError(t, err, name)
		require.Greater(t, info.Size(), int64(0), name)
	}
}
