package iocsv

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/evfleet/rotor/model"
)

func TestReadLocations_SkipsPreambleCommentsAndHeader(t *testing.T) {
	const csv = "sep=,\n" +
		"# comment line\n" +
		"id,type,name\n" +
		"L1,Charger,Depot\r\n" +
		"\n" +
		"L2,Stop,Downtown\n"

	net := model.NewNetwork()
	require.NoError(t, ReadLocations(strings.NewReader(csv), net))

	require.Equal(t, 2, net.Len())
	idx, err := net.IndexOf("L2")
	require.NoError(t, err)
	require.Equal(t, model.LocationStop, net.Location(idx).Type)
}

func TestReadLocations_UnknownTypeIsDataError(t *testing.T) {
	net := model.NewNetwork()
	err := ReadLocations(strings.NewReader("id,type,name\nL1,Bogus,X\n"), net)
	require.Error(t, err)
	var dataErr *model.DataError
	require.ErrorAs(t, err, &dataErr)
}

func TestReadTravel_ResolvesLocationIDsToIndices(t *testing.T) {
	net := model.NewNetwork()
	require.NoError(t, ReadLocations(strings.NewReader("id,type,name\nA,Stop,A\nB,Stop,B\n"), net))
	net.Finalize()

	require.NoError(t, ReadTravel(strings.NewReader("from,to,duration,distance\nA,B,120,1000\n"), net))

	a, _ := net.IndexOf("A")
	b, _ := net.IndexOf("B")
	require.Equal(t, uint32(120), net.DurationSeconds(a, b))
	require.Equal(t, uint32(1000), net.DistanceMetres(a, b))
}

func TestReadVehicles_ParsesDecimalRateAndBooleans(t *testing.T) {
	net := model.NewNetwork()
	require.NoError(t, ReadLocations(strings.NewReader("id,type,name\nC1,Charger,Depot\n"), net))
	net.Finalize()

	chargers := model.NewChargers()
	require.NoError(t, ReadChargers(strings.NewReader("id,location,capacity,volts,amps\nCH1,C1,2,400,200\n"), net, chargers))

	vehicles := model.NewVehicles()
	row := "id,bmin,bmax,charger,start,soc,volts,amps,plate,odo,odolast,inrot,cost,rate\n" +
		"V1,20,200,CH1,0,200,400,150,PLATE1,1000,500,true,12.5,1.25\n"
	require.NoError(t, ReadVehicles(strings.NewReader(row), chargers, vehicles))

	v := vehicles.Get(0)
	require.True(t, v.InRotation)
	require.Equal(t, 1250, v.RatePerKKm)
	require.Equal(t, 12.5, v.ActivationCost)
}

func TestReadTrips_ParsesDatetimesAsUTCUnix(t *testing.T) {
	net := model.NewNetwork()
	require.NoError(t, ReadLocations(strings.NewReader("id,type,name\nA,Stop,A\nB,Stop,B\n"), net))
	net.Finalize()

	trips := model.NewTrips()
	row := "id,start,end,from,to,line\nT1,2026-01-01 08:00:00,2026-01-01 08:30:00,A,B,L1\n"
	require.NoError(t, ReadTrips(strings.NewReader(row), net, trips))

	tr := trips.Get(0)
	require.Equal(t, tr.EndTime-tr.StartTime, int64(1800))
}

func TestReadMaintenances_OptionalVehicleColumn(t *testing.T) {
	net := model.NewNetwork()
	require.NoError(t, ReadLocations(strings.NewReader("id,type,name\nA,Maintenance,Depot\n"), net))
	net.Finalize()

	vehicles := model.NewVehicles()
	chargers := model.NewChargers()
	chIdx, err := chargers.Add(model.Charger{ID: "CH1", Location: 0, Capacity: 1, VoltsV: 400, AmpsA: 100})
	require.NoError(t, err)
	_, err = vehicles.Add(model.Vehicle{ID: "V1", InitialCharger: chIdx, InitialTime: 0, InitialSOCKWh: 100, BatteryMaxKWh: 100})
	require.NoError(t, err)

	maints := model.NewMaintenances()
	row := "id,start,end,location,vehicle\n" +
		"M1,2026-01-01 08:00:00,2026-01-01 09:00:00,A,V1\n" +
		"M2,2026-01-01 10:00:00,2026-01-01 11:00:00,A,\n"
	require.NoError(t, ReadMaintenances(strings.NewReader(row), net, vehicles, maints))

	require.Equal(t, 0, maints.Get(0).AssignedVehicle)
	require.Equal(t, -1, maints.Get(1).AssignedVehicle)
}

func TestReadConfig_LowercasesKeysAndDatatypes(t *testing.T) {
	rows, err := ReadConfig(strings.NewReader(
		"parameter-key,datatype,value\nDate_Start,DateTime,2026-01-01 00:00:00\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "date_start", rows[0].Key)
	require.Equal(t, "datetime", rows[0].Datatype)
}
