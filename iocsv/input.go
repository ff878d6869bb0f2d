package iocsv

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/evfleet/rotor/model"
)

const timeLayout = "2006-01-02 15:04:05"

func parseDatetime(source, field, raw string) (int64, error) {
	t, err := time.ParseInLocation(timeLayout, strings.TrimSpace(raw), time.UTC)
	if err != nil {
		return 0, model.NewDataError(source, field+": unparseable datetime "+raw)
	}
	return t.Unix(), nil
}

func parseInt(source, field, raw string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, model.NewDataError(source, field+": unparseable integer "+raw)
	}
	return v, nil
}

func parseBool(raw string) bool {
	v := strings.ToLower(strings.TrimSpace(raw))
	return v == "true" || v == "1"
}

func field(source string, row []string, idx int, name string) (string, error) {
	if idx >= len(row) {
		return "", model.NewDataError(source, "missing field "+name)
	}
	return row[idx], nil
}

// ReadLocations parses the locations table: id, type, name.
func ReadLocations(r io.Reader, net *model.Network) error {
	records, err := openRecords(r, "locations")
	if err != nil {
		return err
	}
	records = dropHeader(records, "id")

	for _, row := range records {
		id, err := field("locations", row, 0, "id")
		if err != nil {
			return err
		}
		typTok, err := field("locations", row, 1, "type")
		if err != nil {
			return err
		}
		name, err := field("locations", row, 2, "name")
		if err != nil {
			return err
		}
		typ, err := model.ParseLocationType(strings.TrimSpace(typTok))
		if err != nil {
			return err
		}
		if _, err := net.AddLocation(id, name, typ); err != nil {
			return err
		}
	}
	return nil
}

// ReadTravel parses the travel matrix: from-id, to-id, duration-seconds,
// distance-metres. Locations must already be loaded via ReadLocations.
func ReadTravel(r io.Reader, net *model.Network) error {
	records, err := openRecords(r, "travel")
	if err != nil {
		return err
	}
	records = dropHeader(records, "from")

	for _, row := range records {
		fromID, err := field("travel", row, 0, "from-location-id")
		if err != nil {
			return err
		}
		toID, err := field("travel", row, 1, "to-location-id")
		if err != nil {
			return err
		}
		durRaw, err := field("travel", row, 2, "duration-seconds")
		if err != nil {
			return err
		}
		distRaw, err := field("travel", row, 3, "distance-metres")
		if err != nil {
			return err
		}

		from, err := net.IndexOf(fromID)
		if err != nil {
			return model.NewDataError("travel", "unknown from-location "+fromID)
		}
		to, err := net.IndexOf(toID)
		if err != nil {
			return model.NewDataError("travel", "unknown to-location "+toID)
		}
		dur, err := parseInt("travel", "duration-seconds", durRaw)
		if err != nil {
			return err
		}
		dist, err := parseInt("travel", "distance-metres", distRaw)
		if err != nil {
			return err
		}
		net.SetTravel(from, to, uint32(dur), uint32(dist))
	}
	return nil
}

// ReadChargers parses: id, location-id, capacity, volts, amps.
func ReadChargers(r io.Reader, net *model.Network, chargers *model.Chargers) error {
	records, err := openRecords(r, "chargers")
	if err != nil {
		return err
	}
	records = dropHeader(records, "id")

	for _, row := range records {
		id, _ := field("chargers", row, 0, "id")
		locID, _ := field("chargers", row, 1, "location-id")
		capRaw, _ := field("chargers", row, 2, "capacity")
		voltsRaw, _ := field("chargers", row, 3, "volts")
		ampsRaw, _ := field("chargers", row, 4, "amps")

		loc, err := net.IndexOf(locID)
		if err != nil {
			return model.NewDataError("chargers", "unknown location "+locID)
		}
		capacity, err := parseInt("chargers", "capacity", capRaw)
		if err != nil {
			return err
		}
		volts, err := parseInt("chargers", "volts", voltsRaw)
		if err != nil {
			return err
		}
		amps, err := parseInt("chargers", "amps", ampsRaw)
		if err != nil {
			return err
		}
		if _, err := chargers.Add(model.Charger{
			ID: id, Location: loc, Capacity: int(capacity), VoltsV: int(volts), AmpsA: int(amps),
		}); err != nil {
			return err
		}
	}
	return nil
}

// ReadVehicles parses: id, battery-min-kWh, battery-max-kWh,
// initial-charger-id, initial-start-time, initial-soc, volts, amps,
// number-plate, odometer, odometer-last-maintenance, in-rotation-bool,
// cost, kWh-per-km.
func ReadVehicles(r io.Reader, chargers *model.Chargers, vehicles *model.Vehicles) error {
	records, err := openRecords(r, "vehicles")
	if err != nil {
		return err
	}
	records = dropHeader(records, "id")

	for _, row := range records {
		if len(row) < 14 {
			return model.NewDataError("vehicles", "expected 14 columns, got "+strconv.Itoa(len(row)))
		}
		id := row[0]
		battMin, err := parseInt("vehicles", "battery-min-kWh", row[1])
		if err != nil {
			return err
		}
		battMax, err := parseInt("vehicles", "battery-max-kWh", row[2])
		if err != nil {
			return err
		}

		initCharger := -1
		if chID := strings.TrimSpace(row[3]); chID != "" {
			idx, err := chargers.IndexOf(chID)
			if err != nil {
				return model.NewDataError("vehicles", "unknown initial charger "+chID)
			}
			initCharger = idx
		}
		initTime, err := parseInt("vehicles", "initial-start-time", row[4])
		if err != nil {
			return err
		}
		initSOC, err := parseInt("vehicles", "initial-soc", row[5])
		if err != nil {
			return err
		}
		volts, err := parseInt("vehicles", "volts", row[6])
		if err != nil {
			return err
		}
		amps, err := parseInt("vehicles", "amps", row[7])
		if err != nil {
			return err
		}
		plate := row[8]
		odometer, err := parseInt("vehicles", "odometer", row[9])
		if err != nil {
			return err
		}
		odoLastMaint, err := parseInt("vehicles", "odometer-last-maintenance", row[10])
		if err != nil {
			return err
		}
		inRotation := parseBool(row[11])
		cost, err := strconv.ParseFloat(strings.TrimSpace(row[12]), 64)
		if err != nil {
			return model.NewDataError("vehicles", "cost: unparseable float "+row[12])
		}
		rate, err := decimal.NewFromString(strings.TrimSpace(row[13]))
		if err != nil {
			return model.NewDataError("vehicles", "kWh-per-km: unparseable decimal "+row[13])
		}

		if _, err := vehicles.Add(model.Vehicle{
			ID:                  id,
			BatteryMinKWh:       int(battMin),
			BatteryMaxKWh:       int(battMax),
			InitialCharger:      initCharger,
			InitialTime:         initTime,
			InitialSOCKWh:       int(initSOC),
			VoltsV:              int(volts),
			AmpsA:               int(amps),
			ConsumptionPerKm:    rate,
			NumberPlate:         plate,
			Odometer:            odometer,
			OdometerAtLastMaint: odoLastMaint,
			InRotation:          inRotation,
			ActivationCost:      cost,
		}); err != nil {
			return err
		}
	}
	return nil
}

// ReadTrips parses: id, start-time, end-time, start-location-id,
// end-location-id, line-id.
func ReadTrips(r io.Reader, net *model.Network, trips *model.Trips) error {
	records, err := openRecords(r, "trips")
	if err != nil {
		return err
	}
	records = dropHeader(records, "id")

	for _, row := range records {
		if len(row) < 6 {
			return model.NewDataError("trips", "expected 6 columns, got "+strconv.Itoa(len(row)))
		}
		start, err := parseDatetime("trips", "start-time", row[1])
		if err != nil {
			return err
		}
		end, err := parseDatetime("trips", "end-time", row[2])
		if err != nil {
			return err
		}
		startLoc, err := net.IndexOf(row[3])
		if err != nil {
			return model.NewDataError("trips", "unknown start-location "+row[3])
		}
		endLoc, err := net.IndexOf(row[4])
		if err != nil {
			return model.NewDataError("trips", "unknown end-location "+row[4])
		}
		if _, err := trips.Add(model.Trip{
			ID: row[0], StartTime: start, EndTime: end,
			StartLocation: startLoc, EndLocation: endLoc, LineID: row[5],
		}); err != nil {
			return err
		}
	}
	return nil
}

// ReadMaintenances parses: id, start-time, end-time,
// maintenance-location-id, optional vehicle-id.
func ReadMaintenances(r io.Reader, net *model.Network, vehicles *model.Vehicles, maints *model.Maintenances) error {
	records, err := openRecords(r, "maintenances")
	if err != nil {
		return err
	}
	records = dropHeader(records, "id")

	for _, row := range records {
		if len(row) < 4 {
			return model.NewDataError("maintenances", "expected at least 4 columns, got "+strconv.Itoa(len(row)))
		}
		start, err := parseDatetime("maintenances", "start-time", row[1])
		if err != nil {
			return err
		}
		end, err := parseDatetime("maintenances", "end-time", row[2])
		if err != nil {
			return err
		}
		loc, err := net.IndexOf(row[3])
		if err != nil {
			return model.NewDataError("maintenances", "unknown location "+row[3])
		}

		assigned := -1
		if len(row) >= 5 {
			if vID := strings.TrimSpace(row[4]); vID != "" {
				idx, err := vehicles.IndexOf(vID)
				if err != nil {
					return model.NewDataError("maintenances", "unknown assigned vehicle "+vID)
				}
				assigned = idx
			}
		}
		if _, err := maints.Add(model.Maintenance{
			ID: row[0], StartTime: start, EndTime: end,
			Location: loc, AssignedVehicle: assigned,
		}); err != nil {
			return err
		}
	}
	return nil
}

// ConfigRow is one raw (key, datatype, value) triple off the config
// table, handed unparsed to package config for typed interpretation.
type ConfigRow struct {
	Key      string
	Datatype string
	Value    string
}

// ReadConfig parses the config table: parameter-key, datatype, value.
func ReadConfig(r io.Reader) ([]ConfigRow, error) {
	records, err := openRecords(r, "config")
	if err != nil {
		return nil, err
	}
	records = dropHeader(records, "parameter-key")

	rows := make([]ConfigRow, 0, len(records))
	for _, row := range records {
		if len(row) < 3 {
			return nil, model.NewDataError("config", "expected 3 columns, got "+strconv.Itoa(len(row)))
		}
		rows = append(rows, ConfigRow{
			Key:      strings.ToLower(strings.TrimSpace(row[0])),
			Datatype: strings.ToLower(strings.TrimSpace(row[1])),
			Value:    row[2],
		})
	}
	return rows, nil
}
