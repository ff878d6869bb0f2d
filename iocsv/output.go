package iocsv

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/evfleet/rotor/model"
)

func formatTime(unixSec int64) string {
	return time.Unix(unixSec, 0).UTC().Format(timeLayout)
}

func locationID(net *model.Network, idx int) string {
	if idx < 0 || idx >= net.Len() {
		return ""
	}
	return net.Location(idx).ID
}

// WriteSchedule emits one row per traversed schedule-graph arc, in
// vehicle then path order: vehicle id, sequence index, activity kind,
// start/end time, start/end location id, distance, duration, and the
// trip/maintenance/charger id the activity refers to (blank when not
// applicable to that Kind).
func WriteSchedule(w io.Writer, fleet *model.Fleet) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{
		"vehicle_id", "seq", "kind", "start_time", "end_time",
		"start_location_id", "end_location_id", "distance_m", "duration_sec",
		"trip_id", "maintenance_id", "charger_id",
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, v := range fleet.Vehicles.All() {
		path := fleet.Graph.VehiclePath(v.Index)
		for seq, arcIdx := range path {
			arc := fleet.Graph.Arc(arcIdx)
			a := fleet.Graph.Vertex(arc.To)

			tripID, maintID, chargerID := "", "", ""
			if a.TripIndex >= 0 {
				tripID = fleet.Trips.Get(a.TripIndex).ID
			}
			if a.MaintenanceIndex >= 0 {
				maintID = fleet.Maintenances.Get(a.MaintenanceIndex).ID
			}
			if a.ChargerIndex >= 0 {
				chargerID = fleet.Chargers.Get(a.ChargerIndex).ID
			}

			row := []string{
				v.ID,
				strconv.Itoa(seq),
				a.Kind.String(),
				formatTime(a.StartTime),
				formatTime(a.EndTime),
				locationID(fleet.Network, a.StartLocation),
				locationID(fleet.Network, a.EndLocation),
				strconv.FormatUint(uint64(a.DistanceM), 10),
				strconv.FormatUint(uint64(a.DurationSec), 10),
				tripID, maintID, chargerID,
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	return cw.Error()
}

// WriteUnassignedTrips emits one row per trip index absent from
// covered.
func WriteUnassignedTrips(w io.Writer, fleet *model.Fleet, covered map[int]bool) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"id", "start_time", "end_time", "start_location_id", "end_location_id"}); err != nil {
		return err
	}
	for _, t := range fleet.Trips.All() {
		if covered[t.Index] {
			continue
		}
		row := []string{
			t.ID, formatTime(t.StartTime), formatTime(t.EndTime),
			locationID(fleet.Network, t.StartLocation), locationID(fleet.Network, t.EndLocation),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return cw.Error()
}

// WriteUnassignedMaintenances emits one row per maintenance index
// absent from covered.
func WriteUnassignedMaintenances(w io.Writer, fleet *model.Fleet, covered map[int]bool) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"id", "start_time", "end_time", "location_id"}); err != nil {
		return err
	}
	for _, m := range fleet.Maintenances.All() {
		if covered[m.Index] {
			continue
		}
		row := []string{
			m.ID, formatTime(m.StartTime), formatTime(m.EndTime),
			locationID(fleet.Network, m.Location),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return cw.Error()
}
