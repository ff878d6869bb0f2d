package stats

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

const timeLayout = "2006-01-02 15:04:05"

func formatTime(unixSec int64) string {
	return time.Unix(unixSec, 0).UTC().Format(timeLayout)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 4, 64)
}

func formatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// WriteVehicleStats emits spec §6's per-vehicle output schema: one row
// per recorded VehicleStats.
func (h *Handler) WriteVehicleStats(w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{
		"vehicle_id", "cost_total", "idle_sec", "productive_sec",
		"charging_sec", "maintenance_sec", "soc_min_kwh", "soc_max_kwh", "distance_m",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, v := range h.Vehicles() {
		row := []string{
			v.VehicleID,
			formatFloat(v.CostTotal),
			strconv.FormatInt(v.IdleSec, 10),
			strconv.FormatInt(v.ProductiveSec, 10),
			strconv.FormatInt(v.ChargingSec, 10),
			strconv.FormatInt(v.MaintenanceSec, 10),
			strconv.Itoa(v.SOCMinKWh),
			strconv.Itoa(v.SOCMaxKWh),
			strconv.FormatUint(uint64(v.DistanceM), 10),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return cw.Error()
}

// WriteChargerOccupancy emits spec §6's per-charger occupancy
// time-series output schema.
func (h *Handler) WriteChargerOccupancy(w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"charger_id", "window_start", "window_end", "vehicle_count"}); err != nil {
		return err
	}
	for _, s := range h.Chargers() {
		row := []string{
			s.ChargerID,
			formatTime(s.WindowStart),
			formatTime(s.WindowEnd),
			strconv.Itoa(s.VehicleCount),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return cw.Error()
}

// WriteHorizonStats emits spec §6's per-planning-horizon output schema.
func (h *Handler) WriteHorizonStats(w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{
		"horizon_start", "horizon_end", "lower_bound", "upper_bound",
		"algorithm", "pricing_type", "num_vehicles", "num_columns", "optimal",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, s := range h.Horizons() {
		row := []string{
			formatTime(s.HorizonStart),
			formatTime(s.HorizonEnd),
			formatFloat(s.LowerBound),
			formatFloat(s.UpperBound),
			s.Algorithm,
			s.PricingType,
			strconv.Itoa(s.NumVehicles),
			strconv.Itoa(s.NumColumns),
			formatBool(s.Optimal),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return cw.Error()
}

// WritePerformanceDetail emits spec §6's performance-detail output
// schema: one row per branch-node column-generation iteration.
func (h *Handler) WritePerformanceDetail(w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{
		"horizon_start", "node_id", "iteration", "duration_ms",
		"network_construction_ms", "lower_bound", "upper_bound", "columns_added",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, s := range h.NodeIterations() {
		row := []string{
			formatTime(s.HorizonStart),
			strconv.Itoa(s.NodeID),
			strconv.Itoa(s.Iteration),
			strconv.FormatInt(s.DurationMs, 10),
			strconv.FormatInt(s.NetworkConstructionMs, 10),
			formatFloat(s.LowerBound),
			formatFloat(s.UpperBound),
			strconv.Itoa(s.ColumnsAdded),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return cw.Error()
}
