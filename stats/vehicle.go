package stats

import "github.com/evfleet/rotor/model"

// ComputeVehicleStats walks one vehicle's committed schedule-graph path
// and reduces it to the per-vehicle output schema: productive/charging/
// maintenance/idle seconds, SOC bounds actually reached, and total
// distance travelled. Cost is not derived from the graph: the caller's
// costTotal is copied into CostTotal unchanged.
func ComputeVehicleStats(fleet *model.Fleet, vehicle int, socAtVertex map[int]int, costTotal float64) VehicleStats {
	v := fleet.Vehicles.Get(vehicle)
	s := VehicleStats{
		VehicleID: v.ID,
		CostTotal: costTotal,
		SOCMinKWh: v.BatteryMaxKWh,
		SOCMaxKWh: v.BatteryMinKWh,
	}

	path := fleet.Graph.VehiclePath(vehicle)
	for i, arcIdx := range path {
		arc := fleet.Graph.Arc(arcIdx)
		to := fleet.Graph.Vertex(arc.To)

		if i > 0 {
			from := fleet.Graph.Vertex(arc.From)
			if gap := to.StartTime - from.EndTime; gap > 0 {
				s.IdleSec += gap
			}
		}

		switch {
		case to.Kind.IsProductive():
			s.ProductiveSec += int64(to.DurationSec)
			s.DistanceM += to.DistanceM
		case to.Kind.IsCharging():
			s.ChargingSec += int64(to.DurationSec)
		case to.Kind == model.ActivityMaintenance:
			s.MaintenanceSec += int64(to.DurationSec)
		case to.Kind == model.ActivityDeadleg:
			s.DistanceM += to.DistanceM
		}

		if soc, ok := socAtVertex[arc.To]; ok {
			if soc < s.SOCMinKWh {
				s.SOCMinKWh = soc
			}
			if soc > s.SOCMaxKWh {
				s.SOCMaxKWh = soc
			}
		}
	}

	if s.SOCMaxKWh < s.SOCMinKWh {
		// No SOC samples were supplied: collapse to the vehicle's
		// initial charge rather than report an inverted range.
		s.SOCMinKWh = v.InitialSOCKWh
		s.SOCMaxKWh = v.InitialSOCKWh
	}

	return s
}
