package model

import "fmt"

// ResourceContainer is the authoritative per-vehicle state carried
// between planning horizons: state of charge, odometer, odometer at
// last maintenance, the last schedule node visited, and per-kind time
// totals. Produced by ReplayPath (spec §4.6), which fills every field
// except Cost and IdleSeconds; those two stay zero.
type ResourceContainer struct {
	Vehicle             int
	SOCKWh              int
	Odometer            int64
	OdometerLastMaint   int64
	Cost                float64
	LastNode            int
	LastNodeEndTime     int64
	IdleSeconds         int64
	ProductiveSeconds   int64
	ChargingSeconds     int64
	MaintenanceSeconds  int64
}

// ReplayPath replays a vehicle's full committed path from scratch and
// recomputes its ResourceContainer. Any soc excursion outside
// [min,max] is a fatal LogicError (spec §4.6, §7, §8).
func ReplayPath(g *ScheduleGraph, ch *Chargers, v Vehicle) (ResourceContainer, error) {
	rc := ResourceContainer{
		Vehicle:           v.Index,
		SOCKWh:            v.InitialSOCKWh,
		Odometer:          v.Odometer,
		OdometerLastMaint: v.OdometerAtLastMaint,
		LastNode:          -1,
	}

	path := g.VehiclePath(v.Index)
	if rc.SOCKWh < v.BatteryMinKWh || rc.SOCKWh > v.BatteryMaxKWh {
		return rc, NewLogicError("ReplayPath",
			fmt.Sprintf("vehicle %d: initial soc %d outside [%d,%d]", v.Index, rc.SOCKWh, v.BatteryMinKWh, v.BatteryMaxKWh))
	}

	var pendingPutOn *Activity
	for _, arcIdx := range path {
		arc := g.Arc(arcIdx)
		to := g.Vertex(arc.To)

		switch to.Kind {
		case ActivityTrip, ActivityDeadleg:
			discharge := v.DischargeForMetres(to.DistanceM)
			rc.SOCKWh -= int(discharge + 0.999999) // integer kWh, ceil to stay conservative
			if to.Kind == ActivityTrip {
				rc.ProductiveSeconds += int64(to.DurationSec)
				rc.Odometer += int64(to.DistanceM)
			} else {
				rc.Odometer += int64(to.DistanceM)
			}
		case ActivityMaintenance:
			rc.MaintenanceSeconds += to.EndTime - to.StartTime
			rc.OdometerLastMaint = rc.Odometer
		case ActivityPutOnCharge:
			pendingPutOn = &to
		case ActivityTakeOffCharge:
			if pendingPutOn == nil {
				return rc, NewLogicError("ReplayPath",
					fmt.Sprintf("vehicle %d: TAKE_OFF_CHARGE without a preceding PUT_ON_CHARGE", v.Index))
			}
			charger := ch.Get(to.ChargerIndex)
			rate := charger.ChargeRateKWhPerSec(v.VoltsV, v.AmpsA)
			seconds := to.StartTime - pendingPutOn.StartTime
			rc.ChargingSeconds += seconds
			rc.SOCKWh += int(rate * float64(seconds))
			if rc.SOCKWh > v.BatteryMaxKWh {
				rc.SOCKWh = v.BatteryMaxKWh
			}
			pendingPutOn = nil
		case ActivityOutOfRotation, ActivityStartSchedule:
			// no resource effect
		}

		if rc.SOCKWh < v.BatteryMinKWh || rc.SOCKWh > v.BatteryMaxKWh {
			return rc, NewLogicError("ReplayPath",
				fmt.Sprintf("vehicle %d: soc %d outside [%d,%d] at node kind %s",
					v.Index, rc.SOCKWh, v.BatteryMinKWh, v.BatteryMaxKWh, to.Kind))
		}

		rc.LastNode = arc.To
		rc.LastNodeEndTime = to.EndTime
	}

	return rc, nil
}
