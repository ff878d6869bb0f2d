package colgen

import (
	"github.com/evfleet/rotor/master"
	"github.com/evfleet/rotor/model"
	"github.com/evfleet/rotor/pricing"
)

// columnFromSchedule turns one priced schedule into a master.Column:
// every trip/maintenance leg contributes a unit coefficient to its
// coverage row, and every charging leg materialises (or reuses) the
// charger-capacity row for its session window.
func columnFromSchedule(m *master.Master, fleet *model.Fleet, sched pricing.Schedule) *master.Column {
	col := master.NewColumn(sched.Vehicle, nil, sched.Cost)
	for _, leg := range sched.Legs {
		switch leg.Kind {
		case pricing.LegTrip:
			if row, ok := m.TripRow(leg.TripIndex); ok {
				col.Coverage[row] = 1
			}
		case pricing.LegMaintenance:
			if row, ok := m.MaintenanceRow(leg.MaintenanceIndex); ok {
				col.Coverage[row] = 1
			}
		case pricing.LegCharging:
			charger := fleet.Chargers.Get(leg.Charger)
			row := m.ChargerWindowRow(leg.Charger, leg.PutOnTime, leg.TakeOffTime, charger.Capacity)
			col.Coverage[row] += 1
		}
	}
	return col
}
