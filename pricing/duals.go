// Package pricing holds the types shared by the three pricing-problem
// network variants (spec §4.3): the dual snapshot pricing reads from
// the master LP, the vehicle/arc access bitmaps branch projection
// writes into, and the column shape pricing hands back to the master.
package pricing

import (
	"github.com/evfleet/rotor/lp"
	"github.com/evfleet/rotor/master"
)

// Duals is a read-only snapshot of the master LP's current shadow
// prices, indexed the way pricing needs them: by dense trip/
// maintenance index rather than by raw LP row.
type Duals struct {
	tripDual  []float64
	maintDual []float64
	mirror    *master.DualMirror
}

// BuildDuals extracts a Duals snapshot from a solved master problem,
// including the charger-capacity cumulative-dual mirror.
func BuildDuals(m *master.Master, numTrips, numMaintenances int, sol *lp.Solution) *Duals {
	raw := sol.GetDual()
	d := &Duals{
		tripDual:  make([]float64, numTrips),
		maintDual: make([]float64, numMaintenances),
		mirror:    m.BuildDualMirror(sol),
	}
	for t := 0; t < numTrips; t++ {
		if row, ok := m.TripRow(t); ok && row < len(raw) {
			d.tripDual[t] = raw[row]
		}
	}
	for mi := 0; mi < numMaintenances; mi++ {
		if row, ok := m.MaintenanceRow(mi); ok && row < len(raw) {
			d.maintDual[mi] = raw[row]
		}
	}
	return d
}

// Trip returns the dual value of a trip's coverage row (0 if the trip
// has no row, e.g. an unrecognised index).
func (d *Duals) Trip(trip int) float64 {
	if trip < 0 || trip >= len(d.tripDual) {
		return 0
	}
	return d.tripDual[trip]
}

// Maintenance returns the dual value of a maintenance slot's coverage row.
func (d *Duals) Maintenance(m int) float64 {
	if m < 0 || m >= len(d.maintDual) {
		return 0
	}
	return d.maintDual[m]
}

// ChargerDualAt returns the dual of the single charger-capacity window
// covering time t, used for the per-session charge-capacity charge.
func (d *Duals) ChargerDualAt(charger int, t int64) float64 {
	if d.mirror == nil {
		return 0
	}
	return d.mirror.DualAt(charger, t)
}

// ChargerIntervalDual returns the interval sum
// charger-capacity-cumsum[charger][putOn][takeOff] (spec §3/§4.3.1): the
// marginal charger-capacity cost of a session occupying [putOn, takeOff),
// as opposed to ChargerDualAt's single-window lookup.
func (d *Duals) ChargerIntervalDual(charger int, putOn, takeOff int64) float64 {
	if d.mirror == nil {
		return 0
	}
	return d.mirror.IntervalDual(charger, putOn, takeOff)
}
