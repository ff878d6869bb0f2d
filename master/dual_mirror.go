package master

import (
	"sort"

	"github.com/evfleet/rotor/lp"
)

// ChargerDual is one charger-capacity row's window and current dual
// (shadow price), used by pricing to add the row's marginal cost to
// any arc that occupies this window.
type ChargerDual struct {
	Charger    int
	Start, End int64
	Dual       float64
}

// DualMirror is a read-only snapshot of charger-capacity row duals,
// organised per charger as a time-ordered slice with a cumulative-sum
// array so pricing can answer "total dual weight active at time t" in
// O(log n) instead of rescanning every row per arc (spec §4.5's
// charger-capacity cumulative-sum aggregation; prefix-sum idiom
// adapted from the teacher's matrix/ops elimination style).
type DualMirror struct {
	byCharger map[int][]ChargerDual
	prefix    map[int][]float64 // prefix[charger][i] = sum of duals[0..i)
}

// BuildDualMirror snapshots the current charger-capacity row duals
// from a solved LP.
func (m *Master) BuildDualMirror(sol *lp.Solution) *DualMirror {
	duals := sol.GetDual()
	mirror := &DualMirror{
		byCharger: make(map[int][]ChargerDual),
		prefix:    make(map[int][]float64),
	}

	for key, row := range m.chargerRow {
		if row >= len(duals) {
			continue
		}
		mirror.byCharger[key.Charger] = append(mirror.byCharger[key.Charger], ChargerDual{
			Charger: key.Charger, Start: key.Start, End: key.End, Dual: duals[row],
		})
	}

	for charger, list := range mirror.byCharger {
		sort.Slice(list, func(i, j int) bool { return list[i].Start < list[j].Start })
		mirror.byCharger[charger] = list

		prefix := make([]float64, len(list)+1)
		for i, d := range list {
			prefix[i+1] = prefix[i] + d.Dual
		}
		mirror.prefix[charger] = prefix
	}

	return mirror
}

// DualAt returns the dual of the charger-capacity window covering time
// t for the given charger, or 0 if no such row exists yet (the row
// hasn't been materialised, so it isn't binding).
func (d *DualMirror) DualAt(charger int, t int64) float64 {
	list := d.byCharger[charger]
	idx := sort.Search(len(list), func(i int) bool { return list[i].End > t })
	if idx < len(list) && list[idx].Start <= t {
		return list[idx].Dual
	}
	return 0
}

// CumulativeDual returns the sum of duals for every charger-capacity
// window of charger that starts before t — used to cheaply bound the
// marginal benefit of arriving earlier at a busy charger.
func (d *DualMirror) CumulativeDual(charger int, t int64) float64 {
	list := d.byCharger[charger]
	prefix := d.prefix[charger]
	if len(list) == 0 {
		return 0
	}
	idx := sort.Search(len(list), func(i int) bool { return list[i].Start >= t })
	return prefix[idx]
}

// IntervalDual returns charger-capacity-cumsum[charger][putOn][takeOff]
// (spec §3/§4.2 row 6): the sum of duals for every charger-capacity
// window occupied by a session spanning [putOn, takeOff) — the marginal
// cost a charging session of that span adds to the reduced-cost
// objective. Implemented as CumulativeDual(takeOff) - CumulativeDual(putOn),
// the prefix-sum difference the cumulative array exists to make O(1).
func (d *DualMirror) IntervalDual(charger int, putOn, takeOff int64) float64 {
	return d.CumulativeDual(charger, takeOff) - d.CumulativeDual(charger, putOn)
}
