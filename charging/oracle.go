// Package charging implements the charging-strategy oracle (spec §4
// C3): given a vehicle's discharge trajectory and a charger's discrete
// put-on/take-off lattice, decide feasible charging windows under one
// of two policies.
package charging

import (
	"math"

	"github.com/evfleet/rotor/model"
)

// Policy selects which charging strategy the oracle evaluates.
type Policy uint8

const (
	// FixAtEnd charges a vehicle to a known target SOC by a known
	// departure time, computed backward from the known downstream
	// discharge (deterministic: no SOC dominance needed downstream).
	FixAtEnd Policy = iota
	// VariableAtEnd leaves the departing SOC free, charging as much as
	// the lattice slot allows; downstream pricing must then carry SOC
	// as a dominance-relevant resource.
	VariableAtEnd
)

// Plan is the oracle's verdict for one candidate charging session.
type Plan struct {
	Feasible    bool
	PutOnTime   int64
	TakeOffTime int64
	DeltaSOCKWh int
	Reason      string
}

// Evaluate decides whether a vehicle can charge at charger ch between
// [windowStart, windowEnd), starting from startSOC, under the given
// policy. For FixAtEnd, targetSOC is the SOC required at windowEnd; for
// VariableAtEnd, targetSOC is ignored and the session charges for the
// full window (capped at battery max). putOnTechSec/takeOffTechSec are
// the mandatory hookup/unhook durations (spec §4.1): when the window
// spans fewer than their sum and the window is otherwise valid
// (windowStart < windowEnd, checked first — the spec's "lb <= ub"),
// the verdict is "feasible but not charging" rather than
// infeasible, unless FixAtEnd owes a nonzero discharge the vehicle has
// no way to deliver, which is infeasible outright. Returned times are
// plain instants, not lattice indices; a caller that needs the lattice
// index recovers it by searching horizon.Window.ChargerLattice's
// time-sorted put-on/take-off slices for the returned time.
func Evaluate(policy Policy, v model.Vehicle, ch model.Charger, startSOC, targetSOC int, windowStart, windowEnd int64, putOnTechSec, takeOffTechSec int64) Plan {
	if windowEnd <= windowStart {
		return Plan{Feasible: false, Reason: "non-positive charging window"}
	}
	rate := ch.ChargeRateKWhPerSec(v.VoltsV, v.AmpsA)
	if rate <= 0 {
		return Plan{Feasible: false, Reason: "charger voltage incompatible with vehicle"}
	}

	available := windowEnd - windowStart
	tooShort := available < putOnTechSec+takeOffTechSec

	switch policy {
	case FixAtEnd:
		needed := targetSOC - startSOC
		if needed <= 0 {
			return Plan{Feasible: true, PutOnTime: windowStart, TakeOffTime: windowStart, DeltaSOCKWh: 0}
		}
		if tooShort {
			return Plan{Feasible: false, Reason: "window shorter than put-on/take-off tech time"}
		}
		secondsNeeded := int64(math.Ceil(float64(needed) / rate))
		if secondsNeeded > available {
			return Plan{Feasible: false, Reason: "insufficient window to reach target soc"}
		}
		takeOff := windowEnd
		putOn := takeOff - secondsNeeded
		if putOn < windowStart {
			putOn = windowStart
		}
		return Plan{Feasible: true, PutOnTime: putOn, TakeOffTime: takeOff, DeltaSOCKWh: needed}

	case VariableAtEnd:
		if tooShort {
			return Plan{Feasible: true, PutOnTime: windowStart, TakeOffTime: windowEnd, DeltaSOCKWh: 0, Reason: "window shorter than put-on/take-off tech time"}
		}
		maxDelta := v.BatteryMaxKWh - startSOC
		if maxDelta <= 0 {
			return Plan{Feasible: true, PutOnTime: windowStart, TakeOffTime: windowStart, DeltaSOCKWh: 0}
		}
		gained := int(rate * float64(available))
		if gained > maxDelta {
			gained = maxDelta
			secondsUsed := int64(math.Ceil(float64(gained) / rate))
			return Plan{Feasible: true, PutOnTime: windowStart, TakeOffTime: windowStart + secondsUsed, DeltaSOCKWh: gained}
		}
		return Plan{Feasible: true, PutOnTime: windowStart, TakeOffTime: windowEnd, DeltaSOCKWh: gained}
	}

	return Plan{Feasible: false, Reason: "unknown policy"}
}

// ReachableSOC returns the maximum SOC attainable at a charger within a
// window of the given duration, starting from startSOC — used by the
// pricing network to prune infeasible charging arcs before invoking
// the full oracle.
func ReachableSOC(v model.Vehicle, ch model.Charger, startSOC int, seconds int64) int {
	if seconds <= 0 {
		return startSOC
	}
	rate := ch.ChargeRateKWhPerSec(v.VoltsV, v.AmpsA)
	soc := startSOC + int(rate*float64(seconds))
	if soc > v.BatteryMaxKWh {
		return v.BatteryMaxKWh
	}
	return soc
}
