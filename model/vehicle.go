package model

import "github.com/shopspring/decimal"

// Vehicle is a single bus in the fleet: battery limits, an initial
// state, voltage/amperage, consumption, and cost/rotation flags.
type Vehicle struct {
	Index int
	ID    string

	BatteryMinKWh int
	BatteryMaxKWh int

	InitialCharger int // non-owning index into Chargers, -1 if none
	InitialTime    int64
	InitialSOCKWh  int

	VoltsV int
	AmpsA  int

	// ConsumptionPerKm is the raw kWh/km value as parsed from CSV,
	// kept at full precision for audit/export; RatePerKKm is the
	// integer kWh-per-1000km value the optimisation core consumes
	// (ConsumptionPerKm * 1000, rounded half-away-from-zero).
	ConsumptionPerKm decimal.Decimal
	RatePerKKm       int

	NumberPlate            string
	Odometer               int64
	OdometerAtLastMaint    int64
	InRotation             bool
	ActivationCost         float64
}

// DistanceRangeMetres returns the maximum distance (in metres) the
// vehicle can travel between two full-battery points: (max-min)*1000/rate.
func (v Vehicle) DistanceRangeMetres() float64 {
	if v.RatePerKKm <= 0 {
		return 0
	}
	return float64(v.BatteryMaxKWh-v.BatteryMinKWh) * 1000.0 * 1000.0 / float64(v.RatePerKKm)
}

// DischargeForMetres returns the kWh consumed travelling the given
// distance in metres, at this vehicle's rate.
func (v Vehicle) DischargeForMetres(metres uint32) float64 {
	return float64(metres) / 1000.0 * float64(v.RatePerKKm) / 1000.0
}

// RateFromDecimal converts a parsed kWh/km decimal into the integer
// kWh-per-1000km rate used internally (spec §6: "multiplied by 1000
// and rounded to integer").
func RateFromDecimal(d decimal.Decimal) int {
	scaled := d.Mul(decimal.NewFromInt(1000))
	return int(scaled.Round(0).IntPart())
}

// Vehicles owns the closed universe of Vehicle records.
type Vehicles struct {
	items []Vehicle
	byID  map[string]int
}

// NewVehicles builds an empty Vehicles registry.
func NewVehicles() *Vehicles {
	return &Vehicles{byID: make(map[string]int)}
}

// Add registers a new Vehicle at the next dense index, computing its
// derived RatePerKKm from ConsumptionPerKm.
func (vs *Vehicles) Add(v Vehicle) (int, error) {
	if _, ok := vs.byID[v.ID]; ok {
		return 0, NewDataError("vehicles", "duplicate vehicle id "+v.ID)
	}
	v.RatePerKKm = RateFromDecimal(v.ConsumptionPerKm)
	idx := len(vs.items)
	v.Index = idx
	vs.items = append(vs.items, v)
	vs.byID[v.ID] = idx
	return idx, nil
}

// IndexOf resolves a vehicle id to its dense index; a miss is a LogicError.
func (vs *Vehicles) IndexOf(id string) (int, error) {
	idx, ok := vs.byID[id]
	if !ok {
		return 0, NewLogicError("Vehicles.IndexOf", "unknown vehicle id "+id)
	}
	return idx, nil
}

// Get returns the Vehicle at the given dense index.
func (vs *Vehicles) Get(idx int) Vehicle { return vs.items[idx] }

// Len returns the number of registered vehicles.
func (vs *Vehicles) Len() int { return len(vs.items) }

// MaxDistanceRangeMetres returns the longest-ranged vehicle's distance
// range in the fleet — the fleet-global constant spec §4.3.2 bounds a
// segment's total distance by ("total distance <= longest-ranged
// vehicle"), independent of which vehicle ultimately prices the
// segment.
func (vs *Vehicles) MaxDistanceRangeMetres() float64 {
	var max float64
	for _, v := range vs.items {
		if r := v.DistanceRangeMetres(); r > max {
			max = r
		}
	}
	return max
}

// All returns the full slice of vehicles (read-only use expected).
func (vs *Vehicles) All() []Vehicle { return vs.items }
