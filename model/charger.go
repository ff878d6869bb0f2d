package model

// Charger is a charging point: a simultaneous-occupancy capacity at a
// Location, with a voltage/amperage pair that determines which
// vehicles it can serve.
type Charger struct {
	Index      int
	ID         string
	Location   int // non-owning index into Network
	Capacity   int // positive integer, simultaneous-occupancy limit
	VoltsV     int
	AmpsA      int
}

// ChargeRateKWhPerSec returns the per-second charging rate for a
// vehicle with the given volts/amps plugged into this charger.
// Per spec §3: volts_vehicle * min(amps_vehicle, amps_charger) /
// 3_600_000, and zero when the vehicle's voltage exceeds the
// charger's (the charger refuses it).
func (c Charger) ChargeRateKWhPerSec(vehicleVolts, vehicleAmps int) float64 {
	if vehicleVolts > c.VoltsV {
		return 0
	}
	amps := vehicleAmps
	if c.AmpsA < amps {
		amps = c.AmpsA
	}
	return float64(vehicleVolts) * float64(amps) / 3_600_000.0
}

// Chargers owns the closed universe of Charger records.
type Chargers struct {
	items []Charger
	byID  map[string]int
}

// NewChargers builds an empty Chargers registry.
func NewChargers() *Chargers {
	return &Chargers{byID: make(map[string]int)}
}

// Add registers a new Charger at the next dense index.
func (c *Chargers) Add(ch Charger) (int, error) {
	if _, ok := c.byID[ch.ID]; ok {
		return 0, NewDataError("chargers", "duplicate charger id "+ch.ID)
	}
	idx := len(c.items)
	ch.Index = idx
	c.items = append(c.items, ch)
	c.byID[ch.ID] = idx
	return idx, nil
}

// IndexOf resolves a charger id to its dense index; a miss is a LogicError.
func (c *Chargers) IndexOf(id string) (int, error) {
	idx, ok := c.byID[id]
	if !ok {
		return 0, NewLogicError("Chargers.IndexOf", "unknown charger id "+id)
	}
	return idx, nil
}

// Get returns the Charger at the given dense index.
func (c *Chargers) Get(idx int) Charger { return c.items[idx] }

// Len returns the number of registered chargers.
func (c *Chargers) Len() int { return len(c.items) }

// All returns the full slice of chargers (read-only use expected).
func (c *Chargers) All() []Charger { return c.items }
