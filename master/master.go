package master

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/evfleet/rotor/lp"
)

// chargerWindowKey identifies one lazily-materialised charger-capacity
// row: a charger and one slot of its put-on/take-off lattice.
type chargerWindowKey struct {
	Charger int
	Start   int64
	End     int64
}

// Master is the set-partitioning master LP: one mandatory row per
// trip and per maintenance slot, plus charger-capacity rows created on
// demand the first time some column's coverage would violate one
// (spec §4.5: "lazy-row materialisation — rows are added only once a
// generated column makes them binding").
type Master struct {
	problem *lp.Problem

	tripRow  map[int]int // trip index -> lp row index
	maintRow map[int]int // maintenance index -> lp row index
	rowTrip  map[int]int // lp row index -> trip index (inverse of tripRow)
	rowMaint map[int]int // lp row index -> maintenance index (inverse of maintRow)

	chargerRow      map[chargerWindowKey]int // lazily created
	chargerCapacity map[chargerWindowKey]int

	uncoveredVar map[int]int // trip index -> lp var index of the uncovered slack

	pool        *lru.Cache[string, *Column]
	byVehicle   map[int][]*Column

	uncoveredTripPenalty    float64
	chargerCapacityPenalty float64
}

// Options configures a new Master.
type Options struct {
	ColumnPoolCapacity     int
	UncoveredTripPenalty   float64
	ChargerCapacityPenalty float64
}

// DefaultOptions returns sane defaults (grounded on original_source's
// evaConstants.h penalty weights).
func DefaultOptions() Options {
	return Options{
		ColumnPoolCapacity:     20000,
		UncoveredTripPenalty:   10000,
		ChargerCapacityPenalty: 5000,
	}
}

// New builds an empty Master with one row per trip and maintenance
// index given, wired with soft penalty slacks for uncovered trips.
func New(numTrips, numMaintenances int, opts Options) *Master {
	m := &Master{
		problem:                lp.NewProblem(),
		tripRow:                make(map[int]int, numTrips),
		maintRow:               make(map[int]int, numMaintenances),
		rowTrip:                make(map[int]int, numTrips),
		rowMaint:               make(map[int]int, numMaintenances),
		chargerRow:             make(map[chargerWindowKey]int),
		chargerCapacity:        make(map[chargerWindowKey]int),
		uncoveredVar:           make(map[int]int, numTrips),
		byVehicle:              make(map[int][]*Column),
		uncoveredTripPenalty:   opts.UncoveredTripPenalty,
		chargerCapacityPenalty: opts.ChargerCapacityPenalty,
	}

	pool, err := lru.NewWithEvict[string, *Column](max1(opts.ColumnPoolCapacity), m.onEvict)
	if err != nil {
		// Capacity is always validated positive by max1; NewWithEvict
		// only errors on non-positive size.
		panic(fmt.Sprintf("master: column pool: %v", err))
	}
	m.pool = pool

	for t := 0; t < numTrips; t++ {
		row := m.problem.AddRow(1, 1)
		m.tripRow[t] = row
		m.rowTrip[row] = t
		slack := m.problem.AddVar(0, 1, opts.UncoveredTripPenalty)
		m.problem.ChangeCoeff(row, slack, 1)
		m.uncoveredVar[t] = slack
	}
	for mi := 0; mi < numMaintenances; mi++ {
		row := m.problem.AddRow(1, 1)
		m.maintRow[mi] = row
		m.rowMaint[row] = mi
	}

	return m
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// onEvict is the LRU eviction callback: when the column pool is full
// and a new column displaces the least-recently-used one, its LP
// column is deleted too, so the pool and the LP stay in sync (spec
// §4.5's column-pool cleanup).
func (m *Master) onEvict(_ string, col *Column) {
	if col.lpColumn < 0 {
		return
	}
	m.deleteLPColumns([]int{col.lpColumn})
	list := m.byVehicle[col.Vehicle]
	for i, c := range list {
		if c.ID == col.ID {
			m.byVehicle[col.Vehicle] = append(list[:i], list[i+1:]...)
			break
		}
	}
}

// deleteLPColumns removes LP columns and fixes up every remaining
// column's cached lp column index via the returned remap.
func (m *Master) deleteLPColumns(cols []int) {
	remap := m.problem.DeleteCols(cols)
	for _, list := range m.byVehicle {
		for _, c := range list {
			if c.lpColumn >= 0 && c.lpColumn < len(remap) {
				c.lpColumn = remap[c.lpColumn]
			}
		}
	}
}

// ChargerWindowRow returns the lp row for a charger-capacity window,
// materialising it on first use with the given capacity bound.
func (m *Master) ChargerWindowRow(charger int, start, end int64, capacity int) int {
	key := chargerWindowKey{Charger: charger, Start: start, End: end}
	if row, ok := m.chargerRow[key]; ok {
		return row
	}
	row := m.problem.AddRow(0, float64(capacity))
	m.chargerRow[key] = row
	m.chargerCapacity[key] = capacity
	slack := m.problem.AddVar(0, lp.Inf, m.chargerCapacityPenalty)
	m.problem.ChangeCoeff(row, slack, -1)
	return row
}

// AddColumn inserts a priced column into the master LP, wiring its
// coverage into the appropriate rows and registering it with the
// bounded FIFO column pool.
func (m *Master) AddColumn(col *Column) {
	varIdx := m.problem.AddVar(0, 1, col.Cost)
	col.lpColumn = varIdx
	for row, coeff := range col.Coverage {
		m.problem.ChangeCoeff(row, varIdx, coeff)
	}
	m.pool.Add(col.ID.String(), col)
	m.byVehicle[col.Vehicle] = append(m.byVehicle[col.Vehicle], col)
}

// Columns returns every column currently in the pool for a vehicle.
func (m *Master) Columns(vehicle int) []*Column {
	return m.byVehicle[vehicle]
}

// AllColumns returns every column currently held across all vehicles.
func (m *Master) AllColumns() []*Column {
	out := make([]*Column, 0, m.pool.Len())
	for _, key := range m.pool.Keys() {
		if col, ok := m.pool.Peek(key); ok {
			out = append(out, col)
		}
	}
	return out
}

// Solve solves the current LP relaxation.
func (m *Master) Solve() *lp.Solution {
	return m.problem.Solve()
}

// Problem exposes the underlying LP for branch projection (filterVars)
// and warm-starting.
func (m *Master) Problem() *lp.Problem { return m.problem }

// TripRow and MaintenanceRow expose row indices for dual lookups.
func (m *Master) TripRow(trip int) (int, bool)             { row, ok := m.tripRow[trip]; return row, ok }
func (m *Master) MaintenanceRow(maint int) (int, bool)      { row, ok := m.maintRow[maint]; return row, ok }
