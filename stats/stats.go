// Package stats is the statistics-buffer half of spec §6's
// "process-wide state": a single Handler, owned for the lifetime of a
// run the way original_source's eva::DataHandler owns the input and
// schedule graph, accumulating per-vehicle, per-charger,
// per-planning-horizon and per-branch-node-iteration records and
// serializing them to CSV at the end of a run.
package stats

import "sync"

// VehicleStats is one vehicle's cost/time-breakdown for a run (spec
// §6's per-vehicle output schema).
type VehicleStats struct {
	VehicleID      string
	CostTotal      float64
	IdleSec        int64
	ProductiveSec  int64
	ChargingSec    int64
	MaintenanceSec int64
	SOCMinKWh      int
	SOCMaxKWh      int
	DistanceM      uint32
}

// ChargerOccupancySample is one time-bucket occupancy reading for one
// charger (spec §6's per-charger occupancy time-series).
type ChargerOccupancySample struct {
	ChargerID    string
	WindowStart  int64
	WindowEnd    int64
	VehicleCount int
}

// HorizonStats is one planning horizon's summary (spec §6's
// per-planning-horizon output schema).
type HorizonStats struct {
	HorizonStart  int64
	HorizonEnd    int64
	LowerBound    float64
	UpperBound    float64
	Algorithm     string
	PricingType   string
	NumVehicles   int
	NumColumns    int
	Optimal       bool
}

// NodeIterationStats is one branch-and-price tree node's column-
// generation iteration record (spec §6's performance-detail output
// schema).
type NodeIterationStats struct {
	HorizonStart           int64
	NodeID                 int
	Iteration              int
	DurationMs             int64
	NetworkConstructionMs  int64
	LowerBound             float64
	UpperBound             float64
	ColumnsAdded           int
}

// Handler accumulates every statistics buffer for the duration of a
// run. Safe for concurrent use from colgen/bnp's parallel pricing and
// search.
type Handler struct {
	mu sync.Mutex

	vehicles  []VehicleStats
	chargers  []ChargerOccupancySample
	horizons  []HorizonStats
	nodeIters []NodeIterationStats
}

// New builds an empty Handler.
func New() *Handler { return &Handler{} }

// RecordVehicle appends one vehicle's cost/time breakdown.
func (h *Handler) RecordVehicle(v VehicleStats) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.vehicles = append(h.vehicles, v)
}

// RecordChargerSample appends one charger-occupancy time-bucket.
func (h *Handler) RecordChargerSample(s ChargerOccupancySample) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.chargers = append(h.chargers, s)
}

// RecordHorizon appends one planning horizon's summary.
func (h *Handler) RecordHorizon(s HorizonStats) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.horizons = append(h.horizons, s)
}

// RecordNodeIteration appends one branch-node column-generation
// iteration's performance detail.
func (h *Handler) RecordNodeIteration(s NodeIterationStats) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nodeIters = append(h.nodeIters, s)
}

// Vehicles, Chargers, Horizons, NodeIterations return read-only
// snapshots of each buffer, for CSV serialization or test assertions.
func (h *Handler) Vehicles() []VehicleStats {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]VehicleStats, len(h.vehicles))
	copy(out, h.vehicles)
	return out
}

func (h *Handler) Chargers() []ChargerOccupancySample {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]ChargerOccupancySample, len(h.chargers))
	copy(out, h.chargers)
	return out
}

func (h *Handler) Horizons() []HorizonStats {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]HorizonStats, len(h.horizons))
	copy(out, h.horizons)
	return out
}

func (h *Handler) NodeIterations() []NodeIterationStats {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]NodeIterationStats, len(h.nodeIters))
	copy(out, h.nodeIters)
	return out
}
