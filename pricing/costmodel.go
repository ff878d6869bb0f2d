package pricing

// CostModel holds the objective-function weights a pricing network
// needs to price a schedule's real monetary cost alongside its reduced
// cost (spec §6's cost_* configuration keys).
type CostModel struct {
	DeadlegFix               float64
	DeadlegPerKm             float64
	MaintenancePenaltyLambda float64
	UncoveredTripPenalty     float64
	ChargerCapacityPenalty   float64

	// PutOnTechSec and TakeOffTechSec are the mandatory hookup/unhook
	// durations the charging oracle (spec §4.1) reserves out of every
	// candidate window before it will mount a charging session.
	PutOnTechSec   int64
	TakeOffTechSec int64
}

// DefaultCostModel mirrors master.DefaultOptions' penalty weights for
// the two components colgen's master and pricing must agree on.
func DefaultCostModel() CostModel {
	return CostModel{
		DeadlegFix:               5,
		DeadlegPerKm:             1.2,
		MaintenancePenaltyLambda: 0.01,
		UncoveredTripPenalty:     10000,
		ChargerCapacityPenalty:   5000,
		PutOnTechSec:             5 * 60,
		TakeOffTechSec:           5 * 60,
	}
}

// DeadlegCost prices a distance-positive empty leg: a fixed hookup cost
// plus a per-kilometre rate.
func (c CostModel) DeadlegCost(distanceM uint32) float64 {
	if distanceM == 0 {
		return 0
	}
	return c.DeadlegFix + c.DeadlegPerKm*float64(distanceM)/1000.0
}
