// Package colgen implements the master/pricing alternation loop (spec
// §4.4 C7): repeatedly solve the master LP relaxation, price every
// candidate vehicle against the resulting duals, and add back any
// negative-reduced-cost schedule as a new column, until no column
// improves the relaxation or the iteration/time budget runs out.
// Grounded on original_source's evaOptimiser.cpp column_generation and
// aux_column_generation functions.
package colgen

// NetworkVariant selects which of the three pricing-problem network
// shapes (spec §4.3) a Run call prices against, mirroring spec §6's
// const_code_pricing_problem_type configuration key.
type NetworkVariant uint8

const (
	VariantTimeSpace NetworkVariant = iota
	VariantSegmentConn
	VariantSegmentCentral
)

func (v NetworkVariant) String() string {
	switch v {
	case VariantSegmentConn:
		return "segment_connection"
	case VariantSegmentCentral:
		return "segment_centralised"
	default:
		return "time_space"
	}
}
