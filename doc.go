// Package rotor implements a rolling-horizon branch-and-price optimiser
// for electric-vehicle fleet rotation: assigning trips, maintenance
// slots, and charging sessions to vehicles under battery-state-of-
// charge and charger-capacity constraints.
//
// The domain model and schedule graph live in model/; the per-horizon
// window view in horizon/; the charging-feasibility oracle in
// charging/; branch-and-bound state in branch/; the resource-
// constrained shortest-path pricing engine in rcsp/ with its three
// network variants under pricing/; the set-partitioning master problem
// in master/ atop the LP solver in lp/; the column-generation loop in
// colgen/; and the branch-and-price search driver in bnp/.
//
// Ambient concerns — CSV input/output, typed configuration, structured
// logging, and run statistics — live in iocsv/, config/, logx/, and
// stats/ respectively. cmd/rotord is the CLI driver that wires all of
// the above into a runnable binary.
package rotor
