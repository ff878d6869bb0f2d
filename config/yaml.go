package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/evfleet/rotor/model"
)

// yamlOverrides is the config.yaml operator-override layer:
// cmd/rotord applies it on top of an already-loaded Options for
// settings operators want to tune per-deployment without touching the
// versioned config.csv fixture (spec §9's "operator overrides don't
// belong in the data snapshot"). Only a subset of Options is exposed —
// the knobs an operator plausibly tunes between runs, not every
// modelling constant.
type yamlOverrides struct {
	NrThreads                   *int     `yaml:"nr_threads"`
	BranchAndPriceTimelimitSec  *int64   `yaml:"branch_and_price_timelimit_sec"`
	ColumnGenerationTimelimitSec *int64  `yaml:"column_generation_timelimit_sec"`
	TerminateAfterRoot          *bool    `yaml:"terminate_after_root"`
	MinimiseNumberVehicles      *bool    `yaml:"minimise_number_vehicles"`
	CostUncoveredTrip           *float64 `yaml:"cost_uncovered_trip"`
}

// ApplyYAMLOverrideFile reads a config.yaml from path (if it exists —
// a missing file is not an error, since the override layer is
// optional) and merges any set fields onto opts.
func ApplyYAMLOverrideFile(opts *Options, path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return model.NewFileError(path)
	}

	var ov yamlOverrides
	if err := yaml.Unmarshal(data, &ov); err != nil {
		return model.NewDataError("config.yaml", "malformed override file: "+err.Error())
	}
	applyYAMLOverrides(opts, ov)
	return nil
}

func applyYAMLOverrides(opts *Options, ov yamlOverrides) {
	if ov.NrThreads != nil {
		opts.NrThreads = *ov.NrThreads
	}
	if ov.BranchAndPriceTimelimitSec != nil {
		opts.BranchAndPriceTimelimitSec = *ov.BranchAndPriceTimelimitSec
	}
	if ov.ColumnGenerationTimelimitSec != nil {
		opts.ColumnGenerationTimelimitSec = *ov.ColumnGenerationTimelimitSec
	}
	if ov.TerminateAfterRoot != nil {
		opts.TerminateAfterRoot = *ov.TerminateAfterRoot
	}
	if ov.MinimiseNumberVehicles != nil {
		opts.MinimiseNumberVehicles = *ov.MinimiseNumberVehicles
	}
	if ov.CostUncoveredTrip != nil {
		opts.CostUncoveredTrip = *ov.CostUncoveredTrip
	}
}
