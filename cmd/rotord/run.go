package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/evfleet/rotor/bnp"
	"github.com/evfleet/rotor/branch"
	"github.com/evfleet/rotor/config"
	"github.com/evfleet/rotor/horizon"
	"github.com/evfleet/rotor/iocsv"
	"github.com/evfleet/rotor/logx"
	"github.com/evfleet/rotor/master"
	"github.com/evfleet/rotor/model"
	"github.com/evfleet/rotor/stats"
)

type runFlags struct {
	dataDir    string
	outDir     string
	yamlConfig string
	debug      bool
	seed       int64
}

func runCmd() *cobra.Command {
	flags := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the rolling-horizon branch-and-price optimiser over a data directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRotor(flags)
		},
	}
	cmd.Flags().StringVar(&flags.dataDir, "data-dir", ".", "directory holding locations.csv, travel.csv, chargers.csv, vehicles.csv, trips.csv, maintenances.csv, config.csv")
	cmd.Flags().StringVar(&flags.outDir, "out-dir", "out", "directory to write schedule/unassigned/statistics CSVs into")
	cmd.Flags().StringVar(&flags.yamlConfig, "override-config", "", "optional config.yaml operator-override file")
	cmd.Flags().BoolVar(&flags.debug, "debug", false, "use the development (console) logging encoder")
	cmd.Flags().Int64Var(&flags.seed, "seed", 1, "base random seed for pricing tie-breaks")
	return cmd
}

func openCSV(dataDir, name string) (*os.File, error) {
	path := filepath.Join(dataDir, name)
	f, err := os.Open(path)
	if err != nil {
		return nil, model.NewFileError(path)
	}
	return f, nil
}

func loadFleet(dataDir string) (*model.Fleet, config.Options, error) {
	locF, err := openCSV(dataDir, "locations.csv")
	if err != nil {
		return nil, config.Options{}, err
	}
	defer locF.Close()

	travelF, err := openCSV(dataDir, "travel.csv")
	if err != nil {
		return nil, config.Options{}, err
	}
	defer travelF.Close()

	chargersF, err := openCSV(dataDir, "chargers.csv")
	if err != nil {
		return nil, config.Options{}, err
	}
	defer chargersF.Close()

	vehiclesF, err := openCSV(dataDir, "vehicles.csv")
	if err != nil {
		return nil, config.Options{}, err
	}
	defer vehiclesF.Close()

	tripsF, err := openCSV(dataDir, "trips.csv")
	if err != nil {
		return nil, config.Options{}, err
	}
	defer tripsF.Close()

	maintF, err := openCSV(dataDir, "maintenances.csv")
	if err != nil {
		return nil, config.Options{}, err
	}
	defer maintF.Close()

	configF, err := openCSV(dataDir, "config.csv")
	if err != nil {
		return nil, config.Options{}, err
	}
	defer configF.Close()

	f := &model.Fleet{
		Network:      model.NewNetwork(),
		Chargers:     model.NewChargers(),
		Vehicles:     model.NewVehicles(),
		Trips:        model.NewTrips(),
		Maintenances: model.NewMaintenances(),
	}

	if err := iocsv.ReadLocations(locF, f.Network); err != nil {
		return nil, config.Options{}, err
	}
	f.Network.Finalize()
	if err := iocsv.ReadTravel(travelF, f.Network); err != nil {
		return nil, config.Options{}, err
	}
	if err := iocsv.ReadChargers(chargersF, f.Network, f.Chargers); err != nil {
		return nil, config.Options{}, err
	}
	if err := iocsv.ReadVehicles(vehiclesF, f.Chargers, f.Vehicles); err != nil {
		return nil, config.Options{}, err
	}
	if err := iocsv.ReadTrips(tripsF, f.Network, f.Trips); err != nil {
		return nil, config.Options{}, err
	}
	if err := iocsv.ReadMaintenances(maintF, f.Network, f.Vehicles, f.Maintenances); err != nil {
		return nil, config.Options{}, err
	}
	rows, err := iocsv.ReadConfig(configF)
	if err != nil {
		return nil, config.Options{}, err
	}
	opts, err := config.Load(rows)
	if err != nil {
		return nil, config.Options{}, err
	}

	// The schedule graph's per-vehicle path arena is sized from
	// Vehicles, so it can only be built once vehicles.csv has loaded.
	f.Graph = model.NewScheduleGraph(f.Vehicles.Len())

	return f, opts, nil
}

func runRotor(flags *runFlags) error {
	fleet, opts, err := loadFleet(flags.dataDir)
	if err != nil {
		return err
	}
	if flags.yamlConfig != "" {
		if err := config.ApplyYAMLOverrideFile(&opts, flags.yamlConfig); err != nil {
			return err
		}
	}

	logger, err := logx.New(flags.debug)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if err := fleet.SeedInitialVertices(); err != nil {
		return err
	}
	fleet.SeedTripAndMaintenanceVertices()
	fleet.SeedChargerLattice(opts.DateStart, opts.DateEnd, opts.ChargerCapacityCheckSec)

	h := stats.New()
	rng := rand.New(rand.NewSource(flags.seed))

	for start := opts.DateStart; start < opts.DateEnd; start += opts.PlanningHorizonLength {
		end := start + opts.PlanningHorizonLength
		if end > opts.DateEnd {
			end = opts.DateEnd
		}
		hlog := logx.ForHorizon(logger, start, end)

		if err := runHorizon(fleet, opts, h, start, end, rng, hlog); err != nil {
			hlog.Errorw("horizon failed", "error", err)
			return err
		}
	}

	return writeOutputs(fleet, h, flags.outDir)
}

func runHorizon(fleet *model.Fleet, opts config.Options, h *stats.Handler, start, end int64, rng *rand.Rand, logger *zap.SugaredLogger) error {
	win := horizon.NewWindow(fleet, start, end, opts.PlanningHorizonOverlap)
	numTrips := len(win.Trips)
	numMaintenances := len(win.Maintenances)

	m := master.New(numTrips, numMaintenances, opts.ToMasterOptions())
	root := branch.NewRoot()

	preassigned := make(map[int]int)
	for denseIdx, graphIdx := range win.Maintenances {
		v := fleet.Graph.Vertex(graphIdx)
		maint := fleet.Maintenances.Get(v.MaintenanceIndex)
		if maint.AssignedVehicle >= 0 {
			preassigned[denseIdx] = maint.AssignedVehicle
		}
	}
	root = branch.InjectPreAssignedMaintenance(root, preassigned)
	hasUnassignedMaintenance := len(preassigned) < numMaintenances

	ctx := context.Background()
	if opts.BranchAndPriceTimelimitSec > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(opts.BranchAndPriceTimelimitSec)*time.Second)
		defer cancel()
	}

	bnpOpts := opts.ToBnPOptions()
	res := bnp.Run(ctx, m, root, fleet, win, numTrips, numMaintenances, hasUnassignedMaintenance, bnpOpts, rng)

	logger.Infow("horizon complete",
		"optimal", res.Optimal, "nodes_explored", res.NodesExplored,
		"num_trips", numTrips, "num_maintenances", numMaintenances)

	numColumns := 0
	lb, ub := 0.0, 0.0
	if res.Solution != nil {
		numColumns = len(m.AllColumns())
		ub = res.Solution.Objective
		lb = res.Solution.Objective

		for vehicle, col := range m.SelectedColumns(res.Solution) {
			if len(col.ArcPath) == 0 {
				continue
			}
			if err := fleet.Graph.CommitPath(vehicle, col.ArcPath); err != nil {
				return fmt.Errorf("committing vehicle %d's path for horizon [%d,%d): %w", vehicle, start, end, err)
			}
		}
	}

	h.RecordHorizon(stats.HorizonStats{
		HorizonStart: start,
		HorizonEnd:   end,
		LowerBound:   lb,
		UpperBound:   ub,
		Algorithm:    bnpOpts.Strategy.String(),
		PricingType:  pricingTypeName(opts),
		NumVehicles:  fleet.Vehicles.Len(),
		NumColumns:   numColumns,
		Optimal:      res.Optimal,
	})
	return nil
}

func pricingTypeName(opts config.Options) string {
	switch opts.PricingProblemType {
	case 1:
		return "segment_connection"
	case 2:
		return "segment_centralised"
	default:
		return "time_space"
	}
}

func writeOutputs(fleet *model.Fleet, h *stats.Handler, outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return model.NewFileError(outDir)
	}

	covered := make(map[int]bool)
	coveredMaint := make(map[int]bool)
	for _, v := range fleet.Vehicles.All() {
		for _, arcIdx := range fleet.Graph.VehiclePath(v.Index) {
			a := fleet.Graph.Vertex(fleet.Graph.Arc(arcIdx).To)
			if a.TripIndex >= 0 {
				covered[a.TripIndex] = true
			}
			if a.MaintenanceIndex >= 0 {
				coveredMaint[a.MaintenanceIndex] = true
			}
		}
	}

	writers := []struct {
		name string
		fn   func(*os.File) error
	}{
		{"schedule.csv", func(f *os.File) error { return iocsv.WriteSchedule(f, fleet) }},
		{"unassigned_trips.csv", func(f *os.File) error { return iocsv.WriteUnassignedTrips(f, fleet, covered) }},
		{"unassigned_maintenances.csv", func(f *os.File) error { return iocsv.WriteUnassignedMaintenances(f, fleet, coveredMaint) }},
		{"vehicle_stats.csv", func(f *os.File) error { return h.WriteVehicleStats(f) }},
		{"charger_occupancy.csv", func(f *os.File) error { return h.WriteChargerOccupancy(f) }},
		{"horizon_stats.csv", func(f *os.File) error { return h.WriteHorizonStats(f) }},
		{"performance_detail.csv", func(f *os.File) error { return h.WritePerformanceDetail(f) }},
	}

	for _, w := range writers {
		path := filepath.Join(outDir, w.name)
		f, err := os.Create(path)
		if err != nil {
			return model.NewFileError(path)
		}
		writeErr := w.fn(f)
		closeErr := f.Close()
		if writeErr != nil {
			return writeErr
		}
		if closeErr != nil {
			return model.NewFileError(path)
		}
	}
	return nil
}
