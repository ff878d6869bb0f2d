// Package logx wraps go.uber.org/zap the way JoseRFJuniorLLMs-EV-IA's
// cmd/server builds its process-wide logger: one *zap.SugaredLogger
// constructed once at startup, structured fields attached with
// With(...) at each scope boundary (planning horizon, branch node,
// vehicle), never fmt.Println.
package logx

import "go.uber.org/zap"

// New builds the process-wide logger. Pass false for debug to get
// zap's production encoder (JSON, sampled); true gets the development
// encoder (console, unsampled) for local runs.
func New(debug bool) (*zap.SugaredLogger, error) {
	var logger *zap.Logger
	var err error
	if debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

// ForHorizon scopes a logger to one rolling-horizon run.
func ForHorizon(base *zap.SugaredLogger, start, end int64) *zap.SugaredLogger {
	return base.With("horizon_start", start, "horizon_end", end)
}

// ForNode scopes a logger to one branch-and-price tree node.
func ForNode(base *zap.SugaredLogger, nodeID int, depth int) *zap.SugaredLogger {
	return base.With("node_id", nodeID, "depth", depth)
}

// ForVehicle scopes a logger to one vehicle's pricing pass.
func ForVehicle(base *zap.SugaredLogger, vehicleID string) *zap.SugaredLogger {
	return base.With("vehicle_id", vehicleID)
}
