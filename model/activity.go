package model

// ActivityKind tags the nine vertex kinds of the schedule graph (spec §3).
type ActivityKind uint8

const (
	ActivityUndefined ActivityKind = iota
	ActivityTrip
	ActivityMaintenance
	ActivityStartSchedule
	ActivityPutOnCharge
	ActivityTakeOffCharge
	ActivityDeadleg
	ActivityCharging
	ActivityOutOfRotation
)

// String renders a human-readable tag, mirroring the original source's
// ScheduleNodeTypeMap.
func (k ActivityKind) String() string {
	switch k {
	case ActivityTrip:
		return "TRIP"
	case ActivityMaintenance:
		return "MAINTENANCE"
	case ActivityStartSchedule:
		return "START_SCHEDULE"
	case ActivityPutOnCharge:
		return "PUT_ON_CHARGE"
	case ActivityTakeOffCharge:
		return "TAKE_OFF_CHARGE"
	case ActivityDeadleg:
		return "DEADLEG"
	case ActivityCharging:
		return "CHARGING"
	case ActivityOutOfRotation:
		return "OUT_OF_ROTATION"
	default:
		return "UNDEFINED"
	}
}

// IsCharging reports whether this kind represents time plugged into a
// charger (used heavily by the statistics component, SPEC_FULL §10).
func (k ActivityKind) IsCharging() bool {
	return k == ActivityCharging
}

// IsProductive reports whether this kind directly serves passengers.
func (k ActivityKind) IsProductive() bool {
	return k == ActivityTrip
}

// IsChargeBoundary reports whether this kind is one half of a charging
// session pair (PUT_ON_CHARGE / TAKE_OFF_CHARGE).
func (k ActivityKind) IsChargeBoundary() bool {
	return k == ActivityPutOnCharge || k == ActivityTakeOffCharge
}

// Activity is a uniform view over any schedule-graph vertex: every
// vertex, regardless of kind, exposes start/end time/location, and
// distance/duration. Per-kind payload (trip/maintenance/charger
// reference) is reached through the owning Vertex, not through this
// capability set, keeping downcasts confined to the places that
// actually need them (spec §9: "downcast only at commit time").
type Activity struct {
	Kind          ActivityKind
	StartTime     int64
	EndTime       int64
	StartLocation int
	EndLocation   int
	DistanceM     uint32
	DurationSec   uint32

	// Payload indices; meaning depends on Kind. -1 when not applicable.
	TripIndex        int
	MaintenanceIndex int
	ChargerIndex     int
	VehicleIndex     int // START_SCHEDULE, OUT_OF_ROTATION owner
}

// NewTripActivity builds the Activity view for a trip vertex.
func NewTripActivity(t Trip) Activity {
	return Activity{
		Kind:             ActivityTrip,
		StartTime:        t.StartTime,
		EndTime:          t.EndTime,
		StartLocation:    t.StartLocation,
		EndLocation:      t.EndLocation,
		TripIndex:        t.Index,
		MaintenanceIndex: -1,
		ChargerIndex:     -1,
		VehicleIndex:     -1,
	}
}

// NewMaintenanceActivity builds the Activity view for a maintenance vertex.
func NewMaintenanceActivity(m Maintenance) Activity {
	return Activity{
		Kind:             ActivityMaintenance,
		StartTime:        m.StartTime,
		EndTime:          m.EndTime,
		StartLocation:    m.Location,
		EndLocation:      m.Location,
		TripIndex:        -1,
		MaintenanceIndex: m.Index,
		ChargerIndex:     -1,
		VehicleIndex:     -1,
	}
}

// NewDeadlegActivity builds the Activity view for an empty repositioning leg.
func NewDeadlegActivity(startLoc, endLoc int, startTime int64, distanceM, durationSec uint32) Activity {
	return Activity{
		Kind:             ActivityDeadleg,
		StartTime:        startTime,
		EndTime:          startTime + int64(durationSec),
		StartLocation:    startLoc,
		EndLocation:      endLoc,
		DistanceM:        distanceM,
		DurationSec:      durationSec,
		TripIndex:        -1,
		MaintenanceIndex: -1,
		ChargerIndex:     -1,
		VehicleIndex:     -1,
	}
}

// NewChargeBoundaryActivity builds a PUT_ON_CHARGE or TAKE_OFF_CHARGE
// lattice vertex at a single instant (zero duration) and a charger.
func NewChargeBoundaryActivity(kind ActivityKind, location int, t int64, charger int) Activity {
	return Activity{
		Kind:             kind,
		StartTime:        t,
		EndTime:          t,
		StartLocation:    location,
		EndLocation:      location,
		TripIndex:        -1,
		MaintenanceIndex: -1,
		ChargerIndex:     charger,
		VehicleIndex:     -1,
	}
}

// NewChargingActivity builds the CHARGING vertex spanning a charging
// session interval at a charger.
func NewChargingActivity(location int, start, end int64, charger int) Activity {
	return Activity{
		Kind:             ActivityCharging,
		StartTime:        start,
		EndTime:          end,
		StartLocation:    location,
		EndLocation:      location,
		DurationSec:      uint32(end - start),
		TripIndex:        -1,
		MaintenanceIndex: -1,
		ChargerIndex:     charger,
		VehicleIndex:     -1,
	}
}

// NewStartScheduleActivity builds the per-vehicle root vertex.
func NewStartScheduleActivity(vehicle, location int, t int64) Activity {
	return Activity{
		Kind:             ActivityStartSchedule,
		StartTime:        t,
		EndTime:          t,
		StartLocation:    location,
		EndLocation:      location,
		TripIndex:        -1,
		MaintenanceIndex: -1,
		ChargerIndex:     -1,
		VehicleIndex:     vehicle,
	}
}

// NewOutOfRotationActivity builds the closing vertex for a vehicle that
// selected no schedule in a planning horizon.
func NewOutOfRotationActivity(vehicle, location int, t int64) Activity {
	return Activity{
		Kind:             ActivityOutOfRotation,
		StartTime:        t,
		EndTime:          t,
		StartLocation:    location,
		EndLocation:      location,
		TripIndex:        -1,
		MaintenanceIndex: -1,
		ChargerIndex:     -1,
		VehicleIndex:     vehicle,
	}
}
