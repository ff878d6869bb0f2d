package segmentcentral

import (
	"github.com/evfleet/rotor/horizon"
	"github.com/evfleet/rotor/model"
	"github.com/evfleet/rotor/pricing"
	"github.com/evfleet/rotor/pricing/segmentconn"
)

// BuildSegments enumerates the window's segments. The centralised and
// connection variants enumerate identical segments (spec §4.3.2 and
// §4.3.3 both sit atop the same per-segment sub-graphs; they differ
// only in how pieces are wired into a vehicle's network), so this
// reuses pricing/segmentconn's enumeration rather than duplicating it.
func BuildSegments(fleet *model.Fleet, win *horizon.Window, duals *pricing.Duals) []segmentconn.Segment {
	return segmentconn.BuildSegments(fleet, win, duals)
}
