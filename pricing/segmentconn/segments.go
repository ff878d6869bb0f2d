// Package segmentconn implements pricing's segment network, connection
// variant (spec §4.3.2, variant B): a connection graph over the
// non-dominated pieces of offline-enumerated segments, with inter-
// piece arcs resolved by the Fix-at-end charging oracle.
package segmentconn

import (
	"sort"

	"github.com/evfleet/rotor/horizon"
	"github.com/evfleet/rotor/model"
	"github.com/evfleet/rotor/pricing"
	"github.com/evfleet/rotor/pricing/segment"
)

// Segment is one work block whose per-segment sub-graph enumerates the
// non-dominated ways to realise it (spec §4.3.2). Grounded on
// segments.h/.cpp's DFS-over-location-equivalent-activity-signatures
// enumeration: BuildSegments below performs the equivalent DFS over
// this window's own trip/maintenance instances directly (rather than
// first collapsing them into location-equivalence classes), chaining
// activities reachable in time and bounded by the fleet's longest-
// ranged vehicle distance (spec §4.3.2: "total distance <= longest-
// ranged vehicle", a fleet-global constant per the glossary, not a
// per-branch/per-vehicle decision).
type Segment struct {
	Graph *segment.SubGraph
}

type segmentActivity struct {
	graphIdx int
	act      model.Activity
	dual     float64
}

// BuildSegments enumerates one segment rooted at every trip/
// maintenance activity in the window: each segment's layered sub-graph
// is grown by a DFS that chains further activities reachable in time
// (end-time of source + travel duration <= start-time of target,
// spec §4.3.2's arc rule, identical to pricing/timespace's reachability
// check) whose connecting deadleg plus own distance keeps the
// segment's running total within the fleet-wide range budget.
func BuildSegments(fleet *model.Fleet, win *horizon.Window, duals *pricing.Duals) []Segment {
	entries := make([]segmentActivity, 0, len(win.Trips)+len(win.Maintenances))
	for _, graphIdx := range win.Trips {
		act := fleet.Graph.Vertex(graphIdx)
		entries = append(entries, segmentActivity{graphIdx, act, duals.Trip(act.TripIndex)})
	}
	for _, graphIdx := range win.Maintenances {
		act := fleet.Graph.Vertex(graphIdx)
		entries = append(entries, segmentActivity{graphIdx, act, duals.Maintenance(act.MaintenanceIndex)})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].act.StartTime < entries[j].act.StartTime })

	maxRange := int64(fleet.Vehicles.MaxDistanceRangeMetres())

	segments := make([]Segment, 0, len(entries))
	for i := range entries {
		segments = append(segments, buildSegmentRootedAt(fleet, entries, i, maxRange))
	}
	return segments
}

func buildSegmentRootedAt(fleet *model.Fleet, entries []segmentActivity, root int, maxRange int64) Segment {
	sg := segment.New()
	rootEntry := entries[root]
	rootNode := sg.AddActivityNode(activityNode(rootEntry, 1))
	_ = sg.Connect(sg.StartID(), rootNode)
	_ = sg.ConnectToEnd(rootNode)

	extendSegment(fleet, entries, root, rootNode, int64(rootEntry.act.DistanceM), 2, sg, maxRange)
	return Segment{Graph: sg}
}

// extendSegment is the DFS step: from fromIdx's activity, try chaining
// every later (time-ordered) activity that is time-reachable, adding
// one sub-graph layer per successful chain and recursing from there.
// A node is always wired to the end sentinel in addition to any
// further layer, since a schedule piece may legitimately stop after
// any prefix of the chain.
func extendSegment(fleet *model.Fleet, entries []segmentActivity, fromIdx int, fromNodeID string, usedDistanceM int64, layer int, sg *segment.SubGraph, maxRange int64) {
	fromAct := entries[fromIdx].act
	for j := fromIdx + 1; j < len(entries); j++ {
		next := entries[j]
		dur := fleet.Network.DurationSeconds(fromAct.EndLocation, next.act.StartLocation)
		if dur == model.InfDistance {
			continue
		}
		if fromAct.EndTime+int64(dur) > next.act.StartTime {
			continue
		}
		deadlegM := int64(fleet.Network.DistanceMetres(fromAct.EndLocation, next.act.StartLocation))
		total := usedDistanceM + deadlegM + int64(next.act.DistanceM)
		if maxRange > 0 && total > maxRange {
			continue
		}

		childNode := sg.AddActivityNode(activityNode(next, layer))
		_ = sg.Connect(fromNodeID, childNode)
		_ = sg.ConnectToEnd(childNode)
		extendSegment(fleet, entries, j, childNode, total, layer+1, sg, maxRange)
	}
}

func activityNode(e segmentActivity, layer int) segment.Node {
	return segment.Node{
		Kind:             segment.NodeActivity,
		Layer:            layer,
		TripIndex:        e.act.TripIndex,
		MaintenanceIndex: e.act.MaintenanceIndex,
		StartTime:        e.act.StartTime,
		EndTime:          e.act.EndTime,
		Location:         e.act.StartLocation,
		DistanceM:        int64(e.act.DistanceM),
		Dual:             e.dual,
	}
}
