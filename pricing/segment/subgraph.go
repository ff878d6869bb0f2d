// Package segment implements the per-segment sub-graph shared by both
// segment-based pricing variants (spec §4.3.2): a layered DAG — one
// layer per activity class in the segment, source/sink sentinels —
// whose non-dominated source-to-sink paths are that segment's
// candidate "schedule pieces". Grounded on original_source's
// subGraph.h/.cpp (layer structure, per-node dual, non-dominated-path
// enumeration) and SPEC_FULL's choice of github.com/heimdalr/dag for
// the layered-DAG invariant.
package segment

import (
	"fmt"

	"github.com/heimdalr/dag"
)

// NodeKind tags a sub-graph node.
type NodeKind uint8

const (
	NodeStart NodeKind = iota
	NodeActivity
	NodeEnd
)

// Node is one sub-graph vertex: a segment start/end sentinel, or one
// trip/maintenance instance of a segment-activity-class layer.
type Node struct {
	Kind             NodeKind
	Layer            int
	TripIndex        int // -1 if this is a maintenance node
	MaintenanceIndex int // -1 if this is a trip node
	StartTime        int64
	EndTime          int64
	Location         int
	DistanceM        int64   // this activity's own travel distance, for the connection variant's distance-since-maintenance dominance dimension
	Dual             float64 // per-trip or per-maintenance dual (0 for sentinels)
}

// SubGraph is one segment's layered DAG, plus the duals needed to
// score a path and the two start-layer charging-dual bounds (spec
// §4.3.2: "min_charging_dual and max_charging_dual").
type SubGraph struct {
	d     *dag.DAG
	nodes map[string]Node
	ids   []string // insertion order, convenient for a manual topological walk since layers are added in order

	startID, endID string

	MinChargingDual float64
	MaxChargingDual float64
}

// New builds an empty sub-graph with a start and end sentinel.
func New() *SubGraph {
	sg := &SubGraph{d: dag.NewDAG(), nodes: make(map[string]Node)}
	sg.startID = sg.addNode(Node{Kind: NodeStart, Layer: 0})
	sg.endID = sg.addNode(Node{Kind: NodeEnd, Layer: -1})
	return sg
}

func (sg *SubGraph) addNode(n Node) string {
	id, err := sg.d.AddVertex(n)
	if err != nil {
		// Vertex ids are generated by the library from a monotonically
		// increasing counter; a collision here means the DAG was used
		// across goroutines without synchronisation, which segment
		// construction never does.
		panic(fmt.Sprintf("segment: add vertex: %v", err))
	}
	sg.nodes[id] = n
	sg.ids = append(sg.ids, id)
	return id
}

// AddActivityNode appends one trip/maintenance instance at the given
// layer (1-based; layer 0 is the start sentinel).
func (sg *SubGraph) AddActivityNode(n Node) string {
	return sg.addNode(n)
}

// StartID and EndID expose the sentinel node ids for edge wiring.
func (sg *SubGraph) StartID() string { return sg.startID }
func (sg *SubGraph) EndID() string   { return sg.endID }

// Connect adds an arc from one node to another: the caller has already
// checked time-reachability (end-time of from + travel duration <=
// start-time of to), matching spec §4.3.2's arc rule.
func (sg *SubGraph) Connect(from, to string) error {
	return sg.d.AddEdge(from, to)
}

// ConnectToEnd wires the given node to the sentinel end node.
func (sg *SubGraph) ConnectToEnd(nodeID string) error {
	return sg.d.AddEdge(nodeID, sg.endID)
}

// Node returns the payload for a node id.
func (sg *SubGraph) Node(id string) Node { return sg.nodes[id] }

// Children returns the ids of nodes reachable by one outgoing arc.
func (sg *SubGraph) Children(id string) []string {
	children, err := sg.d.GetChildren(id)
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(children))
	for childID := range children {
		out = append(out, childID)
	}
	return out
}

// Piece is one non-dominated source-to-sink path through the
// sub-graph: the sequence of activity node ids (start/end sentinels
// excluded), its accumulated dual sum, and its time span.
type Piece struct {
	NodeIDs         []string
	AccumulatedDual float64
	StartTime       int64
	EndTime         int64
	DistanceM       int64
}

// partial is a path still under construction during the forward DP in
// NonDominatedPieces: the path so far, its accumulated dual, the
// distance accrued, and the time span it would produce as a Piece.
type partial struct {
	path  []string
	dual  float64
	dist  int64
	start int64
	end   int64
}

// NonDominatedPieces enumerates every non-dominated path from start to
// end via a forward DP in insertion (layer) order — safe because nodes
// are always added in non-decreasing layer order, so later nodes can
// only be reached from earlier ones (spec §4.3.2's layered-DAG
// invariant, enforced structurally rather than re-checked here).
// Dominance: a partial path a dominates b at the same node iff
// a.AccumulatedDual >= b.AccumulatedDual and a.EndTime <= b.EndTime
// (higher accumulated dual and earlier finish are both strictly
// better for a minimisation pricing problem maximising dual pickup).
func (sg *SubGraph) NonDominatedPieces() []Piece {
	frontier := map[string][]partial{
		sg.startID: {{path: nil, dual: 0, start: 0, end: 0}},
	}

	for _, id := range sg.ids {
		parts, ok := frontier[id]
		if !ok {
			continue
		}
		parts = pruneDominated(parts)
		frontier[id] = parts

		for _, childID := range sg.Children(id) {
			if childID == sg.endID {
				// the end sentinel carries no activity of its own; keep
				// the path and time span as they stood at the last real
				// node rather than folding the sentinel in.
				frontier[childID] = append(frontier[childID], parts...)
				continue
			}
			child := sg.nodes[childID]
			for _, p := range parts {
				next := partial{
					path:  append(append([]string{}, p.path...), childID),
					dual:  p.dual + child.Dual,
					dist:  p.dist + child.DistanceM,
					start: p.start,
					end:   child.EndTime,
				}
				if len(p.path) == 0 {
					next.start = child.StartTime
				}
				frontier[childID] = append(frontier[childID], next)
			}
		}
	}

	var pieces []Piece
	for _, p := range pruneDominated(frontier[sg.endID]) {
		pieces = append(pieces, Piece{
			NodeIDs:         p.path,
			AccumulatedDual: p.dual,
			StartTime:       p.start,
			EndTime:         p.end,
			DistanceM:       p.dist,
		})
	}
	return pieces
}

func pruneDominated(parts []partial) []partial {
	kept := parts[:0]
	for i, p := range parts {
		dominated := false
		for j, q := range parts {
			if i == j {
				continue
			}
			if q.dual >= p.dual && q.end <= p.end && (q.dual > p.dual || q.end < p.end) {
				dominated = true
				break
			}
		}
		if !dominated {
			kept = append(kept, p)
		}
	}
	return kept
}
