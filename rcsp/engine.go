package rcsp

import "container/heap"

// Network is the interface a pricing decoration implements over its
// own vertex numbering and resource state type S.
type Network[S any] interface {
	// Successors returns the arc indices leaving vertex.
	Successors(vertex int) []int
	// ArcHead returns the destination vertex of an arc.
	ArcHead(arc int) int
	// IsSink reports whether vertex is a valid path terminus.
	IsSink(vertex int) bool
	// Extend computes the resource state and incremental reduced cost
	// of following arc from label's state. feasible=false prunes the
	// extension (a resource bound was violated).
	Extend(label *Label[S], arc int) (state S, incrementalCost float64, feasible bool)
	// Dominates reports whether state a dominates state b: any label
	// with state b can never out-perform one with state a, so b may
	// be discarded once a is known (spec §4.3.3).
	Dominates(a, b S) bool
}

// Hooks lets a pricing decoration observe the label-setting loop
// without forking it: OnEnterLoop can veto expanding a label (e.g. a
// time or iteration budget), OnLabelFeasible is called for every label
// that settles on a sink vertex and is not vetoed. A vetoed label is
// neither expanded nor returned as a sink.
type Hooks[S any] struct {
	OnEnterLoop     func(l *Label[S]) bool
	OnLabelFeasible func(l *Label[S])
}

// Engine runs the generic label-setting loop: a lazy-dominance
// variant of the teacher's lazy-decrease-key Dijkstra (dijkstra.go's
// runner+heap shape), generalised from a scalar distance to an
// arbitrary resource state with a caller-supplied dominance relation.
type Engine[S any] struct {
	net   Network[S]
	hooks Hooks[S]

	// maxLabelsPerVertex caps the non-dominated label bucket kept per
	// vertex, bounding memory on pathological instances (spec §4.3.3's
	// "bounded label pool").
	maxLabelsPerVertex int
}

// New builds a label-setting engine over net.
func New[S any](net Network[S], hooks Hooks[S], maxLabelsPerVertex int) *Engine[S] {
	if maxLabelsPerVertex <= 0 {
		maxLabelsPerVertex = 64
	}
	return &Engine[S]{net: net, hooks: hooks, maxLabelsPerVertex: maxLabelsPerVertex}
}

// Run executes the label-setting search from a single source vertex
// and initial state, returning every feasible sink-terminated label in
// the order they settled (ascending cost is not guaranteed globally,
// since resource dominance — not a scalar total order — governs
// pruning, but each returned label is Pareto-non-dominated at its
// vertex when it settles).
func (e *Engine[S]) Run(source int, initial S, initialCost float64) []*Label[S] {
	pq := &labelHeap[S]{}
	heap.Init(pq)

	root := &Label[S]{Vertex: source, Cost: initialCost, State: initial}
	heap.Push(pq, root)

	settled := make(map[int][]*Label[S])
	var sinks []*Label[S]

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(*Label[S])

		if isDominatedByAny(e.net, cur, settled[cur.Vertex]) {
			continue
		}
		settled[cur.Vertex] = appendBounded(settled[cur.Vertex], cur, e.maxLabelsPerVertex)

		if e.hooks.OnEnterLoop != nil && !e.hooks.OnEnterLoop(cur) {
			continue
		}

		if e.net.IsSink(cur.Vertex) {
			sinks = append(sinks, cur)
			if e.hooks.OnLabelFeasible != nil {
				e.hooks.OnLabelFeasible(cur)
			}
		}

		for _, arc := range e.net.Successors(cur.Vertex) {
			to := e.net.ArcHead(arc)
			state, delta, feasible := e.net.Extend(cur, arc)
			if !feasible {
				continue
			}
			next := &Label[S]{
				Vertex: to, Cost: cur.Cost + delta, State: state,
				Parent: cur, ParentArc: arc,
			}
			if isDominatedByAny(e.net, next, settled[to]) {
				continue
			}
			heap.Push(pq, next)
		}
	}

	return sinks
}

func isDominatedByAny[S any](net Network[S], l *Label[S], bucket []*Label[S]) bool {
	for _, other := range bucket {
		if other.Cost <= l.Cost && net.Dominates(other.State, l.State) {
			return true
		}
	}
	return false
}

// appendBounded keeps a vertex's non-dominated label bucket pruned to
// at most max entries, evicting the highest-cost label when full
// (spec §4.3.3's bounded label pool — a correctness-preserving
// heuristic cap since true RCSP label sets can grow exponentially).
func appendBounded[S any](bucket []*Label[S], l *Label[S], max int) []*Label[S] {
	bucket = append(bucket, l)
	if len(bucket) <= max {
		return bucket
	}
	worst := 0
	for i, b := range bucket {
		if b.Cost > bucket[worst].Cost {
			worst = i
		}
	}
	bucket[worst] = bucket[len(bucket)-1]
	return bucket[:len(bucket)-1]
}
