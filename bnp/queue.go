package bnp

import (
	"github.com/evfleet/rotor/branch"
	"github.com/evfleet/rotor/lp"
)

// queueItem is one pending best-first node: its already-solved LP
// relaxation (so popping a node never re-solves it) and the bound the
// heap orders on.
type queueItem struct {
	node *branch.Node
	sol  *lp.Solution
	lb   float64
}

// nodeQueue is a min-heap on lb — spec §4.5's "max-priority queue
// keyed by −lb(node)" is the same ordering stated the other way:
// whichever node has the smallest lb is explored first.
type nodeQueue []*queueItem

func (q nodeQueue) Len() int            { return len(q) }
func (q nodeQueue) Less(i, j int) bool  { return q[i].lb < q[j].lb }
func (q nodeQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *nodeQueue) Push(x interface{}) { *q = append(*q, x.(*queueItem)) }
func (q *nodeQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}
