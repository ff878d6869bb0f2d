package model

import "github.com/google/btree"

// timeIndexedItem orders schedule-graph vertex indices by start time,
// breaking ties by vertex index for determinism. Backed by a
// github.com/google/btree.BTreeG so the planning-window view and the
// schedule graph's parallel time-sorted sequences (spec §3) support
// O(log n) range queries instead of linear/binary-search-over-slice.
type timeIndexedItem struct {
	start int64
	idx   int
}

func lessTimeIndexed(a, b timeIndexedItem) bool {
	if a.start != b.start {
		return a.start < b.start
	}
	return a.idx < b.idx
}

// timeIndex is a small façade over btree.BTreeG[timeIndexedItem] used
// for every time-sorted sequence the schedule graph and planning window
// keep (one per activity kind).
type timeIndex struct {
	tree *btree.BTreeG[timeIndexedItem]
}

func newTimeIndex() *timeIndex {
	return &timeIndex{tree: btree.NewG(32, lessTimeIndexed)}
}

func (ti *timeIndex) insert(start int64, idx int) {
	ti.tree.ReplaceOrInsert(timeIndexedItem{start: start, idx: idx})
}

// rangeAsc calls fn for every (start,idx) pair with lo <= start < hi, in
// ascending start-time order. fn returning false stops the iteration.
func (ti *timeIndex) rangeAsc(lo, hi int64, fn func(start int64, idx int) bool) {
	ti.tree.AscendRange(
		timeIndexedItem{start: lo, idx: -1 << 62},
		timeIndexedItem{start: hi, idx: -1 << 62},
		func(it timeIndexedItem) bool { return fn(it.start, it.idx) },
	)
}

// all calls fn for every (start,idx) pair in ascending start-time order.
func (ti *timeIndex) all(fn func(start int64, idx int) bool) {
	ti.tree.Ascend(func(it timeIndexedItem) bool { return fn(it.start, it.idx) })
}

// len returns the number of entries held.
func (ti *timeIndex) len() int { return ti.tree.Len() }

// floor returns the last entry with start <= t, if any.
func (ti *timeIndex) floor(t int64) (timeIndexedItem, bool) {
	var found timeIndexedItem
	var ok bool
	ti.tree.DescendLessOrEqual(timeIndexedItem{start: t, idx: 1<<62 - 1}, func(it timeIndexedItem) bool {
		found, ok = it, true
		return false
	})
	return found, ok
}

// ceil returns the first entry with start >= t, if any.
func (ti *timeIndex) ceil(t int64) (timeIndexedItem, bool) {
	var found timeIndexedItem
	var ok bool
	ti.tree.AscendGreaterOrEqual(timeIndexedItem{start: t, idx: -1 << 62}, func(it timeIndexedItem) bool {
		found, ok = it, true
		return false
	})
	return found, ok
}
