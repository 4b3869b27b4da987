// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package quality computes the rank-error metric used to judge how far
// a relaxed priority queue's extractions deviate from strict minimum
// order, grounded on the original benchmark's quality evaluator: for
// each extraction, how many still-resident elements had a strictly
// smaller key at the moment of extraction.
//
// A perfectly-ordered queue (a strict priority queue) has rank error 0
// on every extraction. A multiqueue's relaxation shows up here as a
// small, bounded rank error rather than zero.
package quality

import (
	"container/heap"
	"sort"

	"code.hybscloud.com/mq/internal/replay"
)

// Report summarizes rank error across a full replay.
type Report struct {
	Count  int
	Mean   float64
	Max    int
	P50    int
	P99    int
	P999   int
	Failed int // extract attempts that found nothing (flush markers)
}

// oracleItem is one still-resident pushed value, tracked by the
// reference min-heap so Evaluate can compute how many elements with a
// smaller key were resident when a given element was extracted.
type oracleItem struct {
	key      uint64
	threadID uint32
	seq      uint64 // insertion order within threadID, disambiguates equal keys
}

type oracleHeap []oracleItem

func (h oracleHeap) Len() int { return len(h) }
func (h oracleHeap) Less(i, j int) bool {
	if h[i].key != h[j].key {
		return h[i].key < h[j].key
	}
	if h[i].threadID != h[j].threadID {
		return h[i].threadID < h[j].threadID
	}
	return h[i].seq < h[j].seq
}
func (h oracleHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *oracleHeap) Push(x any)        { *h = append(*h, x.(oracleItem)) }
func (h *oracleHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Evaluate replays records in tick order against a reference oracle
// heap, computing each extraction's rank error: the number of elements
// resident in the oracle with a strictly smaller key at the moment of
// that extraction.
func Evaluate(records []replay.Record) Report {
	sorted := make([]replay.Record, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Tick < sorted[j].Tick })

	oracle := &oracleHeap{}
	heap.Init(oracle)
	resident := make(map[oracleKey]uint64)
	var seqByThread = make(map[uint32]uint64)

	var ranks []int
	failed := 0

	for _, rec := range sorted {
		switch rec.Op {
		case replay.OpInsert:
			seq := seqByThread[rec.ThreadID]
			seqByThread[rec.ThreadID] = seq + 1
			item := oracleItem{key: rec.Key, threadID: rec.ThreadID, seq: seq}
			heap.Push(oracle, item)
			resident[oracleKey{rec.InsertThreadID, rec.ElemID}] = rec.Key
		case replay.OpDelete:
			k := oracleKey{rec.InsertThreadID, rec.ElemID}
			key, ok := resident[k]
			if !ok {
				continue
			}
			rank := countSmaller(*oracle, key)
			ranks = append(ranks, rank)
			removeOne(oracle, key)
			delete(resident, k)
		case replay.OpFlush:
			failed++
		}
	}

	return summarize(ranks, failed)
}

type oracleKey struct {
	threadID uint32
	elemID   uint32
}

// countSmaller counts oracle entries with a strictly smaller key than
// key. This walks the heap's backing slice directly rather than popping
// and re-pushing, since Evaluate runs offline and need not be fast.
func countSmaller(h oracleHeap, key uint64) int {
	n := 0
	for _, it := range h {
		if it.key < key {
			n++
		}
	}
	return n
}

// removeOne removes one oracle entry with the given key (the extracted
// element itself), preserving heap order.
func removeOne(h *oracleHeap, key uint64) {
	for i, it := range *h {
		if it.key == key {
			heap.Remove(h, i)
			return
		}
	}
}

func summarize(ranks []int, failed int) Report {
	if len(ranks) == 0 {
		return Report{Failed: failed}
	}
	sorted := make([]int, len(ranks))
	copy(sorted, ranks)
	sort.Ints(sorted)

	sum := 0
	maxRank := 0
	for _, r := range sorted {
		sum += r
		if r > maxRank {
			maxRank = r
		}
	}
	pct := func(p float64) int {
		idx := int(p * float64(len(sorted)-1))
		return sorted[idx]
	}
	return Report{
		Count:  len(sorted),
		Mean:   float64(sum) / float64(len(sorted)),
		Max:    maxRank,
		P50:    pct(0.50),
		P99:    pct(0.99),
		P999:   pct(0.999),
		Failed: failed,
	}
}
