// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mq

import "unsafe"

// heap is a sequential d-ary min-heap whose elements are nodes: sorted
// blocks of NodeSize values. Heap order holds between nodes: the maximum
// key of a parent node is <= the minimum key of any child node.
//
// heap is not safe for concurrent use; all access is mediated by the
// guarded queue's lock.
type heap[K any, V any] struct {
	nodes  []node[K, V]
	degree int
	less   Comparator[K]
	strat  SiftStrategy
}

func newHeap[K any, V any](degree int, less Comparator[K], strat SiftStrategy) *heap[K, V] {
	return &heap[K, V]{degree: degree, less: less, strat: strat}
}

func (h *heap[K, V]) empty() bool {
	return len(h.nodes) == 0
}

func (h *heap[K, V]) sizeInNodes() int {
	return len(h.nodes)
}

// topNode returns a zero-copy view of the root node. The returned slice
// aliases heap storage and must not be retained past the next mutation.
func (h *heap[K, V]) topNode() node[K, V] {
	return h.nodes[0]
}

func (h *heap[K, V]) parent(i int) int {
	return (i - 1) / h.degree
}

func (h *heap[K, V]) firstChild(i int) int {
	return i*h.degree + 1
}

// insertNode appends blk at the next heap slot and sifts it up using
// between-node comparisons: the parent's max key against the child's min
// key, swapping entire nodes.
func (h *heap[K, V]) insertNode(blk node[K, V]) {
	h.nodes = append(h.nodes, blk)
	i := len(h.nodes) - 1
	for i > 0 {
		p := h.parent(i)
		if !h.less(h.nodes[i].minKey(), h.nodes[p].maxKey()) {
			break
		}
		h.nodes[i], h.nodes[p] = h.nodes[p], h.nodes[i]
		i = p
	}
}

// popTopNode removes the root node, moves the last node into its place,
// and sifts it down according to the configured strategy.
func (h *heap[K, V]) popTopNode() node[K, V] {
	top := h.nodes[0]
	last := len(h.nodes) - 1
	h.nodes[0] = h.nodes[last]
	h.nodes[last] = nil
	h.nodes = h.nodes[:last]
	if len(h.nodes) > 0 {
		switch h.strat {
		case SiftFullUp:
			h.siftDownClassical(0)
		default:
			h.siftDownFull(0)
		}
	}
	return top
}

// siftDownClassical repeatedly swaps i with its smallest out-of-order
// child until no child compares smaller, the textbook single-pass
// sift-down.
func (h *heap[K, V]) siftDownClassical(i int) {
	n := len(h.nodes)
	for {
		smallest := i
		first := h.firstChild(i)
		for c := first; c < first+h.degree && c < n; c++ {
			if h.less(h.nodes[c].minKey(), h.nodes[smallest].maxKey()) {
				smallest = c
			}
		}
		if smallest == i {
			return
		}
		h.nodes[i], h.nodes[smallest] = h.nodes[smallest], h.nodes[i]
		i = smallest
	}
}

// siftDownFull descends from i all the way to a leaf, always choosing
// the child whose min key is smallest without comparing against the
// value being relocated, then sifts the relocated value back up. This
// trades a few extra swaps for fewer key comparisons, which pays off
// when decrease-key-like patterns (push-then-immediate-pop, as in
// Dijkstra) dominate.
func (h *heap[K, V]) siftDownFull(i int) {
	n := len(h.nodes)
	moved := h.nodes[i]
	hole := i
	for {
		first := h.firstChild(hole)
		if first >= n {
			break
		}
		smallest := first
		for c := first + 1; c < first+h.degree && c < n; c++ {
			if h.less(h.nodes[c].minKey(), h.nodes[smallest].minKey()) {
				smallest = c
			}
		}
		h.nodes[hole] = h.nodes[smallest]
		hole = smallest
	}
	h.nodes[hole] = moved
	for hole > i {
		p := h.parent(hole)
		if !h.less(h.nodes[hole].minKey(), h.nodes[p].maxKey()) {
			break
		}
		h.nodes[hole], h.nodes[p] = h.nodes[p], h.nodes[hole]
		hole = p
	}
}

// initTouch pre-reserves backing storage for up to hint nodes and asks the
// platform to pre-fault it. It has no semantic effect; it exists so that
// first-touch NUMA-local allocation (driven by the caller's locality hint)
// can happen ahead of the hot path instead of growing the slice lazily,
// and possibly on the wrong NUMA node, under lock.
func (h *heap[K, V]) initTouch(hint int) {
	if cap(h.nodes) >= hint {
		return
	}
	grown := make([]node[K, V], len(h.nodes), hint)
	copy(grown, h.nodes)
	h.nodes = grown
	full := h.nodes[:cap(h.nodes)]
	touchPages(unsafe.Pointer(unsafe.SliceData(full)), uintptr(cap(full))*unsafe.Sizeof(full[0]))
}
