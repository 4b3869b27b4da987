// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mq

import "code.hybscloud.com/atomix"

// guardedQueue owns one sequential heap, one insertion buffer, one
// deletion buffer, and the atomic lock word mediating mutual exclusion
// over the triple. It ends with a full page of padding so that the
// fields of two guarded queues never share a cache line, avoiding false
// sharing between them.
//
// All methods below require the lock held; they do not acquire or
// release it themselves. Callers acquire via tryLock and release via
// unlock.
type guardedQueue[K any, V any] struct {
	inUse atomix.Bool
	ins   insertionBuffer[K, V]
	del   deletionBuffer[K, V]
	heap  *heap[K, V]
	_     pagePad
}

func newGuardedQueue[K any, V any](cfg Config, less Comparator[K]) *guardedQueue[K, V] {
	return &guardedQueue[K, V]{
		ins:  newInsertionBuffer[K, V](cfg.NodeSize),
		del:  newDeletionBuffer[K, V](cfg.DeletionBufferSize),
		heap: newHeap[K, V](cfg.HeapDegree, less, cfg.Strategy),
	}
}

// tryLock attempts to acquire the guarded queue's lock.
// Success is ordered acquire (subsequent reads observe the prior
// owner's writes); failure is relaxed, matching the resolved Open
// Question in spec section 9 (the inverse ordering is a bug).
func (g *guardedQueue[K, V]) tryLock() bool {
	return g.inUse.CompareAndSwapAcqRel(false, true)
}

// unlock releases the lock with release ordering.
func (g *guardedQueue[K, V]) unlock() {
	g.inUse.StoreRelease(false)
}

// flushInsertionBuffer sorts the (full) insertion buffer and bulk-inserts
// it as exactly one Node. Precondition: ins.full(). This resolves the
// Open Question about the source's off-by-offset loop: the insertion
// buffer's size equals NodeSize at flush time by construction (the flush
// rule), so there is exactly one node to insert, never several.
func (g *guardedQueue[K, V]) flushInsertionBuffer(less Comparator[K]) {
	g.ins.sortInPlace(less)
	blk := g.ins.takeAsNode()
	g.heap.insertNode(blk)
}

// push inserts v, preserving invariant I1 (the deletion buffer remains a
// sorted prefix of heap ∪ insertion_buffer ∪ deletion_buffer).
func (g *guardedQueue[K, V]) push(v Value[K, V], less Comparator[K]) {
	if !g.del.empty() && less(v.Key, g.del.back().Key) {
		pos := g.del.len()
		for pos > 0 && less(v.Key, g.del.at(pos-1).Key) {
			pos--
		}
		if g.del.full() {
			if g.ins.full() {
				g.flushInsertionBuffer(less)
			}
			g.ins.pushBack(g.del.popBack())
		}
		g.del.insertAt(pos, v)
		return
	}
	if g.ins.full() {
		g.flushInsertionBuffer(less)
	}
	g.ins.pushBack(v)
}

// refillDeletionBuffer repopulates an empty deletion buffer with the
// smallest available prefix of heap ∪ insertion_buffer, up to
// DeletionBufferSize elements. Precondition: del.empty().
func (g *guardedQueue[K, V]) refillDeletionBuffer(less Comparator[K]) {
	switch {
	case g.ins.full():
		// Case A: flush, then drain heap nodes until del is full or the
		// heap runs out.
		g.flushInsertionBuffer(less)
		for !g.del.full() && !g.heap.empty() {
			top := g.heap.popTopNode()
			for _, v := range top {
				g.del.pushBack(v)
			}
		}
	case g.heap.empty():
		// Case B: nothing to merge against, the buffer becomes the
		// sorted insertion buffer wholesale.
		g.ins.sortInPlace(less)
		for _, v := range g.ins.values {
			g.del.pushBack(v)
		}
		g.ins.clear()
	default:
		g.refillMerge(less)
	}
}

// refillMerge implements Case C: merge the insertion-buffer elements no
// larger than the top node's max key with the top node itself, in
// non-decreasing order, consuming exactly one heap node.
func (g *guardedQueue[K, V]) refillMerge(less Comparator[K]) {
	top := g.heap.topNode()
	maxKey := top.maxKey()

	// Partition ins into small (<= maxKey, consumed now) and large
	// (stays in ins). removeSwap moves the last element into slot i, so
	// i is only advanced when the element there is kept.
	small := make([]Value[K, V], 0, g.ins.len())
	for i := 0; i < g.ins.len(); {
		v := g.ins.values[i]
		if !less(maxKey, v.Key) { // v.Key <= maxKey
			small = append(small, v)
			g.ins.removeSwap(i)
			continue
		}
		i++
	}
	sortNode[K, V](small, less)

	hi, si := 0, 0
	for si < len(small) {
		for hi < len(top) && less(top[hi].Key, small[si].Key) {
			g.del.pushBack(top[hi])
			hi++
		}
		g.del.pushBack(small[si])
		si++
	}
	for ; hi < len(top); hi++ {
		g.del.pushBack(top[hi])
	}
	g.heap.popTopNode()
}
