// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mq

import "testing"

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.NodeSize = 4
	cfg.DeletionBufferSize = 8
	cfg.HeapDegree = 4
	return cfg
}

// drainGuarded repeatedly pops the guarded queue's front, refilling the
// deletion buffer whenever it runs dry, until everything is gone.
func drainGuarded(g *guardedQueue[int, int], less Comparator[int]) []int {
	var keys []int
	for {
		if g.del.empty() {
			g.refillDeletionBuffer(less)
		}
		if g.del.empty() {
			return keys
		}
		keys = append(keys, g.del.popFront().Key)
	}
}

// TestGuardedQueueMonotoneOrder is property P3: a guarded queue in
// isolation returns values in non-decreasing key order.
func TestGuardedQueueMonotoneOrder(t *testing.T) {
	cfg := testConfig()
	g := newGuardedQueue[int, int](cfg, orderedLess[int])
	for i := 0; i < 100; i++ {
		g.push(Value[int, int]{Key: i, Payload: i}, orderedLess[int])
	}
	got := drainGuarded(g, orderedLess[int])
	if len(got) != 100 {
		t.Fatalf("drained %d keys, want 100", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1] > got[i] {
			t.Fatalf("not sorted at %d: %d > %d (full: %v)", i, got[i-1], got[i], got)
		}
	}
}

func TestGuardedQueueReversePush(t *testing.T) {
	cfg := testConfig()
	g := newGuardedQueue[int, int](cfg, orderedLess[int])
	for i := 99; i >= 0; i-- {
		g.push(Value[int, int]{Key: i}, orderedLess[int])
	}
	got := drainGuarded(g, orderedLess[int])
	for i := range got {
		if got[i] != i {
			t.Fatalf("position %d: got %d, want %d", i, got[i], i)
		}
	}
}

func TestGuardedQueueGreaterComparator(t *testing.T) {
	greater := func(a, b int) bool { return a > b }
	cfg := testConfig()
	g := newGuardedQueue[int, int](cfg, greater)
	for i := 0; i < 100; i++ {
		g.push(Value[int, int]{Key: i}, greater)
	}
	got := drainGuarded(g, greater)
	for i := 0; i < 100; i++ {
		want := 99 - i
		if got[i] != want {
			t.Fatalf("position %d: got %d, want %d", i, got[i], want)
		}
	}
}

// TestGuardedQueueFlushInsertsExactlyOneNode resolves the spec's
// flush_insertion_buffer Open Question: flushing a full insertion buffer
// must bulk-insert it as exactly one node, never iterate in NodeSize
// steps over a larger range.
func TestGuardedQueueFlushInsertsExactlyOneNode(t *testing.T) {
	cfg := testConfig()
	g := newGuardedQueue[int, int](cfg, orderedLess[int])
	for i := 0; i < cfg.NodeSize; i++ {
		g.ins.pushBack(Value[int, int]{Key: cfg.NodeSize - i})
	}
	g.flushInsertionBuffer(orderedLess[int])
	if g.heap.sizeInNodes() != 1 {
		t.Fatalf("sizeInNodes after flush: got %d, want 1", g.heap.sizeInNodes())
	}
	if !g.ins.empty() {
		t.Fatal("insertion buffer should be empty after flush")
	}
}

// TestGuardedQueueRefillCaseB exercises Case B: the heap is empty, so
// refill becomes the sorted insertion buffer wholesale.
func TestGuardedQueueRefillCaseB(t *testing.T) {
	cfg := testConfig()
	g := newGuardedQueue[int, int](cfg, orderedLess[int])
	for _, k := range []int{5, 1, 3} {
		g.ins.pushBack(Value[int, int]{Key: k})
	}
	g.refillDeletionBuffer(orderedLess[int])
	want := []int{1, 3, 5}
	if g.del.len() != len(want) {
		t.Fatalf("del length: got %d, want %d", g.del.len(), len(want))
	}
	for i, k := range want {
		if g.del.at(i).Key != k {
			t.Fatalf("position %d: got %d, want %d", i, g.del.at(i).Key, k)
		}
	}
}

// TestGuardedQueueRefillCaseC exercises Case C: merging insertion-buffer
// elements <= the top node's max key with the top node, consuming
// exactly one heap node.
func TestGuardedQueueRefillCaseC(t *testing.T) {
	cfg := testConfig()
	g := newGuardedQueue[int, int](cfg, orderedLess[int])
	g.heap.insertNode(makeNode(10, 20, 30, 40))
	g.ins.pushBack(Value[int, int]{Key: 15})
	g.ins.pushBack(Value[int, int]{Key: 50}) // larger than node max, stays in ins
	g.ins.pushBack(Value[int, int]{Key: 5})

	sizeBefore := g.heap.sizeInNodes()
	g.refillDeletionBuffer(orderedLess[int])
	if g.heap.sizeInNodes() != sizeBefore-1 {
		t.Fatalf("refillMerge should consume exactly one heap node: before %d, after %d", sizeBefore, g.heap.sizeInNodes())
	}
	want := []int{5, 10, 15, 20, 30, 40}
	if g.del.len() != len(want) {
		t.Fatalf("del length: got %d, want %d (contents: ins has %d left)", g.del.len(), len(want), g.ins.len())
	}
	for i, k := range want {
		if g.del.at(i).Key != k {
			t.Fatalf("position %d: got %d, want %d", i, g.del.at(i).Key, k)
		}
	}
	if g.ins.len() != 1 || g.ins.values[0].Key != 50 {
		t.Fatalf("50 should remain in insertion buffer, got %v", g.ins.values)
	}
}

// TestGuardedQueueBuffersNeverOverflow is property P5.
func TestGuardedQueueBuffersNeverOverflow(t *testing.T) {
	cfg := testConfig()
	g := newGuardedQueue[int, int](cfg, orderedLess[int])
	for i := 0; i < 500; i++ {
		g.push(Value[int, int]{Key: i}, orderedLess[int])
		if g.ins.len() > cfg.NodeSize {
			t.Fatalf("insertion buffer overflowed: %d > %d", g.ins.len(), cfg.NodeSize)
		}
		if g.del.len() > cfg.DeletionBufferSize {
			t.Fatalf("deletion buffer overflowed: %d > %d", g.del.len(), cfg.DeletionBufferSize)
		}
	}
}

// TestGuardedQueueFlushThenPopMatchesSorted is property P7: flushing a
// full insertion buffer into the heap then immediately draining it
// yields the same multiset as sorting the buffer directly.
func TestGuardedQueueFlushThenPopMatchesSorted(t *testing.T) {
	cfg := testConfig()
	g := newGuardedQueue[int, int](cfg, orderedLess[int])
	keys := []int{7, 3, 9, 1}
	for _, k := range keys {
		g.ins.pushBack(Value[int, int]{Key: k})
	}
	g.flushInsertionBuffer(orderedLess[int])
	got := drainGuarded(g, orderedLess[int])
	want := []int{1, 3, 7, 9}
	for i, k := range want {
		if got[i] != k {
			t.Fatalf("position %d: got %d, want %d", i, got[i], k)
		}
	}
}

// TestGuardedQueueRefillCaseA exercises Case A: the insertion buffer is
// full, so refill flushes it to the heap first, then drains heap nodes
// into the deletion buffer until it is full or the heap is exhausted.
func TestGuardedQueueRefillCaseA(t *testing.T) {
	cfg := testConfig()
	g := newGuardedQueue[int, int](cfg, orderedLess[int])
	g.heap.insertNode(makeNode(100, 101, 102, 103))
	for _, k := range []int{4, 2, 3, 1} {
		g.ins.pushBack(Value[int, int]{Key: k})
	}
	if !g.ins.full() {
		t.Fatal("test setup: insertion buffer should be full")
	}
	g.refillDeletionBuffer(orderedLess[int])
	want := []int{1, 2, 3, 4, 100, 101, 102, 103}
	if g.del.len() != len(want) {
		t.Fatalf("del length: got %d, want %d", g.del.len(), len(want))
	}
	for i, k := range want {
		if g.del.at(i).Key != k {
			t.Fatalf("position %d: got %d, want %d", i, g.del.at(i).Key, k)
		}
	}
	if !g.heap.empty() {
		t.Fatal("heap should be drained")
	}
}

func TestGuardedQueueTryLockMutualExclusion(t *testing.T) {
	cfg := testConfig()
	g := newGuardedQueue[int, int](cfg, orderedLess[int])
	if !g.tryLock() {
		t.Fatal("first tryLock should succeed")
	}
	if g.tryLock() {
		t.Fatal("second tryLock should fail while held")
	}
	g.unlock()
	if !g.tryLock() {
		t.Fatal("tryLock after unlock should succeed")
	}
}
