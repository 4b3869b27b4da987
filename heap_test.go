// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mq

import "testing"

// drainNodes pops every node off h and flattens them into a single slice
// of keys, in the order popTopNode returns them.
func drainNodes[V any](h *heap[int, V]) []int {
	var keys []int
	for !h.empty() {
		for _, v := range h.popTopNode() {
			keys = append(keys, v.Key)
		}
	}
	return keys
}

func makeNode(keys ...int) node[int, int] {
	n := make(node[int, int], len(keys))
	for i, k := range keys {
		n[i] = Value[int, int]{Key: k, Payload: k}
	}
	return n
}

func testHeapOrder(t *testing.T, strat SiftStrategy) {
	t.Helper()
	h := newHeap[int, int](4, orderedLess[int], strat)
	blocks := [][]int{
		{40, 41, 42, 43},
		{0, 1, 2, 3},
		{20, 21, 22, 23},
		{60, 61, 62, 63},
		{10, 11, 12, 13},
	}
	for _, b := range blocks {
		h.insertNode(makeNode(b...))
	}
	got := drainNodes(h)
	want := []int{0, 1, 2, 3, 10, 11, 12, 13, 20, 21, 22, 23, 40, 41, 42, 43, 60, 61, 62, 63}
	if len(got) != len(want) {
		t.Fatalf("drained %d keys, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d: got %d, want %d (full: %v)", i, got[i], want[i], got)
		}
	}
}

func TestHeapOrderFullDown(t *testing.T) {
	testHeapOrder(t, SiftFullDown)
}

func TestHeapOrderFullUp(t *testing.T) {
	testHeapOrder(t, SiftFullUp)
}

func TestHeapEmptyInitially(t *testing.T) {
	h := newHeap[int, int](4, orderedLess[int], SiftFullDown)
	if !h.empty() {
		t.Fatal("new heap should be empty")
	}
	if h.sizeInNodes() != 0 {
		t.Fatalf("sizeInNodes: got %d, want 0", h.sizeInNodes())
	}
}

func TestHeapDegreeTwo(t *testing.T) {
	h := newHeap[int, int](2, orderedLess[int], SiftFullDown)
	for i := 9; i >= 0; i-- {
		h.insertNode(makeNode(i))
	}
	got := drainNodes(h)
	for i := 1; i < len(got); i++ {
		if got[i-1] > got[i] {
			t.Fatalf("not sorted at %d: %v", i, got)
		}
	}
	if len(got) != 10 {
		t.Fatalf("got %d keys, want 10", len(got))
	}
}

func TestHeapInitTouchGrowsCapacity(t *testing.T) {
	h := newHeap[int, int](4, orderedLess[int], SiftFullDown)
	h.initTouch(64)
	if cap(h.nodes) < 64 {
		t.Fatalf("cap after initTouch: got %d, want >= 64", cap(h.nodes))
	}
	h.insertNode(makeNode(1))
	if h.sizeInNodes() != 1 {
		t.Fatalf("sizeInNodes after insert: got %d, want 1", h.sizeInNodes())
	}
}
