// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mq

import (
	"cmp"

	"code.hybscloud.com/atomix"
	"github.com/valyala/fastrand"
)

// SimpleQueue is the lighter-weight sibling of [Queue]: one sequential
// value-granular heap and one FIFO buffer per guarded slot, with no
// insertion buffer and no locality-biased probing. It is grounded on the
// original source's plainer deletion_buffer_mq variant, supplementing
// the buffered/NUMA-aware queue [Queue] targets.
//
// Use SimpleQueue when the insertion-buffer amortization isn't worth the
// extra bookkeeping — e.g. low-throughput workloads, or workloads where
// every push is immediately followed by an extract (the buffer never has
// a chance to batch anyway).
type SimpleQueue[K any, V any] struct {
	slots []*simpleSlot[K, V]
	less  Comparator[K]
}

const simpleBufferSize = 16

type simpleSlot[K any, V any] struct {
	inUse atomix.Bool
	vheap valueHeap[K, V]
	buf   []Value[K, V]
	bufN  int
	_     pagePad
}

func (s *simpleSlot[K, V]) tryLock() bool     { return s.inUse.CompareAndSwapAcqRel(false, true) }
func (s *simpleSlot[K, V]) unlock()           { s.inUse.StoreRelease(false) }
func (s *simpleSlot[K, V]) bufferEmpty() bool { return s.bufN == 0 }

// refillBuffer pulls up to simpleBufferSize values off the heap in
// increasing key order, refilling the FIFO buffer from scratch.
// Precondition: bufferEmpty.
func (s *simpleSlot[K, V]) refillBuffer() {
	n := 0
	for n < simpleBufferSize && !s.vheap.empty() {
		s.buf[n] = s.vheap.extractTop()
		n++
	}
	s.bufN = n
}

// popFront removes and returns the buffer's front element, shifting the
// remaining elements down.
func (s *simpleSlot[K, V]) popFront() Value[K, V] {
	v := s.buf[0]
	copy(s.buf[:s.bufN-1], s.buf[1:s.bufN])
	s.bufN--
	return v
}

// NewSimple constructs a SimpleQueue sized for p worker threads. Unlike
// [New], there is no separate OverProvision option here: the source's
// deletion_buffer_mq always uses C=4, which NewSimple fixes directly.
func NewSimple[K any, V any](p int, less Comparator[K]) (*SimpleQueue[K, V], error) {
	if p < 1 {
		panic("mq: p (thread count) must be >= 1")
	}
	if less == nil {
		panic("mq: comparator must not be nil")
	}
	const c = 4
	slots := make([]*simpleSlot[K, V], c*p)
	for i := range slots {
		slots[i] = &simpleSlot[K, V]{
			vheap: newValueHeap[K, V](4, less),
			buf:   make([]Value[K, V], simpleBufferSize),
		}
	}
	return &SimpleQueue[K, V]{slots: slots, less: less}, nil
}

// NewSimpleOrdered is NewSimple specialized to K's natural < ordering.
func NewSimpleOrdered[K cmp.Ordered, V any](p int) (*SimpleQueue[K, V], error) {
	return NewSimple[K, V](p, orderedLess[K])
}

func lockSimpleGlobal[K any, V any](slots []*simpleSlot[K, V], rng *fastrand.RNG) int {
	for {
		idx := randomGlobalIndex(rng, len(slots))
		if slots[idx].tryLock() {
			return idx
		}
	}
}

// Push inserts v, probing uniformly at random over all slots.
func (sq *SimpleQueue[K, V]) Push(v Value[K, V]) {
	rng := getCallerRNG()
	defer putCallerRNG(rng)

	idx := lockSimpleGlobal(sq.slots, rng)
	sq.slots[idx].vheap.insert(v)
	sq.slots[idx].unlock()
}

// ExtractTop mirrors the original deletion_buffer_mq two-attempt extract
// loop: sample a slot, refill its buffer if needed; if still empty on
// the second attempt, fail. Otherwise hold its lock and compare against
// a second uniformly-sampled slot, returning the smaller front.
func (sq *SimpleQueue[K, V]) ExtractTop() (Value[K, V], bool) {
	rng := getCallerRNG()
	defer putCallerRNG(rng)

	var firstIdx int
	for count := 0; count < 2; count++ {
		firstIdx = lockSimpleGlobal(sq.slots, rng)
		first := sq.slots[firstIdx]
		if first.bufferEmpty() {
			first.refillBuffer()
		}
		if !first.bufferEmpty() {
			break
		}
		first.unlock()
		if count == 1 {
			var zero Value[K, V]
			return zero, false
		}
	}

	first := sq.slots[firstIdx]
	var secondIdx int
	for {
		secondIdx = randomGlobalIndex(rng, len(sq.slots))
		if secondIdx == firstIdx {
			continue
		}
		if sq.slots[secondIdx].tryLock() {
			break
		}
	}
	second := sq.slots[secondIdx]
	if second.bufferEmpty() {
		second.refillBuffer()
	}

	if !second.bufferEmpty() && sq.less(second.buf[0].Key, first.buf[0].Key) {
		first.unlock()
		v := second.popFront()
		if second.bufferEmpty() {
			second.refillBuffer()
		}
		second.unlock()
		return v, true
	}
	second.unlock()
	v := first.popFront()
	if first.bufferEmpty() {
		first.refillBuffer()
	}
	first.unlock()
	return v, true
}
