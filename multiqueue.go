// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mq

import (
	"cmp"
	"fmt"

	"code.hybscloud.com/spin"
	"github.com/valyala/fastrand"
)

// Queue is the buffered, locality-aware multiqueue: a collection of
// Q = OverProvision * P guarded local queues, each a sequential d-ary
// node-heap plus an insertion buffer and a deletion buffer, coordinated
// by randomized two-choice probing.
//
// Queue provides approximate-minimum semantics, not exact (linearizable)
// priority ordering: ExtractTop returns the smaller of two independently
// sampled queue fronts, never necessarily the global minimum. See the
// package doc for the full rationale.
//
// A Queue must not be mutated (pushed to or extracted from) concurrently
// with its own construction; once running, all of Push, ExtractTop, and
// InitTouch are safe for concurrent use by many goroutines.
type Queue[K any, V any] struct {
	queues []*guardedQueue[K, V]
	cfg    Config
	less   Comparator[K]
	p      int
}

// Handle carries a caller's thread id so that ExtractTop can bias its
// probing toward that thread's home block of OverProvision queues.
// Distinct handles must be held by distinct goroutines: a Handle's PRNG
// is not synchronized and sharing one across goroutines is a data race.
type Handle struct {
	id  int
	rng fastrand.RNG
}

// New constructs a Queue sized for p worker threads, allocating
// Q = cfg.OverProvision * p guarded queues. p must be >= 1.
//
// less is the comparator and must not be nil; for K's natural ordering
// use [NewOrdered] instead, which requires K to satisfy cmp.Ordered.
func New[K any, V any](p int, less Comparator[K], opts ...Option) (*Queue[K, V], error) {
	if p < 1 {
		panic("mq: p (thread count) must be >= 1")
	}
	if less == nil {
		panic("mq: comparator must not be nil")
	}
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("mq: invalid configuration: %w", err)
	}

	q := cfg.OverProvision * p
	queues := make([]*guardedQueue[K, V], q)
	for i := range queues {
		queues[i] = newGuardedQueue[K, V](cfg, less)
	}
	return &Queue[K, V]{queues: queues, cfg: cfg, less: less, p: p}, nil
}

// NewOrdered is New specialized to K's natural < ordering.
func NewOrdered[K cmp.Ordered, V any](p int, opts ...Option) (*Queue[K, V], error) {
	return New[K, V](p, orderedLess[K], opts...)
}

// GetHandle returns a Handle for worker thread id (0 <= id < p). The
// returned Handle must be held by exactly one goroutine.
func (mq *Queue[K, V]) GetHandle(id int) Handle {
	if id < 0 || id >= mq.p {
		panic("mq: handle id out of range")
	}
	return Handle{id: id}
}

// Push inserts v into the multiqueue. It may be called without a
// Handle — push has no locality bias, so every caller (with or without a
// thread id) probes uniformly at random over all Q queues.
func (mq *Queue[K, V]) Push(v Value[K, V]) {
	rng := getCallerRNG()
	defer putCallerRNG(rng)

	idx := lockGlobal(mq.queues, rng)
	mq.queues[idx].push(v, mq.less)
	mq.queues[idx].unlock()
}

// ExtractTop returns an element whose key is approximately minimum: the
// smaller of two independently-sampled guarded queues' fronts. It
// returns (zero, false) only when both sampled queues were found empty;
// this does not imply the multiqueue as a whole is empty.
//
// handle biases the first sample toward the caller's home block of
// OverProvision queues, falling back to uniform global sampling if every
// local slot is locked. The second sample is always uniform global.
func (mq *Queue[K, V]) ExtractTop(handle *Handle) (Value[K, V], bool) {
	c := mq.cfg.OverProvision
	homeStart := c * handle.id

	firstIdx := lockLocalBiased(mq.queues, &handle.rng, homeStart, c)
	first := mq.queues[firstIdx]
	if first.del.empty() {
		first.refillDeletionBuffer(mq.less)
	}
	firstEmpty := first.del.empty()
	if firstEmpty {
		first.unlock()
	}

	secondIdx := lockGlobalExcept(mq.queues, &handle.rng, firstIdx)
	second := mq.queues[secondIdx]
	if second.del.empty() {
		second.refillDeletionBuffer(mq.less)
	}

	if second.del.empty() {
		second.unlock()
		if firstEmpty {
			var zero Value[K, V]
			return zero, false
		}
		v := first.del.popFront()
		first.unlock()
		return v, true
	}

	if firstEmpty || mq.less(second.del.front().Key, first.del.front().Key) {
		if !firstEmpty {
			first.unlock()
		}
		v := second.del.popFront()
		second.unlock()
		return v, true
	}
	second.unlock()
	v := first.del.popFront()
	first.unlock()
	return v, true
}

// InitTouch pre-faults backing storage over handle's home block of
// OverProvision queues, up to sizeHint nodes each. It has no semantic
// effect; it is a locality hint for first-touch NUMA-local allocation,
// letting the caller warm its own home block ahead of the hot path.
func (mq *Queue[K, V]) InitTouch(handle *Handle, sizeHint int) {
	c := mq.cfg.OverProvision
	homeStart := c * handle.id
	for i := 0; i < c; i++ {
		g := mq.queues[homeStart+i]
		sw := spin.Wait{}
		for !g.tryLock() {
			sw.Once()
		}
		g.heap.initTouch(sizeHint)
		g.unlock()
	}
}

// Len reports the total number of Values resident across every guarded
// queue's heap and buffers. It is not safe for concurrent use with Push
// or ExtractTop: callers must quiesce all workers first, matching the
// base spec's out-of-band barrier requirement for a "truly empty" check.
func (mq *Queue[K, V]) Len() int {
	total := 0
	for _, g := range mq.queues {
		total += g.ins.len() + g.del.len()
		for _, n := range g.heap.nodes {
			total += len(n)
		}
	}
	return total
}
