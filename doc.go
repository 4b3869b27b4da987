// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package mq provides a concurrent relaxed priority queue for
// high-throughput shared-memory parallel workloads, notably parallel
// graph search (Dijkstra, branch-and-bound) and other work-stealing
// patterns that need a many-producer many-consumer priority queue
// without a single global contention point.
//
// The queue exposes two operations to many worker goroutines
// concurrently: Push inserts a value, ExtractTop returns a value whose
// key is approximately minimum. Strict global-minimum ordering is
// deliberately relaxed in exchange for scalability: an extraction can
// return an element whose rank among currently-resident elements is
// small but non-zero.
//
// # Quick Start
//
//	q, err := mq.NewOrdered[int, string](runtime.GOMAXPROCS(0))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	handle := q.GetHandle(workerID)
//
//	q.Push(mq.Value[int, string]{Key: 42, Payload: "answer"})
//
//	v, ok := q.ExtractTop(&handle)
//	if !ok {
//	    // both sampled queues were empty; does not imply q is empty
//	}
//
// # How it works
//
// The queue is internally Q = C*P guarded local queues (P worker
// threads, C an over-provisioning factor, default 4), each one a
// sequential d-ary min-heap of fixed-size sorted Nodes, plus a small
// insertion buffer (recent pushes, unsorted) and a small deletion buffer
// (a sorted, ready-to-return prefix), all mediated by one atomic
// try-lock.
//
// Push picks a uniformly random guarded queue and inserts into it.
// ExtractTop samples two guarded queues — the first biased toward the
// caller's Handle-identified "home block" of C queues for NUMA locality,
// the second uniformly at random — and returns the smaller of their two
// buffered fronts. This two-choice technique gives exponentially better
// worst-case rank error than picking a single random queue, at the cost
// of exact ordering.
//
// # Two Queue Variants
//
// [Queue] is the buffered, locality-aware variant described above — the
// one to reach for by default.
//
// [SimpleQueue] is a lighter sibling with no insertion buffer and no
// locality bias: one heap plus a FIFO buffer per guarded slot, uniform
// global probing only. It trades some throughput for a smaller, simpler
// state machine; reach for it when pushes are immediately followed by
// extracts and the insertion buffer would rarely get to batch anyway.
//
// # Configuration
//
// [DefaultConfig] returns C=4, NodeSize=8, DeletionBufferSize=16,
// HeapDegree=4, full-down sift — the defaults this package is tuned
// around. Override with [Option]s passed to [New]:
//
//	q, err := mq.New[int, string](p, less,
//	    mq.WithNodeSize(16),
//	    mq.WithDeletionBufferSize(32),
//	    mq.WithOverProvision(8),
//	)
//
// The four capacity constants are interrelated — DeletionBufferSize must
// be at least InsertionBufferSize (== NodeSize) plus NodeSize — and are
// validated together at construction; [New] returns an error rather than
// silently clamping an invalid combination.
//
// # Ordering Guarantee
//
// ExtractTop returns a value that was the smallest buffered element of
// some guarded queue at the moment its lock was held — never necessarily
// the global minimum across all Q queues. Fairness between goroutines is
// not guaranteed; an individual Push retry can in principle starve, but
// is bounded in expectation. ExtractTop returns (zero, false) only when
// both of its two samples were empty, which does not imply the queue as
// a whole is empty.
//
// # Concurrency
//
// Push holds at most one guarded queue's lock at a time; ExtractTop
// holds at most two, and never blocks while holding one — if the second
// probe's try-lock fails, it resamples rather than waiting, so no
// circular wait can form. The lock word is a [code.hybscloud.com/atomix]
// Bool: acquire ordering on a successful try-lock, release on unlock.
//
// # Thread Safety
//
// [Queue.Push] and [SimpleQueue.Push] may be called from any number of
// goroutines without a Handle. [Queue.ExtractTop] requires a [Handle];
// distinct handles must be held by distinct goroutines — a Handle's PRNG
// is not synchronized, and sharing one is a data race.
package mq
