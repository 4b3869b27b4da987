// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mq

import (
	"code.hybscloud.com/spin"
	"github.com/valyala/fastrand"
)

// lockGlobal repeatedly samples a uniform random index in [0, q) and
// tries to lock it, until one succeeds. There is no bounded retry count:
// with Q >= 2P and uniform sampling, the expected number of probes to
// success is O(1) under moderate contention.
func lockGlobal[K any, V any](queues []*guardedQueue[K, V], rng *fastrand.RNG) int {
	sw := spin.Wait{}
	for {
		idx := randomGlobalIndex(rng, len(queues))
		if queues[idx].tryLock() {
			return idx
		}
		sw.Once()
	}
}

// lockGlobalExcept is lockGlobal but re-rolls if it would return avoid,
// used by extract's second probe so L2 is never the same slot as L1.
func lockGlobalExcept[K any, V any](queues []*guardedQueue[K, V], rng *fastrand.RNG, avoid int) int {
	sw := spin.Wait{}
	for {
		idx := randomGlobalIndex(rng, len(queues))
		if idx == avoid {
			continue
		}
		if queues[idx].tryLock() {
			return idx
		}
		sw.Once()
	}
}

// lockLocalBiased implements the locality-biased extract probe: it walks
// the caller's home block [c*id, c*id+c) starting from a random offset,
// with wraparound, trying each slot. If the last local attempt also
// fails, it escalates to uniform global probing.
//
// The source's loop escalates on a literal "i == 3" that only happens to
// coincide with "last local attempt" because its default C is 4. Here it
// is parameterized as i == c-1, the resolved form of the spec's Open
// Question so that changing OverProvision doesn't silently break the
// escalation point.
func lockLocalBiased[K any, V any](queues []*guardedQueue[K, V], rng *fastrand.RNG, homeStart, c int) int {
	start := randomLocalOffset(rng, c)
	for i := 0; i < c-1; i++ {
		idx := homeStart + (start+i)%c
		if queues[idx].tryLock() {
			return idx
		}
	}
	if idx := homeStart + (start+c-1)%c; queues[idx].tryLock() {
		return idx
	}
	return lockGlobal(queues, rng)
}
