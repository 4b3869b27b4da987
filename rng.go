// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mq

import (
	"sync"

	"github.com/valyala/fastrand"
)

// rngPool supplies the PRNG instance for an unhandled call site (push
// has no Handle to carry locality or PRNG state). It is a pool so that each concurrent caller gets its own generator without the
// cost of allocating and seeding one per call; no state is shared across
// overlapping calls holding the same pooled instance.
var rngPool = sync.Pool{
	New: func() any { return new(fastrand.RNG) },
}

// getCallerRNG checks out a pooled, unshared PRNG instance. Pair every
// call with putCallerRNG once the caller is done with it.
func getCallerRNG() *fastrand.RNG {
	return rngPool.Get().(*fastrand.RNG)
}

func putCallerRNG(rng *fastrand.RNG) {
	rngPool.Put(rng)
}

// reduce maps a uniformly-random uint32 onto [0, n) using Lemire's
// multiply-shift reduction, avoiding the division cost of x % n. Like
// x % n, it is slightly biased when n does not divide 2^32.
func reduce(x uint32, n int) int {
	return int((uint64(x) * uint64(n)) >> 32)
}

// randomGlobalIndex returns a uniform random index in [0, q).
func randomGlobalIndex(rng *fastrand.RNG, q int) int {
	return reduce(rng.Uint32(), q)
}

// randomLocalOffset returns a uniform random offset in [0, c).
func randomLocalOffset(rng *fastrand.RNG, c int) int {
	return reduce(rng.Uint32(), c)
}
