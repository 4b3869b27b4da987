// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mq

import "cmp"

// Value is an ordered pair of a totally-ordered key and its payload.
//
// Values are created by the caller, owned exclusively by whichever
// guarded queue they currently reside in, and transferred by copy to the
// caller on ExtractTop.
type Value[K any, V any] struct {
	Key     K
	Payload V
}

// Comparator reports whether a sorts strictly before b.
//
// It is injected once at construction and held by value by the queue
// and by each sequential heap; the queue passes it as an argument to the
// guarded queue's push and refill methods.
type Comparator[K any] func(a, b K) bool

// orderedLess is the default Comparator for cmp.Ordered keys.
func orderedLess[K cmp.Ordered](a, b K) bool {
	return a < b
}
