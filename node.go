// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mq

import "slices"

// node is a sorted block of exactly NodeSize values: the unit the
// sequential heap is organized around. Values within a node are
// non-decreasing by key (spec invariant: node is sorted).
type node[K any, V any] []Value[K, V]

// minKey returns the smallest key in the node. Precondition: non-empty.
func (n node[K, V]) minKey() K {
	return n[0].Key
}

// maxKey returns the largest key in the node. Precondition: non-empty.
func (n node[K, V]) maxKey() K {
	return n[len(n)-1].Key
}

// sortNode sorts n in place by key using the supplied comparator. The
// caller is responsible for ensuring len(n) == NodeSize before the block
// is handed to the heap; sortNode itself has no size precondition so it
// can also be used to sort a to-be-flushed insertion buffer in place.
func sortNode[K any, V any](n node[K, V], less Comparator[K]) {
	slices.SortFunc(n, func(a, b Value[K, V]) int {
		switch {
		case less(a.Key, b.Key):
			return -1
		case less(b.Key, a.Key):
			return 1
		default:
			return 0
		}
	})
}
