// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mq

// valueHeap is a plain d-ary min-heap of individual values, as opposed
// to [heap]'s node-granular organization. It backs [SimpleQueue], which
// is grounded on the original source's deletion_buffer_mq — a simpler
// variant that never groups values into fixed-size blocks.
type valueHeap[K any, V any] struct {
	values []Value[K, V]
	degree int
	less   Comparator[K]
}

func newValueHeap[K any, V any](degree int, less Comparator[K]) valueHeap[K, V] {
	return valueHeap[K, V]{degree: degree, less: less}
}

func (h *valueHeap[K, V]) empty() bool { return len(h.values) == 0 }

func (h *valueHeap[K, V]) parent(i int) int     { return (i - 1) / h.degree }
func (h *valueHeap[K, V]) firstChild(i int) int { return i*h.degree + 1 }

func (h *valueHeap[K, V]) insert(v Value[K, V]) {
	h.values = append(h.values, v)
	i := len(h.values) - 1
	for i > 0 {
		p := h.parent(i)
		if !h.less(h.values[i].Key, h.values[p].Key) {
			break
		}
		h.values[i], h.values[p] = h.values[p], h.values[i]
		i = p
	}
}

// extractTop removes and returns the minimum value. Precondition:
// non-empty.
func (h *valueHeap[K, V]) extractTop() Value[K, V] {
	top := h.values[0]
	last := len(h.values) - 1
	h.values[0] = h.values[last]
	var zero Value[K, V]
	h.values[last] = zero
	h.values = h.values[:last]
	if len(h.values) > 0 {
		h.siftDown(0)
	}
	return top
}

func (h *valueHeap[K, V]) siftDown(i int) {
	n := len(h.values)
	for {
		smallest := i
		first := h.firstChild(i)
		for c := first; c < first+h.degree && c < n; c++ {
			if h.less(h.values[c].Key, h.values[smallest].Key) {
				smallest = c
			}
		}
		if smallest == i {
			return
		}
		h.values[i], h.values[smallest] = h.values[smallest], h.values[i]
		i = smallest
	}
}
