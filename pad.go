// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mq

import "unsafe"

// cacheLineSize is the assumed cache line size used to separate
// frequently-written fields that would otherwise false-share.
const cacheLineSize = 64

// pageSize is the assumed VM page size. Each guarded queue carries a
// page of padding after its fields so that independent queues never
// share a cache line, and touchPagesGeneric walks memory in steps of
// this size.
const pageSize = 4096

// cacheLinePad separates hot fields within a struct.
type cacheLinePad [cacheLineSize]byte

// pagePad is a full page of padding placed after a guarded queue's
// fields; its size does not depend on the fields that precede it.
type pagePad [pageSize]byte

// touchPagesGeneric walks [ptr, ptr+n) one assumed page at a time,
// writing back each page's first byte to itself. This has no observable
// effect on the bytes but forces the kernel to back each page with a
// physical frame, which is all a portable first-touch hint can promise
// without a platform-specific syscall.
func touchPagesGeneric(ptr unsafe.Pointer, n uintptr) {
	if ptr == nil || n == 0 {
		return
	}
	b := unsafe.Slice((*byte)(ptr), n)
	for off := uintptr(0); off < n; off += pageSize {
		b[off] += 0
	}
	last := n - 1
	b[last] += 0
}
