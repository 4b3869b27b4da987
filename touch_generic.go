// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !unix

package mq

import "unsafe"

// touchPages is the portable fallback: walk the range one assumed page at
// a time, touching one byte per page, to fault it into this goroutine's
// NUMA node ahead of the hot path.
func touchPages(ptr unsafe.Pointer, n uintptr) {
	touchPagesGeneric(ptr, n)
}
