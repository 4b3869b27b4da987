// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build unix

package mq

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// touchPages best-effort pre-faults [ptr, ptr+n) by asking the kernel to
// populate it, falling back to a zero-write walk if the platform call
// fails or isn't wired up for the page size in play. This is purely a
// locality hint driven by InitTouch's sizeHint; a failure here never
// surfaces to the caller.
func touchPages(ptr unsafe.Pointer, n uintptr) {
	if ptr == nil || n == 0 {
		return
	}
	b := unsafe.Slice((*byte)(ptr), n)
	if err := unix.Mlock(b); err == nil {
		_ = unix.Munlock(b)
		return
	}
	touchPagesGeneric(ptr, n)
}
