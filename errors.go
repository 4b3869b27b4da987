// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mq

import "code.hybscloud.com/iox"

// ErrEmptyProbe indicates that ExtractTop sampled two guarded queues and
// found both of their deletion buffers (and backing heaps/insertion
// buffers) empty.
//
// This is a control flow signal, not a failure: it does not imply the
// multiqueue as a whole is empty, only that the two sampled slots were.
// Callers that need a stronger "truly empty" answer must coordinate an
// out-of-band quiescence barrier.
//
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency with
// the rest of the module's concurrent collections. [Queue.ExtractTop] and
// [SimpleQueue.ExtractTop] report this condition directly as a bool rather
// than through this error, since it is a routine, expected outcome on a
// queue under light load rather than a value worth wrapping in an error
// return; ErrEmptyProbe and [IsEmptyProbe] exist for callers layering their
// own error-returning wrapper around either queue type.
//
// Example:
//
//	v, ok := q.ExtractTop(handle)
//	if !ok {
//	    // resample; two empty slots don't mean the queue is empty
//	}
var ErrEmptyProbe = iox.ErrWouldBlock

// IsEmptyProbe reports whether err indicates an empty-probe extract.
// Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsEmptyProbe(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsSemantic reports whether err is a control flow signal rather than a
// failure. Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}
