// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package mq

// RaceEnabled is true when the race detector is active.
// Used by tests to skip concurrent tests for the atomix-backed guarded
// queue lock, which triggers false positives under the race detector
// because atomix operations look like plain memory accesses to it.
const RaceEnabled = true
