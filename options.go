// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mq

import "fmt"

// Config holds the interrelated capacity and algorithm constants that the
// source expresses as compile-time template parameters. They are
// validated together at construction since several of them constrain
// each other (see the field comments below).
type Config struct {
	// OverProvision is C: the number of guarded queues allocated per
	// worker thread (Q = C * P). Must be >= 2.
	OverProvision int

	// NodeSize is the number of values held in one heap node, and the
	// capacity of the insertion buffer. Must be a power of two.
	NodeSize int

	// DeletionBufferSize is the capacity of the deletion ring buffer.
	// Must be >= NodeSize + NodeSize (InsertionBufferSize + NodeSize).
	DeletionBufferSize int

	// HeapDegree is the branching factor of the sequential d-ary heap.
	// Must be >= 2.
	HeapDegree int

	// Strategy selects the heap's sift algorithm.
	Strategy SiftStrategy
}

// SiftStrategy selects which sequential-heap sift algorithm a [Config]
// uses. Both satisfy the same between-node heap-order invariant; neither
// is more "correct" than the other.
type SiftStrategy int

const (
	// SiftFullDown sifts from the root, always descending into the
	// child whose minimum key is smallest, then sifts the final slot up.
	SiftFullDown SiftStrategy = iota
	// SiftFullUp sifts the relocated root down the classical way,
	// swapping it with a smaller child one level at a time until no
	// child compares smaller. Insertion sifts up the same way under
	// either strategy.
	SiftFullUp
)

// DefaultConfig returns the configuration the source ships as defaults:
// C=4, NodeSize=8, DeletionBufferSize=16, HeapDegree=4, full-down sift.
func DefaultConfig() Config {
	return Config{
		OverProvision:      4,
		NodeSize:           8,
		DeletionBufferSize: 16,
		HeapDegree:         4,
		Strategy:           SiftFullDown,
	}
}

// Option configures a [Config] produced by [DefaultConfig] before
// construction.
type Option func(*Config)

// WithOverProvision sets C, the per-thread over-provisioning factor.
func WithOverProvision(c int) Option {
	return func(cfg *Config) { cfg.OverProvision = c }
}

// WithNodeSize sets the heap node / insertion buffer capacity.
func WithNodeSize(n int) Option {
	return func(cfg *Config) { cfg.NodeSize = n }
}

// WithDeletionBufferSize sets the deletion ring buffer capacity.
func WithDeletionBufferSize(n int) Option {
	return func(cfg *Config) { cfg.DeletionBufferSize = n }
}

// WithHeapDegree sets the sequential heap's branching factor.
func WithHeapDegree(d int) Option {
	return func(cfg *Config) { cfg.HeapDegree = d }
}

// WithSiftStrategy selects the sequential heap's sift algorithm.
func WithSiftStrategy(s SiftStrategy) Option {
	return func(cfg *Config) { cfg.Strategy = s }
}

// validate checks the interrelated capacity inequality and the
// individual per-field constraints from spec section 6.
func (cfg Config) validate() error {
	if cfg.OverProvision < 2 {
		return fmt.Errorf("mq: OverProvision must be >= 2, got %d", cfg.OverProvision)
	}
	if cfg.NodeSize < 1 || cfg.NodeSize&(cfg.NodeSize-1) != 0 {
		return fmt.Errorf("mq: NodeSize must be a power of two, got %d", cfg.NodeSize)
	}
	if cfg.HeapDegree < 2 {
		return fmt.Errorf("mq: HeapDegree must be >= 2, got %d", cfg.HeapDegree)
	}
	if cfg.DeletionBufferSize < cfg.NodeSize+cfg.NodeSize {
		return fmt.Errorf("mq: DeletionBufferSize (%d) must be >= InsertionBufferSize+NodeSize (%d)",
			cfg.DeletionBufferSize, cfg.NodeSize+cfg.NodeSize)
	}
	// refillDeletionBuffer's Case A drains the heap one whole node at a
	// time with no intermediate capacity check (a node is never split
	// across a refill), so DeletionBufferSize must be an exact multiple
	// of NodeSize or that drain loop can overrun the ring.
	if cfg.DeletionBufferSize%cfg.NodeSize != 0 {
		return fmt.Errorf("mq: DeletionBufferSize (%d) must be a multiple of NodeSize (%d)",
			cfg.DeletionBufferSize, cfg.NodeSize)
	}
	return nil
}

// roundToPow2 rounds n up to the next power of 2. Used by test helpers
// and by any caller that wants to size a hint to a whole number of nodes.
func roundToPow2(n int) int {
	if n < 1 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}
