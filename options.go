// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package chq

import (
	"code.hybscloud.com/chq/internal/park"
	"golang.org/x/sys/cpu"
)

// Options configures channel creation.
type Options struct {
	// Capacity in slots (exact, not rounded)
	capacity int

	// Default strategy for TimedPush/TimedPop
	strategy WaitStrategy

	// Parking backend; nil selects the platform default
	parker park.Parker
}

// Builder creates channels with fluent configuration.
//
// Example:
//
//	// Defaults: Block strategy, platform parker
//	c := chq.Build[Request](chq.New(4096))
//
//	// Spin-only timed operations on a portable parking lot
//	c := chq.Build[Event](chq.New(1000).Strategy(chq.Spin).Lot())
type Builder struct {
	opts Options
}

// New creates a channel builder with the given capacity.
//
// Capacity is exact: New(1000) holds at most 1000 values. Power-of-2
// capacities index slots with a mask, others with a modulo.
//
// Panics if capacity < 1.
func New(capacity int) *Builder {
	if capacity < 1 {
		panic("chq: capacity must be >= 1")
	}
	return &Builder{opts: Options{capacity: capacity, strategy: Block}}
}

// Strategy sets the wait strategy used by TimedPush and TimedPop.
// Push and Pop take their strategy per call.
func (b *Builder) Strategy(ws WaitStrategy) *Builder {
	b.opts.strategy = ws
	return b
}

// Futex parks waiters on the kernel futex where the platform has one.
// Elsewhere it falls back to the shared parking lot.
func (b *Builder) Futex() *Builder {
	b.opts.parker = park.Futex()
	return b
}

// Lot parks waiters on a parking lot private to the channel.
func (b *Builder) Lot() *Builder {
	b.opts.parker = park.NewLot()
	return b
}

// Build creates a Channel[T] from the builder configuration.
func Build[T any](b *Builder) *Channel[T] {
	p := b.opts.parker
	if p == nil {
		p = park.Default()
	}
	return newChannel[T](b.opts.capacity, b.opts.strategy, p)
}

// NewChannel creates a channel with the given capacity and default options.
//
// Panics if capacity < 1.
func NewChannel[T any](capacity int) *Channel[T] {
	return newChannel[T](capacity, Block, park.Default())
}

func isPow2(n uint64) bool {
	return n&(n-1) == 0
}

// pad is cache line padding to prevent false sharing.
type pad = cpu.CacheLinePad
