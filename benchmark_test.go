// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package chq_test

import (
	"testing"

	"code.hybscloud.com/chq"
)

// =============================================================================
// Single Goroutine
// =============================================================================

func BenchmarkChannel_TryOp(b *testing.B) {
	c := chq.NewChannel[int](1024)

	b.ResetTimer()
	for i := range b.N {
		v := i
		c.TryPush(&v)
		c.TryPop()
	}
}

func BenchmarkChannel_BlockingOp(b *testing.B) {
	c := chq.NewChannel[int](1024)

	b.ResetTimer()
	for i := range b.N {
		v := i
		c.Push(&v, chq.Block)
		c.Pop(chq.Block)
	}
}

func BenchmarkChannel_NonPow2(b *testing.B) {
	c := chq.NewChannel[int](1000)

	b.ResetTimer()
	for i := range b.N {
		v := i
		c.TryPush(&v)
		c.TryPop()
	}
}

// =============================================================================
// Parallel
// =============================================================================

func benchmarkParallel(b *testing.B, c *chq.Channel[int], ws chq.WaitStrategy) {
	if chq.RaceEnabled {
		b.Skip("skip: concurrent slot access")
	}
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		v := 0
		for pb.Next() {
			// Push then pop on the same goroutine keeps the ring from
			// filling, so no caller waits forever.
			c.Push(&v, ws)
			c.Pop(ws)
			v++
		}
	})
}

func BenchmarkChannel_Parallel(b *testing.B) {
	for _, ws := range []chq.WaitStrategy{chq.Spin, chq.Yield, chq.Block} {
		b.Run(ws.String()+"/futex", func(b *testing.B) {
			benchmarkParallel(b, chq.Build[int](chq.New(1024).Futex()), ws)
		})
		b.Run(ws.String()+"/lot", func(b *testing.B) {
			benchmarkParallel(b, chq.Build[int](chq.New(1024).Lot()), ws)
		})
	}
}

func BenchmarkChannel_ParallelTry(b *testing.B) {
	if chq.RaceEnabled {
		b.Skip("skip: concurrent slot access")
	}
	c := chq.NewChannel[int](1024)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		v := 0
		for pb.Next() {
			c.TryPush(&v)
			c.TryPop()
			v++
		}
	})
}

func BenchmarkWaitGroup_PushPop(b *testing.B) {
	var wg chq.WaitGroup

	b.ResetTimer()
	for range b.N {
		wg.Push(1)
		wg.Pop(1)
	}
}
